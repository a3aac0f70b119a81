package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mkral/adpilot/internal/domain"
	"github.com/mkral/adpilot/internal/logger"
	"github.com/mkral/adpilot/internal/repository"
)

// StrategistService derives at most one recommended action per campaign from
// its grouped insights, via a fixed, ordered decision table.
type StrategistService struct {
	actionRepo *repository.ActionRepository
	logger     *logger.Logger
}

// NewStrategistService creates a new strategist service.
func NewStrategistService(actionRepo *repository.ActionRepository, log *logger.Logger) *StrategistService {
	return &StrategistService{actionRepo: actionRepo, logger: log}
}

// Decide evaluates the decision table per campaign and persists the resulting
// actions under runID. Rules are mutually exclusive, first match wins:
//
//  1. any high-severity drop            -> fix, high priority
//  2. opportunity and no drop at all    -> scale, high priority
//  3. opportunity with a coexisting drop -> test, medium priority
//  4. otherwise                          -> no action
func (s *StrategistService) Decide(ctx context.Context, runID string, insights []domain.Insight) ([]domain.Action, error) {
	byCampaign := make(map[string][]domain.Insight)
	var order []string
	for _, insight := range insights {
		if _, ok := byCampaign[insight.CampaignID]; !ok {
			order = append(order, insight.CampaignID)
		}
		byCampaign[insight.CampaignID] = append(byCampaign[insight.CampaignID], insight)
	}

	var actions []domain.Action
	for _, campaignID := range order {
		if action, ok := s.decideCampaign(runID, campaignID, byCampaign[campaignID]); ok {
			actions = append(actions, action)
		}
	}

	if err := s.actionRepo.CreateBatch(ctx, actions); err != nil {
		return nil, fmt.Errorf("failed to persist actions: %w", err)
	}

	logger.With(logger.Fields{
		logger.FieldRunID: runID,
		"campaigns":       len(byCampaign),
		"actions":         len(actions),
	}).Info(ctx, "Decision stage finished")

	return actions, nil
}

func (s *StrategistService) decideCampaign(runID, campaignID string, insights []domain.Insight) (domain.Action, bool) {
	var hasDrop, hasOpportunity, hasHighDrop bool
	for _, insight := range insights {
		switch insight.InsightType {
		case domain.InsightTypeDrop:
			hasDrop = true
			if insight.Severity == domain.SeverityHigh {
				hasHighDrop = true
			}
		case domain.InsightTypeOpportunity:
			hasOpportunity = true
		}
	}

	switch {
	case hasHighDrop:
		return s.newAction(runID, campaignID, domain.ActionTypeFix, domain.SeverityHigh,
			"High severity performance drop detected - requires investigation"), true
	case hasOpportunity && !hasDrop:
		return s.newAction(runID, campaignID, domain.ActionTypeScale, domain.SeverityHigh,
			"Strong performance - recommend scaling budget"), true
	case hasOpportunity:
		return s.newAction(runID, campaignID, domain.ActionTypeTest, domain.SeverityMedium,
			"Mixed signals - recommend testing new creative variants"), true
	default:
		return domain.Action{}, false
	}
}

func (s *StrategistService) newAction(runID, campaignID string, actionType domain.ActionType, priority domain.Severity, description string) domain.Action {
	return domain.Action{
		ID:          uuid.New().String(),
		AgentRunID:  runID,
		CampaignID:  campaignID,
		ActionType:  actionType,
		Description: description,
		Priority:    priority,
		Status:      domain.ActionStatusPending,
	}
}
