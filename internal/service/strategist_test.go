package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/mkral/adpilot/internal/domain"
	"github.com/mkral/adpilot/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newStrategistService(t *testing.T) (*StrategistService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewStrategistService(repository.NewActionRepository(db), newTestLogger()), db
}

func insight(campaignID string, insightType domain.InsightType, severity domain.Severity) domain.Insight {
	return domain.Insight{
		ID:          uuid.New().String(),
		AgentRunID:  "run-1",
		CampaignID:  campaignID,
		InsightType: insightType,
		Metric:      domain.MetricROAS,
		Severity:    severity,
	}
}

func TestDecide_HighDropWinsOverOpportunity(t *testing.T) {
	svc, _ := newStrategistService(t)

	actions, err := svc.Decide(context.Background(), "run-1", []domain.Insight{
		insight("c1", domain.InsightTypeOpportunity, domain.SeverityHigh),
		insight("c1", domain.InsightTypeDrop, domain.SeverityHigh),
	})
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, domain.ActionTypeFix, actions[0].ActionType)
	assert.Equal(t, domain.SeverityHigh, actions[0].Priority)
	assert.Equal(t, "High severity performance drop detected - requires investigation", actions[0].Description)
}

func TestDecide_OpportunityWithoutDropScales(t *testing.T) {
	svc, _ := newStrategistService(t)

	actions, err := svc.Decide(context.Background(), "run-1", []domain.Insight{
		insight("c1", domain.InsightTypeOpportunity, domain.SeverityMedium),
	})
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, domain.ActionTypeScale, actions[0].ActionType)
	assert.Equal(t, domain.SeverityHigh, actions[0].Priority)
	assert.Equal(t, "Strong performance - recommend scaling budget", actions[0].Description)
}

func TestDecide_MixedSignalsTest(t *testing.T) {
	svc, _ := newStrategistService(t)

	// Medium drop plus opportunity: not a fix (no high drop), not a scale
	// (a drop coexists), so test.
	actions, err := svc.Decide(context.Background(), "run-1", []domain.Insight{
		insight("c1", domain.InsightTypeDrop, domain.SeverityMedium),
		insight("c1", domain.InsightTypeOpportunity, domain.SeverityHigh),
	})
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, domain.ActionTypeTest, actions[0].ActionType)
	assert.Equal(t, domain.SeverityMedium, actions[0].Priority)
	assert.Equal(t, "Mixed signals - recommend testing new creative variants", actions[0].Description)
}

func TestDecide_MediumDropAloneNoAction(t *testing.T) {
	svc, _ := newStrategistService(t)

	actions, err := svc.Decide(context.Background(), "run-1", []domain.Insight{
		insight("c1", domain.InsightTypeDrop, domain.SeverityMedium),
	})
	require.NoError(t, err)
	assert.Empty(t, actions)
}

func TestDecide_OneActionPerCampaign(t *testing.T) {
	svc, db := newStrategistService(t)
	ctx := context.Background()

	actions, err := svc.Decide(ctx, "run-1", []domain.Insight{
		insight("c1", domain.InsightTypeDrop, domain.SeverityHigh),
		insight("c1", domain.InsightTypeDrop, domain.SeverityHigh),
		insight("c2", domain.InsightTypeOpportunity, domain.SeverityMedium),
		insight("c3", domain.InsightTypeDrop, domain.SeverityMedium),
	})
	require.NoError(t, err)
	require.Len(t, actions, 2)
	assert.Equal(t, "c1", actions[0].CampaignID)
	assert.Equal(t, domain.ActionTypeFix, actions[0].ActionType)
	assert.Equal(t, "c2", actions[1].CampaignID)
	assert.Equal(t, domain.ActionTypeScale, actions[1].ActionType)

	// Persisted with pending status for the approval workflow.
	stored, err := repository.NewActionRepository(db).ListByRun(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, stored, 2)
	for _, action := range stored {
		assert.Equal(t, domain.ActionStatusPending, action.Status)
		assert.Equal(t, "run-1", action.AgentRunID)
	}
}

func TestDecide_NoInsights(t *testing.T) {
	svc, _ := newStrategistService(t)

	actions, err := svc.Decide(context.Background(), "run-1", nil)
	require.NoError(t, err)
	assert.Empty(t, actions)
}
