package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mkral/adpilot/internal/config"
	"github.com/mkral/adpilot/internal/domain"
	"github.com/mkral/adpilot/internal/logger"
	"github.com/mkral/adpilot/internal/repository"
)

// AgentService orchestrates the weekly analysis pipeline: analytics, then
// decisions, then content, then the report. Each stage commits its own writes,
// so a failure in a later stage leaves earlier stages' rows in place.
type AgentService struct {
	runRepo    *repository.RunRepository
	analytics  *AnalyticsService
	strategist *StrategistService
	content    *ContentService
	aggregator *AggregatorService
	cfg        config.AgentConfig
	logger     *logger.Logger
}

// NewAgentService creates a new agent service.
func NewAgentService(
	runRepo *repository.RunRepository,
	analytics *AnalyticsService,
	strategist *StrategistService,
	content *ContentService,
	aggregator *AggregatorService,
	cfg config.AgentConfig,
	log *logger.Logger,
) *AgentService {
	return &AgentService{
		runRepo:    runRepo,
		analytics:  analytics,
		strategist: strategist,
		content:    content,
		aggregator: aggregator,
		cfg:        cfg,
		logger:     log,
	}
}

// runState carries the pipeline's intermediate results between stages.
type runState struct {
	insights  []domain.Insight
	actions   []domain.Action
	creatives []domain.Creative
	report    *domain.Report
}

// RunWeekly executes one weekly pipeline run and returns the finished run
// record. The run row is created with status=running before any stage starts,
// flips to completed with the report as output on success, or to failed with
// the stage error message. Either way CompletedAt is set exactly once.
func (s *AgentService) RunWeekly(ctx context.Context) (*domain.AgentRun, error) {
	run := &domain.AgentRun{
		ID:        uuid.New().String(),
		RunType:   domain.RunTypeWeekly,
		Status:    domain.RunStatusRunning,
		StartedAt: time.Now().UTC(),
		InputParams: domain.JSON{
			"days_back":       s.cfg.DaysBack,
			"comparison_days": s.cfg.ComparisonDays,
		},
	}
	if err := s.runRepo.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to create agent run: %w", err)
	}

	ctx = logger.WithFields(ctx, logger.Fields{logger.FieldRunID: run.ID})
	logger.CtxInfo(ctx, "Weekly run started")

	state := &runState{}
	stages := []struct {
		name string
		fn   func(context.Context, *runState) error
	}{
		{"analyze", s.stageAnalyze(run.ID)},
		{"decide", s.stageDecide(run.ID)},
		{"create_content", s.stageContent(run.ID)},
		{"aggregate", s.stageAggregate(run.ID)},
	}

	for _, stage := range stages {
		if err := stage.fn(ctx, state); err != nil {
			s.failRun(ctx, run, stage.name, err)
			return run, fmt.Errorf("stage %s failed: %w", stage.name, err)
		}
	}

	output, err := reportToJSON(state.report)
	if err != nil {
		s.failRun(ctx, run, "aggregate", err)
		return run, fmt.Errorf("stage aggregate failed: %w", err)
	}

	now := time.Now().UTC()
	run.Status = domain.RunStatusCompleted
	run.CompletedAt = &now
	run.Output = output
	if err := s.runRepo.Update(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to finalize agent run: %w", err)
	}

	logger.With(logger.Fields{
		"insights":  len(state.insights),
		"actions":   len(state.actions),
		"creatives": len(state.creatives),
	}).Info(ctx, "Weekly run completed")

	return run, nil
}

func (s *AgentService) stageAnalyze(runID string) func(context.Context, *runState) error {
	return func(ctx context.Context, st *runState) error {
		// Windows cover whole days ending at today's midnight, so the
		// in-progress day never enters the current window.
		endDate := truncateToDate(time.Now().UTC())
		insights, err := s.analytics.Analyze(ctx, runID, endDate, s.cfg.ComparisonDays)
		if err != nil {
			return err
		}
		st.insights = insights
		return nil
	}
}

func (s *AgentService) stageDecide(runID string) func(context.Context, *runState) error {
	return func(ctx context.Context, st *runState) error {
		actions, err := s.strategist.Decide(ctx, runID, st.insights)
		if err != nil {
			return err
		}
		st.actions = actions
		return nil
	}
}

func (s *AgentService) stageContent(runID string) func(context.Context, *runState) error {
	return func(ctx context.Context, st *runState) error {
		creatives, err := s.content.CreateCreatives(ctx, runID, st.actions)
		if err != nil {
			return err
		}
		st.creatives = creatives
		return nil
	}
}

func (s *AgentService) stageAggregate(runID string) func(context.Context, *runState) error {
	return func(_ context.Context, st *runState) error {
		st.report = s.aggregator.Aggregate(runID, st.insights, st.actions, st.creatives)
		return nil
	}
}

// failRun marks the run failed. The marker update uses its own error path so a
// storage failure while failing does not mask the stage error.
func (s *AgentService) failRun(ctx context.Context, run *domain.AgentRun, stage string, stageErr error) {
	now := time.Now().UTC()
	run.Status = domain.RunStatusFailed
	run.CompletedAt = &now
	run.ErrorMessage = stageErr.Error()

	if err := s.runRepo.Update(ctx, run); err != nil {
		logger.FromContext(ctx).WithError(err).Error("Failed to mark run as failed")
	}

	logger.With(logger.Fields{"stage": stage}).Error(ctx, "Weekly run failed: %v", stageErr)
}

// reportToJSON converts the report through a JSON round trip so the stored
// output matches the API representation field for field.
func reportToJSON(report *domain.Report) (domain.JSON, error) {
	b, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	var out domain.JSON
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	return out, nil
}
