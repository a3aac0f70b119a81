package service

import (
	"testing"

	"github.com/mkral/adpilot/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestAggregate_SummaryClauses(t *testing.T) {
	svc := NewAggregatorService()

	insights := []domain.Insight{
		{InsightType: domain.InsightTypeDrop},
		{InsightType: domain.InsightTypeDrop},
		{InsightType: domain.InsightTypeOpportunity},
	}
	actions := []domain.Action{
		{ActionType: domain.ActionTypeFix},
		{ActionType: domain.ActionTypeScale},
		{ActionType: domain.ActionTypeTest},
	}
	creatives := []domain.Creative{{}}

	report := svc.Aggregate("run-1", insights, actions, creatives)

	assert.Equal(t, "run-1", report.RunID)
	assert.Equal(t, "2 performance drop(s) detected. 1 opportunity(ies) identified. 1 scaling recommendation(s). 1 test(s) recommended", report.Summary)
	assert.Equal(t, 3, report.Metrics.TotalInsights)
	assert.Equal(t, 3, report.Metrics.TotalActions)
	assert.Equal(t, 1, report.Metrics.TotalCreatives)
	assert.Equal(t, map[string]int{"drop": 2, "opportunity": 1}, report.Metrics.InsightBreakdown)
	assert.Equal(t, map[string]int{"fix": 1, "scale": 1, "test": 1}, report.Metrics.ActionBreakdown)
	assert.NotEmpty(t, report.RunDate)
}

func TestAggregate_PartialClauses(t *testing.T) {
	svc := NewAggregatorService()

	report := svc.Aggregate("run-1",
		[]domain.Insight{{InsightType: domain.InsightTypeOpportunity}},
		[]domain.Action{{ActionType: domain.ActionTypeScale}},
		nil,
	)
	assert.Equal(t, "1 opportunity(ies) identified. 1 scaling recommendation(s)", report.Summary)
}

func TestAggregate_FixActionsNotInSummary(t *testing.T) {
	svc := NewAggregatorService()

	// Fix actions carry no summary clause of their own; only their drop
	// insights appear.
	report := svc.Aggregate("run-1",
		[]domain.Insight{{InsightType: domain.InsightTypeDrop}},
		[]domain.Action{{ActionType: domain.ActionTypeFix}},
		nil,
	)
	assert.Equal(t, "1 performance drop(s) detected", report.Summary)
	assert.Equal(t, map[string]int{"fix": 1}, report.Metrics.ActionBreakdown)
}

func TestAggregate_NoChanges(t *testing.T) {
	svc := NewAggregatorService()

	report := svc.Aggregate("run-1", nil, nil, nil)
	assert.Equal(t, "No significant changes detected.", report.Summary)
	assert.Zero(t, report.Metrics.TotalInsights)
	assert.Empty(t, report.Metrics.InsightBreakdown)
	assert.Empty(t, report.Metrics.ActionBreakdown)
}
