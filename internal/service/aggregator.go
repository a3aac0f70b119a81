package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/mkral/adpilot/internal/domain"
)

// AggregatorService merges a run's insights, actions, and creatives into one
// report with count breakdowns and a one-sentence summary.
type AggregatorService struct{}

// NewAggregatorService creates a new aggregator service.
func NewAggregatorService() *AggregatorService {
	return &AggregatorService{}
}

// Aggregate builds the report for one run. The summary is an ordered list of
// clauses (drops, opportunities, scale recommendations, tests), each included
// only when its count is positive, joined with ". "; with no qualifying
// clause the summary is "No significant changes detected.".
func (s *AggregatorService) Aggregate(runID string, insights []domain.Insight, actions []domain.Action, creatives []domain.Creative) *domain.Report {
	insightCounts := make(map[string]int)
	for _, insight := range insights {
		insightCounts[string(insight.InsightType)]++
	}

	actionCounts := make(map[string]int)
	for _, action := range actions {
		actionCounts[string(action.ActionType)]++
	}

	var parts []string
	if n := insightCounts[string(domain.InsightTypeDrop)]; n > 0 {
		parts = append(parts, fmt.Sprintf("%d performance drop(s) detected", n))
	}
	if n := insightCounts[string(domain.InsightTypeOpportunity)]; n > 0 {
		parts = append(parts, fmt.Sprintf("%d opportunity(ies) identified", n))
	}
	if n := actionCounts[string(domain.ActionTypeScale)]; n > 0 {
		parts = append(parts, fmt.Sprintf("%d scaling recommendation(s)", n))
	}
	if n := actionCounts[string(domain.ActionTypeTest)]; n > 0 {
		parts = append(parts, fmt.Sprintf("%d test(s) recommended", n))
	}

	summary := "No significant changes detected."
	if len(parts) > 0 {
		summary = strings.Join(parts, ". ")
	}

	return &domain.Report{
		RunID:     runID,
		RunDate:   time.Now().UTC().Format(time.RFC3339),
		Summary:   summary,
		Insights:  insights,
		Actions:   actions,
		Creatives: creatives,
		Metrics: domain.ReportMetrics{
			TotalInsights:    len(insights),
			TotalActions:     len(actions),
			TotalCreatives:   len(creatives),
			InsightBreakdown: insightCounts,
			ActionBreakdown:  actionCounts,
		},
	}
}
