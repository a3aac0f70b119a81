package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mkral/adpilot/internal/config"
	"github.com/mkral/adpilot/internal/domain"
	"github.com/mkral/adpilot/internal/logger"
	"github.com/mkral/adpilot/internal/repository"
)

// AnalyticsService aggregates daily metrics over date windows and compares
// adjacent windows per campaign, emitting classified insights.
type AnalyticsService struct {
	metricRepo  *repository.MetricRepository
	insightRepo *repository.InsightRepository
	cfg         config.AgentConfig
	logger      *logger.Logger
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(
	metricRepo *repository.MetricRepository,
	insightRepo *repository.InsightRepository,
	cfg config.AgentConfig,
	log *logger.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		metricRepo:  metricRepo,
		insightRepo: insightRepo,
		cfg:         cfg,
		logger:      log,
	}
}

// Aggregate sums daily metrics per campaign over the half-open interval
// [start, end), any source, and derives the ratio metrics. Every zero
// denominator yields a 0 ratio, never an error.
func (s *AnalyticsService) Aggregate(ctx context.Context, start, end time.Time) (map[string]*domain.CampaignWindow, error) {
	metrics, err := s.metricRepo.ListByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load metrics for window: %w", err)
	}

	windows := make(map[string]*domain.CampaignWindow)
	for _, m := range metrics {
		w, ok := windows[m.CampaignID]
		if !ok {
			w = &domain.CampaignWindow{CampaignID: m.CampaignID}
			windows[m.CampaignID] = w
		}
		w.Impressions += m.Impressions
		w.Clicks += m.Clicks
		w.Spend += m.Spend
		w.Conversions += m.Conversions
		w.Revenue += m.Revenue
	}

	for _, w := range windows {
		if w.Spend > 0 {
			w.ROAS = w.Revenue / w.Spend
		}
		if w.Impressions > 0 {
			w.CTR = float64(w.Clicks) / float64(w.Impressions) * 100
		}
		if w.Clicks > 0 {
			w.CPC = w.Spend / float64(w.Clicks)
			w.ConversionRate = float64(w.Conversions) / float64(w.Clicks) * 100
		}
	}

	return windows, nil
}

// Analyze compares the current window [end-comparisonDays, end) against the
// previous window [end-2*comparisonDays, end-comparisonDays) per campaign and
// persists the resulting insights under runID.
func (s *AnalyticsService) Analyze(ctx context.Context, runID string, endDate time.Time, comparisonDays int) ([]domain.Insight, error) {
	currentStart := endDate.AddDate(0, 0, -comparisonDays)
	previousStart := endDate.AddDate(0, 0, -2*comparisonDays)

	current, err := s.Aggregate(ctx, currentStart, endDate)
	if err != nil {
		return nil, err
	}
	previous, err := s.Aggregate(ctx, previousStart, currentStart)
	if err != nil {
		return nil, err
	}

	insights := s.comparePeriods(runID, current, previous)

	if err := s.insightRepo.CreateBatch(ctx, insights); err != nil {
		return nil, fmt.Errorf("failed to persist insights: %w", err)
	}

	logger.With(logger.Fields{
		logger.FieldRunID: runID,
		"campaigns":       len(current),
		"insights":        len(insights),
	}).Info(ctx, "Period comparison finished")

	return insights, nil
}

// comparePeriods classifies per-metric percent changes between two windows.
// A campaign absent from the previous window yields a single new-campaign
// opportunity; a previous value of 0 skips that metric to avoid an undefined
// percent change.
func (s *AnalyticsService) comparePeriods(runID string, current, previous map[string]*domain.CampaignWindow) []domain.Insight {
	var insights []domain.Insight

	for campaignID, cur := range current {
		prev, ok := previous[campaignID]
		if !ok {
			insights = append(insights, domain.Insight{
				ID:          uuid.New().String(),
				AgentRunID:  runID,
				CampaignID:  campaignID,
				InsightType: domain.InsightTypeOpportunity,
				Metric:      domain.MetricNewCampaign,
				Description: "New campaign detected",
				Severity:    domain.SeverityMedium,
			})
			continue
		}

		for _, metric := range s.cfg.ComparedMetrics {
			prevVal := prev.Metric(metric)
			if prevVal == 0 {
				continue
			}
			curVal := cur.Metric(metric)
			change := (curVal - prevVal) / prevVal * 100

			if insight, ok := s.classifyChange(runID, campaignID, metric, change); ok {
				insights = append(insights, insight)
			}
		}
	}

	return insights
}

func (s *AnalyticsService) classifyChange(runID, campaignID, metric string, change float64) (domain.Insight, bool) {
	stored := roundTo2(change)

	switch {
	case change < s.cfg.DropThreshold:
		severity := domain.SeverityMedium
		if change < s.cfg.SevereDropThreshold {
			severity = domain.SeverityHigh
		}
		return domain.Insight{
			ID:            uuid.New().String(),
			AgentRunID:    runID,
			CampaignID:    campaignID,
			InsightType:   domain.InsightTypeDrop,
			Metric:        metric,
			ChangePercent: &stored,
			Description:   fmt.Sprintf("%s dropped %.1f%%", strings.ToUpper(metric), math.Abs(change)),
			Severity:      severity,
		}, true
	case change > s.cfg.OpportunityThreshold:
		severity := domain.SeverityMedium
		if change > s.cfg.StrongOppThreshold {
			severity = domain.SeverityHigh
		}
		return domain.Insight{
			ID:            uuid.New().String(),
			AgentRunID:    runID,
			CampaignID:    campaignID,
			InsightType:   domain.InsightTypeOpportunity,
			Metric:        metric,
			ChangePercent: &stored,
			Description:   fmt.Sprintf("%s increased %.1f%%", strings.ToUpper(metric), change),
			Severity:      severity,
		}, true
	default:
		return domain.Insight{}, false
	}
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
