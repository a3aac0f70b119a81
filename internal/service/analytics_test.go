package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mkral/adpilot/internal/domain"
	"github.com/mkral/adpilot/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAnalyticsService(t *testing.T) (*AnalyticsService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewAnalyticsService(
		repository.NewMetricRepository(db),
		repository.NewInsightRepository(db),
		testAgentConfig(),
		newTestLogger(),
	), db
}

func seedMetric(t *testing.T, db *gorm.DB, campaignID string, date time.Time, impressions, clicks int64, spend float64, conversions int64, revenue float64) {
	t.Helper()
	require.NoError(t, db.Create(&domain.DailyMetric{
		ID:          uuid.New().String(),
		Date:        date,
		CampaignID:  campaignID,
		Source:      "facebook",
		Impressions: impressions,
		Clicks:      clicks,
		Spend:       spend,
		Conversions: conversions,
		Revenue:     revenue,
	}).Error)
}

func TestAggregate_SumsAndRatios(t *testing.T) {
	svc, db := newAnalyticsService(t)
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	seedMetric(t, db, "c1", start, 1000, 50, 25, 5, 100)
	seedMetric(t, db, "c1", start.AddDate(0, 0, 1), 1000, 50, 25, 5, 100)

	windows, err := svc.Aggregate(context.Background(), start, start.AddDate(0, 0, 7))
	require.NoError(t, err)
	require.Contains(t, windows, "c1")

	w := windows["c1"]
	assert.Equal(t, int64(2000), w.Impressions)
	assert.Equal(t, int64(100), w.Clicks)
	assert.Equal(t, 50.0, w.Spend)
	assert.Equal(t, int64(10), w.Conversions)
	assert.Equal(t, 200.0, w.Revenue)
	assert.InDelta(t, 4.0, w.ROAS, 1e-9)
	assert.InDelta(t, 5.0, w.CTR, 1e-9)
	assert.InDelta(t, 0.5, w.CPC, 1e-9)
	assert.InDelta(t, 10.0, w.ConversionRate, 1e-9)
}

func TestAggregate_HalfOpenWindow(t *testing.T) {
	svc, db := newAnalyticsService(t)
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7)

	seedMetric(t, db, "c1", start, 100, 10, 5, 1, 10)
	// On the end boundary, must be excluded.
	seedMetric(t, db, "c1", end, 900, 90, 45, 9, 90)

	windows, err := svc.Aggregate(context.Background(), start, end)
	require.NoError(t, err)
	assert.Equal(t, int64(100), windows["c1"].Impressions)
}

func TestAggregate_ZeroDenominators(t *testing.T) {
	svc, db := newAnalyticsService(t)
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	seedMetric(t, db, "c1", start, 0, 0, 0, 0, 0)

	windows, err := svc.Aggregate(context.Background(), start, start.AddDate(0, 0, 7))
	require.NoError(t, err)

	w := windows["c1"]
	assert.Zero(t, w.ROAS)
	assert.Zero(t, w.CTR)
	assert.Zero(t, w.CPC)
	assert.Zero(t, w.ConversionRate)
}

func TestClassifyChange_ThresholdBoundaries(t *testing.T) {
	svc, _ := newAnalyticsService(t)

	tests := []struct {
		change       float64
		wantInsight  bool
		wantType     domain.InsightType
		wantSeverity domain.Severity
	}{
		{-20.0, false, "", ""},
		{-20.01, true, domain.InsightTypeDrop, domain.SeverityMedium},
		{-30.0, true, domain.InsightTypeDrop, domain.SeverityMedium},
		{-30.01, true, domain.InsightTypeDrop, domain.SeverityHigh},
		{0, false, "", ""},
		{20.0, false, "", ""},
		{20.01, true, domain.InsightTypeOpportunity, domain.SeverityMedium},
		{50.0, true, domain.InsightTypeOpportunity, domain.SeverityMedium},
		{50.01, true, domain.InsightTypeOpportunity, domain.SeverityHigh},
	}
	for _, tc := range tests {
		insight, ok := svc.classifyChange("run", "c1", domain.MetricROAS, tc.change)
		assert.Equal(t, tc.wantInsight, ok, "change %.2f", tc.change)
		if !tc.wantInsight {
			continue
		}
		assert.Equal(t, tc.wantType, insight.InsightType, "change %.2f", tc.change)
		assert.Equal(t, tc.wantSeverity, insight.Severity, "change %.2f", tc.change)
		require.NotNil(t, insight.ChangePercent)
		assert.InDelta(t, tc.change, *insight.ChangePercent, 0.005)
	}
}

func TestClassifyChange_Descriptions(t *testing.T) {
	svc, _ := newAnalyticsService(t)

	insight, ok := svc.classifyChange("run", "c1", domain.MetricROAS, -25.0)
	require.True(t, ok)
	assert.Equal(t, "ROAS dropped 25.0%", insight.Description)

	insight, ok = svc.classifyChange("run", "c1", domain.MetricCTR, 60.0)
	require.True(t, ok)
	assert.Equal(t, "CTR increased 60.0%", insight.Description)
}

func TestComparePeriods_NewCampaign(t *testing.T) {
	svc, _ := newAnalyticsService(t)

	current := map[string]*domain.CampaignWindow{
		"c1": {CampaignID: "c1", Revenue: 100},
	}
	insights := svc.comparePeriods("run", current, map[string]*domain.CampaignWindow{})
	require.Len(t, insights, 1)
	assert.Equal(t, domain.InsightTypeOpportunity, insights[0].InsightType)
	assert.Equal(t, domain.MetricNewCampaign, insights[0].Metric)
	assert.Equal(t, domain.SeverityMedium, insights[0].Severity)
	assert.Nil(t, insights[0].ChangePercent)
	assert.Equal(t, "New campaign detected", insights[0].Description)
}

func TestComparePeriods_ZeroPreviousSkipped(t *testing.T) {
	svc, _ := newAnalyticsService(t)

	current := map[string]*domain.CampaignWindow{
		"c1": {CampaignID: "c1", ROAS: 5, Revenue: 100},
	}
	previous := map[string]*domain.CampaignWindow{
		"c1": {CampaignID: "c1", ROAS: 0, Revenue: 0},
	}
	insights := svc.comparePeriods("run", current, previous)
	assert.Empty(t, insights)
}

func TestAnalyze_PersistsInsights(t *testing.T) {
	svc, db := newAnalyticsService(t)
	ctx := context.Background()
	end := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	// Previous window: strong revenue. Current window: halved.
	seedMetric(t, db, "c1", end.AddDate(0, 0, -10), 1000, 100, 50, 10, 200)
	seedMetric(t, db, "c1", end.AddDate(0, 0, -3), 1000, 100, 50, 10, 100)

	insights, err := svc.Analyze(ctx, "run-1", end, 7)
	require.NoError(t, err)
	require.NotEmpty(t, insights)

	stored, err := repository.NewInsightRepository(db).ListByRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Len(t, stored, len(insights))

	// Revenue halved is a severe drop.
	var found bool
	for _, insight := range stored {
		if insight.Metric == domain.MetricRevenue {
			found = true
			assert.Equal(t, domain.InsightTypeDrop, insight.InsightType)
			assert.Equal(t, domain.SeverityHigh, insight.Severity)
			require.NotNil(t, insight.ChangePercent)
			assert.InDelta(t, -50.0, *insight.ChangePercent, 0.01)
		}
	}
	assert.True(t, found, "expected a revenue drop insight")
}
