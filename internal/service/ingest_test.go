package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/mkral/adpilot/internal/domain"
	"github.com/mkral/adpilot/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newIngestService(t *testing.T) (*IngestService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewIngestService(
		db,
		repository.NewCampaignRepository(db),
		repository.NewMetricRepository(db),
		newTestLogger(),
	), db
}

func TestIngestMetric_CreatesCampaignAndMetric(t *testing.T) {
	svc, db := newIngestService(t)
	ctx := context.Background()

	result, err := svc.IngestMetric(ctx, validRaw(), "facebook")
	require.NoError(t, err)
	assert.NotEmpty(t, result.CampaignID)
	assert.NotEmpty(t, result.MetricID)
	assert.Equal(t, "Summer Sale", result.CampaignName)
	assert.Equal(t, "2024-06-01", result.Date)

	var campaign domain.Campaign
	require.NoError(t, db.First(&campaign, "id = ?", result.CampaignID).Error)
	assert.Equal(t, "fb-123", campaign.ExternalID)
	assert.Equal(t, "facebook", campaign.Source)
	assert.Equal(t, domain.CampaignStatusActive, campaign.Status)

	var metric domain.DailyMetric
	require.NoError(t, db.First(&metric, "id = ?", result.MetricID).Error)
	assert.Equal(t, result.CampaignID, metric.CampaignID)
	assert.Equal(t, int64(1000), metric.Impressions)
}

func TestIngestMetric_IdempotentUpsert(t *testing.T) {
	svc, db := newIngestService(t)
	ctx := context.Background()

	first, err := svc.IngestMetric(ctx, validRaw(), "facebook")
	require.NoError(t, err)

	// Re-ingest the same natural keys with changed values.
	raw := validRaw()
	raw["campaign"] = "Summer Sale v2"
	raw["impressions"] = 2000
	raw["clicks"] = 80
	raw["spend"] = 50.0
	second, err := svc.IngestMetric(ctx, raw, "facebook")
	require.NoError(t, err)

	assert.Equal(t, first.CampaignID, second.CampaignID)
	assert.Equal(t, first.MetricID, second.MetricID)

	var campaignCount, metricCount int64
	db.Model(&domain.Campaign{}).Count(&campaignCount)
	db.Model(&domain.DailyMetric{}).Count(&metricCount)
	assert.Equal(t, int64(1), campaignCount)
	assert.Equal(t, int64(1), metricCount)

	var campaign domain.Campaign
	require.NoError(t, db.First(&campaign, "id = ?", first.CampaignID).Error)
	assert.Equal(t, "Summer Sale v2", campaign.Name)

	// All numeric fields overwritten, never accumulated.
	var metric domain.DailyMetric
	require.NoError(t, db.First(&metric, "id = ?", first.MetricID).Error)
	assert.Equal(t, int64(2000), metric.Impressions)
	assert.Equal(t, int64(80), metric.Clicks)
	assert.Equal(t, 50.0, metric.Spend)
}

func TestIngestMetric_SameExternalIDDifferentSource(t *testing.T) {
	svc, db := newIngestService(t)
	ctx := context.Background()

	_, err := svc.IngestMetric(ctx, validRaw(), "facebook")
	require.NoError(t, err)
	_, err = svc.IngestMetric(ctx, validRaw(), "google")
	require.NoError(t, err)

	var count int64
	db.Model(&domain.Campaign{}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestIngestMetric_ValidationErrorPropagates(t *testing.T) {
	svc, db := newIngestService(t)

	raw := validRaw()
	delete(raw, "external_id")
	_, err := svc.IngestMetric(context.Background(), raw, "facebook")
	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))

	var count int64
	db.Model(&domain.Campaign{}).Count(&count)
	assert.Zero(t, count)
}

func TestIngestBatch_IsolatesFailures(t *testing.T) {
	svc, db := newIngestService(t)

	var raws []map[string]interface{}
	for i := 0; i < 4; i++ {
		raw := validRaw()
		raw["external_id"] = fmt.Sprintf("fb-%d", i)
		raws = append(raws, raw)
	}
	bad := validRaw()
	bad["impressions"] = -5
	raws = append(raws[:2], append([]map[string]interface{}{bad}, raws[2:]...)...)

	result := svc.IngestBatch(context.Background(), raws, "facebook")
	assert.Equal(t, 4, result.Success)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, bad, result.Errors[0].Data)
	assert.NotEmpty(t, result.Errors[0].Error)

	// Records after the failed one were still ingested.
	var count int64
	db.Model(&domain.Campaign{}).Count(&count)
	assert.Equal(t, int64(4), count)
}

func TestIngestBatch_Empty(t *testing.T) {
	svc, _ := newIngestService(t)
	result := svc.IngestBatch(context.Background(), nil, "facebook")
	assert.Zero(t, result.Success)
	assert.Zero(t, result.Failed)
	assert.Empty(t, result.Errors)
}
