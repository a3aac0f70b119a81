package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mkral/adpilot/internal/domain"
	"github.com/mkral/adpilot/internal/logger"
	"github.com/mkral/adpilot/internal/repository"
	"gorm.io/gorm"
)

// IngestService normalizes raw marketing records and upserts them into the
// store. Each record is one transaction; batches isolate per-record failures.
type IngestService struct {
	db           *gorm.DB
	campaignRepo *repository.CampaignRepository
	metricRepo   *repository.MetricRepository
	logger       *logger.Logger
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	db *gorm.DB,
	campaignRepo *repository.CampaignRepository,
	metricRepo *repository.MetricRepository,
	log *logger.Logger,
) *IngestService {
	return &IngestService{
		db:           db,
		campaignRepo: campaignRepo,
		metricRepo:   metricRepo,
		logger:       log,
	}
}

func (s *IngestService) log(ctx context.Context) *logger.Logger {
	if l := logger.FromContext(ctx); l != nil {
		return l
	}
	return s.logger
}

// IngestResult identifies the campaign and metric affected by one ingestion.
type IngestResult struct {
	CampaignID   string `json:"campaign_id"`
	CampaignName string `json:"campaign_name"`
	MetricID     string `json:"metric_id"`
	Date         string `json:"date"`
}

// BatchError records one failed record within a batch.
type BatchError struct {
	Data  map[string]interface{} `json:"data"`
	Error string                 `json:"error"`
}

// BatchResult summarizes a batch ingestion.
type BatchResult struct {
	Success int          `json:"success"`
	Failed  int          `json:"failed"`
	Errors  []BatchError `json:"errors"`
}

// UpsertCampaign creates or updates the campaign identified by the record's
// (external_id, source) pair. Name and status follow the record; external_id,
// source, and the generated id never change after creation.
func (s *IngestService) UpsertCampaign(ctx context.Context, rec *CanonicalRecord) (*domain.Campaign, error) {
	return s.upsertCampaign(ctx, s.campaignRepo, rec)
}

func (s *IngestService) upsertCampaign(ctx context.Context, repo *repository.CampaignRepository, rec *CanonicalRecord) (*domain.Campaign, error) {
	campaign, err := repo.GetByNaturalKey(ctx, rec.ExternalID, rec.Source)
	switch {
	case err == nil:
		campaign.Name = rec.CampaignName
		campaign.Status = domain.CampaignStatus(rec.Status)
		campaign.UpdatedAt = time.Now().UTC()
		if err := repo.Update(ctx, campaign); err != nil {
			return nil, err
		}
		s.log(ctx).WithFields(logger.Fields{
			logger.FieldCampaignID: campaign.ID,
			logger.FieldSource:     campaign.Source,
		}).Debugf("Updated campaign %q", campaign.Name)
		return campaign, nil
	case errors.Is(err, domain.ErrNotFound):
		campaign = &domain.Campaign{
			ID:         uuid.New().String(),
			ExternalID: rec.ExternalID,
			Name:       rec.CampaignName,
			Source:     rec.Source,
			Status:     domain.CampaignStatus(rec.Status),
		}
		if err := repo.Create(ctx, campaign); err != nil {
			return nil, err
		}
		s.log(ctx).WithFields(logger.Fields{
			logger.FieldCampaignID: campaign.ID,
			logger.FieldSource:     campaign.Source,
		}).Infof("Created campaign %q", campaign.Name)
		return campaign, nil
	default:
		return nil, err
	}
}

// UpsertDailyMetric creates or fully overwrites the metric identified by
// (date, campaign_id, source). All five numeric fields are replaced on
// update; repeated ingestion of the same key never accumulates.
func (s *IngestService) UpsertDailyMetric(ctx context.Context, rec *CanonicalRecord, campaign *domain.Campaign) (*domain.DailyMetric, error) {
	return s.upsertDailyMetric(ctx, s.metricRepo, rec, campaign)
}

func (s *IngestService) upsertDailyMetric(ctx context.Context, repo *repository.MetricRepository, rec *CanonicalRecord, campaign *domain.Campaign) (*domain.DailyMetric, error) {
	metric, err := repo.GetByNaturalKey(ctx, rec.Date, campaign.ID, rec.Source)
	switch {
	case err == nil:
		metric.Impressions = rec.Impressions
		metric.Clicks = rec.Clicks
		metric.Spend = rec.Spend
		metric.Conversions = rec.Conversions
		metric.Revenue = rec.Revenue
		if err := repo.Update(ctx, metric); err != nil {
			return nil, err
		}
		return metric, nil
	case errors.Is(err, domain.ErrNotFound):
		metric = &domain.DailyMetric{
			ID:          uuid.New().String(),
			Date:        rec.Date,
			CampaignID:  campaign.ID,
			Source:      rec.Source,
			Impressions: rec.Impressions,
			Clicks:      rec.Clicks,
			Spend:       rec.Spend,
			Conversions: rec.Conversions,
			Revenue:     rec.Revenue,
		}
		if err := repo.Create(ctx, metric); err != nil {
			return nil, err
		}
		return metric, nil
	default:
		return nil, err
	}
}

// IngestMetric normalizes one raw record and upserts its campaign and daily
// metric in a single transaction. Validation failures and storage errors roll
// back and propagate to the caller.
func (s *IngestService) IngestMetric(ctx context.Context, raw map[string]interface{}, source string) (*IngestResult, error) {
	rec, err := NormalizeMetricData(raw, source)
	if err != nil {
		return nil, err
	}

	var result *IngestResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		campaign, err := s.upsertCampaign(ctx, s.campaignRepo.WithTx(tx), rec)
		if err != nil {
			return err
		}
		metric, err := s.upsertDailyMetric(ctx, s.metricRepo.WithTx(tx), rec, campaign)
		if err != nil {
			return err
		}
		result = &IngestResult{
			CampaignID:   campaign.ID,
			CampaignName: campaign.Name,
			MetricID:     metric.ID,
			Date:         metric.Date.Format("2006-01-02"),
		}
		return nil
	})
	if err != nil {
		s.log(ctx).WithError(err).WithField(logger.FieldSource, source).Error("Failed to ingest metric")
		return nil, err
	}
	return result, nil
}

// IngestBatch ingests records one at a time, in input order. A record's
// failure is recorded with its raw data and message and does not affect prior
// or subsequent records.
func (s *IngestService) IngestBatch(ctx context.Context, raws []map[string]interface{}, source string) *BatchResult {
	result := &BatchResult{Errors: []BatchError{}}

	for _, raw := range raws {
		if _, err := s.IngestMetric(ctx, raw, source); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, BatchError{Data: raw, Error: err.Error()})
			continue
		}
		result.Success++
	}

	logger.With(logger.Fields{
		logger.FieldSource: source,
		"success":          result.Success,
		"failed":           result.Failed,
	}).Info(ctx, "Batch ingestion finished")

	return result
}
