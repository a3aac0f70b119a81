package repository

import (
	"context"
	"errors"
	"time"

	"github.com/mkral/adpilot/internal/domain"
	"gorm.io/gorm"
)

// MetricRepository handles daily metric data operations.
type MetricRepository struct {
	db *gorm.DB
}

// NewMetricRepository creates a new MetricRepository.
func NewMetricRepository(db *gorm.DB) *MetricRepository {
	return &MetricRepository{db: db}
}

// WithTx returns a repository bound to the given transaction handle.
func (r *MetricRepository) WithTx(tx *gorm.DB) *MetricRepository {
	return &MetricRepository{db: tx}
}

// Create inserts a new daily metric record.
func (r *MetricRepository) Create(ctx context.Context, metric *domain.DailyMetric) error {
	return r.db.WithContext(ctx).Create(metric).Error
}

// Update persists changes to an existing daily metric record.
func (r *MetricRepository) Update(ctx context.Context, metric *domain.DailyMetric) error {
	return r.db.WithContext(ctx).Save(metric).Error
}

// GetByNaturalKey retrieves a metric by its (date, campaign_id, source) triple.
// Returns domain.ErrNotFound when no row matches.
func (r *MetricRepository) GetByNaturalKey(ctx context.Context, date time.Time, campaignID, source string) (*domain.DailyMetric, error) {
	var metric domain.DailyMetric
	if err := r.db.WithContext(ctx).
		First(&metric, "date = ? AND campaign_id = ? AND source = ?", date, campaignID, source).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &metric, nil
}

// ListByDateRange retrieves all metrics with date in the half-open interval
// [start, end), any source, ordered by date.
func (r *MetricRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]domain.DailyMetric, error) {
	var metrics []domain.DailyMetric
	if err := r.db.WithContext(ctx).
		Where("date >= ? AND date < ?", start, end).
		Order("date").
		Find(&metrics).Error; err != nil {
		return nil, err
	}
	return metrics, nil
}

// MetricFilter narrows List results; zero values are ignored.
type MetricFilter struct {
	CampaignID string
	Source     string
	StartDate  *time.Time
	EndDate    *time.Time
}

// List retrieves metrics matching the filter, newest first.
func (r *MetricRepository) List(ctx context.Context, filter MetricFilter, limit int) ([]domain.DailyMetric, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.DailyMetric{})
	if filter.CampaignID != "" {
		query = query.Where("campaign_id = ?", filter.CampaignID)
	}
	if filter.Source != "" {
		query = query.Where("source = ?", filter.Source)
	}
	if filter.StartDate != nil {
		query = query.Where("date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("date <= ?", *filter.EndDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var metrics []domain.DailyMetric
	if err := query.Order("date DESC").Limit(limit).Find(&metrics).Error; err != nil {
		return nil, 0, err
	}
	return metrics, total, nil
}
