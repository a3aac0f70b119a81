package repository

import (
	"context"

	"github.com/mkral/adpilot/internal/domain"
	"gorm.io/gorm"
)

// InsightRepository handles insight data operations. Insights are append-only.
type InsightRepository struct {
	db *gorm.DB
}

// NewInsightRepository creates a new InsightRepository.
func NewInsightRepository(db *gorm.DB) *InsightRepository {
	return &InsightRepository{db: db}
}

// CreateBatch inserts a set of insights in one statement.
func (r *InsightRepository) CreateBatch(ctx context.Context, insights []domain.Insight) error {
	if len(insights) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&insights).Error
}

// ListByRun retrieves all insights produced by a run, in creation order.
func (r *InsightRepository) ListByRun(ctx context.Context, runID string) ([]domain.Insight, error) {
	var insights []domain.Insight
	if err := r.db.WithContext(ctx).
		Where("agent_run_id = ?", runID).
		Order("created_at").
		Find(&insights).Error; err != nil {
		return nil, err
	}
	return insights, nil
}

// ListByCampaign retrieves all insights for a campaign across runs, newest first.
func (r *InsightRepository) ListByCampaign(ctx context.Context, campaignID string, limit int) ([]domain.Insight, error) {
	var insights []domain.Insight
	if err := r.db.WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		Order("created_at DESC").
		Limit(limit).
		Find(&insights).Error; err != nil {
		return nil, err
	}
	return insights, nil
}
