package repository

import (
	"context"

	"github.com/mkral/adpilot/internal/domain"
	"gorm.io/gorm"
)

// CreativeRepository handles creative data operations.
type CreativeRepository struct {
	db *gorm.DB
}

// NewCreativeRepository creates a new CreativeRepository.
func NewCreativeRepository(db *gorm.DB) *CreativeRepository {
	return &CreativeRepository{db: db}
}

// Create inserts a new creative record.
func (r *CreativeRepository) Create(ctx context.Context, creative *domain.Creative) error {
	return r.db.WithContext(ctx).Create(creative).Error
}

// ListByRun retrieves all creatives produced by a run, in creation order.
func (r *CreativeRepository) ListByRun(ctx context.Context, runID string) ([]domain.Creative, error) {
	var creatives []domain.Creative
	if err := r.db.WithContext(ctx).
		Where("agent_run_id = ?", runID).
		Order("created_at").
		Find(&creatives).Error; err != nil {
		return nil, err
	}
	return creatives, nil
}
