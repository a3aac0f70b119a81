package repository

import (
	"context"
	"errors"

	"github.com/mkral/adpilot/internal/domain"
	"gorm.io/gorm"
)

// RunRepository handles agent run data operations.
type RunRepository struct {
	db *gorm.DB
}

// NewRunRepository creates a new RunRepository.
func NewRunRepository(db *gorm.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a new agent run record.
func (r *RunRepository) Create(ctx context.Context, run *domain.AgentRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

// Update persists changes to an existing agent run record.
func (r *RunRepository) Update(ctx context.Context, run *domain.AgentRun) error {
	return r.db.WithContext(ctx).Save(run).Error
}

// GetByID retrieves an agent run by ID.
// Returns domain.ErrNotFound when no row matches.
func (r *RunRepository) GetByID(ctx context.Context, id string) (*domain.AgentRun, error) {
	var run domain.AgentRun
	if err := r.db.WithContext(ctx).First(&run, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &run, nil
}

// List retrieves agent runs with optional run_type/status filters, newest first.
func (r *RunRepository) List(ctx context.Context, runType string, status domain.RunStatus, limit, offset int) ([]domain.AgentRun, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.AgentRun{})
	if runType != "" {
		query = query.Where("run_type = ?", runType)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var runs []domain.AgentRun
	if err := query.Order("started_at DESC").Limit(limit).Offset(offset).Find(&runs).Error; err != nil {
		return nil, 0, err
	}
	return runs, total, nil
}
