package repository

import (
	"context"
	"errors"

	"github.com/mkral/adpilot/internal/domain"
	"gorm.io/gorm"
)

// ActionRepository handles action data operations.
type ActionRepository struct {
	db *gorm.DB
}

// NewActionRepository creates a new ActionRepository.
func NewActionRepository(db *gorm.DB) *ActionRepository {
	return &ActionRepository{db: db}
}

// CreateBatch inserts a set of actions in one statement.
func (r *ActionRepository) CreateBatch(ctx context.Context, actions []domain.Action) error {
	if len(actions) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&actions).Error
}

// GetByID retrieves an action by ID.
// Returns domain.ErrNotFound when no row matches.
func (r *ActionRepository) GetByID(ctx context.Context, id string) (*domain.Action, error) {
	var action domain.Action
	if err := r.db.WithContext(ctx).First(&action, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &action, nil
}

// UpdateStatus records an approval-workflow transition on an action.
func (r *ActionRepository) UpdateStatus(ctx context.Context, action *domain.Action) error {
	return r.db.WithContext(ctx).Save(action).Error
}

// ListByRun retrieves all actions produced by a run, in creation order.
func (r *ActionRepository) ListByRun(ctx context.Context, runID string) ([]domain.Action, error) {
	var actions []domain.Action
	if err := r.db.WithContext(ctx).
		Where("agent_run_id = ?", runID).
		Order("created_at").
		Find(&actions).Error; err != nil {
		return nil, err
	}
	return actions, nil
}
