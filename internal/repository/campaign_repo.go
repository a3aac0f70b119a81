package repository

import (
	"context"
	"errors"

	"github.com/mkral/adpilot/internal/domain"
	"gorm.io/gorm"
)

// CampaignRepository handles campaign data operations.
type CampaignRepository struct {
	db *gorm.DB
}

// NewCampaignRepository creates a new CampaignRepository.
func NewCampaignRepository(db *gorm.DB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

// WithTx returns a repository bound to the given transaction handle.
func (r *CampaignRepository) WithTx(tx *gorm.DB) *CampaignRepository {
	return &CampaignRepository{db: tx}
}

// Create inserts a new campaign record.
func (r *CampaignRepository) Create(ctx context.Context, campaign *domain.Campaign) error {
	return r.db.WithContext(ctx).Create(campaign).Error
}

// Update persists changes to an existing campaign record.
func (r *CampaignRepository) Update(ctx context.Context, campaign *domain.Campaign) error {
	return r.db.WithContext(ctx).Save(campaign).Error
}

// GetByID retrieves a campaign by its generated ID.
// Returns domain.ErrNotFound when no row matches.
func (r *CampaignRepository) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	var campaign domain.Campaign
	if err := r.db.WithContext(ctx).First(&campaign, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &campaign, nil
}

// GetByNaturalKey retrieves a campaign by its (external_id, source) pair.
// Returns domain.ErrNotFound when no row matches.
func (r *CampaignRepository) GetByNaturalKey(ctx context.Context, externalID, source string) (*domain.Campaign, error) {
	var campaign domain.Campaign
	if err := r.db.WithContext(ctx).
		First(&campaign, "external_id = ? AND source = ?", externalID, source).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &campaign, nil
}

// List retrieves campaigns with optional source/status filters and pagination.
func (r *CampaignRepository) List(ctx context.Context, source string, status domain.CampaignStatus, limit, offset int) ([]domain.Campaign, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Campaign{})
	if source != "" {
		query = query.Where("source = ?", source)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var campaigns []domain.Campaign
	if err := query.Limit(limit).Offset(offset).Find(&campaigns).Error; err != nil {
		return nil, 0, err
	}
	return campaigns, total, nil
}
