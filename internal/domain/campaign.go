package domain

import "time"

// CampaignStatus represents the lifecycle status of a campaign.
// Values include CampaignStatusActive, CampaignStatusPaused, and CampaignStatusArchived.
type CampaignStatus string

const (
	CampaignStatusActive   CampaignStatus = "active"
	CampaignStatusPaused   CampaignStatus = "paused"
	CampaignStatusArchived CampaignStatus = "archived"
)

// Campaign represents a marketing campaign ingested from an external source.
// The natural key is (external_id, source); external_id and source are
// immutable after creation, name and status follow the latest ingestion.
type Campaign struct {
	ID         string         `gorm:"type:text;primaryKey" json:"id"`
	ExternalID string         `gorm:"type:text;not null;index:idx_campaigns_external_source,unique" json:"external_id"`
	Name       string         `gorm:"type:text;not null" json:"name"`
	Source     string         `gorm:"type:text;not null;index:idx_campaigns_external_source,unique;index:idx_campaigns_source" json:"source"`
	Status     CampaignStatus `gorm:"type:text" json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// TableName returns the database table name for Campaign.
func (Campaign) TableName() string {
	return "campaigns"
}
