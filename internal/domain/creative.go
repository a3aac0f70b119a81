package domain

import "time"

// CreativeStatus tracks the review state of a staged creative.
type CreativeStatus string

const (
	CreativeStatusDraft    CreativeStatus = "draft"
	CreativeStatusApproved CreativeStatus = "approved"
	CreativeStatusRejected CreativeStatus = "rejected"
)

// CreativeFields is the payload produced by a creative generation backend.
type CreativeFields struct {
	Platform     string `json:"platform"`
	CreativeType string `json:"creative_type"`
	Headline     string `json:"headline"`
	PrimaryText  string `json:"primary_text"`
	Description  string `json:"description"`
	CallToAction string `json:"call_to_action"`
}

// BrandContext carries the brand guidance handed to a creative generator.
// Snippets are optional retrieved passages from the brand knowledge store.
type BrandContext struct {
	Tone           string   `json:"tone"`
	Voice          string   `json:"voice"`
	ForbiddenWords []string `json:"forbidden_words"`
	Snippets       []string `json:"snippets,omitempty"`
}

// Creative is a draft content asset staged for a test-type action.
type Creative struct {
	ID           string         `gorm:"type:text;primaryKey" json:"id"`
	AgentRunID   string         `gorm:"type:text;not null;index:idx_creatives_run" json:"agent_run_id"`
	ActionID     string         `gorm:"type:text;index:idx_creatives_action" json:"action_id,omitempty"`
	Platform     string         `gorm:"type:text" json:"platform"`
	CreativeType string         `gorm:"type:text" json:"creative_type"`
	Headline     string         `gorm:"type:text" json:"headline"`
	PrimaryText  string         `gorm:"type:text" json:"primary_text"`
	Description  string         `gorm:"type:text" json:"description"`
	CallToAction string         `gorm:"type:text" json:"call_to_action"`
	Status       CreativeStatus `gorm:"type:text;default:draft" json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
}

// TableName returns the database table name for Creative.
func (Creative) TableName() string {
	return "creatives"
}
