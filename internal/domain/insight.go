package domain

import "time"

// InsightType classifies a detected change between two aggregation windows.
type InsightType string

const (
	InsightTypeDrop        InsightType = "drop"
	InsightTypeOpportunity InsightType = "opportunity"
)

// Severity grades insights and action priorities.
type Severity string

const (
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Insight is a detected, classified change in one metric for one campaign
// between the current and previous comparison windows. Insights are
// append-only and reference their run by id; they outlive the run object.
type Insight struct {
	ID            string      `gorm:"type:text;primaryKey" json:"id"`
	AgentRunID    string      `gorm:"type:text;not null;index:idx_insights_run" json:"agent_run_id"`
	CampaignID    string      `gorm:"type:text;not null;index:idx_insights_campaign" json:"campaign_id"`
	InsightType   InsightType `gorm:"type:text;not null" json:"insight_type"`
	Metric        string      `gorm:"type:text;not null" json:"metric"`
	ChangePercent *float64    `json:"change_percent,omitempty"`
	Description   string      `gorm:"type:text" json:"description"`
	Severity      Severity    `gorm:"type:text" json:"severity"`
	CreatedAt     time.Time   `json:"created_at"`
}

// TableName returns the database table name for Insight.
func (Insight) TableName() string {
	return "insights"
}
