package domain

import "time"

// ActionType is the kind of recommended next step for a campaign.
type ActionType string

const (
	ActionTypeFix   ActionType = "fix"
	ActionTypeScale ActionType = "scale"
	ActionTypeTest  ActionType = "test"
)

// ActionStatus tracks the approval workflow state of an action. The pipeline
// only ever creates pending actions; later transitions belong to an external
// approval flow.
type ActionStatus string

const (
	ActionStatusPending  ActionStatus = "pending"
	ActionStatusApproved ActionStatus = "approved"
	ActionStatusRejected ActionStatus = "rejected"
	ActionStatusExecuted ActionStatus = "executed"
)

// Action is a recommended next step derived deterministically from a
// campaign's insights. At most one action exists per campaign per run.
type Action struct {
	ID          string       `gorm:"type:text;primaryKey" json:"id"`
	AgentRunID  string       `gorm:"type:text;not null;index:idx_actions_run" json:"agent_run_id"`
	CampaignID  string       `gorm:"type:text;index:idx_actions_campaign" json:"campaign_id,omitempty"`
	ActionType  ActionType   `gorm:"type:text;not null" json:"action_type"`
	Description string       `gorm:"type:text" json:"description"`
	Priority    Severity     `gorm:"type:text" json:"priority"`
	Status      ActionStatus `gorm:"type:text;default:pending" json:"status"`
	ApprovedBy  string       `gorm:"type:text" json:"approved_by,omitempty"`
	ApprovedAt  *time.Time   `json:"approved_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// TableName returns the database table name for Action.
func (Action) TableName() string {
	return "actions"
}
