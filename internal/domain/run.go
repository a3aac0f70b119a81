package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// RunStatus represents the lifecycle status of an agent run.
// Transitions are monotonic: running -> completed or running -> failed.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// RunTypeWeekly is the run type for the scheduled weekly analysis pipeline.
const RunTypeWeekly = "weekly"

// JSON is a custom type for storing arbitrary JSON objects in the database.
type JSON map[string]interface{}

// Value implements the driver.Valuer interface for database serialization.
func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return "{}", nil
	}
	b, err := json.Marshal(j)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database deserialization.
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = JSON{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan JSON")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, j)
}

// AgentRun represents one execution of the analysis pipeline and its
// lifecycle metadata. CompletedAt, Output, and ErrorMessage stay null until
// the run reaches a terminal status.
type AgentRun struct {
	ID           string     `gorm:"type:text;primaryKey" json:"id"`
	RunType      string     `gorm:"type:text;not null;index:idx_agent_runs_type" json:"run_type"`
	Status       RunStatus  `gorm:"type:text;not null;index:idx_agent_runs_status" json:"status"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	InputParams  JSON       `gorm:"type:text" json:"input_params"`
	Output       JSON       `gorm:"type:text" json:"output,omitempty"`
	ErrorMessage string     `gorm:"type:text" json:"error_message,omitempty"`
}

// TableName returns the database table name for AgentRun.
func (AgentRun) TableName() string {
	return "agent_runs"
}
