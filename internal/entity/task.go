package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "Pending"
	TaskStatusInProgress TaskStatus = "In-Progress"
	TaskStatusCompleted  TaskStatus = "Completed"
	TaskStatusFailed     TaskStatus = "Failed"
)

// IsTerminal reports whether workers are done with a task in this status.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed
}

type Task struct {
	ID         uuid.UUID       `json:"id"`
	JobID      uuid.UUID       `json:"jobId"`
	Type       string          `json:"type"`
	Status     TaskStatus      `json:"status"`
	Reason     string          `json:"reason,omitempty"`
	Parameters json.RawMessage `json:"parameters,omitempty"`
	Attempts   int             `json:"attempts,omitempty"`
	CreatedAt  time.Time       `json:"created,omitempty"`
	UpdatedAt  time.Time       `json:"updated,omitempty"`
}

// TaskFilter selects tasks in the Job Manager. Zero values are omitted.
type TaskFilter struct {
	ID    uuid.UUID `json:"id,omitempty"`
	JobID uuid.UUID `json:"jobId,omitempty"`
	Type  string    `json:"type,omitempty"`
}

// MarshalJSON drops unset uuids; the Job Manager rejects the nil uuid as a filter value.
func (f TaskFilter) MarshalJSON() ([]byte, error) {
	out := map[string]string{}
	if f.ID != uuid.Nil {
		out["id"] = f.ID.String()
	}
	if f.JobID != uuid.Nil {
		out["jobId"] = f.JobID.String()
	}
	if f.Type != "" {
		out["type"] = f.Type
	}
	return json.Marshal(out)
}

type CreateTaskRequest struct {
	Type             string          `json:"type"`
	Parameters       json.RawMessage `json:"parameters"`
	BlockDuplication bool            `json:"blockDuplication"`
}
