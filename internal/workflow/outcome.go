package workflow

import (
	"time"

	"github.com/google/uuid"

	"job-tracker-service/internal/entity"
)

type Action string

const (
	ActionCreateNext       Action = "create-next"
	ActionUpdateProgress   Action = "update-progress"
	ActionCompleteJob      Action = "complete-job"
	ActionSuspendJob       Action = "suspend-job"
	ActionFailJob          Action = "fail-job"
	ActionDuplicateSkipped Action = "duplicate-skipped"
)

// Outcome describes what one engine invocation did.
type Outcome struct {
	TaskID       uuid.UUID `json:"taskId"`
	JobID        uuid.UUID `json:"jobId"`
	JobType      string    `json:"jobType"`
	TaskType     string    `json:"taskType"`
	TaskStatus   string    `json:"taskStatus"`
	Action       Action    `json:"action"`
	NextTaskType string    `json:"nextTaskType,omitempty"`
	Percentage   *int      `json:"percentage,omitempty"`
	Reason       string    `json:"reason,omitempty"`
	HandledAt    time.Time `json:"handledAt"`
}

func newOutcome(job *entity.Job, task *entity.Task) *Outcome {
	return &Outcome{
		TaskID:     task.ID,
		JobID:      job.ID,
		JobType:    job.Type,
		TaskType:   task.Type,
		TaskStatus: string(task.Status),
		HandledAt:  time.Now().UTC(),
	}
}
