package entity

import (
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobStatusPending    JobStatus = "Pending"
	JobStatusInProgress JobStatus = "In-Progress"
	JobStatusCompleted  JobStatus = "Completed"
	JobStatusFailed     JobStatus = "Failed"
	JobStatusSuspended  JobStatus = "Suspended"
)

// Job is the Job Manager's view of a job. The tracker never creates or deletes
// jobs, it only reads them and requests updates.
type Job struct {
	ID             uuid.UUID `json:"id"`
	Type           string    `json:"type"`
	Status         JobStatus `json:"status"`
	Reason         string    `json:"reason,omitempty"`
	Percentage     int       `json:"percentage"`
	TaskCount      int       `json:"taskCount"`
	CompletedTasks int       `json:"completedTasks"`
	FailedTasks    int       `json:"failedTasks"`
	ResourceID     string    `json:"resourceId,omitempty"`
	CreatedAt      time.Time `json:"created,omitempty"`
	UpdatedAt      time.Time `json:"updated,omitempty"`
}

// AllTasksCompleted reports whether every task ever attached to the job has completed.
func (j *Job) AllTasksCompleted() bool {
	return j.CompletedTasks == j.TaskCount
}

// Percentage returns floor(completed / total * 100), truncated not rounded.
// A job without tasks reports 0.
func Percentage(completed, total int) int {
	if total <= 0 || completed <= 0 {
		return 0
	}
	if completed >= total {
		return 100
	}
	return completed * 100 / total
}

// UpdateJobRequest is a partial job update; nil fields are left untouched.
type UpdateJobRequest struct {
	Status     *JobStatus `json:"status,omitempty"`
	Reason     *string    `json:"reason,omitempty"`
	Percentage *int       `json:"percentage,omitempty"`
}

func ProgressUpdate(percentage int) UpdateJobRequest {
	return UpdateJobRequest{Percentage: &percentage}
}

func CompleteUpdate() UpdateJobRequest {
	status := JobStatusCompleted
	percentage := 100
	return UpdateJobRequest{Status: &status, Percentage: &percentage}
}

func SuspendUpdate(reason string) UpdateJobRequest {
	status := JobStatusSuspended
	return UpdateJobRequest{Status: &status, Reason: &reason}
}

func FailUpdate(reason string) UpdateJobRequest {
	status := JobStatusFailed
	return UpdateJobRequest{Status: &status, Reason: &reason}
}
