package workflow

import (
	"context"

	"github.com/google/uuid"

	"job-tracker-service/internal/entity"
)

// JobManager is the port to the external job/task store (implementation: jobmanager.Client).
//
// FindTasks returns an empty slice, not an error, when nothing matches.
// GetJob returns entity.ErrNotFound for unknown jobs.
// CreateTask returns entity.ErrConflict when duplication is blocked and a live
// task of the same type already exists.
type JobManager interface {
	FindTasks(ctx context.Context, filter entity.TaskFilter) ([]entity.Task, error)
	GetJob(ctx context.Context, jobID uuid.UUID) (*entity.Job, error)
	CreateTask(ctx context.Context, jobID uuid.UUID, req entity.CreateTaskRequest) error
	UpdateJob(ctx context.Context, jobID uuid.UUID, req entity.UpdateJobRequest) error
}
