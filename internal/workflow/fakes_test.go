package workflow_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"job-tracker-service/internal/entity"
	"job-tracker-service/internal/logger"
	"job-tracker-service/internal/workflow"
)

type createCall struct {
	jobID uuid.UUID
	req   entity.CreateTaskRequest
}

type updateCall struct {
	jobID uuid.UUID
	req   entity.UpdateJobRequest
}

// fakeJobManager records every mutation; reads come from tasks.
type fakeJobManager struct {
	tasks []entity.Task

	createErr error
	updateErr error
	findErr   error

	creates []createCall
	updates []updateCall
	finds   []entity.TaskFilter
}

func (f *fakeJobManager) FindTasks(ctx context.Context, filter entity.TaskFilter) ([]entity.Task, error) {
	f.finds = append(f.finds, filter)
	if f.findErr != nil {
		return nil, f.findErr
	}
	var out []entity.Task
	for _, t := range f.tasks {
		if filter.ID != uuid.Nil && t.ID != filter.ID {
			continue
		}
		if filter.JobID != uuid.Nil && t.JobID != filter.JobID {
			continue
		}
		if filter.Type != "" && t.Type != filter.Type {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeJobManager) GetJob(ctx context.Context, jobID uuid.UUID) (*entity.Job, error) {
	return nil, entity.ErrNotFound
}

func (f *fakeJobManager) CreateTask(ctx context.Context, jobID uuid.UUID, req entity.CreateTaskRequest) error {
	f.creates = append(f.creates, createCall{jobID: jobID, req: req})
	return f.createErr
}

func (f *fakeJobManager) UpdateJob(ctx context.Context, jobID uuid.UUID, req entity.UpdateJobRequest) error {
	f.updates = append(f.updates, updateCall{jobID: jobID, req: req})
	return f.updateErr
}

func newTestFactory(t *testing.T, jm workflow.JobManager) *workflow.Factory {
	t.Helper()
	defs := workflow.DefaultDefinitions()
	params, err := workflow.DefaultParameters(defs)
	require.NoError(t, err)
	f, err := workflow.NewFactory(jm, defs, params, logger.Nop())
	require.NoError(t, err)
	return f
}

func newTestEngine(t *testing.T, jm workflow.JobManager, jobType string) *workflow.Engine {
	t.Helper()
	e, err := newTestFactory(t, jm).Resolve(jobType)
	require.NoError(t, err)
	return e
}

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}
