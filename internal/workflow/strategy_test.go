package workflow_test

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"job-tracker-service/internal/entity"
	"job-tracker-service/internal/workflow"
)

func TestIngestionStrategy_CanProceed(t *testing.T) {
	strategy, err := workflow.NewStrategy(workflow.KindIngestion, workflow.DefaultDefinitions())
	require.NoError(t, err)
	job := &entity.Job{ID: uuid.New(), Type: "Ingestion_New"}

	tests := []struct {
		name    string
		task    entity.Task
		want    workflow.Readiness
		wantErr error
	}{
		{
			name: "non validation task",
			task: entity.Task{Type: "init"},
			want: workflow.Readiness{Proceed: true},
		},
		{
			name: "valid",
			task: entity.Task{Type: "validation", Parameters: json.RawMessage(`{"isValid":true}`)},
			want: workflow.Readiness{Proceed: true},
		},
		{
			name: "invalid with reason",
			task: entity.Task{Type: "validation", Parameters: json.RawMessage(`{"isValid":false,"reason":"bad resolution"}`)},
			want: workflow.Readiness{Suspend: true, Reason: "bad resolution"},
		},
		{
			name:    "missing flag",
			task:    entity.Task{Type: "validation", Parameters: json.RawMessage(`{}`)},
			wantErr: entity.ErrBadRequest,
		},
		{
			name:    "no parameters",
			task:    entity.Task{Type: "validation"},
			wantErr: entity.ErrBadRequest,
		},
		{
			name:    "malformed",
			task:    entity.Task{Type: "validation", Parameters: json.RawMessage(`{"isValid":"yes"}`)},
			wantErr: entity.ErrBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := strategy.CanProceed(job, &tt.task)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIngestionStrategy_InvalidWithoutReason(t *testing.T) {
	strategy, err := workflow.NewStrategy(workflow.KindIngestion, workflow.DefaultDefinitions())
	require.NoError(t, err)

	task := &entity.Task{ID: uuid.New(), Type: "validation", Parameters: json.RawMessage(`{"isValid":false}`)}
	got, err := strategy.CanProceed(&entity.Job{}, task)
	require.NoError(t, err)
	assert.True(t, got.Suspend)
	assert.Contains(t, got.Reason, task.ID.String())
}

func TestExportStrategy_CanProceed(t *testing.T) {
	strategy, err := workflow.NewStrategy(workflow.KindExport, workflow.DefaultDefinitions())
	require.NoError(t, err)
	job := &entity.Job{Type: "Export"}

	got, err := strategy.CanProceed(job, &entity.Task{Type: "finalize", Parameters: json.RawMessage(`{"type":"FullProcessing"}`)})
	require.NoError(t, err)
	assert.True(t, got.Proceed)

	got, err = strategy.CanProceed(job, &entity.Task{Type: "finalize", Parameters: json.RawMessage(`{"type":"ErrorCallback"}`)})
	require.NoError(t, err)
	assert.Equal(t, workflow.Readiness{}, got)

	_, err = strategy.CanProceed(job, &entity.Task{Type: "finalize", Parameters: json.RawMessage(`{"type":"Other"}`)})
	require.ErrorIs(t, err, entity.ErrBadRequest)

	got, err = strategy.CanProceed(job, &entity.Task{Type: "init"})
	require.NoError(t, err)
	assert.True(t, got.Proceed)
}

func TestExportStrategy_PlanFailure(t *testing.T) {
	strategy, err := workflow.NewStrategy(workflow.KindExport, workflow.DefaultDefinitions())
	require.NoError(t, err)

	plan, err := strategy.PlanFailure(&entity.Job{}, &entity.Task{Type: "tilesExporting"})
	require.NoError(t, err)
	require.NotNil(t, plan)
	require.NotNil(t, plan.FollowUp)
	assert.Equal(t, "finalize", plan.FollowUp.Type)
	assert.True(t, plan.FollowUp.BlockDuplication)
	assert.JSONEq(t, `{"type":"ErrorCallback","callbacksSent":false}`, string(plan.FollowUp.Parameters))

	plan, err = strategy.PlanFailure(&entity.Job{}, &entity.Task{Type: "init"})
	require.NoError(t, err)
	assert.Nil(t, plan)
}

func TestNewStrategy_UnknownKind(t *testing.T) {
	_, err := workflow.NewStrategy(workflow.Kind(42), workflow.DefaultDefinitions())
	require.ErrorIs(t, err, entity.ErrBadRequest)
}
