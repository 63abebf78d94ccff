package postgresql_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"job-tracker-service/internal/repository/postgresql"
	"job-tracker-service/internal/workflow"
)

func setupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("needs docker")
	}

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "tracker",
		},
		WaitingFor: wait.ForSQL("5432/tcp", "pgx", func(host string, port nat.Port) string {
			return fmt.Sprintf("postgres://test:test@%s:%s/tracker?sslmode=disable", host, port.Port())
		}).WithStartupTimeout(time.Minute),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://test:test@%s:%s/tracker?sslmode=disable", host, port.Port())
	pool, err := postgresql.NewPool(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgresql.Migrate(pool))
	// second run is a no-op
	require.NoError(t, postgresql.Migrate(pool))
	return pool
}

func TestOutcomeRepository_RecordAndList(t *testing.T) {
	pool := setupPool(t)
	repo := postgresql.NewOutcomeRepository(pool)
	ctx := context.Background()

	taskID := uuid.New()
	jobID := uuid.New()
	pct := 75
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first := workflow.Outcome{
		TaskID:       taskID,
		JobID:        jobID,
		JobType:      "Ingestion_New",
		TaskType:     "validation",
		TaskStatus:   "Completed",
		Action:       workflow.ActionCreateNext,
		NextTaskType: "polygon-parts",
		Percentage:   &pct,
		HandledAt:    base,
	}
	second := workflow.Outcome{
		TaskID:       taskID,
		JobID:        jobID,
		JobType:      "Ingestion_New",
		TaskType:     "validation",
		TaskStatus:   "Completed",
		Action:       workflow.ActionDuplicateSkipped,
		NextTaskType: "polygon-parts",
		HandledAt:    base.Add(time.Second),
	}

	require.NoError(t, repo.Record(ctx, second))
	require.NoError(t, repo.Record(ctx, first))
	require.NoError(t, repo.Record(ctx, workflow.Outcome{
		TaskID: uuid.New(), JobID: jobID, JobType: "Ingestion_New", TaskType: "init",
		TaskStatus: "Failed", Action: workflow.ActionFailJob, Reason: "boom", HandledAt: base,
	}))

	got, err := repo.ListByTask(ctx, taskID)
	require.NoError(t, err)
	require.Len(t, got, 2)

	head := got[0]
	assert.True(t, base.Equal(head.HandledAt), "handled_at %v", head.HandledAt)
	head.HandledAt = first.HandledAt
	assert.Equal(t, first, head)
	assert.Equal(t, workflow.ActionDuplicateSkipped, got[1].Action)
	assert.Nil(t, got[1].Percentage)
	assert.Empty(t, got[1].Reason)
}

func TestOutcomeRepository_ListUnknownTask(t *testing.T) {
	pool := setupPool(t)
	repo := postgresql.NewOutcomeRepository(pool)

	_, err := repo.ListByTask(context.Background(), uuid.New())
	require.ErrorIs(t, err, postgresql.ErrNotFound)
}

func TestMigrate_ReleasesConnections(t *testing.T) {
	pool := setupPool(t)

	require.NoError(t, postgresql.Migrate(pool))
	assert.Zero(t, pool.Stat().AcquiredConns(), "migrations must hand every connection back to the pool")
}
