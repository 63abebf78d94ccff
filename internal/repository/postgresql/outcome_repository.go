package postgresql

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"job-tracker-service/internal/workflow"
)

var ErrNotFound = errors.New("not found")

// OutcomeRepository journals what the tracker decided for each notification.
type OutcomeRepository struct {
	pool *pgxpool.Pool
}

func NewOutcomeRepository(pool *pgxpool.Pool) *OutcomeRepository {
	return &OutcomeRepository{pool: pool}
}

func (r *OutcomeRepository) Record(ctx context.Context, out workflow.Outcome) error {
	const q = `
INSERT INTO notification_outcomes
    (task_id, job_id, job_type, task_type, task_status, action, next_task_type, percentage, reason, handled_at)
VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, NULLIF($9, ''), $10);
`
	handledAt := out.HandledAt
	if handledAt.IsZero() {
		handledAt = time.Now().UTC()
	}

	_, err := r.pool.Exec(ctx, q,
		out.TaskID,
		out.JobID,
		out.JobType,
		out.TaskType,
		out.TaskStatus,
		string(out.Action),
		out.NextTaskType,
		out.Percentage, // nil => NULL
		out.Reason,
		handledAt,
	)
	return err
}

// ListByTask returns the outcomes recorded for a task, oldest first.
// It returns ErrNotFound when nothing was recorded.
func (r *OutcomeRepository) ListByTask(ctx context.Context, taskID uuid.UUID) ([]workflow.Outcome, error) {
	const q = `
SELECT task_id, job_id, job_type, task_type, task_status, action, next_task_type, percentage, reason, handled_at
FROM notification_outcomes
WHERE task_id = $1
ORDER BY handled_at, id;
`
	rows, err := r.pool.Query(ctx, q, taskID)
	if err != nil {
		return nil, err
	}

	outcomes, err := pgx.CollectRows(rows, scanOutcome)
	if err != nil {
		return nil, err
	}
	if len(outcomes) == 0 {
		return nil, ErrNotFound
	}
	return outcomes, nil
}

func scanOutcome(row pgx.CollectableRow) (workflow.Outcome, error) {
	var (
		out        workflow.Outcome
		action     string
		next       *string // NULL => nil
		percentage *int
		reason     *string
	)
	if err := row.Scan(
		&out.TaskID,
		&out.JobID,
		&out.JobType,
		&out.TaskType,
		&out.TaskStatus,
		&action,
		&next,
		&percentage,
		&reason,
		&out.HandledAt,
	); err != nil {
		return workflow.Outcome{}, err
	}

	out.Action = workflow.Action(action)
	if next != nil {
		out.NextTaskType = *next
	}
	out.Percentage = percentage
	if reason != nil {
		out.Reason = *reason
	}
	out.HandledAt = out.HandledAt.UTC()
	return out, nil
}
