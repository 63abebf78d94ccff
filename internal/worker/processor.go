package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"job-tracker-service/internal/entity"
	"job-tracker-service/internal/workflow"
)

// Notifier is the dispatcher port (implementation: service.NotificationService).
type Notifier interface {
	Notify(ctx context.Context, taskID uuid.UUID) (*workflow.Outcome, error)
}

type Processor struct {
	notifier Notifier
	logger   zerolog.Logger
}

func NewProcessor(notifier Notifier, logger zerolog.Logger) *Processor {
	return &Processor{notifier: notifier, logger: logger}
}

// Process handles one queued task id. Errors are returned for logging only;
// the caller acknowledges the entry either way.
func (p *Processor) Process(ctx context.Context, rawID string) error {
	start := time.Now()

	id, err := uuid.Parse(rawID)
	if err != nil {
		p.logger.Warn().Str("task_id", rawID).Err(err).Msg("malformed task id")
		return fmt.Errorf("%w: task id %q: %v", entity.ErrBadRequest, rawID, err)
	}

	out, err := p.notifier.Notify(ctx, id)
	if err != nil {
		p.logger.Error().
			Str("task_id", rawID).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Err(err).
			Msg("queued notification failed")
		return err
	}

	p.logger.Debug().
		Str("task_id", rawID).
		Str("job_id", out.JobID.String()).
		Str("action", string(out.Action)).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("queued notification handled")
	return nil
}
