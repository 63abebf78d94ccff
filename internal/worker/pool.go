package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"job-tracker-service/internal/service"
)

type Pool struct {
	queue      service.Queue
	processor  *Processor
	workers    int
	claimDelay time.Duration
	logger     zerolog.Logger
}

func NewPool(queue service.Queue, processor *Processor, workers int, logger zerolog.Logger) *Pool {
	if workers <= 0 {
		workers = 4
	}
	return &Pool{
		queue:      queue,
		processor:  processor,
		workers:    workers,
		claimDelay: 5 * time.Second,
		logger:     logger.With().Str("component", "worker-pool").Logger(),
	}
}

// Run claims task ids until ctx is cancelled and waits for in-flight
// notifications before returning.
func (p *Pool) Run(ctx context.Context) {
	p.logger.Info().Int("workers", p.workers).Msg("worker pool started")

	idCh := make(chan string)
	var wg sync.WaitGroup

	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for taskID := range idCh {
				// Each notification finishes even if shutdown starts mid-flight.
				runCtx := context.WithoutCancel(ctx)
				_ = p.processor.Process(runCtx, taskID)

				// Always ACK: a notification is a single attempt, failures are logged by Process.
				if err := p.queue.Ack(runCtx, taskID); err != nil {
					p.logger.Error().Int("worker", n).Str("task_id", taskID).Err(err).Msg("ack failed")
				}
			}
		}(i + 1)
	}

	defer func() {
		close(idCh)
		wg.Wait()
		p.logger.Info().Msg("worker pool stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		taskID, err := p.queue.ClaimBlocking(ctx, p.claimDelay)
		if err != nil {
			// timeout, redis.Nil and ctx cancel are not fatal
			if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
				p.logger.Error().Err(err).Msg("claim failed")
				select {
				case <-time.After(time.Second):
				case <-ctx.Done():
				}
			}
			continue
		}
		select {
		case idCh <- taskID:
		case <-ctx.Done():
			return
		}
	}
}

// RunReaper returns entries stuck in the processing list to the queue every
// interval until ctx is cancelled.
func (p *Pool) RunReaper(ctx context.Context, interval time.Duration, maxPerRun int64) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := p.queue.RequeueStale(ctx, maxPerRun)
			if err != nil {
				p.logger.Error().Err(err).Msg("requeue failed")
				continue
			}
			if n > 0 {
				p.logger.Info().Int64("count", n).Msg("requeued task ids from processing")
			}
		}
	}
}
