package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"job-tracker-service/internal/service"
	"job-tracker-service/internal/worker"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume finished task ids from the Redis queue",
	Args:  cobra.NoArgs,
	RunE:  runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	rdb, err := openRedis(ctx, a.cfg.RedisAddr)
	if err != nil {
		return err
	}
	defer rdb.Close()

	queue := service.NewRedisQueue(rdb, service.Lane{
		QueueKey:      a.cfg.QueueKey,
		ProcessingKey: a.cfg.ProcessingKey,
	})

	// Entries left in processing by a previous run go back to the queue.
	if n, err := queue.RequeueStale(ctx, 1000); err != nil {
		a.logger.Warn().Err(err).Msg("startup requeue failed")
	} else if n > 0 {
		a.logger.Info().Int64("count", n).Msg("requeued task ids on startup")
	}

	processor := worker.NewProcessor(a.notifications, a.logger.With().Str("component", "processor").Logger())
	pool := worker.NewPool(queue, processor, a.cfg.Workers, a.logger)

	if a.cfg.RequeueInterval > 0 {
		go pool.RunReaper(ctx, a.cfg.RequeueInterval, 100)
	}

	pool.Run(ctx)
	return nil
}

func openRedis(ctx context.Context, addr string) (*redis.Client, error) {
	if addr == "" {
		return nil, errors.New("REDIS_ADDR is not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}
