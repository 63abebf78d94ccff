package cli

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"job-tracker-service/internal/config"
	"job-tracker-service/internal/service"
)

var notifyAsync bool

var notifyCmd = &cobra.Command{
	Use:   "notify <taskId>",
	Short: "Handle a finished task once",
	Long: `Notify runs the tracker for a single finished task and prints the outcome.

With --async the task id is pushed to the Redis queue instead, to be picked up
by a running worker.`,
	Args: cobra.ExactArgs(1),
	RunE: runNotify,
}

func init() {
	notifyCmd.Flags().BoolVar(&notifyAsync, "async", false, "enqueue instead of handling in-process")
	rootCmd.AddCommand(notifyCmd)
}

func runNotify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	taskID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid task id %q: %w", args[0], err)
	}

	if notifyAsync {
		return enqueueTask(cmd, taskID)
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	out, err := a.notifications.Notify(ctx, taskID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// enqueueTask only needs Redis; the Job Manager and journal are left alone.
func enqueueTask(cmd *cobra.Command, taskID uuid.UUID) error {
	ctx := cmd.Context()

	cfg, err := config.LoadQueue()
	if err != nil {
		return err
	}
	rdb, err := openRedis(ctx, cfg.RedisAddr)
	if err != nil {
		return err
	}
	defer rdb.Close()

	queue := service.NewRedisQueue(rdb, service.Lane{
		QueueKey:      cfg.QueueKey,
		ProcessingKey: cfg.ProcessingKey,
	})
	if err := queue.Enqueue(ctx, taskID.String()); err != nil {
		return fmt.Errorf("enqueue: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "queued %s on %s\n", taskID, cfg.QueueKey)
	return nil
}
