package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"job-tracker-service/internal/config"
	"job-tracker-service/internal/jobmanager"
	"job-tracker-service/internal/logger"
	"job-tracker-service/internal/repository/postgresql"
	"job-tracker-service/internal/service"
	"job-tracker-service/internal/telemetry"
	httptransport "job-tracker-service/internal/transport/http"
	"job-tracker-service/internal/workflow"
)

// app holds the components shared by the serve, worker and notify commands.
type app struct {
	cfg           *config.Config
	logger        zerolog.Logger
	notifications *service.NotificationService
	outcomes      *postgresql.OutcomeRepository // nil when the journal is disabled

	closers []func()
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, closeLog := logger.New(logger.Options{
		Debug:   cfg.LogDebug || verbose,
		File:    cfg.LogFile,
		Console: cfg.LogConsole,
	})
	a := &app{cfg: cfg, logger: log}
	a.closers = append(a.closers, func() { _ = closeLog() })

	if err := a.init(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) init(ctx context.Context) error {
	cfg := a.cfg

	tp, shutdownTracing, err := telemetry.InitTracing(a.logger, telemetry.Config{
		ServiceName:      cfg.ServiceName,
		ExporterEndpoint: cfg.OTLPEndpoint,
	})
	if err != nil {
		return err
	}
	a.closers = append(a.closers, func() { shutdownTracing(context.Background()) })

	params, err := workflow.DefaultParameters(cfg.Definitions)
	if err != nil {
		return err
	}
	if err := params.CheckCompleteness(cfg.Definitions); err != nil {
		return fmt.Errorf("flow configuration: %w", err)
	}

	jm, err := jobmanager.NewClient(cfg.JobManagerURL, cfg.JobManagerTimeout, a.logger)
	if err != nil {
		return err
	}

	factory, err := workflow.NewFactory(jm, cfg.Definitions, params, a.logger.With().Str("component", "workflow").Logger())
	if err != nil {
		return err
	}

	var recorder service.OutcomeRecorder
	if cfg.PostgresDSN != "" {
		pool, err := postgresql.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return fmt.Errorf("pg: %w", err)
		}
		a.closers = append(a.closers, pool.Close)

		if err := postgresql.Migrate(pool); err != nil {
			return fmt.Errorf("pg: %w", err)
		}
		a.outcomes = postgresql.NewOutcomeRepository(pool)
		recorder = a.outcomes
		a.logger.Info().Str("postgres_dsn", config.RedactDSN(cfg.PostgresDSN)).Msg("outcome journal enabled")
	}

	a.notifications = service.NewNotificationService(jm, factory, recorder, tp.Tracer("job-tracker"), a.logger)

	a.logger.Info().
		Str("job_manager_url", cfg.JobManagerURL).
		Str("flows_file", cfg.FlowsFile).
		Msg("tracker configured")
	return nil
}

// outcomeLister avoids handing a typed nil to the HTTP layer.
func (a *app) outcomeLister() httptransport.OutcomeLister {
	if a.outcomes == nil {
		return nil
	}
	return a.outcomes
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
