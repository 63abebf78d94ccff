package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"job-tracker-service/internal/entity"
	"job-tracker-service/internal/workflow"
)

// Port for the outcome journal (implementation: postgresql.OutcomeRepository).
type OutcomeRecorder interface {
	Record(ctx context.Context, out workflow.Outcome) error
}

// Small port for resolving engines (implementation: workflow.Factory).
type EngineResolver interface {
	Resolve(jobType string) (*workflow.Engine, error)
}

type NotificationService struct {
	jm       workflow.JobManager
	engines  EngineResolver
	recorder OutcomeRecorder
	tracer   trace.Tracer
	logger   zerolog.Logger
}

// NewNotificationService wires the dispatcher. recorder may be nil.
func NewNotificationService(
	jm workflow.JobManager,
	engines EngineResolver,
	recorder OutcomeRecorder,
	tracer trace.Tracer,
	logger zerolog.Logger,
) *NotificationService {
	return &NotificationService{
		jm:       jm,
		engines:  engines,
		recorder: recorder,
		tracer:   tracer,
		logger:   logger.With().Str("component", "notification").Logger(),
	}
}

// Notify handles one "task finished" notification end to end.
func (s *NotificationService) Notify(ctx context.Context, taskID uuid.UUID) (*workflow.Outcome, error) {
	ctx, span := s.tracer.Start(ctx, "notification.handle",
		trace.WithAttributes(attribute.String("task.id", taskID.String())))
	defer span.End()

	out, err := s.notify(ctx, taskID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error().Err(err).Str("task_id", taskID.String()).Msg("notification failed")
		return nil, err
	}

	span.SetAttributes(
		attribute.String("job.id", out.JobID.String()),
		attribute.String("job.type", out.JobType),
		attribute.String("workflow.action", string(out.Action)),
	)
	s.logger.Info().
		Str("task_id", out.TaskID.String()).
		Str("job_id", out.JobID.String()).
		Str("job_type", out.JobType).
		Str("task_type", out.TaskType).
		Str("action", string(out.Action)).
		Msg("notification handled")

	if s.recorder != nil {
		if err := s.recorder.Record(ctx, *out); err != nil {
			s.logger.Error().Err(err).Str("task_id", taskID.String()).Msg("record outcome")
		}
	}
	return out, nil
}

func (s *NotificationService) notify(ctx context.Context, taskID uuid.UUID) (*workflow.Outcome, error) {
	tasks, err := s.jm.FindTasks(ctx, entity.TaskFilter{ID: taskID})
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, fmt.Errorf("task %s: %w", taskID, entity.ErrNotFound)
	}
	task := tasks[0]

	job, err := s.jm.GetJob(ctx, task.JobID)
	if err != nil {
		return nil, err
	}

	engine, err := s.engines.Resolve(job.Type)
	if err != nil {
		return nil, err
	}

	switch task.Status {
	case entity.TaskStatusCompleted:
		return engine.HandleCompleted(ctx, job, &task)
	case entity.TaskStatusFailed:
		return engine.HandleFailed(ctx, job, &task)
	default:
		return nil, fmt.Errorf("%w: task %s is %s, expected %s or %s", entity.ErrIrrelevantStatus,
			task.ID, task.Status, entity.TaskStatusCompleted, entity.TaskStatusFailed)
	}
}
