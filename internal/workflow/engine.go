package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"job-tracker-service/internal/entity"
)

// Engine decides and executes the next step of a job after one of its tasks
// reached a terminal status. It keeps no state between invocations.
type Engine struct {
	jm           JobManager
	strategy     Strategy
	params       *ParameterResolver
	initTaskType string
	logger       zerolog.Logger
}

func NewEngine(jm JobManager, strategy Strategy, params *ParameterResolver, initTaskType string, logger zerolog.Logger) *Engine {
	return &Engine{
		jm:           jm,
		strategy:     strategy,
		params:       params,
		initTaskType: initTaskType,
		logger:       logger.With().Str("flow", strategy.Kind().String()).Logger(),
	}
}

func (e *Engine) Kind() Kind { return e.strategy.Kind() }

// HandleCompleted advances the job past a completed task.
func (e *Engine) HandleCompleted(ctx context.Context, job *entity.Job, task *entity.Task) (*Outcome, error) {
	flow := e.strategy.Flow()
	out := newOutcome(job, task)
	log := e.taskLogger(job, task)

	readiness, err := e.strategy.CanProceed(job, task)
	if err != nil {
		return nil, err
	}
	if !readiness.Proceed {
		if readiness.Suspend {
			return e.suspend(ctx, job, readiness.Reason, out)
		}
		log.Info().Msg("task does not allow the job to advance")
		return e.updateProgress(ctx, job, job.TaskCount, out)
	}

	next, ok := flow.NextTaskType(task.Type)
	if !ok {
		if flow.IsTerminal(task.Type) && job.AllTasksCompleted() {
			return e.complete(ctx, job, out)
		}
		return e.updateProgress(ctx, job, job.TaskCount, out)
	}
	out.NextTaskType = next

	passed, err := e.initTasksCompleted(ctx, job)
	if err != nil {
		return nil, err
	}
	if !passed || !job.AllTasksCompleted() || flow.IsExcluded(next) {
		log.Debug().
			Str("next_task_type", next).
			Bool("init_completed", passed).
			Int("completed_tasks", job.CompletedTasks).
			Int("task_count", job.TaskCount).
			Msg("job not ready for next task")
		return e.updateProgress(ctx, job, job.TaskCount, out)
	}

	return e.createNext(ctx, job, next, out)
}

// HandleFailed suspends or fails the job, unless the strategy plans a follow-up.
func (e *Engine) HandleFailed(ctx context.Context, job *entity.Job, task *entity.Task) (*Outcome, error) {
	out := newOutcome(job, task)
	reason := failureReason(task)

	plan, err := e.strategy.PlanFailure(job, task)
	if err != nil {
		return nil, err
	}
	if plan != nil && plan.FollowUp != nil {
		out.NextTaskType = plan.FollowUp.Type
		created, err := e.create(ctx, job, *plan.FollowUp)
		if err != nil {
			return nil, err
		}
		if created {
			if _, err := e.updateProgress(ctx, job, job.TaskCount+1, out); err != nil {
				return nil, err
			}
		}
		return e.fail(ctx, job, reason, out)
	}

	if e.strategy.Flow().SuspendsOnFailure(task.Type) {
		return e.suspend(ctx, job, reason, out)
	}
	return e.fail(ctx, job, reason, out)
}

// initTasksCompleted re-reads the job's init tasks. Jobs without any are let
// through so that jobs started before init tasks existed do not stall.
func (e *Engine) initTasksCompleted(ctx context.Context, job *entity.Job) (bool, error) {
	tasks, err := e.jm.FindTasks(ctx, entity.TaskFilter{JobID: job.ID, Type: e.initTaskType})
	if err != nil {
		return false, err
	}
	if len(tasks) == 0 {
		e.logger.Warn().
			Str("job_id", job.ID.String()).
			Str("init_task_type", e.initTaskType).
			Msg("job has no init task, skipping init check")
		return true, nil
	}
	for _, t := range tasks {
		if t.Status != entity.TaskStatusCompleted {
			return false, nil
		}
	}
	return true, nil
}

func (e *Engine) createNext(ctx context.Context, job *entity.Job, next string, out *Outcome) (*Outcome, error) {
	params, err := e.params.Resolve(job.Type, next)
	if err != nil {
		return nil, err
	}

	created, err := e.create(ctx, job, entity.CreateTaskRequest{
		Type:             next,
		Parameters:       params,
		BlockDuplication: e.strategy.Flow().BlocksDuplication(next),
	})
	if err != nil {
		return nil, err
	}
	if !created {
		out.Action = ActionDuplicateSkipped
		return out, nil
	}

	if _, err := e.updateProgress(ctx, job, job.TaskCount+1, out); err != nil {
		return nil, err
	}
	out.Action = ActionCreateNext
	return out, nil
}

// create reports false when the Job Manager already holds a live task of that type.
func (e *Engine) create(ctx context.Context, job *entity.Job, req entity.CreateTaskRequest) (bool, error) {
	err := e.jm.CreateTask(ctx, job.ID, req)
	if errors.Is(err, entity.ErrConflict) {
		e.logger.Info().
			Str("job_id", job.ID.String()).
			Str("task_type", req.Type).
			Msg("task already exists, nothing to create")
		return false, nil
	}
	if err != nil {
		return false, err
	}

	e.logger.Info().
		Str("job_id", job.ID.String()).
		Str("task_type", req.Type).
		Bool("block_duplication", req.BlockDuplication).
		Msg("task created")
	return true, nil
}

// updateProgress recomputes the percentage against taskCount, which includes
// a task created during this invocation.
func (e *Engine) updateProgress(ctx context.Context, job *entity.Job, taskCount int, out *Outcome) (*Outcome, error) {
	pct := entity.Percentage(job.CompletedTasks, taskCount)
	if err := e.jm.UpdateJob(ctx, job.ID, entity.ProgressUpdate(pct)); err != nil {
		return nil, err
	}

	e.logger.Debug().
		Str("job_id", job.ID.String()).
		Int("percentage", pct).
		Msg("job progress updated")
	out.Action = ActionUpdateProgress
	out.Percentage = &pct
	return out, nil
}

func (e *Engine) complete(ctx context.Context, job *entity.Job, out *Outcome) (*Outcome, error) {
	req := entity.CompleteUpdate()
	if err := e.jm.UpdateJob(ctx, job.ID, req); err != nil {
		return nil, err
	}

	e.logger.Info().Str("job_id", job.ID.String()).Msg("job completed")
	out.Action = ActionCompleteJob
	out.Percentage = req.Percentage
	return out, nil
}

func (e *Engine) suspend(ctx context.Context, job *entity.Job, reason string, out *Outcome) (*Outcome, error) {
	if err := e.jm.UpdateJob(ctx, job.ID, entity.SuspendUpdate(reason)); err != nil {
		return nil, err
	}

	e.logger.Warn().Str("job_id", job.ID.String()).Str("reason", reason).Msg("job suspended")
	out.Action = ActionSuspendJob
	out.Reason = reason
	return out, nil
}

func (e *Engine) fail(ctx context.Context, job *entity.Job, reason string, out *Outcome) (*Outcome, error) {
	if err := e.jm.UpdateJob(ctx, job.ID, entity.FailUpdate(reason)); err != nil {
		return nil, err
	}

	e.logger.Warn().Str("job_id", job.ID.String()).Str("reason", reason).Msg("job failed")
	out.Action = ActionFailJob
	out.Reason = reason
	return out, nil
}

func (e *Engine) taskLogger(job *entity.Job, task *entity.Task) zerolog.Logger {
	return e.logger.With().
		Str("job_id", job.ID.String()).
		Str("task_id", task.ID.String()).
		Str("task_type", task.Type).
		Logger()
}

func failureReason(task *entity.Task) string {
	if task.Reason != "" {
		return task.Reason
	}
	return fmt.Sprintf("task %s of type %s failed without a reason", task.ID, task.Type)
}
