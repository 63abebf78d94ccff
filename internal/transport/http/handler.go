package httptransport

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"job-tracker-service/internal/repository/postgresql"
	"job-tracker-service/internal/service"
	"job-tracker-service/internal/workflow"
)

// Port for reading the outcome journal (implementation: postgresql.OutcomeRepository).
type OutcomeLister interface {
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]workflow.Outcome, error)
}

type Handler struct {
	notifications *service.NotificationService
	outcomes      OutcomeLister
}

// NewHandler builds the HTTP handler. outcomes may be nil when the journal is disabled.
func NewHandler(notifications *service.NotificationService, outcomes OutcomeLister) *Handler {
	return &Handler{notifications: notifications, outcomes: outcomes}
}

// NotifyTask godoc
// @Summary Notify that a task finished
// @Description Decides and executes the next workflow step of the task's job. Business outcomes (progress, completion, suspension, failure) are all 200.
// @Tags tasks
// @Produce json
// @Param taskId path string true "task id (uuid)"
// @Success 200 {object} workflow.Outcome
// @Failure 400 {object} apiError
// @Failure 404 {object} apiError
// @Failure 428 {object} apiError
// @Failure 500 {object} apiError
// @Router /tasks/{taskId}/notify [post]
func (h *Handler) NotifyTask(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "taskId"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid task id")
		return
	}

	out, err := h.notifications.Notify(r.Context(), id)
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, out)
}

// ListTaskOutcomes godoc
// @Summary List recorded outcomes of a task
// @Tags tasks
// @Produce json
// @Param taskId path string true "task id (uuid)"
// @Success 200 {array} workflow.Outcome
// @Failure 400 {object} apiError
// @Failure 404 {object} apiError
// @Router /tasks/{taskId}/outcomes [get]
func (h *Handler) ListTaskOutcomes(w http.ResponseWriter, r *http.Request) {
	if h.outcomes == nil {
		writeErr(w, http.StatusNotFound, "outcome journal disabled")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "taskId"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid task id")
		return
	}

	outcomes, err := h.outcomes.ListByTask(r.Context(), id)
	if err != nil {
		if errors.Is(err, postgresql.ErrNotFound) {
			writeErr(w, http.StatusNotFound, "no outcomes recorded for task")
			return
		}
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, outcomes)
}
