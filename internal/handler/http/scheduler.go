package http

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/cron"
	"github.com/go-chi/chi/v5"
)

// JobRunner is satisfied by *cron.Scheduler.
type JobRunner interface {
	Status() cron.Status
	RunNow(ctx context.Context, name string) error
}

type SchedulerHandler interface {
	GetStatus(w http.ResponseWriter, r *http.Request)
	RunJob(w http.ResponseWriter, r *http.Request)
}

type schedulerHandlerImpl struct {
	scheduler JobRunner
}

func NewSchedulerHandler(scheduler JobRunner) SchedulerHandler {
	return &schedulerHandlerImpl{scheduler: scheduler}
}

func (h *schedulerHandlerImpl) GetStatus(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.scheduler.Status())
}

// RunJob runs a job immediately and waits for it. A manual run does not
// count as the job's daily firing.
func (h *schedulerHandlerImpl) RunJob(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if err := h.scheduler.RunNow(r.Context(), name); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Job "+name+" completed", h.scheduler.Status())
}
