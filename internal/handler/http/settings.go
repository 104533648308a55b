package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
)

// SettingsStore is satisfied by *config.Runtime.
type SettingsStore interface {
	Get() config.RuntimeSettings
	Update(req config.UpdateSettingsRequest) (config.RuntimeSettings, error)
}

type SettingsHandler interface {
	GetSettings(w http.ResponseWriter, r *http.Request)
	UpdateSettings(w http.ResponseWriter, r *http.Request)
}

type settingsHandlerImpl struct {
	settings SettingsStore
}

func NewSettingsHandler(settings SettingsStore) SettingsHandler {
	return &settingsHandlerImpl{settings: settings}
}

func (h *settingsHandlerImpl) GetSettings(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.settings.Get().Response())
}

func (h *settingsHandlerImpl) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req config.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	updated, err := h.settings.Update(req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Runtime settings updated",
		"absence_cutoff", updated.AbsenceCutoff.String(),
		"min_work_hours", updated.MinWorkHours,
		"absent_job_time", updated.AbsentJobTime.String(),
		"report_job_time", updated.ReportJobTime.String(),
	)
	response.SuccessWithMessage(w, "Settings updated successfully", updated.Response())
}
