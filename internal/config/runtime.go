package config

import (
	"sync"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// RuntimeSettings is the subset of configuration an admin may change without a
// restart.
type RuntimeSettings struct {
	AbsenceCutoff attendance.TimeOfDay
	MinWorkHours  int
	AbsentJobTime attendance.TimeOfDay
	ReportJobTime attendance.TimeOfDay
}

// Runtime holds RuntimeSettings behind a lock. Readers always see a complete
// snapshot and an update applies from the next evaluation on.
type Runtime struct {
	mu       sync.RWMutex
	settings RuntimeSettings
}

func NewRuntime(settings RuntimeSettings) *Runtime {
	return &Runtime{settings: settings}
}

// NewRuntimeFromConfig seeds the runtime settings from the loaded environment.
func NewRuntimeFromConfig(cfg *Config) *Runtime {
	return NewRuntime(RuntimeSettings{
		AbsenceCutoff: cfg.Attendance.AbsenceCutoff,
		MinWorkHours:  cfg.Attendance.MinWorkHours,
		AbsentJobTime: cfg.Scheduler.AbsentTime,
		ReportJobTime: cfg.Scheduler.ReportTime,
	})
}

func (r *Runtime) Get() RuntimeSettings {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.settings
}

// Update applies the non-nil fields of req after validating it.
func (r *Runtime) Update(req UpdateSettingsRequest) (RuntimeSettings, error) {
	if err := req.Validate(); err != nil {
		return RuntimeSettings{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if req.AbsenceCutoff != nil {
		r.settings.AbsenceCutoff = attendance.MustParseTimeOfDay(*req.AbsenceCutoff)
	}
	if req.MinWorkHours != nil {
		r.settings.MinWorkHours = *req.MinWorkHours
	}
	if req.AbsentJobTime != nil {
		r.settings.AbsentJobTime = attendance.MustParseTimeOfDay(*req.AbsentJobTime)
	}
	if req.ReportJobTime != nil {
		r.settings.ReportJobTime = attendance.MustParseTimeOfDay(*req.ReportJobTime)
	}
	return r.settings, nil
}

// AttendanceSettings implements attendance.SettingsProvider.
func (r *Runtime) AttendanceSettings() attendance.Settings {
	s := r.Get()
	return attendance.Settings{
		AbsenceCutoff: s.AbsenceCutoff,
		MinWorkHours:  s.MinWorkHours,
	}
}

// AbsentJobTime is read by the scheduler on every poll.
func (r *Runtime) AbsentJobTime() attendance.TimeOfDay {
	return r.Get().AbsentJobTime
}

func (r *Runtime) ReportJobTime() attendance.TimeOfDay {
	return r.Get().ReportJobTime
}

type UpdateSettingsRequest struct {
	AbsenceCutoff *string `json:"absence_cutoff"`
	MinWorkHours  *int    `json:"min_work_hours"`
	AbsentJobTime *string `json:"absent_job_time"`
	ReportJobTime *string `json:"report_job_time"`
}

func (r *UpdateSettingsRequest) Validate() error {
	var errs validator.ValidationErrors

	times := []struct {
		field string
		value *string
	}{
		{"absence_cutoff", r.AbsenceCutoff},
		{"absent_job_time", r.AbsentJobTime},
		{"report_job_time", r.ReportJobTime},
	}
	for _, t := range times {
		if t.value != nil && !validator.IsValidTimeOfDay(*t.value) {
			errs = append(errs, validator.ValidationError{
				Field:   t.field,
				Message: t.field + " must be in HH:MM format",
			})
		}
	}

	if r.MinWorkHours != nil && (*r.MinWorkHours < 0 || *r.MinWorkHours > 24) {
		errs = append(errs, validator.ValidationError{
			Field:   "min_work_hours",
			Message: "min_work_hours must be between 0 and 24",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SettingsResponse struct {
	AbsenceCutoff string `json:"absence_cutoff"`
	MinWorkHours  int    `json:"min_work_hours"`
	AbsentJobTime string `json:"absent_job_time"`
	ReportJobTime string `json:"report_job_time"`
}

func (s RuntimeSettings) Response() SettingsResponse {
	return SettingsResponse{
		AbsenceCutoff: s.AbsenceCutoff.String(),
		MinWorkHours:  s.MinWorkHours,
		AbsentJobTime: s.AbsentJobTime.String(),
		ReportJobTime: s.ReportJobTime.String(),
	}
}
