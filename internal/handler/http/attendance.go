package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type AttendanceHandler interface {
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	GetMyAttendance(w http.ResponseWriter, r *http.Request)
	ListByDate(w http.ResponseWriter, r *http.Request)
	GetTodayStats(w http.ResponseWriter, r *http.Request)
	MarkAbsent(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	loc               *time.Location
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, loc *time.Location) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		loc:               loc,
	}
}

// queryLimit reads the optional limit query parameter. Zero means the
// service default.
func queryLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, validator.ValidationErrors{{Field: "limit", Message: "limit must be a non-negative integer"}}
	}
	return limit, nil
}

// ClockIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	employeeID, err := middleware.EmployeeIDFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.ClockIn(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, result.Message, result)
}

// ClockOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	employeeID, err := middleware.EmployeeIDFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.ClockOut(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, result.Message, result)
}

// GetMyAttendance implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMyAttendance(w http.ResponseWriter, r *http.Request) {
	employeeID, err := middleware.EmployeeIDFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	limit, err := queryLimit(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	history, err := h.attendanceService.GetHistory(r.Context(), attendance.HistoryFilter{
		EmployeeID: employeeID,
		Limit:      limit,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, history)
}

// ListByDate implements AttendanceHandler. The date defaults to today.
func (h *attendanceHandlerImpl) ListByDate(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	req := attendance.ListByDateRequest{
		Date:  r.URL.Query().Get("date"),
		Limit: limit,
	}
	if req.Date == "" {
		req.Date = time.Now().In(h.loc).Format(time.DateOnly)
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	records, err := h.attendanceService.ListByDate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, records)
}

// GetTodayStats implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetTodayStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.attendanceService.GetTodayStats(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, stats)
}

// MarkAbsent implements AttendanceHandler.
func (h *attendanceHandlerImpl) MarkAbsent(w http.ResponseWriter, r *http.Request) {
	var req attendance.MarkAbsentRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	marked, err := h.attendanceService.MarkAbsent(r.Context(), req.ParsedDate)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Absent employees marked", attendance.MarkAbsentResponse{
		Date:   req.ParsedDate.Format(time.DateOnly),
		Marked: marked,
	})
}
