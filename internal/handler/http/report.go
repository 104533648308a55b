package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/export"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type ReportHandler interface {
	// Daily reports
	GenerateDailyReport(w http.ResponseWriter, r *http.Request)
	ListDailyReports(w http.ResponseWriter, r *http.Request)
	GetDailyReport(w http.ResponseWriter, r *http.Request)
	GetDailyDetails(w http.ResponseWriter, r *http.Request)

	// 15-day and monthly reports
	GeneratePeriodReport(w http.ResponseWriter, r *http.Request)
	ListPeriodReports(w http.ResponseWriter, r *http.Request)
	GetPeriodDetails(w http.ResponseWriter, r *http.Request)
	ExportPeriodDetails(w http.ResponseWriter, r *http.Request)
	GetEmployeePeriodDetail(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

func dateParam(r *http.Request) (time.Time, error) {
	date, ok := validator.IsValidDate(chi.URLParam(r, "date"))
	if !ok {
		return time.Time{}, validator.ValidationErrors{{Field: "date", Message: "date must be in YYYY-MM-DD format"}}
	}
	return date, nil
}

// periodFromQuery resolves the period named by the {kind} URL parameter and
// the date, start/end or year/month query parameters.
func periodFromQuery(r *http.Request) (report.Period, error) {
	q := r.URL.Query()
	req := report.PeriodRequest{
		Kind:  chi.URLParam(r, "kind"),
		Date:  q.Get("date"),
		Start: q.Get("start"),
		End:   q.Get("end"),
	}

	var errs validator.ValidationErrors
	if s := q.Get("year"); s != "" {
		year, err := strconv.Atoi(s)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "year", Message: "year must be an integer"})
		}
		req.Year = year
	}
	if s := q.Get("month"); s != "" {
		month, err := strconv.Atoi(s)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "month", Message: "month must be an integer"})
		}
		req.Month = month
	}
	if len(errs) > 0 {
		return report.Period{}, errs
	}

	return req.Resolve()
}

// GenerateDailyReport handles POST /reports/daily
func (h *reportHandlerImpl) GenerateDailyReport(w http.ResponseWriter, r *http.Request) {
	var req report.GenerateDailyReportRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reportService.GenerateDailyReport(r.Context(), req.ParsedDate)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Daily report generated", result)
}

// ListDailyReports handles GET /reports/daily
func (h *reportHandlerImpl) ListDailyReports(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reportService.ListDailyReports(r.Context(), limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetDailyReport handles GET /reports/daily/{date}
func (h *reportHandlerImpl) GetDailyReport(w http.ResponseWriter, r *http.Request) {
	date, err := dateParam(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reportService.GetDailyReport(r.Context(), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetDailyDetails handles GET /reports/daily/{date}/details
func (h *reportHandlerImpl) GetDailyDetails(w http.ResponseWriter, r *http.Request) {
	date, err := dateParam(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reportService.GetDailyDetails(r.Context(), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GeneratePeriodReport handles POST /reports/periods/{kind}
func (h *reportHandlerImpl) GeneratePeriodReport(w http.ResponseWriter, r *http.Request) {
	var req report.PeriodRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.Kind = chi.URLParam(r, "kind")

	period, err := req.Resolve()
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reportService.GeneratePeriodReport(r.Context(), period)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Period report generated", result)
}

// ListPeriodReports handles GET /reports/periods/{kind}
func (h *reportHandlerImpl) ListPeriodReports(w http.ResponseWriter, r *http.Request) {
	kind, err := report.ParsePeriodKind(chi.URLParam(r, "kind"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	limit, err := queryLimit(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reportService.ListPeriodReports(r.Context(), kind, limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetPeriodDetails handles GET /reports/periods/{kind}/details
func (h *reportHandlerImpl) GetPeriodDetails(w http.ResponseWriter, r *http.Request) {
	period, err := periodFromQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reportService.GetPeriodDetails(r.Context(), period)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ExportPeriodDetails handles GET /reports/periods/{kind}/export
func (h *reportHandlerImpl) ExportPeriodDetails(w http.ResponseWriter, r *http.Request) {
	period, err := periodFromQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	buf, err := h.reportService.ExportPeriodDetails(r.Context(), period)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filename := fmt.Sprintf("attendance-%s-%s-%s.xlsx",
		period.Kind,
		period.Start.Format(time.DateOnly),
		period.End.Format(time.DateOnly),
	)
	response.File(w, export.ContentTypeXLSX, filename, buf.Bytes())
}

// GetEmployeePeriodDetail handles GET /reports/periods/{kind}/employees/{id}
func (h *reportHandlerImpl) GetEmployeePeriodDetail(w http.ResponseWriter, r *http.Request) {
	period, err := periodFromQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reportService.GetEmployeePeriodDetail(r.Context(), chi.URLParam(r, "id"), period)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
