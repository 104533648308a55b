package export

import (
	"bytes"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/xuri/excelize/v2"
)

const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	summarySheet   = "Summary"
	employeesSheet = "Employees"
)

var employeeHeader = []string{
	"Employee ID", "Name", "Position", "Present Days", "Late Days",
	"Absent Days", "Hours Worked", "Attendance Rate (%)",
}

// PeriodReportXLSX renders a period report as a workbook with a summary sheet
// and one row per employee.
func PeriodReportXLSX(r report.PeriodReportResponse) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(summarySheet)
	if err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(employeesSheet); err != nil {
		return nil, err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#1F2937"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	if err := writeSummary(f, r.Summary, header); err != nil {
		return nil, err
	}
	if err := writeEmployees(f, r.Employees, header); err != nil {
		return nil, err
	}

	return f.WriteToBuffer()
}

func writeSummary(f *excelize.File, s *report.PeriodSummaryResponse, style int) error {
	if s == nil {
		return setRow(f, summarySheet, 1, []any{"No summary generated for this period"})
	}

	rows := [][]any{
		{"Field", "Value"},
		{"Kind", string(s.Kind)},
		{"Period Start", s.PeriodStart},
		{"Period End", s.PeriodEnd},
		{"Total Present", s.TotalPresent},
		{"Total Late", s.TotalLate},
		{"Total Absent", s.TotalAbsent},
		{"Total Work Days", s.TotalWorkDays},
		{"Average Present Rate (%)", s.AveragePresentRate},
		{"Average Late Rate (%)", s.AverageLateRate},
		{"Average Absent Rate (%)", s.AverageAbsentRate},
		{"Generated At", s.GeneratedAt},
	}
	for i, row := range rows {
		if err := setRow(f, summarySheet, i+1, row); err != nil {
			return err
		}
	}

	_ = f.SetColWidth(summarySheet, "A", "A", 28)
	_ = f.SetColWidth(summarySheet, "B", "B", 28)
	return f.SetCellStyle(summarySheet, "A1", "B1", style)
}

func writeEmployees(f *excelize.File, rows []report.EmployeePerformanceResponse, style int) error {
	header := make([]any, len(employeeHeader))
	for i, h := range employeeHeader {
		header[i] = h
	}
	if err := setRow(f, employeesSheet, 1, header); err != nil {
		return err
	}

	for i, p := range rows {
		values := []any{
			p.EmployeeID,
			deref(p.EmployeeName),
			deref(p.PositionName),
			p.PresentDays,
			p.LateDays,
			p.AbsentDays,
			p.TotalHoursWorked,
			p.AttendanceRate,
		}
		if err := setRow(f, employeesSheet, i+2, values); err != nil {
			return err
		}
	}

	_ = f.SetColWidth(employeesSheet, "A", "A", 38)
	_ = f.SetColWidth(employeesSheet, "B", "C", 28)
	_ = f.SetColWidth(employeesSheet, "D", "H", 16)

	last, err := excelize.CoordinatesToCellName(len(employeeHeader), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(employeesSheet, "A1", last, style)
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	for c, v := range values {
		cell, err := excelize.CoordinatesToCellName(c+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("set %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
