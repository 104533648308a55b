package export

import (
	"testing"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestPeriodReportXLSX(t *testing.T) {
	name := "John R. Doe"
	resp := report.PeriodReportResponse{
		Summary: &report.PeriodSummaryResponse{
			Kind:               report.KindFifteenDay,
			PeriodStart:        "2024-03-01",
			PeriodEnd:          "2024-03-15",
			TotalPresent:       10,
			TotalLate:          2,
			TotalAbsent:        3,
			TotalWorkDays:      15,
			AveragePresentRate: "66.67",
			AverageLateRate:    "13.33",
			AverageAbsentRate:  "20.00",
		},
		Employees: []report.EmployeePerformanceResponse{{
			EmployeeID:       "emp-1",
			EmployeeName:     &name,
			PresentDays:      10,
			LateDays:         2,
			AbsentDays:       3,
			TotalHoursWorked: "102.00",
			AttendanceRate:   "80.00",
		}},
	}

	buf, err := PeriodReportXLSX(resp)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{summarySheet, employeesSheet}, f.GetSheetList())

	v, err := f.GetCellValue(summarySheet, "B3")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", v)

	rows, err := f.GetRows(employeesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, employeeHeader, rows[0])
	assert.Equal(t, []string{"emp-1", "John R. Doe", "", "10", "2", "3", "102.00", "80.00"}, rows[1])
}

func TestPeriodReportXLSX_NoSummary(t *testing.T) {
	buf, err := PeriodReportXLSX(report.PeriodReportResponse{})
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue(summarySheet, "A1")
	require.NoError(t, err)
	assert.Contains(t, v, "No summary")
}
