package report

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(employeeID string, day time.Time, status attendance.Status, worked time.Duration) attendance.Record {
	r := attendance.Record{EmployeeID: employeeID, Date: day, Status: status}
	if status != attendance.StatusAbsent || worked > 0 {
		in := day.Add(8 * time.Hour)
		r.ClockIn = &in
		if worked > 0 {
			out := in.Add(worked)
			r.ClockOut = &out
		}
	}
	return r
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func TestAggregate_AttendanceRate(t *testing.T) {
	period := FifteenDayPeriodContaining(date(2024, 3, 1))

	var records []attendance.Record
	for d := 1; d <= 15; d++ {
		status := attendance.StatusPresent
		switch {
		case d > 12:
			status = attendance.StatusAbsent
		case d > 10:
			status = attendance.StatusLate
		}
		worked := time.Duration(0)
		if status != attendance.StatusAbsent {
			worked = 8*time.Hour + 30*time.Minute
		}
		records = append(records, rec("emp-1", date(2024, 3, d), status, worked))
	}

	summary, details := Aggregate(period, []string{"emp-1"}, records)

	require.Len(t, details, 1)
	p := details[0]
	assert.Equal(t, 10, p.PresentDays)
	assert.Equal(t, 2, p.LateDays)
	assert.Equal(t, 3, p.AbsentDays)
	assertDecimal(t, "80", p.AttendanceRate)
	assertDecimal(t, "102", p.TotalHoursWorked)

	assert.Equal(t, 10, summary.TotalPresent)
	assert.Equal(t, 2, summary.TotalLate)
	assert.Equal(t, 3, summary.TotalAbsent)
	assert.Equal(t, 15, summary.TotalWorkDays)
	assertDecimal(t, "66.67", summary.AveragePresentRate)
	assertDecimal(t, "13.33", summary.AverageLateRate)
	assertDecimal(t, "20", summary.AverageAbsentRate)
}

func TestAggregate_IgnoresOutOfRangeAndUnknownEmployees(t *testing.T) {
	period := FifteenDayPeriodContaining(date(2024, 3, 1))
	records := []attendance.Record{
		rec("emp-1", date(2024, 3, 4), attendance.StatusPresent, 8*time.Hour),
		rec("emp-1", date(2024, 3, 16), attendance.StatusPresent, 8*time.Hour),
		rec("emp-1", date(2024, 2, 29), attendance.StatusLate, 8*time.Hour),
		rec("ghost", date(2024, 3, 5), attendance.StatusPresent, 8*time.Hour),
	}

	summary, details := Aggregate(period, []string{"emp-1", "emp-2"}, records)

	require.Len(t, details, 2)
	assert.Equal(t, "emp-1", details[0].EmployeeID)
	assert.Equal(t, 1, details[0].PresentDays)
	assertDecimal(t, "8", details[0].TotalHoursWorked)

	assert.Equal(t, "emp-2", details[1].EmployeeID)
	assert.Zero(t, details[1].PresentDays+details[1].LateDays+details[1].AbsentDays)
	assertDecimal(t, "0", details[1].AttendanceRate)

	assert.Equal(t, 1, summary.TotalWorkDays)
	assert.Equal(t, 1, summary.TotalPresent)
}

func TestAggregate_OpenRecordsCountNoHours(t *testing.T) {
	period := MonthPeriod(2024, time.March)
	records := []attendance.Record{
		rec("emp-1", date(2024, 3, 4), attendance.StatusLate, 0),
		rec("emp-1", date(2024, 3, 5), attendance.StatusAbsent, 0),
	}

	_, details := Aggregate(period, []string{"emp-1"}, records)

	require.Len(t, details, 1)
	assert.Equal(t, 1, details[0].LateDays)
	assert.Equal(t, 1, details[0].AbsentDays)
	assertDecimal(t, "0", details[0].TotalHoursWorked)
	assertDecimal(t, "3.23", details[0].AttendanceRate)
}

func TestAggregate_Deterministic(t *testing.T) {
	period := FifteenDayPeriodContaining(date(2024, 3, 16))
	records := []attendance.Record{
		rec("b", date(2024, 3, 18), attendance.StatusPresent, 9*time.Hour),
		rec("a", date(2024, 3, 18), attendance.StatusPresent, 8*time.Hour),
		rec("c", date(2024, 3, 18), attendance.StatusLate, 10*time.Hour),
		rec("a", date(2024, 3, 19), attendance.StatusPresent, 8*time.Hour),
	}
	ids := []string{"c", "b", "a"}

	s1, d1 := Aggregate(period, ids, records)
	s2, d2 := Aggregate(period, ids, records)

	assert.Equal(t, s1, s2)
	assert.Equal(t, d1, d2)

	order := make([]string, len(d1))
	for i, d := range d1 {
		order[i] = d.EmployeeID
	}
	// a has two days; b and c tie on rate and c worked longer.
	assert.Equal(t, []string{"a", "c", "b"}, order)
}

func TestAggregate_NoEmployees(t *testing.T) {
	summary, details := Aggregate(MonthPeriod(2024, time.March), nil, nil)
	assert.Empty(t, details)
	assert.True(t, summary.AveragePresentRate.IsZero())
	assert.Zero(t, summary.TotalWorkDays)
}
