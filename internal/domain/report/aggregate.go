package report

import (
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Aggregate rolls attendance rows up into one performance row per employee and a
// period summary. Rows outside the period or of employees not listed are ignored.
// The result depends only on its inputs, so aggregating unchanged data twice gives
// identical rows apart from GeneratedAt, which is left zero.
func Aggregate(period Period, employeeIDs []string, records []attendance.Record) (PeriodSummary, []EmployeePerformance) {
	perf := make(map[string]*EmployeePerformance, len(employeeIDs))
	hours := make(map[string]time.Duration, len(employeeIDs))
	for _, id := range employeeIDs {
		perf[id] = &EmployeePerformance{EmployeeID: id, Period: period}
	}

	workDays := make(map[time.Time]struct{})
	for _, r := range records {
		p, ok := perf[r.EmployeeID]
		if !ok || !period.Contains(r.Date) {
			continue
		}
		workDays[attendance.DateOf(r.Date)] = struct{}{}

		switch r.Status {
		case attendance.StatusPresent:
			p.PresentDays++
		case attendance.StatusLate:
			p.LateDays++
		case attendance.StatusAbsent:
			p.AbsentDays++
		}
		hours[r.EmployeeID] += r.Worked()
	}

	days := decimal.NewFromInt(int64(period.Days()))
	rate := func(n int) decimal.Decimal {
		return decimal.NewFromInt(int64(n)).Mul(hundred).Div(days)
	}

	summary := PeriodSummary{Period: period, TotalWorkDays: len(workDays)}
	sumPresent, sumLate, sumAbsent := decimal.Zero, decimal.Zero, decimal.Zero

	details := make([]EmployeePerformance, 0, len(perf))
	for _, id := range employeeIDs {
		p := perf[id]
		p.TotalHoursWorked = decimal.NewFromFloat(hours[id].Hours()).Round(2)
		p.AttendanceRate = rate(p.PresentDays + p.LateDays).Round(2)

		summary.TotalPresent += p.PresentDays
		summary.TotalLate += p.LateDays
		summary.TotalAbsent += p.AbsentDays
		sumPresent = sumPresent.Add(rate(p.PresentDays))
		sumLate = sumLate.Add(rate(p.LateDays))
		sumAbsent = sumAbsent.Add(rate(p.AbsentDays))

		details = append(details, *p)
	}

	if n := len(details); n > 0 {
		count := decimal.NewFromInt(int64(n))
		summary.AveragePresentRate = sumPresent.Div(count).Round(2)
		summary.AverageLateRate = sumLate.Div(count).Round(2)
		summary.AverageAbsentRate = sumAbsent.Div(count).Round(2)
	}

	SortPerformance(details)
	return summary, details
}

// SortPerformance orders rows by attendance rate, then hours worked, both
// descending.
func SortPerformance(rows []EmployeePerformance) {
	sort.SliceStable(rows, func(i, j int) bool {
		if c := rows[i].AttendanceRate.Cmp(rows[j].AttendanceRate); c != 0 {
			return c > 0
		}
		if c := rows[i].TotalHoursWorked.Cmp(rows[j].TotalHoursWorked); c != 0 {
			return c > 0
		}
		return rows[i].EmployeeID < rows[j].EmployeeID
	})
}
