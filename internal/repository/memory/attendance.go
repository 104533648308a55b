package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
)

type attendanceRepository struct {
	store *Store
}

func NewAttendanceRepository(store *Store) attendance.AttendanceRepository {
	return &attendanceRepository{store: store}
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	id, err := newID()
	if err != nil {
		return attendance.Record{}, err
	}

	err = a.store.write(ctx, func(t *tables) error {
		key := attendanceKey{employeeID: record.EmployeeID, date: attendance.DateOf(record.Date)}
		if _, exists := t.attendance[key]; exists {
			return attendance.ErrAlreadyClockedIn
		}
		record.ID = id
		record.Date = key.date
		record.CreatedAt = a.store.now()
		t.attendance[key] = record
		return nil
	})
	if err != nil {
		return attendance.Record{}, err
	}
	return record, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Record, error) {
	var found *attendance.Record
	a.store.read(func(t *tables) {
		if r, ok := t.attendance[attendanceKey{employeeID: employeeID, date: attendance.DateOf(date)}]; ok {
			found = &r
		}
	})
	return found, nil
}

// SetClockOut implements attendance.AttendanceRepository.
func (a *attendanceRepository) SetClockOut(ctx context.Context, id string, clockOut time.Time) error {
	return a.store.write(ctx, func(t *tables) error {
		for key, r := range t.attendance {
			if r.ID != id {
				continue
			}
			if r.ClockOut != nil {
				return attendance.ErrAlreadyClockedOut
			}
			r.ClockOut = &clockOut
			t.attendance[key] = r
			return nil
		}
		return attendance.ErrAttendanceNotFound
	})
}

// MarkAbsent implements attendance.AttendanceRepository.
func (a *attendanceRepository) MarkAbsent(ctx context.Context, date time.Time) (int, error) {
	day := attendance.DateOf(date)
	marked := 0

	err := a.store.write(ctx, func(t *tables) error {
		for employeeID := range t.employees {
			key := attendanceKey{employeeID: employeeID, date: day}
			if _, exists := t.attendance[key]; exists {
				continue
			}
			id, err := newID()
			if err != nil {
				return err
			}
			t.attendance[key] = attendance.Record{
				ID:         id,
				EmployeeID: employeeID,
				Date:       day,
				Status:     attendance.StatusAbsent,
				CreatedAt:  a.store.now(),
			}
			marked++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return marked, nil
}

// CountByStatus implements attendance.AttendanceRepository.
func (a *attendanceRepository) CountByStatus(ctx context.Context, date time.Time) (attendance.StatusCounts, error) {
	day := attendance.DateOf(date)
	var counts attendance.StatusCounts

	a.store.read(func(t *tables) {
		for key, r := range t.attendance {
			if !key.date.Equal(day) {
				continue
			}
			switch r.Status {
			case attendance.StatusPresent:
				counts.Present++
			case attendance.StatusLate:
				counts.Late++
			case attendance.StatusAbsent:
				counts.Absent++
			}
		}
	})
	return counts, nil
}

// ListByDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByDate(ctx context.Context, date time.Time, limit int) ([]attendance.Record, error) {
	day := attendance.DateOf(date)
	records := a.collect(func(r attendance.Record) bool { return r.Date.Equal(day) })

	slices.SortFunc(records, func(x, y attendance.Record) int {
		switch {
		case x.ClockIn != nil && y.ClockIn == nil:
			return -1
		case x.ClockIn == nil && y.ClockIn != nil:
			return 1
		case x.ClockIn != nil && y.ClockIn != nil && !x.ClockIn.Equal(*y.ClockIn):
			return y.ClockIn.Compare(*x.ClockIn)
		}
		return strings.Compare(*x.EmployeeName, *y.EmployeeName)
	})

	return truncate(records, limit), nil
}

// ListByEmployee implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string, limit int) ([]attendance.Record, error) {
	records := a.collect(func(r attendance.Record) bool { return r.EmployeeID == employeeID })

	slices.SortFunc(records, func(x, y attendance.Record) int {
		return y.Date.Compare(x.Date)
	})

	return truncate(records, limit), nil
}

// ListInRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListInRange(ctx context.Context, start, end time.Time) ([]attendance.Record, error) {
	from, to := attendance.DateOf(start), attendance.DateOf(end)

	var records []attendance.Record
	a.store.read(func(t *tables) {
		for key, r := range t.attendance {
			if key.date.Before(from) || key.date.After(to) {
				continue
			}
			records = append(records, r)
		}
	})

	slices.SortFunc(records, func(x, y attendance.Record) int {
		if c := x.Date.Compare(y.Date); c != 0 {
			return c
		}
		return strings.Compare(x.EmployeeID, y.EmployeeID)
	})
	return records, nil
}

// collect returns the matching records joined with employee and position details.
func (a *attendanceRepository) collect(match func(attendance.Record) bool) []attendance.Record {
	records := make([]attendance.Record, 0)
	a.store.read(func(t *tables) {
		for _, r := range t.attendance {
			if !match(r) {
				continue
			}
			emp, ok := t.employees[r.EmployeeID]
			if !ok {
				continue
			}
			name := emp.FullName()
			r.EmployeeName = &name
			r.Email = emp.Email
			r.Phone = emp.Phone
			if emp.PositionID != nil {
				if pos, ok := t.positions[*emp.PositionID]; ok {
					posName := pos.Name
					r.PositionName = &posName
				}
			}
			records = append(records, r)
		}
	})
	return records
}

func truncate[T any](rows []T, limit int) []T {
	if limit > 0 && len(rows) > limit {
		return rows[:limit]
	}
	return rows
}
