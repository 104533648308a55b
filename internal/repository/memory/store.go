// Package memory keeps every table in process memory. It backs DB_DRIVER=memory
// and the service tests.
package memory

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/master/position"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
)

type attendanceKey struct {
	employeeID string
	date       time.Time
}

type periodKey struct {
	kind  report.PeriodKind
	start time.Time
	end   time.Time
}

type performanceKey struct {
	employeeID string
	period     periodKey
}

type tables struct {
	positions   map[string]position.Position
	employees   map[string]employee.Employee
	admins      map[string]auth.Admin
	attendance  map[attendanceKey]attendance.Record
	daily       map[time.Time]report.DailyReport
	summaries   map[periodKey]report.PeriodSummary
	performance map[performanceKey]report.EmployeePerformance
	leaves      map[string]leave.LeaveRequest
}

func newTables() *tables {
	return &tables{
		positions:   make(map[string]position.Position),
		employees:   make(map[string]employee.Employee),
		admins:      make(map[string]auth.Admin),
		attendance:  make(map[attendanceKey]attendance.Record),
		daily:       make(map[time.Time]report.DailyReport),
		summaries:   make(map[periodKey]report.PeriodSummary),
		performance: make(map[performanceKey]report.EmployeePerformance),
		leaves:      make(map[string]leave.LeaveRequest),
	}
}

// Rows are stored by value and replaced on update, so copying the maps is enough
// for a snapshot.
func (t *tables) clone() *tables {
	return &tables{
		positions:   maps.Clone(t.positions),
		employees:   maps.Clone(t.employees),
		admins:      maps.Clone(t.admins),
		attendance:  maps.Clone(t.attendance),
		daily:       maps.Clone(t.daily),
		summaries:   maps.Clone(t.summaries),
		performance: maps.Clone(t.performance),
		leaves:      maps.Clone(t.leaves),
	}
}

// Store is the shared state behind every memory repository.
type Store struct {
	mu   sync.RWMutex
	data *tables

	// txMu serializes transactions.
	txMu sync.Mutex

	now func() time.Time
}

func NewStore() *Store {
	return &Store{data: newTables(), now: time.Now}
}

func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}
	return id.String(), nil
}

func (s *Store) read(fn func(t *tables)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.data)
}

// write applies fn under the write lock. Outside a transaction it first waits
// for any open transaction to finish so a rollback cannot discard it.
func (s *Store) write(ctx context.Context, fn func(t *tables) error) error {
	if ctx.Value(txKey{}) == nil {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

type txKey struct{}

type transactor struct {
	store *Store
}

// NewTransactor returns a database.Transactor that restores a snapshot of the
// store when fn fails. Transactions and writes outside them are serialized.
func NewTransactor(store *Store) database.Transactor {
	return &transactor{store: store}
}

// WithinTransaction implements database.Transactor.
func (t *transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	t.store.txMu.Lock()
	defer t.store.txMu.Unlock()

	t.store.mu.RLock()
	snapshot := t.store.data.clone()
	t.store.mu.RUnlock()

	committed := false
	defer func() {
		if !committed {
			t.store.mu.Lock()
			t.store.data = snapshot
			t.store.mu.Unlock()
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, struct{}{})); err != nil {
		return err
	}
	committed = true
	return nil
}
