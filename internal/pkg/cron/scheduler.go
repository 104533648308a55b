package cron

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/google/uuid"
)

var ErrJobNotFound = errors.New("scheduler job not found")

var ErrSchedulerStopped = errors.New("scheduler is stopped")

// Trigger tells how a job run was started.
type Trigger string

const (
	TriggerScheduled Trigger = "scheduled"
	TriggerManual    Trigger = "manual"
)

// Job is a task fired once per calendar day when the wall clock reaches At.
type Job struct {
	Name string
	// At is read on every poll so changes apply from the next poll on.
	At func() attendance.TimeOfDay
	// Days restricts the days the job fires on. Nil means every day.
	Days func(now time.Time) bool
	Fn   func(ctx context.Context, now time.Time) error
}

// Observer is notified after every job run.
type Observer interface {
	JobFinished(name string, trigger Trigger, err error, duration time.Duration)
}

type jobState struct {
	Job
	lastFired time.Time // calendar date of the last successful scheduled run
	lastRun   *RunInfo
}

type RunInfo struct {
	Trigger  Trigger
	Started  time.Time
	Duration time.Duration
	Err      error
}

// Scheduler polls the clock from a single goroutine and runs the jobs that are
// due, one after another. A scheduled run that fails does not advance the job's
// last-fired date, so the job is retried on the next poll in the same minute.
// Manual runs never touch the last-fired date.
type Scheduler struct {
	jobs     []*jobState
	interval time.Duration
	now      func() time.Time
	observer Observer

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

type Option func(*Scheduler)

// WithClock replaces time.Now. The returned time's location decides what
// "today" and the wall-clock minute are.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

func WithObserver(o Observer) Option {
	return func(s *Scheduler) { s.observer = o }
}

// NewScheduler creates a new cron scheduler polling every interval.
func NewScheduler(interval time.Duration, opts ...Option) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		interval: interval,
		now:      time.Now,
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddJob adds a job to the scheduler
func (s *Scheduler) AddJob(job Job) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs = append(s.jobs, &jobState{Job: job})
	slog.Info("Cron job registered", "name", job.Name, "at", job.At().String())
}

// Start begins polling in the background.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.running = true

	s.wg.Add(1)
	go s.loop()

	slog.Info("Cron scheduler started", "job_count", len(s.jobs), "interval", s.interval)
}

// Stop gracefully stops the scheduler. It returns after a job that is already
// running, scheduled or manual, has finished. A stopped scheduler is not restarted.
func (s *Scheduler) Stop() {
	slog.Info("Stopping cron scheduler...")
	s.mu.Lock()
	s.cancel()
	s.mu.Unlock()
	s.wg.Wait()

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
	slog.Info("Cron scheduler stopped")
}

func (s *Scheduler) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.RunDue(s.ctx)

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.RunDue(s.ctx)
		}
	}
}

// RunDue runs every job due at the current clock reading and returns how many
// ran. Jobs receive a context that is not cancelled by Stop.
func (s *Scheduler) RunDue(ctx context.Context) int {
	now := s.now()
	today := attendance.DateOf(now)
	minute := attendance.TimeOfDayOf(now.Truncate(time.Minute))

	ran := 0
	for _, job := range s.snapshot() {
		if ctx.Err() != nil {
			break
		}
		if !s.isDue(job, now, today, minute) {
			continue
		}

		ran++
		if err := s.execute(context.WithoutCancel(ctx), job, TriggerScheduled, now); err != nil {
			continue
		}

		s.mu.Lock()
		job.lastFired = today
		s.mu.Unlock()
	}
	return ran
}

func (s *Scheduler) isDue(job *jobState, now, today time.Time, minute attendance.TimeOfDay) bool {
	at := job.At()
	if at.Hour() != minute.Hour() || at.Minute() != minute.Minute() {
		return false
	}
	if job.Days != nil && !job.Days(now) {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return !job.lastFired.Equal(today)
}

// Trigger starts job name in the background, outside the schedule. It fails with
// ErrSchedulerStopped once Stop has been called.
func (s *Scheduler) Trigger(name string) error {
	job := s.find(name)
	if job == nil {
		return ErrJobNotFound
	}

	s.mu.Lock()
	if s.ctx.Err() != nil {
		s.mu.Unlock()
		return ErrSchedulerStopped
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		_ = s.execute(context.WithoutCancel(s.ctx), job, TriggerManual, s.now())
	}()
	return nil
}

// RunNow runs job name synchronously, outside the schedule, and returns its error.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	job := s.find(name)
	if job == nil {
		return ErrJobNotFound
	}
	return s.execute(ctx, job, TriggerManual, s.now())
}

// execute executes a job and logs results
func (s *Scheduler) execute(ctx context.Context, job *jobState, trigger Trigger, now time.Time) (err error) {
	start := time.Now()
	runID := uuid.NewString()
	log := slog.With("name", job.Name, "trigger", string(trigger), "run_id", runID)
	log.Info("Cron job starting")

	defer func() {
		if r := recover(); r != nil {
			err = errors.New("cron job panicked")
			log.Error("Cron job panicked", "panic", r)
		}

		duration := time.Since(start)
		if err != nil {
			log.Error("Cron job failed", "error", err, "duration", duration)
		} else {
			log.Info("Cron job completed", "duration", duration)
		}

		s.mu.Lock()
		job.lastRun = &RunInfo{Trigger: trigger, Started: now, Duration: duration, Err: err}
		s.mu.Unlock()

		if s.observer != nil {
			s.observer.JobFinished(job.Name, trigger, err, duration)
		}
	}()

	return job.Fn(ctx, now)
}

func (s *Scheduler) find(name string) *jobState {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, job := range s.jobs {
		if job.Name == name {
			return job
		}
	}
	return nil
}

func (s *Scheduler) snapshot() []*jobState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*jobState(nil), s.jobs...)
}

type JobStatus struct {
	Name        string  `json:"name"`
	At          string  `json:"at"`
	LastFired   *string `json:"last_fired"`
	LastRunAt   *string `json:"last_run_at"`
	LastTrigger *string `json:"last_trigger"`
	LastError   *string `json:"last_error"`
}

type Status struct {
	Running bool        `json:"running"`
	Jobs    []JobStatus `json:"jobs"`
}

// Status reports whether the loop runs, each job's time and its last runs.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := Status{Running: s.running, Jobs: make([]JobStatus, 0, len(s.jobs))}
	for _, job := range s.jobs {
		js := JobStatus{Name: job.Name, At: job.At().String()}
		if !job.lastFired.IsZero() {
			d := job.lastFired.Format(time.DateOnly)
			js.LastFired = &d
		}
		if run := job.lastRun; run != nil {
			at := run.Started.Format(time.RFC3339)
			trigger := string(run.Trigger)
			js.LastRunAt = &at
			js.LastTrigger = &trigger
			if run.Err != nil {
				msg := run.Err.Error()
				js.LastError = &msg
			}
		}
		status.Jobs = append(status.Jobs, js)
	}
	return status
}

// JobNames lists the registered jobs in registration order.
func (s *Scheduler) JobNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, len(s.jobs))
	for i, job := range s.jobs {
		names[i] = job.Name
	}
	return names
}
