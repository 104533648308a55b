package cron

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type recordingObserver struct {
	mu   sync.Mutex
	runs []Trigger
}

func (o *recordingObserver) JobFinished(_ string, trigger Trigger, _ error, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.runs = append(o.runs, trigger)
}

func fixedAt(h, m int) func() attendance.TimeOfDay {
	return func() attendance.TimeOfDay { return attendance.NewTimeOfDay(h, m, 0) }
}

func newTestScheduler(clock *fakeClock, opts ...Option) *Scheduler {
	return NewScheduler(time.Hour, append([]Option{WithClock(clock.Now)}, opts...)...)
}

func TestScheduler_FiresOncePerDay(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 3, 4, 17, 0, 5, 0, time.UTC)}
	s := newTestScheduler(clock)

	var calls atomic.Int32
	s.AddJob(Job{Name: "sweep", At: fixedAt(17, 0), Fn: func(context.Context, time.Time) error {
		calls.Add(1)
		return nil
	}})

	assert.Equal(t, 1, s.RunDue(context.Background()))

	// Same minute observed again 30 seconds later.
	clock.Set(time.Date(2024, 3, 4, 17, 0, 35, 0, time.UTC))
	assert.Equal(t, 0, s.RunDue(context.Background()))

	// Different minute on the same day.
	clock.Set(time.Date(2024, 3, 4, 17, 1, 5, 0, time.UTC))
	assert.Equal(t, 0, s.RunDue(context.Background()))

	// Next day.
	clock.Set(time.Date(2024, 3, 5, 17, 0, 5, 0, time.UTC))
	assert.Equal(t, 1, s.RunDue(context.Background()))

	assert.Equal(t, int32(2), calls.Load())
}

func TestScheduler_PassesClockReading(t *testing.T) {
	want := time.Date(2024, 3, 4, 23, 59, 10, 0, time.UTC)
	clock := &fakeClock{now: want}
	s := newTestScheduler(clock)

	var got time.Time
	s.AddJob(Job{Name: "report", At: fixedAt(23, 59), Fn: func(_ context.Context, now time.Time) error {
		got = now
		return nil
	}})

	s.RunDue(context.Background())
	assert.Equal(t, want, got)
}

func TestScheduler_FailureDoesNotAdvanceMarker(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 3, 4, 17, 0, 0, 0, time.UTC)}
	s := newTestScheduler(clock)

	var calls atomic.Int32
	s.AddJob(Job{Name: "flaky", At: fixedAt(17, 0), Fn: func(context.Context, time.Time) error {
		if calls.Add(1) == 1 {
			return errors.New("store unavailable")
		}
		return nil
	}})
	s.AddJob(Job{Name: "other", At: fixedAt(17, 0), Fn: func(context.Context, time.Time) error { return nil }})

	assert.Equal(t, 2, s.RunDue(context.Background()), "a failing job must not stop the others")

	status := s.Status()
	require.Len(t, status.Jobs, 2)
	assert.Nil(t, status.Jobs[0].LastFired)
	require.NotNil(t, status.Jobs[0].LastError)
	assert.Equal(t, "store unavailable", *status.Jobs[0].LastError)

	clock.Set(time.Date(2024, 3, 4, 17, 0, 30, 0, time.UTC))
	assert.Equal(t, 1, s.RunDue(context.Background()), "the failed job is retried on the next poll")
	assert.Equal(t, int32(2), calls.Load())

	status = s.Status()
	require.NotNil(t, status.Jobs[0].LastFired)
	assert.Equal(t, "2024-03-04", *status.Jobs[0].LastFired)
	assert.Nil(t, status.Jobs[0].LastError)
}

func TestScheduler_PanicIsContained(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 3, 4, 17, 0, 0, 0, time.UTC)}
	s := newTestScheduler(clock)

	s.AddJob(Job{Name: "boom", At: fixedAt(17, 0), Fn: func(context.Context, time.Time) error {
		panic("nil map")
	}})

	assert.NotPanics(t, func() { s.RunDue(context.Background()) })
	assert.NotNil(t, s.Status().Jobs[0].LastError)
	assert.Nil(t, s.Status().Jobs[0].LastFired)
}

func TestScheduler_DaysFilter(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 3, 15, 0, 30, 0, 0, time.UTC)}
	s := newTestScheduler(clock)

	var calls atomic.Int32
	s.AddJob(Job{
		Name: "half_month",
		At:   fixedAt(0, 30),
		Days: func(now time.Time) bool { return now.Day() == 1 || now.Day() == 16 },
		Fn: func(context.Context, time.Time) error {
			calls.Add(1)
			return nil
		},
	})

	assert.Equal(t, 0, s.RunDue(context.Background()))

	clock.Set(time.Date(2024, 3, 16, 0, 30, 0, 0, time.UTC))
	assert.Equal(t, 1, s.RunDue(context.Background()))
	assert.Equal(t, int32(1), calls.Load())
}

func TestScheduler_DynamicTime(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 3, 4, 16, 30, 0, 0, time.UTC)}
	s := newTestScheduler(clock)

	var at atomic.Int64
	at.Store(int64(attendance.NewTimeOfDay(17, 0, 0)))
	s.AddJob(Job{
		Name: "sweep",
		At:   func() attendance.TimeOfDay { return attendance.TimeOfDay(at.Load()) },
		Fn:   func(context.Context, time.Time) error { return nil },
	})

	assert.Equal(t, 0, s.RunDue(context.Background()))

	at.Store(int64(attendance.NewTimeOfDay(16, 30, 0)))
	assert.Equal(t, 1, s.RunDue(context.Background()))
	assert.Equal(t, "16:30", s.Status().Jobs[0].At)
}

// Manual runs leave the once-per-day marker alone, so the scheduled run of the
// same day still happens afterwards.
func TestScheduler_ManualRunDoesNotSetMarker(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)}
	observer := &recordingObserver{}
	s := newTestScheduler(clock, WithObserver(observer))

	var calls atomic.Int32
	s.AddJob(Job{Name: "sweep", At: fixedAt(17, 0), Fn: func(context.Context, time.Time) error {
		calls.Add(1)
		return nil
	}})

	require.NoError(t, s.RunNow(context.Background(), "sweep"))
	assert.Nil(t, s.Status().Jobs[0].LastFired)

	clock.Set(time.Date(2024, 3, 4, 17, 0, 0, 0, time.UTC))
	assert.Equal(t, 1, s.RunDue(context.Background()))
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, []Trigger{TriggerManual, TriggerScheduled}, observer.runs)
}

func TestScheduler_RunNowUnknownJob(t *testing.T) {
	s := newTestScheduler(&fakeClock{now: time.Now()})
	assert.ErrorIs(t, s.RunNow(context.Background(), "missing"), ErrJobNotFound)
	assert.ErrorIs(t, s.Trigger("missing"), ErrJobNotFound)
}

func TestScheduler_RunNowReturnsJobError(t *testing.T) {
	s := newTestScheduler(&fakeClock{now: time.Now()})
	boom := errors.New("boom")
	s.AddJob(Job{Name: "job", At: fixedAt(1, 0), Fn: func(context.Context, time.Time) error { return boom }})

	assert.ErrorIs(t, s.RunNow(context.Background(), "job"), boom)
}

func TestScheduler_StopWaitsForInFlightJob(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 3, 4, 17, 0, 0, 0, time.UTC)}
	s := newTestScheduler(clock)

	started := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool
	var ctxErr atomic.Value

	s.AddJob(Job{Name: "slow", At: fixedAt(17, 0), Fn: func(ctx context.Context, _ time.Time) error {
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			ctxErr.Store(err)
		}
		finished.Store(true)
		return nil
	}})

	s.Start()
	<-started
	assert.True(t, s.Status().Running)

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while a job was still running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after the job finished")
	}

	assert.True(t, finished.Load())
	assert.Nil(t, ctxErr.Load(), "the job context must not be cancelled by Stop")
	assert.False(t, s.Status().Running)
}

func TestScheduler_TriggerRunsInBackground(t *testing.T) {
	s := newTestScheduler(&fakeClock{now: time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)})

	done := make(chan struct{})
	s.AddJob(Job{Name: "job", At: fixedAt(17, 0), Fn: func(context.Context, time.Time) error {
		close(done)
		return nil
	}})

	require.NoError(t, s.Trigger("job"))
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("triggered job did not run")
	}

	s.Stop()
	status := s.Status().Jobs[0]
	require.NotNil(t, status.LastTrigger)
	assert.Equal(t, string(TriggerManual), *status.LastTrigger)
	assert.Nil(t, status.LastFired)
}

func TestScheduler_TriggerAfterStop(t *testing.T) {
	s := newTestScheduler(&fakeClock{now: time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)})

	var calls atomic.Int32
	s.AddJob(Job{Name: "job", At: fixedAt(17, 0), Fn: func(context.Context, time.Time) error {
		calls.Add(1)
		return nil
	}})

	s.Start()
	s.Stop()

	assert.ErrorIs(t, s.Trigger("job"), ErrSchedulerStopped)
	assert.Equal(t, int32(0), calls.Load())
	assert.Nil(t, s.Status().Jobs[0].LastTrigger)
}
