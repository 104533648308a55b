package metrics

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/cron"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "attendance"

// Metrics holds the process counters exposed on /metrics.
type Metrics struct {
	clockEvents    *prometheus.CounterVec
	absencesMarked prometheus.Counter
	jobRuns        *prometheus.CounterVec
	jobDuration    *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		clockEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clock_events_total",
			Help:      "Clock-in and clock-out attempts by result.",
		}, []string{"action", "result"}),
		absencesMarked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "absences_marked_total",
			Help:      "Absent placeholder records inserted by the sweep.",
		}),
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "job_runs_total",
			Help:      "Scheduler job runs by trigger and outcome.",
		}, []string{"job", "trigger", "outcome"}),
		jobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "job_duration_seconds",
			Help:      "Scheduler job run time.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}, []string{"job"}),
	}

	reg.MustRegister(m.clockEvents, m.absencesMarked, m.jobRuns, m.jobDuration)
	return m
}

// ClockEvent counts one clock action. result is a status in lower case, or
// "rejected" for business-rule refusals and "error" for failures.
func (m *Metrics) ClockEvent(action, result string) {
	m.clockEvents.WithLabelValues(action, result).Inc()
}

func (m *Metrics) AbsencesMarked(n int) {
	m.absencesMarked.Add(float64(n))
}

// JobFinished implements cron.Observer.
func (m *Metrics) JobFinished(name string, trigger cron.Trigger, err error, duration time.Duration) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.jobRuns.WithLabelValues(name, string(trigger), outcome).Inc()
	m.jobDuration.WithLabelValues(name).Observe(duration.Seconds())
}
