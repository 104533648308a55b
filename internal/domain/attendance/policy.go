package attendance

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is an offset from midnight with second precision.
type TimeOfDay time.Duration

const day = TimeOfDay(24 * time.Hour)

// NewTimeOfDay builds a TimeOfDay from clock fields.
func NewTimeOfDay(hour, minute, second int) TimeOfDay {
	return TimeOfDay(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute + time.Duration(second)*time.Second)
}

// ParseTimeOfDay accepts "HH:MM" or "HH:MM:SS".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid time of day %q: expected HH:MM or HH:MM:SS", s)
	}

	limits := []int{23, 59, 59}
	fields := make([]int, 3)
	for i, p := range parts {
		if len(p) != 2 {
			return 0, fmt.Errorf("invalid time of day %q", s)
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > limits[i] {
			return 0, fmt.Errorf("invalid time of day %q", s)
		}
		fields[i] = n
	}

	return NewTimeOfDay(fields[0], fields[1], fields[2]), nil
}

// MustParseTimeOfDay is ParseTimeOfDay for constants; it panics on bad input.
func MustParseTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

// TimeOfDayOf extracts the wall-clock time of t in its own location.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return NewTimeOfDay(t.Hour(), t.Minute(), t.Second()) + TimeOfDay(t.Nanosecond())
}

func (t TimeOfDay) Hour() int   { return int(time.Duration(t) / time.Hour) }
func (t TimeOfDay) Minute() int { return int(time.Duration(t)%time.Hour) / int(time.Minute) }
func (t TimeOfDay) Second() int { return int(time.Duration(t)%time.Minute) / int(time.Second) }

// Add wraps around midnight.
func (t TimeOfDay) Add(d time.Duration) TimeOfDay {
	return ((t+TimeOfDay(d))%day + day) % day
}

// On places t on the calendar date of date, in loc.
func (t TimeOfDay) On(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc).Add(time.Duration(t))
}

// String renders HH:MM, or HH:MM:SS when seconds are set.
func (t TimeOfDay) String() string {
	if t.Second() != 0 {
		return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
	}
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// PositionPolicy is the lateness rule of a position.
type PositionPolicy struct {
	LateThreshold      TimeOfDay
	GracePeriodMinutes int
}

// DefaultPositionPolicy applies to employees without a position.
var DefaultPositionPolicy = PositionPolicy{
	LateThreshold:      NewTimeOfDay(8, 0, 0),
	GracePeriodMinutes: 15,
}

// Deadline is the last moment that still counts as Present. It does not wrap:
// a threshold plus grace at or past midnight leaves the whole day Present.
func (p PositionPolicy) Deadline() TimeOfDay {
	return p.LateThreshold + TimeOfDay(time.Duration(p.GracePeriodMinutes)*time.Minute)
}

// Settings are the runtime-tunable attendance rules.
type Settings struct {
	AbsenceCutoff TimeOfDay
	MinWorkHours  int
}

// DefaultSettings: cutoff 17:00, eight hours minimum.
var DefaultSettings = Settings{
	AbsenceCutoff: NewTimeOfDay(17, 0, 0),
	MinWorkHours:  8,
}

func (s Settings) MinWorkDuration() time.Duration {
	return time.Duration(s.MinWorkHours) * time.Hour
}

// SettingsProvider returns the settings in effect right now.
type SettingsProvider interface {
	AttendanceSettings() Settings
}

// ComputeStatus classifies a clock-in. A clock-in after the absence cutoff is Absent
// regardless of the position; otherwise it is Late when strictly after
// threshold+grace and Present up to and including that instant.
func ComputeStatus(clockIn time.Time, policy PositionPolicy, cutoff TimeOfDay) Status {
	at := TimeOfDayOf(clockIn)
	if at > cutoff {
		return StatusAbsent
	}
	if at > policy.Deadline() {
		return StatusLate
	}
	return StatusPresent
}
