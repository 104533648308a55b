package attendance

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, minute, second int) time.Time {
	return time.Date(2024, time.March, 4, hour, minute, second, 0, time.UTC)
}

func TestComputeStatus(t *testing.T) {
	policy := PositionPolicy{LateThreshold: NewTimeOfDay(8, 0, 0), GracePeriodMinutes: 15}
	cutoff := NewTimeOfDay(17, 0, 0)

	tests := []struct {
		name    string
		clockIn time.Time
		want    Status
	}{
		{"well before threshold", at(7, 30, 0), StatusPresent},
		{"inside grace period", at(8, 14, 0), StatusPresent},
		{"exactly threshold plus grace", at(8, 15, 0), StatusPresent},
		{"one second after grace", at(8, 15, 1), StatusLate},
		{"two minutes after grace", at(8, 16, 0), StatusLate},
		{"exactly at cutoff", at(17, 0, 0), StatusLate},
		{"after cutoff", at(17, 0, 1), StatusAbsent},
		{"evening", at(18, 0, 0), StatusAbsent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeStatus(tt.clockIn, policy, cutoff))
		})
	}
}

func TestComputeStatus_CutoffOverridesPolicy(t *testing.T) {
	// A night position whose grace ends after the cutoff still yields Absent.
	night := PositionPolicy{LateThreshold: NewTimeOfDay(20, 0, 0), GracePeriodMinutes: 30}
	assert.Equal(t, StatusAbsent, ComputeStatus(at(19, 0, 0), night, NewTimeOfDay(17, 0, 0)))
	assert.Equal(t, StatusPresent, ComputeStatus(at(16, 0, 0), night, NewTimeOfDay(17, 0, 0)))
}

func TestComputeStatus_UsesClockInLocation(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)
	clockIn := time.Date(2024, time.March, 4, 17, 30, 0, 0, jakarta)

	assert.Equal(t, StatusAbsent, ComputeStatus(clockIn, DefaultPositionPolicy, DefaultSettings.AbsenceCutoff))
	// Same instant read as 10:30 UTC.
	assert.Equal(t, StatusLate, ComputeStatus(clockIn.UTC(), DefaultPositionPolicy, DefaultSettings.AbsenceCutoff))
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{"08:00", NewTimeOfDay(8, 0, 0), false},
		{"23:59", NewTimeOfDay(23, 59, 0), false},
		{"06:30:15", NewTimeOfDay(6, 30, 15), false},
		{" 17:00 ", NewTimeOfDay(17, 0, 0), false},
		{"24:00", 0, true},
		{"8:00", 0, true},
		{"08:60", 0, true},
		{"08", 0, true},
		{"aa:bb", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeOfDay_String(t *testing.T) {
	assert.Equal(t, "08:15", NewTimeOfDay(8, 15, 0).String())
	assert.Equal(t, "06:30:15", NewTimeOfDay(6, 30, 15).String())
	assert.Equal(t, "00:10", NewTimeOfDay(23, 55, 0).Add(15*time.Minute).String())
}

func TestPositionPolicy_Deadline(t *testing.T) {
	assert.Equal(t, NewTimeOfDay(8, 15, 0), DefaultPositionPolicy.Deadline())
	assert.Equal(t, NewTimeOfDay(7, 0, 0), PositionPolicy{LateThreshold: NewTimeOfDay(7, 0, 0)}.Deadline())
	assert.Equal(t, NewTimeOfDay(24, 0, 0), PositionPolicy{LateThreshold: NewTimeOfDay(12, 0, 0), GracePeriodMinutes: 720}.Deadline())
}

func TestComputeStatus_GraceReachingMidnight(t *testing.T) {
	noon := PositionPolicy{LateThreshold: NewTimeOfDay(12, 0, 0), GracePeriodMinutes: 720}
	cutoff := NewTimeOfDay(17, 0, 0)

	assert.Equal(t, StatusPresent, ComputeStatus(at(9, 0, 0), noon, cutoff))
	assert.Equal(t, StatusPresent, ComputeStatus(at(17, 0, 0), noon, cutoff))
	assert.Equal(t, StatusAbsent, ComputeStatus(at(17, 0, 1), noon, cutoff))

	late := PositionPolicy{LateThreshold: NewTimeOfDay(23, 50, 0), GracePeriodMinutes: 15}
	assert.Equal(t, StatusPresent, ComputeStatus(at(23, 59, 0), late, NewTimeOfDay(23, 59, 59)))
}

func TestMinimumHoursNotMetError(t *testing.T) {
	err := error(&MinimumHoursNotMetError{
		Required:  8 * time.Hour,
		Remaining: 2*time.Hour + 30*time.Minute + 40*time.Second,
	})

	assert.True(t, errors.Is(err, ErrMinimumHoursNotMet))
	assert.Equal(t, "must work at least 8 hours. Time remaining: 2h 30m", err.Error())

	var target *MinimumHoursNotMetError
	require.True(t, errors.As(err, &target))
	assert.Equal(t, 8*time.Hour, target.Required)
}

func TestNewTodayStats(t *testing.T) {
	date := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)

	stats := NewTodayStats(date, 10, StatusCounts{Present: 5, Late: 2, Absent: 1})
	assert.Equal(t, TodayStats{Date: "2024-03-04", Total: 10, Present: 7, Late: 2, Absent: 3}, stats)

	stats = NewTodayStats(date, 1, StatusCounts{Present: 2})
	assert.Equal(t, 0, stats.Absent)
}

func TestRecord_Worked(t *testing.T) {
	in := at(8, 0, 0)
	out := at(16, 30, 0)

	assert.Equal(t, 8*time.Hour+30*time.Minute, Record{ClockIn: &in, ClockOut: &out}.Worked())
	assert.Zero(t, Record{ClockIn: &in}.Worked())
	assert.True(t, Record{Status: StatusAbsent}.IsPlaceholder())
	assert.False(t, Record{Status: StatusAbsent, ClockIn: &in}.IsPlaceholder())
}
