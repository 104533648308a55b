package position

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
)

type Position struct {
	ID                 string
	Name               string
	LateThreshold      attendance.TimeOfDay
	GracePeriodMinutes int
	CreatedAt          time.Time

	// DTO
	EmployeeCount int
}

// Policy returns the lateness rule employees of this position are held to.
func (p Position) Policy() attendance.PositionPolicy {
	return attendance.PositionPolicy{
		LateThreshold:      p.LateThreshold,
		GracePeriodMinutes: p.GracePeriodMinutes,
	}
}

// Defaults are seeded into an empty positions table.
var Defaults = []Position{
	{Name: "Staff", LateThreshold: attendance.NewTimeOfDay(8, 0, 0), GracePeriodMinutes: 15},
	{Name: "Maintenance", LateThreshold: attendance.NewTimeOfDay(7, 0, 0), GracePeriodMinutes: 15},
	{Name: "Security Guard", LateThreshold: attendance.NewTimeOfDay(6, 0, 0), GracePeriodMinutes: 15},
	{Name: "Team Head", LateThreshold: attendance.NewTimeOfDay(9, 0, 0), GracePeriodMinutes: 15},
}
