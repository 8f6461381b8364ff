package domain

import (
	"time"
)

type Role string

const (
	RoleEmployee Role = "employee"
	RoleSecurity Role = "security"
	RoleAdmin    Role = "admin"
)

// SchedulePattern is the recurring rule that decides default work and rest
// days when no override exists for a date.
type SchedulePattern string

const (
	PatternFiveTwo   SchedulePattern = "5/2"
	PatternSixOne    SchedulePattern = "6/1"
	PatternSevenZero SchedulePattern = "7/0"
	PatternTwoTwo    SchedulePattern = "2/2"
)

type PresenceStatus string

const (
	StatusOffline      PresenceStatus = "offline"
	StatusOnline       PresenceStatus = "online"
	StatusOnBreak      PresenceStatus = "on_break"
	StatusOnLunch      PresenceStatus = "on_lunch"
	StatusOnCollection PresenceStatus = "on_collection"
)

type Employee struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
	Position string `json:"position"`
	Role     Role   `json:"role"`
	Email    string `json:"email"`

	Pattern SchedulePattern `json:"pattern"`
	// AnchorDate is the first "on" day of the 2/2 rotation. Only meaningful
	// for PatternTwoTwo; nil anchors fall back to the 5/2 rule.
	AnchorDate   *time.Time `json:"anchorDate,omitempty"`
	DefaultStart *TimeOfDay `json:"defaultStart,omitempty"`
	DefaultEnd   *TimeOfDay `json:"defaultEnd,omitempty"`

	Status          PresenceStatus `json:"status"`
	StatusChangedAt time.Time      `json:"statusChangedAt"`
	// LastLatenessAlertDate is the idempotence marker for the lateness
	// watchdog: at most one alert per employee per calendar day.
	LastLatenessAlertDate *time.Time `json:"-"`

	PasswordHash    string     `json:"-"`
	TerminationDate *time.Time `json:"terminationDate,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// OperatorsOnlineKey is the Redis set of operator ids currently on shift.
// Membership is maintained on clock-in/out and wiped at the midnight reset.
const OperatorsOnlineKey = "operators_online"

// IsOperator reports whether this employee's presence is mirrored into the
// operator Redis set in addition to the time log state machine.
func (e *Employee) IsOperator() bool {
	return e.Position == "operator"
}
