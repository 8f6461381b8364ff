package domain

import (
	"time"
)

// DateOnly is the wire and map-key format for calendar dates.
const DateOnly = "2006-01-02"

// ScheduleOverride is a per-date exception replacing the pattern default for
// exactly one (employee, date). StartTime/EndTime are meaningful only when
// IsDayOff is false.
type ScheduleOverride struct {
	EmployeeID int64      `json:"employeeId"`
	WorkDate   time.Time  `json:"workDate"`
	IsDayOff   bool       `json:"isDayOff"`
	StartTime  *TimeOfDay `json:"startTime,omitempty"`
	EndTime    *TimeOfDay `json:"endTime,omitempty"`
	Comment    string     `json:"comment,omitempty"`
}

type DayStatus string

const (
	DayStatusWork    DayStatus = "work"
	DayStatusWeekend DayStatus = "weekend"
	DayStatusAbsence DayStatus = "absence"
)

// ResolvedDay is the final computed status for one date after layering an
// override (if any) over the pattern default. Start/End are set only for
// DayStatusWork. It is derived on every query and never persisted.
type ResolvedDay struct {
	Date    time.Time  `json:"date"`
	Status  DayStatus  `json:"status"`
	Start   *TimeOfDay `json:"start,omitempty"`
	End     *TimeOfDay `json:"end,omitempty"`
	Comment string     `json:"comment,omitempty"`
}

// ScheduleProposal is a requested schedule change over a date range: either
// a full day off or custom working hours.
type ScheduleProposal struct {
	IsDayOff bool       `json:"isDayOff"`
	Start    *TimeOfDay `json:"start,omitempty"`
	End      *TimeOfDay `json:"end,omitempty"`
	Comment  string     `json:"comment,omitempty"`
}

// OverrideReportRow joins an override with the employee it belongs to for
// the company-wide absence report.
type OverrideReportRow struct {
	Override ScheduleOverride `json:"override"`
	FullName string           `json:"fullName"`
	Position string           `json:"position"`
}

// ClipResult is the outcome of clipping one resolved work interval against
// an approved absence window.
type ClipResult struct {
	Date     time.Time  `json:"date"`
	IsDayOff bool       `json:"isDayOff"`
	Start    *TimeOfDay `json:"start,omitempty"`
	End      *TimeOfDay `json:"end,omitempty"`
	Comment  string     `json:"comment,omitempty"`
	// Split marks a mid-shift absence that a single start/end pair cannot
	// represent; the bounds are left unchanged and the absence window is
	// recorded in Comment for downstream reporting.
	Split bool `json:"split"`
	// Clipped is false when the absence did not intersect the working hours
	// and the day was left untouched.
	Clipped bool `json:"clipped"`
}
