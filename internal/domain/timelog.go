package domain

import (
	"time"
)

type TimeEventType string

const (
	EventClockIn  TimeEventType = "clock_in"
	EventClockOut TimeEventType = "clock_out"
)

// Clock-out reasons recorded in the time log. Break and lunch are counted
// against daily limits; collection and end-of-day are not.
const (
	ReasonBreak      = "break"
	ReasonLunch      = "lunch"
	ReasonCollection = "collection"
	ReasonEndOfDay   = "end_of_day"
	ReasonAutoReset  = "auto_reset_midnight"
)

type TimeLogEntry struct {
	ID         int64         `json:"id"`
	EmployeeID int64         `json:"employeeId"`
	EventType  TimeEventType `json:"eventType"`
	Reason     string        `json:"reason,omitempty"`
	// Set only for events approved by security on behalf of the employee.
	ApproverID     *int64    `json:"approverId,omitempty"`
	ApprovalReason string    `json:"approvalReason,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}
