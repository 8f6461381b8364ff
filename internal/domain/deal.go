package domain

import (
	"time"
)

const DealStatusClosed = "closed"

// Deal is an external time-bound commitment owned by the deals service.
// This backend only ever reads deals; a non-closed deal must fall inside the
// employee's working hours or it conflicts with the schedule.
type Deal struct {
	ID          int64     `json:"id"`
	EmployeeID  int64     `json:"employeeId"`
	ScheduledAt time.Time `json:"scheduledAt"`
	Status      string    `json:"status"`
}

func (d *Deal) IsClosed() bool {
	return d.Status == DealStatusClosed
}
