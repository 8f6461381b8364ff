package domain

// AlertMessage is the payload published to the alert queue. The alert worker
// renders it into a mail for the security mailbox.
type AlertMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

const (
	AlertTypeLateness         = "lateness"
	AlertTypeOverdueBreak     = "overdue_break"
	AlertTypeScheduleConflict = "schedule_conflict"
)

type LatenessAlertData struct {
	EmployeeID   int64  `json:"employeeId"`
	FullName     string `json:"fullName"`
	Position     string `json:"position"`
	PlannedStart string `json:"plannedStart"`
	Date         string `json:"date"`
}

type OverdueBreakAlertData struct {
	EmployeeID     int64  `json:"employeeId"`
	FullName       string `json:"fullName"`
	Status         string `json:"status"`
	ElapsedMinutes int    `json:"elapsedMinutes"`
	LimitMinutes   int    `json:"limitMinutes"`
}

type ScheduleConflictAlertData struct {
	EmployeeID int64    `json:"employeeId"`
	FullName   string   `json:"fullName"`
	From       string   `json:"from"`
	To         string   `json:"to"`
	DealIDs    []int64  `json:"dealIds"`
	DealTimes  []string `json:"dealTimes"`
}
