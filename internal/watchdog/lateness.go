package watchdog

import (
	"context"
	"time"

	"github.com/timeguard/attendance-backend/internal/domain"
)

func (wd *Watchdog) runLatenessCheck(ctx context.Context) {
	ticker := time.NewTicker(time.Duration(wd.config.Watchdog.LatenessInterval) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := wd.checkLateness(ctx, time.Now().In(wd.location)); err != nil {
				wd.logJobError("lateness", err)
			}
		}
	}
}

// checkLateness alerts on every offline employee whose resolved working day
// started more than the grace period ago. The last-alert date on the employee
// row caps it at one alert per employee per day; the repository query filters
// already-alerted rows out.
func (wd *Watchdog) checkLateness(ctx context.Context, now time.Time) error {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, wd.location)

	candidates, err := wd.repository.GetEmployeesForLatenessCheck(ctx, today)
	if err != nil {
		return err
	}

	grace := time.Duration(wd.config.Watchdog.LatenessGracePeriod) * time.Minute

	for _, emp := range candidates {
		days, err := wd.schedules.ResolveSchedule(ctx, emp.ID, today, today)
		if err != nil {
			wd.logJobError("lateness", err)
			continue
		}
		if len(days) != 1 || !IsLate(days[0], now, grace) {
			continue
		}

		// Offline does not mean absent: an employee who already worked and
		// clocked out for the day must not be flagged on the evening ticks.
		clockedIn, err := wd.repository.HasClockedInSince(ctx, emp.ID, today)
		if err != nil {
			wd.logJobError("lateness", err)
			continue
		}
		if clockedIn {
			continue
		}

		alert := domain.AlertMessage{
			Type: domain.AlertTypeLateness,
			Data: domain.LatenessAlertData{
				EmployeeID:   emp.ID,
				FullName:     emp.FullName,
				Position:     emp.Position,
				PlannedStart: days[0].Start.String(),
				Date:         today.Format(domain.DateOnly),
			},
		}
		if err := wd.publishAlert(ctx, alert); err != nil {
			wd.logJobError("lateness", err)
			continue
		}

		// Mark after a successful publish so a failed publish retries on the
		// next tick.
		if err := wd.repository.UpdateLatenessAlertDate(ctx, emp.ID, today); err != nil {
			wd.logJobError("lateness", err)
		}
	}

	return nil
}

// IsLate reports whether an employee who has not clocked in is past the
// grace period of the given resolved day. Weekends and absences never count
// as late.
func IsLate(day domain.ResolvedDay, now time.Time, grace time.Duration) bool {
	if day.Status != domain.DayStatusWork || day.Start == nil {
		return false
	}

	deadline := day.Start.At(day.Date).Add(grace)
	return now.After(deadline)
}
