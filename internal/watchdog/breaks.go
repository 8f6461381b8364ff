package watchdog

import (
	"context"
	"time"

	"github.com/timeguard/attendance-backend/internal/domain"
)

func (wd *Watchdog) runBreakCheck(ctx context.Context) {
	interval := time.Duration(wd.config.Watchdog.BreakCheckInterval) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := wd.checkBreaks(ctx, time.Now(), interval); err != nil {
				wd.logJobError("breaks", err)
			}
		}
	}
}

// checkBreaks alerts on employees paused past their limit. No alert marker is
// stored for breaks; instead the alert fires only during the first tick after
// the limit is crossed, so each overdue pause produces exactly one alert.
func (wd *Watchdog) checkBreaks(ctx context.Context, now time.Time, interval time.Duration) error {
	paused, err := wd.repository.GetEmployeesOnBreak(ctx)
	if err != nil {
		return err
	}

	for _, emp := range paused {
		limit := wd.pauseLimit(emp.Status)
		if !JustBecameOverdue(emp.StatusChangedAt, now, limit, interval) {
			continue
		}

		alert := domain.AlertMessage{
			Type: domain.AlertTypeOverdueBreak,
			Data: domain.OverdueBreakAlertData{
				EmployeeID:     emp.ID,
				FullName:       emp.FullName,
				Status:         string(emp.Status),
				ElapsedMinutes: int(now.Sub(emp.StatusChangedAt).Minutes()),
				LimitMinutes:   int(limit.Minutes()),
			},
		}
		if err := wd.publishAlert(ctx, alert); err != nil {
			wd.logJobError("breaks", err)
		}
	}

	return nil
}

func (wd *Watchdog) pauseLimit(status domain.PresenceStatus) time.Duration {
	if status == domain.StatusOnLunch {
		return time.Duration(wd.config.Watchdog.LunchDurationLimit) * time.Minute
	}
	return time.Duration(wd.config.Watchdog.BreakDurationLimit) * time.Minute
}

// JustBecameOverdue reports whether the pause that started at since crossed
// its limit within the last check interval.
func JustBecameOverdue(since, now time.Time, limit, interval time.Duration) bool {
	elapsed := now.Sub(since)
	return elapsed > limit && elapsed-limit <= interval
}
