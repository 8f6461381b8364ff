package watchdog

import (
	"context"
	"log/slog"
	"time"

	"github.com/timeguard/attendance-backend/internal/domain"
)

// runMidnightReset force-closes the working day. Everyone still clocked in
// at local midnight is logged out with an auto-reset entry and the operator
// presence set is wiped.
func (wd *Watchdog) runMidnightReset(ctx context.Context) {
	for {
		timer := time.NewTimer(UntilNextMidnight(time.Now().In(wd.location)))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			if err := wd.resetDay(ctx); err != nil {
				wd.logJobError("midnight_reset", err)
			}
		}
	}
}

func (wd *Watchdog) resetDay(ctx context.Context) error {
	ids, err := wd.repository.GetActiveEmployeesForReset(ctx)
	if err != nil {
		return err
	}

	for _, id := range ids {
		entry := &domain.TimeLogEntry{
			EmployeeID: id,
			EventType:  domain.EventClockOut,
			Reason:     domain.ReasonAutoReset,
		}
		if err := wd.repository.LogTimeEvent(ctx, entry); err != nil {
			wd.logJobError("midnight_reset", err)
			continue
		}
		if err := wd.repository.UpdateEmployeeStatus(ctx, id, domain.StatusOffline); err != nil {
			wd.logJobError("midnight_reset", err)
		}
	}

	redisCtx, cancel := context.WithTimeout(ctx, time.Duration(wd.config.Redis.OperationTimeout)*time.Second)
	defer cancel()
	if err := wd.redisClient.Del(redisCtx, domain.OperatorsOnlineKey).Err(); err != nil {
		return err
	}

	slog.Info("midnight reset completed", "affected", len(ids))
	return nil
}

// UntilNextMidnight returns the duration from now to the next local
// midnight. AddDate handles DST days where midnight is not 24h away.
func UntilNextMidnight(now time.Time) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	return next.Sub(now)
}
