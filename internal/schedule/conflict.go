package schedule

import (
	"time"

	"github.com/timeguard/attendance-backend/internal/domain"
)

// FindConflicts returns the deals that would fall outside the employee's
// availability if the proposal were applied over [from, to]. A day-off
// proposal conflicts with every non-closed deal in the range; a
// working-hours proposal conflicts with deals strictly before the proposed
// start or strictly after the proposed end. Deals inside the window are
// fine.
//
// The result is reported, never enforced: the approval flow decides whether
// to proceed despite conflicts. Always returns a non-nil slice.
func FindConflicts(deals []domain.Deal, from, to time.Time, proposal domain.ScheduleProposal) []domain.Deal {
	conflicts := make([]domain.Deal, 0)

	for _, deal := range deals {
		if deal.IsClosed() {
			continue
		}
		if !dateInRange(deal.ScheduledAt, from, to) {
			continue
		}
		if proposal.IsDayOff {
			conflicts = append(conflicts, deal)
			continue
		}
		at, _ := domain.NewTimeOfDay(deal.ScheduledAt.Hour(), deal.ScheduledAt.Minute())
		if at.Before(*proposal.Start) || at.After(*proposal.End) {
			conflicts = append(conflicts, deal)
		}
	}

	return conflicts
}

// FindNearTermDeals returns the non-closed deals scheduled within the next
// window from now. Used to refuse a clock-out that would strand an imminent
// meeting.
func FindNearTermDeals(deals []domain.Deal, now time.Time, window time.Duration) []domain.Deal {
	hits := make([]domain.Deal, 0)
	limit := now.Add(window)
	for _, deal := range deals {
		if deal.IsClosed() {
			continue
		}
		if deal.ScheduledAt.Before(now) || deal.ScheduledAt.After(limit) {
			continue
		}
		hits = append(hits, deal)
	}
	return hits
}

func dateInRange(at, from, to time.Time) bool {
	d := civilDaysBetween(from, at)
	return d >= 0 && d <= civilDaysBetween(from, to)
}
