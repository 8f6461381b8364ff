package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timeguard/attendance-backend/internal/domain"
)

func dealAt(id int64, at time.Time) domain.Deal {
	return domain.Deal{ID: id, EmployeeID: 1, ScheduledAt: at, Status: "open"}
}

func hoursProposal(sh, sm, eh, em int) domain.ScheduleProposal {
	return domain.ScheduleProposal{Start: tod(sh, sm), End: tod(eh, em)}
}

func TestFindConflicts_OutsideProposedHours(t *testing.T) {
	day := date(2024, time.March, 10)
	deals := []domain.Deal{
		dealAt(1, day.Add(16*time.Hour)), // 16:00, after the 10:00-14:00 window
		dealAt(2, day.Add(12*time.Hour)), // inside the window
	}

	conflicts := FindConflicts(deals, day, day, hoursProposal(10, 0, 14, 0))
	require.Len(t, conflicts, 1)
	assert.Equal(t, int64(1), conflicts[0].ID)
}

func TestFindConflicts_DayOffConflictsWithEverything(t *testing.T) {
	day := date(2024, time.March, 10)
	deals := []domain.Deal{
		dealAt(1, day.Add(9*time.Hour)),
		dealAt(2, day.Add(12*time.Hour)),
		dealAt(3, day.AddDate(0, 0, 5).Add(12*time.Hour)), // outside the range
	}

	conflicts := FindConflicts(deals, day, day.AddDate(0, 0, 1), domain.ScheduleProposal{IsDayOff: true})
	assert.Len(t, conflicts, 2)
}

func TestFindConflicts_ClosedDealsIgnored(t *testing.T) {
	day := date(2024, time.March, 10)
	closed := dealAt(1, day.Add(20*time.Hour))
	closed.Status = domain.DealStatusClosed

	conflicts := FindConflicts([]domain.Deal{closed}, day, day, hoursProposal(9, 0, 18, 0))
	assert.Empty(t, conflicts)
	assert.NotNil(t, conflicts)
}

func TestFindConflicts_BoundaryTimesAreNotConflicts(t *testing.T) {
	day := date(2024, time.March, 10)
	deals := []domain.Deal{
		dealAt(1, day.Add(9*time.Hour)),                  // exactly at start
		dealAt(2, day.Add(18*time.Hour)),                 // exactly at end
		dealAt(3, day.Add(8*time.Hour+59*time.Minute)),   // one minute early
		dealAt(4, day.Add(18*time.Hour+1*time.Minute)),   // one minute late
	}

	conflicts := FindConflicts(deals, day, day, hoursProposal(9, 0, 18, 0))
	require.Len(t, conflicts, 2)
	assert.Equal(t, int64(3), conflicts[0].ID)
	assert.Equal(t, int64(4), conflicts[1].ID)
}

// Widening the proposed window must never add conflicts.
func TestFindConflicts_MonotonicInWindow(t *testing.T) {
	day := date(2024, time.March, 10)
	deals := []domain.Deal{
		dealAt(1, day.Add(7*time.Hour)),
		dealAt(2, day.Add(10*time.Hour)),
		dealAt(3, day.Add(13*time.Hour+30*time.Minute)),
		dealAt(4, day.Add(19*time.Hour)),
		dealAt(5, day.Add(23*time.Hour)),
	}

	narrow := FindConflicts(deals, day, day, hoursProposal(10, 0, 14, 0))
	wide := FindConflicts(deals, day, day, hoursProposal(8, 0, 20, 0))
	assert.LessOrEqual(t, len(wide), len(narrow))

	wideIDs := make(map[int64]bool)
	for _, d := range wide {
		wideIDs[d.ID] = true
	}
	for _, d := range wide {
		found := false
		for _, n := range narrow {
			if n.ID == d.ID {
				found = true
			}
		}
		assert.True(t, found, "deal %d conflicts with the wide window but not the narrow one", d.ID)
	}
}

// The resolver and the conflict check only agree on which calendar day a
// timestamp belongs to when range bounds and deal timestamps share one
// location. This pins that contract down with a deal near local midnight,
// where the UTC date differs from the local one.
func TestResolveAndConflictsShareLocation(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	localDay := func(d int) time.Time {
		return time.Date(2024, time.March, d, 0, 0, 0, 0, loc)
	}

	emp := testEmployee(domain.PatternSevenZero, nil)
	days, err := Resolve(emp, nil, localDay(1), localDay(3))
	require.NoError(t, err)
	require.Len(t, days, 3)
	for i, day := range days {
		assert.Equal(t, localDay(1+i).Format(domain.DateOnly), day.Date.Format(domain.DateOnly))
	}

	// 01:30 on March 2 in Moscow is still March 1 in UTC.
	deal := dealAt(7, time.Date(2024, time.March, 2, 1, 30, 0, 0, loc))
	require.Equal(t, 1, deal.ScheduledAt.UTC().Day())

	dayOff := domain.ScheduleProposal{IsDayOff: true}

	conflicts := FindConflicts([]domain.Deal{deal}, localDay(2), localDay(2), dayOff)
	require.Len(t, conflicts, 1, "the deal counts on its local date")

	conflicts = FindConflicts([]domain.Deal{deal}, localDay(1), localDay(1), dayOff)
	assert.Empty(t, conflicts, "no drift into the UTC date")
}

func TestFindNearTermDeals(t *testing.T) {
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	deals := []domain.Deal{
		dealAt(1, now.Add(10*time.Minute)),
		dealAt(2, now.Add(2*time.Hour)),
		dealAt(3, now.Add(-30*time.Minute)), // already past
	}

	hits := FindNearTermDeals(deals, now, time.Hour)
	require.Len(t, hits, 1)
	assert.Equal(t, int64(1), hits[0].ID)
}
