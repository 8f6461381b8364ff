package schedule

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timeguard/attendance-backend/internal/domain"
)

type fakeDirectory struct {
	employees map[int64]*domain.Employee
}

func (f *fakeDirectory) GetEmployee(_ context.Context, id int64) (*domain.Employee, error) {
	emp, ok := f.employees[id]
	if !ok {
		return nil, ErrEmployeeNotFound
	}
	return emp, nil
}

type fakeOverrideStore struct {
	rows    map[string]domain.ScheduleOverride // "employeeID/date" -> override
	upserts int
}

func storeKey(employeeID int64, d time.Time) string {
	return fmt.Sprintf("%d/%s", employeeID, d.Format(domain.DateOnly))
}

func (f *fakeOverrideStore) GetOverrides(_ context.Context, employeeID int64, from, to time.Time) (map[string]domain.ScheduleOverride, error) {
	out := make(map[string]domain.ScheduleOverride)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if ov, ok := f.rows[storeKey(employeeID, d)]; ok {
			out[d.Format(domain.DateOnly)] = ov
		}
	}
	return out, nil
}

func (f *fakeOverrideStore) UpsertOverride(_ context.Context, ov domain.ScheduleOverride) error {
	if f.rows == nil {
		f.rows = make(map[string]domain.ScheduleOverride)
	}
	f.rows[storeKey(ov.EmployeeID, ov.WorkDate)] = ov
	f.upserts++
	return nil
}

func (f *fakeOverrideStore) UpsertOverrideRange(ctx context.Context, employeeID int64, from, to time.Time, proposal domain.ScheduleProposal) error {
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		ov := domain.ScheduleOverride{
			EmployeeID: employeeID,
			WorkDate:   d,
			IsDayOff:   proposal.IsDayOff,
			StartTime:  proposal.Start,
			EndTime:    proposal.End,
			Comment:    proposal.Comment,
		}
		if err := f.UpsertOverride(ctx, ov); err != nil {
			return err
		}
	}
	return nil
}

type fakeDealSource struct {
	deals []domain.Deal
}

func (f *fakeDealSource) ListActiveDeals(_ context.Context, employeeID int64, from, to time.Time) ([]domain.Deal, error) {
	out := make([]domain.Deal, 0)
	for _, d := range f.deals {
		if d.EmployeeID == employeeID && !d.IsClosed() && dateInRange(d.ScheduledAt, from, to) {
			out = append(out, d)
		}
	}
	return out, nil
}

func newTestService(emp *domain.Employee, deals ...domain.Deal) (*Service, *fakeOverrideStore) {
	store := &fakeOverrideStore{rows: make(map[string]domain.ScheduleOverride)}
	svc := NewService(
		&fakeDirectory{employees: map[int64]*domain.Employee{emp.ID: emp}},
		store,
		&fakeDealSource{deals: deals},
	)
	return svc, store
}

func TestService_ResolveScheduleUsesFreshOverrides(t *testing.T) {
	emp := testEmployee(domain.PatternFiveTwo, nil)
	svc, store := newTestService(emp)
	ctx := context.Background()

	monday := date(2024, time.March, 4)

	days, err := svc.ResolveSchedule(ctx, emp.ID, monday, monday)
	require.NoError(t, err)
	assert.Equal(t, domain.DayStatusWork, days[0].Status)

	require.NoError(t, store.UpsertOverride(ctx, domain.ScheduleOverride{
		EmployeeID: emp.ID, WorkDate: monday, IsDayOff: true, Comment: "day off",
	}))

	days, err = svc.ResolveSchedule(ctx, emp.ID, monday, monday)
	require.NoError(t, err)
	assert.Equal(t, domain.DayStatusAbsence, days[0].Status)
}

func TestService_CheckScheduleConflicts(t *testing.T) {
	emp := testEmployee(domain.PatternFiveTwo, nil)
	day := date(2024, time.March, 10)
	svc, _ := newTestService(emp, domain.Deal{
		ID: 42, EmployeeID: emp.ID, ScheduledAt: day.Add(16 * time.Hour), Status: "open",
	})
	ctx := context.Background()

	// Override sets 10:00-14:00; the 16:00 deal falls outside.
	conflicts, err := svc.CheckScheduleConflicts(ctx, emp.ID, day, day, domain.ScheduleProposal{
		Start: tod(10, 0), End: tod(14, 0),
	})
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, int64(42), conflicts[0].ID)

	conflicts, err = svc.CheckScheduleConflicts(ctx, emp.ID, day, day, domain.ScheduleProposal{
		Start: tod(9, 0), End: tod(18, 0),
	})
	require.NoError(t, err)
	assert.Empty(t, conflicts)
	assert.NotNil(t, conflicts)
}

func TestService_CommitValidationBeforeWrite(t *testing.T) {
	emp := testEmployee(domain.PatternFiveTwo, nil)
	svc, store := newTestService(emp)
	ctx := context.Background()

	err := svc.CommitScheduleOverride(ctx, emp.ID,
		date(2024, time.March, 10), date(2024, time.March, 4),
		domain.ScheduleProposal{IsDayOff: true})
	assert.ErrorIs(t, err, ErrInvalidRange)
	assert.Zero(t, store.upserts)

	err = svc.CommitScheduleOverride(ctx, emp.ID,
		date(2024, time.March, 4), date(2024, time.March, 4),
		domain.ScheduleProposal{Start: tod(10, 0)})
	assert.ErrorIs(t, err, ErrInvalidProposal)
	assert.Zero(t, store.upserts)
}

func TestService_CommitRangeExpandsPerDate(t *testing.T) {
	emp := testEmployee(domain.PatternFiveTwo, nil)
	svc, store := newTestService(emp)
	ctx := context.Background()

	err := svc.CommitScheduleOverride(ctx, emp.ID,
		date(2024, time.March, 4), date(2024, time.March, 6),
		domain.ScheduleProposal{IsDayOff: true, Comment: "sick leave"})
	require.NoError(t, err)
	assert.Equal(t, 3, store.upserts)

	// Re-committing identical proposals is idempotent.
	err = svc.CommitScheduleOverride(ctx, emp.ID,
		date(2024, time.March, 4), date(2024, time.March, 6),
		domain.ScheduleProposal{IsDayOff: true, Comment: "sick leave"})
	require.NoError(t, err)

	days, err := svc.ResolveSchedule(ctx, emp.ID, date(2024, time.March, 4), date(2024, time.March, 6))
	require.NoError(t, err)
	for _, day := range days {
		assert.Equal(t, domain.DayStatusAbsence, day.Status)
	}
}

func TestService_ClipForApprovedAbsenceSkipsNonWorkDays(t *testing.T) {
	emp := testEmployee(domain.PatternFiveTwo, nil)
	svc, store := newTestService(emp)
	ctx := context.Background()

	// Friday through Monday: Sat/Sun resolve as weekend and must be skipped.
	from := date(2024, time.March, 8)
	to := date(2024, time.March, 11)

	results, err := svc.ClipForApprovedAbsence(ctx, emp.ID, from, to,
		domain.MustTimeOfDay(17, 0), domain.MustTimeOfDay(18, 0))
	require.NoError(t, err)
	require.Len(t, results, 2) // Friday and Monday only

	for _, res := range results {
		assert.Equal(t, "early leave at 17:00", res.Comment)
		assert.Equal(t, "17:00", res.End.String())
	}
	assert.Equal(t, 2, store.upserts)

	// The clipped hours are now what the schedule resolves to.
	days, err := svc.ResolveSchedule(ctx, emp.ID, from, from)
	require.NoError(t, err)
	assert.Equal(t, "17:00", days[0].End.String())
}

func TestService_ClipSkipsWorkDaysWithoutHours(t *testing.T) {
	emp := testEmployee(domain.PatternFiveTwo, nil)
	emp.DefaultStart = nil
	emp.DefaultEnd = nil
	svc, store := newTestService(emp)

	// A legacy row without default hours resolves to a work day that has no
	// shift to clip; the absence must not write anything.
	monday := date(2024, time.March, 4)
	results, err := svc.ClipForApprovedAbsence(context.Background(), emp.ID, monday, monday,
		domain.MustTimeOfDay(10, 0), domain.MustTimeOfDay(12, 0))
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Zero(t, store.upserts)
}

func TestService_ClipNoOverlapWritesNothing(t *testing.T) {
	emp := testEmployee(domain.PatternFiveTwo, nil)
	svc, store := newTestService(emp)
	ctx := context.Background()

	monday := date(2024, time.March, 4)
	results, err := svc.ClipForApprovedAbsence(ctx, emp.ID, monday, monday,
		domain.MustTimeOfDay(19, 0), domain.MustTimeOfDay(21, 0))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Clipped)
	assert.Zero(t, store.upserts)
}

func TestService_UnknownEmployee(t *testing.T) {
	emp := testEmployee(domain.PatternFiveTwo, nil)
	svc, _ := newTestService(emp)

	_, err := svc.ResolveSchedule(context.Background(), 999,
		date(2024, time.March, 4), date(2024, time.March, 4))
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
}
