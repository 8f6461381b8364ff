package schedule

import (
	"context"
	"log/slog"
	"time"

	"github.com/timeguard/attendance-backend/internal/domain"
)

// Directory is the employee-directory collaborator. Implementations return
// ErrEmployeeNotFound-compatible errors mapped by the caller.
type Directory interface {
	GetEmployee(ctx context.Context, id int64) (*domain.Employee, error)
}

// OverrideStore is the sparse per-date exception table keyed by
// (employee, date). GetOverrides returns only dates that have an explicit
// exception, keyed by the DateOnly format.
type OverrideStore interface {
	GetOverrides(ctx context.Context, employeeID int64, from, to time.Time) (map[string]domain.ScheduleOverride, error)
	UpsertOverride(ctx context.Context, ov domain.ScheduleOverride) error
	UpsertOverrideRange(ctx context.Context, employeeID int64, from, to time.Time, proposal domain.ScheduleProposal) error
}

// DealSource lists the non-closed deals of an employee whose date falls in
// the inclusive range.
type DealSource interface {
	ListActiveDeals(ctx context.Context, employeeID int64, from, to time.Time) ([]domain.Deal, error)
}

// Service wires the pure resolvers to the collaborators and exposes the
// schedule operations the handlers and the watchdog call.
type Service struct {
	directory Directory
	overrides OverrideStore
	deals     DealSource
}

func NewService(directory Directory, overrides OverrideStore, deals DealSource) *Service {
	return &Service{
		directory: directory,
		overrides: overrides,
		deals:     deals,
	}
}

// ResolveSchedule returns one ResolvedDay per date in [from, to]. The
// overrides snapshot is fetched fresh on every call; resolved days are never
// cached because overrides can change between queries.
func (s *Service) ResolveSchedule(ctx context.Context, employeeID int64, from, to time.Time) ([]domain.ResolvedDay, error) {
	if to.Before(from) {
		return nil, ErrInvalidRange
	}

	emp, err := s.directory.GetEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	s.warnOnFallback(emp, from)

	overrides, err := s.overrides.GetOverrides(ctx, employeeID, from, to)
	if err != nil {
		return nil, err
	}

	return Resolve(emp, overrides, from, to)
}

// CheckScheduleConflicts reports the deals incompatible with the proposal.
// It never mutates anything; the result is advisory at commit time since a
// concurrent write can invalidate it (callers must not treat it as a lock).
func (s *Service) CheckScheduleConflicts(ctx context.Context, employeeID int64, from, to time.Time, proposal domain.ScheduleProposal) ([]domain.Deal, error) {
	if err := validateChange(from, to, proposal); err != nil {
		return nil, err
	}
	if _, err := s.directory.GetEmployee(ctx, employeeID); err != nil {
		return nil, err
	}

	deals, err := s.deals.ListActiveDeals(ctx, employeeID, from, to)
	if err != nil {
		return nil, err
	}

	return FindConflicts(deals, from, to, proposal), nil
}

// CommitScheduleOverride writes the proposal as one override per date in the
// inclusive range. Validation errors are rejected before any write; a
// partially applied range surfaces as *PartialWriteError with the exact
// failed dates.
func (s *Service) CommitScheduleOverride(ctx context.Context, employeeID int64, from, to time.Time, proposal domain.ScheduleProposal) error {
	if err := validateChange(from, to, proposal); err != nil {
		return err
	}
	if _, err := s.directory.GetEmployee(ctx, employeeID); err != nil {
		return err
	}

	return s.overrides.UpsertOverrideRange(ctx, employeeID, from, to, proposal)
}

// ClipForApprovedAbsence applies an approved absence window to every date in
// [from, to]. Each day is re-resolved independently: weekends and existing
// absences are skipped, work days are clipped and the outcome committed as
// that date's override. Days the absence does not touch (clip case 5) are
// reported but not written.
func (s *Service) ClipForApprovedAbsence(ctx context.Context, employeeID int64, from, to time.Time, absenceStart, absenceEnd domain.TimeOfDay) ([]domain.ClipResult, error) {
	if to.Before(from) {
		return nil, ErrInvalidRange
	}
	if !absenceStart.Before(absenceEnd) {
		return nil, ErrInvalidProposal
	}

	days, err := s.ResolveSchedule(ctx, employeeID, from, to)
	if err != nil {
		return nil, err
	}

	results := make([]domain.ClipResult, 0, len(days))
	for _, day := range days {
		if day.Status != domain.DayStatusWork {
			continue
		}
		if day.Start == nil || day.End == nil {
			// Work days always carry default hours for rows written through
			// the API; anything else is a data problem worth a trace.
			slog.Warn("work day without default hours skipped",
				"employeeID", employeeID, "date", day.Date.Format(domain.DateOnly))
			continue
		}

		res := Clip(*day.Start, *day.End, absenceStart, absenceEnd)
		res.Date = day.Date
		results = append(results, res)

		if !res.Clipped {
			continue
		}
		ov := domain.ScheduleOverride{
			EmployeeID: employeeID,
			WorkDate:   day.Date,
			IsDayOff:   res.IsDayOff,
			StartTime:  res.Start,
			EndTime:    res.End,
			Comment:    res.Comment,
		}
		if err := s.overrides.UpsertOverride(ctx, ov); err != nil {
			return results, err
		}
	}

	return results, nil
}

func validateChange(from, to time.Time, proposal domain.ScheduleProposal) error {
	if to.Before(from) {
		return ErrInvalidRange
	}
	if !proposal.IsDayOff {
		if proposal.Start == nil || proposal.End == nil || !proposal.Start.Before(*proposal.End) {
			return ErrInvalidProposal
		}
	}
	return nil
}

func (s *Service) warnOnFallback(emp *domain.Employee, date time.Time) {
	if def := ResolveDefault(emp, date); def.FallbackUsed {
		slog.Warn("schedule pattern resolved via 5/2 fallback",
			"employeeID", emp.ID, "pattern", string(emp.Pattern), "anchorSet", emp.AnchorDate != nil)
	}
}
