package schedule

import (
	"time"

	"github.com/timeguard/attendance-backend/internal/domain"
)

// Resolve produces one ResolvedDay per calendar date in the inclusive range
// [from, to], in ascending order. An override for a date always wins over
// the pattern default; absence of an override means "use the pattern".
//
// The function is pure relative to its inputs: no time zone or "today"
// logic lives here, the caller supplies dates already expressed in the
// employee's operating zone along with a snapshot of the overrides.
func Resolve(emp *domain.Employee, overrides map[string]domain.ScheduleOverride, from, to time.Time) ([]domain.ResolvedDay, error) {
	if to.Before(from) {
		return nil, ErrInvalidRange
	}

	days := make([]domain.ResolvedDay, 0, civilDaysBetween(from, to)+1)
	for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
		days = append(days, resolveDay(emp, overrides, date))
	}
	return days, nil
}

func resolveDay(emp *domain.Employee, overrides map[string]domain.ScheduleOverride, date time.Time) domain.ResolvedDay {
	if ov, ok := overrides[date.Format(domain.DateOnly)]; ok {
		if ov.IsDayOff {
			return domain.ResolvedDay{
				Date:    date,
				Status:  domain.DayStatusAbsence,
				Comment: ov.Comment,
			}
		}
		return domain.ResolvedDay{
			Date:    date,
			Status:  domain.DayStatusWork,
			Start:   ov.StartTime,
			End:     ov.EndTime,
			Comment: ov.Comment,
		}
	}

	def := ResolveDefault(emp, date)
	if def.IsWeekend {
		return domain.ResolvedDay{Date: date, Status: domain.DayStatusWeekend}
	}
	return domain.ResolvedDay{
		Date:   date,
		Status: domain.DayStatusWork,
		Start:  def.Start,
		End:    def.End,
	}
}
