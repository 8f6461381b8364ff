package schedule

import (
	"time"

	"github.com/timeguard/attendance-backend/internal/domain"
)

// DayDefault is what an employee's recurring pattern says about a single
// date before any override is considered.
type DayDefault struct {
	IsWeekend bool
	Start     *domain.TimeOfDay
	End       *domain.TimeOfDay
	// FallbackUsed marks a data-quality condition: either an unrecognized
	// pattern value, or a 2/2 pattern without an anchor date. Both resolve
	// via the 5/2 rule; callers are expected to log the fallback.
	FallbackUsed bool
}

// ResolveDefault decides whether date is a default work day or rest day for
// the employee, and for work days yields the default hours. It is pure: the
// caller supplies the date already expressed in the employee's zone.
func ResolveDefault(emp *domain.Employee, date time.Time) DayDefault {
	switch emp.Pattern {
	case domain.PatternFiveTwo:
		return weekdayDefault(emp, date, time.Saturday, time.Sunday)
	case domain.PatternSixOne:
		return weekdayDefault(emp, date, time.Sunday)
	case domain.PatternSevenZero:
		return workDefault(emp)
	case domain.PatternTwoTwo:
		if emp.AnchorDate == nil {
			// Historical behavior: an unanchored rotation degrades to the
			// 5/2 rule instead of failing. Kept observable via FallbackUsed.
			d := weekdayDefault(emp, date, time.Saturday, time.Sunday)
			d.FallbackUsed = true
			return d
		}
		return twoTwoDefault(emp, date)
	default:
		d := weekdayDefault(emp, date, time.Saturday, time.Sunday)
		d.FallbackUsed = true
		return d
	}
}

func weekdayDefault(emp *domain.Employee, date time.Time, weekendDays ...time.Weekday) DayDefault {
	for _, wd := range weekendDays {
		if date.Weekday() == wd {
			return DayDefault{IsWeekend: true}
		}
	}
	return workDefault(emp)
}

func twoTwoDefault(emp *domain.Employee, date time.Time) DayDefault {
	d := civilDaysBetween(*emp.AnchorDate, date)
	// Euclidean modulo so dates before the anchor keep the 4-day period.
	cycle := ((d % 4) + 4) % 4
	if cycle == 2 || cycle == 3 {
		return DayDefault{IsWeekend: true}
	}
	// Both "on" days of the rotation use the same default hours.
	return workDefault(emp)
}

func workDefault(emp *domain.Employee) DayDefault {
	return DayDefault{
		IsWeekend: false,
		Start:     emp.DefaultStart,
		End:       emp.DefaultEnd,
	}
}

// civilDaysBetween counts whole calendar days from a to b, ignoring the
// clock and location so DST shifts cannot produce off-by-one cycles.
func civilDaysBetween(a, b time.Time) int {
	au := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bu := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au) / (24 * time.Hour))
}
