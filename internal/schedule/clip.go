package schedule

import (
	"fmt"

	"github.com/timeguard/attendance-backend/internal/domain"
)

// Clip computes the effective work interval for a single date after an
// approved absence. Both intervals are half-open, [start, end), on the same
// date. Exactly one of five cases applies, checked in order:
//
//  1. absence covers the whole shift        -> day off
//  2. absence runs to (or past) shift end   -> early leave, end := absence start
//  3. absence starts at (or before) shift   -> late arrival, start := absence end
//  4. absence strictly inside the shift     -> bounds unchanged; a single
//     override cannot hold two work sub-intervals, so the window is recorded
//     in the comment and the result flagged as Split
//  5. no overlap                            -> untouched, Clipped=false; the
//     caller should treat this as a validation warning
func Clip(resolvedStart, resolvedEnd, absenceStart, absenceEnd domain.TimeOfDay) domain.ClipResult {
	switch {
	case !absenceStart.After(resolvedStart) && !absenceEnd.Before(resolvedEnd):
		return domain.ClipResult{
			IsDayOff: true,
			Comment:  "full day absence",
			Clipped:  true,
		}

	case resolvedStart.Before(absenceStart) && absenceStart.Before(resolvedEnd) && !absenceEnd.Before(resolvedEnd):
		return domain.ClipResult{
			Start:   &resolvedStart,
			End:     &absenceStart,
			Comment: fmt.Sprintf("early leave at %s", absenceStart),
			Clipped: true,
		}

	case !absenceStart.After(resolvedStart) && resolvedStart.Before(absenceEnd) && absenceEnd.Before(resolvedEnd):
		return domain.ClipResult{
			Start:   &absenceEnd,
			End:     &resolvedEnd,
			Comment: fmt.Sprintf("late arrival until %s", absenceEnd),
			Clipped: true,
		}

	case resolvedStart.Before(absenceStart) && absenceEnd.Before(resolvedEnd):
		return domain.ClipResult{
			Start:   &resolvedStart,
			End:     &resolvedEnd,
			Comment: fmt.Sprintf("absence %s-%s", absenceStart, absenceEnd),
			Split:   true,
			Clipped: true,
		}

	default:
		// Absence ends before the shift starts or starts after it ends.
		return domain.ClipResult{
			Start: &resolvedStart,
			End:   &resolvedEnd,
		}
	}
}
