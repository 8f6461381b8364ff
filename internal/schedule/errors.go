package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/timeguard/attendance-backend/internal/domain"
)

var (
	// ErrInvalidRange is returned when a date range ends before it starts.
	// Range validation happens before any I/O, so no partial state change is
	// possible.
	ErrInvalidRange = errors.New("end date is before start date")

	// ErrInvalidProposal is returned for a working-hours proposal with a
	// missing or inverted start/end pair.
	ErrInvalidProposal = errors.New("working-hours proposal requires start time before end time")

	ErrEmployeeNotFound = errors.New("employee not found")
)

// PartialWriteError reports a range upsert that succeeded for some dates and
// failed for others. The failed dates are carried so the caller can retry
// exactly those; per-date upserts are idempotent, so retrying the full range
// is also safe.
type PartialWriteError struct {
	FailedDates []time.Time
	Err         error
}

func (e *PartialWriteError) Error() string {
	dates := make([]string, len(e.FailedDates))
	for i, d := range e.FailedDates {
		dates[i] = d.Format(domain.DateOnly)
	}
	return fmt.Sprintf("override upsert failed for dates [%s]: %v", strings.Join(dates, ", "), e.Err)
}

func (e *PartialWriteError) Unwrap() error {
	return e.Err
}
