package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/timeguard/attendance-backend/internal/domain"
	"github.com/timeguard/attendance-backend/internal/schedule"
)

type overrideRow struct {
	EmployeeID int64
	WorkDate   time.Time
	IsDayOff   bool
	StartTime  sql.NullString
	EndTime    sql.NullString
	Comment    sql.NullString
}

func (row *overrideRow) dst() []any {
	return []any{
		&row.EmployeeID, &row.WorkDate, &row.IsDayOff,
		&row.StartTime, &row.EndTime, &row.Comment,
	}
}

func (row *overrideRow) toDomain() (domain.ScheduleOverride, error) {
	ov := domain.ScheduleOverride{
		EmployeeID: row.EmployeeID,
		WorkDate:   row.WorkDate,
		IsDayOff:   row.IsDayOff,
		Comment:    row.Comment.String,
	}
	var err error
	if ov.StartTime, err = nullTimeOfDay(row.StartTime); err != nil {
		return domain.ScheduleOverride{}, err
	}
	if ov.EndTime, err = nullTimeOfDay(row.EndTime); err != nil {
		return domain.ScheduleOverride{}, err
	}
	return ov, nil
}

// GetOverrides returns the explicit exceptions in [from, to] keyed by the
// DateOnly form of the work date. Dates without an override are absent.
func (r *Repository) GetOverrides(ctx context.Context, employeeID int64, from, to time.Time) (map[string]domain.ScheduleOverride, error) {
	query := `
		SELECT employee_id, work_date, is_day_off, start_time, end_time, comment
		FROM schedule_overrides
		WHERE employee_id = $1 AND work_date BETWEEN $2 AND $3
	`

	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, employeeID, from.Format(domain.DateOnly), to.Format(domain.DateOnly))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	overrides := make(map[string]domain.ScheduleOverride)
	for rows.Next() {
		row := overrideRow{}
		if err := rows.Scan(row.dst()...); err != nil {
			return nil, err
		}
		ov, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		overrides[ov.WorkDate.Format(domain.DateOnly)] = ov
	}

	return overrides, rows.Err()
}

const upsertOverrideQuery = `
	INSERT INTO schedule_overrides (employee_id, work_date, is_day_off, start_time, end_time, comment)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (employee_id, work_date) DO UPDATE
	SET is_day_off = EXCLUDED.is_day_off,
	    start_time = EXCLUDED.start_time,
	    end_time = EXCLUDED.end_time,
	    comment = EXCLUDED.comment
`

func (r *Repository) UpsertOverride(ctx context.Context, ov domain.ScheduleOverride) error {
	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, upsertOverrideQuery,
		ov.EmployeeID, ov.WorkDate.Format(domain.DateOnly), ov.IsDayOff,
		timeOfDayParam(ov.StartTime), timeOfDayParam(ov.EndTime), nullComment(ov.Comment))
	return err
}

// UpsertOverrideRange writes one override per date with per-date autocommit
// rather than a single transaction. Each date either lands or fails on its
// own; failures are collected into *schedule.PartialWriteError so the caller
// can retry exactly the dates that did not apply.
func (r *Repository) UpsertOverrideRange(ctx context.Context, employeeID int64, from, to time.Time, proposal domain.ScheduleProposal) error {
	// Each date autocommits on its own, but the range as a whole still gets
	// the transaction deadline so a stuck pool cannot drag the loop out.
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	var failed []time.Time
	var firstErr error

	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		err := r.UpsertOverride(ctx, domain.ScheduleOverride{
			EmployeeID: employeeID,
			WorkDate:   d,
			IsDayOff:   proposal.IsDayOff,
			StartTime:  proposal.Start,
			EndTime:    proposal.End,
			Comment:    proposal.Comment,
		})
		if err != nil {
			failed = append(failed, d)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	if len(failed) > 0 {
		return &schedule.PartialWriteError{FailedDates: failed, Err: firstErr}
	}
	return nil
}

// GetOverrideReport lists every override in [from, to] across all active
// employees, joined with the employee name for the absence report.
func (r *Repository) GetOverrideReport(ctx context.Context, from, to time.Time) ([]domain.OverrideReportRow, error) {
	query := `
		SELECT o.employee_id, o.work_date, o.is_day_off, o.start_time, o.end_time, o.comment,
		       e.full_name, e.position
		FROM schedule_overrides o
		JOIN employees e ON e.id = o.employee_id
		WHERE o.work_date BETWEEN $1 AND $2
		  AND e.termination_date IS NULL
		ORDER BY o.work_date, e.full_name
	`

	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, from.Format(domain.DateOnly), to.Format(domain.DateOnly))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	report := make([]domain.OverrideReportRow, 0)
	for rows.Next() {
		row := overrideRow{}
		var fullName, position string
		dst := append(row.dst(), &fullName, &position)
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		ov, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		report = append(report, domain.OverrideReportRow{Override: ov, FullName: fullName, Position: position})
	}

	return report, rows.Err()
}

func nullComment(s string) any {
	if s == "" {
		return nil
	}
	return s
}
