package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/timeguard/attendance-backend/internal/domain"
)

func (r *Repository) LogTimeEvent(ctx context.Context, entry *domain.TimeLogEntry) error {
	query := `
		INSERT INTO time_log (employee_id, event_type, reason, approver_id, approval_reason)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	var approver any
	if entry.ApproverID != nil {
		approver = *entry.ApproverID
	}

	args := []any{entry.EmployeeID, entry.EventType, nullComment(entry.Reason), approver, nullComment(entry.ApprovalReason)}
	return r.dbpool.QueryRowContext(ctx, query, args...).Scan(&entry.ID, &entry.CreatedAt)
}

// CountTodayEventsByReason counts an employee's clock-outs with the given
// reason since the local start of day. Break and lunch daily limits are
// enforced against this count.
func (r *Repository) CountTodayEventsByReason(ctx context.Context, employeeID int64, reason string, startOfDay time.Time) (int, error) {
	query := `
		SELECT count(*)
		FROM time_log
		WHERE employee_id = $1
		  AND event_type = $2
		  AND reason = $3
		  AND created_at >= $4
	`

	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	var count int
	err := r.dbpool.QueryRowContext(ctx, query, employeeID, domain.EventClockOut, reason, startOfDay).Scan(&count)
	return count, err
}

// HasClockedInSince reports whether the employee has any clock-in on or after
// the given instant, normally the local start of day.
func (r *Repository) HasClockedInSince(ctx context.Context, employeeID int64, since time.Time) (bool, error) {
	query := `
		SELECT 1
		FROM time_log
		WHERE employee_id = $1 AND event_type = $2 AND created_at >= $3
		LIMIT 1
	`

	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	var one int
	err := r.dbpool.QueryRowContext(ctx, query, employeeID, domain.EventClockIn, since).Scan(&one)
	switch {
	case err == nil:
		return true, nil
	case err == sql.ErrNoRows:
		return false, nil
	default:
		return false, err
	}
}

// GetTimeLog returns an employee's raw events in [from, to) ordered by time.
func (r *Repository) GetTimeLog(ctx context.Context, employeeID int64, from, to time.Time) ([]domain.TimeLogEntry, error) {
	query := `
		SELECT id, employee_id, event_type, reason, approver_id, approval_reason, created_at
		FROM time_log
		WHERE employee_id = $1 AND created_at >= $2 AND created_at < $3
		ORDER BY created_at
	`

	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]domain.TimeLogEntry, 0)
	for rows.Next() {
		var entry domain.TimeLogEntry
		var reason, approvalReason sql.NullString
		var approver sql.NullInt64
		dst := []any{&entry.ID, &entry.EmployeeID, &entry.EventType, &reason, &approver, &approvalReason, &entry.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		entry.Reason = reason.String
		entry.ApprovalReason = approvalReason.String
		if approver.Valid {
			id := approver.Int64
			entry.ApproverID = &id
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
