package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/timeguard/attendance-backend/internal/domain"
)

const employeeColumns = `
	id, full_name, position, role, email, schedule_pattern, anchor_date,
	default_start_time, default_end_time, status, status_changed_at,
	last_lateness_alert_date, password_hash, termination_date, created_at
`

// employeeRow carries the raw column shapes; times of day arrive from the
// driver as strings and are normalized into domain.TimeOfDay here, at the
// accessor boundary, so resolver code never sees storage representations.
type employeeRow struct {
	ID                    int64
	FullName              string
	Position              string
	Role                  string
	Email                 string
	Pattern               string
	AnchorDate            sql.NullTime
	DefaultStart          sql.NullString
	DefaultEnd            sql.NullString
	Status                string
	StatusChangedAt       time.Time
	LastLatenessAlertDate sql.NullTime
	PasswordHash          string
	TerminationDate       sql.NullTime
	CreatedAt             time.Time
}

func (row *employeeRow) dst() []any {
	return []any{
		&row.ID, &row.FullName, &row.Position, &row.Role, &row.Email,
		&row.Pattern, &row.AnchorDate, &row.DefaultStart, &row.DefaultEnd,
		&row.Status, &row.StatusChangedAt, &row.LastLatenessAlertDate,
		&row.PasswordHash, &row.TerminationDate, &row.CreatedAt,
	}
}

func (row *employeeRow) toDomain() (*domain.Employee, error) {
	emp := &domain.Employee{
		ID:              row.ID,
		FullName:        row.FullName,
		Position:        row.Position,
		Role:            domain.Role(row.Role),
		Email:           row.Email,
		Pattern:         domain.SchedulePattern(row.Pattern),
		Status:          domain.PresenceStatus(row.Status),
		StatusChangedAt: row.StatusChangedAt,
		PasswordHash:    row.PasswordHash,
		CreatedAt:       row.CreatedAt,
	}
	if row.AnchorDate.Valid {
		anchor := row.AnchorDate.Time
		emp.AnchorDate = &anchor
	}
	if row.LastLatenessAlertDate.Valid {
		alerted := row.LastLatenessAlertDate.Time
		emp.LastLatenessAlertDate = &alerted
	}
	if row.TerminationDate.Valid {
		terminated := row.TerminationDate.Time
		emp.TerminationDate = &terminated
	}

	var err error
	if emp.DefaultStart, err = nullTimeOfDay(row.DefaultStart); err != nil {
		return nil, err
	}
	if emp.DefaultEnd, err = nullTimeOfDay(row.DefaultEnd); err != nil {
		return nil, err
	}
	return emp, nil
}

func nullTimeOfDay(v sql.NullString) (*domain.TimeOfDay, error) {
	if !v.Valid {
		return nil, nil
	}
	t, err := domain.ParseTimeOfDay(v.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func timeOfDayParam(t *domain.TimeOfDay) any {
	if t == nil {
		return nil
	}
	return t.String()
}

func (r *Repository) GetEmployee(ctx context.Context, id int64) (*domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	row := employeeRow{}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(row.dst()...); err != nil {
		return nil, err
	}

	return row.toDomain()
}

func (r *Repository) GetEmployeeByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE email = $1 AND termination_date IS NULL`

	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	row := employeeRow{}
	if err := r.dbpool.QueryRowContext(ctx, query, email).Scan(row.dst()...); err != nil {
		return nil, err
	}

	return row.toDomain()
}

func (r *Repository) GetAllEmployees(ctx context.Context) ([]*domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE termination_date IS NULL ORDER BY full_name`

	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make([]*domain.Employee, 0)
	for rows.Next() {
		row := employeeRow{}
		if err := rows.Scan(row.dst()...); err != nil {
			return nil, err
		}
		emp, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

func (r *Repository) CreateEmployee(ctx context.Context, emp *domain.Employee) error {
	query := `
		INSERT INTO employees (
			full_name, position, role, email, schedule_pattern, anchor_date,
			default_start_time, default_end_time, password_hash
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, status, status_changed_at, created_at
	`

	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	var anchor any
	if emp.AnchorDate != nil {
		anchor = emp.AnchorDate.Format(domain.DateOnly)
	}

	args := []any{
		emp.FullName, emp.Position, emp.Role, emp.Email, emp.Pattern, anchor,
		timeOfDayParam(emp.DefaultStart), timeOfDayParam(emp.DefaultEnd), emp.PasswordHash,
	}
	var status string
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&emp.ID, &status, &emp.StatusChangedAt, &emp.CreatedAt); err != nil {
		return err
	}
	emp.Status = domain.PresenceStatus(status)

	return nil
}

func (r *Repository) UpdateEmployee(ctx context.Context, emp *domain.Employee) error {
	query := `
		UPDATE employees
		SET
			full_name = $1,
			position = $2,
			role = $3,
			email = $4,
			schedule_pattern = $5,
			anchor_date = $6,
			default_start_time = $7,
			default_end_time = $8
		WHERE id = $9
		RETURNING created_at
	`

	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	var anchor any
	if emp.AnchorDate != nil {
		anchor = emp.AnchorDate.Format(domain.DateOnly)
	}

	args := []any{
		emp.FullName, emp.Position, emp.Role, emp.Email, emp.Pattern, anchor,
		timeOfDayParam(emp.DefaultStart), timeOfDayParam(emp.DefaultEnd), emp.ID,
	}
	return r.dbpool.QueryRowContext(ctx, query, args...).Scan(&emp.CreatedAt)
}

// TerminateEmployee soft-deletes: the row stays so the override history and
// time log keep their foreign keys, but the employee disappears from every
// active listing.
func (r *Repository) TerminateEmployee(ctx context.Context, id int64, on time.Time) error {
	query := `UPDATE employees SET termination_date = $1 WHERE id = $2 AND termination_date IS NULL`

	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	res, err := r.dbpool.ExecContext(ctx, query, on.Format(domain.DateOnly), id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *Repository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	query := `UPDATE employees SET password_hash = $1 WHERE id = $2`

	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, passwordHash, id)
	return err
}

func (r *Repository) UpdateEmployeeStatus(ctx context.Context, id int64, status domain.PresenceStatus) error {
	query := `UPDATE employees SET status = $1, status_changed_at = now() WHERE id = $2`

	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, status, id)
	return err
}

// UpdateLatenessAlertDate persists the one-alert-per-day marker the lateness
// watchdog keys its idempotence on.
func (r *Repository) UpdateLatenessAlertDate(ctx context.Context, id int64, day time.Time) error {
	query := `UPDATE employees SET last_lateness_alert_date = $1 WHERE id = $2`

	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, day.Format(domain.DateOnly), id)
	return err
}

// GetEmployeesForLatenessCheck returns the offline, non-terminated employees
// that have not been alerted today yet. The schedule itself is resolved by
// the caller so override and pattern logic stays in one place.
func (r *Repository) GetEmployeesForLatenessCheck(ctx context.Context, today time.Time) ([]*domain.Employee, error) {
	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE termination_date IS NULL
		  AND status = 'offline'
		  AND (last_lateness_alert_date IS NULL OR last_lateness_alert_date != $1)
	`

	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, today.Format(domain.DateOnly))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make([]*domain.Employee, 0)
	for rows.Next() {
		row := employeeRow{}
		if err := rows.Scan(row.dst()...); err != nil {
			return nil, err
		}
		emp, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}

	return employees, rows.Err()
}

func (r *Repository) GetEmployeesOnBreak(ctx context.Context) ([]*domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE status IN ('on_break', 'on_lunch')`

	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make([]*domain.Employee, 0)
	for rows.Next() {
		row := employeeRow{}
		if err := rows.Scan(row.dst()...); err != nil {
			return nil, err
		}
		emp, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}

	return employees, rows.Err()
}

func (r *Repository) GetActiveEmployeesForReset(ctx context.Context) ([]int64, error) {
	query := `SELECT id FROM employees WHERE status != 'offline' AND termination_date IS NULL`

	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
