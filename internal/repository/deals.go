package repository

import (
	"context"
	"time"

	"github.com/timeguard/attendance-backend/internal/domain"
)

func (r *Repository) CreateDeal(ctx context.Context, deal *domain.Deal) error {
	query := `
		INSERT INTO deals (employee_id, scheduled_at, status)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	return r.dbpool.QueryRowContext(ctx, query, deal.EmployeeID, deal.ScheduledAt, deal.Status).Scan(&deal.ID)
}

// ListActiveDeals returns the non-closed deals of an employee whose
// scheduled date falls in the inclusive [from, to] range.
func (r *Repository) ListActiveDeals(ctx context.Context, employeeID int64, from, to time.Time) ([]domain.Deal, error) {
	query := `
		SELECT id, employee_id, scheduled_at, status
		FROM deals
		WHERE employee_id = $1
		  AND status != $2
		  AND scheduled_at::date BETWEEN $3 AND $4
		ORDER BY scheduled_at
	`

	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query,
		employeeID, domain.DealStatusClosed, from.Format(domain.DateOnly), to.Format(domain.DateOnly))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	deals := make([]domain.Deal, 0)
	for rows.Next() {
		var deal domain.Deal
		dst := []any{&deal.ID, &deal.EmployeeID, &deal.ScheduledAt, &deal.Status}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		deals = append(deals, deal)
	}

	return deals, rows.Err()
}
