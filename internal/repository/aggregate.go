package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/castleviz/castleviz/internal/model"
)

// ErrUnsupportedField is returned when a distinct-value lookup names a column
// that cannot be grouped.
var ErrUnsupportedField = errors.New("unsupported field")

// SumPayments returns the total amount of all payments in minor units.
func (r *Repository) SumPayments(ctx context.Context) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0)::bigint FROM payments`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum payments: %w", err)
	}
	return total, nil
}

// SumBillsByStatus returns the total amount of bills with exactly the given status.
func (r *Repository) SumBillsByStatus(ctx context.Context, status string) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0)::bigint FROM bills WHERE status = $1`,
		status,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum bills by status: %w", err)
	}
	return total, nil
}

// CountAllBills returns the number of bills regardless of status.
func (r *Repository) CountAllBills(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM bills`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count bills: %w", err)
	}
	return count, nil
}

// DistinctValues returns the sorted distinct non-empty values of a text field.
func (r *Repository) DistinctValues(ctx context.Context, kind model.RecordKind, field model.Field) ([]string, error) {
	if field != model.FieldCategory && field != model.FieldVendor {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedField, field)
	}

	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT DISTINCT %[1]s
		FROM %[2]s
		WHERE %[1]s IS NOT NULL AND %[1]s <> ''
		ORDER BY 1
	`, field, table.name)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list distinct %s of %s: %w", field, table.name, err)
	}
	defer rows.Close()

	values := make([]string, 0)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan distinct value: %w", err)
		}
		values = append(values, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating distinct values: %w", err)
	}

	return values, nil
}

// MonthlyTotals sums amounts per UTC (year, month) for records created at or after since.
func (r *Repository) MonthlyTotals(ctx context.Context, kind model.RecordKind, since time.Time) ([]model.MonthTotal, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT
			EXTRACT(YEAR FROM created_at AT TIME ZONE 'UTC')::int AS year,
			EXTRACT(MONTH FROM created_at AT TIME ZONE 'UTC')::int AS month,
			COALESCE(SUM(amount), 0)::bigint AS total
		FROM %s
		WHERE created_at >= $1
		GROUP BY 1, 2
		ORDER BY 1, 2
	`, table.name)

	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to group %s by month: %w", table.name, err)
	}
	defer rows.Close()

	totals := make([]model.MonthTotal, 0)
	for rows.Next() {
		var mt model.MonthTotal
		if err := rows.Scan(&mt.Year, &mt.Month, &mt.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan monthly total: %w", err)
		}
		totals = append(totals, mt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating monthly totals: %w", err)
	}

	return totals, nil
}
