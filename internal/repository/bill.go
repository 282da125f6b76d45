package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/castleviz/castleviz/internal/model"
)

// Common errors for bill repository operations.
var (
	ErrBillNotFound = errors.New("bill not found")
)

const billColumns = `id, category, vendor, amount, status, created_at, user_id`

// CreateBill inserts a bill. CreatedAt is assigned by the database.
func (r *Repository) CreateBill(ctx context.Context, b *model.Bill) error {
	query := `
		INSERT INTO bills (id, category, vendor, amount, status, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := r.pool.QueryRow(ctx, query, b.ID, b.Category, b.Vendor, b.Amount, b.Status, b.UserID).Scan(&b.CreatedAt)
	if err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return fmt.Errorf("failed to create bill: %w", ErrUserReference)
		}
		return fmt.Errorf("failed to create bill: %w", err)
	}

	return nil
}

// GetBillByID retrieves a bill by its ID.
func (r *Repository) GetBillByID(ctx context.Context, id uuid.UUID) (*model.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills WHERE id = $1`

	b, err := scanBill(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBillNotFound
		}
		return nil, fmt.Errorf("failed to get bill by ID: %w", err)
	}

	return b, nil
}

// ListBills retrieves a page of bills, newest first.
func (r *Repository) ListBills(ctx context.Context, offset, limit int) ([]*model.Bill, error) {
	query := `
		SELECT ` + billColumns + `
		FROM bills
		ORDER BY created_at DESC, id
		OFFSET $1 LIMIT $2
	`

	return r.queryBills(ctx, query, offset, limit)
}

// ListAllBills retrieves every bill, newest first.
func (r *Repository) ListAllBills(ctx context.Context) ([]*model.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills ORDER BY created_at DESC, id`

	return r.queryBills(ctx, query)
}

// UpdateBill replaces every client-supplied field, status included.
func (r *Repository) UpdateBill(ctx context.Context, b *model.Bill) error {
	query := `
		UPDATE bills
		SET category = $2, vendor = $3, amount = $4, status = $5, user_id = $6
		WHERE id = $1
		RETURNING created_at
	`

	err := r.pool.QueryRow(ctx, query, b.ID, b.Category, b.Vendor, b.Amount, b.Status, b.UserID).Scan(&b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrBillNotFound
		}
		if pgErrorCode(err) == pgForeignKeyViolation {
			return fmt.Errorf("failed to update bill: %w", ErrUserReference)
		}
		return fmt.Errorf("failed to update bill: %w", err)
	}

	return nil
}

// DeleteBill permanently removes a bill.
func (r *Repository) DeleteBill(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM bills WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrBillNotFound
	}

	return nil
}

func (r *Repository) queryBills(ctx context.Context, query string, args ...any) ([]*model.Bill, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	bills := make([]*model.Bill, 0)
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bills = append(bills, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bills: %w", err)
	}

	return bills, nil
}

func scanBill(row pgx.Row) (*model.Bill, error) {
	var b model.Bill
	err := row.Scan(&b.ID, &b.Category, &b.Vendor, &b.Amount, &b.Status, &b.CreatedAt, &b.UserID)
	return &b, err
}
