package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/castleviz/castleviz/internal/model"
)

// Common errors for payment repository operations.
var (
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrUserReference is returned when a record points at a user that does not exist.
	ErrUserReference = errors.New("user_id does not reference an existing user")
)

const paymentColumns = `id, category, vendor, amount, created_at, user_id`

// CreatePayment inserts a payment. CreatedAt is assigned by the database.
func (r *Repository) CreatePayment(ctx context.Context, p *model.Payment) error {
	query := `
		INSERT INTO payments (id, category, vendor, amount, user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := r.pool.QueryRow(ctx, query, p.ID, p.Category, p.Vendor, p.Amount, p.UserID).Scan(&p.CreatedAt)
	if err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return fmt.Errorf("failed to create payment: %w", ErrUserReference)
		}
		return fmt.Errorf("failed to create payment: %w", err)
	}

	return nil
}

// GetPaymentByID retrieves a payment by its ID.
func (r *Repository) GetPaymentByID(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	p, err := scanPayment(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment by ID: %w", err)
	}

	return p, nil
}

// ListPayments retrieves a page of a user's payments, newest first.
func (r *Repository) ListPayments(ctx context.Context, filter model.PaymentListFilter, offset, limit int) ([]*model.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE user_id = $1
		ORDER BY created_at DESC, id
		OFFSET $2 LIMIT $3
	`

	return r.queryPayments(ctx, query, filter.UserID, offset, limit)
}

// ListLatestPayments retrieves the most recent payments across all users.
func (r *Repository) ListLatestPayments(ctx context.Context, limit int) ([]*model.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		ORDER BY created_at DESC, id
		LIMIT $1
	`

	return r.queryPayments(ctx, query, limit)
}

// ListAllPayments retrieves every payment, newest first.
func (r *Repository) ListAllPayments(ctx context.Context) ([]*model.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments ORDER BY created_at DESC, id`

	return r.queryPayments(ctx, query)
}

// UpdatePayment replaces every client-supplied field. created_at is never touched.
func (r *Repository) UpdatePayment(ctx context.Context, p *model.Payment) error {
	query := `
		UPDATE payments
		SET category = $2, vendor = $3, amount = $4, user_id = $5
		WHERE id = $1
		RETURNING created_at
	`

	err := r.pool.QueryRow(ctx, query, p.ID, p.Category, p.Vendor, p.Amount, p.UserID).Scan(&p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrPaymentNotFound
		}
		if pgErrorCode(err) == pgForeignKeyViolation {
			return fmt.Errorf("failed to update payment: %w", ErrUserReference)
		}
		return fmt.Errorf("failed to update payment: %w", err)
	}

	return nil
}

// DeletePayment permanently removes a payment.
func (r *Repository) DeletePayment(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrPaymentNotFound
	}

	return nil
}

func (r *Repository) queryPayments(ctx context.Context, query string, args ...any) ([]*model.Payment, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	payments := make([]*model.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payments: %w", err)
	}

	return payments, nil
}

func scanPayment(row pgx.Row) (*model.Payment, error) {
	var p model.Payment
	err := row.Scan(&p.ID, &p.Category, &p.Vendor, &p.Amount, &p.CreatedAt, &p.UserID)
	return &p, err
}
