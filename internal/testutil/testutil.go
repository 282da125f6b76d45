// Package testutil provides shared helpers and fixtures for tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/castleviz/castleviz/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 730730

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestUser creates a user with a fresh ID and a placeholder password hash.
func NewTestUser(name, email string) *model.User {
	return &model.User{
		ID:       uuid.New(),
		Name:     name,
		Email:    email,
		Password: "$argon2id$test",
	}
}

// NewTestPayment creates an unsaved payment owned by userID.
func NewTestPayment(userID uuid.UUID, category, vendor string, amount int64) *model.Payment {
	return &model.Payment{
		ID:       uuid.New(),
		Category: category,
		Vendor:   vendor,
		Amount:   amount,
		UserID:   userID,
	}
}

// NewTestBill creates an unsaved bill owned by userID.
func NewTestBill(userID uuid.UUID, category, vendor string, amount int64, status string) *model.Bill {
	return &model.Bill{
		ID:       uuid.New(),
		Category: category,
		Vendor:   vendor,
		Amount:   amount,
		Status:   status,
		UserID:   userID,
	}
}

// FixedClock returns a clock that always reports t, and a func to move it.
func FixedClock(t time.Time) (now func() time.Time, set func(time.Time)) {
	current := t
	return func() time.Time { return current }, func(next time.Time) { current = next }
}
