//go:build integration

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/castleviz/castleviz/internal/model"
	"github.com/castleviz/castleviz/internal/testutil"
)

func TestIntegrationRepository_PaymentCRUD(t *testing.T) {
	ctx, repo := newTestEnv(t)
	user := createTestUser(t, ctx, repo)

	p := testutil.NewTestPayment(user.ID, "Rent", "Landlord", 2000)
	if err := repo.CreatePayment(ctx, p); err != nil {
		t.Fatalf("CreatePayment failed: %v", err)
	}
	if p.CreatedAt.IsZero() {
		t.Fatal("CreatedAt should be assigned by the database")
	}
	createdAt := p.CreatedAt

	got, err := repo.GetPaymentByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetPaymentByID failed: %v", err)
	}
	if got.Vendor != "Landlord" || got.Amount != 2000 {
		t.Errorf("unexpected payment: %+v", got)
	}

	p.Amount = 2500
	if err := repo.UpdatePayment(ctx, p); err != nil {
		t.Fatalf("UpdatePayment failed: %v", err)
	}
	if !p.CreatedAt.Equal(createdAt) {
		t.Errorf("created_at changed on update: %v -> %v", createdAt, p.CreatedAt)
	}

	if err := repo.DeletePayment(ctx, p.ID); err != nil {
		t.Fatalf("DeletePayment failed: %v", err)
	}
	if err := repo.DeletePayment(ctx, p.ID); !errors.Is(err, ErrPaymentNotFound) {
		t.Errorf("expected ErrPaymentNotFound, got %v", err)
	}
}

func TestIntegrationRepository_BillNotFound(t *testing.T) {
	ctx, repo := newTestEnv(t)

	if _, err := repo.GetBillByID(ctx, uuid.New()); !errors.Is(err, ErrBillNotFound) {
		t.Errorf("expected ErrBillNotFound, got %v", err)
	}
	if err := repo.DeleteBill(ctx, uuid.New()); !errors.Is(err, ErrBillNotFound) {
		t.Errorf("expected ErrBillNotFound, got %v", err)
	}
	err := repo.UpdateBill(ctx, testutil.NewTestBill(uuid.New(), "x", "y", 1, "pending"))
	if !errors.Is(err, ErrBillNotFound) {
		t.Errorf("expected ErrBillNotFound, got %v", err)
	}
}

func TestIntegrationRepository_ForeignKey(t *testing.T) {
	ctx, repo := newTestEnv(t)

	err := repo.CreateBill(ctx, testutil.NewTestBill(uuid.New(), "Rent", "Landlord", 100, "pending"))
	if !errors.Is(err, ErrUserReference) {
		t.Errorf("expected ErrUserReference, got %v", err)
	}
}

func TestIntegrationRepository_SearchAndCount(t *testing.T) {
	ctx, repo := newTestEnv(t)
	user := createTestUser(t, ctx, repo)

	mustCreateBill(t, ctx, repo, testutil.NewTestBill(user.ID, "Rent", "Landlord", 5000, "pending"))
	mustCreateBill(t, ctx, repo, testutil.NewTestBill(user.ID, "Utilities", "Power Co", 1250, "paid"))
	mustCreatePayment(t, ctx, repo, testutil.NewTestPayment(user.ID, "Food", "Grocer 50% off", 999))

	tests := []struct {
		query        string
		wantBills    int
		wantPayments int
	}{
		{"", 2, 1},
		{"RENT", 1, 0},
		{"paid", 1, 0},
		{"125", 1, 0},
		{"50%", 0, 1},
		{"%", 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			f := model.NewExpenseFilter(tt.query)

			bills, err := repo.SearchBills(ctx, f)
			if err != nil {
				t.Fatalf("SearchBills failed: %v", err)
			}
			payments, err := repo.SearchPayments(ctx, f)
			if err != nil {
				t.Fatalf("SearchPayments failed: %v", err)
			}
			billCount, _ := repo.CountBills(ctx, f)
			paymentCount, _ := repo.CountPayments(ctx, f)

			if len(bills) != tt.wantBills || billCount != tt.wantBills {
				t.Errorf("bills: search=%d count=%d want %d", len(bills), billCount, tt.wantBills)
			}
			if len(payments) != tt.wantPayments || paymentCount != tt.wantPayments {
				t.Errorf("payments: search=%d count=%d want %d", len(payments), paymentCount, tt.wantPayments)
			}
			for _, p := range payments {
				if p.Status != model.StatusPaid || p.Kind != model.KindPayment {
					t.Errorf("unexpected payment projection: %+v", p)
				}
			}
		})
	}
}

func TestIntegrationRepository_Aggregates(t *testing.T) {
	ctx, repo := newTestEnv(t)
	user := createTestUser(t, ctx, repo)

	mustCreateBill(t, ctx, repo, testutil.NewTestBill(user.ID, "Rent", "Landlord", 5000, "pending"))
	mustCreateBill(t, ctx, repo, testutil.NewTestBill(user.ID, "", "Power Co", 700, "Pending"))
	mustCreatePayment(t, ctx, repo, testutil.NewTestPayment(user.ID, "Rent", "Landlord", 2000))

	if total, _ := repo.SumPayments(ctx); total != 2000 {
		t.Errorf("SumPayments = %d, want 2000", total)
	}
	if total, _ := repo.SumBillsByStatus(ctx, model.StatusPending); total != 5000 {
		t.Errorf("SumBillsByStatus = %d, want 5000", total)
	}
	if count, _ := repo.CountAllBills(ctx); count != 2 {
		t.Errorf("CountAllBills = %d, want 2", count)
	}

	categories, err := repo.DistinctValues(ctx, model.KindBill, model.FieldCategory)
	if err != nil {
		t.Fatalf("DistinctValues failed: %v", err)
	}
	if len(categories) != 1 || categories[0] != "Rent" {
		t.Errorf("unexpected bill categories: %v", categories)
	}

	if _, err := repo.DistinctValues(ctx, model.KindBill, model.FieldAmount); !errors.Is(err, ErrUnsupportedField) {
		t.Errorf("expected ErrUnsupportedField, got %v", err)
	}

	totals, err := repo.MonthlyTotals(ctx, model.KindBill, time.Now().Add(-365*24*time.Hour))
	if err != nil {
		t.Fatalf("MonthlyTotals failed: %v", err)
	}
	var sum int64
	for _, mt := range totals {
		sum += mt.Amount
	}
	if sum != 5700 {
		t.Errorf("monthly bill totals sum = %d, want 5700", sum)
	}
}

func newTestEnv(t *testing.T) (context.Context, *Repository) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	dbURL := testutil.RequireEnv(t, "DATABASE_URL")

	repo, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("create repository: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		_ = unlock()
	})

	if err := ResetSchema(dbURL); err != nil {
		t.Fatalf("reset schema: %v", err)
	}

	return ctx, repo
}

func createTestUser(t *testing.T, ctx context.Context, repo *Repository) *model.User {
	t.Helper()
	user := testutil.NewTestUser("Test User", "test@example.com")
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user
}

func mustCreateBill(t *testing.T, ctx context.Context, repo *Repository, b *model.Bill) {
	t.Helper()
	if err := repo.CreateBill(ctx, b); err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}
}

func mustCreatePayment(t *testing.T, ctx context.Context, repo *Repository, p *model.Payment) {
	t.Helper()
	if err := repo.CreatePayment(ctx, p); err != nil {
		t.Fatalf("CreatePayment failed: %v", err)
	}
}
