package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/castleviz/castleviz/internal/memstore"
	"github.com/castleviz/castleviz/internal/model"
	"github.com/castleviz/castleviz/internal/testutil"
)

func TestCardSummaryEmpty(t *testing.T) {
	svc := NewDashboardService(memstore.New(), nil, nil)

	got, err := svc.CardSummary(context.Background())
	if err != nil {
		t.Fatalf("CardSummary: %v", err)
	}
	want := model.CardSummary{TotalPayments: "$0.00", PendingBills: "$0.00"}
	if *got != want {
		t.Fatalf("got %+v, want %+v", *got, want)
	}
}

func TestCardSummary(t *testing.T) {
	tests := []struct {
		name     string
		bills    []*model.Bill
		payments []*model.Payment
		want     model.CardSummary
	}{
		{
			name:     "one_of_each",
			bills:    []*model.Bill{testutil.NewTestBill(uuid.Nil, "Rent", "Landlord", 5000, "pending")},
			payments: []*model.Payment{testutil.NewTestPayment(uuid.Nil, "Rent", "Landlord", 2000)},
			want:     model.CardSummary{TotalPayments: "$20.00", PendingBills: "$50.00", TotalBillCount: 1, TotalCategoryCount: 1},
		},
		{
			name: "pending_is_exact_match",
			bills: []*model.Bill{
				testutil.NewTestBill(uuid.Nil, "Rent", "Landlord", 5000, "pending"),
				testutil.NewTestBill(uuid.Nil, "Power", "Grid", 1234, "Pending"),
				testutil.NewTestBill(uuid.Nil, "", "Grid", 99, "paid"),
			},
			payments: []*model.Payment{
				testutil.NewTestPayment(uuid.Nil, "Food", "Deli", 1),
				testutil.NewTestPayment(uuid.Nil, "", "Deli", 10),
			},
			want: model.CardSummary{TotalPayments: "$0.11", PendingBills: "$50.00", TotalBillCount: 3, TotalCategoryCount: 3},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			store := memstore.New()
			ctx := context.Background()
			owner := seedUser(t, store)
			for _, b := range test.bills {
				b.UserID = owner
				mustCreateBill(t, store, b)
			}
			for _, p := range test.payments {
				p.UserID = owner
				mustCreatePayment(t, store, p)
			}

			got, err := NewDashboardService(store, nil, nil).CardSummary(ctx)
			if err != nil {
				t.Fatalf("CardSummary: %v", err)
			}
			if *got != test.want {
				t.Fatalf("got %+v, want %+v", *got, test.want)
			}
		})
	}
}

func TestMonthlyRevenue(t *testing.T) {
	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
	clock, set := testutil.FixedClock(now)
	store := memstore.New(memstore.WithClock(clock))
	ctx := context.Background()
	user := seedUser(t, store)

	at := func(ts time.Time) { set(ts) }

	at(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))
	mustCreatePayment(t, store, testutil.NewTestPayment(user, "Food", "Deli", 1050))
	mustCreateBill(t, store, testutil.NewTestBill(user, "Rent", "Landlord", 2000, "paid"))
	at(time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC))
	mustCreateBill(t, store, testutil.NewTestBill(user, "Power", "Grid", 500, "pending"))
	at(time.Date(2023, time.May, 1, 0, 0, 0, 0, time.UTC)) // outside the 365-day window
	mustCreatePayment(t, store, testutil.NewTestPayment(user, "Food", "Deli", 999999))

	got, err := NewDashboardService(store, nil, func() time.Time { return now }).MonthlyRevenue(ctx)
	if err != nil {
		t.Fatalf("MonthlyRevenue: %v", err)
	}
	if len(got) != 12 {
		t.Fatalf("len = %d, want 12", len(got))
	}

	wantMonths := []string{"Jul", "Aug", "Sep", "Oct", "Nov", "Dec", "Jan", "Feb", "Mar", "Apr", "May", "Jun"}
	for i, m := range wantMonths {
		if got[i].Month != m {
			t.Fatalf("entry %d month = %q, want %q (all: %+v)", i, got[i].Month, m, got)
		}
	}

	if got[11].Revenue != 30.5 {
		t.Errorf("June revenue = %v, want 30.5", got[11].Revenue)
	}
	if got[6].Revenue != 5 {
		t.Errorf("January revenue = %v, want 5", got[6].Revenue)
	}

	var sum float64
	for _, e := range got {
		sum += e.Revenue
	}
	if sum != 35.5 {
		t.Errorf("sum = %v, want 35.5", sum)
	}
}

// The 30-day stride can land two targets in the same calendar month; both
// buckets then report that month's full total.
func TestMonthlyRevenueStrideRepeatsMonth(t *testing.T) {
	now := time.Date(2024, time.March, 31, 12, 0, 0, 0, time.UTC)
	clock, set := testutil.FixedClock(now)
	store := memstore.New(memstore.WithClock(clock))
	ctx := context.Background()
	user := seedUser(t, store)

	set(time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC))
	mustCreatePayment(t, store, testutil.NewTestPayment(user, "Food", "Deli", 1000))

	got, err := NewDashboardService(store, nil, func() time.Time { return now }).MonthlyRevenue(ctx)
	if err != nil {
		t.Fatalf("MonthlyRevenue: %v", err)
	}
	if len(got) != 12 {
		t.Fatalf("len = %d, want 12", len(got))
	}

	// now-30d is 2024-03-01, so the last two buckets are both March.
	if got[10].Month != "Mar" || got[11].Month != "Mar" {
		t.Fatalf("last two months = %q, %q; want Mar, Mar", got[10].Month, got[11].Month)
	}
	if got[10].Revenue != 10 || got[11].Revenue != 10 {
		t.Fatalf("March buckets = %v, %v; want 10, 10", got[10].Revenue, got[11].Revenue)
	}
}

func TestVendorsAndCategories(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()
	user := seedUser(t, store)
	mustCreateBill(t, store, testutil.NewTestBill(user, "Rent", "Landlord", 1, "pending"))
	mustCreateBill(t, store, testutil.NewTestBill(user, "", "Grid", 1, "pending"))
	mustCreatePayment(t, store, testutil.NewTestPayment(user, "Food", "Landlord", 1))
	mustCreatePayment(t, store, testutil.NewTestPayment(user, "Rent", "", 1))

	svc := NewDashboardService(store, nil, nil)

	vendors, err := svc.Vendors(ctx)
	if err != nil {
		t.Fatalf("Vendors: %v", err)
	}
	if len(vendors) != 2 || vendors[0] != "Grid" || vendors[1] != "Landlord" {
		t.Fatalf("vendors = %v", vendors)
	}

	categories, err := svc.Categories(ctx)
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	if len(categories) != 2 || categories[0] != "Food" || categories[1] != "Rent" {
		t.Fatalf("categories = %v", categories)
	}
}

type failingSummaryStore struct {
	*memstore.Store
}

func (failingSummaryStore) SumPayments(context.Context) (int64, error) {
	return 0, errors.New("store unavailable")
}

func TestCardSummaryStoreError(t *testing.T) {
	svc := NewDashboardService(failingSummaryStore{memstore.New()}, nil, nil)
	if _, err := svc.CardSummary(context.Background()); err == nil {
		t.Fatal("expected an error")
	}
}
