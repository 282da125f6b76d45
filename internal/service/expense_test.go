package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/castleviz/castleviz/internal/memstore"
	"github.com/castleviz/castleviz/internal/metrics"
	"github.com/castleviz/castleviz/internal/model"
	"github.com/castleviz/castleviz/internal/testutil"
)

// seedFeed inserts bills and payments, one minute apart, with one bill and one
// payment sharing the newest timestamp.
func seedFeed(t *testing.T) *memstore.Store {
	t.Helper()

	now, set := testutil.FixedClock(baseTime)
	store := memstore.New(memstore.WithClock(now))
	user := seedUser(t, store)

	step := func() { set(now().Add(time.Minute)) }

	mustBill := func(category, vendor string, amount int64, status string) {
		mustCreateBill(t, store, testutil.NewTestBill(user, category, vendor, amount, status))
	}
	mustPayment := func(category, vendor string, amount int64) {
		mustCreatePayment(t, store, testutil.NewTestPayment(user, category, vendor, amount))
	}

	mustPayment("Food", "Grocer", 1250)
	step()
	mustBill("Utilities", "Water Co", 4000, "pending")
	step()
	mustPayment("Travel", "Rail", 900)
	step()
	mustBill("Rent", "Landlord", 90000, "paid")
	step()
	mustPayment("Food", "Bakery", 4000)
	step()
	mustBill("Utilities", "Power", 7000, "overdue")
	step()
	mustPayment("Rent", "Landlord", 2000)
	mustBill("Internet", "ISP", 3000, "pending")

	return store
}

func collectPages(t *testing.T, svc *ExpenseService, query string, perPage int) []model.Expense {
	t.Helper()
	ctx := context.Background()

	pages, err := svc.CountPages(ctx, query, perPage)
	if err != nil {
		t.Fatalf("CountPages: %v", err)
	}

	var all []model.Expense
	for page := 1; page <= pages; page++ {
		items, err := svc.SearchExpenses(ctx, query, page, perPage)
		if err != nil {
			t.Fatalf("SearchExpenses page %d: %v", page, err)
		}
		if len(items) == 0 {
			t.Fatalf("page %d of %d is empty", page, pages)
		}
		all = append(all, items...)
	}

	past, err := svc.SearchExpenses(ctx, query, pages+1, perPage)
	if err != nil {
		t.Fatalf("SearchExpenses past end: %v", err)
	}
	if len(past) != 0 {
		t.Fatalf("page past the end returned %d items", len(past))
	}
	return all
}

func TestSearchExpensesOrdering(t *testing.T) {
	svc := NewExpenseService(seedFeed(t), nil)

	got, err := svc.SearchExpenses(context.Background(), "", 1, 100)
	if err != nil {
		t.Fatalf("SearchExpenses: %v", err)
	}
	if len(got) != 8 {
		t.Fatalf("len = %d, want 8", len(got))
	}

	for i := 1; i < len(got); i++ {
		if got[i].CreatedAt.After(got[i-1].CreatedAt) {
			t.Fatalf("item %d is newer than item %d", i, i-1)
		}
	}

	// Equal timestamps keep bills ahead of payments.
	if got[0].Kind != model.KindBill || got[0].Vendor != "ISP" {
		t.Fatalf("first item = %+v, want the ISP bill", got[0])
	}
	if got[1].Kind != model.KindPayment || got[1].Vendor != "Landlord" {
		t.Fatalf("second item = %+v, want the Landlord payment", got[1])
	}
	if got[1].Status != model.StatusPaid {
		t.Fatalf("payment status = %q, want paid", got[1].Status)
	}
}

func TestSearchExpensesFirstPage(t *testing.T) {
	svc := NewExpenseService(seedFeed(t), nil)
	ctx := context.Background()

	full, _ := svc.SearchExpenses(ctx, "", 1, 100)
	first, err := svc.SearchExpenses(ctx, "", 1, 3)
	if err != nil {
		t.Fatalf("SearchExpenses: %v", err)
	}
	if len(first) != 3 {
		t.Fatalf("len = %d, want 3", len(first))
	}
	for i := range first {
		if first[i].ID != full[i].ID {
			t.Fatalf("item %d = %s, want %s", i, first[i].ID, full[i].ID)
		}
	}
}

func TestPagesReproduceFullList(t *testing.T) {
	svc := NewExpenseService(seedFeed(t), nil)
	ctx := context.Background()

	for _, query := range []string{"", "food", "UTIL", "4000", "paid", "pending", "landlord", "zzz"} {
		full, err := svc.SearchExpenses(ctx, query, 1, 1000)
		if err != nil {
			t.Fatalf("SearchExpenses(%q): %v", query, err)
		}

		for perPage := 1; perPage <= 9; perPage++ {
			pages, _ := svc.CountPages(ctx, query, perPage)
			if pages*perPage < len(full) || (pages > 0 && (pages-1)*perPage >= len(full)) {
				t.Fatalf("query %q perPage %d: %d pages for %d items", query, perPage, pages, len(full))
			}

			all := collectPages(t, svc, query, perPage)
			if len(all) != len(full) {
				t.Fatalf("query %q perPage %d: pages hold %d items, want %d", query, perPage, len(all), len(full))
			}
			seen := make(map[uuid.UUID]bool)
			for i := range all {
				if all[i].ID != full[i].ID {
					t.Fatalf("query %q perPage %d: item %d differs", query, perPage, i)
				}
				if seen[all[i].ID] {
					t.Fatalf("query %q perPage %d: duplicate %s", query, perPage, all[i].ID)
				}
				seen[all[i].ID] = true
			}
		}
	}
}

func TestStatusQueryMatchesBillsOnly(t *testing.T) {
	svc := NewExpenseService(seedFeed(t), nil)
	ctx := context.Background()

	tests := []struct {
		query string
		want  int
	}{
		{"paid", 1},    // the Rent bill; payments are never matched on status
		{"pending", 2}, // Water Co and ISP
		{"OVERDUE", 1},
	}

	for _, test := range tests {
		t.Run(test.query, func(t *testing.T) {
			got, err := svc.SearchExpenses(ctx, test.query, 1, 100)
			if err != nil {
				t.Fatalf("SearchExpenses: %v", err)
			}
			if len(got) != test.want {
				t.Fatalf("len = %d, want %d", len(got), test.want)
			}
			for _, e := range got {
				if e.Kind != model.KindBill {
					t.Fatalf("unexpected %s in results", e.Kind)
				}
			}

			pages, _ := svc.CountPages(ctx, test.query, 1)
			if pages != test.want {
				t.Fatalf("CountPages = %d, want %d", pages, test.want)
			}
		})
	}
}

func TestAmountQueryMatchesBothKinds(t *testing.T) {
	svc := NewExpenseService(seedFeed(t), nil)

	got, err := svc.SearchExpenses(context.Background(), "4000", 1, 10)
	if err != nil {
		t.Fatalf("SearchExpenses: %v", err)
	}
	if len(got) != 2 || got[0].Kind != model.KindPayment || got[1].Kind != model.KindBill {
		t.Fatalf("unexpected results: %+v", got)
	}
}

func TestPaginationValidation(t *testing.T) {
	svc := NewExpenseService(memstore.New(), nil)
	ctx := context.Background()

	tests := []struct {
		name    string
		page    int
		perPage int
	}{
		{"zero_page", 0, 6},
		{"negative_page", -1, 6},
		{"zero_items", 1, 0},
		{"negative_items", 1, -3},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := svc.SearchExpenses(ctx, "", test.page, test.perPage); !errors.Is(err, ErrInvalidPagination) {
				t.Fatalf("SearchExpenses err = %v", err)
			}
		})
	}

	if _, err := svc.CountPages(ctx, "", 0); !errors.Is(err, ErrInvalidPagination) {
		t.Fatalf("CountPages err = %v", err)
	}
}

func TestPaginationHugeValues(t *testing.T) {
	svc := NewExpenseService(seedFeed(t), nil)
	ctx := context.Background()

	tests := []struct {
		name    string
		page    int
		perPage int
		want    int
	}{
		{"page_times_size_wraps", (1 << 61) + 1, 8, 0},
		{"max_page", math.MaxInt, 6, 0},
		{"max_items_first_page", 1, math.MaxInt, 8},
		{"max_items_second_page", 2, math.MaxInt, 0},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			items, err := svc.SearchExpenses(ctx, "", test.page, test.perPage)
			if err != nil {
				t.Fatalf("SearchExpenses: %v", err)
			}
			if len(items) != test.want {
				t.Fatalf("len = %d, want %d", len(items), test.want)
			}
		})
	}

	pages, err := svc.CountPages(ctx, "", math.MaxInt)
	if err != nil {
		t.Fatalf("CountPages: %v", err)
	}
	if pages != 1 {
		t.Fatalf("CountPages(MaxInt) = %d, want 1", pages)
	}
}

func TestEmptyStore(t *testing.T) {
	svc := NewExpenseService(memstore.New(), nil)
	ctx := context.Background()

	got, err := svc.SearchExpenses(ctx, "", 1, DefaultItemsPerPage)
	if err != nil {
		t.Fatalf("SearchExpenses: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("got %#v, want empty non-nil slice", got)
	}

	pages, err := svc.CountPages(ctx, "", DefaultItemsPerPage)
	if err != nil || pages != 0 {
		t.Fatalf("CountPages = %d, %v", pages, err)
	}
}

type failingExpenseStore struct {
	*memstore.Store
	err error
}

func (f failingExpenseStore) SearchPayments(context.Context, model.ExpenseFilter) ([]model.Expense, error) {
	return nil, f.err
}

func (f failingExpenseStore) CountPayments(context.Context, model.ExpenseFilter) (int, error) {
	return 0, f.err
}

func TestStoreErrorsPropagate(t *testing.T) {
	boom := errors.New("boom")
	svc := NewExpenseService(failingExpenseStore{Store: memstore.New(), err: boom}, nil)
	ctx := context.Background()

	if _, err := svc.SearchExpenses(ctx, "", 1, 6); !errors.Is(err, boom) {
		t.Fatalf("SearchExpenses err = %v", err)
	}
	if _, err := svc.CountPages(ctx, "", 6); !errors.Is(err, boom) {
		t.Fatalf("CountPages err = %v", err)
	}
}

func TestExpenseQueriesAreTimed(t *testing.T) {
	rec := metrics.NewInMemory()
	svc := NewExpenseService(memstore.New(), rec)
	ctx := context.Background()

	_, _ = svc.SearchExpenses(ctx, "", 1, 6)
	_, _ = svc.CountPages(ctx, "", 6)
	_, _ = svc.SearchExpenses(ctx, "", 0, 6) // rejected before timing

	snap := rec.Snapshot()
	if len(snap.Queries) != 2 {
		t.Fatalf("queries = %+v", snap.Queries)
	}
	for _, q := range snap.Queries {
		if q.Count != 1 {
			t.Fatalf("%s observed %d times", q.Operation, q.Count)
		}
	}
}
