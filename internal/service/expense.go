package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/castleviz/castleviz/internal/metrics"
	"github.com/castleviz/castleviz/internal/model"
)

// DefaultItemsPerPage is the page size used when a request does not set one.
const DefaultItemsPerPage = 6

// expenseSource is one record kind feeding the expense stream.
// Search and count read the same source with the same filter.
type expenseSource struct {
	kind   model.RecordKind
	search func(context.Context, model.ExpenseFilter) ([]model.Expense, error)
	count  func(context.Context, model.ExpenseFilter) (int, error)
}

// ExpenseService presents bills and payments as one newest-first feed.
type ExpenseService struct {
	sources []expenseSource
	metrics metrics.Recorder
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(store ExpenseStore, recorder metrics.Recorder) *ExpenseService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	// Bills come first so that equal timestamps keep bills ahead of payments.
	return &ExpenseService{
		sources: []expenseSource{
			{kind: model.KindBill, search: store.SearchBills, count: store.CountBills},
			{kind: model.KindPayment, search: store.SearchPayments, count: store.CountPayments},
		},
		metrics: recorder,
	}
}

// SearchExpenses returns one page of the filtered feed sorted by created_at descending.
// A page past the end is empty, not an error.
func (s *ExpenseService) SearchExpenses(ctx context.Context, query string, page, itemsPerPage int) ([]model.Expense, error) {
	if page < 1 || itemsPerPage <= 0 {
		return nil, ErrInvalidPagination
	}
	defer s.observe("search_expenses", time.Now())

	filter := model.NewExpenseFilter(query)

	var merged []model.Expense
	for _, src := range s.sources {
		rows, err := src.search(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("search %s: %w", src.kind, err)
		}
		merged = append(merged, rows...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})

	return pageOf(merged, page, itemsPerPage), nil
}

// CountPages returns ceil(matching records / itemsPerPage).
func (s *ExpenseService) CountPages(ctx context.Context, query string, itemsPerPage int) (int, error) {
	if itemsPerPage <= 0 {
		return 0, ErrInvalidPagination
	}
	defer s.observe("count_pages", time.Now())

	filter := model.NewExpenseFilter(query)

	total := 0
	for _, src := range s.sources {
		n, err := src.count(ctx, filter)
		if err != nil {
			return 0, fmt.Errorf("count %s: %w", src.kind, err)
		}
		total += n
	}

	pages := total / itemsPerPage
	if total%itemsPerPage != 0 {
		pages++
	}
	return pages, nil
}

func (s *ExpenseService) observe(op string, start time.Time) {
	s.metrics.ObserveQueryDuration(op, time.Since(start))
}

// pageOf slices page (1-based) out of items without overflowing on huge inputs.
func pageOf(items []model.Expense, page, perPage int) []model.Expense {
	if len(items) == 0 || page-1 > (len(items)-1)/perPage {
		return []model.Expense{}
	}
	offset := (page - 1) * perPage
	end := len(items)
	if perPage < end-offset {
		end = offset + perPage
	}
	return items[offset:end]
}
