package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/castleviz/castleviz/internal/metrics"
	"github.com/castleviz/castleviz/internal/model"
)

const (
	revenueMonths = 12
	revenueStride = 30 * 24 * time.Hour
	revenueWindow = 365 * 24 * time.Hour
)

// DashboardService computes the dashboard aggregates over bills and payments.
type DashboardService struct {
	store   SummaryStore
	metrics metrics.Recorder
	now     func() time.Time
}

// NewDashboardService creates a new DashboardService. A nil now uses the UTC wall clock.
func NewDashboardService(store SummaryStore, recorder metrics.Recorder, now func() time.Time) *DashboardService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &DashboardService{store: store, metrics: recorder, now: now}
}

// CardSummary returns the payment total, pending bill total, bill count and category count.
func (s *DashboardService) CardSummary(ctx context.Context) (*model.CardSummary, error) {
	defer s.observe("card_summary", time.Now())

	paid, err := s.store.SumPayments(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := s.store.SumBillsByStatus(ctx, model.StatusPending)
	if err != nil {
		return nil, err
	}
	bills, err := s.store.CountAllBills(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.distinct(ctx, model.FieldCategory)
	if err != nil {
		return nil, err
	}

	return &model.CardSummary{
		TotalPayments:      model.FormatCents(paid),
		PendingBills:       model.FormatCents(pending),
		TotalBillCount:     bills,
		TotalCategoryCount: len(categories),
	}, nil
}

// MonthlyRevenue returns twelve buckets, oldest first, ending at the current month.
// Bucket i is the month containing now - i*30 days, so short names can repeat.
func (s *DashboardService) MonthlyRevenue(ctx context.Context) ([]model.MonthlyRevenue, error) {
	defer s.observe("monthly_revenue", time.Now())

	now := s.now().UTC()
	since := now.Add(-revenueWindow)

	merged := make(map[string]int64)
	for _, kind := range []model.RecordKind{model.KindPayment, model.KindBill} {
		totals, err := s.store.MonthlyTotals(ctx, kind, since)
		if err != nil {
			return nil, fmt.Errorf("monthly totals for %s: %w", kind, err)
		}
		for _, t := range totals {
			merged[t.Key()] += t.Amount
		}
	}

	out := make([]model.MonthlyRevenue, 0, revenueMonths)
	for i := revenueMonths - 1; i >= 0; i-- {
		target := now.Add(-time.Duration(i) * revenueStride)
		key := model.MonthKey(target.Year(), int(target.Month()))
		out = append(out, model.MonthlyRevenue{
			Month:   target.Format("Jan"),
			Revenue: model.CentsToUnits(merged[key]),
		})
	}
	return out, nil
}

// Vendors returns the sorted distinct non-empty vendors across both kinds.
func (s *DashboardService) Vendors(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, model.FieldVendor)
}

// Categories returns the sorted distinct non-empty categories across both kinds.
func (s *DashboardService) Categories(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, model.FieldCategory)
}

func (s *DashboardService) distinct(ctx context.Context, field model.Field) ([]string, error) {
	seen := make(map[string]struct{})
	for _, kind := range []model.RecordKind{model.KindPayment, model.KindBill} {
		values, err := s.store.DistinctValues(ctx, kind, field)
		if err != nil {
			return nil, fmt.Errorf("distinct %s of %s: %w", field, kind, err)
		}
		for _, v := range values {
			if v != "" {
				seen[v] = struct{}{}
			}
		}
	}

	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out, nil
}

func (s *DashboardService) observe(op string, start time.Time) {
	s.metrics.ObserveQueryDuration(op, time.Since(start))
}
