// Package memstore provides a record store held in process memory.
// It honors the same contract and filter predicate as the PostgreSQL store
// but does not enforce user references.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/castleviz/castleviz/internal/model"
	"github.com/castleviz/castleviz/internal/repository"
)

// Store keeps users, payments and bills in insertion order.
type Store struct {
	mu       sync.RWMutex
	now      func() time.Time
	users    []model.User
	payments []model.Payment
	bills    []model.Bill
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used to stamp created_at.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		now: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ping always succeeds.
func (s *Store) Ping(_ context.Context) error {
	return nil
}

// Close is a no-op.
func (s *Store) Close() {}

// ============================================================================
// Users
// ============================================================================

// CreateUser stores a copy of the user.
func (s *Store) CreateUser(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append(s.users, *user)
	return nil
}

// hasUser mirrors the user_id foreign key of the SQL schema. Callers hold mu.
func (s *Store) hasUser(id uuid.UUID) bool {
	for i := range s.users {
		if s.users[i].ID == id {
			return true
		}
	}
	return false
}

// GetUserByID returns the user with the given ID.
func (s *Store) GetUserByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.users {
		if s.users[i].ID == id {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// GetUserByEmail returns the first user with the given email.
func (s *Store) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.users {
		if s.users[i].Email == email {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// ListUsers returns a page of users ordered by name.
func (s *Store) ListUsers(_ context.Context, offset, limit int) ([]*model.User, error) {
	s.mu.RLock()
	sorted := make([]model.User, len(s.users))
	copy(sorted, s.users)
	s.mu.RUnlock()

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Name != sorted[j].Name {
			return sorted[i].Name < sorted[j].Name
		}
		return sorted[i].ID.String() < sorted[j].ID.String()
	})

	out := make([]*model.User, 0)
	for _, i := range window(len(sorted), offset, limit) {
		u := sorted[i]
		out = append(out, &u)
	}
	return out, nil
}

// UpdateUser replaces the stored user.
func (s *Store) UpdateUser(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == user.ID {
			s.users[i] = *user
			return nil
		}
	}
	return repository.ErrUserNotFound
}

// ============================================================================
// Payments
// ============================================================================

// CreatePayment stores the payment and stamps its created_at.
func (s *Store) CreatePayment(_ context.Context, p *model.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasUser(p.UserID) {
		return repository.ErrUserReference
	}
	p.CreatedAt = s.now()
	s.payments = append(s.payments, *p)
	return nil
}

// GetPaymentByID returns the payment with the given ID.
func (s *Store) GetPaymentByID(_ context.Context, id uuid.UUID) (*model.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.paymentIndex(id); i >= 0 {
		p := s.payments[i]
		return &p, nil
	}
	return nil, repository.ErrPaymentNotFound
}

// ListPayments returns a page of a user's payments, newest first.
func (s *Store) ListPayments(_ context.Context, filter model.PaymentListFilter, offset, limit int) ([]*model.Payment, error) {
	all := s.newestPayments(func(p *model.Payment) bool { return p.UserID == filter.UserID })
	out := make([]*model.Payment, 0)
	for _, i := range window(len(all), offset, limit) {
		out = append(out, all[i])
	}
	return out, nil
}

// ListLatestPayments returns the newest payments across all users.
func (s *Store) ListLatestPayments(_ context.Context, limit int) ([]*model.Payment, error) {
	all := s.newestPayments(nil)
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// ListAllPayments returns every payment, newest first.
func (s *Store) ListAllPayments(_ context.Context) ([]*model.Payment, error) {
	return s.newestPayments(nil), nil
}

// UpdatePayment replaces client fields, keeping created_at.
func (s *Store) UpdatePayment(_ context.Context, p *model.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.paymentIndex(p.ID)
	if i < 0 {
		return repository.ErrPaymentNotFound
	}
	if !s.hasUser(p.UserID) {
		return repository.ErrUserReference
	}
	p.CreatedAt = s.payments[i].CreatedAt
	s.payments[i] = *p
	return nil
}

// DeletePayment removes the payment.
func (s *Store) DeletePayment(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.paymentIndex(id)
	if i < 0 {
		return repository.ErrPaymentNotFound
	}
	s.payments = append(s.payments[:i], s.payments[i+1:]...)
	return nil
}

func (s *Store) paymentIndex(id uuid.UUID) int {
	for i := range s.payments {
		if s.payments[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) newestPayments(keep func(*model.Payment) bool) []*model.Payment {
	s.mu.RLock()
	out := make([]*model.Payment, 0, len(s.payments))
	for i := range s.payments {
		p := s.payments[i]
		if keep == nil || keep(&p) {
			out = append(out, &p)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// ============================================================================
// Bills
// ============================================================================

// CreateBill stores the bill and stamps its created_at.
func (s *Store) CreateBill(_ context.Context, b *model.Bill) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasUser(b.UserID) {
		return repository.ErrUserReference
	}
	b.CreatedAt = s.now()
	s.bills = append(s.bills, *b)
	return nil
}

// GetBillByID returns the bill with the given ID.
func (s *Store) GetBillByID(_ context.Context, id uuid.UUID) (*model.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.billIndex(id); i >= 0 {
		b := s.bills[i]
		return &b, nil
	}
	return nil, repository.ErrBillNotFound
}

// ListBills returns a page of bills, newest first.
func (s *Store) ListBills(_ context.Context, offset, limit int) ([]*model.Bill, error) {
	all := s.newestBills()
	out := make([]*model.Bill, 0)
	for _, i := range window(len(all), offset, limit) {
		out = append(out, all[i])
	}
	return out, nil
}

// ListAllBills returns every bill, newest first.
func (s *Store) ListAllBills(_ context.Context) ([]*model.Bill, error) {
	return s.newestBills(), nil
}

// UpdateBill replaces client fields, keeping created_at.
func (s *Store) UpdateBill(_ context.Context, b *model.Bill) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.billIndex(b.ID)
	if i < 0 {
		return repository.ErrBillNotFound
	}
	if !s.hasUser(b.UserID) {
		return repository.ErrUserReference
	}
	b.CreatedAt = s.bills[i].CreatedAt
	s.bills[i] = *b
	return nil
}

// DeleteBill removes the bill.
func (s *Store) DeleteBill(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.billIndex(id)
	if i < 0 {
		return repository.ErrBillNotFound
	}
	s.bills = append(s.bills[:i], s.bills[i+1:]...)
	return nil
}

func (s *Store) billIndex(id uuid.UUID) int {
	for i := range s.bills {
		if s.bills[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) newestBills() []*model.Bill {
	s.mu.RLock()
	out := make([]*model.Bill, 0, len(s.bills))
	for i := range s.bills {
		b := s.bills[i]
		out = append(out, &b)
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// ============================================================================
// Expense filter
// ============================================================================

// SearchBills returns matching bills as expenses in insertion order.
func (s *Store) SearchBills(_ context.Context, f model.ExpenseFilter) ([]model.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Expense, 0)
	for i := range s.bills {
		if f.MatchBill(&s.bills[i]) {
			out = append(out, s.bills[i].Expense())
		}
	}
	return out, nil
}

// SearchPayments returns matching payments as expenses in insertion order.
func (s *Store) SearchPayments(_ context.Context, f model.ExpenseFilter) ([]model.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Expense, 0)
	for i := range s.payments {
		if f.MatchPayment(&s.payments[i]) {
			out = append(out, s.payments[i].Expense())
		}
	}
	return out, nil
}

// CountBills counts matching bills.
func (s *Store) CountBills(ctx context.Context, f model.ExpenseFilter) (int, error) {
	matched, err := s.SearchBills(ctx, f)
	return len(matched), err
}

// CountPayments counts matching payments.
func (s *Store) CountPayments(ctx context.Context, f model.ExpenseFilter) (int, error) {
	matched, err := s.SearchPayments(ctx, f)
	return len(matched), err
}

// ============================================================================
// Aggregates
// ============================================================================

// SumPayments totals every payment amount.
func (s *Store) SumPayments(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total int64
	for i := range s.payments {
		total += s.payments[i].Amount
	}
	return total, nil
}

// SumBillsByStatus totals bills whose status equals status exactly.
func (s *Store) SumBillsByStatus(_ context.Context, status string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total int64
	for i := range s.bills {
		if s.bills[i].Status == status {
			total += s.bills[i].Amount
		}
	}
	return total, nil
}

// CountAllBills counts every bill.
func (s *Store) CountAllBills(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bills), nil
}

// DistinctValues returns the sorted distinct non-empty category or vendor values.
func (s *Store) DistinctValues(_ context.Context, kind model.RecordKind, field model.Field) ([]string, error) {
	if field != model.FieldCategory && field != model.FieldVendor {
		return nil, fmt.Errorf("%w: %s", repository.ErrUnsupportedField, field)
	}

	s.mu.RLock()
	var values []string
	switch kind {
	case model.KindBill:
		for i := range s.bills {
			values = append(values, pick(field, s.bills[i].Vendor, s.bills[i].Category))
		}
	case model.KindPayment:
		for i := range s.payments {
			values = append(values, pick(field, s.payments[i].Vendor, s.payments[i].Category))
		}
	default:
		s.mu.RUnlock()
		return nil, fmt.Errorf("unknown record kind %q", kind)
	}
	s.mu.RUnlock()

	return dedupeSorted(values), nil
}

// MonthlyTotals sums amounts per UTC (year, month) for records created at or after since.
func (s *Store) MonthlyTotals(_ context.Context, kind model.RecordKind, since time.Time) ([]model.MonthTotal, error) {
	type entry struct {
		at     time.Time
		amount int64
	}

	s.mu.RLock()
	var entries []entry
	switch kind {
	case model.KindBill:
		for i := range s.bills {
			entries = append(entries, entry{s.bills[i].CreatedAt, s.bills[i].Amount})
		}
	case model.KindPayment:
		for i := range s.payments {
			entries = append(entries, entry{s.payments[i].CreatedAt, s.payments[i].Amount})
		}
	default:
		s.mu.RUnlock()
		return nil, fmt.Errorf("unknown record kind %q", kind)
	}
	s.mu.RUnlock()

	sums := make(map[[2]int]int64)
	for _, e := range entries {
		if e.at.Before(since) {
			continue
		}
		utc := e.at.UTC()
		sums[[2]int{utc.Year(), int(utc.Month())}] += e.amount
	}

	totals := make([]model.MonthTotal, 0, len(sums))
	for ym, amount := range sums {
		totals = append(totals, model.MonthTotal{Year: ym[0], Month: ym[1], Amount: amount})
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Year != totals[j].Year {
			return totals[i].Year < totals[j].Year
		}
		return totals[i].Month < totals[j].Month
	})
	return totals, nil
}

// ============================================================================
// Helpers
// ============================================================================

// window returns the indexes of [offset, offset+limit) clipped to n.
func window(n, offset, limit int) []int {
	if offset < 0 {
		offset = 0
	}
	end := n
	if offset < n && limit < n-offset {
		end = offset + limit
	}
	var idx []int
	for i := offset; i < end; i++ {
		idx = append(idx, i)
	}
	return idx
}

func pick(field model.Field, vendor, category string) string {
	if field == model.FieldVendor {
		return vendor
	}
	return category
}

func dedupeSorted(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
