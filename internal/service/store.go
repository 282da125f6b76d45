// Package service provides business logic for the application.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/castleviz/castleviz/internal/model"
)

// UserStore persists users.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ListUsers(ctx context.Context, offset, limit int) ([]*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
}

// PaymentStore persists payments.
type PaymentStore interface {
	CreatePayment(ctx context.Context, p *model.Payment) error
	GetPaymentByID(ctx context.Context, id uuid.UUID) (*model.Payment, error)
	ListPayments(ctx context.Context, filter model.PaymentListFilter, offset, limit int) ([]*model.Payment, error)
	ListLatestPayments(ctx context.Context, limit int) ([]*model.Payment, error)
	ListAllPayments(ctx context.Context) ([]*model.Payment, error)
	UpdatePayment(ctx context.Context, p *model.Payment) error
	DeletePayment(ctx context.Context, id uuid.UUID) error
}

// BillStore persists bills.
type BillStore interface {
	CreateBill(ctx context.Context, b *model.Bill) error
	GetBillByID(ctx context.Context, id uuid.UUID) (*model.Bill, error)
	ListBills(ctx context.Context, offset, limit int) ([]*model.Bill, error)
	ListAllBills(ctx context.Context) ([]*model.Bill, error)
	UpdateBill(ctx context.Context, b *model.Bill) error
	DeleteBill(ctx context.Context, id uuid.UUID) error
}

// ExpenseStore runs the filtered reads behind the expense feed.
type ExpenseStore interface {
	SearchBills(ctx context.Context, f model.ExpenseFilter) ([]model.Expense, error)
	SearchPayments(ctx context.Context, f model.ExpenseFilter) ([]model.Expense, error)
	CountBills(ctx context.Context, f model.ExpenseFilter) (int, error)
	CountPayments(ctx context.Context, f model.ExpenseFilter) (int, error)
}

// SummaryStore runs the aggregate reads behind the dashboard.
type SummaryStore interface {
	SumPayments(ctx context.Context) (int64, error)
	SumBillsByStatus(ctx context.Context, status string) (int64, error)
	CountAllBills(ctx context.Context) (int, error)
	DistinctValues(ctx context.Context, kind model.RecordKind, field model.Field) ([]string, error)
	MonthlyTotals(ctx context.Context, kind model.RecordKind, since time.Time) ([]model.MonthTotal, error)
}

// Store is the full record store: the PostgreSQL repository or the memory store.
type Store interface {
	UserStore
	PaymentStore
	BillStore
	ExpenseStore
	SummaryStore
	Ping(ctx context.Context) error
	Close()
}
