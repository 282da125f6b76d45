package model

import (
	"time"

	"github.com/google/uuid"
)

// RecordKind discriminates the two record types merged into the expense feed.
type RecordKind string

const (
	KindBill    RecordKind = "bill"
	KindPayment RecordKind = "payment"
)

// StatusPaid is the implicit status of every payment.
const StatusPaid = "paid"

// StatusPending is the bill status counted by the dashboard.
const StatusPending = "pending"

// Payment is a settled expense. Amount is in minor units (cents).
type Payment struct {
	ID        uuid.UUID `json:"id"`
	Category  string    `json:"category"`
	Vendor    string    `json:"vendor"`
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uuid.UUID `json:"user_id"`
}

// Status returns the fixed status of a payment.
func (p *Payment) Status() string {
	return StatusPaid
}

// Expense projects the payment into the unified feed.
func (p *Payment) Expense() Expense {
	return Expense{
		ID:        p.ID,
		Kind:      KindPayment,
		Vendor:    p.Vendor,
		Category:  p.Category,
		Amount:    p.Amount,
		Status:    StatusPaid,
		CreatedAt: p.CreatedAt,
	}
}

// Bill is an expense with a free-form status such as "pending".
type Bill struct {
	ID        uuid.UUID `json:"id"`
	Category  string    `json:"category"`
	Vendor    string    `json:"vendor"`
	Amount    int64     `json:"amount"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uuid.UUID `json:"user_id"`
}

// Expense projects the bill into the unified feed. The stored status is kept verbatim.
func (b *Bill) Expense() Expense {
	return Expense{
		ID:        b.ID,
		Kind:      KindBill,
		Vendor:    b.Vendor,
		Category:  b.Category,
		Amount:    b.Amount,
		Status:    b.Status,
		CreatedAt: b.CreatedAt,
	}
}

// Expense is the common shape of bills and payments in the expense feed.
type Expense struct {
	ID        uuid.UUID  `json:"id"`
	Kind      RecordKind `json:"kind"`
	Vendor    string     `json:"vendor"`
	Category  string     `json:"category"`
	Amount    int64      `json:"amount"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
}

// PaymentListFilter narrows a payment listing.
type PaymentListFilter struct {
	UserID uuid.UUID
}
