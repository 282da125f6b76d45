package model

import (
	"fmt"

	"github.com/google/uuid"
)

// CardSummary holds the dashboard card totals.
type CardSummary struct {
	TotalPayments      string `json:"totalPayments"`
	PendingBills       string `json:"pendingBills"`
	TotalBillCount     int    `json:"totalBillCount"`
	TotalCategoryCount int    `json:"totalCategoryCount"`
}

// MonthlyRevenue is one bucket of the trailing twelve-month chart.
type MonthlyRevenue struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

// MonthTotal is a per-(year, month) amount sum as returned by a store.
type MonthTotal struct {
	Year   int
	Month  int
	Amount int64
}

// Key returns the "YYYY-MM" bucket key.
func (m MonthTotal) Key() string {
	return MonthKey(m.Year, m.Month)
}

// MonthKey formats a "YYYY-MM" bucket key.
func MonthKey(year, month int) string {
	return fmt.Sprintf("%d-%02d", year, month)
}

// LatestPayment is the dashboard view of a recent payment with a preformatted amount.
type LatestPayment struct {
	ID       uuid.UUID `json:"id"`
	Vendor   string    `json:"vendor"`
	Category string    `json:"category"`
	Amount   string    `json:"amount"`
}
