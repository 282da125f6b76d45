package model

import (
	"strconv"
	"strings"
)

// Field names a searchable or groupable record column.
type Field string

const (
	FieldVendor   Field = "vendor"
	FieldCategory Field = "category"
	FieldAmount   Field = "amount"
	FieldStatus   Field = "status"
)

// searchFields lists, per kind, the columns an expense query is matched against.
// Payments have no stored status, so a status term never matches a payment.
var searchFields = map[RecordKind][]Field{
	KindBill:    {FieldVendor, FieldCategory, FieldAmount, FieldStatus},
	KindPayment: {FieldVendor, FieldCategory, FieldAmount},
}

// ExpenseFilter is the case-insensitive substring predicate shared by the
// search and count paths of the expense feed.
type ExpenseFilter struct {
	Query string
}

// NewExpenseFilter builds a filter for the raw query string.
func NewExpenseFilter(query string) ExpenseFilter {
	return ExpenseFilter{Query: query}
}

// IsEmpty reports whether the filter matches every record.
func (f ExpenseFilter) IsEmpty() bool {
	return f.Query == ""
}

// Fields returns the columns matched for the given kind.
func (f ExpenseFilter) Fields(kind RecordKind) []Field {
	return searchFields[kind]
}

// MatchBill evaluates the filter against a bill.
func (f ExpenseFilter) MatchBill(b *Bill) bool {
	return f.match(KindBill, func(field Field) string {
		switch field {
		case FieldVendor:
			return b.Vendor
		case FieldCategory:
			return b.Category
		case FieldAmount:
			return strconv.FormatInt(b.Amount, 10)
		case FieldStatus:
			return b.Status
		}
		return ""
	})
}

// MatchPayment evaluates the filter against a payment.
func (f ExpenseFilter) MatchPayment(p *Payment) bool {
	return f.match(KindPayment, func(field Field) string {
		switch field {
		case FieldVendor:
			return p.Vendor
		case FieldCategory:
			return p.Category
		case FieldAmount:
			return strconv.FormatInt(p.Amount, 10)
		}
		return ""
	})
}

func (f ExpenseFilter) match(kind RecordKind, value func(Field) string) bool {
	if f.IsEmpty() {
		return true
	}
	needle := strings.ToLower(f.Query)
	for _, field := range f.Fields(kind) {
		if strings.Contains(strings.ToLower(value(field)), needle) {
			return true
		}
	}
	return false
}
