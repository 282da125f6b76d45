package repository

import (
	"strings"
	"testing"

	"github.com/castleviz/castleviz/internal/model"
)

func TestFilterClause_Empty(t *testing.T) {
	where, args := filterClause(model.NewExpenseFilter(""), model.KindBill)
	if where != "TRUE" {
		t.Errorf("expected TRUE, got %q", where)
	}
	if len(args) != 0 {
		t.Errorf("expected no args, got %v", args)
	}
}

func TestFilterClause_BillIncludesStatus(t *testing.T) {
	where, args := filterClause(model.NewExpenseFilter("rent"), model.KindBill)

	for _, want := range []string{"vendor ILIKE $1", "category ILIKE $1", "amount::text ILIKE $1", "status ILIKE $1"} {
		if !strings.Contains(where, want) {
			t.Errorf("expected %q in %q", want, where)
		}
	}
	if len(args) != 1 || args[0] != "%rent%" {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestFilterClause_PaymentExcludesStatus(t *testing.T) {
	where, _ := filterClause(model.NewExpenseFilter("paid"), model.KindPayment)

	if strings.Contains(where, "status") {
		t.Errorf("payment filter must not test status: %q", where)
	}
	if !strings.Contains(where, "amount::text ILIKE $1") {
		t.Errorf("payment filter must test amount text: %q", where)
	}
}

func TestFilterClause_EscapesWildcards(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"50%", `%50\%%`},
		{"a_b", `%a\_b%`},
		{`back\slash`, `%back\\slash%`},
	}

	for _, tt := range tests {
		_, args := filterClause(model.NewExpenseFilter(tt.query), model.KindBill)
		if args[0] != tt.want {
			t.Errorf("pattern for %q = %q, want %q", tt.query, args[0], tt.want)
		}
	}
}

func TestTableFor_Unknown(t *testing.T) {
	if _, err := tableFor(model.RecordKind("invoice")); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}
