package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/castleviz/castleviz/internal/model"
)

// recordTable describes how a record kind is stored.
type recordTable struct {
	name string
	// statusExpr selects the expense status; payments have no status column.
	statusExpr string
}

var recordTables = map[model.RecordKind]recordTable{
	model.KindBill:    {name: "bills", statusExpr: "status"},
	model.KindPayment: {name: "payments", statusExpr: "'" + model.StatusPaid + "'"},
}

func tableFor(kind model.RecordKind) (recordTable, error) {
	t, ok := recordTables[kind]
	if !ok {
		return recordTable{}, fmt.Errorf("unknown record kind %q", kind)
	}
	return t, nil
}

// columnExpr renders a field as a text SQL expression.
func columnExpr(field model.Field) string {
	if field == model.FieldAmount {
		return "amount::text"
	}
	return string(field)
}

// likeEscaper makes LIKE metacharacters in a query match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// filterClause renders the expense filter for one kind as a WHERE condition
// using a single positional parameter $1.
func filterClause(f model.ExpenseFilter, kind model.RecordKind) (string, []any) {
	if f.IsEmpty() {
		return "TRUE", nil
	}

	fields := f.Fields(kind)
	conds := make([]string, 0, len(fields))
	for _, field := range fields {
		conds = append(conds, columnExpr(field)+` ILIKE $1 ESCAPE '\'`)
	}

	pattern := "%" + likeEscaper.Replace(f.Query) + "%"
	return "(" + strings.Join(conds, " OR ") + ")", []any{pattern}
}

// SearchBills returns every bill matching the filter, projected as expenses.
func (r *Repository) SearchBills(ctx context.Context, f model.ExpenseFilter) ([]model.Expense, error) {
	return r.searchExpenses(ctx, model.KindBill, f)
}

// SearchPayments returns every payment matching the filter, projected as expenses.
func (r *Repository) SearchPayments(ctx context.Context, f model.ExpenseFilter) ([]model.Expense, error) {
	return r.searchExpenses(ctx, model.KindPayment, f)
}

// CountBills counts bills matching the filter.
func (r *Repository) CountBills(ctx context.Context, f model.ExpenseFilter) (int, error) {
	return r.countExpenses(ctx, model.KindBill, f)
}

// CountPayments counts payments matching the filter.
func (r *Repository) CountPayments(ctx context.Context, f model.ExpenseFilter) (int, error) {
	return r.countExpenses(ctx, model.KindPayment, f)
}

func (r *Repository) searchExpenses(ctx context.Context, kind model.RecordKind, f model.ExpenseFilter) ([]model.Expense, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	where, args := filterClause(f, kind)
	query := fmt.Sprintf(`
		SELECT id, vendor, category, amount, %s, created_at
		FROM %s
		WHERE %s
		ORDER BY created_at DESC, id
	`, table.statusExpr, table.name, where)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", table.name, err)
	}
	defer rows.Close()

	expenses := make([]model.Expense, 0)
	for rows.Next() {
		e := model.Expense{Kind: kind}
		if err := rows.Scan(&e.ID, &e.Vendor, &e.Category, &e.Amount, &e.Status, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table.name, err)
		}
		expenses = append(expenses, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", table.name, err)
	}

	return expenses, nil
}

func (r *Repository) countExpenses(ctx context.Context, kind model.RecordKind, f model.ExpenseFilter) (int, error) {
	table, err := tableFor(kind)
	if err != nil {
		return 0, err
	}

	where, args := filterClause(f, kind)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s`, table.name, where)

	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table.name, err)
	}

	return count, nil
}
