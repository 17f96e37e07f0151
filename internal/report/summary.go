// Package report derives monthly summaries and insights from one user's
// expense and salary records. Summaries are recomputed on every view and
// never persisted.
package report

import (
	"context"
	"fmt"

	"github.com/Bhavyabhvy/SpendIQ/internal/core"
)

// MonthlySummary aggregates one user's one month of expenses plus that
// month's salary.
type MonthlySummary struct {
	UserID          int64
	Year            int
	Month           int
	TotalExpense    core.Money
	Salary          core.Money
	Remaining       core.Money // Salary - TotalExpense, may be negative
	CategorySummary map[string]core.Money
	MaxCategory     string
	Expenses        []core.Expense
}

// Builder composes the expense query and salary lookup into summaries.
type Builder struct {
	expenses ExpenseLister
	salaries SalaryReader
}

func NewBuilder(expenses ExpenseLister, salaries SalaryReader) *Builder {
	return &Builder{expenses: expenses, salaries: salaries}
}

// BuildMonthlySummary returns the summary for (userID, year, month), or nil
// when the month has no expenses. A nil summary is the "no data" state, not
// an error: a month with a salary fixed but no expenses recorded is absent,
// matching the report page's "no expenses this month" behaviour.
func (b *Builder) BuildMonthlySummary(ctx context.Context, userID int64, year, month int) (*MonthlySummary, error) {
	expenses, err := b.expenses.ListMonthExpenses(ctx, userID, year, month)
	if err != nil {
		return nil, fmt.Errorf("list month expenses (year=%d, month=%d): %w", year, month, err)
	}
	if len(expenses) == 0 {
		return nil, nil
	}

	salary, err := b.salaries.GetMonthlySalary(ctx, userID, core.MonthKey(year, month))
	if err != nil {
		return nil, fmt.Errorf("get monthly salary: %w", err)
	}

	summary := &MonthlySummary{
		UserID:          userID,
		Year:            year,
		Month:           month,
		Salary:          salary,
		CategorySummary: make(map[string]core.Money, 8),
		Expenses:        expenses,
	}

	for _, e := range expenses {
		summary.TotalExpense = summary.TotalExpense.Add(e.Amount)
		summary.CategorySummary[e.Category] = summary.CategorySummary[e.Category].Add(e.Amount)
	}
	summary.Remaining = summary.Salary.Sub(summary.TotalExpense)
	summary.MaxCategory = maxCategory(summary.CategorySummary)

	return summary, nil
}

// maxCategory picks the category with the largest summed amount. Ties break
// to the lexicographically smallest name so the result is deterministic
// regardless of map iteration order.
func maxCategory(sums map[string]core.Money) string {
	var best string
	var bestCents int64
	first := true
	for name, amount := range sums {
		if first || amount.Cents > bestCents || (amount.Cents == bestCents && name < best) {
			best = name
			bestCents = amount.Cents
			first = false
		}
	}
	return best
}
