package report

import (
	"context"

	"github.com/Bhavyabhvy/SpendIQ/internal/core"
)

// Ports for the persistence collaborator. The builder only ever reads.
type (
	// ExpenseLister returns the expenses whose date falls inside the given
	// calendar month for one user, ordered by date then id. An empty month
	// yields an empty slice, not an error.
	ExpenseLister interface {
		ListMonthExpenses(ctx context.Context, userID int64, year, month int) ([]core.Expense, error)
	}

	// SalaryReader returns the salary fixed for an exact "YYYY-MM" key, or
	// zero when none is recorded.
	SalaryReader interface {
		GetMonthlySalary(ctx context.Context, userID int64, monthKey string) (core.Money, error)
	}
)
