package services

import (
	"context"
	"fmt"

	"github.com/Bhavyabhvy/SpendIQ/internal/core"
	"github.com/Bhavyabhvy/SpendIQ/internal/storage"
)

type ExpenseService struct {
	storage *storage.SQLiteRepository
}

func NewExpenseService(storage *storage.SQLiteRepository) *ExpenseService {
	return &ExpenseService{storage: storage}
}

// AddExpense validates and saves a new expense record.
func (s *ExpenseService) AddExpense(ctx context.Context, e core.Expense) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}
	id, err := s.storage.CreateExpense(ctx, e)
	if err != nil {
		return 0, fmt.Errorf("save expense: %w", err)
	}
	return id, nil
}

// EditExpense rewrites an existing record's date, category, amount and note.
// The record must belong to e.UserID; editing someone else's expense returns
// storage.ErrNotFound.
func (s *ExpenseService) EditExpense(ctx context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	return s.storage.UpdateExpense(ctx, e)
}

// DeleteExpense removes one record owned by userID.
func (s *ExpenseService) DeleteExpense(ctx context.Context, userID, id int64) error {
	return s.storage.DeleteExpense(ctx, userID, id)
}

// GetExpense fetches one record, verifying ownership.
func (s *ExpenseService) GetExpense(ctx context.Context, userID, id int64) (*core.Expense, error) {
	e, err := s.storage.GetExpense(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.UserID != userID {
		return nil, storage.ErrNotFound
	}
	return e, nil
}

// ListMonthExpenses returns one calendar month of records for display.
func (s *ExpenseService) ListMonthExpenses(ctx context.Context, userID int64, year, month int) ([]core.Expense, error) {
	return s.storage.ListMonthExpenses(ctx, userID, year, month)
}
