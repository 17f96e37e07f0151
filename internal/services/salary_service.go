package services

import (
	"context"

	"github.com/Bhavyabhvy/SpendIQ/internal/core"
	"github.com/Bhavyabhvy/SpendIQ/internal/storage"
)

type SalaryService struct {
	storage *storage.SQLiteRepository
}

func NewSalaryService(storage *storage.SQLiteRepository) *SalaryService {
	return &SalaryService{storage: storage}
}

// FixSalary records the salary for one month. A month that already has one
// returns storage.ErrSalaryExists and the stored value stays as it was; the
// caller renders that as a warning, not a failure.
func (s *SalaryService) FixSalary(ctx context.Context, salary core.Salary) (int64, error) {
	if err := salary.Validate(); err != nil {
		return 0, err
	}
	return s.storage.FixSalary(ctx, salary)
}

// GetMonthlySalary returns the salary for the exact month key, zero if unset.
func (s *SalaryService) GetMonthlySalary(ctx context.Context, userID int64, year, month int) (core.Money, error) {
	return s.storage.GetMonthlySalary(ctx, userID, core.MonthKey(year, month))
}
