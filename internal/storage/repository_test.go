package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/Bhavyabhvy/SpendIQ/internal/auth"
	"github.com/Bhavyabhvy/SpendIQ/internal/core"
)

type RepositoryTestSuite struct {
	suite.Suite
	repo *SQLiteRepository
	ctx  context.Context
	user *core.User
}

func (s *RepositoryTestSuite) SetupTest() {
	repo, err := NewSQLiteRepository(filepath.Join(s.T().TempDir(), "test.db"))
	require.NoError(s.T(), err, "failed to create test database")
	s.repo = repo
	s.ctx = context.Background()

	hash, err := auth.HashPassword("testpass")
	require.NoError(s.T(), err)
	user, err := s.repo.CreateUser(s.ctx, "Asha", "asha@example.com", hash)
	require.NoError(s.T(), err)
	s.user = user
}

func (s *RepositoryTestSuite) TearDownTest() {
	if s.repo != nil {
		s.repo.Close()
	}
}

func (s *RepositoryTestSuite) addExpense(date time.Time, category string, cents int64) int64 {
	id, err := s.repo.CreateExpense(s.ctx, core.Expense{
		UserID:   s.user.ID,
		Date:     date,
		Category: category,
		Amount:   core.Money{Cents: cents},
	})
	require.NoError(s.T(), err)
	return id
}

func day(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func (s *RepositoryTestSuite) TestCreateUserDuplicateEmail() {
	before, err := s.repo.UserCount(s.ctx)
	require.NoError(s.T(), err)

	_, err = s.repo.CreateUser(s.ctx, "Other", "asha@example.com", "hash")
	assert.ErrorIs(s.T(), err, ErrEmailTaken)

	after, err := s.repo.UserCount(s.ctx)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), before, after, "rejected registration must leave user count unchanged")
}

func (s *RepositoryTestSuite) TestGetUserByEmail() {
	u, err := s.repo.GetUserByEmail(s.ctx, "asha@example.com")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), s.user.ID, u.ID)
	assert.Equal(s.T(), "Asha", u.Name)
	assert.False(s.T(), u.JoinDate.IsZero())

	_, err = s.repo.GetUserByEmail(s.ctx, "nobody@example.com")
	assert.ErrorIs(s.T(), err, ErrNotFound)
}

func (s *RepositoryTestSuite) TestListMonthExpensesRange() {
	// February 2024 is a leap month; records on both boundary days must be
	// included, adjacent months excluded.
	s.addExpense(day(2024, 2, 1), "Food", 100)
	s.addExpense(day(2024, 2, 29), "Food", 200)
	s.addExpense(day(2024, 1, 31), "Food", 300)
	s.addExpense(day(2024, 3, 1), "Food", 400)

	expenses, err := s.repo.ListMonthExpenses(s.ctx, s.user.ID, 2024, 2)
	require.NoError(s.T(), err)
	require.Len(s.T(), expenses, 2)
	assert.Equal(s.T(), int64(100), expenses[0].Amount.Cents)
	assert.Equal(s.T(), int64(200), expenses[1].Amount.Cents)
}

func (s *RepositoryTestSuite) TestListMonthExpensesEmpty() {
	expenses, err := s.repo.ListMonthExpenses(s.ctx, s.user.ID, 2024, 4)
	require.NoError(s.T(), err, "empty month is not an error")
	assert.Empty(s.T(), expenses)
}

func (s *RepositoryTestSuite) TestListMonthExpensesScopedToUser() {
	other, err := s.repo.CreateUser(s.ctx, "Ravi", "ravi@example.com", "hash")
	require.NoError(s.T(), err)

	s.addExpense(day(2024, 3, 5), "Food", 100)
	_, err = s.repo.CreateExpense(s.ctx, core.Expense{
		UserID: other.ID, Date: day(2024, 3, 6), Category: "Food", Amount: core.Money{Cents: 999},
	})
	require.NoError(s.T(), err)

	expenses, err := s.repo.ListMonthExpenses(s.ctx, s.user.ID, 2024, 3)
	require.NoError(s.T(), err)
	require.Len(s.T(), expenses, 1)
	assert.Equal(s.T(), int64(100), expenses[0].Amount.Cents)
}

func (s *RepositoryTestSuite) TestUpdateExpenseRoundTrip() {
	id := s.addExpense(day(2024, 3, 10), "Food", 500)

	err := s.repo.UpdateExpense(s.ctx, core.Expense{
		ID:       id,
		UserID:   s.user.ID,
		Date:     day(2024, 3, 11),
		Category: "Travel",
		Amount:   core.Money{Cents: 750},
		Note:     "train",
	})
	require.NoError(s.T(), err)

	expenses, err := s.repo.ListMonthExpenses(s.ctx, s.user.ID, 2024, 3)
	require.NoError(s.T(), err)
	require.Len(s.T(), expenses, 1)
	assert.Equal(s.T(), int64(750), expenses[0].Amount.Cents, "re-query returns the new amount")
	assert.Equal(s.T(), "Travel", expenses[0].Category)
	assert.Equal(s.T(), "train", expenses[0].Note)
	assert.Equal(s.T(), 11, expenses[0].Date.Day())
}

func (s *RepositoryTestSuite) TestUpdateExpenseWrongOwner() {
	id := s.addExpense(day(2024, 3, 10), "Food", 500)
	err := s.repo.UpdateExpense(s.ctx, core.Expense{
		ID: id, UserID: s.user.ID + 1, Date: day(2024, 3, 10), Category: "X", Amount: core.Money{Cents: 1},
	})
	assert.ErrorIs(s.T(), err, ErrNotFound)
}

func (s *RepositoryTestSuite) TestDeleteExpense() {
	id := s.addExpense(day(2024, 3, 10), "Food", 500)
	require.NoError(s.T(), s.repo.DeleteExpense(s.ctx, s.user.ID, id))

	expenses, err := s.repo.ListMonthExpenses(s.ctx, s.user.ID, 2024, 3)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), expenses)

	assert.ErrorIs(s.T(), s.repo.DeleteExpense(s.ctx, s.user.ID, id), ErrNotFound)
}

func (s *RepositoryTestSuite) TestFixSalaryOncePerMonth() {
	_, err := s.repo.FixSalary(s.ctx, core.Salary{
		UserID: s.user.ID, Month: "2024-03", Amount: core.Money{Cents: 5000000},
	})
	require.NoError(s.T(), err)

	_, err = s.repo.FixSalary(s.ctx, core.Salary{
		UserID: s.user.ID, Month: "2024-03", Amount: core.Money{Cents: 9999999},
	})
	assert.ErrorIs(s.T(), err, ErrSalaryExists)

	// The stored value is never altered by a rejected fixation.
	got, err := s.repo.GetMonthlySalary(s.ctx, s.user.ID, "2024-03")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(5000000), got.Cents)
}

func (s *RepositoryTestSuite) TestGetMonthlySalaryAbsent() {
	got, err := s.repo.GetMonthlySalary(s.ctx, s.user.ID, "2024-04")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(0), got.Cents, "unset month reads as zero")
}

func (s *RepositoryTestSuite) TestSalaryScopedToUser() {
	other, err := s.repo.CreateUser(s.ctx, "Ravi", "ravi@example.com", "hash")
	require.NoError(s.T(), err)

	_, err = s.repo.FixSalary(s.ctx, core.Salary{
		UserID: other.ID, Month: "2024-03", Amount: core.Money{Cents: 123},
	})
	require.NoError(s.T(), err)

	got, err := s.repo.GetMonthlySalary(s.ctx, s.user.ID, "2024-03")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(0), got.Cents)
}

func (s *RepositoryTestSuite) TestSessions() {
	token, err := auth.GenerateSessionToken()
	require.NoError(s.T(), err)

	err = s.repo.CreateSession(s.ctx, token, s.user.ID, time.Now().Add(time.Hour))
	require.NoError(s.T(), err)

	u, err := s.repo.GetSessionUser(s.ctx, token)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), s.user.ID, u.ID)

	require.NoError(s.T(), s.repo.DeleteSession(s.ctx, token))
	_, err = s.repo.GetSessionUser(s.ctx, token)
	assert.ErrorIs(s.T(), err, ErrNotFound)
}

func (s *RepositoryTestSuite) TestExpiredSessionRejectedAndPurged() {
	token, err := auth.GenerateSessionToken()
	require.NoError(s.T(), err)
	err = s.repo.CreateSession(s.ctx, token, s.user.ID, time.Now().Add(-time.Minute))
	require.NoError(s.T(), err)

	_, err = s.repo.GetSessionUser(s.ctx, token)
	assert.ErrorIs(s.T(), err, ErrNotFound)

	n, err := s.repo.PurgeExpiredSessions(s.ctx)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(1), n)
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}
