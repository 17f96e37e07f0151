package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type (
	// User is an account holder. Immutable after registration except for
	// credential rotation, which is not implemented.
	User struct {
		ID           int64
		Name         string
		Email        string
		PasswordHash string
		JoinDate     time.Time
	}

	// Expense is a single spending record owned by exactly one user.
	// Date carries day granularity only; the time-of-day part is ignored.
	Expense struct {
		ID       int64
		UserID   int64
		Date     time.Time
		Category string
		Amount   Money
		Note     string
	}

	// Salary is the fixed income for one (user, month) pair.
	Salary struct {
		ID     int64
		UserID int64
		Month  string // YYYY-MM
		Amount Money
	}
)

var (
	ErrInvalidDate    = errors.New("invalid date")
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrEmptyCategory  = errors.New("empty category")
	ErrEmptyName      = errors.New("empty name")
	ErrInvalidEmail   = errors.New("invalid email")
	ErrEmptyPassword  = errors.New("empty password")
	ErrInvalidMonth   = errors.New("invalid month key")
)

// MonthKey formats a (year, month) pair as the canonical "YYYY-MM" key used
// for salary lookups. Exactly one lookup path exists for a key; there is no
// fallback to adjacent months.
func MonthKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// ParseMonthKey is the inverse of MonthKey.
func ParseMonthKey(key string) (year, month int, err error) {
	t, perr := time.Parse("2006-01", key)
	if perr != nil {
		return 0, 0, ErrInvalidMonth
	}
	return t.Year(), int(t.Month()), nil
}

// MonthBounds returns the first and last day of a calendar month. The last
// day is computed from the actual month length, so 28/29/30/31-day months and
// leap years come out right.
func MonthBounds(year, month int) (first, last time.Time) {
	first = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last = first.AddDate(0, 1, -1)
	return first, last
}

// DayKey truncates a date to day granularity, formatted YYYY-MM-DD.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func (e Expense) Validate() error {
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if len(e.Category) > 100 {
		return errors.New("category too long (max 100 characters)")
	}
	if e.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if len(e.Note) > 200 {
		return errors.New("note too long (max 200 characters)")
	}
	return nil
}

func (s Salary) Validate() error {
	if _, _, err := ParseMonthKey(s.Month); err != nil {
		return err
	}
	if s.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// ValidateRegistration checks the fields a new account needs. Email checking
// is deliberately shallow; uniqueness is the store's job.
func (u User) ValidateRegistration() error {
	if strings.TrimSpace(u.Name) == "" {
		return ErrEmptyName
	}
	if !strings.Contains(u.Email, "@") || strings.TrimSpace(u.Email) == "" {
		return ErrInvalidEmail
	}
	return nil
}
