// Package storage is the SQLite persistence layer. One repository instance
// is created at startup and handed to the services that need it; there is no
// ambient global handle.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Bhavyabhvy/SpendIQ/internal/core"

	_ "modernc.org/sqlite"
)

const dayFormat = "2006-01-02"

var (
	ErrNotFound     = errors.New("record not found")
	ErrEmailTaken   = errors.New("email already registered")
	ErrSalaryExists = errors.New("salary already fixed for this month")
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dbPath != ":memory:" && dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// --- users ---

// CreateUser registers a new account. A duplicate email is rejected before
// any write, leaving the user count unchanged.
func (r *SQLiteRepository) CreateUser(ctx context.Context, name, email, passwordHash string) (*core.User, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)", email,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	joinDate := time.Now().UTC().Format(dayFormat)
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, join_date) VALUES (?, ?, ?, ?)",
		name, email, passwordHash, joinDate,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "User registered", "id", id, "email", email)
	return r.GetUserByID(ctx, id)
}

func (r *SQLiteRepository) GetUserByID(ctx context.Context, id int64) (*core.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		"SELECT id, name, email, password_hash, join_date FROM users WHERE id = ?", id))
}

func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (*core.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		"SELECT id, name, email, password_hash, join_date FROM users WHERE email = ?", email))
}

func (r *SQLiteRepository) scanUser(row *sql.Row) (*core.User, error) {
	var u core.User
	var joinDate string
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &joinDate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	t, err := time.Parse(dayFormat, joinDate)
	if err != nil {
		return nil, fmt.Errorf("parse join date %q: %w", joinDate, err)
	}
	u.JoinDate = t
	return &u, nil
}

func (r *SQLiteRepository) UserCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}

// --- expenses ---

func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO expenses (user_id, date, category, amount_cents, note) VALUES (?, ?, ?, ?, ?)",
		e.UserID, e.Date.Format(dayFormat), e.Category, e.Amount.Cents, e.Note,
	)
	if err != nil {
		return 0, fmt.Errorf("insert expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", id,
		"user_id", e.UserID,
		"category", e.Category,
		"amount_cents", e.Amount.Cents,
		"date", e.Date.Format(dayFormat))
	return id, nil
}

func (r *SQLiteRepository) GetExpense(ctx context.Context, id int64) (*core.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, date, category, amount_cents, note FROM expenses WHERE id = ?", id)
	e, err := scanExpense(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// UpdateExpense rewrites the mutable fields (date, category, amount, note)
// of an expense identified by its id.
func (r *SQLiteRepository) UpdateExpense(ctx context.Context, e core.Expense) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE expenses SET date = ?, category = ?, amount_cents = ?, note = ? WHERE id = ? AND user_id = ?",
		e.Date.Format(dayFormat), e.Category, e.Amount.Cents, e.Note, e.ID, e.UserID,
	)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	slog.InfoContext(ctx, "Expense updated", "id", e.ID, "user_id", e.UserID)
	return nil
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM expenses WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	slog.InfoContext(ctx, "Expense deleted", "id", id, "user_id", userID)
	return nil
}

// ListMonthExpenses implements report.ExpenseLister: all expenses for one
// user whose date lies within the calendar month, ordered by date then id.
func (r *SQLiteRepository) ListMonthExpenses(ctx context.Context, userID int64, year, month int) ([]core.Expense, error) {
	first, last := core.MonthBounds(year, month)
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, user_id, date, category, amount_cents, note FROM expenses WHERE user_id = ? AND date BETWEEN ? AND ? ORDER BY date, id",
		userID, first.Format(dayFormat), last.Format(dayFormat),
	)
	if err != nil {
		return nil, fmt.Errorf("query month expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows.Scan)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, *e)
	}
	return expenses, rows.Err()
}

func scanExpense(scan func(dest ...any) error) (*core.Expense, error) {
	var e core.Expense
	var date string
	if err := scan(&e.ID, &e.UserID, &date, &e.Category, &e.Amount.Cents, &e.Note); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("scan expense: %w", err)
	}
	t, err := time.Parse(dayFormat, date)
	if err != nil {
		return nil, fmt.Errorf("parse expense date %q: %w", date, err)
	}
	e.Date = t
	return &e, nil
}

// --- salaries ---

// FixSalary records the salary for one (user, month) pair. A month that
// already has a salary is rejected before the write and the stored value is
// never altered; the UNIQUE(user_id, month) constraint backs the check in
// case two fixations race.
func (r *SQLiteRepository) FixSalary(ctx context.Context, s core.Salary) (int64, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM salaries WHERE user_id = ? AND month = ?)",
		s.UserID, s.Month,
	).Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("check salary: %w", err)
	}
	if exists {
		return 0, ErrSalaryExists
	}

	res, err := r.db.ExecContext(ctx,
		"INSERT INTO salaries (user_id, month, amount_cents) VALUES (?, ?, ?)",
		s.UserID, s.Month, s.Amount.Cents,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return 0, ErrSalaryExists
		}
		return 0, fmt.Errorf("insert salary: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Salary fixed",
		"id", id,
		"user_id", s.UserID,
		"month", s.Month,
		"amount_cents", s.Amount.Cents)
	return id, nil
}

// GetMonthlySalary implements report.SalaryReader: the amount for the exact
// month key, or zero when unset. No fallback to adjacent months.
func (r *SQLiteRepository) GetMonthlySalary(ctx context.Context, userID int64, monthKey string) (core.Money, error) {
	var cents int64
	err := r.db.QueryRowContext(ctx,
		"SELECT amount_cents FROM salaries WHERE user_id = ? AND month = ?",
		userID, monthKey,
	).Scan(&cents)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Money{}, nil
	}
	if err != nil {
		return core.Money{}, fmt.Errorf("query salary: %w", err)
	}
	return core.Money{Cents: cents}, nil
}

// --- sessions ---

func (r *SQLiteRepository) CreateSession(ctx context.Context, token string, userID int64, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO sessions (token, user_id, expires_at) VALUES (?, ?, ?)",
		token, userID, expiresAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// GetSessionUser resolves a session token to its user, rejecting expired
// sessions.
func (r *SQLiteRepository) GetSessionUser(ctx context.Context, token string) (*core.User, error) {
	var userID int64
	var expiresAt string
	err := r.db.QueryRowContext(ctx,
		"SELECT user_id, expires_at FROM sessions WHERE token = ?", token,
	).Scan(&userID, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query session: %w", err)
	}

	exp, err := time.Parse(time.RFC3339, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("parse session expiry %q: %w", expiresAt, err)
	}
	if time.Now().After(exp) {
		return nil, ErrNotFound
	}

	return r.GetUserByID(ctx, userID)
}

func (r *SQLiteRepository) DeleteSession(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE token = ?", token)
	return err
}

// PurgeExpiredSessions removes sessions past their expiry. Called from the
// cron schedule in the server process.
func (r *SQLiteRepository) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM sessions WHERE expires_at <= ?", time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	if n > 0 {
		slog.InfoContext(ctx, "Expired sessions purged", "count", n)
	}
	return n, nil
}
