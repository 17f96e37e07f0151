package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Bhavyabhvy/SpendIQ/internal/core"
	"github.com/Bhavyabhvy/SpendIQ/internal/storage"
)

type expenseRow struct {
	ID       int64
	Date     string
	Category string
	Amount   string
	Note     string
}

type expensesPage struct {
	UserName string
	Year     int
	Month    int
	MonthKey string
	Rows     []expenseRow
	Error    string
	Success  string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/expenses", http.StatusSeeOther)
}

// handleExpenses renders the month's expense list on GET and records a new
// expense on POST.
func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderExpenses(w, r, "", "")
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		user := currentUser(r.Context())

		e, errMsg := expenseFromForm(r)
		if errMsg != "" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			s.renderExpenses(w, r, errMsg, "")
			return
		}
		e.UserID = user.ID

		if _, err := s.expenses.AddExpense(r.Context(), e); err != nil {
			status, msg := expenseErrorStatus(err)
			w.WriteHeader(status)
			s.renderExpenses(w, r, msg, "")
			return
		}

		s.reports.Invalidate(user.ID, e.Date.Year(), int(e.Date.Month()))
		http.Redirect(w, r, "/expenses?year="+strconv.Itoa(e.Date.Year())+"&month="+strconv.Itoa(int(e.Date.Month())), http.StatusSeeOther)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleEditExpense rewrites one record's fields. The edit form posts all
// fields back, keyed by the record id.
func (s *Server) handleEditExpense(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	user := currentUser(r.Context())

	id, err := strconv.ParseInt(r.Form.Get("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid expense id", http.StatusBadRequest)
		return
	}

	e, errMsg := expenseFromForm(r)
	if errMsg != "" {
		w.WriteHeader(http.StatusUnprocessableEntity)
		s.renderExpenses(w, r, errMsg, "")
		return
	}
	e.ID = id
	e.UserID = user.ID

	// Invalidate both the month the record used to live in and the one it
	// was moved to.
	var oldYear, oldMonth int
	if prev, err := s.expenses.GetExpense(r.Context(), user.ID, id); err == nil {
		oldYear, oldMonth = prev.Date.Year(), int(prev.Date.Month())
	}

	if err := s.expenses.EditExpense(r.Context(), e); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "expense not found", http.StatusNotFound)
			return
		}
		status, msg := expenseErrorStatus(err)
		w.WriteHeader(status)
		s.renderExpenses(w, r, msg, "")
		return
	}

	if oldYear != 0 {
		s.reports.Invalidate(user.ID, oldYear, oldMonth)
	}
	s.reports.Invalidate(user.ID, e.Date.Year(), int(e.Date.Month()))
	http.Redirect(w, r, "/expenses?year="+strconv.Itoa(e.Date.Year())+"&month="+strconv.Itoa(int(e.Date.Month())), http.StatusSeeOther)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	user := currentUser(r.Context())

	id, err := strconv.ParseInt(r.Form.Get("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid expense id", http.StatusBadRequest)
		return
	}

	var year, month int
	if prev, err := s.expenses.GetExpense(r.Context(), user.ID, id); err == nil {
		year, month = prev.Date.Year(), int(prev.Date.Month())
	}

	if err := s.expenses.DeleteExpense(r.Context(), user.ID, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "expense not found", http.StatusNotFound)
			return
		}
		slog.ErrorContext(r.Context(), "Delete expense failed", "error", err, "id", id)
		http.Error(w, "delete failed", http.StatusInternalServerError)
		return
	}

	if year != 0 {
		s.reports.Invalidate(user.ID, year, month)
	}
	http.Redirect(w, r, "/expenses", http.StatusSeeOther)
}

func (s *Server) renderExpenses(w http.ResponseWriter, r *http.Request, errMsg, success string) {
	user := currentUser(r.Context())
	year, month := yearMonth(r)

	items, err := s.expenses.ListMonthExpenses(r.Context(), user.ID, year, month)
	if err != nil {
		slog.ErrorContext(r.Context(), "List expenses failed", "error", err, "year", year, "month", month)
		errMsg = "Could not load expenses"
	}

	page := expensesPage{
		UserName: user.Name,
		Year:     year,
		Month:    month,
		MonthKey: core.MonthKey(year, month),
		Error:    errMsg,
		Success:  success,
	}
	for _, e := range items {
		page.Rows = append(page.Rows, expenseRow{
			ID:       e.ID,
			Date:     core.DayKey(e.Date),
			Category: e.Category,
			Amount:   e.Amount.String(),
			Note:     e.Note,
		})
	}
	s.render(w, r, "expenses.html", page)
}

// expenseFromForm builds an expense from the posted fields, returning a
// user-facing message when a field does not parse.
func expenseFromForm(r *http.Request) (core.Expense, string) {
	date, err := parseDay(r.Form.Get("date"))
	if err != nil {
		return core.Expense{}, "Invalid date, expected YYYY-MM-DD"
	}

	cents, err := core.ParseDecimalToCents(r.Form.Get("amount"))
	if err != nil {
		return core.Expense{}, "Invalid amount"
	}

	return core.Expense{
		Date:     date,
		Category: sanitizeInput(r.Form.Get("category")),
		Amount:   core.Money{Cents: cents},
		Note:     sanitizeInput(r.Form.Get("note")),
	}, ""
}

func expenseErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, core.ErrEmptyCategory):
		return http.StatusUnprocessableEntity, "Category is required"
	case errors.Is(err, core.ErrInvalidAmount):
		return http.StatusUnprocessableEntity, "Amount must not be negative"
	case errors.Is(err, core.ErrInvalidDate):
		return http.StatusUnprocessableEntity, "Invalid date"
	default:
		return http.StatusUnprocessableEntity, err.Error()
	}
}
