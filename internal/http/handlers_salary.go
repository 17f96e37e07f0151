package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Bhavyabhvy/SpendIQ/internal/core"
	"github.com/Bhavyabhvy/SpendIQ/internal/storage"
)

type salaryPage struct {
	UserName string
	Year     int
	Month    int
	MonthKey string
	Current  string // formatted salary, empty when unset
	Error    string
	Warning  string
	Success  string
}

// handleSalary shows the month's salary on GET and fixes it on POST. Fixing
// a month that already has a salary renders a warning and leaves the stored
// value untouched.
func (s *Server) handleSalary(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderSalary(w, r, salaryPage{})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		user := currentUser(r.Context())
		year, month := yearMonth(r)

		cents, err := core.ParseDecimalToCents(r.Form.Get("amount"))
		if err != nil {
			w.WriteHeader(http.StatusUnprocessableEntity)
			s.renderSalary(w, r, salaryPage{Error: "Invalid amount"})
			return
		}

		_, err = s.salaries.FixSalary(r.Context(), core.Salary{
			UserID: user.ID,
			Month:  core.MonthKey(year, month),
			Amount: core.Money{Cents: cents},
		})
		switch {
		case errors.Is(err, storage.ErrSalaryExists):
			s.renderSalary(w, r, salaryPage{Warning: "Salary already fixed for this month"})
			return
		case errors.Is(err, core.ErrInvalidAmount):
			w.WriteHeader(http.StatusUnprocessableEntity)
			s.renderSalary(w, r, salaryPage{Error: "Amount must not be negative"})
			return
		case err != nil:
			slog.ErrorContext(r.Context(), "Fix salary failed", "error", err)
			http.Error(w, "salary update failed", http.StatusInternalServerError)
			return
		}

		s.reports.Invalidate(user.ID, year, month)
		s.renderSalary(w, r, salaryPage{Success: "Salary fixed"})
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) renderSalary(w http.ResponseWriter, r *http.Request, page salaryPage) {
	user := currentUser(r.Context())
	year, month := yearMonth(r)

	page.UserName = user.Name
	page.Year = year
	page.Month = month
	page.MonthKey = core.MonthKey(year, month)

	current, err := s.salaries.GetMonthlySalary(r.Context(), user.ID, year, month)
	if err != nil {
		slog.ErrorContext(r.Context(), "Get salary failed", "error", err)
	} else if current.Cents > 0 {
		page.Current = current.String()
	}

	s.render(w, r, "salary.html", page)
}
