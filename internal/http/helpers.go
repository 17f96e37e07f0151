package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Bhavyabhvy/SpendIQ/internal/core"
)

const userKey contextKey = "user"

func withUser(ctx context.Context, u *core.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// currentUser returns the authenticated user. Handlers behind requireAuth
// can rely on it being present.
func currentUser(ctx context.Context) *core.User {
	u, _ := ctx.Value(userKey).(*core.User)
	return u
}

// yearMonth reads year/month from the query string, falling back to the
// current month. Out-of-range months snap back to the current one.
func yearMonth(r *http.Request) (year, month int) {
	now := time.Now()
	year, month = now.Year(), int(now.Month())

	if v := strings.TrimSpace(r.FormValue("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil && y >= 1 && y <= 9999 {
			year = y
		}
	}
	if v := strings.TrimSpace(r.FormValue("month")); v != "" {
		if m, err := strconv.Atoi(v); err == nil {
			if m >= 1 && m <= 12 {
				month = m
			} else {
				slog.WarnContext(r.Context(), "Invalid month parameter", "month", m)
			}
		}
	}
	return year, month
}

// parseDay parses a YYYY-MM-DD form value.
func parseDay(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(v))
	if err != nil {
		return time.Time{}, core.ErrInvalidDate
	}
	return t, nil
}

// sanitizeInput trims whitespace and strips control characters except tab,
// newline and carriage return.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "template", name)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution failed", "template", name, "error", err)
		http.Error(w, "render error", http.StatusInternalServerError)
	}
}
