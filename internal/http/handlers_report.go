package http

import (
	"log/slog"
	"net/http"
	"sort"

	"github.com/Bhavyabhvy/SpendIQ/internal/core"
	"github.com/Bhavyabhvy/SpendIQ/internal/export"
	"github.com/Bhavyabhvy/SpendIQ/internal/report"
)

type categoryRow struct {
	Name   string
	Amount string
}

type dayRow struct {
	Day    string
	Amount string
	High   bool
}

type reportPage struct {
	UserName string
	Year     int
	Month    int
	MonthKey string

	// Empty is true for a month with no expenses; the remaining fields are
	// only meaningful when it is false.
	Empty bool

	Total       string
	Salary      string
	Remaining   string
	Overspent   bool
	MaxCategory string
	Categories  []categoryRow

	AverageDailySpend string
	PeakDay           string
	PeakDayTotal      string
	Days              []dayRow
	LowBalanceAlert   bool
}

// handleReport renders the monthly summary and insights, and queues the
// CSV/PDF materialization in the background.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	user := currentUser(r.Context())
	year, month := yearMonth(r)

	rep, err := s.reports.GetMonthlyReport(r.Context(), user.ID, year, month)
	if err != nil {
		slog.ErrorContext(r.Context(), "Build report failed", "error", err, "year", year, "month", month)
		http.Error(w, "report failed", http.StatusInternalServerError)
		return
	}

	page := reportPage{
		UserName: user.Name,
		Year:     year,
		Month:    month,
		MonthKey: core.MonthKey(year, month),
	}

	if rep.Summary == nil {
		page.Empty = true
		s.render(w, r, "report.html", page)
		return
	}

	fillReportPage(&page, rep.Summary, rep.Insights)
	s.reports.RequestExport(r.Context(), user.ID, year, month)
	s.render(w, r, "report.html", page)
}

func fillReportPage(page *reportPage, summary *report.MonthlySummary, ins *report.Insights) {
	page.Total = summary.TotalExpense.String()
	page.Salary = summary.Salary.String()
	page.Remaining = summary.Remaining.String()
	page.Overspent = summary.Remaining.Cents < 0
	page.MaxCategory = summary.MaxCategory

	names := make([]string, 0, len(summary.CategorySummary))
	for name := range summary.CategorySummary {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		page.Categories = append(page.Categories, categoryRow{
			Name:   name,
			Amount: summary.CategorySummary[name].String(),
		})
	}

	if ins == nil {
		return
	}
	page.AverageDailySpend = ins.AverageDailySpend.String()
	page.PeakDay = ins.PeakDay
	page.PeakDayTotal = ins.PeakDayTotal.String()
	page.LowBalanceAlert = ins.LowBalanceAlert

	high := make(map[string]bool, len(ins.HighSpendingDays))
	for _, d := range ins.HighSpendingDays {
		high[d] = true
	}
	for _, d := range ins.DailyTotals {
		page.Days = append(page.Days, dayRow{
			Day:    d.Day,
			Amount: d.Total.String(),
			High:   high[d.Day],
		})
	}
}

func (s *Server) handleReportCSV(w http.ResponseWriter, r *http.Request) {
	s.serveExport(w, r, "csv")
}

func (s *Server) handleReportPDF(w http.ResponseWriter, r *http.Request) {
	s.serveExport(w, r, "pdf")
}

// serveExport streams the month's export straight to the response. The
// summary is rebuilt here; export writers only serialize it.
func (s *Server) serveExport(w http.ResponseWriter, r *http.Request, format string) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	user := currentUser(r.Context())
	year, month := yearMonth(r)

	rep, err := s.reports.GetMonthlyReport(r.Context(), user.ID, year, month)
	if err != nil {
		slog.ErrorContext(r.Context(), "Build report failed", "error", err, "format", format)
		http.Error(w, "report failed", http.StatusInternalServerError)
		return
	}
	if rep.Summary == nil {
		http.Error(w, "no expenses this month", http.StatusNotFound)
		return
	}

	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="`+export.CSVFileName(year, month)+`"`)
		err = export.WriteCSV(w, rep.Summary)
	case "pdf":
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="`+export.PDFFileName(year, month)+`"`)
		err = export.WritePDF(w, user.Name, rep.Summary)
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Export failed", "error", err, "format", format)
	}
}
