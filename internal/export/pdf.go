package export

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/Bhavyabhvy/SpendIQ/internal/core"
	"github.com/Bhavyabhvy/SpendIQ/internal/report"
)

// WritePDF renders the summary fields and category breakdown as a paginated
// document. Categories are listed in descending amount order (name ascending
// on ties) so the layout is stable across runs.
func WritePDF(w io.Writer, userName string, summary *report.MonthlySummary) error {
	if summary == nil {
		return fmt.Errorf("no summary to export")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, fmt.Sprintf("%s - Monthly Expense Report", userName), "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 12)
	pdf.Ln(5)
	pdf.CellFormat(0, 10, fmt.Sprintf("Month: %s %d", time.Month(summary.Month), summary.Year), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 10, "Salary: "+summary.Salary.String(), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 10, "Total Expenses: "+summary.TotalExpense.String(), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 10, "Remaining Salary: "+summary.Remaining.String(), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 10, "Highest Spending Category: "+summary.MaxCategory, "", 1, "L", false, 0, "")

	pdf.Ln(5)
	pdf.CellFormat(0, 10, "Category-wise Expenses:", "", 1, "L", false, 0, "")
	for _, ca := range sortedCategories(summary.CategorySummary) {
		pdf.CellFormat(0, 10, fmt.Sprintf("%s: %s", ca.name, ca.amount), "", 1, "L", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

// PDFFileName names the export for a given month, e.g. "2024-03_report.pdf".
func PDFFileName(year, month int) string {
	return core.MonthKey(year, month) + "_report.pdf"
}

type categoryAmount struct {
	name   string
	amount core.Money
}

func sortedCategories(sums map[string]core.Money) []categoryAmount {
	out := make([]categoryAmount, 0, len(sums))
	for name, amount := range sums {
		out = append(out, categoryAmount{name: name, amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].amount.Cents != out[j].amount.Cents {
			return out[i].amount.Cents > out[j].amount.Cents
		}
		return out[i].name < out[j].name
	})
	return out
}
