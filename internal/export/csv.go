// Package export serializes already-computed monthly summaries to files.
// Both writers are pure consumers: they perform no aggregation of their own.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/Bhavyabhvy/SpendIQ/internal/core"
	"github.com/Bhavyabhvy/SpendIQ/internal/report"
)

// WriteCSV writes the summary's expense records as one row per record:
// Date,Category,Amount,Note. Amounts are plain decimals without a currency
// prefix so spreadsheets parse them as numbers.
func WriteCSV(w io.Writer, summary *report.MonthlySummary) error {
	if summary == nil {
		return fmt.Errorf("no summary to export")
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Date", "Category", "Amount", "Note"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range summary.Expenses {
		row := []string{
			core.DayKey(e.Date),
			e.Category,
			formatDecimal(e.Amount),
			e.Note,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// CSVFileName names the export for a given month, e.g. "2024-03_expenses.csv".
func CSVFileName(year, month int) string {
	return core.MonthKey(year, month) + "_expenses.csv"
}

func formatDecimal(m core.Money) string {
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := strconv.FormatInt(cents/100, 10) + "." + fmt.Sprintf("%02d", cents%100)
	if neg {
		return "-" + s
	}
	return s
}
