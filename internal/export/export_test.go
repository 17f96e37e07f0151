package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bhavyabhvy/SpendIQ/internal/core"
	"github.com/Bhavyabhvy/SpendIQ/internal/report"
)

func sampleSummary() *report.MonthlySummary {
	day := func(d int) time.Time {
		return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
	}
	return &report.MonthlySummary{
		UserID:       1,
		Year:         2024,
		Month:        3,
		TotalExpense: core.Money{Cents: 200000},
		Salary:       core.Money{Cents: 5000000},
		Remaining:    core.Money{Cents: 4800000},
		CategorySummary: map[string]core.Money{
			"Food":   core.Money{Cents: 50000},
			"Travel": core.Money{Cents: 150000},
		},
		MaxCategory: "Travel",
		Expenses: []core.Expense{
			{ID: 1, UserID: 1, Date: day(5), Category: "Food", Amount: core.Money{Cents: 50000}, Note: "groceries"},
			{ID: 2, UserID: 1, Date: day(9), Category: "Travel", Amount: core.Money{Cents: 150000}, Note: ""},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleSummary()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"Date", "Category", "Amount", "Note"}, rows[0])
	assert.Equal(t, []string{"2024-03-05", "Food", "500.00", "groceries"}, rows[1])
	assert.Equal(t, []string{"2024-03-09", "Travel", "1500.00", ""}, rows[2])
}

func TestWriteCSVNilSummary(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WriteCSV(&buf, nil))
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, "Asha", sampleSummary()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestWritePDFNilSummary(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WritePDF(&buf, "Asha", nil))
}

func TestFileNames(t *testing.T) {
	assert.Equal(t, "2024-03_expenses.csv", CSVFileName(2024, 3))
	assert.Equal(t, "2024-03_report.pdf", PDFFileName(2024, 3))
}

func TestFormatDecimal(t *testing.T) {
	assert.Equal(t, "0.00", formatDecimal(core.Money{Cents: 0}))
	assert.Equal(t, "12.05", formatDecimal(core.Money{Cents: 1205}))
	assert.Equal(t, "-45.00", formatDecimal(core.Money{Cents: -4500}))
}
