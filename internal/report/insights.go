package report

import (
	"sort"

	"github.com/Bhavyabhvy/SpendIQ/internal/core"
)

// DayTotal is the summed spending for one calendar day.
type DayTotal struct {
	Day   string // YYYY-MM-DD
	Total core.Money
}

// Insights are the secondary observations derived from a non-empty summary.
type Insights struct {
	// AverageDailySpend is the mean over days that have any spending; days
	// without records do not contribute zero entries. Rounded half-up to
	// cents for display; threshold comparisons use the exact mean.
	AverageDailySpend core.Money
	PeakDay           string
	PeakDayTotal      core.Money
	HighSpendingDays  []string // daily total strictly above the average
	LowBalanceAlert   bool     // remaining < 0.10 * salary, strict
	DailyTotals       []DayTotal
}

// EvaluateInsights derives insights from a summary. Returns nil when the
// summary is nil or carries no expenses.
func EvaluateInsights(s *MonthlySummary) *Insights {
	if s == nil || len(s.Expenses) == 0 {
		return nil
	}

	byDay := make(map[string]core.Money, len(s.Expenses))
	for _, e := range s.Expenses {
		day := core.DayKey(e.Date)
		byDay[day] = byDay[day].Add(e.Amount)
	}

	days := make([]DayTotal, 0, len(byDay))
	for day, total := range byDay {
		days = append(days, DayTotal{Day: day, Total: total})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Day < days[j].Day })

	n := int64(len(days))
	totalCents := s.TotalExpense.Cents

	ins := &Insights{
		// half-up rounding of totalCents / n
		AverageDailySpend: core.Money{Cents: (totalCents + n/2) / n},
		DailyTotals:       days,
		LowBalanceAlert:   lowBalance(s.Remaining, s.Salary),
	}

	var peakCents int64 = -1
	for _, d := range days {
		// Exact comparison against the mean: d.Total > total/n without
		// integer truncation.
		if d.Total.Cents*n > totalCents {
			ins.HighSpendingDays = append(ins.HighSpendingDays, d.Day)
		}
		// Days are sorted ascending, so ties keep the earliest date.
		if d.Total.Cents > peakCents {
			peakCents = d.Total.Cents
			ins.PeakDay = d.Day
			ins.PeakDayTotal = d.Total
		}
	}

	return ins
}

// lowBalance reports remaining < 0.10 * salary. The boundary is strict:
// remaining exactly at 10% of salary does not alert, and a zero salary with
// zero spending compares 0 < 0 and stays quiet. Scaling by ten keeps the
// comparison exact in integer cents.
func lowBalance(remaining, salary core.Money) bool {
	return remaining.Cents*10 < salary.Cents
}
