// Package history reduces a transaction list into the trailing-window
// statistics the forecast engine projects from.
//
// Amounts are bucketed two ways: by weekday (0-6) and by day-of-month (1-31),
// separately for income and expenses. The window is the trailing 30 days
// ending at the supplied reference time, inclusive on both ends.
package history

import (
	"time"

	"golang-financial-insights-service/internal/models"

	"github.com/shopspring/decimal"
)

// WindowDays is the length of the trailing window used for all historical
// statistics.
const WindowDays = 30

// Stats holds the aggregated view of the trailing window.
type Stats struct {
	// DailyIncome and DailyExpenses map weekday (time.Weekday) to the
	// amounts recorded on that weekday within the window.
	DailyIncome   map[time.Weekday][]decimal.Decimal
	DailyExpenses map[time.Weekday][]decimal.Decimal

	// MonthlyIncome and MonthlyExpenses map day-of-month (1-31) to the
	// amounts recorded on that day within the window.
	MonthlyIncome   map[int][]decimal.Decimal
	MonthlyExpenses map[int][]decimal.Decimal

	// AvgDailyIncome and AvgDailyExpenses are the mean transaction amounts
	// over the window. Note: these are per-transaction means, not true
	// per-day rates; the forecast fallback divides them by the window
	// length, and that behavior is kept as-is pending product review.
	AvgDailyIncome   decimal.Decimal
	AvgDailyExpenses decimal.Decimal

	// TotalTransactions counts all transactions inside the window.
	TotalTransactions int
}

// NewStats returns an empty Stats with all buckets initialized.
func NewStats() *Stats {
	return &Stats{
		DailyIncome:      make(map[time.Weekday][]decimal.Decimal),
		DailyExpenses:    make(map[time.Weekday][]decimal.Decimal),
		MonthlyIncome:    make(map[int][]decimal.Decimal),
		MonthlyExpenses:  make(map[int][]decimal.Decimal),
		AvgDailyIncome:   decimal.Zero,
		AvgDailyExpenses: decimal.Zero,
	}
}

// Aggregate computes trailing-window statistics over the given transactions
// as of the supplied reference time. Empty input yields zeroed stats; the
// function never fails.
func Aggregate(transactions []*models.Transaction, asOf time.Time) *Stats {
	stats := NewStats()

	windowStart := asOf.AddDate(0, 0, -WindowDays)

	incomeTotal := decimal.Zero
	expenseTotal := decimal.Zero
	incomeCount := 0
	expenseCount := 0

	for _, tx := range transactions {
		if !InWindow(tx.Date, windowStart, asOf) {
			continue
		}

		stats.TotalTransactions++

		weekday := tx.Date.Weekday()
		dayOfMonth := tx.Date.Day()

		if tx.IsIncome() {
			stats.DailyIncome[weekday] = append(stats.DailyIncome[weekday], tx.Amount)
			stats.MonthlyIncome[dayOfMonth] = append(stats.MonthlyIncome[dayOfMonth], tx.Amount)
			incomeTotal = incomeTotal.Add(tx.Amount)
			incomeCount++
		} else {
			stats.DailyExpenses[weekday] = append(stats.DailyExpenses[weekday], tx.Amount)
			stats.MonthlyExpenses[dayOfMonth] = append(stats.MonthlyExpenses[dayOfMonth], tx.Amount)
			expenseTotal = expenseTotal.Add(tx.Amount)
			expenseCount++
		}
	}

	if incomeCount > 0 {
		stats.AvgDailyIncome = incomeTotal.Div(decimal.NewFromInt(int64(incomeCount)))
	}
	if expenseCount > 0 {
		stats.AvgDailyExpenses = expenseTotal.Div(decimal.NewFromInt(int64(expenseCount)))
	}

	return stats
}

// InWindow reports whether a date falls inside [start, end], inclusive on
// both ends.
func InWindow(date, start, end time.Time) bool {
	return !date.Before(start) && !date.After(end)
}

// Mean returns the arithmetic mean of the given amounts, or zero for an
// empty slice.
func Mean(amounts []decimal.Decimal) decimal.Decimal {
	if len(amounts) == 0 {
		return decimal.Zero
	}

	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}

	return total.Div(decimal.NewFromInt(int64(len(amounts))))
}
