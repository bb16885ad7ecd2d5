package history

import (
	"testing"
	"time"

	"golang-financial-insights-service/internal/models"

	"github.com/shopspring/decimal"
)

var asOf = time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

func createTransaction(id string, txType models.TransactionType, amount float64, date time.Time) *models.Transaction {
	return &models.Transaction{
		ID:       id,
		Type:     txType,
		Amount:   decimal.NewFromFloat(amount),
		Date:     date,
		Category: "General",
	}
}

func TestAggregateWindowBoundaries(t *testing.T) {
	windowStart := asOf.AddDate(0, 0, -WindowDays)

	transactions := []*models.Transaction{
		createTransaction("T1", models.TransactionTypeIncome, 100, windowStart),               // first included day
		createTransaction("T2", models.TransactionTypeIncome, 200, asOf),                      // last included day
		createTransaction("T3", models.TransactionTypeIncome, 300, windowStart.Add(-time.Second)), // just outside
		createTransaction("T4", models.TransactionTypeIncome, 400, asOf.Add(time.Second)),     // just outside
	}

	stats := Aggregate(transactions, asOf)

	if stats.TotalTransactions != 2 {
		t.Errorf("Expected 2 transactions in window, got %d", stats.TotalTransactions)
	}

	// Mean over the two included transactions
	if !stats.AvgDailyIncome.Equal(decimal.NewFromInt(150)) {
		t.Errorf("Expected average income 150, got %s", stats.AvgDailyIncome)
	}
}

func TestAggregateBucketing(t *testing.T) {
	// Two incomes a week apart share a weekday bucket
	first := asOf.AddDate(0, 0, -7)
	second := asOf.AddDate(0, 0, -14)

	transactions := []*models.Transaction{
		createTransaction("T1", models.TransactionTypeIncome, 100, first),
		createTransaction("T2", models.TransactionTypeIncome, 300, second),
		createTransaction("T3", models.TransactionTypeExpense, 50, first),
	}

	stats := Aggregate(transactions, asOf)

	weekday := first.Weekday()
	if len(stats.DailyIncome[weekday]) != 2 {
		t.Fatalf("Expected 2 income amounts in weekday bucket, got %d", len(stats.DailyIncome[weekday]))
	}
	if len(stats.DailyExpenses[weekday]) != 1 {
		t.Fatalf("Expected 1 expense amount in weekday bucket, got %d", len(stats.DailyExpenses[weekday]))
	}

	if len(stats.MonthlyIncome[first.Day()]) != 1 {
		t.Errorf("Expected 1 income amount in day-of-month bucket %d", first.Day())
	}
	if len(stats.MonthlyIncome[second.Day()]) != 1 {
		t.Errorf("Expected 1 income amount in day-of-month bucket %d", second.Day())
	}
}

func TestAggregateAveragesArePerTransaction(t *testing.T) {
	transactions := []*models.Transaction{
		createTransaction("T1", models.TransactionTypeExpense, 100, asOf.AddDate(0, 0, -1)),
		createTransaction("T2", models.TransactionTypeExpense, 200, asOf.AddDate(0, 0, -2)),
		createTransaction("T3", models.TransactionTypeExpense, 600, asOf.AddDate(0, 0, -3)),
	}

	stats := Aggregate(transactions, asOf)

	// (100 + 200 + 600) / 3 transactions, not divided by days
	if !stats.AvgDailyExpenses.Equal(decimal.NewFromInt(300)) {
		t.Errorf("Expected average expense 300, got %s", stats.AvgDailyExpenses)
	}
	if !stats.AvgDailyIncome.Equal(decimal.Zero) {
		t.Errorf("Expected zero average income, got %s", stats.AvgDailyIncome)
	}
}

func TestAggregateEmptyInput(t *testing.T) {
	stats := Aggregate(nil, asOf)

	if stats.TotalTransactions != 0 {
		t.Errorf("Expected 0 transactions, got %d", stats.TotalTransactions)
	}
	if !stats.AvgDailyIncome.Equal(decimal.Zero) || !stats.AvgDailyExpenses.Equal(decimal.Zero) {
		t.Error("Expected zero averages for empty input")
	}
	if len(stats.DailyIncome) != 0 || len(stats.MonthlyExpenses) != 0 {
		t.Error("Expected empty buckets for empty input")
	}
}

func TestInWindow(t *testing.T) {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		date     time.Time
		expected bool
	}{
		{start, true},
		{end, true},
		{start.Add(-time.Nanosecond), false},
		{end.Add(time.Nanosecond), false},
		{time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		if got := InWindow(tt.date, start, end); got != tt.expected {
			t.Errorf("InWindow(%s) = %v, expected %v", tt.date, got, tt.expected)
		}
	}
}

func TestMean(t *testing.T) {
	amounts := []decimal.Decimal{
		decimal.NewFromInt(10),
		decimal.NewFromInt(20),
		decimal.NewFromInt(60),
	}

	if !Mean(amounts).Equal(decimal.NewFromInt(30)) {
		t.Errorf("Expected mean 30, got %s", Mean(amounts))
	}

	if !Mean(nil).Equal(decimal.Zero) {
		t.Error("Expected zero mean for empty slice")
	}
}
