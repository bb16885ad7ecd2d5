// Package forecast projects a running cash balance forward from historical
// transaction statistics.
//
// Projection per day prefers the weekday average, falls back to the
// day-of-month average, and finally to the flat window average divided by
// the window length. The balance accumulates across the horizon; it is not
// reset per day.
package forecast

import (
	"fmt"
	"time"

	"golang-financial-insights-service/internal/history"
	"golang-financial-insights-service/internal/models"

	"github.com/shopspring/decimal"
)

// Confidence is a coarse, rule-based reliability label. It reflects data
// volume and horizon distance, not a statistical interval.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Point is one projected day of the forecast. All currency fields are
// rounded to 2 decimal places.
type Point struct {
	Date              time.Time       `json:"date"`
	ProjectedBalance  decimal.Decimal `json:"projected_balance"`
	ProjectedIncome   decimal.Decimal `json:"projected_income"`
	ProjectedExpenses decimal.Decimal `json:"projected_expenses"`
	Confidence        Confidence      `json:"confidence"`
}

// Config holds the tunable thresholds of the forecast engine.
type Config struct {
	// HighVolumeCount and MediumVolumeCount are the window transaction
	// counts required (strict >) for high and medium confidence.
	HighVolumeCount   int `json:"high_volume_count"`
	MediumVolumeCount int `json:"medium_volume_count"`

	// HighHorizonDays and MediumHorizonDays bound (strict <) the day
	// offsets eligible for high and medium confidence.
	HighHorizonDays   int `json:"high_horizon_days"`
	MediumHorizonDays int `json:"medium_horizon_days"`
}

// DefaultConfig returns the standard confidence ladder.
func DefaultConfig() *Config {
	return &Config{
		HighVolumeCount:   50,
		MediumVolumeCount: 20,
		HighHorizonDays:   30,
		MediumHorizonDays: 60,
	}
}

// Validate checks if the forecast configuration is valid
func (c *Config) Validate() error {
	if c.HighVolumeCount < c.MediumVolumeCount {
		return fmt.Errorf("high volume count (%d) cannot be below medium volume count (%d)",
			c.HighVolumeCount, c.MediumVolumeCount)
	}

	if c.HighHorizonDays > c.MediumHorizonDays {
		return fmt.Errorf("high horizon (%d) cannot exceed medium horizon (%d)",
			c.HighHorizonDays, c.MediumHorizonDays)
	}

	if c.MediumVolumeCount < 0 || c.HighHorizonDays < 0 {
		return fmt.Errorf("confidence thresholds cannot be negative")
	}

	return nil
}

// Generator produces cash-flow forecasts from a transaction snapshot.
type Generator struct {
	config *Config
}

// NewGenerator creates a forecast generator. A nil config selects defaults.
func NewGenerator(config *Config) *Generator {
	if config == nil {
		config = DefaultConfig()
	}
	return &Generator{config: config}
}

// Config returns the generator's active configuration.
func (g *Generator) Config() *Config {
	return g.config
}

// Generate projects the balance forward days points, starting at asOf
// (offset 0) and stepping one calendar day per point. The function is total:
// sparse or empty input degrades to near-zero projections with low
// confidence.
func (g *Generator) Generate(transactions []*models.Transaction, days int, asOf time.Time) []Point {
	if days <= 0 {
		return []Point{}
	}

	// Starting balance covers the entire ledger, not just the stats window.
	balance := models.Balance(transactions)
	stats := history.Aggregate(transactions, asOf)

	windowLen := decimal.NewFromInt(history.WindowDays)
	today := models.TruncateToDay(asOf)

	points := make([]Point, 0, days)
	for i := 0; i < days; i++ {
		date := today.AddDate(0, 0, i)

		income := projectDay(stats.DailyIncome[date.Weekday()],
			stats.MonthlyIncome[date.Day()],
			stats.AvgDailyIncome, windowLen)
		expenses := projectDay(stats.DailyExpenses[date.Weekday()],
			stats.MonthlyExpenses[date.Day()],
			stats.AvgDailyExpenses, windowLen)

		// The running balance stays unrounded; rounding happens only at
		// the point boundary.
		balance = balance.Add(income).Sub(expenses)

		points = append(points, Point{
			Date:              date,
			ProjectedBalance:  balance.Round(2),
			ProjectedIncome:   income.Round(2),
			ProjectedExpenses: expenses.Round(2),
			Confidence:        g.confidence(stats.TotalTransactions, i),
		})
	}

	return points
}

// projectDay applies the fallback chain: weekday bucket, then day-of-month
// bucket, then the flat window average over the window length.
func projectDay(weekdayAmounts, monthDayAmounts []decimal.Decimal, flatAvg, windowLen decimal.Decimal) decimal.Decimal {
	if len(weekdayAmounts) > 0 {
		return history.Mean(weekdayAmounts)
	}
	if len(monthDayAmounts) > 0 {
		return history.Mean(monthDayAmounts)
	}
	return flatAvg.Div(windowLen)
}

// confidence grades a point by window volume and horizon distance.
func (g *Generator) confidence(totalTransactions, dayOffset int) Confidence {
	if totalTransactions > g.config.HighVolumeCount && dayOffset < g.config.HighHorizonDays {
		return ConfidenceHigh
	}
	if totalTransactions > g.config.MediumVolumeCount && dayOffset < g.config.MediumHorizonDays {
		return ConfidenceMedium
	}
	return ConfidenceLow
}
