// Package insight derives actionable observations from a transaction
// snapshot: revenue trend, top spending category, low cash warning, and
// deductible-expense opportunity.
//
// Like the anomaly scans, every analysis is a total function of the input;
// sparse data produces fewer insights, never an error. Output order is
// priority descending, stable within a tier.
package insight

import (
	"fmt"
	"sort"
	"time"

	"golang-financial-insights-service/internal/history"
	"golang-financial-insights-service/internal/models"

	"github.com/shopspring/decimal"
)

// Type classifies an insight
type Type string

const (
	TypeTrend          Type = "trend"
	TypeRecommendation Type = "recommendation"
	TypeWarning        Type = "warning"
	TypeOpportunity    Type = "opportunity"
)

// Impact describes the financial direction of an insight
type Impact string

const (
	ImpactPositive Impact = "positive"
	ImpactNegative Impact = "negative"
	ImpactNeutral  Impact = "neutral"
)

// Priority is an ordinal ranking used only for sort order
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Rank maps a priority to its ordinal value for sorting
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Insight is one observation produced by an analysis.
type Insight struct {
	ID               string    `json:"id"`
	Type             Type      `json:"type"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Impact           Impact    `json:"impact"`
	Priority         Priority  `json:"priority"`
	Actionable       bool      `json:"actionable"`
	SuggestedActions []string  `json:"suggested_actions,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// Config holds the thresholds of the insight analyses.
type Config struct {
	// LowBalanceThreshold triggers the cash warning when the running
	// balance is strictly below it.
	LowBalanceThreshold decimal.Decimal `json:"low_balance_threshold"`

	// StableBandPercent is the absolute growth percentage below which the
	// revenue trend is considered stable and no insight is emitted.
	StableBandPercent decimal.Decimal `json:"stable_band_percent"`

	// DeductibleCategories are the expense categories counted toward the
	// tax-deduction opportunity.
	DeductibleCategories []string `json:"deductible_categories"`
}

// DefaultConfig returns the standard insight thresholds.
func DefaultConfig() *Config {
	return &Config{
		LowBalanceThreshold: decimal.NewFromInt(1000),
		StableBandPercent:   decimal.NewFromInt(5),
		DeductibleCategories: []string{
			"Office Supplies",
			"Professional Services",
			"Travel",
			"Equipment",
		},
	}
}

// Validate checks if the insight configuration is valid
func (c *Config) Validate() error {
	if c.StableBandPercent.IsNegative() {
		return fmt.Errorf("stable band percentage cannot be negative")
	}

	if len(c.DeductibleCategories) == 0 {
		return fmt.Errorf("deductible categories cannot be empty")
	}

	return nil
}

// Generator runs the insight analyses.
type Generator struct {
	config *Config
}

// NewGenerator creates an insight generator. A nil config selects defaults.
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

// Generate runs all four analyses and returns the merged insights, sorted
// by priority descending. The sort is stable, so records keep their
// generation order within a tier.
func (g *Generator) Generate(transactions []*models.Transaction, asOf time.Time) []Insight {
	var insights []Insight

	if in := g.revenueTrend(transactions, asOf); in != nil {
		insights = append(insights, *in)
	}
	if in := g.topSpendingCategory(transactions, asOf); in != nil {
		insights = append(insights, *in)
	}
	if in := g.lowBalanceWarning(transactions, asOf); in != nil {
		insights = append(insights, *in)
	}
	if in := g.deductibleOpportunity(transactions, asOf); in != nil {
		insights = append(insights, *in)
	}

	sort.SliceStable(insights, func(i, j int) bool {
		return insights[i].Priority.Rank() > insights[j].Priority.Rank()
	})

	return insights
}

// revenueTrend compares income over the last 30 days against the 30 days
// before that. A zero prior window or a move inside the stable band emits
// nothing.
func (g *Generator) revenueTrend(transactions []*models.Transaction, asOf time.Time) *Insight {
	recentStart := asOf.AddDate(0, 0, -history.WindowDays)
	priorStart := asOf.AddDate(0, 0, -2*history.WindowDays)

	recent := decimal.Zero
	prior := decimal.Zero

	for _, tx := range transactions {
		if !tx.IsIncome() {
			continue
		}

		switch {
		case history.InWindow(tx.Date, recentStart, asOf):
			recent = recent.Add(tx.Amount)
		case !tx.Date.Before(priorStart) && tx.Date.Before(recentStart):
			prior = prior.Add(tx.Amount)
		}
	}

	if prior.IsZero() {
		return nil
	}

	growth := recent.Sub(prior).Div(prior).Mul(decimal.NewFromInt(100))
	if growth.Abs().LessThan(g.config.StableBandPercent) {
		return nil
	}

	if growth.IsPositive() {
		return &Insight{
			ID:    fmt.Sprintf("%s-1", TypeTrend),
			Type:  TypeTrend,
			Title: "Revenue is growing",
			Description: fmt.Sprintf("Income over the last %d days is up %s%% versus the previous %d days (%s vs %s)",
				history.WindowDays, growth.Round(1).String(), history.WindowDays,
				formatAmount(recent), formatAmount(prior)),
			Impact:     ImpactPositive,
			Priority:   PriorityHigh,
			Actionable: false,
			CreatedAt:  asOf,
		}
	}

	return &Insight{
		ID:    fmt.Sprintf("%s-1", TypeTrend),
		Type:  TypeTrend,
		Title: "Revenue is declining",
		Description: fmt.Sprintf("Income over the last %d days is down %s%% versus the previous %d days (%s vs %s)",
			history.WindowDays, growth.Abs().Round(1).String(), history.WindowDays,
			formatAmount(recent), formatAmount(prior)),
		Impact:     ImpactNegative,
		Priority:   PriorityHigh,
		Actionable: true,
		SuggestedActions: []string{
			"Follow up on outstanding invoices",
			"Review pricing and recent client activity",
		},
		CreatedAt: asOf,
	}
}

// topSpendingCategory names the category with the largest all-time expense
// total. Ties resolve to the category seen first in the input.
func (g *Generator) topSpendingCategory(transactions []*models.Transaction, asOf time.Time) *Insight {
	totals := make(map[string]decimal.Decimal)
	var categoryOrder []string

	for _, tx := range transactions {
		if !tx.IsExpense() {
			continue
		}
		if _, seen := totals[tx.Category]; !seen {
			categoryOrder = append(categoryOrder, tx.Category)
		}
		totals[tx.Category] = totals[tx.Category].Add(tx.Amount)
	}

	topCategory := ""
	topTotal := decimal.Zero
	for _, category := range categoryOrder {
		if totals[category].GreaterThan(topTotal) {
			topCategory = category
			topTotal = totals[category]
		}
	}

	if !topTotal.IsPositive() {
		return nil
	}

	return &Insight{
		ID:    fmt.Sprintf("%s-1", TypeRecommendation),
		Type:  TypeRecommendation,
		Title: fmt.Sprintf("Top spending category: %s", topCategory),
		Description: fmt.Sprintf("%s is your largest expense category at %s total",
			topCategory, formatAmount(topTotal)),
		Impact:     ImpactNeutral,
		Priority:   PriorityMedium,
		Actionable: true,
		SuggestedActions: []string{
			fmt.Sprintf("Review %s spending for savings opportunities", topCategory),
			"Compare against budget if one is set",
		},
		CreatedAt: asOf,
	}
}

// lowBalanceWarning fires when the running balance over the whole ledger is
// strictly below the threshold.
func (g *Generator) lowBalanceWarning(transactions []*models.Transaction, asOf time.Time) *Insight {
	balance := models.Balance(transactions)
	if !balance.LessThan(g.config.LowBalanceThreshold) {
		return nil
	}

	return &Insight{
		ID:    fmt.Sprintf("%s-1", TypeWarning),
		Type:  TypeWarning,
		Title: "Low cash balance",
		Description: fmt.Sprintf("Current balance of %s is below the %s threshold",
			formatAmount(balance), formatAmount(g.config.LowBalanceThreshold)),
		Impact:     ImpactNegative,
		Priority:   PriorityHigh,
		Actionable: true,
		SuggestedActions: []string{
			"Accelerate collection of outstanding receivables",
			"Defer discretionary spending until the balance recovers",
		},
		CreatedAt: asOf,
	}
}

// deductibleOpportunity totals all-time expenses in the configured
// deductible categories.
func (g *Generator) deductibleOpportunity(transactions []*models.Transaction, asOf time.Time) *Insight {
	deductible := make(map[string]bool, len(g.config.DeductibleCategories))
	for _, category := range g.config.DeductibleCategories {
		deductible[category] = true
	}

	total := decimal.Zero
	for _, tx := range transactions {
		if tx.IsExpense() && deductible[tx.Category] {
			total = total.Add(tx.Amount)
		}
	}

	if !total.IsPositive() {
		return nil
	}

	return &Insight{
		ID:    fmt.Sprintf("%s-1", TypeOpportunity),
		Type:  TypeOpportunity,
		Title: "Potential tax deductions",
		Description: fmt.Sprintf("%s of expenses fall in commonly deductible categories",
			formatAmount(total)),
		Impact:     ImpactPositive,
		Priority:   PriorityMedium,
		Actionable: true,
		SuggestedActions: []string{
			"Keep receipts for these expenses",
			"Discuss eligibility with your accountant",
		},
		CreatedAt: asOf,
	}
}

func formatAmount(d decimal.Decimal) string {
	return "$" + d.Round(2).StringFixed(2)
}
