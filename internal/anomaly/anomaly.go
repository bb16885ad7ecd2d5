// Package anomaly runs rule-based scans over a transaction snapshot and
// reports suspicious entries.
//
// Four independent scans are performed: duplicate detection, statistical
// expense outliers, large transactions, and category spend spikes. Each scan
// only emits a record when it actually found something; insufficient data
// simply produces fewer anomalies, never an error. Output order is severity
// descending, stable within a tier.
package anomaly

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"golang-financial-insights-service/internal/history"
	"golang-financial-insights-service/internal/models"

	"github.com/shopspring/decimal"
)

// Type identifies the scan that produced an anomaly
type Type string

const (
	TypeDuplicate        Type = "duplicate"
	TypeUnusualSpending  Type = "unusual_spending"
	TypeLargeTransaction Type = "large_transaction"
	TypeCategorySpike    Type = "category_spike"
)

// Severity is an ordinal ranking used only for sort order
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Rank maps a severity to its ordinal value for sorting
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Anomaly is one finding produced by a scan. The Transactions slice holds
// the implicated subset of the input; it is reproducible from the same input
// list.
type Anomaly struct {
	ID              string                `json:"id"`
	Type            Type                  `json:"type"`
	Severity        Severity              `json:"severity"`
	Title           string                `json:"title"`
	Description     string                `json:"description"`
	Transactions    []*models.Transaction `json:"transactions"`
	SuggestedAction string                `json:"suggested_action,omitempty"`
	DetectedAt      time.Time             `json:"detected_at"`
}

// Config holds the thresholds of the anomaly scans.
type Config struct {
	// LargeThreshold flags any transaction strictly above this amount.
	LargeThreshold decimal.Decimal `json:"large_threshold"`

	// MinExpenseSamples is the minimum number of expense transactions
	// required before the outlier scan activates.
	MinExpenseSamples int `json:"min_expense_samples"`

	// OutlierStdDevs is the number of population standard deviations above
	// the mean that marks an expense as unusual.
	OutlierStdDevs int `json:"outlier_std_devs"`

	// SpikeMultiplier flags a category whose trailing-window total exceeds
	// this multiple of the mean per-category total.
	SpikeMultiplier int `json:"spike_multiplier"`

	// MinSpikeCategories is the minimum number of distinct expense
	// categories in the window before the spike scan activates.
	MinSpikeCategories int `json:"min_spike_categories"`
}

// DefaultConfig returns the standard scan thresholds.
func DefaultConfig() *Config {
	return &Config{
		LargeThreshold:     decimal.NewFromInt(1000),
		MinExpenseSamples:  10,
		OutlierStdDevs:     2,
		SpikeMultiplier:    2,
		MinSpikeCategories: 3,
	}
}

// Validate checks if the anomaly configuration is valid
func (c *Config) Validate() error {
	if c.LargeThreshold.IsNegative() {
		return fmt.Errorf("large transaction threshold cannot be negative")
	}

	if c.MinExpenseSamples < 2 {
		return fmt.Errorf("minimum expense samples must be at least 2, got %d", c.MinExpenseSamples)
	}

	if c.OutlierStdDevs <= 0 {
		return fmt.Errorf("outlier standard deviations must be positive, got %d", c.OutlierStdDevs)
	}

	if c.SpikeMultiplier <= 0 {
		return fmt.Errorf("spike multiplier must be positive, got %d", c.SpikeMultiplier)
	}

	if c.MinSpikeCategories < 1 {
		return fmt.Errorf("minimum spike categories must be at least 1, got %d", c.MinSpikeCategories)
	}

	return nil
}

// Detector runs the anomaly scans.
type Detector struct {
	config *Config
}

// NewDetector creates an anomaly detector. A nil config selects defaults.
func NewDetector(config *Config) *Detector {
	if config == nil {
		config = DefaultConfig()
	}
	return &Detector{config: config}
}

// Config returns the detector's active configuration.
func (d *Detector) Config() *Config {
	return d.config
}

// Detect runs all four scans and returns the merged findings, sorted by
// severity descending. The sort is stable, so records keep their generation
// order within a tier. IDs are deterministic per type and generation order.
func (d *Detector) Detect(transactions []*models.Transaction, asOf time.Time) []Anomaly {
	var anomalies []Anomaly

	anomalies = append(anomalies, d.scanDuplicates(transactions, asOf)...)
	anomalies = append(anomalies, d.scanUnusualSpending(transactions, asOf)...)
	anomalies = append(anomalies, d.scanLargeTransactions(transactions, asOf)...)
	anomalies = append(anomalies, d.scanCategorySpikes(transactions, asOf)...)

	sort.SliceStable(anomalies, func(i, j int) bool {
		return anomalies[i].Severity.Rank() > anomalies[j].Severity.Rank()
	})

	return anomalies
}

// duplicateKey builds the composite grouping key for the duplicate scan.
func duplicateKey(tx *models.Transaction) string {
	return strings.Join([]string{tx.DateKey(), tx.Amount.String(), tx.Description}, "|")
}

// scanDuplicates groups transactions by (date, amount, description) and
// reports every group with two or more members.
func (d *Detector) scanDuplicates(transactions []*models.Transaction, asOf time.Time) []Anomaly {
	groups := make(map[string][]*models.Transaction)
	var keyOrder []string

	for _, tx := range transactions {
		key := duplicateKey(tx)
		if _, seen := groups[key]; !seen {
			keyOrder = append(keyOrder, key)
		}
		groups[key] = append(groups[key], tx)
	}

	var anomalies []Anomaly
	for _, key := range keyOrder {
		group := groups[key]
		if len(group) < 2 {
			continue
		}

		anomalies = append(anomalies, Anomaly{
			ID:       fmt.Sprintf("%s-%d", TypeDuplicate, len(anomalies)+1),
			Type:     TypeDuplicate,
			Severity: SeverityMedium,
			Title:    "Possible duplicate transactions",
			Description: fmt.Sprintf("%d transactions on %s for %s with the same description (%q)",
				len(group), group[0].DateKey(), formatAmount(group[0].Amount), group[0].Description),
			Transactions:    group,
			SuggestedAction: "Review these entries and remove any accidental duplicates",
			DetectedAt:      asOf,
		})
	}

	return anomalies
}

// scanUnusualSpending flags expenses strictly above mean + N population
// standard deviations. It needs a minimum sample size to say anything
// meaningful.
func (d *Detector) scanUnusualSpending(transactions []*models.Transaction, asOf time.Time) []Anomaly {
	var expenses []*models.Transaction
	for _, tx := range transactions {
		if tx.IsExpense() {
			expenses = append(expenses, tx)
		}
	}

	if len(expenses) < d.config.MinExpenseSamples {
		return nil
	}

	mean, stddev := expenseDistribution(expenses)
	threshold := mean.Add(stddev.Mul(decimal.NewFromInt(int64(d.config.OutlierStdDevs))))

	var unusual []*models.Transaction
	for _, tx := range expenses {
		if tx.Amount.GreaterThan(threshold) {
			unusual = append(unusual, tx)
		}
	}

	if len(unusual) == 0 {
		return nil
	}

	return []Anomaly{{
		ID:       fmt.Sprintf("%s-1", TypeUnusualSpending),
		Type:     TypeUnusualSpending,
		Severity: SeverityMedium,
		Title:    "Unusually large expenses detected",
		Description: fmt.Sprintf("%d expense(s) exceed %s (%d standard deviations above the average of %s)",
			len(unusual), formatAmount(threshold), d.config.OutlierStdDevs, formatAmount(mean)),
		Transactions:    unusual,
		SuggestedAction: "Verify these expenses are legitimate and categorized correctly",
		DetectedAt:      asOf,
	}}
}

// scanLargeTransactions flags any transaction, income or expense, strictly
// above the fixed threshold.
func (d *Detector) scanLargeTransactions(transactions []*models.Transaction, asOf time.Time) []Anomaly {
	var large []*models.Transaction
	for _, tx := range transactions {
		if tx.Amount.GreaterThan(d.config.LargeThreshold) {
			large = append(large, tx)
		}
	}

	if len(large) == 0 {
		return nil
	}

	return []Anomaly{{
		ID:       fmt.Sprintf("%s-1", TypeLargeTransaction),
		Type:     TypeLargeTransaction,
		Severity: SeverityLow,
		Title:    "Large transactions",
		Description: fmt.Sprintf("%d transaction(s) above %s",
			len(large), formatAmount(d.config.LargeThreshold)),
		Transactions:    large,
		SuggestedAction: "Confirm supporting documentation exists for these amounts",
		DetectedAt:      asOf,
	}}
}

// scanCategorySpikes compares trailing-window per-category expense totals
// against the cross-category mean. Each spiking category gets its own
// record.
func (d *Detector) scanCategorySpikes(transactions []*models.Transaction, asOf time.Time) []Anomaly {
	windowStart := asOf.AddDate(0, 0, -history.WindowDays)

	totals := make(map[string]decimal.Decimal)
	byCategory := make(map[string][]*models.Transaction)
	var categoryOrder []string

	for _, tx := range transactions {
		if !tx.IsExpense() || !history.InWindow(tx.Date, windowStart, asOf) {
			continue
		}

		if _, seen := totals[tx.Category]; !seen {
			categoryOrder = append(categoryOrder, tx.Category)
		}
		totals[tx.Category] = totals[tx.Category].Add(tx.Amount)
		byCategory[tx.Category] = append(byCategory[tx.Category], tx)
	}

	if len(totals) < d.config.MinSpikeCategories {
		return nil
	}

	sum := decimal.Zero
	for _, total := range totals {
		sum = sum.Add(total)
	}
	meanTotal := sum.Div(decimal.NewFromInt(int64(len(totals))))
	threshold := meanTotal.Mul(decimal.NewFromInt(int64(d.config.SpikeMultiplier)))

	var anomalies []Anomaly
	for _, category := range categoryOrder {
		total := totals[category]
		if !total.GreaterThan(threshold) {
			continue
		}

		anomalies = append(anomalies, Anomaly{
			ID:       fmt.Sprintf("%s-%d", TypeCategorySpike, len(anomalies)+1),
			Type:     TypeCategorySpike,
			Severity: SeverityMedium,
			Title:    fmt.Sprintf("Spending spike in %s", category),
			Description: fmt.Sprintf("%s spent on %s in the last %d days, versus a %s average across categories",
				formatAmount(total), category, history.WindowDays, formatAmount(meanTotal)),
			Transactions:    byCategory[category],
			SuggestedAction: fmt.Sprintf("Review recent %s purchases for one-off or misclassified spend", category),
			DetectedAt:      asOf,
		})
	}

	return anomalies
}

// expenseDistribution returns the mean and population standard deviation of
// the expense amounts. The square root runs through float64; decimal has no
// exact square root.
func expenseDistribution(expenses []*models.Transaction) (decimal.Decimal, decimal.Decimal) {
	n := decimal.NewFromInt(int64(len(expenses)))

	sum := decimal.Zero
	for _, tx := range expenses {
		sum = sum.Add(tx.Amount)
	}
	mean := sum.Div(n)

	varianceSum := decimal.Zero
	for _, tx := range expenses {
		diff := tx.Amount.Sub(mean)
		varianceSum = varianceSum.Add(diff.Mul(diff))
	}
	variance := varianceSum.Div(n)

	stddev := decimal.NewFromFloat(math.Sqrt(variance.InexactFloat64()))
	return mean, stddev
}

func formatAmount(d decimal.Decimal) string {
	return "$" + d.Round(2).StringFixed(2)
}
