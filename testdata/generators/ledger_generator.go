package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/shopspring/decimal"
)

// LedgerGenerator generates transaction ledger CSV files for testing
type LedgerGenerator struct {
	Count     int
	StartDate time.Time
	EndDate   time.Time
	MinAmount decimal.Decimal
	MaxAmount decimal.Decimal
	Seed      int64
}

// TransactionTemplate represents a ledger row
type TransactionTemplate struct {
	ID          string
	Type        string // income or expense
	Amount      decimal.Decimal
	Date        time.Time
	Category    string
	Description string
}

var incomeCategories = []string{"Sales", "Consulting", "Interest", "Refunds"}

var expenseCategories = []string{
	"Office Supplies", "Professional Services", "Travel", "Equipment",
	"Rent", "Utilities", "Marketing", "Meals",
}

func main() {
	var (
		output     = flag.String("output", "generated_ledger.csv", "Output CSV file path")
		count      = flag.Int("count", 500, "Number of transactions to generate")
		startDate  = flag.String("start-date", "2026-01-01", "Start date (YYYY-MM-DD)")
		endDate    = flag.String("end-date", "2026-08-30", "End date (YYYY-MM-DD)")
		minAmount  = flag.Float64("min-amount", 1.00, "Minimum transaction amount")
		maxAmount  = flag.Float64("max-amount", 5000.00, "Maximum transaction amount")
		seed       = flag.Int64("seed", 1, "Random seed for reproducible generation")
		scenario   = flag.String("scenario", "random", "Generation scenario: random, duplicates, spikes, declining-revenue")
		duplicates = flag.Int("duplicate-groups", 3, "Number of duplicate groups for the duplicates scenario")
	)
	flag.Parse()

	start, err := time.Parse("2006-01-02", *startDate)
	if err != nil {
		log.Fatalf("Invalid start date: %v", err)
	}

	end, err := time.Parse("2006-01-02", *endDate)
	if err != nil {
		log.Fatalf("Invalid end date: %v", err)
	}

	generator := &LedgerGenerator{
		Count:     *count,
		StartDate: start,
		EndDate:   end,
		MinAmount: decimal.NewFromFloat(*minAmount),
		MaxAmount: decimal.NewFromFloat(*maxAmount),
		Seed:      *seed,
	}

	var transactions []TransactionTemplate
	switch *scenario {
	case "duplicates":
		transactions = generator.GenerateWithDuplicates(*duplicates)
	case "spikes":
		transactions = generator.GenerateWithSpikes()
	case "declining-revenue":
		transactions = generator.GenerateDecliningRevenue()
	default:
		transactions = generator.GenerateRandom()
	}

	if err := generator.WriteToCSV(*output, transactions); err != nil {
		log.Fatalf("Failed to write CSV: %v", err)
	}

	fmt.Printf("Generated %d transactions in %s\n", len(transactions), *output)
	fmt.Printf("Date range: %s to %s\n", start.Format("2006-01-02"), end.Format("2006-01-02"))
	fmt.Printf("Seed used: %d\n", *seed)
}

// GenerateRandom creates transactions distributed evenly across the date range
func (lg *LedgerGenerator) GenerateRandom() []TransactionTemplate {
	rng := rand.New(rand.NewSource(lg.Seed))
	transactions := make([]TransactionTemplate, lg.Count)

	duration := lg.EndDate.Sub(lg.StartDate)

	for i := 0; i < lg.Count; i++ {
		randomDuration := time.Duration(rng.Int63n(int64(duration)))
		txDate := lg.StartDate.Add(randomDuration)

		amountRange := lg.MaxAmount.Sub(lg.MinAmount)
		amount := decimal.NewFromFloat(rng.Float64()).Mul(amountRange).Add(lg.MinAmount)

		// Roughly 35% income, 65% expense
		txType := "expense"
		category := expenseCategories[rng.Intn(len(expenseCategories))]
		if rng.Float64() < 0.35 {
			txType = "income"
			category = incomeCategories[rng.Intn(len(incomeCategories))]
		}

		transactions[i] = TransactionTemplate{
			ID:          fmt.Sprintf("TXG%06d", i+1),
			Type:        txType,
			Amount:      amount.Round(2),
			Date:        txDate,
			Category:    category,
			Description: fmt.Sprintf("%s payment %d", category, i+1),
		}
	}

	return transactions
}

// GenerateWithDuplicates seeds exact duplicate charges into a random ledger
func (lg *LedgerGenerator) GenerateWithDuplicates(groups int) []TransactionTemplate {
	transactions := lg.GenerateRandom()
	rng := rand.New(rand.NewSource(lg.Seed + 1))

	for g := 0; g < groups && len(transactions) > 0; g++ {
		source := transactions[rng.Intn(len(transactions))]
		duplicate := source
		duplicate.ID = fmt.Sprintf("DUP%06d", g+1)
		transactions = append(transactions, duplicate)
	}

	return transactions
}

// GenerateWithSpikes seeds a burst of spending into one category over the
// final week of the range
func (lg *LedgerGenerator) GenerateWithSpikes() []TransactionTemplate {
	transactions := lg.GenerateRandom()
	rng := rand.New(rand.NewSource(lg.Seed + 2))

	spikeCategory := expenseCategories[rng.Intn(len(expenseCategories))]
	for i := 0; i < 10; i++ {
		transactions = append(transactions, TransactionTemplate{
			ID:          fmt.Sprintf("SPK%06d", i+1),
			Type:        "expense",
			Amount:      lg.MaxAmount.Round(2),
			Date:        lg.EndDate.AddDate(0, 0, -rng.Intn(7)),
			Category:    spikeCategory,
			Description: fmt.Sprintf("%s rush order %d", spikeCategory, i+1),
		})
	}

	return transactions
}

// GenerateDecliningRevenue front-loads income so the trailing month shows a
// revenue decline
func (lg *LedgerGenerator) GenerateDecliningRevenue() []TransactionTemplate {
	transactions := lg.GenerateRandom()

	midpoint := lg.StartDate.Add(lg.EndDate.Sub(lg.StartDate) / 2)
	for i := range transactions {
		if transactions[i].Type == "income" && transactions[i].Date.After(midpoint) {
			transactions[i].Amount = transactions[i].Amount.Div(decimal.NewFromInt(4)).Round(2)
		}
	}

	return transactions
}

// WriteToCSV writes the transactions to a CSV file in ledger format
func (lg *LedgerGenerator) WriteToCSV(path string, transactions []TransactionTemplate) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"id", "type", "amount", "date", "category", "description"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, tx := range transactions {
		record := []string{
			tx.ID,
			tx.Type,
			tx.Amount.StringFixed(2),
			tx.Date.Format("2006-01-02"),
			tx.Category,
			tx.Description,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	return nil
}
