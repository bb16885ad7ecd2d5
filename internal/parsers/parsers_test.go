package parsers

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang-financial-insights-service/pkg/errors"

	"github.com/shopspring/decimal"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ledger.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp CSV: %v", err)
	}
	return path
}

func TestNewTransactionParser(t *testing.T) {
	parser, err := NewTransactionParser(nil)
	if err != nil {
		t.Fatalf("Expected parser with default config, got error: %v", err)
	}
	if parser == nil {
		t.Fatal("Expected parser to be created")
	}

	bad := &TransactionParserConfig{}
	if _, err := NewTransactionParser(bad); err == nil {
		t.Error("Expected error for empty config")
	}
}

func TestParseTransactionsValidFile(t *testing.T) {
	path := writeTempCSV(t, `id,type,amount,date,category,description
TX001,income,1500.00,2026-08-01,Sales,Invoice 42
TX002,expense,"$1,250.50",2026-08-02,Travel,Flight
TX003,expense,99.99,2026-08-03,Meals,Team lunch
`)

	parser, err := NewTransactionParser(nil)
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}

	transactions, stats, err := parser.ParseTransactions(path)
	if err != nil {
		t.Fatalf("Unexpected parse error: %v", err)
	}

	if len(transactions) != 3 {
		t.Fatalf("Expected 3 transactions, got %d", len(transactions))
	}
	if stats.RecordsValid != 3 || stats.ErrorCount != 0 {
		t.Errorf("Unexpected stats: %s", stats)
	}

	if transactions[0].ID != "TX001" {
		t.Errorf("Expected TX001 first, got %s", transactions[0].ID)
	}
	if !transactions[1].Amount.Equal(decimal.NewFromFloat(1250.50)) {
		t.Errorf("Expected amount 1250.50, got %s", transactions[1].Amount)
	}
}

func TestParseTransactionsSkipsMalformedRows(t *testing.T) {
	path := writeTempCSV(t, `id,type,amount,date,category,description
TX001,income,1500.00,2026-08-01,Sales,Good row
TX002,transfer,100.00,2026-08-02,Misc,Bad type
TX003,expense,not-a-number,2026-08-03,Meals,Bad amount
TX004,expense,50.00,someday,Meals,Bad date
TX005,expense,25.00,2026-08-05,Meals,Good row
`)

	parser, err := NewTransactionParser(nil)
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}

	transactions, stats, err := parser.ParseTransactions(path)
	if err != nil {
		t.Fatalf("Expected malformed rows to be skipped, not fatal: %v", err)
	}

	if len(transactions) != 2 {
		t.Fatalf("Expected 2 valid transactions, got %d", len(transactions))
	}
	if stats.ErrorCount != 3 {
		t.Errorf("Expected 3 recorded errors, got %d", stats.ErrorCount)
	}
	if !stats.HasErrors() {
		t.Error("Expected stats to report errors")
	}
	if summary := stats.ErrorSummary(2); !strings.Contains(summary, "and 1 more") {
		t.Errorf("Expected truncated error summary, got %q", summary)
	}
}

func TestParseTransactionsSkipsEmptyRows(t *testing.T) {
	path := writeTempCSV(t, `id,type,amount,date,category,description
TX001,income,100.00,2026-08-01,Sales,First

,,,,,
TX002,expense,50.00,2026-08-02,Meals,Second
`)

	parser, err := NewTransactionParser(nil)
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}

	transactions, stats, err := parser.ParseTransactions(path)
	if err != nil {
		t.Fatalf("Unexpected parse error: %v", err)
	}

	if len(transactions) != 2 {
		t.Errorf("Expected 2 transactions, got %d", len(transactions))
	}
	if stats.ErrorCount != 0 {
		t.Errorf("Empty rows should not count as errors, got %d", stats.ErrorCount)
	}
}

func TestParseTransactionsMissingColumn(t *testing.T) {
	path := writeTempCSV(t, `id,type,amount,date
TX001,income,100.00,2026-08-01
`)

	parser, err := NewTransactionParser(nil)
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}

	_, _, err = parser.ParseTransactions(path)
	if err == nil {
		t.Fatal("Expected error for missing required columns")
	}
	if !errors.IsCode(err, errors.CodeMissingColumn) {
		t.Errorf("Expected missing column code, got %v", err)
	}
}

func TestParseTransactionsEmptyFile(t *testing.T) {
	path := writeTempCSV(t, "")

	parser, err := NewTransactionParser(nil)
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}

	_, _, err = parser.ParseTransactions(path)
	if err == nil {
		t.Fatal("Expected error for empty file")
	}
}

func TestParseTransactionsFileNotFound(t *testing.T) {
	parser, err := NewTransactionParser(nil)
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}

	_, _, err = parser.ParseTransactions("/nonexistent/ledger.csv")
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
	if !errors.IsCode(err, errors.CodeFileNotFound) {
		t.Errorf("Expected file not found code, got %v", err)
	}
}

func TestParseTransactionsAliasHeadersDefaultConfig(t *testing.T) {
	path := writeTempCSV(t, `txn_id,direction,amt,posting_date,cat,memo
TX001,credit,100.00,2026-08-01,Sales,Aliased headers
`)

	parser, err := NewTransactionParser(nil)
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}

	transactions, _, err := parser.ParseTransactions(path)
	if err != nil {
		t.Fatalf("Expected built-in aliases to resolve the headers: %v", err)
	}

	if len(transactions) != 1 {
		t.Fatalf("Expected 1 transaction, got %d", len(transactions))
	}
	if transactions[0].ID != "TX001" || !transactions[0].IsIncome() {
		t.Errorf("Unexpected transaction: %s", transactions[0])
	}
	if transactions[0].Category != "Sales" || transactions[0].Description != "Aliased headers" {
		t.Errorf("Aliased columns mapped incorrectly: %s", transactions[0])
	}
}

func TestParseTransactionsCustomAlias(t *testing.T) {
	path := writeTempCSV(t, `id,type,betrag,date,category,description
TX001,expense,75.00,2026-08-01,Meals,Custom alias header
`)

	config := DefaultTransactionParserConfig()
	config.ColumnAliases["betrag"] = "amount"

	parser, err := NewTransactionParser(config)
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}

	transactions, _, err := parser.ParseTransactions(path)
	if err != nil {
		t.Fatalf("Unexpected parse error: %v", err)
	}

	if len(transactions) != 1 {
		t.Fatalf("Expected 1 transaction, got %d", len(transactions))
	}
	if !transactions[0].Amount.Equal(decimal.NewFromInt(75)) {
		t.Errorf("Expected amount 75, got %s", transactions[0].Amount)
	}
}

func TestParseTransactionsWithCancelledContext(t *testing.T) {
	path := writeTempCSV(t, `id,type,amount,date,category,description
TX001,income,100.00,2026-08-01,Sales,Row
`)

	parser, err := NewTransactionParser(nil)
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err = parser.ParseTransactionsWithContext(ctx, path)
	if err == nil {
		t.Fatal("Expected error for cancelled context")
	}
}

func TestGetColumnIndexCaseInsensitive(t *testing.T) {
	parseCtx := NewParseContext(context.Background())
	parseCtx.Headers = []string{"ID", "Type", "Amount"}
	parseCtx.HeaderMap = map[string]int{"ID": 0, "Type": 1, "Amount": 2}

	if idx := parseCtx.GetColumnIndex("id"); idx != 0 {
		t.Errorf("Expected case-insensitive match at index 0, got %d", idx)
	}
	if idx := parseCtx.GetColumnIndex("missing"); idx != -1 {
		t.Errorf("Expected -1 for missing column, got %d", idx)
	}
}

func TestResolveColumns(t *testing.T) {
	config := DefaultTransactionParserConfig()

	resolved, missing := config.ResolveColumns([]string{"txn_id", "direction", "amt", "posting_date", "cat", "memo"})
	if len(missing) != 0 {
		t.Fatalf("Expected all columns resolved via aliases, missing: %v", missing)
	}
	if resolved["id"] != "txn_id" || resolved["amount"] != "amt" || resolved["description"] != "memo" {
		t.Errorf("Unexpected alias resolution: %v", resolved)
	}

	// The configured column name wins over an alias for the same column.
	resolved, missing = config.ResolveColumns([]string{"reference", "id", "type", "amount", "date", "category", "description"})
	if len(missing) != 0 {
		t.Fatalf("Expected all columns resolved, missing: %v", missing)
	}
	if resolved["id"] != "id" {
		t.Errorf("Expected configured name to win over alias, got %s", resolved["id"])
	}

	_, missing = config.ResolveColumns([]string{"id", "type", "amount", "date"})
	if len(missing) != 2 {
		t.Errorf("Expected category and description missing, got %v", missing)
	}
}
