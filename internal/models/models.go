package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the direction of a transaction
type TransactionType string

const (
	// TransactionTypeIncome represents money coming into the business
	TransactionTypeIncome TransactionType = "income"
	// TransactionTypeExpense represents money leaving the business
	TransactionTypeExpense TransactionType = "expense"
)

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// IsValid checks if the transaction type is valid
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction represents a single ledger entry. The analysis engines treat
// transactions as immutable input; nothing in this module mutates them.
type Transaction struct {
	ID          string          `json:"id" csv:"id"`
	Type        TransactionType `json:"type" csv:"type"`
	Amount      decimal.Decimal `json:"amount" csv:"amount"`
	Date        time.Time       `json:"date" csv:"date"`
	Category    string          `json:"category" csv:"category"`
	Description string          `json:"description" csv:"description"`
}

// NewTransaction creates a new Transaction instance
func NewTransaction(id string, txType TransactionType, amount decimal.Decimal, date time.Time, category, description string) *Transaction {
	return &Transaction{
		ID:          id,
		Type:        txType,
		Amount:      amount,
		Date:        date,
		Category:    category,
		Description: description,
	}
}

// Validate performs basic validation on the Transaction
func (t *Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("transaction ID cannot be empty")
	}

	if !t.Type.IsValid() {
		return fmt.Errorf("invalid transaction type: %s", t.Type)
	}

	if t.Amount.IsNegative() {
		return fmt.Errorf("transaction amount cannot be negative")
	}

	if t.Date.IsZero() {
		return fmt.Errorf("transaction date cannot be zero")
	}

	return nil
}

// String returns a string representation of the Transaction
func (t *Transaction) String() string {
	return fmt.Sprintf("Transaction{ID: %s, Type: %s, Amount: %s, Date: %s, Category: %s}",
		t.ID, t.Type, t.Amount.String(), t.Date.Format("2006-01-02"), t.Category)
}

// SignedAmount returns the amount with its balance effect applied:
// positive for income, negative for expenses.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TransactionTypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// IsIncome returns true if the transaction is income
func (t *Transaction) IsIncome() bool {
	return t.Type == TransactionTypeIncome
}

// IsExpense returns true if the transaction is an expense
func (t *Transaction) IsExpense() bool {
	return t.Type == TransactionTypeExpense
}

// DateKey returns the calendar-day key used for grouping, ignoring
// time-of-day.
func (t *Transaction) DateKey() string {
	return t.Date.Format("2006-01-02")
}

// Equals compares two Transaction instances for equality
func (t *Transaction) Equals(other *Transaction) bool {
	if other == nil {
		return false
	}

	return t.ID == other.ID &&
		t.Type == other.Type &&
		t.Amount.Equal(other.Amount) &&
		t.DateKey() == other.DateKey() &&
		t.Category == other.Category &&
		t.Description == other.Description
}

// MarshalJSON implements custom JSON marshaling for Transaction
func (t *Transaction) MarshalJSON() ([]byte, error) {
	type Alias Transaction
	return json.Marshal(&struct {
		Amount string `json:"amount"`
		Date   string `json:"date"`
		*Alias
	}{
		Amount: t.Amount.String(),
		Date:   t.Date.Format("2006-01-02"),
		Alias:  (*Alias)(t),
	})
}

// UnmarshalJSON implements custom JSON unmarshaling for Transaction
func (t *Transaction) UnmarshalJSON(data []byte) error {
	type Alias Transaction
	aux := &struct {
		Amount string `json:"amount"`
		Date   string `json:"date"`
		*Alias
	}{
		Alias: (*Alias)(t),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error
	t.Amount, err = decimal.NewFromString(aux.Amount)
	if err != nil {
		return fmt.Errorf("invalid amount format: %w", err)
	}

	t.Date, err = ParseDateWithFormats(aux.Date)
	if err != nil {
		return fmt.Errorf("invalid date format: %w", err)
	}

	return nil
}

// Utility functions for type conversion and validation

// ParseDecimalFromString parses a decimal value from string with validation
func ParseDecimalFromString(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("amount string cannot be empty")
	}

	// Remove common currency symbols and thousand separators
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal format '%s': %w", s, err)
	}

	return d, nil
}

// ParseTransactionType parses and validates a transaction type from string
func ParseTransactionType(s string) (TransactionType, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	switch s {
	case "income", "in", "credit", "cr":
		return TransactionTypeIncome, nil
	case "expense", "out", "debit", "dr":
		return TransactionTypeExpense, nil
	default:
		return "", fmt.Errorf("invalid transaction type '%s': must be income or expense", s)
	}
}

// ParseDateWithFormats attempts to parse a date from string using multiple
// common formats
func ParseDateWithFormats(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("date string cannot be empty")
	}

	// Common date formats used in exported ledgers
	formats := []string{
		"2006-01-02",           // "2006-01-02"
		time.RFC3339,           // "2006-01-02T15:04:05Z07:00"
		"2006-01-02 15:04:05",  // "2006-01-02 15:04:05"
		"2006-01-02T15:04:05",  // "2006-01-02T15:04:05"
		"01/02/2006",           // "01/02/2006"
		"2006/01/02",           // "2006/01/02"
		"Jan 2, 2006",          // "Jan 2, 2006"
		"January 2, 2006",      // "January 2, 2006"
	}

	var lastErr error
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		} else {
			lastErr = err
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date '%s': %w", s, lastErr)
}

// TruncateToDay strips the time-of-day portion of a timestamp, keeping the
// location.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// CreateTransactionFromCSV creates a Transaction from CSV field values
func CreateTransactionFromCSV(id, typeStr, amountStr, dateStr, category, description string) (*Transaction, error) {
	txType, err := ParseTransactionType(typeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction type in CSV: %w", err)
	}

	amount, err := ParseDecimalFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("invalid amount in CSV: %w", err)
	}

	date, err := ParseDateWithFormats(dateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid date in CSV: %w", err)
	}

	transaction := NewTransaction(
		strings.TrimSpace(id),
		txType,
		amount,
		date,
		strings.TrimSpace(category),
		strings.TrimSpace(description),
	)

	if err := transaction.Validate(); err != nil {
		return nil, fmt.Errorf("invalid transaction data: %w", err)
	}

	return transaction, nil
}

// Balance returns the running balance across all provided transactions:
// income adds, expenses subtract.
func Balance(transactions []*Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range transactions {
		total = total.Add(tx.SignedAmount())
	}
	return total
}
