package parsers

import (
	"fmt"
	"strings"
)

// TransactionParserConfig holds configuration for parsing ledger CSV files
type TransactionParserConfig struct {
	IDColumn          string            `json:"id_column"`
	TypeColumn        string            `json:"type_column"`
	AmountColumn      string            `json:"amount_column"`
	DateColumn        string            `json:"date_column"`
	CategoryColumn    string            `json:"category_column"`
	DescriptionColumn string            `json:"description_column"`
	HasHeader         bool              `json:"has_header"`
	Delimiter         rune              `json:"delimiter"`
	ColumnAliases     map[string]string `json:"column_aliases,omitempty"`
}

// Validate checks if the transaction parser configuration is valid
func (tpc *TransactionParserConfig) Validate() error {
	if strings.TrimSpace(tpc.IDColumn) == "" {
		return fmt.Errorf("transaction ID column cannot be empty")
	}

	if strings.TrimSpace(tpc.TypeColumn) == "" {
		return fmt.Errorf("type column cannot be empty")
	}

	if strings.TrimSpace(tpc.AmountColumn) == "" {
		return fmt.Errorf("amount column cannot be empty")
	}

	if strings.TrimSpace(tpc.DateColumn) == "" {
		return fmt.Errorf("date column cannot be empty")
	}

	if strings.TrimSpace(tpc.CategoryColumn) == "" {
		return fmt.Errorf("category column cannot be empty")
	}

	if strings.TrimSpace(tpc.DescriptionColumn) == "" {
		return fmt.Errorf("description column cannot be empty")
	}

	return nil
}

// GetColumnName returns the configured column name for a standard column
func (tpc *TransactionParserConfig) GetColumnName(standardName string) string {
	switch standardName {
	case "id":
		return tpc.IDColumn
	case "type":
		return tpc.TypeColumn
	case "amount":
		return tpc.AmountColumn
	case "date":
		return tpc.DateColumn
	case "category":
		return tpc.CategoryColumn
	case "description":
		return tpc.DescriptionColumn
	default:
		return standardName
	}
}

// standardColumns lists the logical columns every ledger row must provide,
// in resolution order.
var standardColumns = []string{"id", "type", "amount", "date", "category", "description"}

// ResolveColumns maps each standard column to the header actually present in
// the file: the configured column name when the file has it, otherwise the
// first header whose alias entry names that column. The second return value
// lists the configured names of columns no header satisfies.
func (tpc *TransactionParserConfig) ResolveColumns(headers []string) (map[string]string, []string) {
	resolved := make(map[string]string, len(standardColumns))
	var missing []string

	for _, name := range standardColumns {
		actual := tpc.resolveColumn(name, headers)
		if actual == "" {
			missing = append(missing, tpc.GetColumnName(name))
			continue
		}
		resolved[name] = actual
	}

	return resolved, missing
}

// resolveColumn finds the header for one standard column. The configured
// column name wins over aliases; alias matching walks the header slice so
// resolution order is deterministic.
func (tpc *TransactionParserConfig) resolveColumn(standardName string, headers []string) string {
	configured := strings.ToLower(tpc.GetColumnName(standardName))
	for _, header := range headers {
		if strings.ToLower(strings.TrimSpace(header)) == configured {
			return header
		}
	}

	for _, header := range headers {
		if tpc.ColumnAliases[strings.ToLower(strings.TrimSpace(header))] == standardName {
			return header
		}
	}

	return ""
}

// DefaultTransactionParserConfig returns a configuration with standard
// defaults and aliases for the column names commonly seen in ledger exports
func DefaultTransactionParserConfig() *TransactionParserConfig {
	return &TransactionParserConfig{
		IDColumn:          "id",
		TypeColumn:        "type",
		AmountColumn:      "amount",
		DateColumn:        "date",
		CategoryColumn:    "category",
		DescriptionColumn: "description",
		HasHeader:         true,
		Delimiter:         ',',
		ColumnAliases: map[string]string{
			// Common aliases for ledger export columns
			"tx_id":            "id",
			"txn_id":           "id",
			"transaction_id":   "id",
			"reference":        "id",
			"transaction_type": "type",
			"direction":        "type",
			"debit_credit":     "type",
			"amt":              "amount",
			"value":            "amount",
			"sum":              "amount",
			"transaction_date": "date",
			"posting_date":     "date",
			"datetime":         "date",
			"timestamp":        "date",
			"cat":              "category",
			"expense_category": "category",
			"memo":             "description",
			"note":             "description",
			"details":          "description",
			"narrative":        "description",
		},
	}
}
