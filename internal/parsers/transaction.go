package parsers

import (
	"context"
	"fmt"
	"io"
	"strings"

	"golang-financial-insights-service/internal/models"
	"golang-financial-insights-service/pkg/errors"
	"golang-financial-insights-service/pkg/logger"
)

// TransactionParser handles parsing of ledger CSV files
type TransactionParser struct {
	*BaseParser
	config *TransactionParserConfig
	logger logger.Logger
}

// NewTransactionParser creates a new TransactionParser with the given
// configuration
func NewTransactionParser(config *TransactionParserConfig) (*TransactionParser, error) {
	if config == nil {
		config = DefaultTransactionParserConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, errors.ConfigurationError(
			errors.CodeInvalidConfig,
			"transaction_parser_config",
			config,
			err,
		).WithSuggestion("Check the transaction parser configuration values")
	}

	parseConfig := &ParseConfig{
		HasHeader:        config.HasHeader,
		Delimiter:        config.Delimiter,
		Comment:          0,
		TrimLeadingSpace: true,
		SkipEmptyRows:    true,
		ValidateEncoding: true,
	}

	log := logger.GetGlobalLogger().WithComponent("transaction_parser")
	log.WithFields(logger.Fields{
		"has_header": config.HasHeader,
		"delimiter":  string(config.Delimiter),
	}).Debug("Created transaction parser")

	return &TransactionParser{
		BaseParser: NewBaseParser(parseConfig),
		config:     config,
		logger:     log,
	}, nil
}

// ParseTransactions parses a CSV file containing ledger transactions
func (tp *TransactionParser) ParseTransactions(filePath string) ([]*models.Transaction, *ParseStats, error) {
	return tp.ParseTransactionsWithContext(context.Background(), filePath)
}

// ParseTransactionsWithContext parses transactions with cancellation support.
// Malformed rows are skipped and recorded in the returned ParseStats; only
// structural failures (missing file, missing headers) abort the parse.
func (tp *TransactionParser) ParseTransactionsWithContext(ctx context.Context, filePath string) ([]*models.Transaction, *ParseStats, error) {
	tp.logger.WithFields(logger.Fields{
		"file_path": filePath,
		"operation": "parse_transactions",
	}).Info("Starting transaction parsing")

	file, reader, err := tp.OpenFile(filePath)
	if err != nil {
		return nil, nil, err // Already wrapped by OpenFile
	}
	defer file.Close()

	parseCtx := NewParseContext(ctx)
	stats := NewParseStats()
	progress := logger.NewProgressTracker(logger.ProgressConfig{
		Operation: "parse_transactions",
		Logger:    tp.logger,
	})

	// Headerless files use the configured column names positionally; alias
	// resolution below is then a no-op.
	var positionalHeaders []string
	if !tp.config.HasHeader {
		positionalHeaders = tp.getRequiredHeaders()
	}

	if err := tp.ReadHeaders(reader, parseCtx, positionalHeaders); err != nil {
		tp.logger.WithError(err).WithField("file_path", filePath).Error("Failed to read headers")
		return nil, stats, err
	}

	columns, missing := tp.config.ResolveColumns(parseCtx.Headers)
	if len(missing) > 0 {
		tp.logger.WithFields(logger.Fields{
			"file_path":         filePath,
			"missing_columns":   missing,
			"available_headers": parseCtx.Headers,
		}).Error("Required columns are missing")

		return nil, stats, errors.ParseError(
			errors.CodeMissingColumn,
			filePath,
			parseCtx.LineNumber,
			strings.Join(missing, ", "),
			"",
			nil,
		).WithSuggestion(fmt.Sprintf("Ensure the CSV file contains these columns (or a known alias): %s", strings.Join(missing, ", ")))
	}

	var transactions []*models.Transaction

	for {
		if parseCtx.IsCancelled() {
			tp.logger.Warn("Transaction parsing was cancelled")
			return transactions, stats, errors.InternalError(
				errors.CodeUnexpectedError,
				"transaction_parsing",
				fmt.Errorf("parsing cancelled by context"),
			)
		}

		record, err := tp.ReadRecord(reader, parseCtx)
		if err != nil {
			if err == io.EOF {
				break
			}

			tp.logger.WithError(err).WithField("line_number", parseCtx.LineNumber).Warn("Failed to read record")

			stats.AddError(&ParseError{
				Line:    parseCtx.LineNumber,
				Message: "unreadable record",
				Err:     err,
			})
			continue
		}

		stats.RecordsParsed++
		progress.Increment()

		transaction, parseErr := tp.parseTransactionFromRecord(record, parseCtx, columns)
		if parseErr != nil {
			tp.logger.WithError(parseErr).WithField("line_number", parseCtx.LineNumber).Warn("Skipping invalid transaction row")
			stats.AddError(parseErr)
			continue
		}

		stats.RecordsValid++
		transactions = append(transactions, transaction)
	}

	progress.Complete()

	if stats.HasErrors() {
		tp.logger.WithFields(logger.Fields{
			"file_path": filePath,
			"errors":    stats.ErrorSummary(5),
		}).Warn("Some rows were skipped during parsing")
	}

	tp.logger.WithFields(logger.Fields{
		"file_path":    filePath,
		"transactions": len(transactions),
		"errors":       stats.ErrorCount,
	}).Info("Completed transaction parsing")

	return transactions, stats, nil
}

// getRequiredHeaders returns the configured column names that must appear in
// the header row
func (tp *TransactionParser) getRequiredHeaders() []string {
	return []string{
		tp.config.IDColumn,
		tp.config.TypeColumn,
		tp.config.AmountColumn,
		tp.config.DateColumn,
		tp.config.CategoryColumn,
		tp.config.DescriptionColumn,
	}
}

// parseTransactionFromRecord builds a Transaction from one CSV record using
// the resolved standard-to-actual column mapping
func (tp *TransactionParser) parseTransactionFromRecord(record []string, parseCtx *ParseContext, columns map[string]string) (*models.Transaction, *ParseError) {
	fields := make(map[string]string, len(standardColumns))
	for _, name := range standardColumns {
		value, err := tp.GetFieldValue(record, parseCtx, columns[name])
		if err != nil {
			return nil, &ParseError{
				Line:    parseCtx.LineNumber,
				Field:   name,
				Message: "missing field",
				Err:     err,
			}
		}
		fields[name] = value
	}

	transaction, err := models.CreateTransactionFromCSV(
		fields["id"],
		fields["type"],
		fields["amount"],
		fields["date"],
		fields["category"],
		fields["description"],
	)
	if err != nil {
		return nil, &ParseError{
			Line:    parseCtx.LineNumber,
			Field:   "record",
			Value:   fields["id"],
			Message: "invalid transaction",
			Err:     err,
		}
	}

	return transaction, nil
}
