// Package config builds the engine configurations used by the advisor CLI,
// applying command-line overrides to the library defaults.
package config

import (
	"golang-financial-insights-service/internal/advisor"
	"golang-financial-insights-service/internal/parsers"
	"golang-financial-insights-service/internal/reporter"

	"github.com/shopspring/decimal"
)

// CreateTransactionParserConfig creates the default ledger parser configuration
func CreateTransactionParserConfig() *parsers.TransactionParserConfig {
	return parsers.DefaultTransactionParserConfig()
}

// CreateAnalysisConfig creates the analysis service configuration with CLI
// overrides applied. Non-positive thresholds keep the engine defaults.
func CreateAnalysisConfig(largeThreshold, lowBalanceThreshold float64) *advisor.Config {
	config := advisor.DefaultConfig()
	config.Parser = CreateTransactionParserConfig()

	if largeThreshold > 0 {
		config.Anomaly.LargeThreshold = decimal.NewFromFloat(largeThreshold)
	}

	if lowBalanceThreshold > 0 {
		config.Insight.LowBalanceThreshold = decimal.NewFromFloat(lowBalanceThreshold)
	}

	return config
}

// CreateSections builds the section selection from the skip flags.
func CreateSections(skipForecast, skipAnomalies, skipInsights bool) advisor.Sections {
	return advisor.Sections{
		Forecast:  !skipForecast,
		Anomalies: !skipAnomalies,
		Insights:  !skipInsights,
	}
}

// CreateReportConfig creates a report configuration for the specified output format
func CreateReportConfig(format string) *reporter.ReportConfig {
	config := reporter.DefaultReportConfig()

	switch format {
	case "console":
		config.Format = reporter.FormatConsole
	case "json":
		config.Format = reporter.FormatJSON
		config.IncludeStats = true
	case "csv":
		config.Format = reporter.FormatCSV
		config.CSVHeaders = true
		config.CSVDelimiter = ','
		config.IncludeStats = false // CSV is for row data
	}

	return config
}

// ValidateConfig validates that all engine configurations are consistent
func ValidateConfig(analysisConfig *advisor.Config, reportConfig *reporter.ReportConfig) error {
	if err := analysisConfig.Validate(); err != nil {
		return err
	}

	return reportConfig.Validate()
}
