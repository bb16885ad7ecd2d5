// Package reporter renders analysis results for people and programs.
//
// Supported output formats:
//   - Console: sectioned, human-readable tables for terminal display
//   - JSON: the full result structure for programmatic consumption
//   - CSV: flat typed rows for spreadsheet applications
package reporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"golang-financial-insights-service/internal/advisor"
	"golang-financial-insights-service/internal/anomaly"
	"golang-financial-insights-service/internal/forecast"
	"golang-financial-insights-service/internal/insight"
	"golang-financial-insights-service/pkg/errors"

	"github.com/shopspring/decimal"
)

// OutputFormat represents the supported report output formats
type OutputFormat string

const (
	FormatConsole OutputFormat = "console"
	FormatJSON    OutputFormat = "json"
	FormatCSV     OutputFormat = "csv"
)

// IsValid checks if the output format is supported
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatConsole, FormatJSON, FormatCSV:
		return true
	default:
		return false
	}
}

// ReportConfig controls what a generated report contains.
type ReportConfig struct {
	Format OutputFormat `json:"format"`

	IncludeForecast  bool `json:"include_forecast"`
	IncludeAnomalies bool `json:"include_anomalies"`
	IncludeInsights  bool `json:"include_insights"`
	IncludeStats     bool `json:"include_stats"`

	// MaxForecastRows truncates the console forecast table; zero means no
	// limit. JSON and CSV always carry the full forecast.
	MaxForecastRows int `json:"max_forecast_rows"`

	CSVHeaders   bool `json:"csv_headers"`
	CSVDelimiter rune `json:"csv_delimiter"`
}

// DefaultReportConfig returns a configuration with sensible defaults
func DefaultReportConfig() *ReportConfig {
	return &ReportConfig{
		Format:           FormatConsole,
		IncludeForecast:  true,
		IncludeAnomalies: true,
		IncludeInsights:  true,
		IncludeStats:     true,
		MaxForecastRows:  14,
		CSVHeaders:       true,
		CSVDelimiter:     ',',
	}
}

// Validate checks the report configuration
func (rc *ReportConfig) Validate() error {
	if !rc.Format.IsValid() {
		return fmt.Errorf("invalid output format: %s", rc.Format)
	}

	if rc.MaxForecastRows < 0 {
		return fmt.Errorf("max forecast rows cannot be negative")
	}

	return nil
}

// AnalysisReporter generates reports from analysis results.
type AnalysisReporter struct {
	config *ReportConfig
}

// NewAnalysisReporter creates a reporter. A nil config selects defaults.
func NewAnalysisReporter(config *ReportConfig) (*AnalysisReporter, error) {
	if config == nil {
		config = DefaultReportConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, errors.ConfigurationError(
			errors.CodeInvalidConfig,
			"report_config",
			config,
			err,
		).WithSuggestion("Check the report configuration values")
	}

	return &AnalysisReporter{config: config}, nil
}

// GenerateReport writes the result to w in the configured format.
func (r *AnalysisReporter) GenerateReport(result *advisor.Result, w io.Writer) error {
	if result == nil {
		return errors.ValidationError(
			errors.CodeMissingField,
			"result",
			nil,
			nil,
		).WithSuggestion("Provide a non-nil analysis result")
	}

	switch r.config.Format {
	case FormatConsole:
		return r.generateConsoleReport(result, w)
	case FormatJSON:
		return r.generateJSONReport(result, w)
	case FormatCSV:
		return r.generateCSVReport(result, w)
	default:
		return errors.ReportError(errors.CodeUnsupportedFormat, string(r.config.Format), nil)
	}
}

// Console report

func (r *AnalysisReporter) generateConsoleReport(result *advisor.Result, w io.Writer) error {
	var b strings.Builder

	b.WriteString("FINANCIAL ANALYSIS REPORT\n")
	b.WriteString(strings.Repeat("=", 60) + "\n")
	fmt.Fprintf(&b, "Generated: %s\n", result.GeneratedAt.Format("2006-01-02"))

	if r.config.IncludeStats && result.Stats != nil {
		fmt.Fprintf(&b, "Transactions analyzed: %d", result.Stats.TransactionsLoaded)
		if result.Stats.RowsSkipped > 0 {
			fmt.Fprintf(&b, " (%d rows skipped)", result.Stats.RowsSkipped)
		}
		b.WriteString("\n")
	}

	if r.config.IncludeForecast && result.Forecast != nil {
		r.writeForecastSection(&b, result.Forecast)
	}

	if r.config.IncludeAnomalies && result.Anomalies != nil {
		r.writeAnomalySection(&b, result.Anomalies)
	}

	if r.config.IncludeInsights && result.Insights != nil {
		r.writeInsightSection(&b, result.Insights)
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return errors.ReportError(errors.CodeWriteFailed, "console", err)
	}

	return nil
}

func (r *AnalysisReporter) writeForecastSection(b *strings.Builder, points []forecast.Point) {
	b.WriteString("\nCASH FLOW FORECAST\n")
	b.WriteString(strings.Repeat("-", 60) + "\n")

	if len(points) == 0 {
		b.WriteString("No forecast generated.\n")
		return
	}

	fmt.Fprintf(b, "%-12s %12s %12s %14s %-8s\n",
		"Date", "Income", "Expenses", "Balance", "Conf")

	shown := len(points)
	if r.config.MaxForecastRows > 0 && shown > r.config.MaxForecastRows {
		shown = r.config.MaxForecastRows
	}

	for _, p := range points[:shown] {
		fmt.Fprintf(b, "%-12s %12s %12s %14s %-8s\n",
			p.Date.Format("2006-01-02"),
			formatMoney(p.ProjectedIncome),
			formatMoney(p.ProjectedExpenses),
			formatMoney(p.ProjectedBalance),
			p.Confidence)
	}

	if shown < len(points) {
		fmt.Fprintf(b, "... %d more day(s); use --output-format json for the full horizon\n",
			len(points)-shown)
	}
}

func (r *AnalysisReporter) writeAnomalySection(b *strings.Builder, anomalies []anomaly.Anomaly) {
	b.WriteString("\nANOMALIES\n")
	b.WriteString(strings.Repeat("-", 60) + "\n")

	if len(anomalies) == 0 {
		b.WriteString("No anomalies detected.\n")
		return
	}

	for _, a := range anomalies {
		fmt.Fprintf(b, "[%s] %s\n", strings.ToUpper(string(a.Severity)), a.Title)
		fmt.Fprintf(b, "    %s\n", a.Description)
		fmt.Fprintf(b, "    Transactions involved: %d\n", len(a.Transactions))
		if a.SuggestedAction != "" {
			fmt.Fprintf(b, "    Suggested: %s\n", a.SuggestedAction)
		}
	}
}

func (r *AnalysisReporter) writeInsightSection(b *strings.Builder, insights []insight.Insight) {
	b.WriteString("\nINSIGHTS\n")
	b.WriteString(strings.Repeat("-", 60) + "\n")

	if len(insights) == 0 {
		b.WriteString("No insights generated.\n")
		return
	}

	for _, in := range insights {
		fmt.Fprintf(b, "[%s] %s\n", strings.ToUpper(string(in.Priority)), in.Title)
		fmt.Fprintf(b, "    %s\n", in.Description)
		for _, action := range in.SuggestedActions {
			fmt.Fprintf(b, "    - %s\n", action)
		}
	}
}

// JSON report

// jsonReport wraps the result with report metadata, filtered to the
// configured sections.
type jsonReport struct {
	GeneratedAt string                   `json:"generated_at"`
	Forecast    []forecast.Point         `json:"forecast,omitempty"`
	Anomalies   []anomaly.Anomaly        `json:"anomalies,omitempty"`
	Insights    []insight.Insight        `json:"insights,omitempty"`
	Stats       *advisor.ProcessingStats `json:"stats,omitempty"`
}

func (r *AnalysisReporter) generateJSONReport(result *advisor.Result, w io.Writer) error {
	report := jsonReport{
		GeneratedAt: result.GeneratedAt.Format(time.RFC3339),
	}

	if r.config.IncludeForecast {
		report.Forecast = result.Forecast
	}
	if r.config.IncludeAnomalies {
		report.Anomalies = result.Anomalies
	}
	if r.config.IncludeInsights {
		report.Insights = result.Insights
	}
	if r.config.IncludeStats {
		report.Stats = result.Stats
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return errors.ReportError(errors.CodeWriteFailed, "json", err)
	}

	return nil
}

// CSV report

func (r *AnalysisReporter) generateCSVReport(result *advisor.Result, w io.Writer) error {
	writer := csv.NewWriter(w)
	writer.Comma = r.config.CSVDelimiter

	if r.config.CSVHeaders {
		if err := writer.Write([]string{
			"section", "date", "type", "level", "income", "expenses", "balance", "title", "detail",
		}); err != nil {
			return errors.ReportError(errors.CodeWriteFailed, "csv", err)
		}
	}

	if r.config.IncludeForecast {
		for _, p := range result.Forecast {
			if err := writer.Write([]string{
				"forecast",
				p.Date.Format("2006-01-02"),
				"",
				string(p.Confidence),
				p.ProjectedIncome.StringFixed(2),
				p.ProjectedExpenses.StringFixed(2),
				p.ProjectedBalance.StringFixed(2),
				"",
				"",
			}); err != nil {
				return errors.ReportError(errors.CodeWriteFailed, "csv", err)
			}
		}
	}

	if r.config.IncludeAnomalies {
		for _, a := range result.Anomalies {
			if err := writer.Write([]string{
				"anomaly",
				a.DetectedAt.Format("2006-01-02"),
				string(a.Type),
				string(a.Severity),
				"", "", "",
				a.Title,
				a.Description,
			}); err != nil {
				return errors.ReportError(errors.CodeWriteFailed, "csv", err)
			}
		}
	}

	if r.config.IncludeInsights {
		for _, in := range result.Insights {
			if err := writer.Write([]string{
				"insight",
				in.CreatedAt.Format("2006-01-02"),
				string(in.Type),
				string(in.Priority),
				"", "", "",
				in.Title,
				in.Description,
			}); err != nil {
				return errors.ReportError(errors.CodeWriteFailed, "csv", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return errors.ReportError(errors.CodeWriteFailed, "csv", err)
	}

	return nil
}

func formatMoney(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
