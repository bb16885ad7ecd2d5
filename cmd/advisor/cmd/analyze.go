package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang-financial-insights-service/cmd/advisor/config"
	"golang-financial-insights-service/internal/advisor"
	"golang-financial-insights-service/internal/reporter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flags for the analyze command
var (
	inputFile    string
	forecastDays int
	asOfDate     string
	outputFormat string
	outputFile   string
	showProgress bool

	largeThreshold      float64
	lowBalanceThreshold float64

	skipForecast  bool
	skipAnomalies bool
	skipInsights  bool
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a transaction ledger",
	Long: `Analyze loads a transaction ledger (CSV format) and produces three
analyses over it:

- A daily cash flow forecast projected from historical weekday and
  day-of-month patterns
- Anomaly detection: duplicate charges, unusually large expenses,
  large transactions, and category spending spikes
- Insights: revenue trend, top spending category, low balance warning,
  and potential tax deductions

Examples:
  # Basic analysis with a 30-day forecast
  advisor analyze --input ledger.csv

  # Longer horizon, machine-readable output
  advisor analyze --input ledger.csv --forecast-days 90 \
    --output-format json --output-file report.json

  # Pin the reference date for reproducible output
  advisor analyze --input ledger.csv --as-of 2026-08-30

  # Only anomaly detection, with a custom large-transaction threshold
  advisor analyze --input ledger.csv --skip-forecast --skip-insights \
    --large-threshold 2500`,

	PreRunE: validateAnalyzeFlags,
	RunE:    runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Required flags
	analyzeCmd.Flags().StringVarP(&inputFile, "input", "s", "", "path to ledger CSV file (required)")

	// Analysis flags
	analyzeCmd.Flags().IntVar(&forecastDays, "forecast-days", 30, "number of days to forecast")
	analyzeCmd.Flags().StringVar(&asOfDate, "as-of", "", "reference date for the analysis (YYYY-MM-DD, default: today)")
	analyzeCmd.Flags().Float64Var(&largeThreshold, "large-threshold", 0, "flag transactions above this amount (0 uses the default)")
	analyzeCmd.Flags().Float64Var(&lowBalanceThreshold, "low-balance-threshold", 0, "warn when balance falls below this amount (0 uses the default)")

	// Section flags
	analyzeCmd.Flags().BoolVar(&skipForecast, "skip-forecast", false, "skip cash flow forecasting")
	analyzeCmd.Flags().BoolVar(&skipAnomalies, "skip-anomalies", false, "skip anomaly detection")
	analyzeCmd.Flags().BoolVar(&skipInsights, "skip-insights", false, "skip insight generation")

	// Output flags
	analyzeCmd.Flags().StringVarP(&outputFormat, "output-format", "f", "console", "output format: console, json, csv")
	analyzeCmd.Flags().StringVarP(&outputFile, "output-file", "o", "", "output file path (default: stdout)")

	// UI flags
	analyzeCmd.Flags().BoolVar(&showProgress, "progress", false, "show progress indicators")

	// Mark required flags
	analyzeCmd.MarkFlagRequired("input")

	// Bind flags to viper
	viper.BindPFlag("input", analyzeCmd.Flags().Lookup("input"))
	viper.BindPFlag("forecast-days", analyzeCmd.Flags().Lookup("forecast-days"))
	viper.BindPFlag("as-of", analyzeCmd.Flags().Lookup("as-of"))
	viper.BindPFlag("large-threshold", analyzeCmd.Flags().Lookup("large-threshold"))
	viper.BindPFlag("low-balance-threshold", analyzeCmd.Flags().Lookup("low-balance-threshold"))
	viper.BindPFlag("skip-forecast", analyzeCmd.Flags().Lookup("skip-forecast"))
	viper.BindPFlag("skip-anomalies", analyzeCmd.Flags().Lookup("skip-anomalies"))
	viper.BindPFlag("skip-insights", analyzeCmd.Flags().Lookup("skip-insights"))
	viper.BindPFlag("output-format", analyzeCmd.Flags().Lookup("output-format"))
	viper.BindPFlag("output-file", analyzeCmd.Flags().Lookup("output-file"))
	viper.BindPFlag("progress", analyzeCmd.Flags().Lookup("progress"))
}

func validateAnalyzeFlags(cmd *cobra.Command, args []string) error {
	// Get values from viper (allows override from config file)
	inputFile = viper.GetString("input")
	forecastDays = viper.GetInt("forecast-days")
	asOfDate = viper.GetString("as-of")
	largeThreshold = viper.GetFloat64("large-threshold")
	lowBalanceThreshold = viper.GetFloat64("low-balance-threshold")
	skipForecast = viper.GetBool("skip-forecast")
	skipAnomalies = viper.GetBool("skip-anomalies")
	skipInsights = viper.GetBool("skip-insights")
	outputFormat = viper.GetString("output-format")
	outputFile = viper.GetString("output-file")
	showProgress = viper.GetBool("progress")

	// Validate required flags
	if inputFile == "" {
		return fmt.Errorf("input file is required")
	}

	if err := validateFileExists(inputFile, "ledger file"); err != nil {
		return err
	}

	// Validate sections
	if skipForecast && skipAnomalies && skipInsights {
		return fmt.Errorf("at least one analysis must remain enabled")
	}

	// Validate forecast horizon
	if !skipForecast && forecastDays <= 0 {
		return fmt.Errorf("forecast days must be positive, got %d", forecastDays)
	}

	// Validate reference date
	if asOfDate != "" {
		if _, err := time.Parse("2006-01-02", asOfDate); err != nil {
			return fmt.Errorf("invalid as-of date format. Use YYYY-MM-DD: %w", err)
		}
	}

	// Validate thresholds
	if largeThreshold < 0 {
		return fmt.Errorf("large threshold cannot be negative")
	}
	if lowBalanceThreshold < 0 {
		return fmt.Errorf("low balance threshold cannot be negative")
	}

	// Validate output format
	validFormats := map[string]bool{"console": true, "json": true, "csv": true}
	if !validFormats[outputFormat] {
		return fmt.Errorf("invalid output format '%s'. Valid formats: console, json, csv", outputFormat)
	}

	// Validate output file directory exists if specified
	if outputFile != "" {
		dir := filepath.Dir(outputFile)
		if dir != "." {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				return fmt.Errorf("output directory does not exist: %s", dir)
			}
		}
	}

	return nil
}

func validateFileExists(filePath, description string) error {
	if filePath == "" {
		return fmt.Errorf("%s path cannot be empty", description)
	}

	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return fmt.Errorf("%s does not exist: %s", description, filePath)
	}
	if err != nil {
		return fmt.Errorf("error accessing %s: %w", description, err)
	}

	if info.IsDir() {
		return fmt.Errorf("%s is a directory, expected a file: %s", description, filePath)
	}

	// Check if file is readable
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("%s is not readable: %w", description, err)
	}
	file.Close()

	return nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	errorHandler := NewCLIErrorHandler()

	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "Starting analysis...\n")
		fmt.Fprintf(os.Stderr, "Input file: %s\n", inputFile)
		fmt.Fprintf(os.Stderr, "Output format: %s\n", outputFormat)
		if outputFile != "" {
			fmt.Fprintf(os.Stderr, "Output file: %s\n", outputFile)
		}
	}

	// Create configurations
	analysisConfig := config.CreateAnalysisConfig(largeThreshold, lowBalanceThreshold)
	reportConfig := config.CreateReportConfig(outputFormat)

	if err := config.ValidateConfig(analysisConfig, reportConfig); err != nil {
		os.Exit(errorHandler.HandleError(err))
	}

	// Create analysis service
	service, err := advisor.NewAnalysisService(analysisConfig)
	if err != nil {
		os.Exit(errorHandler.HandleError(err))
	}

	if showProgress {
		service.AddProgressCallback(func(step advisor.ProgressStep, detail string) {
			if detail != "" {
				fmt.Fprintf(os.Stderr, "[%s] %s\n", step, detail)
			} else {
				fmt.Fprintf(os.Stderr, "[%s]\n", step)
			}
		})
	}

	// Parse reference date
	var asOf time.Time
	if asOfDate != "" {
		asOf, _ = time.Parse("2006-01-02", asOfDate)
	}

	// Create analysis request
	request := &advisor.Request{
		InputFile:    inputFile,
		ForecastDays: forecastDays,
		AsOf:         asOf,
		Sections:     config.CreateSections(skipForecast, skipAnomalies, skipInsights),
	}

	// Perform analysis
	result, err := service.Analyze(ctx, request)
	if err != nil {
		os.Exit(errorHandler.HandleError(err))
	}

	// Generate report
	reportGenerator, err := reporter.NewAnalysisReporter(reportConfig)
	if err != nil {
		os.Exit(errorHandler.HandleError(err))
	}

	// Determine output destination
	var output *os.File
	if outputFile != "" {
		output, err = os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer output.Close()
	} else {
		output = os.Stdout
	}

	if err := reportGenerator.GenerateReport(result, output); err != nil {
		os.Exit(errorHandler.HandleError(err))
	}

	// Show completion message
	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "\nAnalysis completed successfully.\n")
		fmt.Fprintf(os.Stderr, "Processed %d transactions (%d rows skipped).\n",
			result.Stats.TransactionsLoaded, result.Stats.RowsSkipped)
		fmt.Fprintf(os.Stderr, "Generated %d forecast points, %d anomalies, %d insights.\n",
			len(result.Forecast), len(result.Anomalies), len(result.Insights))
		fmt.Fprintf(os.Stderr, "Processing time: %v\n", result.Stats.TotalTime)
	}

	return nil
}
