// Package advisor orchestrates the full analysis run: load the transaction
// file through the parser collaborator, then fan the immutable snapshot out
// to the forecast, anomaly, and insight engines.
//
// The engines are pure functions of (transactions, asOf, config), so the
// fan-out needs no coordination beyond a WaitGroup: each goroutine writes a
// distinct result slot and nothing mutates the snapshot.
package advisor

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang-financial-insights-service/internal/anomaly"
	"golang-financial-insights-service/internal/forecast"
	"golang-financial-insights-service/internal/insight"
	"golang-financial-insights-service/internal/models"
	"golang-financial-insights-service/internal/parsers"
	"golang-financial-insights-service/pkg/errors"
	"golang-financial-insights-service/pkg/logger"
)

// Sections selects which analyses an AnalysisService run performs.
type Sections struct {
	Forecast  bool `json:"forecast"`
	Anomalies bool `json:"anomalies"`
	Insights  bool `json:"insights"`
}

// AllSections enables every analysis.
func AllSections() Sections {
	return Sections{Forecast: true, Anomalies: true, Insights: true}
}

// None reports whether every section is disabled.
func (s Sections) None() bool {
	return !s.Forecast && !s.Anomalies && !s.Insights
}

// Request describes one analysis run.
type Request struct {
	// InputFile is the ledger CSV supplied by the caller.
	InputFile string `json:"input_file"`

	// ForecastDays is the projection horizon. Ignored when the forecast
	// section is disabled.
	ForecastDays int `json:"forecast_days"`

	// AsOf is the reference time for all windowed statistics. Zero means
	// "now" and is resolved once at the start of the run.
	AsOf time.Time `json:"as_of"`

	Sections Sections `json:"sections"`
}

// Validate checks the request for obvious problems before any file I/O.
func (r *Request) Validate() error {
	if strings.TrimSpace(r.InputFile) == "" {
		return fmt.Errorf("input file is required")
	}

	if r.Sections.None() {
		return fmt.Errorf("at least one analysis section must be enabled")
	}

	if r.Sections.Forecast && r.ForecastDays <= 0 {
		return fmt.Errorf("forecast days must be positive, got %d", r.ForecastDays)
	}

	return nil
}

// ProcessingStats records timing and volume information for one run.
type ProcessingStats struct {
	TransactionsLoaded int           `json:"transactions_loaded"`
	RowsSkipped        int           `json:"rows_skipped"`
	ParseTime          time.Duration `json:"parse_time"`
	AnalysisTime       time.Duration `json:"analysis_time"`
	TotalTime          time.Duration `json:"total_time"`
}

// Result is the combined output of one analysis run.
type Result struct {
	Forecast    []forecast.Point  `json:"forecast,omitempty"`
	Anomalies   []anomaly.Anomaly `json:"anomalies,omitempty"`
	Insights    []insight.Insight `json:"insights,omitempty"`
	Stats       *ProcessingStats  `json:"stats"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// ProgressStep identifies a stage of the run for progress callbacks.
type ProgressStep string

const (
	StepParsing   ProgressStep = "parsing"
	StepAnalyzing ProgressStep = "analyzing"
	StepDone      ProgressStep = "done"
)

// ProgressCallback is invoked as the run moves between stages.
type ProgressCallback func(step ProgressStep, detail string)

// AnalysisService runs the three analyses over a parsed ledger.
type AnalysisService struct {
	parser            *parsers.TransactionParser
	forecastGenerator *forecast.Generator
	anomalyDetector   *anomaly.Detector
	insightGenerator  *insight.Generator
	logger            logger.Logger

	progressCallbacks []ProgressCallback
}

// Config bundles the engine configurations for an AnalysisService.
type Config struct {
	Parser   *parsers.TransactionParserConfig
	Forecast *forecast.Config
	Anomaly  *anomaly.Config
	Insight  *insight.Config
}

// DefaultConfig returns a service configuration with every engine at its
// defaults.
func DefaultConfig() *Config {
	return &Config{
		Parser:   parsers.DefaultTransactionParserConfig(),
		Forecast: forecast.DefaultConfig(),
		Anomaly:  anomaly.DefaultConfig(),
		Insight:  insight.DefaultConfig(),
	}
}

// Validate checks every engine configuration.
func (c *Config) Validate() error {
	if c.Parser != nil {
		if err := c.Parser.Validate(); err != nil {
			return fmt.Errorf("invalid parser config: %w", err)
		}
	}

	if c.Forecast != nil {
		if err := c.Forecast.Validate(); err != nil {
			return fmt.Errorf("invalid forecast config: %w", err)
		}
	}

	if c.Anomaly != nil {
		if err := c.Anomaly.Validate(); err != nil {
			return fmt.Errorf("invalid anomaly config: %w", err)
		}
	}

	if c.Insight != nil {
		if err := c.Insight.Validate(); err != nil {
			return fmt.Errorf("invalid insight config: %w", err)
		}
	}

	return nil
}

// NewAnalysisService creates a service from the given configuration. A nil
// config selects defaults throughout.
func NewAnalysisService(config *Config) (*AnalysisService, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, errors.ConfigurationError(
			errors.CodeInvalidConfig,
			"analysis_service",
			nil,
			err,
		).WithSuggestion("Check the engine configuration values")
	}

	parser, err := parsers.NewTransactionParser(config.Parser)
	if err != nil {
		return nil, err
	}

	log := logger.GetGlobalLogger().WithComponent("analysis_service")

	return &AnalysisService{
		parser:            parser,
		forecastGenerator: forecast.NewGenerator(config.Forecast),
		anomalyDetector:   anomaly.NewDetector(config.Anomaly),
		insightGenerator:  insight.NewGenerator(config.Insight),
		logger:            log,
	}, nil
}

// AddProgressCallback registers a progress callback for subsequent runs.
func (s *AnalysisService) AddProgressCallback(callback ProgressCallback) {
	s.progressCallbacks = append(s.progressCallbacks, callback)
}

func (s *AnalysisService) reportProgress(step ProgressStep, detail string) {
	for _, callback := range s.progressCallbacks {
		callback(step, detail)
	}
}

// Analyze loads the request's transaction file and runs the enabled
// analyses concurrently over the snapshot.
func (s *AnalysisService) Analyze(ctx context.Context, request *Request) (*Result, error) {
	if request == nil {
		return nil, errors.ValidationError(
			errors.CodeMissingField,
			"request",
			nil,
			nil,
		).WithSuggestion("Provide a valid analysis request")
	}

	if err := request.Validate(); err != nil {
		return nil, errors.ValidationError(
			errors.CodeInvalidData,
			"request",
			request.InputFile,
			err,
		).WithSuggestion("Check the analysis request parameters")
	}

	asOf := request.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}

	startTime := time.Now()

	s.logger.WithFields(logger.Fields{
		"input_file":    request.InputFile,
		"forecast_days": request.ForecastDays,
		"as_of":         asOf.Format("2006-01-02"),
	}).Info("Starting analysis run")

	s.reportProgress(StepParsing, request.InputFile)

	transactions, parseStats, err := s.parser.ParseTransactionsWithContext(ctx, request.InputFile)
	if err != nil {
		s.logger.WithError(err).WithField("input_file", request.InputFile).Error("Failed to load transactions")
		return nil, err
	}

	parseTime := time.Since(startTime)

	s.logger.WithFields(logger.Fields{
		"transactions": len(transactions),
		"parse_stats":  parseStats.String(),
	}).Info("Loaded transaction snapshot")

	s.reportProgress(StepAnalyzing, fmt.Sprintf("%d transactions", len(transactions)))

	analysisStart := time.Now()
	result := s.runAnalyses(transactions, request, asOf)
	analysisTime := time.Since(analysisStart)

	result.Stats = &ProcessingStats{
		TransactionsLoaded: len(transactions),
		RowsSkipped:        parseStats.ErrorCount,
		ParseTime:          parseTime,
		AnalysisTime:       analysisTime,
		TotalTime:          time.Since(startTime),
	}
	result.GeneratedAt = asOf

	s.reportProgress(StepDone, "")

	s.logger.WithFields(logger.Fields{
		"forecast_points": len(result.Forecast),
		"anomalies":       len(result.Anomalies),
		"insights":        len(result.Insights),
		"total_time":      result.Stats.TotalTime,
	}).Info("Analysis run completed")

	return result, nil
}

// runAnalyses fans the enabled engines out over the snapshot. Each goroutine
// writes its own result slot; the snapshot itself is never mutated.
func (s *AnalysisService) runAnalyses(transactions []*models.Transaction, request *Request, asOf time.Time) *Result {
	result := &Result{}

	var wg sync.WaitGroup

	if request.Sections.Forecast {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result.Forecast = s.forecastGenerator.Generate(transactions, request.ForecastDays, asOf)
		}()
	}

	if request.Sections.Anomalies {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result.Anomalies = s.anomalyDetector.Detect(transactions, asOf)
		}()
	}

	if request.Sections.Insights {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result.Insights = s.insightGenerator.Generate(transactions, asOf)
		}()
	}

	wg.Wait()
	return result
}

// AnalyzeTransactions runs the enabled analyses directly over an in-memory
// snapshot, bypassing the file collaborator. Useful for embedding the
// engines behind other transports.
func (s *AnalysisService) AnalyzeTransactions(transactions []*models.Transaction, request *Request, asOf time.Time) *Result {
	if asOf.IsZero() {
		asOf = time.Now()
	}

	result := s.runAnalyses(transactions, request, asOf)
	result.Stats = &ProcessingStats{
		TransactionsLoaded: len(transactions),
	}
	result.GeneratedAt = asOf
	return result
}
