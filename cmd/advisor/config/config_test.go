package config

import (
	"testing"

	"golang-financial-insights-service/internal/reporter"

	"github.com/shopspring/decimal"
)

func TestCreateAnalysisConfigDefaults(t *testing.T) {
	config := CreateAnalysisConfig(0, 0)

	if !config.Anomaly.LargeThreshold.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("Expected default large threshold 1000, got %s", config.Anomaly.LargeThreshold)
	}
	if !config.Insight.LowBalanceThreshold.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("Expected default low balance threshold 1000, got %s", config.Insight.LowBalanceThreshold)
	}
	if config.Parser == nil || config.Forecast == nil {
		t.Error("Expected all engine configs to be populated")
	}

	if err := config.Validate(); err != nil {
		t.Errorf("Expected default config to be valid: %v", err)
	}
}

func TestCreateAnalysisConfigOverrides(t *testing.T) {
	config := CreateAnalysisConfig(2500, 500)

	if !config.Anomaly.LargeThreshold.Equal(decimal.NewFromInt(2500)) {
		t.Errorf("Expected large threshold 2500, got %s", config.Anomaly.LargeThreshold)
	}
	if !config.Insight.LowBalanceThreshold.Equal(decimal.NewFromInt(500)) {
		t.Errorf("Expected low balance threshold 500, got %s", config.Insight.LowBalanceThreshold)
	}
}

func TestCreateSections(t *testing.T) {
	sections := CreateSections(false, false, false)
	if !sections.Forecast || !sections.Anomalies || !sections.Insights {
		t.Error("Expected all sections enabled by default")
	}

	sections = CreateSections(true, false, true)
	if sections.Forecast || !sections.Anomalies || sections.Insights {
		t.Errorf("Unexpected sections from skip flags: %+v", sections)
	}

	if !CreateSections(true, true, true).None() {
		t.Error("Expected no sections when everything is skipped")
	}
}

func TestCreateReportConfig(t *testing.T) {
	tests := []struct {
		format   string
		expected reporter.OutputFormat
	}{
		{"console", reporter.FormatConsole},
		{"json", reporter.FormatJSON},
		{"csv", reporter.FormatCSV},
	}

	for _, tt := range tests {
		config := CreateReportConfig(tt.format)
		if config.Format != tt.expected {
			t.Errorf("Format %s: expected %s, got %s", tt.format, tt.expected, config.Format)
		}
		if err := config.Validate(); err != nil {
			t.Errorf("Format %s: expected valid config: %v", tt.format, err)
		}
	}

	if CreateReportConfig("csv").IncludeStats {
		t.Error("Expected stats excluded from CSV reports")
	}
}

func TestValidateConfig(t *testing.T) {
	analysisConfig := CreateAnalysisConfig(0, 0)
	reportConfig := CreateReportConfig("json")

	if err := ValidateConfig(analysisConfig, reportConfig); err != nil {
		t.Errorf("Expected valid configs: %v", err)
	}

	reportConfig.Format = "xml"
	if err := ValidateConfig(analysisConfig, reportConfig); err == nil {
		t.Error("Expected error for invalid report format")
	}
}
