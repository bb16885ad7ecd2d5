package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestNewAndError(t *testing.T) {
	err := New(CategoryValidation, CodeInvalidAmount, "bad amount")

	if err.Category != CategoryValidation {
		t.Errorf("Expected validation category, got %s", err.Category)
	}
	if err.Code != CodeInvalidAmount {
		t.Errorf("Expected invalid amount code, got %s", err.Code)
	}
	if err.Error() != "bad amount" {
		t.Errorf("Unexpected error string: %q", err.Error())
	}

	err.WithSuggestion("use decimal values")
	if !strings.Contains(err.Error(), "suggestion: use decimal values") {
		t.Errorf("Expected suggestion in error string, got %q", err.Error())
	}
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("underlying failure")
	err := Wrap(cause, CategoryFile, CodeFileCorrupted, "file is broken")

	if err.Cause != cause {
		t.Error("Expected cause to be preserved")
	}
	if err.Unwrap() != cause {
		t.Error("Expected Unwrap to return the cause")
	}

	if Wrap(nil, CategoryFile, CodeFileCorrupted, "x") != nil {
		t.Error("Expected nil when wrapping nil")
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		category ErrorCategory
		expected int
	}{
		{CategoryFile, 2},
		{CategoryParse, 3},
		{CategoryValidation, 3},
		{CategoryConfiguration, 4},
		{CategoryAnalysis, 5},
		{CategoryInternal, 5},
		{CategoryReport, 6},
		{ErrorCategory("other"), 1},
	}

	for _, tt := range tests {
		err := New(tt.category, CodeUnexpectedError, "test")
		if code := err.GetExitCode(); code != tt.expected {
			t.Errorf("Category %s: expected exit code %d, got %d", tt.category, tt.expected, code)
		}
	}
}

func TestFileError(t *testing.T) {
	err := FileError(CodeFileNotFound, "/tmp/missing.csv", nil)

	if err.Category != CategoryFile {
		t.Errorf("Expected file category, got %s", err.Category)
	}
	if !strings.Contains(err.Message, "/tmp/missing.csv") {
		t.Errorf("Expected path in message, got %q", err.Message)
	}
	if err.Context["file_path"] != "/tmp/missing.csv" {
		t.Error("Expected file path in context")
	}
	if err.Suggestion == "" {
		t.Error("Expected a suggestion")
	}
}

func TestParseErrorContext(t *testing.T) {
	err := ParseError(CodeInvalidData, "ledger.csv", 12, "amount", "abc", nil)

	if err.Context["line"] != 12 {
		t.Errorf("Expected line 12 in context, got %v", err.Context["line"])
	}
	if err.Context["column"] != "amount" {
		t.Errorf("Expected column in context, got %v", err.Context["column"])
	}
}

func TestAsAdvisorError(t *testing.T) {
	advErr := ValidationError(CodeMissingField, "date", nil, nil)

	if converted, ok := AsAdvisorError(advErr); !ok || converted != advErr {
		t.Error("Expected conversion to succeed for AdvisorError")
	}

	if _, ok := AsAdvisorError(fmt.Errorf("plain error")); ok {
		t.Error("Expected conversion to fail for plain error")
	}

	if _, ok := AsAdvisorError(nil); ok {
		t.Error("Expected conversion to fail for nil")
	}
}

func TestIsCategoryAndIsCode(t *testing.T) {
	err := ConfigurationError(CodeInvalidConfig, "forecast", nil, nil)

	if !IsCategory(err, CategoryConfiguration) {
		t.Error("Expected configuration category match")
	}
	if IsCategory(err, CategoryFile) {
		t.Error("Unexpected file category match")
	}
	if !IsCode(err, CodeInvalidConfig) {
		t.Error("Expected invalid config code match")
	}
	if IsCode(fmt.Errorf("plain"), CodeInvalidConfig) {
		t.Error("Plain errors should never match a code")
	}
}

func TestFormatErrorList(t *testing.T) {
	errs := []error{
		fmt.Errorf("first"),
		fmt.Errorf("second"),
		fmt.Errorf("third"),
	}

	formatted := FormatErrorList(errs, 2)
	if !strings.Contains(formatted, "first") || !strings.Contains(formatted, "second") {
		t.Errorf("Expected first two errors in output, got %q", formatted)
	}
	if !strings.Contains(formatted, "and 1 more") {
		t.Errorf("Expected overflow notice, got %q", formatted)
	}

	if FormatErrorList(nil, 5) != "" {
		t.Error("Expected empty string for no errors")
	}
}
