// Package parsererror defines the error values returned by the e-bill conversion pipeline.
package parsererror

import (
	"errors"
	"fmt"
)

var (
	// ErrNoHTMLPart is returned when a message carries no inline text/html part.
	ErrNoHTMLPart = errors.New("no text/html part found in message")

	// ErrNoTransactions is returned when no transaction row survives parsing and normalization.
	ErrNoTransactions = errors.New("no transactions found in statement")
)

// ParseError represents an error during parsing of a single field
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError represents a validation failure
type ValidationError struct {
	FilePath string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.FilePath, e.Reason)
}

// InvalidFormatError represents an input that is not a readable message container.
type InvalidFormatError struct {
	FilePath       string
	ExpectedFormat string
	Msg            string
	Err            error
}

func (e *InvalidFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s: %v",
			e.FilePath, e.Msg, e.ExpectedFormat, e.Err)
	}
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}

func (e *InvalidFormatError) Unwrap() error {
	return e.Err
}

// DataExtractionError represents a table row from which a field could not be extracted.
type DataExtractionError struct {
	Row            int
	FieldName      string
	RawDataSnippet string
	Reason         string
}

func (e *DataExtractionError) Error() string {
	if e.RawDataSnippet != "" {
		return fmt.Sprintf("data extraction failed in row %d for field '%s': %s. Raw data snippet: '%s'",
			e.Row, e.FieldName, e.Reason, e.RawDataSnippet)
	}
	return fmt.Sprintf("data extraction failed in row %d for field '%s': %s",
		e.Row, e.FieldName, e.Reason)
}
