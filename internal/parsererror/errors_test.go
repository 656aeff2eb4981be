package parsererror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseError(t *testing.T) {
	err := &ParseError{
		Parser: "ebill",
		Field:  "date",
		Value:  "11x6",
		Err:    errors.New("not a month-day token"),
	}

	assert.Equal(t, "ebill: failed to parse date='11x6': not a month-day token", err.Error())
	assert.True(t, errors.Is(err, err.Err))
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{FilePath: "/tmp/bill.eml", Reason: "no text/html part"}
	assert.Equal(t, "validation failed for /tmp/bill.eml: no text/html part", err.Error())
}

func TestInvalidFormatError(t *testing.T) {
	tests := []struct {
		name     string
		err      *InvalidFormatError
		expected string
	}{
		{
			name: "with cause",
			err: &InvalidFormatError{
				FilePath:       "bill.eml",
				ExpectedFormat: "RFC 5322 message",
				Msg:            "cannot read header",
				Err:            errors.New("malformed MIME header line"),
			},
			expected: "invalid format in file 'bill.eml': cannot read header. Expected: RFC 5322 message: malformed MIME header line",
		},
		{
			name: "without cause",
			err: &InvalidFormatError{
				FilePath:       "bill.mbox",
				ExpectedFormat: "mbox",
				Msg:            "empty mailbox",
			},
			expected: "invalid format in file 'bill.mbox': empty mailbox. Expected: mbox",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestInvalidFormatError_As(t *testing.T) {
	cause := errors.New("boom")
	wrapped := fmt.Errorf("extract: %w", &InvalidFormatError{FilePath: "x", Err: cause})

	var target *InvalidFormatError
	assert.True(t, errors.As(wrapped, &target))
	assert.Equal(t, "x", target.FilePath)
	assert.True(t, errors.Is(wrapped, cause))
}

func TestDataExtractionError(t *testing.T) {
	withSnippet := &DataExtractionError{Row: 4, FieldName: "amount", RawDataSnippet: "<td>", Reason: "cell missing"}
	assert.Equal(t, "data extraction failed in row 4 for field 'amount': cell missing. Raw data snippet: '<td>'", withSnippet.Error())

	plain := &DataExtractionError{Row: 1, FieldName: "description", Reason: "cell missing"}
	assert.Equal(t, "data extraction failed in row 1 for field 'description': cell missing", plain.Error())
}

func TestSentinels(t *testing.T) {
	assert.True(t, errors.Is(fmt.Errorf("bill.eml: %w", ErrNoHTMLPart), ErrNoHTMLPart))
	assert.False(t, errors.Is(ErrNoHTMLPart, ErrNoTransactions))
}
