// Package parser provides the base parser functionality and common interfaces.
package parser

import (
	"fjacquet/ebill-csv/internal/common"
	"fjacquet/ebill-csv/internal/logging"
	"fjacquet/ebill-csv/internal/models"
)

// BaseParser provides the logger and report writer shared by parser
// implementations. Parsers embed it:
//
//	type MyParser struct {
//		parser.BaseParser
//		// parser-specific fields
//	}
type BaseParser struct {
	logger    logging.Logger
	delimiter rune
}

// NewBaseParser creates a new BaseParser instance with the provided logger.
// If logger is nil, a default logger will be used.
func NewBaseParser(logger logging.Logger) BaseParser {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}

	return BaseParser{
		logger:    logger,
		delimiter: common.DefaultDelimiter,
	}
}

// SetLogger implements the LoggerConfigurable interface.
func (b *BaseParser) SetLogger(logger logging.Logger) {
	if logger != nil {
		b.logger = logger
	}
}

// GetLogger returns the current logger instance.
func (b *BaseParser) GetLogger() logging.Logger {
	return b.logger
}

// SetDelimiter sets the field separator used by WriteToCSV.
func (b *BaseParser) SetDelimiter(delimiter rune) {
	if delimiter != 0 {
		b.delimiter = delimiter
	}
}

// GetDelimiter returns the field separator used by WriteToCSV.
func (b *BaseParser) GetDelimiter() rune {
	return b.delimiter
}

// WriteToCSV writes records with the common report writer and returns the
// number written. Nothing is written for an empty slice.
func (b *BaseParser) WriteToCSV(records []models.TransactionRecord, csvFile string) (int, error) {
	b.logger.Debug("Writing records to CSV using common writer",
		logging.F(logging.FieldOutputFile, csvFile),
		logging.F(logging.FieldCount, len(records)))

	return common.WriteRecordsToCSV(records, csvFile, b.delimiter, b.logger)
}
