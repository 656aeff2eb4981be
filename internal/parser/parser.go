package parser

import (
	"io"

	"fjacquet/ebill-csv/internal/logging"
	"fjacquet/ebill-csv/internal/models"
)

// Parser turns an input document into normalized transaction records.
type Parser interface {
	// Parse reads a message container from r and returns its records in
	// statement order. Implementations return the sentinel and typed errors of
	// the parsererror package for terminal failures.
	Parse(r io.Reader) ([]models.TransactionRecord, error)
}

// Validator checks whether a file can be handled by a parser.
type Validator interface {
	ValidateFormat(filePath string) (bool, error)
}

// CSVConverter converts an input file into a CSV report.
type CSVConverter interface {
	ConvertToCSV(inputFile, outputFile string) error
}

// LoggerConfigurable is implemented by components whose logger can be replaced.
type LoggerConfigurable interface {
	SetLogger(logger logging.Logger)
}

// BatchConverter converts every supported file of a directory.
type BatchConverter interface {
	BatchConvert(inputDir, outputDir string) (int, error)
}

// FullParser combines every parser capability used by the commands.
type FullParser interface {
	Parser
	Validator
	CSVConverter
	LoggerConfigurable
	BatchConverter
}
