// Package common provides the report writer shared by every command.
package common

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"

	"fjacquet/ebill-csv/internal/fileutils"
	"fjacquet/ebill-csv/internal/logging"
	"fjacquet/ebill-csv/internal/models"

	"github.com/gocarina/gocsv"
)

// DefaultDelimiter separates fields when none is configured.
const DefaultDelimiter = ','

// UTF8BOM marks report files as UTF-8 for spreadsheet tools.
var UTF8BOM = []byte{0xEF, 0xBB, 0xBF}

// RenderRecordsCSV renders records with a header row taken from the struct
// tags of TransactionRecord. Fields are quoted only when needed.
func RenderRecordsCSV(records []models.TransactionRecord, delimiter rune) ([]byte, error) {
	if delimiter == 0 {
		delimiter = DefaultDelimiter
	}

	var buf bytes.Buffer
	csvWriter := csv.NewWriter(&buf)
	csvWriter.Comma = delimiter

	if err := gocsv.MarshalCSV(records, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return nil, fmt.Errorf("error writing CSV data: %w", err)
	}
	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return nil, fmt.Errorf("error flushing CSV data: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteRecordsToCSV persists records to csvFile as UTF-8 with a byte-order
// mark and returns how many records were written. An empty slice writes
// nothing and returns 0.
func WriteRecordsToCSV(records []models.TransactionRecord, csvFile string, delimiter rune, logger logging.Logger) (int, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}

	if len(records) == 0 {
		logger.Warn("No records to write, skipping CSV output",
			logging.F(logging.FieldOutputFile, csvFile),
			logging.F(logging.FieldCount, 0))
		return 0, nil
	}

	data, err := RenderRecordsCSV(records, delimiter)
	if err != nil {
		logger.WithError(err).Error("Failed to marshal records to CSV")
		return 0, err
	}

	content := make([]byte, 0, len(UTF8BOM)+len(data))
	content = append(content, UTF8BOM...)
	content = append(content, data...)

	if err := fileutils.WriteFile(csvFile, content, models.PermissionReportFile); err != nil {
		logger.WithError(err).Error("Failed to write CSV file")
		return 0, fmt.Errorf("error writing CSV file: %w", err)
	}

	logger.Info("Successfully wrote records to CSV file",
		logging.F(logging.FieldOutputFile, csvFile),
		logging.F(logging.FieldCount, len(records)),
		logging.F(logging.FieldDelimiter, string(delimiter)))

	return len(records), nil
}

// ReadCSVFile reads a report back into a slice of structs using gocsv.
// A leading byte-order mark is ignored.
func ReadCSVFile[TCSVRow any](filePath string, delimiter rune, logger logging.Logger) ([]TCSVRow, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if delimiter == 0 {
		delimiter = DefaultDelimiter
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		logger.WithError(err).Error("Failed to open CSV file")
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	data = bytes.TrimPrefix(data, UTF8BOM)

	csvReader := csv.NewReader(bytes.NewReader(data))
	csvReader.Comma = delimiter

	var rows []TCSVRow
	if err := gocsv.UnmarshalCSV(csvReader, &rows); err != nil {
		logger.WithError(err).Error("Failed to parse CSV file")
		return nil, fmt.Errorf("error parsing CSV file: %w", err)
	}

	logger.Debug("Successfully read CSV data",
		logging.F(logging.FieldFile, filePath),
		logging.F(logging.FieldCount, len(rows)))
	return rows, nil
}
