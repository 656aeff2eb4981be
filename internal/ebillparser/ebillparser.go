// Package ebillparser converts credit-card e-bills received as HTML e-mail
// into normalized transaction records and CSV reports.
package ebillparser

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fjacquet/ebill-csv/internal/common"
	"fjacquet/ebill-csv/internal/dateutils"
	"fjacquet/ebill-csv/internal/fileutils"
	"fjacquet/ebill-csv/internal/logging"
	"fjacquet/ebill-csv/internal/mimeutils"
	"fjacquet/ebill-csv/internal/models"
	"fjacquet/ebill-csv/internal/parser"
	"fjacquet/ebill-csv/internal/parsererror"
)

// Name identifies the parser in logs.
const Name = "ebill"

// SupportedExtensions lists the input file extensions handled by BatchConvert.
var SupportedExtensions = []string{".eml", ".mbox"}

// Options configures a Parser. Zero values fall back to the defaults.
type Options struct {
	// Year expands month-day tokens; empty derives each row's year from the
	// message date.
	Year      string
	Account   string
	AnchorID  string
	MinCells  int
	Delimiter rune
	// Now supplies the wall clock used for the time of day of every record.
	Now func() time.Time
}

// Result describes one converted statement.
type Result struct {
	InputFile    string
	OutputFile   string
	Subject      string
	Year         string
	Records      []models.TransactionRecord
	CSV          []byte
	RowsAdmitted int
	RowsDropped  int
	Count        int
}

// Parser runs the extraction, row parsing, normalization and report stages.
type Parser struct {
	parser.BaseParser
	extractor   *mimeutils.Extractor
	categorizer Categorizer
	opts        Options
}

var _ parser.FullParser = (*Parser)(nil)

// NewParser creates an e-bill parser. A nil categorizer labels every record "other".
func NewParser(logger logging.Logger, categorizer Categorizer, opts Options) *Parser {
	base := parser.NewBaseParser(logger)
	base.SetDelimiter(opts.Delimiter)

	if opts.Account == "" {
		opts.Account = models.DefaultAccountLabel
	}
	if opts.AnchorID == "" {
		opts.AnchorID = models.DefaultAnchorID
	}
	if opts.MinCells == 0 {
		opts.MinCells = models.MinRowCells
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Parser{
		BaseParser:  base,
		extractor:   mimeutils.NewExtractor(base.GetLogger()),
		categorizer: categorizer,
		opts:        opts,
	}
}

// SetLogger replaces the logger of the parser and its extractor.
func (p *Parser) SetLogger(logger logging.Logger) {
	p.BaseParser.SetLogger(logger)
	p.extractor.SetLogger(logger)
}

// Options returns the effective options.
func (p *Parser) Options() Options {
	return p.opts
}

// Parse reads a message container from r and returns its records.
func (p *Parser) Parse(r io.Reader) ([]models.TransactionRecord, error) {
	msg, err := p.extractor.Extract(r)
	if err != nil {
		return nil, err
	}
	result, err := p.parseMessage(msg)
	if err != nil {
		return nil, err
	}
	return result.Records, nil
}

// ParseFile reads the message stored at filePath and returns its records.
func (p *Parser) ParseFile(filePath string) (*Result, error) {
	p.GetLogger().Info("Parsing e-bill message",
		logging.F(logging.FieldInputFile, filePath),
		logging.F(logging.FieldParser, Name))

	msg, err := p.extractor.ExtractFile(filePath)
	if err != nil {
		return nil, err
	}

	result, err := p.parseMessage(msg)
	if result != nil {
		result.InputFile = filePath
	}
	return result, err
}

func (p *Parser) parseMessage(msg *mimeutils.Message) (*Result, error) {
	logger := p.GetLogger()
	now := p.opts.Now()
	year := dateutils.ResolveYear(p.opts.Year, msg.Date, now)

	rows, skipped := extractRows(msg.HTML, RowOptions{AnchorID: p.opts.AnchorID, MinCells: p.opts.MinCells}, logger)

	normalizer := NewNormalizer(p.categorizer, year, p.opts.Account, func() time.Time { return now }, logger)
	if strings.TrimSpace(p.opts.Year) == "" {
		issued := msg.Date
		if issued.IsZero() {
			issued = now
		}
		normalizer.SetIssueDate(issued)
	}
	records, dropped := normalizer.NormalizeAll(rows)

	result := &Result{
		Subject:      msg.Subject,
		Year:         year,
		Records:      records,
		RowsAdmitted: len(rows),
		RowsDropped:  dropped + skipped,
		Count:        len(records),
	}

	if len(records) == 0 {
		logger.Warn("No transactions found in statement",
			logging.F(logging.FieldSubject, msg.Subject),
			logging.F("rows_admitted", len(rows)),
			logging.F(logging.FieldCount, 0))
		return result, parsererror.ErrNoTransactions
	}

	logger.Debug("Parsed statement",
		logging.F(logging.FieldSubject, msg.Subject),
		logging.F("year", year),
		logging.F(logging.FieldCount, len(records)),
		logging.F("rows_dropped", result.RowsDropped))
	return result, nil
}

// Convert parses inputFile and writes the report to outputFile. Terminal
// conditions (missing input, no HTML part, no transactions) leave outputFile
// untouched.
func (p *Parser) Convert(inputFile, outputFile string) (*Result, error) {
	logger := p.GetLogger()

	result, err := p.ParseFile(inputFile)
	if err != nil {
		if errors.Is(err, parsererror.ErrNoTransactions) {
			logger.Info("Processed 0 records, no report written",
				logging.F(logging.FieldInputFile, inputFile),
				logging.F(logging.FieldCount, 0))
		}
		return result, err
	}

	data, err := common.RenderRecordsCSV(result.Records, p.GetDelimiter())
	if err != nil {
		return result, err
	}
	result.CSV = data

	count, err := p.WriteToCSV(result.Records, outputFile)
	if err != nil {
		return result, fmt.Errorf("error writing report: %w", err)
	}
	result.OutputFile = outputFile
	result.Count = count

	logger.Info("Converted e-bill to CSV",
		logging.F(logging.FieldInputFile, inputFile),
		logging.F(logging.FieldOutputFile, outputFile),
		logging.F(logging.FieldCount, count))
	return result, nil
}

// ConvertToCSV implements parser.CSVConverter.
func (p *Parser) ConvertToCSV(inputFile, outputFile string) error {
	_, err := p.Convert(inputFile, outputFile)
	return err
}

// ValidateFormat reports whether filePath holds a message with an HTML part
// containing at least one transaction row.
func (p *Parser) ValidateFormat(filePath string) (bool, error) {
	if !fileutils.FileExists(filePath) {
		return false, fmt.Errorf("file does not exist: %s: %w", filePath, os.ErrNotExist)
	}

	msg, err := p.extractor.ExtractFile(filePath)
	if err != nil {
		var formatErr *parsererror.InvalidFormatError
		if errors.Is(err, parsererror.ErrNoHTMLPart) || errors.As(err, &formatErr) {
			return false, nil
		}
		return false, err
	}

	rows, _ := extractRows(msg.HTML, RowOptions{AnchorID: p.opts.AnchorID, MinCells: p.opts.MinCells}, p.GetLogger())
	return len(rows) > 0, nil
}

// BatchConvert converts every .eml and .mbox file of inputDir into a CSV file
// of the same base name in outputDir. Files without statement data are
// skipped; the number of reports written is returned.
func (p *Parser) BatchConvert(inputDir, outputDir string) (int, error) {
	logger := p.GetLogger()
	logger.Info("Batch converting e-bill messages",
		logging.F("input_dir", inputDir),
		logging.F("output_dir", outputDir))

	files, err := fileutils.ListFilesWithExtensions(inputDir, SupportedExtensions...)
	if err != nil {
		logger.WithError(err).Error("Failed to read input directory")
		return 0, fmt.Errorf("error reading input directory: %w", err)
	}

	if err := fileutils.EnsureDirectoryExists(outputDir); err != nil {
		logger.WithError(err).Error("Failed to create output directory")
		return 0, fmt.Errorf("error creating output directory: %w", err)
	}

	processed := 0
	for _, file := range files {
		outputFile := filepath.Join(outputDir, fileutils.ReplaceExtension(filepath.Base(file), ".csv"))

		if _, err := p.Convert(file, outputFile); err != nil {
			logger.Warn("Failed to convert file, skipping",
				logging.F(logging.FieldInputFile, file),
				logging.F(logging.FieldError, err))
			continue
		}
		processed++
	}

	logger.Info("Batch conversion completed",
		logging.F(logging.FieldCount, processed),
		logging.F("files", len(files)))
	return processed, nil
}
