// Package common contains shared functionality for command handlers
package common

import (
	"errors"
	"fmt"
	"io"
	"os"

	"fjacquet/ebill-csv/internal/ebillparser"
	"fjacquet/ebill-csv/internal/fileutils"
	"fjacquet/ebill-csv/internal/logging"
	"fjacquet/ebill-csv/internal/parser"
	"fjacquet/ebill-csv/internal/parsererror"
	"fjacquet/ebill-csv/internal/report"
)

// ProcessOptions controls ProcessFile.
type ProcessOptions struct {
	Validate bool
	// Summary is the report format printed after the CSV; empty disables it.
	Summary string
}

// DefaultOutputFile returns the report path used when no output is given.
func DefaultOutputFile(inputFile string) string {
	return fileutils.ReplaceExtension(inputFile, ".csv")
}

// ProcessFile converts a single statement, echoes the CSV to out and
// optionally prints a summary. Terminal conditions are logged and returned.
func ProcessFile(p *ebillparser.Parser, inputFile, outputFile string, opts ProcessOptions, out io.Writer, log logging.Logger) (*ebillparser.Result, error) {
	p.SetLogger(log)

	if inputFile == "" {
		log.Error("Input file must be specified")
		return nil, fmt.Errorf("input file must be specified")
	}
	if outputFile == "" {
		outputFile = DefaultOutputFile(inputFile)
	}

	if opts.Validate {
		log.Info("Validating format...")
		valid, err := p.ValidateFormat(inputFile)
		if err != nil {
			log.WithError(err).Error("Error validating file")
			return nil, fmt.Errorf("error validating file: %w", err)
		}
		if !valid {
			log.Error("The file is not a valid e-bill statement",
				logging.F(logging.FieldInputFile, inputFile))
			return nil, &parsererror.ValidationError{FilePath: inputFile, Reason: "no statement rows found"}
		}
		log.Info("Validation successful.")
	}

	result, err := p.Convert(inputFile, outputFile)
	if err != nil {
		switch {
		case errors.Is(err, os.ErrNotExist):
			log.Error("Input message not found",
				logging.F(logging.FieldInputFile, inputFile))
		case errors.Is(err, parsererror.ErrNoHTMLPart):
			log.Error("No HTML part found in message, no report written",
				logging.F(logging.FieldInputFile, inputFile))
		case errors.Is(err, parsererror.ErrNoTransactions):
			log.Error("No transactions found in statement, no report written",
				logging.F(logging.FieldInputFile, inputFile))
		default:
			log.WithError(err).Error("Error converting to CSV",
				logging.F(logging.FieldInputFile, inputFile))
		}
		return result, err
	}

	log.Info("Conversion completed successfully!",
		logging.F(logging.FieldCount, result.Count),
		logging.F(logging.FieldOutputFile, result.OutputFile))

	if _, err := out.Write(result.CSV); err != nil {
		return result, fmt.Errorf("error writing CSV to output: %w", err)
	}

	if opts.Summary != "" {
		data, err := report.NewGenerator(log).Generate(report.Summarize(result.Records), opts.Summary)
		if err != nil {
			log.WithError(err).Error("Failed to generate summary")
			return result, err
		}
		if _, err := out.Write(data); err != nil {
			return result, fmt.Errorf("error writing summary to output: %w", err)
		}
	}

	return result, nil
}

// ProcessDirectory converts every supported file of inputDir into outputDir
// and returns the number of reports written.
func ProcessDirectory(p parser.FullParser, inputDir, outputDir string, log logging.Logger) (int, error) {
	p.SetLogger(log)

	if inputDir == "" || outputDir == "" {
		log.Error("Input and output directories must be specified")
		return 0, fmt.Errorf("input and output directories must be specified")
	}

	count, err := p.BatchConvert(inputDir, outputDir)
	if err != nil {
		log.WithError(err).Error("Error during batch conversion")
		return count, err
	}

	log.Info(fmt.Sprintf("Batch processing completed. %d files converted.", count),
		logging.F(logging.FieldCount, count))
	return count, nil
}
