// Package batch handles batch processing of files
package batch

import (
	"fmt"
	"path/filepath"

	"fjacquet/ebill-csv/cmd/common"
	"fjacquet/ebill-csv/cmd/root"
	"fjacquet/ebill-csv/internal/batch"
	internalcommon "fjacquet/ebill-csv/internal/common"
	"fjacquet/ebill-csv/internal/container"
	"fjacquet/ebill-csv/internal/ebillparser"
	"fjacquet/ebill-csv/internal/fileutils"
	"fjacquet/ebill-csv/internal/logging"

	"github.com/spf13/cobra"
)

var merge bool

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Batch process files from a directory",
	Long: `Batch process files from an input directory and output them to another directory.

Every .eml and .mbox file of the input directory is converted to a CSV file of
the same name. Files without an HTML part or without transactions are skipped.
With --merge the records of all statements are consolidated into one report
per account, named after the account and the covered date range.

Example:
  ebill-csv batch -i mail/ -o reports/`,
	RunE: batchFunc,
}

func init() {
	Cmd.Flags().BoolVar(&merge, "merge", false, "Consolidate all statements into one report per account")
}

func batchFunc(cmd *cobra.Command, args []string) error {
	logger := root.GetLogger()
	inputDir := root.SharedFlags.Input
	outputDir := root.SharedFlags.Output

	appContainer := root.GetContainer()
	if appContainer == nil {
		logger.Error("Container not initialized")
		return fmt.Errorf("container not initialized")
	}

	if !merge {
		p, err := appContainer.GetParser(container.EBill)
		if err != nil {
			return err
		}
		count, err := common.ProcessDirectory(p, inputDir, outputDir, logger)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Converted %d files\n", count)
		return nil
	}

	count, err := MergeDirectory(appContainer.GetEBillParser(), inputDir, outputDir, logger)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %d consolidated files\n", count)
	return nil
}

// MergeDirectory parses every supported file of inputDir and writes one
// consolidated report per account into outputDir.
func MergeDirectory(p *ebillparser.Parser, inputDir, outputDir string, logger logging.Logger) (int, error) {
	if inputDir == "" || outputDir == "" {
		logger.Error("Input and output directories must be specified")
		return 0, fmt.Errorf("input and output directories must be specified")
	}

	files, err := fileutils.ListFilesWithExtensions(inputDir, ebillparser.SupportedExtensions...)
	if err != nil {
		logger.WithError(err).Error("Failed to read input directory")
		return 0, fmt.Errorf("failed to read input directory: %w", err)
	}
	if len(files) == 0 {
		logger.Warn("No supported files found in input directory")
		return 0, nil
	}

	statements := make([]batch.Statement, 0, len(files))
	for _, file := range files {
		result, err := p.ParseFile(file)
		if err != nil {
			logger.Warn("Failed to parse file, skipping",
				logging.F(logging.FieldInputFile, file),
				logging.F(logging.FieldError, err))
			continue
		}
		statements = append(statements, batch.Statement{Source: file, Records: result.Records})
	}

	consolidated := 0
	for _, group := range batch.NewAggregator(logger).Aggregate(statements) {
		outputPath := filepath.Join(outputDir, batch.GenerateOutputFilename(group.Account, group.DateRange))
		if _, err := internalcommon.WriteRecordsToCSV(group.Records, outputPath, p.GetDelimiter(), logger); err != nil {
			logger.WithError(err).Error("Failed to write consolidated CSV",
				logging.F("account", group.Account),
				logging.F(logging.FieldOutputFile, outputPath))
			continue
		}
		logger.Info("Created consolidated file",
			logging.F("account", group.Account),
			logging.F(logging.FieldCount, len(group.Records)),
			logging.F(logging.FieldOutputFile, outputPath))
		consolidated++
	}

	return consolidated, nil
}
