// Package summarize implements the summarize command
package summarize

import (
	"fmt"
	"io"

	"fjacquet/ebill-csv/cmd/root"
	"fjacquet/ebill-csv/internal/common"
	"fjacquet/ebill-csv/internal/logging"
	"fjacquet/ebill-csv/internal/models"
	"fjacquet/ebill-csv/internal/report"

	"github.com/spf13/cobra"
)

var format string

// Cmd represents the summarize command
var Cmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarize a CSV report",
	Long: `Summarize a CSV report written by convert or batch.

Counts, spend and income totals and per-category counts are printed in the
requested format.

Example:
  ebill-csv summarize -i statement.csv --format json`,
	RunE: summarizeFunc,
}

func init() {
	Cmd.Flags().StringVarP(&format, "format", "f", report.FormatText, "Summary format (text, json or yaml)")
}

func summarizeFunc(cmd *cobra.Command, args []string) error {
	logger := root.GetLogger()
	appContainer := root.GetContainer()
	if appContainer == nil {
		logger.Error("Container not initialized")
		return fmt.Errorf("container not initialized")
	}

	return Summarize(root.SharedFlags.Input, appContainer.GetConfig().CSVDelimiter(), format,
		appContainer.GetReportGenerator(), cmd.OutOrStdout(), logger)
}

// Summarize reads the report at csvFile and prints its summary to out.
func Summarize(csvFile string, delimiter rune, format string, generator *report.Generator, out io.Writer, logger logging.Logger) error {
	if csvFile == "" {
		logger.Error("Input file must be specified")
		return fmt.Errorf("input file must be specified")
	}

	records, err := common.ReadCSVFile[models.TransactionRecord](csvFile, delimiter, logger)
	if err != nil {
		return err
	}

	data, err := generator.Generate(report.Summarize(records), format)
	if err != nil {
		logger.WithError(err).Error("Failed to generate summary")
		return err
	}
	_, err = out.Write(data)
	return err
}
