// Package convert implements the convert command
package convert

import (
	"fmt"

	"fjacquet/ebill-csv/cmd/common"
	"fjacquet/ebill-csv/cmd/root"
	"fjacquet/ebill-csv/internal/dateutils"
	"fjacquet/ebill-csv/internal/ebillparser"

	"github.com/spf13/cobra"
)

var (
	year    string
	account string
	summary string
)

// Cmd represents the convert command
var Cmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a credit-card e-bill e-mail to CSV",
	Long: `Convert a credit-card e-bill stored as an .eml (or .mbox) file to a CSV report.

The inline HTML part of the message is parsed, every transaction row is
normalized and categorized, and the report is written as UTF-8 CSV. The CSV is
echoed on standard output once written.

Example:
  ebill-csv convert -i statement.eml -o statement.csv --year 2025`,
	RunE: convertFunc,
}

func init() {
	Cmd.Flags().StringVar(&year, "year", "", "Statement year used to expand month-day dates (default: from the message date)")
	Cmd.Flags().StringVar(&account, "account", "", "Account label written to every record")
	Cmd.Flags().StringVar(&summary, "summary", "", "Print a summary after the CSV (text, json or yaml)")
}

func convertFunc(cmd *cobra.Command, args []string) error {
	logger := root.GetLogger()
	appContainer := root.GetContainer()
	if appContainer == nil {
		logger.Error("Container not initialized")
		return fmt.Errorf("container not initialized")
	}

	if year != "" && !dateutils.IsValidYear(year) {
		logger.Error("Invalid statement year")
		return fmt.Errorf("--year must be a four-digit year, got: %s", year)
	}

	opts := appContainer.GetEBillParser().Options()
	if year != "" {
		opts.Year = year
	}
	if account != "" {
		opts.Account = account
	}
	p := ebillparser.NewParser(logger, appContainer.GetCategorizer(), opts)

	_, err := common.ProcessFile(p, root.SharedFlags.Input, root.SharedFlags.Output,
		common.ProcessOptions{Validate: root.SharedFlags.Validate, Summary: summary},
		cmd.OutOrStdout(), logger)
	return err
}
