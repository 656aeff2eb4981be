// Package categorize handles transaction categorization commands
package categorize

import (
	"fmt"
	"io"

	"fjacquet/ebill-csv/cmd/root"
	"fjacquet/ebill-csv/internal/categorizer"
	"fjacquet/ebill-csv/internal/logging"
	"fjacquet/ebill-csv/internal/store"

	"github.com/spf13/cobra"
)

var (
	description string
	list        bool
)

// Cmd represents the categorize command
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Categorize a statement description",
	Long: `Categorize a statement description with the keyword table.

The first keyword group whose keyword occurs in the description wins; a
description matching no group gets the fallback category. With --list the
active keyword table is printed as YAML.

Example:
  ebill-csv categorize -d "美食广场"`,
	RunE: categorizeFunc,
}

func init() {
	Cmd.Flags().StringVarP(&description, "description", "d", "", "Statement description to categorize")
	Cmd.Flags().BoolVarP(&list, "list", "l", false, "Print the active keyword table")
}

func categorizeFunc(cmd *cobra.Command, args []string) error {
	logger := root.GetLogger()
	appContainer := root.GetContainer()
	if appContainer == nil {
		logger.Error("Container not initialized")
		return fmt.Errorf("container not initialized")
	}

	if list {
		return store.EncodeCategories(cmd.OutOrStdout(), appContainer.GetCategorizer().Categories())
	}
	if description == "" {
		logger.Error("Description is required for categorization")
		return fmt.Errorf("description is required for categorization")
	}

	Categorize(appContainer.GetCategorizer(), description, cmd.OutOrStdout(), logger)
	return nil
}

// Categorize prints the category assigned to description.
func Categorize(c *categorizer.Categorizer, description string, out io.Writer, logger logging.Logger) string {
	category := c.Categorize(description)
	logger.Debug("Transaction categorized",
		logging.F("description", description),
		logging.F(logging.FieldCategory, category))
	fmt.Fprintln(out, category)
	return category
}
