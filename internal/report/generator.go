// Package report aggregates converted records and renders the summary.
package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"fjacquet/ebill-csv/internal/currencyutils"
	"fjacquet/ebill-csv/internal/logging"
	"fjacquet/ebill-csv/internal/models"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Supported summary formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatText = "text"
)

// Summarize aggregates counts and totals of records. Amounts that cannot be
// parsed are counted in Skipped and left out of the totals.
func Summarize(records []models.TransactionRecord) models.Summary {
	summary := models.Summary{
		SpendTotal:  decimal.Zero,
		IncomeTotal: decimal.Zero,
		Categories:  make(map[string]int),
	}

	for _, record := range records {
		summary.Count++
		summary.Categories[record.Category]++

		if record.IsSpend() {
			summary.SpendCount++
		} else {
			summary.IncomeCount++
		}

		amount, err := currencyutils.ParseAmount(record.Amount)
		if err != nil {
			summary.Skipped++
			continue
		}
		if record.IsSpend() {
			summary.SpendTotal = summary.SpendTotal.Add(amount)
		} else {
			summary.IncomeTotal = summary.IncomeTotal.Add(amount)
		}
	}

	return summary
}

// Generator renders summaries in various formats.
type Generator struct {
	logger logging.Logger
}

// NewGenerator creates a new instance of Generator.
func NewGenerator(logger logging.Logger) *Generator {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Generator{logger: logger.WithField("component", "ReportGenerator")}
}

// Generate renders summary in the specified format (json, yaml or text).
func (g *Generator) Generate(summary models.Summary, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		return g.generateJSON(summary)
	case FormatYAML:
		return g.generateYAML(summary)
	case FormatText:
		return generateText(summary), nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

func (g *Generator) generateJSON(summary models.Summary) ([]byte, error) {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON summary")
		return nil, fmt.Errorf("failed to marshal JSON summary: %w", err)
	}
	return append(data, '\n'), nil
}

func (g *Generator) generateYAML(summary models.Summary) ([]byte, error) {
	data, err := yaml.Marshal(summary)
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal YAML summary")
		return nil, fmt.Errorf("failed to marshal YAML summary: %w", err)
	}
	return data, nil
}

func generateText(summary models.Summary) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "Transactions: %d (%d spend, %d income)\n", summary.Count, summary.SpendCount, summary.IncomeCount)
	fmt.Fprintf(&b, "Spend:  %s\n", currencyutils.FormatAmount(summary.SpendTotal))
	fmt.Fprintf(&b, "Income: %s\n", currencyutils.FormatAmount(summary.IncomeTotal))
	fmt.Fprintf(&b, "Net:    %s\n", currencyutils.FormatAmount(summary.Net()))

	names := make([]string, 0, len(summary.Categories))
	for name := range summary.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "  %-20s %d\n", name, summary.Categories[name])
	}
	if summary.Skipped > 0 {
		fmt.Fprintf(&b, "Amounts not totalled: %d\n", summary.Skipped)
	}
	return []byte(b.String())
}
