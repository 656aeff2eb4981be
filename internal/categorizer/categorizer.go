// Package categorizer maps statement descriptions to categories using an
// ordered keyword table loaded from YAML, with a fixed fallback category.
package categorizer

import (
	"context"
	"fmt"

	"fjacquet/ebill-csv/internal/logging"
	"fjacquet/ebill-csv/internal/models"
)

// Categorizer runs its strategies in order and returns the first match.
type Categorizer struct {
	strategies []CategorizationStrategy
	keywords   *KeywordStrategy
	fallback   string
	logger     logging.Logger
}

// NewCategorizer creates a Categorizer backed by the keyword table of store.
// A nil store uses the built-in table.
func NewCategorizer(store CategoryStoreInterface, logger logging.Logger) *Categorizer {
	if logger == nil {
		logger = logging.GetLogger()
	}
	keywords := NewKeywordStrategy(store, logger)
	return &Categorizer{
		strategies: []CategorizationStrategy{keywords},
		keywords:   keywords,
		fallback:   models.CategoryOther,
		logger:     logger,
	}
}

// NewCategorizerWithStrategies creates a Categorizer from explicit strategies.
func NewCategorizerWithStrategies(logger logging.Logger, strategies ...CategorizationStrategy) *Categorizer {
	if logger == nil {
		logger = logging.GetLogger()
	}
	c := &Categorizer{
		strategies: strategies,
		fallback:   models.CategoryOther,
		logger:     logger,
	}
	for _, s := range strategies {
		if k, ok := s.(*KeywordStrategy); ok && c.keywords == nil {
			c.keywords = k
		}
	}
	return c
}

// SetFallback changes the category assigned when no strategy matches.
func (c *Categorizer) SetFallback(category string) {
	if category != "" {
		c.fallback = category
	}
}

// Fallback returns the category assigned when no strategy matches.
func (c *Categorizer) Fallback() string {
	return c.fallback
}

// Categories returns the active keyword table, if any.
func (c *Categorizer) Categories() []models.CategoryConfig {
	if c.keywords == nil {
		return nil
	}
	return c.keywords.Categories()
}

// Categorize returns the category label for a statement description.
func (c *Categorizer) Categorize(description string) string {
	category, err := c.CategorizeTransaction(context.Background(), Transaction{Description: description})
	if err != nil {
		return c.fallback
	}
	return category.Name
}

// CategorizeTransaction runs every strategy in order and returns the first
// match, or the fallback category.
func (c *Categorizer) CategorizeTransaction(ctx context.Context, tx Transaction) (models.Category, error) {
	if c == nil {
		return models.Category{}, fmt.Errorf("categorizer not initialized")
	}

	var results StrategyResults
	for _, strategy := range c.strategies {
		if err := ctx.Err(); err != nil {
			return models.Category{}, err
		}

		category, found, err := strategy.Categorize(ctx, tx)
		results.Results = append(results.Results, StrategyResult{
			Strategy: strategy.Name(),
			Category: category,
			Found:    found,
			Error:    err,
		})
		if found && err == nil {
			break
		}
	}

	for _, err := range results.GetErrors() {
		c.logger.WithError(err).Warn("Categorization strategy failed")
	}

	if category, ok := results.GetBestResult(); ok {
		return category, nil
	}

	c.logger.Debug("No category matched, using fallback",
		logging.F(logging.FieldCategory, c.fallback),
		logging.F("strategies", results.Summary()))
	return models.Category{Name: c.fallback}, nil
}

// ReloadCategories reloads the keyword table from the store.
func (c *Categorizer) ReloadCategories() {
	if c.keywords != nil {
		c.keywords.ReloadCategories()
	}
}
