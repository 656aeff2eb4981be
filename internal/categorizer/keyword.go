package categorizer

import (
	"context"
	"strings"

	"fjacquet/ebill-csv/internal/logging"
	"fjacquet/ebill-csv/internal/models"
)

// KeywordStrategy assigns the first keyword group whose keyword occurs in the
// description. Groups are checked in table order.
type KeywordStrategy struct {
	categories []models.CategoryConfig
	store      CategoryStoreInterface
	logger     logging.Logger
}

// NewKeywordStrategy creates a new KeywordStrategy instance.
func NewKeywordStrategy(store CategoryStoreInterface, logger logging.Logger) *KeywordStrategy {
	if logger == nil {
		logger = logging.GetLogger()
	}
	strategy := &KeywordStrategy{
		categories: []models.CategoryConfig{},
		store:      store,
		logger:     logger,
	}

	strategy.loadCategories()

	return strategy
}

// NewKeywordStrategyWithCategories creates a KeywordStrategy over a fixed table.
func NewKeywordStrategyWithCategories(categories []models.CategoryConfig, logger logging.Logger) *KeywordStrategy {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &KeywordStrategy{
		categories: categories,
		logger:     logger,
	}
}

// Name returns the name of this strategy for logging and debugging.
func (s *KeywordStrategy) Name() string {
	return "Keyword"
}

// Categories returns the active keyword table.
func (s *KeywordStrategy) Categories() []models.CategoryConfig {
	return s.categories
}

// Categorize matches the description against the keyword table.
func (s *KeywordStrategy) Categorize(ctx context.Context, tx Transaction) (models.Category, bool, error) {
	if strings.TrimSpace(tx.Description) == "" {
		return models.Category{}, false, nil
	}

	for _, categoryConfig := range s.categories {
		for _, keyword := range categoryConfig.Keywords {
			if keyword == "" {
				continue
			}
			if strings.Contains(tx.Description, keyword) {
				s.logger.Debug("Transaction categorized using keyword matching",
					logging.F("strategy", s.Name()),
					logging.F(logging.FieldKeyword, keyword),
					logging.F(logging.FieldCategory, categoryConfig.Name))

				return models.Category{Name: categoryConfig.Name}, true, nil
			}
		}
	}

	return models.Category{}, false, nil
}

// loadCategories loads category configurations from the store.
func (s *KeywordStrategy) loadCategories() {
	if s.store == nil {
		s.categories = models.DefaultCategories()
		return
	}

	categories, err := s.store.LoadCategories()
	if err != nil {
		s.logger.WithError(err).Warn("Failed to load categories, using built-in keyword table")
		s.categories = models.DefaultCategories()
		return
	}

	s.categories = categories
	s.logger.Debug("Loaded categories for KeywordStrategy", logging.F(logging.FieldCount, len(categories)))
}

// ReloadCategories reloads the categories from the store.
func (s *KeywordStrategy) ReloadCategories() {
	s.loadCategories()
}
