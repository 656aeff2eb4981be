package categorizer

import (
	"context"

	"fjacquet/ebill-csv/internal/models"
)

// Transaction is the part of a statement row a strategy looks at.
type Transaction struct {
	Description string
}

// CategorizationStrategy defines a method for categorizing transactions.
type CategorizationStrategy interface {
	// Categorize returns the category and whether the strategy matched.
	Categorize(ctx context.Context, tx Transaction) (models.Category, bool, error)

	// Name returns the name of this strategy for logging and debugging purposes.
	Name() string
}
