package categorizer

import (
	"context"
	"errors"
	"testing"

	"fjacquet/ebill-csv/internal/logging"
	"fjacquet/ebill-csv/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStrategy struct {
	name     string
	category string
	found    bool
	err      error
	calls    int
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Categorize(ctx context.Context, tx Transaction) (models.Category, bool, error) {
	s.calls++
	return models.Category{Name: s.category}, s.found, s.err
}

func TestCategorizer_Categorize(t *testing.T) {
	c := NewCategorizer(nil, logging.NewMockLogger())

	tests := []struct {
		description string
		expected    string
	}{
		{"美团餐饮", models.CategoryDining},
		{"天猫超市购物", models.CategoryGroceries},
		{"多点 Dmall", models.CategoryGroceries},
		{"交通卡充值", models.CategoryTransitSubway},
		{"公交", models.CategoryTransitBus},
		{"颐和园公园", models.CategoryEntertainment},
		{"奥塔奇", models.CategoryUtilitiesElectric},
		{"ABC Restaurant", models.CategoryOther},
		{"", models.CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.Categorize(tt.description))
		})
	}
}

func TestCategorizer_FirstGroupWins(t *testing.T) {
	c := NewCategorizer(nil, logging.NewMockLogger())

	// 餐饮 (dining) and 购物 (groceries) both occur
	assert.Equal(t, models.CategoryDining, c.Categorize("购物中心餐饮"))
}

func TestCategorizer_StrategyOrder(t *testing.T) {
	first := &stubStrategy{name: "first", category: "one", found: true}
	second := &stubStrategy{name: "second", category: "two", found: true}

	c := NewCategorizerWithStrategies(logging.NewMockLogger(), first, second)
	category, err := c.CategorizeTransaction(context.Background(), Transaction{Description: "x"})
	require.NoError(t, err)
	assert.Equal(t, "one", category.Name)
	assert.Equal(t, 0, second.calls)
}

func TestCategorizer_FailingStrategyFallsThrough(t *testing.T) {
	logger := logging.NewMockLogger()
	failing := &stubStrategy{name: "broken", err: errors.New("boom")}
	keyword := NewKeywordStrategyWithCategories(models.DefaultCategories(), logger)

	c := NewCategorizerWithStrategies(logger, failing, keyword)
	assert.Equal(t, models.CategoryTransitBus, c.Categorize("公交"))
	assert.True(t, logger.HasEntry("WARN", "Categorization strategy failed"))
	assert.Equal(t, models.DefaultCategories(), c.Categories())
}

func TestCategorizer_Fallback(t *testing.T) {
	c := NewCategorizerWithStrategies(logging.NewMockLogger())
	assert.Equal(t, models.CategoryOther, c.Fallback())
	assert.Nil(t, c.Categories())

	c.SetFallback("uncategorized")
	assert.Equal(t, "uncategorized", c.Categorize("anything"))

	c.SetFallback("")
	assert.Equal(t, "uncategorized", c.Fallback())
}

func TestCategorizer_CancelledContext(t *testing.T) {
	c := NewCategorizer(nil, logging.NewMockLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.CategorizeTransaction(ctx, Transaction{Description: "公交"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCategorizer_Nil(t *testing.T) {
	var c *Categorizer
	_, err := c.CategorizeTransaction(context.Background(), Transaction{})
	assert.Error(t, err)
}

func TestStrategyResults(t *testing.T) {
	results := StrategyResults{Results: []StrategyResult{
		{Strategy: "A", Error: errors.New("bad")},
		{Strategy: "B"},
		{Strategy: "C", Category: models.Category{Name: "dining"}, Found: true},
	}}

	category, ok := results.GetBestResult()
	assert.True(t, ok)
	assert.Equal(t, "dining", category.Name)
	assert.Len(t, results.GetErrors(), 1)
	assert.Equal(t, "A:failed, B:no_match, C:success", results.Summary())
}
