package models

// Category represents a transaction category
type Category struct {
	Name        string
	Description string
}

// CategoryConfig is one ordered keyword group of the category table.
type CategoryConfig struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// CategoriesConfig represents the structure of the categories YAML file
type CategoriesConfig struct {
	Categories []CategoryConfig `yaml:"categories"`
}

// DefaultCategories returns the built-in keyword table. Order matters:
// keyword groups overlap, and the first matching group wins.
func DefaultCategories() []CategoryConfig {
	return []CategoryConfig{
		{Name: CategoryDining, Keywords: []string{"餐饮", "美食", "速派", "潘多拉"}},
		{Name: CategoryGroceries, Keywords: []string{"购物", "购买", "天猫", "多点"}},
		{Name: CategoryTransitSubway, Keywords: []string{"交通", "地铁"}},
		{Name: CategoryTransitBus, Keywords: []string{"公交"}},
		{Name: CategoryEntertainment, Keywords: []string{"公园", "宫", "寺"}},
		{Name: CategoryUtilitiesElectric, Keywords: []string{"奥塔奇", "电费"}},
	}
}
