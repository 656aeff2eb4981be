// Package store provides functionality for storing and retrieving the category keyword table.
package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fjacquet/ebill-csv/internal/fileutils"
	"fjacquet/ebill-csv/internal/logging"
	"fjacquet/ebill-csv/internal/models"

	"gopkg.in/yaml.v3"
)

// DefaultCategoriesFile is the file name looked up when none is configured.
const DefaultCategoriesFile = "categories.yaml"

// CategoryStore manages loading and saving of the keyword table
type CategoryStore struct {
	CategoriesFile string
	logger         logging.Logger
}

// NewCategoryStore creates a new store reading categoriesFile.
func NewCategoryStore(categoriesFile string, logger logging.Logger) *CategoryStore {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &CategoryStore{
		CategoriesFile: categoriesFile,
		logger:         logger,
	}
}

// FindConfigFile looks for a configuration file in standard locations
func (s *CategoryStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if fileutils.FileExists(filename) {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
		filepath.Join(".ebill-csv", filename),
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(homeDir, ".ebill-csv", filename))
	}

	for _, location := range locations {
		if fileutils.FileExists(location) {
			return location, nil
		}
	}

	return "", os.ErrNotExist
}

// LoadCategories loads the ordered keyword groups. When no categories file
// can be found the built-in table is returned.
func (s *CategoryStore) LoadCategories() ([]models.CategoryConfig, error) {
	filename := s.CategoriesFile
	if filename == "" {
		filename = DefaultCategoriesFile
	}

	filePath, err := s.FindConfigFile(filename)
	if err != nil {
		s.logger.Debug("Categories file not found, using built-in keyword table",
			logging.F(logging.FieldFile, filename))
		return models.DefaultCategories(), nil
	}

	data, err := fileutils.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading categories file: %w", err)
	}

	categories, err := ParseCategories(data)
	if err != nil {
		return nil, fmt.Errorf("error parsing categories file %s: %w", filePath, err)
	}

	s.logger.Debug("Loaded categories",
		logging.F(logging.FieldFile, filePath),
		logging.F(logging.FieldCount, len(categories)))
	return categories, nil
}

// SaveCategories writes the keyword table to the configured file.
func (s *CategoryStore) SaveCategories(categories []models.CategoryConfig) error {
	filename := s.CategoriesFile
	if filename == "" {
		filename = DefaultCategoriesFile
	}

	data, err := yaml.Marshal(models.CategoriesConfig{Categories: categories})
	if err != nil {
		return fmt.Errorf("error encoding categories: %w", err)
	}

	if err := fileutils.WriteFile(filename, data, models.PermissionConfigFile); err != nil {
		return fmt.Errorf("error saving categories file: %w", err)
	}

	s.logger.Info("Saved categories",
		logging.F(logging.FieldFile, filename),
		logging.F(logging.FieldCount, len(categories)))
	return nil
}

// ParseCategories decodes a keyword table. Both the `categories:` document
// form and a bare list of groups are accepted; group order is preserved.
func ParseCategories(data []byte) ([]models.CategoryConfig, error) {
	var categoriesConfig models.CategoriesConfig
	if err := yaml.Unmarshal(data, &categoriesConfig); err == nil && len(categoriesConfig.Categories) > 0 {
		return validateCategories(categoriesConfig.Categories)
	}

	var categories []models.CategoryConfig
	if err := yaml.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("unrecognized categories format: %w", err)
	}
	if len(categories) == 0 {
		return nil, fmt.Errorf("no categories defined")
	}
	return validateCategories(categories)
}

func validateCategories(categories []models.CategoryConfig) ([]models.CategoryConfig, error) {
	for i, category := range categories {
		if category.Name == "" {
			return nil, fmt.Errorf("category %d has no name", i+1)
		}
	}
	return categories, nil
}

// EncodeCategories writes the keyword table as YAML to w.
func EncodeCategories(w io.Writer, categories []models.CategoryConfig) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(models.CategoriesConfig{Categories: categories}); err != nil {
		return fmt.Errorf("error encoding categories: %w", err)
	}
	return encoder.Close()
}
