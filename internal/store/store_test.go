package store

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/ebill-csv/internal/logging"
	"fjacquet/ebill-csv/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	err := os.WriteFile(path, []byte(content), 0600)
	require.NoError(t, err)
}

func TestNewCategoryStore(t *testing.T) {
	store := NewCategoryStore("categories.yaml", nil)
	assert.Equal(t, "categories.yaml", store.CategoriesFile)
	assert.NotNil(t, store.logger)
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()

	testFile := filepath.Join(dir, "test.yaml")
	writeFile(t, testFile, "test content")

	store := NewCategoryStore("", logging.NewMockLogger())

	file, err := store.FindConfigFile(testFile)
	assert.NoError(t, err)
	assert.Equal(t, testFile, file)

	_, err = store.FindConfigFile(filepath.Join(dir, "nonexistent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadCategories_DocumentForm(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "categories.yaml")
	writeFile(t, file, `categories:
  - name: coffee
    keywords: ["星巴克", "瑞幸"]
  - name: dining
    keywords: ["餐饮"]
`)

	store := NewCategoryStore(file, logging.NewMockLogger())
	cats, err := store.LoadCategories()
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "coffee", cats[0].Name)
	assert.Equal(t, []string{"星巴克", "瑞幸"}, cats[0].Keywords)
	assert.Equal(t, "dining", cats[1].Name)
}

func TestLoadCategories_ListForm(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "categories.yaml")
	writeFile(t, file, `- name: transit-bus
  keywords: ["公交"]
`)

	store := NewCategoryStore(file, logging.NewMockLogger())
	cats, err := store.LoadCategories()
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, models.CategoryTransitBus, cats[0].Name)
}

func TestLoadCategories_MissingFallsBackToDefaults(t *testing.T) {
	store := NewCategoryStore(filepath.Join(t.TempDir(), "missing.yaml"), logging.NewMockLogger())

	cats, err := store.LoadCategories()
	require.NoError(t, err)
	assert.Equal(t, models.DefaultCategories(), cats)
}

func TestLoadCategories_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not yaml", "categories: [unterminated"},
		{"empty document", ""},
		{"missing name", "categories:\n  - keywords: [\"x\"]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := filepath.Join(t.TempDir(), "categories.yaml")
			writeFile(t, file, tt.content)

			store := NewCategoryStore(file, logging.NewMockLogger())
			_, err := store.LoadCategories()
			assert.Error(t, err)
		})
	}
}

func TestSaveCategories_RoundTripsOrder(t *testing.T) {
	file := filepath.Join(t.TempDir(), "nested", "categories.yaml")
	store := NewCategoryStore(file, logging.NewMockLogger())

	require.NoError(t, store.SaveCategories(models.DefaultCategories()))

	cats, err := store.LoadCategories()
	require.NoError(t, err)
	assert.Equal(t, models.DefaultCategories(), cats)
}

func TestEncodeCategories(t *testing.T) {
	var buf bytes.Buffer
	err := EncodeCategories(&buf, []models.CategoryConfig{
		{Name: models.CategoryTransitBus, Keywords: []string{"公交"}},
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "categories:")
	assert.Contains(t, buf.String(), "name: transit-bus")
	assert.Contains(t, buf.String(), "公交")
}

func TestMockCategoryStore(t *testing.T) {
	mock := &MockCategoryStore{Categories: models.DefaultCategories()}
	cats, err := mock.LoadCategories()
	require.NoError(t, err)
	assert.Len(t, cats, 6)

	mock.LoadCategoriesError = os.ErrPermission
	_, err = mock.LoadCategories()
	assert.ErrorIs(t, err, os.ErrPermission)
}
