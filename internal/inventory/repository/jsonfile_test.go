package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockbot/internal/model"
)

func TestJSONFileRepository_LoadMissingFile(t *testing.T) {
	repo := NewJSONFileRepository(filepath.Join(t.TempDir(), "inventory.json"))

	doc, err := repo.Load()

	require.NoError(t, err)
	for _, loc := range model.Locations() {
		assert.NotNil(t, doc[loc])
		assert.Empty(t, doc[loc])
	}
}

func TestJSONFileRepository_RoundTrip(t *testing.T) {
	repo := NewJSONFileRepository(filepath.Join(t.TempDir(), "inventory.json"))

	category := "drinks"
	doc := model.NewDocument()
	doc[model.Refrigerator1]["Cola"] = model.Item{Quantity: 5, Category: &category}
	doc[model.Cupboard]["Water"] = model.Item{Quantity: 12}

	require.NoError(t, repo.Save(doc))

	loaded, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, doc, loaded)
}

func TestJSONFileRepository_LoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewJSONFileRepository(path).Load()

	assert.Error(t, err)
}

func TestJSONFileRepository_LoadFillsMissingLocations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"refrigerator_1": {"Cola": {"quantity": 2, "category": null}}}`), 0o644))

	doc, err := NewJSONFileRepository(path).Load()

	require.NoError(t, err)
	assert.Equal(t, 2, doc[model.Refrigerator1]["Cola"].Quantity)
	for _, loc := range model.Locations() {
		assert.NotNil(t, doc[loc])
	}
}
