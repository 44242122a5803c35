package repository

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"

	"stockbot/internal/model"
)

// JSONFileRepository stores the inventory document as a single indented
// JSON file whose top-level keys are the four location names.
type JSONFileRepository struct {
	path string
}

func NewJSONFileRepository(path string) *JSONFileRepository {
	return &JSONFileRepository{path: path}
}

func (r *JSONFileRepository) Load() (model.Document, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.NewDocument(), nil
		}
		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}

	var doc model.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", r.path, err)
	}

	// Older files may miss a location key; the closed location set is
	// always fully present in memory.
	for _, loc := range model.Locations() {
		if doc[loc] == nil {
			if doc == nil {
				doc = model.Document{}
			}
			doc[loc] = map[string]model.Item{}
		}
	}
	return doc, nil
}

func (r *JSONFileRepository) Save(doc model.Document) error {
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal inventory: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", r.path, err)
	}
	return nil
}
