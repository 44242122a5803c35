package inventory

import "stockbot/internal/model"

// Repository persists the whole inventory document. The store is small
// enough (four locations of a few dozen items) that every mutation writes
// the full document.
type Repository interface {
	// Load reads the persisted document. A missing file is not an error:
	// it yields a fresh document with four empty locations.
	Load() (model.Document, error)

	// Save durably writes the document. The mutation that triggered the
	// save is not committed until Save returns nil.
	Save(doc model.Document) error
}
