package inventory

import (
	"context"

	"stockbot/internal/inventory/dto"
	"stockbot/internal/model"
)

type UseCase interface {
	// Add creates a new item record. Fails with ErrItemExists if the
	// location already holds an item of that name.
	Add(ctx context.Context, location model.Location, name string, quantity int, category *string) error

	// Edit applies only the supplied fields; a nil pointer leaves the
	// field unchanged. A new quantity of 0 removes the record entirely.
	Edit(ctx context.Context, location model.Location, name string, newQuantity *int, newCategory *string) error

	// Remove deletes the record.
	Remove(ctx context.Context, location model.Location, name string) error

	// Get returns a copy of one location's records.
	Get(location model.Location) map[string]model.Item

	// GetAll returns a copy of the whole store.
	GetAll() model.Document

	// Search returns every location holding an item of that exact name.
	Search(name string) map[model.Location]model.Item

	// Transfer moves quantity of an item from the cupboard to its home
	// refrigerator and reports which location received it.
	Transfer(ctx context.Context, name string, quantity int) (model.Location, error)

	// Receive merges a parsed goods list into the cupboard, persisting
	// once for the whole batch.
	Receive(ctx context.Context, lines []dto.ReceiveLine) error

	// CheckStock reports refrigerated items whose cupboard backstock is
	// below the threshold, with a recommended reorder quantity. Read-only.
	CheckStock(threshold int) map[string]model.ReorderAdvice

	// ExportReport renders a human-readable snapshot of the whole store.
	ExportReport() string
}
