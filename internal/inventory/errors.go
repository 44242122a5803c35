package inventory

import "errors"

// Sentinel errors let the transport layer pick the right operator message
// with errors.Is instead of matching strings.
var (
	ErrLocationNotFound  = errors.New("storage location not found")
	ErrItemNotFound      = errors.New("item not found")
	ErrItemExists        = errors.New("item already exists")
	ErrInsufficientStock = errors.New("insufficient stock in cupboard")
	ErrInvalidInput      = errors.New("invalid input")

	// ErrPersistence wraps a failed durable write. The in-memory state may
	// already reflect the attempted change; callers must treat the whole
	// operation as failed.
	ErrPersistence = errors.New("failed to persist inventory")
)
