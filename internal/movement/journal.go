package movement

import (
	"context"

	"stockbot/internal/model"
)

// Journal is the append-only audit trail of stock mutations. The JSON
// inventory document stays the source of truth; a journal write failure
// never fails the stock operation that produced it.
type Journal interface {
	Log(ctx context.Context, m *model.Movement) error
	List(ctx context.Context, limit int) ([]model.Movement, error)
}
