package model

import "time"

// Movement kinds recorded in the journal.
const (
	MovementAdd         = "add"
	MovementEdit        = "edit"
	MovementRemove      = "remove"
	MovementTransferOut = "transfer_out"
	MovementTransferIn  = "transfer_in"
	MovementReceive     = "receive"
)

// Movement is one row of the append-only stock audit trail. The JSON
// document stays the source of truth; movements exist for operator review.
type Movement struct {
	ID             string    `db:"id"`
	Location       string    `db:"location"`
	Item           string    `db:"item"`
	Kind           string    `db:"kind"`
	QuantityChange int       `db:"quantity_change"`
	QuantityBefore int       `db:"quantity_before"`
	QuantityAfter  int       `db:"quantity_after"`
	Note           string    `db:"note"`
	CreatedAt      time.Time `db:"created_at"`
}
