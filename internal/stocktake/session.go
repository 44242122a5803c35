// Package stocktake drives a guided recount of every item in every
// location. The transport feeds one operator input per turn; nothing is
// written to the store until the operator confirms the diff report.
package stocktake

import (
	"context"
	"fmt"
	"sort"

	"stockbot/internal/expr"
	"stockbot/internal/inventory"
	"stockbot/internal/model"
)

// Inventory is the narrow view of the store a session needs.
type Inventory interface {
	Get(location model.Location) map[string]model.Item
	Edit(ctx context.Context, location model.Location, name string, newQuantity *int, newCategory *string) error
}

type State int

const (
	// StateCounting awaits a recount value for the current item.
	StateCounting State = iota
	// StateConfirm awaits a confirm/decline decision on the diff report.
	StateConfirm
	// StateApplied and StateDiscarded are terminal.
	StateApplied
	StateDiscarded
)

type countEntry struct {
	location model.Location
	name     string
	quantity int
}

// Session is the per-operator recount in progress. It is a plain value
// object owned by the transport conversation; the store is only touched
// through the injected Inventory.
type Session struct {
	inv      Inventory
	state    State
	order    []model.Location
	locIndex int
	// items is the snapshot of the current location's item names, taken
	// when the location is entered. Items added mid-session by other
	// means are not picked up.
	items     []string
	itemIndex int
	counted   []countEntry
}

// New starts a session over the fixed location order and positions it on
// the first item of the first non-empty location. With nothing stocked
// anywhere the session goes straight to confirmation with an empty report.
func New(inv Inventory) *Session {
	s := &Session{
		inv:   inv,
		order: model.Locations(),
	}
	s.enterLocation(0)
	return s
}

func (s *Session) State() State { return s.state }

// Current reports the location, item name, and stored quantity the session
// is waiting on. ok is false unless the session is counting.
func (s *Session) Current() (location model.Location, name string, quantity int, ok bool) {
	if s.state != StateCounting {
		return "", "", 0, false
	}
	location = s.order[s.locIndex]
	name = s.items[s.itemIndex]
	quantity = s.inv.Get(location)[name].Quantity
	return location, name, quantity, true
}

// Count records the operator's recount for the current item. The input may
// be an arithmetic expression; an unparsable or negative value returns an
// error and leaves the cursor where it is so the transport re-prompts.
func (s *Session) Count(input string) error {
	if s.state != StateCounting {
		return fmt.Errorf("no item awaiting a count")
	}

	value, err := expr.Eval(input)
	if err != nil {
		return fmt.Errorf("%w: %v", inventory.ErrInvalidInput, err)
	}
	if value < 0 {
		return fmt.Errorf("%w: quantity must not be negative", inventory.ErrInvalidInput)
	}

	s.counted = append(s.counted, countEntry{
		location: s.order[s.locIndex],
		name:     s.items[s.itemIndex],
		quantity: value,
	})

	s.itemIndex++
	if s.itemIndex >= len(s.items) {
		s.enterLocation(s.locIndex + 1)
	}
	return nil
}

// enterLocation positions the cursor on the first item of the next
// non-empty location, skipping empty ones with a plain loop. Running out
// of locations moves the session to confirmation.
func (s *Session) enterLocation(start int) {
	for i := start; i < len(s.order); i++ {
		items := s.inv.Get(s.order[i])
		if len(items) == 0 {
			continue
		}
		s.locIndex = i
		s.items = snapshotNames(items)
		s.itemIndex = 0
		s.state = StateCounting
		return
	}
	s.state = StateConfirm
}

// Diff is one line of the report: the stored quantity at report time
// against the recounted one.
type Diff struct {
	Location model.Location
	Name     string
	Old      int
	New      int
}

func (d Diff) Delta() int { return d.New - d.Old }

type Report struct {
	Diffs []Diff
	// Total is the sum of all signed differences, for display only.
	Total int
}

// Report builds the diff report against the store's current quantities at
// the time of the call, not the quantities seen while counting.
func (s *Session) Report() Report {
	var r Report
	for _, e := range s.counted {
		old := s.inv.Get(e.location)[e.name].Quantity
		d := Diff{Location: e.location, Name: e.name, Old: old, New: e.quantity}
		r.Diffs = append(r.Diffs, d)
		r.Total += d.Delta()
	}
	return r
}

// Confirm applies every recorded count as an unconditional quantity
// overwrite, in the order the items were counted. Each write persists
// independently; the first failure aborts and is returned, leaving the
// session in the confirmation state.
func (s *Session) Confirm(ctx context.Context) error {
	if s.state != StateConfirm {
		return fmt.Errorf("nothing to confirm")
	}
	for _, e := range s.counted {
		qty := e.quantity
		if err := s.inv.Edit(ctx, e.location, e.name, &qty, nil); err != nil {
			return err
		}
	}
	s.state = StateApplied
	return nil
}

// Decline discards the session without touching the store.
func (s *Session) Decline() {
	s.state = StateDiscarded
}

// snapshotNames fixes the visiting order for a location. Sorted so the
// walk is stable regardless of map iteration.
func snapshotNames(items map[string]model.Item) []string {
	names := make([]string, 0, len(items))
	for name := range items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
