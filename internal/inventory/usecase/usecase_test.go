package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stockbot/internal/inventory"
	"stockbot/internal/inventory/dto"
	"stockbot/internal/model"
)

// memRepo keeps the persisted document in memory and can be told to fail,
// so persistence semantics are testable without a filesystem.
type memRepo struct {
	saved   model.Document
	saves   int
	failure error
}

func (r *memRepo) Load() (model.Document, error) {
	if r.saved == nil {
		return model.NewDocument(), nil
	}
	return r.saved.Clone(), nil
}

func (r *memRepo) Save(doc model.Document) error {
	if r.failure != nil {
		return r.failure
	}
	r.saved = doc.Clone()
	r.saves++
	return nil
}

type memJournal struct {
	entries []model.Movement
}

func (j *memJournal) Log(_ context.Context, m *model.Movement) error {
	j.entries = append(j.entries, *m)
	return nil
}

func (j *memJournal) List(_ context.Context, limit int) ([]model.Movement, error) {
	return j.entries, nil
}

func newTestUseCase(t *testing.T) (inventory.UseCase, *memRepo, *memJournal) {
	t.Helper()
	repo := &memRepo{}
	journal := &memJournal{}
	return NewInventoryUseCase(repo, journal, zap.NewNop()), repo, journal
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestAdd(t *testing.T) {
	ctx := context.Background()

	t.Run("creates and persists the record", func(t *testing.T) {
		uc, repo, journal := newTestUseCase(t)

		err := uc.Add(ctx, model.Refrigerator1, "Cola", 5, strPtr("drinks"))

		require.NoError(t, err)
		assert.Equal(t, 5, repo.saved[model.Refrigerator1]["Cola"].Quantity)
		require.Len(t, journal.entries, 1)
		assert.Equal(t, model.MovementAdd, journal.entries[0].Kind)
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		uc, _, _ := newTestUseCase(t)
		require.NoError(t, uc.Add(ctx, model.Refrigerator1, "Cola", 5, nil))

		err := uc.Add(ctx, model.Refrigerator1, "Cola", 3, nil)

		assert.ErrorIs(t, err, inventory.ErrItemExists)
	})

	t.Run("same name may live in different locations", func(t *testing.T) {
		uc, _, _ := newTestUseCase(t)
		require.NoError(t, uc.Add(ctx, model.Refrigerator1, "Cola", 5, nil))

		assert.NoError(t, uc.Add(ctx, model.Cupboard, "Cola", 7, nil))
	})

	t.Run("rejects unknown location and non-positive quantity", func(t *testing.T) {
		uc, _, _ := newTestUseCase(t)

		assert.ErrorIs(t, uc.Add(ctx, model.Location("freezer"), "Cola", 5, nil), inventory.ErrLocationNotFound)
		assert.ErrorIs(t, uc.Add(ctx, model.Refrigerator1, "Cola", 0, nil), inventory.ErrInvalidInput)
	})

	t.Run("persistence failure fails the operation", func(t *testing.T) {
		repo := &memRepo{failure: errors.New("disk full")}
		uc := NewInventoryUseCase(repo, &memJournal{}, zap.NewNop())

		err := uc.Add(ctx, model.Refrigerator1, "Cola", 5, nil)

		assert.ErrorIs(t, err, inventory.ErrPersistence)
	})
}

func TestEdit(t *testing.T) {
	ctx := context.Background()

	t.Run("updates only the supplied fields", func(t *testing.T) {
		uc, _, _ := newTestUseCase(t)
		require.NoError(t, uc.Add(ctx, model.Refrigerator1, "Cola", 5, strPtr("drinks")))

		require.NoError(t, uc.Edit(ctx, model.Refrigerator1, "Cola", intPtr(8), nil))
		item := uc.Get(model.Refrigerator1)["Cola"]
		assert.Equal(t, 8, item.Quantity)
		require.NotNil(t, item.Category)
		assert.Equal(t, "drinks", *item.Category)

		require.NoError(t, uc.Edit(ctx, model.Refrigerator1, "Cola", nil, strPtr("soda")))
		item = uc.Get(model.Refrigerator1)["Cola"]
		assert.Equal(t, 8, item.Quantity)
		assert.Equal(t, "soda", *item.Category)
	})

	t.Run("quantity of zero removes the record", func(t *testing.T) {
		uc, _, _ := newTestUseCase(t)
		require.NoError(t, uc.Add(ctx, model.Refrigerator1, "Cola", 5, nil))

		require.NoError(t, uc.Edit(ctx, model.Refrigerator1, "Cola", intPtr(0), nil))

		assert.NotContains(t, uc.Get(model.Refrigerator1), "Cola")
	})

	t.Run("missing records are reported", func(t *testing.T) {
		uc, _, _ := newTestUseCase(t)

		assert.ErrorIs(t, uc.Edit(ctx, model.Refrigerator1, "Cola", intPtr(1), nil), inventory.ErrItemNotFound)
	})

	t.Run("negative quantity is rejected", func(t *testing.T) {
		uc, _, _ := newTestUseCase(t)
		require.NoError(t, uc.Add(ctx, model.Refrigerator1, "Cola", 5, nil))

		assert.ErrorIs(t, uc.Edit(ctx, model.Refrigerator1, "Cola", intPtr(-1), nil), inventory.ErrInvalidInput)
	})
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	uc, repo, _ := newTestUseCase(t)
	require.NoError(t, uc.Add(ctx, model.Cupboard, "Water", 3, nil))

	require.NoError(t, uc.Remove(ctx, model.Cupboard, "Water"))

	assert.Empty(t, uc.Get(model.Cupboard))
	assert.Empty(t, repo.saved[model.Cupboard])
	assert.ErrorIs(t, uc.Remove(ctx, model.Cupboard, "Water"), inventory.ErrItemNotFound)
}

func TestGetReturnsCopies(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newTestUseCase(t)
	require.NoError(t, uc.Add(ctx, model.Refrigerator1, "Cola", 5, nil))

	items := uc.Get(model.Refrigerator1)
	items["Cola"] = model.Item{Quantity: 999}
	delete(items, "Cola")

	assert.Equal(t, 5, uc.Get(model.Refrigerator1)["Cola"].Quantity)

	all := uc.GetAll()
	delete(all[model.Refrigerator1], "Cola")
	assert.Equal(t, 5, uc.Get(model.Refrigerator1)["Cola"].Quantity)
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newTestUseCase(t)
	require.NoError(t, uc.Add(ctx, model.Refrigerator2, "Cola", 5, nil))
	require.NoError(t, uc.Add(ctx, model.Cupboard, "Cola", 7, nil))

	results := uc.Search("Cola")

	require.Len(t, results, 2)
	assert.Equal(t, 5, results[model.Refrigerator2].Quantity)
	assert.Equal(t, 7, results[model.Cupboard].Quantity)
	assert.Empty(t, uc.Search("cola"), "search is case-sensitive")
}

func TestTransfer(t *testing.T) {
	ctx := context.Background()

	t.Run("moves to the refrigerator already stocking the item", func(t *testing.T) {
		uc, _, journal := newTestUseCase(t)
		require.NoError(t, uc.Add(ctx, model.Refrigerator2, "Cola", 4, nil))
		require.NoError(t, uc.Add(ctx, model.Cupboard, "Cola", 10, nil))
		journal.entries = nil

		target, err := uc.Transfer(ctx, "Cola", 3)

		require.NoError(t, err)
		assert.Equal(t, model.Refrigerator2, target)
		assert.Equal(t, 7, uc.Get(model.Cupboard)["Cola"].Quantity)
		assert.Equal(t, 7, uc.Get(model.Refrigerator2)["Cola"].Quantity)

		require.Len(t, journal.entries, 2)
		assert.Equal(t, model.MovementTransferOut, journal.entries[0].Kind)
		assert.Equal(t, model.MovementTransferIn, journal.entries[1].Kind)
	})

	t.Run("conserves total quantity", func(t *testing.T) {
		uc, _, _ := newTestUseCase(t)
		require.NoError(t, uc.Add(ctx, model.Refrigerator1, "Cola", 4, nil))
		require.NoError(t, uc.Add(ctx, model.Cupboard, "Cola", 10, nil))

		before := uc.Get(model.Cupboard)["Cola"].Quantity + uc.Get(model.Refrigerator1)["Cola"].Quantity

		_, err := uc.Transfer(ctx, "Cola", 6)
		require.NoError(t, err)

		after := uc.Get(model.Cupboard)["Cola"].Quantity + uc.Get(model.Refrigerator1)["Cola"].Quantity
		assert.Equal(t, before, after)
	})

	t.Run("defaults to the first refrigerator and carries the category", func(t *testing.T) {
		uc, _, _ := newTestUseCase(t)
		require.NoError(t, uc.Add(ctx, model.Cupboard, "Juice", 5, strPtr("drinks")))

		target, err := uc.Transfer(ctx, "Juice", 2)

		require.NoError(t, err)
		assert.Equal(t, model.Refrigerator1, target)
		item := uc.Get(model.Refrigerator1)["Juice"]
		assert.Equal(t, 2, item.Quantity)
		require.NotNil(t, item.Category)
		assert.Equal(t, "drinks", *item.Category)
	})

	t.Run("keeps the target's own category on merge", func(t *testing.T) {
		uc, _, _ := newTestUseCase(t)
		require.NoError(t, uc.Add(ctx, model.Refrigerator1, "Juice", 1, strPtr("fridge-label")))
		require.NoError(t, uc.Add(ctx, model.Cupboard, "Juice", 5, strPtr("cupboard-label")))

		_, err := uc.Transfer(ctx, "Juice", 2)

		require.NoError(t, err)
		assert.Equal(t, "fridge-label", *uc.Get(model.Refrigerator1)["Juice"].Category)
	})

	t.Run("record disappears at exactly zero, category included", func(t *testing.T) {
		uc, _, _ := newTestUseCase(t)
		require.NoError(t, uc.Add(ctx, model.Cupboard, "Juice", 5, strPtr("drinks")))

		_, err := uc.Transfer(ctx, "Juice", 5)
		require.NoError(t, err)
		assert.NotContains(t, uc.Get(model.Cupboard), "Juice")

		// The full transfer still carries the category to the new record.
		require.NotNil(t, uc.Get(model.Refrigerator1)["Juice"].Category)

		// Replenishing recreates the cupboard record with no category:
		// the label was lost when the record hit zero.
		require.NoError(t, uc.Receive(ctx, []dto.ReceiveLine{{Name: "Juice", Quantity: 3}}))
		assert.Nil(t, uc.Get(model.Cupboard)["Juice"].Category)
	})

	t.Run("failures", func(t *testing.T) {
		uc, _, _ := newTestUseCase(t)
		require.NoError(t, uc.Add(ctx, model.Cupboard, "Cola", 2, nil))

		_, err := uc.Transfer(ctx, "Water", 1)
		assert.ErrorIs(t, err, inventory.ErrItemNotFound)

		_, err = uc.Transfer(ctx, "Cola", 3)
		assert.ErrorIs(t, err, inventory.ErrInsufficientStock)

		_, err = uc.Transfer(ctx, "Cola", 0)
		assert.ErrorIs(t, err, inventory.ErrInvalidInput)
	})
}

func TestReceive(t *testing.T) {
	ctx := context.Background()

	t.Run("creates and merges cupboard records with one save", func(t *testing.T) {
		uc, repo, _ := newTestUseCase(t)
		require.NoError(t, uc.Add(ctx, model.Cupboard, "Water", 5, strPtr("drinks")))
		savesBefore := repo.saves

		err := uc.Receive(ctx, []dto.ReceiveLine{
			{Name: "Water", Quantity: 10},
			{Name: "Juice", Quantity: 4},
		})

		require.NoError(t, err)
		assert.Equal(t, savesBefore+1, repo.saves)
		assert.Equal(t, 15, uc.Get(model.Cupboard)["Water"].Quantity)
		assert.Equal(t, "drinks", *uc.Get(model.Cupboard)["Water"].Category)
		assert.Equal(t, 4, uc.Get(model.Cupboard)["Juice"].Quantity)
		assert.Nil(t, uc.Get(model.Cupboard)["Juice"].Category)
	})

	t.Run("persistence failure fails the whole batch", func(t *testing.T) {
		repo := &memRepo{failure: errors.New("disk full")}
		uc := NewInventoryUseCase(repo, &memJournal{}, zap.NewNop())

		err := uc.Receive(ctx, []dto.ReceiveLine{{Name: "Water", Quantity: 10}})

		assert.ErrorIs(t, err, inventory.ErrPersistence)
	})
}

func TestCheckStock(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) inventory.UseCase {
		uc, _, _ := newTestUseCase(t)
		require.NoError(t, uc.Add(ctx, model.Refrigerator1, "Cola", 30, nil))
		require.NoError(t, uc.Add(ctx, model.Refrigerator2, "Cola", 11, nil))
		require.NoError(t, uc.Add(ctx, model.Refrigerator1, "Water", 4, nil))
		require.NoError(t, uc.Add(ctx, model.Cupboard, "Cola", 9, nil))
		require.NoError(t, uc.Add(ctx, model.Cupboard, "Water", 10, nil))
		// Present only in the cupboard: never flagged.
		require.NoError(t, uc.Add(ctx, model.Cupboard, "Napkins", 1, nil))
		return uc
	}

	t.Run("flags items below threshold with the reorder formula", func(t *testing.T) {
		uc := setup(t)

		toOrder := uc.CheckStock(10)

		require.Len(t, toOrder, 1)
		advice := toOrder["Cola"]
		assert.Equal(t, 9, advice.Current)
		// ceil(41 * 0.5) = 21
		assert.Equal(t, 21, advice.Recommended)
	})

	t.Run("recommendation never drops below 10", func(t *testing.T) {
		uc, _, _ := newTestUseCase(t)
		require.NoError(t, uc.Add(ctx, model.Refrigerator1, "Cola", 3, nil))

		toOrder := uc.CheckStock(10)

		assert.Equal(t, model.ReorderAdvice{Current: 0, Recommended: 10}, toOrder["Cola"])
	})

	t.Run("item exactly at the threshold is excluded, one below is included", func(t *testing.T) {
		uc := setup(t)

		toOrder := uc.CheckStock(10)
		assert.NotContains(t, toOrder, "Water", "cupboard quantity 10 is at the threshold")

		toOrder = uc.CheckStock(11)
		assert.Contains(t, toOrder, "Water")
	})

	t.Run("is read-only and idempotent", func(t *testing.T) {
		uc := setup(t)
		before := uc.GetAll()

		first := uc.CheckStock(10)
		second := uc.CheckStock(10)

		assert.Equal(t, first, second)
		assert.Equal(t, before, uc.GetAll())
	})
}

func TestExportReport(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newTestUseCase(t)
	require.NoError(t, uc.Add(ctx, model.Refrigerator1, "Cola", 5, strPtr("drinks")))
	require.NoError(t, uc.Add(ctx, model.Cupboard, "Water", 7, nil))

	report := uc.ExportReport()

	assert.Contains(t, report, "=== INVENTORY ===")
	assert.Contains(t, report, "REFRIGERATOR_1:")
	assert.Contains(t, report, "- Cola: 5 pcs. (category: drinks)")
	assert.Contains(t, report, "- Water: 7 pcs.")
	assert.Contains(t, report, "REFRIGERATOR_2:\n  Empty")
	assert.Contains(t, report, "TOTAL: 12 units")
}

func TestRoundTripThroughRepository(t *testing.T) {
	ctx := context.Background()
	repo := &memRepo{}
	uc := NewInventoryUseCase(repo, &memJournal{}, zap.NewNop())

	require.NoError(t, uc.Add(ctx, model.Refrigerator1, "Cola", 5, strPtr("drinks")))
	require.NoError(t, uc.Add(ctx, model.Cupboard, "Water", 9, nil))
	require.NoError(t, uc.Edit(ctx, model.Refrigerator1, "Cola", intPtr(6), nil))
	require.NoError(t, uc.Remove(ctx, model.Cupboard, "Water"))

	// A second instance loaded from the same repository sees the exact
	// same state: load(save(S)) == S.
	reloaded := NewInventoryUseCase(repo, &memJournal{}, zap.NewNop())
	assert.Equal(t, uc.GetAll(), reloaded.GetAll())
}
