package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"stockbot/internal/model"
	"stockbot/internal/stocktake"
)

func TestFormatInventory(t *testing.T) {
	category := "drinks"
	doc := model.NewDocument()
	doc[model.Refrigerator1]["Cola"] = model.Item{Quantity: 5, Category: &category}
	doc[model.Cupboard]["Water"] = model.Item{Quantity: 9}

	out := formatInventory(doc)

	assert.Contains(t, out, "📍 Refrigerator 1:\n  - Cola: 5 pcs. (category: drinks)")
	assert.Contains(t, out, "📍 Refrigerator 2:\n  Empty")
	assert.Contains(t, out, "📍 Cupboard:\n  - Water: 9 pcs.")
}

func TestFormatSearchResults(t *testing.T) {
	assert.Equal(t, "❌ 'Cola' not found.", formatSearchResults("Cola", nil))

	category := "drinks"
	out := formatSearchResults("Cola", map[model.Location]model.Item{
		model.Refrigerator2: {Quantity: 5, Category: &category},
		model.Cupboard:      {Quantity: 7},
	})

	assert.Contains(t, out, "🔍 Search results for 'Cola':")
	assert.Contains(t, out, "📍 Refrigerator 2:\n  - Quantity: 5 pcs.\n  - Category: drinks")
	assert.Contains(t, out, "📍 Cupboard:\n  - Quantity: 7 pcs.")
}

func TestFormatStockReport(t *testing.T) {
	assert.Equal(t, "✅ Everything is sufficiently stocked!", formatStockReport(nil))

	out := formatStockReport(map[string]model.ReorderAdvice{
		"Water": {Current: 4, Recommended: 12},
		"Cola":  {Current: 0, Recommended: 10},
	})

	assert.Contains(t, out, "- Cola: 0 left, recommended order 10 pcs.\n- Water: 4 left, recommended order 12 pcs.")
	// The supplier section repeats the list as a ready-to-send request.
	assert.Contains(t, out, "Good afternoon, please deliver:\n- Cola: 10 pcs.\n- Water: 12 pcs.")
}

func TestFormatCountReport(t *testing.T) {
	out := formatCountReport(stocktake.Report{
		Diffs: []stocktake.Diff{
			{Location: model.Refrigerator1, Name: "Cola", Old: 5, New: 8},
			{Location: model.Refrigerator1, Name: "Milk", Old: 2, New: 2},
			{Location: model.Cupboard, Name: "Water", Old: 10, New: 9},
		},
		Total: 2,
	})

	assert.Contains(t, out, "📍 Refrigerator 1:\n  - Cola: was 5, now 8 (+3)\n  - Milk: was 2, now 2 (+0)")
	assert.Contains(t, out, "📍 Cupboard:\n  - Water: was 10, now 9 (-1)")
	assert.Contains(t, out, "Total change: 2")
	assert.Contains(t, out, "Apply the changes?")

	empty := formatCountReport(stocktake.Report{})
	assert.Contains(t, empty, "Nothing was counted.")
}

func TestFormatMovements(t *testing.T) {
	assert.Equal(t, "No stock movements recorded yet.", formatMovements(nil))

	out := formatMovements([]model.Movement{{
		Location:       string(model.Cupboard),
		Item:           "Cola",
		Kind:           model.MovementReceive,
		QuantityChange: 10,
		QuantityBefore: 5,
		QuantityAfter:  15,
		CreatedAt:      time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC),
	}})

	assert.Contains(t, out, "2025-03-01 12:30  receive  Cola: +10 (5 → 15)")
}

func TestItemsKeyboardLayout(t *testing.T) {
	kb := itemsKeyboard([]string{"Cola", "Milk", "Water"})

	assert.Equal(t, [][]string{
		{"Cola", "Milk"},
		{"Water"},
		{cmdCancel},
	}, kb.Keyboard)
	assert.True(t, kb.ResizeKeyboard)
}
