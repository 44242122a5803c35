package bot

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"stockbot/internal/inventory"
	"stockbot/internal/inventory/dto"
	"stockbot/internal/model"
	"stockbot/internal/stocktake"
)

// flow identifies the step a multi-turn conversation is waiting on.
type flow int

const (
	flowNone flow = iota

	flowAddLocation
	flowAddName
	flowAddQuantity
	flowAddCategory

	flowEditLocation
	flowEditName
	flowEditQuantity
	flowEditCategory

	flowRemoveLocation
	flowRemoveName

	flowSearchName

	flowReceiveGoods

	flowFillItem
	flowFillQuantity

	flowCountItem
	flowCountConfirm
)

// conversation is the per-chat state of whatever multi-step flow the
// operator is in the middle of. One value per chat, replaced on /cancel.
type conversation struct {
	flow flow

	location model.Location
	name     string
	quantity int

	newQuantity *int

	fillItem string

	session *stocktake.Session
}

// skipField is the operator's way to leave an optional field unchanged.
const skipField = "-"

func (b *Bot) continueFlow(ctx context.Context, chatID int64, conv *conversation, text string) {
	switch conv.flow {
	case flowAddLocation:
		b.addLocationStep(ctx, chatID, conv, text)
	case flowAddName:
		conv.name = text
		conv.flow = flowAddQuantity
		b.send(ctx, chatID, "Enter the quantity:", nil)
	case flowAddQuantity:
		qty, err := strconv.Atoi(text)
		if err != nil || qty <= 0 {
			b.send(ctx, chatID, "Please enter a positive whole number.", nil)
			return
		}
		conv.quantity = qty
		conv.flow = flowAddCategory
		b.send(ctx, chatID, "Enter the category (or send '-' to skip):", nil)
	case flowAddCategory:
		b.addCategoryStep(ctx, chatID, conv, text)

	case flowEditLocation:
		b.editLocationStep(ctx, chatID, conv, text)
	case flowEditName:
		b.editNameStep(ctx, chatID, conv, text)
	case flowEditQuantity:
		b.editQuantityStep(ctx, chatID, conv, text)
	case flowEditCategory:
		b.editCategoryStep(ctx, chatID, conv, text)

	case flowRemoveLocation:
		b.removeLocationStep(ctx, chatID, conv, text)
	case flowRemoveName:
		b.removeNameStep(ctx, chatID, conv, text)

	case flowSearchName:
		b.endConversation(chatID)
		b.send(ctx, chatID, formatSearchResults(text, b.inv.Search(text)), mainKeyboard())

	case flowReceiveGoods:
		b.receiveGoodsStep(ctx, chatID, text)

	case flowFillItem:
		b.fillItemStep(ctx, chatID, conv, text)
	case flowFillQuantity:
		b.fillQuantityStep(ctx, chatID, conv, text)

	case flowCountItem:
		b.countItemStep(ctx, chatID, conv, text)
	case flowCountConfirm:
		b.countConfirmStep(ctx, chatID, conv, text)
	}
}

// --- add ---

func (b *Bot) startAdd(ctx context.Context, chatID int64) {
	b.convs[chatID] = &conversation{flow: flowAddLocation}
	b.send(ctx, chatID, "Choose a storage location:", locationsKeyboard())
}

func (b *Bot) addLocationStep(ctx context.Context, chatID int64, conv *conversation, text string) {
	loc, ok := model.LocationFromTitle(text)
	if !ok {
		b.send(ctx, chatID, "Please pick a location from the keyboard.", locationsKeyboard())
		return
	}
	conv.location = loc
	conv.flow = flowAddName
	b.send(ctx, chatID, "Enter the item name:", removeKeyboard())
}

func (b *Bot) addCategoryStep(ctx context.Context, chatID int64, conv *conversation, text string) {
	var category *string
	if text != skipField {
		category = &text
	}

	err := b.inv.Add(ctx, conv.location, conv.name, conv.quantity, category)
	b.endConversation(chatID)

	switch {
	case err == nil:
		b.send(ctx, chatID, fmt.Sprintf("✅ '%s' added to %s.", conv.name, conv.location.Title()), mainKeyboard())
	case errors.Is(err, inventory.ErrItemExists):
		b.send(ctx, chatID, fmt.Sprintf("❌ '%s' already exists in %s.", conv.name, conv.location.Title()), mainKeyboard())
	default:
		b.send(ctx, chatID, fmt.Sprintf("❌ Failed to add '%s': %v", conv.name, err), mainKeyboard())
	}
}

// --- edit ---

func (b *Bot) startEdit(ctx context.Context, chatID int64) {
	b.convs[chatID] = &conversation{flow: flowEditLocation}
	b.send(ctx, chatID, "Choose a storage location:", locationsKeyboard())
}

func (b *Bot) editLocationStep(ctx context.Context, chatID int64, conv *conversation, text string) {
	loc, ok := model.LocationFromTitle(text)
	if !ok {
		b.send(ctx, chatID, "Please pick a location from the keyboard.", locationsKeyboard())
		return
	}

	items := b.inv.Get(loc)
	if len(items) == 0 {
		b.endConversation(chatID)
		b.send(ctx, chatID, fmt.Sprintf("❌ Nothing to edit in %s.", loc.Title()), mainKeyboard())
		return
	}

	conv.location = loc
	conv.flow = flowEditName
	b.send(ctx, chatID, fmt.Sprintf("Items in %s:\n%s\n\nEnter the item name to edit:", loc.Title(), bulletList(items)), removeKeyboard())
}

func (b *Bot) editNameStep(ctx context.Context, chatID int64, conv *conversation, text string) {
	item, ok := b.inv.Get(conv.location)[text]
	if !ok {
		b.endConversation(chatID)
		b.send(ctx, chatID, fmt.Sprintf("❌ '%s' not found in %s.", text, conv.location.Title()), mainKeyboard())
		return
	}

	conv.name = text
	conv.flow = flowEditQuantity
	b.send(ctx, chatID, fmt.Sprintf(
		"✏️ Editing '%s':\nCurrent quantity: %d\nCurrent category: %s\n\nEnter the new quantity (or '-' to keep it):",
		text, item.Quantity, categoryLabel(item.Category),
	), nil)
}

func (b *Bot) editQuantityStep(ctx context.Context, chatID int64, conv *conversation, text string) {
	if text != skipField {
		qty, err := strconv.Atoi(text)
		if err != nil || qty <= 0 {
			b.send(ctx, chatID, "Please enter a positive whole number or '-'.", nil)
			return
		}
		conv.newQuantity = &qty
	}
	conv.flow = flowEditCategory
	b.send(ctx, chatID, "Enter the new category (or '-' to keep it):", nil)
}

func (b *Bot) editCategoryStep(ctx context.Context, chatID int64, conv *conversation, text string) {
	var newCategory *string
	if text != skipField {
		newCategory = &text
	}

	err := b.inv.Edit(ctx, conv.location, conv.name, conv.newQuantity, newCategory)
	b.endConversation(chatID)

	if err != nil {
		b.send(ctx, chatID, fmt.Sprintf("❌ Failed to update '%s': %v", conv.name, err), mainKeyboard())
		return
	}
	b.send(ctx, chatID, fmt.Sprintf("✅ '%s' updated.", conv.name), mainKeyboard())
}

// --- remove ---

func (b *Bot) startRemove(ctx context.Context, chatID int64) {
	b.convs[chatID] = &conversation{flow: flowRemoveLocation}
	b.send(ctx, chatID, "Choose a storage location:", locationsKeyboard())
}

func (b *Bot) removeLocationStep(ctx context.Context, chatID int64, conv *conversation, text string) {
	loc, ok := model.LocationFromTitle(text)
	if !ok {
		b.send(ctx, chatID, "Please pick a location from the keyboard.", locationsKeyboard())
		return
	}

	items := b.inv.Get(loc)
	if len(items) == 0 {
		b.endConversation(chatID)
		b.send(ctx, chatID, fmt.Sprintf("❌ Nothing to remove in %s.", loc.Title()), mainKeyboard())
		return
	}

	conv.location = loc
	conv.flow = flowRemoveName
	b.send(ctx, chatID, fmt.Sprintf("Items in %s:\n%s\n\nEnter the item name to remove:", loc.Title(), bulletList(items)), removeKeyboard())
}

func (b *Bot) removeNameStep(ctx context.Context, chatID int64, conv *conversation, text string) {
	err := b.inv.Remove(ctx, conv.location, text)
	b.endConversation(chatID)

	switch {
	case err == nil:
		b.send(ctx, chatID, fmt.Sprintf("✅ '%s' removed from %s.", text, conv.location.Title()), mainKeyboard())
	case errors.Is(err, inventory.ErrItemNotFound):
		b.send(ctx, chatID, fmt.Sprintf("❌ '%s' not found in %s.", text, conv.location.Title()), mainKeyboard())
	default:
		b.send(ctx, chatID, fmt.Sprintf("❌ Failed to remove '%s': %v", text, err), mainKeyboard())
	}
}

// --- search ---

func (b *Bot) startSearch(ctx context.Context, chatID int64) {
	b.convs[chatID] = &conversation{flow: flowSearchName}
	b.send(ctx, chatID, "🔍 Enter the item name to search for:", removeKeyboard())
}

// --- receive ---

func (b *Bot) startReceive(ctx context.Context, chatID int64) {
	b.convs[chatID] = &conversation{flow: flowReceiveGoods}
	b.send(ctx, chatID,
		"📦 Send the received goods, one per line, as:\n"+
			"Name Quantity\n"+
			"For example:\n"+
			"Cola 10\n"+
			"Red Bull 0.5 5",
		removeKeyboard())
}

func (b *Bot) receiveGoodsStep(ctx context.Context, chatID int64, text string) {
	lines, lineErrs := dto.ParseGoodsList(text)
	if len(lines) == 0 {
		b.send(ctx, chatID, "❌ Could not parse any items. Try again:", nil)
		return
	}

	err := b.inv.Receive(ctx, lines)
	b.endConversation(chatID)
	if err != nil {
		b.send(ctx, chatID, fmt.Sprintf("❌ Failed to add goods to the cupboard: %v", err), mainKeyboard())
		return
	}

	var report strings.Builder
	report.WriteString("✅ Added to the cupboard:\n")
	for _, line := range lines {
		report.WriteString(fmt.Sprintf("  - %s: +%d\n", line.Name, line.Quantity))
	}
	if len(lineErrs) > 0 {
		report.WriteString("\nErrors:\n")
		for _, e := range lineErrs {
			report.WriteString("  ❌ " + e + "\n")
		}
	}
	b.send(ctx, chatID, report.String(), mainKeyboard())
}

// --- fill fridge ---

func (b *Bot) startFill(ctx context.Context, chatID int64) {
	cupboard := b.inv.Get(model.Cupboard)
	if len(cupboard) == 0 {
		b.send(ctx, chatID, "❌ The cupboard is empty, nothing to move.", mainKeyboard())
		return
	}

	names := make([]string, 0, len(cupboard))
	for name := range cupboard {
		names = append(names, name)
	}
	sort.Strings(names)

	b.convs[chatID] = &conversation{flow: flowFillItem}
	b.send(ctx, chatID, "📥 Pick an item to move out of the cupboard:", itemsKeyboard(names))
}

func (b *Bot) fillItemStep(ctx context.Context, chatID int64, conv *conversation, text string) {
	item, ok := b.inv.Get(model.Cupboard)[text]
	if !ok {
		b.send(ctx, chatID, "❌ Not found in the cupboard. Pick another item:", nil)
		return
	}
	conv.fillItem = text
	conv.flow = flowFillQuantity
	b.send(ctx, chatID, fmt.Sprintf("How many of '%s' to move? (available: %d)", text, item.Quantity), removeKeyboard())
}

func (b *Bot) fillQuantityStep(ctx context.Context, chatID int64, conv *conversation, text string) {
	qty, err := strconv.Atoi(text)
	if err != nil || qty <= 0 {
		b.send(ctx, chatID, "❌ Please enter a positive whole number:", nil)
		return
	}

	target, err := b.inv.Transfer(ctx, conv.fillItem, qty)
	switch {
	case err == nil:
		b.endConversation(chatID)
		b.send(ctx, chatID, fmt.Sprintf("✅ '%s' (%d pcs.) moved to %s.", conv.fillItem, qty, target.Title()), mainKeyboard())
	case errors.Is(err, inventory.ErrInsufficientStock):
		available := b.inv.Get(model.Cupboard)[conv.fillItem].Quantity
		b.send(ctx, chatID, fmt.Sprintf("❌ Not enough stock. Available: %d", available), nil)
	case errors.Is(err, inventory.ErrItemNotFound):
		b.endConversation(chatID)
		b.send(ctx, chatID, "❌ The item is no longer in the cupboard.", mainKeyboard())
	default:
		b.endConversation(chatID)
		b.send(ctx, chatID, fmt.Sprintf("❌ Transfer failed: %v", err), mainKeyboard())
	}
}

// --- stock count ---

func (b *Bot) startCount(ctx context.Context, chatID int64) {
	session := stocktake.New(b.inv)
	conv := &conversation{session: session}
	b.convs[chatID] = conv

	if session.State() == stocktake.StateConfirm {
		conv.flow = flowCountConfirm
		b.send(ctx, chatID, formatCountReport(session.Report()), yesNoKeyboard())
		return
	}

	conv.flow = flowCountItem
	loc, name, qty, _ := session.Current()
	b.send(ctx, chatID, fmt.Sprintf(
		"🔢 Counting %s:\nItem: %s\nStored quantity: %d\n\nEnter the counted quantity (expressions like 1+1 or 4x8+4x7 work):",
		loc.Title(), name, qty,
	), removeKeyboard())
}

func (b *Bot) countItemStep(ctx context.Context, chatID int64, conv *conversation, text string) {
	if err := conv.session.Count(text); err != nil {
		b.send(ctx, chatID, "❌ Invalid expression. Try again:", nil)
		return
	}

	if conv.session.State() == stocktake.StateConfirm {
		conv.flow = flowCountConfirm
		b.send(ctx, chatID, formatCountReport(conv.session.Report()), yesNoKeyboard())
		return
	}

	loc, name, qty, _ := conv.session.Current()
	b.send(ctx, chatID, fmt.Sprintf(
		"📍 %s\nItem: %s\nStored quantity: %d\n\nEnter the counted quantity:",
		loc.Title(), name, qty,
	), nil)
}

func (b *Bot) countConfirmStep(ctx context.Context, chatID int64, conv *conversation, text string) {
	switch strings.ToLower(text) {
	case strings.ToLower(btnYes):
		if err := conv.session.Confirm(ctx); err != nil {
			b.endConversation(chatID)
			b.send(ctx, chatID, fmt.Sprintf("❌ Failed to apply the changes: %v", err), mainKeyboard())
			return
		}
		b.endConversation(chatID)
		b.send(ctx, chatID, "✅ Changes applied.", mainKeyboard())
	case strings.ToLower(btnNo):
		conv.session.Decline()
		b.endConversation(chatID)
		b.send(ctx, chatID, "❌ Changes discarded.", mainKeyboard())
	default:
		b.send(ctx, chatID, "Please answer Yes or No.", yesNoKeyboard())
	}
}

func categoryLabel(category *string) string {
	if category == nil || *category == "" {
		return "not set"
	}
	return *category
}

func bulletList(items map[string]model.Item) string {
	names := make([]string, 0, len(items))
	for name := range items {
		names = append(names, name)
	}
	sort.Strings(names)
	for i, name := range names {
		names[i] = "- " + name
	}
	return strings.Join(names, "\n")
}
