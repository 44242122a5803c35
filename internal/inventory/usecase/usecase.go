package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"stockbot/internal/inventory"
	"stockbot/internal/inventory/dto"
	"stockbot/internal/model"
	"stockbot/internal/movement"
)

type inventoryUseCase struct {
	mu      sync.RWMutex
	doc     model.Document
	repo    inventory.Repository
	journal movement.Journal
	logger  *zap.Logger
}

// NewInventoryUseCase loads the persisted document and returns the single
// owned store instance. A corrupted file is logged and replaced with an
// empty store rather than aborting startup.
func NewInventoryUseCase(repo inventory.Repository, journal movement.Journal, log *zap.Logger) inventory.UseCase {
	doc, err := repo.Load()
	if err != nil {
		log.Warn("failed to load inventory, starting empty", zap.Error(err))
		doc = model.NewDocument()
	}
	return &inventoryUseCase{
		doc:     doc,
		repo:    repo,
		journal: journal,
		logger:  log,
	}
}

func (uc *inventoryUseCase) Add(ctx context.Context, location model.Location, name string, quantity int, category *string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if !location.Valid() {
		return inventory.ErrLocationNotFound
	}
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", inventory.ErrInvalidInput)
	}
	if _, ok := uc.doc[location][name]; ok {
		return inventory.ErrItemExists
	}

	uc.doc[location][name] = model.Item{Quantity: quantity, Category: category}
	if err := uc.persist(); err != nil {
		return err
	}

	uc.logMovement(ctx, location, name, model.MovementAdd, quantity, 0, quantity, "")
	return nil
}

func (uc *inventoryUseCase) Edit(ctx context.Context, location model.Location, name string, newQuantity *int, newCategory *string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if !location.Valid() {
		return inventory.ErrLocationNotFound
	}
	item, ok := uc.doc[location][name]
	if !ok {
		return inventory.ErrItemNotFound
	}

	before := item.Quantity

	if newQuantity != nil {
		if *newQuantity < 0 {
			return fmt.Errorf("%w: quantity must not be negative", inventory.ErrInvalidInput)
		}
		// The store never keeps zero-quantity records: counting an item
		// down to nothing deletes it.
		if *newQuantity == 0 {
			delete(uc.doc[location], name)
			if err := uc.persist(); err != nil {
				return err
			}
			uc.logMovement(ctx, location, name, model.MovementEdit, -before, before, 0, "")
			return nil
		}
		item.Quantity = *newQuantity
	}
	if newCategory != nil {
		item.Category = newCategory
	}

	uc.doc[location][name] = item
	if err := uc.persist(); err != nil {
		return err
	}

	uc.logMovement(ctx, location, name, model.MovementEdit, item.Quantity-before, before, item.Quantity, "")
	return nil
}

func (uc *inventoryUseCase) Remove(ctx context.Context, location model.Location, name string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if !location.Valid() {
		return inventory.ErrLocationNotFound
	}
	item, ok := uc.doc[location][name]
	if !ok {
		return inventory.ErrItemNotFound
	}

	delete(uc.doc[location], name)
	if err := uc.persist(); err != nil {
		return err
	}

	uc.logMovement(ctx, location, name, model.MovementRemove, -item.Quantity, item.Quantity, 0, "")
	return nil
}

func (uc *inventoryUseCase) Get(location model.Location) map[string]model.Item {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return model.CloneItems(uc.doc[location])
}

func (uc *inventoryUseCase) GetAll() model.Document {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.doc.Clone()
}

func (uc *inventoryUseCase) Search(name string) map[model.Location]model.Item {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	results := map[model.Location]model.Item{}
	for _, loc := range model.Locations() {
		if item, ok := uc.doc[loc][name]; ok {
			results[loc] = item
		}
	}
	return results
}

func (uc *inventoryUseCase) Transfer(ctx context.Context, name string, quantity int) (model.Location, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if quantity <= 0 {
		return "", fmt.Errorf("%w: quantity must be positive", inventory.ErrInvalidInput)
	}
	stock, ok := uc.doc[model.Cupboard][name]
	if !ok {
		return "", inventory.ErrItemNotFound
	}
	if stock.Quantity < quantity {
		return "", inventory.ErrInsufficientStock
	}

	// Home location: the first refrigerator already stocking the item,
	// else the first refrigerator.
	target := model.Refrigerator1
	for _, loc := range model.Refrigerators() {
		if _, ok := uc.doc[loc][name]; ok {
			target = loc
			break
		}
	}

	cupboardBefore := stock.Quantity
	// Category of the cupboard record as it existed before the decrement;
	// carried over if the target record has to be created.
	carried := stock.Category
	stock.Quantity -= quantity
	if stock.Quantity == 0 {
		// The record goes away entirely, category included. A later
		// replenishment recreates it without one.
		delete(uc.doc[model.Cupboard], name)
	} else {
		uc.doc[model.Cupboard][name] = stock
	}

	targetBefore := 0
	if existing, ok := uc.doc[target][name]; ok {
		targetBefore = existing.Quantity
		existing.Quantity += quantity
		uc.doc[target][name] = existing
	} else {
		uc.doc[target][name] = model.Item{Quantity: quantity, Category: carried}
	}

	if err := uc.persist(); err != nil {
		return "", err
	}

	note := fmt.Sprintf("to %s", target)
	uc.logMovement(ctx, model.Cupboard, name, model.MovementTransferOut, -quantity, cupboardBefore, cupboardBefore-quantity, note)
	uc.logMovement(ctx, target, name, model.MovementTransferIn, quantity, targetBefore, targetBefore+quantity, "from cupboard")
	return target, nil
}

func (uc *inventoryUseCase) Receive(ctx context.Context, lines []dto.ReceiveLine) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	befores := make([]int, len(lines))
	for i, line := range lines {
		if existing, ok := uc.doc[model.Cupboard][line.Name]; ok {
			befores[i] = existing.Quantity
			existing.Quantity += line.Quantity
			uc.doc[model.Cupboard][line.Name] = existing
		} else {
			uc.doc[model.Cupboard][line.Name] = model.Item{Quantity: line.Quantity}
		}
	}

	// One durable write for the whole batch; a failure fails it uniformly.
	if err := uc.persist(); err != nil {
		return err
	}

	for i, line := range lines {
		uc.logMovement(ctx, model.Cupboard, line.Name, model.MovementReceive, line.Quantity, befores[i], befores[i]+line.Quantity, "")
	}
	return nil
}

func (uc *inventoryUseCase) CheckStock(threshold int) map[string]model.ReorderAdvice {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	fridgeItems := map[string]bool{}
	for _, loc := range model.Refrigerators() {
		for name := range uc.doc[loc] {
			fridgeItems[name] = true
		}
	}

	toOrder := map[string]model.ReorderAdvice{}
	for name := range fridgeItems {
		current := uc.doc[model.Cupboard][name].Quantity
		if current >= threshold {
			continue
		}
		totalInFridges := 0
		for _, loc := range model.Refrigerators() {
			totalInFridges += uc.doc[loc][name].Quantity
		}
		// Order half of what the fridges hold, but never less than 10.
		recommended := (totalInFridges + 1) / 2
		if recommended < 10 {
			recommended = 10
		}
		toOrder[name] = model.ReorderAdvice{Current: current, Recommended: recommended}
	}
	return toOrder
}

func (uc *inventoryUseCase) ExportReport() string {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	var b strings.Builder
	b.WriteString("=== INVENTORY ===\n")
	b.WriteString(fmt.Sprintf("Exported: %s\n\n", time.Now().Format("2006-01-02 15:04:05")))

	total := 0
	for _, loc := range model.Locations() {
		b.WriteString(strings.ToUpper(string(loc)) + ":\n")
		items := uc.doc[loc]
		if len(items) == 0 {
			b.WriteString("  Empty\n")
		} else {
			for _, name := range sortedNames(items) {
				item := items[name]
				b.WriteString(fmt.Sprintf("  - %s: %d pcs.", name, item.Quantity))
				if item.Category != nil && *item.Category != "" {
					b.WriteString(fmt.Sprintf(" (category: %s)", *item.Category))
				}
				b.WriteString("\n")
				total += item.Quantity
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("\nTOTAL: %d units\n", total))
	return b.String()
}

func (uc *inventoryUseCase) persist() error {
	if err := uc.repo.Save(uc.doc); err != nil {
		uc.logger.Error("failed to save inventory", zap.Error(err))
		return fmt.Errorf("%w: %v", inventory.ErrPersistence, err)
	}
	return nil
}

func (uc *inventoryUseCase) logMovement(ctx context.Context, location model.Location, item, kind string, change, before, after int, note string) {
	if uc.journal == nil {
		return
	}
	m := &model.Movement{
		ID:             uuid.New().String(),
		Location:       string(location),
		Item:           item,
		Kind:           kind,
		QuantityChange: change,
		QuantityBefore: before,
		QuantityAfter:  after,
		Note:           note,
		CreatedAt:      time.Now(),
	}
	if err := uc.journal.Log(ctx, m); err != nil {
		uc.logger.Error("failed to log movement",
			zap.String("kind", kind),
			zap.String("item", item),
			zap.Error(err),
		)
	}
}

func sortedNames(items map[string]model.Item) []string {
	names := make([]string, 0, len(items))
	for name := range items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
