package bot

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"stockbot/internal/inventory"
	"stockbot/internal/model"
	"stockbot/internal/movement"
	"stockbot/internal/stocktake"
)

// Bot routes chat messages onto the inventory core. Updates are processed
// strictly one at a time, so a turn's persistence completes before the
// next turn starts.
type Bot struct {
	client      *Client
	inv         inventory.UseCase
	journal     movement.Journal
	logger      *zap.Logger
	adminChatID int64
	threshold   int
	pollTimeout int

	convs map[int64]*conversation
}

type Config struct {
	AdminChatID      int64
	ReorderThreshold int
	PollTimeout      int
}

func New(client *Client, inv inventory.UseCase, journal movement.Journal, log *zap.Logger, cfg Config) *Bot {
	return &Bot{
		client:      client,
		inv:         inv,
		journal:     journal,
		logger:      log,
		adminChatID: cfg.AdminChatID,
		threshold:   cfg.ReorderThreshold,
		pollTimeout: cfg.PollTimeout,
		convs:       map[int64]*conversation{},
	}
}

// Run long-polls for updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) {
	b.logger.Info("starting update loop")
	var offset int64
	for {
		select {
		case <-ctx.Done():
			b.logger.Info("stopping update loop")
			return
		default:
		}

		updates, err := b.client.GetUpdates(ctx, offset, b.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			b.logger.Error("failed to get updates", zap.Error(err))
			time.Sleep(1 * time.Second)
			continue
		}

		for _, u := range updates {
			offset = u.UpdateID + 1
			if u.Message == nil || u.Message.Text == "" {
				continue
			}
			chatID := u.Message.Chat.ID
			if b.adminChatID != 0 && chatID != b.adminChatID {
				b.logger.Warn("ignoring message from unknown chat", zap.Int64("chat_id", chatID))
				continue
			}
			b.handleMessage(ctx, chatID, u.Message.Text)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, chatID int64, text string) {
	if text == cmdCancel {
		b.endConversation(chatID)
		b.send(ctx, chatID, "❌ Action cancelled.", mainKeyboard())
		return
	}

	if conv, ok := b.convs[chatID]; ok && conv.flow != flowNone {
		b.continueFlow(ctx, chatID, conv, text)
		return
	}

	switch text {
	case cmdStart:
		b.send(ctx, chatID, "🛒 Welcome to the stock tracker!\nUse the buttons below to manage the inventory.", mainKeyboard())
	case cmdHelp:
		b.send(ctx, chatID, helpText, mainKeyboard())
	case cmdMovements:
		b.sendMovements(ctx, chatID)
	case btnAdd:
		b.startAdd(ctx, chatID)
	case btnEdit:
		b.startEdit(ctx, chatID)
	case btnRemove:
		b.startRemove(ctx, chatID)
	case btnView:
		b.send(ctx, chatID, formatInventory(b.inv.GetAll()), mainKeyboard())
	case btnSearch:
		b.startSearch(ctx, chatID)
	case btnExport:
		b.sendExport(ctx, chatID)
	case btnReceive:
		b.startReceive(ctx, chatID)
	case btnFill:
		b.startFill(ctx, chatID)
	case btnCount:
		b.startCount(ctx, chatID)
	case btnCheck:
		b.send(ctx, chatID, formatStockReport(b.inv.CheckStock(b.threshold)), mainKeyboard())
	default:
		b.send(ctx, chatID, "Unrecognized command. Use the buttons below or /help.", mainKeyboard())
	}
}

const helpText = "📌 Commands:\n" +
	"/start - start\n" +
	"/help - this help\n" +
	"/cancel - abort the current action\n" +
	"/movements - recent stock movements\n\n" +
	"Functions:\n" +
	"• Add item - create a new record\n" +
	"• Edit item - change quantity or category\n" +
	"• Remove item - delete a record\n" +
	"• View inventory - show everything\n" +
	"• Search item - find an item by name\n" +
	"• Export report - download a TXT snapshot\n" +
	"• Receive goods - add deliveries to the cupboard\n" +
	"• Fill fridge - move stock from the cupboard\n" +
	"• Stock count - run a guided recount\n" +
	"• Check stock - list items to reorder"

func (b *Bot) sendExport(ctx context.Context, chatID int64) {
	report := b.inv.ExportReport()
	filename := fmt.Sprintf("inventory_export_%s.txt", time.Now().Format("20060102_150405"))
	if err := b.client.SendDocument(ctx, chatID, filename, strings.NewReader(report), "📤 Inventory export."); err != nil {
		b.logger.Error("failed to send export", zap.Error(err))
		b.send(ctx, chatID, "❌ Failed to send the export file.", mainKeyboard())
	}
}

func (b *Bot) sendMovements(ctx context.Context, chatID int64) {
	movements, err := b.journal.List(ctx, 20)
	if err != nil {
		b.logger.Error("failed to list movements", zap.Error(err))
		b.send(ctx, chatID, "❌ Failed to read the movement journal.", mainKeyboard())
		return
	}
	b.send(ctx, chatID, formatMovements(movements), mainKeyboard())
}

func (b *Bot) send(ctx context.Context, chatID int64, text string, markup interface{}) {
	if err := b.client.SendMessage(ctx, chatID, text, markup); err != nil {
		b.logger.Error("failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (b *Bot) endConversation(chatID int64) {
	delete(b.convs, chatID)
}

// --- message formatting ---

func formatInventory(doc model.Document) string {
	var sb strings.Builder
	sb.WriteString("📋 Current inventory:\n\n")
	for _, loc := range model.Locations() {
		sb.WriteString(fmt.Sprintf("📍 %s:\n", loc.Title()))
		items := doc[loc]
		if len(items) == 0 {
			sb.WriteString("  Empty\n")
		} else {
			names := make([]string, 0, len(items))
			for name := range items {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				item := items[name]
				sb.WriteString(fmt.Sprintf("  - %s: %d pcs.", name, item.Quantity))
				if item.Category != nil && *item.Category != "" {
					sb.WriteString(fmt.Sprintf(" (category: %s)", *item.Category))
				}
				sb.WriteString("\n")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatSearchResults(name string, results map[model.Location]model.Item) string {
	if len(results) == 0 {
		return fmt.Sprintf("❌ '%s' not found.", name)
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🔍 Search results for '%s':\n\n", name))
	for _, loc := range model.Locations() {
		item, ok := results[loc]
		if !ok {
			continue
		}
		sb.WriteString(fmt.Sprintf("📍 %s:\n", loc.Title()))
		sb.WriteString(fmt.Sprintf("  - Quantity: %d pcs.", item.Quantity))
		if item.Category != nil && *item.Category != "" {
			sb.WriteString(fmt.Sprintf("\n  - Category: %s", *item.Category))
		}
		sb.WriteString("\n\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatStockReport(toOrder map[string]model.ReorderAdvice) string {
	if len(toOrder) == 0 {
		return "✅ Everything is sufficiently stocked!"
	}

	names := make([]string, 0, len(toOrder))
	for name := range toOrder {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString("⚠️ The following items are running low:\n\n")
	for _, name := range names {
		advice := toOrder[name]
		sb.WriteString(fmt.Sprintf("- %s: %d left, recommended order %d pcs.\n", name, advice.Current, advice.Recommended))
	}

	sb.WriteString("\nGood afternoon, please deliver:\n")
	for _, name := range names {
		sb.WriteString(fmt.Sprintf("- %s: %d pcs.\n", name, toOrder[name].Recommended))
	}
	return sb.String()
}

func formatCountReport(r stocktake.Report) string {
	var sb strings.Builder
	sb.WriteString("📊 Count report:\n\n")

	var current model.Location
	for _, d := range r.Diffs {
		if d.Location != current {
			if current != "" {
				sb.WriteString("\n")
			}
			current = d.Location
			sb.WriteString(fmt.Sprintf("📍 %s:\n", d.Location.Title()))
		}
		sb.WriteString(fmt.Sprintf("  - %s: was %d, now %d (%+d)\n", d.Name, d.Old, d.New, d.Delta()))
	}
	if len(r.Diffs) == 0 {
		sb.WriteString("Nothing was counted.\n")
	}

	sb.WriteString(fmt.Sprintf("\nTotal change: %d", r.Total))
	sb.WriteString("\n\nApply the changes?")
	return sb.String()
}

func formatMovements(movements []model.Movement) string {
	if len(movements) == 0 {
		return "No stock movements recorded yet."
	}
	var sb strings.Builder
	sb.WriteString("🧾 Recent stock movements:\n\n")
	for _, m := range movements {
		sb.WriteString(fmt.Sprintf("%s  %s  %s: %+d (%d → %d)",
			m.CreatedAt.Format("2006-01-02 15:04"), m.Kind, m.Item,
			m.QuantityChange, m.QuantityBefore, m.QuantityAfter))
		if m.Note != "" {
			sb.WriteString(" " + m.Note)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
