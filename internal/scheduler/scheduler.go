// Package scheduler fires the daily low-stock check and pushes the result
// to the admin chat.
package scheduler

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"stockbot/internal/model"
)

// StockChecker is the reorder advisor surface the scheduler reads.
type StockChecker interface {
	CheckStock(threshold int) map[string]model.ReorderAdvice
}

// Notifier delivers the report. Satisfied by the bot's Telegram client.
type Notifier interface {
	SendMessage(ctx context.Context, chatID int64, text string, markup interface{}) error
}

type StockCheck struct {
	inv       StockChecker
	notifier  Notifier
	logger    *zap.Logger
	chatID    int64
	threshold int
	hour      int
	minute    int
}

func NewStockCheck(inv StockChecker, notifier Notifier, log *zap.Logger, chatID int64, threshold, hour, minute int) *StockCheck {
	return &StockCheck{
		inv:       inv,
		notifier:  notifier,
		logger:    log,
		chatID:    chatID,
		threshold: threshold,
		hour:      hour,
		minute:    minute,
	}
}

// Run sleeps until the configured time of day, fires the check, and
// repeats daily until ctx is cancelled.
func (s *StockCheck) Run(ctx context.Context) {
	s.logger.Info("starting daily stock check",
		zap.Int("hour", s.hour),
		zap.Int("minute", s.minute),
	)
	for {
		timer := time.NewTimer(time.Until(nextRun(time.Now(), s.hour, s.minute)))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("stopping daily stock check")
			return
		case <-timer.C:
			s.check(ctx)
		}
	}
}

func (s *StockCheck) check(ctx context.Context) {
	toOrder := s.inv.CheckStock(s.threshold)
	if len(toOrder) == 0 {
		s.logger.Info("daily stock check: nothing below threshold")
		return
	}

	if err := s.notifier.SendMessage(ctx, s.chatID, formatReport(toOrder), nil); err != nil {
		s.logger.Error("failed to send stock check report", zap.Error(err))
		return
	}
	s.logger.Info("daily stock check report sent", zap.Int("items", len(toOrder)))
}

// nextRun returns the next occurrence of hour:minute strictly after now.
func nextRun(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next
}

func formatReport(toOrder map[string]model.ReorderAdvice) string {
	names := make([]string, 0, len(toOrder))
	for name := range toOrder {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString("🔔 Daily stock check:\n\n⚠️ The following items are running low:\n")
	for _, name := range names {
		advice := toOrder[name]
		sb.WriteString(fmt.Sprintf("- %s: %d left (recommended order %d pcs.)\n", name, advice.Current, advice.Recommended))
	}
	return sb.String()
}
