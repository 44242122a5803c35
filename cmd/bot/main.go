package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"stockbot/config"
	"stockbot/internal/bot"
	invRepoPkg "stockbot/internal/inventory/repository"
	invUCPkg "stockbot/internal/inventory/usecase"
	"stockbot/internal/movement"
	"stockbot/internal/scheduler"
	"stockbot/pkg/logger"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.Config{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             "info",
		DisableCaller:     false,
		DisableStacktrace: false,
	}
	if cfg.App.Env == "dev" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = cfg.Logger.Encoding
		logConfig.Level = cfg.Logger.Level
		logConfig.DisableStacktrace = cfg.Logger.DisableStacktrace
	}

	appLogger := logger.New(logConfig)
	defer appLogger.Sync()

	if cfg.Bot.Token == "" {
		appLogger.Fatal("BOT_TOKEN is required")
	}

	// 3. Open the Movement Journal
	journal, err := movement.NewSQLiteJournal(cfg.Storage.MovementsDB)
	if err != nil {
		appLogger.Fatal("could not open movements db", zap.Error(err))
	}
	defer journal.Close()
	appLogger.Info("movement journal ready", zap.String("path", cfg.Storage.MovementsDB))

	// 4. Initialize Repository and UseCase
	invRepo := invRepoPkg.NewJSONFileRepository(cfg.Storage.InventoryFile)
	invUC := invUCPkg.NewInventoryUseCase(invRepo, journal, appLogger)
	appLogger.Info("inventory loaded", zap.String("path", cfg.Storage.InventoryFile))

	// 5. Initialize Telegram Client and Bot
	client := bot.NewClient(cfg.Bot.Token)
	tgBot := bot.New(client, invUC, journal, appLogger, bot.Config{
		AdminChatID:      cfg.Bot.AdminChatID,
		ReorderThreshold: cfg.Stock.ReorderThreshold,
		PollTimeout:      cfg.Bot.PollTimeout,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 6. Start the Daily Stock Check
	if cfg.Bot.AdminChatID != 0 {
		check := scheduler.NewStockCheck(
			invUC, client, appLogger,
			cfg.Bot.AdminChatID,
			cfg.Stock.ReorderThreshold,
			cfg.Stock.CheckHour, cfg.Stock.CheckMinute,
		)
		go check.Run(ctx)
	} else {
		appLogger.Warn("BOT_ADMIN_CHAT_ID not set, daily stock check disabled")
	}

	// 7. Run the Bot
	done := make(chan struct{})
	go func() {
		tgBot.Run(ctx)
		close(done)
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down...")
	cancel()
	<-done
	appLogger.Info("stopped")
}
