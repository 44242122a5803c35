package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadEnvDefaults(t *testing.T) {
	cfg := LoadEnv()

	assert.Equal(t, "dev", cfg.App.Env)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Encoding)
	assert.Empty(t, cfg.Bot.Token)
	assert.Equal(t, int64(0), cfg.Bot.AdminChatID)
	assert.Equal(t, 30, cfg.Bot.PollTimeout)
	assert.Equal(t, "inventory.json", cfg.Storage.InventoryFile)
	assert.Equal(t, "movements.db", cfg.Storage.MovementsDB)
	assert.Equal(t, 10, cfg.Stock.ReorderThreshold)
	assert.Equal(t, 10, cfg.Stock.CheckHour)
	assert.Equal(t, 0, cfg.Stock.CheckMinute)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("LOGGER_LEVEL", "warn")
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("BOT_ADMIN_CHAT_ID", "987654321")
	t.Setenv("BOT_POLL_TIMEOUT", "60")
	t.Setenv("INVENTORY_FILE", "/data/inventory.json")
	t.Setenv("REORDER_THRESHOLD", "5")
	t.Setenv("LOGGER_DISABLE_CALLER", "true")

	cfg := LoadEnv()

	assert.Equal(t, "production", cfg.App.Env)
	assert.Equal(t, "warn", cfg.Logger.Level)
	assert.Equal(t, "123:abc", cfg.Bot.Token)
	assert.Equal(t, int64(987654321), cfg.Bot.AdminChatID)
	assert.Equal(t, 60, cfg.Bot.PollTimeout)
	assert.Equal(t, "/data/inventory.json", cfg.Storage.InventoryFile)
	assert.Equal(t, 5, cfg.Stock.ReorderThreshold)
	assert.True(t, cfg.Logger.DisableCaller)
}

func TestLoadEnvMalformedValuesFallBack(t *testing.T) {
	t.Setenv("BOT_POLL_TIMEOUT", "not-a-number")
	t.Setenv("BOT_ADMIN_CHAT_ID", "12.5")
	t.Setenv("LOGGER_DISABLE_STACKTRACE", "maybe")

	cfg := LoadEnv()

	assert.Equal(t, 30, cfg.Bot.PollTimeout)
	assert.Equal(t, int64(0), cfg.Bot.AdminChatID)
	assert.True(t, cfg.Logger.DisableStacktrace)
}
