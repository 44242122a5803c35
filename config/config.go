package config

import (
	"os"
	"strconv"
)

type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Bot     BotConfig
	Storage StorageConfig
	Stock   StockConfig
}

type AppConfig struct {
	Env string
}

type LoggerConfig struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
}

type BotConfig struct {
	Token       string
	AdminChatID int64
	PollTimeout int
}

type StorageConfig struct {
	InventoryFile string
	MovementsDB   string
}

type StockConfig struct {
	ReorderThreshold int
	CheckHour        int
	CheckMinute      int
}

func LoadEnv() *Config {
	return &Config{
		App: AppConfig{
			Env: getEnv("APP_ENV", "dev"),
		},
		Logger: LoggerConfig{
			Level:             getEnv("LOGGER_LEVEL", "debug"),
			Encoding:          getEnv("LOGGER_ENCODING", "console"),
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", true),
		},
		Bot: BotConfig{
			Token:       getEnv("BOT_TOKEN", ""),
			AdminChatID: getEnvInt64("BOT_ADMIN_CHAT_ID", 0),
			PollTimeout: getEnvInt("BOT_POLL_TIMEOUT", 30),
		},
		Storage: StorageConfig{
			InventoryFile: getEnv("INVENTORY_FILE", "inventory.json"),
			MovementsDB:   getEnv("MOVEMENTS_DB", "movements.db"),
		},
		Stock: StockConfig{
			ReorderThreshold: getEnvInt("REORDER_THRESHOLD", 10),
			CheckHour:        getEnvInt("STOCK_CHECK_HOUR", 10),
			CheckMinute:      getEnvInt("STOCK_CHECK_MINUTE", 0),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}
