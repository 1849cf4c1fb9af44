package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Default notification window, in hours of the local day
const (
	DefaultNotificationStartHour = 8
	DefaultNotificationEndHour   = 22
)

// Config represents the configuration of the review engine and its tools
type Config struct {
	// sqlite or postgres
	DBType string
	// SQLite database file
	DBPath string
	// PostgreSQL connection string
	DatabaseURL string

	// Telegram reminders are sent only when both are set
	TelegramToken  string
	TelegramChatID int64

	NotificationStartHour int
	NotificationEndHour   int
	ReminderInterval      time.Duration

	// Upper bound for SM-2 intervals in days, 0 means uncapped
	MaxIntervalDays int
	// Default number of words listed by the weak-word query
	WeakWordLimit int
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		DBType:                "sqlite",
		DBPath:                "data/wordnet.db",
		NotificationStartHour: DefaultNotificationStartHour,
		NotificationEndHour:   DefaultNotificationEndHour,
		ReminderInterval:      time.Hour,
		WeakWordLimit:         10,
	}
}

// Load reads the given .env files (".env" when none are given), then the
// environment. Missing .env files are ignored; malformed values are errors.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	cfg := DefaultConfig()
	if v := os.Getenv("DB_TYPE"); v != "" {
		if v != "sqlite" && v != "postgres" {
			return nil, fmt.Errorf("DB_TYPE must be sqlite or postgres, got %q", v)
		}
		cfg.DBType = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")

	var err error
	if cfg.TelegramChatID, err = int64Env("TELEGRAM_CHAT_ID", 0); err != nil {
		return nil, err
	}
	if cfg.NotificationStartHour, err = hourEnv("NOTIFICATION_START_HOUR", cfg.NotificationStartHour); err != nil {
		return nil, err
	}
	if cfg.NotificationEndHour, err = hourEnv("NOTIFICATION_END_HOUR", cfg.NotificationEndHour); err != nil {
		return nil, err
	}
	if v := os.Getenv("REMINDER_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("REMINDER_INTERVAL must be a positive duration, got %q", v)
		}
		cfg.ReminderInterval = d
	}
	if cfg.MaxIntervalDays, err = intEnv("SM2_MAX_INTERVAL_DAYS", 0); err != nil {
		return nil, err
	}
	if cfg.MaxIntervalDays < 0 {
		return nil, fmt.Errorf("SM2_MAX_INTERVAL_DAYS must not be negative")
	}
	if cfg.WeakWordLimit, err = intEnv("WEAK_WORD_LIMIT", cfg.WeakWordLimit); err != nil {
		return nil, err
	}

	if cfg.DBType == "postgres" && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required when DB_TYPE is postgres")
	}
	return cfg, nil
}

// Driver returns the database/sql driver name for DBType
func (c *Config) Driver() string {
	if c.DBType == "postgres" {
		return "postgres"
	}
	return "sqlite3"
}

// DSN returns the data source for the configured driver
func (c *Config) DSN() string {
	if c.DBType == "postgres" {
		return c.DatabaseURL
	}
	return c.DBPath
}

// TelegramEnabled reports whether reminders can be sent through Telegram
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func int64Env(key string, def int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func hourEnv(key string, def int) (int, error) {
	h, err := intEnv(key, def)
	if err != nil {
		return 0, err
	}
	if h < 0 || h > 23 {
		return 0, fmt.Errorf("%s must be between 0 and 23, got %d", key, h)
	}
	return h, nil
}
