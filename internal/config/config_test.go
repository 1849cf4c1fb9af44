package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var envKeys = []string{
	"DB_TYPE", "DB_PATH", "DATABASE_URL", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID",
	"NOTIFICATION_START_HOUR", "NOTIFICATION_END_HOUR", "REMINDER_INTERVAL",
	"SM2_MAX_INTERVAL_DAYS", "WEAK_WORD_LIMIT",
}

// clearEnv unsets every variable Load reads and restores it afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(noEnvFile(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Driver() != "sqlite3" || cfg.DSN() != "data/wordnet.db" {
		t.Errorf("driver=%q dsn=%q", cfg.Driver(), cfg.DSN())
	}
	if cfg.ReminderInterval != time.Hour || cfg.MaxIntervalDays != 0 || cfg.WeakWordLimit != 10 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.TelegramEnabled() {
		t.Error("telegram should be disabled by default")
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_TYPE", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/wordnet?sslmode=disable")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHAT_ID", "42")
	t.Setenv("NOTIFICATION_START_HOUR", "7")
	t.Setenv("REMINDER_INTERVAL", "30m")
	t.Setenv("SM2_MAX_INTERVAL_DAYS", "365")

	cfg, err := Load(noEnvFile(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Driver() != "postgres" || cfg.DSN() != "postgres://localhost/wordnet?sslmode=disable" {
		t.Errorf("driver=%q dsn=%q", cfg.Driver(), cfg.DSN())
	}
	if !cfg.TelegramEnabled() || cfg.TelegramChatID != 42 {
		t.Errorf("telegram not configured: %+v", cfg)
	}
	if cfg.NotificationStartHour != 7 || cfg.NotificationEndHour != DefaultNotificationEndHour {
		t.Errorf("hours = %d-%d", cfg.NotificationStartHour, cfg.NotificationEndHour)
	}
	if cfg.ReminderInterval != 30*time.Minute || cfg.MaxIntervalDays != 365 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadDotEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("DB_PATH=/tmp/words.db\nWEAK_WORD_LIMIT=5\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "/tmp/words.db" || cfg.WeakWordLimit != 5 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"DB_TYPE", "mysql"},
		{"TELEGRAM_CHAT_ID", "abc"},
		{"NOTIFICATION_END_HOUR", "24"},
		{"REMINDER_INTERVAL", "soon"},
		{"SM2_MAX_INTERVAL_DAYS", "-1"},
		{"DB_TYPE", "postgres"}, // without DATABASE_URL
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			if _, err := Load(noEnvFile(t)); err == nil {
				t.Errorf("Load accepted %s=%q", tt.key, tt.value)
			}
		})
	}
}
