package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "token")
	t.Setenv("DATABASE_URL", "postgres://localhost/church")
	t.Setenv("ADMIN_TELEGRAM_ID", "42")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	for _, k := range []string{"NOTIFY_CHAT_ID", "REPORT_CHAT_ID", "LOG_LEVEL", "ENVIRONMENT", "CRON_SPEC_REMINDER_SCAN", "TIMEZONE"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AdminTelegramID != 42 || cfg.ReportChatID != 42 {
		t.Errorf("expected admin and report chat 42, got %d/%d", cfg.AdminTelegramID, cfg.ReportChatID)
	}
	if cfg.NotifyChatID != 0 {
		t.Errorf("expected notifications disabled by default, got %d", cfg.NotifyChatID)
	}
	if cfg.LogLevel != "info" || cfg.Environment != "development" {
		t.Errorf("unexpected defaults: %s/%s", cfg.LogLevel, cfg.Environment)
	}
	if cfg.CronSpecReminderScan != "0 * * * *" {
		t.Errorf("unexpected cron default %q", cfg.CronSpecReminderScan)
	}
	if cfg.Location.String() != "UTC" {
		t.Errorf("expected UTC location, got %s", cfg.Location)
	}
	if cfg.DBPool.MaxOpenConns != 5 || cfg.DBPool.MaxIdleConns != 2 || cfg.DBPool.ConnMaxLifetime != 30*time.Minute {
		t.Errorf("unexpected pool defaults %+v", cfg.DBPool)
	}
}

func TestLoadPoolOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("DB_MAX_OPEN_CONNS", "8")
	t.Setenv("DB_MAX_IDLE_CONNS", "8")
	t.Setenv("DB_CONN_MAX_LIFETIME", "1h")
	t.Setenv("DB_CONN_MAX_IDLE_TIME", "90s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := DBPoolConfig{MaxOpenConns: 8, MaxIdleConns: 8, ConnMaxLifetime: time.Hour, ConnMaxIdleTime: 90 * time.Second}
	if cfg.DBPool != want {
		t.Errorf("expected %+v, got %+v", want, cfg.DBPool)
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("NOTIFY_CHAT_ID", "-1001")
	t.Setenv("REPORT_CHAT_ID", "77")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("TIMEZONE", "America/Sao_Paulo")
	t.Setenv("METRICS_ADDR", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.NotifyChatID != -1001 || cfg.ReportChatID != 77 {
		t.Errorf("unexpected chat ids %d/%d", cfg.NotifyChatID, cfg.ReportChatID)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected lower-cased log level, got %s", cfg.LogLevel)
	}
	if cfg.Location.String() != "America/Sao_Paulo" {
		t.Errorf("unexpected location %s", cfg.Location)
	}
	if cfg.MetricsAddr != "" {
		t.Errorf("expected metrics disabled, got %q", cfg.MetricsAddr)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"missing token", "TELEGRAM_TOKEN", ""},
		{"missing database", "DATABASE_URL", ""},
		{"bad admin id", "ADMIN_TELEGRAM_ID", "abc"},
		{"bad notify chat", "NOTIFY_CHAT_ID", "x"},
		{"bad timezone", "TIMEZONE", "Mars/Olympus"},
		{"bad pool size", "DB_MAX_OPEN_CONNS", "0"},
		{"idle above open", "DB_MAX_IDLE_CONNS", "50"},
		{"bad lifetime", "DB_CONN_MAX_LIFETIME", "forever"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.val)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", tt.key, tt.val)
			}
		})
	}
}
