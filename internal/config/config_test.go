package config

import (
	"strings"
	"testing"

	"github.com/classworks/classbot/internal/database"
)

func validConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{
			Token:    "123:abc",
			AdminIDs: []int64{1293507674, 5061560776},
		},
		Database: database.Config{
			Host: "localhost",
			Port: "5432",
			User: "classbot",
			Name: "classbot",
		},
	}
}

func TestNormalizeDefaultsToLongpoll(t *testing.T) {
	cfg := validConfig()
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run_mode = %q, expected %q", cfg.Telegram.RunMode, RunModeLongpoll)
	}
}

func TestNormalizeRequiresToken(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.Token = ""
	err := Normalize(cfg)
	if err == nil {
		t.Fatal("expected error for missing token")
	}
	if !strings.Contains(err.Error(), "token") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNormalizeRequiresDatabase(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Host = ""
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for missing database host")
	}
}

func TestNormalizeDeduplicatesAdmins(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.AdminIDs = []int64{7, 7, 9}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(cfg.Telegram.AdminIDs) != 2 {
		t.Fatalf("admin_ids = %v, expected deduplicated pair", cfg.Telegram.AdminIDs)
	}
}

func TestNormalizeRejectsZeroAdmin(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.AdminIDs = []int64{0}
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for zero admin id")
	}
}

func TestNormalizeWebhookValidation(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "webhook"
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for webhook mode without url")
	}
	cfg.Webhook.URL = "https://example.com/hook"
	cfg.Webhook.Listen = "0.0.0.0"
	cfg.Webhook.Port = 8443
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize webhook: %v", err)
	}
}

func TestNormalizeRateLimitExclusions(t *testing.T) {
	cfg := validConfig()
	cfg.RateLimit.ExcludeUpdates = []string{" Callback "}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.RateLimit.ExcludeUpdates[0] != "callback" {
		t.Fatalf("exclude = %q, expected normalized 'callback'", cfg.RateLimit.ExcludeUpdates[0])
	}

	cfg.RateLimit.ExcludeUpdates = []string{"inline_query"}
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for unsupported exclusion")
	}
}
