package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "environment: test\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if got := cfg.Exchanges.Priority; len(got) != 3 || got[0] != "binance" {
		t.Errorf("Exchanges.Priority = %v, want binance first of three", got)
	}
	if cfg.Scan.Interval != 15*time.Minute {
		t.Errorf("Scan.Interval = %v, want 15m", cfg.Scan.Interval)
	}
	if cfg.Signal.MinScore != 7.0 {
		t.Errorf("Signal.MinScore = %v, want 7.0", cfg.Signal.MinScore)
	}
	if cfg.Signal.DetailedThreshold != 8.5 {
		t.Errorf("Signal.DetailedThreshold = %v, want 8.5", cfg.Signal.DetailedThreshold)
	}
	if cfg.Signal.TechnicalWeight != 5.0 || cfg.Signal.FundingWeight != 3.0 || cfg.Signal.LiquidationWeight != 2.0 {
		t.Errorf("weights = %v/%v/%v, want 5/3/2",
			cfg.Signal.TechnicalWeight, cfg.Signal.FundingWeight, cfg.Signal.LiquidationWeight)
	}
	if cfg.Liquidation.Mode != "trades" {
		t.Errorf("Liquidation.Mode = %q, want trades", cfg.Liquidation.Mode)
	}
	if cfg.Telegram.Cooldown != 4*time.Hour {
		t.Errorf("Telegram.Cooldown = %v, want 4h", cfg.Telegram.Cooldown)
	}
}

func TestLoadExplicitValuesWin(t *testing.T) {
	path := writeConfig(t, `
environment: production
scan:
  timeframes: [15m, 1d]
  top_symbols: 50
signal:
  min_score: 6.5
  funding_weight: 4.0
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.Scan.Timeframes; len(got) != 2 || got[0] != "15m" || got[1] != "1d" {
		t.Errorf("Scan.Timeframes = %v, want [15m 1d]", got)
	}
	if cfg.Scan.TopSymbols != 50 {
		t.Errorf("Scan.TopSymbols = %d, want 50", cfg.Scan.TopSymbols)
	}
	if cfg.Signal.MinScore != 6.5 {
		t.Errorf("Signal.MinScore = %v, want 6.5", cfg.Signal.MinScore)
	}
	if cfg.Signal.FundingWeight != 4.0 {
		t.Errorf("Signal.FundingWeight = %v, want 4.0", cfg.Signal.FundingWeight)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing environment", "server:\n  port: 9999\n"},
		{"unknown exchange", "environment: test\nexchanges:\n  priority: [kraken]\n"},
		{"bad liquidation mode", "environment: test\nliquidation:\n  mode: guess\n"},
		{"telegram without token", "environment: test\ntelegram:\n  enabled: true\n"},
		{"kafka without brokers", "environment: test\nkafka:\n  enabled: true\n  brokers: []\n"},
		{"min score out of range", "environment: test\nsignal:\n  min_score: 11\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tc.body)); err == nil {
				t.Error("Load succeeded, want error")
			}
		})
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHAT_ID", "-100200300")
	t.Setenv("SCAN_TIMEFRAMES", "15m,1h")
	t.Setenv("SCAN_TOP_SYMBOLS", "30")

	path := writeConfig(t, "environment: test\ntelegram:\n  enabled: true\n  bot_token: from-file\n  chat_id: from-file\n")

	cfg, err := LoadWithEnv(path)
	if err != nil {
		t.Fatalf("LoadWithEnv: %v", err)
	}
	if cfg.Telegram.BotToken != "123:abc" {
		t.Errorf("BotToken = %q, want env value", cfg.Telegram.BotToken)
	}
	if cfg.Telegram.ChatID != "-100200300" {
		t.Errorf("ChatID = %q, want env value", cfg.Telegram.ChatID)
	}
	if got := cfg.Scan.Timeframes; len(got) != 2 || got[0] != "15m" {
		t.Errorf("Scan.Timeframes = %v, want [15m 1h]", got)
	}
	if cfg.Scan.TopSymbols != 30 {
		t.Errorf("Scan.TopSymbols = %d, want 30", cfg.Scan.TopSymbols)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load succeeded on a missing file, want error")
	}
}
