package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigurationEmptyPathUsesDefaults(t *testing.T) {
	conf, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if conf.Server.Address != ":8080" {
		t.Errorf("Server.Address = %q, expected :8080", conf.Server.Address)
	}
	if conf.Defaults.TargetRatio != 0.35 {
		t.Errorf("Defaults.TargetRatio = %v, expected 0.35", conf.Defaults.TargetRatio)
	}
	if conf.Defaults.RentRetention != 0.70 {
		t.Errorf("Defaults.RentRetention = %v, expected 0.70", conf.Defaults.RentRetention)
	}
	if conf.Cache.RedisAddress != "" {
		t.Errorf("Cache.RedisAddress = %q, expected disabled cache", conf.Cache.RedisAddress)
	}
}

func TestLoadConfigurationFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  address: ":9090"
logging:
  level: debug
  format: console
cache:
  redisAddress: "localhost:6379"
  ttlSeconds: 300
defaults:
  targetRatio: 0.33
  tmi: 0.11
  ps: 0.172
  loan:
    principal: 150000
    annualRate: 0.025
    years: 25
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	conf, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if conf.Server.Address != ":9090" {
		t.Errorf("Server.Address = %q, expected :9090", conf.Server.Address)
	}
	if conf.Logging.Level != "debug" || conf.Logging.Format != "console" {
		t.Errorf("Logging = %+v, expected debug/console", conf.Logging)
	}
	if conf.Cache.RedisAddress != "localhost:6379" || conf.Cache.TTLSeconds != 300 {
		t.Errorf("Cache = %+v, expected localhost:6379 with 300s TTL", conf.Cache)
	}
	if conf.Defaults.TargetRatio != 0.33 {
		t.Errorf("Defaults.TargetRatio = %v, expected 0.33", conf.Defaults.TargetRatio)
	}
	if conf.Defaults.Loan.Years != 25 {
		t.Errorf("Defaults.Loan.Years = %v, expected 25", conf.Defaults.Loan.Years)
	}
	// Unset retention falls back to the default.
	if conf.Defaults.RentRetention != 0.70 {
		t.Errorf("Defaults.RentRetention = %v, expected 0.70 fallback", conf.Defaults.RentRetention)
	}
}

func TestLoadConfigurationMissingFile(t *testing.T) {
	if _, err := LoadConfiguration("/nonexistent/config.yaml"); err == nil {
		t.Errorf("LoadConfiguration() expected error for missing file")
	}
}

func TestValidateWarnings(t *testing.T) {
	conf := DefaultConfiguration()
	if warnings := conf.Validate(); len(warnings) != 0 {
		t.Errorf("default configuration produced warnings: %v", warnings)
	}

	conf.Defaults.TargetRatio = 0.60
	conf.Defaults.TMI = 0.90
	conf.Defaults.PS = 0.20
	conf.Defaults.Loan.Years = 40
	conf.Cache.TTLSeconds = 60

	warnings := conf.Validate()
	if len(warnings) != 4 {
		t.Errorf("warnings = %v, expected 4 entries", warnings)
	}
}
