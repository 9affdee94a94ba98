package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	// Set some test environment variables
	envs := map[string]string{
		"JWT_SECRET":          "test-secret",
		"SERVER_PORT":         "9090",
		"POSTGRES_HOST":       "testhost",
		"PRICE_CACHE_TTL":     "30s",
		"TOKEN_EXPIRY":        "1h",
		"MARKET_DATA_TIMEOUT": "3s",
	}
	for key, value := range envs {
		if err := os.Setenv(key, value); err != nil {
			t.Fatalf("Failed to set %s: %v", key, err)
		}
	}
	defer func() {
		for key := range envs {
			_ = os.Unsetenv(key)
		}
	}()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Server.Port = %v, want %v", cfg.Server.Port, "9090")
	}
	if cfg.Database.Postgres.Host != "testhost" {
		t.Errorf("Database.Postgres.Host = %v, want %v", cfg.Database.Postgres.Host, "testhost")
	}
	if cfg.Market.PriceCacheTTL != 30*time.Second {
		t.Errorf("Market.PriceCacheTTL = %v, want %v", cfg.Market.PriceCacheTTL, 30*time.Second)
	}
	if cfg.Auth.TokenExpiry != time.Hour {
		t.Errorf("Auth.TokenExpiry = %v, want %v", cfg.Auth.TokenExpiry, time.Hour)
	}
	if cfg.Market.Timeout != 3*time.Second {
		t.Errorf("Market.Timeout = %v, want %v", cfg.Market.Timeout, 3*time.Second)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	if err := os.Setenv("JWT_SECRET", "test-secret"); err != nil {
		t.Fatalf("Failed to set JWT_SECRET: %v", err)
	}
	defer func() {
		_ = os.Unsetenv("JWT_SECRET")
	}()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.Port != "8000" {
		t.Errorf("Server.Port = %v, want 8000", cfg.Server.Port)
	}
	if cfg.Auth.BcryptCost != 12 {
		t.Errorf("Auth.BcryptCost = %v, want 12", cfg.Auth.BcryptCost)
	}
	if cfg.Auth.TokenExpiry != 30*time.Minute {
		t.Errorf("Auth.TokenExpiry = %v, want 30m", cfg.Auth.TokenExpiry)
	}
	if cfg.Market.Timeout != 5*time.Second {
		t.Errorf("Market.Timeout = %v, want 5s", cfg.Market.Timeout)
	}
	if cfg.RateLimit.AuthRequestsPerMinute != 60 {
		t.Errorf("RateLimit.AuthRequestsPerMinute = %v, want 60", cfg.RateLimit.AuthRequestsPerMinute)
	}
}

func TestLoadConfig_RequiresJWTSecret(t *testing.T) {
	// Ensure the variable is unset for this test
	old := os.Getenv("JWT_SECRET")
	_ = os.Unsetenv("JWT_SECRET")
	defer func() {
		if old != "" {
			_ = os.Setenv("JWT_SECRET", old)
		}
	}()

	if _, err := LoadConfig(); err == nil {
		t.Error("expected an error when JWT_SECRET is unset")
	}
}

func TestGetEnvHelpers(t *testing.T) {
	if err := os.Setenv("TEST_INT", "not-a-number"); err != nil {
		t.Fatalf("Failed to set TEST_INT: %v", err)
	}
	defer func() {
		_ = os.Unsetenv("TEST_INT")
	}()

	if got := getEnvAsInt("TEST_INT", 42); got != 42 {
		t.Errorf("getEnvAsInt should fall back on parse failure, got %d", got)
	}
	if got := getEnvAsDuration("TEST_MISSING", time.Minute); got != time.Minute {
		t.Errorf("getEnvAsDuration should use default, got %v", got)
	}
	if got := getEnvAsBool("TEST_MISSING", true); got != true {
		t.Errorf("getEnvAsBool should use default, got %v", got)
	}
}
