package main

import (
	"context"
	"os"
	"testing"

	"todo-planner/internal/config"
)

func TestApplicationStartup(t *testing.T) {
	os.Setenv("ENVIRONMENT", "development")
	os.Setenv("DB_HOST", "localhost")
	defer func() {
		os.Unsetenv("ENVIRONMENT")
		os.Unsetenv("DB_HOST")
	}()

	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg == nil {
		t.Fatal("Configuration should not be nil")
	}

	t.Log("Application configuration loaded successfully")
}

func TestNewGenerator_WithoutAPIKeyUsesFallback(t *testing.T) {
	os.Unsetenv("GEMINI_API_KEY")

	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if generator := newGenerator(context.Background(), cfg); generator != nil {
		t.Errorf("Expected no generator without an API key, got %T", generator)
	}
}

func TestConfigurationValues(t *testing.T) {
	tests := []struct {
		name     string
		envVar   string
		envValue string
		actual   func(cfg *config.Config) string
	}{
		{
			name:     "ENVIRONMENT environment variable",
			envVar:   "ENVIRONMENT",
			envValue: "staging",
			actual:   func(cfg *config.Config) string { return cfg.Server.Environment },
		},
		{
			name:     "GEMINI_MODEL environment variable",
			envVar:   "GEMINI_MODEL",
			envValue: "gemini-2.0-flash",
			actual:   func(cfg *config.Config) string { return cfg.AI.Model },
		},
		{
			name:     "DB_PASS legacy variable",
			envVar:   "DB_PASS",
			envValue: "legacy-password",
			actual:   func(cfg *config.Config) string { return cfg.Database.Password },
		},
		{
			name:     "SESSION_COOKIE environment variable",
			envVar:   "SESSION_COOKIE",
			envValue: "planner_session",
			actual:   func(cfg *config.Config) string { return cfg.Session.CookieName },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Setenv(tt.envVar, tt.envValue)
			defer os.Unsetenv(tt.envVar)

			cfg, err := config.LoadConfig()
			if err != nil {
				t.Fatalf("Failed to load config: %v", err)
			}

			if value := tt.actual(cfg); value != tt.envValue {
				t.Errorf("Expected %v, got %v", tt.envValue, value)
			}
		})
	}
}
