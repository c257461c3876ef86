// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strings"
)

// Config holds everything the server needs at startup.
type Config struct {
	Port               string
	Env                string
	GeminiAPIKey       string
	JWTSecret          string
	GoogleCloudProject string
	UseMemoryStore     bool
	AllowedOrigins     []string
}

// Load reads configuration from environment variables, applying
// development defaults where safe. Secrets have no defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		GoogleCloudProject: os.Getenv("GOOGLE_CLOUD_PROJECT"),
		UseMemoryStore:     getEnv("USE_MEMORY_STORE", "") == "true",
		AllowedOrigins:     splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if cfg.JWTSecret == "" {
		if cfg.Env != "development" {
			return nil, fmt.Errorf("JWT_SECRET is required outside development")
		}
		cfg.JWTSecret = "dev-only-secret"
	}
	if !cfg.UseMemoryStore && cfg.GoogleCloudProject == "" {
		return nil, fmt.Errorf("GOOGLE_CLOUD_PROJECT is required unless USE_MEMORY_STORE=true")
	}
	return cfg, nil
}

// IsProduction reports whether the server runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
