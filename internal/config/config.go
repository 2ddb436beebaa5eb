// Package config provides configuration loading and validation for the service.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds process-wide configuration. It is loaded once at startup and
// injected into constructors; nothing else reads the environment afterwards.
type Config struct {
	// Server
	Port        int    `json:"port,omitempty"`
	CORSOrigins string `json:"cors_origins,omitempty"` // comma-separated, "*" for any
	Domain      string `json:"domain,omitempty"`       // public domain for checkout redirects

	// Collaborators
	DatabaseURL  string `json:"database_url,omitempty"` // PostgreSQL connection URL
	OpenAIAPIKey string `json:"openai_api_key,omitempty"`
	GeminiAPIKey string `json:"gemini_api_key,omitempty"`

	// Payments
	StripeSecretKey     string `json:"stripe_secret_key,omitempty"`
	StripeWebhookSecret string `json:"stripe_webhook_secret,omitempty"`
	StripeBasicPrice    string `json:"stripe_basic_price,omitempty"`
	StripeProPrice      string `json:"stripe_pro_price,omitempty"`
	StripePremiumPrice  string `json:"stripe_premium_price,omitempty"`
}

// FromEnv builds a Config from process environment variables.
func FromEnv() *Config {
	return &Config{
		Port:                getEnvInt("PORT", 8080),
		CORSOrigins:         getEnvString("CORS_ORIGINS", "*"),
		Domain:              getEnvString("DOMAIN", "localhost:8080"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		OpenAIAPIKey:        os.Getenv("OPENAI_API_KEY"),
		GeminiAPIKey:        os.Getenv("GEMINI_API_KEY"),
		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		StripeBasicPrice:    os.Getenv("STRIPE_BASIC_PRICE"),
		StripeProPrice:      os.Getenv("STRIPE_PRO_PRICE"),
		StripePremiumPrice:  os.Getenv("STRIPE_PREMIUM_PRICE"),
	}
}

// LoadFile loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration is usable for serving.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("config error: 'database_url' is required")
	}
	if c.OpenAIAPIKey == "" && c.GeminiAPIKey == "" {
		return fmt.Errorf("config error: at least one LLM API key is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config error: invalid port %d", c.Port)
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// File values win over environment defaults for everything they set.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.CORSOrigins == "" {
		result.CORSOrigins = defaults.CORSOrigins
	}
	if result.Domain == "" {
		result.Domain = defaults.Domain
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.OpenAIAPIKey == "" {
		result.OpenAIAPIKey = defaults.OpenAIAPIKey
	}
	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}
	if result.StripeSecretKey == "" {
		result.StripeSecretKey = defaults.StripeSecretKey
	}
	if result.StripeWebhookSecret == "" {
		result.StripeWebhookSecret = defaults.StripeWebhookSecret
	}
	if result.StripeBasicPrice == "" {
		result.StripeBasicPrice = defaults.StripeBasicPrice
	}
	if result.StripeProPrice == "" {
		result.StripeProPrice = defaults.StripeProPrice
	}
	if result.StripePremiumPrice == "" {
		result.StripePremiumPrice = defaults.StripePremiumPrice
	}

	return result
}

// Origins splits the CORS origins setting into a list.
func (c *Config) Origins() []string {
	parts := strings.Split(c.CORSOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// getEnvString gets an environment variable as a string with a default value.
func getEnvString(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as an int with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
