// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml)
//  2. Environment variables (fallback)
//
// Example usage:
//
//	cfg := config.LoadOrEnv()
//	catalogPath := cfg.Catalog.Path
//	openaiKey := cfg.OpenAI.APIKey
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the entire application configuration
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	OpenAI        OpenAIConfig        `yaml:"openai"`
	Catalog       CatalogConfig       `yaml:"catalog"`
	Validation    ValidationConfig    `yaml:"validation"`
	Storage       StorageConfig       `yaml:"storage"`
	Security      SecurityConfig      `yaml:"security"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// OpenAIConfig holds the vision-model API configuration.
// The system prompt can be given as raw text or as a path to a file;
// the file wins when both are set.
type OpenAIConfig struct {
	APIKey           string `yaml:"api_key"`
	BaseURL          string `yaml:"base_url"`
	Model            string `yaml:"model"`
	ProbeModel       string `yaml:"probe_model"`
	SystemPrompt     string `yaml:"system_prompt"`
	SystemPromptPath string `yaml:"system_prompt_path"`
	ProbeEnabled     bool   `yaml:"probe_enabled"`
}

// CatalogConfig holds the venue catalog settings
type CatalogConfig struct {
	Path     string `yaml:"path"`
	Strategy string `yaml:"strategy"` // "similarity" or "indexed"
}

// ValidationConfig overrides the scoring tolerances. Zero values keep
// the engine defaults.
type ValidationConfig struct {
	SumTolerance float64 `yaml:"sum_tolerance"`
	VATRate      float64 `yaml:"vat_rate"`
}

// StorageConfig holds database configuration
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// SecurityConfig holds the API key check settings. An empty key disables
// the check.
type SecurityConfig struct {
	APIKey string `yaml:"api_key"`
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads and parses the config file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${OPENAI_API_KEY})
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadFromEnv loads configuration from environment variables only
func LoadFromEnv() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port: getEnvInt("PORT", 8080),
		},
		OpenAI: OpenAIConfig{
			APIKey:           os.Getenv("OPENAI_API_KEY"),
			BaseURL:          getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:            getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			ProbeModel:       getEnv("OPENAI_PROBE_MODEL", "gpt-4o-mini"),
			SystemPrompt:     os.Getenv("OPENAI_SYSTEM_PROMPT"),
			SystemPromptPath: os.Getenv("OPENAI_SYSTEM_PROMPT_PATH"),
			ProbeEnabled:     getEnv("OPENAI_PROBE_ENABLED", "true") == "true",
		},
		Catalog: CatalogConfig{
			Path:     getEnv("VENUE_CATALOG_PATH", "venue_profiles.json"),
			Strategy: getEnv("VENUE_MATCH_STRATEGY", "similarity"),
		},
		Storage: StorageConfig{
			DatabasePath: getEnv("SCANOCR_DB_PATH", "scanocr.db"),
		},
		Security: SecurityConfig{
			APIKey: os.Getenv("SCANOCR_API_KEY"),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "text"),
			},
		},
	}
	cfg.applyDefaults()
	return cfg
}

// LoadOrEnv tries to load from config.yaml, falls back to environment variables
func LoadOrEnv() *Config {
	return LoadOrEnvWithPath("config.yaml")
}

// LoadOrEnvWithPath tries to load from specified path, falls back to environment variables
func LoadOrEnvWithPath(path string) *Config {
	if cfg, err := Load(path); err == nil {
		return cfg
	}
	return LoadFromEnv()
}

// applyDefaults fills in the settings a partial YAML file may omit
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.OpenAI.BaseURL == "" {
		c.OpenAI.BaseURL = "https://api.openai.com/v1"
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4o-mini"
	}
	if c.OpenAI.ProbeModel == "" {
		c.OpenAI.ProbeModel = c.OpenAI.Model
	}
	if c.Catalog.Path == "" {
		c.Catalog.Path = "venue_profiles.json"
	}
	if c.Catalog.Strategy == "" {
		c.Catalog.Strategy = "similarity"
	}
	if c.Storage.DatabasePath == "" {
		c.Storage.DatabasePath = "scanocr.db"
	}
	if c.Observability.Logging.Level == "" {
		c.Observability.Logging.Level = "info"
	}
}

// ResolveSystemPrompt returns the extraction system prompt: a readable
// prompt file wins, then the raw config string, then the built-in
// fallback.
func (c *Config) ResolveSystemPrompt(fallback string) string {
	if c.OpenAI.SystemPromptPath != "" {
		if data, err := os.ReadFile(c.OpenAI.SystemPromptPath); err == nil {
			return string(data)
		}
	}
	if c.OpenAI.SystemPrompt != "" {
		return c.OpenAI.SystemPrompt
	}
	return fallback
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback default
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var result int
		if _, err := fmt.Sscanf(val, "%d", &result); err == nil {
			return result
		}
	}
	return fallback
}
