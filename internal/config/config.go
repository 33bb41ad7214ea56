// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config represents the assistant configuration. Everything here has a
// working default; a nube.toml file and environment variables refine it.
type Config struct {
	LLM         LLMConfig         `toml:"llm"`
	API         APIConfig         `toml:"api"`
	Telemetry   TelemetryConfig   `toml:"telemetry"`
	Storage     StorageConfig     `toml:"storage"`
	Sensitivity SensitivityConfig `toml:"sensitivity"`
}

// LLMConfig contains model provider settings.
type LLMConfig struct {
	Model     string `toml:"model"`
	BaseURL   string `toml:"base_url"` // Custom API endpoint (OpenRouter, LiteLLM, Ollama)
	MaxTokens int    `toml:"max_tokens"`
}

// APIConfig contains Tiendanube API settings. Credentials come from the
// environment, never the config file.
type APIConfig struct {
	UserAgent string `toml:"user_agent"`
}

// TelemetryConfig contains telemetry settings.
type TelemetryConfig struct {
	Enabled  bool   `toml:"enabled"`
	Endpoint string `toml:"endpoint"` // OTLP endpoint (e.g., localhost:4317)
	Protocol string `toml:"protocol"` // grpc (default) or http
}

// StorageConfig contains persistent storage settings.
type StorageConfig struct {
	Path               string `toml:"path"`                // Base directory for persistent data
	PersistCheckpoints bool   `toml:"persist_checkpoints"` // true = paused turns survive restarts
}

// SensitivityConfig overrides which tools require confirmation before
// running. Names listed in Sensitive are added to the built-in set;
// names listed in Safe are removed from it.
type SensitivityConfig struct {
	Sensitive []string `toml:"sensitive"`
	Safe      []string `toml:"safe"`
}

// Credentials holds the secrets read from the environment.
type Credentials struct {
	OpenAIKey   string
	AccessToken string
	StoreID     string
}

// New creates a new config with defaults.
func New() *Config {
	return &Config{
		LLM: LLMConfig{
			Model:     "gpt-4o-mini",
			MaxTokens: 4096,
		},
		API: APIConfig{
			UserAgent: "Nube Agent",
		},
		Telemetry: TelemetryConfig{
			Protocol: "noop",
		},
		Storage: StorageConfig{
			Path: "~/.local/nube",
		},
	}
}

// LoadFile loads configuration from a TOML file over the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := New()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Load resolves the configuration: an explicit path must exist, while
// the default nube.toml is optional.
func Load(path string) (*Config, error) {
	if path != "" {
		return LoadFile(path)
	}
	if _, err := os.Stat("nube.toml"); err == nil {
		return LoadFile("nube.toml")
	}
	return New(), nil
}

// ApplyEnv layers environment overrides onto the config. Call after
// godotenv has populated the environment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("NUBE_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("NUBE_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("USER_AGENT"); v != "" {
		c.API.UserAgent = v
	}
}

// LoadCredentials reads the required secrets from the environment.
func LoadCredentials() Credentials {
	return Credentials{
		OpenAIKey:   os.Getenv("OPENAI_API_KEY"),
		AccessToken: os.Getenv("TIENDANUBE_ACCESS_TOKEN"),
		StoreID:     os.Getenv("TIENDANUBE_STORE_ID"),
	}
}

// Validate checks that every required secret is present. The returned
// error names each missing variable and how to fix it.
func (cr Credentials) Validate() error {
	var missing []string
	if cr.OpenAIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if cr.AccessToken == "" {
		missing = append(missing, "TIENDANUBE_ACCESS_TOKEN")
	}
	if cr.StoreID == "" {
		missing = append(missing, "TIENDANUBE_STORE_ID")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s\nCopy .env.example to .env and fill in the values",
			strings.Join(missing, ", "))
	}
	return nil
}
