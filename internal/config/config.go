// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// DefaultServerURL is used when no analysis service address is configured.
const DefaultServerURL = "http://localhost:8000"

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via
// CLI flags. Environment variables (loaded via .env) override file values.
type Config struct {
	// ServerURL is the base URL of the analysis service.
	ServerURL string `json:"server_url,omitempty"`

	// Port is the listen port for the local development server.
	Port int `json:"port,omitempty"`

	// FallbackTimeoutSeconds bounds the blocking analysis call.
	FallbackTimeoutSeconds int `json:"fallback_timeout_seconds,omitempty"`

	// DisableStreaming forces the blocking path for every attempt.
	DisableStreaming bool `json:"disable_streaming,omitempty"`

	// StreamChunkSize is the development server's write granularity in bytes.
	StreamChunkSize int `json:"stream_chunk_size,omitempty"`

	// UseBrowser enables headless browser rendering when ingesting job
	// postings from SPA sites.
	UseBrowser bool `json:"use_browser,omitempty"`

	// Verbose prints detailed debug information.
	Verbose bool `json:"verbose,omitempty"`
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
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

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be in [0, 65535]")
	}
	if c.FallbackTimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'fallback_timeout_seconds' must be non-negative")
	}
	if c.StreamChunkSize < 0 {
		return fmt.Errorf("config error: 'stream_chunk_size' must be non-negative")
	}
	return nil
}

// MergeWithDefaults returns a new Config with unset fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.ServerURL == "" {
		result.ServerURL = defaults.ServerURL
	}
	if result.ServerURL == "" {
		result.ServerURL = DefaultServerURL
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.FallbackTimeoutSeconds == 0 {
		result.FallbackTimeoutSeconds = defaults.FallbackTimeoutSeconds
	}
	if result.StreamChunkSize == 0 {
		result.StreamChunkSize = defaults.StreamChunkSize
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// ApplyEnv overrides configuration from environment variables. Call after
// godotenv has loaded the .env file.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("ANALYZER_SERVER_URL"); v != "" {
		c.ServerURL = v
	}
	if v := os.Getenv("ANALYZER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
	if v := os.Getenv("ANALYZER_DISABLE_STREAMING"); v == "true" || v == "1" {
		c.DisableStreaming = true
	}
}
