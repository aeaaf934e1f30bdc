// Package config handles configuration loading and validation for sentiview.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/sentiview/internal/core/review"
	"github.com/colonyops/sentiview/internal/core/sentiment"
	"github.com/colonyops/sentiview/internal/core/styles"
)

// Config holds the application configuration.
type Config struct {
	Gateway GatewayConfig  `yaml:"gateway"`
	Product review.Product `yaml:"product"`
	TUI     TUIConfig      `yaml:"tui"`
	Server  ServerConfig   `yaml:"server"`
	DataDir string         `yaml:"-"` // set by caller, not from config file
}

// GatewayConfig configures the outbound connection to the classification
// service.
type GatewayConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Method   string        `yaml:"method"`  // optional classifier hint forwarded to the service
	Timeout  time.Duration `yaml:"timeout"` // 0 disables the client timeout
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme string `yaml:"theme"`
}

// ServerConfig configures the bundled development classification server.
type ServerConfig struct {
	Addr      string  `yaml:"addr"`
	RateLimit float64 `yaml:"rate_limit"` // requests per second, 0 disables
	Burst     int     `yaml:"burst"`
}

// DefaultProduct is the product shown when the config file does not set one.
func DefaultProduct() review.Product {
	return review.Product{
		Name:        "SuperWidget 3000",
		Image:       "https://images.unsplash.com/photo-1519125323398-675f0ddb6308?auto=format&fit=crop&w=400&q=80",
		Description: "The SuperWidget 3000 is the latest in widget technology. Experience performance and style like never before!",
	}
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Gateway: GatewayConfig{
			Endpoint: sentiment.DefaultEndpoint,
		},
		Product: DefaultProduct(),
		TUI: TUIConfig{
			Theme: styles.DefaultTheme,
		},
		Server: ServerConfig{
			Addr: ":8000",
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Gateway.Endpoint == "" {
		c.Gateway.Endpoint = defaults.Gateway.Endpoint
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
	if c.Server.Addr == "" {
		c.Server.Addr = defaults.Server.Addr
	}
	if c.Product == (review.Product{}) {
		c.Product = defaults.Product
	}
}

// ClientOptions maps the gateway section onto sentiment client options.
func (c *Config) ClientOptions() sentiment.ClientOptions {
	return sentiment.ClientOptions{
		Endpoint: c.Gateway.Endpoint,
		Method:   c.Gateway.Method,
		Timeout:  c.Gateway.Timeout,
	}
}
