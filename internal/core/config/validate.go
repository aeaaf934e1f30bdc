package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/hay-kot/criterio"

	"github.com/colonyops/sentiview/internal/core/styles"
)

// Validate checks that the configuration is valid. Field errors are
// reported together as criterio.FieldErrors.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("gateway.endpoint", c.Gateway.Endpoint, httpURL),
		criterio.Run("gateway.timeout", c.Gateway.Timeout.Seconds(), nonNegative),
		criterio.Run("product.name", c.Product.Name, required),
		criterio.Run("tui.theme", c.TUI.Theme, knownTheme),
		criterio.Run("server.addr", c.Server.Addr, required),
		criterio.Run("server.rate_limit", c.Server.RateLimit, nonNegative),
		criterio.Run("server.burst", float64(c.Server.Burst), nonNegative),
		criterio.Run("data_dir", c.DataDir, required),
	)
}

// ValidateDeep runs Validate and then checks the config file and data
// directory on disk. An empty configPath skips the config file check.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return errors.New("exists but is not a directory")
	}
	return nil
}

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("cannot be empty")
	}
	return nil
}

func nonNegative(v float64) error {
	if v < 0 {
		return errors.New("must not be negative")
	}
	return nil
}

func httpURL(s string) error {
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	return nil
}

func knownTheme(name string) error {
	if _, ok := styles.GetPalette(name); !ok {
		return fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(styles.ThemeNames(), ", "))
	}
	return nil
}
