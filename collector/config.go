// Package collector serves the inventory script to client machines and
// appends the hardware data they report to the inventory CSV.
package collector

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config configures the collector server.
type Config struct {
	// Listen is the TCP listen address, e.g. ":5000".
	Listen string `yaml:"listen"`

	// CSVPath is the inventory file appended by POST /save_inventory.
	CSVPath string `yaml:"csv_path"`

	// PublicURL is the base URL clients use to reach this server. It is
	// substituted into the served script.
	PublicURL string `yaml:"public_url"`

	// ShutdownTimeout bounds graceful shutdown. Zero means 10s.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DefaultConfig returns the settings the collector uses without a config file.
func DefaultConfig() Config {
	return Config{
		Listen:          ":5000",
		CSVPath:         "./inventario_hw_min.csv",
		PublicURL:       "http://localhost:5000",
		ShutdownTimeout: 10 * time.Second,
	}
}

// LoadConfig reads a YAML config file on top of DefaultConfig.
// Unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading collector config %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parsing collector config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("collector config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that required settings are present.
func (c Config) Validate() error {
	switch {
	case c.Listen == "":
		return errors.New("listen address is required")
	case c.CSVPath == "":
		return errors.New("csv_path is required")
	case c.PublicURL == "":
		return errors.New("public_url is required")
	case c.ShutdownTimeout < 0:
		return errors.New("shutdown_timeout must not be negative")
	}
	return nil
}
