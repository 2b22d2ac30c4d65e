// Package config holds the YAML configuration for the gateway daemon.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// GatewayConfig contains the gateway daemon configuration.
type GatewayConfig struct {
	ListenAddr  string        `yaml:"listen_addr"`  // Address to listen on (e.g., ":6001")
	DataDir     string        `yaml:"data_dir"`     // Directory holding the database files
	JournalMode string        `yaml:"journal_mode"` // Journal mode for created databases (default "WAL")
	Logging     LoggingConfig `yaml:"logging"`      // Logging configuration
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Colors     bool   `yaml:"colors"`      // Colored console output
	OutputFile string `yaml:"output_file"` // Empty for stdout
}

// Default returns the built-in defaults.
func Default() *GatewayConfig {
	return &GatewayConfig{
		ListenAddr:  ":6001",
		DataDir:     defaultDataDir(),
		JournalMode: "WAL",
		Logging:     LoggingConfig{Colors: true},
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "data"
	}
	return home + "/.promised-sqlite3"
}

// DecodeStrict decodes YAML from a reader and rejects any unknown
// fields, so the file only contains recognized configuration keys.
func DecodeStrict(r io.Reader, out interface{}) error {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Load reads path into the defaults and validates the result.
func Load(path string) (*GatewayConfig, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := DecodeStrict(f, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration and reports every problem at once.
func (c *GatewayConfig) Validate() error {
	var problems []string

	if strings.TrimSpace(c.ListenAddr) == "" {
		problems = append(problems, "listen_addr must not be empty")
	}
	if strings.TrimSpace(c.DataDir) == "" {
		problems = append(problems, "data_dir must not be empty")
	}
	switch strings.ToUpper(c.JournalMode) {
	case "", "DELETE", "TRUNCATE", "PERSIST", "MEMORY", "WAL", "OFF":
	default:
		problems = append(problems, fmt.Sprintf("journal_mode %q is not a SQLite journal mode", c.JournalMode))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}
