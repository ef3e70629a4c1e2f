// Package config provides configuration management for netifmon.
//
// Configuration is read once at startup and immutable afterwards. Flags
// override file values; the file is optional.
//
// Config file locations (priority order):
//  1. $NETIFMON_CONFIG
//  2. ./netifmon.yaml
//  3. ~/.config/netifmon/config.yaml
//  4. /etc/netifmon/config.yaml
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every startup setting.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen"`
	// Interface is the interface name watched by the default differ.
	Interface string `yaml:"interface"`
	// PrefixLength is the IPv6 network prefix length used when masking
	// the interface's first assigned address to determine its network
	// prefix. Zero means unset and selects the default of 64; a literal
	// zero-length prefix can only be set with the -prefix-length flag,
	// which overrides the config after defaults are applied.
	PrefixLength int `yaml:"prefix_length"`
	// PollingIntervalSec is the refresh interval in seconds.
	PollingIntervalSec int `yaml:"polling_interval"`
	// StateFile persists the latest snapshot; empty disables persistence.
	StateFile string `yaml:"state_file"`
	// HistoryDB is the refresh-history sqlite path; empty disables history.
	HistoryDB string `yaml:"history_db"`
}

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		// No config found - return defaults
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, path, nil
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Listen == "" {
		c.Listen = ":8000"
	}
	if c.Interface == "" {
		c.Interface = "eth0"
	}
	if c.PrefixLength == 0 {
		c.PrefixLength = 64
	}
	if c.PollingIntervalSec == 0 {
		c.PollingIntervalSec = 10
	}
	if c.StateFile == "" {
		c.StateFile = "interface.state"
	}
}

// Validate rejects values no component could run with.
func (c *Config) Validate() error {
	if c.Interface == "" {
		return fmt.Errorf("interface name required")
	}
	if c.PrefixLength < 0 || c.PrefixLength > 128 {
		return fmt.Errorf("prefix length must be between 0 and 128, got %d", c.PrefixLength)
	}
	if c.PollingIntervalSec <= 0 {
		return fmt.Errorf("polling interval must be positive, got %d", c.PollingIntervalSec)
	}
	return nil
}

// PollingInterval returns the refresh interval as a duration.
func (c *Config) PollingInterval() time.Duration {
	return time.Duration(c.PollingIntervalSec) * time.Second
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	return fmt.Sprintf("Interface: %s/%d, Poll: %s, State file: %s, History: %s",
		c.Interface, c.PrefixLength, c.PollingInterval(), orNone(c.StateFile), orNone(c.HistoryDB))
}

func orNone(s string) string {
	if s == "" {
		return "(disabled)"
	}
	return s
}
