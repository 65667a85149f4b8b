// Package config loads the optional webscout server configuration file.
// All settings can also be supplied through environment variables, which take
// precedence over the file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Adapter selections accepted by the start command.
const (
	AdapterSearch = "search"
	AdapterReader = "reader"
	AdapterAll    = "all"
)

// Transports accepted by the start command.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// UpstreamConfig configures one upstream API client.
// API keys are deliberately not part of the file; they come from the
// environment only.
type UpstreamConfig struct {
	BaseURL string `yaml:"base_url"`
}

// Config is the webscout server configuration.
type Config struct {
	// Adapter selects which tool catalog the server exposes: search, reader or all.
	Adapter string `yaml:"adapter"`

	// Transport selects how the server is exposed: stdio or http.
	Transport string `yaml:"transport"`

	// Port is the TCP port for the http transport.
	Port string `yaml:"port"`

	Search UpstreamConfig `yaml:"search"`
	Reader UpstreamConfig `yaml:"reader"`

	// DatabaseURL enables the tool call audit store when set.
	// A sqlite file path or a postgres:// URL.
	DatabaseURL string `yaml:"database_url"`

	// OtelEnabled turns on OpenTelemetry metrics collection.
	OtelEnabled bool `yaml:"otel_enabled"`

	// UpstreamTimeoutSec bounds each upstream API call. Zero means the
	// client's own default.
	UpstreamTimeoutSec int `yaml:"upstream_timeout_sec"`
}

// Default returns the configuration used when no file and no overrides are
// supplied: the search adapter over stdio.
func Default() *Config {
	return &Config{
		Adapter:   AdapterSearch,
		Transport: TransportStdio,
		Port:      "8080",
	}
}

// Load reads the configuration file at path and merges it over the defaults.
func Load(path string) (*Config, error) {
	c := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks that the enum-valued settings hold accepted values.
func (c *Config) Validate() error {
	switch c.Adapter {
	case AdapterSearch, AdapterReader, AdapterAll:
	default:
		return fmt.Errorf(
			"invalid adapter %q, valid values are %q, %q and %q",
			c.Adapter, AdapterSearch, AdapterReader, AdapterAll,
		)
	}

	switch c.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf(
			"invalid transport %q, valid values are %q and %q",
			c.Transport, TransportStdio, TransportHTTP,
		)
	}

	if c.UpstreamTimeoutSec < 0 {
		return fmt.Errorf("upstream_timeout_sec must not be negative")
	}
	return nil
}
