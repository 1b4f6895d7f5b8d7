// Package config implements the gateway's bootstrap configuration:
// command-line flags for the common case, an optional YAML file for
// everything else, with flags layered on top of and overriding the file.
package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Config holds every bootstrap setting the gateway needs before it can
// start serving: where to read routes from, where to listen, the rate
// limiter backend, and the backend request timeout.
type Config struct {
	RoutesFile        string        `yaml:"routes-file"`
	Address           string        `yaml:"address"`
	MetricsAddress    string        `yaml:"metrics-address"`
	RedisAddress      string        `yaml:"redis-address"`
	ResponseTimeout   time.Duration `yaml:"response-timeout"`
	DefaultRateLimit  int64         `yaml:"default-rate-limit"`
	DefaultRateWindow time.Duration `yaml:"default-rate-window"`
}

// Default returns the configuration's built-in defaults, applied before
// a YAML file or flags are parsed.
func Default() *Config {
	return &Config{
		Address:           ":9090",
		MetricsAddress:    ":9911",
		ResponseTimeout:   60 * time.Second,
		DefaultRateLimit:  100,
		DefaultRateWindow: time.Minute,
	}
}

// Parse builds a Config from a YAML file (if configFile is non-empty) with
// command-line flags from args layered on top, flags winning on conflict.
func Parse(args []string, configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	fs := flag.NewFlagSet("gateway", flag.ContinueOnError)
	fs.StringVar(&cfg.RoutesFile, "routes-file", cfg.RoutesFile, "path to the eskip routes document")
	fs.StringVar(&cfg.Address, "address", cfg.Address, "address to listen on for proxy traffic")
	fs.StringVar(&cfg.MetricsAddress, "metrics-address", cfg.MetricsAddress, "address to listen on for /metrics")
	fs.StringVar(&cfg.RedisAddress, "redis-address", cfg.RedisAddress, "address of the Redis rate-limiter backend; empty uses an in-memory store")
	fs.DurationVar(&cfg.ResponseTimeout, "response-timeout", cfg.ResponseTimeout, "timeout for backend responses")
	fs.Int64Var(&cfg.DefaultRateLimit, "default-rate-limit", cfg.DefaultRateLimit, "default token-bucket capacity (read into the config; not applied to any route)")
	fs.DurationVar(&cfg.DefaultRateWindow, "default-rate-window", cfg.DefaultRateWindow, "default token-bucket refill window (read into the config; not applied to any route)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return cfg, cfg.Validate()
}

// Validate checks the invariants main needs before it can bootstrap:
// a routes file must be configured.
func (c *Config) Validate() error {
	if c.RoutesFile == "" {
		return fmt.Errorf("routes-file is required")
	}
	return nil
}
