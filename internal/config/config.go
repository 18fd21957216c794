//-------------------------------------------------------------------------
//
// pgEdge E-Commerce Dashboard
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for pgedge-dashboard.
// Configuration is loaded from config files and CLI flags (no environment variables).
// CLI flags take precedence over config file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/pgEdge/pgedge-dashboard/internal/datagen/profiles"
)

// Dataset sources.
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

// Config holds all configuration for pgedge-dashboard.
type Config struct {
	// DataDir is the directory holding the nine dataset CSV files.
	DataDir string `mapstructure:"data_dir"`

	// Source selects where the dataset is loaded from: csv or postgres.
	Source string `mapstructure:"source"`

	// Connection is the PostgreSQL connection string.
	Connection string `mapstructure:"connection"`

	// TablePrefix is prepended to the logical table names in PostgreSQL.
	TablePrefix string `mapstructure:"table_prefix"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// LogFormat is console or json.
	LogFormat string `mapstructure:"log_format"`

	// Serve holds configuration for the serve subcommand.
	Serve ServeConfig `mapstructure:"serve"`

	// Generate holds configuration for the generate subcommand.
	Generate GenerateConfig `mapstructure:"generate"`
}

// ServeConfig holds configuration for the HTTP dashboard.
type ServeConfig struct {
	// Addr is the listen address.
	Addr string `mapstructure:"addr"`

	// ReadTimeout is the request read timeout in seconds.
	ReadTimeout int `mapstructure:"read_timeout"`

	// WriteTimeout is the response write timeout in seconds.
	WriteTimeout int `mapstructure:"write_timeout"`

	// CurrencySymbol prefixes displayed prices.
	CurrencySymbol string `mapstructure:"currency_symbol"`
}

// GenerateConfig holds configuration for synthetic dataset generation.
type GenerateConfig struct {
	Orders    int `mapstructure:"orders"`
	Products  int `mapstructure:"products"`
	Customers int `mapstructure:"customers"`
	Sellers   int `mapstructure:"sellers"`
	Cities    int `mapstructure:"cities"`

	// Seed makes the output reproducible; 0 seeds from the clock.
	Seed int64 `mapstructure:"seed"`

	// Profile names the activity profile shaping purchase times.
	Profile string `mapstructure:"profile"`

	// Timezone is the IANA zone timestamps are written in.
	Timezone string `mapstructure:"timezone"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		DataDir:     "E-commerce-public-dataset",
		Source:      SourceCSV,
		TablePrefix: "olist_",
		LogLevel:    "info",
		LogFormat:   "console",
		Serve: ServeConfig{
			Addr:           "127.0.0.1:8501",
			ReadTimeout:    30,
			WriteTimeout:   60,
			CurrencySymbol: "R$",
		},
		Generate: GenerateConfig{
			Orders:    1000,
			Products:  200,
			Customers: 600,
			Sellers:   50,
			Cities:    25,
			Profile:   "store-regional",
			Timezone:  profiles.DefaultTimezone,
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./pgedge-dashboard.yaml
// 3. ~/.config/pgedge-dashboard/config.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("pgedge-dashboard")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "pgedge-dashboard"))
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// Validate checks that the dataset source is usable.
func (c *Config) Validate() error {
	switch c.Source {
	case SourceCSV:
		if c.DataDir == "" {
			return fmt.Errorf("data_dir is required for the csv source")
		}
	case SourcePostgres:
		if c.Connection == "" {
			return fmt.Errorf("connection string is required for the postgres source")
		}
		if err := c.validatePrefix(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("source must be '%s' or '%s', got '%s'", SourceCSV, SourcePostgres, c.Source)
	}

	switch strings.ToLower(c.LogFormat) {
	case "", "console", "json":
	default:
		return fmt.Errorf("log_format must be 'console' or 'json'")
	}
	return nil
}

// ValidateServe checks configuration required for serve command.
func (c *Config) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Serve.Addr == "" {
		return fmt.Errorf("serve.addr is required")
	}
	if c.Serve.ReadTimeout < 1 {
		return fmt.Errorf("serve.read_timeout must be at least 1 second")
	}
	if c.Serve.WriteTimeout < 1 {
		return fmt.Errorf("serve.write_timeout must be at least 1 second")
	}
	return nil
}

// ValidateImport checks configuration required for import command.
// The dataset is always read from DataDir and written to Connection,
// whatever Source says.
func (c *Config) ValidateImport() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required for import")
	}
	if c.Connection == "" {
		return fmt.Errorf("connection string is required for import")
	}
	return c.validatePrefix()
}

// ValidateGenerate checks configuration required for generate command.
func (c *Config) ValidateGenerate() error {
	g := c.Generate
	if g.Orders < 1 {
		return fmt.Errorf("generate.orders must be at least 1")
	}
	if g.Products < 1 {
		return fmt.Errorf("generate.products must be at least 1")
	}
	if g.Customers < 1 {
		return fmt.Errorf("generate.customers must be at least 1")
	}
	if g.Sellers < 1 {
		return fmt.Errorf("generate.sellers must be at least 1")
	}
	if g.Cities < 1 {
		return fmt.Errorf("generate.cities must be at least 1")
	}
	if _, err := profiles.Get(g.Profile, g.Timezone); err != nil {
		return fmt.Errorf("generate.profile: %w", err)
	}
	return nil
}

// validatePrefix restricts the prefix to characters that are safe in an
// unquoted identifier.
func (c *Config) validatePrefix() error {
	for _, r := range c.TablePrefix {
		if !(r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')) {
			return fmt.Errorf("table_prefix may only contain lowercase letters, digits and '_'")
		}
	}
	return nil
}
