//-------------------------------------------------------------------------
//
// martgen - Dimensional Warehouse Builder
//
// Copyright (c) 2025 - 2026, Edgewise Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for martgen.
// Configuration is loaded from config files and CLI flags (no environment
// variables). CLI flags take precedence over config file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for martgen.
type Config struct {
	// SourceDir is the directory holding the raw extract CSVs.
	SourceDir string `mapstructure:"source_dir"`

	// OutputDir is the directory the warehouse tables are written to.
	OutputDir string `mapstructure:"output_dir"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// Load holds configuration for the load phase.
	Load LoadConfig `mapstructure:"load"`

	// Seed holds configuration for the seed subcommand.
	Seed SeedConfig `mapstructure:"seed"`
}

// LoadConfig holds configuration for the load phase.
type LoadConfig struct {
	// Target selects where warehouse tables are persisted: "csv" or "postgres".
	Target string `mapstructure:"target"`

	// Connection is the PostgreSQL connection string for the postgres target.
	Connection string `mapstructure:"connection"`
}

// SeedConfig holds configuration for synthetic extract generation.
type SeedConfig struct {
	// Orders is the scale knob; all other row counts derive from it.
	Orders int `mapstructure:"orders"`

	// RandomSeed fixes the random sequence (0 = time-seeded).
	RandomSeed uint64 `mapstructure:"random_seed"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		SourceDir: "raw",
		OutputDir: "dw",
		LogLevel:  "info",
		Load: LoadConfig{
			Target: "csv",
		},
		Seed: SeedConfig{
			Orders: 200,
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./martgen.yaml
// 3. ~/.config/martgen/config.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("martgen")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "martgen"))
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

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.SourceDir == "" {
		return fmt.Errorf("source directory is required")
	}
	return nil
}

// ValidateRun checks configuration required for the run command.
func (c *Config) ValidateRun() error {
	if err := c.Validate(); err != nil {
		return err
	}
	switch c.Load.Target {
	case "csv":
		if c.OutputDir == "" {
			return fmt.Errorf("output directory is required for the csv target")
		}
	case "postgres":
		if c.Load.Connection == "" {
			return fmt.Errorf("connection string is required for the postgres target")
		}
	default:
		return fmt.Errorf("load target must be 'csv' or 'postgres'")
	}
	return nil
}

// ValidateSeed checks configuration required for the seed command.
func (c *Config) ValidateSeed() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Seed.Orders < 1 {
		return fmt.Errorf("seed orders must be at least 1")
	}
	return nil
}
