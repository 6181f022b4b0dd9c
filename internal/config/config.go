// Package config provides configuration for the ledger import core.
// It loads configuration from an optional YAML file, then applies
// environment variable overrides (a .env file is loaded automatically
// when present).
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/hearthledger/hearthledger/internal/importer"
)

// Config represents the importer configuration.
type Config struct {
	// DBPath is the SQLite database file.
	DBPath string `yaml:"db_path"`

	// DataDir is the directory scanned for export files in scan mode.
	DataDir string `yaml:"data_dir"`

	// ShareConvention selects how the per-participant liability columns are
	// interpreted: "balance" (signed balance-delta, canonical) or "share"
	// (raw non-negative owed share). See importer.Convention.
	ShareConvention string `yaml:"share_convention"`

	// Participants optionally seeds the participant table of a fresh
	// database, in payer-fallback order. Normally participants are
	// administered by the collaborator surface and this stays empty.
	Participants []string `yaml:"participants"`

	// Baseline lists the recurring monthly costs inserted by the backfill
	// command for months predating the export history.
	Baseline []importer.BaselineEntry `yaml:"baseline"`
}

// Load loads configuration from a YAML file (optional) and environment
// variables. Environment variables win. A .env file in the working
// directory is loaded if present; a missing YAML path is only an error
// when it was set explicitly.
func Load(yamlPath string) (*Config, error) {
	// Missing .env is fine; explicit configuration can come from the
	// process environment instead.
	_ = godotenv.Load()

	cfg := &Config{
		DBPath:          "./data/ledger.db",
		DataDir:         "./data",
		ShareConvention: string(importer.ConventionBalance),
	}

	if yamlPath != "" {
		raw, err := os.ReadFile(yamlPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.DBPath = getEnvOrDefault("LEDGER_DB_PATH", cfg.DBPath)
	cfg.DataDir = getEnvOrDefault("LEDGER_DATA_DIR", cfg.DataDir)
	cfg.ShareConvention = getEnvOrDefault("LEDGER_SHARE_CONVENTION", cfg.ShareConvention)

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db_path must be set")
	}
	switch importer.Convention(c.ShareConvention) {
	case importer.ConventionBalance, importer.ConventionShare:
	default:
		return fmt.Errorf("invalid share_convention %q: must be %q or %q",
			c.ShareConvention, importer.ConventionBalance, importer.ConventionShare)
	}
	return nil
}

// Convention returns the configured liability-column convention.
func (c *Config) Convention() importer.Convention {
	return importer.Convention(c.ShareConvention)
}

// getEnvOrDefault returns the value of the environment variable or a default
// value if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
