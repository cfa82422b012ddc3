package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/csv2ledger/csv2ledger/internal/logger"
)

// Category keys recognized in the general section.
const (
	KeyAssets   = "Assets"
	KeyExpenses = "Expenses"
	KeyIncome   = "Income"
)

const (
	appDir   = "csv2ledger"
	fileName = "config.yaml"
)

// Config represents a csv2ledger config.yaml file.
type Config struct {
	// General maps a category key (Assets, Expenses, Income) to its display name.
	General map[string]string `yaml:"general,omitempty"`
	// Descriptions maps an exact bank description to an account suffix.
	Descriptions map[string]string `yaml:"descriptions,omitempty"`
	// Accounts maps clearing number -> account number -> alias.
	Accounts map[uint32]map[uint64]string `yaml:"accounts,omitempty"`
}

// Empty returns a Config with no overrides.
func Empty() *Config {
	return &Config{}
}

// Load reads a config file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file, creating parent directories.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// DefaultPath returns the platform config location,
// e.g. ~/.config/csv2ledger/config.yaml on Linux.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("unable to determine config directory: %w", err)
		}
		return filepath.Join(home, "."+appDir, fileName), nil
	}
	return filepath.Join(dir, appDir, fileName), nil
}

// Resolve loads the config for a run. An explicit path must load; the
// default location is optional and any problem with it yields an empty
// config.
func Resolve(ctx context.Context, explicitPath string) (*Config, error) {
	if explicitPath != "" {
		return Load(explicitPath)
	}

	log := logger.FromContext(ctx)

	path, err := DefaultPath()
	if err != nil {
		log.Warn().Err(err).Msg("no default config location, using built-in defaults")
		return Empty(), nil
	}

	cfg, err := Load(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Debug().Str("path", path).Msg("no config file, using built-in defaults")
		return Empty(), nil
	case err != nil:
		log.Warn().Err(err).Str("path", path).Msg("ignoring unreadable config, using built-in defaults")
		return Empty(), nil
	}
	log.Debug().Str("path", path).Msg("loaded config")
	return cfg, nil
}

// Example returns a starter config showing every section.
func Example() *Config {
	return &Config{
		General: map[string]string{
			KeyAssets:   "Assets",
			KeyExpenses: "Expenses",
			KeyIncome:   "Income",
		},
		Descriptions: map[string]string{
			"ICA SUPERMARKET": "Groceries",
		},
		Accounts: map[uint32]map[uint64]string{
			8327: {933108747: "Swedbank:Checking"},
		},
	}
}
