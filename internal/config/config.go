package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/text/language"

	"github.com/Veraticus/the-budget-must-balance/internal/common"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

// Dir is the default configuration and data directory.
const Dir = "~/.config/budget"

// Config holds the resolved application settings.
type Config struct {
	Storage StorageConfig
	Ledger  LedgerConfig
	Display DisplayConfig
	Logging LoggingConfig
}

// StorageConfig selects the persistence adapter.
type StorageConfig struct {
	Driver string
	Path   string
}

// LedgerConfig holds ledger defaults.
type LedgerConfig struct {
	Currency string
	Timezone string
}

// DisplayConfig controls terminal output.
type DisplayConfig struct {
	Locale string
	Theme  string
}

// LoggingConfig controls the global logger.
type LoggingConfig struct {
	Level  string
	Format string
}

// SetDefaults registers default values for every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("ledger.currency", model.DefaultCurrency)
	v.SetDefault("ledger.timezone", "Local")
	v.SetDefault("display.locale", "en")
	v.SetDefault("display.theme", "default")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Load reads the settings from v and validates them.
// An empty storage path resolves to a file under Dir named for the driver.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	path, err := ExpandPath(v.GetString("storage.path"))
	if err != nil {
		return nil, fmt.Errorf("%w: storage.path: %w", common.ErrInvalidConfig, err)
	}

	cfg := &Config{
		Storage: StorageConfig{
			Driver: v.GetString("storage.driver"),
			Path:   path,
		},
		Ledger: LedgerConfig{
			Currency: v.GetString("ledger.currency"),
			Timezone: v.GetString("ledger.timezone"),
		},
		Display: DisplayConfig{
			Locale: v.GetString("display.locale"),
			Theme:  v.GetString("display.theme"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
		},
	}

	if cfg.Storage.Path == "" {
		if cfg.Storage.Path, err = DefaultStoragePath(cfg.Storage.Driver); err != nil {
			return nil, fmt.Errorf("%w: storage.path: %w", common.ErrInvalidConfig, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultStoragePath returns where driver keeps its data when unconfigured.
func DefaultStoragePath(driver string) (string, error) {
	dir, err := ExpandPath(Dir)
	if err != nil {
		return "", err
	}
	if driver == "file" {
		return filepath.Join(dir, "data"), nil
	}
	return filepath.Join(dir, "budget.db"), nil
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "sqlite", "file":
	default:
		return fmt.Errorf("%w: storage.driver must be sqlite or file, got %q", common.ErrInvalidConfig, c.Storage.Driver)
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("%w: storage.path", common.ErrMissingConfig)
	}
	if c.Ledger.Currency == "" {
		return fmt.Errorf("%w: ledger.currency", common.ErrMissingConfig)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.Language(); err != nil {
		return err
	}
	if _, err := common.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: logging.format must be console or json, got %q", common.ErrInvalidConfig, c.Logging.Format)
	}
	return nil
}

// Location resolves the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Ledger.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: ledger.timezone %q: %w", common.ErrInvalidConfig, c.Ledger.Timezone, err)
	}
	return loc, nil
}

// Language resolves the configured display locale.
func (c *Config) Language() (language.Tag, error) {
	tag, err := language.Parse(c.Display.Locale)
	if err != nil {
		return language.Und, fmt.Errorf("%w: display.locale %q: %w", common.ErrInvalidConfig, c.Display.Locale, err)
	}
	return tag, nil
}

// LoadDotEnv loads environment variables from the given .env files, or from
// ./.env when none are given. Missing files are ignored; variables already
// set in the environment win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		expanded, err := ExpandPath(path)
		if err != nil {
			return err
		}
		if err := godotenv.Load(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}
