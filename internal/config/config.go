// Package config provides Viper-based configuration loading for diceydrinks.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/cory-johannsen/diceydrinks/internal/game/dice"
)

// DatabaseConfig holds PostgreSQL connection settings for the cookbook.
type DatabaseConfig struct {
	// Enabled selects the PostgreSQL cookbook; when false recipes are kept
	// in memory for the life of the process.
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Output is a zap sink: "stderr", "stdout" or a file path. The picker
	// owns the terminal, so the default is stderr.
	Output string `mapstructure:"output"`
}

// RollConfig tunes the dice.
type RollConfig struct {
	// JokerFaces is the joker die size; a joker fires on its top face.
	JokerFaces int `mapstructure:"joker_faces"`
	// SpiritsDice, MixersDice and AdditivesDice are dice expressions for
	// the "how many" step, e.g. "1d3".
	SpiritsDice   string `mapstructure:"spirits_dice"`
	MixersDice    string `mapstructure:"mixers_dice"`
	AdditivesDice string `mapstructure:"additives_dice"`
	// FamilyDrilldown picks spirit families first, then a brand per family.
	FamilyDrilldown bool `mapstructure:"family_drilldown"`
	// MaxReverts bounds how many picks a build may undo on exhaustion.
	MaxReverts int `mapstructure:"max_reverts"`
}

// InventoryConfig locates the inventory snapshot.
type InventoryConfig struct {
	Path string `mapstructure:"path"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Roll      RollConfig      `mapstructure:"roll"`
	Inventory InventoryConfig `mapstructure:"inventory"`
	Database  DatabaseConfig  `mapstructure:"database"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateRoll(c.Roll); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Inventory.Path == "" {
		errs = append(errs, "inventory.path must not be empty")
	}
	if c.Database.Enabled {
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err.Error())
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateRoll(r RollConfig) error {
	var errs []string
	if r.JokerFaces < 1 {
		errs = append(errs, fmt.Sprintf("roll.joker_faces must be >= 1, got %d", r.JokerFaces))
	}
	for key, expr := range map[string]string{
		"roll.spirits_dice":   r.SpiritsDice,
		"roll.mixers_dice":    r.MixersDice,
		"roll.additives_dice": r.AdditivesDice,
	} {
		if _, err := dice.Parse(expr); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if r.MaxReverts < 0 {
		errs = append(errs, fmt.Sprintf("roll.max_reverts must be >= 0, got %d", r.MaxReverts))
	}
	if len(errs) > 0 {
		// map order is random
		slices.Sort(errs)
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	if l.Output == "" {
		return errors.New("logging.output must not be empty")
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path loads defaults and
// environment overrides only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with DICEY_ prefix
	v.SetEnvPrefix("DICEY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("roll.joker_faces", 20)
	v.SetDefault("roll.spirits_dice", "1d3")
	v.SetDefault("roll.mixers_dice", "1d4")
	v.SetDefault("roll.additives_dice", "1d2")
	v.SetDefault("roll.family_drilldown", false)
	v.SetDefault("roll.max_reverts", 8)

	v.SetDefault("inventory.path", "content/inventory.yaml")

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "dicey")
	v.SetDefault("database.password", "dicey")
	v.SetDefault("database.name", "dicey")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("database.min_conns", 1)
	v.SetDefault("database.max_conn_lifetime", "1h")
}
