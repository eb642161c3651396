// Package config consolidates snep settings from defaults, snep.toml, the
// environment and command-line flags, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"
	"gopkg.in/guregu/null.v3"
)

// FileName is the project configuration file looked up from the working directory.
const FileName = "snep.toml"

// Color modes.
const (
	ColorAuto = "auto"
	ColorOn   = "on"
	ColorOff  = "off"
)

// CacheDirAuto selects the per-user cache directory.
const CacheDirAuto = "auto"

// Config holds every tunable setting. A field with Valid == false was not set
// explicitly by the layer that produced it.
type Config struct {
	MaxDiagnostics null.Int    `toml:"max_diagnostics" json:"maxDiagnostics" envconfig:"SNEP_MAX_DIAGNOSTICS"`
	Jobs           null.Int    `toml:"jobs" json:"jobs" envconfig:"SNEP_JOBS"`
	Ext            null.String `toml:"ext" json:"ext" envconfig:"SNEP_EXT"`
	OutDir         null.String `toml:"out_dir" json:"outDir" envconfig:"SNEP_OUT_DIR"`
	CacheDir       null.String `toml:"cache_dir" json:"cacheDir" envconfig:"SNEP_CACHE_DIR"`
	Color          null.String `toml:"color" json:"color" envconfig:"SNEP_COLOR"`
	LogLevel       null.String `toml:"log_level" json:"logLevel" envconfig:"SNEP_LOG_LEVEL"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		MaxDiagnostics: null.NewInt(100, false),
		Jobs:           null.NewInt(int64(runtime.GOMAXPROCS(0)), false),
		Ext:            null.NewString(".snep", false),
		OutDir:         null.NewString("out", false),
		CacheDir:       null.NewString("", false),
		Color:          null.NewString(ColorAuto, false),
		LogLevel:       null.NewString("info", false),
	}
}

// Apply overlays every explicitly set field of cfg onto c.
func (c Config) Apply(cfg Config) Config {
	if cfg.MaxDiagnostics.Valid {
		c.MaxDiagnostics = cfg.MaxDiagnostics
	}
	if cfg.Jobs.Valid {
		c.Jobs = cfg.Jobs
	}
	if cfg.Ext.Valid {
		c.Ext = cfg.Ext
	}
	if cfg.OutDir.Valid {
		c.OutDir = cfg.OutDir
	}
	if cfg.CacheDir.Valid {
		c.CacheDir = cfg.CacheDir
	}
	if cfg.Color.Valid {
		c.Color = cfg.Color
	}
	if cfg.LogLevel.Valid {
		c.LogLevel = cfg.LogLevel
	}
	return c
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.MaxDiagnostics.Int64 < 0 {
		errs = append(errs, fmt.Errorf("max_diagnostics must not be negative, got %d", c.MaxDiagnostics.Int64))
	}
	if c.Jobs.Int64 < 0 {
		errs = append(errs, fmt.Errorf("jobs must not be negative, got %d", c.Jobs.Int64))
	}
	if c.Ext.String == "" {
		errs = append(errs, errors.New("ext must not be empty"))
	}
	switch c.Color.String {
	case ColorAuto, ColorOn, ColorOff:
	default:
		errs = append(errs, fmt.Errorf("color must be one of auto, on, off, got %q", c.Color.String))
	}
	if _, err := logrus.ParseLevel(c.LogLevel.String); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	return errors.Join(errs...)
}

// JobLimit returns the number of parallel workers, GOMAXPROCS when unset or zero.
func (c Config) JobLimit() int {
	if c.Jobs.Int64 <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return int(c.Jobs.Int64)
}

// Fields describes the settings for structured logging.
func (c Config) Fields() logrus.Fields {
	return logrus.Fields{
		"max_diagnostics": c.MaxDiagnostics.Int64,
		"jobs":            c.Jobs.Int64,
		"ext":             c.Ext.String,
		"out_dir":         c.OutDir.String,
		"cache_dir":       c.CacheDir.String,
		"color":           c.Color.String,
		"log_level":       c.LogLevel.String,
	}
}
