package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
	_ "time/tzdata" // timezone names resolve on hosts without a zoneinfo database

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/dashwise-cli/internal/dataset"
	"github.com/KaramelBytes/dashwise-cli/internal/suggest"
)

// EnvPrefix prefixes every environment override, e.g. DASHWISE_TIMEZONE.
const EnvPrefix = "DASHWISE"

// Global configuration structure.
type Global struct {
	// Timezone is an IANA name used to derive day and hour from timestamps.
	Timezone string `mapstructure:"timezone" yaml:"timezone"`

	// Suggestion rules
	ExtendedSuggestions bool    `mapstructure:"extended_suggestions" yaml:"extended_suggestions"`
	UnderusedVisitShare float64 `mapstructure:"underused_visit_share" yaml:"underused_visit_share"`
	PayAsYouGoShare     float64 `mapstructure:"payg_share" yaml:"payg_share"`

	// Loading
	SheetName   string `mapstructure:"sheet_name" yaml:"sheet_name"`
	SheetIndex  int    `mapstructure:"sheet_index" yaml:"sheet_index"`
	MaxUploadMB int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`

	// Dashboard server
	ListenAddr    string `mapstructure:"listen_addr" yaml:"listen_addr"`
	SessionTTLMin int    `mapstructure:"session_ttl_min" yaml:"session_ttl_min"`
	DemoDays      int    `mapstructure:"demo_days" yaml:"demo_days"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
}

// Default returns the built-in configuration.
func Default() *Global {
	th := suggest.DefaultThresholds()
	return &Global{
		Timezone:            "UTC",
		ExtendedSuggestions: true,
		UnderusedVisitShare: th.UnderusedVisitShare,
		PayAsYouGoShare:     th.PayAsYouGoShare,
		SheetIndex:          1,
		MaxUploadMB:         20,
		ListenAddr:          "127.0.0.1:8501",
		SessionTTLMin:       60,
		DemoDays:            30,
		LogLevel:            "info",
		LogFormat:           "json",
	}
}

// Dir is the per-user configuration directory, ~/.dashwise.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".dashwise"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.dashwise/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. A .env file in the working
// directory is loaded into the environment first when present.
func Load(cfgFile string) (*Global, error) {
	_ = godotenv.Load()
	return load(cfgFile, true)
}

// LoadFile reads only the config file over the defaults, ignoring the
// environment. It is the base for persisting a single changed key, so the
// result is not validated and a bad stored value can still be corrected.
func LoadFile(cfgFile string) (*Global, error) {
	return load(cfgFile, false)
}

func load(cfgFile string, withEnv bool) (*Global, error) {
	v := viper.New()
	if withEnv {
		v.SetEnvPrefix(EnvPrefix)
		v.AutomaticEnv()
	}

	d := Default()
	v.SetDefault("timezone", d.Timezone)
	v.SetDefault("extended_suggestions", d.ExtendedSuggestions)
	v.SetDefault("underused_visit_share", d.UnderusedVisitShare)
	v.SetDefault("payg_share", d.PayAsYouGoShare)
	v.SetDefault("sheet_name", d.SheetName)
	v.SetDefault("sheet_index", d.SheetIndex)
	v.SetDefault("max_upload_mb", d.MaxUploadMB)
	v.SetDefault("listen_addr", d.ListenAddr)
	v.SetDefault("session_ttl_min", d.SessionTTLMin)
	v.SetDefault("demo_days", d.DemoDays)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if withEnv {
		if err := c.Validate(); err != nil {
			return nil, err
		}
	}
	return &c, nil
}

// Validate rejects values the pipeline cannot work with.
func (c *Global) Validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.UnderusedVisitShare < 0 || c.UnderusedVisitShare > 1 {
		return fmt.Errorf("underused_visit_share must be within [0, 1], got %v", c.UnderusedVisitShare)
	}
	if c.PayAsYouGoShare < 0 {
		return fmt.Errorf("payg_share must be >= 0, got %v", c.PayAsYouGoShare)
	}
	if c.SheetIndex < 0 {
		return fmt.Errorf("sheet_index must be >= 0, got %d", c.SheetIndex)
	}
	if c.MaxUploadMB < 0 || c.SessionTTLMin < 0 || c.DemoDays < 0 {
		return fmt.Errorf("max_upload_mb, session_ttl_min and demo_days must be >= 0")
	}
	return nil
}

// Location resolves Timezone; empty means UTC.
func (c *Global) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// SuggestOptions maps the rule settings onto suggest.Options.
func (c *Global) SuggestOptions() suggest.Options {
	return suggest.Options{
		Extended: c.ExtendedSuggestions,
		Thresholds: suggest.Thresholds{
			UnderusedVisitShare: c.UnderusedVisitShare,
			PayAsYouGoShare:     c.PayAsYouGoShare,
		},
	}
}

// LoadOptions maps the loading settings onto dataset.LoadOptions.
func (c *Global) LoadOptions() dataset.LoadOptions {
	opt := dataset.DefaultLoadOptions()
	opt.SheetName = c.SheetName
	if c.SheetIndex > 0 {
		opt.SheetIndex = c.SheetIndex
	}
	opt.MaxBytes = int64(c.MaxUploadMB) << 20
	return opt
}

// SessionTTL is the idle lifetime of a dashboard session.
func (c *Global) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMin) * time.Minute
}
