// Package config loads application configuration from config.yaml and
// MUNISTATS_* environment variables, with defaults suitable for a scheduled
// unattended run.
package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	BaseURL    string           `yaml:"base_url" mapstructure:"base_url"`
	DataDir    string           `yaml:"data_dir" mapstructure:"data_dir"`
	RunLog     string           `yaml:"run_log" mapstructure:"run_log"`
	Fetch      FetchConfig      `yaml:"fetch" mapstructure:"fetch"`
	Millage    MillageConfig    `yaml:"millage" mapstructure:"millage"`
	RealEstate RealEstateConfig `yaml:"real_estate" mapstructure:"real_estate"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// FetchConfig configures the document fetch layer.
type FetchConfig struct {
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int    `yaml:"max_retries" mapstructure:"max_retries"`
	DelayMillis int    `yaml:"delay_millis" mapstructure:"delay_millis"`
}

// Delay returns the configured inter-request pacing delay.
func (f FetchConfig) Delay() time.Duration {
	return time.Duration(f.DelayMillis) * time.Millisecond
}

// Timeout returns the configured per-request timeout.
func (f FetchConfig) Timeout() time.Duration {
	return time.Duration(f.TimeoutSecs) * time.Second
}

// MillageConfig configures the millage year range. Zero values mean "current
// tax year and the two prior", resolved at run time.
type MillageConfig struct {
	StartYear int `yaml:"start_year" mapstructure:"start_year"`
	EndYear   int `yaml:"end_year" mapstructure:"end_year"`
}

// RealEstateConfig selects the duplicate-period policy for the weekly
// series: "replace" (re-scraping a week supersedes it) or "skip" (an
// already-present period leaves the file untouched).
type RealEstateConfig struct {
	Policy string `yaml:"policy" mapstructure:"policy"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// RunLogPath returns the run log location, defaulting to a database inside
// the data directory.
func (c *Config) RunLogPath() string {
	if c.RunLog != "" {
		return c.RunLog
	}
	return filepath.Join(c.DataDir, "munistats.db")
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("MUNISTATS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("base_url", "https://apps.alleghenycounty.us/website")
	v.SetDefault("data_dir", "data")
	v.SetDefault("fetch.user_agent", "munistats/1.0 (civic data collection)")
	v.SetDefault("fetch.timeout_secs", 30)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("fetch.delay_millis", 2000)
	v.SetDefault("real_estate.policy", "replace")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
