// Package config loads pdfworks settings from an optional pdfworks.yaml and
// PDFWORKS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Epistemic-Technology/pdfworks/internal/documents"
	"github.com/Epistemic-Technology/pdfworks/internal/logger"
)

// EnvPrefix is prepended to every environment variable, with dots in keys
// replaced by underscores (store.path is PDFWORKS_STORE_PATH).
const EnvPrefix = "PDFWORKS"

type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Store  StoreConfig  `mapstructure:"store"`
	PDF    PDFConfig    `mapstructure:"pdf"`
	Fetch  FetchConfig  `mapstructure:"fetch"`
	Zotero ZoteroConfig `mapstructure:"zotero"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

type LogConfig struct {
	Output string `mapstructure:"output"`
	Level  string `mapstructure:"level"`
	File   string `mapstructure:"file"`
}

type StoreConfig struct {
	// Path of the SQLite database. Empty keeps everything in memory.
	Path string `mapstructure:"path"`
}

type PDFConfig struct {
	Strict bool `mapstructure:"strict"`
}

type FetchConfig struct {
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	MaxRetries        int           `mapstructure:"max_retries"`
	RetryDelay        time.Duration `mapstructure:"retry_delay"`
	Timeout           time.Duration `mapstructure:"timeout"`
}

type ZoteroConfig struct {
	APIKey    string `mapstructure:"api_key"`
	LibraryID string `mapstructure:"library_id"`
}

// Load reads configuration. An explicit configFile must exist; otherwise
// pdfworks.yaml is looked up in the working directory and then in
// ~/.config/pdfworks, and a missing file is not an error.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("pdfworks")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "pdfworks"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	// Zotero credentials keep working under their usual names.
	if err := v.BindEnv("zotero.api_key", EnvPrefix+"_ZOTERO_API_KEY", "ZOTERO_API_KEY"); err != nil {
		return nil, err
	}
	if err := v.BindEnv("zotero.library_id", EnvPrefix+"_ZOTERO_LIBRARY_ID", "ZOTERO_LIBRARY_ID"); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.output", "stderr")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("store.path", "")
	v.SetDefault("pdf.strict", false)
	v.SetDefault("fetch.requests_per_second", 4.0)
	v.SetDefault("fetch.burst", 8)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("fetch.retry_delay", 500*time.Millisecond)
	v.SetDefault("fetch.timeout", 60*time.Second)
	v.SetDefault("zotero.api_key", "")
	v.SetDefault("zotero.library_id", "")
}

// Logger builds the logger described by the log section.
func (c *Config) Logger() (logger.Logger, error) {
	return logger.NewLogger(logger.LogConfig{
		Output:   c.Log.Output,
		Level:    c.Log.Level,
		FilePath: c.Log.File,
	})
}

// Fetcher returns the fetch and Zotero settings as a FetcherConfig.
func (c *Config) Fetcher() documents.FetcherConfig {
	return documents.FetcherConfig{
		RequestsPerSecond: c.Fetch.RequestsPerSecond,
		Burst:             c.Fetch.Burst,
		MaxRetries:        c.Fetch.MaxRetries,
		RetryDelay:        c.Fetch.RetryDelay,
		Timeout:           c.Fetch.Timeout,
		ZoteroAPIKey:      c.Zotero.APIKey,
		ZoteroLibraryID:   c.Zotero.LibraryID,
	}
}
