// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"fjacquet/ebill-csv/internal/dateutils"
	"fjacquet/ebill-csv/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable the converter reads.
const EnvPrefix = "EBILL"

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	Statement struct {
		Year    string `mapstructure:"year" yaml:"year"`
		Account string `mapstructure:"account" yaml:"account"`
	} `mapstructure:"statement" yaml:"statement"`

	Categories struct {
		File     string `mapstructure:"file" yaml:"file"`
		Fallback string `mapstructure:"fallback" yaml:"fallback"`
	} `mapstructure:"categories" yaml:"categories"`

	Parsers struct {
		EBill struct {
			AnchorID string `mapstructure:"anchor_id" yaml:"anchor_id"`
			MinCells int    `mapstructure:"min_cells" yaml:"min_cells"`
		} `mapstructure:"ebill" yaml:"ebill"`
	} `mapstructure:"parsers" yaml:"parsers"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading:
// defaults, then config.yaml from the standard locations, then EBILL_* variables.
func InitializeConfig() (*Config, error) {
	return InitializeConfigFromFile("")
}

// InitializeConfigFromFile behaves like InitializeConfig but reads configFile
// instead of searching the standard locations when it is not empty.
func InitializeConfigFromFile(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.ebill-csv")
		v.AddConfigPath(".ebill-csv")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless given explicitly)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	// 5. Unprefixed LOG_LEVEL is honoured as well
	if err := v.BindEnv("log.level", EnvPrefix+"_LOG_LEVEL", "LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind log level environment variable: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 6. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns the configuration built from defaults only.
func DefaultConfig() *Config {
	v := viper.New()
	setDefaults(v)

	var config Config
	// defaults always decode
	_ = v.Unmarshal(&config)
	return &config
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// CSV defaults
	v.SetDefault("csv.delimiter", ",")

	// Statement defaults; an empty year is derived from the message
	v.SetDefault("statement.year", "")
	v.SetDefault("statement.account", models.DefaultAccountLabel)

	// Categorization defaults
	v.SetDefault("categories.file", "categories.yaml")
	v.SetDefault("categories.fallback", models.CategoryOther)

	// Parser defaults
	v.SetDefault("parsers.ebill.anchor_id", models.DefaultAnchorID)
	v.SetDefault("parsers.ebill.min_cells", models.MinRowCells)
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if utf8.RuneCountInString(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	if config.Statement.Year != "" && !dateutils.IsValidYear(config.Statement.Year) {
		return fmt.Errorf("statement.year must be a four-digit year, got: %s", config.Statement.Year)
	}

	if config.Parsers.EBill.MinCells < models.CellAuxiliary+1 {
		return fmt.Errorf("parsers.ebill.min_cells must be at least %d, got: %d",
			models.CellAuxiliary+1, config.Parsers.EBill.MinCells)
	}

	return nil
}

// Validate checks the configuration values, for configurations changed after loading.
func (c *Config) Validate() error {
	return validateConfig(c)
}

// CSVDelimiter returns the configured delimiter as a rune.
func (c *Config) CSVDelimiter() rune {
	r, _ := utf8.DecodeRuneInString(c.CSV.Delimiter)
	if r == utf8.RuneError {
		return ','
	}
	return r
}
