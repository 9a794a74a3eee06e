// Package config loads the application configuration from defaults, an
// optional YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. OFXIMPORT_LOG_LEVEL.
const EnvPrefix = "OFXIMPORT"

// Config is the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Data struct {
		Directory string `mapstructure:"directory" yaml:"directory"`
	} `mapstructure:"data" yaml:"data"`

	Store struct {
		RulesFile          string `mapstructure:"rules_file" yaml:"rules_file"`
		TaxonomyFile       string `mapstructure:"taxonomy_file" yaml:"taxonomy_file"`
		CounterpartiesFile string `mapstructure:"counterparties_file" yaml:"counterparties_file"`
		RecordsFile        string `mapstructure:"records_file" yaml:"records_file"`
		HistoryFile        string `mapstructure:"history_file" yaml:"history_file"`
	} `mapstructure:"store" yaml:"store"`

	Parser struct {
		DefaultCurrency string `mapstructure:"default_currency" yaml:"default_currency"`
	} `mapstructure:"parser" yaml:"parser"`

	Import struct {
		SkipDuplicates bool `mapstructure:"skip_duplicates" yaml:"skip_duplicates"`
	} `mapstructure:"import" yaml:"import"`
}

// InitializeConfig loads configuration from the standard locations.
func InitializeConfig() (*Config, error) {
	return Load("")
}

// Load reads configuration with this precedence: environment, then the
// config file, then defaults. When configFile is empty the file is searched
// as config.yaml in $HOME/.ofx-import, ./.ofx-import and the working directory;
// a missing file is not an error.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.ofx-import")
		v.AddConfigPath(".ofx-import")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("data.directory", "database")

	v.SetDefault("store.rules_file", "rules.yaml")
	v.SetDefault("store.taxonomy_file", "taxonomy.yaml")
	v.SetDefault("store.counterparties_file", "counterparties.yaml")
	v.SetDefault("store.records_file", "records.csv")
	v.SetDefault("store.history_file", "imports.csv")

	v.SetDefault("parser.default_currency", "")

	v.SetDefault("import.skip_duplicates", true)
}

// Validate checks a configuration assembled outside Load, e.g. after flag
// overrides.
func Validate(cfg *Config) error {
	return validateConfig(cfg)
}

func validateConfig(cfg *Config) error {
	if _, err := logrus.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" && cfg.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", cfg.Log.Format)
	}
	if strings.TrimSpace(cfg.Data.Directory) == "" {
		return errors.New("data.directory must not be empty")
	}
	if c := cfg.Parser.DefaultCurrency; c != "" && len(c) != 3 {
		return fmt.Errorf("parser.default_currency must be a 3-letter code, got: %s", c)
	}
	return nil
}
