package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

func (s ServerConfig) Addr() string { return s.Host + ":" + s.Port }

type DataConfig struct {
	Path       string `mapstructure:"path"`
	YearColumn string `mapstructure:"year_column"`
	CodeColumn string `mapstructure:"code_column"`
}

type FilterConfig struct {
	// DefaultCountries is the initial selection. A fixed UI default,
	// not derived from the data.
	DefaultCountries []string `mapstructure:"default_countries"`
}

type PageConfig struct {
	Title string `mapstructure:"title"`
	Intro string `mapstructure:"intro"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // DEBUG, INFO, WARN, ERROR
	Format string `mapstructure:"format"` // json, text
	SeqURL string `mapstructure:"seq_url"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type Configuration struct {
	Server  ServerConfig  `mapstructure:"server"`
	Data    DataConfig    `mapstructure:"data"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Page    PageConfig    `mapstructure:"page"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

const EnvPrefix = "DATABROWSER"

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("data.path", "data/mlb_data.csv")
	v.SetDefault("data.year_column", "Year")
	v.SetDefault("data.code_column", "Country Code")
	v.SetDefault("filter.default_countries", []string{"DEU", "FRA", "GBR", "BRA", "MEX", "JPN"})
	v.SetDefault("page.title", "GDP dashboard")
	v.SetDefault("page.intro", "Browse GDP data from the World Bank Open Data.")
	v.SetDefault("log.level", "INFO")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.seq_url", "")
	v.SetDefault("metrics.enabled", true)
}

// Load reads configuration from file (when non-empty) or from
// databrowser.yaml in the usual places, then applies DATABROWSER_*
// environment overrides. A missing config file is not an error.
func Load(file string) (*Configuration, error) {
	v := viper.New()
	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("databrowser")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/databrowser")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Configuration{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}
