// Package config loads lebdash settings from YAML with environment overrides.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/coolbeans/lebdash/pkg/chart"
	"github.com/coolbeans/lebdash/pkg/infra"
	"github.com/coolbeans/lebdash/pkg/source"
)

// Published dataset locations.
const (
	DefaultInfrastructureURL = "https://linked.aub.edu.lb/pkgcube/data/85ad3210ab85ae76a878453fad9ce16f_20240905_164730.csv"
	DefaultDebtURL           = "https://linked.aub.edu.lb/pkgcube/data/ec4c40221073bbdf6f75b6c6127249c3_20240905_173222.csv"
)

// Environment variables read by ApplyEnv.
const (
	EnvInfrastructureURL = "LEBDASH_INFRA_URL"
	EnvDebtURL           = "LEBDASH_DEBT_URL"
	EnvAddr              = "LEBDASH_ADDR"
	EnvCacheTTL          = "LEBDASH_CACHE_TTL"
)

// Duration is a time.Duration written as a Go duration string in YAML.
type Duration time.Duration

// UnmarshalYAML parses values such as "30s" or "5m".
func (duration *Duration) UnmarshalYAML(node *yaml.Node) error {
	var text string
	if err := node.Decode(&text); err != nil {
		return fmt.Errorf("line %d: duration must be a string: %w", node.Line, err)
	}
	parsed, err := time.ParseDuration(text)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*duration = Duration(parsed)
	return nil
}

// MarshalYAML writes the duration string form.
func (duration Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(duration).String(), nil
}

// Std returns the duration as a time.Duration.
func (duration Duration) Std() time.Duration {
	return time.Duration(duration)
}

// DataConfig locates the two datasets. Locations may be http(s) URLs,
// file:// URLs or local paths.
type DataConfig struct {
	InfrastructureURL string `yaml:"infrastructure_url"`
	DebtURL           string `yaml:"debt_url"`
}

// HTTPConfig tunes dataset fetching.
type HTTPConfig struct {
	Timeout   Duration `yaml:"timeout"`
	RateLimit Duration `yaml:"rate_limit"`
	CacheTTL  Duration `yaml:"cache_ttl"`
	UserAgent string   `yaml:"user_agent"`
}

// ServerConfig configures `lebdash serve`.
type ServerConfig struct {
	Addr              string   `yaml:"addr"`
	ReadHeaderTimeout Duration `yaml:"read_header_timeout"`
}

// ChartConfig sizes rendered charts in points.
type ChartConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// MapConfig configures the zero-initiative map.
type MapConfig struct {
	Zoom int `yaml:"zoom"`
}

// Config is the full lebdash configuration.
type Config struct {
	Data   DataConfig   `yaml:"data"`
	HTTP   HTTPConfig   `yaml:"http"`
	Server ServerConfig `yaml:"server"`
	Chart  ChartConfig  `yaml:"chart"`
	Map    MapConfig    `yaml:"map"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	chartDefaults := chart.DefaultConfig()
	return Config{
		Data: DataConfig{
			InfrastructureURL: DefaultInfrastructureURL,
			DebtURL:           DefaultDebtURL,
		},
		HTTP: HTTPConfig{
			Timeout:   Duration(source.DefaultTimeout),
			RateLimit: Duration(source.DefaultRequestInterval),
			CacheTTL:  Duration(10 * time.Minute),
			UserAgent: source.DefaultUserAgent,
		},
		Server: ServerConfig{
			Addr:              "127.0.0.1:8080",
			ReadHeaderTimeout: Duration(10 * time.Second),
		},
		Chart: ChartConfig{
			Width:  chartDefaults.Width,
			Height: chartDefaults.Height,
		},
		Map: MapConfig{
			Zoom: infra.DefaultMapZoom,
		},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path or a missing file yields the defaults.
func Load(path string) (Config, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &config); err != nil {
				return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if err := config.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// ApplyEnv overrides fields from environment variables found by lookup.
func (config *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if value, ok := lookup(EnvInfrastructureURL); ok && value != "" {
		config.Data.InfrastructureURL = value
	}
	if value, ok := lookup(EnvDebtURL); ok && value != "" {
		config.Data.DebtURL = value
	}
	if value, ok := lookup(EnvAddr); ok && value != "" {
		config.Server.Addr = value
	}
	if value, ok := lookup(EnvCacheTTL); ok && value != "" {
		ttl, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvCacheTTL, err)
		}
		config.HTTP.CacheTTL = Duration(ttl)
	}
	return nil
}

// Validate reports the first invalid setting.
func (config Config) Validate() error {
	if err := validateLocation("data.infrastructure_url", config.Data.InfrastructureURL); err != nil {
		return err
	}
	if err := validateLocation("data.debt_url", config.Data.DebtURL); err != nil {
		return err
	}
	if config.HTTP.Timeout < 0 || config.HTTP.RateLimit < 0 || config.HTTP.CacheTTL < 0 {
		return fmt.Errorf("http: durations must not be negative")
	}
	if config.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if config.Chart.Width <= 0 || config.Chart.Height <= 0 {
		return fmt.Errorf("chart: width and height must be positive")
	}
	if config.Map.Zoom < 0 || config.Map.Zoom > 20 {
		return fmt.Errorf("map.zoom must be between 0 and 20, got %d", config.Map.Zoom)
	}
	return nil
}

func validateLocation(field, location string) error {
	if location == "" {
		return fmt.Errorf("%s is required", field)
	}
	parsed, err := url.Parse(location)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	switch parsed.Scheme {
	case "", "http", "https", "file":
		return nil
	default:
		return fmt.Errorf("%s: unsupported scheme %q", field, parsed.Scheme)
	}
}

// SourceConfig builds the dataset client configuration.
func (config Config) SourceConfig(logger *zap.Logger) source.ClientConfig {
	clientConfig := source.DefaultConfig()
	clientConfig.Timeout = config.HTTP.Timeout.Std()
	clientConfig.RateLimit = config.HTTP.RateLimit.Std()
	clientConfig.CacheTTL = config.HTTP.CacheTTL.Std()
	if config.HTTP.UserAgent != "" {
		clientConfig.UserAgent = config.HTTP.UserAgent
	}
	clientConfig.Logger = logger
	return clientConfig
}

// ChartRendererConfig builds the chart renderer configuration.
func (config Config) ChartRendererConfig() chart.Config {
	return chart.Config{Width: config.Chart.Width, Height: config.Chart.Height}
}
