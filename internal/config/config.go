package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values for the server configuration.
const (
	DefaultHTTPPort           = 55555
	DefaultBaseURL            = "https://api.pronouns.alejo.io/v1"
	DefaultRefreshMin         = 1 * time.Minute
	DefaultRefreshMax         = 1 * time.Hour
	DefaultPronounsRefreshMax = 6 * time.Hour
	DefaultSweepInterval      = 10 * time.Minute
	DefaultStatsInterval      = 5 * time.Second
)

// Config holds the configuration parsed from the `server:` section of
// config.yaml.
type Config struct {
	Server ServerConfig `yaml:"server"`
}

// ServerConfig holds all server settings.
type ServerConfig struct {
	// HTTPPort is the port the REST API, metrics, and stats stream listen on
	// (default 55555).
	HTTPPort int `yaml:"http_port"`

	// Upstream configures the third-party pronoun API and refresh windows.
	Upstream UpstreamConfig `yaml:"upstream"`

	// SweepInterval is how often the user-cache eviction sweeper runs
	// (default 10m).
	SweepInterval time.Duration `yaml:"sweep_interval"`

	// StatsInterval is how often cache statistics are pushed to connected
	// websocket clients (default 5s).
	StatsInterval time.Duration `yaml:"stats_interval"`
}

// UpstreamConfig configures the pronoun API endpoints and freshness rules.
type UpstreamConfig struct {
	// BaseURL is the API root, without a trailing slash.
	BaseURL string `yaml:"base_url"`

	// RefreshMin is the cooldown a forced refresh must respect (default 1m).
	RefreshMin time.Duration `yaml:"refresh_min"`

	// RefreshMax is the user-record staleness threshold and eviction horizon
	// (default 1h).
	RefreshMax time.Duration `yaml:"refresh_max"`

	// PronounsRefreshMax is the staleness threshold for the global pronoun
	// dictionary (default 6h — it changes rarely upstream).
	PronounsRefreshMax time.Duration `yaml:"pronouns_refresh_max"`
}

// Load reads and parses the config file at path. Missing fields are filled
// with defaults before validation. A missing file is not an error — the
// defaults alone describe a working setup.
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort: DefaultHTTPPort,
			Upstream: UpstreamConfig{
				BaseURL:            DefaultBaseURL,
				RefreshMin:         DefaultRefreshMin,
				RefreshMax:         DefaultRefreshMax,
				PronounsRefreshMax: DefaultPronounsRefreshMax,
			},
			SweepInterval: DefaultSweepInterval,
			StatsInterval: DefaultStatsInterval,
		},
	}
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	s := cfg.Server
	if s.HTTPPort <= 0 || s.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", s.HTTPPort)
	}
	if s.Upstream.BaseURL == "" {
		return fmt.Errorf("server.upstream.base_url must not be empty")
	}
	if s.Upstream.RefreshMin <= 0 || s.Upstream.RefreshMax <= 0 || s.Upstream.PronounsRefreshMax <= 0 {
		return fmt.Errorf("server.upstream refresh windows must be positive")
	}
	if s.Upstream.RefreshMin >= s.Upstream.RefreshMax {
		return fmt.Errorf("server.upstream.refresh_min %s must be shorter than refresh_max %s",
			s.Upstream.RefreshMin, s.Upstream.RefreshMax)
	}
	if s.SweepInterval <= 0 {
		return fmt.Errorf("server.sweep_interval must be positive")
	}
	if s.StatsInterval <= 0 {
		return fmt.Errorf("server.stats_interval must be positive")
	}
	return nil
}
