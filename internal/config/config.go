package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

type APIConfig struct {
	BaseURL  string `yaml:"base_url"`
	TokenURL string `yaml:"token_url"`
}

type AuthConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

type CacheConfig struct {
	TTL        string `yaml:"ttl"`
	MaxEntries int    `yaml:"max_entries"`
}

type HarvestConfig struct {
	Budget     string `yaml:"budget"`
	ChunkSize  int    `yaml:"chunk_size"`
	ChunkDelay string `yaml:"chunk_delay"`
	DepthLimit int    `yaml:"depth_limit"`
}

type Config struct {
	UserAgent string        `yaml:"user_agent"`
	API       APIConfig     `yaml:"api"`
	Auth      *AuthConfig   `yaml:"auth,omitempty"`
	Cache     CacheConfig   `yaml:"cache"`
	Harvest   HarvestConfig `yaml:"harvest"`
}

// ClientID returns the resolved API client id (config or env var).
func (c *Config) ClientID() string {
	if c.Auth != nil && c.Auth.ClientID != "" {
		return c.Auth.ClientID
	}
	return os.Getenv("RCAI_CLIENT_ID")
}

// ClientSecret returns the resolved API client secret (config or env var).
func (c *Config) ClientSecret() string {
	if c.Auth != nil && c.Auth.ClientSecret != "" {
		return c.Auth.ClientSecret
	}
	return os.Getenv("RCAI_CLIENT_SECRET")
}

// CredentialsSet returns true if both client id and secret are available.
func (c *Config) CredentialsSet() bool {
	return c.ClientID() != "" && c.ClientSecret() != ""
}

func (c *Config) CacheTTL() time.Duration {
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil || d <= 0 {
		return 5 * time.Minute
	}
	return d
}

func (c *Config) CacheMaxEntries() int {
	if c.Cache.MaxEntries <= 0 {
		return 100
	}
	return c.Cache.MaxEntries
}

func (c *Config) HarvestBudget() time.Duration {
	d, err := time.ParseDuration(c.Harvest.Budget)
	if err != nil || d <= 0 {
		return 8 * time.Second
	}
	return d
}

func (c *Config) ChunkSize() int {
	if c.Harvest.ChunkSize <= 0 {
		return 3
	}
	return c.Harvest.ChunkSize
}

func (c *Config) ChunkDelay() time.Duration {
	d, err := time.ParseDuration(c.Harvest.ChunkDelay)
	if err != nil || d < 0 {
		return 500 * time.Millisecond
	}
	return d
}

func (c *Config) DepthLimit() int {
	if c.Harvest.DepthLimit <= 0 {
		return 10
	}
	return c.Harvest.DepthLimit
}

func (c *Config) ResolvedUserAgent() string {
	if c.UserAgent == "" {
		return "rcai/0.1"
	}
	return c.UserAgent
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "rcai", "config.yaml")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

func Load(path string) (*Config, error) {
	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Write defaults to config path on first run
			if err := writeDefaults(path); err != nil {
				// Non-fatal: just use embedded defaults
				return defaults, nil
			}
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	for _, ep := range []struct{ name, raw string }{
		{"api.base_url", cfg.API.BaseURL},
		{"api.token_url", cfg.API.TokenURL},
	} {
		if ep.raw == "" {
			return fmt.Errorf("%s is required", ep.name)
		}
		u, err := url.Parse(ep.raw)
		if err != nil {
			return fmt.Errorf("%s: invalid url: %w", ep.name, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("%s: url scheme must be http or https, got %q", ep.name, u.Scheme)
		}
	}
	if cfg.Cache.MaxEntries < 0 {
		return fmt.Errorf("cache.max_entries must not be negative")
	}
	if cfg.Harvest.ChunkSize < 0 {
		return fmt.Errorf("harvest.chunk_size must not be negative")
	}
	if cfg.Harvest.DepthLimit < 0 {
		return fmt.Errorf("harvest.depth_limit must not be negative")
	}
	return nil
}
