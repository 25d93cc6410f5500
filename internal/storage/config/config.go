package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/DonovanMods/bepinex-mod-manager/internal/domain"

	"gopkg.in/yaml.v3"
)

// DefaultHookTimeout applies when config.yaml does not set hook_timeout
const DefaultHookTimeout = 60 * time.Second

// Config holds global application settings
type Config struct {
	DefaultLinkMethod domain.LinkMethod `yaml:"-"`
	LinkMethodStr     string            `yaml:"default_link_method"`
	DefaultGame       string            `yaml:"default_game,omitempty"`
	CachePath         string            `yaml:"cache_path,omitempty"`
	HookTimeout       time.Duration     `yaml:"-"`
	HookTimeoutStr    string            `yaml:"hook_timeout,omitempty"` // "30s", or bare seconds
	LogLevel          string            `yaml:"log_level,omitempty"`
	AppName           string            `yaml:"app_name,omitempty"` // Named in write-failure hints
}

// Load reads configuration from the given directory
func Load(configDir string) (*Config, error) {
	cfg := &Config{
		DefaultLinkMethod: domain.LinkCopy,
		HookTimeout:       DefaultHookTimeout,
		LogLevel:          "warn",
	}

	configPath := filepath.Join(configDir, "config.yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil // Return defaults
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Convert string to LinkMethod
	if cfg.LinkMethodStr != "" {
		cfg.DefaultLinkMethod = domain.ParseLinkMethod(cfg.LinkMethodStr)
	}
	if cfg.HookTimeoutStr != "" {
		timeout, err := parseTimeout(cfg.HookTimeoutStr)
		if err != nil {
			return nil, fmt.Errorf("%w: hook_timeout %q", domain.ErrInvalidConfig, cfg.HookTimeoutStr)
		}
		cfg.HookTimeout = timeout
	}
	if cfg.HookTimeout <= 0 {
		cfg.HookTimeout = DefaultHookTimeout
	}
	cfg.CachePath = ExpandPath(cfg.CachePath)

	return cfg, nil
}

// Save writes configuration to the given directory
func (c *Config) Save(configDir string) error {
	c.LinkMethodStr = c.DefaultLinkMethod.String()
	c.HookTimeoutStr = c.HookTimeout.String()

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	configPath := filepath.Join(configDir, "config.yaml")
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

func parseTimeout(s string) (time.Duration, error) {
	if secs, err := strconv.Atoi(s); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(s)
}
