// Package config loads the demo binary's configuration: TOML file
// first, environment variables overriding it.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds every tunable for the cmd/actionmenu demo binary.
type Config struct {
	HTTP    HTTPConfig
	Retry   RetryConfig
	Breaker BreakerConfig
	Menu    MenuConfig
}

// HTTPConfig configures the /metrics endpoint.
type HTTPConfig struct {
	Port int
}

// RetryConfig configures the demo's RetryHandler.
type RetryConfig struct {
	MaxRetries int
	Delay      time.Duration
	Backoff    float64
}

// BreakerConfig configures the demo's CircuitBreaker.
type BreakerConfig struct {
	MaxFailures  uint32
	ResetTimeout time.Duration
}

// MenuConfig configures menu-level dispatch flags.
type MenuConfig struct {
	NeverConfirm          bool
	ContinueOnErrorPrompt bool
}

// Default returns sensible defaults for local/dev use.
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{Port: 9090},
		Retry: RetryConfig{
			MaxRetries: 3,
			Delay:      500 * time.Millisecond,
			Backoff:    2.0,
		},
		Breaker: BreakerConfig{
			MaxFailures:  3,
			ResetTimeout: 10 * time.Second,
		},
		Menu: MenuConfig{
			NeverConfirm:          false,
			ContinueOnErrorPrompt: true,
		},
	}
}

// tomlConfig mirrors Config's shape for decoding, with durations as
// plain seconds since encoding/toml has no time.Duration support.
type tomlConfig struct {
	HTTP struct {
		Port int `toml:"port"`
	} `toml:"http"`
	Retry struct {
		MaxRetries   int     `toml:"max_retries"`
		DelaySeconds float64 `toml:"delay_seconds"`
		Backoff      float64 `toml:"backoff"`
	} `toml:"retry"`
	Breaker struct {
		MaxFailures         uint32  `toml:"max_failures"`
		ResetTimeoutSeconds float64 `toml:"reset_timeout_seconds"`
	} `toml:"breaker"`
	Menu struct {
		NeverConfirm          *bool `toml:"never_confirm"`
		ContinueOnErrorPrompt *bool `toml:"continue_on_error_prompt"`
	} `toml:"menu"`
}

// LoadFromFile reads and parses a TOML config file at path.
func LoadFromFile(path string) (*Config, error) {
	var tc tomlConfig
	if _, err := toml.DecodeFile(path, &tc); err != nil {
		return nil, err
	}
	cfg := Default()
	if tc.HTTP.Port != 0 {
		cfg.HTTP.Port = tc.HTTP.Port
	}
	if tc.Retry.MaxRetries != 0 {
		cfg.Retry.MaxRetries = tc.Retry.MaxRetries
	}
	if tc.Retry.DelaySeconds != 0 {
		cfg.Retry.Delay = time.Duration(tc.Retry.DelaySeconds * float64(time.Second))
	}
	if tc.Retry.Backoff != 0 {
		cfg.Retry.Backoff = tc.Retry.Backoff
	}
	if tc.Breaker.MaxFailures != 0 {
		cfg.Breaker.MaxFailures = tc.Breaker.MaxFailures
	}
	if tc.Breaker.ResetTimeoutSeconds != 0 {
		cfg.Breaker.ResetTimeout = time.Duration(tc.Breaker.ResetTimeoutSeconds * float64(time.Second))
	}
	if tc.Menu.NeverConfirm != nil {
		cfg.Menu.NeverConfirm = *tc.Menu.NeverConfirm
	}
	if tc.Menu.ContinueOnErrorPrompt != nil {
		cfg.Menu.ContinueOnErrorPrompt = *tc.Menu.ContinueOnErrorPrompt
	}
	return cfg, nil
}

// LoadWithFile loads defaults, then a TOML file named by
// ACTIONMENU_CONFIG if set, then applies environment overrides: file
// config as base, env vars override.
func LoadWithFile() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("ACTIONMENU_CONFIG"); path != "" {
		fileCfg, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ACTIONMENU_HTTP_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.Port = n
		}
	}
	if v := os.Getenv("ACTIONMENU_NEVER_CONFIRM"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Menu.NeverConfirm = b
		}
	}
}
