// Copyright (c) 2025 Study Buddy Project
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.studybuddy/config.toml
//   - ~/.studybuddy/config.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete application configuration.
type Config struct {
	// Backend is the chat-proxy endpoint used by the TUI client.
	Backend BackendConfig `toml:"backend" json:"backend"`

	// Proxy configures the studyproxy server binary.
	Proxy ProxyConfig `toml:"proxy" json:"proxy"`

	// Typing configures the reveal pacing.
	Typing TypingConfig `toml:"typing" json:"typing"`

	// UI configures the terminal interface.
	UI UIConfig `toml:"ui" json:"ui"`
}

// BackendConfig points the TUI at its chat proxy.
type BackendConfig struct {
	// URL is the full chat endpoint. Relative deployments sit behind the
	// same origin; development talks to the local proxy.
	URL string `toml:"url" json:"url"`
	// TimeoutSecs is the per-turn request timeout in seconds.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
}

// TimeoutDuration returns the request timeout as a duration.
func (b BackendConfig) TimeoutDuration() time.Duration {
	return time.Duration(b.TimeoutSecs) * time.Second
}

// ProxyConfig configures the proxy server and its upstream provider.
type ProxyConfig struct {
	// Addr is the listen address (default :3001).
	Addr string `toml:"addr" json:"addr"`
	// AnthropicKey is the upstream API key. Usually set via the
	// ANTHROPIC_API_KEY environment variable rather than on disk.
	AnthropicKey string `toml:"anthropic_key" json:"anthropic_key"`
	// AnthropicURL is the upstream base URL.
	AnthropicURL string `toml:"anthropic_url" json:"anthropic_url"`
	// Model is the upstream model identifier.
	Model string `toml:"model" json:"model"`
	// MaxTokens caps the upstream completion length.
	MaxTokens int `toml:"max_tokens" json:"max_tokens"`
	// RateLimitRPS is the per-client request rate limit (0 disables).
	RateLimitRPS float64 `toml:"rate_limit_rps" json:"rate_limit_rps"`
	// RateBurst is the rate limiter burst size.
	RateBurst int `toml:"rate_burst" json:"rate_burst"`
}

// TypingConfig tunes the reveal pacing.
type TypingConfig struct {
	// SpeedMultiplier scales every reveal delay. 1.0 is the shipped human
	// pace; smaller is faster. Clamped to [0.05, 10].
	SpeedMultiplier float64 `toml:"speed_multiplier" json:"speed_multiplier"`
}

// UIConfig contains terminal interface options.
type UIConfig struct {
	// ShowSidebar controls the student-context sidebar.
	ShowSidebar bool `toml:"show_sidebar" json:"show_sidebar"`
	// SidebarWidth is the sidebar width in columns.
	SidebarWidth int `toml:"sidebar_width" json:"sidebar_width"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in default configuration.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			URL:         "http://localhost:3001/api/chat",
			TimeoutSecs: 60,
		},
		Proxy: ProxyConfig{
			Addr:         ":3001",
			AnthropicURL: "https://api.anthropic.com",
			Model:        "claude-3-haiku-20240307",
			MaxTokens:    1024,
			RateLimitRPS: 2,
			RateBurst:    5,
		},
		Typing: TypingConfig{
			SpeedMultiplier: 1.0,
		},
		UI: UIConfig{
			ShowSidebar:  true,
			SidebarWidth: 34,
		},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".studybuddy"), nil
}

// ConfigPathTOML returns the TOML config file path.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the JSON config file path.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last, then validation with clamping.
func Load() (*Config, error) {
	cfg := Default()

	if path, err := ConfigPathTOML(); err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := LoadTOML(cfg, path); err != nil {
				return nil, err
			}
			return finishLoad(cfg)
		}
	}

	if path, err := ConfigPathJSON(); err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := LoadJSON(cfg, path); err != nil {
				return nil, err
			}
			return finishLoad(cfg)
		}
	}

	return finishLoad(cfg)
}

// LoadFromPath loads configuration from a specific file, picking the format
// from the extension.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	var err error
	if filepath.Ext(path) == ".json" {
		err = LoadJSON(cfg, path)
	} else {
		err = LoadTOML(cfg, path)
	}
	if err != nil {
		return nil, err
	}
	return finishLoad(cfg)
}

func finishLoad(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over the given config.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON decodes a JSON file over the given config.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides. Environment
// always wins over file values.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("STUDYBUDDY_BACKEND_URL"); v != "" {
		c.Backend.URL = v
	}
	if v := os.Getenv("STUDYBUDDY_PROXY_ADDR"); v != "" {
		c.Proxy.Addr = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		c.Proxy.AnthropicKey = v
	}
	if v := os.Getenv("ANTHROPIC_BASE_URL"); v != "" {
		c.Proxy.AnthropicURL = v
	}
	if v := os.Getenv("STUDYBUDDY_MODEL"); v != "" {
		c.Proxy.Model = v
	}
	if v := os.Getenv("STUDYBUDDY_TYPING_SPEED"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Typing.SpeedMultiplier = f
		}
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the configuration, clamping recoverable values and
// returning an error only for unusable ones.
func (c *Config) Validate() error {
	if c.Backend.URL == "" {
		return errors.New("backend.url must not be empty")
	}
	if _, err := url.Parse(c.Backend.URL); err != nil {
		return fmt.Errorf("backend.url is not a valid URL: %w", err)
	}
	if c.Backend.TimeoutSecs <= 0 {
		c.Backend.TimeoutSecs = 60
	}

	if c.Proxy.Addr == "" {
		c.Proxy.Addr = ":3001"
	}
	if c.Proxy.AnthropicURL == "" {
		c.Proxy.AnthropicURL = "https://api.anthropic.com"
	}
	if c.Proxy.Model == "" {
		c.Proxy.Model = "claude-3-haiku-20240307"
	}
	if c.Proxy.MaxTokens <= 0 {
		c.Proxy.MaxTokens = 1024
	}
	if c.Proxy.RateLimitRPS < 0 {
		c.Proxy.RateLimitRPS = 0
	}
	if c.Proxy.RateBurst <= 0 {
		c.Proxy.RateBurst = 5
	}

	// Clamp typing speed to a usable window.
	if c.Typing.SpeedMultiplier <= 0 {
		c.Typing.SpeedMultiplier = 1.0
	}
	if c.Typing.SpeedMultiplier < 0.05 {
		c.Typing.SpeedMultiplier = 0.05
	}
	if c.Typing.SpeedMultiplier > 10 {
		c.Typing.SpeedMultiplier = 10
	}

	if c.UI.SidebarWidth <= 0 {
		c.UI.SidebarWidth = 34
	}

	return nil
}

// =============================================================================
// GLOBAL ACCESSOR
// =============================================================================

var (
	globalMu     sync.RWMutex
	globalConfig *Config
)

// Global returns the process-wide configuration, loading it on first use.
// Never returns nil: a load failure yields the defaults.
func Global() *Config {
	globalMu.RLock()
	if globalConfig != nil {
		defer globalMu.RUnlock()
		return globalConfig
	}
	globalMu.RUnlock()

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			cfg = Default()
		}
		globalConfig = cfg
	}
	return globalConfig
}

// SetGlobal replaces the process-wide configuration.
func SetGlobal(cfg *Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalConfig = cfg
}

// ReloadGlobal re-reads the configuration from disk. On failure the
// previous configuration is kept and the error returned.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	SetGlobal(cfg)
	return nil
}

// ResetGlobalForTesting clears the global config. Test helper only.
func ResetGlobalForTesting() {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalConfig = nil
}
