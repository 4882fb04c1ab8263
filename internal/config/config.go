package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds the complete application configuration
type Config struct {
	Version string       `yaml:"version" json:"version"`
	API     APIConfig    `yaml:"api" json:"api"`
	Search  SearchConfig `yaml:"search" json:"search"`
	Cache   CacheConfig  `yaml:"cache" json:"cache"`
	Server  ServerConfig `yaml:"server" json:"server"`
	Output  OutputConfig `yaml:"output" json:"output"`
}

// APIConfig configures the country-data API client
type APIConfig struct {
	BaseURL   string        `yaml:"base_url" json:"base_url"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout"` // 0 = no timeout
	UserAgent string        `yaml:"user_agent" json:"user_agent"`
}

// SearchConfig configures the search controller
type SearchConfig struct {
	Debounce   time.Duration `yaml:"debounce" json:"debounce"`
	MaxMatches int           `yaml:"max_matches" json:"max_matches"`
	DropStale  bool          `yaml:"drop_stale" json:"drop_stale"` // drop responses to superseded queries
}

// CacheConfig configures the lookup response cache
type CacheConfig struct {
	Size int           `yaml:"size" json:"size"` // 0 disables caching
	TTL  time.Duration `yaml:"ttl" json:"ttl"`
}

// ServerConfig configures the HTTP widget server
type ServerConfig struct {
	Addr         string        `yaml:"addr" json:"addr"`
	MaxSessions  int           `yaml:"max_sessions" json:"max_sessions"`
	ReadTimeout  time.Duration `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" json:"write_timeout"`
}

// OutputConfig configures output formatting and display
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"` // text|json|html
	ColorMode     string `yaml:"color_mode" json:"color_mode"`         // auto|always|never
	Theme         string `yaml:"theme" json:"theme"`                   // default|high-contrast|minimal
	Verbose       bool   `yaml:"verbose" json:"verbose"`
	LogFile       string `yaml:"log_file" json:"log_file"` // TUI log destination; empty discards
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		API: APIConfig{
			BaseURL:   "https://restcountries.com/v3.1",
			Timeout:   0,
			UserAgent: "countrylookup",
		},
		Search: SearchConfig{
			Debounce:   300 * time.Millisecond,
			MaxMatches: 10,
			DropStale:  false,
		},
		Cache: CacheConfig{
			Size: 0,
			TTL:  10 * time.Minute,
		},
		Server: ServerConfig{
			Addr:         "127.0.0.1:8080",
			MaxSessions:  1024,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Output: OutputConfig{
			DefaultFormat: "text",
			ColorMode:     "auto",
			Theme:         "default",
			Verbose:       false,
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateAPIConfig(); err != nil {
		return err
	}
	if err := c.validateSearchConfig(); err != nil {
		return err
	}
	if err := c.validateCacheConfig(); err != nil {
		return err
	}
	if err := c.validateServerConfig(); err != nil {
		return err
	}
	if err := c.validateOutputConfig(); err != nil {
		return err
	}
	return nil
}

// validateAPIConfig validates API client configuration
func (c *Config) validateAPIConfig() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid api base_url: %q (must be an absolute http or https URL)", c.API.BaseURL)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api timeout must be non-negative")
	}
	return nil
}

// validateSearchConfig validates search controller configuration
func (c *Config) validateSearchConfig() error {
	if c.Search.Debounce < 0 {
		return fmt.Errorf("search debounce must be non-negative")
	}
	if c.Search.MaxMatches < 1 {
		return fmt.Errorf("search max_matches must be greater than 0")
	}
	return nil
}

// validateCacheConfig validates cache configuration
func (c *Config) validateCacheConfig() error {
	if c.Cache.Size < 0 {
		return fmt.Errorf("cache size must be non-negative")
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache ttl must be non-negative")
	}
	return nil
}

// validateServerConfig validates HTTP server configuration
func (c *Config) validateServerConfig() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server addr must not be empty")
	}
	if c.Server.MaxSessions < 1 {
		return fmt.Errorf("server max_sessions must be greater than 0")
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 {
		return fmt.Errorf("server timeouts must be non-negative")
	}
	return nil
}

// validateOutputConfig validates output-related configuration
func (c *Config) validateOutputConfig() error {
	if c.Output.DefaultFormat != "" {
		validFormats := map[string]bool{
			"text": true,
			"json": true,
			"html": true,
		}
		if !validFormats[c.Output.DefaultFormat] {
			return fmt.Errorf("invalid output format: %s (must be one of: text, json, html)", c.Output.DefaultFormat)
		}
	}
	if c.Output.ColorMode != "" {
		validColorModes := map[string]bool{
			"auto":   true,
			"always": true,
			"never":  true,
		}
		if !validColorModes[c.Output.ColorMode] {
			return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Output.ColorMode)
		}
	}
	if c.Output.Theme != "" {
		validThemes := map[string]bool{
			"default":       true,
			"high-contrast": true,
			"minimal":       true,
		}
		if !validThemes[c.Output.Theme] {
			return fmt.Errorf("invalid theme: %s (must be one of: default, high-contrast, minimal)", c.Output.Theme)
		}
	}
	return nil
}
