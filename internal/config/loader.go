package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPaths defines the config file search paths in priority order
var ConfigPaths = []string{
	"./.countrylookup.yaml",              // Project-specific config (highest priority)
	"~/.config/countrylookup/config.yaml", // User config
	"/etc/countrylookup/config.yaml",      // System config (lowest priority)
}

// Loader handles configuration loading with priority merging
type Loader struct {
	configPaths []string
}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{
		configPaths: ConfigPaths,
	}
}

// LoadConfig loads configuration from multiple sources with priority order:
// 1. Command line flags (handled by caller)
// 2. Environment variables
// 3. ./.countrylookup.yaml
// 4. ~/.config/countrylookup/config.yaml
// 5. /etc/countrylookup/config.yaml
// 6. Built-in defaults
func (l *Loader) LoadConfig(customPath string) (*Config, error) {
	config := DefaultConfig()

	if customPath != "" {
		if err := validateConfigPath(customPath); err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		if err := l.loadFromFile(config, customPath); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", customPath, err)
		}
	} else {
		// lowest priority first so later files win
		for i := len(l.configPaths) - 1; i >= 0; i-- {
			expandedPath := expandPath(l.configPaths[i])
			if fileExists(expandedPath) {
				if err := l.loadFromFile(config, expandedPath); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: Failed to load config from %s: %v\n", expandedPath, err)
				}
			}
		}
	}

	if err := l.applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// loadFromFile loads configuration from a YAML file and merges it with existing config
func (l *Loader) loadFromFile(config *Config, path string) error {
	// #nosec G304 - path is validated by validateConfigPath() before reaching here
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var fileConfig Config
	if err := yaml.Unmarshal(data, &fileConfig); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	var present presentFlags
	if err := yaml.Unmarshal(data, &present); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	mergeConfigs(config, &fileConfig)
	mergeFlags(config, &present)

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config
func (l *Loader) applyEnvOverrides(config *Config) error {
	envMappings := map[string]func(string) error{
		// API Config
		"COUNTRYLOOKUP_API_BASE_URL":   func(v string) error { config.API.BaseURL = v; return nil },
		"COUNTRYLOOKUP_API_TIMEOUT":    func(v string) error { return parseDuration(v, &config.API.Timeout) },
		"COUNTRYLOOKUP_API_USER_AGENT": func(v string) error { config.API.UserAgent = v; return nil },

		// Search Config
		"COUNTRYLOOKUP_SEARCH_DEBOUNCE":    func(v string) error { return parseDuration(v, &config.Search.Debounce) },
		"COUNTRYLOOKUP_SEARCH_MAX_MATCHES": func(v string) error { return parseInt(v, &config.Search.MaxMatches) },
		"COUNTRYLOOKUP_SEARCH_DROP_STALE":  func(v string) error { return parseBool(v, &config.Search.DropStale) },

		// Cache Config
		"COUNTRYLOOKUP_CACHE_SIZE": func(v string) error { return parseInt(v, &config.Cache.Size) },
		"COUNTRYLOOKUP_CACHE_TTL":  func(v string) error { return parseDuration(v, &config.Cache.TTL) },

		// Server Config
		"COUNTRYLOOKUP_SERVER_ADDR":          func(v string) error { config.Server.Addr = v; return nil },
		"COUNTRYLOOKUP_SERVER_MAX_SESSIONS":  func(v string) error { return parseInt(v, &config.Server.MaxSessions) },
		"COUNTRYLOOKUP_SERVER_READ_TIMEOUT":  func(v string) error { return parseDuration(v, &config.Server.ReadTimeout) },
		"COUNTRYLOOKUP_SERVER_WRITE_TIMEOUT": func(v string) error { return parseDuration(v, &config.Server.WriteTimeout) },

		// Output Config
		"COUNTRYLOOKUP_OUTPUT_DEFAULT_FORMAT": func(v string) error { config.Output.DefaultFormat = v; return nil },
		"COUNTRYLOOKUP_OUTPUT_COLOR_MODE":     func(v string) error { config.Output.ColorMode = v; return nil },
		"COUNTRYLOOKUP_OUTPUT_THEME":          func(v string) error { config.Output.Theme = v; return nil },
		"COUNTRYLOOKUP_OUTPUT_VERBOSE":        func(v string) error { return parseBool(v, &config.Output.Verbose) },
		"COUNTRYLOOKUP_OUTPUT_LOG_FILE":       func(v string) error { config.Output.LogFile = v; return nil },
	}

	for envVar, setter := range envMappings {
		if value := os.Getenv(envVar); value != "" {
			if err := setter(value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", envVar, err)
			}
		}
	}

	return nil
}

// GetConfigPaths returns the list of configuration file paths that will be searched
func GetConfigPaths() []string {
	paths := make([]string, 0, len(ConfigPaths))
	for _, path := range ConfigPaths {
		paths = append(paths, expandPath(path))
	}
	return paths
}

// FindConfigFile finds the first existing config file in the search paths
func FindConfigFile() (string, bool) {
	for _, path := range ConfigPaths {
		expandedPath := expandPath(path)
		if fileExists(expandedPath) {
			return expandedPath, true
		}
	}
	return "", false
}

// Helper functions

// validateConfigPath validates that a config path is safe to read
func validateConfigPath(path string) error {
	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("config file must have .yaml or .yml extension")
	}

	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if strings.HasPrefix(absPath, "/proc/") || strings.HasPrefix(absPath, "/sys/") {
		return fmt.Errorf("access to system files not allowed")
	}

	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// mergeConfigs merges source config into destination config
// Only non-zero values from source overwrite destination
func mergeConfigs(dst, src *Config) {
	if src.Version != "" {
		dst.Version = src.Version
	}

	mergeAPIConfig(&dst.API, &src.API)
	mergeSearchConfig(&dst.Search, &src.Search)
	mergeCacheConfig(&dst.Cache, &src.Cache)
	mergeServerConfig(&dst.Server, &src.Server)
	mergeOutputConfig(&dst.Output, &src.Output)
}

func mergeAPIConfig(dst, src *APIConfig) {
	if src.BaseURL != "" {
		dst.BaseURL = src.BaseURL
	}
	if src.Timeout != 0 {
		dst.Timeout = src.Timeout
	}
	if src.UserAgent != "" {
		dst.UserAgent = src.UserAgent
	}
}

func mergeSearchConfig(dst, src *SearchConfig) {
	if src.Debounce != 0 {
		dst.Debounce = src.Debounce
	}
	if src.MaxMatches != 0 {
		dst.MaxMatches = src.MaxMatches
	}
}

func mergeCacheConfig(dst, src *CacheConfig) {
	if src.Size != 0 {
		dst.Size = src.Size
	}
	if src.TTL != 0 {
		dst.TTL = src.TTL
	}
}

func mergeServerConfig(dst, src *ServerConfig) {
	if src.Addr != "" {
		dst.Addr = src.Addr
	}
	if src.MaxSessions != 0 {
		dst.MaxSessions = src.MaxSessions
	}
	if src.ReadTimeout != 0 {
		dst.ReadTimeout = src.ReadTimeout
	}
	if src.WriteTimeout != 0 {
		dst.WriteTimeout = src.WriteTimeout
	}
}

func mergeOutputConfig(dst, src *OutputConfig) {
	if src.DefaultFormat != "" {
		dst.DefaultFormat = src.DefaultFormat
	}
	if src.ColorMode != "" {
		dst.ColorMode = src.ColorMode
	}
	if src.Theme != "" {
		dst.Theme = src.Theme
	}
	if src.LogFile != "" {
		dst.LogFile = src.LogFile
	}
}

// presentFlags records the booleans a file actually sets. A plain bool
// cannot tell a missing key from an explicit false.
type presentFlags struct {
	Search struct {
		DropStale *bool `yaml:"drop_stale"`
	} `yaml:"search"`
	Output struct {
		Verbose *bool `yaml:"verbose"`
	} `yaml:"output"`
}

// mergeFlags copies only the booleans present in the file
func mergeFlags(dst *Config, src *presentFlags) {
	mergeIfSet(&dst.Search.DropStale, src.Search.DropStale)
	mergeIfSet(&dst.Output.Verbose, src.Output.Verbose)
}

func mergeIfSet(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

// Type conversion helpers

func parseInt(s string, dst *int) error {
	val, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseBool(s string, dst *bool) error {
	val, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseDuration(s string, dst *time.Duration) error {
	val, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}
