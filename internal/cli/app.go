package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/yildizm/countrylookup/internal/config"
	"github.com/yildizm/countrylookup/internal/countries"
	"github.com/yildizm/countrylookup/internal/logger"
	"github.com/yildizm/countrylookup/internal/search"
)

// loadConfig loads the configuration and applies the global flags on top
func loadConfig() (*config.Config, error) {
	cfg, err := config.NewLoader().LoadConfig(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := applyFlagOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFlagOverrides puts the global flags on top of a loaded configuration
func applyFlagOverrides(cfg *config.Config) error {
	if isVerbose() {
		cfg.Output.Verbose = true
	}
	if noColor {
		cfg.Output.ColorMode = "never"
	}
	if outputFmt != "" {
		cfg.Output.DefaultFormat = outputFmt
	}

	return cfg.Validate()
}

// configVerbosity follows the loaded configuration's verbose setting
type configVerbosity struct {
	cfg *config.Config
}

func (v configVerbosity) IsVerbose() bool {
	return v.cfg.Output.Verbose
}

func newLogger(cfg *config.Config, w io.Writer) *logger.Logger {
	return logger.NewWithWriter("cli", configVerbosity{cfg: cfg}, w)
}

// openLogFile opens the configured log file for appending. The returned
// close function is always safe to call.
func openLogFile(cfg *config.Config) (io.Writer, func(), error) {
	if cfg.Output.LogFile == "" {
		return io.Discard, func() {}, nil
	}

	// #nosec G304 - path comes from the user's own configuration
	f, err := os.OpenFile(cfg.Output.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, func() {}, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// buildLookuper creates the API client, wrapped in a response cache when one is configured
func buildLookuper(cfg *config.Config, log *logger.Logger) (countries.Lookuper, error) {
	client, err := countries.NewClient(countries.ClientConfig{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		UserAgent: cfg.API.UserAgent,
	})
	if err != nil {
		return nil, err
	}

	if cfg.Cache.Size == 0 {
		return client, nil
	}

	cached, err := countries.NewCachedLookuper(client, cfg.Cache.Size, cfg.Cache.TTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create lookup cache: %w", err)
	}
	log.DebugWithFields("lookup cache enabled", []logger.Field{
		logger.F("size", cfg.Cache.Size),
		logger.F("ttl", cfg.Cache.TTL),
	})
	return cached, nil
}

func searchOptions(cfg *config.Config, log *logger.Logger) search.Options {
	return search.Options{
		MaxMatches: cfg.Search.MaxMatches,
		DropStale:  cfg.Search.DropStale,
		Logger:     log.WithComponent("search"),
	}
}
