package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/yildizm/countrylookup/internal/config"
	"github.com/yildizm/countrylookup/internal/emoji"
	"github.com/yildizm/countrylookup/internal/logger"
	"github.com/yildizm/countrylookup/internal/server"
)

var (
	serveAddr        string
	serveWatchConfig bool
)

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the search widget over HTTP",
		Long: `Serve the country search widget to browsers.

Each browser gets its own search state, kept in a session cookie. Prometheus
metrics are exposed on /metrics and a health check on /healthz.

Examples:
  countrylookup serve
  countrylookup serve --addr :8080 --watch-config`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
	cmd.Flags().BoolVar(&serveWatchConfig, "watch-config", false, "reload the config file when it changes")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	log := newLogger(cfg, cmd.ErrOrStderr())

	lookup, err := buildLookuper(cfg, log)
	if err != nil {
		return err
	}

	srv, err := server.New(lookup, server.Options{
		Addr:         cfg.Server.Addr,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		MaxSessions:  cfg.Server.MaxSessions,
		Debounce:     cfg.Search.Debounce,
		Search:       searchOptions(cfg, log),
		Logger:       log,
	})
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	if serveWatchConfig {
		if err := startConfigWatch(ctx, srv, cfg, log); err != nil {
			return err
		}
	}

	printServeBanner(cmd.OutOrStdout(), cfg)
	return srv.ListenAndServe(ctx)
}

// startConfigWatch reloads the server's backend whenever the active config
// file changes. Server settings keep the values in running until a restart.
func startConfigWatch(ctx context.Context, srv *server.Server, running *config.Config, log *logger.Logger) error {
	path := cfgFile
	if path == "" {
		found, ok := config.FindConfigFile()
		if !ok {
			return fmt.Errorf("--watch-config needs a config file (use --config or run 'countrylookup config init')")
		}
		path = found
	}

	watcher, err := config.NewWatcher(path, func(newCfg *config.Config) {
		if err := reloadServer(srv, running, newCfg, log); err != nil {
			log.Warn("ignoring config change: %v", err)
		}
	}, func(err error) {
		log.Warn("config reload failed: %v", err)
	})
	if err != nil {
		return err
	}

	go func() {
		if err := watcher.Run(ctx); err != nil {
			log.Error("config watcher stopped: %v", err)
		}
	}()
	log.Info("watching %s for changes", path)
	return nil
}

// reloadServer applies a changed config file to a running server
func reloadServer(srv *server.Server, running, newCfg *config.Config, log *logger.Logger) error {
	if err := applyFlagOverrides(newCfg); err != nil {
		return err
	}
	if serveAddr != "" {
		newCfg.Server.Addr = serveAddr
	}
	if newCfg.Server != running.Server {
		log.WarnWithFields("server settings changed, restart to apply them", []logger.Field{
			logger.F("addr", newCfg.Server.Addr),
			logger.F("max_sessions", newCfg.Server.MaxSessions),
		})
	}

	lookup, err := buildLookuper(newCfg, log)
	if err != nil {
		return err
	}
	srv.Reload(lookup, searchOptions(newCfg, log))
	return nil
}

func printServeBanner(w io.Writer, cfg *config.Config) {
	fmt.Fprintf(w, "%s Serving country lookup on http://%s\n", emoji.GetEmoji("server"), cfg.Server.Addr)
	fmt.Fprintf(w, "%s Country data from %s\n", emoji.GetEmoji("globe"), cfg.API.BaseURL)
}
