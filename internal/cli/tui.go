package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yildizm/countrylookup/internal/search"
	"github.com/yildizm/countrylookup/internal/ui"
)

func newTUICommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive search screen",
		Long: `Open the interactive search screen.

Typing waits for a short pause before looking the name up. A single match is
shown in detail; up to ten matches are listed. Use the arrow keys and Enter to
open a listed country and Esc to go back to the list. Ctrl+C quits.`,
		Args: cobra.NoArgs,
		RunE: runTUI,
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// the screen owns the terminal, so logs only go to a file
	w, closeLog, err := openLogFile(cfg)
	if err != nil {
		return err
	}
	defer closeLog()
	log := newLogger(cfg, w)

	if !ui.SetThemeByName(cfg.Output.Theme) {
		return fmt.Errorf("unknown theme: %s (available: %v)", cfg.Output.Theme, ui.GetAvailableThemes())
	}
	ui.SetColorMode(cfg.Output.ColorMode)

	lookup, err := buildLookuper(cfg, log)
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	ctrl := search.New(lookup, searchOptions(cfg, log))
	log.Info("starting search screen")
	return ui.Run(ctx, ctrl, ui.Options{
		Debounce: cfg.Search.Debounce,
		Logger:   log,
	})
}
