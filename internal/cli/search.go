package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/yildizm/countrylookup/internal/emoji"
	"github.com/yildizm/countrylookup/internal/search"
	"github.com/yildizm/countrylookup/internal/view"
)

var searchSelect string

func newSearchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <name>",
		Short: "Look up a country once and print the result",
		Long: `Look up countries whose name contains the given text and print what the
search screen would show: a notice, a single country, or a list of matches.

Examples:
  countrylookup search iceland
  countrylookup search land --select Iceland
  countrylookup search "united" --output json`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().StringVarP(&searchSelect, "select", "s", "", "official name of a list entry to show in detail")

	return cmd
}

// searchReport is the machine-readable result of a search
type searchReport struct {
	Query  string         `json:"query"`
	View   string         `json:"view"`
	Mode   string         `json:"mode"`
	Notice *search.Notice `json:"notice,omitempty"`
	Detail *view.Detail   `json:"detail,omitempty"`
	List   []view.Entry   `json:"list,omitempty"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg, cmd.ErrOrStderr())

	lookup, err := buildLookuper(cfg, log)
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	query := strings.Join(args, " ")
	ctrl := search.New(lookup, searchOptions(cfg, log))
	out := ctrl.Search(ctx, query)

	if searchSelect != "" && out.Notice == nil {
		out, err = ctrl.Select(searchSelect)
		if err != nil {
			return fmt.Errorf("cannot select %q: %w", searchSelect, err)
		}
	}

	report := buildReport(query, ctrl, out)
	if err := writeReport(cmd.OutOrStdout(), cfg.Output.DefaultFormat, report); err != nil {
		return err
	}

	if out.Notice != nil && out.Notice.Kind == search.NoticeFailure {
		return fmt.Errorf("%s", out.Notice.Text)
	}
	return nil
}

func buildReport(query string, ctrl *search.Controller, out search.Outcome) searchReport {
	state := ctrl.State()
	report := searchReport{
		Query:  query,
		View:   out.View.String(),
		Mode:   state.Mode.String(),
		Notice: out.Notice,
	}
	if state.Detail != nil {
		d := view.NewDetail(state.Detail)
		report.Detail = &d
	}
	if len(state.List) > 0 {
		report.List = view.NewList(state.List).Entries
	}
	return report
}

func writeReport(w io.Writer, format string, report searchReport) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "html":
		return writeHTMLReport(w, report)
	default:
		writeTextReport(w, report)
		return nil
	}
}

func writeTextReport(w io.Writer, report searchReport) {
	if report.Notice != nil {
		icon := "info"
		if report.Notice.Kind == search.NoticeFailure {
			icon = "error"
		}
		fmt.Fprintf(w, "%s %s\n", emoji.Severity(icon), report.Notice.Text)
		return
	}

	if d := report.Detail; d != nil {
		fmt.Fprintf(w, "%s%s\n", flagPrefix(d.FlagEmoji), d.Name)
		fmt.Fprintf(w, "  %s Capital: %s\n", emoji.GetEmoji("capital"), d.Capital)
		fmt.Fprintf(w, "  %s Population: %s\n", emoji.GetEmoji("population"), d.PopulationText())
		fmt.Fprintf(w, "  %s Languages: %s\n", emoji.GetEmoji("languages"), d.Languages)
		return
	}

	if len(report.List) == 0 {
		fmt.Fprintf(w, "%s No countries to show\n", emoji.GetEmoji("info"))
		return
	}

	fmt.Fprintf(w, "%s %d matches:\n", emoji.GetEmoji("list"), len(report.List))
	for i, entry := range report.List {
		fmt.Fprintf(w, "  %2d. %s%s\n", i+1, flagPrefix(entry.FlagEmoji), entry.Name)
	}
}

func writeHTMLReport(w io.Writer, report searchReport) error {
	html, err := view.NewHTML()
	if err != nil {
		return err
	}

	if report.Notice != nil {
		_, err := fmt.Fprintf(w, "<!-- %s: %s -->\n", report.Notice.Kind, report.Notice.Text)
		return err
	}
	if report.Detail != nil {
		return html.Detail(w, *report.Detail)
	}
	return html.List(w, view.List{Entries: report.List})
}

func flagPrefix(flag string) string {
	if f := emoji.Flag(flag, ""); f != "" {
		return f + " "
	}
	return ""
}

// signalContext is shared by the long-running commands
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
