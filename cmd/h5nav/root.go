package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vanderheijden86/h5nav/internal/datasource"
	"github.com/vanderheijden86/h5nav/pkg/config"
	"github.com/vanderheijden86/h5nav/pkg/debug"
	"github.com/vanderheijden86/h5nav/pkg/metrics"
	"github.com/vanderheijden86/h5nav/pkg/search"
	"github.com/vanderheijden86/h5nav/pkg/ui"
	"github.com/vanderheijden86/h5nav/pkg/watcher"
)

// EnvAutoClose quits the TUI after the given number of milliseconds.
const EnvAutoClose = "H5NAV_TUI_AUTOCLOSE_MS"

type rootOptions struct {
	configPath   string
	debug        bool
	stats        bool
	dump         bool
	json         bool
	groupSummary bool
	ignoreCase   bool
	split        float64
}

// NewRootCommand creates the h5nav command.
func NewRootCommand() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:   "h5nav [flags] PATH",
		Short: "Browse the hierarchy of a scientific data file",
		Long: `h5nav shows the groups and datasets of a file as a collapsible tree with
a details pane for the selected entity.

Supported sources: JSON/YAML manifests, SQLite databases and directories.
Native HDF5 files must be exported to a manifest first.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "config file (default "+config.ConfigPath()+")")
	f.BoolVar(&opts.debug, "debug", false, "write a debug log to "+debug.DefaultLogPath())
	f.BoolVar(&opts.stats, "stats", false, "print timing statistics as JSON to stderr on exit")
	f.BoolVar(&opts.dump, "dump", false, "print the tree and exit")
	f.BoolVar(&opts.json, "json", false, "with --dump, print JSON instead of text")
	f.BoolVar(&opts.groupSummary, "group-summary", false, "show child counts under each group")
	f.BoolVar(&opts.ignoreCase, "ignore-case", false, "case-insensitive search")
	f.Float64Var(&opts.split, "split", 0, "contents pane share of the width (0.2-0.8)")

	cmd.AddCommand(NewVersionCommand())
	return cmd
}

func loadConfig(cmd *cobra.Command, opts rootOptions) (config.Config, error) {
	var cfg config.Config
	var err error
	if opts.configPath != "" {
		cfg, err = config.LoadFrom(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("group-summary") {
		cfg.UI.GroupSummary = opts.groupSummary
	}
	if flags.Changed("ignore-case") {
		cfg.Search.CaseInsensitive = opts.ignoreCase
	}
	if flags.Changed("split") {
		cfg.UI.SplitRatio = opts.split
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

func run(cmd *cobra.Command, path string, opts rootOptions) error {
	if opts.debug {
		if err := debug.Enable(""); err != nil {
			return fmt.Errorf("enabling debug log: %w", err)
		}
		defer debug.Disable()
	}
	if opts.stats {
		defer func() {
			_ = metrics.WriteJSON(cmd.ErrOrStderr())
		}()
	}

	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	info, err := datasource.Load(cmd.Context(), path, datasource.Options{
		MaxDepth:    cfg.Loader.MaxDepth,
		Concurrency: cfg.Loader.Concurrency,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.dump || !isTerminal(out) {
		if opts.json {
			return dumpJSON(out, info)
		}
		return dumpText(out, info, cfg.UI.GroupSummary)
	}

	uiOpts := ui.Options{
		SplitRatio:   cfg.UI.SplitRatio,
		Tick:         cfg.Tick(),
		GroupSummary: cfg.UI.GroupSummary,
		Search: search.OptionsFromEnv(search.Options{
			Mode:            search.Mode(cfg.Search.Mode),
			CaseInsensitive: cfg.Search.CaseInsensitive,
		}),
		Theme: ui.ThemeFor(cfg.UI.Theme),
	}
	if w, err := watcher.New(info.Path); err == nil {
		if err := w.Start(); err == nil {
			defer w.Stop()
			uiOpts.Watcher = w
		} else {
			debug.Log("watcher disabled: %v", err)
		}
	}

	m, err := runTUIProgram(cmd, ui.NewModel(info, uiOpts))
	if err != nil {
		return err
	}
	return m.Err()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// runTUIProgram runs the program until it quits, the command context is
// cancelled, or the autoclose timer fires.
func runTUIProgram(cmd *cobra.Command, m ui.Model) (ui.Model, error) {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
		tea.WithContext(cmd.Context()),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	if v := os.Getenv(EnvAutoClose); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()

				select {
				case <-runDone:
					return
				case <-time.After(2 * time.Second):
				}

				p.Kill()
			}()
		}
	}

	final, err := p.Run()
	if err != nil && (errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted)) {
		err = nil
	}
	if fm, ok := final.(ui.Model); ok {
		m = fm
	}
	return m, err
}
