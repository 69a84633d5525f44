package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/tinytelemetry/campus/internal/dashboard"
	"github.com/tinytelemetry/campus/internal/logging"
	"github.com/tinytelemetry/campus/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "College management dashboard",
		Long: `campus is a terminal dashboard over a college's students, courses,
faculty, library, admin staff and inventory. Records are read-only:
saving and deleting only write a trace line to the runtime log.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts.configPath, cmd.Flags())
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			return runTUI(cfg)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "config file (default is $HOME/.config/campus/config.yml)")
	pf.String("data-source", "", "record source: catalog or duckdb")
	pf.String("catalog-path", "", "YAML catalog replacing the built-in dataset")
	pf.String("db-path", "", "DuckDB database file for the duckdb source")
	pf.String("skin", "", "colour skin name")
	pf.String("log-file", "", "runtime log file")
	pf.String("log-level", "", "runtime log level (debug, info, warn, error)")

	cmd.AddCommand(
		newServeCmd(opts),
		newSectionsCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// openLogger opens the runtime log named by cfg.
func openLogger(cfg appConfig) (*slog.Logger, func()) {
	level, _ := logging.ParseLevel(cfg.LogLevel) // validated by loadConfig
	return logging.Open(cfg.LogFile, level)
}

func runTUI(cfg appConfig) error {
	log, closeLog := openLogger(cfg)
	defer closeLog()

	if err := tui.InitializeSkin(cfg.Skin, cfg.ConfigDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to load skin '%s': %v (using default)\n", cfg.Skin, err)
		log.Warn("skin not loaded", "skin", cfg.Skin, "err", err)
	}

	source, closeSource, err := openSource(cfg, log)
	if err != nil {
		return err
	}
	defer closeSource()

	state := dashboard.New(source, dashboard.SlogTracer{Logger: log})
	model := tui.NewDashboardModel(state, cfg.ReverseScrollWheel, cfg.DataSource)
	app := tui.NewApp(tui.NewDashboardPage(model))

	log.Info("starting dashboard", "source", cfg.DataSource, "config", cfg.ConfigPath)

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		if strings.Contains(err.Error(), "TTY") || strings.Contains(err.Error(), "/dev/tty") {
			return fmt.Errorf("TUI requires a real terminal")
		}
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
