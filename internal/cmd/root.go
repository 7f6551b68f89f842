// Package cmd provides the CLI commands for ccsession.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/davidpaquet/ccsession/internal/clipboard"
	"github.com/davidpaquet/ccsession/internal/config"
	"github.com/davidpaquet/ccsession/internal/finder"
	"github.com/davidpaquet/ccsession/internal/logging"
	"github.com/davidpaquet/ccsession/internal/parser"
	"github.com/davidpaquet/ccsession/internal/resume"
	"github.com/davidpaquet/ccsession/internal/ui"
	"github.com/davidpaquet/ccsession/internal/watch"
)

// app holds the global flags and the collaborators shared by every command.
type app struct {
	version string
	env     config.Env

	// global flags
	all        bool
	projects   []string
	watch      bool
	logPath    string
	configPath string
	verbose    bool

	logger   *slog.Logger
	closeLog func() error

	// overridable in tests
	getwd      func() (string, error)
	isTerminal func() bool
	launcher   resume.Launcher
}

// Execute runs the root command. Errors matching resume.ErrResumeFailed have
// already been reported per session and need no further printing.
func Execute(version string) error {
	a := &app{
		version: version,
		env:     config.OSEnv{},
		getwd:   os.Getwd,
		isTerminal: func() bool {
			return term.IsTerminal(int(os.Stdout.Fd()))
		},
	}
	return a.execute(context.Background(), a.rootCmd())
}

// execute runs root and closes the log file whatever the outcome; cobra skips
// post-run hooks when a command fails.
func (a *app) execute(ctx context.Context, root *cobra.Command) error {
	defer a.closeLogFile()
	return root.ExecuteContext(ctx)
}

func (a *app) closeLogFile() {
	if a.closeLog == nil {
		return
	}
	if err := a.closeLog(); err != nil {
		fmt.Fprintln(os.Stderr, "ccsession: close log file:", err)
	}
	a.closeLog = nil
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ccsession",
		Short: "Find and resume Claude Code sessions",
		Long: `ccsession lists the Claude Code sessions recorded for a project and
resumes the ones you pick.

Running without a subcommand launches the interactive picker. When stdout
is not a terminal it prints the listing instead, like "ccsession list".

Examples:
  ccsession                      # Pick a session of the current project
  ccsession -a                   # Pick among the sessions of every project
  ccsession list --json          # Print resume payloads as JSON lines
  ccsession resume 2f1c...       # Resume a session by id`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, closeLog, err := logging.Open(a.logPath, a.verbose)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			a.logger, a.closeLog = logger, closeLog
			return nil
		},
		RunE: a.runPicker,
	}

	root.PersistentFlags().BoolVarP(&a.all, "all", "a", false, "list sessions of every project")
	root.PersistentFlags().StringArrayVarP(&a.projects, "project", "p", nil, "project path to list (can be specified multiple times, default: cwd)")
	root.PersistentFlags().StringVar(&a.logPath, "log", "", "write debug log to file")
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "settings file (default: $XDG_CONFIG_HOME/ccsession/config.toml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose logging")
	root.Flags().BoolVarP(&a.watch, "watch", "w", false, "refresh the picker when session files change")

	root.AddCommand(a.listCmd())
	root.AddCommand(a.resumeCmd())
	root.AddCommand(a.showCmd())
	root.AddCommand(a.versionCmd())
	return root
}

func (a *app) runPicker(cmd *cobra.Command, args []string) error {
	if !a.isTerminal() {
		return a.runList(cmd, false)
	}

	settings, err := a.settings()
	if err != nil {
		return err
	}
	cwd, err := a.getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	resolver := config.NewResolver(a.env)
	kind := a.kind(cmd, settings)
	cfg := ui.Config{
		Parser:    parser.NewParser(resolver),
		Cwd:       cwd,
		Params:    a.sourceParams(cmd, settings),
		Kind:      kind,
		Clipboard: clipboard.NewManager(),
		Logger:    a.logger,
		Version:   a.version,
	}

	if a.watch {
		dir, err := resolver.ProjectsDir()
		if err != nil {
			return err
		}
		w, err := watch.New(dir, watch.DefaultDebounce, a.logger)
		if err != nil {
			return fmt.Errorf("create watcher: %w", err)
		}
		defer w.Close()

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		if err := w.Start(ctx); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		cfg.Changes = w.Changes()
	}

	chosen, err := ui.Run(cfg)
	if err != nil {
		return fmt.Errorf("run picker: %w", err)
	}
	if len(chosen) == 0 {
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	return kind.Resume(ctx, chosen)
}

// settings loads the settings file named by --config or the default one.
func (a *app) settings() (config.Settings, error) {
	path := a.configPath
	if path == "" {
		p, err := config.SettingsPath(a.env)
		if err != nil {
			a.logger.Debug("no settings file", "error", err)
			return config.DefaultSettings(), nil
		}
		path = p
	}
	s, err := config.LoadSettings(path)
	if err != nil {
		return config.Settings{}, err
	}
	a.logger.Debug("settings loaded", "path", path)
	return s, nil
}

// sourceParams merges the source flags over the settings file.
func (a *app) sourceParams(cmd *cobra.Command, s config.Settings) finder.SourceParams {
	params := finder.SourceParams{
		All:          s.Source.All,
		ProjectPaths: s.Source.ProjectPaths,
	}
	if cmd.Flags().Changed("all") {
		params.All = a.all
	}
	if cmd.Flags().Changed("project") {
		params.ProjectPaths = a.projects
	}
	return params
}

func (a *app) kind(cmd *cobra.Command, s config.Settings) *resume.Kind {
	return &resume.Kind{
		MaxSelections: s.Resume.MaxSelections,
		Options:       resume.OptionsFromSettings(s.Resume),
		Launcher:      a.launcher,
		Logger:        a.logger,
		Errors:        cmd.ErrOrStderr(),
	}
}

func (a *app) parser() *parser.Parser {
	return parser.NewParser(config.NewResolver(a.env))
}

func writeLine(w io.Writer, s string) error {
	_, err := fmt.Fprintln(w, s)
	return err
}
