// Package cli defines Cobra command definitions for the playback CLI.
// This file contains the root command, version flag, and shared setup.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/berth-dev/playback/internal/assistant"
	"github.com/berth-dev/playback/internal/catalog"
	"github.com/berth-dev/playback/internal/config"
	"github.com/berth-dev/playback/internal/log"
	"github.com/berth-dev/playback/internal/playback"
	"github.com/berth-dev/playback/internal/tui"
	"github.com/berth-dev/playback/internal/tui/app"
)

var version = "dev" // set via ldflags at build time

const debugLogFile = "debug.log"

// globals holds the persistent flags and what PersistentPreRunE builds
// from them.
type globals struct {
	dir     string
	verbose bool

	cfg     *config.Config
	logger  *zap.Logger
	journal *log.Logger
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:   "playback",
		Short: "Scripted demo player for the 365 private-domain assistant",
		Long: `Playback replays scripted assistant conversations (scenarios) with
human-like pacing, and answers free-form input with canned replies.
Run without arguments in a terminal to open the interactive demo.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.setup(cmd.Name() == "playback" && tui.IsTTY())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if g.logger != nil {
				_ = g.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// When no subcommand is provided, launch TUI if TTY, guide the user otherwise
			if !tui.IsTTY() {
				return tui.NewFallbackRunner(catalog.Default().List()).Run(cmd.OutOrStdout())
			}
			asst := g.newAssistant(g.cfg.Clock())
			return tui.Run(app.New(asst, g.cfg), g.cfg.UI.AltScreen)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&g.dir, "dir", "C", ".", "Project directory holding .playback/")
	rootCmd.PersistentFlags().BoolVar(&g.verbose, "verbose", false, "Enable debug logging")

	rootCmd.AddCommand(newPlayCmd(g))
	rootCmd.AddCommand(newSayCmd(g))
	rootCmd.AddCommand(newScenariosCmd())
	rootCmd.AddCommand(newLogCmd(g))
	rootCmd.AddCommand(newReportCmd(g))
	rootCmd.AddCommand(newCleanCmd(g))
	rootCmd.AddCommand(newConfigCmd(g))
	return rootCmd
}

// Execute runs the root command. Called from main.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the config and builds the loggers. In interactive mode
// diagnostics go to .playback/debug.log so they do not corrupt the screen.
func (g *globals) setup(interactive bool) error {
	cfg, err := config.Load(g.dir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	g.cfg = cfg

	level := cfg.Log.Level
	if g.verbose {
		level = "debug"
	}
	var path string
	if interactive {
		path = filepath.Join(g.dir, log.DirName, debugLogFile)
	}
	logger, err := log.NewZap(level, path)
	if err != nil {
		return err
	}
	g.logger = logger

	if cfg.Log.Journal {
		journal, err := log.NewLogger(g.dir)
		if err != nil {
			return fmt.Errorf("opening journal: %w", err)
		}
		g.journal = journal
	}
	return nil
}

// newAssistant builds an Assistant from the loaded config.
func (g *globals) newAssistant(clock playback.Clock) *assistant.Assistant {
	return assistant.New(assistant.Options{
		Clock:   clock,
		Pacing:  g.cfg.Pacing(),
		Router:  g.cfg.RouterOptions(),
		Logger:  g.logger,
		Journal: g.journal,
	})
}

// openJournal returns the journal, opening it even when recording is
// disabled so past events can still be read.
func (g *globals) openJournal() (*log.Logger, error) {
	if g.journal != nil {
		return g.journal, nil
	}
	return log.NewLogger(g.dir)
}
