// Package cli wires the classdiag commands.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/olehluchkiv/classdiag/internal/config"
	"github.com/olehluchkiv/classdiag/internal/logging"
)

// skipConfig marks commands that must run without loading .classdiag.yaml.
const skipConfig = "skip-config"

// app carries the state shared by all commands of one invocation.
type app struct {
	configFile string
	logLevel   string
	logFile    string

	cfg      *config.Config
	logger   *slog.Logger
	closeLog func()
}

// NewRootCommand builds the classdiag command tree.
func NewRootCommand() *cobra.Command {
	a := &app{closeLog: func() {}}

	root := &cobra.Command{
		Use:   "classdiag",
		Short: "Render class diagrams from C#, Java, Python and Go sources",
		Long: `classdiag extracts types, members and inheritance from source code and
renders them as a Mermaid classDiagram. Inputs may be files, directories,
repository URLs or "-" for a snippet on stdin.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			a.closeLog()
		},
	}

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default is ./"+config.FileName+")")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.logFile, "log-file", "", "also append JSON logs to this file")

	root.AddCommand(
		newGenerateCommand(a),
		newServeCommand(a),
		newWatchCommand(a),
		newConfigCommand(),
		newVersionCommand(),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
// This is called by main.main().
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// init loads configuration, applies logging flags and sets up the logger.
func (a *app) init(cmd *cobra.Command) error {
	if cmd.Annotations[skipConfig] == "true" {
		a.cfg = config.Default()
	} else {
		cfg, err := a.loadConfig()
		if err != nil {
			return err
		}
		a.cfg = cfg
	}

	if a.logLevel != "" {
		a.cfg.Log.Level = a.logLevel
	}
	if a.logFile != "" {
		a.cfg.Log.File = a.logFile
	}

	level, err := logging.ParseLevel(a.cfg.Log.Level)
	if err != nil {
		return err
	}
	logger, cleanup, err := logging.Setup(a.cfg.Log.File, level)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	a.logger = logger
	a.closeLog = cleanup
	return nil
}

func (a *app) loadConfig() (*config.Config, error) {
	if a.configFile != "" {
		return config.NewFileLoader(a.configFile).Load()
	}
	return config.LoadConfig()
}
