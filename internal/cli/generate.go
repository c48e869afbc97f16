package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/olehluchkiv/classdiag/internal/analyzer"
	"github.com/olehluchkiv/classdiag/internal/config"
	"github.com/olehluchkiv/classdiag/internal/diagram"
	"github.com/olehluchkiv/classdiag/internal/diagram/split"
)

// generateFlags are shared by generate and watch. Unset flags fall back to
// the loaded configuration.
type generateFlags struct {
	output      string
	language    string
	include     []string
	ignore      []string
	focus       []string
	depth       int
	hidePrivate bool
	prefix      string
	direction   string
	includeInit bool
	maxNodes    int
	slides      bool
	slideThresh int
	jobs        int
	quiet       bool
}

// outputOptions decide where and in which shape the diagram is written.
type outputOptions struct {
	path           string
	quiet          bool
	slides         bool
	slideThreshold int
}

func (f *generateFlags) bind(fs *pflag.FlagSet) {
	fs.StringVarP(&f.output, "output", "o", "", "write the diagram to this file instead of stdout")
	fs.StringVarP(&f.language, "language", "l", "", "source language: csharp, java, python or go (default: detect)")
	fs.StringSliceVar(&f.include, "include", nil, "glob patterns of files to analyze")
	fs.StringSliceVar(&f.ignore, "ignore", nil, "glob patterns of files to skip")
	fs.StringSliceVar(&f.focus, "focus", nil, "only keep these types and their relatives")
	fs.IntVar(&f.depth, "depth", 1, "relationship hops kept around --focus (-1 for unlimited)")
	fs.BoolVar(&f.hidePrivate, "hide-private", false, "omit private members")
	fs.StringVar(&f.prefix, "prefix", "", "only keep types whose name starts with this prefix")
	fs.StringVar(&f.direction, "direction", "", "diagram direction: TB, TD, BT, LR or RL")
	fs.BoolVar(&f.includeInit, "init", false, "prepend the %%{init}%% theme directive")
	fs.IntVar(&f.maxNodes, "max-nodes", 0, "keep only the N best connected types (0 for no cap)")
	fs.BoolVar(&f.slides, "slides", false, "write large diagrams as a Markdown deck of smaller diagrams")
	fs.IntVar(&f.slideThresh, "slide-threshold", 20, "type or relationship count at which --slides splits")
	fs.IntVar(&f.jobs, "jobs", 0, "parallel file reads (default: number of CPUs)")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "do not print statistics")
}

// runConfig merges flags over cfg. Only flags set on the command line win.
func (f *generateFlags) runConfig(fs *pflag.FlagSet, cfg *config.Config, inputs []string, stdin io.Reader) analyzer.RunConfig {
	rc := analyzer.RunConfig{
		Inputs:   inputs,
		Language: cfg.Language,
		Include:  cfg.Paths.Include,
		Ignore:   cfg.Paths.Ignore,
		Jobs:     f.jobs,
		Stdin:    stdin,
		Options: analyzer.AnalyzeOptions{
			Filter: analyzer.FilterOptions{
				NamePrefix:  cfg.Diagram.NamePrefix,
				HidePrivate: cfg.Diagram.HidePrivate,
			},
			Focus:    f.focus,
			Depth:    f.depth,
			MaxNodes: cfg.Diagram.MaxNodes,
			Diagram: diagram.DiagramOptions{
				IncludeInit: cfg.Diagram.IncludeInit,
				Direction:   cfg.Diagram.Direction,
			},
		},
	}
	if fs.Changed("language") {
		rc.Language = f.language
	}
	if fs.Changed("include") {
		rc.Include = f.include
	}
	if fs.Changed("ignore") {
		rc.Ignore = f.ignore
	}
	if fs.Changed("prefix") {
		rc.Options.Filter.NamePrefix = f.prefix
	}
	if fs.Changed("hide-private") {
		rc.Options.Filter.HidePrivate = f.hidePrivate
	}
	if fs.Changed("direction") {
		rc.Options.Diagram.Direction = f.direction
	}
	if fs.Changed("init") {
		rc.Options.Diagram.IncludeInit = f.includeInit
	}
	if fs.Changed("max-nodes") {
		rc.Options.MaxNodes = f.maxNodes
	}
	return rc
}

func (f *generateFlags) outputOptions(fs *pflag.FlagSet, cfg *config.Config) outputOptions {
	out := outputOptions{
		path:           cfg.Output,
		quiet:          f.quiet,
		slides:         f.slides,
		slideThreshold: cfg.Diagram.SlideThreshold,
	}
	if fs.Changed("output") {
		out.path = f.output
	}
	if fs.Changed("slide-threshold") {
		out.slideThreshold = f.slideThresh
	}
	return out
}

func newGenerateCommand(a *app) *cobra.Command {
	var flags generateFlags

	cmd := &cobra.Command{
		Use:   "generate [path-or-url...]",
		Short: "Generate a Mermaid class diagram",
		Long: `Generate resolves every input (file, directory, repository URL or "-"
for stdin), discovers the source files of one language and writes the
resulting Mermaid classDiagram to stdout or --output.`,
		Example: `  classdiag generate ./src
  classdiag generate -l java --focus OrderService --depth 2 -o orders.mmd .
  cat Model.cs | classdiag generate -l csharp -
  classdiag generate --slides -o ARCHITECTURE.md ./src`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rc := flags.runConfig(cmd.Flags(), a.cfg, args, cmd.InOrStdin())
			return generateOnce(ctx, a, rc, flags.outputOptions(cmd.Flags(), a.cfg), cmd)
		},
	}
	flags.bind(cmd.Flags())
	return cmd
}

// generateOnce runs the pipeline and writes the diagram and statistics.
func generateOnce(ctx context.Context, a *app, rc analyzer.RunConfig, out outputOptions, cmd *cobra.Command) error {
	res, err := analyzer.Run(ctx, rc, a.logger)
	if err != nil {
		return err
	}

	text := res.Document.Text
	if out.slides && text != "" {
		slides := diagram.BuildSlides(res.Document.Entities, rc.Options.Diagram,
			split.NewHubAndSpoke(split.DefaultOptions()),
			diagram.SlideOptions{Threshold: out.slideThreshold})
		a.logger.Debug("slides built", "count", len(slides))
		text = strings.TrimSuffix(diagram.SlidesMarkdown(slides), "\n")
	}

	if out.path == "" {
		if text != "" {
			fmt.Fprintln(cmd.OutOrStdout(), text)
		}
	} else {
		if err := os.WriteFile(out.path, []byte(text+"\n"), 0o644); err != nil {
			a.logger.Error("failed to write output file", "error", err)
			return fmt.Errorf("writing to %s: %w", out.path, err)
		}
	}

	if !out.quiet {
		printSummary(cmd.ErrOrStderr(), res, out.path)
	}
	return nil
}
