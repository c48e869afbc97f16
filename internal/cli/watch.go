package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/olehluchkiv/classdiag/internal/lang"
	"github.com/olehluchkiv/classdiag/internal/watcher"
)

func newWatchCommand(a *app) *cobra.Command {
	var flags generateFlags

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Regenerate the diagram whenever sources change",
		Long: `Watch generates the diagram for dir (default ".") and regenerates it
each time a source file of a supported language is written, created or
removed. Use --output to keep a .mmd file up to date.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			info, err := os.Stat(dir)
			if err != nil {
				return err
			}
			if !info.IsDir() {
				return fmt.Errorf("%s is not a directory", dir)
			}

			rc := flags.runConfig(cmd.Flags(), a.cfg, []string{dir}, nil)
			out := flags.outputOptions(cmd.Flags(), a.cfg)

			extensions, err := watchedExtensions(rc.Language)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w, err := watcher.New([]string{dir}, extensions, watcher.DefaultDebounce, a.logger)
			if err != nil {
				return fmt.Errorf("starting watcher: %w", err)
			}

			if err := generateOnce(ctx, a, rc, out, cmd); err != nil {
				a.logger.Warn("initial generation failed", "error", err)
				fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s for changes (Ctrl+C to stop)\n", dir)

			return w.Run(ctx, func(files []string) {
				a.logger.Info("regenerating diagram", "changed", len(files))
				if err := generateOnce(ctx, a, rc, out, cmd); err != nil {
					a.logger.Warn("regeneration failed", "error", err)
					fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
				}
			})
		},
	}
	flags.bind(cmd.Flags())
	return cmd
}

// watchedExtensions lists the extensions of language, or of every supported
// language when it is empty.
func watchedExtensions(language string) ([]string, error) {
	if language != "" {
		l, err := lang.Parse(language)
		if err != nil {
			return nil, err
		}
		return lang.Extensions(l), nil
	}
	var out []string
	for _, l := range lang.Supported() {
		out = append(out, lang.Extensions(l)...)
	}
	return out, nil
}
