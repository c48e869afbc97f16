package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/olehluchkiv/classdiag/internal/lang"
	"github.com/olehluchkiv/classdiag/internal/server"
)

func newServeCommand(a *app) *cobra.Command {
	var (
		port      int
		cacheSize int
		maxBodyKB int
		noBrowser bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the diagram API and the browser viewer",
		Long: `Serve starts an HTTP server with POST /api/diagram, a paste-and-render
viewer on / and a health check on /healthz.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := server.Options{
				Port:      a.cfg.Server.Port,
				CacheSize: a.cfg.Server.CacheSize,
				MaxBodyKB: a.cfg.Server.MaxBodyKB,
			}
			if cmd.Flags().Changed("port") {
				opts.Port = port
			}
			if cmd.Flags().Changed("cache-size") {
				opts.CacheSize = cacheSize
			}
			if cmd.Flags().Changed("max-body-kb") {
				opts.MaxBodyKB = maxBodyKB
			}
			if a.cfg.Language != "" {
				l, err := lang.Parse(a.cfg.Language)
				if err != nil {
					return err
				}
				opts.DefaultLanguage = l
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.ErrOrStderr(), "Starting server on http://localhost:%d\n", opts.Port)
			if err := server.Serve(ctx, opts, !noBrowser, a.logger); err != nil {
				a.logger.Error("server error", "error", err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "HTTP server port")
	cmd.Flags().IntVar(&cacheSize, "cache-size", 128, "number of cached diagram responses")
	cmd.Flags().IntVar(&maxBodyKB, "max-body-kb", 2048, "request body limit in KiB")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "skip auto-opening the browser")
	return cmd
}
