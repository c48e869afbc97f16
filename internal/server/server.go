package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os/exec"
	"runtime"
	"time"

	"fortio.org/safecast"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/olehluchkiv/classdiag/internal/lang"
)

// Options configures the HTTP API.
type Options struct {
	Port            int
	CacheSize       int // cached diagram responses
	MaxBodyKB       int // request body limit in KiB
	DefaultLanguage lang.Language
}

// Server serves the diagram API and the viewer page.
type Server struct {
	opts    Options
	maxBody int64
	cache   *lru.Cache[string, diagramResponse]
	tmpl    *template.Template
	logger  *slog.Logger
}

// New builds a Server from opts.
func New(opts Options, logger *slog.Logger) (*Server, error) {
	if opts.DefaultLanguage == "" {
		opts.DefaultLanguage = lang.CSharp
	}

	kb, err := safecast.Conv[int64](opts.MaxBodyKB)
	if err != nil || kb <= 0 {
		return nil, fmt.Errorf("invalid body limit: %d KiB", opts.MaxBodyKB)
	}

	cache, err := lru.New[string, diagramResponse](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating response cache: %w", err)
	}

	tmpl, err := template.New("viewer").Parse(viewerTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML template: %w", err)
	}

	return &Server{
		opts:    opts,
		maxBody: kb * 1024,
		cache:   cache,
		tmpl:    tmpl,
		logger:  logger.With("component", "server"),
	}, nil
}

// Handler returns the routing table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleViewer)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /api/diagram", s.handleDiagram)
	return mux
}

func (s *Server) handleViewer(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("request received", "method", r.Method, "path", r.URL.Path)

	languages := make([]string, 0, len(lang.Supported()))
	for _, l := range lang.Supported() {
		languages = append(languages, string(l))
	}
	data := struct {
		Languages       []string
		DefaultLanguage string
		MaxBodyBytes    int64
	}{
		Languages:       languages,
		DefaultLanguage: string(s.opts.DefaultLanguage),
		MaxBodyBytes:    s.maxBody,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, data); err != nil {
		s.logger.Error("failed to render template", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// Serve starts the HTTP server and blocks until the context is cancelled.
func Serve(ctx context.Context, opts Options, openBrowser bool, logger *slog.Logger) error {
	s, err := New(opts, logger)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", opts.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	url := fmt.Sprintf("http://localhost:%d", opts.Port)
	logger.Info("starting HTTP server", "addr", url, "cache_size", opts.CacheSize, "max_body_kb", opts.MaxBodyKB)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
		close(errCh)
	}()

	if openBrowser {
		openInBrowser(url, logger)
	}

	// Block until the context is cancelled or the server fails.
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("HTTP server shutdown error: %w", err)
		}
		return nil
	}
}

// openInBrowser opens the given URL in the default system browser.
func openInBrowser(url string, logger *slog.Logger) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	default:
		logger.Warn("unsupported platform for opening browser", "os", runtime.GOOS)
		return
	}

	if err := cmd.Start(); err != nil {
		logger.Warn("failed to open browser", "error", err)
	}
}
