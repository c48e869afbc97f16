package analyzer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/olehluchkiv/classdiag/internal/lang"
	"github.com/olehluchkiv/classdiag/internal/resolver"
	"github.com/olehluchkiv/classdiag/internal/uml"
)

// StdinInput is the input name that reads one snippet from RunConfig.Stdin.
const StdinInput = "-"

// RunConfig holds parameters for the resolve → discover → read → analyze
// pipeline used by the CLI and the watcher.
type RunConfig struct {
	Inputs   []string // local paths, repository URLs, or "-"
	Language string   // empty means detect from file extensions
	Include  []string // glob patterns; empty means every extension of the language
	Ignore   []string
	Jobs     int // parallel file reads; zero means GOMAXPROCS
	Options  AnalyzeOptions
	Stdin    io.Reader
}

// resolve is swapped in tests that need a temporary checkout.
var resolve = resolver.Resolve

type resolvedInput struct {
	root  string
	files []string
}

// Run resolves every input, discovers and reads its source files and
// analyzes them as one batch.
func Run(ctx context.Context, cfg RunConfig, logger *slog.Logger) (*Result, error) {
	logger = logger.With("component", "run")

	inputs := cfg.Inputs
	if len(inputs) == 0 {
		inputs = []string{"."}
	}

	var language lang.Language
	if cfg.Language != "" {
		l, err := lang.Parse(cfg.Language)
		if err != nil {
			return nil, err
		}
		language = l
	}

	matcher, err := resolver.NewMatcher(includePatterns(cfg.Include, language), cfg.Ignore)
	if err != nil {
		return nil, fmt.Errorf("discover: %w", err)
	}

	var (
		resolved []resolvedInput
		snippets []uml.SourceUnit
		allFiles []string
	)
	for _, input := range inputs {
		if input == StdinInput {
			unit, err := readSnippet(cfg.Stdin, language)
			if err != nil {
				return nil, err
			}
			snippets = append(snippets, unit)
			continue
		}

		logger.Info("resolving input", "input", input)
		root, cleanup, err := resolve(ctx, input, logger)
		if err != nil {
			return nil, fmt.Errorf("resolve: %w", err)
		}
		// Resolved trees must outlive ReadUnits below.
		defer cleanup()
		files, err := resolver.Discover(root, matcher)
		if err != nil {
			return nil, fmt.Errorf("discover: %w", err)
		}
		logger.Debug("discovered files", "root", root, "files", len(files))
		resolved = append(resolved, resolvedInput{root: root, files: files})
		allFiles = append(allFiles, files...)
	}

	if language == "" {
		language, err = lang.Detect(allFiles)
		if err != nil {
			if len(allFiles) == 0 {
				return nil, ErrNoSources
			}
			return nil, err
		}
		logger.Info("detected language", "language", string(language))
	}

	var units []uml.SourceUnit
	for _, r := range resolved {
		read, err := resolver.ReadUnits(ctx, r.root, filesFor(language, r.files), cfg.Jobs)
		if err != nil {
			return nil, fmt.Errorf("read: %w", err)
		}
		units = append(units, read...)
	}
	units = append(units, snippets...)
	if len(units) == 0 {
		return nil, ErrNoSources
	}

	return Analyze(language, units, cfg.Options, logger)
}

// includePatterns defaults to "**/*<ext>" for every extension of language, or
// of every supported language when it is not known yet.
func includePatterns(include []string, language lang.Language) []string {
	if len(include) > 0 {
		return include
	}
	languages := lang.Supported()
	if language != "" {
		languages = []lang.Language{language}
	}
	var patterns []string
	for _, l := range languages {
		for _, ext := range lang.Extensions(l) {
			patterns = append(patterns, "**/*"+ext)
		}
	}
	return patterns
}

// filesFor keeps the files whose extension belongs to language. Files with an
// unknown extension that were matched by an explicit include are kept too.
func filesFor(language lang.Language, files []string) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		l, ok := lang.ForExtension(filepath.Ext(f))
		if ok && l != language {
			continue
		}
		out = append(out, f)
	}
	return out
}

func readSnippet(r io.Reader, language lang.Language) (uml.SourceUnit, error) {
	if language == "" {
		return uml.SourceUnit{}, errors.New("a language is required when reading from stdin")
	}
	if r == nil {
		return uml.SourceUnit{}, errors.New("no stdin available")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return uml.SourceUnit{}, fmt.Errorf("reading stdin: %w", err)
	}
	return uml.SourceUnit{Name: lang.DefaultUnitName(language, "Snippet"), Content: string(data)}, nil
}
