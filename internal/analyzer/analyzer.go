package analyzer

import (
	"fmt"
	"log/slog"

	"github.com/olehluchkiv/classdiag/internal/diagram"
	"github.com/olehluchkiv/classdiag/internal/lang"
	"github.com/olehluchkiv/classdiag/internal/uml"
)

// Generate runs the core pipeline (extract, merge, harmonize, serialize) over
// the given units. An empty batch yields an empty document, not an error.
func Generate(language lang.Language, units []uml.SourceUnit) (uml.Document, error) {
	res, err := Analyze(language, units, AnalyzeOptions{}, slog.New(slog.DiscardHandler))
	if err != nil {
		return uml.Document{}, err
	}
	return res.Document, nil
}

// Analyze runs the core pipeline and then applies filtering, focus, the
// node cap and diagram options. A panic inside extraction is reported as ErrExtraction.
func Analyze(language lang.Language, units []uml.SourceUnit, opts AnalyzeOptions, logger *slog.Logger) (res *Result, err error) {
	logger = logger.With("component", "analyzer", "language", string(language))

	frontend, err := lang.ForLanguage(language)
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("extraction panicked", "panic", r)
			res = nil
			err = fmt.Errorf("%w: %v", ErrExtraction, r)
		}
	}()

	size := 0
	for _, u := range units {
		size += len(u.Content)
		logger.Debug("source unit", "name", u.Name, "bytes", len(u.Content))
	}

	raw := frontend.Parse(units)
	merged := uml.Merge(raw)
	entities := uml.Harmonize(merged)
	logger.Debug("entities extracted",
		"units", len(units),
		"declarations", len(raw),
		"entities", len(entities))

	entities = Filter(entities, opts.Filter)
	if len(opts.Focus) > 0 {
		entities = diagram.Focus(entities, opts.Focus, opts.Depth)
		logger.Debug("focus applied", "roots", opts.Focus, "depth", opts.Depth, "entities", len(entities))
	}
	if opts.MaxNodes > 0 {
		before := len(entities)
		entities = Simplify(entities, opts.MaxNodes)
		logger.Debug("node cap applied", "max_nodes", opts.MaxNodes, "before", before, "after", len(entities))
	}
	if entities == nil {
		entities = []uml.Entity{}
	}

	doc := uml.Document{
		Text:     diagram.GenerateMermaid(entities, opts.Diagram),
		Entities: entities,
	}
	stats := uml.Summarize(entities)

	logger.Info("analysis complete",
		"entities", len(entities),
		"interfaces", stats.Interfaces,
		"members", stats.Members)

	return &Result{
		Language: language,
		Document: doc,
		Stats:    stats,
		Units:    len(units),
		Bytes:    size,
	}, nil
}
