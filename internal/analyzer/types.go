package analyzer

import (
	"errors"

	"github.com/olehluchkiv/classdiag/internal/diagram"
	"github.com/olehluchkiv/classdiag/internal/lang"
	"github.com/olehluchkiv/classdiag/internal/uml"
)

var (
	// ErrExtraction reports a failure recovered inside the extraction pipeline.
	ErrExtraction = errors.New("diagram generation failed")

	// ErrNoSources indicates that input resolution produced no source units.
	ErrNoSources = errors.New("no source files found")
)

// FilterOptions narrows the harmonized entity list.
type FilterOptions struct {
	NamePrefix  string // keep only entities whose normalized name has this prefix
	HidePrivate bool   // drop private members
}

// AnalyzeOptions controls everything after extraction.
type AnalyzeOptions struct {
	Filter   FilterOptions
	Focus    []string // entity names to center the diagram on
	Depth    int      // relationship hops kept around Focus; below zero means unlimited
	MaxNodes int      // keep at most this many entities, best connected first; 0 means no cap
	Diagram  diagram.DiagramOptions
}

// Result holds the complete analysis output.
type Result struct {
	Language lang.Language
	Document uml.Document
	Stats    uml.Stats
	Units    int // number of source units analyzed
	Bytes    int // total size of the analyzed content
}
