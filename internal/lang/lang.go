// Package lang turns source text of a supported language into raw UML
// entities. C#, Java and Python are handled by ordered regular-expression
// pattern families; Go sources go through go/parser and go/types.
package lang

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/olehluchkiv/classdiag/internal/uml"
)

// Language identifies a source language.
type Language string

const (
	CSharp Language = "csharp"
	Java   Language = "java"
	Python Language = "python"
	Go     Language = "go"
)

// ErrUnsupportedLanguage is returned for language identifiers and file
// extensions no front-end handles.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Header is one recognized type declaration: its kind, raw name, classified
// supertypes and the text between its braces (or its indented block).
type Header struct {
	Kind       uml.EntityKind
	Name       string
	Inherits   []string
	Implements []string
	// Components holds the raw parameter list of a positional record.
	Components string
	Body       string
}

// Scanner finds type declarations in preprocessed source text.
type Scanner interface {
	// Preprocess strips comments and literal contents from src.
	Preprocess(src string) string
	// Scan returns the declarations found in text, in order of appearance.
	Scan(text string) []Header
}

// Extractor collects the members declared directly in a header's body.
type Extractor interface {
	Extract(h Header) []uml.Member
}

// Frontend parses a batch of source units into raw, unmerged entities.
type Frontend interface {
	Language() Language
	Parse(units []uml.SourceUnit) []uml.Entity
}

// patternFrontend drives a Scanner and Extractor over each unit in turn.
type patternFrontend struct {
	lang      Language
	scanner   Scanner
	extractor Extractor
}

func (f patternFrontend) Language() Language { return f.lang }

func (f patternFrontend) Parse(units []uml.SourceUnit) []uml.Entity {
	var entities []uml.Entity
	for _, unit := range units {
		text := f.scanner.Preprocess(unit.Content)
		for _, h := range f.scanner.Scan(text) {
			entities = append(entities, uml.Entity{
				Name:       h.Name,
				Kind:       h.Kind,
				Members:    f.extractor.Extract(h),
				Inherits:   h.Inherits,
				Implements: h.Implements,
				Source:     unit.Name,
			})
		}
	}
	return entities
}

type registration struct {
	frontend   Frontend
	extensions []string
}

var registry = map[Language]registration{
	CSharp: {frontend: patternFrontend{lang: CSharp, scanner: csharpScanner{}, extractor: csharpExtractor{}}, extensions: []string{".cs"}},
	Java:   {frontend: patternFrontend{lang: Java, scanner: javaScanner{}, extractor: javaExtractor{}}, extensions: []string{".java"}},
	Python: {frontend: patternFrontend{lang: Python, scanner: pythonScanner{}, extractor: pythonExtractor{}}, extensions: []string{".py", ".pyi"}},
	Go:     {frontend: goFrontend{}, extensions: []string{".go"}},
}

// Parse looks up a language identifier. Matching is case-insensitive and
// accepts the common aliases "cs", "c#", "py" and "golang".
func Parse(name string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "csharp", "cs", "c#":
		return CSharp, nil
	case "java":
		return Java, nil
	case "python", "py":
		return Python, nil
	case "go", "golang":
		return Go, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, name)
}

// ForLanguage returns the front-end for l.
func ForLanguage(l Language) (Frontend, error) {
	s, ok := registry[l]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, l)
	}
	return s.frontend, nil
}

// ForExtension maps a file extension (with or without the dot) to a language.
func ForExtension(ext string) (Language, bool) {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	for l, s := range registry {
		for _, e := range s.extensions {
			if e == ext {
				return l, true
			}
		}
	}
	return "", false
}

// Extensions returns the file extensions handled for l.
func Extensions(l Language) []string {
	return append([]string(nil), registry[l].extensions...)
}

// Supported lists all known languages in a stable order.
func Supported() []Language {
	out := make([]Language, 0, len(registry))
	for l := range registry {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Detect picks the language shared by the most file names in paths.
// Ties resolve to the alphabetically first language.
func Detect(paths []string) (Language, error) {
	counts := make(map[Language]int)
	for _, p := range paths {
		if l, ok := ForExtension(filepath.Ext(p)); ok {
			counts[l]++
		}
	}
	var best Language
	for _, l := range Supported() {
		if counts[l] > counts[best] {
			best = l
		}
	}
	if best == "" {
		return "", fmt.Errorf("%w: no recognized source files", ErrUnsupportedLanguage)
	}
	return best, nil
}

// DefaultUnitName names a snippet submitted without a file name.
func DefaultUnitName(l Language, prefix string) string {
	ext := ".txt"
	if exts := registry[l].extensions; len(exts) > 0 {
		ext = exts[0]
	}
	if prefix == "" {
		prefix = "Untitled"
	}
	return prefix + ext
}
