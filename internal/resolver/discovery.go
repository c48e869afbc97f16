package resolver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"golang.org/x/sync/errgroup"

	"github.com/olehluchkiv/classdiag/internal/uml"
)

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// Matcher decides which relative paths take part in an analysis.
type Matcher struct {
	include []compiledPattern
	ignore  []compiledPattern
}

// NewMatcher compiles include and ignore globs. Patterns use "/" as the
// separator; "**" crosses directories. An empty include list matches all
// files.
func NewMatcher(include, ignore []string) (*Matcher, error) {
	m := &Matcher{}
	var err error
	if m.include, err = compileAll(include); err != nil {
		return nil, err
	}
	if m.ignore, err = compileAll(ignore); err != nil {
		return nil, err
	}
	return m, nil
}

func compileAll(patterns []string) ([]compiledPattern, error) {
	out := make([]compiledPattern, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("compiling glob %q: %w", pattern, err)
		}
		out = append(out, compiledPattern{pattern: pattern, glob: g})
	}
	return out, nil
}

// Match reports whether relPath (slash separated) is included and not ignored.
func (m *Matcher) Match(relPath string) bool {
	if m.Ignored(relPath) {
		return false
	}
	return len(m.include) == 0 || matchesAny(relPath, m.include)
}

// Ignored reports whether relPath, or a directory it names, matches an ignore
// pattern. "node_modules" is ignored by "node_modules/**".
func (m *Matcher) Ignored(relPath string) bool {
	return matchesAny(relPath, m.ignore) || matchesAny(relPath+"/**", m.ignore)
}

// matchesAny also lets root-level files match "**/"-prefixed patterns, so
// "**/*.cs" covers both "A.cs" and "src/A.cs".
func matchesAny(path string, patterns []compiledPattern) bool {
	for _, cp := range patterns {
		if cp.glob.Match(path) {
			return true
		}
	}
	if strings.Contains(path, "/") {
		return false
	}
	for _, cp := range patterns {
		if !strings.HasPrefix(cp.pattern, "**/") {
			continue
		}
		if g, err := glob.Compile(strings.TrimPrefix(cp.pattern, "**/"), '/'); err == nil && g.Match(path) {
			return true
		}
	}
	return false
}

// Discover returns the files under root accepted by m, sorted by path. When
// root is a file it is returned as is. Ignored directories and dot
// directories are not descended into.
func Discover(root string, m *Matcher) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	files := []string{}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && (strings.HasPrefix(d.Name(), ".") || m.Ignored(rel)) {
				return filepath.SkipDir
			}
			return nil
		}
		if m.Match(rel) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}

// ReadUnits reads files concurrently into source units, preserving the order
// of paths. Unit names are paths relative to root (slash separated); a file
// outside root keeps its base name.
func ReadUnits(ctx context.Context, root string, paths []string, jobs int) ([]uml.SourceUnit, error) {
	units := make([]uml.SourceUnit, len(paths))
	if len(paths) == 0 {
		return units, nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			units[i] = uml.SourceUnit{Name: unitName(root, path), Content: string(data)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return units, nil
}

func unitName(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return filepath.Base(path)
	}
	return filepath.ToSlash(rel)
}
