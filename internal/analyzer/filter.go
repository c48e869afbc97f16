package analyzer

import (
	"strings"

	"github.com/olehluchkiv/classdiag/internal/uml"
)

// Filter applies filtering options to a harmonized entity list. Entities are
// matched by normalized name; relationships pointing at removed entities are
// kept and later drawn as placeholders.
func Filter(entities []uml.Entity, opts FilterOptions) []uml.Entity {
	filtered := make([]uml.Entity, 0, len(entities))
	for _, e := range entities {
		if opts.NamePrefix != "" && !strings.HasPrefix(e.Key(), opts.NamePrefix) {
			continue
		}
		if opts.HidePrivate {
			e = withoutPrivate(e)
		}
		filtered = append(filtered, e)
	}
	return filtered
}

func withoutPrivate(e uml.Entity) uml.Entity {
	c := e.Clone()
	c.Members = make([]uml.Member, 0, len(e.Members))
	for _, m := range e.Members {
		if m.Visibility == uml.Private {
			continue
		}
		c.Members = append(c.Members, m)
	}
	return c
}
