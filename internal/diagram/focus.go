package diagram

import (
	"github.com/dominikbraun/graph"

	"github.com/olehluchkiv/classdiag/internal/uml"
)

// Focus keeps the entities within depth relationship hops of any root name.
// Roots are matched by normalized name and edges are followed in both
// directions, so a focused class brings along its supertypes and its
// subtypes. Relationships to dropped entities stay on the kept ones and are
// drawn as placeholders. A depth below zero means unlimited; no roots (or no
// matching roots) returns the input unchanged.
func Focus(entities []uml.Entity, roots []string, depth int) []uml.Entity {
	if len(roots) == 0 {
		return entities
	}

	g := graph.New(graph.StringHash)
	for _, e := range entities {
		_ = g.AddVertex(e.Key())
	}
	for _, e := range entities {
		for _, target := range append(append([]string(nil), e.Inherits...), e.Implements...) {
			key := uml.NormalizeName(target)
			// External targets become vertices too, so siblings sharing an
			// undeclared base stay connected.
			_ = g.AddVertex(key)
			_ = g.AddEdge(e.Key(), key)
		}
	}

	adjacency, err := g.AdjacencyMap()
	if err != nil {
		return entities
	}

	reached := make(map[string]bool)
	var frontier []string
	for _, root := range roots {
		key := uml.NormalizeName(root)
		if _, ok := adjacency[key]; ok && !reached[key] {
			reached[key] = true
			frontier = append(frontier, key)
		}
	}
	if len(frontier) == 0 {
		return entities
	}

	for hop := 0; len(frontier) > 0 && (depth < 0 || hop < depth); hop++ {
		var next []string
		for _, v := range frontier {
			for neighbor := range adjacency[v] {
				if !reached[neighbor] {
					reached[neighbor] = true
					next = append(next, neighbor)
				}
			}
		}
		frontier = next
	}

	var out []uml.Entity
	for _, e := range entities {
		if reached[e.Key()] {
			out = append(out, e)
		}
	}
	return out
}
