package analyzer

import (
	"sort"

	"github.com/olehluchkiv/classdiag/internal/uml"
)

// Simplify reduces a large diagram to its best connected entities. When
// there are more than maxNodes entities, the maxNodes entities with the most
// relationships to other declared entities are kept in their original order
// (ties go to the earlier entity). Edges to dropped entities are removed;
// edges to types declared nowhere stay. maxNodes <= 0 disables the cap.
func Simplify(entities []uml.Entity, maxNodes int) []uml.Entity {
	if maxNodes <= 0 || len(entities) <= maxNodes {
		return entities
	}

	index := make(map[string]int, len(entities))
	for i, e := range entities {
		if _, ok := index[e.Key()]; !ok {
			index[e.Key()] = i
		}
	}

	// Count edges per entity
	edgeCount := make([]int, len(entities))
	for i, e := range entities {
		for _, t := range append(append([]string(nil), e.Inherits...), e.Implements...) {
			j, ok := index[uml.NormalizeName(t)]
			if !ok || j == i {
				continue
			}
			edgeCount[i]++
			edgeCount[j]++
		}
	}

	ranks := make([]int, len(entities))
	for i := range ranks {
		ranks[i] = i
	}
	sort.SliceStable(ranks, func(a, b int) bool {
		return edgeCount[ranks[a]] > edgeCount[ranks[b]]
	})

	keep := make([]bool, len(entities))
	for _, i := range ranks[:maxNodes] {
		keep[i] = true
	}
	dropped := func(target string) bool {
		j, ok := index[uml.NormalizeName(target)]
		return ok && !keep[j]
	}
	prune := func(targets []string) []string {
		out := make([]string, 0, len(targets))
		for _, t := range targets {
			if !dropped(t) {
				out = append(out, t)
			}
		}
		return out
	}

	out := make([]uml.Entity, 0, maxNodes)
	for i, e := range entities {
		if !keep[i] {
			continue
		}
		c := e.Clone()
		c.Inherits = prune(e.Inherits)
		c.Implements = prune(e.Implements)
		out = append(out, c)
	}
	return out
}
