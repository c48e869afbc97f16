package uml

// Harmonize reclassifies realization targets using the kinds declared in the
// batch. A target that names a known non-interface entity becomes an
// inheritance edge; anything else (interfaces and names never declared) stays
// a realization. The returned entities have disjoint Inherits and Implements
// and running Harmonize again yields the same partition.
func Harmonize(entities []Entity) []Entity {
	kinds := make(map[string]EntityKind, len(entities))
	for _, e := range entities {
		kinds[e.Key()] = e.Kind
	}

	out := make([]Entity, 0, len(entities))
	for _, e := range entities {
		h := e.Clone()
		h.Inherits = appendUnique([]string{}, e.Inherits...)

		var implements []string
		for _, target := range e.Implements {
			if kind, ok := kinds[NormalizeName(target)]; ok && kind != KindInterface {
				h.Inherits = appendUnique(h.Inherits, target)
				continue
			}
			implements = appendUnique(implements, target)
		}

		inherited := make(map[string]bool, len(h.Inherits))
		for _, target := range h.Inherits {
			inherited[NormalizeName(target)] = true
		}
		h.Implements = []string{}
		for _, target := range implements {
			if !inherited[NormalizeName(target)] {
				h.Implements = append(h.Implements, target)
			}
		}

		out = append(out, h)
	}
	return out
}
