package uml

// Merge folds entities sharing a normalized name into one, keeping the
// first-seen order of distinct names. The first declaration's name, kind and
// source win; member lists are concatenated and de-duplicated by Member.Key
// (first occurrence wins); supertype lists are unioned.
func Merge(entities []Entity) []Entity {
	index := make(map[string]int, len(entities))
	seen := make(map[string]map[MemberKey]bool, len(entities))
	var out []Entity

	for _, e := range entities {
		key := e.Key()
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			seen[key] = make(map[MemberKey]bool)
			out = append(out, Entity{
				Name:    e.Name,
				Kind:    e.Kind,
				Members: []Member{},
				Source:  e.Source,
			})
		}

		merged := &out[i]
		for _, m := range e.Members {
			mk := m.Key()
			if seen[key][mk] {
				continue
			}
			seen[key][mk] = true
			merged.Members = append(merged.Members, m)
		}
		merged.Inherits = appendUnique(merged.Inherits, e.Inherits...)
		merged.Implements = appendUnique(merged.Implements, e.Implements...)
	}

	return out
}
