package uml

import "strings"

// NormalizeName strips generic parameter lists from a type name:
// "Repository<T>" and "Repository<User>" both normalize to "Repository".
// Text following a closed parameter list is kept ("Outer<T>.Inner" → "Outer.Inner").
func NormalizeName(name string) string {
	if !strings.ContainsAny(name, "<>") {
		return strings.TrimSpace(name)
	}
	var b strings.Builder
	depth := 0
	for _, r := range name {
		switch {
		case r == '<':
			depth++
		case r == '>':
			if depth > 0 {
				depth--
			}
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// appendUnique appends the items not already present in list, preserving order.
func appendUnique(list []string, items ...string) []string {
	for _, item := range items {
		if !contains(list, item) {
			list = append(list, item)
		}
	}
	return list
}

func contains(list []string, item string) bool {
	for _, v := range list {
		if v == item {
			return true
		}
	}
	return false
}
