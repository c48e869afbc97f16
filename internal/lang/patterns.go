package lang

import (
	"regexp"
	"strings"

	"github.com/olehluchkiv/classdiag/internal/uml"
)

// memberRule is one entry of a language's member pattern family. Rules run
// in order over the whole body; build may reject a match.
type memberRule struct {
	re *regexp.Regexp
	// unique skips matches whose name an earlier rule already captured.
	unique bool
	build  func(m match, owner string) (uml.Member, bool)
}

// match gives rules access to capture groups and the text before the match.
type match struct {
	body string
	loc  []int
}

func (m match) group(i int) string {
	if 2*i+1 >= len(m.loc) || m.loc[2*i] < 0 {
		return ""
	}
	return m.body[m.loc[2*i]:m.loc[2*i+1]]
}

// precededBy reports whether word is the last token before the match.
func (m match) precededBy(word string) bool {
	before := strings.TrimRight(m.body[:m.loc[0]], " \t\r\n")
	if !strings.HasSuffix(before, word) {
		return false
	}
	rest := before[:len(before)-len(word)]
	return rest == "" || !isWordByte(rest[len(rest)-1])
}

func isWordByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func extractMembers(body, owner string, rules []memberRule) []uml.Member {
	members := []uml.Member{}
	captured := make(map[string]bool)
	for _, rule := range rules {
		for _, loc := range rule.re.FindAllStringSubmatchIndex(body, -1) {
			m, ok := rule.build(match{body: body, loc: loc}, owner)
			if !ok {
				continue
			}
			if rule.unique && captured[m.Name] {
				continue
			}
			captured[m.Name] = true
			members = append(members, m)
		}
	}
	return members
}

// splitTopLevel splits s on commas outside (), [] and <> groups.
func splitTopLevel(s string) []string {
	var out []string
	depth, start := 0, 0
	flush := func(end int) {
		if tok := strings.TrimSpace(s[start:end]); tok != "" {
			out = append(out, tok)
		}
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '<':
			depth++
		case ')', ']', '>':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				flush(i)
				start = i + 1
			}
		}
	}
	flush(len(s))
	return out
}

// braceVisibility maps a C# or Java access modifier string to a visibility.
// fallback applies when no modifier is present.
func braceVisibility(access string, fallback uml.Visibility) uml.Visibility {
	switch {
	case strings.Contains(access, "public"):
		return uml.Public
	case strings.Contains(access, "private"):
		return uml.Private
	case strings.Contains(access, "protected"):
		return uml.Protected
	case strings.Contains(access, "internal"):
		return uml.Internal
	}
	return fallback
}

// componentsAsProperties turns a positional record's parameter list into
// public properties.
func componentsAsProperties(components string) []uml.Member {
	var out []uml.Member
	for _, p := range parseParams(components) {
		if p.typ == "" {
			continue
		}
		out = append(out, uml.Member{
			Kind:       uml.MemberProperty,
			Name:       p.name,
			Type:       p.typ,
			Visibility: uml.Public,
		})
	}
	return out
}

func stringSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
