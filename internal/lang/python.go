package lang

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/olehluchkiv/classdiag/internal/uml"
)

var (
	pyClassRe     = regexp.MustCompile(`^([ \t]*)class\s+([A-Za-z_]\w*)\s*(?:\[[^\]]*\])?\s*(?:\(([^)]*)\))?\s*:(.*)$`)
	pyDefRe       = regexp.MustCompile(`(?m)^([ \t]*)(?:async[ \t]+)?def[ \t]+([A-Za-z_]\w*)\s*(?:\[[^\]]*\])?\s*\(([^)]*)\)\s*(?:->\s*([^:\n]+?))?\s*:`)
	pySelfFieldRe = regexp.MustCompile(`\bself\.([A-Za-z_]\w*)[ \t]*(?::[ \t]*([^=\n]+?))?[ \t]*=(?:[^=]|$)`)
	pyAnnotatedRe = regexp.MustCompile(`(?m)^([ \t]*)([A-Za-z_]\w*)[ \t]*:[ \t]*([^=\n]+?)[ \t]*(?:=.*)?$`)
	pyKeywords    = stringSet("else", "try", "finally", "except", "lambda", "match", "case", "if", "elif", "while", "for", "with", "return")
)

type pythonScanner struct{}

// Preprocess removes # comments and blanks string contents. Triple-quoted
// strings keep their newlines so indentation-based bodies stay intact.
func (pythonScanner) Preprocess(src string) string {
	src = norm.NFC.String(src)
	n := len(src)
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; {
		c := src[i]
		switch {
		case c == '#':
			for i < n && src[i] != '\n' {
				i++
			}
		case (c == '"' || c == '\'') && i+2 < n && src[i+1] == c && src[i+2] == c:
			delim := src[i : i+3]
			end := strings.Index(src[i+3:], delim)
			stop := n
			if end >= 0 {
				stop = i + 3 + end + 3
			}
			b.WriteString(`""`)
			writeNewlines(&b, src[i:stop])
			i = stop
		case c == '"' || c == '\'':
			i = skipQuoted(&b, src, i, c)
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}

// Scan finds class headers and collects each body as the following lines
// indented deeper than the header. Blank lines never end a body. Nested
// classes belong to their parent's body and are not reported separately.
func (pythonScanner) Scan(text string) []Header {
	lines := strings.Split(text, "\n")
	var headers []Header
	for i := 0; i < len(lines); i++ {
		m := pyClassRe.FindStringSubmatch(lines[i])
		if m == nil {
			continue
		}
		indent := indentWidth(m[1])
		j := i + 1
		hasBody := false
		for ; j < len(lines); j++ {
			if strings.TrimSpace(lines[j]) == "" {
				continue
			}
			if indentWidth(lines[j]) <= indent {
				break
			}
			hasBody = true
		}
		// A header with neither an indented block nor an inline suite
		// ("class A: pass") is dropped.
		if !hasBody && strings.TrimSpace(m[4]) == "" {
			continue
		}
		headers = append(headers, Header{
			Kind:       uml.KindClass,
			Name:       m[2],
			Inherits:   pythonBases(m[3]),
			Implements: []string{},
			Body:       strings.Join(lines[i+1:j], "\n"),
		})
		i = j - 1
	}
	return headers
}

// pythonBases drops "object" and keyword arguments such as metaclass=ABCMeta.
// Like the brace languages, the list is split on every comma.
func pythonBases(raw string) []string {
	bases := []string{}
	for _, tok := range splitList(raw) {
		if tok == "object" || strings.Contains(tok, "=") {
			continue
		}
		bases = append(bases, tok)
	}
	return bases
}

type pythonExtractor struct{}

func (pythonExtractor) Extract(h Header) []uml.Member {
	memberIndent := -1
	for _, line := range strings.Split(h.Body, "\n") {
		if strings.TrimSpace(line) != "" {
			memberIndent = indentWidth(line)
			break
		}
	}

	members := []uml.Member{}
	captured := make(map[string]bool)
	for _, m := range pyDefRe.FindAllStringSubmatch(h.Body, -1) {
		if indentWidth(m[1]) != memberIndent {
			continue
		}
		name := m[2]
		captured[name] = true
		members = append(members, uml.Member{
			Kind:       uml.MemberMethod,
			Name:       name,
			ReturnType: strings.TrimSpace(m[4]),
			Parameters: pythonParams(m[3]),
			Visibility: pythonVisibility(name),
		})
	}

	addField := func(name, typ string) {
		if captured[name] {
			return
		}
		captured[name] = true
		members = append(members, uml.Member{
			Kind:       uml.MemberField,
			Name:       name,
			Type:       strings.TrimSpace(typ),
			Visibility: pythonVisibility(name),
		})
	}
	// Class-level annotations (dataclasses, typed attributes).
	for _, m := range pyAnnotatedRe.FindAllStringSubmatch(h.Body, -1) {
		if indentWidth(m[1]) == memberIndent && !pyKeywords[m[2]] {
			addField(m[2], m[3])
		}
	}
	// Only a bare self receiver counts; other.self.x is someone else's field.
	for _, loc := range pySelfFieldRe.FindAllStringSubmatchIndex(h.Body, -1) {
		if loc[0] > 0 && h.Body[loc[0]-1] == '.' {
			continue
		}
		typ := ""
		if loc[4] >= 0 {
			typ = h.Body[loc[4]:loc[5]]
		}
		addField(h.Body[loc[2]:loc[3]], typ)
	}
	return members
}

// pythonParams drops self and cls, star prefixes, bare separators and
// default values, rendering "name: annotation" where an annotation exists.
func pythonParams(raw string) string {
	var out []string
	for _, tok := range splitTopLevel(raw) {
		tok = defaultValueRe.ReplaceAllString(tok, "")
		name, typ, _ := strings.Cut(tok, ":")
		name = strings.TrimLeft(strings.TrimSpace(name), "*")
		typ = strings.TrimSpace(typ)
		if name == "" || name == "/" || name == "self" || name == "cls" {
			continue
		}
		if typ == "" {
			out = append(out, name)
			continue
		}
		out = append(out, name+": "+typ)
	}
	return strings.Join(out, ", ")
}

// pythonVisibility follows naming conventions: dunder names are public, a
// leading underscore marks private, everything else is public.
func pythonVisibility(name string) uml.Visibility {
	switch {
	case strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__"):
		return uml.Public
	case strings.HasPrefix(name, "_"):
		return uml.Private
	}
	return uml.Public
}
