package lang

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// stripCFamily removes // and /* */ comments and blanks the contents of string
// and character literals. Newlines are kept so line structure and brace
// extents survive. verbatim enables C# @"..." strings ("" escapes, no
// backslash escapes); Java text blocks ("""...""") are always recognised.
func stripCFamily(src string, verbatim bool) string {
	src = norm.NFC.String(src)
	n := len(src)
	var b strings.Builder
	b.Grow(n)

	for i := 0; i < n; {
		c := src[i]
		switch {
		case c == '/' && i+1 < n && src[i+1] == '/':
			for i < n && src[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < n && src[i+1] == '*':
			end := strings.Index(src[i+2:], "*/")
			stop := n
			if end >= 0 {
				stop = i + 2 + end + 2
			}
			b.WriteByte(' ')
			writeNewlines(&b, src[i:stop])
			i = stop
		case c == '"' && strings.HasPrefix(src[i:], `"""`):
			end := strings.Index(src[i+3:], `"""`)
			stop := n
			if end >= 0 {
				stop = i + 3 + end + 3
			}
			b.WriteString(`""`)
			writeNewlines(&b, src[i:stop])
			i = stop
		case c == '"' && verbatim && isVerbatimOpen(src, i):
			i = skipVerbatim(&b, src, i)
		case c == '"' || c == '\'':
			i = skipQuoted(&b, src, i, c)
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}

// isVerbatimOpen reports whether the quote at i opens a C# verbatim string
// (@"..." or $@"..." / @$"...").
func isVerbatimOpen(src string, i int) bool {
	for j := i - 1; j >= 0 && j >= i-2; j-- {
		switch src[j] {
		case '@':
			return true
		case '$':
			continue
		default:
			return false
		}
	}
	return false
}

func skipVerbatim(b *strings.Builder, src string, i int) int {
	b.WriteByte('"')
	i++
	for i < len(src) {
		if src[i] == '"' {
			if i+1 < len(src) && src[i+1] == '"' {
				i += 2
				continue
			}
			b.WriteByte('"')
			return i + 1
		}
		if src[i] == '\n' {
			b.WriteByte('\n')
		}
		i++
	}
	return i
}

// skipQuoted blanks a single-line literal delimited by quote. Unterminated
// literals end at the newline.
func skipQuoted(b *strings.Builder, src string, i int, quote byte) int {
	b.WriteByte(quote)
	i++
	for i < len(src) {
		switch src[i] {
		case '\\':
			i += 2
			continue
		case quote:
			b.WriteByte(quote)
			return i + 1
		case '\n':
			return i
		}
		i++
	}
	return i
}

func writeNewlines(b *strings.Builder, s string) {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			b.WriteByte('\n')
		}
	}
}

// findMatchingBrace returns the index of the brace closing the one at open,
// or -1 when the text ends first.
func findMatchingBrace(text string, open int) int {
	depth := 0
	for i := open; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// flattenNested blanks everything inside brace groups of body while keeping
// the outermost braces of each group and all newlines. Member patterns then
// only see declarations at the body's own level: method bodies, accessor
// blocks, initializer lambdas and nested types collapse to "{ }".
func flattenNested(body string) string {
	out := []byte(body)
	depth := 0
	for i, c := range out {
		switch c {
		case '{':
			depth++
			if depth > 1 {
				out[i] = ' '
			}
		case '}':
			if depth > 1 {
				out[i] = ' '
			}
			if depth > 0 {
				depth--
			}
		case '\n':
		default:
			if depth > 0 {
				out[i] = ' '
			}
		}
	}
	return string(out)
}

// splitList splits a comma separated list and drops empty entries. Commas
// inside generic argument lists are not protected.
func splitList(s string) []string {
	var out []string
	for _, tok := range strings.Split(s, ",") {
		if tok = strings.TrimSpace(tok); tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

var (
	defaultValueRe  = regexp.MustCompile(`\s*=.*$`)
	blockCommentRe  = regexp.MustCompile(`/\*.*?\*/`)
	annotationRe    = regexp.MustCompile(`@[\w.]+(?:\s*\([^)]*\))?`)
	leadingAttrRe   = regexp.MustCompile(`^(?:\[[^\]]*\]\s*)+`)
	whitespaceRunRe = regexp.MustCompile(`\s+`)
)

type param struct {
	name string
	typ  string
}

func (p param) String() string {
	if p.typ == "" {
		return p.name
	}
	return p.name + ": " + p.typ
}

// parseParams splits a brace-language parameter list into name/type pairs.
// Defaults, inline comments, annotations and leading attributes are
// dropped. A parameter with a single token keeps it as its name.
func parseParams(params string) []param {
	var out []param
	for _, raw := range splitTopLevel(params) {
		cleaned := defaultValueRe.ReplaceAllString(raw, "")
		cleaned = blockCommentRe.ReplaceAllString(cleaned, "")
		cleaned = annotationRe.ReplaceAllString(cleaned, "")
		cleaned = leadingAttrRe.ReplaceAllString(strings.TrimSpace(cleaned), "")
		cleaned = strings.TrimSpace(cleaned)
		if cleaned == "" {
			continue
		}
		segments := whitespaceRunRe.Split(cleaned, -1)
		if len(segments) == 1 {
			out = append(out, param{name: cleaned})
			continue
		}
		out = append(out, param{
			name: segments[len(segments)-1],
			typ:  strings.Join(segments[:len(segments)-1], " "),
		})
	}
	return out
}

// normalizeParams renders a brace-language parameter list as
// "name: type, ...".
func normalizeParams(params string) string {
	var out []string
	for _, p := range parseParams(params) {
		out = append(out, p.String())
	}
	return strings.Join(out, ", ")
}

// indentWidth measures leading whitespace with tabs counted as four columns.
func indentWidth(line string) int {
	width := 0
	for _, r := range line {
		switch r {
		case ' ':
			width++
		case '\t':
			width += 4
		default:
			return width
		}
	}
	return width
}

// lineStart returns the offset of the first byte of the line containing pos.
func lineStart(text string, pos int) int {
	return strings.LastIndexByte(text[:pos], '\n') + 1
}
