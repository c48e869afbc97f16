package lang

import (
	"regexp"
	"strings"

	"github.com/olehluchkiv/classdiag/internal/uml"
)

const (
	javaAccess = `(?:(public|protected|private)\s+)?`
	javaType   = `[\w.$]+(?:\s*<[^;{}()=]*?>)?(?:\s*\[\])*`
)

var (
	javaTypeDeclRe   = regexp.MustCompile(`\b(class|interface|record|enum)\s+([A-Za-z_$][\w$]*(?:\s*<[^{}]*?>)?)\s*(\([^)]*\))?\s*(?:extends\s+([\w$.<>,?\[\]\s]+?))?\s*(?:implements\s+([\w$.<>,?\[\]\s]+?))?\s*(?:permits\s+[\w$.<>,\s]+?)?\s*\{`)
	javaAnnotationRe = regexp.MustCompile(`@[A-Za-z_$][\w$.]*(?:\s*\([^)]*\))?`)
	javaMethodRe     = regexp.MustCompile(javaAccess + `(?:(?:static|final|abstract|synchronized|default|native|strictfp)\s+)*(?:<[^<>]*(?:<[^<>]*>[^<>]*)*>\s+)?(` + javaType + `)\s+([A-Za-z_$][\w$]*)\s*\(([^)]*)\)\s*(?:throws\s+[\w$.,\s]+?)?\s*(?:\{|;)`)
	javaConstructor  = regexp.MustCompile(javaAccess + `([A-Za-z_$][\w$]*)\s*\(([^)]*)\)\s*(?:throws\s+[\w$.,\s]+?)?\s*\{`)
	javaFieldRe      = regexp.MustCompile(javaAccess + `(?:(?:static|final|volatile|transient)\s+)*(` + javaType + `)\s+([A-Za-z_$][\w$]*)(?:\s*\[\])*\s*(?:=[^;]*)?;`)
	javaReserved     = stringSet(
		"class", "interface", "record", "enum", "extends", "implements", "package", "import",
		"return", "new", "throw", "throws", "else", "case", "assert", "yield", "break", "continue",
		"public", "protected", "private", "static", "final", "abstract", "synchronized", "default",
		"native", "strictfp", "volatile", "transient", "this", "super",
	)
)

type javaScanner struct{}

func (javaScanner) Preprocess(src string) string {
	return stripCFamily(src, false)
}

func (javaScanner) Scan(text string) []Header {
	var headers []Header
	for pos := 0; pos < len(text); {
		loc := javaTypeDeclRe.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		m := match{body: text[pos:], loc: loc}
		end := pos + loc[1]

		// "@interface" declares an annotation type, not an interface.
		if m.precededBy("@") {
			pos = end
			continue
		}

		kind := uml.EntityKind(m.group(1))
		if kind == "enum" {
			kind = uml.KindClass
		}
		h := Header{
			Kind:       kind,
			Name:       strings.TrimSpace(m.group(2)),
			Inherits:   appendTokens([]string{}, m.group(4)),
			Implements: appendTokens([]string{}, m.group(5)),
			Components: strings.TrimSpace(strings.Trim(m.group(3), "()")),
		}

		closing := findMatchingBrace(text, end-1)
		if closing < 0 {
			pos = end
			continue
		}
		h.Body = text[end:closing]
		headers = append(headers, h)
		pos = closing + 1
	}
	return headers
}

func appendTokens(list []string, clause string) []string {
	return append(list, splitList(clause)...)
}

type javaExtractor struct{}

var javaRules = []memberRule{
	{re: javaMethodRe, build: func(m match, owner string) (uml.Member, bool) {
		typ, name := m.group(2), m.group(3)
		if javaReserved[typ] || javaReserved[name] || name == owner {
			return uml.Member{}, false
		}
		return uml.Member{
			Kind:       uml.MemberMethod,
			Name:       name,
			ReturnType: typ,
			Parameters: normalizeParams(m.group(4)),
			Visibility: braceVisibility(m.group(1), uml.PackagePrivate),
		}, true
	}},
	{re: javaConstructor, build: func(m match, owner string) (uml.Member, bool) {
		if m.group(2) != owner || m.precededBy("new") {
			return uml.Member{}, false
		}
		return uml.Member{
			Kind:       uml.MemberMethod,
			Name:       owner,
			Parameters: normalizeParams(m.group(3)),
			Visibility: braceVisibility(m.group(1), uml.PackagePrivate),
		}, true
	}},
	{re: javaFieldRe, unique: true, build: func(m match, _ string) (uml.Member, bool) {
		typ, name := m.group(2), m.group(3)
		if javaReserved[typ] || javaReserved[name] {
			return uml.Member{}, false
		}
		return uml.Member{
			Kind:       uml.MemberField,
			Name:       name,
			Type:       typ,
			Visibility: braceVisibility(m.group(1), uml.PackagePrivate),
		}, true
	}},
}

func (javaExtractor) Extract(h Header) []uml.Member {
	body := javaAnnotationRe.ReplaceAllString(flattenNested(h.Body), " ")
	owner := uml.NormalizeName(h.Name)
	members := extractMembers(body, owner, javaRules)
	if h.Kind == uml.KindRecord && h.Components != "" {
		members = append(componentsAsProperties(h.Components), members...)
	}
	return members
}
