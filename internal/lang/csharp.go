package lang

import (
	"regexp"
	"strings"

	"github.com/olehluchkiv/classdiag/internal/uml"
)

const (
	csAccess = `(?:(public|private|protected|internal)(?:\s+(protected|internal|private))?\s+)?`
	csType   = `[\w.]+(?:\s*<[^;{}()=]*?>)?\??(?:\[[,\s]*\]\??)*`
)

var (
	csDirectiveRe    = regexp.MustCompile(`(?m)^[ \t]*#[ \t]*(?:region|endregion|if|elif|else|endif|pragma|nullable|define|undef|line|warning|error)\b.*$`)
	csRecordKindRe   = regexp.MustCompile(`\brecord\s+(?:struct|class)\b`)
	csAttributeLine  = regexp.MustCompile(`(?m)^[ \t]*\[[^\]\n]*\][ \t]*`)
	csWhereClauseRe  = regexp.MustCompile(`\bwhere\b.*$`)
	csTypeDeclRe     = regexp.MustCompile(`\b(class|interface|record|struct)\s+([A-Za-z_]\w*(?:\s*<[^<>{};]*(?:<[^<>{};]*>[^<>{};]*)*>)?)\s*(\([^)]*\))?\s*(?::\s*([^{;]+?))?\s*(?:\bwhere\s[^{;]*)?([{;])`)
	csPropertyRe     = regexp.MustCompile(csAccess + `(?:(?:static|virtual|override|abstract|sealed|new|required|readonly|extern|unsafe)\s+)*(` + csType + `)\s+([A-Za-z_]\w*)\s*(?:\{[^{}]*\}|=>[^;]*;)`)
	csMethodRe       = regexp.MustCompile(csAccess + `(?:(?:static|virtual|override|abstract|sealed|async|new|extern|unsafe|partial|readonly)\s+)*(` + csType + `)\s+([A-Za-z_]\w*)(?:\s*<[^<>()]*>)?\s*\(([^)]*)\)\s*(?:\{|=>|\bwhere\b|;)`)
	csConstructorRe  = regexp.MustCompile(csAccess + `(?:static\s+)?([A-Za-z_]\w*)\s*\(([^)]*)\)\s*(?:\{|:|=>|;)`)
	csFieldRe        = regexp.MustCompile(csAccess + `(?:(?:static|readonly|volatile|const|new|required|event|unsafe|fixed)\s+)*(` + csType + `)\s+([A-Za-z_]\w*)\s*(?:=[^;]*)?;`)
	csReservedInType = stringSet(
		"class", "interface", "record", "struct", "enum", "delegate", "namespace", "using",
		"return", "new", "throw", "await", "else", "case", "goto", "yield", "in", "is", "as",
		"out", "ref", "params", "operator", "implicit", "explicit", "event", "this", "base",
		"public", "private", "protected", "internal", "static", "abstract", "virtual", "override",
		"sealed", "readonly", "const", "async", "partial", "extern", "unsafe", "volatile",
	)
)

type csharpScanner struct{}

// Preprocess strips comments and literal contents, removes preprocessor
// directive lines (their enclosed code stays) and folds "record struct" and
// "record class" into plain records.
func (csharpScanner) Preprocess(src string) string {
	text := stripCFamily(src, true)
	text = csDirectiveRe.ReplaceAllString(text, "")
	return csRecordKindRe.ReplaceAllString(text, "record")
}

func (csharpScanner) Scan(text string) []Header {
	var headers []Header
	for pos := 0; pos < len(text); {
		loc := csTypeDeclRe.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		m := match{body: text[pos:], loc: loc}
		end := pos + loc[1]
		kind := uml.EntityKind(m.group(1))
		components := strings.TrimSpace(strings.Trim(m.group(3), "()"))

		h := Header{Kind: kind, Name: strings.TrimSpace(m.group(2)), Components: components}
		h.Inherits, h.Implements = classifyCSharpSupertypes(m.group(4))

		if m.group(5) == ";" {
			// Positional records may omit the body entirely.
			if kind == uml.KindRecord && m.group(3) != "" {
				headers = append(headers, h)
			}
			pos = end
			continue
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

// classifyCSharpSupertypes splits a base list. Names that start with "I" or
// carry generic arguments are taken as interfaces; the first other name is
// the base class and any further ones are realizations.
func classifyCSharpSupertypes(clause string) (inherits, implements []string) {
	clause = csWhereClauseRe.ReplaceAllString(clause, "")
	inherits, implements = []string{}, []string{}
	for _, tok := range splitList(clause) {
		// Primary constructor arguments: "Base(name)".
		if i := strings.IndexByte(tok, '('); i >= 0 {
			tok = strings.TrimSpace(tok[:i])
		}
		if tok == "" {
			continue
		}
		if strings.HasPrefix(strings.ToLower(tok), "i") || strings.Contains(tok, "<") || len(inherits) > 0 {
			implements = append(implements, tok)
			continue
		}
		inherits = append(inherits, tok)
	}
	return inherits, implements
}

type csharpExtractor struct{}

var csharpRules = []memberRule{
	{re: csPropertyRe, build: func(m match, _ string) (uml.Member, bool) {
		typ, name := m.group(3), m.group(4)
		if csReservedInType[typ] || csReservedInType[name] {
			return uml.Member{}, false
		}
		return uml.Member{
			Kind:       uml.MemberProperty,
			Name:       name,
			Type:       typ,
			Visibility: braceVisibility(m.group(1)+" "+m.group(2), uml.Internal),
		}, true
	}},
	{re: csMethodRe, build: func(m match, owner string) (uml.Member, bool) {
		typ, name := m.group(3), m.group(4)
		// Constructors are picked up by their own rule.
		if csReservedInType[typ] || csReservedInType[name] || name == owner {
			return uml.Member{}, false
		}
		return uml.Member{
			Kind:       uml.MemberMethod,
			Name:       name,
			ReturnType: typ,
			Parameters: normalizeParams(m.group(5)),
			Visibility: braceVisibility(m.group(1)+" "+m.group(2), uml.Internal),
		}, true
	}},
	{re: csConstructorRe, build: func(m match, owner string) (uml.Member, bool) {
		if m.group(3) != owner || m.precededBy("new") || m.precededBy("~") {
			return uml.Member{}, false
		}
		return uml.Member{
			Kind:       uml.MemberMethod,
			Name:       owner,
			Parameters: normalizeParams(m.group(4)),
			Visibility: braceVisibility(m.group(1)+" "+m.group(2), uml.Internal),
		}, true
	}},
	{re: csFieldRe, unique: true, build: func(m match, _ string) (uml.Member, bool) {
		typ, name := m.group(3), m.group(4)
		if csReservedInType[typ] || csReservedInType[name] {
			return uml.Member{}, false
		}
		return uml.Member{
			Kind:       uml.MemberField,
			Name:       name,
			Type:       typ,
			Visibility: braceVisibility(m.group(1)+" "+m.group(2), uml.Internal),
		}, true
	}},
}

func (csharpExtractor) Extract(h Header) []uml.Member {
	body := csAttributeLine.ReplaceAllString(flattenNested(h.Body), " ")
	owner := uml.NormalizeName(h.Name)
	members := extractMembers(body, owner, csharpRules)
	if h.Kind == uml.KindRecord && h.Components != "" {
		members = append(componentsAsProperties(h.Components), members...)
	}
	return members
}
