package diagram

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/olehluchkiv/classdiag/internal/uml"
)

// DiagramOptions controls Mermaid diagram generation. The zero value emits
// the bare classDiagram grammar.
type DiagramOptions struct {
	IncludeInit bool   // include %%{init:}%% directive (for standalone .mmd files)
	Direction   string // optional "direction" statement, e.g. "LR"
}

const initDirective = "%%{init: {'theme': 'base', 'themeVariables': {'primaryColor': '#ffffff', 'primaryBorderColor': '#cccccc', 'primaryTextColor': '#000000', 'lineColor': '#555555'}}}%%"

// GenerateMermaid serializes harmonized entities into a Mermaid classDiagram.
// Entity blocks come first in input order, then relationship lines entity by
// entity: inheritance edges before realization edges. A target that is not
// one of the entities gets a bare "class <ID>" line right before its first
// edge. An empty entity list yields "".
func GenerateMermaid(entities []uml.Entity, opts DiagramOptions) string {
	if len(entities) == 0 {
		return ""
	}

	ids := newIDAllocator()
	entityIDs := make([]string, len(entities))
	declared := make(map[string]string, len(entities))
	for i, e := range entities {
		entityIDs[i] = ids.allocate(e.Name)
		if _, ok := declared[e.Key()]; !ok {
			declared[e.Key()] = entityIDs[i]
		}
	}

	var lines []string
	if opts.IncludeInit {
		lines = append(lines, initDirective)
	}
	lines = append(lines, "classDiagram")
	if opts.Direction != "" {
		lines = append(lines, "    direction "+opts.Direction)
	}

	for i, e := range entities {
		lines = appendBlock(lines, entityIDs[i], e)
	}

	placeholders := make(map[string]string)
	resolve := func(target string) string {
		key := uml.NormalizeName(target)
		if id, ok := declared[key]; ok {
			return id
		}
		if id, ok := placeholders[key]; ok {
			return id
		}
		id := ids.allocate(target)
		placeholders[key] = id
		lines = append(lines, "    class "+id)
		return id
	}

	edges := make(map[string]bool)
	addEdge := func(target, arrow, source string) {
		line := fmt.Sprintf("    %s %s %s", resolve(target), arrow, source)
		if edges[line] {
			return
		}
		edges[line] = true
		lines = append(lines, line)
	}
	for i, e := range entities {
		for _, target := range e.Inherits {
			addEdge(target, "<|--", entityIDs[i])
		}
		for _, target := range e.Implements {
			addEdge(target, "<|..", entityIDs[i])
		}
	}

	return strings.Join(lines, "\n")
}

// appendBlock writes the class block for one entity.
func appendBlock(lines []string, id string, e uml.Entity) []string {
	lines = append(lines, fmt.Sprintf("    class %s {", id))
	switch e.Kind {
	case uml.KindInterface, uml.KindRecord, uml.KindStruct:
		lines = append(lines, fmt.Sprintf("        <<%s>>", e.Kind))
	}
	for _, m := range e.Members {
		lines = append(lines, "        "+MemberLine(m))
	}
	return append(lines, "    }")
}

// MemberLine formats a member as "<vis><name>(<params>) : <ret>" for methods
// and "<vis><name> : <type>" for fields and properties. Empty types are
// omitted along with their separator.
func MemberLine(m uml.Member) string {
	var b strings.Builder
	b.WriteString(m.Visibility.Marker())
	b.WriteString(m.Name)
	switch m.Kind {
	case uml.MemberMethod:
		b.WriteString("(" + m.Parameters + ")")
		if m.ReturnType != "" {
			b.WriteString(" : " + m.ReturnType)
		}
	default:
		if m.Type != "" {
			b.WriteString(" : " + m.Type)
		}
	}
	return b.String()
}

// SanitizeSignature removes Go type spellings that break Mermaid member
// lines: channel direction arrows and empty brace literals. The Go front-end
// applies it to its type strings; other languages render members verbatim.
func SanitizeSignature(sig string) string {
	sig = strings.ReplaceAll(sig, "<-chan", "chan")
	// "interface" is reserved by Mermaid's <<interface>> parsing.
	sig = strings.ReplaceAll(sig, "interface{}", "any")
	return strings.ReplaceAll(sig, "{}", "")
}

var nonWordRe = regexp.MustCompile(`\W`)

// NodeID derives the base identifier for a type name: generic arguments are
// dropped and every non-word character becomes "_".
func NodeID(name string) string {
	id := nonWordRe.ReplaceAllString(uml.NormalizeName(name), "_")
	if id == "" {
		return "Type"
	}
	return id
}

// idAllocator hands out unique node identifiers for one diagram. Repeated
// base identifiers get "_2", "_3", ... in allocation order.
type idAllocator struct {
	issued map[string]bool
}

func newIDAllocator() *idAllocator {
	return &idAllocator{issued: make(map[string]bool)}
}

func (a *idAllocator) allocate(name string) string {
	base := NodeID(name)
	id := base
	for n := 2; a.issued[id]; n++ {
		id = fmt.Sprintf("%s_%d", base, n)
	}
	a.issued[id] = true
	return id
}
