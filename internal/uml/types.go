package uml

// EntityKind classifies a recognized type declaration.
type EntityKind string

const (
	KindClass     EntityKind = "class"
	KindInterface EntityKind = "interface"
	KindRecord    EntityKind = "record"
	KindStruct    EntityKind = "struct"
)

// MemberKind classifies an entity member.
type MemberKind string

const (
	MemberProperty MemberKind = "property"
	MemberField    MemberKind = "field"
	MemberMethod   MemberKind = "method"
)

// Visibility is the canonical access level of a member.
type Visibility string

const (
	Public         Visibility = "public"
	Protected      Visibility = "protected"
	Internal       Visibility = "internal"
	Private        Visibility = "private"
	PackagePrivate Visibility = "package"
)

// Marker returns the Mermaid visibility prefix for v.
// Internal and package-private share the "~" marker.
func (v Visibility) Marker() string {
	switch v {
	case Public:
		return "+"
	case Protected:
		return "#"
	case Private:
		return "-"
	default:
		return "~"
	}
}

// SourceUnit is one file or snippet handed to the pipeline.
type SourceUnit struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Member is a field, property or method of an Entity.
type Member struct {
	Kind       MemberKind `json:"kind"`
	Name       string     `json:"name"`
	Type       string     `json:"type,omitempty"`
	ReturnType string     `json:"returnType,omitempty"`
	Parameters string     `json:"parameters,omitempty"`
	Visibility Visibility `json:"visibility"`
}

// MemberKey identifies a member for de-duplication.
type MemberKey struct {
	Kind       MemberKind
	Name       string
	Parameters string
}

// Key returns the identity key used when merging member lists.
func (m Member) Key() MemberKey {
	return MemberKey{Kind: m.Kind, Name: m.Name, Parameters: m.Parameters}
}

// Entity is a recognized class, interface, record or struct.
type Entity struct {
	Name       string     `json:"name"`
	Kind       EntityKind `json:"kind"`
	Members    []Member   `json:"members"`
	Inherits   []string   `json:"inherits"`
	Implements []string   `json:"implements"`
	Source     string     `json:"sourceName,omitempty"`
}

// Key returns the normalized name used for merging and lookups.
func (e Entity) Key() string {
	return NormalizeName(e.Name)
}

// Clone returns a deep copy of e.
func (e Entity) Clone() Entity {
	c := e
	c.Members = append([]Member(nil), e.Members...)
	c.Inherits = append([]string(nil), e.Inherits...)
	c.Implements = append([]string(nil), e.Implements...)
	return c
}

// Document is the final pipeline output.
type Document struct {
	Text     string   `json:"mermaid"`
	Entities []Entity `json:"entities"`
}
