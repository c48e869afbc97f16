package split

import "github.com/olehluchkiv/classdiag/internal/uml"

// Group represents one slide's content: hub nodes (repeated on every slide)
// plus spoke nodes (unique to this slide).
type Group struct {
	Title     string
	HubKeys   []string // normalized entity names of hub nodes
	SpokeKeys []string // normalized entity names unique to this slide
}

// Splitter splits a harmonized entity list into groups for slide generation.
type Splitter interface {
	Split(entities []uml.Entity) []Group
}

// Options controls splitting behavior.
type Options struct {
	HubThreshold int // min connections to be a hub; default 3
	ChunkSize    int // max spokes per slide; default 3
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{HubThreshold: 3, ChunkSize: 3}
}
