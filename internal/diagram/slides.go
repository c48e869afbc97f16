package diagram

import (
	"strings"

	"github.com/olehluchkiv/classdiag/internal/diagram/split"
	"github.com/olehluchkiv/classdiag/internal/uml"
)

// Slide represents one navigable page in the slide deck.
type Slide struct {
	Title   string `json:"title"`
	Mermaid string `json:"mermaid"`
}

// SlideOptions controls slide deck generation.
type SlideOptions struct {
	Threshold int // entity or edge count at which slides activate; 0 = always single
}

// DefaultSlideOptions returns sensible defaults.
func DefaultSlideOptions() SlideOptions {
	return SlideOptions{Threshold: 20}
}

// BuildSlides converts harmonized entities into slides using the provided
// Splitter. Splitting activates when the entity count or the relationship
// count reaches the threshold. Otherwise it returns a single slide with the
// full diagram.
func BuildSlides(entities []uml.Entity, diagOpts DiagramOptions, splitter split.Splitter, opts SlideOptions) []Slide {
	if opts.Threshold <= 0 || (len(entities) < opts.Threshold && edgeCount(entities) < opts.Threshold) {
		return []Slide{{
			Title:   "Full Diagram",
			Mermaid: GenerateMermaid(entities, diagOpts),
		}}
	}

	slides := []Slide{{
		Title:   "Overview",
		Mermaid: GenerateMermaid(overview(entities), diagOpts),
	}}
	for _, g := range splitter.Split(entities) {
		slides = append(slides, Slide{
			Title:   g.Title,
			Mermaid: GenerateMermaid(subsetForGroup(entities, g), diagOpts),
		})
	}
	return slides
}

// SlidesMarkdown renders slides as a Markdown document with one heading and
// one mermaid fence per slide.
func SlidesMarkdown(slides []Slide) string {
	var b strings.Builder
	for i, s := range slides {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("## " + s.Title + "\n\n")
		b.WriteString("```mermaid\n")
		if s.Mermaid != "" {
			b.WriteString(s.Mermaid + "\n")
		}
		b.WriteString("```\n")
	}
	return b.String()
}

func edgeCount(entities []uml.Entity) int {
	n := 0
	for _, e := range entities {
		n += len(e.Inherits) + len(e.Implements)
	}
	return n
}

// overview strips every member so only names, stereotypes and relationships
// remain.
func overview(entities []uml.Entity) []uml.Entity {
	out := make([]uml.Entity, len(entities))
	for i, e := range entities {
		out[i] = e.Clone()
		out[i].Members = nil
	}
	return out
}

// subsetForGroup keeps the entities named by g. Edges to declared entities
// outside the group are dropped; edges to types declared nowhere are kept
// so they still render as placeholders.
func subsetForGroup(full []uml.Entity, g split.Group) []uml.Entity {
	included := make(map[string]bool, len(g.HubKeys)+len(g.SpokeKeys))
	for _, k := range g.HubKeys {
		included[k] = true
	}
	for _, k := range g.SpokeKeys {
		included[k] = true
	}
	declared := make(map[string]bool, len(full))
	for _, e := range full {
		declared[e.Key()] = true
	}
	keep := func(targets []string) []string {
		out := make([]string, 0, len(targets))
		for _, t := range targets {
			key := uml.NormalizeName(t)
			if included[key] || !declared[key] {
				out = append(out, t)
			}
		}
		return out
	}

	var sub []uml.Entity
	for _, e := range full {
		if !included[e.Key()] {
			continue
		}
		c := e.Clone()
		c.Inherits = keep(e.Inherits)
		c.Implements = keep(e.Implements)
		sub = append(sub, c)
	}
	return sub
}
