package split

import (
	"sort"
	"strings"

	"github.com/olehluchkiv/classdiag/internal/uml"
)

// HubAndSpoke implements the hub-and-spoke splitting strategy.
// High-connectivity interfaces (hubs) repeat on every detail slide,
// while the remaining entities (spokes) are chunked into groups of ChunkSize.
type HubAndSpoke struct {
	opts Options
}

// NewHubAndSpoke creates a hub-and-spoke splitter with the given options.
func NewHubAndSpoke(opts Options) *HubAndSpoke {
	if opts.HubThreshold <= 0 {
		opts.HubThreshold = DefaultOptions().HubThreshold
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultOptions().ChunkSize
	}
	return &HubAndSpoke{opts: opts}
}

// Split implements Splitter. It identifies hub interfaces (those with
// connections >= HubThreshold), then chunks every non-interface entity into
// groups of ChunkSize. Non-hub interfaces are attached to the first chunk
// that contains one of their connected entities.
func (h *HubAndSpoke) Split(entities []uml.Entity) []Group {
	declared := make(map[string]string, len(entities))
	for _, e := range entities {
		declared[e.Key()] = e.Name
	}
	edges := declaredEdges(entities, declared)
	connCount := connectionCount(edges)

	hubIfaceKeys := make(map[string]bool)
	nonHubIfaceKeys := make(map[string]bool)
	var spokeKeys []string
	for _, e := range entities {
		key := e.Key()
		if e.Kind != uml.KindInterface {
			spokeKeys = append(spokeKeys, key)
			continue
		}
		if connCount[key] >= h.opts.HubThreshold {
			hubIfaceKeys[key] = true
		} else {
			nonHubIfaceKeys[key] = true
		}
	}
	sort.Strings(spokeKeys)

	// If there are no spokes, return a single group with all interfaces.
	if len(spokeKeys) == 0 {
		allKeys := append(sortedKeys(hubIfaceKeys), sortedKeys(nonHubIfaceKeys)...)
		sort.Strings(allKeys)
		if len(allKeys) == 0 {
			return nil
		}
		return []Group{{
			Title:   "All Interfaces",
			HubKeys: allKeys,
		}}
	}

	sortedHubKeys := sortedKeys(hubIfaceKeys)

	// Which entities does each non-hub interface connect to?
	nonHubIfaceToSpokes := make(map[string]map[string]bool)
	for _, ed := range edges {
		for _, pair := range [][2]string{{ed.from, ed.to}, {ed.to, ed.from}} {
			ik, other := pair[0], pair[1]
			if !nonHubIfaceKeys[ik] {
				continue
			}
			if nonHubIfaceToSpokes[ik] == nil {
				nonHubIfaceToSpokes[ik] = make(map[string]bool)
			}
			nonHubIfaceToSpokes[ik][other] = true
		}
	}
	nonHubOrder := sortedKeys(nonHubIfaceKeys)

	chunks := chunkSlice(spokeKeys, h.opts.ChunkSize)

	var groups []Group
	attached := make(map[string]bool)

	for _, chunk := range chunks {
		chunkSet := make(map[string]bool, len(chunk))
		for _, k := range chunk {
			chunkSet[k] = true
		}

		var extraIfaceKeys []string
		for _, ik := range nonHubOrder {
			if attached[ik] {
				continue
			}
			for other := range nonHubIfaceToSpokes[ik] {
				if chunkSet[other] {
					extraIfaceKeys = append(extraIfaceKeys, ik)
					attached[ik] = true
					break
				}
			}
		}

		hubKeys := make([]string, len(sortedHubKeys), len(sortedHubKeys)+len(extraIfaceKeys))
		copy(hubKeys, sortedHubKeys)
		hubKeys = append(hubKeys, extraIfaceKeys...)

		groups = append(groups, Group{
			Title:     buildTitle(chunk, declared),
			HubKeys:   hubKeys,
			SpokeKeys: chunk,
		})
	}

	// Non-hub interfaces with no connected spoke land on the first slide.
	for _, ik := range nonHubOrder {
		if !attached[ik] {
			groups[0].HubKeys = append(groups[0].HubKeys, ik)
		}
	}

	return groups
}

type edge struct {
	from, to string
}

// declaredEdges lists the inheritance and realization edges whose both ends
// are declared entities, de-duplicated.
func declaredEdges(entities []uml.Entity, declared map[string]string) []edge {
	seen := make(map[edge]bool)
	var out []edge
	for _, e := range entities {
		targets := append(append([]string(nil), e.Inherits...), e.Implements...)
		for _, t := range targets {
			ed := edge{from: e.Key(), to: uml.NormalizeName(t)}
			if _, ok := declared[ed.to]; !ok || ed.from == ed.to || seen[ed] {
				continue
			}
			seen[ed] = true
			out = append(out, ed)
		}
	}
	return out
}

// connectionCount counts edges per node key.
func connectionCount(edges []edge) map[string]int {
	counts := make(map[string]int)
	for _, ed := range edges {
		counts[ed.from]++
		counts[ed.to]++
	}
	return counts
}

// chunkSlice splits a slice into chunks of at most size n.
func chunkSlice(items []string, n int) [][]string {
	var chunks [][]string
	for i := 0; i < len(items); i += n {
		end := min(i+n, len(items))
		chunks = append(chunks, items[i:end])
	}
	return chunks
}

// sortedKeys returns sorted keys from a bool map.
func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// buildTitle joins the display names of the chunk's entities.
func buildTitle(keys []string, declared map[string]string) string {
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = uml.NormalizeName(declared[k])
	}
	return strings.Join(names, ", ")
}
