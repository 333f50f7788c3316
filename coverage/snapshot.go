// Package coverage exports a read-only view of an execution graph's
// accumulated coverage and call-site frequencies, and persists or renders
// that view for humans and CI artifacts. The driver never imports this
// package; a host calls it between or after iterations.
package coverage

import (
	"sort"

	"github.com/NicoJuicy/coyote/graph"
)

// Snapshot is a read-only, serializable export of a graph.Graph at a point
// in time: the persistent coverage map, the last iteration's call-site
// frequencies per operation, and the last iteration's execution graph.
type Snapshot struct {
	CoverageMap map[string][]string             `json:"coverage_map" yaml:"coverage_map"`
	Frequencies map[uint64]map[string]uint64    `json:"frequencies" yaml:"frequencies"`
	Nodes       []graph.Node                    `json:"nodes" yaml:"nodes"`
	Edges       []graph.Edge                    `json:"edges" yaml:"edges"`
}

// Take builds a Snapshot from g's current state. Call it before g.Clear() is
// invoked for the next iteration, or the per-iteration fields (Frequencies,
// Nodes, Edges) will be empty.
func Take(g *graph.Graph) Snapshot {
	return Snapshot{
		CoverageMap: g.CoverageMap(),
		Frequencies: g.AllCallSiteFrequencies(),
		Nodes:       g.Nodes(),
		Edges:       g.Edges(),
	}
}

// DistinctCallSites returns every call site named as a source or target in
// the coverage map, sorted.
func (s Snapshot) DistinctCallSites() []string {
	seen := make(map[string]struct{})
	for src, targets := range s.CoverageMap {
		seen[src] = struct{}{}
		for _, tgt := range targets {
			seen[tgt] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for site := range seen {
		out = append(out, site)
	}
	sort.Strings(out)
	return out
}

// EdgeCount returns the total number of coverage-map source→target pairs
// recorded, i.e. the number of distinct transitions observed across the run.
func (s Snapshot) EdgeCount() int {
	total := 0
	for _, targets := range s.CoverageMap {
		total += len(targets)
	}
	return total
}

// TotalVisits sums every operation's call-site frequency counters from the
// snapshotted iteration.
func (s Snapshot) TotalVisits() uint64 {
	var total uint64
	for _, freqs := range s.Frequencies {
		for _, count := range freqs {
			total += count
		}
	}
	return total
}
