// Package graph implements the execution-graph recorder: an append-only DAG
// over operations and call sites, built one Add call per scheduling point.
package graph

import (
	"fmt"
	"sort"
	"sync"

	"github.com/NicoJuicy/coyote/graph/callsite"
	"github.com/NicoJuicy/coyote/operation"
)

// Category classifies why two nodes are connected by an edge.
type Category int

const (
	// Creation connects a spawning operation's last node to the first node
	// of a newly observed operation.
	Creation Category = iota
	// Invocation connects two consecutive nodes of the same operation
	// produced within a single Add call.
	Invocation
	// Step connects the previous last node of a known operation to the
	// first node of a newly added burst for that operation.
	Step
)

// String renders a Category for logs and Graphviz labels.
func (c Category) String() string {
	switch c {
	case Creation:
		return "Creation"
	case Invocation:
		return "Invocation"
	case Step:
		return "Step"
	default:
		return "Unknown"
	}
}

// noEdge is the sentinel index meaning "no edge", since 0 is a valid index.
const noEdge = int32(-1)

// Node is one recorded scheduling event. Nodes never hold pointers back into
// the owning Graph; all cross-references are arena indices, so the graph has
// no reference cycles and can be cleared by truncating slices.
type Node struct {
	Index               int32
	Operation           uint64
	SequenceID          uint64
	CallSite            string
	HashedProgramState  int32
	InEdge              int32 // index into Graph.edges, or noEdge
	OutEdges            []int32
}

// Edge connects two nodes, identified by their arena index.
type Edge struct {
	Source   int32
	Target   int32
	Category Category
}

// Graph is the execution-graph recorder. The zero value is not usable; call
// NewGraph. A Graph is driven single-threaded by package driver within one
// iteration, except for the coverage map, which coverage.Take may read
// concurrently between iterations; mu guards only that cross-iteration state.
type Graph struct {
	mu sync.Mutex

	nodes []Node
	edges []Edge

	firstNodeForOp           map[uint64]int32
	lastNodeForOp            map[uint64]int32
	lastVisitedCallSiteIndex map[uint64]int32
	callSiteFrequencies      map[uint64]map[string]uint64

	// coverageMap is persistent across iterations; guarded by mu.
	coverageMap map[string]map[string]struct{}

	interner *callsite.Interner
}

// NewGraph returns an empty Graph ready for its first iteration.
func NewGraph() *Graph {
	return &Graph{
		firstNodeForOp:           make(map[uint64]int32),
		lastNodeForOp:            make(map[uint64]int32),
		lastVisitedCallSiteIndex: make(map[uint64]int32),
		callSiteFrequencies:      make(map[uint64]map[string]uint64),
		coverageMap:              make(map[string]map[string]struct{}),
		interner:                 callsite.NewInterner(),
	}
}

// Add records op's latest scheduling point into the graph as a burst: it
// appends one node per newly visited call site since op's last Add (or one
// synthesized fallback node when there is none), wires it
// to the rest of the graph with a Creation/Invocation/Step edge as
// appropriate, and updates the coverage map and per-operation call-site
// frequencies.
func (g *Graph) Add(op operation.View) error {
	opID := op.ID()
	if _, ok := g.callSiteFrequencies[opID]; !ok {
		g.callSiteFrequencies[opID] = make(map[string]uint64)
	}

	visited := op.VisitedCallSites()
	startIdx := int(g.lastVisitedCallSiteIndex[opID])
	if startIdx > len(visited) {
		startIdx = len(visited)
	}
	newSites := visited[startIdx:]
	consumedNewSites := len(newSites) > 0

	var burstSites []string
	if consumedNewSites {
		burstSites = newSites
	} else {
		fallback, err := g.synthesizeFallbackCallSite(op, visited)
		if err != nil {
			return err
		}
		burstSites = []string{fallback}
	}

	graphWasNonEmpty := len(g.nodes) > 0
	_, hadLastNode := g.lastNodeForOp[opID]

	firstIndex := int32(len(g.nodes))
	for i, site := range burstSites {
		g.nodes = append(g.nodes, Node{
			Index:              firstIndex + int32(i),
			Operation:          opID,
			SequenceID:         op.SequenceID(),
			CallSite:           site,
			HashedProgramState: op.LastHashedProgramState(),
			InEdge:             noEdge,
		})
		g.interner.Intern(site)
	}
	lastIndex := firstIndex + int32(len(burstSites)) - 1

	for i := firstIndex; i < lastIndex; i++ {
		g.addEdge(i, i+1, Invocation)
	}

	if graphWasNonEmpty {
		if !hadLastNode {
			parentLast, ok := g.lastNodeForOp[op.ParentID()]
			if !ok {
				return fmt.Errorf("graph: operation %d first sighting but parent %d has no recorded node", opID, op.ParentID())
			}
			g.addEdge(parentLast, firstIndex, Creation)
		} else {
			prevLast := g.lastNodeForOp[opID]
			g.addEdge(prevLast, firstIndex, Step)
		}
	}

	if !hadLastNode {
		g.firstNodeForOp[opID] = firstIndex
	}
	g.lastNodeForOp[opID] = lastIndex
	if consumedNewSites {
		g.lastVisitedCallSiteIndex[opID] = int32(len(visited))
	}

	for _, site := range burstSites {
		g.callSiteFrequencies[opID][site]++
	}

	return nil
}

// synthesizeFallbackCallSite implements step 3 of the Add algorithm when no
// new call site was observed since the operation's previous Add call.
func (g *Graph) synthesizeFallbackCallSite(op operation.View, visited []string) (string, error) {
	if len(visited) > 0 {
		return visited[len(visited)-1], nil
	}
	if op.IsRoot() {
		return "Test", nil
	}
	parentLastIdx, ok := g.lastNodeForOp[op.ParentID()]
	if !ok {
		return "", fmt.Errorf("graph: operation %d has no visited call sites and parent %d has no recorded node", op.ID(), op.ParentID())
	}
	return g.nodes[parentLastIdx].CallSite, nil
}

// addEdge appends an edge from source to target, wires it into both nodes'
// adjacency, and folds it into the coverage map when applicable.
func (g *Graph) addEdge(source, target int32, category Category) {
	edgeIndex := int32(len(g.edges))
	g.edges = append(g.edges, Edge{Source: source, Target: target, Category: category})
	g.nodes[source].OutEdges = append(g.nodes[source].OutEdges, edgeIndex)
	g.nodes[target].InEdge = edgeIndex

	srcSite := g.nodes[source].CallSite
	dstSite := g.nodes[target].CallSite
	if category == Creation || category == Invocation || srcSite != dstSite {
		g.mu.Lock()
		set, ok := g.coverageMap[srcSite]
		if !ok {
			set = make(map[string]struct{})
			g.coverageMap[srcSite] = set
		}
		set[dstSite] = struct{}{}
		g.mu.Unlock()
	}
}

// Clear resets every per-iteration field, preserving the coverage map.
func (g *Graph) Clear() {
	g.nodes = nil
	g.edges = nil
	g.firstNodeForOp = make(map[uint64]int32)
	g.lastNodeForOp = make(map[uint64]int32)
	g.lastVisitedCallSiteIndex = make(map[uint64]int32)
	g.callSiteFrequencies = make(map[uint64]map[string]uint64)
}

// FirstNodeForOp returns the first node recorded for opID and true, or the
// zero Node and false if opID has no recorded node.
func (g *Graph) FirstNodeForOp(opID uint64) (Node, bool) {
	idx, ok := g.firstNodeForOp[opID]
	if !ok {
		return Node{}, false
	}
	return g.nodes[idx], true
}

// LastNodeForOp returns the most recently recorded node for opID and true, or
// the zero Node and false if opID has no recorded node.
func (g *Graph) LastNodeForOp(opID uint64) (Node, bool) {
	idx, ok := g.lastNodeForOp[opID]
	if !ok {
		return Node{}, false
	}
	return g.nodes[idx], true
}

// NodeAt returns the node at the given arena index.
func (g *Graph) NodeAt(index int32) Node {
	return g.nodes[index]
}

// EdgeAt returns the edge at the given arena index.
func (g *Graph) EdgeAt(index int32) Edge {
	return g.edges[index]
}

// NumNodes returns the total number of nodes recorded this iteration.
func (g *Graph) NumNodes() int {
	return len(g.nodes)
}

// CallSiteFrequency returns the number of times callSite was recorded for
// opID this iteration, or 0 if never recorded.
func (g *Graph) CallSiteFrequency(opID uint64, callSite string) uint64 {
	return g.callSiteFrequencies[opID][callSite]
}

// LowestCallSiteFrequencyForOperation returns the call site with the fewest
// recorded visits for opID, breaking ties lexicographically, or false if
// opID has no recorded call sites.
func (g *Graph) LowestCallSiteFrequencyForOperation(opID uint64) (string, uint64, bool) {
	return g.extremeFrequency(opID, func(a, b uint64) bool { return a < b })
}

// HighestCallSiteFrequencyForOperation returns the call site with the most
// recorded visits for opID, breaking ties lexicographically, or false if
// opID has no recorded call sites.
func (g *Graph) HighestCallSiteFrequencyForOperation(opID uint64) (string, uint64, bool) {
	return g.extremeFrequency(opID, func(a, b uint64) bool { return a > b })
}

func (g *Graph) extremeFrequency(opID uint64, better func(a, b uint64) bool) (string, uint64, bool) {
	freqs := g.callSiteFrequencies[opID]
	if len(freqs) == 0 {
		return "", 0, false
	}
	sites := make([]string, 0, len(freqs))
	for site := range freqs {
		sites = append(sites, site)
	}
	sort.Strings(sites)

	bestSite := sites[0]
	bestCount := freqs[bestSite]
	for _, site := range sites[1:] {
		count := freqs[site]
		if better(count, bestCount) {
			bestSite, bestCount = site, count
		}
	}
	return bestSite, bestCount, true
}

// CoverageMap returns a defensive copy of the persistent call-site coverage
// map, safe to read concurrently with ongoing iterations via mu.
func (g *Graph) CoverageMap() map[string][]string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make(map[string][]string, len(g.coverageMap))
	for src, targets := range g.coverageMap {
		list := make([]string, 0, len(targets))
		for tgt := range targets {
			list = append(list, tgt)
		}
		sort.Strings(list)
		out[src] = list
	}
	return out
}

// Interner exposes the graph's call-site interner, which holds every call
// site Add has recorded. The visualizer and coverage packages do not use it;
// they work on the raw call-site strings.
func (g *Graph) Interner() *callsite.Interner {
	return g.interner
}

// Nodes returns a defensive copy of every node recorded so far this
// iteration, in arena order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Edges returns a defensive copy of every edge recorded so far this
// iteration, in arena order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// AllCallSiteFrequencies returns a deep copy of every operation's per-call-
// site visit counters for this iteration.
func (g *Graph) AllCallSiteFrequencies() map[uint64]map[string]uint64 {
	out := make(map[uint64]map[string]uint64, len(g.callSiteFrequencies))
	for opID, freqs := range g.callSiteFrequencies {
		inner := make(map[string]uint64, len(freqs))
		for site, count := range freqs {
			inner[site] = count
		}
		out[opID] = inner
	}
	return out
}
