package coverage

import (
	"testing"

	"github.com/NicoJuicy/coyote/graph"
	"github.com/NicoJuicy/coyote/operation"
	"github.com/NicoJuicy/coyote/scheduling"
)

type fakeOp struct {
	id, parentID, seq uint64
	root              bool
	sites             []string
}

func (f fakeOp) ID() uint64                   { return f.id }
func (f fakeOp) ParentID() uint64             { return f.parentID }
func (f fakeOp) SequenceID() uint64           { return f.seq }
func (f fakeOp) IsRoot() bool                 { return f.root }
func (f fakeOp) Status() operation.Status     { return operation.Enabled }
func (f fakeOp) LastSchedulingPoint() scheduling.PointType {
	return scheduling.Default
}
func (f fakeOp) LastAccessedSharedState() (string, bool)        { return "", false }
func (f fakeOp) LastAccessedSharedStateComparer() scheduling.Equivalence { return nil }
func (f fakeOp) VisitedCallSites() []string                     { return f.sites }
func (f fakeOp) LastHashedProgramState() int32                  { return 0 }

var _ operation.View = fakeOp{}

func buildGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.NewGraph()
	root := fakeOp{id: 1, root: true, sites: []string{"a"}}
	if err := g.Add(root); err != nil {
		t.Fatalf("add root: %v", err)
	}
	root.sites = []string{"a", "b"}
	if err := g.Add(root); err != nil {
		t.Fatalf("add root burst: %v", err)
	}
	return g
}

func TestTakeCapturesCoverageAndFrequencies(t *testing.T) {
	g := buildGraph(t)
	snap := Take(g)

	if len(snap.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(snap.Nodes))
	}
	if snap.Frequencies[1]["a"] != 1 || snap.Frequencies[1]["b"] != 1 {
		t.Fatalf("unexpected frequencies: %+v", snap.Frequencies[1])
	}
	if got := snap.CoverageMap["a"]; len(got) != 1 || got[0] != "b" {
		t.Fatalf("expected a->b in coverage map, got %+v", got)
	}
}

func TestDistinctCallSitesSorted(t *testing.T) {
	snap := Snapshot{CoverageMap: map[string][]string{"b": {"c"}, "a": {"b"}}}
	got := snap.DistinctCallSites()
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestEdgeCountAndTotalVisits(t *testing.T) {
	snap := Snapshot{
		CoverageMap: map[string][]string{"a": {"b", "c"}},
		Frequencies: map[uint64]map[string]uint64{1: {"a": 2, "b": 3}},
	}
	if snap.EdgeCount() != 2 {
		t.Fatalf("expected 2 edges, got %d", snap.EdgeCount())
	}
	if snap.TotalVisits() != 5 {
		t.Fatalf("expected 5 total visits, got %d", snap.TotalVisits())
	}
}
