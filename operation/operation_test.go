package operation

import (
	"testing"

	"github.com/NicoJuicy/coyote/scheduling"
)

func TestNewRootDefaults(t *testing.T) {
	op := New(0, RootParentID, 0, true)
	if !op.IsRoot() {
		t.Fatalf("expected IsRoot")
	}
	if op.ParentID() != RootParentID {
		t.Fatalf("expected RootParentID, got %d", op.ParentID())
	}
	if op.Status() != Created {
		t.Fatalf("expected Created status, got %v", op.Status())
	}
	if got, ok := op.LastAccessedSharedState(); ok || got != "" {
		t.Fatalf("expected no shared state recorded yet, got (%q, %v)", got, ok)
	}
}

func TestRecordSchedulingPointAppendsCallSites(t *testing.T) {
	op := New(1, 0, 1, false)
	key := "counter"
	op.RecordSchedulingPoint(scheduling.Write, &key, nil, "file.go:10", 7)
	op.RecordSchedulingPoint(scheduling.Read, nil, nil, "file.go:11", 8)

	sites := op.VisitedCallSites()
	if len(sites) != 2 || sites[0] != "file.go:10" || sites[1] != "file.go:11" {
		t.Fatalf("unexpected visited call sites: %v", sites)
	}
	if op.LastSchedulingPoint() != scheduling.Read {
		t.Fatalf("expected last point Read, got %v", op.LastSchedulingPoint())
	}
	if got, ok := op.LastAccessedSharedState(); ok || got != "" {
		t.Fatalf("expected shared state cleared on nil key, got (%q, %v)", got, ok)
	}
	if op.LastHashedProgramState() != 8 {
		t.Fatalf("expected hashed program state 8, got %d", op.LastHashedProgramState())
	}
}

func TestVisitedCallSitesIsACopy(t *testing.T) {
	op := New(1, 0, 1, false)
	op.RecordSchedulingPoint(scheduling.Default, nil, nil, "a", 0)
	sites := op.VisitedCallSites()
	sites[0] = "mutated"
	if got := op.VisitedCallSites(); got[0] != "a" {
		t.Fatalf("mutating returned slice affected operation state: %v", got)
	}
}

func TestStatusString(t *testing.T) {
	cases := map[Status]string{
		Created:   "Created",
		Enabled:   "Enabled",
		Blocked:   "Blocked",
		Completed: "Completed",
		Status(99): "Unknown",
	}
	for s, want := range cases {
		if got := s.String(); got != want {
			t.Errorf("Status(%d).String() = %q, want %q", s, got, want)
		}
	}
}
