package operation

import "testing"

func TestRegistryNewRootOnlyOnce(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on second NewRoot call")
		}
	}()
	r := NewRegistry()
	r.NewRoot()
	r.NewRoot()
}

func TestRegistrySpawnAssignsIncreasingIdentities(t *testing.T) {
	r := NewRegistry()
	root := r.NewRoot()

	child1, err := r.Spawn(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	child2, err := r.Spawn(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if child1.ID() == child2.ID() {
		t.Fatalf("expected distinct ids, got %d and %d", child1.ID(), child2.ID())
	}
	if child1.ParentID() != root.ID() || child2.ParentID() != root.ID() {
		t.Fatalf("expected both children to have root as parent")
	}
	if child1.SequenceID() >= child2.SequenceID() {
		t.Fatalf("expected increasing sequence ids, got %d then %d", child1.SequenceID(), child2.SequenceID())
	}
}

func TestRegistrySpawnFromUnregisteredParent(t *testing.T) {
	r := NewRegistry()
	stray := New(42, RootParentID, 0, true)
	if _, err := r.Spawn(stray); err == nil {
		t.Fatalf("expected error spawning from unregistered parent")
	}
}

func TestRegistryGetAllEnabled(t *testing.T) {
	r := NewRegistry()
	root := r.NewRoot()
	child, _ := r.Spawn(root)

	if r.Get(root.ID()) != root {
		t.Fatalf("Get did not return root")
	}
	if r.Get(999) != nil {
		t.Fatalf("expected nil for unknown id")
	}

	if len(r.All()) != 2 {
		t.Fatalf("expected 2 registered operations, got %d", len(r.All()))
	}
	if len(r.Enabled()) != 0 {
		t.Fatalf("expected no enabled operations yet, got %d", len(r.Enabled()))
	}

	root.SetStatus(Enabled)
	child.SetStatus(Enabled)
	enabled := r.Enabled()
	if len(enabled) != 2 {
		t.Fatalf("expected 2 enabled operations, got %d", len(enabled))
	}
}
