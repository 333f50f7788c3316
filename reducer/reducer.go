// Package reducer implements the shared-state reduction policy that prunes
// the enabled set the scheduling strategy chooses from, exploiting
// read-only access knowledge accumulated across iterations of a run.
package reducer

import (
	"sync"

	"golang.org/x/exp/maps"

	"github.com/NicoJuicy/coyote/operation"
	"github.com/NicoJuicy/coyote/scheduling"
)

// ScheduleReducer is the outbound contract the driver calls at every
// scheduling point.
type ScheduleReducer interface {
	// InitializeNextIteration is called once per iteration boundary.
	// SharedStateReducer's accumulated read/write sets must survive it.
	InitializeNextIteration(iteration uint64)
	// Reduce returns a (possibly smaller) subset of ops that preserves
	// reachability of interesting interleavings from current.
	Reduce(ops []operation.View, current operation.View) []operation.View
}

// SharedStateReducer implements ScheduleReducer using the equivalence
// hypothesis that a read of shared state never (so far) written is
// commutative with every other enabled operation.
type SharedStateReducer struct {
	mu            sync.Mutex
	readAccesses  map[string]struct{}
	writeAccesses map[string]struct{}
}

// NewSharedStateReducer returns a SharedStateReducer with empty persistent
// access sets.
func NewSharedStateReducer() *SharedStateReducer {
	return &SharedStateReducer{
		readAccesses:  make(map[string]struct{}),
		writeAccesses: make(map[string]struct{}),
	}
}

// InitializeNextIteration is a no-op: accumulated read/write knowledge must
// persist across iterations of the same run.
func (r *SharedStateReducer) InitializeNextIteration(iteration uint64) {}

// Reduce implements the five-step algorithm:
//  1. any Interleave/Yield operation disables reduction for this call: ops
//     is returned unchanged.
//  2. otherwise non-read/write operations always survive untouched, and
//     short-circuit the rest of reduction when any exist.
//  3. otherwise split into reads and writes and fold their shared-state keys
//     into the persistent access sets.
//  4. reads not yet known to be written anywhere are read-only and, if any
//     exist, are returned.
//  5. otherwise every enabled operation survives.
func (r *SharedStateReducer) Reduce(ops []operation.View, current operation.View) []operation.View {
	for _, o := range ops {
		if scheduling.IsInterleaveOrYield(o.LastSchedulingPoint()) {
			return ops
		}
	}

	var nonReadWrite []operation.View
	for _, o := range ops {
		if !scheduling.IsReadOrWrite(o.LastSchedulingPoint()) {
			nonReadWrite = append(nonReadWrite, o)
		}
	}
	if len(nonReadWrite) > 0 {
		return nonReadWrite
	}

	var reads, writes []operation.View
	for _, o := range ops {
		switch o.LastSchedulingPoint() {
		case scheduling.Read:
			reads = append(reads, o)
		case scheduling.Write:
			writes = append(writes, o)
		}
	}

	r.mu.Lock()
	for _, o := range reads {
		if key, ok := o.LastAccessedSharedState(); ok {
			r.readAccesses[key] = struct{}{}
		}
	}
	for _, o := range writes {
		if key, ok := o.LastAccessedSharedState(); ok {
			r.writeAccesses[key] = struct{}{}
		}
	}
	writeKeys := maps.Keys(r.writeAccesses)
	r.mu.Unlock()

	var readOnly []operation.View
	for _, o := range reads {
		key, ok := o.LastAccessedSharedState()
		if !ok {
			continue
		}
		comparer := o.LastAccessedSharedStateComparer()
		written := false
		for _, w := range writeKeys {
			if scheduling.EqualKeys(comparer, key, w) {
				written = true
				break
			}
		}
		if !written {
			readOnly = append(readOnly, o)
		}
	}
	if len(readOnly) > 0 {
		return readOnly
	}
	return ops
}

// ReadAccesses returns a snapshot of the persistent read-access key set, for
// tests and coverage reporting.
func (r *SharedStateReducer) ReadAccesses() map[string]struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]struct{}, len(r.readAccesses))
	maps.Copy(out, r.readAccesses)
	return out
}

// WriteAccesses returns a snapshot of the persistent write-access key set,
// for tests and coverage reporting.
func (r *SharedStateReducer) WriteAccesses() map[string]struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]struct{}, len(r.writeAccesses))
	maps.Copy(out, r.writeAccesses)
	return out
}
