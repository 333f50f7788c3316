// Package operation implements the ControlledOperation data model: the unit
// of schedulable work the driver creates, resumes, and records into the
// execution graph.
package operation

import (
	"sync"

	"github.com/NicoJuicy/coyote/scheduling"
)

// Status is the lifecycle state of an Operation within one iteration.
type Status int

const (
	// Created means the operation has been registered but has not yet run.
	Created Status = iota
	// Enabled means the operation is eligible to be picked by the
	// scheduling strategy.
	Enabled
	// Blocked means the operation reported that it cannot make progress
	// until some other operation unblocks it.
	Blocked
	// Completed means the operation's body returned; no further
	// scheduling points will be recorded for it.
	Completed
)

// String renders a Status for logs.
func (s Status) String() string {
	switch s {
	case Created:
		return "Created"
	case Enabled:
		return "Enabled"
	case Blocked:
		return "Blocked"
	case Completed:
		return "Completed"
	default:
		return "Unknown"
	}
}

// RootParentID is the sentinel parent id assigned to the root operation of
// an iteration, which has no spawner.
const RootParentID = ^uint64(0)

// View is the read-only contract the reducer, graph, and strategy consume.
// It mirrors exactly the fields the specification names for
// ControlledOperation; all mutation is confined to Operation's exported
// mutator methods, which only the driver calls.
type View interface {
	ID() uint64
	ParentID() uint64
	SequenceID() uint64
	IsRoot() bool
	Status() Status
	LastSchedulingPoint() scheduling.PointType
	// LastAccessedSharedState returns the key and true if the operation's
	// last scheduling point carried a shared-state key.
	LastAccessedSharedState() (string, bool)
	LastAccessedSharedStateComparer() scheduling.Equivalence
	// VisitedCallSites returns the call sites visited so far this
	// iteration, in visitation order. The returned slice must not be
	// mutated by the caller.
	VisitedCallSites() []string
	LastHashedProgramState() int32
}

// Operation is the concrete, driver-owned ControlledOperation. Its exported
// accessor methods satisfy View; its exported mutator methods are documented
// as driver-only and must not be called concurrently with a read of the same
// operation from a different goroutine (the single-baton model in package
// driver guarantees this in practice).
type Operation struct {
	mu sync.Mutex

	id         uint64
	parentID   uint64
	sequenceID uint64
	isRoot     bool

	status Status

	lastPoint           scheduling.PointType
	lastSharedState     string
	hasLastSharedState  bool
	lastComparer        scheduling.Equivalence
	visitedCallSites    []string
	lastHashedProgState int32
}

// New constructs an Operation. Only package driver should call this; it is
// exported so driver (and tests) can construct operations without a registry.
func New(id, parentID, sequenceID uint64, isRoot bool) *Operation {
	return &Operation{
		id:         id,
		parentID:   parentID,
		sequenceID: sequenceID,
		isRoot:     isRoot,
		status:     Created,
	}
}

func (o *Operation) ID() uint64         { return o.id }
func (o *Operation) ParentID() uint64   { return o.parentID }
func (o *Operation) SequenceID() uint64 { return o.sequenceID }
func (o *Operation) IsRoot() bool       { return o.isRoot }

func (o *Operation) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

func (o *Operation) LastSchedulingPoint() scheduling.PointType {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastPoint
}

func (o *Operation) LastAccessedSharedState() (string, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastSharedState, o.hasLastSharedState
}

func (o *Operation) LastAccessedSharedStateComparer() scheduling.Equivalence {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastComparer
}

func (o *Operation) VisitedCallSites() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, len(o.visitedCallSites))
	copy(out, o.visitedCallSites)
	return out
}

func (o *Operation) LastHashedProgramState() int32 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastHashedProgState
}

// SetStatus transitions the operation to a new status. Driver-only.
func (o *Operation) SetStatus(s Status) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.status = s
}

// RecordSchedulingPoint applies the driver's step 3(a): updates the last
// scheduling point, shared-state key, comparer, and hashed program state,
// then appends callSite to the (append-only) visited call sites. Driver-only.
func (o *Operation) RecordSchedulingPoint(point scheduling.PointType, sharedState *string, comparer scheduling.Equivalence, callSite string, hashedProgramState int32) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lastPoint = point
	if sharedState != nil {
		o.lastSharedState = *sharedState
		o.hasLastSharedState = true
	} else {
		o.lastSharedState = ""
		o.hasLastSharedState = false
	}
	o.lastComparer = comparer
	o.lastHashedProgState = hashedProgramState
	o.visitedCallSites = append(o.visitedCallSites, callSite)
}
