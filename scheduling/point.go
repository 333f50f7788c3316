// Package scheduling defines the closed set of scheduling-point kinds that
// instrumented user code reports to the driver, and the small predicates the
// reducer and driver depend on.
package scheduling

// PointType classifies the kind of scheduling-point callback an operation
// reported. The set is closed: no other values are produced by this module.
type PointType int

const (
	// Default is reported for a scheduling point with no more specific
	// classification (e.g. a generic cooperative yield inserted by
	// instrumentation that doesn't know what kind of access it guards).
	Default PointType = iota
	// Interleave marks an explicit request to consider interleavings at
	// this point; it disables reduction (see Reduce in package reducer).
	Interleave
	// Yield marks a cooperative yield; like Interleave, it disables
	// reduction.
	Yield
	// Read marks a read of shared state named by the operation's
	// LastAccessedSharedState key.
	Read
	// Write marks a write of shared state named by the operation's
	// LastAccessedSharedState key.
	Write
	// Create marks the point at which an operation spawns another.
	Create
	// ContextSwitch marks a voluntary hand-off with no associated shared
	// state (e.g. goroutine park/unpark).
	ContextSwitch
	// Acquire marks acquisition of a lock-like resource.
	Acquire
	// Release marks release of a lock-like resource.
	Release
	// Send marks a channel/queue send.
	Send
	// Receive marks a channel/queue receive.
	Receive
)

// String renders a PointType for logs and error messages.
func (p PointType) String() string {
	switch p {
	case Default:
		return "Default"
	case Interleave:
		return "Interleave"
	case Yield:
		return "Yield"
	case Read:
		return "Read"
	case Write:
		return "Write"
	case Create:
		return "Create"
	case ContextSwitch:
		return "ContextSwitch"
	case Acquire:
		return "Acquire"
	case Release:
		return "Release"
	case Send:
		return "Send"
	case Receive:
		return "Receive"
	default:
		return "Unknown"
	}
}

// IsReadOrWrite reports whether p is Read or Write. The reducer only ever
// branches on this predicate and on IsInterleaveOrYield; it never switches on
// the full enum.
func IsReadOrWrite(p PointType) bool {
	return p == Read || p == Write
}

// IsInterleaveOrYield reports whether p is Interleave or Yield, the two point
// kinds that unconditionally disable shared-state reduction.
func IsInterleaveOrYield(p PointType) bool {
	return p == Interleave || p == Yield
}

// Equivalence lets instrumentation supply a custom notion of equality between
// two shared-state keys, standing in for the delegate-style comparer of the
// system this spec is modeled on. A nil Equivalence means "compare keys with
// Go's == on the underlying string".
type Equivalence interface {
	// Equal reports whether a and b name the same shared-state location.
	Equal(a, b string) bool
}

// EqualKeys compares two shared-state keys using cmp if non-nil, else falls
// back to plain string equality.
func EqualKeys(cmp Equivalence, a, b string) bool {
	if cmp != nil {
		return cmp.Equal(a, b)
	}
	return a == b
}
