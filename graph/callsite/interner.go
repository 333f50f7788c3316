// Package callsite interns call-site strings into stable hashed identities.
// Package graph interns every call site it records; the IDs have no effect
// on graph semantics, which are defined in terms of the raw call-site
// strings, and the Graphviz and coverage exports do not use them.
package callsite

import "golang.org/x/crypto/blake2b"

// ID is the 16-byte hash of an interned call-site string.
type ID [16]byte

// Interner assigns a stable ID to each distinct call-site string the first
// time it is seen. It is not safe for concurrent use; callers in this module
// only ever touch an Interner from the driver's single goroutine.
type Interner struct {
	ids     map[string]ID
	strings map[ID]string
}

// NewInterner returns an empty Interner.
func NewInterner() *Interner {
	return &Interner{
		ids:     make(map[string]ID),
		strings: make(map[ID]string),
	}
}

// Intern returns the ID for callSite, computing and caching it on first use.
func (n *Interner) Intern(callSite string) ID {
	if id, ok := n.ids[callSite]; ok {
		return id
	}
	sum := blake2b.Sum256([]byte(callSite))
	var id ID
	copy(id[:], sum[:16])
	n.ids[callSite] = id
	n.strings[id] = callSite
	return id
}

// String returns the call-site string for id, or "" if it was never interned.
func (n *Interner) String(id ID) string {
	return n.strings[id]
}

// Len returns the number of distinct call sites interned so far.
func (n *Interner) Len() int {
	return len(n.ids)
}
