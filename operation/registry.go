package operation

import "fmt"

// Registry assigns identities to operations within a single iteration and
// tracks their lifecycle. Exactly one Registry exists per iteration; it is
// owned and driven single-threaded by package driver.
type Registry struct {
	nextID  uint64
	nextSeq uint64
	ops     map[uint64]*Operation
	order   []uint64
}

// NewRegistry returns an empty Registry, ready to mint a root operation.
func NewRegistry() *Registry {
	return &Registry{ops: make(map[uint64]*Operation)}
}

// NewRoot mints the root operation of the iteration. It must be called at
// most once per Registry.
func (r *Registry) NewRoot() *Operation {
	if len(r.ops) != 0 {
		panic("operation: NewRoot called on a non-empty registry")
	}
	op := New(r.allocID(), RootParentID, r.allocSeq(), true)
	r.register(op)
	return op
}

// Spawn mints a new operation whose parent is parent. It must be called with
// parent already registered in r.
func (r *Registry) Spawn(parent *Operation) (*Operation, error) {
	if _, ok := r.ops[parent.ID()]; !ok {
		return nil, fmt.Errorf("operation: spawn from unregistered parent %d", parent.ID())
	}
	op := New(r.allocID(), parent.ID(), r.allocSeq(), false)
	r.register(op)
	return op, nil
}

// Get returns the operation with the given id, or nil if none is registered.
func (r *Registry) Get(id uint64) *Operation {
	return r.ops[id]
}

// All returns every registered operation in creation order. The returned
// slice must not be mutated.
func (r *Registry) All() []*Operation {
	out := make([]*Operation, len(r.order))
	for i, id := range r.order {
		out[i] = r.ops[id]
	}
	return out
}

// Enabled returns every registered operation whose Status is Enabled, in
// creation order.
func (r *Registry) Enabled() []*Operation {
	var out []*Operation
	for _, id := range r.order {
		op := r.ops[id]
		if op.Status() == Enabled {
			out = append(out, op)
		}
	}
	return out
}

// Len returns the number of operations registered so far.
func (r *Registry) Len() int {
	return len(r.order)
}

func (r *Registry) register(op *Operation) {
	r.ops[op.ID()] = op
	r.order = append(r.order, op.ID())
}

func (r *Registry) allocID() uint64 {
	id := r.nextID
	r.nextID++
	return id
}

func (r *Registry) allocSeq() uint64 {
	seq := r.nextSeq
	r.nextSeq++
	return seq
}
