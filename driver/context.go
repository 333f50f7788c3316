package driver

import (
	"github.com/NicoJuicy/coyote/operation"
	"github.com/NicoJuicy/coyote/scheduling"
)

// OperationBody is the instrumented test body a real goroutine runs for one
// ControlledOperation. It is the manual substitute for what an IL rewriter
// would otherwise insert, per the interface this module exposes instead of
// bytecode instrumentation.
type OperationBody func(ctx *OperationContext)

// OperationContext is the handle an OperationBody uses to report scheduling
// points and manage child operations. Each ControlledOperation's goroutine
// holds exactly one OperationContext for its lifetime.
type OperationContext struct {
	driver   *Driver
	op       *operation.Operation
	resumeCh chan struct{}
}

// ID returns the id of the operation this context belongs to.
func (c *OperationContext) ID() uint64 {
	return c.op.ID()
}

// SchedulingPoint reports a scheduling point to the driver, blocking the
// calling goroutine until the driver resumes it (possibly immediately, if
// the strategy chooses this same operation again). sharedState and comparer
// may be nil; callSite is the instrumentation-supplied location string.
func (c *OperationContext) SchedulingPoint(point scheduling.PointType, sharedState *string, comparer scheduling.Equivalence, callSite string, programStateHash int32) {
	c.driver.reportAndWait(c, event{
		opID:             c.op.ID(),
		kind:             eventSchedulingPoint,
		point:            point,
		sharedState:      sharedState,
		comparer:         comparer,
		callSite:         callSite,
		programStateHash: programStateHash,
	})
}

// Spawn creates a new operation whose body is fn, reports a Create
// scheduling point on the calling operation at callSite, and returns the new
// operation's id. The new operation does not run until the scheduling
// strategy picks it.
func (c *OperationContext) Spawn(callSite string, fn OperationBody) uint64 {
	child := c.driver.spawn(c.op, fn)
	c.SchedulingPoint(scheduling.Create, nil, nil, callSite, 0)
	return child.ID()
}

// Block marks the calling operation Blocked and waits for some other
// operation to call Unblock(c.ID()) and for the strategy to resume it.
func (c *OperationContext) Block(reason string) {
	c.driver.reportAndWait(c, event{
		opID:        c.op.ID(),
		kind:        eventBlocked,
		blockReason: reason,
	})
}

// Unblock marks the operation identified by id Enabled again, making it
// eligible for the scheduling strategy to pick. It takes effect immediately:
// the caller is the only running goroutine, so no handoff is required.
func (c *OperationContext) Unblock(id uint64) {
	c.driver.unblock(id)
}
