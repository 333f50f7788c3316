// Package driver wires the operation registry, execution graph, reducer,
// and scheduling strategy into an iteration loop: the scheduler core.
package driver

import (
	"context"
	"fmt"
	"runtime/debug"
	"sort"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/NicoJuicy/coyote/config"
	"github.com/NicoJuicy/coyote/graph"
	"github.com/NicoJuicy/coyote/logger"
	"github.com/NicoJuicy/coyote/operation"
	"github.com/NicoJuicy/coyote/reducer"
	"github.com/NicoJuicy/coyote/runid"
	"github.com/NicoJuicy/coyote/strategy"
	"github.com/NicoJuicy/coyote/sysinfo"
)

// Outcome classifies how one iteration ended.
type Outcome int

const (
	// OutcomeSuccess means every operation completed with no violation.
	OutcomeSuccess Outcome = iota
	// OutcomeBugFound means user code panicked.
	OutcomeBugFound
	// OutcomeDeadlock means no operation was enabled while some remained blocked.
	OutcomeDeadlock
	// OutcomeTimeout means the iteration exceeded its deadline or step budget.
	OutcomeTimeout
	// OutcomeFatal means a SchedulerMisuseError occurred; the run aborts.
	OutcomeFatal
)

// String renders an Outcome for logs and reports.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "Success"
	case OutcomeBugFound:
		return "BugFound"
	case OutcomeDeadlock:
		return "Deadlock"
	case OutcomeTimeout:
		return "Timeout"
	case OutcomeFatal:
		return "Fatal"
	default:
		return "Unknown"
	}
}

// IterationResult summarizes one completed iteration.
type IterationResult struct {
	RunID         runid.RunID
	IterationID   runid.IterationID
	Iteration     uint64
	Outcome       Outcome
	Err           error
	Steps         uint32
	Duration      time.Duration
	ResourceUsage sysinfo.Usage
}

// Driver owns the registry and graph for the lifetime of a run and drives
// each iteration's cooperative single-threaded scheduling loop.
type Driver struct {
	log      logger.Logger
	reducer  reducer.ScheduleReducer
	strategy strategy.SchedulingStrategy
	cfg      config.Configuration
	graph    *graph.Graph
	runID    runid.RunID

	registry *operation.Registry
	contexts map[uint64]*OperationContext
	eventCh  chan event
	baton    *semaphore.Weighted
}

// NewDriver returns a Driver ready to run iterations of cfg against g,
// consulting red to prune enabled sets and strat to pick among them.
func NewDriver(cfg config.Configuration, g *graph.Graph, red reducer.ScheduleReducer, strat strategy.SchedulingStrategy, log logger.Logger) *Driver {
	return &Driver{
		log:      log,
		reducer:  red,
		strategy: strat,
		cfg:      cfg,
		graph:    g,
	}
}

// Graph exposes the driver's execution graph, e.g. for coverage export
// between iterations.
func (d *Driver) Graph() *graph.Graph {
	return d.graph
}

// Run executes cfg.IterationCount iterations of body, one root operation per
// iteration. It returns every iteration's result; if a SchedulerMisuseError
// occurs, Run returns immediately with that error alongside the results
// gathered so far.
func (d *Driver) Run(body OperationBody) ([]IterationResult, error) {
	d.runID = runid.NewRunID()
	if d.log != nil {
		d.log.Infof("starting run %s: %d iterations", d.runID, d.cfg.IterationCount)
	}

	results := make([]IterationResult, 0, d.cfg.IterationCount)
	for i := uint64(0); i < uint64(d.cfg.IterationCount); i++ {
		d.strategy.InitializeNextIteration(i)
		d.reducer.InitializeNextIteration(i)

		result, err := d.RunIteration(i, body)
		results = append(results, result)
		if err != nil {
			if d.log != nil {
				d.log.Errorf("run %s aborted at iteration %d: %v", d.runID, i, err)
			}
			return results, err
		}
	}
	return results, nil
}

// RunIteration executes exactly one iteration of body and returns its
// result. A non-nil error return means a SchedulerMisuseError occurred and
// the caller should not start another iteration.
func (d *Driver) RunIteration(iterationIdx uint64, body OperationBody) (IterationResult, error) {
	start := time.Now()
	iterID := runid.NewIterationID()

	d.graph.Clear()
	d.registry = operation.NewRegistry()
	d.contexts = make(map[uint64]*OperationContext)
	d.eventCh = make(chan event)
	d.baton = semaphore.NewWeighted(1)

	root := d.registry.NewRoot()
	root.SetStatus(operation.Enabled)
	rootCtx := &OperationContext{driver: d, op: root, resumeCh: make(chan struct{})}
	d.contexts[root.ID()] = rootCtx

	go d.runOperationGoroutine(root, rootCtx, body)
	rootCtx.resumeCh <- struct{}{}

	deadline := start.Add(d.cfg.Timeout)
	outcome, iterErr, steps := d.eventLoop(start, deadline)

	usage, err := sysinfo.Sample()
	if err != nil && d.log != nil {
		d.log.Warningf("failed to sample resource usage: %v", err)
	}

	result := IterationResult{
		RunID:         d.runID,
		IterationID:   iterID,
		Iteration:     iterationIdx,
		Outcome:       outcome,
		Err:           iterErr,
		Steps:         steps,
		Duration:      time.Since(start),
		ResourceUsage: usage,
	}

	if misuse, ok := iterErr.(*SchedulerMisuseError); ok {
		return result, misuse
	}
	return result, nil
}

// eventLoop is the driver's single control goroutine for one iteration: it
// receives scheduling events, updates the graph and reducer state, and
// resumes exactly one operation at a time.
func (d *Driver) eventLoop(start, deadline time.Time) (Outcome, error, uint32) {
	ctx, cancel := context.WithDeadline(context.Background(), deadline)
	defer cancel()

	var steps uint32
	for {
		var ev event
		select {
		case ev = <-d.eventCh:
		case <-ctx.Done():
			return OutcomeTimeout, &TimeoutError{Steps: steps, Elapsed: time.Since(start)}, steps
		}
		steps++

		if ev.kind == eventMisuse {
			return OutcomeFatal, ev.misuse, steps
		}

		op := d.registry.Get(ev.opID)
		if op == nil {
			return OutcomeFatal, NewSchedulerMisuseError(fmt.Errorf("event reported for unregistered operation %d", ev.opID)), steps
		}

		switch ev.kind {
		case eventPanicked:
			return OutcomeBugFound, &BugFoundError{OperationID: ev.opID, Recovered: ev.panicValue, Stack: ev.stack}, steps
		case eventBlocked:
			op.SetStatus(operation.Blocked)
		case eventCompleted:
			op.SetStatus(operation.Completed)
		case eventSchedulingPoint:
			op.RecordSchedulingPoint(ev.point, ev.sharedState, ev.comparer, ev.callSite, ev.programStateHash)
			op.SetStatus(operation.Enabled)
			if err := d.graph.Add(op); err != nil {
				return OutcomeFatal, NewSchedulerMisuseError(err), steps
			}
		}

		if steps > d.cfg.MaxSchedulingSteps {
			return OutcomeTimeout, &TimeoutError{Steps: steps, Elapsed: time.Since(start)}, steps
		}

		enabledOps := d.registry.Enabled()
		if len(enabledOps) == 0 {
			if blocked := blockedIDs(d.registry); len(blocked) > 0 {
				return OutcomeDeadlock, &DeadlockError{BlockedOperationIDs: blocked}, steps
			}
			return OutcomeSuccess, nil, steps
		}

		enabledViews := toViews(enabledOps)
		reduced := d.reducer.Reduce(enabledViews, op)

		nextID, err := d.strategy.Next(reduced, op)
		if err != nil {
			return OutcomeFatal, NewSchedulerMisuseError(fmt.Errorf("strategy error: %w", err)), steps
		}
		if !containsID(reduced, nextID) {
			return OutcomeFatal, NewSchedulerMisuseError(fmt.Errorf("strategy chose operation %d outside the reduced set", nextID)), steps
		}

		nextCtx, ok := d.contexts[nextID]
		if !ok {
			return OutcomeFatal, NewSchedulerMisuseError(fmt.Errorf("no context registered for operation %d", nextID)), steps
		}
		nextCtx.resumeCh <- struct{}{}
	}
}

// spawn registers a new operation as a child of parent, starts its
// goroutine, and leaves it Enabled but blocked on its own resume channel
// until the strategy picks it.
func (d *Driver) spawn(parent *operation.Operation, fn OperationBody) *operation.Operation {
	child, err := d.registry.Spawn(parent)
	if err != nil {
		panic(NewSchedulerMisuseError(err))
	}
	child.SetStatus(operation.Enabled)
	childCtx := &OperationContext{driver: d, op: child, resumeCh: make(chan struct{})}
	d.contexts[child.ID()] = childCtx
	go d.runOperationGoroutine(child, childCtx, fn)
	return child
}

// unblock marks the operation identified by id Enabled again.
func (d *Driver) unblock(id uint64) {
	op := d.registry.Get(id)
	if op == nil {
		panic(NewSchedulerMisuseError(fmt.Errorf("Unblock referenced unregistered operation %d", id)))
	}
	op.SetStatus(operation.Enabled)
}

// reportAndWait releases the baton, hands ev to the event loop, and blocks
// the calling goroutine until the driver resumes it.
func (d *Driver) reportAndWait(c *OperationContext, ev event) {
	d.baton.Release(1)
	d.eventCh <- ev
	<-c.resumeCh
	if err := d.baton.Acquire(context.Background(), 1); err != nil {
		panic(err)
	}
}

// runOperationGoroutine is the entry point for every operation's dedicated
// goroutine: wait to be resumed for the first time, acquire the baton, run
// the instrumented body, and report completion (or a recovered panic).
func (d *Driver) runOperationGoroutine(op *operation.Operation, ctx *OperationContext, body OperationBody) {
	defer func() {
		if r := recover(); r != nil {
			if misuse, ok := r.(*SchedulerMisuseError); ok {
				d.eventCh <- event{opID: op.ID(), kind: eventMisuse, misuse: misuse}
				return
			}
			d.eventCh <- event{opID: op.ID(), kind: eventPanicked, panicValue: r, stack: debug.Stack()}
		}
	}()

	<-ctx.resumeCh
	if err := d.baton.Acquire(context.Background(), 1); err != nil {
		panic(err)
	}
	body(ctx)
	d.baton.Release(1)
	d.eventCh <- event{opID: op.ID(), kind: eventCompleted}
}

func toViews(ops []*operation.Operation) []operation.View {
	out := make([]operation.View, len(ops))
	for i, o := range ops {
		out[i] = o
	}
	return out
}

func containsID(views []operation.View, id uint64) bool {
	for _, v := range views {
		if v.ID() == id {
			return true
		}
	}
	return false
}

func blockedIDs(reg *operation.Registry) []uint64 {
	var out []uint64
	for _, o := range reg.All() {
		if o.Status() == operation.Blocked {
			out = append(out, o.ID())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
