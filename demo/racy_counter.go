// Package demo holds a small hand-instrumented concurrency scenario used to
// exercise the whole runtime end to end, standing in for what an IL rewriter
// would otherwise insert into a real test body.
package demo

import (
	"fmt"

	"github.com/NicoJuicy/coyote/driver"
	"github.com/NicoJuicy/coyote/scheduling"
)

// SharedCounter is the racy piece of state two depositors share: a plain
// read-modify-write with no lock, so a scheduler that interleaves the two
// depositors' read and write points loses one of the deposits.
type SharedCounter struct {
	value int
}

const balanceKey = "balance"

// deposit reads the counter, reports a Write point, then writes the
// incremented value back. The gap between the read and the write is a real
// scheduling point, so an adversarial interleaving can land another
// depositor's read in that gap and lose this deposit.
func deposit(ctx *driver.OperationContext, counter *SharedCounter, amount int, callSite string) {
	key := balanceKey
	ctx.SchedulingPoint(scheduling.Read, &key, nil, callSite+":read", 0)
	current := counter.value
	ctx.SchedulingPoint(scheduling.Write, &key, nil, callSite+":write", 0)
	counter.value = current + amount
}

// RacyCounterScenario spawns two concurrent depositors onto one
// SharedCounter and asserts their deposits are never lost. Explored across
// many iterations with a randomizing strategy, some schedules trigger the
// lost-update bug and the driver reports OutcomeBugFound; others interleave
// the two deposits cleanly and the iteration succeeds.
func RacyCounterScenario(ctx *driver.OperationContext) {
	counter := &SharedCounter{}
	rootID := ctx.ID()
	remaining := 2

	spawn := func(amount int, callSite string) {
		ctx.Spawn(callSite, func(childCtx *driver.OperationContext) {
			deposit(childCtx, counter, amount, callSite)
			childCtx.Unblock(rootID)
		})
	}
	spawn(10, "deposit:10")
	spawn(5, "deposit:5")

	for remaining > 0 {
		ctx.Block("waiting for deposits to settle")
		remaining--
	}

	if counter.value != 15 {
		panic(fmt.Sprintf("lost update: expected balance 15, got %d", counter.value))
	}
}
