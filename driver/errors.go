package driver

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
)

// BugFoundError reports a panic recovered from user-instrumented code. It
// ends the iteration that raised it without aborting the run.
type BugFoundError struct {
	OperationID uint64
	Recovered   interface{}
	Stack       []byte
}

func (e *BugFoundError) Error() string {
	return fmt.Sprintf("bug found: operation %d panicked: %v", e.OperationID, e.Recovered)
}

// DeadlockError reports an iteration in which no operation was enabled but
// at least one remained blocked.
type DeadlockError struct {
	BlockedOperationIDs []uint64
}

func (e *DeadlockError) Error() string {
	return fmt.Sprintf("deadlock: %d operation(s) blocked with none enabled: %v", len(e.BlockedOperationIDs), e.BlockedOperationIDs)
}

// TimeoutError reports an iteration that exceeded its configured deadline or
// step budget. The operation goroutine running at the time is abandoned,
// since Go cannot forcibly preempt a goroutine.
type TimeoutError struct {
	Steps   uint32
	Elapsed time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout: iteration exceeded its budget after %d steps (%s elapsed)", e.Steps, e.Elapsed)
}

// SchedulerMisuseError reports an internal contract violation: a strategy
// returned an operation outside the reduced set, a scheduling callback named
// an unregistered operation, or a graph invariant was violated. It is fatal
// to the whole run.
type SchedulerMisuseError struct {
	cause error
}

// NewSchedulerMisuseError wraps cause with stack-trace capture via
// cockroachdb/errors, consistent with the rest of the module's error
// construction.
func NewSchedulerMisuseError(cause error) *SchedulerMisuseError {
	return &SchedulerMisuseError{cause: errors.WithStack(cause)}
}

func (e *SchedulerMisuseError) Error() string {
	return fmt.Sprintf("scheduler misuse: %v", e.cause)
}

func (e *SchedulerMisuseError) Unwrap() error {
	return e.cause
}

// UserMisuseError is reserved for host-loader-level rejection of a malformed
// test method signature. The core never raises it; it is exported only so a
// host can report through the same taxonomy.
type UserMisuseError struct {
	Reason string
}

func (e *UserMisuseError) Error() string {
	return fmt.Sprintf("user misuse: %s", e.Reason)
}
