package driver

import "github.com/NicoJuicy/coyote/scheduling"

type eventKind int

const (
	eventSchedulingPoint eventKind = iota
	eventBlocked
	eventCompleted
	eventPanicked
	eventMisuse
)

// event is what an operation's goroutine hands to the driver's single event
// loop at a scheduling point, a block, completion, or an unrecovered panic.
type event struct {
	opID uint64
	kind eventKind

	point            scheduling.PointType
	sharedState      *string
	comparer         scheduling.Equivalence
	callSite         string
	programStateHash int32

	blockReason string

	panicValue interface{}
	stack      []byte

	misuse error
}
