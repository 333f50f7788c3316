package driver

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/NicoJuicy/coyote/config"
	"github.com/NicoJuicy/coyote/driver/mocks"
	"github.com/NicoJuicy/coyote/graph"
	"github.com/NicoJuicy/coyote/reducer"
)

var errBoom = errors.New("boom")

func TestRunIterationFatalWhenStrategyChoosesOutsideReducedSet(t *testing.T) {
	ctrl := gomock.NewController(t)
	strat := mocks.NewMockSchedulingStrategy(ctrl)
	strat.EXPECT().Next(gomock.Any(), gomock.Any()).Return(uint64(9999), nil).AnyTimes()

	cfg := config.Default()
	cfg.IterationCount = 1
	cfg.Timeout = 2 * time.Second

	d := NewDriver(cfg, graph.NewGraph(), reducer.NewSharedStateReducer(), strat, nil)

	body := func(ctx *OperationContext) {
		ctx.SchedulingPoint(0, nil, nil, "site", 0)
	}

	result, err := d.RunIteration(0, body)
	if err == nil {
		t.Fatalf("expected fatal SchedulerMisuseError")
	}
	if _, ok := err.(*SchedulerMisuseError); !ok {
		t.Fatalf("expected *SchedulerMisuseError, got %T", err)
	}
	if result.Outcome != OutcomeFatal {
		t.Fatalf("expected OutcomeFatal, got %v", result.Outcome)
	}
}

func TestRunIterationFatalWhenStrategyErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	strat := mocks.NewMockSchedulingStrategy(ctrl)
	strat.EXPECT().Next(gomock.Any(), gomock.Any()).Return(uint64(0), errBoom).AnyTimes()

	cfg := config.Default()
	cfg.IterationCount = 1
	cfg.Timeout = 2 * time.Second

	d := NewDriver(cfg, graph.NewGraph(), reducer.NewSharedStateReducer(), strat, nil)

	body := func(ctx *OperationContext) {
		ctx.SchedulingPoint(0, nil, nil, "site", 0)
	}

	_, err := d.RunIteration(0, body)
	if _, ok := err.(*SchedulerMisuseError); !ok {
		t.Fatalf("expected *SchedulerMisuseError, got %T (%v)", err, err)
	}
}
