package demo

import (
	"testing"
	"time"

	"github.com/NicoJuicy/coyote/config"
	"github.com/NicoJuicy/coyote/driver"
	"github.com/NicoJuicy/coyote/graph"
	"github.com/NicoJuicy/coyote/reducer"
	"github.com/NicoJuicy/coyote/strategy"
)

func TestRacyCounterScenarioNeverFatalOrStuck(t *testing.T) {
	cfg := config.Default()
	cfg.IterationCount = 25
	cfg.MaxSchedulingSteps = 1000
	cfg.Timeout = 5 * time.Second

	d := driver.NewDriver(cfg, graph.NewGraph(), reducer.NewSharedStateReducer(), strategy.NewRandomStrategy(cfg.Seed), nil)

	results, err := d.Run(RacyCounterScenario)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(results) != int(cfg.IterationCount) {
		t.Fatalf("expected %d results, got %d", cfg.IterationCount, len(results))
	}

	for _, r := range results {
		switch r.Outcome {
		case driver.OutcomeSuccess, driver.OutcomeBugFound:
			// Both are legitimate: the scenario either interleaves the two
			// deposits cleanly, or the scheduler lands on the lost-update
			// schedule and the assertion inside RacyCounterScenario panics.
		default:
			t.Fatalf("iteration %d: unexpected outcome %v (err=%v)", r.Iteration, r.Outcome, r.Err)
		}
	}
}

func TestRacyCounterScenarioRoundRobinDeterministic(t *testing.T) {
	cfg := config.Default()
	cfg.IterationCount = 1
	cfg.MaxSchedulingSteps = 1000
	cfg.Timeout = 5 * time.Second

	d := driver.NewDriver(cfg, graph.NewGraph(), reducer.NewSharedStateReducer(), strategy.NewRoundRobinStrategy(), nil)

	result, err := d.RunIteration(0, RacyCounterScenario)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if result.Outcome != driver.OutcomeSuccess && result.Outcome != driver.OutcomeBugFound {
		t.Fatalf("unexpected outcome %v (err=%v)", result.Outcome, result.Err)
	}
}
