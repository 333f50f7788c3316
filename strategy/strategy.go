// Package strategy defines the pluggable scheduling-decision contract the
// driver consults at every scheduling point, plus two reference
// implementations.
package strategy

import (
	"fmt"
	"math/rand"

	"github.com/NicoJuicy/coyote/operation"
)

// SchedulingStrategy picks which of the enabled (and reduced) operations runs
// next. Implementations must return an id present in enabled; the driver
// treats any other answer as a fatal SchedulerMisuseError.
type SchedulingStrategy interface {
	// Next returns the id of the operation to resume.
	Next(enabled []operation.View, current operation.View) (uint64, error)
	// InitializeNextIteration is called once per iteration boundary, before
	// any Next call for that iteration.
	InitializeNextIteration(iteration uint64)
	// Describe returns a short human-readable name for logs and reports.
	Describe() string
}

// RandomStrategy picks uniformly at random among the enabled operations,
// using a per-run seed so a run is reproducible given the same seed and the
// same sequence of scheduling points.
type RandomStrategy struct {
	rng *rand.Rand
}

// NewRandomStrategy returns a RandomStrategy seeded with seed. seed is a
// uint64 to match config.Configuration.Seed; it is narrowed to int64 for
// math/rand.NewSource, which only loses information for seeds above 2^63
// (still reproducible, just not equal to the decimal value a user typed).
func NewRandomStrategy(seed uint64) *RandomStrategy {
	return &RandomStrategy{rng: rand.New(rand.NewSource(int64(seed)))}
}

// Next returns a uniformly random enabled operation's id.
func (s *RandomStrategy) Next(enabled []operation.View, current operation.View) (uint64, error) {
	if len(enabled) == 0 {
		return 0, fmt.Errorf("strategy: Next called with no enabled operations")
	}
	idx := s.rng.Intn(len(enabled))
	return enabled[idx].ID(), nil
}

// InitializeNextIteration is a no-op: RandomStrategy draws from the same
// rand.Rand stream across the whole run, so a run's outcome depends
// deterministically only on its seed and the sequence of Next calls.
func (s *RandomStrategy) InitializeNextIteration(iteration uint64) {}

// Describe returns "random".
func (s *RandomStrategy) Describe() string { return "random" }

// RoundRobinStrategy deterministically cycles through the enabled set,
// advancing a single position cursor each time it is consulted. Useful for
// reproducing one specific interleaving captured from a prior run.
type RoundRobinStrategy struct {
	cursor int
}

// NewRoundRobinStrategy returns a RoundRobinStrategy starting at the first
// enabled operation offered to it.
func NewRoundRobinStrategy() *RoundRobinStrategy {
	return &RoundRobinStrategy{}
}

// Next returns the enabled operation at the current cursor position, modulo
// the size of the enabled set, then advances the cursor.
func (s *RoundRobinStrategy) Next(enabled []operation.View, current operation.View) (uint64, error) {
	if len(enabled) == 0 {
		return 0, fmt.Errorf("strategy: Next called with no enabled operations")
	}
	idx := s.cursor % len(enabled)
	s.cursor++
	return enabled[idx].ID(), nil
}

// InitializeNextIteration resets the cursor so every iteration starts its
// round-robin cycle from the same position, keeping iterations comparable.
func (s *RoundRobinStrategy) InitializeNextIteration(iteration uint64) {
	s.cursor = 0
}

// Describe returns "round-robin".
func (s *RoundRobinStrategy) Describe() string { return "round-robin" }
