// Package config defines the runtime's Configuration record, its HCL-file
// loader, validation, and urfave/cli flag overrides.
package config

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/hcl/v2/hclsimple"
)

// StrategyKind names one of the pluggable scheduling strategies a
// Configuration can select.
type StrategyKind string

const (
	// StrategyRandom selects strategy.RandomStrategy.
	StrategyRandom StrategyKind = "random"
	// StrategyRoundRobin selects strategy.RoundRobinStrategy.
	StrategyRoundRobin StrategyKind = "round-robin"
)

// Configuration is the record named in §6: the full set of knobs a run
// needs, loadable from an HCL file and overridable by CLI flags.
type Configuration struct {
	IterationCount     uint32        `hcl:"iteration_count,optional" validate:"required,gt=0"`
	MaxSchedulingSteps uint32        `hcl:"max_scheduling_steps,optional" validate:"required,gt=0"`
	Timeout            time.Duration `hcl:"timeout,optional" validate:"required,gt=0"`
	Seed               uint64        `hcl:"seed,optional"`
	StrategyKind       StrategyKind  `hcl:"strategy_kind,optional" validate:"required,oneof=random round-robin"`
	IsCoverageEnabled  bool          `hcl:"is_coverage_enabled,optional"`
}

// Default returns the Configuration a run starts from before any HCL file or
// CLI flag is applied.
func Default() Configuration {
	return Configuration{
		IterationCount:     100,
		MaxSchedulingSteps: 10_000,
		Timeout:            30 * time.Second,
		Seed:               1,
		StrategyKind:       StrategyRandom,
		IsCoverageEnabled:  true,
	}
}

var validate = validator.New()

// Validate checks c against its struct-tag constraints, returning a
// descriptive error naming every violated field.
func Validate(c Configuration) error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	return nil
}

// Load decodes an HCL file at path into cfg, which should already hold
// Default() so fields the file omits keep their defaults.
func Load(path string, cfg *Configuration) error {
	return hclsimple.DecodeFile(path, nil, cfg)
}
