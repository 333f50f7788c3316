package config

import (
	"github.com/urfave/cli/v2"
)

// Flag names, exported so cmd/coyote-run can read them back out of a
// *cli.Context without repeating string literals.
const (
	ConfigFileFlagName  = "config"
	IterationsFlagName  = "iterations"
	MaxStepsFlagName    = "max-steps"
	TimeoutFlagName     = "timeout"
	SeedFlagName        = "seed"
	StrategyFlagName    = "strategy"
	CoverageFlagName    = "coverage"
)

// Flags returns the urfave/cli flag set a command wiring Configuration
// should register, mirroring the teacher's XxxFlag + getFlagValue
// convention: one flag per Configuration field, each defaulting to
// Default()'s value.
func Flags() []cli.Flag {
	def := Default()
	return []cli.Flag{
		&cli.StringFlag{
			Name:  ConfigFileFlagName,
			Usage: "path to an HCL configuration file",
		},
		&cli.UintFlag{
			Name:  IterationsFlagName,
			Usage: "number of iterations to explore",
			Value: uint(def.IterationCount),
		},
		&cli.UintFlag{
			Name:  MaxStepsFlagName,
			Usage: "maximum scheduling steps per iteration before TimeoutError",
			Value: uint(def.MaxSchedulingSteps),
		},
		&cli.DurationFlag{
			Name:  TimeoutFlagName,
			Usage: "per-iteration wall-clock deadline",
			Value: def.Timeout,
		},
		&cli.Uint64Flag{
			Name:  SeedFlagName,
			Usage: "seed for the random scheduling strategy",
			Value: def.Seed,
		},
		&cli.StringFlag{
			Name:  StrategyFlagName,
			Usage: "scheduling strategy: random or round-robin",
			Value: string(def.StrategyKind),
		},
		&cli.BoolFlag{
			Name:  CoverageFlagName,
			Usage: "persist a coverage snapshot at the end of the run",
			Value: def.IsCoverageEnabled,
		},
	}
}

// FromContext builds a Configuration starting from Default(), applying an
// HCL file named by --config if present, then applying any explicitly-set
// CLI flags on top, and finally validating the result.
func FromContext(ctx *cli.Context) (Configuration, error) {
	cfg := Default()

	if path := ctx.String(ConfigFileFlagName); path != "" {
		if err := Load(path, &cfg); err != nil {
			return Configuration{}, err
		}
	}

	if ctx.IsSet(IterationsFlagName) {
		cfg.IterationCount = uint32(ctx.Uint(IterationsFlagName))
	}
	if ctx.IsSet(MaxStepsFlagName) {
		cfg.MaxSchedulingSteps = uint32(ctx.Uint(MaxStepsFlagName))
	}
	if ctx.IsSet(TimeoutFlagName) {
		cfg.Timeout = ctx.Duration(TimeoutFlagName)
	}
	if ctx.IsSet(SeedFlagName) {
		cfg.Seed = ctx.Uint64(SeedFlagName)
	}
	if ctx.IsSet(StrategyFlagName) {
		cfg.StrategyKind = StrategyKind(ctx.String(StrategyFlagName))
	}
	if ctx.IsSet(CoverageFlagName) {
		cfg.IsCoverageEnabled = ctx.Bool(CoverageFlagName)
	}

	if err := Validate(cfg); err != nil {
		return Configuration{}, err
	}
	return cfg, nil
}
