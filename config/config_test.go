package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Fatalf("expected Default() to be valid, got %v", err)
	}
}

func TestValidateRejectsBadStrategy(t *testing.T) {
	cfg := Default()
	cfg.StrategyKind = "not-a-strategy"
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected validation error for unknown strategy kind")
	}
}

func TestValidateRejectsZeroIterationCount(t *testing.T) {
	cfg := Default()
	cfg.IterationCount = 0
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected validation error for zero iteration count")
	}
}

func TestLoadOverridesOnlyPresentFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "coyote.hcl")
	contents := `
iteration_count = 50
seed            = 99
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	cfg := Default()
	if err := Load(path, &cfg); err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}

	if cfg.IterationCount != 50 {
		t.Fatalf("expected iteration_count overridden to 50, got %d", cfg.IterationCount)
	}
	if cfg.Seed != 99 {
		t.Fatalf("expected seed overridden to 99, got %d", cfg.Seed)
	}
	if cfg.MaxSchedulingSteps != Default().MaxSchedulingSteps {
		t.Fatalf("expected max_scheduling_steps to keep its default, got %d", cfg.MaxSchedulingSteps)
	}
	if cfg.Timeout != Default().Timeout {
		t.Fatalf("expected timeout to keep its default, got %v", cfg.Timeout)
	}
}

func TestDefaultValues(t *testing.T) {
	def := Default()
	if def.StrategyKind != StrategyRandom {
		t.Fatalf("expected default strategy random, got %v", def.StrategyKind)
	}
	if def.Timeout != 30*time.Second {
		t.Fatalf("expected default timeout 30s, got %v", def.Timeout)
	}
	if !def.IsCoverageEnabled {
		t.Fatalf("expected coverage enabled by default")
	}
}
