// Package runid mints unique identifiers for runs and iterations, carried in
// driver log lines and iteration results.
package runid

import "github.com/google/uuid"

// RunID identifies one call to driver.Driver.Run.
type RunID string

// IterationID identifies one iteration within a run.
type IterationID string

// NewRunID mints a fresh RunID.
func NewRunID() RunID {
	return RunID(uuid.NewString())
}

// NewIterationID mints a fresh IterationID.
func NewIterationID() IterationID {
	return IterationID(uuid.NewString())
}
