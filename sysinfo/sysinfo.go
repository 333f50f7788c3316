// Package sysinfo samples the current process's resource usage once per
// iteration, surfaced in coverage reports and iteration summaries.
package sysinfo

import (
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// Usage is one point-in-time resource sample.
type Usage struct {
	RSSBytes uint64
	CPUTime  time.Duration
}

// Sample reads the current process's resident set size and accumulated CPU
// time (user + system).
func Sample() (Usage, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return Usage{}, err
	}
	mem, err := proc.MemoryInfo()
	if err != nil {
		return Usage{}, err
	}
	times, err := proc.Times()
	if err != nil {
		return Usage{}, err
	}
	cpu := time.Duration((times.User + times.System) * float64(time.Second))
	return Usage{RSSBytes: mem.RSS, CPUTime: cpu}, nil
}
