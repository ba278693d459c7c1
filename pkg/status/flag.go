// Package status provides advisory link state and indicator patterns.
package status

import "sync/atomic"

// Flag is a lock-free boolean shared between tasks.
//
// It carries advisory state (e.g. "link connected") written by one task and
// read by another. Reads may observe a stale value. It must only drive
// cosmetic behavior such as the indicator, never a correctness decision.
type Flag struct {
	v atomic.Bool
}

// Set stores the value and reports whether it changed.
func (f *Flag) Set(v bool) bool {
	return f.v.Swap(v) != v
}

// Load reads the value.
func (f *Flag) Load() bool {
	return f.v.Load()
}
