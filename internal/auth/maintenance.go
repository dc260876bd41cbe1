package auth

import "sync/atomic"

// MaintenanceState is the process-wide maintenance flag. The zero value is
// "available". It is not persisted; a restart clears it.
type MaintenanceState struct {
	enabled atomic.Bool
}

// NewMaintenanceState returns a flag with the given initial value.
func NewMaintenanceState(enabled bool) *MaintenanceState {
	m := &MaintenanceState{}
	m.enabled.Store(enabled)
	return m
}

// Enabled reports whether maintenance mode is on.
func (m *MaintenanceState) Enabled() bool {
	return m.enabled.Load()
}

// Set stores v.
func (m *MaintenanceState) Set(v bool) {
	m.enabled.Store(v)
}

// Toggle flips the flag atomically and returns the new value. Concurrent
// toggles each observe a distinct transition.
func (m *MaintenanceState) Toggle() bool {
	for {
		old := m.enabled.Load()
		if m.enabled.CompareAndSwap(old, !old) {
			return !old
		}
	}
}
