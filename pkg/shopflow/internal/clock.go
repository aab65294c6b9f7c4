// Package internal provides internal utilities for the shopflow packages.
package internal

import (
	"sync"
	"time"
)

// Clock is the time source used to measure journey durations.
// Tests substitute a MockClock to get deterministic reports.
type Clock interface {
	Now() time.Time
}

// MonotonicClock reads time.Now, which carries a monotonic reading.
type MonotonicClock struct{}

// Now returns the current system time.
func (MonotonicClock) Now() time.Time {
	return time.Now()
}

// MockClock is a manually advanced Clock. It is safe for concurrent use so
// parallel journeys can share one in tests.
type MockClock struct {
	mu      sync.Mutex
	current time.Time
	step    time.Duration
}

// NewMockClock creates a MockClock at t. A zero t starts at a fixed instant.
func NewMockClock(t time.Time) *MockClock {
	if t.IsZero() {
		t = time.Unix(1000000000, 0)
	}
	return &MockClock{current: t}
}

// Now returns the current mock time, then advances it by the auto-step.
func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.current
	m.current = m.current.Add(m.step)
	return now
}

// Advance moves the clock forward. It panics on a negative duration.
func (m *MockClock) Advance(d time.Duration) {
	if d < 0 {
		panic("MockClock.Advance: duration must be non-negative")
	}
	m.mu.Lock()
	m.current = m.current.Add(d)
	m.mu.Unlock()
}

// AutoStep makes every Now call advance the clock by d afterwards.
func (m *MockClock) AutoStep(d time.Duration) {
	m.mu.Lock()
	m.step = d
	m.mu.Unlock()
}
