package testutil

import (
	"sync"
	"time"
)

// ManualTime is a monotonic time source that only moves when told to.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type ManualTime struct {
	mu  sync.Mutex
	now time.Duration
}

// NewManualTime creates a time source at 0.
func NewManualTime() *ManualTime {
	return &ManualTime{}
}

// Now returns the current time.
func (m *ManualTime) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Set moves the clock to t. Moving backwards panics; the source is monotonic.
func (m *ManualTime) Set(t time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t < m.now {
		panic("ManualTime: clock moved backwards")
	}
	m.now = t
}

// Advance moves the clock forward by d.
func (m *ManualTime) Advance(d time.Duration) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d < 0 {
		panic("ManualTime: negative advance")
	}
	m.now += d
	return m.now
}
