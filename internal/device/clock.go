package device

import (
	"sync/atomic"
	"time"
)

// TimeSource is a monotonic clock measured from an arbitrary origin.
type TimeSource interface {
	Now() time.Duration
}

// MonotonicTime reads Go's monotonic clock relative to its creation.
// Wall-clock adjustments never move it backwards.
type MonotonicTime struct {
	start time.Time
}

// NewMonotonicTime starts a monotonic time source at 0.
func NewMonotonicTime() *MonotonicTime {
	return &MonotonicTime{start: time.Now()}
}

// Now returns the elapsed time since creation.
func (m *MonotonicTime) Now() time.Duration {
	return time.Since(m.start)
}

// Sequence stamps device events with strictly increasing numbers so traces
// order the same way on every replay, independent of wall time.
//
// Thread-safety: safe for concurrent use (atomic operations).
type Sequence struct {
	seq atomic.Int64
}

// NewSequence creates a sequence starting at 0.
func NewSequence() *Sequence {
	return &Sequence{}
}

// Next returns the next number. The first call returns 1.
func (s *Sequence) Next() int64 {
	return s.seq.Add(1)
}

// Current returns the last number handed out.
func (s *Sequence) Current() int64 {
	return s.seq.Load()
}
