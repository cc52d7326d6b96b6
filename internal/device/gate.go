package device

import (
	"sync"
	"time"
)

// PressResult is the gate's decision for one physical edge.
type PressResult int

const (
	// PressAccepted means the edge passed debounce and is now pending.
	PressAccepted PressResult = iota + 1

	// PressDebounced means the edge came too soon after the last accepted
	// press and was ignored.
	PressDebounced

	// PressCoalesced means the edge passed debounce but a press was already
	// pending; the two merge into one, as the firmware's flag did.
	PressCoalesced
)

// String returns the metric label for the result.
func (r PressResult) String() string {
	switch r {
	case PressAccepted:
		return "accepted"
	case PressDebounced:
		return "debounced"
	case PressCoalesced:
		return "coalesced"
	default:
		return "unknown"
	}
}

// PressGate debounces button edges and hands accepted presses to the main
// loop through a one-slot channel.
//
// Ownership:
//   - Edge is called only by the edge source. It is the sole writer of the
//     last-accepted timestamp.
//   - Poll is called only by the main loop. It is the sole consumer of the
//     pending slot.
//
// The clock read, the window comparison, the timestamp write and the slot
// write all happen under one mutex, so concurrent edges are serialized and
// each one is decided exactly once.
type PressGate struct {
	window time.Duration
	clock  TimeSource

	mu       sync.Mutex
	last     time.Duration
	accepted bool // false until the first press is accepted

	pending chan struct{}
}

// NewPressGate creates a gate with the given debounce window.
func NewPressGate(window time.Duration, clock TimeSource) *PressGate {
	return &PressGate{
		window:  window,
		clock:   clock,
		pending: make(chan struct{}, 1),
	}
}

// Edge records a physical button edge detected now.
// Safe to call from any goroutine.
func (g *PressGate) Edge() PressResult {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock.Now()
	if g.accepted && now-g.last <= g.window {
		pressEvents.WithLabelValues(PressDebounced.String()).Inc()
		return PressDebounced
	}
	g.last = now
	g.accepted = true

	result := PressAccepted
	select {
	case g.pending <- struct{}{}:
	default:
		result = PressCoalesced
	}
	pressEvents.WithLabelValues(result.String()).Inc()
	return result
}

// Poll consumes the pending press, if any. Never blocks.
func (g *PressGate) Poll() bool {
	select {
	case <-g.pending:
		return true
	default:
		return false
	}
}

// Pending reports whether a press is waiting without consuming it.
func (g *PressGate) Pending() bool {
	return len(g.pending) > 0
}
