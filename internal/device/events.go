package device

import "github.com/roach88/shufflepad/internal/matrix"

// EventKind distinguishes trace events.
type EventKind string

const (
	EventSessionStarted EventKind = "session_started"
	EventRowChanged     EventKind = "row_changed"
	EventSelection      EventKind = "selection"
	EventVerified       EventKind = "verified"
	EventPressDropped   EventKind = "press_dropped"
)

// Event is one observable step of the operating cycle.
// Only the fields relevant to Kind are set.
type Event struct {
	Seq       int64
	Kind      EventKind
	SessionID string
	Session   int

	// session_started
	MatrixID string
	Matrix   matrix.DigitMatrix

	// row_changed, selection
	Row matrix.RowIndex

	// selection: 1-based position in the PIN
	Position int

	// verified
	Passed bool
}

// Observer receives events synchronously from the main loop.
// Implementations must not call back into the Device.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// Observe calls f.
func (f ObserverFunc) Observe(e Event) { f(e) }

type nopObserver struct{}

func (nopObserver) Observe(Event) {}
