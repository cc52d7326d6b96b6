package harness

import "github.com/roach88/shufflepad/internal/device"

// Trace event kinds recorded by the runner itself. Device events keep their
// device.EventKind names.
const (
	KindEdge = "edge"
)

// TraceEvent is one entry of a scenario trace: a device event or a button
// edge offered to the debounce gate.
type TraceEvent struct {
	Seq       int64   `json:"seq"`
	Tick      int     `json:"tick"` // 0 for events before the first tick
	Kind      string  `json:"kind"`
	Session   int     `json:"session"`
	SessionID string  `json:"session_id,omitempty"`
	MatrixID  string  `json:"matrix_id,omitempty"`
	Matrix    [][]int `json:"matrix,omitempty"`
	Row       *int    `json:"row,omitempty"`
	Position  int     `json:"position,omitempty"`
	Passed    *bool   `json:"passed,omitempty"`
	Gate      string  `json:"gate,omitempty"` // edge: accepted, debounced or coalesced
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates every expect clause matched.
	Pass bool `json:"pass"`

	// Trace holds events in sequence order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains failed expectations. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Results are the announced verification outcomes.
	Results []bool `json:"results"`

	FinalRow          int `json:"final_row"`
	PendingSelections int `json:"pending_selections"`
	Sessions          int `json:"sessions"`
	Ticks             int `json:"ticks"`

	// Frame is the display as last presented.
	Frame string `json:"frame"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:    true,
		Trace:   []TraceEvent{},
		Errors:  []string{},
		Results: []bool{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Count returns how many trace events have the given kind.
func (r *Result) Count(kind string) int {
	n := 0
	for _, e := range r.Trace {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// addDeviceEvent records a device event observed during tick.
func (r *Result) addDeviceEvent(e device.Event, tick int) {
	ev := TraceEvent{
		Seq:       e.Seq,
		Tick:      tick,
		Kind:      string(e.Kind),
		Session:   e.Session,
		SessionID: e.SessionID,
	}
	switch e.Kind {
	case device.EventSessionStarted:
		ev.MatrixID = e.MatrixID
		ev.Matrix = e.Matrix.Ints()
	case device.EventRowChanged:
		row := int(e.Row)
		ev.Row = &row
	case device.EventSelection:
		row := int(e.Row)
		ev.Row = &row
		ev.Position = e.Position
	case device.EventVerified:
		passed := e.Passed
		ev.Passed = &passed
	}
	r.Trace = append(r.Trace, ev)
}

// addEdge records a button edge and the gate's decision.
func (r *Result) addEdge(seq int64, tick, session int, gate device.PressResult) {
	r.Trace = append(r.Trace, TraceEvent{
		Seq:     seq,
		Tick:    tick,
		Kind:    KindEdge,
		Session: session,
		Gate:    gate.String(),
	})
}

// String renders the event as one trace line.
func (e TraceEvent) String() string {
	return describeEvent(e)
}
