package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/shufflepad/internal/device"
)

// AssertionError is returned when an expectation fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // expect field that failed
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  %s\n", describeEvent(event))
		}
	}

	return buf.String()
}

// describeEvent renders one trace line, e.g. "[7] tick 3 selection row=2 pos=3".
func describeEvent(e TraceEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%d] tick %d %s", e.Seq, e.Tick, e.Kind)
	if e.Row != nil {
		fmt.Fprintf(&b, " row=%d", *e.Row)
	}
	if e.Position > 0 {
		fmt.Fprintf(&b, " pos=%d", e.Position)
	}
	if e.Passed != nil {
		fmt.Fprintf(&b, " passed=%t", *e.Passed)
	}
	if e.Gate != "" {
		fmt.Fprintf(&b, " %s", e.Gate)
	}
	if e.Matrix != nil {
		fmt.Fprintf(&b, " %v", e.Matrix)
	}
	return b.String()
}

// checkExpect evaluates every set expect field and records failures on r.
func checkExpect(expect Expect, r *Result) {
	for _, err := range []error{
		assertResults(expect.Results, r),
		assertInt("final_row", expect.FinalRow, r.FinalRow, r.Trace),
		assertInt("pending_selections", expect.PendingSelections, r.PendingSelections, r.Trace),
		assertInt("sessions", expect.Sessions, r.Sessions, r.Trace),
		assertInt("dropped", expect.Dropped, r.Count(string(device.EventPressDropped)), r.Trace),
	} {
		if err != nil {
			r.AddError(err.Error())
		}
	}
}

// assertResults compares announced outcomes in order. Nil means unchecked.
func assertResults(want []string, r *Result) error {
	if want == nil {
		return nil
	}
	got := make([]string, len(r.Results))
	for i, passed := range r.Results {
		got[i] = resultString(passed)
	}
	if !slices.Equal(want, got) {
		return &AssertionError{
			Type:     "results",
			Expected: fmt.Sprintf("%v", want),
			Actual:   fmt.Sprintf("%v", got),
			Trace:    r.Trace,
		}
	}
	return nil
}

func assertInt(field string, want *int, got int, trace []TraceEvent) error {
	if want == nil || *want == got {
		return nil
	}
	return &AssertionError{
		Type:     field,
		Expected: fmt.Sprintf("%d", *want),
		Actual:   fmt.Sprintf("%d", got),
		Trace:    trace,
	}
}

func resultString(passed bool) string {
	if passed {
		return ResultPass
	}
	return ResultFail
}
