package harness

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/shufflepad/internal/device"
	"github.com/roach88/shufflepad/internal/display"
	"github.com/roach88/shufflepad/internal/matrix"
	"github.com/roach88/shufflepad/internal/testutil"
)

// Harness holds the deterministic rig one scenario runs on.
type Harness struct {
	cfg    device.Config
	clock  *testutil.ManualTime
	axis   *testutil.Axis
	gate   *device.PressGate
	seq    *device.Sequence
	canvas *display.Canvas
	fb     *testutil.RecordingFeedback
	dev    *device.Device
	result *Result

	now  time.Duration // end of the last tick or announcement
	tick int

	// armed is set while the current tick should see an edge during feedback.
	armed bool
}

// Run executes a scenario and returns the result.
// Logs are discarded.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// RunWithLogger executes a scenario, passing logger to the device.
//
// Execution flow:
//  1. Build the rig: manual clock, gate, canvas, recording feedback
//  2. Start the device (first session, tick 0)
//  3. Run every step's ticks
//  4. Capture final state and check expectations
//
// An error means the scenario could not run. Failed expectations are
// reported through Result.Pass and Result.Errors.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	cfg, err := scenario.DeviceConfig()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	fixed, err := scenario.FixedMatrices()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	h := &Harness{
		cfg:    cfg,
		clock:  testutil.NewManualTime(),
		axis:   testutil.NewAxis(device.AxisCenter),
		seq:    device.NewSequence(),
		canvas: display.NewCanvas(false),
		result: NewResult(),
	}
	h.gate = device.NewPressGate(cfg.Debounce, h.clock)
	h.fb = &testutil.RecordingFeedback{During: h.duringFeedback}

	h.dev, err = device.New(cfg, h.canvas, h.fb, device.GatedInput{Axis: h.axis, Gate: h.gate}, device.Options{
		Matrices: &device.ScriptedMatrices{
			List:     fixed,
			Fallback: device.RandomMatrices{Source: matrix.NewSeededSource(scenario.Seed)},
		},
		IDs:      testutil.NewSequentialIDs("session"),
		Observer: device.ObserverFunc(h.observe),
		Sequence: h.seq,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	h.dev.Start()
	for i, step := range scenario.Steps {
		n := max(step.Repeat, 1)
		for k := 0; k < n; k++ {
			h.runTick(i, step)
		}
	}

	r := h.result
	r.Results = h.fb.Results()
	r.FinalRow = int(h.dev.Row())
	r.PendingSelections = len(h.dev.Selections())
	r.Sessions = h.dev.Session().Number
	r.Ticks = h.tick
	r.Frame = h.canvas.Frame()

	checkExpect(scenario.Expect, r)
	return r, nil
}

// runTick offers the step's edge to the gate, then runs one device tick at
// the end of the interval.
func (h *Harness) runTick(index int, step Step) {
	start := h.now
	h.tick++

	if step.Axis != nil {
		h.axis.Set(uint16(*step.Axis))
	}
	if step.Press {
		h.edge(start + time.Duration(step.PressOffsetMS)*time.Millisecond)
	}

	h.now = start + h.cfg.PollPeriod
	h.clock.Set(h.now)

	h.armed = step.DuringFeedback
	h.dev.Tick()
	if h.armed {
		h.armed = false
		h.result.AddError(fmt.Sprintf("steps[%d] tick %d: during_feedback set but no attempt was verified", index, h.tick))
	}
}

// duringFeedback stands in for the announcement's duration: the clock moves
// on by the feedback pacing, with an armed edge arriving halfway.
func (h *Harness) duringFeedback(bool) {
	start := h.now
	if h.armed {
		h.armed = false
		h.edge(start + h.cfg.FeedbackPacing/2)
	}
	h.now = start + h.cfg.FeedbackPacing
	h.clock.Set(h.now)
}

func (h *Harness) edge(at time.Duration) {
	h.clock.Set(at)
	res := h.gate.Edge()
	h.result.addEdge(h.seq.Next(), h.tick, h.dev.Session().Number, res)
}

func (h *Harness) observe(e device.Event) {
	h.result.addDeviceEvent(e, h.tick)
}
