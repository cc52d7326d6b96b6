package device

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/roach88/shufflepad/internal/matrix"
)

// maxRedraws bounds how many times a session start asks the source for a
// new matrix after the validator rejected one.
const maxRedraws = 16

// Session describes the attempt currently on screen.
type Session struct {
	ID     string
	Number int // 1-based
	Matrix matrix.DigitMatrix
}

// Options carries optional collaborators. Zero values get defaults.
type Options struct {
	// Matrices supplies session matrices. Default: RandomMatrices over
	// matrix.NewSecureSource().
	Matrices MatrixSource

	// IDs names sessions. Default: UUIDv7Generator.
	IDs SessionIDGenerator

	// Observer receives trace events. Default: none.
	Observer Observer

	// Sequence stamps events. Default: a fresh Sequence.
	Sequence *Sequence

	// Logger defaults to a discard logger.
	Logger *slog.Logger
}

// Device is the session orchestrator. It alone requests matrices and clears
// the accumulator, and it runs one session at a time.
//
// Not safe for concurrent use: call Start, Tick and Run from one goroutine.
// Presses reach it only through the InputSource.
type Device struct {
	cfg      Config
	display  Display
	feedback Feedback
	input    InputSource

	matrices MatrixSource
	ids      SessionIDGenerator
	observer Observer
	seq      *Sequence
	logger   *slog.Logger

	nav     *Navigator
	acc     Accumulator
	session Session
	started bool
}

// New validates cfg and wires a device. The first session starts on Start
// or on the first Tick.
func New(cfg Config, display Display, feedback Feedback, input InputSource, opts Options) (*Device, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if display == nil || feedback == nil || input == nil {
		return nil, errors.New("device: display, feedback and input are required")
	}

	d := &Device{
		cfg:      cfg,
		display:  display,
		feedback: feedback,
		input:    input,
		matrices: opts.Matrices,
		ids:      opts.IDs,
		observer: opts.Observer,
		seq:      opts.Sequence,
		logger:   opts.Logger,
		nav:      NewNavigator(cfg.AxisLow, cfg.AxisHigh),
	}
	if d.matrices == nil {
		d.matrices = RandomMatrices{Source: matrix.NewSecureSource()}
	}
	if d.ids == nil {
		d.ids = UUIDv7Generator{}
	}
	if d.observer == nil {
		d.observer = nopObserver{}
	}
	if d.seq == nil {
		d.seq = NewSequence()
	}
	if d.logger == nil {
		d.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return d, nil
}

// Start shows the first session. Calling it again has no effect.
func (d *Device) Start() {
	if d.started {
		return
	}
	d.started = true
	d.beginSession()
}

// Run starts the device and ticks it on every t tick until ctx is done.
// Returns ctx.Err().
func (d *Device) Run(ctx context.Context, t Ticker) error {
	defer t.Stop()

	d.Start()
	d.logger.Info("device running", "poll_period", d.cfg.PollPeriod)
	for {
		select {
		case <-ctx.Done():
			d.logger.Info("device stopped", "sessions", d.session.Number)
			return ctx.Err()
		case <-t.C():
			d.Tick()
		}
	}
}

// Tick runs one iteration of the main loop: navigation, indicator, and at
// most one press.
func (d *Device) Tick() {
	d.Start()

	if row, changed := d.nav.Update(d.input.ReadAxis()); changed {
		clearIndicator(d.display)
		rowChanges.Inc()
		d.emit(Event{Kind: EventRowChanged, Row: row})
		d.logger.Debug("row changed", "session_id", d.session.ID, "row", row)
	}
	drawIndicator(d.display, d.nav.Row())
	d.display.Present()

	if d.input.PollPressEvent() {
		d.press()
	}
}

// Session returns the session on screen.
func (d *Device) Session() Session {
	return d.session
}

// Row returns the row under the indicator.
func (d *Device) Row() matrix.RowIndex {
	return d.nav.Row()
}

// Selections returns the rows picked so far in this attempt.
func (d *Device) Selections() []matrix.RowIndex {
	return d.acc.Selections()
}

// press records the row under the indicator for the next PIN position.
func (d *Device) press() {
	row := d.nav.Row()
	full := d.acc.Add(row)

	d.emit(Event{Kind: EventSelection, Row: row, Position: d.acc.Len()})
	d.logger.Debug("selection", "session_id", d.session.ID, "position", d.acc.Len(), "row", row)

	drawMasked(d.display, d.acc.Masked())
	d.display.Present()

	if full {
		d.verify()
	}
}

// verify checks the full attempt, announces it and starts a new session.
// It always runs to completion.
func (d *Device) verify() {
	passed := Verify(d.cfg.Pin, d.session.Matrix, d.acc.Selections())

	drawResult(d.display, passed)
	d.display.Present()

	verifications.WithLabelValues(resultLabel(passed)).Inc()
	d.emit(Event{Kind: EventVerified, Passed: passed})
	d.logger.Info("attempt verified", "session_id", d.session.ID, "session", d.session.Number, "passed", passed)

	d.feedback.AnnounceResult(passed)

	d.acc.Reset()
	if d.cfg.PressPolicy == PressPolicyDrop && d.input.PollPressEvent() {
		pressEvents.WithLabelValues("dropped").Inc()
		d.emit(Event{Kind: EventPressDropped})
		d.logger.Debug("press dropped during feedback", "session_id", d.session.ID)
	}
	d.beginSession()
}

// beginSession draws a validated matrix and shows it.
func (d *Device) beginSession() {
	m := d.matrices.Next()
	for i := 0; i < maxRedraws && !matrix.IsValid(m); i++ {
		matrixRedraws.Inc()
		d.logger.Warn("matrix rejected by validator", "matrix_id", m.ID(), "violation", matrix.Violation(m))
		m = d.matrices.Next()
	}
	if !matrix.IsValid(m) {
		redrawsExhausted.Inc()
		d.logger.Error("matrix redraw limit reached, starting session with rejected matrix",
			"matrix_id", m.ID(), "violation", matrix.Violation(m), "attempts", maxRedraws+1)
	}

	d.acc.Reset()
	d.session = Session{
		ID:     d.ids.Generate(),
		Number: d.session.Number + 1,
		Matrix: m,
	}
	sessionsStarted.Inc()

	drawMatrix(d.display, m)
	d.display.Present()

	id := m.ID()
	d.emit(Event{Kind: EventSessionStarted, MatrixID: id, Matrix: m})
	d.logger.Info("session started", "session_id", d.session.ID, "session", d.session.Number, "matrix_id", id)
}

func (d *Device) emit(e Event) {
	e.Seq = d.seq.Next()
	e.SessionID = d.session.ID
	e.Session = d.session.Number
	d.observer.Observe(e)
}
