package device

import "github.com/roach88/shufflepad/internal/matrix"

// Display draws on the device screen. Coordinates are in pixels of a
// 128x64 panel. Nothing is visible until Present.
type Display interface {
	Clear()
	DrawText(x, y int, text string)
	DrawRect(x, y, w, h int)
	ClearRect(x, y, w, h int)
	Present()
}

// Feedback plays the cue for an attempt's outcome. It may block for the
// pacing it needs; the main loop waits for it.
type Feedback interface {
	AnnounceResult(passed bool)
}

// InputSource is polled once per tick.
type InputSource interface {
	// ReadAxis returns a 12-bit sample, 0..4095, centre about 2048.
	ReadAxis() uint16

	// PollPressEvent consumes one debounced press, if any.
	PollPressEvent() bool
}

// AxisReader supplies axis samples (the ADC on hardware).
type AxisReader interface {
	ReadAxis() uint16
}

// AxisFunc adapts a function to AxisReader.
type AxisFunc func() uint16

// ReadAxis calls f.
func (f AxisFunc) ReadAxis() uint16 { return f() }

// GatedInput combines an axis reader with a PressGate into an InputSource.
type GatedInput struct {
	Axis AxisReader
	Gate *PressGate
}

// ReadAxis reads the axis.
func (in GatedInput) ReadAxis() uint16 { return in.Axis.ReadAxis() }

// PollPressEvent consumes the gate's pending press.
func (in GatedInput) PollPressEvent() bool { return in.Gate.Poll() }

// MatrixSource supplies one matrix per session.
type MatrixSource interface {
	Next() matrix.DigitMatrix
}

// RandomMatrices generates every matrix from Source.
type RandomMatrices struct {
	Source matrix.Source
}

// Next generates a matrix.
func (r RandomMatrices) Next() matrix.DigitMatrix {
	return matrix.Generate(r.Source)
}

// ScriptedMatrices hands out a fixed list of matrices, then defers to
// Fallback. Scenarios use it to pin down the layout a user sees.
type ScriptedMatrices struct {
	List     []matrix.DigitMatrix
	Fallback MatrixSource
	next     int
}

// Next returns the next scripted matrix or a fallback one.
func (s *ScriptedMatrices) Next() matrix.DigitMatrix {
	if s.next < len(s.List) {
		m := s.List[s.next]
		s.next++
		return m
	}
	return s.Fallback.Next()
}
