package device

import (
	"strings"

	"github.com/roach88/shufflepad/internal/matrix"
)

// AccumulatorState is Idle while selections are still being collected and
// Full once the sixth one arrives.
type AccumulatorState int

const (
	StateIdle AccumulatorState = iota
	StateFull
)

// Accumulator collects one row per PIN position for the current attempt.
//
// Append-only until Reset. The main loop is its only user.
type Accumulator struct {
	rows [PinLength]matrix.RowIndex
	n    int
}

// Add appends row and reports whether the accumulator is now full.
// Adding to a full accumulator is a no-op that reports true.
func (a *Accumulator) Add(row matrix.RowIndex) bool {
	if a.n == PinLength {
		return true
	}
	a.rows[a.n] = row
	a.n++
	return a.n == PinLength
}

// Len returns the number of selections so far.
func (a *Accumulator) Len() int {
	return a.n
}

// State returns Idle or Full.
func (a *Accumulator) State() AccumulatorState {
	if a.n == PinLength {
		return StateFull
	}
	return StateIdle
}

// Selections returns a copy of the rows selected so far.
func (a *Accumulator) Selections() []matrix.RowIndex {
	out := make([]matrix.RowIndex, a.n)
	copy(out, a.rows[:a.n])
	return out
}

// Masked returns one placeholder per selection, as shown on screen.
func (a *Accumulator) Masked() string {
	return strings.Repeat("*", a.n)
}

// Reset empties the accumulator.
func (a *Accumulator) Reset() {
	a.rows = [PinLength]matrix.RowIndex{}
	a.n = 0
}

// Verify checks an attempt against the secret.
//
// Position i is satisfied when pin[i] is any of the three digits of the row
// selected at i. The attempt passes only if all six positions are satisfied.
// A sequence of the wrong length never passes.
func Verify(pin SecretPin, m matrix.DigitMatrix, rows []matrix.RowIndex) bool {
	if len(rows) != PinLength {
		return false
	}
	for i, r := range rows {
		if r > matrix.LastRow || !m.Row(r).Contains(pin[i]) {
			return false
		}
	}
	return true
}
