package device

import "github.com/roach88/shufflepad/internal/matrix"

// Screen positions, in panel pixels.
const (
	digitsX = 30

	indicatorX = 20
	indicatorW = 3
	indicatorH = 5

	// The indicator strip spans every row's indicator position.
	stripX = 17
	stripY = 1
	stripW = 8
	stripH = 60

	maskedX = 80
	maskedY = 27
	maskedW = 48
	maskedH = 8

	resultX = 20
	resultY = 5
)

// Result messages.
const (
	MessageCorrect   = "PIN CORRECT"
	MessageIncorrect = "PIN INCORRECT"
)

// rowY returns the baseline of a digit row and its indicator.
func rowY(r matrix.RowIndex) int {
	return 5 + 15*int(r)
}

func drawMatrix(d Display, m matrix.DigitMatrix) {
	d.Clear()
	for i, row := range m {
		d.DrawText(digitsX, rowY(matrix.RowIndex(i)), row.String())
	}
}

func clearIndicator(d Display) {
	d.ClearRect(stripX, stripY, stripW, stripH)
}

func drawIndicator(d Display, r matrix.RowIndex) {
	d.DrawRect(indicatorX, rowY(r), indicatorW, indicatorH)
}

func drawMasked(d Display, masked string) {
	d.ClearRect(maskedX, maskedY, maskedW, maskedH)
	d.DrawText(maskedX, maskedY, masked)
}

func drawResult(d Display, passed bool) {
	msg := MessageIncorrect
	if passed {
		msg = MessageCorrect
	}
	d.Clear()
	d.DrawText(resultX, resultY, msg)
}
