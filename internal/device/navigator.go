package device

import "github.com/roach88/shufflepad/internal/matrix"

// Navigator turns axis samples into row steps.
//
// Three zones: below low steps down (towards the last row), above high steps
// up (towards the first row), anything in between holds. A sustained
// deflection moves one row per tick until it clamps at the edge.
//
// Not safe for concurrent use; the main loop is its only writer.
type Navigator struct {
	low  uint16
	high uint16
	row  matrix.RowIndex
}

// NewNavigator creates a navigator at the first row.
func NewNavigator(low, high uint16) *Navigator {
	return &Navigator{low: low, high: high}
}

// NewNavigatorAt creates a navigator positioned at row.
func NewNavigatorAt(low, high uint16, row matrix.RowIndex) *Navigator {
	return &Navigator{low: low, high: high, row: row}
}

// Update applies one axis sample and returns the current row and whether
// it changed. Samples outside 0..4095 fall into the zone their value implies.
func (n *Navigator) Update(axis uint16) (matrix.RowIndex, bool) {
	switch {
	case axis < n.low && n.row != matrix.LastRow:
		n.row++
		return n.row, true
	case axis > n.high && n.row != matrix.FirstRow:
		n.row--
		return n.row, true
	default:
		return n.row, false
	}
}

// Row returns the current row.
func (n *Navigator) Row() matrix.RowIndex {
	return n.row
}
