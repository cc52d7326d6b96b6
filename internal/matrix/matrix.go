package matrix

import (
	"fmt"
	"strings"
)

// Grid dimensions.
const (
	Rows        = 4
	RowWidth    = 3
	Cells       = Rows * RowWidth
	DigitCount  = 10
	MaxPerDigit = 2
)

// Digit is a decimal digit in [0,9].
type Digit uint8

// NewDigit validates v and returns it as a Digit.
func NewDigit(v int) (Digit, error) {
	if v < 0 || v >= DigitCount {
		return 0, fmt.Errorf("digit %d out of range [0,%d]", v, DigitCount-1)
	}
	return Digit(v), nil
}

// RowIndex identifies one of the selectable rows. It doubles as the
// navigation position and as the lookup key into the matrix.
type RowIndex uint8

// Row bounds.
const (
	FirstRow RowIndex = 0
	LastRow  RowIndex = Rows - 1
)

// NewRowIndex validates v and returns it as a RowIndex.
func NewRowIndex(v int) (RowIndex, error) {
	if v < int(FirstRow) || v > int(LastRow) {
		return 0, fmt.Errorf("row %d out of range [%d,%d]", v, FirstRow, LastRow)
	}
	return RowIndex(v), nil
}

// Row is one selectable line of three digits.
type Row [RowWidth]Digit

// Contains reports whether d is one of the row's digits.
func (r Row) Contains(d Digit) bool {
	for _, v := range r {
		if v == d {
			return true
		}
	}
	return false
}

// String renders the row the way the device draws it: "1 7 9".
func (r Row) String() string {
	return fmt.Sprintf("%d %d %d", r[0], r[1], r[2])
}

// DigitMatrix is the 4x3 grid for one session.
//
// It is a value type; copies are independent and the device never mutates
// the matrix it holds for a session.
type DigitMatrix [Rows]Row

// FromRows builds a DigitMatrix from plain integers.
// Returns an error if the shape is wrong or a value is not a digit.
// The result is NOT checked against the grid rules; use IsValid for that.
func FromRows(rows [][]int) (DigitMatrix, error) {
	var m DigitMatrix
	if len(rows) != Rows {
		return m, fmt.Errorf("matrix has %d rows, want %d", len(rows), Rows)
	}
	for i, row := range rows {
		if len(row) != RowWidth {
			return m, fmt.Errorf("row %d has %d digits, want %d", i, len(row), RowWidth)
		}
		for j, v := range row {
			d, err := NewDigit(v)
			if err != nil {
				return m, fmt.Errorf("row %d: %w", i, err)
			}
			m[i][j] = d
		}
	}
	return m, nil
}

// Row returns the digits at row r.
func (m DigitMatrix) Row(r RowIndex) Row {
	return m[r]
}

// Ints returns the matrix as nested int slices (for storage and JSON).
func (m DigitMatrix) Ints() [][]int {
	out := make([][]int, Rows)
	for i, row := range m {
		out[i] = []int{int(row[0]), int(row[1]), int(row[2])}
	}
	return out
}

// String renders the rows separated by " | ".
func (m DigitMatrix) String() string {
	parts := make([]string, Rows)
	for i, row := range m {
		parts[i] = row.String()
	}
	return strings.Join(parts, " | ")
}
