package store

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/shufflepad/internal/matrix"
)

// marshalCells encodes a matrix as its rows of digits separated by spaces:
// "179 280 345 612".
func marshalCells(m matrix.DigitMatrix) string {
	var b strings.Builder
	for i, row := range m {
		if i > 0 {
			b.WriteByte(' ')
		}
		for _, d := range row {
			b.WriteByte('0' + byte(d))
		}
	}
	return b.String()
}

// unmarshalCells decodes marshalCells output.
func unmarshalCells(s string) (matrix.DigitMatrix, error) {
	var m matrix.DigitMatrix
	rows := strings.Split(s, " ")
	if len(rows) != matrix.Rows {
		return m, fmt.Errorf("cells %q: want %d rows, got %d", s, matrix.Rows, len(rows))
	}
	for i, row := range rows {
		if len(row) != matrix.RowWidth {
			return m, fmt.Errorf("cells %q: row %d has %d digits", s, i, len(row))
		}
		for j := 0; j < matrix.RowWidth; j++ {
			c := row[j]
			if c < '0' || c > '9' {
				return m, fmt.Errorf("cells %q: %q is not a digit", s, c)
			}
			m[i][j] = matrix.Digit(c - '0')
		}
	}
	return m, nil
}

// Seeds are uint64; SQLite integers are signed, so they are stored as text.
func marshalSeed(seed uint64) string {
	return strconv.FormatUint(seed, 10)
}

func unmarshalSeed(s string) (uint64, error) {
	seed, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("seed %q: %w", s, err)
	}
	return seed, nil
}
