package matrix

// Histogram counts how many times each digit occurs in the grid.
type Histogram [DigitCount]int

// Count returns the digit histogram of m.
func Count(m DigitMatrix) Histogram {
	var h Histogram
	for _, row := range m {
		for _, d := range row {
			h[d]++
		}
	}
	return h
}

// Duplicated returns how many digits occur more than once.
func (h Histogram) Duplicated() int {
	n := 0
	for _, c := range h {
		if c > 1 {
			n++
		}
	}
	return n
}

// Max returns the highest per-digit count.
func (h Histogram) Max() int {
	max := 0
	for _, c := range h {
		if c > max {
			max = c
		}
	}
	return max
}

// RowDistinct reports whether every row holds three different digits.
func RowDistinct(m DigitMatrix) bool {
	for _, row := range m {
		for i := 0; i < RowWidth; i++ {
			for j := i + 1; j < RowWidth; j++ {
				if row[i] == row[j] {
					return false
				}
			}
		}
	}
	return true
}

// WithinMaxTwo reports whether no digit occurs more than MaxPerDigit times.
func WithinMaxTwo(m DigitMatrix) bool {
	return Count(m).Max() <= MaxPerDigit
}

// IsValid reports whether m satisfies both grid rules.
// Pure; safe to call from any goroutine.
func IsValid(m DigitMatrix) bool {
	return RowDistinct(m) && WithinMaxTwo(m)
}

// Violation names the first rule m breaks, or "" if it is valid.
func Violation(m DigitMatrix) string {
	if !RowDistinct(m) {
		return "row contains a repeated digit"
	}
	if !WithinMaxTwo(m) {
		return "digit occurs more than twice"
	}
	return ""
}
