package matrix

// poolSize is the length of the draw pool: one full permutation of the
// digits plus two extra draws with replacement.
const poolSize = Cells

// Source is the randomness the generator consumes.
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	// IntN returns a uniform value in [0, n). Panics if n <= 0.
	IntN(n int) int
}

// Generate draws a DigitMatrix from src.
//
// Algorithm:
//  1. Shuffle 0..9 (Fisher-Yates).
//  2. Append two digits drawn uniformly with replacement, so a couple of
//     digits show up twice and the grid never maps digits to rows 1:1.
//  3. Fill the grid row by row from the pool by position.
//  4. If a cell repeats a digit already placed earlier in the same row,
//     advance through the pool (wrapping) until it does not.
//
// Step 4 only repairs the row-distinct rule. The max-two rule is not proven
// for every pool composition; it is checked by sampling in the harness and
// in this package's tests.
//
// Generate is total: the pool always holds all ten digits, so the advance in
// step 4 skips at most two values before it finds a free one.
func Generate(src Source) DigitMatrix {
	pool := drawPool(src)

	var m DigitMatrix
	for i := range m {
		for j := range m[i] {
			idx := i*RowWidth + j
			v := pool[idx]
			for rowHas(m[i][:j], v) {
				idx = (idx + 1) % poolSize
				v = pool[idx]
			}
			m[i][j] = v
		}
	}
	return m
}

// drawPool builds the 12-entry pool: a permutation of the ten digits
// followed by two draws with replacement.
func drawPool(src Source) [poolSize]Digit {
	var digits [DigitCount]Digit
	for i := range digits {
		digits[i] = Digit(i)
	}
	shuffle(src, digits[:])

	var pool [poolSize]Digit
	copy(pool[:], digits[:])
	for i := DigitCount; i < poolSize; i++ {
		pool[i] = digits[src.IntN(DigitCount)]
	}
	return pool
}

func shuffle(src Source, a []Digit) {
	for i := 0; i < len(a)-1; i++ {
		j := i + src.IntN(len(a)-i)
		a[i], a[j] = a[j], a[i]
	}
}

func rowHas(placed []Digit, v Digit) bool {
	for _, d := range placed {
		if d == v {
			return true
		}
	}
	return false
}
