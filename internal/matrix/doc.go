// Package matrix implements the randomized digit grid shown by the keypad.
//
// A DigitMatrix is a fixed 4x3 grid of decimal digits. Every session of the
// device draws a fresh matrix so that the row a user picks for a PIN digit
// changes from one attempt to the next.
//
// # Rules
//
// Row-distinct: within a single row the three digits are pairwise distinct.
//
// Max-two: across the whole grid no digit occurs more than twice.
//
// Generate upholds both rules; IsValid checks them. The statistical harness
// (internal/harness) samples Generate in bulk and runs IsValid over every
// output, which is the acceptance test for the generator.
//
// # Identity
//
// Matrices are content-addressed. MatrixID hashes the canonical JSON form of
// the rows with domain separation, so the same grid always maps to the same
// ID across runs and stores.
package matrix
