package matrix

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// NewSeededSource returns a deterministic source for reproducible runs
// (harness batches, scenarios, tests).
func NewSeededSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewSecureSource returns a ChaCha8 source keyed from the OS entropy pool.
// The device uses this by default so one session's layout gives no hint of
// the next.
func NewSecureSource() *rand.Rand {
	var key [32]byte
	if _, err := crand.Read(key[:]); err != nil {
		// crypto/rand.Read does not fail on supported platforms.
		panic("matrix: reading entropy: " + err.Error())
	}
	return rand.New(rand.NewChaCha8(key))
}

// SeedFromEntropy returns a random seed for NewSeededSource, used when a
// command is asked to generate without an explicit seed but must still
// record one.
func SeedFromEntropy() uint64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		panic("matrix: reading entropy: " + err.Error())
	}
	return binary.LittleEndian.Uint64(b[:])
}
