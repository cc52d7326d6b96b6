package matrix

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
const (
	DomainMatrix = "shufflepad/matrix/v1"
	DomainBatch  = "shufflepad/batch/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ID returns the content-addressed identity of the matrix.
// Equal grids always produce equal IDs.
func (m DigitMatrix) ID() string {
	canonical, err := MarshalCanonical(map[string]any{"rows": m})
	if err != nil {
		// Every field is an int; marshaling cannot fail.
		panic(fmt.Sprintf("matrix ID: %v", err))
	}
	return hashWithDomain(DomainMatrix, canonical)
}

// BatchFingerprint hashes the parameters that determine a generated batch.
// Two batches with the same label, seed and size hold the same matrices.
func BatchFingerprint(label string, seed uint64, count int) (string, error) {
	canonical, err := MarshalCanonical(map[string]any{
		"label": label,
		"seed":  fmt.Sprintf("%d", seed),
		"count": count,
	})
	if err != nil {
		return "", fmt.Errorf("BatchFingerprint: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainBatch, canonical), nil
}
