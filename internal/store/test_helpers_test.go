package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/shufflepad/internal/matrix"
)

// createTestStore creates a new file-backed store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestBatch inserts a batch holding ms and returns it.
func createTestBatch(t *testing.T, s *Store, id string, ms ...matrix.DigitMatrix) Batch {
	t.Helper()
	b := Batch{ID: id, Label: "test", Seed: 42, Count: len(ms), Fingerprint: "fp-" + id}
	ctx := context.Background()
	if err := s.CreateBatch(ctx, b); err != nil {
		t.Fatalf("CreateBatch() failed: %v", err)
	}
	if err := s.WriteMatrices(ctx, id, 1, ms); err != nil {
		t.Fatalf("WriteMatrices() failed: %v", err)
	}
	return b
}

func mustMatrix(t *testing.T, rows [][]int) matrix.DigitMatrix {
	t.Helper()
	m, err := matrix.FromRows(rows)
	if err != nil {
		t.Fatalf("FromRows() failed: %v", err)
	}
	return m
}
