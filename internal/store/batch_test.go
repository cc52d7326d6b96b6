package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/shufflepad/internal/matrix"
)

var (
	rowsA = [][]int{{1, 7, 9}, {2, 8, 0}, {3, 4, 5}, {6, 1, 2}}
	rowsB = [][]int{{0, 1, 2}, {3, 4, 5}, {6, 7, 8}, {9, 0, 1}}
)

func TestWriteMatrices_ReadBackInOrder(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	a, b := mustMatrix(t, rowsA), mustMatrix(t, rowsB)

	createTestBatch(t, s, "b1", a, b)
	require.NoError(t, s.WriteMatrices(ctx, "b1", 3, []matrix.DigitMatrix{a}))

	var (
		seqs []int
		got  []matrix.DigitMatrix
	)
	err := s.ReadMatrices(ctx, "b1", func(seq int, m matrix.DigitMatrix) error {
		seqs = append(seqs, seq)
		got = append(got, m)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, seqs)
	assert.Equal(t, []matrix.DigitMatrix{a, b, a}, got)

	n, err := s.CountMatrices(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestWriteMatrices_DuplicateSeqRollsBack(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	a, b := mustMatrix(t, rowsA), mustMatrix(t, rowsB)

	createTestBatch(t, s, "b1", a)
	require.NoError(t, s.WriteMatrices(ctx, "b1", 3, []matrix.DigitMatrix{a}))

	// seq 2 is free, seq 3 collides; the whole write must be discarded
	err := s.WriteMatrices(ctx, "b1", 2, []matrix.DigitMatrix{b, b})
	require.Error(t, err)

	n, err := s.CountMatrices(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, 2, n, "failed transaction must not leave a partial write")
}

func TestWriteMatrices_UnknownBatch(t *testing.T) {
	s := createTestStore(t)
	err := s.WriteMatrices(context.Background(), "nope", 1, []matrix.DigitMatrix{mustMatrix(t, rowsA)})
	assert.Error(t, err, "foreign key must reject matrices for a missing batch")
}

func TestReadMatrices_CallbackErrorStops(t *testing.T) {
	s := createTestStore(t)
	a := mustMatrix(t, rowsA)
	createTestBatch(t, s, "b1", a, a, a)

	stop := errors.New("stop")
	calls := 0
	err := s.ReadMatrices(context.Background(), "b1", func(int, matrix.DigitMatrix) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestReadMatrices_DetectsTamperedCells(t *testing.T) {
	s := createTestStore(t)
	createTestBatch(t, s, "b1", mustMatrix(t, rowsA))

	_, err := s.db.Exec(`UPDATE matrices SET cells = '011 280 345 612' WHERE batch_id = 'b1'`)
	require.NoError(t, err)

	err = s.ReadMatrices(context.Background(), "b1", func(int, matrix.DigitMatrix) error { return nil })
	assert.ErrorContains(t, err, "does not match id")
}

func TestBatches_LatestAndList(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	list, err := s.ListBatches(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	first := createTestBatch(t, s, "first")
	second := Batch{ID: "second", Label: "big seed", Seed: 1<<64 - 1, Count: 0, Fingerprint: "x"}
	require.NoError(t, s.CreateBatch(ctx, second))

	latest, err := s.LatestBatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, latest, "uint64 seed must round-trip")

	list, err = s.ListBatches(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Batch{first, second}, list)
}

func TestDistinctLayouts(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	a, b := mustMatrix(t, rowsA), mustMatrix(t, rowsB)
	createTestBatch(t, s, "b1", a, b, a, a)
	createTestBatch(t, s, "b2", b)

	n, err := s.DistinctLayouts(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = s.DistinctLayouts(ctx, "missing")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDeleteBatch_RemovesMatricesAndReports(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	a := mustMatrix(t, rowsA)
	createTestBatch(t, s, "keep", a)
	createTestBatch(t, s, "drop", a, a)
	_, err := s.WriteReport(ctx, Report{BatchID: "drop", Valid: 2})
	require.NoError(t, err)

	require.NoError(t, s.DeleteBatch(ctx, "drop"))

	_, err = s.GetBatch(ctx, "drop")
	assert.ErrorIs(t, err, ErrNotFound)
	n, err := s.CountMatrices(ctx, "drop")
	require.NoError(t, err)
	assert.Zero(t, n)
	reports, err := s.ReadReports(ctx, "drop")
	require.NoError(t, err)
	assert.Empty(t, reports)

	n, err = s.CountMatrices(ctx, "keep")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	err = s.DeleteBatch(ctx, "drop")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateBatch_DuplicateID(t *testing.T) {
	s := createTestStore(t)
	createTestBatch(t, s, "dup")
	err := s.CreateBatch(context.Background(), Batch{ID: "dup", Label: "again"})
	assert.Error(t, err)
}

func TestReports_WriteRead(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	createTestBatch(t, s, "b1")

	id1, err := s.WriteReport(ctx, Report{BatchID: "b1", Valid: 10})
	require.NoError(t, err)
	id2, err := s.WriteReport(ctx, Report{BatchID: "b1", Valid: 8, Invalid: 2, FirstInvalidSeq: 3})
	require.NoError(t, err)

	reports, err := s.ReadReports(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, []Report{
		{ID: id1, BatchID: "b1", Valid: 10},
		{ID: id2, BatchID: "b1", Valid: 8, Invalid: 2, FirstInvalidSeq: 3},
	}, reports)

	none, err := s.ReadReports(ctx, "other")
	require.NoError(t, err)
	assert.Empty(t, none)
}
