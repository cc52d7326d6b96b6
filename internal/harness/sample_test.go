package harness

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/shufflepad/internal/matrix"
)

func TestSample_InvariantsHold(t *testing.T) {
	n := 20000
	if testing.Short() {
		n = 2000
	}

	report, err := Sample(context.Background(), SampleOptions{N: n, Workers: 4, Seed: 42})
	require.NoError(t, err)

	assert.Equal(t, n, report.Samples)
	assert.Equal(t, n, report.Valid)
	assert.Zero(t, report.Invalid)
	assert.Nil(t, report.FirstInvalid)
	assert.True(t, report.Held())
	assert.LessOrEqual(t, report.MaxOccurrence, matrix.MaxPerDigit)

	total := 0
	for _, c := range report.DigitTotals {
		total += c
		assert.Positive(t, c, "every digit appears in a permutation")
	}
	assert.Equal(t, n*matrix.Cells, total)

	// Two extra cells: each matrix has exactly two digits occurring twice.
	assert.Equal(t, n, report.Duplicated[2])
}

func TestSample_Reproducible(t *testing.T) {
	opts := SampleOptions{N: 3000, Workers: 3, Seed: 7}
	a, err := Sample(context.Background(), opts)
	require.NoError(t, err)
	b, err := Sample(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSample_UnevenShards(t *testing.T) {
	report, err := Sample(context.Background(), SampleOptions{N: 10, Workers: 4, Seed: 1})
	require.NoError(t, err)
	assert.Equal(t, 10, report.Samples)

	report, err = Sample(context.Background(), SampleOptions{N: 2, Workers: 8, Seed: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Samples)

	report, err = Sample(context.Background(), SampleOptions{N: 0, Seed: 1})
	require.NoError(t, err)
	assert.Zero(t, report.Samples)
	assert.True(t, report.Held())
}

func TestSample_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Sample(ctx, SampleOptions{N: 10000, Workers: 2})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSample_NegativeN(t *testing.T) {
	_, err := Sample(context.Background(), SampleOptions{N: -1})
	assert.Error(t, err)
}

func TestSample_CountsMetric(t *testing.T) {
	before := testutil.ToFloat64(harnessMatrices.WithLabelValues("valid"))
	_, err := Sample(context.Background(), SampleOptions{N: 100, Workers: 2, Seed: 3})
	require.NoError(t, err)
	assert.Equal(t, before+100, testutil.ToFloat64(harnessMatrices.WithLabelValues("valid")))
}

func TestSampleReport_AddInvalid(t *testing.T) {
	bad, err := matrix.FromRows([][]int{{1, 1, 2}, {1, 3, 4}, {5, 6, 7}, {8, 9, 0}})
	require.NoError(t, err)
	good, err := matrix.FromRows([][]int{{1, 7, 9}, {2, 8, 0}, {3, 4, 5}, {6, 1, 2}})
	require.NoError(t, err)

	var r SampleReport
	assert.True(t, r.Add(good))
	assert.False(t, r.Add(bad))

	assert.Equal(t, 2, r.Samples)
	assert.Equal(t, 1, r.Invalid)
	assert.Equal(t, 3, r.MaxOccurrence)
	require.NotNil(t, r.FirstInvalid)
	assert.Equal(t, bad, *r.FirstInvalid)
	assert.False(t, r.Held())
}
