package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/shufflepad/internal/matrix"
)

func TestSampleJSON(t *testing.T) {
	out, _, err := execute(NewSampleCommand(&RootOptions{Format: "json"}), "-n", "3000", "--workers", "3", "--seed", "11")
	require.NoError(t, err)

	var res SampleResult
	resp := decodeResponse(t, out, &res)
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, res.Held)
	assert.Equal(t, "11", res.Seed)
	require.NotNil(t, res.Report)
	assert.Equal(t, 3000, res.Report.Samples)
	assert.Equal(t, 3000, res.Report.Valid)
	assert.Equal(t, 0, res.Report.Invalid)
	assert.Equal(t, matrix.MaxPerDigit, res.Report.MaxOccurrence)

	total := 0
	for _, n := range res.Report.DigitTotals {
		total += n
	}
	assert.Equal(t, 3000*matrix.Rows*matrix.RowWidth, total)
}

func TestSampleText(t *testing.T) {
	out, _, err := execute(NewSampleCommand(&RootOptions{Format: "text"}), "-n", "500", "--seed", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "Samples: 500 (seed 2)")
	assert.Contains(t, out, "invalid: 0")
	assert.Contains(t, out, "Draws per digit:")
	assert.Contains(t, out, "✓ Invariants held")
}

func TestSampleNegativeCount(t *testing.T) {
	_, _, err := execute(NewSampleCommand(&RootOptions{Format: "text"}), "-n", "-1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
