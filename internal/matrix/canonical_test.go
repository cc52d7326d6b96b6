package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical_SortsKeys(t *testing.T) {
	got, err := MarshalCanonical(map[string]any{"seq": 2, "kind": "selection", "row": RowIndex(3)})
	require.NoError(t, err)
	assert.Equal(t, `{"kind":"selection","row":3,"seq":2}`, string(got))
}

func TestMarshalCanonical_Matrix(t *testing.T) {
	m, err := FromRows([][]int{{1, 7, 9}, {2, 8, 0}, {3, 4, 5}, {6, 1, 2}})
	require.NoError(t, err)

	got, err := MarshalCanonical(map[string]any{"rows": m})
	require.NoError(t, err)
	assert.Equal(t, `{"rows":[[1,7,9],[2,8,0],[3,4,5],[6,1,2]]}`, string(got))
}

func TestMarshalCanonical_NoHTMLEscape(t *testing.T) {
	got, err := MarshalCanonical("<a&b>")
	require.NoError(t, err)
	assert.Equal(t, `"<a&b>"`, string(got))
}

func TestMarshalCanonical_NFC(t *testing.T) {
	// "e" + combining acute normalizes to U+00E9.
	got, err := MarshalCanonical("e\u0301")
	require.NoError(t, err)
	assert.Equal(t, "\"\u00e9\"", string(got))
}

func TestMarshalCanonical_LineSeparatorLiteral(t *testing.T) {
	got, err := MarshalCanonical("a\u2028b")
	require.NoError(t, err)
	assert.Equal(t, "\"a\u2028b\"", string(got))
}

func TestMarshalCanonical_Rejects(t *testing.T) {
	_, err := MarshalCanonical(nil)
	assert.Error(t, err)

	_, err = MarshalCanonical(1.5)
	assert.Error(t, err)

	_, err = MarshalCanonical(map[string]any{"x": struct{}{}})
	assert.Error(t, err)
}
