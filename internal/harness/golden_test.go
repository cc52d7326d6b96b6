package harness

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden_Testdata(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)

	for _, path := range paths {
		s, err := LoadScenario(path)
		require.NoError(t, err)
		t.Run(s.Name, func(t *testing.T) {
			require.NoError(t, RunWithGolden(t, s))
		})
	}
}

func TestMarshalSnapshot_Canonical(t *testing.T) {
	row := 0
	r := NewResult()
	r.Trace = []TraceEvent{{Seq: 1, Tick: 2, Kind: "selection", Session: 1, SessionID: "session-1", Row: &row, Position: 1}}
	r.Frame = "<>"

	data, err := MarshalSnapshot("snap", r)
	require.NoError(t, err)

	got := string(data)
	assert.True(t, strings.HasPrefix(got, `{"frame":"<>","scenario_name":"snap","trace":[`), got)
	assert.Contains(t, got, `{"kind":"selection","position":1,"row":0,"seq":1,"session":1,"session_id":"session-1","tick":2}`)
}
