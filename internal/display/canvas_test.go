package display

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drawKeypad draws the session screen the way the device does: four digit
// rows, the indicator on row 0 and two masked selections.
func drawKeypad(c *Canvas) {
	c.Clear()
	c.DrawText(30, 5, "1 7 9")
	c.DrawText(30, 20, "2 8 0")
	c.DrawText(30, 35, "3 4 5")
	c.DrawText(30, 50, "6 1 2")
	c.ClearRect(17, 1, 8, 60)
	c.DrawRect(20, 5, 3, 5)
	c.ClearRect(80, 27, 48, 8)
	c.DrawText(80, 27, "**")
	c.Present()
}

func TestCanvas_KeypadFrameGolden(t *testing.T) {
	c := NewCanvas(false)
	drawKeypad(c)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "keypad_frame", []byte(c.Frame()))
}

func TestCanvas_ResultFrameGolden(t *testing.T) {
	c := NewCanvas(false)
	drawKeypad(c)
	c.Clear()
	c.DrawText(20, 5, "PIN CORRECT")
	c.Present()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "result_frame", []byte(c.Frame()))
}

func TestCanvas_NothingVisibleBeforePresent(t *testing.T) {
	c := NewCanvas(false)
	blank := c.Frame()

	c.DrawText(0, 0, "hidden")
	assert.Equal(t, blank, c.Frame())

	c.Present()
	assert.NotEqual(t, blank, c.Frame())
	assert.Equal(t, 1, c.Presents())
}

func TestCanvas_ClearRectTouchesOnlyCoveredCells(t *testing.T) {
	c := NewCanvas(false)
	c.DrawText(30, 5, "1 7 9")
	c.DrawRect(20, 5, 3, 5)
	c.ClearRect(17, 1, 8, 60)
	c.Present()

	lines := strings.Split(c.Frame(), "\n")
	require.Greater(t, len(lines), 1)
	// The indicator strip sits left of the digits; the digits survive.
	assert.Equal(t, "|       1 7 9                    |", lines[1])
}

func TestCanvas_TextClipsAtRightEdge(t *testing.T) {
	c := NewCanvas(false)
	c.DrawText(120, 0, "abcdef")
	c.Present()

	lines := strings.Split(c.Frame(), "\n")
	assert.True(t, strings.HasSuffix(lines[1], "ab|"))
}

func TestCanvas_OutOfRangeIgnored(t *testing.T) {
	c := NewCanvas(false)
	blank := c.Frame()
	c.DrawText(0, 200, "x")
	c.DrawRect(-10, -10, 3, 3)
	c.ClearRect(0, 0, 0, 0)
	c.Present()
	assert.Equal(t, blank, c.Frame())
}

func TestCanvas_RecordsOps(t *testing.T) {
	c := NewCanvas(true)
	c.ClearRect(17, 1, 8, 60)
	c.DrawRect(20, 20, 3, 5)
	c.Present()

	assert.Equal(t, []string{"clearrect 17,1 8x60", "rect 20,20 3x5", "present"}, c.Ops())

	c.ResetOps()
	assert.Empty(t, c.Ops())
}

func TestCanvas_NoRecordingByDefault(t *testing.T) {
	c := NewCanvas(false)
	c.Clear()
	assert.Empty(t, c.Ops())
}
