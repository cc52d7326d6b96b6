// Package display provides a character-grid implementation of the device
// Display for terminals and golden tests.
//
// The 128x64 pixel panel maps onto 32x8 cells of 4x8 pixels. Text occupies
// one cell per rune starting at the cell holding (x, y). A rectangle is shown
// as a marker in its top-left cell. ClearRect blanks every cell the rectangle
// touches.
package display

import (
	"fmt"
	"strings"
	"sync"
)

// Panel geometry.
const (
	Width      = 128
	Height     = 64
	CellWidth  = 4
	CellHeight = 8
	Cols       = Width / CellWidth
	Lines      = Height / CellHeight
)

// RectMarker is drawn for DrawRect.
const RectMarker = '>'

// Canvas records draw calls and renders presented frames.
//
// Thread-safety: safe for concurrent use; the device draws from its loop
// while a terminal may read Frame from elsewhere.
type Canvas struct {
	mu       sync.Mutex
	cells    [Lines][Cols]rune
	frame    string
	presents int
	ops      []string
	record   bool
}

// NewCanvas returns a blank canvas. When record is true every draw call is
// kept and returned by Ops.
func NewCanvas(record bool) *Canvas {
	c := &Canvas{record: record}
	c.blank()
	c.frame = c.render()
	return c
}

// Clear blanks the whole panel.
func (c *Canvas) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.log("clear")
	c.blank()
}

// DrawText writes text starting at pixel (x, y). Text past the right edge
// is clipped.
func (c *Canvas) DrawText(x, y int, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.log(fmt.Sprintf("text %d,%d %q", x, y, text))

	line, col := y/CellHeight, x/CellWidth
	if line < 0 || line >= Lines {
		return
	}
	for _, r := range text {
		if col >= 0 && col < Cols {
			c.cells[line][col] = r
		}
		col++
	}
}

// DrawRect marks the cell holding the rectangle's top-left corner.
func (c *Canvas) DrawRect(x, y, w, h int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.log(fmt.Sprintf("rect %d,%d %dx%d", x, y, w, h))

	line, col := y/CellHeight, x/CellWidth
	if line >= 0 && line < Lines && col >= 0 && col < Cols {
		c.cells[line][col] = RectMarker
	}
}

// ClearRect blanks every cell the rectangle touches.
func (c *Canvas) ClearRect(x, y, w, h int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.log(fmt.Sprintf("clearrect %d,%d %dx%d", x, y, w, h))

	if w <= 0 || h <= 0 {
		return
	}
	for line := max(y/CellHeight, 0); line <= min((y+h-1)/CellHeight, Lines-1); line++ {
		for col := max(x/CellWidth, 0); col <= min((x+w-1)/CellWidth, Cols-1); col++ {
			c.cells[line][col] = ' '
		}
	}
}

// Present makes the current cells the visible frame.
func (c *Canvas) Present() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.log("present")
	c.frame = c.render()
	c.presents++
}

// Frame returns the last presented frame, bordered, one line per cell row.
func (c *Canvas) Frame() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frame
}

// Presents returns how many times Present was called.
func (c *Canvas) Presents() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.presents
}

// Ops returns the recorded draw calls.
func (c *Canvas) Ops() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.ops))
	copy(out, c.ops)
	return out
}

// ResetOps forgets recorded draw calls.
func (c *Canvas) ResetOps() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ops = c.ops[:0]
}

func (c *Canvas) log(op string) {
	if c.record {
		c.ops = append(c.ops, op)
	}
}

func (c *Canvas) blank() {
	for i := range c.cells {
		for j := range c.cells[i] {
			c.cells[i][j] = ' '
		}
	}
}

func (c *Canvas) render() string {
	var b strings.Builder
	border := "+" + strings.Repeat("-", Cols) + "+\n"
	b.WriteString(border)
	for _, line := range c.cells {
		b.WriteByte('|')
		b.WriteString(string(line[:]))
		b.WriteString("|\n")
	}
	b.WriteString(border)
	return b.String()
}
