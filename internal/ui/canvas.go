package ui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// canvas is a fixed-size grid of rendered rows that blocks are painted onto.
// Later draws cover earlier ones.
type canvas struct {
	width int
	lines []string
}

func newCanvas(width, height int) *canvas {
	width, height = max(width, 0), max(height, 0)
	blank := strings.Repeat(" ", width)
	lines := make([]string, height)
	for i := range lines {
		lines[i] = blank
	}
	return &canvas{width: width, lines: lines}
}

// draw paints block with its top-left corner at x, y. Rows and columns that
// fall outside the canvas are clipped.
func (c *canvas) draw(block string, x, y int) {
	if block == "" || x >= c.width {
		return
	}
	rows := strings.Split(block, "\n")
	blockWidth := 0
	for _, row := range rows {
		blockWidth = max(blockWidth, ansi.StringWidth(row))
	}
	skip := 0
	if x < 0 {
		skip, x = -x, 0
	}
	for i, row := range rows {
		line := y + i
		if line < 0 || line >= len(c.lines) {
			continue
		}
		seg := padRight(row, blockWidth)
		if skip > 0 {
			seg = ansi.TruncateLeft(seg, skip, "")
		}
		segWidth := ansi.StringWidth(seg)
		if x+segWidth > c.width {
			seg = ansi.Truncate(seg, c.width-x, "")
			segWidth = c.width - x
		}
		target := c.lines[line]
		left := padRight(ansi.Truncate(target, x, ""), x)
		right := ansi.TruncateLeft(target, x+segWidth, "")
		c.lines[line] = left + seg + right
	}
}

func (c *canvas) String() string {
	return strings.Join(c.lines, "\n")
}

func padRight(s string, width int) string {
	if w := ansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
