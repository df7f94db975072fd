package viz

import (
	"strings"
)

// dotBits maps a sub-pixel (row, col) inside a cell to its Braille dot bit.
var dotBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// Canvas is a character grid where each cell holds 2x4 Braille dots, so a
// canvas of Width x Height cells has (2*Width) x (4*Height) sub-pixels.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	grid := make([][]rune, h)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(string(rune(brailleBlank)), w))
	}
	return &Canvas{Width: w, Height: h, Grid: grid}
}

// cell locates the sub-pixel (x, y); ok is false outside the canvas.
func (c *Canvas) cell(x, y int) (row, col int, bit rune, ok bool) {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return 0, 0, 0, false
	}
	return y / 4, x / 2, dotBits[y%4][x%2], true
}

// Set lights a sub-pixel. Points off the canvas are dropped.
func (c *Canvas) Set(x, y int) {
	if row, col, bit, ok := c.cell(x, y); ok {
		c.Grid[row][col] |= bit
	}
}

func (c *Canvas) IsSet(x, y int) bool {
	row, col, bit, ok := c.cell(x, y)
	return ok && c.Grid[row][col]&bit != 0
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawCross marks a point with a small plus sign.
func (c *Canvas) DrawCross(x, y, r int) {
	c.DrawLine(x-r, y, x+r, y)
	c.DrawLine(x, y-r, x, y+r)
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
