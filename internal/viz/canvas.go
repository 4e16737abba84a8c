package viz

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
)

const brailleBlank = 0x2800

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a grid of Braille cells, each holding 2x4 sub-pixels.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// PixelWidth and PixelHeight are the sub-pixel dimensions.
func (c *Canvas) PixelWidth() int  { return c.Width * 2 }
func (c *Canvas) PixelHeight() int { return c.Height * 4 }

// Set lights the sub-pixel (x, y); out of range pixels are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 || x >= c.PixelWidth() || y >= c.PixelHeight() {
		return
	}
	c.Grid[y/4][x/2] |= pixelMap[y%4][x%2]
}

// IsSet reports whether sub-pixel (x, y) is lit.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x >= c.PixelWidth() || y >= c.PixelHeight() {
		return false
	}
	return c.Grid[y/4][x/2]&pixelMap[y%4][x%2] != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx, dy := absInt(x1-x0), absInt(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
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

// DrawPath connects consecutive points projected through v.
func (c *Canvas) DrawPath(pts []r2.Vec, v Viewport) {
	px, py, ok := 0, 0, false
	for _, p := range pts {
		x, y, in := v.Pixel(p, c)
		if !in {
			ok = false
			continue
		}
		if ok {
			c.DrawLine(px, py, x, y)
		} else {
			c.Set(x, y)
		}
		px, py, ok = x, y, true
	}
}

// DrawDot marks a 2x2 block around p.
func (c *Canvas) DrawDot(p r2.Vec, v Viewport) {
	x, y, in := v.Pixel(p, c)
	if !in {
		return
	}
	c.Set(x, y)
	c.Set(x+1, y)
	c.Set(x, y+1)
	c.Set(x+1, y+1)
}

func (c *Canvas) String() string {
	var b strings.Builder
	for i, row := range c.Grid {
		b.WriteString(string(row))
		if i < len(c.Grid)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Viewport maps world coordinates in m onto a canvas.
type Viewport struct {
	MinX, MaxX, MinY, MaxY float64
}

// Fit returns a padded viewport covering all finite points.
func Fit(sets ...[]r2.Vec) Viewport {
	v := Viewport{math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)}
	for _, pts := range sets {
		for _, p := range pts {
			if !finite(p) {
				continue
			}
			v.MinX, v.MaxX = math.Min(v.MinX, p.X), math.Max(v.MaxX, p.X)
			v.MinY, v.MaxY = math.Min(v.MinY, p.Y), math.Max(v.MaxY, p.Y)
		}
	}
	if math.IsInf(v.MinX, 1) {
		return Viewport{-1, 1, -1, 1}
	}

	padX := (v.MaxX - v.MinX) * 0.05
	padY := (v.MaxY - v.MinY) * 0.05
	if padX == 0 {
		padX = 1
	}
	if padY == 0 {
		padY = 1
	}
	return Viewport{v.MinX - padX, v.MaxX + padX, v.MinY - padY, v.MaxY + padY}
}

// Pixel projects p to canvas sub-pixels, with y growing downwards.
func (v Viewport) Pixel(p r2.Vec, c *Canvas) (x, y int, ok bool) {
	if !finite(p) {
		return 0, 0, false
	}
	fx := (p.X - v.MinX) / (v.MaxX - v.MinX) * float64(c.PixelWidth()-1)
	fy := (v.MaxY - p.Y) / (v.MaxY - v.MinY) * float64(c.PixelHeight()-1)
	x, y = int(math.Round(fx)), int(math.Round(fy))
	ok = x >= 0 && y >= 0 && x < c.PixelWidth() && y < c.PixelHeight()
	return x, y, ok
}

func finite(p r2.Vec) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
