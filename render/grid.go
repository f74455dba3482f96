package render

import (
	"github.com/pkg/errors"
)

// Grid is a fixed-size 2D buffer of cells, row-major. Two instances exist per
// compositor: the staging grid being painted this frame and the committed grid
// last flushed to the terminal. Single-writer per frame; no locking.
type Grid struct {
	cells  []Cell
	width  int
	height int
}

// NewGrid creates a grid filled with DefaultCell
func NewGrid(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Wrapf(ErrInvalidDimensions, "%dx%d", width, height)
	}
	g := &Grid{
		cells:  make([]Cell, width*height),
		width:  width,
		height: height,
	}
	g.Fill(DefaultCell)
	return g, nil
}

// Width returns the grid width
func (g *Grid) Width() int {
	return g.width
}

// Height returns the grid height
func (g *Grid) Height() int {
	return g.height
}

// Get returns the cell at (x, y)
func (g *Grid) Get(x, y int) (Cell, error) {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return Cell{}, errors.Wrapf(ErrOutOfBounds, "(%d,%d) in %dx%d", x, y, g.width, g.height)
	}
	return g.cells[y*g.width+x], nil
}

// Set writes the cell at (x, y)
func (g *Grid) Set(x, y int, c Cell) error {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return errors.Wrapf(ErrOutOfBounds, "(%d,%d) in %dx%d", x, y, g.width, g.height)
	}
	g.cells[y*g.width+x] = c
	return nil
}

// Resize reallocates the grid to the new dimensions, filled with DefaultCell.
// Invalid dimensions are rejected and the prior grid is retained.
func (g *Grid) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return errors.Wrapf(ErrInvalidDimensions, "%dx%d", width, height)
	}
	size := width * height
	if cap(g.cells) < size {
		g.cells = make([]Cell, size)
	} else {
		g.cells = g.cells[:size]
	}
	g.width = width
	g.height = height
	g.Fill(DefaultCell)
	return nil
}

// Fill sets every cell using exponential copy
func (g *Grid) Fill(c Cell) {
	if len(g.cells) == 0 {
		return
	}
	g.cells[0] = c
	for filled := 1; filled < len(g.cells); filled *= 2 {
		copy(g.cells[filled:], g.cells[:filled])
	}
}

// Cells returns the row-major backing slice. The emitter reads it directly;
// callers must not resize the grid while holding the view.
func (g *Grid) Cells() []Cell {
	return g.cells
}

// inBounds reports whether (x, y) is inside the grid
func (g *Grid) inBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}
