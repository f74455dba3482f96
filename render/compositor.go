package render

import (
	"log"
	"sort"

	"github.com/lixenwraith/termstage/sprite"
)

// Compositor owns the double-buffered grid pair and produces the staging grid
// for each frame. Sprites paint low-z first; ties at equal z break by
// ascending sprite ID, so paint order is stable run-to-run for the same input.
type Compositor struct {
	staging   *Grid
	committed *Grid
	raster    *Rasterizer

	background Cell

	// full forces the next flush to emit every cell (first frame, or any
	// frame after a resize)
	full bool

	// order is reused across frames to avoid per-frame allocation
	order []sprite.Sprite
}

// NewCompositor creates a compositor with both grids at the given viewport
func NewCompositor(width, height int, raster *Rasterizer) (*Compositor, error) {
	staging, err := NewGrid(width, height)
	if err != nil {
		return nil, err
	}
	committed, err := NewGrid(width, height)
	if err != nil {
		return nil, err
	}
	if raster == nil {
		raster = NewRasterizer(nil)
	}
	return &Compositor{
		staging:    staging,
		committed:  committed,
		raster:     raster,
		background: DefaultCell,
		full:       true,
	}, nil
}

// Size returns the current viewport dimensions
func (c *Compositor) Size() (int, int) {
	return c.staging.width, c.staging.height
}

// SetBackground sets the default cell the staging grid resets to each frame
func (c *Compositor) SetBackground(cell Cell) {
	if cell.Width == 0 {
		cell.Width = 1
	}
	c.background = cell
}

// Resize replaces both grids wholesale and forces a full emission on the next
// flush. It is a pre-frame event; never call it mid-composition.
func (c *Compositor) Resize(width, height int) error {
	if err := c.staging.Resize(width, height); err != nil {
		return err
	}
	if err := c.committed.Resize(width, height); err != nil {
		return err
	}
	c.full = true
	return nil
}

// Compose paints the frame's sprites into the staging grid. A malformed
// sprite is skipped with a diagnostic; the rest of the frame still paints.
func (c *Compositor) Compose(sprites []sprite.Sprite) {
	c.staging.Fill(c.background)

	c.order = c.order[:0]
	for _, sp := range sprites {
		if !sp.Visible {
			continue
		}
		if len(sp.Lines) == 0 {
			log.Printf("render: sprite %d has no content, skipped", sp.ID)
			continue
		}
		c.order = append(c.order, sp)
	}

	sort.SliceStable(c.order, func(i, j int) bool {
		if c.order[i].Z != c.order[j].Z {
			return c.order[i].Z < c.order[j].Z
		}
		return c.order[i].ID < c.order[j].ID
	})

	for _, sp := range c.order {
		c.raster.Draw(c.staging, sp)
	}
}

// Staging returns the grid being painted this frame
func (c *Compositor) Staging() *Grid {
	return c.staging
}

// Committed returns the grid last flushed to the terminal
func (c *Compositor) Committed() *Grid {
	return c.committed
}
