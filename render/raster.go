package render

import (
	"github.com/rivo/uniseg"

	"github.com/lixenwraith/termstage/sprite"
	"github.com/lixenwraith/termstage/terminal"
)

// Rasterizer converts sprite content into grid cells. Geometry exceeding grid
// bounds is clipped silently; partial off-screen sprites are expected.
type Rasterizer struct {
	measure terminal.WidthMeasurer
}

// NewRasterizer creates a rasterizer. A nil measurer falls back to the
// runewidth-backed default.
func NewRasterizer(m terminal.WidthMeasurer) *Rasterizer {
	if m == nil {
		m = terminal.RunewidthMeasurer{}
	}
	return &Rasterizer{measure: m}
}

// Draw paints one sprite into the grid at its anchor, one row per content
// line, one lead cell per glyph cluster. Wide clusters additionally claim
// zero-width continuation cells. Transparent sprites write glyph, foreground,
// and attributes only; the destination background is preserved.
func (r *Rasterizer) Draw(g *Grid, sp sprite.Sprite) {
	for i, line := range sp.Lines {
		y := sp.Y + i
		if y < 0 || y >= g.height {
			continue
		}
		r.drawLine(g, sp, line, y)
	}
}

func (r *Rasterizer) drawLine(g *Grid, sp sprite.Sprite, line string, y int) {
	x := sp.X
	gr := uniseg.NewGraphemes(line)
	for gr.Next() {
		if x >= g.width {
			return
		}
		cluster := gr.Str()
		w, err := r.measure.ClusterWidth(cluster)
		if err != nil || w <= 0 {
			// Unclassifiable cluster renders single-width rather than
			// aborting the frame
			w = 1
		}

		// A wide glyph straddling the left edge cannot be half-drawn; the
		// whole cluster is clipped
		if x < 0 || x+w > g.width {
			x += w
			continue
		}

		idx := y*g.width + x
		clearPartialWide(g, y, x, w)
		lead := &g.cells[idx]
		lead.Glyph = cluster
		lead.Width = uint8(w)
		lead.Fg = sp.Style.Fg
		lead.Attrs = sp.Style.Attrs
		if !sp.Transparent {
			lead.Bg = sp.Style.Bg
		}

		for c := 1; c < w; c++ {
			cont := &g.cells[idx+c]
			cont.Glyph = ""
			cont.Width = 0
			cont.Fg = sp.Style.Fg
			cont.Attrs = sp.Style.Attrs
			if !sp.Transparent {
				cont.Bg = sp.Style.Bg
			}
		}
		x += w
	}
}

// clearPartialWide blanks the remnants of wide glyphs that the span
// [x, x+w) cuts through, so the grid never holds a continuation cell
// without its lead or a lead without its full span
func clearPartialWide(g *Grid, y, x, w int) {
	rowStart := y * g.width

	// Left edge lands on a continuation: blank from its lead up to the edge
	i := x
	for i > 0 && g.cells[rowStart+i].Width == 0 {
		i--
	}
	for k := i; k < x; k++ {
		blankCell(&g.cells[rowStart+k])
	}

	// Right edge cuts a wide lead inside the span: blank its orphaned tail
	for j := x + w; j < g.width && g.cells[rowStart+j].Width == 0; j++ {
		blankCell(&g.cells[rowStart+j])
	}
}

// blankCell turns a cell into a single-width space, keeping its colors
func blankCell(c *Cell) {
	c.Glyph = " "
	c.Width = 1
}
