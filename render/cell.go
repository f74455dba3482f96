package render

import (
	"github.com/lixenwraith/termstage/terminal"
)

// Cell represents a single grid position. Glyph holds one grapheme cluster
// ("" renders as blank); Width is the column count the cluster occupies.
// Width 0 marks a continuation cell owned by a wide glyph to its left.
type Cell struct {
	Glyph string
	Width uint8
	Fg    terminal.RGB
	Bg    terminal.RGB
	Attrs terminal.Attr
}

// DefaultCell is the blank cell grids are filled with
var DefaultCell = Cell{
	Glyph: "",
	Width: 1,
	Fg:    terminal.White,
	Bg:    terminal.Black,
	Attrs: terminal.AttrNone,
}

// cellEqual compares two cells for display equality. An unattributed blank
// cell ignores foreground since it is invisible without a glyph; attributed
// blanks still compare it because underline and strikeout render in the
// foreground color.
func cellEqual(a, b Cell) bool {
	if a.Glyph != b.Glyph || a.Width != b.Width || a.Attrs != b.Attrs {
		return false
	}
	if a.Glyph == "" && a.Attrs == terminal.AttrNone {
		return a.Bg == b.Bg
	}
	return a.Fg == b.Fg && a.Bg == b.Bg
}
