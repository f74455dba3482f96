package sprite

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/lixenwraith/termstage/terminal"
)

// ID identifies a scene entity. IDs double as the deterministic tie-break for
// sprites sharing a z level: equal-z sprites paint in ascending ID order.
type ID uint64

// Style is the display style applied to a sprite's cells
type Style struct {
	Fg    terminal.RGB
	Bg    terminal.RGB
	Attrs terminal.Attr
}

// DefaultStyle is white on black with no attributes
var DefaultStyle = Style{
	Fg: terminal.White,
	Bg: terminal.Black,
}

// Sprite is one renderable unit: a positioned, styled block of text lines.
// Sprites are plain records rebuilt by the host scene every frame; the
// renderer only reads them.
type Sprite struct {
	ID          ID
	X, Y, Z     int
	Visible     bool
	Transparent bool
	Lines       []string
	Style       Style
}

// New builds a visible sprite from multi-line text
func New(id ID, text string) Sprite {
	return Sprite{
		ID:      id,
		Visible: true,
		Lines:   SplitLines(text),
		Style:   DefaultStyle,
	}
}

// SplitLines splits sprite text into content lines, tolerating CRLF
func SplitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// Size returns the content dimensions in terminal columns and rows. Width is
// the widest line; clusters the measurer cannot classify count as one column.
func (s *Sprite) Size(m terminal.WidthMeasurer) (w, h int) {
	h = len(s.Lines)
	for _, line := range s.Lines {
		lw := 0
		gr := uniseg.NewGraphemes(line)
		for gr.Next() {
			cw, err := m.ClusterWidth(gr.Str())
			if err != nil || cw <= 0 {
				cw = 1
			}
			lw += cw
		}
		if lw > w {
			w = lw
		}
	}
	return w, h
}

// Snapshot is the per-frame scene input: viewport dimensions plus the flat
// ordered collection of sprite records
type Snapshot struct {
	Width   int
	Height  int
	Sprites []Sprite
}
