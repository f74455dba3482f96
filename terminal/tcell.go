package terminal

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

// TcellSink adapts a tcell.Screen to the Sink interface, for hosts that
// already run a tcell event loop and want the compositor to draw into it.
// Glyph writes land via SetContent; Flush maps to Show.
type TcellSink struct {
	screen tcell.Screen

	cursorX int
	cursorY int
	style   tcell.Style
}

// NewTcellSink wraps an initialized tcell screen
func NewTcellSink(screen tcell.Screen) *TcellSink {
	return &TcellSink{
		screen: screen,
		style:  tcell.StyleDefault,
	}
}

// MoveCursor positions the write cursor (0-indexed)
func (s *TcellSink) MoveCursor(x, y int) error {
	s.cursorX = x
	s.cursorY = y
	return nil
}

// SetStyle sets the style applied to subsequent glyph writes
func (s *TcellSink) SetStyle(fg, bg RGB, attrs Attr) error {
	s.style = tcell.StyleDefault.
		Foreground(tcell.NewRGBColor(int32(fg.R), int32(fg.G), int32(fg.B))).
		Background(tcell.NewRGBColor(int32(bg.R), int32(bg.G), int32(bg.B))).
		Attributes(AttrToTcell(attrs))
	return nil
}

// WriteGlyphs writes text cluster by cluster, advancing the cursor
func (s *TcellSink) WriteGlyphs(text string) error {
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		runes := gr.Runes()
		if len(runes) == 0 {
			continue
		}
		var comb []rune
		if len(runes) > 1 {
			comb = runes[1:]
		}
		s.screen.SetContent(s.cursorX, s.cursorY, runes[0], comb, s.style)
		w := gr.Width()
		if w < 1 {
			w = 1
		}
		s.cursorX += w
	}
	return nil
}

// Flush presents pending writes
func (s *TcellSink) Flush() error {
	s.screen.Show()
	return nil
}

// AttrToTcell converts an Attr bitmask to a tcell.AttrMask
func AttrToTcell(a Attr) tcell.AttrMask {
	var mask tcell.AttrMask
	if a&AttrBold != 0 {
		mask |= tcell.AttrBold
	}
	if a&AttrDim != 0 {
		mask |= tcell.AttrDim
	}
	if a&AttrItalic != 0 {
		mask |= tcell.AttrItalic
	}
	if a&AttrUnderline != 0 {
		mask |= tcell.AttrUnderline
	}
	if a&AttrBlink != 0 {
		mask |= tcell.AttrBlink
	}
	if a&AttrReverse != 0 {
		mask |= tcell.AttrReverse
	}
	return mask
}

// AttrFromTcell converts a tcell.AttrMask to an Attr bitmask
func AttrFromTcell(mask tcell.AttrMask) Attr {
	var a Attr
	if mask&tcell.AttrBold != 0 {
		a |= AttrBold
	}
	if mask&tcell.AttrDim != 0 {
		a |= AttrDim
	}
	if mask&tcell.AttrItalic != 0 {
		a |= AttrItalic
	}
	if mask&tcell.AttrUnderline != 0 {
		a |= AttrUnderline
	}
	if mask&tcell.AttrBlink != 0 {
		a |= AttrBlink
	}
	if mask&tcell.AttrReverse != 0 {
		a |= AttrReverse
	}
	return a
}
