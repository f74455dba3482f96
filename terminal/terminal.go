package terminal

// Attr represents text attributes (bitmask)
type Attr uint8

const (
	AttrNone      Attr = 0
	AttrBold      Attr = 1 << 0
	AttrDim       Attr = 1 << 1
	AttrItalic    Attr = 1 << 2
	AttrUnderline Attr = 1 << 3
	AttrBlink     Attr = 1 << 4
	AttrReverse   Attr = 1 << 5
)

// AttrStyle masks the style bits
const AttrStyle Attr = AttrBold | AttrDim | AttrItalic | AttrUnderline | AttrBlink | AttrReverse

// Sink is the abstract terminal surface the frame emitter writes through.
// A flush is an ordered sequence of MoveCursor / SetStyle / WriteGlyphs calls
// terminated by Flush. Implementations track their own cursor and style state;
// the emitter never re-sends a style that matches the previously written cell.
type Sink interface {
	// MoveCursor positions the write cursor (0-indexed)
	MoveCursor(x, y int) error

	// SetStyle sets the style applied to subsequent glyph writes
	SetStyle(fg, bg RGB, attrs Attr) error

	// WriteGlyphs writes text at the cursor, advancing it by display width
	WriteGlyphs(text string) error

	// Flush pushes buffered output to the physical terminal
	Flush() error
}

// ResizeEvent represents a terminal resize
type ResizeEvent struct {
	Width  int
	Height int
}
