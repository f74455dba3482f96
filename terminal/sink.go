package terminal

import (
	"bufio"
	"io"

	"github.com/mattn/go-runewidth"
)

// AnsiSink writes Sink operations as ANSI escape sequences to an io.Writer.
// Style and cursor state are tracked so that redundant sequences are never
// emitted: a MoveCursor that matches the tracked position writes nothing, a
// short forward move on the same row uses CUF instead of CUP, and SetStyle
// emits one combined SGR sequence only when something changed.
type AnsiSink struct {
	writer    *bufio.Writer
	colorMode ColorMode

	cursorX     int
	cursorY     int
	cursorValid bool

	lastFg    RGB
	lastBg    RGB
	lastAttr  Attr
	lastValid bool

	// dirty tracks whether anything was emitted since the last Flush
	dirty bool
}

// NewAnsiSink creates a sink writing to w with the given color mode
func NewAnsiSink(w io.Writer, colorMode ColorMode) *AnsiSink {
	return &AnsiSink{
		writer:    bufio.NewWriterSize(w, 131072), // 128KB buffer
		colorMode: colorMode,
	}
}

// MoveCursor positions the cursor (0-indexed)
func (s *AnsiSink) MoveCursor(x, y int) error {
	if s.cursorValid && x == s.cursorX && y == s.cursorY {
		return nil
	}
	// Non-destructive forward movement on the same row is shorter than CUP
	if s.cursorValid && y == s.cursorY && x > s.cursorX {
		writeCursorForward(s.writer, x-s.cursorX)
	} else {
		writeCursorPos(s.writer, x, y)
	}
	s.cursorX = x
	s.cursorY = y
	s.cursorValid = true
	s.dirty = true
	return s.err()
}

// SetStyle emits a combined SGR sequence when the style differs from the last
// emitted one
func (s *AnsiSink) SetStyle(fg, bg RGB, attrs Attr) error {
	fgChanged := !s.lastValid || fg != s.lastFg
	bgChanged := !s.lastValid || bg != s.lastBg
	attrChanged := !s.lastValid || attrs&AttrStyle != s.lastAttr&AttrStyle

	if !fgChanged && !bgChanged && !attrChanged {
		return nil
	}

	w := s.writer
	w.Write(csi)

	if attrChanged {
		// Attribute changes require a reset, then re-apply everything
		w.WriteByte('0')
		if attrs&AttrBold != 0 {
			w.Write([]byte(";1"))
		}
		if attrs&AttrDim != 0 {
			w.Write([]byte(";2"))
		}
		if attrs&AttrItalic != 0 {
			w.Write([]byte(";3"))
		}
		if attrs&AttrUnderline != 0 {
			w.Write([]byte(";4"))
		}
		if attrs&AttrBlink != 0 {
			w.Write([]byte(";5"))
		}
		if attrs&AttrReverse != 0 {
			w.Write([]byte(";7"))
		}
		s.writeFgParams(fg)
		s.writeBgParams(bg)
	} else {
		first := true
		if fgChanged {
			s.writeFgParamsSep(fg, &first)
		}
		if bgChanged {
			s.writeBgParamsSep(bg, &first)
		}
	}
	w.WriteByte('m')

	s.lastFg = fg
	s.lastBg = bg
	s.lastAttr = attrs
	s.lastValid = true
	s.dirty = true
	return s.err()
}

// WriteGlyphs writes text at the cursor position
func (s *AnsiSink) WriteGlyphs(text string) error {
	w := s.writer
	ascii := true
	for i := 0; i < len(text); i++ {
		if text[i] >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		s.cursorX += len(text)
	} else {
		s.cursorX += runewidth.StringWidth(text)
	}
	w.WriteString(text)
	s.dirty = true
	return s.err()
}

// Flush pushes buffered output to the terminal. A frame that emitted nothing
// writes nothing.
func (s *AnsiSink) Flush() error {
	if s.dirty {
		s.writer.Write(csiSGR0)
		s.lastValid = false
		s.dirty = false
	}
	return s.writer.Flush()
}

// InvalidateCursor marks the tracked cursor position as unknown, forcing the
// next MoveCursor to emit an absolute position
func (s *AnsiSink) InvalidateCursor() {
	s.cursorValid = false
	s.lastValid = false
}

// Clear wipes the screen with the specified background color
func (s *AnsiSink) Clear(bg RGB) error {
	w := s.writer
	w.Write(csiSGR0)
	w.Write(csi)
	s.writeBgParams(bg)
	w.WriteByte('m')
	w.Write(csiClear)
	s.lastValid = false
	s.cursorValid = false
	return s.writer.Flush()
}

// err surfaces the sticky bufio write error, if any
func (s *AnsiSink) err() error {
	// Writing zero bytes returns the writer's sticky error without buffering
	_, err := s.writer.Write(nil)
	return err
}

// writeFgParams writes fg color parameters with a leading ';'
func (s *AnsiSink) writeFgParams(fg RGB) {
	w := s.writer
	if s.colorMode == ColorModeTrueColor {
		w.Write([]byte(";38;2;"))
		writeInt(w, int(fg.R))
		w.WriteByte(';')
		writeInt(w, int(fg.G))
		w.WriteByte(';')
		writeInt(w, int(fg.B))
	} else {
		w.Write([]byte(";38;5;"))
		writeInt(w, int(RGBTo256(fg)))
	}
}

// writeBgParams writes bg color parameters with a leading ';'
func (s *AnsiSink) writeBgParams(bg RGB) {
	w := s.writer
	if s.colorMode == ColorModeTrueColor {
		w.Write([]byte(";48;2;"))
		writeInt(w, int(bg.R))
		w.WriteByte(';')
		writeInt(w, int(bg.G))
		w.WriteByte(';')
		writeInt(w, int(bg.B))
	} else {
		w.Write([]byte(";48;5;"))
		writeInt(w, int(RGBTo256(bg)))
	}
}

func (s *AnsiSink) writeFgParamsSep(fg RGB, first *bool) {
	if *first {
		// Drop the leading ';' for the first parameter group
		s.writeFgParamsFirst(fg)
		*first = false
		return
	}
	s.writeFgParams(fg)
}

func (s *AnsiSink) writeBgParamsSep(bg RGB, first *bool) {
	if *first {
		s.writeBgParamsFirst(bg)
		*first = false
		return
	}
	s.writeBgParams(bg)
}

func (s *AnsiSink) writeFgParamsFirst(fg RGB) {
	w := s.writer
	if s.colorMode == ColorModeTrueColor {
		w.Write([]byte("38;2;"))
		writeInt(w, int(fg.R))
		w.WriteByte(';')
		writeInt(w, int(fg.G))
		w.WriteByte(';')
		writeInt(w, int(fg.B))
	} else {
		w.Write([]byte("38;5;"))
		writeInt(w, int(RGBTo256(fg)))
	}
}

func (s *AnsiSink) writeBgParamsFirst(bg RGB) {
	w := s.writer
	if s.colorMode == ColorModeTrueColor {
		w.Write([]byte("48;2;"))
		writeInt(w, int(bg.R))
		w.WriteByte(';')
		writeInt(w, int(bg.G))
		w.WriteByte(';')
		writeInt(w, int(bg.B))
	} else {
		w.Write([]byte("48;5;"))
		writeInt(w, int(RGBTo256(bg)))
	}
}
