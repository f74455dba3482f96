package terminal

import (
	"bufio"
)

// Pre-allocated ANSI sequence fragments (avoid allocations during flush)
var (
	csi       = []byte("\x1b[")
	csiSGR0   = []byte("\x1b[0m")
	csiClear  = []byte("\x1b[2J\x1b[H")
	csiCurPos = []byte("\x1b[") // followed by row;colH

	csiCursorHide = []byte("\x1b[?25l")
	csiCursorShow = []byte("\x1b[?25h")

	csiAltScreenEnter = []byte("\x1b[?1049h")
	csiAltScreenExit  = []byte("\x1b[?1049l")

	oscTitle  = []byte("\x1b]2;")
	oscStrEnd = []byte("\x07")

	// DECAWM off keeps the cursor parked at the right edge, preventing a
	// scroll when the bottom-right cell is written
	csiAutoWrapOn  = []byte("\x1b[?7h")
	csiAutoWrapOff = []byte("\x1b[?7l")

	csiFg256 = []byte("\x1b[38;5;")
	csiBg256 = []byte("\x1b[48;5;")
	csiFgRGB = []byte("\x1b[38;2;")
	csiBgRGB = []byte("\x1b[48;2;")
)

// writeInt writes an integer without allocation
// Optimized for terminal values (0-255 common, 0-999 typical max)
func writeInt(w *bufio.Writer, n int) {
	if n < 0 {
		n = 0
	}
	if n < 10 {
		w.WriteByte(byte(n) + '0')
		return
	}
	if n < 100 {
		w.WriteByte(byte(n/10) + '0')
		w.WriteByte(byte(n%10) + '0')
		return
	}
	if n < 1000 {
		w.WriteByte(byte(n/100) + '0')
		w.WriteByte(byte(n/10%10) + '0')
		w.WriteByte(byte(n%10) + '0')
		return
	}
	var buf [5]byte
	i := 4
	for n > 0 {
		buf[i] = byte(n%10) + '0'
		n /= 10
		i--
	}
	w.Write(buf[i+1:])
}

// writeCursorPos writes a cursor positioning sequence (0-indexed input)
func writeCursorPos(w *bufio.Writer, x, y int) {
	w.Write(csiCurPos)
	writeInt(w, y+1)
	w.WriteByte(';')
	writeInt(w, x+1)
	w.WriteByte('H')
}

// writeCursorForward writes cursor forward N positions
func writeCursorForward(w *bufio.Writer, n int) {
	if n <= 0 {
		return
	}
	if n == 1 {
		w.Write([]byte("\x1b[C"))
		return
	}
	w.Write(csi)
	writeInt(w, n)
	w.WriteByte('C')
}
