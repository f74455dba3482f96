//go:build unix

package terminal

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Backend owns the physical terminal: raw mode, alternate screen, cursor
// visibility, and resize notification. Rendering goes through a Sink; the
// backend only prepares and restores the surface around it.
type Backend struct {
	in      *os.File
	out     *os.File
	inFd    int
	outFd   int
	oldTerm *term.State

	sigCh   chan os.Signal
	eventCh chan ResizeEvent
	stopCh  chan struct{}
	doneCh  chan struct{}

	initialized bool
}

// NewBackend creates a backend bound to stdin/stdout
func NewBackend() *Backend {
	return &Backend{
		in:    os.Stdin,
		out:   os.Stdout,
		inFd:  int(os.Stdin.Fd()),
		outFd: int(os.Stdout.Fd()),
	}
}

// Init enters raw mode and the alternate screen, hides the cursor, and starts
// resize watching
func (b *Backend) Init() error {
	if !term.IsTerminal(b.inFd) {
		return errors.New("stdin is not a terminal")
	}

	old, err := term.MakeRaw(b.inFd)
	if err != nil {
		return errors.Wrap(err, "enter raw mode")
	}
	b.oldTerm = old

	b.out.Write(csiAltScreenEnter)
	b.out.Write(csiCursorHide)
	b.out.Write(csiAutoWrapOff)
	b.out.Write(csiClear)

	b.sigCh = make(chan os.Signal, 1)
	b.eventCh = make(chan ResizeEvent, 1)
	b.stopCh = make(chan struct{})
	b.doneCh = make(chan struct{})
	signal.Notify(b.sigCh, syscall.SIGWINCH)
	go b.watchResize()

	b.initialized = true
	return nil
}

// Fini restores the terminal state. Safe to call multiple times
func (b *Backend) Fini() {
	if !b.initialized {
		return
	}
	b.initialized = false

	signal.Stop(b.sigCh)
	close(b.stopCh)
	<-b.doneCh

	b.out.Write(csiSGR0)
	b.out.Write(csiAutoWrapOn)
	b.out.Write(csiCursorShow)
	b.out.Write(csiAltScreenExit)

	if b.oldTerm != nil {
		term.Restore(b.inFd, b.oldTerm)
		b.oldTerm = nil
	}
}

// SetTitle sets the terminal window title
func (b *Backend) SetTitle(title string) {
	b.out.Write(oscTitle)
	b.out.WriteString(title)
	b.out.Write(oscStrEnd)
}

// Size returns the current terminal dimensions
func (b *Backend) Size() (int, int) {
	ws, err := unix.IoctlGetWinsize(b.outFd, unix.TIOCGWINSZ)
	if err != nil {
		return 80, 24 // Fallback
	}
	return int(ws.Col), int(ws.Row)
}

// ResizeChan returns the channel receiving resize events
func (b *Backend) ResizeChan() <-chan ResizeEvent {
	return b.eventCh
}

// watchResize forwards SIGWINCH as ResizeEvents, keeping only the latest
func (b *Backend) watchResize() {
	defer close(b.doneCh)
	for {
		select {
		case <-b.stopCh:
			return
		case <-b.sigCh:
			w, h := b.Size()
			if w <= 0 || h <= 0 {
				continue
			}
			select {
			case b.eventCh <- ResizeEvent{Width: w, Height: h}:
			default:
				// Replace the stale unconsumed event
				select {
				case <-b.eventCh:
				default:
				}
				b.eventCh <- ResizeEvent{Width: w, Height: h}
			}
		}
	}
}
