package stage

import (
	"context"
	"time"

	"github.com/lixenwraith/termstage/sprite"
	"github.com/lixenwraith/termstage/terminal"
)

// UpdateFunc produces the next scene snapshot. It receives the frame counter
// and the current viewport dimensions; returning ok=false stops the loop.
type UpdateFunc func(frame int, width, height int) (sprite.Snapshot, bool)

// Runner drives the stage at a fixed frame wait, applying terminal resizes
// between frames. Resize is strictly a pre-frame event: the pending event is
// consumed before the snapshot is requested, never mid-composition.
type Runner struct {
	stage  *Stage
	resize <-chan terminal.ResizeEvent
	wait   time.Duration

	width  int
	height int
}

// NewRunner creates a runner. wait is the minimum frame period; a frame that
// composes faster sleeps the remainder, one that runs long starts the next
// frame immediately.
func NewRunner(s *Stage, resize <-chan terminal.ResizeEvent, wait time.Duration) *Runner {
	w, h := s.Size()
	return &Runner{
		stage:  s,
		resize: resize,
		wait:   wait,
		width:  w,
		height: h,
	}
}

// Run loops until the context is done, the update func stops, or a frame
// fails
func (r *Runner) Run(ctx context.Context, update UpdateFunc) error {
	frame := 0
	start := time.Now()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		r.drainResize()

		snap, ok := update(frame, r.width, r.height)
		if !ok {
			return nil
		}
		snap.Width = r.width
		snap.Height = r.height

		if err := r.stage.Frame(ctx, snap); err != nil {
			return err
		}
		frame++

		end := time.Now()
		if elapsed := end.Sub(start); elapsed < r.wait {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(r.wait - elapsed):
			}
		}
		start = time.Now()
	}
}

// drainResize applies the latest pending resize, if any
func (r *Runner) drainResize() {
	for {
		select {
		case ev := <-r.resize:
			if ev.Width > 0 && ev.Height > 0 {
				r.width = ev.Width
				r.height = ev.Height
			}
		default:
			return
		}
	}
}
