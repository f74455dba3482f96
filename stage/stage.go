package stage

import (
	"context"

	"github.com/lixenwraith/termstage/render"
	"github.com/lixenwraith/termstage/spatial"
	"github.com/lixenwraith/termstage/sprite"
	"github.com/lixenwraith/termstage/terminal"
)

// Stage wires the spatial index, compositor, and sink into the per-frame
// pipeline: snapshot in, terminal writes out. The whole pipeline runs to
// completion inside one Frame call; nothing suspends mid-frame.
type Stage struct {
	comp    *render.Compositor
	index   *spatial.Index
	sink    terminal.Sink
	measure terminal.WidthMeasurer

	// zOrder remembers each indexed sprite's z for point picking
	zOrder map[uint64]int

	entries []spatial.Entry
}

// New creates a stage for the given viewport
func New(sink terminal.Sink, width, height int) (*Stage, error) {
	measure := terminal.WidthMeasurer(terminal.RunewidthMeasurer{})
	comp, err := render.NewCompositor(width, height, render.NewRasterizer(measure))
	if err != nil {
		return nil, err
	}
	return &Stage{
		comp:    comp,
		index:   spatial.NewIndex(0),
		sink:    sink,
		measure: measure,
		zOrder:  make(map[uint64]int),
	}, nil
}

// SetBackground sets the default cell the frame resets to
func (s *Stage) SetBackground(cell render.Cell) {
	s.comp.SetBackground(cell)
}

// Size returns the current viewport dimensions
func (s *Stage) Size() (int, int) {
	return s.comp.Size()
}

// Frame runs one full pass: viewport check, spatial rebuild, composition,
// diff flush. A snapshot whose dimensions differ from the current viewport
// replaces both grids and forces a full emission.
//
// Cancellation is checked after composition and before the flush, so an
// abandoned frame discards staging mutations without a partial flush.
func (s *Stage) Frame(ctx context.Context, snap sprite.Snapshot) error {
	w, h := s.comp.Size()
	if snap.Width != w || snap.Height != h {
		if err := s.comp.Resize(snap.Width, snap.Height); err != nil {
			return err
		}
	}

	s.entries = s.entries[:0]
	clear(s.zOrder)
	for i := range snap.Sprites {
		sp := &snap.Sprites[i]
		if !sp.Visible {
			continue
		}
		cw, ch := sp.Size(s.measure)
		s.entries = append(s.entries, spatial.Entry{
			ID:  uint64(sp.ID),
			Box: spatial.Box{X: sp.X, Y: sp.Y, W: cw, H: ch},
		})
		s.zOrder[uint64(sp.ID)] = sp.Z
	}
	s.index.Rebuild(s.entries)

	s.comp.Compose(snap.Sprites)

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	return s.comp.Flush(s.sink)
}

// Overlaps returns every intersecting sprite pair from the last frame,
// normalized and ordered
func (s *Stage) Overlaps() []spatial.Pair {
	return s.index.Pairs()
}

// At returns all sprites whose bounds contain (x, y), ascending by ID
func (s *Stage) At(x, y int) []sprite.ID {
	raw := s.index.At(x, y)
	if len(raw) == 0 {
		return nil
	}
	ids := make([]sprite.ID, len(raw))
	for i, id := range raw {
		ids[i] = sprite.ID(id)
	}
	return ids
}

// Pick returns the topmost sprite at (x, y): highest z wins, highest ID
// breaks ties, mirroring paint order
func (s *Stage) Pick(x, y int) (sprite.ID, bool) {
	ids := s.index.At(x, y)
	if len(ids) == 0 {
		return 0, false
	}
	top := ids[0]
	topZ := s.zOrder[top]
	for _, id := range ids[1:] {
		z := s.zOrder[id]
		if z > topZ || (z == topZ && id > top) {
			top = id
			topZ = z
		}
	}
	return sprite.ID(top), true
}

// Compositor exposes the underlying compositor for hosts that drive the
// pipeline pieces directly
func (s *Stage) Compositor() *render.Compositor {
	return s.comp
}
