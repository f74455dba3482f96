package render

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/lixenwraith/termstage/sprite"
	"github.com/lixenwraith/termstage/terminal"
)

// recordingSink captures emitted operations for assertions
type recordingSink struct {
	ops    []string
	moves  int
	styles int
	writes int
	cols   int

	failWrites bool
}

func (r *recordingSink) MoveCursor(x, y int) error {
	r.moves++
	r.ops = append(r.ops, fmt.Sprintf("move %d,%d", x, y))
	return nil
}

func (r *recordingSink) SetStyle(fg, bg terminal.RGB, attrs terminal.Attr) error {
	r.styles++
	r.ops = append(r.ops, fmt.Sprintf("style %v %v %d", fg, bg, attrs))
	return nil
}

func (r *recordingSink) WriteGlyphs(text string) error {
	if r.failWrites {
		return fmt.Errorf("sink write refused")
	}
	r.writes++
	r.cols += len([]rune(text)) // tests use single-width glyphs
	r.ops = append(r.ops, fmt.Sprintf("write %q", text))
	return nil
}

func (r *recordingSink) Flush() error { return nil }

func (r *recordingSink) reset() {
	r.ops = r.ops[:0]
	r.moves, r.styles, r.writes, r.cols = 0, 0, 0, 0
}

func fullCover(id sprite.ID, w, h, z int, glyph string) sprite.Sprite {
	lines := make([]string, h)
	for i := range lines {
		row := ""
		for x := 0; x < w; x++ {
			row += glyph
		}
		lines[i] = row
	}
	sp := sprite.Sprite{ID: id, Z: z, Visible: true, Lines: lines, Style: sprite.DefaultStyle}
	return sp
}

func TestFirstFlushCoversEveryCellOnce(t *testing.T) {
	comp, err := NewCompositor(10, 3, nil)
	if err != nil {
		t.Fatalf("NewCompositor failed: %v", err)
	}
	sink := &recordingSink{}

	comp.Compose(nil)
	if err := comp.Flush(sink); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	if sink.cols != 30 {
		t.Errorf("Expected 30 glyph columns on first flush, got %d", sink.cols)
	}
	if sink.moves != 3 {
		t.Errorf("Expected one cursor move per row, got %d", sink.moves)
	}
}

func TestUnchangedSceneEmitsNothing(t *testing.T) {
	comp, _ := NewCompositor(10, 3, nil)
	sink := &recordingSink{}

	scene := []sprite.Sprite{fullCover(1, 10, 3, 0, "#")}
	comp.Compose(scene)
	comp.Flush(sink)

	for i := 0; i < 3; i++ {
		sink.reset()
		comp.Compose(scene)
		if err := comp.Flush(sink); err != nil {
			t.Fatalf("Flush failed: %v", err)
		}
		if len(sink.ops) != 0 {
			t.Fatalf("Unchanged scene emitted %d ops: %v", len(sink.ops), sink.ops)
		}
	}
}

func TestSingleCellChangeEmitsSingleRun(t *testing.T) {
	comp, _ := NewCompositor(10, 3, nil)
	sink := &recordingSink{}

	base := fullCover(1, 10, 3, 0, "#")
	comp.Compose([]sprite.Sprite{base})
	comp.Flush(sink)

	overlay := sprite.New(2, "X")
	overlay.X, overlay.Y, overlay.Z = 2, 1, 1

	sink.reset()
	comp.Compose([]sprite.Sprite{base, overlay})
	if err := comp.Flush(sink); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	if sink.moves != 1 || sink.writes != 1 || sink.cols != 1 {
		t.Errorf("Expected single-cell emission, got moves=%d writes=%d cols=%d ops=%v",
			sink.moves, sink.writes, sink.cols, sink.ops)
	}
	if sink.ops[0] != "move 2,1" {
		t.Errorf("Expected cursor move to (2,1), got %q", sink.ops[0])
	}

	// Committed grid: X at (2,1), # everywhere else
	for y := 0; y < 3; y++ {
		for x := 0; x < 10; x++ {
			c, _ := comp.Committed().Get(x, y)
			want := "#"
			if x == 2 && y == 1 {
				want = "X"
			}
			if c.Glyph != want {
				t.Errorf("Committed (%d,%d): expected %q, got %q", x, y, want, c.Glyph)
			}
		}
	}
}

func TestResizeForcesFullEmission(t *testing.T) {
	comp, _ := NewCompositor(80, 24, nil)
	sink := &recordingSink{}

	scene := []sprite.Sprite{fullCover(1, 5, 2, 0, "o")}
	comp.Compose(scene)
	comp.Flush(sink)

	if err := comp.Resize(40, 12); err != nil {
		t.Fatalf("Resize failed: %v", err)
	}

	sink.reset()
	comp.Compose(scene)
	comp.Flush(sink)

	if sink.cols != 40*12 {
		t.Errorf("Expected full emission of %d cells after resize, got %d", 40*12, sink.cols)
	}
}

func TestComposeFlushIdempotent(t *testing.T) {
	comp, _ := NewCompositor(12, 4, nil)
	sink := &recordingSink{}

	scene := []sprite.Sprite{
		fullCover(1, 12, 4, 0, "."),
		func() sprite.Sprite {
			sp := sprite.New(2, "ab\ncd")
			sp.X, sp.Y, sp.Z = 3, 1, 1
			return sp
		}(),
	}

	comp.Compose(scene)
	comp.Flush(sink)
	first := make([]Cell, len(comp.Committed().Cells()))
	copy(first, comp.Committed().Cells())

	sink.reset()
	comp.Compose(scene)
	comp.Flush(sink)

	if len(sink.ops) != 0 {
		t.Errorf("Second flush of identical scene emitted ops: %v", sink.ops)
	}
	if !reflect.DeepEqual(first, comp.Committed().Cells()) {
		t.Error("Committed grid differs after identical re-compose")
	}
}

func TestZOrderTieBreakAscendingID(t *testing.T) {
	comp, _ := NewCompositor(4, 1, nil)

	a := sprite.New(5, "A")
	b := sprite.New(2, "B")
	// Same position, same z: higher ID paints last
	for _, scene := range [][]sprite.Sprite{{a, b}, {b, a}} {
		comp.Compose(scene)
		c, _ := comp.Staging().Get(0, 0)
		if c.Glyph != "A" {
			t.Errorf("Expected sprite 5 on top at equal z, got %q", c.Glyph)
		}
	}
}

func TestHigherZMasksLower(t *testing.T) {
	comp, _ := NewCompositor(4, 1, nil)

	low := sprite.New(9, "L")
	low.Z = 5
	high := sprite.New(1, "H")
	high.Z = 6

	comp.Compose([]sprite.Sprite{low, high})
	c, _ := comp.Staging().Get(0, 0)
	if c.Glyph != "H" {
		t.Errorf("Expected higher z to mask lower, got %q", c.Glyph)
	}
}

func TestMalformedSpriteIsolated(t *testing.T) {
	comp, _ := NewCompositor(4, 1, nil)

	good := sprite.New(2, "ok")
	bad := sprite.Sprite{ID: 1, Visible: true} // no content

	comp.Compose([]sprite.Sprite{bad, good})
	c, _ := comp.Staging().Get(0, 0)
	if c.Glyph != "o" {
		t.Errorf("Malformed sprite blanked the frame: got %q", c.Glyph)
	}
}

func TestFlushErrorStillCommits(t *testing.T) {
	comp, _ := NewCompositor(4, 1, nil)
	sink := &recordingSink{failWrites: true}

	comp.Compose([]sprite.Sprite{fullCover(1, 4, 1, 0, "x")})
	if err := comp.Flush(sink); err == nil {
		t.Fatal("Expected flush error from failing sink")
	}

	// Committed state reflects the intended frame despite the write failure
	c, _ := comp.Committed().Get(0, 0)
	if c.Glyph != "x" {
		t.Errorf("Commit skipped on flush error: got %q", c.Glyph)
	}

	// Next flush diffs against intended state: same scene emits nothing
	ok := &recordingSink{}
	comp.Compose([]sprite.Sprite{fullCover(1, 4, 1, 0, "x")})
	if err := comp.Flush(ok); err != nil {
		t.Fatalf("Second flush failed: %v", err)
	}
	if len(ok.ops) != 0 {
		t.Errorf("Expected empty diff after committed error frame, got %v", ok.ops)
	}
}

func TestInvisibleSpriteNotPainted(t *testing.T) {
	comp, _ := NewCompositor(4, 1, nil)

	sp := sprite.New(1, "Q")
	sp.Visible = false
	comp.Compose([]sprite.Sprite{sp})

	c, _ := comp.Staging().Get(0, 0)
	if c.Glyph != "" {
		t.Errorf("Invisible sprite painted: %q", c.Glyph)
	}
}

func TestTransparentOverlayDiff(t *testing.T) {
	comp, _ := NewCompositor(6, 1, nil)
	sink := &recordingSink{}

	base := fullCover(1, 6, 1, 0, "#")
	base.Style.Bg = terminal.RGB{G: 80}
	comp.Compose([]sprite.Sprite{base})
	comp.Flush(sink)

	overlay := sprite.New(2, "T")
	overlay.X, overlay.Z = 2, 1
	overlay.Transparent = true
	overlay.Style = sprite.Style{Fg: terminal.RGB{R: 255}, Bg: terminal.RGB{B: 255}}

	sink.reset()
	comp.Compose([]sprite.Sprite{base, overlay})
	comp.Flush(sink)

	c, _ := comp.Committed().Get(2, 0)
	if c.Bg != base.Style.Bg {
		t.Errorf("Transparent overlay replaced background: %+v", c.Bg)
	}
	if c.Glyph != "T" {
		t.Errorf("Transparent overlay glyph missing: %q", c.Glyph)
	}
}

func TestUnderlinedBlankFgChangeReEmits(t *testing.T) {
	comp, _ := NewCompositor(4, 1, nil)
	sink := &recordingSink{}

	bg := DefaultCell
	bg.Attrs = terminal.AttrUnderline
	bg.Fg = terminal.RGB{R: 200}
	comp.SetBackground(bg)
	comp.Compose(nil)
	comp.Flush(sink)

	// Underline renders in the foreground color, so a blank cell with attrs
	// must still diff on fg
	bg.Fg = terminal.RGB{B: 200}
	comp.SetBackground(bg)
	sink.reset()
	comp.Compose(nil)
	comp.Flush(sink)

	if sink.writes == 0 || sink.styles == 0 {
		t.Errorf("Attributed blank fg change emitted writes=%d styles=%d", sink.writes, sink.styles)
	}

	// Without attributes the foreground of a blank cell stays invisible and
	// the same change emits nothing
	plain := DefaultCell
	plain.Fg = terminal.RGB{R: 200}
	comp.SetBackground(plain)
	comp.Compose(nil)
	comp.Flush(sink)

	plain.Fg = terminal.RGB{B: 200}
	comp.SetBackground(plain)
	sink.reset()
	comp.Compose(nil)
	comp.Flush(sink)

	if len(sink.ops) != 0 {
		t.Errorf("Unattributed blank fg change emitted %v", sink.ops)
	}
}
