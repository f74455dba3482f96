package render

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/lixenwraith/termstage/terminal"
)

// Flush diffs the staging grid against the committed grid and emits the
// minimal write sequence to the sink: one MoveCursor per run of changed
// cells, SetStyle only when the style differs from the previously emitted
// cell, and glyph writes batched per style segment. Unchanged cells emit
// nothing, so the operation count tracks changed cells, not grid size.
//
// After emission the grids swap; the staging grid becomes committed without
// copying. A sink failure is returned as the frame error, but the commit
// still happens: the committed grid mirrors intended state so the next diff
// is computed correctly instead of re-sending the world.
func (c *Compositor) Flush(sink terminal.Sink) error {
	err := c.emit(sink)
	if ferr := sink.Flush(); err == nil {
		err = ferr
	}

	c.staging, c.committed = c.committed, c.staging
	c.full = false

	if err != nil {
		return errors.Wrap(err, "flush frame")
	}
	return nil
}

// emit walks both grids row by row and writes changed runs
func (c *Compositor) emit(sink terminal.Sink) error {
	staging := c.staging.cells
	committed := c.committed.cells
	width, height := c.staging.width, c.staging.height

	var (
		styleValid bool
		lastFg     terminal.RGB
		lastBg     terminal.RGB
		lastAttr   terminal.Attr
		run        strings.Builder
	)

	flushRun := func() error {
		if run.Len() == 0 {
			return nil
		}
		err := sink.WriteGlyphs(run.String())
		run.Reset()
		return err
	}

	for y := 0; y < height; y++ {
		rowStart := y * width
		x := 0

		for x < width {
			if !c.full && cellEqual(staging[rowStart+x], committed[rowStart+x]) {
				x++
				continue
			}

			// A changed continuation cell cannot be redrawn alone; pull the
			// run start back to the wide glyph's lead cell
			for x > 0 && staging[rowStart+x].Width == 0 {
				x--
			}

			if err := sink.MoveCursor(x, y); err != nil {
				return err
			}

			first := true
			for x < width {
				cell := staging[rowStart+x]
				if !first && !c.full && cellEqual(cell, committed[rowStart+x]) {
					break
				}
				first = false

				if !styleValid || cell.Fg != lastFg || cell.Bg != lastBg || cell.Attrs != lastAttr {
					if err := flushRun(); err != nil {
						return err
					}
					if err := sink.SetStyle(cell.Fg, cell.Bg, cell.Attrs); err != nil {
						return err
					}
					lastFg, lastBg, lastAttr = cell.Fg, cell.Bg, cell.Attrs
					styleValid = true
				}

				text := cell.Glyph
				if text == "" {
					text = " "
				}
				run.WriteString(text)

				// A wide lead consumes its continuation cells; its glyph
				// already covers those columns
				w := int(cell.Width)
				if w < 1 {
					w = 1
				}
				x += w
			}

			if err := flushRun(); err != nil {
				return err
			}
		}
	}

	return nil
}
