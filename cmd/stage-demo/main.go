// Demo scene: a bouncing sprite over a patterned floor, a transparent
// overlay, and a collision blip when bounding boxes start to touch.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/termstage/sprite"
	"github.com/lixenwraith/termstage/stage"
	"github.com/lixenwraith/termstage/terminal"
)

const floorGlyphs = ". "

var ball = strings.Join([]string{
	`/---\`,
	`| o |`,
	`\---/`,
}, "\n")

var frame = strings.Join([]string{
	`#############`,
	`#           #`,
	`#           #`,
	`#           #`,
	`#############`,
}, "\n")

func main() {
	var (
		fps      = flag.Int("fps", 20, "frames per second")
		duration = flag.Duration("duration", 15*time.Second, "how long to run")
		noSound  = flag.Bool("no-sound", false, "disable collision blips")
	)
	flag.Parse()

	backend := terminal.NewBackend()
	if err := backend.Init(); err != nil {
		log.Fatalf("terminal init failed: %v", err)
	}
	defer backend.Fini()
	backend.SetTitle("stage demo")

	audio := false
	if !*noSound {
		sr := beep.SampleRate(44100)
		if err := speaker.Init(sr, sr.N(time.Second/10)); err != nil {
			// Non-fatal, the demo can run without sound
			log.Printf("audio initialization failed: %v", err)
		} else {
			audio = true
		}
	}

	width, height := backend.Size()
	sink := terminal.NewAnsiSink(os.Stdout, terminal.DetectColorMode())
	st, err := stage.New(sink, width, height)
	if err != nil {
		backend.Fini()
		log.Fatalf("stage init failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	runner := stage.NewRunner(st, backend.ResizeChan(), time.Second/time.Duration(*fps))

	dx, dy := 1, 1
	bx, by := 2, 2
	overlapping := false

	err = runner.Run(ctx, func(frameNum, w, h int) (sprite.Snapshot, bool) {
		// Bounce the ball off the viewport edges
		if bx+5+dx > w || bx+dx < 0 {
			dx = -dx
		}
		if by+3+dy > h || by+dy < 0 {
			dy = -dy
		}
		bx += dx
		by += dy

		hue := float64(frameNum % 360)
		cr, cg, cb := colorful.Hsv(hue, 0.7, 1).RGB255()

		snap := sprite.Snapshot{
			Sprites: []sprite.Sprite{
				floorSprite(1, w, h),
				frameSprite(2, w, h),
				{
					ID: 3, X: bx, Y: by, Z: 2, Visible: true, Transparent: true,
					Lines: sprite.SplitLines(ball),
					Style: sprite.Style{Fg: terminal.RGB{R: cr, G: cg, B: cb}, Bg: terminal.Black, Attrs: terminal.AttrBold},
				},
			},
		}

		// Overlaps reflect the previously indexed frame
		now := len(st.Overlaps()) > 0
		if now && !overlapping && audio {
			blip()
		}
		overlapping = now

		return snap, true
	})
	if err != nil && err != context.DeadlineExceeded {
		backend.Fini()
		log.Fatalf("run failed: %v", err)
	}
}

// floorSprite fills the viewport with a dotted pattern
func floorSprite(id sprite.ID, w, h int) sprite.Sprite {
	row := strings.Repeat(floorGlyphs, (w+1)/2)[:w]
	lines := make([]string, h)
	for i := range lines {
		lines[i] = row
	}
	return sprite.Sprite{
		ID: id, Z: 0, Visible: true,
		Lines: lines,
		Style: sprite.Style{Fg: terminal.RGB{R: 60, G: 70, B: 90}, Bg: terminal.RGB{R: 16, G: 18, B: 24}},
	}
}

// frameSprite centers a fixed box the ball can collide with
func frameSprite(id sprite.ID, w, h int) sprite.Sprite {
	sp := sprite.New(id, frame)
	sp.X = w/2 - 6
	sp.Y = h/2 - 2
	sp.Z = 1
	sp.Style = sprite.Style{Fg: terminal.RGB{R: 160, G: 160, B: 180}, Bg: terminal.RGB{R: 30, G: 32, B: 44}}
	return sp
}

// blip plays a short sine tone
func blip() {
	sr := beep.SampleRate(44100)
	tone, err := generators.SinTone(sr, 880)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(sr.N(60*time.Millisecond), tone))
}
