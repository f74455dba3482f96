package terminal

import (
	"os"
	"strings"
)

// ColorMode indicates terminal color capability
type ColorMode uint8

const (
	ColorMode256       ColorMode = iota // xterm-256 palette
	ColorModeTrueColor                  // 24-bit RGB
)

// RGB represents a 24-bit color
type RGB struct {
	R, G, B uint8
}

// Common colors
var (
	Black = RGB{0, 0, 0}
	White = RGB{255, 255, 255}
)

// Color cube values for the 6x6x6 palette (indices 16-231)
// Levels: 0, 95, 135, 175, 215, 255
var cubeValues = [6]uint8{0, 95, 135, 175, 215, 255}

// cubeIndex maps 0-255 to the nearest cube level, pre-computed at init
var cubeIndex [256]uint8

func init() {
	for i := 0; i < 256; i++ {
		best := 0
		bestDist := absInt(i - int(cubeValues[0]))
		for j := 1; j < 6; j++ {
			d := absInt(i - int(cubeValues[j]))
			if d < bestDist {
				bestDist = d
				best = j
			}
		}
		cubeIndex[i] = uint8(best)
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// RGBTo256 converts RGB to the nearest 256-color palette index.
// Prefers the grayscale ramp (232-255) when channels are near-equal,
// otherwise uses the 6x6x6 color cube.
func RGBTo256(c RGB) uint8 {
	gray := (int(c.R) + int(c.G) + int(c.B)) / 3
	maxDiff := max(absInt(int(c.R)-gray), absInt(int(c.G)-gray), absInt(int(c.B)-gray))

	if maxDiff < 10 {
		if gray < 4 {
			return 16
		}
		if gray > 243 {
			return 231
		}
		grayIdx := uint8(232 + (gray-8)/10)

		grayLevel := 8 + int(grayIdx-232)*10
		grayDist := absInt(int(c.R)-grayLevel) + absInt(int(c.G)-grayLevel) + absInt(int(c.B)-grayLevel)

		cr, cg, cb := cubeIndex[c.R], cubeIndex[c.G], cubeIndex[c.B]
		cubeDist := absInt(int(c.R)-int(cubeValues[cr])) +
			absInt(int(c.G)-int(cubeValues[cg])) +
			absInt(int(c.B)-int(cubeValues[cb]))

		if grayDist < cubeDist {
			return grayIdx
		}
	}

	return 16 + 36*cubeIndex[c.R] + 6*cubeIndex[c.G] + cubeIndex[c.B]
}

// DetectColorMode determines terminal color capability from environment
func DetectColorMode() ColorMode {
	colorterm := os.Getenv("COLORTERM")
	if colorterm == "truecolor" || colorterm == "24bit" {
		return ColorModeTrueColor
	}

	if os.Getenv("KITTY_WINDOW_ID") != "" ||
		os.Getenv("KONSOLE_VERSION") != "" ||
		os.Getenv("ITERM_SESSION_ID") != "" ||
		os.Getenv("ALACRITTY_WINDOW_ID") != "" ||
		os.Getenv("WEZTERM_PANE") != "" {
		return ColorModeTrueColor
	}

	term := strings.ToLower(os.Getenv("TERM"))
	if strings.Contains(term, "truecolor") ||
		strings.Contains(term, "24bit") ||
		strings.Contains(term, "direct") {
		return ColorModeTrueColor
	}

	return ColorMode256
}
