package terminal

import (
	"testing"
)

func TestRGBTo256PrimaryColors(t *testing.T) {
	tests := []struct {
		c    RGB
		want uint8
	}{
		{RGB{0, 0, 0}, 16},        // cube black
		{RGB{255, 255, 255}, 231}, // cube white
		{RGB{255, 0, 0}, 196},
		{RGB{0, 255, 0}, 46},
		{RGB{0, 0, 255}, 21},
		{RGB{255, 255, 0}, 226},
	}
	for _, tc := range tests {
		if got := RGBTo256(tc.c); got != tc.want {
			t.Errorf("RGBTo256(%+v) = %d, want %d", tc.c, got, tc.want)
		}
	}
}

func TestRGBTo256GrayscalePrefersRamp(t *testing.T) {
	got := RGBTo256(RGB{128, 128, 128})
	if got < 232 {
		t.Errorf("Mid gray mapped to cube index %d, expected grayscale ramp", got)
	}
}

func TestRGBTo256NearGrayStaysReasonable(t *testing.T) {
	// Slightly tinted grays must still land in ramp or nearby cube greys
	idx := RGBTo256(RGB{120, 125, 122})
	if idx < 16 {
		t.Errorf("Tinted gray mapped to system palette index %d", idx)
	}
}

func TestClusterWidth(t *testing.T) {
	m := RunewidthMeasurer{}

	tests := []struct {
		in   string
		want int
	}{
		{"a", 1},
		{" ", 1},
		{"世", 2},
		{"ｱ", 1}, // halfwidth katakana
	}
	for _, tc := range tests {
		got, err := m.ClusterWidth(tc.in)
		if err != nil {
			t.Errorf("ClusterWidth(%q) failed: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ClusterWidth(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestClusterWidthEmptyErrors(t *testing.T) {
	if _, err := (RunewidthMeasurer{}).ClusterWidth(""); err == nil {
		t.Error("Expected error for empty cluster")
	}
}
