package sprite

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"

	"github.com/lixenwraith/termstage/terminal"
)

// LoadSprite reads a .txt sprite asset: the file body becomes the sprite's
// content lines verbatim (a trailing newline is not a content row)
func LoadSprite(path string, id ID) (Sprite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Sprite{}, errors.Wrap(err, "read sprite asset")
	}
	text := strings.TrimSuffix(string(data), "\n")
	return New(id, text), nil
}

// styleMapFile is the TOML shape of a .stylemap asset
type styleMapFile struct {
	Styles map[string]styleDef `toml:"styles"`
}

type styleDef struct {
	Fg    string   `toml:"fg"`
	Bg    string   `toml:"bg"`
	Attrs []string `toml:"attrs"`
}

// LoadStyleMap reads a TOML style map asset naming reusable sprite styles:
//
//	[styles.hero]
//	fg = "#e0af68"
//	bg = "black"
//	attrs = ["bold"]
func LoadStyleMap(path string) (map[string]Style, error) {
	var file styleMapFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, errors.Wrap(err, "decode style map")
	}

	out := make(map[string]Style, len(file.Styles))
	for name, def := range file.Styles {
		st := DefaultStyle
		if def.Fg != "" {
			c, err := ParseColor(def.Fg)
			if err != nil {
				return nil, errors.Wrapf(err, "style %q fg", name)
			}
			st.Fg = c
		}
		if def.Bg != "" {
			c, err := ParseColor(def.Bg)
			if err != nil {
				return nil, errors.Wrapf(err, "style %q bg", name)
			}
			st.Bg = c
		}
		for _, a := range def.Attrs {
			attr, err := parseAttr(a)
			if err != nil {
				return nil, errors.Wrapf(err, "style %q", name)
			}
			st.Attrs |= attr
		}
		out[name] = st
	}
	return out, nil
}

// namedColors covers the original's basic palette
var namedColors = map[string]terminal.RGB{
	"black":   {R: 0, G: 0, B: 0},
	"red":     {R: 255, G: 0, B: 0},
	"green":   {R: 0, G: 255, B: 0},
	"yellow":  {R: 255, G: 255, B: 0},
	"blue":    {R: 0, G: 0, B: 255},
	"magenta": {R: 255, G: 0, B: 255},
	"cyan":    {R: 0, G: 255, B: 255},
	"white":   {R: 255, G: 255, B: 255},
	"grey":    {R: 128, G: 128, B: 128},
	"gray":    {R: 128, G: 128, B: 128},
}

// ParseColor accepts a named color or a #rrggbb hex value
func ParseColor(s string) (terminal.RGB, error) {
	if c, ok := namedColors[strings.ToLower(s)]; ok {
		return c, nil
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return terminal.RGB{}, errors.Wrapf(err, "color %q", s)
	}
	r, g, b := c.RGB255()
	return terminal.RGB{R: r, G: g, B: b}, nil
}

// parseAttr maps an attribute name to its bitmask flag
func parseAttr(s string) (terminal.Attr, error) {
	switch strings.ToLower(s) {
	case "bold":
		return terminal.AttrBold, nil
	case "dim":
		return terminal.AttrDim, nil
	case "italic":
		return terminal.AttrItalic, nil
	case "underline":
		return terminal.AttrUnderline, nil
	case "blink":
		return terminal.AttrBlink, nil
	case "reverse":
		return terminal.AttrReverse, nil
	default:
		return terminal.AttrNone, errors.Errorf("unknown attribute %q", s)
	}
}
