package terminal

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
)

// RGB is a 24-bit colour given as three 0-255 components.
type RGB struct {
	R, G, B uint8
}

// ParseRGB parses "r g b" (commas are accepted as separators too).
func ParseRGB(s string) (RGB, error) {
	fields := strings.Fields(strings.ReplaceAll(s, ",", " "))
	if len(fields) != 3 {
		return RGB{}, fmt.Errorf("invalid color %q: want three components \"r g b\"", s)
	}
	var parts [3]uint8
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil || v < 0 || v > 255 {
			return RGB{}, fmt.Errorf("invalid color %q: component %q is not in 0-255", s, f)
		}
		parts[i] = uint8(v)
	}
	return RGB{R: parts[0], G: parts[1], B: parts[2]}, nil
}

// Hex returns the colour as "#rrggbb".
func (c RGB) Hex() string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}

func (c RGB) String() string {
	return fmt.Sprintf("%d %d %d", c.R, c.G, c.B)
}

// Highlighter produces the escape sequences used to mark the selected cell.
// A nil Highlighter means the terminal gets plain bracket markers instead.
type Highlighter interface {
	Foreground(c RGB) string
	Background(c RGB) string
	Reset() string
}

// profileHighlighter emits SGR sequences degraded to what the profile supports.
type profileHighlighter struct {
	profile termenv.Profile
}

// NewHighlighter returns a Highlighter for the given colour profile, or nil
// when the profile cannot show colour.
func NewHighlighter(p termenv.Profile) Highlighter {
	if p == termenv.Ascii {
		return nil
	}
	return profileHighlighter{profile: p}
}

// DetectHighlighter inspects w (and NO_COLOR / CLICOLOR_FORCE) to decide
// whether selected cells can be coloured.
func DetectHighlighter(w io.Writer) Highlighter {
	out := termenv.NewOutput(w)
	return NewHighlighter(out.Profile)
}

func (h profileHighlighter) Foreground(c RGB) string {
	return h.sequence(c, false)
}

func (h profileHighlighter) Background(c RGB) string {
	return h.sequence(c, true)
}

func (h profileHighlighter) Reset() string {
	return termenv.CSI + termenv.ResetSeq + "m"
}

func (h profileHighlighter) sequence(c RGB, bg bool) string {
	seq := h.profile.Color(c.Hex()).Sequence(bg)
	if seq == "" {
		return ""
	}
	return termenv.CSI + seq + "m"
}
