package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TrigTable provides precomputed sin values for fast lookup, with linear
// interpolation between entries.
type TrigTable struct {
	sin []float64
	n   int
}

// DefaultTrigTable has 4096 entries, about 0.0015 rad resolution.
var DefaultTrigTable = NewTrigTable(4096)

func NewTrigTable(n int) *TrigTable {
	t := &TrigTable{sin: make([]float64, n), n: n}
	for i := 0; i < n; i++ {
		t.sin[i] = math.Sin(float64(i) * 2 * math.Pi / float64(n))
	}
	return t
}

func (t *TrigTable) Sin(x float64) float64 {
	x = math.Mod(x, 2*math.Pi)
	if x < 0 {
		x += 2 * math.Pi
	}

	idx := x * float64(t.n) / (2 * math.Pi)
	i := int(idx)
	frac := idx - float64(i)

	i0 := i % t.n
	i1 := (i + 1) % t.n
	return t.sin[i0]*(1-frac) + t.sin[i1]*frac
}

// RGB is a display colour.
type RGB struct {
	R, G, B uint8
}

// PhaseColor cycles through the hue wheel as phase goes from 0 to 2π,
// with the three channels a third of a turn apart.
func PhaseColor(phase float64) RGB {
	channel := func(offset float64) uint8 {
		return uint8(math.Floor(127*DefaultTrigTable.Sin(phase+offset) + 128))
	}
	return RGB{channel(0), channel(2 * math.Pi / 3), channel(4 * math.Pi / 3)}
}

// Scale dims c towards black by a in [0,1].
func (c RGB) Scale(a float64) RGB {
	a = math.Max(0, math.Min(1, a))
	return RGB{uint8(float64(c.R) * a), uint8(float64(c.G) * a), uint8(float64(c.B) * a)}
}

func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c RGB) Color() lipgloss.Color {
	return lipgloss.Color(c.Hex())
}

// ParseColor reads the CSS colour forms scenes use: #rrggbb, #rgb,
// rgb(r,g,b) and hsl(h,s%,l%).
func ParseColor(s string) (RGB, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(s, "#"):
		return parseHex(s[1:])
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		v, ok := parseArgs(s[4:len(s)-1], 3)
		if !ok {
			return RGB{}, false
		}
		return RGB{clampByte(v[0]), clampByte(v[1]), clampByte(v[2])}, true
	case strings.HasPrefix(s, "hsl(") && strings.HasSuffix(s, ")"):
		v, ok := parseArgs(s[4:len(s)-1], 3)
		if !ok {
			return RGB{}, false
		}
		return hslToRGB(v[0], v[1]/100, v[2]/100), true
	}
	return RGB{}, false
}

func parseHex(h string) (RGB, bool) {
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return RGB{}, false
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return RGB{}, false
	}
	return RGB{uint8(v >> 16), uint8(v >> 8), uint8(v)}, true
}

func parseArgs(s string, n int) ([]float64, bool) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, false
	}
	out := make([]float64, n)
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(part), "%"), 64)
		if err != nil {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

func hslToRGB(h, s, l float64) RGB {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - c/2

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return RGB{clampByte((r + m) * 255), clampByte((g + m) * 255), clampByte((b + m) * 255)}
}

func clampByte(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(255, v))))
}

// ToRGB converts a theme colour, falling back to black when it is not a
// hex or functional notation colour.
func ToRGB(c lipgloss.Color) RGB {
	rgb, _ := ParseColor(string(c))
	return rgb
}
