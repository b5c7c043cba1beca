package g3d

import (
	"image/color"
	"math"
)

// RGBA represents a color with red, green, blue, and alpha components.
// Components are nominally in [0, 1]; lighting may push RGB above 1 before
// tone mapping.
type RGBA struct {
	R, G, B, A float64
}

// Common colors.
var (
	Black       = RGBA{R: 0, G: 0, B: 0, A: 1}
	White       = RGBA{R: 1, G: 1, B: 1, A: 1}
	Transparent = RGBA{}
)

// Color converts RGBA to the standard color.Color interface.
func (c RGBA) Color() color.Color {
	return color.NRGBA{
		R: uint8(clamp255(c.R * 255)),
		G: uint8(clamp255(c.G * 255)),
		B: uint8(clamp255(c.B * 255)),
		A: uint8(clamp255(c.A * 255)),
	}
}

// FromColor converts a standard color.Color to RGBA.
func FromColor(c color.Color) RGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGBA{
		R: float64(n.R) / 255,
		G: float64(n.G) / 255,
		B: float64(n.B) / 255,
		A: float64(n.A) / 255,
	}
}

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float64) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1.0}
}

// HexInt creates an opaque color from a 0xRRGGBB integer.
func HexInt(v uint32) RGBA {
	return RGBA{
		R: float64((v>>16)&0xff) / 255,
		G: float64((v>>8)&0xff) / 255,
		B: float64(v&0xff) / 255,
		A: 1,
	}
}

// Hex creates a color from a hex string.
// Supports formats: "RGB", "RGBA", "RRGGBB", "RRGGBBAA", with optional '#'.
// Unparseable input yields opaque black.
func Hex(hex string) RGBA {
	if hex != "" && hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint32
	a = 255

	switch len(hex) {
	case 3:
		r, g, b = parseHex(hex[0:1])*17, parseHex(hex[1:2])*17, parseHex(hex[2:3])*17
	case 4:
		r, g, b = parseHex(hex[0:1])*17, parseHex(hex[1:2])*17, parseHex(hex[2:3])*17
		a = parseHex(hex[3:4]) * 17
	case 6:
		r, g, b = parseHex(hex[0:2]), parseHex(hex[2:4]), parseHex(hex[4:6])
	case 8:
		r, g, b = parseHex(hex[0:2]), parseHex(hex[2:4]), parseHex(hex[4:6])
		a = parseHex(hex[6:8])
	default:
		return Black
	}

	return RGBA{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
		A: float64(a) / 255,
	}
}

func parseHex(s string) uint32 {
	var v uint32
	for i := 0; i < len(s); i++ {
		c := s[i]
		v *= 16
		switch {
		case '0' <= c && c <= '9':
			v += uint32(c - '0')
		case 'a' <= c && c <= 'f':
			v += uint32(c - 'a' + 10)
		case 'A' <= c && c <= 'F':
			v += uint32(c - 'A' + 10)
		default:
			return 0
		}
	}
	return v
}

// HSL creates an opaque color from hue (degrees), saturation and lightness.
func HSL(h, s, l float64) RGBA {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	h /= 360

	if s == 0 {
		return RGB(l, l, l)
	}

	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q

	return RGB(
		hueToRGB(p, q, h+1.0/3.0),
		hueToRGB(p, q, h),
		hueToRGB(p, q, h-1.0/3.0),
	)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6.0:
		return p + (q-p)*6*t
	case t < 0.5:
		return q
	case t < 2.0/3.0:
		return p + (q-p)*(2.0/3.0-t)*6
	default:
		return p
	}
}

// Add returns the component-wise sum of RGB; alpha is kept from c.
func (c RGBA) Add(o RGBA) RGBA {
	return RGBA{R: c.R + o.R, G: c.G + o.G, B: c.B + o.B, A: c.A}
}

// Mul returns the component-wise product of RGB; alpha is kept from c.
func (c RGBA) Mul(o RGBA) RGBA {
	return RGBA{R: c.R * o.R, G: c.G * o.G, B: c.B * o.B, A: c.A}
}

// Scale multiplies RGB by s; alpha is kept.
func (c RGBA) Scale(s float64) RGBA {
	return RGBA{R: c.R * s, G: c.G * s, B: c.B * s, A: c.A}
}

// WithAlpha returns c with its alpha replaced.
func (c RGBA) WithAlpha(a float64) RGBA {
	c.A = a
	return c
}

// Lerp performs linear interpolation between two colors.
func (c RGBA) Lerp(o RGBA, t float64) RGBA {
	return RGBA{
		R: c.R + (o.R-c.R)*t,
		G: c.G + (o.G-c.G)*t,
		B: c.B + (o.B-c.B)*t,
		A: c.A + (o.A-c.A)*t,
	}
}

// Approx returns true if two colors are approximately equal within epsilon.
func (c RGBA) Approx(o RGBA, epsilon float64) bool {
	return math.Abs(c.R-o.R) < epsilon &&
		math.Abs(c.G-o.G) < epsilon &&
		math.Abs(c.B-o.B) < epsilon &&
		math.Abs(c.A-o.A) < epsilon
}

func clamp255(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v + 0.5
}
