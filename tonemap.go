package g3d

import "math"

// ToneMapping selects how linear HDR color is compressed into [0, 1].
type ToneMapping int

const (
	// NoToneMapping clamps each channel.
	NoToneMapping ToneMapping = iota
	// ACESFilmicToneMapping applies the Narkowicz ACES filmic fit.
	ACESFilmicToneMapping
)

// String returns the name used in configuration files.
func (t ToneMapping) String() string {
	switch t {
	case ACESFilmicToneMapping:
		return "aces"
	default:
		return "none"
	}
}

// ParseToneMapping maps a configuration name to a ToneMapping.
func ParseToneMapping(s string) (ToneMapping, bool) {
	switch s {
	case "", "none":
		return NoToneMapping, true
	case "aces":
		return ACESFilmicToneMapping, true
	}
	return NoToneMapping, false
}

// ColorSpace identifies the transfer function of stored color values.
type ColorSpace int

const (
	// SRGBColorSpace is gamma-encoded sRGB (PNG, JPEG pixels, display output).
	SRGBColorSpace ColorSpace = iota
	// LinearColorSpace stores linear light.
	LinearColorSpace
)

// SRGBToLinear decodes one sRGB channel value.
func SRGBToLinear(c float64) float64 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

// LinearToSRGB encodes one linear channel value.
func LinearToSRGB(c float64) float64 {
	if c <= 0.0031308 {
		return c * 12.92
	}
	return 1.055*math.Pow(c, 1/2.4) - 0.055
}

func acesFilmic(x float64) float64 {
	const (
		a = 2.51
		b = 0.03
		c = 2.43
		d = 0.59
		e = 0.14
	)
	return clamp((x*(a*x+b))/(x*(c*x+d)+e), 0, 1)
}

// toneMap converts a linear fragment color to an output color.
func toneMap(c RGBA, mode ToneMapping, exposure float64, out ColorSpace) RGBA {
	r, g, b := c.R*exposure, c.G*exposure, c.B*exposure
	if mode == ACESFilmicToneMapping {
		r, g, b = acesFilmic(r), acesFilmic(g), acesFilmic(b)
	} else {
		r, g, b = clamp(r, 0, 1), clamp(g, 0, 1), clamp(b, 0, 1)
	}
	if out == SRGBColorSpace {
		r, g, b = LinearToSRGB(r), LinearToSRGB(g), LinearToSRGB(b)
	}
	return RGBA{R: r, G: g, B: b, A: c.A}
}

// ToLinear converts an sRGB color to linear light, keeping alpha.
func (c RGBA) ToLinear() RGBA {
	return RGBA{R: SRGBToLinear(c.R), G: SRGBToLinear(c.G), B: SRGBToLinear(c.B), A: c.A}
}
