package g3d

import (
	"math"
	"testing"
)

func TestSRGBRoundTrip(t *testing.T) {
	for _, v := range []float64{0, 0.001, 0.04, 0.2, 0.5, 0.9, 1} {
		got := LinearToSRGB(SRGBToLinear(v))
		if math.Abs(got-v) > 1e-9 {
			t.Errorf("LinearToSRGB(SRGBToLinear(%v)) = %v", v, got)
		}
	}
}

func TestACESFilmicRange(t *testing.T) {
	prev := -1.0
	for _, x := range []float64{0, 0.1, 0.5, 1, 2, 8, 100} {
		y := acesFilmic(x)
		if y < 0 || y > 1 {
			t.Errorf("acesFilmic(%v) = %v, out of [0,1]", x, y)
		}
		if y < prev {
			t.Errorf("acesFilmic not monotonic at %v", x)
		}
		prev = y
	}
}

func TestToneMap(t *testing.T) {
	tests := []struct {
		name string
		in   RGBA
		mode ToneMapping
		out  ColorSpace
		want RGBA
	}{
		{"clamp linear", RGB(2, 0.5, -1), NoToneMapping, LinearColorSpace, RGB(1, 0.5, 0)},
		{"srgb white", White, NoToneMapping, SRGBColorSpace, White},
		{"srgb black", Black, ACESFilmicToneMapping, SRGBColorSpace, Black},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := toneMap(tt.in, tt.mode, 1, tt.out); !got.Approx(tt.want, 1e-6) {
				t.Errorf("toneMap = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseToneMapping(t *testing.T) {
	tests := []struct {
		in   string
		want ToneMapping
		ok   bool
	}{
		{"", NoToneMapping, true},
		{"none", NoToneMapping, true},
		{"aces", ACESFilmicToneMapping, true},
		{"reinhard", NoToneMapping, false},
	}
	for _, tt := range tests {
		got, ok := ParseToneMapping(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseToneMapping(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
		if ok && got.String() != tt.in && tt.in != "" {
			t.Errorf("%v.String() = %q, want %q", got, got.String(), tt.in)
		}
	}
}
