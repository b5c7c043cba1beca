package demo

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Overlay text layout, in pixels.
const (
	hudMargin  = 8
	hudPadding = 6
	hudLeading = 4
)

var hudPanel = color.NRGBA{A: 0x99}

// Title returns a display title for a demo name, such as "Flight".
func Title(name string) string {
	return cases.Title(language.English).String(name)
}

// OverlayLines returns the status lines drawn over a demo's frames: the demo
// title followed by whatever the demo reports through Overlay.
func OverlayLines(d Demo) []string {
	lines := []string{Title(d.Name())}
	if o, ok := d.(Overlay); ok {
		lines = append(lines, o.Overlay()...)
	}
	return lines
}

// DrawOverlay draws lines of text on a translucent panel in the top-left
// corner of dst. It does nothing for empty input.
func DrawOverlay(dst draw.Image, lines []string) {
	if len(lines) == 0 {
		return
	}

	face := basicfont.Face7x13
	metrics := face.Metrics()
	lineHeight := metrics.Height.Ceil() + hudLeading

	width := 0
	for _, line := range lines {
		if w := font.MeasureString(face, line).Ceil(); w > width {
			width = w
		}
	}

	panel := image.Rect(hudMargin, hudMargin,
		hudMargin+width+2*hudPadding,
		hudMargin+len(lines)*lineHeight-hudLeading+2*hudPadding)
	draw.Draw(dst, panel.Intersect(dst.Bounds()), image.NewUniform(hudPanel), image.Point{}, draw.Over)

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.White,
		Face: face,
	}
	for i, line := range lines {
		baseline := panel.Min.Y + hudPadding + i*lineHeight + metrics.Ascent.Ceil()
		d.Dot = fixed.P(panel.Min.X+hudPadding, baseline)
		d.DrawString(line)
	}
}
