package g3d

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
)

// Pixmap is the renderer's output: 8-bit RGBA rows, top row first.
// Values are straight (not premultiplied) alpha.
type Pixmap struct {
	width  int
	height int
	data   []uint8
}

// NewPixmap allocates a transparent width x height pixmap.
func NewPixmap(width, height int) *Pixmap {
	return &Pixmap{width: width, height: height, data: make([]uint8, width*height*4)}
}

// Width returns the number of columns.
func (p *Pixmap) Width() int { return p.width }

// Height returns the number of rows.
func (p *Pixmap) Height() int { return p.height }

// Data returns the backing RGBA bytes. Writes are visible to the renderer's
// next frame only until it clears them.
func (p *Pixmap) Data() []uint8 { return p.data }

// offset returns the byte index of pixel (x, y).
func (p *Pixmap) offset(x, y int) (int, bool) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return 0, false
	}
	return (y*p.width + x) * 4, true
}

// pack quantizes c to 8 bits per channel.
func pack(c RGBA) [4]uint8 {
	return [4]uint8{
		uint8(clamp255(c.R * 255)),
		uint8(clamp255(c.G * 255)),
		uint8(clamp255(c.B * 255)),
		uint8(clamp255(c.A * 255)),
	}
}

// SetPixel stores c at (x, y). Out-of-range coordinates are ignored.
func (p *Pixmap) SetPixel(x, y int, c RGBA) {
	if i, ok := p.offset(x, y); ok {
		px := pack(c)
		copy(p.data[i:i+4], px[:])
	}
}

// GetPixel returns the color at (x, y), or Transparent outside the pixmap.
func (p *Pixmap) GetPixel(x, y int) RGBA {
	i, ok := p.offset(x, y)
	if !ok {
		return Transparent
	}
	px := p.data[i : i+4]
	return RGBA{
		R: float64(px[0]) / 255,
		G: float64(px[1]) / 255,
		B: float64(px[2]) / 255,
		A: float64(px[3]) / 255,
	}
}

// Clear fills every pixel with c.
func (p *Pixmap) Clear(c RGBA) {
	p.ClearRows(0, p.height, c)
}

// ClearRows fills rows [y0, y1) with c.
func (p *Pixmap) ClearRows(y0, y1 int, c RGBA) {
	px := pack(c)
	row := p.data[y0*p.width*4 : y1*p.width*4]
	for i := 0; i < len(row); i += 4 {
		copy(row[i:i+4], px[:])
	}
}

// ToImage converts the pixmap to an image.RGBA.
// Pixels are opaque after rendering, so no premultiplication is needed.
func (p *Pixmap) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	copy(img.Pix, p.data)
	return img
}

// View returns an image.RGBA sharing the pixmap's memory, for drawing
// overlays with image/draw. Rendered pixels are opaque, so the straight and
// premultiplied forms coincide.
func (p *Pixmap) View() *image.RGBA {
	return &image.RGBA{
		Pix:    p.data,
		Stride: p.width * 4,
		Rect:   image.Rect(0, 0, p.width, p.height),
	}
}

// SavePNG saves the pixmap to a PNG file.
func (p *Pixmap) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return fmt.Errorf("g3d: save png: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	if err := png.Encode(f, p.ToImage()); err != nil {
		return fmt.Errorf("g3d: encode png: %w", err)
	}
	return nil
}

// At implements the image.Image interface.
func (p *Pixmap) At(x, y int) color.Color {
	return p.GetPixel(x, y).Color()
}

// Bounds implements the image.Image interface.
func (p *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// ColorModel implements the image.Image interface.
func (p *Pixmap) ColorModel() color.Model {
	return color.NRGBAModel
}

// DepthBuffer stores one NDC depth value per pixel. Smaller is closer.
type DepthBuffer struct {
	width  int
	height int
	data   []float64
}

// NewDepthBuffer creates a depth buffer cleared to +Inf.
func NewDepthBuffer(width, height int) *DepthBuffer {
	d := &DepthBuffer{
		width:  width,
		height: height,
		data:   make([]float64, width*height),
	}
	d.ClearRows(0, height)
	return d
}

// ClearRows resets rows [y0, y1) to +Inf.
func (d *DepthBuffer) ClearRows(y0, y1 int) {
	inf := math.Inf(1)
	for i := y0 * d.width; i < y1*d.width; i++ {
		d.data[i] = inf
	}
}

// At returns the stored depth at (x, y).
func (d *DepthBuffer) At(x, y int) float64 {
	if x < 0 || x >= d.width || y < 0 || y >= d.height {
		return math.Inf(1)
	}
	return d.data[y*d.width+x]
}

// test reports whether z passes the less-than test at (x, y) and, if write
// is set, stores it.
func (d *DepthBuffer) test(x, y int, z float64, write bool) bool {
	i := y*d.width + x
	if z >= d.data[i] {
		return false
	}
	if write {
		d.data[i] = z
	}
	return true
}
