package g3d

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register decoders for texture assets
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ErrTextureNotLoaded is returned by Texture.Err while a load is pending.
var ErrTextureNotLoaded = errors.New("g3d: texture not loaded")

// TextureState describes the progress of an asynchronous load.
type TextureState int32

const (
	TexturePending TextureState = iota
	TextureReady
	TextureFailed
)

// texels is an immutable decoded image in linear color.
type texels struct {
	width, height int
	pix           []float32 // RGBA, 4 per texel, row 0 is the top of the image
}

// Texture is an image sampled by materials.
//
// Textures produced by a TextureLoader start pending and become ready when
// their goroutine finishes decoding. Sample is safe to call from any
// goroutine at any time; until the texture is ready it reports ok=false and
// materials fall back to their base color.
type Texture struct {
	// Name is the URL or path the texture was loaded from.
	Name string

	// ColorSpace of the source pixels. sRGB images are decoded to linear.
	ColorSpace ColorSpace

	data  atomic.Pointer[texels]
	state atomic.Int32
	err   atomic.Pointer[error]
}

// NewTextureFromImage creates a ready texture from an in-memory image.
func NewTextureFromImage(img image.Image, cs ColorSpace) *Texture {
	t := &Texture{ColorSpace: cs}
	t.publish(img)
	return t
}

// State returns the load state.
func (t *Texture) State() TextureState {
	return TextureState(t.state.Load())
}

// Ready reports whether Sample returns image data.
func (t *Texture) Ready() bool {
	return t.State() == TextureReady
}

// Err returns the load error, ErrTextureNotLoaded while pending, or nil.
func (t *Texture) Err() error {
	switch t.State() {
	case TextureReady:
		return nil
	case TextureFailed:
		if e := t.err.Load(); e != nil {
			return *e
		}
		return ErrTextureNotLoaded
	default:
		return ErrTextureNotLoaded
	}
}

// Size returns the decoded dimensions, or 0, 0 if not ready.
func (t *Texture) Size() (width, height int) {
	d := t.data.Load()
	if d == nil {
		return 0, 0
	}
	return d.width, d.height
}

func (t *Texture) publish(img image.Image) {
	b := img.Bounds()
	rgba := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)

	d := &texels{width: b.Dx(), height: b.Dy(), pix: make([]float32, b.Dx()*b.Dy()*4)}
	for i := 0; i < len(rgba.Pix); i += 4 {
		r := float64(rgba.Pix[i+0]) / 255
		g := float64(rgba.Pix[i+1]) / 255
		bl := float64(rgba.Pix[i+2]) / 255
		if t.ColorSpace == SRGBColorSpace {
			r, g, bl = SRGBToLinear(r), SRGBToLinear(g), SRGBToLinear(bl)
		}
		d.pix[i+0] = float32(r)
		d.pix[i+1] = float32(g)
		d.pix[i+2] = float32(bl)
		d.pix[i+3] = float32(rgba.Pix[i+3]) / 255
	}
	t.data.Store(d)
	t.state.Store(int32(TextureReady))
}

func (t *Texture) fail(err error) {
	t.err.Store(&err)
	t.state.Store(int32(TextureFailed))
}

// Sample returns the bilinearly filtered, repeat-wrapped texel at uv, in
// linear color. V=1 is the top row of the image.
func (t *Texture) Sample(uv Vec2) (RGBA, bool) {
	d := t.data.Load()
	if d == nil || d.width == 0 || d.height == 0 {
		return RGBA{}, false
	}

	x := uv.X*float64(d.width) - 0.5
	y := (1-uv.Y)*float64(d.height) - 0.5
	x0 := math.Floor(x)
	y0 := math.Floor(y)
	fx := x - x0
	fy := y - y0

	ix0 := wrapIndex(int(x0), d.width)
	ix1 := wrapIndex(int(x0)+1, d.width)
	iy0 := wrapIndex(int(y0), d.height)
	iy1 := wrapIndex(int(y0)+1, d.height)

	c00 := d.at(ix0, iy0)
	c10 := d.at(ix1, iy0)
	c01 := d.at(ix0, iy1)
	c11 := d.at(ix1, iy1)

	top := c00.Lerp(c10, fx)
	bottom := c01.Lerp(c11, fx)
	return top.Lerp(bottom, fy), true
}

func (d *texels) at(x, y int) RGBA {
	i := (y*d.width + x) * 4
	return RGBA{
		R: float64(d.pix[i+0]),
		G: float64(d.pix[i+1]),
		B: float64(d.pix[i+2]),
		A: float64(d.pix[i+3]),
	}
}

func wrapIndex(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// TextureLoader loads textures asynchronously.
//
// Load never blocks and never fails: errors are logged and leave the texture
// in the failed state, so materials keep rendering their base color.
type TextureLoader struct {
	// MaxSize bounds the larger image dimension; bigger images are
	// downsampled with a Catmull-Rom filter. Zero means 2048.
	MaxSize int

	// Client fetches http(s) URLs. Nil means a client with a 30s timeout.
	Client *http.Client

	ctx context.Context
	wg  sync.WaitGroup
}

// NewTextureLoader creates a loader whose pending loads are abandoned when
// ctx is cancelled.
func NewTextureLoader(ctx context.Context) *TextureLoader {
	return &TextureLoader{ctx: ctx}
}

// Load starts loading the image at url (a file path, file:// or http(s)://
// URL) and returns the pending texture immediately.
func (l *TextureLoader) Load(url string) *Texture {
	t := &Texture{Name: url, ColorSpace: SRGBColorSpace}
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		start := time.Now()
		img, err := l.decode(url)
		if err != nil {
			t.fail(err)
			Logger().Warn("texture load failed", "url", url, "err", err)
			return
		}
		t.publish(img)
		w, h := t.Size()
		Logger().Info("texture loaded", "url", url, "width", w, "height", h, "elapsed", time.Since(start))
	}()
	return t
}

// Wait blocks until every texture started by Load has finished (either
// way) or ctx is done.
func (l *TextureLoader) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *TextureLoader) decode(url string) (image.Image, error) {
	rc, err := l.open(url)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rc.Close()
	}()

	img, format, err := image.Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("g3d: decode %s: %w", url, err)
	}
	Logger().Debug("texture decoded", "url", url, "format", format)
	return l.limit(img), nil
}

func (l *TextureLoader) open(url string) (io.ReadCloser, error) {
	ctx := l.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("g3d: texture request: %w", err)
		}
		client := l.Client
		if client == nil {
			client = &http.Client{Timeout: 30 * time.Second}
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("g3d: fetch %s: %w", url, err)
		}
		if resp.StatusCode != http.StatusOK {
			_ = resp.Body.Close()
			return nil, fmt.Errorf("g3d: fetch %s: status %s", url, resp.Status)
		}
		return resp.Body, nil
	}

	f, err := os.Open(strings.TrimPrefix(url, "file://"))
	if err != nil {
		return nil, fmt.Errorf("g3d: open texture: %w", err)
	}
	return f, nil
}

// limit downsamples img so that neither side exceeds MaxSize.
func (l *TextureLoader) limit(img image.Image) image.Image {
	maxSize := l.MaxSize
	if maxSize <= 0 {
		maxSize = 2048
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxSize && h <= maxSize {
		return img
	}
	scale := float64(maxSize) / float64(max(w, h))
	dw := max(1, int(float64(w)*scale))
	dh := max(1, int(float64(h)*scale))
	dst := image.NewNRGBA(image.Rect(0, 0, dw, dh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
