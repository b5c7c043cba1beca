package g3d

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// checker returns a w x h image with red texels on even (x+y) and blue
// elsewhere.
func checker(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{B: 255, A: 255}
			if (x+y)%2 == 0 {
				c = color.NRGBA{R: 255, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func writePNG(t *testing.T, dir string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, "tex.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTextureFromImageSample(t *testing.T) {
	tex := NewTextureFromImage(checker(2, 2), SRGBColorSpace)

	if !tex.Ready() || tex.Err() != nil {
		t.Fatalf("state = %v, err = %v; want ready", tex.State(), tex.Err())
	}
	if w, h := tex.Size(); w != 2 || h != 2 {
		t.Errorf("Size() = %d, %d, want 2, 2", w, h)
	}

	tests := []struct {
		name string
		uv   Vec2
		want RGBA
	}{
		// V=1 is the top row: texel (0,0) is red.
		{"top left", V2(0.25, 0.75), RGB(1, 0, 0)},
		{"top right", V2(0.75, 0.75), RGB(0, 0, 1)},
		{"bottom left", V2(0.25, 0.25), RGB(0, 0, 1)},
		{"wrapped", V2(1.25, -0.25), RGB(1, 0, 0)},
		{"negative wrap", V2(-0.75, 0.75), RGB(1, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tex.Sample(tt.uv)
			if !ok {
				t.Fatal("Sample reported not ready")
			}
			if !got.Approx(tt.want, 1e-6) {
				t.Errorf("Sample(%v) = %+v, want %+v", tt.uv, got, tt.want)
			}
		})
	}

	// Between two texel centers the filter averages.
	got, _ := tex.Sample(V2(0.5, 0.75))
	if !got.Approx(RGBA{R: 0.5, B: 0.5, A: 1}, 1e-6) {
		t.Errorf("bilinear midpoint = %+v", got)
	}
}

func TestTextureColorSpace(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 128, G: 128, B: 128, A: 255})

	srgb, _ := NewTextureFromImage(img, SRGBColorSpace).Sample(V2(0.5, 0.5))
	linear, _ := NewTextureFromImage(img, LinearColorSpace).Sample(V2(0.5, 0.5))

	if want := SRGBToLinear(128.0 / 255); !approxEqual(srgb.R, want, 1e-6) {
		t.Errorf("sRGB texel R = %v, want %v", srgb.R, want)
	}
	if want := 128.0 / 255; !approxEqual(linear.R, want, 1e-6) {
		t.Errorf("linear texel R = %v, want %v", linear.R, want)
	}
}

func approxEqual(a, b, eps float64) bool {
	d := a - b
	return d < eps && d > -eps
}

func TestPendingTextureSample(t *testing.T) {
	tex := &Texture{}
	if _, ok := tex.Sample(V2(0.5, 0.5)); ok {
		t.Error("pending texture should not sample")
	}
	if !errors.Is(tex.Err(), ErrTextureNotLoaded) {
		t.Errorf("Err() = %v, want ErrTextureNotLoaded", tex.Err())
	}

	// Materials fall back to their color.
	mat := NewBasicMaterial(RGB(1, 1, 0))
	mat.Map = tex
	c := mat.shade(&Fragment{}, &lighting{})
	if !c.Approx(RGB(1, 1, 0), 1e-12) {
		t.Errorf("fallback color = %+v", c)
	}
}

func TestTextureLoaderFile(t *testing.T) {
	path := writePNG(t, t.TempDir(), checker(4, 4))

	loader := NewTextureLoader(context.Background())
	tex := loader.Load(path)
	fileTex := loader.Load("file://" + path)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := loader.Wait(ctx); err != nil {
		t.Fatalf("Wait() = %v", err)
	}

	for _, tx := range []*Texture{tex, fileTex} {
		if !tx.Ready() {
			t.Fatalf("%s: state = %v, err = %v", tx.Name, tx.State(), tx.Err())
		}
		if w, h := tx.Size(); w != 4 || h != 4 {
			t.Errorf("%s: Size() = %d, %d", tx.Name, w, h)
		}
	}
}

func TestTextureLoaderMissingFile(t *testing.T) {
	loader := NewTextureLoader(context.Background())
	tex := loader.Load(filepath.Join(t.TempDir(), "missing.png"))

	if err := loader.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}
	if tex.State() != TextureFailed {
		t.Errorf("state = %v, want failed", tex.State())
	}
	if !errors.Is(tex.Err(), os.ErrNotExist) {
		t.Errorf("Err() = %v, want not-exist", tex.Err())
	}
	if _, ok := tex.Sample(V2(0, 0)); ok {
		t.Error("failed texture should not sample")
	}
}

func TestTextureLoaderHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tex.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_ = png.Encode(w, checker(8, 4))
	}))
	defer srv.Close()

	loader := NewTextureLoader(context.Background())
	loader.Client = srv.Client()
	ok := loader.Load(srv.URL + "/tex.png")
	missing := loader.Load(srv.URL + "/nope.png")

	if err := loader.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !ok.Ready() {
		t.Errorf("http texture: %v", ok.Err())
	}
	if missing.State() != TextureFailed {
		t.Errorf("404 texture state = %v, want failed", missing.State())
	}
}

func TestTextureLoaderDownsamples(t *testing.T) {
	path := writePNG(t, t.TempDir(), checker(64, 32))

	loader := NewTextureLoader(context.Background())
	loader.MaxSize = 16
	tex := loader.Load(path)
	if err := loader.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}
	if w, h := tex.Size(); w != 16 || h != 8 {
		t.Errorf("Size() = %d, %d, want 16, 8", w, h)
	}
}

func TestTextureLoaderWaitCancelled(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	loaderCtx, stop := context.WithCancel(context.Background())
	defer stop()
	loader := NewTextureLoader(loaderCtx)
	loader.Client = srv.Client()
	tex := loader.Load(srv.URL + "/slow.png")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := loader.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait() = %v, want deadline exceeded", err)
	}
	if tex.Ready() {
		t.Error("texture ready before the server responded")
	}
}
