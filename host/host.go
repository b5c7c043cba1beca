// Package host runs a demo outside of a window.
//
// A Session ties together the pieces every host needs: the texture loader,
// the demo, a renderer configured for it and the per-frame animator. Export
// drives a session with a fixed frame clock and writes each frame as a PNG,
// which makes it usable on machines without a display and in tests.
package host

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gogpu/g3d"
	"github.com/gogpu/g3d/anim"
	"github.com/gogpu/g3d/config"
	"github.com/gogpu/g3d/demo"
)

// Session is a running demo with its renderer.
type Session struct {
	Demo     demo.Demo
	Renderer *g3d.Renderer
	Loader   *g3d.TextureLoader
	Animator *anim.Animator

	// ShowOverlay controls whether Render draws the status text.
	ShowOverlay bool
}

// NewSession builds the demo named by cfg.Demo and a renderer sized to
// cfg.Width by cfg.Height. Textures start loading immediately; ctx bounds
// their lifetime.
//
// Renderer options are applied in order: the demo's own, then the configured
// tone mapping, then opts.
func NewSession(ctx context.Context, cfg *config.Config, opts ...g3d.RendererOption) (*Session, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	loader := g3d.NewTextureLoader(ctx)
	d, err := demo.New(cfg.Demo, demo.Env{
		Config: cfg,
		Loader: loader,
		Width:  cfg.Width,
		Height: cfg.Height,
	})
	if err != nil {
		return nil, err
	}

	var all []g3d.RendererOption
	if rc, ok := d.(demo.RendererConfigurer); ok {
		all = append(all, rc.RendererOptions()...)
	}
	if tm, ok := cfg.ToneMappingMode(); ok {
		all = append(all, g3d.WithToneMapping(tm))
	}
	all = append(all, opts...)

	return &Session{
		Demo:        d,
		Renderer:    g3d.NewRenderer(cfg.Width, cfg.Height, all...),
		Loader:      loader,
		Animator:    anim.New(d.Update),
		ShowOverlay: true,
	}, nil
}

// Frame advances the demo to now and renders it. The returned pixmap is
// reused by the next call.
func (s *Session) Frame(now time.Time) *g3d.Pixmap {
	s.Step(now)
	return s.Render()
}

// Step advances the demo to now without rendering.
func (s *Session) Step(now time.Time) anim.Frame {
	return s.Animator.Step(now)
}

// Render draws the current state of the demo, with the overlay when
// ShowOverlay is set.
func (s *Session) Render() *g3d.Pixmap {
	s.Renderer.Render(s.Demo.Scene(), s.Demo.Camera())

	pm := s.Renderer.Pixmap()
	if s.ShowOverlay {
		demo.DrawOverlay(pm.View(), demo.OverlayLines(s.Demo))
	}
	return pm
}

// Resize changes the output size and lets the demo adapt its camera.
func (s *Session) Resize(width, height int) error {
	if err := s.Renderer.SetSize(width, height); err != nil {
		return fmt.Errorf("host: resize: %w", err)
	}
	s.Demo.Resize(width, height)
	return nil
}

// Fit resizes the session to a window's content size and returns the size
// the session renders at. Non-positive sizes, an unchanged size and a failed
// resize all keep the current size.
func (s *Session) Fit(width, height int) (int, int) {
	w, h := s.Renderer.Size()
	if width <= 0 || height <= 0 || (width == w && height == h) {
		return w, h
	}
	if err := s.Resize(width, height); err != nil {
		g3d.Logger().Warn("resize failed", "err", err)
		return w, h
	}
	return width, height
}

// Close releases the renderer's workers.
func (s *Session) Close() {
	s.Renderer.Close()
}

// ExportOptions controls Export.
type ExportOptions struct {
	// Frames is the number of frames to write. Zero or less writes one.
	Frames int
	// Dir receives frame_0000.png, frame_0001.png and so on. It is created
	// if missing.
	Dir string
	// FPS sets the simulated frame clock. Zero or less means 60.
	FPS int
	// TextureTimeout bounds the wait for pending textures. Zero means no
	// bound beyond ctx.
	TextureTimeout time.Duration
}

// ErrNoOutput is returned by Export when ExportOptions.Dir is empty.
var ErrNoOutput = errors.New("host: no output directory")

// Export renders frames with a fixed clock and writes them as PNG files. It
// waits for textures first so that every frame shows them. It returns the
// paths written, including on error.
func Export(ctx context.Context, s *Session, opts ExportOptions) ([]string, error) {
	if opts.Dir == "" {
		return nil, ErrNoOutput
	}
	frames := max(opts.Frames, 1)
	fps := opts.FPS
	if fps <= 0 {
		fps = 60
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("host: %w", err)
	}

	waitCtx := ctx
	if opts.TextureTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, opts.TextureTimeout)
		defer cancel()
	}
	if err := s.Loader.Wait(waitCtx); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		g3d.Logger().Warn("textures still loading, exporting without them", "err", err)
	}

	interval := time.Second / time.Duration(fps)
	start := time.Unix(0, 0)
	paths := make([]string, 0, frames)
	for i := 0; i < frames; i++ {
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		pm := s.Frame(start.Add(time.Duration(i) * interval))

		path := filepath.Join(opts.Dir, fmt.Sprintf("frame_%04d.png", i))
		if err := pm.SavePNG(path); err != nil {
			return paths, fmt.Errorf("host: frame %d: %w", i, err)
		}
		paths = append(paths, path)

		stats := s.Renderer.Stats()
		g3d.Logger().Debug("frame exported", "frame", i, "path", path, "triangles", stats.Triangles)
	}

	g3d.Logger().Info("export finished", "demo", s.Demo.Name(), "frames", len(paths), "dir", opts.Dir)
	return paths, nil
}
