//go:build !tinygo

// Package gogpuhost shows a demo in a gogpu window.
//
// Frames are rendered by the software renderer and uploaded to a GPU texture
// that gogpu draws over the window surface. Rendering is event driven: an
// animation token keeps gogpu redrawing at VSync while the window is open.
// Drag and wheel input arrive through gpucontext event sources, O toggles
// the status overlay and Escape closes the window.
package gogpuhost

import (
	"context"
	"fmt"
	"time"

	"github.com/gogpu/gogpu"

	"github.com/gogpu/g3d"
	"github.com/gogpu/g3d/config"
	"github.com/gogpu/g3d/demo"
	"github.com/gogpu/g3d/host"
)

// Run opens a window for the demo named by cfg.Demo and blocks until the
// window is closed or ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config) error {
	s, err := host.NewSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	w, h := s.Renderer.Size()
	app := gogpu.NewApp(gogpu.DefaultConfig().
		WithTitle("g3d - " + demo.Title(s.Demo.Name())).
		WithSize(w, h).
		WithContinuousRender(false))

	var (
		canvas Canvas
		events Events
		token  *gogpu.AnimationToken
	)
	events.Attach(app.EventSource())

	app.OnDraw(func(dc *gogpu.Context) {
		if token == nil {
			token = app.StartAnimation()
		}
		if ctx.Err() != nil || events.Apply(s) {
			app.Quit()
			return
		}

		s.Fit(dc.Width(), dc.Height())
		s.Step(time.Now())
		if err := canvas.Draw(dc.AsTextureDrawer(), s.Render()); err != nil {
			g3d.Logger().Warn("frame not shown", "err", err)
		}
	})

	app.OnClose(func() {
		if token != nil {
			token.Stop()
		}
		canvas.Close()
	})

	g3d.Logger().Info("window opened", "host", "gogpu", "demo", s.Demo.Name(), "width", w, "height", h)
	if err := app.Run(); err != nil {
		return fmt.Errorf("gogpuhost: %w", err)
	}
	return ctx.Err()
}
