//go:build !tinygo

// Package ebitenhost shows a demo in a desktop window.
//
// The window is driven by ebiten: Update steps the demo and forwards wheel
// and drag input, Draw renders through the software renderer and uploads the
// pixmap, and Layout follows the window size so the renderer always draws
// at the window's resolution.
package ebitenhost

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

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

	g := &game{ctx: ctx, session: s}
	w, h := s.Renderer.Size()
	ebiten.SetWindowTitle("g3d - " + demo.Title(s.Demo.Name()))
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.FPS)

	g3d.Logger().Info("window opened", "demo", s.Demo.Name(), "width", w, "height", h, "fps", cfg.FPS)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("ebitenhost: %w", err)
	}
	return ctx.Err()
}

type game struct {
	ctx     context.Context
	session *host.Session
	input   host.Input

	frame *ebiten.Image
}

func (g *game) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}

	d := g.session.Demo
	x, y := ebiten.CursorPosition()
	g.input.Pointer(d, float64(x), float64(y), ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))

	dx, dy := host.WheelFromOffset(ebiten.Wheel())
	g.input.Wheel(d, dx, dy)

	g.session.Step(time.Now())
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	pm := g.session.Render()

	w, h := pm.Width(), pm.Height()
	if g.frame == nil || g.frame.Bounds().Dx() != w || g.frame.Bounds().Dy() != h {
		if g.frame != nil {
			g.frame.Deallocate()
		}
		g.frame = ebiten.NewImage(w, h)
	}
	g.frame.WritePixels(pm.Data())
	screen.DrawImage(g.frame, nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.session.Fit(outsideWidth, outsideHeight)
}
