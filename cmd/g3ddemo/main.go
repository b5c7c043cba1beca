// Command g3ddemo shows the g3d demos in a window or exports them as PNG
// frames.
//
// Usage:
//
//	g3ddemo -demo flight
//	g3ddemo -demo earth -host gogpu
//	g3ddemo -config demo.yaml -headless -frames 120 -out frames/
//	g3ddemo -dump-config > demo.yaml
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gogpu/g3d"
	"github.com/gogpu/g3d/config"
	"github.com/gogpu/g3d/demo"
	"github.com/gogpu/g3d/host"
	"github.com/gogpu/g3d/host/ebitenhost"
	"github.com/gogpu/g3d/host/gogpuhost"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML configuration file")
		demoName   = flag.String("demo", "", "demo to run: "+strings.Join(demo.Names(), ", "))
		width      = flag.Int("width", 0, "output width (overrides config)")
		height     = flag.Int("height", 0, "output height (overrides config)")
		assets     = flag.String("assets", "", "assets directory (overrides config)")
		headless   = flag.Bool("headless", false, "export PNG frames instead of opening a window")
		window     = flag.String("host", "ebiten", "window host: ebiten or gogpu")
		frames     = flag.Int("frames", 60, "frames to export in headless mode")
		out        = flag.String("out", "frames", "output directory in headless mode")
		verbose    = flag.Bool("v", false, "debug logging")
		dump       = flag.Bool("dump-config", false, "print the effective configuration and exit")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	g3d.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fatal(err)
	}
	if *demoName != "" {
		cfg.Demo = *demoName
	}
	if *width > 0 {
		cfg.Width = *width
	}
	if *height > 0 {
		cfg.Height = *height
	}
	if *assets != "" {
		cfg.Assets = *assets
	}
	if err := cfg.Validate(); err != nil {
		fatal(err)
	}

	if *dump {
		b, err := cfg.Marshal()
		if err != nil {
			fatal(err)
		}
		_, _ = os.Stdout.Write(b)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch {
	case *headless:
		err = export(ctx, cfg, *frames, *out)
	case *window == "gogpu":
		err = gogpuhost.Run(ctx, cfg)
	case *window == "ebiten":
		err = ebitenhost.Run(ctx, cfg)
	default:
		err = fmt.Errorf("unknown host %q", *window)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		fatal(err)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func export(ctx context.Context, cfg *config.Config, frames int, dir string) error {
	s, err := host.NewSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	start := time.Now()
	paths, err := host.Export(ctx, s, host.ExportOptions{
		Frames:         frames,
		Dir:            dir,
		FPS:            cfg.FPS,
		TextureTimeout: time.Minute,
	})
	if err != nil {
		return err
	}
	fmt.Printf("wrote %d frames to %s in %v\n", len(paths), dir, time.Since(start).Round(time.Millisecond))
	return nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "g3ddemo:", err)
	os.Exit(1)
}
