package demo

import (
	"math"
	"time"

	"github.com/gogpu/g3d"
	"github.com/gogpu/g3d/anim"
)

// tunnelPoints is the closed loop the tunnel follows.
var tunnelPoints = []g3d.Vec3{
	{X: 0, Y: 0, Z: 0},
	{X: 8, Y: 2, Z: -6},
	{X: 16, Y: -1, Z: -4},
	{X: 20, Y: 3, Z: 6},
	{X: 14, Y: 6, Z: 14},
	{X: 4, Y: 2, Z: 16},
	{X: -6, Y: -3, Z: 12},
	{X: -10, Y: 0, Z: 2},
	{X: -6, Y: 4, Z: -6},
}

const (
	tunnelRadial = 16
	// tunnelFade is the view distance at which the walls fade to black.
	tunnelFade = 12.0
	// tunnelHueCycles is how many times the hue ramp repeats around the loop.
	tunnelHueCycles = 3
	// tunnelHueDrift is the hue shift per second, in degrees.
	tunnelHueDrift = 20.0
)

// Tunnel flies the camera through a tube swept along a closed spline.
// The walls are colored by a ramp over the distance along the tube.
type Tunnel struct {
	scene  *g3d.Scene
	camera *g3d.PerspectiveCamera
	curve  *g3d.CatmullRom
	tube   *g3d.Object

	loop      anim.Loop
	lookAhead float64
	progress  anim.Progress

	// target is the curve parameter of the last look-at point, unwrapped.
	target float64
	// hue is the ramp offset in degrees, advanced in Update and read while
	// rendering.
	hue float64
}

// NewTunnel builds the tunnel demo.
func NewTunnel(env Env) (Demo, error) {
	cfg := env.config().Tunnel

	curve := g3d.NewCatmullRom(tunnelPoints, g3d.WithClosed(true))

	scene := g3d.NewScene()
	if cfg.Fog {
		scene.Fog = &g3d.Fog{Color: g3d.Black, Near: tunnelFade / 2, Far: tunnelFade}
	}

	d := &Tunnel{
		scene:     scene,
		camera:    g3d.NewPerspectiveCamera(75, env.aspect(), 0.1, 1000),
		curve:     curve,
		loop:      anim.Loop{Duration: time.Duration(cfg.LoopSeconds * float64(time.Second))},
		lookAhead: cfg.LookAhead,
	}

	mat := g3d.NewShaderMaterial(d.shade)
	mat.Side = g3d.BackSide
	tube := g3d.NewMesh(g3d.NewTubeGeometry(curve, cfg.Segments, cfg.Radius, tunnelRadial), mat)
	tube.Name = "tunnel"
	scene.Add(tube)
	d.tube = tube

	d.place()
	return d, nil
}

// shade is the tube's fragment function: a hue ramp along the tube, darker
// bands between the rings and a fade with distance from the camera.
func (d *Tunnel) shade(f *g3d.Fragment) g3d.RGBA {
	hue := f.Attr*360*tunnelHueCycles + d.hue
	c := g3d.HSL(hue, 0.85, 0.55).ToLinear()

	bands := 0.65 + 0.35*math.Abs(math.Cos(f.UV.Y*math.Pi*4))
	fade := 1 - g3d.Clamp(f.Depth/tunnelFade, 0, 1)
	return c.Scale(bands * fade * fade)
}

// Name returns "tunnel".
func (d *Tunnel) Name() string { return "tunnel" }

// Scene returns the scene.
func (d *Tunnel) Scene() *g3d.Scene { return d.scene }

// Camera returns the camera.
func (d *Tunnel) Camera() *g3d.PerspectiveCamera { return d.camera }

// Progress returns the camera's position along the loop, in [0, 1).
func (d *Tunnel) Progress() float64 { return d.progress.Value() }

// TargetParam returns the unwrapped curve parameter the camera looks at.
func (d *Tunnel) TargetParam() float64 { return d.target }

// Update moves the camera along the loop by elapsed time.
func (d *Tunnel) Update(f anim.Frame) {
	d.progress.Set(d.loop.At(f.Elapsed))
	d.hue = math.Mod(f.Elapsed.Seconds()*tunnelHueDrift, 360)
	d.place()
}

// place puts the camera on the curve, looking slightly ahead.
func (d *Tunnel) place() {
	p := d.progress.Value()
	pos := d.curve.PointAt(p)
	ahead, param := d.curve.LookAhead(p, d.lookAhead)
	d.target = param

	d.camera.Position = pos
	d.camera.LookAt(ahead)
}

// Resize updates the camera aspect.
func (d *Tunnel) Resize(width, height int) {
	d.camera.SetViewport(width, height)
}
