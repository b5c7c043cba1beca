package demo

import (
	"github.com/gogpu/g3d"
	"github.com/gogpu/g3d/anim"
)

// Cube is a yellow box tumbling under a hemisphere light.
type Cube struct {
	orbitInput

	scene  *g3d.Scene
	camera *g3d.PerspectiveCamera
	cube   *g3d.Object
}

// NewCube builds the cube demo.
func NewCube(env Env) (Demo, error) {
	scene := g3d.NewScene()
	camera := g3d.NewPerspectiveCamera(75, env.aspect(), 0.1, 1000)
	camera.Position = g3d.V3(0, 0, 5)

	cube := g3d.NewMesh(g3d.NewBoxGeometry(1, 1, 1), g3d.NewStandardMaterial(g3d.HexInt(0xffff00)))
	cube.Name = "cube"
	scene.Add(cube)

	hemi := g3d.NewHemisphereLight(g3d.HexInt(0xffffff), g3d.HexInt(0x444444), 1)
	hemi.Name = "hemisphere"
	scene.Add(hemi)

	controls := g3d.NewOrbitControls(camera)
	controls.EnableDamping = true
	controls.DampingFactor = 0.03
	controls.SetViewportHeight(env.Height)

	return &Cube{
		orbitInput: orbitInput{controls: controls},
		scene:      scene,
		camera:     camera,
		cube:       cube,
	}, nil
}

// Name returns "cube".
func (d *Cube) Name() string { return "cube" }

// Scene returns the scene.
func (d *Cube) Scene() *g3d.Scene { return d.scene }

// Camera returns the camera.
func (d *Cube) Camera() *g3d.PerspectiveCamera { return d.camera }

// RendererOptions selects filmic tone mapping with sRGB output.
func (d *Cube) RendererOptions() []g3d.RendererOption {
	return []g3d.RendererOption{
		g3d.WithToneMapping(g3d.ACESFilmicToneMapping),
		g3d.WithOutputColorSpace(g3d.SRGBColorSpace),
	}
}

// Update tumbles the cube.
func (d *Cube) Update(anim.Frame) {
	d.cube.Rotation.X += 0.01
	d.cube.Rotation.Y += 0.02
	d.controls.Update()
}

// Resize updates the camera aspect.
func (d *Cube) Resize(width, height int) {
	d.camera.SetViewport(width, height)
	d.controls.SetViewportHeight(height)
}
