package demo

import (
	"github.com/gogpu/g3d"
	"github.com/gogpu/g3d/anim"
)

// Earth is a textured, flat-shaded globe with a slightly faster cloud layer,
// tilted by the axial tilt and lit from one side.
type Earth struct {
	orbitInput

	scene  *g3d.Scene
	camera *g3d.PerspectiveCamera

	group  *g3d.Object
	earth  *g3d.Object
	clouds *g3d.Object
}

const (
	axialTilt      = -23.4 // degrees about Z
	earthSpin      = 0.002 // radians per frame
	cloudSpin      = 0.0023
	earthDamping   = 0.03
	cloudScale     = 1.003
	cloudOpacity   = 0.8
	earthGeoDetail = 16
)

// NewEarth builds the earth demo.
func NewEarth(env Env) (Demo, error) {
	cfg := env.config()

	scene := g3d.NewScene()
	camera := g3d.NewPerspectiveCamera(75, env.aspect(), 0.1, 1000)
	camera.Position = g3d.V3(0, 0, 2)

	group := g3d.NewGroup()
	group.Name = "earth-group"
	group.Rotation.Z = g3d.DegToRad(axialTilt)

	geo := g3d.NewIcosahedronGeometry(1, earthGeoDetail)

	earthMat := g3d.NewStandardMaterial(g3d.White)
	earthMat.Map = env.load(cfg.Earth.Map)
	earthMat.FlatShading = true
	earth := g3d.NewMesh(geo, earthMat)
	earth.Name = "earth"

	cloudsMat := g3d.NewStandardMaterial(g3d.White)
	cloudsMat.Map = env.load(cfg.Earth.Clouds)
	cloudsMat.Transparent = true
	cloudsMat.Opacity = cloudOpacity
	cloudsMat.Blending = g3d.AdditiveBlending
	clouds := g3d.NewMesh(geo, cloudsMat)
	clouds.Name = "clouds"
	clouds.Scale = g3d.SetScalar(cloudScale)

	group.Add(earth, clouds)
	scene.Add(group)

	sun := g3d.NewDirectionalLight(g3d.White, 1)
	sun.Name = "sunlight"
	sun.Position = g3d.V3(-2, 0.5, 1.5)
	scene.Add(sun)

	controls := g3d.NewOrbitControls(camera)
	controls.EnableDamping = true
	controls.DampingFactor = earthDamping
	controls.SetViewportHeight(env.Height)

	return &Earth{
		orbitInput: orbitInput{controls: controls},
		scene:      scene,
		camera:     camera,
		group:      group,
		earth:      earth,
		clouds:     clouds,
	}, nil
}

// Name returns "earth".
func (d *Earth) Name() string { return "earth" }

// Scene returns the scene.
func (d *Earth) Scene() *g3d.Scene { return d.scene }

// Camera returns the camera.
func (d *Earth) Camera() *g3d.PerspectiveCamera { return d.camera }

// Update spins the earth and the clouds at slightly different rates.
func (d *Earth) Update(anim.Frame) {
	d.earth.Rotation.Y += earthSpin
	d.clouds.Rotation.Y += cloudSpin
	d.controls.Update()
}

// Resize updates the camera aspect.
func (d *Earth) Resize(width, height int) {
	d.camera.SetViewport(width, height)
	d.controls.SetViewportHeight(height)
}
