// Package g3d provides a small software 3D renderer for Go.
//
// # Overview
//
// g3d is a Pure Go 3D library: a scene graph of
// positioned objects, a perspective camera, a handful of geometry builders
// and materials, and a z-buffered rasterizer that renders into a Pixmap.
// It is intended for small visualization demos, not for games.
//
// # Quick Start
//
//	import "github.com/gogpu/g3d"
//
//	scene := g3d.NewScene()
//	cube := g3d.NewMesh(g3d.NewBoxGeometry(1, 1, 1), g3d.NewStandardMaterial(g3d.Hex("ff0")))
//	scene.Add(cube)
//	scene.Add(g3d.NewHemisphereLight(g3d.Hex("fff"), g3d.Hex("444"), 1))
//
//	camera := g3d.NewPerspectiveCamera(75, 4.0/3.0, 0.1, 1000)
//	camera.Position.Z = 5
//
//	r := g3d.NewRenderer(800, 600)
//	defer r.Close()
//	cube.Rotation.Y += 0.5
//	r.Render(scene, camera)
//	_ = r.Pixmap().SavePNG("cube.png")
//
// # Coordinate System
//
// Right-handed world space:
//   - X increases right
//   - Y increases up
//   - the camera looks down -Z in its local frame
//
// Screen space has its origin at the top-left, with Y increasing down.
//
// # Curves
//
// CatmullRom is the curve sampler used for camera and object paths. It maps a
// normalized arc-length parameter in [0, 1] to a position, and LookAhead
// returns a point slightly further along the path for orientation.
//
// # Concurrency
//
// Scene state is owned by the caller's per-frame callback. The Renderer
// splits each frame into bands of scanlines and rasterizes them on a worker
// pool; band workers only read the frame's prepared primitives. Textures load
// on their own goroutines and publish atomically.
package g3d

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
