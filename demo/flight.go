package demo

import (
	"fmt"
	"math"

	"github.com/gogpu/g3d"
	"github.com/gogpu/g3d/anim"
	"github.com/gogpu/g3d/config"
)

const (
	globeRadius   = 5
	globeSpin     = 0.005 // radians per frame
	routeLift     = 1.2   // control points sit this far out from the endpoints
	routeLineDivs = 50

	chaseDistance = 15
	chaseHeight   = 5
	minFov        = 20
	maxFov        = 60

	// planeLookAhead is the arc-length step used to orient the plane.
	planeLookAhead = 0.01
)

// LatLonToVec3 converts a latitude and longitude in degrees to a point on a
// sphere of the given radius. The north pole is +Y and the point at latitude
// and longitude 0 is +X.
func LatLonToVec3(lat, lon, radius float64) g3d.Vec3 {
	phi := g3d.DegToRad(90 - lat)
	theta := g3d.DegToRad(lon + 180)
	return g3d.Vec3{
		X: -radius * math.Sin(phi) * math.Cos(theta),
		Y: radius * math.Cos(phi),
		Z: radius * math.Sin(phi) * math.Sin(theta),
	}
}

// RouteCurve returns the arc a plane flies between two cities: a
// Catmull-Rom curve through the endpoints and two points lifted above them.
func RouteCurve(from, to config.LatLon, radius float64) *g3d.CatmullRom {
	start := LatLonToVec3(from.Lat, from.Lon, radius)
	end := LatLonToVec3(to.Lat, to.Lon, radius)
	return g3d.NewCatmullRom([]g3d.Vec3{start, start.Mul(routeLift), end.Mul(routeLift), end})
}

// Flight shows a plane flying routes over a night-lights globe, followed by
// a chase camera. The wheel switches routes.
type Flight struct {
	scene  *g3d.Scene
	camera *g3d.PerspectiveCamera
	globe  *g3d.Object
	plane  *g3d.Object
	line   *g3d.Object

	routes      []config.Route
	index       int
	curve       *g3d.CatmullRom
	progress    anim.Progress
	speed       float64
	autoAdvance bool

	// ahead is the unwrapped curve parameter the plane is pointed at.
	ahead float64
}

// NewFlight builds the flight demo.
func NewFlight(env Env) (Demo, error) {
	cfg := env.config().Flight
	if len(cfg.Routes) == 0 {
		return nil, fmt.Errorf("%w: no flight routes", config.ErrInvalidConfig)
	}

	scene := g3d.NewScene()
	camera := g3d.NewPerspectiveCamera(75, env.aspect(), 0.1, 1000)

	globeMat := g3d.NewBasicMaterial(g3d.White)
	globeMat.Map = env.load(cfg.Map)
	globe := g3d.NewMesh(g3d.NewSphereGeometry(globeRadius, 32, 32), globeMat)
	globe.Name = "globe"
	scene.Add(globe)

	scene.Add(g3d.NewAmbientLight(g3d.White, 1))

	plane := g3d.NewMesh(g3d.NewBoxGeometry(0.1, 0.1, 0.5), g3d.NewBasicMaterial(g3d.HexInt(0xff0000)))
	plane.Name = "plane"
	scene.Add(plane)

	line := g3d.NewLine(&g3d.Geometry{}, g3d.NewLineMaterial(g3d.HexInt(0x00ff00)))
	line.Name = "route"
	scene.Add(line)

	d := &Flight{
		scene:       scene,
		camera:      camera,
		globe:       globe,
		plane:       plane,
		line:        line,
		routes:      append([]config.Route(nil), cfg.Routes...),
		speed:       cfg.Speed,
		autoAdvance: cfg.AutoAdvance,
	}
	d.setRoute(0)
	return d, nil
}

// Name returns "flight".
func (d *Flight) Name() string { return "flight" }

// Scene returns the scene.
func (d *Flight) Scene() *g3d.Scene { return d.scene }

// Camera returns the camera.
func (d *Flight) Camera() *g3d.PerspectiveCamera { return d.camera }

// Route returns the index of the current route.
func (d *Flight) Route() int { return d.index }

// Progress returns the plane's position along the route, in [0, 1).
func (d *Flight) Progress() float64 { return d.progress.Value() }

// AheadParam returns the unwrapped curve parameter the plane points at.
func (d *Flight) AheadParam() float64 { return d.ahead }

// setRoute switches to route i (wrapping), rebuilds the curve and the route
// line and restarts the flight.
func (d *Flight) setRoute(i int) {
	n := len(d.routes)
	d.index = ((i % n) + n) % n
	r := d.routes[d.index]

	d.curve = RouteCurve(r.From, r.To, globeRadius)
	d.line.Geometry.SetFromPoints(d.curve.Points(routeLineDivs))
	d.progress.Reset()
	d.place()

	g3d.Logger().Debug("flight route selected", "index", d.index, "route", r.Name)
}

// Update advances the plane, follows it with the camera and spins the globe.
// With auto advance, running off the end of a route starts the next one and
// running off the start (negative speed) continues on the previous one, in
// both cases keeping the wrapped progress.
func (d *Flight) Update(anim.Frame) {
	if d.progress.Advance(d.speed) && d.autoAdvance {
		step := 1
		if d.speed < 0 {
			step = -1
		}
		u := d.progress.Value()
		d.setRoute(d.index + step)
		d.progress.Set(u)
	}
	d.place()
	d.globe.Rotation.Y += globeSpin
}

// place positions the plane and the chase camera for the current progress.
func (d *Flight) place() {
	u := d.progress.Value()
	pos := d.curve.PointAt(u)
	ahead, param := d.curve.LookAhead(u, planeLookAhead)
	d.ahead = param

	d.plane.Position = pos
	if ahead.DistanceSq(pos) > 1e-12 {
		d.plane.LookAt(ahead)
	}

	out := g3d.V3(pos.X, 0, pos.Z).Normalize()
	d.camera.Position = pos.Add(out.Mul(chaseDistance)).Add(g3d.V3(0, chaseHeight, 0))
	d.camera.LookAt(pos.Add(g3d.V3(0, 1, 0)))
	d.camera.SetFov(g3d.Clamp(chaseDistance/3.0, minFov, maxFov))
}

// Wheel selects the next route when scrolling down and the previous one
// otherwise, restarting the flight.
func (d *Flight) Wheel(_, dy float64) {
	if dy > 0 {
		d.setRoute(d.index + 1)
	} else {
		d.setRoute(d.index - 1)
	}
}

// Overlay shows the current route and progress.
func (d *Flight) Overlay() []string {
	r := d.routes[d.index]
	return []string{
		fmt.Sprintf("route %d/%d: %s", d.index+1, len(d.routes), r.Name),
		fmt.Sprintf("progress %3.0f%%", d.progress.Value()*100),
		"scroll to change route",
	}
}

// Resize updates the camera aspect.
func (d *Flight) Resize(width, height int) {
	d.camera.SetViewport(width, height)
}
