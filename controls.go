package g3d

import "math"

// OrbitControls rotates and zooms a camera around a target point.
//
// Input methods accumulate a pending delta; Update applies it once per
// frame. With damping enabled the delta decays over several frames instead
// of being consumed at once, which gives the camera inertia.
type OrbitControls struct {
	Camera *PerspectiveCamera
	Target Vec3

	EnableDamping bool
	DampingFactor float64

	// RotateSpeed scales radians per pixel of pointer movement.
	RotateSpeed float64
	// ZoomSpeed scales the dolly factor per wheel unit.
	ZoomSpeed float64

	MinDistance, MaxDistance float64
	MinPolar, MaxPolar       float64

	// viewport height in pixels, used to scale pointer deltas.
	viewportHeight float64

	deltaTheta, deltaPhi float64
	scale                float64
}

// NewOrbitControls creates controls orbiting the world origin.
func NewOrbitControls(camera *PerspectiveCamera) *OrbitControls {
	return &OrbitControls{
		Camera:         camera,
		DampingFactor:  0.05,
		RotateSpeed:    1,
		ZoomSpeed:      1,
		MinDistance:    0,
		MaxDistance:    math.Inf(1),
		MinPolar:       0,
		MaxPolar:       math.Pi,
		viewportHeight: 1,
		scale:          1,
	}
}

// SetViewportHeight sets the pixel height used to convert pointer drags into
// angles: dragging across the full height rotates by 2π.
func (c *OrbitControls) SetViewportHeight(h int) {
	if h > 0 {
		c.viewportHeight = float64(h)
	}
}

// Rotate queues a rotation from a pointer drag of (dx, dy) pixels.
func (c *OrbitControls) Rotate(dx, dy float64) {
	c.deltaTheta -= 2 * math.Pi * dx / c.viewportHeight * c.RotateSpeed
	c.deltaPhi -= 2 * math.Pi * dy / c.viewportHeight * c.RotateSpeed
}

// Zoom queues a dolly from a wheel movement; positive deltaY moves away.
func (c *OrbitControls) Zoom(deltaY float64) {
	if deltaY == 0 {
		return
	}
	f := math.Pow(0.95, c.ZoomSpeed)
	if deltaY > 0 {
		c.scale /= f
	} else {
		c.scale *= f
	}
}

// Update applies pending input to the camera. It reports whether the camera
// moved.
func (c *OrbitControls) Update() bool {
	if c.Camera == nil {
		return false
	}

	offset := c.Camera.Position.Sub(c.Target)
	radius := offset.Length()
	if radius == 0 {
		return false
	}
	theta := math.Atan2(offset.X, offset.Z)
	phi := math.Acos(clamp(offset.Y/radius, -1, 1))

	if c.EnableDamping {
		theta += c.deltaTheta * c.DampingFactor
		phi += c.deltaPhi * c.DampingFactor
	} else {
		theta += c.deltaTheta
		phi += c.deltaPhi
	}
	const eps = 1e-6
	phi = clamp(phi, math.Max(eps, c.MinPolar), math.Min(math.Pi-eps, c.MaxPolar))
	radius = clamp(radius*c.scale, c.MinDistance, c.MaxDistance)

	sinPhi := math.Sin(phi)
	offset = Vec3{
		X: radius * sinPhi * math.Sin(theta),
		Y: radius * math.Cos(phi),
		Z: radius * sinPhi * math.Cos(theta),
	}
	prev := c.Camera.Position
	c.Camera.Position = c.Target.Add(offset)
	c.Camera.LookAt(c.Target)

	if c.EnableDamping {
		c.deltaTheta *= 1 - c.DampingFactor
		c.deltaPhi *= 1 - c.DampingFactor
	} else {
		c.deltaTheta, c.deltaPhi = 0, 0
	}
	c.scale = 1

	return prev.DistanceSq(c.Camera.Position) > 1e-12
}
