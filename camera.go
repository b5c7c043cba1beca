package g3d

// PerspectiveCamera projects the scene with a vertical field of view.
type PerspectiveCamera struct {
	Object

	Fov    float64 // vertical, degrees
	Aspect float64
	Near   float64
	Far    float64

	projection Mat4
}

// NewPerspectiveCamera creates a camera at the origin looking down -Z.
func NewPerspectiveCamera(fov, aspect, near, far float64) *PerspectiveCamera {
	c := &PerspectiveCamera{
		Object: newObject(KindCamera),
		Fov:    fov,
		Aspect: aspect,
		Near:   near,
		Far:    far,
	}
	c.UpdateProjectionMatrix()
	return c
}

// UpdateProjectionMatrix must be called after changing Fov, Aspect, Near or
// Far directly.
func (c *PerspectiveCamera) UpdateProjectionMatrix() {
	aspect := c.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	c.projection = Perspective(c.Fov, aspect, c.Near, c.Far)
}

// ProjectionMatrix returns the matrix computed by the last
// UpdateProjectionMatrix.
func (c *PerspectiveCamera) ProjectionMatrix() Mat4 {
	return c.projection
}

// SetAspect sets the aspect ratio and updates the projection.
func (c *PerspectiveCamera) SetAspect(aspect float64) {
	c.Aspect = aspect
	c.UpdateProjectionMatrix()
}

// SetViewport sets the aspect ratio from a viewport size in pixels.
// Zero or negative sizes are ignored.
func (c *PerspectiveCamera) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.SetAspect(float64(width) / float64(height))
}

// SetFov sets the vertical field of view in degrees and updates the
// projection.
func (c *PerspectiveCamera) SetFov(fov float64) {
	c.Fov = fov
	c.UpdateProjectionMatrix()
}

// ViewMatrix returns the inverse of the camera's world transform.
func (c *PerspectiveCamera) ViewMatrix() Mat4 {
	return c.worldMatrix().Invert()
}

// Project maps a world point to normalized device coordinates.
// Points behind the camera have a W <= 0 before division and are reported
// with ok=false.
func (c *PerspectiveCamera) Project(p Vec3) (ndc Vec3, ok bool) {
	clip := c.projection.Multiply(c.ViewMatrix()).Project(p)
	if clip.W <= 0 {
		return Vec3{}, false
	}
	return Vec3{X: clip.X / clip.W, Y: clip.Y / clip.W, Z: clip.Z / clip.W}, true
}
