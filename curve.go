package g3d

import (
	"math"
	"sort"
)

// CurveType selects the knot parameterization of a Catmull-Rom spline.
type CurveType int

const (
	// Centripetal uses alpha=0.5 knot spacing; it never forms cusps or
	// self-intersections within a segment.
	Centripetal CurveType = iota
	// Chordal uses alpha=1 knot spacing.
	Chordal
	// Uniform uses evenly spaced knots with a tension factor.
	Uniform
)

// String returns the name used in configuration files.
func (t CurveType) String() string {
	switch t {
	case Chordal:
		return "chordal"
	case Uniform:
		return "uniform"
	default:
		return "centripetal"
	}
}

const defaultArcDivisions = 200

// CurveOption configures a CatmullRom during creation.
type CurveOption func(*CatmullRom)

// WithClosed makes the curve loop back from the last point to the first.
func WithClosed(closed bool) CurveOption {
	return func(c *CatmullRom) {
		c.closed = closed
	}
}

// WithCurveType sets the knot parameterization.
func WithCurveType(t CurveType) CurveOption {
	return func(c *CatmullRom) {
		c.curveType = t
	}
}

// WithTension sets the tension used by Uniform curves.
func WithTension(tension float64) CurveOption {
	return func(c *CatmullRom) {
		c.tension = tension
	}
}

// WithArcDivisions sets how many samples approximate the arc length table.
// Higher values make PointAt closer to true constant speed.
func WithArcDivisions(n int) CurveOption {
	return func(c *CatmullRom) {
		if n > 0 {
			c.divisions = n
		}
	}
}

// CatmullRom is a smooth curve through an ordered list of control points.
//
// Point(t) is parameterized per segment: each segment between two control
// points spans an equal share of [0, 1]. PointAt(u) is parameterized by
// normalized arc length, which is what animations use for constant speed.
//
// An empty point set yields the zero vector everywhere; a single point yields
// that point everywhere.
//
// CatmullRom is not safe for concurrent mutation; concurrent reads are safe
// once Length has been called.
type CatmullRom struct {
	points    []Vec3
	closed    bool
	curveType CurveType
	tension   float64
	divisions int

	// lengths[i] is the arc length up to Point(i/divisions).
	lengths []float64
}

// NewCatmullRom creates a curve through points.
// The points slice is copied.
func NewCatmullRom(points []Vec3, opts ...CurveOption) *CatmullRom {
	c := &CatmullRom{
		curveType: Centripetal,
		tension:   0.5,
		divisions: defaultArcDivisions,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.SetPoints(points)
	return c
}

// SetPoints replaces the control points and invalidates cached lengths.
func (c *CatmullRom) SetPoints(points []Vec3) {
	c.points = append(c.points[:0], points...)
	c.lengths = nil
}

// ControlPoints returns a copy of the control points.
func (c *CatmullRom) ControlPoints() []Vec3 {
	return append([]Vec3(nil), c.points...)
}

// Closed reports whether the curve loops.
func (c *CatmullRom) Closed() bool {
	return c.closed
}

// Point returns the position at segment parameter t in [0, 1].
func (c *CatmullRom) Point(t float64) Vec3 {
	l := len(c.points)
	switch l {
	case 0:
		return Vec3{}
	case 1:
		return c.points[0]
	}

	segments := l - 1
	if c.closed {
		segments = l
	}
	p := float64(segments) * t
	i := int(math.Floor(p))
	weight := p - float64(i)

	if c.closed {
		i = ((i % l) + l) % l
	} else {
		if i >= l-1 {
			i, weight = l-2, 1
		}
		if i < 0 {
			i, weight = 0, 0
		}
	}

	p1 := c.points[i]
	var p0, p2, p3 Vec3
	if c.closed || i > 0 {
		p0 = c.points[(i-1+l)%l]
	} else {
		// Extrapolate a phantom point before the first.
		p0 = p1.Mul(2).Sub(c.points[1])
	}
	p2 = c.points[(i+1)%l]
	if c.closed || i+2 < l {
		p3 = c.points[(i+2)%l]
	} else {
		p3 = c.points[l-1].Mul(2).Sub(c.points[l-2])
	}

	var px, py, pz cubicPoly
	if c.curveType == Uniform {
		px.initCatmullRom(p0.X, p1.X, p2.X, p3.X, c.tension)
		py.initCatmullRom(p0.Y, p1.Y, p2.Y, p3.Y, c.tension)
		pz.initCatmullRom(p0.Z, p1.Z, p2.Z, p3.Z, c.tension)
	} else {
		pow := 0.25 // centripetal: sqrt of chord length, on squared distances
		if c.curveType == Chordal {
			pow = 0.5
		}
		dt0 := math.Pow(p0.DistanceSq(p1), pow)
		dt1 := math.Pow(p1.DistanceSq(p2), pow)
		dt2 := math.Pow(p2.DistanceSq(p3), pow)

		// Coincident points would divide by zero.
		if dt1 < 1e-4 {
			dt1 = 1
		}
		if dt0 < 1e-4 {
			dt0 = dt1
		}
		if dt2 < 1e-4 {
			dt2 = dt1
		}
		px.initNonuniform(p0.X, p1.X, p2.X, p3.X, dt0, dt1, dt2)
		py.initNonuniform(p0.Y, p1.Y, p2.Y, p3.Y, dt0, dt1, dt2)
		pz.initNonuniform(p0.Z, p1.Z, p2.Z, p3.Z, dt0, dt1, dt2)
	}

	return Vec3{X: px.eval(weight), Y: py.eval(weight), Z: pz.eval(weight)}
}

// Points returns divisions+1 samples of Point at evenly spaced t.
func (c *CatmullRom) Points(divisions int) []Vec3 {
	if divisions < 1 {
		divisions = 1
	}
	out := make([]Vec3, divisions+1)
	for i := range out {
		out[i] = c.Point(float64(i) / float64(divisions))
	}
	return out
}

// Length returns the approximate arc length of the curve.
func (c *CatmullRom) Length() float64 {
	lengths := c.arcLengths()
	return lengths[len(lengths)-1]
}

func (c *CatmullRom) arcLengths() []float64 {
	if c.lengths != nil {
		return c.lengths
	}
	lengths := make([]float64, c.divisions+1)
	prev := c.Point(0)
	for i := 1; i <= c.divisions; i++ {
		p := c.Point(float64(i) / float64(c.divisions))
		lengths[i] = lengths[i-1] + p.Distance(prev)
		prev = p
	}
	c.lengths = lengths
	return lengths
}

// ArcToT converts a normalized arc length u in [0, 1] to a segment parameter.
func (c *CatmullRom) ArcToT(u float64) float64 {
	u = clamp(u, 0, 1)
	lengths := c.arcLengths()
	total := lengths[len(lengths)-1]
	if total == 0 {
		return u
	}
	target := u * total

	// First index whose length is >= target.
	i := sort.SearchFloat64s(lengths, target)
	if i == 0 {
		return 0
	}
	if i >= len(lengths) {
		return 1
	}
	before, after := lengths[i-1], lengths[i]
	frac := 0.0
	if after > before {
		frac = (target - before) / (after - before)
	}
	return (float64(i-1) + frac) / float64(len(lengths)-1)
}

// PointAt returns the position at normalized arc length u in [0, 1].
func (c *CatmullRom) PointAt(u float64) Vec3 {
	return c.Point(c.ArcToT(u))
}

// TangentAt returns the unit direction of travel at normalized arc length u.
func (c *CatmullRom) TangentAt(u float64) Vec3 {
	const delta = 1e-4
	t := c.ArcToT(u)
	t1, t2 := t-delta, t+delta
	if !c.closed {
		t1 = math.Max(t1, 0)
		t2 = math.Min(t2, 1)
	}
	return c.Point(wrapParam(t2, c.closed)).Sub(c.Point(wrapParam(t1, c.closed))).Normalize()
}

// LookAhead returns the position eps further along the curve than u, and the
// unwrapped parameter u+eps it was sampled for. The returned parameter is
// always strictly greater than u for eps > 0. Closed curves sample at the
// parameter wrapped into [0, 1); open curves clamp the sample at the end.
func (c *CatmullRom) LookAhead(u, eps float64) (Vec3, float64) {
	ahead := u + eps
	return c.PointAt(wrapParam(ahead, c.closed)), ahead
}

// wrapParam maps t into [0, 1) for closed curves and clamps it otherwise.
func wrapParam(t float64, closed bool) float64 {
	if !closed {
		return clamp(t, 0, 1)
	}
	t -= math.Floor(t)
	return t
}

// cubicPoly holds the coefficients of c0 + c1*t + c2*t^2 + c3*t^3 for one
// axis of one segment.
type cubicPoly struct {
	c0, c1, c2, c3 float64
}

// init sets up a Hermite cubic from x0 to x1 with tangents t0 and t1.
func (p *cubicPoly) init(x0, x1, t0, t1 float64) {
	p.c0 = x0
	p.c1 = t0
	p.c2 = -3*x0 + 3*x1 - 2*t0 - t1
	p.c3 = 2*x0 - 2*x1 + t0 + t1
}

func (p *cubicPoly) initCatmullRom(x0, x1, x2, x3, tension float64) {
	p.init(x1, x2, tension*(x2-x0), tension*(x3-x1))
}

func (p *cubicPoly) initNonuniform(x0, x1, x2, x3, dt0, dt1, dt2 float64) {
	t1 := (x1-x0)/dt0 - (x2-x0)/(dt0+dt1) + (x2-x1)/dt1
	t2 := (x2-x1)/dt1 - (x3-x1)/(dt1+dt2) + (x3-x2)/dt2
	// Rescale tangents to the [0, 1] segment parameter.
	p.init(x1, x2, t1*dt1, t2*dt1)
}

func (p *cubicPoly) eval(t float64) float64 {
	t2 := t * t
	return p.c0 + p.c1*t + p.c2*t2 + p.c3*t2*t
}
