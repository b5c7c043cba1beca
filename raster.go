package g3d

import (
	"math"

	"github.com/gogpu/g3d/internal/parallel"
)

// primitive is a screen-space triangle or line segment ready for banded
// rasterization.
type primitive interface {
	// rows returns the inclusive range of scanlines the primitive touches.
	rows() (y0, y1 int)
	// rasterize draws the part of the primitive inside band.
	rasterize(band parallel.Band, t *frameTarget)
}

// vertex is a post-transform vertex in clip space with its varyings.
type vertex struct {
	clip   Vec4
	world  Vec3
	normal Vec3
	uv     Vec2
	attr   float64
}

func (a vertex) lerp(b vertex, t float64) vertex {
	return vertex{
		clip:   a.clip.Lerp(b.clip, t),
		world:  a.world.Lerp(b.world, t),
		normal: a.normal.Lerp(b.normal, t),
		uv:     a.uv.Lerp(b.uv, t),
		attr:   a.attr + (b.attr-a.attr)*t,
	}
}

// primitiveSetup transforms objects into primitives for one frame.
type primitiveSetup struct {
	width, height float64
	viewProj      Mat4
	stats         *FrameStats
	prims         []primitive
}

func (s *primitiveSetup) object(o *Object) {
	switch o.kind {
	case KindMesh:
		s.mesh(o)
	case KindLine:
		s.line(o)
	}
}

func (s *primitiveSetup) mesh(o *Object) {
	g := o.Geometry
	model := o.matrixWorld
	normalMat := model.NormalMatrix()
	mvp := s.viewProj.Multiply(model)

	verts := make([]vertex, len(g.Positions))
	for i, p := range g.Positions {
		v := vertex{
			clip:  mvp.Project(p),
			world: model.TransformPoint(p),
		}
		if i < len(g.Normals) {
			v.normal = normalMat.TransformVector(g.Normals[i]).Normalize()
		}
		if i < len(g.UVs) {
			v.uv = g.UVs[i]
		}
		if i < len(g.Attr) {
			v.attr = g.Attr[i]
		}
		verts[i] = v
	}

	mat := o.Material
	base := mat.Base()
	hasNormals := len(g.Normals) == len(g.Positions)

	for ti := 0; ti < g.TriangleCount(); ti++ {
		ia, ib, ic := g.triangle(ti)
		if ia >= len(verts) || ib >= len(verts) || ic >= len(verts) {
			continue
		}
		a, b, c := verts[ia], verts[ib], verts[ic]

		face := b.world.Sub(a.world).Cross(c.world.Sub(a.world)).Normalize()
		if !hasNormals {
			a.normal, b.normal, c.normal = face, face, face
		}

		poly := clipPolygon([]vertex{a, b, c})
		if len(poly) < 3 {
			s.stats.Culled++
			continue
		}
		for k := 1; k+1 < len(poly); k++ {
			tri, ok := s.triangle(poly[0], poly[k], poly[k+1], face, mat, base)
			if !ok {
				s.stats.Culled++
				continue
			}
			s.stats.Triangles++
			s.prims = append(s.prims, tri)
		}
	}
}

// clipPolygon clips a convex polygon against the near (z >= -w) and far
// (z <= w) planes in clip space.
func clipPolygon(poly []vertex) []vertex {
	poly = clipPlane(poly, func(v vertex) float64 { return v.clip.Z + v.clip.W })
	if len(poly) < 3 {
		return poly
	}
	return clipPlane(poly, func(v vertex) float64 { return v.clip.W - v.clip.Z })
}

// clipPlane keeps the part of poly where dist >= 0 (Sutherland-Hodgman).
func clipPlane(poly []vertex, dist func(vertex) float64) []vertex {
	inside := 0
	for _, v := range poly {
		if dist(v) >= 0 {
			inside++
		}
	}
	switch inside {
	case len(poly):
		return poly
	case 0:
		return nil
	}

	out := make([]vertex, 0, len(poly)+1)
	for i, cur := range poly {
		next := poly[(i+1)%len(poly)]
		dc, dn := dist(cur), dist(next)
		if dc >= 0 {
			out = append(out, cur)
		}
		if (dc >= 0) != (dn >= 0) {
			out = append(out, cur.lerp(next, dc/(dc-dn)))
		}
	}
	return out
}

// toScreen maps a clip-space position to pixel coordinates, NDC depth and
// 1/w.
func (s *primitiveSetup) toScreen(c Vec4) (x, y, z, invW float64) {
	invW = 1 / c.W
	x = (c.X*invW + 1) * 0.5 * s.width
	y = (1 - c.Y*invW) * 0.5 * s.height
	z = c.Z * invW
	return x, y, z, invW
}

// triangle is a screen-space triangle. Varyings are stored divided by w so
// they interpolate linearly in screen space.
type triangle struct {
	x, y, z, invW [3]float64
	world         [3]Vec3
	normal        [3]Vec3
	uv            [3]Vec2
	attr          [3]float64

	area       float64 // positive after winding normalization
	faceNormal Vec3
	front      bool
	mat        Material
	base       *MaterialBase

	minX, maxX, minY, maxY int
}

func (s *primitiveSetup) triangle(a, b, c vertex, face Vec3, mat Material, base *MaterialBase) (*triangle, bool) {
	t := &triangle{faceNormal: face, mat: mat, base: base}
	for i, v := range [3]vertex{a, b, c} {
		t.x[i], t.y[i], t.z[i], t.invW[i] = s.toScreen(v.clip)
		if !isFinite(t.x[i], t.y[i], t.z[i]) {
			return nil, false
		}
		t.world[i] = v.world.Mul(t.invW[i])
		t.normal[i] = v.normal.Mul(t.invW[i])
		t.uv[i] = Vec2{X: v.uv.X * t.invW[i], Y: v.uv.Y * t.invW[i]}
		t.attr[i] = v.attr * t.invW[i]
	}

	area := edge(t.x[0], t.y[0], t.x[1], t.y[1], t.x[2], t.y[2])
	if area == 0 {
		return nil, false
	}
	// Counter-clockwise in NDC becomes clockwise once Y points down.
	t.front = area < 0
	switch base.Side {
	case FrontSide:
		if !t.front {
			return nil, false
		}
	case BackSide:
		if t.front {
			return nil, false
		}
	}
	if area < 0 {
		t.swap12()
		area = -area
	}
	t.area = area

	minX := math.Min(t.x[0], math.Min(t.x[1], t.x[2]))
	maxX := math.Max(t.x[0], math.Max(t.x[1], t.x[2]))
	minY := math.Min(t.y[0], math.Min(t.y[1], t.y[2]))
	maxY := math.Max(t.y[0], math.Max(t.y[1], t.y[2]))
	t.minX = max(0, int(math.Floor(minX)))
	t.maxX = min(int(s.width)-1, int(math.Ceil(maxX)))
	t.minY = max(0, int(math.Floor(minY)))
	t.maxY = min(int(s.height)-1, int(math.Ceil(maxY)))
	if t.minX > t.maxX || t.minY > t.maxY {
		return nil, false
	}
	return t, true
}

// swap12 exchanges vertices 1 and 2, reversing the winding.
func (t *triangle) swap12() {
	t.x[1], t.x[2] = t.x[2], t.x[1]
	t.y[1], t.y[2] = t.y[2], t.y[1]
	t.z[1], t.z[2] = t.z[2], t.z[1]
	t.invW[1], t.invW[2] = t.invW[2], t.invW[1]
	t.world[1], t.world[2] = t.world[2], t.world[1]
	t.normal[1], t.normal[2] = t.normal[2], t.normal[1]
	t.uv[1], t.uv[2] = t.uv[2], t.uv[1]
	t.attr[1], t.attr[2] = t.attr[2], t.attr[1]
}

func (t *triangle) rows() (int, int) {
	return t.minY, t.maxY
}

// edge returns twice the signed area of (a, b, p).
func edge(ax, ay, bx, by, px, py float64) float64 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

func (t *triangle) rasterize(band parallel.Band, target *frameTarget) {
	y0 := max(t.minY, band.Y0)
	y1 := min(t.maxY, band.Y1-1)
	inv := 1 / t.area

	var f Fragment
	f.FaceNormal = t.faceNormal
	f.FrontFace = t.front

	for y := y0; y <= y1; y++ {
		py := float64(y) + 0.5
		for x := t.minX; x <= t.maxX; x++ {
			px := float64(x) + 0.5
			w0 := edge(t.x[1], t.y[1], t.x[2], t.y[2], px, py)
			w1 := edge(t.x[2], t.y[2], t.x[0], t.y[0], px, py)
			w2 := edge(t.x[0], t.y[0], t.x[1], t.y[1], px, py)
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			l0, l1, l2 := w0*inv, w1*inv, w2*inv

			z := l0*t.z[0] + l1*t.z[1] + l2*t.z[2]
			if t.base.DepthTest && !target.depth.test(x, y, z, t.base.DepthWrite) {
				continue
			}
			if !t.base.DepthTest && t.base.DepthWrite {
				target.depth.data[y*target.width+x] = z
			}

			iw := l0*t.invW[0] + l1*t.invW[1] + l2*t.invW[2]
			w := 1 / iw
			p0, p1, p2 := l0*w, l1*w, l2*w

			f.X, f.Y = x, y
			f.Depth = w
			f.WorldPos = t.world[0].Mul(p0).Add(t.world[1].Mul(p1)).Add(t.world[2].Mul(p2))
			f.Normal = t.normal[0].Mul(p0).Add(t.normal[1].Mul(p1)).Add(t.normal[2].Mul(p2)).Normalize()
			if !t.front {
				f.Normal = f.Normal.Neg()
			}
			f.UV = Vec2{
				X: t.uv[0].X*p0 + t.uv[1].X*p1 + t.uv[2].X*p2,
				Y: t.uv[0].Y*p0 + t.uv[1].Y*p1 + t.uv[2].Y*p2,
			}
			f.Attr = t.attr[0]*p0 + t.attr[1]*p1 + t.attr[2]*p2

			c := t.mat.shade(&f, target.env)
			c = target.fog.apply(c, w)
			target.write(x, y, c, t.base)
		}
	}
}

// segment is a screen-space line segment.
type segment struct {
	x0, y0, z0, iw0 float64
	x1, y1, z1, iw1 float64
	mat             Material
	base            *MaterialBase
	minY, maxY      int
}

func (s *primitiveSetup) line(o *Object) {
	g := o.Geometry
	if len(g.Positions) < 2 {
		return
	}
	mvp := s.viewProj.Multiply(o.matrixWorld)
	mat := o.Material
	base := mat.Base()

	prev := vertex{clip: mvp.Project(g.Positions[0])}
	for _, p := range g.Positions[1:] {
		cur := vertex{clip: mvp.Project(p)}
		a, b, ok := clipSegment(prev, cur)
		prev = cur
		if !ok {
			continue
		}

		seg := &segment{mat: mat, base: base}
		seg.x0, seg.y0, seg.z0, seg.iw0 = s.toScreen(a.clip)
		seg.x1, seg.y1, seg.z1, seg.iw1 = s.toScreen(b.clip)
		if !isFinite(seg.x0, seg.y0, seg.x1, seg.y1) || !seg.clipToViewport(s.width, s.height) {
			continue
		}
		seg.minY = max(0, int(math.Floor(math.Min(seg.y0, seg.y1))))
		seg.maxY = min(int(s.height)-1, int(math.Floor(math.Max(seg.y0, seg.y1))))
		if seg.minY > seg.maxY {
			continue
		}
		s.stats.Lines++
		s.prims = append(s.prims, seg)
	}
}

// clipSegment clips a segment to the near and far planes.
func clipSegment(a, b vertex) (vertex, vertex, bool) {
	planes := []func(vertex) float64{
		func(v vertex) float64 { return v.clip.Z + v.clip.W },
		func(v vertex) float64 { return v.clip.W - v.clip.Z },
	}
	for _, dist := range planes {
		da, db := dist(a), dist(b)
		switch {
		case da < 0 && db < 0:
			return a, b, false
		case da < 0:
			a = a.lerp(b, da/(da-db))
		case db < 0:
			b = a.lerp(b, da/(da-db))
		}
	}
	return a, b, true
}

// clipRect clips the segment (x0, y0)-(x1, y1) to the rectangle [0, w] by
// [0, h] (Liang-Barsky) and returns the parameter range inside it.
func clipRect(x0, y0, x1, y1, w, h float64) (t0, t1 float64, ok bool) {
	dx, dy := x1-x0, y1-y0
	edges := [4]struct{ p, q float64 }{
		{-dx, x0},
		{dx, w - x0},
		{-dy, y0},
		{dy, h - y0},
	}
	t0, t1 = 0, 1
	for _, e := range edges {
		if e.p == 0 {
			if e.q < 0 {
				return 0, 0, false
			}
			continue
		}
		r := e.q / e.p
		if e.p < 0 {
			t0 = math.Max(t0, r)
		} else {
			t1 = math.Min(t1, r)
		}
		if t0 > t1 {
			return 0, 0, false
		}
	}
	return t0, t1, true
}

// clipToViewport shortens the segment to its visible part so that the
// number of raster steps is bounded by the viewport size. Depth and 1/w are
// affine in screen space and are interpolated with the endpoints.
func (s *segment) clipToViewport(width, height float64) bool {
	t0, t1, ok := clipRect(s.x0, s.y0, s.x1, s.y1, width, height)
	if !ok {
		return false
	}
	lerp := func(a, b, t float64) float64 { return a + (b-a)*t }
	x0, y0, z0, iw0 := lerp(s.x0, s.x1, t0), lerp(s.y0, s.y1, t0), lerp(s.z0, s.z1, t0), lerp(s.iw0, s.iw1, t0)
	x1, y1, z1, iw1 := lerp(s.x0, s.x1, t1), lerp(s.y0, s.y1, t1), lerp(s.z0, s.z1, t1), lerp(s.iw0, s.iw1, t1)
	s.x0, s.y0, s.z0, s.iw0 = x0, y0, z0, iw0
	s.x1, s.y1, s.z1, s.iw1 = x1, y1, z1, iw1
	return true
}

func (s *segment) rows() (int, int) {
	return s.minY, s.maxY
}

func (s *segment) rasterize(band parallel.Band, target *frameTarget) {
	dx, dy := s.x1-s.x0, s.y1-s.y0
	steps := int(math.Ceil(math.Max(math.Abs(dx), math.Abs(dy))))
	if steps < 1 {
		steps = 1
	}
	height := target.depth.height

	var f Fragment
	for i := 0; i <= steps; i++ {
		k := float64(i) / float64(steps)
		y := int(math.Floor(s.y0 + dy*k))
		if !band.Contains(y) || y >= height {
			continue
		}
		x := int(math.Floor(s.x0 + dx*k))
		if x < 0 || x >= target.width {
			continue
		}
		z := s.z0 + (s.z1-s.z0)*k
		if s.base.DepthTest && !target.depth.test(x, y, z, s.base.DepthWrite) {
			continue
		}
		iw := s.iw0 + (s.iw1-s.iw0)*k
		f.X, f.Y = x, y
		f.Depth = 1 / iw
		c := s.mat.shade(&f, target.env)
		c = target.fog.apply(c, f.Depth)
		target.write(x, y, c, s.base)
	}
}
