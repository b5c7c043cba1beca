package g3d

import "math"

// Geometry is a vertex buffer with optional indices.
//
// Positions, Normals, UVs and Attr are parallel per-vertex arrays; Normals,
// UVs and Attr may be empty. Meshes read Indices as triangles (or consecutive
// position triples when Indices is empty). Lines read Positions as a
// polyline.
type Geometry struct {
	Positions []Vec3
	Normals   []Vec3
	UVs       []Vec2

	// Attr is a free per-vertex scalar passed to ShaderMaterial fragments,
	// e.g. the distance along a tube.
	Attr []float64

	Indices []uint32
}

// TriangleCount returns the number of triangles the geometry describes.
func (g *Geometry) TriangleCount() int {
	if len(g.Indices) > 0 {
		return len(g.Indices) / 3
	}
	return len(g.Positions) / 3
}

// triangle returns the vertex indices of triangle i.
func (g *Geometry) triangle(i int) (a, b, c int) {
	if len(g.Indices) > 0 {
		return int(g.Indices[3*i]), int(g.Indices[3*i+1]), int(g.Indices[3*i+2])
	}
	return 3 * i, 3*i + 1, 3*i + 2
}

// ComputeVertexNormals sets Normals to the area-weighted average of the
// adjacent face normals.
func (g *Geometry) ComputeVertexNormals() {
	normals := make([]Vec3, len(g.Positions))
	for i := 0; i < g.TriangleCount(); i++ {
		a, b, c := g.triangle(i)
		n := g.Positions[b].Sub(g.Positions[a]).Cross(g.Positions[c].Sub(g.Positions[a]))
		normals[a] = normals[a].Add(n)
		normals[b] = normals[b].Add(n)
		normals[c] = normals[c].Add(n)
	}
	for i := range normals {
		normals[i] = normals[i].Normalize()
	}
	g.Normals = normals
}

// BoundingSphere returns the center of the position bounds and the radius
// enclosing every position.
func (g *Geometry) BoundingSphere() (center Vec3, radius float64) {
	if len(g.Positions) == 0 {
		return Vec3{}, 0
	}
	lo, hi := g.Positions[0], g.Positions[0]
	for _, p := range g.Positions[1:] {
		lo = Vec3{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y), Z: math.Min(lo.Z, p.Z)}
		hi = Vec3{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y), Z: math.Max(hi.Z, p.Z)}
	}
	center = lo.Lerp(hi, 0.5)
	for _, p := range g.Positions {
		radius = math.Max(radius, p.Distance(center))
	}
	return center, radius
}

// NewLineGeometry creates a polyline geometry through points.
func NewLineGeometry(points []Vec3) *Geometry {
	return &Geometry{Positions: append([]Vec3(nil), points...)}
}

// SetFromPoints replaces the positions with points and drops other
// attributes.
func (g *Geometry) SetFromPoints(points []Vec3) {
	g.Positions = append(g.Positions[:0], points...)
	g.Normals = nil
	g.UVs = nil
	g.Attr = nil
	g.Indices = nil
}
