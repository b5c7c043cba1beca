package g3d

import "math"

// NewBoxGeometry creates an axis-aligned box centered at the origin with
// outward-facing, counter-clockwise triangles.
func NewBoxGeometry(width, height, depth float64) *Geometry {
	h := V3(width/2, height/2, depth/2)
	faces := []struct{ n, u, v Vec3 }{
		{V3(1, 0, 0), V3(0, 0, -1), V3(0, 1, 0)},
		{V3(-1, 0, 0), V3(0, 0, 1), V3(0, 1, 0)},
		{V3(0, 1, 0), V3(1, 0, 0), V3(0, 0, -1)},
		{V3(0, -1, 0), V3(1, 0, 0), V3(0, 0, 1)},
		{V3(0, 0, 1), V3(1, 0, 0), V3(0, 1, 0)},
		{V3(0, 0, -1), V3(-1, 0, 0), V3(0, 1, 0)},
	}

	g := &Geometry{}
	for _, f := range faces {
		c := f.n.MulVec(h)
		u := f.u.MulVec(h)
		v := f.v.MulVec(h)
		base := uint32(len(g.Positions))
		g.Positions = append(g.Positions,
			c.Sub(u).Sub(v),
			c.Add(u).Sub(v),
			c.Add(u).Add(v),
			c.Sub(u).Add(v),
		)
		g.Normals = append(g.Normals, f.n, f.n, f.n, f.n)
		g.UVs = append(g.UVs, V2(0, 0), V2(1, 0), V2(1, 1), V2(0, 1))
		g.Indices = append(g.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return g
}

// NewSphereGeometry creates a UV sphere. U runs with longitude, V from the
// south pole (0) to the north pole (1), so an equirectangular map wraps it.
func NewSphereGeometry(radius float64, widthSegments, heightSegments int) *Geometry {
	widthSegments = max(3, widthSegments)
	heightSegments = max(2, heightSegments)

	g := &Geometry{}
	grid := make([][]uint32, heightSegments+1)
	for iy := 0; iy <= heightSegments; iy++ {
		v := float64(iy) / float64(heightSegments)
		row := make([]uint32, widthSegments+1)
		for ix := 0; ix <= widthSegments; ix++ {
			u := float64(ix) / float64(widthSegments)
			n := Vec3{
				X: -math.Cos(u*2*math.Pi) * math.Sin(v*math.Pi),
				Y: math.Cos(v * math.Pi),
				Z: math.Sin(u*2*math.Pi) * math.Sin(v*math.Pi),
			}
			row[ix] = uint32(len(g.Positions))
			g.Positions = append(g.Positions, n.Mul(radius))
			g.Normals = append(g.Normals, n.Normalize())
			g.UVs = append(g.UVs, V2(u, 1-v))
		}
		grid[iy] = row
	}

	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := grid[iy][ix+1]
			b := grid[iy][ix]
			c := grid[iy+1][ix]
			d := grid[iy+1][ix+1]
			if iy != 0 {
				g.Indices = append(g.Indices, a, b, d)
			}
			if iy != heightSegments-1 {
				g.Indices = append(g.Indices, b, c, d)
			}
		}
	}
	return g
}

var (
	icosaPhi      = (1 + math.Sqrt(5)) / 2
	icosaVertices = []Vec3{
		{-1, icosaPhi, 0}, {1, icosaPhi, 0}, {-1, -icosaPhi, 0}, {1, -icosaPhi, 0},
		{0, -1, icosaPhi}, {0, 1, icosaPhi}, {0, -1, -icosaPhi}, {0, 1, -icosaPhi},
		{icosaPhi, 0, -1}, {icosaPhi, 0, 1}, {-icosaPhi, 0, -1}, {-icosaPhi, 0, 1},
	}
	icosaFaces = [][3]int{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}
)

// NewIcosahedronGeometry creates a geodesic sphere by splitting each of the
// 20 icosahedron faces into (detail+1)^2 triangles and projecting the
// vertices onto the sphere. The geometry is non-indexed so flat shading and
// texture seams work per face.
func NewIcosahedronGeometry(radius float64, detail int) *Geometry {
	detail = max(0, detail)
	cols := detail + 1

	g := &Geometry{}
	for _, f := range icosaFaces {
		a, b, c := icosaVertices[f[0]], icosaVertices[f[1]], icosaVertices[f[2]]

		v := make([][]Vec3, cols+1)
		for i := 0; i <= cols; i++ {
			aj := a.Lerp(c, float64(i)/float64(cols))
			bj := b.Lerp(c, float64(i)/float64(cols))
			rows := cols - i
			v[i] = make([]Vec3, rows+1)
			for j := 0; j <= rows; j++ {
				if j == 0 && i == cols {
					v[i][j] = aj
				} else {
					v[i][j] = aj.Lerp(bj, float64(j)/float64(rows))
				}
			}
		}

		for i := 0; i < cols; i++ {
			for j := 0; j < 2*(cols-i)-1; j++ {
				k := j / 2
				if j%2 == 0 {
					g.addSphereFace(radius, v[i][k+1], v[i+1][k], v[i][k])
				} else {
					g.addSphereFace(radius, v[i][k+1], v[i+1][k+1], v[i+1][k])
				}
			}
		}
	}
	return g
}

// addSphereFace appends one projected triangle with spherical UVs, fixing
// the longitude seam so the face does not span the whole texture.
func (g *Geometry) addSphereFace(radius float64, p ...Vec3) {
	var uvs [3]Vec2
	for i := range p {
		p[i] = p[i].Normalize()
		uvs[i] = sphereUV(p[i])
	}

	minU, maxU := uvs[0].X, uvs[0].X
	for _, uv := range uvs[1:] {
		minU, maxU = math.Min(minU, uv.X), math.Max(maxU, uv.X)
	}
	if maxU-minU > 0.9 {
		for i := range uvs {
			if uvs[i].X < 0.2 {
				uvs[i].X++
			}
		}
	}

	for i := range p {
		g.Positions = append(g.Positions, p[i].Mul(radius))
		g.Normals = append(g.Normals, p[i])
		g.UVs = append(g.UVs, uvs[i])
	}
}

// sphereUV maps a unit direction to equirectangular texture coordinates
// matching NewSphereGeometry.
func sphereUV(n Vec3) Vec2 {
	u := math.Atan2(n.Z, -n.X) / (2 * math.Pi)
	if u < 0 {
		u++
	}
	inclination := math.Atan2(n.Y, math.Sqrt(n.X*n.X+n.Z*n.Z))
	return Vec2{
		X: u,
		Y: inclination/math.Pi + 0.5,
	}
}

// NewTubeGeometry sweeps a circle of the given radius along the curve.
// Attr holds the normalized arc length of each ring, for color ramps.
// Closed curves produce a seamless loop.
func NewTubeGeometry(curve *CatmullRom, tubularSegments int, radius float64, radialSegments int) *Geometry {
	tubularSegments = max(1, tubularSegments)
	radialSegments = max(3, radialSegments)
	closed := curve.Closed()

	_, normals, binormals := curve.frames(tubularSegments)

	g := &Geometry{}
	for i := 0; i <= tubularSegments; i++ {
		frame := i
		if closed && i == tubularSegments {
			frame = 0
		}
		u := float64(i) / float64(tubularSegments)
		center := curve.PointAt(wrapParam(u, closed))

		for j := 0; j <= radialSegments; j++ {
			angle := float64(j) / float64(radialSegments) * 2 * math.Pi
			n := normals[frame].Mul(-math.Cos(angle)).Add(binormals[frame].Mul(math.Sin(angle))).Normalize()
			g.Positions = append(g.Positions, center.Add(n.Mul(radius)))
			g.Normals = append(g.Normals, n)
			g.UVs = append(g.UVs, V2(u, float64(j)/float64(radialSegments)))
			g.Attr = append(g.Attr, u)
		}
	}

	stride := uint32(radialSegments + 1)
	for i := uint32(1); i <= uint32(tubularSegments); i++ {
		for j := uint32(1); j <= uint32(radialSegments); j++ {
			a := stride*(i-1) + (j - 1)
			b := stride*i + (j - 1)
			c := stride*i + j
			d := stride*(i-1) + j
			g.Indices = append(g.Indices, a, b, d, b, c, d)
		}
	}
	return g
}

// frames computes segments+1 rotation-minimizing frames along the curve by
// parallel transport. On closed curves the accumulated twist is spread
// evenly so the last frame matches the first.
func (c *CatmullRom) frames(segments int) (tangents, normals, binormals []Vec3) {
	n := segments + 1
	tangents = make([]Vec3, n)
	normals = make([]Vec3, n)
	binormals = make([]Vec3, n)

	for i := range tangents {
		tangents[i] = c.TangentAt(wrapParam(float64(i)/float64(segments), c.closed))
	}

	// Initial normal: perpendicular to the tangent, seeded from the axis the
	// tangent is least aligned with.
	t0 := tangents[0]
	axis := V3(1, 0, 0)
	ax, ay, az := math.Abs(t0.X), math.Abs(t0.Y), math.Abs(t0.Z)
	switch {
	case ay <= ax && ay <= az:
		axis = V3(0, 1, 0)
	case az <= ax && az <= ay:
		axis = V3(0, 0, 1)
	}
	v := t0.Cross(axis).Normalize()
	normals[0] = t0.Cross(v)
	binormals[0] = t0.Cross(normals[0])

	for i := 1; i < n; i++ {
		normals[i] = normals[i-1]
		axis := tangents[i-1].Cross(tangents[i])
		if axis.Length() > 1e-12 {
			axis = axis.Normalize()
			theta := math.Acos(clamp(tangents[i-1].Dot(tangents[i]), -1, 1))
			normals[i] = rotateAround(normals[i], axis, theta)
		}
		binormals[i] = tangents[i].Cross(normals[i])
	}

	if c.closed {
		theta := math.Acos(clamp(normals[0].Dot(normals[n-1]), -1, 1)) / float64(segments)
		if tangents[0].Dot(normals[0].Cross(normals[n-1])) > 0 {
			theta = -theta
		}
		for i := 1; i < n; i++ {
			normals[i] = rotateAround(normals[i], tangents[i], theta*float64(i))
			binormals[i] = tangents[i].Cross(normals[i])
		}
	}
	return tangents, normals, binormals
}

// rotateAround rotates v about a unit axis by angle (Rodrigues).
func rotateAround(v, axis Vec3, angle float64) Vec3 {
	cos, sin := math.Cos(angle), math.Sin(angle)
	return v.Mul(cos).
		Add(axis.Cross(v).Mul(sin)).
		Add(axis.Mul(axis.Dot(v) * (1 - cos)))
}
