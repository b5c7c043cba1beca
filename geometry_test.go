package g3d

import (
	"math"
	"testing"
)

// checkOutward verifies every non-degenerate triangle winds counter-clockwise
// when seen from outside a shape centered at the origin.
func checkOutward(t *testing.T, g *Geometry) {
	t.Helper()
	for i := 0; i < g.TriangleCount(); i++ {
		a, b, c := g.triangle(i)
		pa, pb, pc := g.Positions[a], g.Positions[b], g.Positions[c]
		n := pb.Sub(pa).Cross(pc.Sub(pa))
		if n.Length() < 1e-12 {
			continue
		}
		centroid := pa.Add(pb).Add(pc).Div(3)
		if n.Dot(centroid) <= 0 {
			t.Fatalf("triangle %d faces inward", i)
		}
	}
}

func TestBoxGeometry(t *testing.T) {
	g := NewBoxGeometry(2, 4, 6)

	if len(g.Positions) != 24 || g.TriangleCount() != 12 {
		t.Fatalf("positions=%d triangles=%d, want 24, 12", len(g.Positions), g.TriangleCount())
	}
	for i, p := range g.Positions {
		if math.Abs(p.X) != 1 || math.Abs(p.Y) != 2 || math.Abs(p.Z) != 3 {
			t.Errorf("vertex %d = %v not on a corner", i, p)
		}
		if n := g.Normals[i]; math.Abs(n.Length()-1) > 1e-12 {
			t.Errorf("normal %d not unit: %v", i, n)
		}
	}
	checkOutward(t, g)
}

func TestSphereGeometry(t *testing.T) {
	const r = 5
	g := NewSphereGeometry(r, 32, 16)

	if want := 33 * 17; len(g.Positions) != want {
		t.Errorf("positions = %d, want %d", len(g.Positions), want)
	}
	// Pole rows contribute one triangle per segment, the others two.
	if want := 32 * (2*16 - 2); g.TriangleCount() != want {
		t.Errorf("triangles = %d, want %d", g.TriangleCount(), want)
	}
	for i, p := range g.Positions {
		if math.Abs(p.Length()-r) > 1e-9 {
			t.Fatalf("vertex %d at radius %v", i, p.Length())
		}
	}
	checkOutward(t, g)

	// The first row is the north pole with v=1.
	if g.Positions[0].Y < r-1e-9 || g.UVs[0].Y != 1 {
		t.Errorf("first vertex %v uv %v, want north pole", g.Positions[0], g.UVs[0])
	}

	// Minimum segment counts are enforced.
	if small := NewSphereGeometry(1, 0, 0); len(small.Positions) != 4*3 {
		t.Errorf("clamped sphere has %d positions, want 12", len(small.Positions))
	}
}

func TestIcosahedronGeometry(t *testing.T) {
	tests := []struct {
		detail    int
		triangles int
	}{
		{0, 20},
		{1, 80},
		{3, 320},
		{-2, 20},
	}
	for _, tt := range tests {
		g := NewIcosahedronGeometry(2, tt.detail)
		if g.TriangleCount() != tt.triangles {
			t.Errorf("detail %d: triangles = %d, want %d", tt.detail, g.TriangleCount(), tt.triangles)
		}
		if len(g.Indices) != 0 {
			t.Errorf("detail %d: geometry should be non-indexed", tt.detail)
		}
		for i, p := range g.Positions {
			if math.Abs(p.Length()-2) > 1e-9 {
				t.Fatalf("detail %d: vertex %d at radius %v", tt.detail, i, p.Length())
			}
		}
		checkOutward(t, g)
	}
}

func TestIcosahedronSeam(t *testing.T) {
	g := NewIcosahedronGeometry(1, 4)
	for i := 0; i < g.TriangleCount(); i++ {
		a, b, c := g.triangle(i)
		// Near the poles longitude is meaningless.
		if math.Abs(g.Normals[a].Y) > 0.9 || math.Abs(g.Normals[b].Y) > 0.9 || math.Abs(g.Normals[c].Y) > 0.9 {
			continue
		}
		us := []float64{g.UVs[a].X, g.UVs[b].X, g.UVs[c].X}
		lo, hi := math.Min(us[0], math.Min(us[1], us[2])), math.Max(us[0], math.Max(us[1], us[2]))
		if hi-lo > 0.5 {
			t.Fatalf("triangle %d spans u %v..%v across the seam", i, lo, hi)
		}
	}
}

func TestSphereUVMatchesSphereGeometry(t *testing.T) {
	g := NewSphereGeometry(1, 8, 8)
	// Skip the poles and the u=0/1 seam columns where u is ambiguous.
	for i, p := range g.Positions {
		uv := g.UVs[i]
		if uv.Y <= 0 || uv.Y >= 1 || uv.X <= 0 || uv.X >= 1 {
			continue
		}
		got := sphereUV(p.Normalize())
		if math.Abs(got.X-uv.X) > 1e-9 || math.Abs(got.Y-uv.Y) > 1e-9 {
			t.Errorf("sphereUV(%v) = %v, want %v", p, got, uv)
		}
	}
}

func TestTubeGeometry(t *testing.T) {
	curve := NewCatmullRom([]Vec3{
		V3(0, 0, 0), V3(10, 0, 0), V3(10, 10, 0), V3(0, 10, 5),
	}, WithClosed(true))
	const (
		segments = 40
		radial   = 8
		radius   = 0.5
	)
	g := NewTubeGeometry(curve, segments, radius, radial)

	if want := (segments + 1) * (radial + 1); len(g.Positions) != want {
		t.Fatalf("positions = %d, want %d", len(g.Positions), want)
	}
	if want := 6 * segments * radial; len(g.Indices) != want {
		t.Errorf("indices = %d, want %d", len(g.Indices), want)
	}
	if len(g.Attr) != len(g.Positions) {
		t.Errorf("attr len = %d, want %d", len(g.Attr), len(g.Positions))
	}

	for i := 0; i <= segments; i++ {
		u := float64(i) / segments
		center := curve.PointAt(wrapParam(u, true))
		for j := 0; j <= radial; j++ {
			p := g.Positions[i*(radial+1)+j]
			if d := p.Distance(center); math.Abs(d-radius) > 1e-9 {
				t.Fatalf("ring %d vertex %d at %v from center, want %v", i, j, d, radius)
			}
		}
	}

	// A closed tube ends where it starts.
	last := segments * (radial + 1)
	for j := 0; j <= radial; j++ {
		if !g.Positions[last+j].Approx(g.Positions[j], 1e-9) {
			t.Errorf("ring seam mismatch at %d: %v vs %v", j, g.Positions[last+j], g.Positions[j])
		}
	}
}

func TestComputeVertexNormals(t *testing.T) {
	g := &Geometry{
		Positions: []Vec3{V3(0, 0, 0), V3(1, 0, 0), V3(0, 1, 0)},
	}
	g.ComputeVertexNormals()
	for i, n := range g.Normals {
		if !n.Approx(V3(0, 0, 1), 1e-12) {
			t.Errorf("normal %d = %v, want +Z", i, n)
		}
	}
}

func TestBoundingSphere(t *testing.T) {
	g := NewBoxGeometry(2, 2, 2)
	center, r := g.BoundingSphere()
	if !center.Approx(Vec3{}, 1e-12) || math.Abs(r-math.Sqrt(3)) > 1e-12 {
		t.Errorf("BoundingSphere() = %v, %v; want origin, sqrt(3)", center, r)
	}
	if _, r := (&Geometry{}).BoundingSphere(); r != 0 {
		t.Errorf("empty radius = %v", r)
	}
}

func TestLineGeometry(t *testing.T) {
	pts := []Vec3{V3(0, 0, 0), V3(1, 1, 1)}
	g := NewLineGeometry(pts)
	pts[0] = V3(9, 9, 9)
	if g.Positions[0] != (Vec3{}) {
		t.Error("NewLineGeometry should copy points")
	}

	g.UVs = []Vec2{{}, {}}
	g.SetFromPoints([]Vec3{V3(1, 0, 0), V3(2, 0, 0), V3(3, 0, 0)})
	if len(g.Positions) != 3 || g.UVs != nil {
		t.Errorf("SetFromPoints: positions=%d uvs=%v", len(g.Positions), g.UVs)
	}
}
