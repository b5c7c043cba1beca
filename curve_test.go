package g3d

import (
	"math"
	"testing"
)

func loopPoints() []Vec3 {
	return []Vec3{
		V3(0, 0, 0),
		V3(10, 2, 0),
		V3(12, 0, 10),
		V3(0, -3, 12),
		V3(-6, 1, 5),
	}
}

func TestCatmullRom_Endpoints(t *testing.T) {
	pts := loopPoints()
	types := []CurveType{Centripetal, Chordal, Uniform}

	for _, ct := range types {
		t.Run(ct.String(), func(t *testing.T) {
			open := NewCatmullRom(pts, WithCurveType(ct))
			if got := open.Point(0); !got.Approx(pts[0], 1e-9) {
				t.Errorf("open Point(0) = %v, want %v", got, pts[0])
			}
			if got := open.Point(1); !got.Approx(pts[len(pts)-1], 1e-9) {
				t.Errorf("open Point(1) = %v, want %v", got, pts[len(pts)-1])
			}

			closed := NewCatmullRom(pts, WithCurveType(ct), WithClosed(true))
			if got := closed.Point(1); !got.Approx(pts[0], 1e-9) {
				t.Errorf("closed Point(1) = %v, want first point %v", got, pts[0])
			}
		})
	}
}

func TestCatmullRom_PassesThroughControlPoints(t *testing.T) {
	pts := loopPoints()
	c := NewCatmullRom(pts)
	segments := float64(len(pts) - 1)
	for i, p := range pts {
		if got := c.Point(float64(i) / segments); !got.Approx(p, 1e-9) {
			t.Errorf("Point(%d/%v) = %v, want %v", i, segments, got, p)
		}
	}
}

func TestCatmullRom_Continuity(t *testing.T) {
	for _, closed := range []bool{false, true} {
		c := NewCatmullRom(loopPoints(), WithClosed(closed))
		total := c.Length()
		const delta = 1e-3

		for i := 0; i < 1000; i++ {
			u := float64(i) / 1000
			a := c.PointAt(u)
			b := c.PointAt(u + delta)
			if d := a.Distance(b); d > 2*total*delta+1e-9 {
				t.Fatalf("closed=%v: |P(%v+d)-P(%v)| = %v exceeds bound %v", closed, u, u, d, 2*total*delta)
			}
		}
	}
}

func TestCatmullRom_ArcLengthIsUniform(t *testing.T) {
	c := NewCatmullRom(loopPoints(), WithArcDivisions(2000))
	total := c.Length()
	samples := c.Points(4000)

	// Walk the dense polyline and check that PointAt(0.5) sits near half the length.
	var acc float64
	var half Vec3
	for i := 1; i < len(samples); i++ {
		acc += samples[i].Distance(samples[i-1])
		if acc >= total/2 {
			half = samples[i]
			break
		}
	}
	if got := c.PointAt(0.5); got.Distance(half) > total*0.01 {
		t.Errorf("PointAt(0.5) = %v, want about %v", got, half)
	}
}

func TestCatmullRom_LookAhead(t *testing.T) {
	tests := []struct {
		name   string
		closed bool
	}{
		{"open", false},
		{"closed", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCatmullRom(loopPoints(), WithClosed(tt.closed))
			const eps = 0.01
			for i := 0; i < 100; i++ {
				u := float64(i) / 100
				target, param := c.LookAhead(u, eps)
				if param <= u {
					t.Fatalf("LookAhead(%v) param = %v, want > %v", u, param, u)
				}
				want := c.PointAt(wrapParam(u+eps, tt.closed))
				if !target.Approx(want, 1e-9) {
					t.Fatalf("LookAhead(%v) = %v, want %v", u, target, want)
				}
			}
		})
	}
}

func TestCatmullRom_LookAheadWrapsOnClosedCurve(t *testing.T) {
	c := NewCatmullRom(loopPoints(), WithClosed(true))
	target, param := c.LookAhead(0.995, 0.01)
	if math.Abs(param-1.005) > 1e-12 {
		t.Errorf("param = %v, want 1.005", param)
	}
	if want := c.PointAt(0.005); !target.Approx(want, 1e-6) {
		t.Errorf("wrapped target = %v, want %v", target, want)
	}
}

func TestCatmullRom_Tangent(t *testing.T) {
	// A straight line: tangent is the line direction everywhere.
	c := NewCatmullRom([]Vec3{V3(0, 0, 0), V3(1, 0, 0), V3(2, 0, 0), V3(3, 0, 0)})
	for _, u := range []float64{0, 0.3, 0.7, 1} {
		if got := c.TangentAt(u); !got.Approx(V3(1, 0, 0), 1e-6) {
			t.Errorf("TangentAt(%v) = %v, want +X", u, got)
		}
	}
	if l := c.Length(); math.Abs(l-3) > 1e-6 {
		t.Errorf("Length = %v, want 3", l)
	}
}

func TestCatmullRom_Degenerate(t *testing.T) {
	empty := NewCatmullRom(nil)
	if got := empty.PointAt(0.5); !got.IsZero() {
		t.Errorf("empty PointAt = %v, want zero", got)
	}
	if l := empty.Length(); l != 0 {
		t.Errorf("empty Length = %v, want 0", l)
	}

	single := NewCatmullRom([]Vec3{V3(1, 2, 3)})
	if got := single.PointAt(0.7); got != V3(1, 2, 3) {
		t.Errorf("single PointAt = %v, want the point", got)
	}

	dup := NewCatmullRom([]Vec3{V3(1, 1, 1), V3(1, 1, 1), V3(2, 2, 2)})
	p := dup.Point(0.25)
	if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsNaN(p.Z) {
		t.Errorf("coincident points produced NaN: %v", p)
	}
}

func TestCatmullRom_SetPointsInvalidatesLength(t *testing.T) {
	c := NewCatmullRom([]Vec3{V3(0, 0, 0), V3(1, 0, 0)})
	if l := c.Length(); math.Abs(l-1) > 1e-9 {
		t.Fatalf("Length = %v, want 1", l)
	}
	c.SetPoints([]Vec3{V3(0, 0, 0), V3(4, 0, 0)})
	if l := c.Length(); math.Abs(l-4) > 1e-9 {
		t.Errorf("Length after SetPoints = %v, want 4", l)
	}
}

func TestCatmullRom_PointsCount(t *testing.T) {
	c := NewCatmullRom(loopPoints())
	if n := len(c.Points(50)); n != 51 {
		t.Errorf("len(Points(50)) = %d, want 51", n)
	}
}
