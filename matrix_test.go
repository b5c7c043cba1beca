package g3d

import (
	"math"
	"testing"
)

func TestMat4_Identity(t *testing.T) {
	m := Identity()
	if !m.IsIdentity() {
		t.Error("Identity() should be identity")
	}
	p := V3(1, 2, 3)
	if got := m.TransformPoint(p); got != p {
		t.Errorf("Identity().TransformPoint(%v) = %v", p, got)
	}
}

func TestMat4_TransformPoint(t *testing.T) {
	tests := []struct {
		name   string
		m      Mat4
		p      Vec3
		expect Vec3
	}{
		{"translate", Translate(1, 2, 3), V3(1, 1, 1), V3(2, 3, 4)},
		{"scale", Scale(2, 3, 4), V3(1, 1, 1), V3(2, 3, 4)},
		{"rotate x 90", RotateX(math.Pi / 2), V3(0, 1, 0), V3(0, 0, 1)},
		{"rotate y 90", RotateY(math.Pi / 2), V3(0, 0, 1), V3(1, 0, 0)},
		{"rotate z 90", RotateZ(math.Pi / 2), V3(1, 0, 0), V3(0, 1, 0)},
		{"compose", Compose(V3(0, 0, -5), Euler{}, SetScalar(2)), V3(1, 0, 0), V3(2, 0, -5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.TransformPoint(tt.p); !got.Approx(tt.expect, 1e-9) {
				t.Errorf("TransformPoint(%v) = %v, want %v", tt.p, got, tt.expect)
			}
		})
	}
}

func TestMat4_TransformVectorIgnoresTranslation(t *testing.T) {
	m := Translate(10, 20, 30)
	v := V3(1, 2, 3)
	if got := m.TransformVector(v); got != v {
		t.Errorf("TransformVector(%v) = %v, want unchanged", v, got)
	}
}

func TestMat4_Invert(t *testing.T) {
	m := Compose(V3(1, -2, 3), Euler{X: 0.3, Y: -0.7, Z: 1.1}, V3(2, 0.5, 1.5))
	inv := m.Invert()
	if got := m.Multiply(inv); !got.Approx(Identity(), 1e-9) {
		t.Errorf("m * m^-1 = %v, want identity", got)
	}

	singular := Scale(0, 1, 1)
	if !singular.Invert().IsIdentity() {
		t.Error("Invert of singular matrix should return identity")
	}
}

func TestMat4_Determinant(t *testing.T) {
	if d := Scale(2, 3, 4).Determinant(); math.Abs(d-24) > 1e-12 {
		t.Errorf("Determinant = %v, want 24", d)
	}
	if d := RotateY(0.4).Determinant(); math.Abs(d-1) > 1e-12 {
		t.Errorf("rotation Determinant = %v, want 1", d)
	}
}

func TestEulerRoundTrip(t *testing.T) {
	tests := []Euler{
		{X: 0.1, Y: 0.2, Z: 0.3},
		{X: -1.2, Y: 0.9, Z: 2.5},
		{X: 0, Y: 0, Z: -23.4 * math.Pi / 180},
	}
	for _, e := range tests {
		got := EulerFromMatrix(e.Matrix())
		if !got.Matrix().Approx(e.Matrix(), 1e-9) {
			t.Errorf("EulerFromMatrix(%v.Matrix()) = %v, matrices differ", e, got)
		}
	}
}

func TestLookRotation(t *testing.T) {
	eye := V3(0, 0, 5)
	m := LookRotation(eye, V3(0, 0, 0), V3(0, 1, 0))
	forward := m.TransformVector(V3(0, 0, -1))
	if !forward.Approx(V3(0, 0, -1), 1e-12) {
		t.Errorf("forward = %v, want (0,0,-1)", forward)
	}

	// Looking straight down must not produce NaNs.
	m = LookRotation(V3(0, 10, 0), V3(0, 0, 0), V3(0, 1, 0))
	f := m.TransformVector(V3(0, 0, -1))
	if math.IsNaN(f.X) || f.Y > -0.99 {
		t.Errorf("degenerate forward = %v, want about (0,-1,0)", f)
	}
}

func TestPerspective(t *testing.T) {
	p := Perspective(90, 1, 1, 100)

	near := p.Project(V3(0, 0, -1))
	if z := near.Z / near.W; math.Abs(z+1) > 1e-9 {
		t.Errorf("near plane ndc z = %v, want -1", z)
	}
	far := p.Project(V3(0, 0, -100))
	if z := far.Z / far.W; math.Abs(z-1) > 1e-9 {
		t.Errorf("far plane ndc z = %v, want 1", z)
	}
	edge := p.Project(V3(1, 0, -1))
	if x := edge.X / edge.W; math.Abs(x-1) > 1e-9 {
		t.Errorf("90 degree fov edge ndc x = %v, want 1", x)
	}
}
