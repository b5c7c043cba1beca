package g3d

import (
	"math"
	"testing"
)

func TestVec3_Arithmetic(t *testing.T) {
	tests := []struct {
		name   string
		got    Vec3
		expect Vec3
	}{
		{"add", V3(1, 2, 3).Add(V3(4, 5, 6)), V3(5, 7, 9)},
		{"sub", V3(5, 7, 9).Sub(V3(4, 5, 6)), V3(1, 2, 3)},
		{"mul", V3(1, -2, 3).Mul(2), V3(2, -4, 6)},
		{"div", V3(2, -4, 6).Div(2), V3(1, -2, 3)},
		{"neg", V3(1, -2, 3).Neg(), V3(-1, 2, -3)},
		{"mulvec", V3(1, 2, 3).MulVec(V3(2, 3, 4)), V3(2, 6, 12)},
		{"lerp half", V3(0, 0, 0).Lerp(V3(2, 4, 6), 0.5), V3(1, 2, 3)},
		{"setscalar", SetScalar(1.003), V3(1.003, 1.003, 1.003)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.got.Approx(tt.expect, 1e-12) {
				t.Errorf("got %v, want %v", tt.got, tt.expect)
			}
		})
	}
}

func TestVec3_Cross(t *testing.T) {
	tests := []struct {
		name   string
		v, w   Vec3
		expect Vec3
	}{
		{"x cross y", V3(1, 0, 0), V3(0, 1, 0), V3(0, 0, 1)},
		{"y cross z", V3(0, 1, 0), V3(0, 0, 1), V3(1, 0, 0)},
		{"z cross x", V3(0, 0, 1), V3(1, 0, 0), V3(0, 1, 0)},
		{"parallel", V3(2, 0, 0), V3(5, 0, 0), V3(0, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Cross(tt.w); !got.Approx(tt.expect, 1e-12) {
				t.Errorf("%v.Cross(%v) = %v, want %v", tt.v, tt.w, got, tt.expect)
			}
		})
	}
}

func TestVec3_Normalize(t *testing.T) {
	n := V3(3, 4, 12).Normalize()
	if math.Abs(n.Length()-1) > 1e-12 {
		t.Errorf("Normalize length = %v, want 1", n.Length())
	}
	if z := (Vec3{}).Normalize(); !z.IsZero() {
		t.Errorf("zero.Normalize() = %v, want zero", z)
	}
}

func TestVec3_Distance(t *testing.T) {
	if d := V3(1, 2, 3).Distance(V3(4, 6, 3)); math.Abs(d-5) > 1e-12 {
		t.Errorf("Distance = %v, want 5", d)
	}
	if d := V3(1, 2, 3).DistanceSq(V3(4, 6, 3)); math.Abs(d-25) > 1e-12 {
		t.Errorf("DistanceSq = %v, want 25", d)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float64
	}{
		{5, 20, 60, 20},
		{70, 20, 60, 60},
		{30, 20, 60, 30},
	}
	for _, tt := range tests {
		if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}
