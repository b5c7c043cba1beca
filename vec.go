package g3d

import "math"

// Vec3 represents a 3D position or displacement.
type Vec3 struct {
	X, Y, Z float64
}

// V3 is a convenience function to create a Vec3.
func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add returns the sum of two vectors.
func (v Vec3) Add(w Vec3) Vec3 {
	return Vec3{X: v.X + w.X, Y: v.Y + w.Y, Z: v.Z + w.Z}
}

// Sub returns the difference of two vectors.
func (v Vec3) Sub(w Vec3) Vec3 {
	return Vec3{X: v.X - w.X, Y: v.Y - w.Y, Z: v.Z - w.Z}
}

// Mul returns the vector scaled by a scalar.
func (v Vec3) Mul(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// MulVec returns the component-wise product of two vectors.
func (v Vec3) MulVec(w Vec3) Vec3 {
	return Vec3{X: v.X * w.X, Y: v.Y * w.Y, Z: v.Z * w.Z}
}

// Div returns the vector divided by a scalar.
func (v Vec3) Div(s float64) Vec3 {
	return Vec3{X: v.X / s, Y: v.Y / s, Z: v.Z / s}
}

// Neg returns the negation of the vector.
func (v Vec3) Neg() Vec3 {
	return Vec3{X: -v.X, Y: -v.Y, Z: -v.Z}
}

// Dot returns the dot product of two vectors.
func (v Vec3) Dot(w Vec3) float64 {
	return v.X*w.X + v.Y*w.Y + v.Z*w.Z
}

// Cross returns the cross product v × w.
func (v Vec3) Cross(w Vec3) Vec3 {
	return Vec3{
		X: v.Y*w.Z - v.Z*w.Y,
		Y: v.Z*w.X - v.X*w.Z,
		Z: v.X*w.Y - v.Y*w.X,
	}
}

// Length returns the length (magnitude) of the vector.
func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// LengthSq returns the squared length of the vector.
func (v Vec3) LengthSq() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Distance returns the distance between two points.
func (v Vec3) Distance(w Vec3) float64 {
	return v.Sub(w).Length()
}

// DistanceSq returns the squared distance between two points.
func (v Vec3) DistanceSq(w Vec3) float64 {
	return v.Sub(w).LengthSq()
}

// Normalize returns a unit vector in the same direction.
// Returns zero vector if the original vector has zero length.
func (v Vec3) Normalize() Vec3 {
	length := v.Length()
	if length == 0 {
		return Vec3{}
	}
	return Vec3{X: v.X / length, Y: v.Y / length, Z: v.Z / length}
}

// Lerp performs linear interpolation between two vectors.
// t=0 returns v, t=1 returns w.
func (v Vec3) Lerp(w Vec3, t float64) Vec3 {
	return Vec3{
		X: v.X + (w.X-v.X)*t,
		Y: v.Y + (w.Y-v.Y)*t,
		Z: v.Z + (w.Z-v.Z)*t,
	}
}

// SetScalar returns a vector with all components equal to s.
func SetScalar(s float64) Vec3 {
	return Vec3{X: s, Y: s, Z: s}
}

// IsZero returns true if the vector is the zero vector.
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// Approx returns true if two vectors are approximately equal within epsilon.
func (v Vec3) Approx(w Vec3, epsilon float64) bool {
	return math.Abs(v.X-w.X) < epsilon &&
		math.Abs(v.Y-w.Y) < epsilon &&
		math.Abs(v.Z-w.Z) < epsilon
}

// Vec2 is a 2D vector, used for texture coordinates.
type Vec2 struct {
	X, Y float64
}

// V2 is a convenience function to create a Vec2.
func V2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Lerp performs linear interpolation between two vectors.
func (v Vec2) Lerp(w Vec2, t float64) Vec2 {
	return Vec2{X: v.X + (w.X-v.X)*t, Y: v.Y + (w.Y-v.Y)*t}
}

// Vec4 is a homogeneous coordinate produced by projection.
type Vec4 struct {
	X, Y, Z, W float64
}

// Lerp performs linear interpolation between two homogeneous coordinates.
func (v Vec4) Lerp(w Vec4, t float64) Vec4 {
	return Vec4{
		X: v.X + (w.X-v.X)*t,
		Y: v.Y + (w.Y-v.Y)*t,
		Z: v.Z + (w.Z-v.Z)*t,
		W: v.W + (w.W-v.W)*t,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return clamp(v, lo, hi)
}

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}
