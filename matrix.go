package g3d

import "math"

// Mat4 represents a 4x4 transformation matrix in row-major order:
//
//	| M[0]  M[1]  M[2]  M[3]  |
//	| M[4]  M[5]  M[6]  M[7]  |
//	| M[8]  M[9]  M[10] M[11] |
//	| M[12] M[13] M[14] M[15] |
//
// Points are column vectors: p' = M * p.
type Mat4 struct {
	M [16]float64
}

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{M: [16]float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}}
}

// Translate creates a translation matrix.
func Translate(x, y, z float64) Mat4 {
	return Mat4{M: [16]float64{
		1, 0, 0, x,
		0, 1, 0, y,
		0, 0, 1, z,
		0, 0, 0, 1,
	}}
}

// Scale creates a scaling matrix.
func Scale(x, y, z float64) Mat4 {
	return Mat4{M: [16]float64{
		x, 0, 0, 0,
		0, y, 0, 0,
		0, 0, z, 0,
		0, 0, 0, 1,
	}}
}

// RotateX creates a rotation about the X axis (angle in radians).
func RotateX(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{M: [16]float64{
		1, 0, 0, 0,
		0, c, -s, 0,
		0, s, c, 0,
		0, 0, 0, 1,
	}}
}

// RotateY creates a rotation about the Y axis (angle in radians).
func RotateY(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{M: [16]float64{
		c, 0, s, 0,
		0, 1, 0, 0,
		-s, 0, c, 0,
		0, 0, 0, 1,
	}}
}

// RotateZ creates a rotation about the Z axis (angle in radians).
func RotateZ(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{M: [16]float64{
		c, -s, 0, 0,
		s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}}
}

// Euler holds rotation angles in radians, applied in XYZ order.
type Euler struct {
	X, Y, Z float64
}

// Matrix returns the rotation matrix Rx * Ry * Rz.
func (e Euler) Matrix() Mat4 {
	return RotateX(e.X).Multiply(RotateY(e.Y)).Multiply(RotateZ(e.Z))
}

// EulerFromMatrix extracts XYZ Euler angles from the rotation part of m.
// The upper 3x3 of m must be a pure (unscaled) rotation.
func EulerFromMatrix(m Mat4) Euler {
	m11, m12, m13 := m.M[0], m.M[1], m.M[2]
	m22, m23 := m.M[5], m.M[6]
	m32, m33 := m.M[9], m.M[10]

	var e Euler
	e.Y = math.Asin(clamp(m13, -1, 1))
	if math.Abs(m13) < 0.9999999 {
		e.X = math.Atan2(-m23, m33)
		e.Z = math.Atan2(-m12, m11)
	} else {
		// Gimbal lock: Z folds into X.
		e.X = math.Atan2(m32, m22)
		e.Z = 0
	}
	return e
}

// Compose builds a transform that scales, then rotates, then translates.
func Compose(position Vec3, rotation Euler, scale Vec3) Mat4 {
	return Translate(position.X, position.Y, position.Z).
		Multiply(rotation.Matrix()).
		Multiply(Scale(scale.X, scale.Y, scale.Z))
}

// Perspective creates an OpenGL-style projection matrix.
// fovY is the vertical field of view in degrees. NDC depth is in [-1, 1].
func Perspective(fovY, aspect, near, far float64) Mat4 {
	f := 1 / math.Tan(DegToRad(fovY)/2)
	nf := 1 / (near - far)
	return Mat4{M: [16]float64{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) * nf, 2 * far * near * nf,
		0, 0, -1, 0,
	}}
}

// LookRotation returns a rotation whose local +Z axis points from target
// toward eye, with local +Y as close to up as possible. A camera placed at
// eye with this rotation looks at target along its -Z axis.
func LookRotation(eye, target, up Vec3) Mat4 {
	z := eye.Sub(target)
	if z.LengthSq() == 0 {
		z.Z = 1
	}
	z = z.Normalize()

	x := up.Cross(z)
	if x.LengthSq() == 0 {
		// up and z are parallel; nudge z.
		if math.Abs(up.Z) == 1 {
			z.X += 0.0001
		} else {
			z.Z += 0.0001
		}
		z = z.Normalize()
		x = up.Cross(z)
	}
	x = x.Normalize()
	y := z.Cross(x)

	return Mat4{M: [16]float64{
		x.X, y.X, z.X, 0,
		x.Y, y.Y, z.Y, 0,
		x.Z, y.Z, z.Z, 0,
		0, 0, 0, 1,
	}}
}

// Multiply multiplies two matrices (m * other).
func (m Mat4) Multiply(other Mat4) Mat4 {
	var r Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			r.M[row*4+col] = m.M[row*4+0]*other.M[0*4+col] +
				m.M[row*4+1]*other.M[1*4+col] +
				m.M[row*4+2]*other.M[2*4+col] +
				m.M[row*4+3]*other.M[3*4+col]
		}
	}
	return r
}

// TransformPoint applies the transformation to a point (w=1).
func (m Mat4) TransformPoint(p Vec3) Vec3 {
	x := m.M[0]*p.X + m.M[1]*p.Y + m.M[2]*p.Z + m.M[3]
	y := m.M[4]*p.X + m.M[5]*p.Y + m.M[6]*p.Z + m.M[7]
	z := m.M[8]*p.X + m.M[9]*p.Y + m.M[10]*p.Z + m.M[11]
	w := m.M[12]*p.X + m.M[13]*p.Y + m.M[14]*p.Z + m.M[15]
	if w != 1 && w != 0 {
		return Vec3{X: x / w, Y: y / w, Z: z / w}
	}
	return Vec3{X: x, Y: y, Z: z}
}

// TransformVector applies the transformation to a direction (no translation).
func (m Mat4) TransformVector(v Vec3) Vec3 {
	return Vec3{
		X: m.M[0]*v.X + m.M[1]*v.Y + m.M[2]*v.Z,
		Y: m.M[4]*v.X + m.M[5]*v.Y + m.M[6]*v.Z,
		Z: m.M[8]*v.X + m.M[9]*v.Y + m.M[10]*v.Z,
	}
}

// Project applies the full matrix to a point and returns the homogeneous
// result without perspective division.
func (m Mat4) Project(p Vec3) Vec4 {
	return Vec4{
		X: m.M[0]*p.X + m.M[1]*p.Y + m.M[2]*p.Z + m.M[3],
		Y: m.M[4]*p.X + m.M[5]*p.Y + m.M[6]*p.Z + m.M[7],
		Z: m.M[8]*p.X + m.M[9]*p.Y + m.M[10]*p.Z + m.M[11],
		W: m.M[12]*p.X + m.M[13]*p.Y + m.M[14]*p.Z + m.M[15],
	}
}

// Position returns the translation component of the matrix.
func (m Mat4) Position() Vec3 {
	return Vec3{X: m.M[3], Y: m.M[7], Z: m.M[11]}
}

// Transpose returns the transposed matrix.
func (m Mat4) Transpose() Mat4 {
	var r Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			r.M[col*4+row] = m.M[row*4+col]
		}
	}
	return r
}

// Determinant returns the determinant of the matrix.
func (m Mat4) Determinant() float64 {
	inv := m.adjugate()
	return m.M[0]*inv.M[0] + m.M[1]*inv.M[4] + m.M[2]*inv.M[8] + m.M[3]*inv.M[12]
}

// Invert returns the inverse matrix.
// Returns the identity matrix if the matrix is not invertible.
func (m Mat4) Invert() Mat4 {
	adj := m.adjugate()
	det := m.M[0]*adj.M[0] + m.M[1]*adj.M[4] + m.M[2]*adj.M[8] + m.M[3]*adj.M[12]
	if math.Abs(det) < 1e-12 {
		return Identity()
	}
	invDet := 1 / det
	for i := range adj.M {
		adj.M[i] *= invDet
	}
	return adj
}

// NormalMatrix returns the inverse transpose of m, for transforming normals.
func (m Mat4) NormalMatrix() Mat4 {
	return m.Invert().Transpose()
}

// adjugate returns the transposed cofactor matrix.
func (m Mat4) adjugate() Mat4 {
	a := m.M
	var inv Mat4
	inv.M[0] = a[5]*a[10]*a[15] - a[5]*a[11]*a[14] - a[9]*a[6]*a[15] + a[9]*a[7]*a[14] + a[13]*a[6]*a[11] - a[13]*a[7]*a[10]
	inv.M[4] = -a[4]*a[10]*a[15] + a[4]*a[11]*a[14] + a[8]*a[6]*a[15] - a[8]*a[7]*a[14] - a[12]*a[6]*a[11] + a[12]*a[7]*a[10]
	inv.M[8] = a[4]*a[9]*a[15] - a[4]*a[11]*a[13] - a[8]*a[5]*a[15] + a[8]*a[7]*a[13] + a[12]*a[5]*a[11] - a[12]*a[7]*a[9]
	inv.M[12] = -a[4]*a[9]*a[14] + a[4]*a[10]*a[13] + a[8]*a[5]*a[14] - a[8]*a[6]*a[13] - a[12]*a[5]*a[10] + a[12]*a[6]*a[9]
	inv.M[1] = -a[1]*a[10]*a[15] + a[1]*a[11]*a[14] + a[9]*a[2]*a[15] - a[9]*a[3]*a[14] - a[13]*a[2]*a[11] + a[13]*a[3]*a[10]
	inv.M[5] = a[0]*a[10]*a[15] - a[0]*a[11]*a[14] - a[8]*a[2]*a[15] + a[8]*a[3]*a[14] + a[12]*a[2]*a[11] - a[12]*a[3]*a[10]
	inv.M[9] = -a[0]*a[9]*a[15] + a[0]*a[11]*a[13] + a[8]*a[1]*a[15] - a[8]*a[3]*a[13] - a[12]*a[1]*a[11] + a[12]*a[3]*a[9]
	inv.M[13] = a[0]*a[9]*a[14] - a[0]*a[10]*a[13] - a[8]*a[1]*a[14] + a[8]*a[2]*a[13] + a[12]*a[1]*a[10] - a[12]*a[2]*a[9]
	inv.M[2] = a[1]*a[6]*a[15] - a[1]*a[7]*a[14] - a[5]*a[2]*a[15] + a[5]*a[3]*a[14] + a[13]*a[2]*a[7] - a[13]*a[3]*a[6]
	inv.M[6] = -a[0]*a[6]*a[15] + a[0]*a[7]*a[14] + a[4]*a[2]*a[15] - a[4]*a[3]*a[14] - a[12]*a[2]*a[7] + a[12]*a[3]*a[6]
	inv.M[10] = a[0]*a[5]*a[15] - a[0]*a[7]*a[13] - a[4]*a[1]*a[15] + a[4]*a[3]*a[13] + a[12]*a[1]*a[7] - a[12]*a[3]*a[5]
	inv.M[14] = -a[0]*a[5]*a[14] + a[0]*a[6]*a[13] + a[4]*a[1]*a[14] - a[4]*a[2]*a[13] - a[12]*a[1]*a[6] + a[12]*a[2]*a[5]
	inv.M[3] = -a[1]*a[6]*a[11] + a[1]*a[7]*a[10] + a[5]*a[2]*a[11] - a[5]*a[3]*a[10] - a[9]*a[2]*a[7] + a[9]*a[3]*a[6]
	inv.M[7] = a[0]*a[6]*a[11] - a[0]*a[7]*a[10] - a[4]*a[2]*a[11] + a[4]*a[3]*a[10] + a[8]*a[2]*a[7] - a[8]*a[3]*a[6]
	inv.M[11] = -a[0]*a[5]*a[11] + a[0]*a[7]*a[9] + a[4]*a[1]*a[11] - a[4]*a[3]*a[9] - a[8]*a[1]*a[7] + a[8]*a[3]*a[5]
	inv.M[15] = a[0]*a[5]*a[10] - a[0]*a[6]*a[9] - a[4]*a[1]*a[10] + a[4]*a[2]*a[9] + a[8]*a[1]*a[6] - a[8]*a[2]*a[5]
	return inv
}

// IsIdentity returns true if the matrix is the identity matrix.
func (m Mat4) IsIdentity() bool {
	return m == Identity()
}

// Approx returns true if all elements are within epsilon of other's.
func (m Mat4) Approx(other Mat4, epsilon float64) bool {
	for i := range m.M {
		if math.Abs(m.M[i]-other.M[i]) >= epsilon {
			return false
		}
	}
	return true
}
