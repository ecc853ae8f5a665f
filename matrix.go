package timewarp

import "math"

// Matrix4 is a 4x4 homogeneous transformation matrix in row-major order.
// Column vectors multiply on the right: v' = M * v, so m.Multiply(n)
// applies n first, then m.
//
// Poses are rigid transforms stored as Matrix4 values: a 3x3 rotation block
// with the translation in column 3. A delta pose used for reprojection
// carries a zero translation column (see TimeWarpTransform).
type Matrix4 struct {
	M [4][4]float32
}

// Identity4 returns the identity transformation.
func Identity4() Matrix4 {
	return Matrix4{M: [4][4]float32{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}}
}

// Multiply returns m * n.
func (m Matrix4) Multiply(n Matrix4) Matrix4 {
	var out Matrix4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			out.M[i][j] = m.M[i][0]*n.M[0][j] +
				m.M[i][1]*n.M[1][j] +
				m.M[i][2]*n.M[2][j] +
				m.M[i][3]*n.M[3][j]
		}
	}
	return out
}

// Transpose returns the transpose of m.
func (m Matrix4) Transpose() Matrix4 {
	var out Matrix4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			out.M[i][j] = m.M[j][i]
		}
	}
	return out
}

// InvertRigid returns the inverse of a rigid (rotation + translation)
// transform, computed as the transpose of the rotation block and the
// negated, rotated translation. This is both faster and numerically more
// stable than a general 4x4 inverse, and poses are rigid by construction.
func (m Matrix4) InvertRigid() Matrix4 {
	var out Matrix4
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out.M[i][j] = m.M[j][i]
		}
	}
	for i := 0; i < 3; i++ {
		out.M[i][3] = -(out.M[i][0]*m.M[0][3] +
			out.M[i][1]*m.M[1][3] +
			out.M[i][2]*m.M[2][3])
	}
	out.M[3][3] = 1
	return out
}

// WithoutTranslation returns m with the translation column zeroed.
func (m Matrix4) WithoutTranslation() Matrix4 {
	out := m
	out.M[0][3] = 0
	out.M[1][3] = 0
	out.M[2][3] = 0
	out.M[3][0] = 0
	out.M[3][1] = 0
	out.M[3][2] = 0
	out.M[3][3] = 1
	return out
}

// RotationX returns a rotation of angle radians about the X axis.
func RotationX(angle float32) Matrix4 {
	s, c := sincos(angle)
	out := Identity4()
	out.M[1][1] = c
	out.M[1][2] = -s
	out.M[2][1] = s
	out.M[2][2] = c
	return out
}

// RotationY returns a rotation of angle radians about the Y axis.
func RotationY(angle float32) Matrix4 {
	s, c := sincos(angle)
	out := Identity4()
	out.M[0][0] = c
	out.M[0][2] = s
	out.M[2][0] = -s
	out.M[2][2] = c
	return out
}

// RotationZ returns a rotation of angle radians about the Z axis.
func RotationZ(angle float32) Matrix4 {
	s, c := sincos(angle)
	out := Identity4()
	out.M[0][0] = c
	out.M[0][1] = -s
	out.M[1][0] = s
	out.M[1][1] = c
	return out
}

// Translation returns a pure translation transform.
func Translation(x, y, z float32) Matrix4 {
	out := Identity4()
	out.M[0][3] = x
	out.M[1][3] = y
	out.M[2][3] = z
	return out
}

// PerspectiveProjection returns a right-handed perspective projection with
// the given vertical field of view in radians, looking down -Z, mapping
// depth to [-1, 1] clip space.
func PerspectiveProjection(fovY, aspect, near, far float32) Matrix4 {
	f := 1 / float32(math.Tan(float64(fovY)/2))
	var out Matrix4
	out.M[0][0] = f / aspect
	out.M[1][1] = f
	out.M[2][2] = (far + near) / (near - far)
	out.M[2][3] = 2 * far * near / (near - far)
	out.M[3][2] = -1
	return out
}

func sincos(angle float32) (sin, cos float32) {
	s, c := math.Sincos(float64(angle))
	return float32(s), float32(c)
}
