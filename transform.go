package timewarp

// minHomogeneousW clamps the homogeneous divisor during tan-angle
// projection. Points near the horizon of the eye frustum can project with a
// w arbitrarily close to zero; dividing by it would blow up the resampled
// texture coordinate.
const minHomogeneousW = 0.00001

// TanAngleMatrixFromProjection converts clip-space coordinates produced by
// projection into a 0-to-1 tan-angle texture space. The third and fourth
// rows both carry -Z so that the projected w preserves the divide-by-depth
// the original projection implied.
func TanAngleMatrixFromProjection(projection Matrix4) Matrix4 {
	p := &projection.M
	return Matrix4{M: [4][4]float32{
		{0.5 * p[0][0], 0, 0.5*p[0][2] - 0.5, 0},
		{0, 0.5 * p[1][1], 0.5*p[1][2] - 0.5, 0},
		{0, 0, -1, 0},
		{0, 0, -1, 0},
	}}
}

// TimeWarpTransform produces the combined reprojection transform for one
// predicted pose: the rotation-only delta between the pose the frame was
// rendered with and the freshly predicted pose, composed with the
// clip-to-texture-space remap of the frame's projection.
//
// Only orientation is corrected. The delta's translation is stripped, so a
// frame rendered and displayed with identical orientation reduces to the
// pure texture remap regardless of any head translation in the poses.
func TimeWarpTransform(projection, renderPose, predictedPose Matrix4) Matrix4 {
	delta := renderPose.InvertRigid().
		Multiply(predictedPose).
		InvertRigid().
		WithoutTranslation()
	return TanAngleMatrixFromProjection(projection).Multiply(delta)
}

// WarpTexCoord applies a time-warp transform to a tan-angle direction
// (x, y, -1) and returns the resulting texture coordinate after the
// homogeneous divide. The divisor is clamped away from zero.
func WarpTexCoord(warp Matrix4, x, y float32) (u, v float32) {
	m := &warp.M
	w := m[3][0]*x + m[3][1]*y - m[3][2] + m[3][3]
	if w < minHomogeneousW {
		w = minHomogeneousW
	}
	u = (m[0][0]*x + m[0][1]*y - m[0][2] + m[0][3]) / w
	v = (m[1][0]*x + m[1][1]*y - m[1][2] + m[1][3]) / w
	return u, v
}
