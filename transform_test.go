package timewarp

import (
	"math"
	"testing"
)

func testProjection() Matrix4 {
	return PerspectiveProjection(float32(math.Pi/2), 1, 0.1, 100)
}

func TestTimeWarpTransform_IdenticalPoses(t *testing.T) {
	proj := testProjection()
	pose := RotationY(0.6).Multiply(RotationX(-0.2))

	got := TimeWarpTransform(proj, pose, pose)
	want := TanAngleMatrixFromProjection(proj)
	if !matricesClose(got, want, matrixEps) {
		t.Errorf("identical render and predicted poses should reduce to the tan-angle remap\ngot  %v\nwant %v", got, want)
	}
}

func TestTimeWarpTransform_IgnoresTranslation(t *testing.T) {
	proj := testProjection()
	orient := RotationY(0.3)
	renderPose := orient.Multiply(Translation(0, 1.7, 0))
	predictedPose := orient.Multiply(Translation(0.5, 1.7, -2))

	got := TimeWarpTransform(proj, renderPose, predictedPose)
	want := TanAngleMatrixFromProjection(proj)
	if !matricesClose(got, want, matrixEps) {
		t.Error("pure head translation between poses should produce no warp")
	}
}

func TestTimeWarpTransform_RotationShiftsCoordinates(t *testing.T) {
	proj := testProjection()
	renderPose := Identity4()
	predictedPose := RotationY(0.05)

	warp := TimeWarpTransform(proj, renderPose, predictedPose)
	baseline := TanAngleMatrixFromProjection(proj)

	u, v := WarpTexCoord(warp, 0, 0)
	u0, v0 := WarpTexCoord(baseline, 0, 0)
	if u == u0 {
		t.Error("yaw between render and predicted pose should shift u at the view center")
	}
	if math.Abs(float64(v-v0)) > 1e-4 {
		t.Errorf("pure yaw should leave v nearly unchanged at the view center: %v vs %v", v, v0)
	}
}

func TestWarpTexCoord_CenterOfIdentityRemap(t *testing.T) {
	warp := TanAngleMatrixFromProjection(testProjection())

	u, v := WarpTexCoord(warp, 0, 0)
	if math.Abs(float64(u-0.5)) > matrixEps || math.Abs(float64(v-0.5)) > matrixEps {
		t.Errorf("view center should land at (0.5, 0.5), got (%v, %v)", u, v)
	}
}

func TestWarpTexCoord_CornersOfIdentityRemap(t *testing.T) {
	warp := TanAngleMatrixFromProjection(testProjection())

	// With a 90 degree symmetric frustum the tan-angle extents are +/-1.
	tests := []struct {
		x, y, u, v float32
	}{
		{-1, -1, 0, 0},
		{1, 1, 1, 1},
		{-1, 1, 0, 1},
		{1, -1, 1, 0},
	}
	for _, tt := range tests {
		u, v := WarpTexCoord(warp, tt.x, tt.y)
		if math.Abs(float64(u-tt.u)) > matrixEps || math.Abs(float64(v-tt.v)) > matrixEps {
			t.Errorf("WarpTexCoord(%v, %v) = (%v, %v), want (%v, %v)", tt.x, tt.y, u, v, tt.u, tt.v)
		}
	}
}

func TestWarpTexCoord_ClampsNearZeroDivisor(t *testing.T) {
	// A transform whose bottom rows are zero would otherwise divide by
	// zero; the clamp must keep the result finite.
	var warp Matrix4
	warp.M[0][0] = 1
	warp.M[1][1] = 1

	u, v := WarpTexCoord(warp, 0.25, -0.5)
	if math.IsInf(float64(u), 0) || math.IsNaN(float64(u)) {
		t.Errorf("u = %v, want finite", u)
	}
	if math.IsInf(float64(v), 0) || math.IsNaN(float64(v)) {
		t.Errorf("v = %v, want finite", v)
	}
	if u != 0.25/minHomogeneousW {
		t.Errorf("u = %v, want divisor clamped to %v", u, minHomogeneousW)
	}
}

func TestTanAngleMatrixFromProjection_Shape(t *testing.T) {
	m := TanAngleMatrixFromProjection(testProjection())
	for j := 0; j < 4; j++ {
		if m.M[2][j] != m.M[3][j] {
			t.Errorf("rows 2 and 3 should match at column %d: %v vs %v", j, m.M[2][j], m.M[3][j])
		}
	}
	if m.M[2][2] != -1 {
		t.Errorf("M[2][2] = %v, want -1", m.M[2][2])
	}
}
