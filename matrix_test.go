package timewarp

import (
	"math"
	"testing"
)

const matrixEps = 1e-5

func matricesClose(a, b Matrix4, eps float64) bool {
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if math.Abs(float64(a.M[i][j]-b.M[i][j])) > eps {
				return false
			}
		}
	}
	return true
}

func TestIdentity4(t *testing.T) {
	id := Identity4()
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			want := float32(0)
			if i == j {
				want = 1
			}
			if id.M[i][j] != want {
				t.Errorf("Identity4().M[%d][%d] = %v, want %v", i, j, id.M[i][j], want)
			}
		}
	}
}

func TestMultiply_Identity(t *testing.T) {
	m := RotationY(0.4).Multiply(Translation(1, 2, 3))
	if got := m.Multiply(Identity4()); !matricesClose(got, m, matrixEps) {
		t.Errorf("m * I != m")
	}
	if got := Identity4().Multiply(m); !matricesClose(got, m, matrixEps) {
		t.Errorf("I * m != m")
	}
}

func TestMultiply_NotCommutative(t *testing.T) {
	a := RotationX(0.5)
	b := RotationY(0.5)
	if matricesClose(a.Multiply(b), b.Multiply(a), matrixEps) {
		t.Error("expected rotation composition about different axes to differ by order")
	}
}

func TestInvertRigid_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix4
	}{
		{"identity", Identity4()},
		{"rotation", RotationZ(1.1)},
		{"translation", Translation(3, -4, 5)},
		{"rotation+translation", RotationY(0.7).Multiply(Translation(1, 2, 3))},
		{"composed", RotationX(0.3).Multiply(RotationY(-0.8)).Multiply(Translation(-2, 0.5, 9))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.m.Multiply(tt.m.InvertRigid())
			if !matricesClose(got, Identity4(), matrixEps) {
				t.Errorf("m * InvertRigid(m) = %v, want identity", got)
			}
		})
	}
}

func TestInvertRigid_MatchesTransposeForPureRotation(t *testing.T) {
	r := RotationX(0.4).Multiply(RotationZ(-1.2))
	if !matricesClose(r.InvertRigid(), r.Transpose(), matrixEps) {
		t.Error("rigid inverse of a pure rotation should equal its transpose")
	}
}

func TestWithoutTranslation(t *testing.T) {
	m := RotationY(0.9).Multiply(Translation(5, 6, 7))
	got := m.WithoutTranslation()

	for i := 0; i < 3; i++ {
		if got.M[i][3] != 0 {
			t.Errorf("translation column [%d] = %v, want 0", i, got.M[i][3])
		}
	}
	if got.M[3][3] != 1 {
		t.Errorf("M[3][3] = %v, want 1", got.M[3][3])
	}
	// Rotation block untouched.
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if got.M[i][j] != m.M[i][j] {
				t.Errorf("rotation block [%d][%d] changed", i, j)
			}
		}
	}
}

func TestRotation_Orthonormal(t *testing.T) {
	for _, angle := range []float32{0, 0.25, -1.3, 2.9} {
		for name, r := range map[string]Matrix4{
			"X": RotationX(angle),
			"Y": RotationY(angle),
			"Z": RotationZ(angle),
		} {
			got := r.Multiply(r.Transpose())
			if !matricesClose(got, Identity4(), matrixEps) {
				t.Errorf("Rotation%s(%v) is not orthonormal", name, angle)
			}
		}
	}
}

func TestPerspectiveProjection(t *testing.T) {
	fovY := float32(math.Pi / 2) // 90 degrees
	p := PerspectiveProjection(fovY, 1, 0.1, 100)

	if math.Abs(float64(p.M[1][1]-1)) > matrixEps {
		t.Errorf("M[1][1] = %v, want 1 for 90 degree fov", p.M[1][1])
	}
	if p.M[3][2] != -1 {
		t.Errorf("M[3][2] = %v, want -1 (right-handed, -Z forward)", p.M[3][2])
	}
	if p.M[3][3] != 0 {
		t.Errorf("M[3][3] = %v, want 0", p.M[3][3])
	}
}
