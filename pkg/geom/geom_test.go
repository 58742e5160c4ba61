package geom

import (
	"errors"
	"math"
	"testing"

	"github.com/chazu/kerf/pkg/quantity"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestNewDirRejectsZeroVector(t *testing.T) {
	if _, err := NewDir3(0, 0, 0); !errors.Is(err, ErrZeroVector) {
		t.Errorf("NewDir3(0,0,0) error = %v, want ErrZeroVector", err)
	}
	if _, err := NewDir2(0, 0); !errors.Is(err, ErrZeroVector) {
		t.Errorf("NewDir2(0,0) error = %v, want ErrZeroVector", err)
	}
	d, err := NewDir3(0, 3, 4)
	if err != nil {
		t.Fatalf("NewDir3(0,3,4) error = %v", err)
	}
	if !approx(d.Y(), 0.6) || !approx(d.Z(), 0.8) {
		t.Errorf("NewDir3(0,3,4) = %s, want <0, 0.6, 0.8>", d)
	}
}

func TestCrossOfParallelDirections(t *testing.T) {
	if _, err := DirX.Cross(DirX.Neg()); !errors.Is(err, ErrZeroVector) {
		t.Errorf("cross of antiparallel dirs error = %v, want ErrZeroVector", err)
	}
	z, err := DirX.Cross(DirY)
	if err != nil {
		t.Fatal(err)
	}
	if !z.Equal(DirZ) {
		t.Errorf("X × Y = %s, want Z", z)
	}
}

func TestTransformApply(t *testing.T) {
	tests := []struct {
		name string
		tr   Transform
		in   Point3
		want Point3
	}{
		{"identity", Identity(), P3Mm(1, 2, 3), P3Mm(1, 2, 3)},
		{"zero value is identity", Transform{}, P3Mm(1, 2, 3), P3Mm(1, 2, 3)},
		{"translate", Translate(P3Mm(10, 0, -5)), P3Mm(1, 2, 3), P3Mm(11, 2, -2)},
		{"rotate z 90", Rotate(AxisZ, quantity.Degrees(90)), P3Mm(1, 0, 0), P3Mm(0, 1, 0)},
		{"rotate x 90", Rotate(AxisX, quantity.Degrees(90)), P3Mm(0, 1, 0), P3Mm(0, 0, 1)},
		{"rotate about offset axis", Rotate(NewAxis3(P3Mm(5, 0, 0), DirZ), quantity.Degrees(180)), P3Mm(0, 0, 0), P3Mm(10, 0, 0)},
		{"rotate then translate", Rotate(AxisZ, quantity.Degrees(90)).Then(Translate(P3Mm(0, 0, 7))), P3Mm(2, 0, 0), P3Mm(0, 2, 7)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.tr.Apply(tt.in)
			if !got.Equal(tt.want) {
				t.Errorf("Apply(%s) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestTransformInverse(t *testing.T) {
	axis, _ := AxisBetween(P3Mm(1, 2, 3), P3Mm(4, -1, 7))
	tr := Rotate(axis, quantity.Degrees(33)).Then(Translate(P3Mm(-8, 2, 0.5)))
	p := P3Mm(3.5, -2, 11)
	back := tr.Inverse().Apply(tr.Apply(p))
	if !back.Equal(p) {
		t.Errorf("inverse round trip = %s, want %s", back, p)
	}
	if !tr.Then(tr.Inverse()).IsIdentity() {
		t.Error("t.Then(t.Inverse()) is not the identity")
	}
}

func TestTransformPow(t *testing.T) {
	step := Rotate(AxisZ, quantity.Degrees(90))
	if !step.Pow(4).IsIdentity() {
		t.Errorf("four quarter turns = %s, want identity", step.Pow(4))
	}
	if !step.Pow(0).IsIdentity() {
		t.Error("Pow(0) is not the identity")
	}
	got := step.Pow(2).Apply(P3Mm(1, 0, 0))
	if !got.Equal(P3Mm(-1, 0, 0)) {
		t.Errorf("half turn of +X = %s, want -X", got)
	}
}

func TestTransformAxisAngle(t *testing.T) {
	tr := Rotate(AxisY, quantity.Degrees(-45))
	axis, angle := tr.AxisAngle()
	// -45° about +Y is +45° about -Y.
	if !approx(angle, math.Pi/4) {
		t.Errorf("angle = %g, want π/4", angle)
	}
	if !approx(axis[1], -1) {
		t.Errorf("axis = %v, want -Y", axis)
	}

	_, angle = Translate(P3Mm(1, 1, 1)).AxisAngle()
	if angle != 0 {
		t.Errorf("translation angle = %g, want 0", angle)
	}
}

func TestTransformEqualSignOfQuaternion(t *testing.T) {
	a := Rotate(AxisZ, quantity.Degrees(90))
	b := Rotate(AxisZ, quantity.Degrees(-270))
	if !a.Equal(b) {
		t.Errorf("%s != %s", a, b)
	}
	if a.Equal(Rotate(AxisZ, quantity.Degrees(91))) {
		t.Error("rotations one degree apart compare equal")
	}
}

func TestTransformIsPlanar(t *testing.T) {
	tests := []struct {
		name string
		tr   Transform
		want bool
	}{
		{"identity", Identity(), true},
		{"xy translate", Translate(P3Mm(3, 4, 0)), true},
		{"z rotation", Rotate2(P2Mm(1, 1), quantity.Degrees(30)), true},
		{"z translate", Translate(P3Mm(0, 0, 1)), false},
		{"x rotation", Rotate(AxisX, quantity.Degrees(90)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tr.IsPlanar(); got != tt.want {
				t.Errorf("IsPlanar() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPlaneFrame(t *testing.T) {
	tests := []struct {
		name   string
		plane  Plane
		in     Point3
		want   Point3
		normal Dir3
	}{
		{"xy", PlaneXY, P3Mm(1, 2, 3), P3Mm(1, 2, 3), DirZ},
		{"xz", PlaneXZ, P3Mm(1, 2, 3), P3Mm(1, -3, 2), DirY.Neg()},
		{"yz", PlaneYZ, P3Mm(1, 2, 3), P3Mm(3, 1, 2), DirX},
		{"offset xy", PlaneXY.Translated(P3Mm(0, 0, 10)), P3Mm(1, 2, 0), P3Mm(1, 2, 10), DirZ},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if n := tt.plane.Normal(); !n.Equal(tt.normal) {
				t.Errorf("Normal() = %s, want %s", n, tt.normal)
			}
			if got := tt.plane.Frame().Apply(tt.in); !got.Equal(tt.want) {
				t.Errorf("Frame().Apply(%s) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewPlaneRejectsSkewAxes(t *testing.T) {
	skew, _ := NewDir3(1, 1, 0)
	if _, err := NewPlane(Origin3, DirX, skew); !errors.Is(err, ErrNotOrthonormal) {
		t.Errorf("NewPlane with skew axes error = %v, want ErrNotOrthonormal", err)
	}
	if _, err := NewPlane(Origin3, DirX, Dir3{}); !errors.Is(err, ErrZeroVector) {
		t.Errorf("NewPlane with zero axis error = %v, want ErrZeroVector", err)
	}
}

func TestAxisPointAt(t *testing.T) {
	axis, err := AxisBetween(P3Mm(0, 0, 0), P3Mm(0, 0, 10))
	if err != nil {
		t.Fatal(err)
	}
	got := axis.PointAt(quantity.Centimeters(2))
	if !got.Equal(P3Mm(0, 0, 20)) {
		t.Errorf("PointAt(2cm) = %s, want (0, 0, 20mm)", got)
	}
	if _, err := AxisBetween(P3Mm(1, 1, 1), P3Mm(1, 1, 1)); !errors.Is(err, ErrZeroVector) {
		t.Errorf("AxisBetween(p, p) error = %v, want ErrZeroVector", err)
	}

	a2 := Axis2{Origin: P2Mm(1, 0), Angle: quantity.Degrees(90)}
	if got := a2.PointAt(quantity.Millimeters(3)); !got.Equal(P2Mm(1, 3)) {
		t.Errorf("Axis2.PointAt = %s, want (1mm, 3mm)", got)
	}
}
