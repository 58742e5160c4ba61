package geom

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/kerf/pkg/quantity"
)

// ErrZeroVector is returned when a direction is built from a vector with no
// length.
var ErrZeroVector = errors.New("geom: direction from zero-length vector")

// zeroEpsilon is the magnitude below which a vector has no direction.
const zeroEpsilon = 1e-12

// Dir2 is a unit direction in the sketch plane.
type Dir2 struct {
	x, y float64
}

// Dir3 is a unit direction in model space.
type Dir3 struct {
	x, y, z float64
}

var (
	DirX2 = Dir2{x: 1}
	DirY2 = Dir2{y: 1}

	DirX = Dir3{x: 1}
	DirY = Dir3{y: 1}
	DirZ = Dir3{z: 1}
)

// NewDir2 normalizes (x, y). Zero vectors fail with ErrZeroVector.
func NewDir2(x, y float64) (Dir2, error) {
	m := math.Hypot(x, y)
	if m < zeroEpsilon || math.IsNaN(m) || math.IsInf(m, 0) {
		return Dir2{}, fmt.Errorf("%w: (%g, %g)", ErrZeroVector, x, y)
	}
	return Dir2{x: x / m, y: y / m}, nil
}

// NewDir3 normalizes (x, y, z). Zero vectors fail with ErrZeroVector.
func NewDir3(x, y, z float64) (Dir3, error) {
	m := math.Sqrt(x*x + y*y + z*z)
	if m < zeroEpsilon || math.IsNaN(m) || math.IsInf(m, 0) {
		return Dir3{}, fmt.Errorf("%w: (%g, %g, %g)", ErrZeroVector, x, y, z)
	}
	return Dir3{x: x / m, y: y / m, z: z / m}, nil
}

// DirAngle2 returns the planar direction at angle a from +X.
func DirAngle2(a quantity.Angle) Dir2 {
	return Dir2{x: a.Cos(), y: a.Sin()}
}

// DirBetween returns the direction from p to q.
func DirBetween(p, q Point3) (Dir3, error) {
	d := q.Sub(p)
	return NewDir3(d.X.Mm(), d.Y.Mm(), d.Z.Mm())
}

func (d Dir2) X() float64 { return d.x }
func (d Dir2) Y() float64 { return d.y }

// IsZero reports whether d is the zero value, which is not a valid direction.
func (d Dir2) IsZero() bool { return d.x == 0 && d.y == 0 }
func (d Dir2) Neg() Dir2 { return Dir2{x: -d.x, y: -d.y} }
func (d Dir2) Dot(o Dir2) float64 {
	return d.x*o.x + d.y*o.y
}
func (d Dir2) Lift() Dir3 { return Dir3{x: d.x, y: d.y} }

// Angle returns the direction's angle from +X.
func (d Dir2) Angle() quantity.Angle { return quantity.Radians(math.Atan2(d.y, d.x)) }

// Times returns the vector of length l along d.
func (d Dir2) Times(l quantity.Length) Point2 {
	return Point2{X: l.Scale(d.x), Y: l.Scale(d.y)}
}

func (d Dir2) Equal(o Dir2) bool {
	return math.Abs(d.x-o.x) <= 1e-9 && math.Abs(d.y-o.y) <= 1e-9
}

func (d Dir2) String() string { return fmt.Sprintf("<%g, %g>", d.x, d.y) }

func (d Dir3) X() float64 { return d.x }
func (d Dir3) Y() float64 { return d.y }
func (d Dir3) Z() float64 { return d.z }

// IsZero reports whether d is the zero value, which is not a valid direction.
func (d Dir3) IsZero() bool { return d.x == 0 && d.y == 0 && d.z == 0 }
func (d Dir3) Neg() Dir3 { return Dir3{x: -d.x, y: -d.y, z: -d.z} }
func (d Dir3) Vec() [3]float64 {
	return [3]float64{d.x, d.y, d.z}
}

func (d Dir3) Dot(o Dir3) float64 { return d.x*o.x + d.y*o.y + d.z*o.z }

// Cross returns d × o. Parallel inputs fail with ErrZeroVector.
func (d Dir3) Cross(o Dir3) (Dir3, error) {
	return NewDir3(
		d.y*o.z-d.z*o.y,
		d.z*o.x-d.x*o.z,
		d.x*o.y-d.y*o.x,
	)
}

// Times returns the vector of length l along d.
func (d Dir3) Times(l quantity.Length) Point3 {
	return Point3{X: l.Scale(d.x), Y: l.Scale(d.y), Z: l.Scale(d.z)}
}

func (d Dir3) Equal(o Dir3) bool {
	return math.Abs(d.x-o.x) <= 1e-9 && math.Abs(d.y-o.y) <= 1e-9 && math.Abs(d.z-o.z) <= 1e-9
}

func (d Dir3) String() string { return fmt.Sprintf("<%g, %g, %g>", d.x, d.y, d.z) }
