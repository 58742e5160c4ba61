package geom

import (
	"errors"
	"fmt"
	"math"
)

// ErrNotOrthonormal is returned when plane axes are not perpendicular.
var ErrNotOrthonormal = errors.New("geom: plane axes are not perpendicular")

// Plane is an oriented plane with an in-plane coordinate frame. Sketches are
// laid on a plane by mapping sketch X and Y to the plane's X and Y
// directions.
type Plane struct {
	Origin Point3
	X, Y   Dir3
}

// The principal planes through the origin.
var (
	PlaneXY = Plane{X: DirX, Y: DirY}
	PlaneXZ = Plane{X: DirX, Y: DirZ}
	PlaneYZ = Plane{X: DirY, Y: DirZ}
)

// NewPlane builds a plane from an origin and two in-plane directions.
func NewPlane(origin Point3, x, y Dir3) (Plane, error) {
	if x.IsZero() || y.IsZero() {
		return Plane{}, ErrZeroVector
	}
	if math.Abs(x.Dot(y)) > 1e-9 {
		return Plane{}, fmt.Errorf("%w: %s . %s = %g", ErrNotOrthonormal, x, y, x.Dot(y))
	}
	return Plane{Origin: origin, X: x, Y: y}, nil
}

// Normal returns X × Y.
func (p Plane) Normal() Dir3 {
	n, _ := p.X.Cross(p.Y)
	return n
}

// Translated returns the plane moved by offset.
func (p Plane) Translated(offset Point3) Plane {
	return Plane{Origin: p.Origin.Add(offset), X: p.X, Y: p.Y}
}

// Frame returns the transform that maps the XY plane onto p.
func (p Plane) Frame() Transform {
	n := p.Normal()
	r := rotationFromBasis(p.X.Vec(), p.Y.Vec(), n.Vec())
	return Transform{rot: r, t: p.Origin.Mm()}
}

func (p Plane) Equal(o Plane) bool {
	return p.Origin.Equal(o.Origin) && p.X.Equal(o.X) && p.Y.Equal(o.Y)
}

func (p Plane) String() string {
	return fmt.Sprintf("plane%s x=%s y=%s", p.Origin, p.X, p.Y)
}
