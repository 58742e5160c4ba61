package geom

import (
	"fmt"

	"github.com/chazu/kerf/pkg/quantity"
)

// Axis3 is a directed line in model space.
type Axis3 struct {
	Origin    Point3
	Direction Dir3
}

// Axis2 is a directed line in the sketch plane, described by its origin and
// the angle of its direction from +X.
type Axis2 struct {
	Origin Point2
	Angle  quantity.Angle
}

// The coordinate axes through the origin.
var (
	AxisX = Axis3{Direction: DirX}
	AxisY = Axis3{Direction: DirY}
	AxisZ = Axis3{Direction: DirZ}
)

// NewAxis3 builds an axis through origin along d.
func NewAxis3(origin Point3, d Dir3) Axis3 {
	return Axis3{Origin: origin, Direction: d}
}

// AxisBetween returns the axis through p pointing at q.
func AxisBetween(p, q Point3) (Axis3, error) {
	d, err := DirBetween(p, q)
	if err != nil {
		return Axis3{}, fmt.Errorf("axis between %s and %s: %w", p, q, err)
	}
	return Axis3{Origin: p, Direction: d}, nil
}

// PointAt returns the point at distance l along the axis.
func (a Axis3) PointAt(l quantity.Length) Point3 {
	return a.Origin.Add(a.Direction.Times(l))
}

// Valid reports whether the axis has a direction.
func (a Axis3) Valid() bool { return !a.Direction.IsZero() }

func (a Axis3) Equal(o Axis3) bool {
	return a.Origin.Equal(o.Origin) && a.Direction.Equal(o.Direction)
}

func (a Axis3) String() string { return fmt.Sprintf("axis%s%s", a.Origin, a.Direction) }

// Direction returns the unit direction of the planar axis.
func (a Axis2) Direction() Dir2 { return DirAngle2(a.Angle) }

// PointAt returns the point at distance l along the axis.
func (a Axis2) PointAt(l quantity.Length) Point2 {
	return a.Origin.Add(a.Direction().Times(l))
}

// Lift returns the equivalent model-space axis in the z=0 plane.
func (a Axis2) Lift() Axis3 {
	return Axis3{Origin: a.Origin.Lift(), Direction: a.Direction().Lift()}
}
