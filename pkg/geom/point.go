// Package geom defines points, directions, axes, planes and rigid transforms
// built from kerf quantities.
package geom

import (
	"fmt"

	"github.com/chazu/kerf/pkg/quantity"
)

// Point2 is a location in the sketch plane.
type Point2 struct {
	X, Y quantity.Length
}

// Point3 is a location in model space.
type Point3 struct {
	X, Y, Z quantity.Length
}

// Origin2 and Origin3 are the coordinate origins.
var (
	Origin2 = Point2{}
	Origin3 = Point3{}
)

// P2 builds a Point2 from two lengths.
func P2(x, y quantity.Length) Point2 { return Point2{X: x, Y: y} }

// P3 builds a Point3 from three lengths.
func P3(x, y, z quantity.Length) Point3 { return Point3{X: x, Y: y, Z: z} }

// P2Mm and P3Mm build points from millimeter values.
func P2Mm(x, y float64) Point2 {
	return Point2{X: quantity.Millimeters(x), Y: quantity.Millimeters(y)}
}

func P3Mm(x, y, z float64) Point3 {
	return Point3{X: quantity.Millimeters(x), Y: quantity.Millimeters(y), Z: quantity.Millimeters(z)}
}

func (p Point2) Add(o Point2) Point2 { return Point2{X: p.X.Add(o.X), Y: p.Y.Add(o.Y)} }
func (p Point2) Sub(o Point2) Point2 { return Point2{X: p.X.Sub(o.X), Y: p.Y.Sub(o.Y)} }
func (p Point2) Scale(k float64) Point2 {
	return Point2{X: p.X.Scale(k), Y: p.Y.Scale(k)}
}
func (p Point2) Equal(o Point2) bool { return p.X.Equal(o.X) && p.Y.Equal(o.Y) }
func (p Point2) IsOrigin() bool { return p.Equal(Origin2) }

// Lift places the point in the z=0 plane.
func (p Point2) Lift() Point3 { return Point3{X: p.X, Y: p.Y} }

// Mm returns the coordinates in millimeters.
func (p Point2) Mm() [2]float64 { return [2]float64{p.X.Mm(), p.Y.Mm()} }

// Distance returns the Euclidean distance between two points.
func (p Point2) Distance(o Point2) quantity.Length {
	d := p.Sub(o)
	return quantity.Hypot(d.X, d.Y)
}

func (p Point2) String() string { return fmt.Sprintf("(%s, %s)", p.X, p.Y) }

func (p Point3) Add(o Point3) Point3 {
	return Point3{X: p.X.Add(o.X), Y: p.Y.Add(o.Y), Z: p.Z.Add(o.Z)}
}
func (p Point3) Sub(o Point3) Point3 {
	return Point3{X: p.X.Sub(o.X), Y: p.Y.Sub(o.Y), Z: p.Z.Sub(o.Z)}
}
func (p Point3) Scale(k float64) Point3 {
	return Point3{X: p.X.Scale(k), Y: p.Y.Scale(k), Z: p.Z.Scale(k)}
}
func (p Point3) Neg() Point3 { return p.Scale(-1) }
func (p Point3) Equal(o Point3) bool {
	return p.X.Equal(o.X) && p.Y.Equal(o.Y) && p.Z.Equal(o.Z)
}
func (p Point3) IsOrigin() bool { return p.Equal(Origin3) }

// Flatten drops the z coordinate.
func (p Point3) Flatten() Point2 { return Point2{X: p.X, Y: p.Y} }

// Mm returns the coordinates in millimeters.
func (p Point3) Mm() [3]float64 { return [3]float64{p.X.Mm(), p.Y.Mm(), p.Z.Mm()} }

// Distance returns the Euclidean distance between two points.
func (p Point3) Distance(o Point3) quantity.Length {
	d := p.Sub(o)
	return quantity.Hypot(d.X, d.Y, d.Z)
}

// Midpoint returns the point halfway between p and o.
func (p Point3) Midpoint(o Point3) Point3 { return p.Add(o).Scale(0.5) }

func (p Point3) String() string { return fmt.Sprintf("(%s, %s, %s)", p.X, p.Y, p.Z) }

func point3FromMm(v [3]float64) Point3 { return P3Mm(v[0], v[1], v[2]) }
