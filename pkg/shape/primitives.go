package shape

import (
	"slices"

	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/graph"
	"github.com/chazu/kerf/pkg/quantity"
)

// Primitives are centered on the origin. A primitive with a zero defining
// dimension is the empty shape; negative dimensions are taken by magnitude.

// Cuboid returns a box of the given size.
func Cuboid(x, y, z quantity.Length) Part {
	if quantity.AnyZero(x, y, z) {
		return EmptyPart()
	}
	return leaf[geom.Point3, geom.Dir3, geom.Axis3](graph.BoxData{X: x.Abs(), Y: y.Abs(), Z: z.Abs()})
}

// CuboidFromCorners returns the box spanning two opposite corners.
func CuboidFromCorners(a, b geom.Point3) Part {
	d := b.Sub(a)
	return Cuboid(d.X, d.Y, d.Z).MoveTo(a.Midpoint(b))
}

// Cylinder returns a cylinder along Z.
func Cylinder(radius, height quantity.Length) Part {
	if quantity.AnyZero(radius, height) {
		return EmptyPart()
	}
	return leaf[geom.Point3, geom.Dir3, geom.Axis3](graph.CylinderData{Radius: radius.Abs(), Height: height.Abs()})
}

// CylinderFromDiameter returns a cylinder along Z.
func CylinderFromDiameter(diameter, height quantity.Length) Part {
	return Cylinder(diameter.Div(2), height)
}

// Sphere returns a sphere.
func Sphere(radius quantity.Length) Part {
	if radius.IsZero() {
		return EmptyPart()
	}
	return leaf[geom.Point3, geom.Dir3, geom.Axis3](graph.SphereData{Radius: radius.Abs()})
}

// SphereFromDiameter returns a sphere.
func SphereFromDiameter(diameter quantity.Length) Part {
	return Sphere(diameter.Div(2))
}

// Rectangle returns an axis-aligned rectangle.
func Rectangle(x, y quantity.Length) Sketch {
	if quantity.AnyZero(x, y) {
		return EmptySketch()
	}
	return leaf[geom.Point2, geom.Dir2, geom.Point2](graph.RectData{X: x.Abs(), Y: y.Abs()})
}

// RectangleFromCorners returns the rectangle spanning two opposite corners.
func RectangleFromCorners(a, b geom.Point2) Sketch {
	d := b.Sub(a)
	return Rectangle(d.X, d.Y).MoveTo(a.Add(b).Scale(0.5))
}

// Circle returns a circle.
func Circle(radius quantity.Length) Sketch {
	if radius.IsZero() {
		return EmptySketch()
	}
	return leaf[geom.Point2, geom.Dir2, geom.Point2](graph.CircleData{Radius: radius.Abs()})
}

// CircleFromDiameter returns a circle.
func CircleFromDiameter(diameter quantity.Length) Sketch {
	return Circle(diameter.Div(2))
}

// Polygon returns the closed polygon through points. Repeated consecutive
// points and an explicit closing point are dropped; fewer than three
// distinct corners give the empty sketch. Self-intersecting outlines are
// reported by the kernel at evaluation.
func Polygon(points ...geom.Point2) Sketch {
	pts := make([]geom.Point2, 0, len(points))
	for _, p := range points {
		if len(pts) > 0 && pts[len(pts)-1].Equal(p) {
			continue
		}
		pts = append(pts, p)
	}
	if len(pts) > 1 && pts[0].Equal(pts[len(pts)-1]) {
		pts = pts[:len(pts)-1]
	}
	if len(pts) < 3 {
		return EmptySketch()
	}
	return leaf[geom.Point2, geom.Dir2, geom.Point2](graph.PolygonData{Points: slices.Clip(pts)})
}

func leaf[P Point, D Dir, R Pivot](data graph.NodeData) Shape[P, D, R] {
	return Shape[P, D, R]{root: graph.NewPrimitive(data)}
}
