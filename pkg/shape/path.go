package shape

import (
	"slices"

	"github.com/chazu/kerf/pkg/geom"
)

// Path builds a polygon outline one segment at a time:
//
//	s := shape.PathAt(geom.P2Mm(0, 0)).LineTo(geom.P2Mm(10, 0)).LineBy(geom.P2Mm(0, 5)).Close()
//
// Path is a value; each step returns a new Path and leaves the receiver
// usable as a common prefix.
type Path struct {
	points []geom.Point2
}

// PathAt starts a path at p.
func PathAt(p geom.Point2) Path {
	return Path{points: []geom.Point2{p}}
}

// LineTo extends the path to p.
func (b Path) LineTo(p geom.Point2) Path {
	return Path{points: append(slices.Clip(b.points), p)}
}

// LineBy extends the path by offset from its current end.
func (b Path) LineBy(offset geom.Point2) Path {
	return b.LineTo(b.End().Add(offset))
}

// End returns the current end point.
func (b Path) End() geom.Point2 {
	if len(b.points) == 0 {
		return geom.Origin2
	}
	return b.points[len(b.points)-1]
}

// Points returns a copy of the points visited so far.
func (b Path) Points() []geom.Point2 {
	return slices.Clone(b.points)
}

// Close joins the end back to the start and returns the enclosed sketch.
func (b Path) Close() Sketch {
	return Polygon(b.points...)
}
