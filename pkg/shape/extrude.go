package shape

import (
	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/graph"
	"github.com/chazu/kerf/pkg/quantity"
)

// Extrude lays sketch on plane and sweeps it along the plane normal by
// thickness. A negative thickness sweeps against the normal. An empty
// sketch or a zero thickness gives the empty part.
func Extrude(sketch Sketch, plane geom.Plane, thickness quantity.Length) Part {
	if sketch.IsEmpty() || thickness.IsZero() {
		return EmptyPart()
	}
	return wrap[geom.Point3, geom.Dir3, geom.Axis3](graph.NewExtrude(sketch.Node(), graph.ExtrudeData{
		Plane:     plane,
		Thickness: thickness,
	}))
}
