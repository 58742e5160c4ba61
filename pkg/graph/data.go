package graph

import (
	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/quantity"
)

// ---------------------------------------------------------------------------
// 3D primitives
// ---------------------------------------------------------------------------

// BoxData is an axis-aligned box centered on the origin.
type BoxData struct {
	X, Y, Z quantity.Length
}

func (BoxData) nodeData() {}

// CylinderData is a cylinder along Z, centered on the origin.
type CylinderData struct {
	Radius quantity.Length
	Height quantity.Length
}

func (CylinderData) nodeData() {}

// SphereData is a sphere centered on the origin.
type SphereData struct {
	Radius quantity.Length
}

func (SphereData) nodeData() {}

// ---------------------------------------------------------------------------
// 2D primitives
// ---------------------------------------------------------------------------

// RectData is an axis-aligned rectangle centered on the origin.
type RectData struct {
	X, Y quantity.Length
}

func (RectData) nodeData() {}

// CircleData is a circle centered on the origin.
type CircleData struct {
	Radius quantity.Length
}

func (CircleData) nodeData() {}

// PolygonData is a simple closed polygon. The closing edge from the last
// point back to the first is implicit.
type PolygonData struct {
	Points []geom.Point2
}

func (PolygonData) nodeData() {}

// PrimitiveDim returns the dimensionality of a primitive payload.
func PrimitiveDim(data NodeData) Dim {
	switch data.(type) {
	case RectData, CircleData, PolygonData:
		return Dim2
	default:
		return Dim3
	}
}

// ---------------------------------------------------------------------------
// Transform
// ---------------------------------------------------------------------------

// TransformData is a rigid motion applied to the single child.
type TransformData struct {
	Transform geom.Transform
}

func (TransformData) nodeData() {}

// ---------------------------------------------------------------------------
// Boolean
// ---------------------------------------------------------------------------

// BoolOp enumerates boolean operations.
type BoolOp int

const (
	Union        BoolOp = iota // left ∪ right
	Difference                 // left − right
	Intersection               // left ∩ right
)

func (op BoolOp) String() string {
	switch op {
	case Union:
		return "union"
	case Difference:
		return "difference"
	case Intersection:
		return "intersection"
	default:
		return "unknown"
	}
}

// BooleanData selects the operation combining Children[0] and Children[1].
type BooleanData struct {
	Op BoolOp
}

func (BooleanData) nodeData() {}

// ---------------------------------------------------------------------------
// Pattern
// ---------------------------------------------------------------------------

// PatternKind distinguishes linear from circular patterns.
type PatternKind int

const (
	PatternLinear PatternKind = iota
	PatternCircular
)

func (k PatternKind) String() string {
	switch k {
	case PatternLinear:
		return "linear"
	case PatternCircular:
		return "circular"
	default:
		return "unknown"
	}
}

// PatternData describes Count copies of the child. Copy k is the child moved
// by Step applied k times; copy 0 is the child itself.
type PatternData struct {
	Kind  PatternKind
	Count int
	Step  geom.Transform
}

func (PatternData) nodeData() {}

// CopyTransform returns the placement of copy k.
func (p PatternData) CopyTransform(k int) geom.Transform {
	return p.Step.Pow(k)
}

// ---------------------------------------------------------------------------
// Extrude
// ---------------------------------------------------------------------------

// ExtrudeData sweeps the 2D child, laid on Plane, along the plane normal by
// Thickness. A negative thickness sweeps against the normal.
type ExtrudeData struct {
	Plane     geom.Plane
	Thickness quantity.Length
}

func (ExtrudeData) nodeData() {}
