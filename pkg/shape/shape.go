// Package shape is the composition API of kerf. Parts (3D) and sketches (2D)
// are two instantiations of one generic Shape type, so combining a Part with
// a Sketch does not compile.
//
// Shapes are immutable values wrapping the root of a graph tree. Every
// operation returns a new Shape; receivers and operands are never modified,
// and subtrees are shared rather than copied.
package shape

import (
	"fmt"

	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/graph"
	"github.com/chazu/kerf/pkg/quantity"
)

// Point is the placement type of a shape: geom.Point2 or geom.Point3.
type Point interface {
	geom.Point2 | geom.Point3
}

// Dir is the direction type used by linear patterns.
type Dir interface {
	geom.Dir2 | geom.Dir3
}

// Pivot is what a shape rotates about: a point in the sketch plane, or an
// axis in space.
type Pivot interface {
	geom.Point2 | geom.Axis3
}

// Shape is a 2D or 3D shape. Use the Part and Sketch instantiations; other
// combinations of type arguments are not meaningful.
type Shape[P Point, D Dir, R Pivot] struct {
	root *graph.Node
}

// Part is a 3D solid.
type Part = Shape[geom.Point3, geom.Dir3, geom.Axis3]

// Sketch is a closed 2D region.
type Sketch = Shape[geom.Point2, geom.Dir2, geom.Point2]

// EmptyPart returns the empty solid.
func EmptyPart() Part { return Part{} }

// EmptySketch returns the empty region.
func EmptySketch() Sketch { return Sketch{} }

// FromNode wraps an existing tree. It fails if the node's dimensionality
// does not match the shape type.
func FromNode[P Point, D Dir, R Pivot](n *graph.Node) (Shape[P, D, R], error) {
	if n.IsEmpty() {
		return Shape[P, D, R]{}, nil
	}
	if want := dimOf[P](); n.Dim != want {
		return Shape[P, D, R]{}, &DimensionMismatchError{
			Op:     "wrap",
			Reason: fmt.Sprintf("node %s is %s, want %s", n.ID.Short(), n.Dim, want),
		}
	}
	return Shape[P, D, R]{root: n}, nil
}

func wrap[P Point, D Dir, R Pivot](n *graph.Node) Shape[P, D, R] {
	if n.IsEmpty() {
		return Shape[P, D, R]{}
	}
	return Shape[P, D, R]{root: n}
}

// Node returns the root of the shape tree. The empty shape returns the
// shared empty node of its dimensionality.
func (s Shape[P, D, R]) Node() *graph.Node {
	if s.root == nil {
		return graph.Empty(s.Dim())
	}
	return s.root
}

// Dim returns graph.Dim3 for parts and graph.Dim2 for sketches.
func (s Shape[P, D, R]) Dim() graph.Dim { return dimOf[P]() }

// IsEmpty reports whether s is the empty shape.
func (s Shape[P, D, R]) IsEmpty() bool { return s.root.IsEmpty() }

// Clone returns a shape sharing the receiver's tree.
func (s Shape[P, D, R]) Clone() Shape[P, D, R] { return s }

// Equal reports whether s and o are the same tree, or trees built from the
// same operations on equal quantities.
func (s Shape[P, D, R]) Equal(o Shape[P, D, R]) bool {
	if s.IsEmpty() || o.IsEmpty() {
		return s.IsEmpty() == o.IsEmpty()
	}
	return s.root == o.root || graph.Equivalent(s.root, o.root)
}

// same reports whether s and o share a root.
func (s Shape[P, D, R]) same(o Shape[P, D, R]) bool {
	return s.root != nil && o.root != nil && (s.root == o.root || s.root.ID == o.root.ID)
}

func (s Shape[P, D, R]) String() string {
	name := "sketch"
	if s.Dim() == graph.Dim3 {
		name = "part"
	}
	if s.IsEmpty() {
		return name + "(empty)"
	}
	return fmt.Sprintf("%s(%s, %d nodes)", name, s.root, graph.Count(s.root))
}

// ---------------------------------------------------------------------------
// Booleans
// ---------------------------------------------------------------------------

// Add returns the union of s and o.
func (s Shape[P, D, R]) Add(o Shape[P, D, R]) Shape[P, D, R] {
	switch {
	case o.IsEmpty():
		return s
	case s.IsEmpty():
		return o
	case s.same(o):
		return s
	}
	return wrap[P, D, R](graph.NewBoolean(graph.Union, s.root, o.root))
}

// Subtract returns s with o removed.
func (s Shape[P, D, R]) Subtract(o Shape[P, D, R]) Shape[P, D, R] {
	switch {
	case s.IsEmpty():
		return s
	case o.IsEmpty():
		return s
	case s.same(o):
		return Shape[P, D, R]{}
	}
	return wrap[P, D, R](graph.NewBoolean(graph.Difference, s.root, o.root))
}

// Intersect returns the region common to s and o.
func (s Shape[P, D, R]) Intersect(o Shape[P, D, R]) Shape[P, D, R] {
	switch {
	case s.IsEmpty() || o.IsEmpty():
		return Shape[P, D, R]{}
	case s.same(o):
		return s
	}
	return wrap[P, D, R](graph.NewBoolean(graph.Intersection, s.root, o.root))
}

// ---------------------------------------------------------------------------
// Placement
// ---------------------------------------------------------------------------

// MoveTo places the shape's reference point (its local origin) at p. The
// placement is absolute: moving an already moved shape replaces the earlier
// translation and keeps any rotation.
func (s Shape[P, D, R]) MoveTo(p P) Shape[P, D, R] {
	if s.IsEmpty() {
		return s
	}
	target := lift(p)
	if td, ok := s.root.Data.(graph.TransformData); ok && s.root.Kind == graph.NodeTransform {
		return s.retransform(s.root.Child(0), td.Transform.WithOffset(target))
	}
	return s.retransform(s.root, geom.Translate(target))
}

// Translate moves the shape by offset.
func (s Shape[P, D, R]) Translate(offset P) Shape[P, D, R] {
	return s.apply(geom.Translate(lift(offset)))
}

// Rotate turns the shape by angle about pivot: an axis for parts, a point
// for sketches.
func (s Shape[P, D, R]) Rotate(pivot R, angle quantity.Angle) Shape[P, D, R] {
	if angle.IsZero() {
		return s
	}
	t, err := rotation(pivot, angle)
	if err != nil {
		// Only an axis with no direction fails; it describes no rotation.
		return s
	}
	return s.apply(t)
}

// Transform applies a rigid motion to the shape. Sketches accept only
// motions that keep the XY plane in place.
func (s Shape[P, D, R]) Transform(t geom.Transform) (Shape[P, D, R], error) {
	if s.Dim() == graph.Dim2 && !t.IsPlanar() {
		return s, &DimensionMismatchError{Op: "transform", Reason: "motion leaves the sketch plane"}
	}
	return s.apply(t), nil
}

// apply composes t after the shape's current placement. An existing root
// transform is folded rather than nested.
func (s Shape[P, D, R]) apply(t geom.Transform) Shape[P, D, R] {
	if s.IsEmpty() || t.IsIdentity() {
		return s
	}
	if td, ok := s.root.Data.(graph.TransformData); ok && s.root.Kind == graph.NodeTransform {
		return s.retransform(s.root.Child(0), td.Transform.Then(t))
	}
	return s.retransform(s.root, t)
}

func (s Shape[P, D, R]) retransform(child *graph.Node, t geom.Transform) Shape[P, D, R] {
	if t.IsIdentity() {
		return wrap[P, D, R](child)
	}
	if td, ok := s.root.Data.(graph.TransformData); ok && s.root.Child(0) == child && td.Transform.Equal(t) {
		return s
	}
	return wrap[P, D, R](graph.NewTransform(child, t))
}

// ---------------------------------------------------------------------------
// Patterns
// ---------------------------------------------------------------------------

// LinearPattern returns the union of count copies of the shape. Copy k is
// moved by k·spacing along direction; copy 0 is the shape itself.
func (s Shape[P, D, R]) LinearPattern(direction D, count int, spacing quantity.Length) (Shape[P, D, R], error) {
	if count < 1 {
		return s, &DimensionMismatchError{Op: "linear pattern", Reason: fmt.Sprintf("count %d is less than 1", count)}
	}
	step, ok := stride(direction, spacing)
	if !ok {
		return s, &DimensionMismatchError{Op: "linear pattern", Reason: "direction has zero length"}
	}
	if count == 1 || s.IsEmpty() || spacing.IsZero() {
		return s, nil
	}
	return s.pattern(graph.PatternLinear, count, step), nil
}

// CircularPattern returns the union of count copies of the shape. Copy k is
// rotated by k·360°/count about pivot; copy 0 is the shape itself.
func (s Shape[P, D, R]) CircularPattern(pivot R, count int) (Shape[P, D, R], error) {
	if count < 1 {
		return s, &DimensionMismatchError{Op: "circular pattern", Reason: fmt.Sprintf("count %d is less than 1", count)}
	}
	step, err := rotation(pivot, quantity.FullTurn.Div(float64(count)))
	if err != nil {
		return s, &DimensionMismatchError{Op: "circular pattern", Reason: err.Error()}
	}
	if count == 1 || s.IsEmpty() {
		return s, nil
	}
	return s.pattern(graph.PatternCircular, count, step), nil
}

func (s Shape[P, D, R]) pattern(kind graph.PatternKind, count int, step geom.Transform) Shape[P, D, R] {
	return wrap[P, D, R](graph.NewPattern(s.root, graph.PatternData{Kind: kind, Count: count, Step: step}))
}

// ---------------------------------------------------------------------------
// Type-set helpers
// ---------------------------------------------------------------------------

func dimOf[P Point]() graph.Dim {
	var p P
	if _, ok := any(p).(geom.Point2); ok {
		return graph.Dim2
	}
	return graph.Dim3
}

func lift[P Point](p P) geom.Point3 {
	switch v := any(p).(type) {
	case geom.Point2:
		return v.Lift()
	case geom.Point3:
		return v
	}
	return geom.Origin3
}

// stride returns the translation between consecutive linear pattern copies.
func stride[D Dir](d D, spacing quantity.Length) (geom.Transform, bool) {
	switch v := any(d).(type) {
	case geom.Dir2:
		if v.IsZero() {
			return geom.Identity(), false
		}
		return geom.Translate(v.Times(spacing).Lift()), true
	case geom.Dir3:
		if v.IsZero() {
			return geom.Identity(), false
		}
		return geom.Translate(v.Times(spacing)), true
	}
	return geom.Identity(), false
}

func rotation[R Pivot](pivot R, angle quantity.Angle) (geom.Transform, error) {
	switch v := any(pivot).(type) {
	case geom.Point2:
		return geom.Rotate2(v, angle), nil
	case geom.Axis3:
		if !v.Valid() {
			return geom.Identity(), geom.ErrZeroVector
		}
		return geom.Rotate(v, angle), nil
	}
	return geom.Identity(), fmt.Errorf("shape: unsupported pivot %T", pivot)
}
