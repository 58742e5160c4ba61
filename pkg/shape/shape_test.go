package shape_test

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/graph"
	"github.com/chazu/kerf/pkg/quantity"
	"github.com/chazu/kerf/pkg/shape"
)

func mm(v float64) quantity.Length { return quantity.Millimeters(v) }

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestIdentityLaws(t *testing.T) {
	a := shape.Cuboid(mm(10), mm(10), mm(5))
	other := shape.Sphere(mm(3))
	empty := shape.EmptyPart()

	tests := []struct {
		name string
		got  shape.Part
		want shape.Part
	}{
		{"a + empty", a.Add(empty), a},
		{"empty + a", empty.Add(a), a},
		{"a - empty", a.Subtract(empty), a},
		{"empty - a", empty.Subtract(a), empty},
		{"a & empty", a.Intersect(empty), empty},
		{"empty & a", empty.Intersect(a), empty},
		{"a & a", a.Intersect(a), a},
		{"a + a", a.Add(a), a},
		{"a - a", a.Subtract(a), empty},
		{"a - clone(a)", a.Subtract(a.Clone()), empty},
		{"a + other is new", a.Add(other).Subtract(other).Subtract(empty), a.Add(other).Subtract(other)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.got.Equal(tt.want) {
				t.Errorf("got %s, want %s", tt.got, tt.want)
			}
		})
	}
}

func TestIdentityLawsAreStructural(t *testing.T) {
	a := shape.Rectangle(mm(4), mm(2))
	if a.Add(shape.EmptySketch()).Node() != a.Node() {
		t.Error("a + empty built a new node")
	}
	if a.Intersect(a).Node() != a.Node() {
		t.Error("a & a built a new node")
	}
	if !a.Subtract(a).IsEmpty() {
		t.Error("a - a is not empty")
	}
	if got := a.Subtract(a).Node(); got != graph.Empty(graph.Dim2) {
		t.Errorf("a - a node = %s, want the 2d empty node", got)
	}
}

func TestBooleanBuildsNode(t *testing.T) {
	a := shape.Cuboid(mm(10), mm(10), mm(10))
	b := shape.Cylinder(mm(2), mm(20))

	tests := []struct {
		name string
		got  shape.Part
		op   graph.BoolOp
	}{
		{"add", a.Add(b), graph.Union},
		{"subtract", a.Subtract(b), graph.Difference},
		{"intersect", a.Intersect(b), graph.Intersection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := tt.got.Node()
			if n.Kind != graph.NodeBoolean {
				t.Fatalf("kind = %s, want boolean", n.Kind)
			}
			if op := n.Data.(graph.BooleanData).Op; op != tt.op {
				t.Errorf("op = %s, want %s", op, tt.op)
			}
			if n.Child(0) != a.Node() || n.Child(1) != b.Node() {
				t.Error("operands are not shared with the inputs")
			}
			if n.Dim != graph.Dim3 {
				t.Errorf("dim = %s, want 3d", n.Dim)
			}
		})
	}
}

func TestValueSemanticsUnderSharing(t *testing.T) {
	w, h := mm(16), mm(9.6)
	a := shape.Cuboid(w, w, h)
	b := a.Clone()
	before := graph.Describe(a.Node())

	c := a.Add(shape.Cylinder(mm(2.4), mm(1.8)).MoveTo(geom.P3Mm(0, 0, 5.7)))
	_ = c.Rotate(geom.AxisZ, quantity.Degrees(30)).MoveTo(geom.P3Mm(1, 2, 3))

	if !a.Equal(b) {
		t.Error("a != clone(a) after deriving c")
	}
	if a.Node() != b.Node() {
		t.Error("clone does not share the root")
	}
	if a.Node().Kind != graph.NodePrimitive {
		t.Errorf("a changed kind to %s", a.Node().Kind)
	}
	if !reflect.DeepEqual(before, graph.Describe(a.Node())) {
		t.Error("a's tree changed after deriving c")
	}
	if c.Node().Child(0) != a.Node() {
		t.Error("c does not share a's subtree")
	}
}

func TestEqualIsStructural(t *testing.T) {
	a := shape.Cuboid(mm(10), mm(20), mm(30)).MoveTo(geom.P3Mm(1, 2, 3))
	b := shape.Cuboid(mm(10), mm(20), mm(30)).MoveTo(geom.P3Mm(1, 2, 3))
	c := shape.Cuboid(mm(10), mm(20), mm(31)).MoveTo(geom.P3Mm(1, 2, 3))
	if !a.Equal(b) {
		t.Error("equal constructions compare unequal")
	}
	if a.Equal(c) {
		t.Error("different sizes compare equal")
	}
	if a.Equal(shape.EmptyPart()) {
		t.Error("non-empty equals empty")
	}
	if !shape.EmptyPart().Equal(shape.Cuboid(mm(0), mm(1), mm(1))) {
		t.Error("two empty parts compare unequal")
	}
}

// Part and Sketch are distinct types, so a.Add(sketch) for a Part a does
// not compile. This test pins that the two instantiations stay distinct.
func TestPartAndSketchAreDistinctTypes(t *testing.T) {
	if reflect.TypeOf(shape.Part{}) == reflect.TypeOf(shape.Sketch{}) {
		t.Fatal("Part and Sketch are the same type")
	}
	if shape.EmptyPart().Dim() != graph.Dim3 || shape.EmptySketch().Dim() != graph.Dim2 {
		t.Error("dimensionality tags are wrong")
	}
}

func TestFromNode(t *testing.T) {
	n := graph.NewPrimitive(graph.RectData{X: mm(1), Y: mm(1)})
	if _, err := shape.FromNode[geom.Point2, geom.Dir2, geom.Point2](n); err != nil {
		t.Fatalf("FromNode(sketch) error = %v", err)
	}
	_, err := shape.FromNode[geom.Point3, geom.Dir3, geom.Axis3](n)
	var dm *shape.DimensionMismatchError
	if !errors.As(err, &dm) {
		t.Fatalf("FromNode(part) error = %v, want DimensionMismatchError", err)
	}
}

func rootTransform(t *testing.T, s shape.Part) (geom.Transform, *graph.Node) {
	t.Helper()
	n := s.Node()
	if n.Kind != graph.NodeTransform {
		t.Fatalf("root kind = %s, want transform", n.Kind)
	}
	return n.Data.(graph.TransformData).Transform, n.Child(0)
}

func TestMoveToIsAbsolute(t *testing.T) {
	base := shape.Cuboid(mm(2), mm(2), mm(2))
	twice := base.MoveTo(geom.P3Mm(5, 0, 0)).MoveTo(geom.P3Mm(0, 7, 0))
	once := base.MoveTo(geom.P3Mm(0, 7, 0))

	if !twice.Equal(once) {
		t.Errorf("MoveTo(a).MoveTo(b) = %s, want MoveTo(b)", twice)
	}
	tr, child := rootTransform(t, twice)
	if child != base.Node() {
		t.Error("MoveTo nested transforms instead of replacing")
	}
	if !tr.Offset().Equal(geom.P3Mm(0, 7, 0)) {
		t.Errorf("offset = %s, want (0, 7, 0)", tr.Offset())
	}
	if got := twice.MoveTo(geom.Origin3); got.Node() != base.Node() {
		t.Error("MoveTo(origin) did not return the unmoved shape")
	}
	if got := base.MoveTo(geom.Origin3); got.Node() != base.Node() {
		t.Error("MoveTo(origin) on an unmoved shape built a node")
	}
}

func TestMoveToKeepsRotation(t *testing.T) {
	bar := shape.Cuboid(mm(10), mm(2), mm(2))
	s := bar.Rotate(geom.AxisZ, quantity.Degrees(90)).MoveTo(geom.P3Mm(0, 0, 4))
	tr, _ := rootTransform(t, s)

	got := tr.ApplyMm([3]float64{5, 0, 0})
	want := [3]float64{0, 5, 4}
	for i := range got {
		if !approx(got[i], want[i]) {
			t.Fatalf("end of bar maps to %v, want %v", got, want)
		}
	}
}

func TestTranslateAccumulates(t *testing.T) {
	s := shape.Circle(mm(1)).
		Translate(geom.P2Mm(1, 0)).
		Translate(geom.P2Mm(0, 2))
	n := s.Node()
	if n.Kind != graph.NodeTransform || n.Child(0).Kind != graph.NodePrimitive {
		t.Fatalf("translations were not folded: %s", s)
	}
	off := n.Data.(graph.TransformData).Transform.Offset()
	if !off.Equal(geom.P3Mm(1, 2, 0)) {
		t.Errorf("offset = %s, want (1, 2, 0)", off)
	}
}

func TestRotateSketchAboutPoint(t *testing.T) {
	s := shape.Rectangle(mm(2), mm(2)).Rotate(geom.P2Mm(5, 0), quantity.Degrees(180))
	n := s.Node()
	tr := n.Data.(graph.TransformData).Transform
	if got := tr.Apply2(geom.Origin2); !got.Equal(geom.P2Mm(10, 0)) {
		t.Errorf("origin maps to %s, want (10, 0)", got)
	}
	if s.Rotate(geom.P2Mm(1, 1), quantity.Degrees(0)).Node() != n {
		t.Error("zero rotation built a node")
	}
}

func TestSketchTransformMustStayPlanar(t *testing.T) {
	s := shape.Circle(mm(1))
	_, err := s.Transform(geom.Rotate(geom.AxisX, quantity.Degrees(90)))
	var dm *shape.DimensionMismatchError
	if !errors.As(err, &dm) {
		t.Fatalf("error = %v, want DimensionMismatchError", err)
	}
	if _, err := s.Transform(geom.Translate(geom.P3Mm(1, 1, 0))); err != nil {
		t.Errorf("planar transform error = %v", err)
	}
}

func TestPatternCountOneIsIdentity(t *testing.T) {
	a := shape.CylinderFromDiameter(mm(4.8), mm(5))
	circ, err := a.CircularPattern(geom.AxisZ, 1)
	if err != nil {
		t.Fatalf("CircularPattern error = %v", err)
	}
	if circ.Node() != a.Node() {
		t.Error("circular pattern of 1 is not the original")
	}
	lin, err := a.LinearPattern(geom.DirX, 1, mm(8))
	if err != nil {
		t.Fatalf("LinearPattern error = %v", err)
	}
	if lin.Node() != a.Node() {
		t.Error("linear pattern of 1 is not the original")
	}
}

func TestPatternRejectsBadOperands(t *testing.T) {
	a := shape.Sphere(mm(1))
	tests := []struct {
		name string
		run  func() error
	}{
		{"linear zero count", func() error { _, err := a.LinearPattern(geom.DirX, 0, mm(1)); return err }},
		{"linear negative count", func() error { _, err := a.LinearPattern(geom.DirX, -2, mm(1)); return err }},
		{"linear zero direction", func() error { _, err := a.LinearPattern(geom.Dir3{}, 3, mm(1)); return err }},
		{"circular zero count", func() error { _, err := a.CircularPattern(geom.AxisZ, 0); return err }},
		{"circular zero axis", func() error { _, err := a.CircularPattern(geom.Axis3{}, 4); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dm *shape.DimensionMismatchError
			if err := tt.run(); !errors.As(err, &dm) {
				t.Errorf("error = %v, want DimensionMismatchError", err)
			}
		})
	}
}

// copies flattens an expanded pattern into its placed copies, in order.
func copies(n *graph.Node) []*graph.Node {
	if n.Kind == graph.NodeBoolean {
		return append(copies(n.Child(0)), copies(n.Child(1))...)
	}
	return []*graph.Node{n}
}

func TestLegoStudsCircularPattern(t *testing.T) {
	stud := shape.CylinderFromDiameter(quantity.MustLength("4.8 mm"), quantity.MustLength("5 mm")).
		MoveTo(geom.P3Mm(4, 0, 0))
	studs, err := stud.CircularPattern(geom.AxisZ, 4)
	if err != nil {
		t.Fatalf("CircularPattern error = %v", err)
	}
	pd := studs.Node().Data.(graph.PatternData)
	if pd.Kind != graph.PatternCircular || pd.Count != 4 {
		t.Fatalf("pattern = %+v, want circular x4", pd)
	}

	expanded, err := graph.ExpandPattern(studs.Node())
	if err != nil {
		t.Fatalf("ExpandPattern error = %v", err)
	}
	got := copies(expanded)
	if len(got) != 4 {
		t.Fatalf("expanded to %d copies, want 4", len(got))
	}
	if got[0] != stud.Node() {
		t.Error("copy 0 is not the original stud")
	}
	for k := 1; k < 4; k++ {
		if got[k].Kind != graph.NodeTransform || got[k].Child(0) != stud.Node() {
			t.Fatalf("copy %d is %s, want a transform of the stud", k, got[k])
		}
		tr := got[k].Data.(graph.TransformData).Transform
		_, angle := tr.AxisAngle()
		if deg := angle * 180 / math.Pi; !approx(deg, float64(90*k)) && !approx(deg, float64(360-90*k)) {
			t.Errorf("copy %d rotated by %g°, want %d°", k, deg, 90*k)
		}
		c := tr.ApplyMm([3]float64{4, 0, 0})
		want := [3]float64{4 * math.Cos(float64(k)*math.Pi/2), 4 * math.Sin(float64(k)*math.Pi/2), 0}
		for i := range c {
			if math.Abs(c[i]-want[i]) > 1e-9 {
				t.Errorf("copy %d stud center = %v, want %v", k, c, want)
				break
			}
		}
	}
}

func TestLinearPatternSpacing(t *testing.T) {
	s, err := shape.Circle(mm(1)).LinearPattern(geom.DirY2, 3, mm(5))
	if err != nil {
		t.Fatalf("LinearPattern error = %v", err)
	}
	pd := s.Node().Data.(graph.PatternData)
	for k := 0; k < 3; k++ {
		off := pd.CopyTransform(k).Offset()
		if !off.Equal(geom.P3Mm(0, float64(5*k), 0)) {
			t.Errorf("copy %d offset = %s, want (0, %d, 0)", k, off, 5*k)
		}
	}
	same, err := shape.Circle(mm(1)).LinearPattern(geom.DirY2, 3, mm(0))
	if err != nil || same.Node().Kind != graph.NodePrimitive {
		t.Errorf("zero spacing = %s, %v; want the original", same, err)
	}
}

func TestPatternOfEmptyIsEmpty(t *testing.T) {
	s, err := shape.EmptyPart().CircularPattern(geom.AxisZ, 6)
	if err != nil || !s.IsEmpty() {
		t.Errorf("pattern of empty = %s, %v", s, err)
	}
	if m := shape.EmptyPart().MoveTo(geom.P3Mm(1, 1, 1)); !m.IsEmpty() {
		t.Error("moved empty is not empty")
	}
}

func TestZeroDimensionPrimitivesAreEmpty(t *testing.T) {
	tests := []struct {
		name  string
		empty bool
	}{
		{"cuboid zero z", shape.Cuboid(mm(1), mm(1), mm(0)).IsEmpty()},
		{"cylinder zero height", shape.Cylinder(mm(1), mm(0)).IsEmpty()},
		{"sphere zero", shape.Sphere(mm(0)).IsEmpty()},
		{"rectangle zero x", shape.Rectangle(mm(0), mm(3)).IsEmpty()},
		{"circle zero", shape.CircleFromDiameter(mm(0)).IsEmpty()},
		{"polygon two points", shape.Polygon(geom.P2Mm(0, 0), geom.P2Mm(1, 0)).IsEmpty()},
		{"corners coincide", shape.CuboidFromCorners(geom.P3Mm(1, 1, 1), geom.P3Mm(1, 4, 4)).IsEmpty()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.empty {
				t.Error("want empty")
			}
		})
	}
}

func TestNegativeDimensionsUseMagnitude(t *testing.T) {
	s := shape.Cuboid(mm(-3), mm(4), mm(-5))
	b := s.Node().Data.(graph.BoxData)
	if !b.X.Equal(mm(3)) || !b.Z.Equal(mm(5)) {
		t.Errorf("box = %+v, want positive sizes", b)
	}
}

func TestCuboidFromCorners(t *testing.T) {
	s := shape.CuboidFromCorners(geom.P3Mm(10, 0, 0), geom.P3Mm(0, 4, 2))
	tr, child := rootTransform(t, s)
	b := child.Data.(graph.BoxData)
	if !b.X.Equal(mm(10)) || !b.Y.Equal(mm(4)) || !b.Z.Equal(mm(2)) {
		t.Errorf("box = %+v, want 10x4x2", b)
	}
	if !tr.Offset().Equal(geom.P3Mm(5, 2, 1)) {
		t.Errorf("center = %s, want (5, 2, 1)", tr.Offset())
	}
}

func TestPathBuilder(t *testing.T) {
	start := shape.PathAt(geom.P2Mm(0, 0)).LineTo(geom.P2Mm(10, 0))
	tri := start.LineTo(geom.P2Mm(0, 5)).Close()
	quad := start.LineBy(geom.P2Mm(0, 5)).LineTo(geom.P2Mm(0, 5)).LineTo(geom.P2Mm(0, 0)).Close()

	if n := len(start.Points()); n != 2 {
		t.Fatalf("prefix has %d points after branching, want 2", n)
	}
	if pts := tri.Node().Data.(graph.PolygonData).Points; len(pts) != 3 {
		t.Errorf("triangle has %d corners, want 3", len(pts))
	}
	pts := quad.Node().Data.(graph.PolygonData).Points
	if len(pts) != 4 {
		t.Fatalf("quad has %d corners, want 4 (closing point dropped)", len(pts))
	}
	if !pts[2].Equal(geom.P2Mm(10, 5)) {
		t.Errorf("LineBy corner = %s, want (10, 5)", pts[2])
	}
}

func TestExtrude(t *testing.T) {
	sk := shape.Rectangle(mm(4), mm(2))
	p := shape.Extrude(sk, geom.PlaneXZ, mm(-3))
	n := p.Node()
	if n.Kind != graph.NodeExtrude || n.Dim != graph.Dim3 {
		t.Fatalf("extrude node = %s", n)
	}
	if n.Child(0) != sk.Node() {
		t.Error("extrude does not share the sketch")
	}
	if ed := n.Data.(graph.ExtrudeData); !ed.Thickness.Equal(mm(-3)) || !ed.Plane.Equal(geom.PlaneXZ) {
		t.Errorf("extrude data = %+v", ed)
	}
	if !shape.Extrude(sk, geom.PlaneXY, mm(0)).IsEmpty() {
		t.Error("zero thickness is not empty")
	}
	if !shape.Extrude(shape.EmptySketch(), geom.PlaneXY, mm(1)).IsEmpty() {
		t.Error("extruded empty sketch is not empty")
	}
}

func TestString(t *testing.T) {
	if got := shape.EmptySketch().String(); got != "sketch(empty)" {
		t.Errorf("String() = %q", got)
	}
	if got := shape.Sphere(mm(1)).String(); got == "" || got[:5] != "part(" {
		t.Errorf("String() = %q, want part(...)", got)
	}
}
