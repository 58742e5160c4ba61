package sdfx

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/chazu/kerf/pkg/kernel"
)

// testCells keeps marching cubes fast in tests.
const testCells = 48

func newTestKernel() *SdfxKernel { return New(WithMeshCells(testCells)) }

func mustPrim(t *testing.T, k *SdfxKernel, p kernel.PrimitiveSpec) kernel.Handle {
	t.Helper()
	h, err := k.Primitive(p)
	if err != nil {
		t.Fatalf("Primitive(%s) failed: %v", p.Kind, err)
	}
	return h
}

func box(t *testing.T, k *SdfxKernel, x, y, z float64) kernel.Handle {
	return mustPrim(t, k, kernel.PrimitiveSpec{Kind: kernel.Box, X: x, Y: y, Z: z})
}

func translate(x, y, z float64) kernel.Affine {
	return kernel.Affine{Translation: [3]float64{x, y, z}}
}

func assertBounds(t *testing.T, h kernel.Handle, wantMin, wantMax [3]float64, tol float64) {
	t.Helper()
	min, max := h.BoundingBox()
	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-wantMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected ~%f", i, min[i], wantMin[i])
		}
		if math.Abs(max[i]-wantMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected ~%f", i, max[i], wantMax[i])
		}
	}
}

func TestBox(t *testing.T) {
	k := newTestKernel()
	mesh, err := k.Mesh(box(t, k, 100, 50, 25))
	if err != nil {
		t.Fatalf("Mesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	triCount := mesh.TriangleCount()
	if triCount == 0 {
		t.Fatal("expected non-zero triangle count")
	}
	// Verify vertex and index array sizes are consistent.
	if len(mesh.Vertices) != len(mesh.Normals) {
		t.Fatalf("vertices length %d != normals length %d", len(mesh.Vertices), len(mesh.Normals))
	}
	if len(mesh.Indices) != triCount*3 {
		t.Fatalf("indices length %d != triCount*3 %d", len(mesh.Indices), triCount*3)
	}
}

func TestBoundingBox(t *testing.T) {
	k := newTestKernel()
	assertBounds(t, box(t, k, 100, 50, 25), [3]float64{-50, -25, -12.5}, [3]float64{50, 25, 12.5}, 0.01)

	cyl := mustPrim(t, k, kernel.PrimitiveSpec{Kind: kernel.Cylinder, Radius: 2.4, Height: 5})
	assertBounds(t, cyl, [3]float64{-2.4, -2.4, -2.5}, [3]float64{2.4, 2.4, 2.5}, 0.01)

	rect := mustPrim(t, k, kernel.PrimitiveSpec{Kind: kernel.Rect, X: 10, Y: 4})
	if rect.Dim() != kernel.Dim2 {
		t.Fatalf("rect Dim() = %d", rect.Dim())
	}
	assertBounds(t, rect, [3]float64{-5, -2, 0}, [3]float64{5, 2, 0}, 0.01)
}

func TestDegeneratePrimitive(t *testing.T) {
	k := newTestKernel()
	tests := []struct {
		name string
		spec kernel.PrimitiveSpec
		want error
	}{
		{"flat box", kernel.PrimitiveSpec{Kind: kernel.Box, X: 1, Y: 1}, kernel.ErrDegenerate},
		{"zero sphere", kernel.PrimitiveSpec{Kind: kernel.Sphere}, kernel.ErrDegenerate},
		{"bowtie", kernel.PrimitiveSpec{Kind: kernel.Polygon, Points: [][2]float64{{0, 0}, {4, 2}, {4, 0}, {0, 3}}}, kernel.ErrSelfIntersecting},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := k.Primitive(tt.spec); !errors.Is(err, tt.want) {
				t.Errorf("Primitive() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDifference(t *testing.T) {
	k := newTestKernel()

	b := box(t, k, 100, 100, 100)
	boxMesh, err := k.Mesh(b)
	if err != nil {
		t.Fatalf("Mesh(box) failed: %v", err)
	}

	cyl := mustPrim(t, k, kernel.PrimitiveSpec{Kind: kernel.Cylinder, Radius: 20, Height: 120})
	diff, err := k.Boolean(kernel.Difference, b, cyl)
	if err != nil {
		t.Fatal(err)
	}
	diffMesh, err := k.Mesh(diff)
	if err != nil {
		t.Fatalf("Mesh(diff) failed: %v", err)
	}
	// A box with a hole should have more triangles than a plain box.
	if diffMesh.TriangleCount() <= boxMesh.TriangleCount() {
		t.Fatalf("difference (%d triangles) should have more triangles than box (%d triangles)",
			diffMesh.TriangleCount(), boxMesh.TriangleCount())
	}
}

func TestUnion(t *testing.T) {
	k := newTestKernel()
	box2, err := k.Transform(box(t, k, 50, 50, 50), translate(30, 0, 0))
	if err != nil {
		t.Fatal(err)
	}
	u, err := k.Boolean(kernel.Union, box(t, k, 50, 50, 50), box2)
	if err != nil {
		t.Fatal(err)
	}
	assertBounds(t, u, [3]float64{-25, -25, -25}, [3]float64{55, 25, 25}, 0.5)
}

func TestTranslate(t *testing.T) {
	k := newTestKernel()
	translated, err := k.Transform(box(t, k, 10, 10, 10), translate(100, 200, 300))
	if err != nil {
		t.Fatal(err)
	}
	// Translated box(10,10,10) by (100,200,300) should be centered at (100,200,300).
	assertBounds(t, translated, [3]float64{95, 195, 295}, [3]float64{105, 205, 305}, 0.5)
}

func TestRotate(t *testing.T) {
	k := newTestKernel()
	// A long box along X rotated 90 degrees around Z should extend along Y instead.
	rotated, err := k.Transform(box(t, k, 100, 10, 10), kernel.Affine{Axis: [3]float64{0, 0, 1}, Angle: math.Pi / 2})
	if err != nil {
		t.Fatal(err)
	}
	min, max := rotated.BoundingBox()

	xExtent := max[0] - min[0]
	yExtent := max[1] - min[1]

	const tol = 1.0
	if math.Abs(xExtent-10) > tol {
		t.Errorf("rotated X extent = %f, expected ~10", xExtent)
	}
	if math.Abs(yExtent-100) > tol {
		t.Errorf("rotated Y extent = %f, expected ~100", yExtent)
	}
}

func TestTransform2D(t *testing.T) {
	k := newTestKernel()
	rect := mustPrim(t, k, kernel.PrimitiveSpec{Kind: kernel.Rect, X: 10, Y: 2})
	moved, err := k.Transform(rect, kernel.Affine{Axis: [3]float64{0, 0, 1}, Angle: math.Pi / 2, Translation: [3]float64{5, 0, 0}})
	if err != nil {
		t.Fatal(err)
	}
	assertBounds(t, moved, [3]float64{4, -5, 0}, [3]float64{6, 5, 0}, 0.1)

	_, err = k.Transform(rect, kernel.Affine{Axis: [3]float64{1, 0, 0}, Angle: 1})
	if !errors.Is(err, kernel.ErrUnsupported) {
		t.Errorf("out-of-plane 2d transform error = %v, want ErrUnsupported", err)
	}
}

func TestIntersection(t *testing.T) {
	k := newTestKernel()
	box2, _ := k.Transform(box(t, k, 100, 100, 100), translate(50, 0, 0))
	inter, err := k.Boolean(kernel.Intersection, box(t, k, 100, 100, 100), box2)
	if err != nil {
		t.Fatal(err)
	}
	mesh, err := k.Mesh(inter)
	if err != nil {
		t.Fatalf("Mesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("intersection mesh is empty")
	}
}

func TestDisjointIntersectionIsEmpty(t *testing.T) {
	k := newTestKernel()
	far, _ := k.Transform(box(t, k, 1, 1, 1), translate(10, 0, 0))
	_, err := k.Boolean(kernel.Intersection, box(t, k, 1, 1, 1), far)
	if !errors.Is(err, kernel.ErrEmptyResult) {
		t.Errorf("disjoint intersection error = %v, want ErrEmptyResult", err)
	}
}

func TestMixedBooleanRejected(t *testing.T) {
	k := newTestKernel()
	rect := mustPrim(t, k, kernel.PrimitiveSpec{Kind: kernel.Rect, X: 1, Y: 1})
	if _, err := k.Boolean(kernel.Union, box(t, k, 1, 1, 1), rect); !errors.Is(err, kernel.ErrUnsupported) {
		t.Errorf("mixed boolean error = %v, want ErrUnsupported", err)
	}
}

type foreign struct{}

func (foreign) Dim() kernel.Dim { return kernel.Dim3 }
func (foreign) BoundingBox() (min, max [3]float64) { return }

func TestForeignHandle(t *testing.T) {
	k := newTestKernel()
	if _, err := k.Mesh(foreign{}); !errors.Is(err, kernel.ErrForeignHandle) {
		t.Errorf("Mesh(foreign) error = %v, want ErrForeignHandle", err)
	}
}

func TestMeasureHollowBox(t *testing.T) {
	k := newTestKernel()
	const w, h, wall = 20.0, 10.0, 4.0
	hollow, err := k.Boolean(kernel.Difference, box(t, k, w, w, h), box(t, k, w-wall, w-wall, h))
	if err != nil {
		t.Fatal(err)
	}
	props, err := k.Measure(hollow)
	if err != nil {
		t.Fatal(err)
	}
	want := w*w*h - (w-wall)*(w-wall)*h
	if math.Abs(props.Measure-want)/want > 0.1 {
		t.Errorf("hollow volume = %f, want ~%f", props.Measure, want)
	}
	for i := 0; i < 3; i++ {
		if math.Abs(props.Centroid[i]) > 0.5 {
			t.Errorf("centroid[%d] = %f, want ~0", i, props.Centroid[i])
		}
	}
}

func TestMeasureRegion(t *testing.T) {
	k := newTestKernel()
	tests := []struct {
		name string
		spec kernel.PrimitiveSpec
		area float64
	}{
		{"rect", kernel.PrimitiveSpec{Kind: kernel.Rect, X: 10, Y: 4}, 40},
		{"circle", kernel.PrimitiveSpec{Kind: kernel.Circle, Radius: 5}, math.Pi * 25},
		{"triangle", kernel.PrimitiveSpec{Kind: kernel.Polygon, Points: [][2]float64{{0, 0}, {0, 6}, {6, 0}}}, 18},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			props, err := k.Measure(mustPrim(t, k, tt.spec))
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(props.Measure-tt.area)/tt.area > 0.05 {
				t.Errorf("area = %f, want ~%f", props.Measure, tt.area)
			}
		})
	}
}

func TestExtrude(t *testing.T) {
	k := newTestKernel()
	rect := mustPrim(t, k, kernel.PrimitiveSpec{Kind: kernel.Rect, X: 10, Y: 4})
	prism, err := k.Extrude(rect, 3)
	if err != nil {
		t.Fatal(err)
	}
	if prism.Dim() != kernel.Dim3 {
		t.Fatalf("extrusion Dim() = %d", prism.Dim())
	}
	assertBounds(t, prism, [3]float64{-5, -2, 0}, [3]float64{5, 2, 3}, 0.01)

	if _, err := k.Extrude(rect, 0); !errors.Is(err, kernel.ErrDegenerate) {
		t.Errorf("Extrude(0) error = %v, want ErrDegenerate", err)
	}
	if _, err := k.Extrude(box(t, k, 1, 1, 1), 1); !errors.Is(err, kernel.ErrUnsupported) {
		t.Errorf("Extrude(solid) error = %v, want ErrUnsupported", err)
	}
}

func TestWriteFile(t *testing.T) {
	k := newTestKernel()
	dir := t.TempDir()

	stl := filepath.Join(dir, "box.stl")
	if err := k.WriteFile(box(t, k, 10, 10, 10), stl, kernel.FormatSTL); err != nil {
		t.Fatalf("WriteFile(stl) failed: %v", err)
	}
	if info, err := os.Stat(stl); err != nil || info.Size() == 0 {
		t.Fatalf("stl not written: %v", err)
	}

	rect := mustPrim(t, k, kernel.PrimitiveSpec{Kind: kernel.Rect, X: 10, Y: 4})
	if err := k.WriteFile(rect, filepath.Join(dir, "rect.stl"), kernel.FormatSTL); !errors.Is(err, kernel.ErrUnsupported) {
		t.Errorf("WriteFile(2d as stl) error = %v, want ErrUnsupported", err)
	}
}

func TestWriteFileReplacesPrevious(t *testing.T) {
	k := newTestKernel()
	dir := t.TempDir()
	path := filepath.Join(dir, "box.stl")
	if err := os.WriteFile(path, []byte("previous"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := k.WriteFile(box(t, k, 10, 10, 10), path, kernel.FormatSTL); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil || info.Size() <= int64(len("previous")) {
		t.Fatalf("box.stl was not rewritten: %v", err)
	}

	// A rejected write leaves the earlier export alone.
	rect := mustPrim(t, k, kernel.PrimitiveSpec{Kind: kernel.Rect, X: 10, Y: 4})
	if err := k.WriteFile(rect, path, kernel.FormatSTL); err == nil {
		t.Fatal("expected an error writing a region as STL")
	}
	if after, err := os.Stat(path); err != nil || after.Size() != info.Size() {
		t.Errorf("box.stl changed after a failed write: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("dir holds %d entries, want only box.stl", len(entries))
	}
}

func TestResolutionSetsCellCount(t *testing.T) {
	tests := []struct {
		name       string
		resolution float64
		lo, hi     int
	}{
		{"longest side over cell size", 2, 50, 52},
		{"clamped low", 100, minResolvedCells, minResolvedCells},
		{"clamped high", 0.01, maxResolvedCells, maxResolvedCells},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := New(WithMeshCells(testCells), WithResolution(tt.resolution))
			h, err := unwrap(box(t, k, 100, 50, 25))
			if err != nil {
				t.Fatal(err)
			}
			if got := k.cellsFor(h); got < tt.lo || got > tt.hi {
				t.Errorf("cellsFor() = %d, want %d..%d", got, tt.lo, tt.hi)
			}
		})
	}

	k := New(WithMeshCells(testCells))
	h, _ := unwrap(box(t, k, 100, 50, 25))
	if got := k.cellsFor(h); got != testCells {
		t.Errorf("without a resolution cellsFor() = %d, want %d", got, testCells)
	}
}
