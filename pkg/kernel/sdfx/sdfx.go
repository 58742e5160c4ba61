// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"fmt"
	"math"

	"github.com/chazu/kerf/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/samber/lo"
)

// Compile-time interface checks.
var (
	_ kernel.Kernel     = (*SdfxKernel)(nil)
	_ kernel.FileWriter = (*SdfxKernel)(nil)
	_ kernel.Handle     = (*sdfxHandle)(nil)
)

// DefaultMeshCells controls marching cubes tessellation resolution.
const DefaultMeshCells = 200

// Cell count limits applied when the resolution is given as a cell size.
const (
	minResolvedCells = 16
	maxResolvedCells = 2000
)

// sdfxHandle wraps an sdf.SDF3 or an sdf.SDF2 to implement kernel.Handle.
// Exactly one of the two is set.
type sdfxHandle struct {
	s3 sdf.SDF3
	s2 sdf.SDF2
}

func (h *sdfxHandle) Dim() kernel.Dim {
	if h.s2 != nil {
		return kernel.Dim2
	}
	return kernel.Dim3
}

// BoundingBox returns the axis-aligned bounding box.
func (h *sdfxHandle) BoundingBox() (min, max [3]float64) {
	if h.s2 != nil {
		bb := h.s2.BoundingBox()
		return [3]float64{bb.Min.X, bb.Min.Y, 0}, [3]float64{bb.Max.X, bb.Max.Y, 0}
	}
	bb := h.s3.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	cells      int
	resolution float64
}

// Option configures an SdfxKernel.
type Option func(*SdfxKernel)

// WithMeshCells sets the number of cells along the longest bounding box
// axis used when meshing, measuring and writing files.
func WithMeshCells(n int) Option {
	return func(k *SdfxKernel) {
		if n > 0 {
			k.cells = n
		}
	}
}

// WithResolution sets the target cell size in millimeters. When set, each
// shape is meshed with its longest side divided by mm cells, clamped to
// [16, 2000], and WithMeshCells is ignored.
func WithResolution(mm float64) Option {
	return func(k *SdfxKernel) {
		if mm > 0 {
			k.resolution = mm
		}
	}
}

// New returns a new SdfxKernel.
func New(opts ...Option) *SdfxKernel {
	k := &SdfxKernel{cells: DefaultMeshCells}
	for _, o := range opts {
		o(k)
	}
	return k
}

// MeshCells returns the configured meshing resolution.
func (k *SdfxKernel) MeshCells() int { return k.cells }

// cellsFor returns the cell count used to render h.
func (k *SdfxKernel) cellsFor(h *sdfxHandle) int {
	if k.resolution <= 0 {
		return k.cells
	}
	lo3, hi3 := h.BoundingBox()
	longest := 0.0
	for i := range lo3 {
		longest = math.Max(longest, hi3[i]-lo3[i])
	}
	n := int(math.Ceil(longest / k.resolution))
	return min(max(n, minResolvedCells), maxResolvedCells)
}

// unwrap extracts the sdfx handle from a kernel.Handle.
func unwrap(h kernel.Handle) (*sdfxHandle, error) {
	s, ok := h.(*sdfxHandle)
	if !ok || s == nil {
		return nil, fmt.Errorf("sdfx: %w: %T", kernel.ErrForeignHandle, h)
	}
	return s, nil
}

func unwrap3(h kernel.Handle) (sdf.SDF3, error) {
	s, err := unwrap(h)
	if err != nil {
		return nil, err
	}
	if s.s3 == nil {
		return nil, fmt.Errorf("sdfx: %w: want a 3d handle", kernel.ErrUnsupported)
	}
	return s.s3, nil
}

func unwrap2(h kernel.Handle) (sdf.SDF2, error) {
	s, err := unwrap(h)
	if err != nil {
		return nil, err
	}
	if s.s2 == nil {
		return nil, fmt.Errorf("sdfx: %w: want a 2d handle", kernel.ErrUnsupported)
	}
	return s.s2, nil
}

func wrap3(s sdf.SDF3) kernel.Handle { return &sdfxHandle{s3: s} }
func wrap2(s sdf.SDF2) kernel.Handle { return &sdfxHandle{s2: s} }

// Primitive builds a primitive centered on the origin. sdf.Box3D and
// sdf.Cylinder3D are already centered, so no placement is needed.
func (k *SdfxKernel) Primitive(p kernel.PrimitiveSpec) (kernel.Handle, error) {
	if err := p.Check(); err != nil {
		return nil, fmt.Errorf("sdfx: %w", err)
	}
	switch p.Kind {
	case kernel.Box:
		s, err := sdf.Box3D(v3.Vec{X: p.X, Y: p.Y, Z: p.Z}, 0)
		if err != nil {
			return nil, fmt.Errorf("sdfx: Box3D: %w: %v", kernel.ErrDegenerate, err)
		}
		return wrap3(s), nil
	case kernel.Cylinder:
		s, err := sdf.Cylinder3D(p.Height, p.Radius, 0)
		if err != nil {
			return nil, fmt.Errorf("sdfx: Cylinder3D: %w: %v", kernel.ErrDegenerate, err)
		}
		return wrap3(s), nil
	case kernel.Sphere:
		s, err := sdf.Sphere3D(p.Radius)
		if err != nil {
			return nil, fmt.Errorf("sdfx: Sphere3D: %w: %v", kernel.ErrDegenerate, err)
		}
		return wrap3(s), nil
	case kernel.Rect:
		return wrap2(sdf.Box2D(v2.Vec{X: p.X, Y: p.Y}, 0)), nil
	case kernel.Circle:
		s, err := sdf.Circle2D(p.Radius)
		if err != nil {
			return nil, fmt.Errorf("sdfx: Circle2D: %w: %v", kernel.ErrDegenerate, err)
		}
		return wrap2(s), nil
	case kernel.Polygon:
		pts := lo.Map(kernel.CCW(p.Points), func(q [2]float64, _ int) v2.Vec {
			return v2.Vec{X: q[0], Y: q[1]}
		})
		s, err := sdf.Polygon2D(pts)
		if err != nil {
			return nil, fmt.Errorf("sdfx: Polygon2D: %w: %v", kernel.ErrDegenerate, err)
		}
		return wrap2(s), nil
	}
	return nil, fmt.Errorf("sdfx: %w: primitive %s", kernel.ErrUnsupported, p.Kind)
}

// Transform applies a rigid motion: rotation first, then translation.
func (k *SdfxKernel) Transform(h kernel.Handle, a kernel.Affine) (kernel.Handle, error) {
	s, err := unwrap(h)
	if err != nil {
		return nil, err
	}
	if s.s2 != nil {
		angle, tx, ty, err := a.Planar()
		if err != nil {
			return nil, fmt.Errorf("sdfx: %w", err)
		}
		m := sdf.Translate2d(v2.Vec{X: tx, Y: ty}).Mul(sdf.Rotate2d(angle))
		return wrap2(sdf.Transform2D(s.s2, m)), nil
	}

	m := sdf.Translate3d(v3.Vec{X: a.Translation[0], Y: a.Translation[1], Z: a.Translation[2]})
	if a.IsRotation() {
		axis := v3.Vec{X: a.Axis[0], Y: a.Axis[1], Z: a.Axis[2]}
		m = m.Mul(sdf.Rotate3d(axis, a.Angle))
	}
	return wrap3(sdf.Transform3D(s.s3, m)), nil
}

// Boolean combines two handles of the same dimensionality. An intersection
// of operands whose bounding boxes do not overlap fails with
// kernel.ErrEmptyResult.
func (k *SdfxKernel) Boolean(op kernel.Op, a, b kernel.Handle) (kernel.Handle, error) {
	sa, err := unwrap(a)
	if err != nil {
		return nil, err
	}
	sb, err := unwrap(b)
	if err != nil {
		return nil, err
	}
	if sa.Dim() != sb.Dim() {
		return nil, fmt.Errorf("sdfx: %w: %s of %dd and %dd", kernel.ErrUnsupported, op, sa.Dim(), sb.Dim())
	}
	if op == kernel.Intersection {
		aMin, aMax := sa.BoundingBox()
		bMin, bMax := sb.BoundingBox()
		if !kernel.BoxesOverlap(sa.Dim(), aMin, aMax, bMin, bMax) {
			return nil, fmt.Errorf("sdfx: intersection: %w", kernel.ErrEmptyResult)
		}
	}

	if sa.s2 != nil {
		switch op {
		case kernel.Union:
			return wrap2(sdf.Union2D(sa.s2, sb.s2)), nil
		case kernel.Difference:
			return wrap2(sdf.Difference2D(sa.s2, sb.s2)), nil
		case kernel.Intersection:
			return wrap2(sdf.Intersect2D(sa.s2, sb.s2)), nil
		}
	} else {
		switch op {
		case kernel.Union:
			return wrap3(sdf.Union3D(sa.s3, sb.s3)), nil
		case kernel.Difference:
			return wrap3(sdf.Difference3D(sa.s3, sb.s3)), nil
		case kernel.Intersection:
			return wrap3(sdf.Intersect3D(sa.s3, sb.s3)), nil
		}
	}
	return nil, fmt.Errorf("sdfx: %w: boolean %s", kernel.ErrUnsupported, op)
}

// Extrude sweeps a 2D handle from z=0 to z=height. sdf.Extrude3D centers
// the prism on z=0, so the result is lifted by half the height.
func (k *SdfxKernel) Extrude(h kernel.Handle, height float64) (kernel.Handle, error) {
	s, err := unwrap2(h)
	if err != nil {
		return nil, err
	}
	if !(height > 0) {
		return nil, fmt.Errorf("sdfx: extrude height %g: %w", height, kernel.ErrDegenerate)
	}
	prism := sdf.Extrude3D(s, height)
	return wrap3(sdf.Transform3D(prism, sdf.Translate3d(v3.Vec{Z: height / 2}))), nil
}

// Mesh converts a solid to a triangle mesh using marching cubes. A solid
// that produces no triangles fails with kernel.ErrEmptyResult.
func (k *SdfxKernel) Mesh(h kernel.Handle) (*kernel.Mesh, error) {
	sdf3, err := unwrap3(h)
	if err != nil {
		return nil, err
	}

	renderer := render.NewMarchingCubesUniform(k.cellsFor(h.(*sdfxHandle)))
	triangles := render.ToTriangles(sdf3, renderer)
	if len(triangles) == 0 {
		return nil, fmt.Errorf("sdfx: mesh: %w", kernel.ErrEmptyResult)
	}

	numTri := len(triangles)
	numVerts := numTri * 3

	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		// Compute face normal.
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}, nil
}

// Measure computes mass properties. Solids are measured from their mesh;
// regions are measured by sampling the distance field on a grid.
func (k *SdfxKernel) Measure(h kernel.Handle) (kernel.Properties, error) {
	s, err := unwrap(h)
	if err != nil {
		return kernel.Properties{}, err
	}
	if s.s2 != nil {
		return k.measure2(s.s2, k.cellsFor(s))
	}
	m, err := k.Mesh(h)
	if err != nil {
		return kernel.Properties{}, err
	}
	props := m.Properties()
	if props.Measure == 0 {
		return kernel.Properties{}, fmt.Errorf("sdfx: measure: %w", kernel.ErrEmptyResult)
	}
	return props, nil
}

// measure2 samples the region at cell centers over its bounding box.
func (k *SdfxKernel) measure2(s sdf.SDF2, cells int) (kernel.Properties, error) {
	bb := s.BoundingBox()
	size := v2.Vec{X: bb.Max.X - bb.Min.X, Y: bb.Max.Y - bb.Min.Y}
	longest := size.X
	if size.Y > longest {
		longest = size.Y
	}
	if !(longest > 0) {
		return kernel.Properties{}, fmt.Errorf("sdfx: measure: %w", kernel.ErrEmptyResult)
	}
	step := longest / float64(cells)
	nx := int(size.X/step) + 1
	ny := int(size.Y/step) + 1
	dx, dy := size.X/float64(nx), size.Y/float64(ny)

	var props kernel.Properties
	var count int
	var cx, cy float64
	first := true
	for i := 0; i < nx; i++ {
		x := bb.Min.X + (float64(i)+0.5)*dx
		for j := 0; j < ny; j++ {
			y := bb.Min.Y + (float64(j)+0.5)*dy
			if s.Evaluate(v2.Vec{X: x, Y: y}) > 0 {
				continue
			}
			count++
			cx += x
			cy += y
			if first || x-dx/2 < props.Min[0] {
				props.Min[0] = x - dx/2
			}
			if first || y-dy/2 < props.Min[1] {
				props.Min[1] = y - dy/2
			}
			if first || x+dx/2 > props.Max[0] {
				props.Max[0] = x + dx/2
			}
			if first || y+dy/2 > props.Max[1] {
				props.Max[1] = y + dy/2
			}
			first = false
		}
	}
	if count == 0 {
		return kernel.Properties{}, fmt.Errorf("sdfx: measure: %w", kernel.ErrEmptyResult)
	}
	props.Measure = float64(count) * dx * dy
	props.Centroid = [3]float64{cx / float64(count), cy / float64(count), 0}
	return props, nil
}

// WriteFile renders the handle to path. Solids are written as STL or 3MF,
// regions as DXF or SVG.
func (k *SdfxKernel) WriteFile(h kernel.Handle, path string, f kernel.Format) error {
	s, err := unwrap(h)
	if err != nil {
		return err
	}
	if s.Dim() != f.Dim() {
		return fmt.Errorf("sdfx: %w: cannot write a %dd handle as %s", kernel.ErrUnsupported, s.Dim(), f)
	}

	cells := k.cellsFor(s)
	var draw func(tmp string)
	switch f {
	case kernel.FormatSTL:
		draw = func(tmp string) { render.ToSTL(s.s3, tmp, render.NewMarchingCubesOctree(cells)) }
	case kernel.Format3MF:
		draw = func(tmp string) { render.To3MF(s.s3, tmp, render.NewMarchingCubesOctree(cells)) }
	case kernel.FormatDXF:
		draw = func(tmp string) { render.ToDXF(s.s2, tmp, render.NewMarchingSquaresQuadtree(cells)) }
	case kernel.FormatSVG:
		draw = func(tmp string) { render.ToSVG(s.s2, tmp, render.NewMarchingSquaresQuadtree(cells)) }
	default:
		return fmt.Errorf("sdfx: %w: format %s", kernel.ErrUnsupported, f)
	}

	// The sdfx renderers report failures on stdout rather than returning
	// them; ReplaceFile rejects a missing or empty result and leaves any
	// previous file at path in place.
	err = kernel.ReplaceFile(path, func(tmp string) error {
		draw(tmp)
		return nil
	})
	if err != nil {
		return fmt.Errorf("sdfx: write %s: %w", path, err)
	}
	return nil
}
