//go:build manifold

// Package manifold provides a CGo-based geometry kernel binding to the
// Manifold library (https://github.com/elalish/manifold). Manifold provides
// guaranteed-manifold mesh boolean operations.
//
// This package requires the Manifold C library (manifoldc) to be installed.
// Build with: go build -tags=manifold
//
// The binding covers solids only; 2D primitives and extrusion report
// kernel.ErrUnsupported.
package manifold

/*
#cgo CFLAGS: -I/usr/local/include
#cgo LDFLAGS: -L/usr/local/lib -lmanifoldc

#include <stdlib.h>
#include <manifold/manifoldc.h>
*/
import "C"

import (
	"fmt"
	"math"
	"runtime"
	"unsafe"

	"github.com/chazu/kerf/pkg/kernel"
)

// Compile-time interface checks.
var _ kernel.Kernel = (*ManifoldKernel)(nil)
var _ kernel.Handle = (*manifoldSolid)(nil)

// DefaultSegments is the number of facets around curved primitives.
const DefaultSegments = 64

// manifoldSolid wraps a C ManifoldManifold pointer and implements kernel.Handle.
type manifoldSolid struct {
	ptr *C.ManifoldManifold
}

func (s *manifoldSolid) Dim() kernel.Dim { return kernel.Dim3 }

// BoundingBox returns the axis-aligned bounding box of the solid.
func (s *manifoldSolid) BoundingBox() (min, max [3]float64) {
	alloc := C.manifold_alloc_box()
	bbox := C.manifold_bounding_box(alloc, s.ptr)
	defer C.manifold_delete_box(bbox)

	min[0] = float64(C.manifold_box_min_x(bbox))
	min[1] = float64(C.manifold_box_min_y(bbox))
	min[2] = float64(C.manifold_box_min_z(bbox))
	max[0] = float64(C.manifold_box_max_x(bbox))
	max[1] = float64(C.manifold_box_max_y(bbox))
	max[2] = float64(C.manifold_box_max_z(bbox))
	return min, max
}

func (s *manifoldSolid) empty() bool {
	return C.manifold_num_tri(s.ptr) == 0
}

// newSolid wraps a C ManifoldManifold pointer with Go-side finalizer
// for automatic memory management.
func newSolid(ptr *C.ManifoldManifold) *manifoldSolid {
	s := &manifoldSolid{ptr: ptr}
	runtime.SetFinalizer(s, func(s *manifoldSolid) {
		if s.ptr != nil {
			C.manifold_delete_manifold(s.ptr)
			s.ptr = nil
		}
	})
	return s
}

func unwrap(h kernel.Handle) (*manifoldSolid, error) {
	s, ok := h.(*manifoldSolid)
	if !ok || s == nil {
		return nil, fmt.Errorf("manifold: %w: %T", kernel.ErrForeignHandle, h)
	}
	return s, nil
}

// ManifoldKernel implements kernel.Kernel using the Manifold C library.
type ManifoldKernel struct {
	segments int
}

// New creates a new ManifoldKernel. Returns an error if the Manifold
// C library cannot be initialized.
func New() (kernel.Kernel, error) {
	return &ManifoldKernel{segments: DefaultSegments}, nil
}

// Primitive builds a box, cylinder or sphere centered at the origin.
func (k *ManifoldKernel) Primitive(p kernel.PrimitiveSpec) (kernel.Handle, error) {
	if p.Kind.Dim() != kernel.Dim3 {
		return nil, fmt.Errorf("manifold: %w: 2d primitive %s", kernel.ErrUnsupported, p.Kind)
	}
	if err := p.Check(); err != nil {
		return nil, fmt.Errorf("manifold: %w", err)
	}
	alloc := C.manifold_alloc_manifold()
	switch p.Kind {
	case kernel.Box:
		ptr := C.manifold_cube(alloc,
			C.double(p.X), C.double(p.Y), C.double(p.Z),
			C.int(1), // center=true
		)
		return newSolid(ptr), nil
	case kernel.Cylinder:
		ptr := C.manifold_cylinder(alloc,
			C.double(p.Height),
			C.double(p.Radius), // radius_low
			C.double(p.Radius), // radius_high (same = not tapered)
			C.int(k.segments),
			C.int(1), // center=true
		)
		return newSolid(ptr), nil
	case kernel.Sphere:
		ptr := C.manifold_sphere(alloc, C.double(p.Radius), C.int(k.segments))
		return newSolid(ptr), nil
	}
	C.free(alloc)
	return nil, fmt.Errorf("manifold: %w: primitive %s", kernel.ErrUnsupported, p.Kind)
}

// Transform rotates the solid about the origin, then translates it.
func (k *ManifoldKernel) Transform(h kernel.Handle, a kernel.Affine) (kernel.Handle, error) {
	s, err := unwrap(h)
	if err != nil {
		return nil, err
	}
	ptr := s.ptr
	var rotated *manifoldSolid
	if a.IsRotation() {
		x, y, z := eulerXYZ(a)
		alloc := C.manifold_alloc_manifold()
		rotated = newSolid(C.manifold_rotate(alloc, ptr,
			C.double(x), C.double(y), C.double(z),
		))
		ptr = rotated.ptr
	}
	alloc := C.manifold_alloc_manifold()
	out := newSolid(C.manifold_translate(alloc, ptr,
		C.double(a.Translation[0]), C.double(a.Translation[1]), C.double(a.Translation[2]),
	))
	runtime.KeepAlive(rotated)
	runtime.KeepAlive(s)
	return out, nil
}

// Boolean returns the union, difference or intersection of two solids. A
// result with no triangles fails with kernel.ErrEmptyResult.
func (k *ManifoldKernel) Boolean(op kernel.Op, a, b kernel.Handle) (kernel.Handle, error) {
	sa, err := unwrap(a)
	if err != nil {
		return nil, err
	}
	sb, err := unwrap(b)
	if err != nil {
		return nil, err
	}
	alloc := C.manifold_alloc_manifold()
	var ptr *C.ManifoldManifold
	switch op {
	case kernel.Union:
		ptr = C.manifold_union(alloc, sa.ptr, sb.ptr)
	case kernel.Difference:
		ptr = C.manifold_difference(alloc, sa.ptr, sb.ptr)
	case kernel.Intersection:
		ptr = C.manifold_intersection(alloc, sa.ptr, sb.ptr)
	default:
		C.free(alloc)
		return nil, fmt.Errorf("manifold: %w: boolean %s", kernel.ErrUnsupported, op)
	}
	runtime.KeepAlive(sa)
	runtime.KeepAlive(sb)
	out := newSolid(ptr)
	if out.empty() {
		return nil, fmt.Errorf("manifold: %s: %w", op, kernel.ErrEmptyResult)
	}
	return out, nil
}

// Extrude is not supported: this binding has no 2D handles.
func (k *ManifoldKernel) Extrude(h kernel.Handle, height float64) (kernel.Handle, error) {
	return nil, fmt.Errorf("manifold: %w: extrude", kernel.ErrUnsupported)
}

// Mesh extracts a triangle mesh from the solid using Manifold's MeshGL
// format. Vertex positions and normals are interleaved in MeshGL; this
// method separates them into the kernel.Mesh flat-array layout.
func (k *ManifoldKernel) Mesh(h kernel.Handle) (*kernel.Mesh, error) {
	ms, err := unwrap(h)
	if err != nil {
		return nil, err
	}

	// Get MeshGL from the manifold.
	meshAlloc := C.manifold_alloc_meshgl()
	meshGL := C.manifold_get_meshgl(meshAlloc, ms.ptr)
	defer C.manifold_delete_meshgl(meshGL)

	numVert := int(C.manifold_meshgl_num_vert(meshGL))
	numTri := int(C.manifold_meshgl_num_tri(meshGL))

	if numVert == 0 || numTri == 0 {
		return nil, fmt.Errorf("manifold: mesh: %w", kernel.ErrEmptyResult)
	}

	// MeshGL stores vertex properties in a flat float array.
	// The first 3 are always position (x, y, z).
	// If normals are present, they follow at indices 3, 4, 5.
	numProp := int(C.manifold_meshgl_num_prop(meshGL))

	propData := make([]float32, numVert*numProp)
	C.manifold_meshgl_vert_properties(
		(*C.float)(unsafe.Pointer(&propData[0])),
		meshGL,
	)

	indices := make([]uint32, numTri*3)
	C.manifold_meshgl_tri_verts(
		(*C.uint32_t)(unsafe.Pointer(&indices[0])),
		meshGL,
	)

	vertices := make([]float32, numVert*3)
	var normals []float32
	hasNormals := numProp >= 6
	if hasNormals {
		normals = make([]float32, numVert*3)
	}

	for i := 0; i < numVert; i++ {
		base := i * numProp
		vertices[i*3+0] = propData[base+0]
		vertices[i*3+1] = propData[base+1]
		vertices[i*3+2] = propData[base+2]
		if hasNormals {
			normals[i*3+0] = propData[base+3]
			normals[i*3+1] = propData[base+4]
			normals[i*3+2] = propData[base+5]
		}
	}

	if !hasNormals {
		normals = computeFlatNormals(vertices, indices)
	}

	mesh := &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}

	if mesh.VertexCount() != numVert {
		return nil, fmt.Errorf("manifold: vertex count mismatch: got %d, expected %d",
			mesh.VertexCount(), numVert)
	}

	return mesh, nil
}

// Measure computes volume and centroid from the solid's mesh.
func (k *ManifoldKernel) Measure(h kernel.Handle) (kernel.Properties, error) {
	m, err := k.Mesh(h)
	if err != nil {
		return kernel.Properties{}, err
	}
	return m.Properties(), nil
}

// computeFlatNormals generates per-vertex normals by averaging the face normals
// of all triangles incident on each vertex. This is a fallback when MeshGL
// does not include normals in the vertex properties.
func computeFlatNormals(vertices []float32, indices []uint32) []float32 {
	numVerts := len(vertices) / 3
	normals := make([]float32, numVerts*3)

	numTris := len(indices) / 3
	for t := 0; t < numTris; t++ {
		i0 := indices[t*3+0]
		i1 := indices[t*3+1]
		i2 := indices[t*3+2]

		ax, ay, az := float64(vertices[i0*3]), float64(vertices[i0*3+1]), float64(vertices[i0*3+2])
		bx, by, bz := float64(vertices[i1*3]), float64(vertices[i1*3+1]), float64(vertices[i1*3+2])
		cx, cy, cz := float64(vertices[i2*3]), float64(vertices[i2*3+1]), float64(vertices[i2*3+2])

		e1x, e1y, e1z := bx-ax, by-ay, bz-az
		e2x, e2y, e2z := cx-ax, cy-ay, cz-az

		// Cross product (unnormalized face normal).
		nx := float32(e1y*e2z - e1z*e2y)
		ny := float32(e1z*e2x - e1x*e2z)
		nz := float32(e1x*e2y - e1y*e2x)

		for _, idx := range []uint32{i0, i1, i2} {
			normals[idx*3+0] += nx
			normals[idx*3+1] += ny
			normals[idx*3+2] += nz
		}
	}

	for i := 0; i < numVerts; i++ {
		nx := float64(normals[i*3+0])
		ny := float64(normals[i*3+1])
		nz := float64(normals[i*3+2])
		length := math.Sqrt(nx*nx + ny*ny + nz*nz)
		if length > 1e-12 {
			normals[i*3+0] = float32(nx / length)
			normals[i*3+1] = float32(ny / length)
			normals[i*3+2] = float32(nz / length)
		}
	}

	return normals
}
