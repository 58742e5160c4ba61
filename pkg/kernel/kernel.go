// Package kernel defines the abstract geometry kernel interface.
// Implementations (sdfx, manifold) realize primitives, rigid transforms,
// booleans and extrusions behind this interface. The kernel abstraction
// allows swapping backends without changing the rest of the system.
//
// All lengths crossing this interface are millimeters and all angles are
// radians.
package kernel

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
)

// Failure classes reported by kernels. Implementations wrap these with
// context; callers test with errors.Is.
var (
	ErrDegenerate       = errors.New("degenerate geometry")
	ErrSelfIntersecting = errors.New("self-intersecting geometry")
	ErrEmptyResult      = errors.New("empty result")
	ErrUnsupported      = errors.New("operation not supported by kernel")
	ErrForeignHandle    = errors.New("handle belongs to another kernel")
)

// Dim is the dimensionality of a handle.
type Dim int

const (
	Dim2 Dim = 2
	Dim3 Dim = 3
)

// Handle is an opaque reference to realized kernel geometry.
// Implementations wrap their internal representation.
type Handle interface {
	// Dim reports whether the handle is a 2D region or a 3D solid.
	Dim() Dim
	// BoundingBox returns the axis-aligned bounding box. 2D handles
	// report zero Z bounds.
	BoundingBox() (min, max [3]float64)
}

// PrimitiveKind enumerates the primitives a kernel builds.
type PrimitiveKind int

const (
	Box PrimitiveKind = iota
	Cylinder
	Sphere
	Rect
	Circle
	Polygon
)

func (k PrimitiveKind) String() string {
	switch k {
	case Box:
		return "box"
	case Cylinder:
		return "cylinder"
	case Sphere:
		return "sphere"
	case Rect:
		return "rect"
	case Circle:
		return "circle"
	case Polygon:
		return "polygon"
	default:
		return fmt.Sprintf("PrimitiveKind(%d)", int(k))
	}
}

// Dim returns the dimensionality of the primitive.
func (k PrimitiveKind) Dim() Dim {
	switch k {
	case Rect, Circle, Polygon:
		return Dim2
	default:
		return Dim3
	}
}

// PrimitiveSpec describes one primitive, centered on the origin. Cylinders
// run along Z. Only the fields relevant to Kind are read.
type PrimitiveSpec struct {
	Kind   PrimitiveKind
	X      float64 // box and rect
	Y      float64 // box and rect
	Z      float64 // box
	Radius float64 // cylinder, sphere and circle
	Height float64 // cylinder
	Points [][2]float64
}

// Check reports ErrDegenerate for non-finite or non-positive dimensions
// and polygons without area, and ErrSelfIntersecting for polygons whose
// edges cross.
func (p PrimitiveSpec) Check() error {
	var dims []float64
	switch p.Kind {
	case Box:
		dims = []float64{p.X, p.Y, p.Z}
	case Cylinder:
		dims = []float64{p.Radius, p.Height}
	case Sphere, Circle:
		dims = []float64{p.Radius}
	case Rect:
		dims = []float64{p.X, p.Y}
	case Polygon:
		return CheckPolygon(p.Points)
	default:
		return fmt.Errorf("%w: primitive %s", ErrUnsupported, p.Kind)
	}
	for _, d := range dims {
		if math.IsNaN(d) || math.IsInf(d, 0) || d <= 0 {
			return fmt.Errorf("%w: %s dimension %g", ErrDegenerate, p.Kind, d)
		}
	}
	return nil
}

// Op enumerates boolean operations.
type Op int

const (
	Union Op = iota
	Difference
	Intersection
)

func (op Op) String() string {
	switch op {
	case Union:
		return "union"
	case Difference:
		return "difference"
	case Intersection:
		return "intersection"
	default:
		return fmt.Sprintf("Op(%d)", int(op))
	}
}

// Properties are the mass properties of a handle. Measure is a volume in
// mm³ for solids and an area in mm² for regions.
type Properties struct {
	Measure  float64
	Centroid [3]float64
	Min, Max [3]float64
}

// Kernel is the abstract geometry kernel interface. Every method is a
// synchronous unit of work; handles passed in are never modified.
type Kernel interface {
	// Primitive builds a primitive centered on the origin.
	Primitive(p PrimitiveSpec) (Handle, error)
	// Transform applies a rigid motion. 2D handles accept only rotations
	// about Z and translations in the XY plane.
	Transform(h Handle, a Affine) (Handle, error)
	// Boolean combines two handles of the same dimensionality.
	Boolean(op Op, a, b Handle) (Handle, error)
	// Extrude sweeps a 2D handle along +Z from z=0 to z=height.
	Extrude(h Handle, height float64) (Handle, error)
	// Mesh tessellates a 3D handle.
	Mesh(h Handle) (*Mesh, error)
	// Measure computes mass properties of a handle.
	Measure(h Handle) (Properties, error)
}

// FileWriter is implemented by kernels that serialize handles to files.
type FileWriter interface {
	WriteFile(h Handle, path string, f Format) error
}

// Format enumerates the file formats a FileWriter may produce.
type Format int

const (
	FormatSTL Format = iota
	Format3MF
	FormatDXF
	FormatSVG
)

func (f Format) String() string {
	switch f {
	case FormatSTL:
		return "stl"
	case Format3MF:
		return "3mf"
	case FormatDXF:
		return "dxf"
	case FormatSVG:
		return "svg"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Dim returns the dimensionality of geometry the format holds.
func (f Format) Dim() Dim {
	switch f {
	case FormatDXF, FormatSVG:
		return Dim2
	default:
		return Dim3
	}
}

// FormatFromPath selects a format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".stl":
		return FormatSTL, nil
	case ".3mf":
		return Format3MF, nil
	case ".dxf":
		return FormatDXF, nil
	case ".svg":
		return FormatSVG, nil
	default:
		return 0, fmt.Errorf("kernel: unknown file format %q", ext)
	}
}
