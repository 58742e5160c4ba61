package eval_test

import (
	"math"
	"sync"

	"github.com/chazu/kerf/pkg/kernel"
)

// boxHandle is a stub handle tracked only by its bounds.
type boxHandle struct {
	dim      kernel.Dim
	min, max [3]float64
}

func (h *boxHandle) Dim() kernel.Dim { return h.dim }

func (h *boxHandle) BoundingBox() (min, max [3]float64) { return h.min, h.max }

func (h *boxHandle) measure() float64 {
	m := 1.0
	for i := 0; i < int(h.dim); i++ {
		m *= h.max[i] - h.min[i]
	}
	return m
}

// recorder is a stub kernel that works on bounding boxes and records every
// call.
type recorder struct {
	mu         sync.Mutex
	primitives []kernel.PrimitiveSpec
	affines    []kernel.Affine
	booleans   []kernel.Op
	extrudes   []float64

	// gate, when set, holds every Primitive call until it is closed.
	gate chan struct{}
	// failPrimitives fails the next n Primitive calls with ErrDegenerate.
	failPrimitives int
	// failBoolean, when set, is returned by every Boolean call.
	failBoolean error
}

var _ kernel.Kernel = (*recorder)(nil)

func (r *recorder) counts() (prims, transforms, booleans, extrudes int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.primitives), len(r.affines), len(r.booleans), len(r.extrudes)
}

func (r *recorder) Primitive(p kernel.PrimitiveSpec) (kernel.Handle, error) {
	if r.gate != nil {
		<-r.gate
	}
	r.mu.Lock()
	r.primitives = append(r.primitives, p)
	fail := r.failPrimitives > 0
	if fail {
		r.failPrimitives--
	}
	r.mu.Unlock()
	if fail {
		return nil, kernel.ErrDegenerate
	}
	if err := p.Check(); err != nil {
		return nil, err
	}

	h := &boxHandle{dim: p.Kind.Dim()}
	var half [3]float64
	switch p.Kind {
	case kernel.Box:
		half = [3]float64{p.X / 2, p.Y / 2, p.Z / 2}
	case kernel.Cylinder:
		half = [3]float64{p.Radius, p.Radius, p.Height / 2}
	case kernel.Sphere:
		half = [3]float64{p.Radius, p.Radius, p.Radius}
	case kernel.Rect:
		half = [3]float64{p.X / 2, p.Y / 2, 0}
	case kernel.Circle:
		half = [3]float64{p.Radius, p.Radius, 0}
	case kernel.Polygon:
		h.min = [3]float64{math.Inf(1), math.Inf(1), 0}
		h.max = [3]float64{math.Inf(-1), math.Inf(-1), 0}
		for _, pt := range p.Points {
			for i := 0; i < 2; i++ {
				h.min[i] = math.Min(h.min[i], pt[i])
				h.max[i] = math.Max(h.max[i], pt[i])
			}
		}
		return h, nil
	}
	for i := range half {
		h.min[i], h.max[i] = -half[i], half[i]
	}
	return h, nil
}

func (r *recorder) Transform(h kernel.Handle, a kernel.Affine) (kernel.Handle, error) {
	r.mu.Lock()
	r.affines = append(r.affines, a)
	r.mu.Unlock()
	min, max := kernel.TransformBox(a, h.(*boxHandle).min, h.(*boxHandle).max)
	return &boxHandle{dim: h.Dim(), min: min, max: max}, nil
}

func (r *recorder) Boolean(op kernel.Op, a, b kernel.Handle) (kernel.Handle, error) {
	r.mu.Lock()
	r.booleans = append(r.booleans, op)
	fail := r.failBoolean
	r.mu.Unlock()
	if fail != nil {
		return nil, fail
	}
	if a.Dim() != b.Dim() {
		return nil, kernel.ErrUnsupported
	}
	ha, hb := a.(*boxHandle), b.(*boxHandle)
	out := &boxHandle{dim: ha.dim, min: ha.min, max: ha.max}
	switch op {
	case kernel.Union:
		for i := range out.min {
			out.min[i] = math.Min(ha.min[i], hb.min[i])
			out.max[i] = math.Max(ha.max[i], hb.max[i])
		}
	case kernel.Intersection:
		if !kernel.BoxesOverlap(ha.dim, ha.min, ha.max, hb.min, hb.max) {
			return nil, kernel.ErrEmptyResult
		}
		for i := range out.min {
			out.min[i] = math.Max(ha.min[i], hb.min[i])
			out.max[i] = math.Min(ha.max[i], hb.max[i])
		}
	}
	return out, nil
}

func (r *recorder) Extrude(h kernel.Handle, height float64) (kernel.Handle, error) {
	r.mu.Lock()
	r.extrudes = append(r.extrudes, height)
	r.mu.Unlock()
	if h.Dim() != kernel.Dim2 {
		return nil, kernel.ErrUnsupported
	}
	b := h.(*boxHandle)
	out := &boxHandle{dim: kernel.Dim3, min: b.min, max: b.max}
	out.min[2], out.max[2] = 0, height
	return out, nil
}

func (r *recorder) Mesh(h kernel.Handle) (*kernel.Mesh, error) {
	return &kernel.Mesh{}, nil
}

func (r *recorder) Measure(h kernel.Handle) (kernel.Properties, error) {
	b := h.(*boxHandle)
	var c [3]float64
	for i := range c {
		c[i] = (b.min[i] + b.max[i]) / 2
	}
	return kernel.Properties{Measure: b.measure(), Centroid: c, Min: b.min, Max: b.max}, nil
}
