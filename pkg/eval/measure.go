package eval

import (
	"context"
	"fmt"

	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/graph"
	"github.com/chazu/kerf/pkg/kernel"
)

// Properties are the measured properties of a shape. Measure is a volume in
// mm³ for parts and an area in mm² for sketches. Empty is set, and every
// other field zero, for the empty shape.
type Properties struct {
	Measure  float64
	Centroid geom.Point3
	Min, Max geom.Point3
	Empty    bool
}

func (p Properties) String() string {
	if p.Empty {
		return "empty"
	}
	return fmt.Sprintf("measure=%.6g centroid=%s bounds=%s..%s", p.Measure, p.Centroid, p.Min, p.Max)
}

// Measure realizes s and reports its mass properties.
func (e *Evaluator) Measure(ctx context.Context, s Shape) (Properties, error) {
	n := s.Node()
	if n.IsEmpty() {
		return Properties{Empty: true}, nil
	}
	h, err := e.RealizeNode(ctx, n)
	if err != nil {
		return Properties{}, err
	}
	e.calls.Add(1)
	kp, err := e.k.Measure(h)
	if err != nil {
		return Properties{}, kernelError(n, err)
	}
	return Properties{
		Measure:  kp.Measure,
		Centroid: geom.P3Mm(kp.Centroid[0], kp.Centroid[1], kp.Centroid[2]),
		Min:      geom.P3Mm(kp.Min[0], kp.Min[1], kp.Min[2]),
		Max:      geom.P3Mm(kp.Max[0], kp.Max[1], kp.Max[2]),
	}, nil
}

// Mesh realizes a solid and tessellates it.
func (e *Evaluator) Mesh(ctx context.Context, s Shape) (*kernel.Mesh, error) {
	n := s.Node()
	if n.Dim != graph.Dim3 {
		return nil, fmt.Errorf("eval: mesh: %s is not a solid", n)
	}
	h, err := e.RealizeNode(ctx, n)
	if err != nil {
		return nil, err
	}
	e.calls.Add(1)
	m, err := e.k.Mesh(h)
	if err != nil {
		return nil, kernelError(n, err)
	}
	return m, nil
}
