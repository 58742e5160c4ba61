// Package eval realizes shape trees into kernel geometry.
//
// Realization is lazy and memoized by node identity: each node is handed to
// the kernel at most once per Evaluator, however many trees share it. The
// first successful result for a node is kept for the Evaluator's lifetime
// (or until Forget); failures are never cached.
package eval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/graph"
	"github.com/chazu/kerf/pkg/kernel"
)

// Shape is anything with a tree root. shape.Part and shape.Sketch satisfy it.
type Shape interface {
	Node() *graph.Node
}

// Evaluator bridges shape trees to a kernel. It is safe for concurrent use.
type Evaluator struct {
	k        kernel.Kernel
	log      *slog.Logger
	parallel bool
	timeout  time.Duration

	mu    sync.Mutex
	cache map[graph.NodeID]kernel.Handle
	group singleflight.Group

	hits, misses, calls atomic.Int64
}

// New returns an Evaluator dispatching to k.
func New(k kernel.Kernel, opts ...Option) *Evaluator {
	e := &Evaluator{
		k:     k,
		log:   discardLogger(),
		cache: make(map[graph.NodeID]kernel.Handle),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Kernel returns the kernel the Evaluator dispatches to.
func (e *Evaluator) Kernel() kernel.Kernel { return e.k }

// Realize returns the kernel handle for s. The request either completes or
// fails as a whole. When ctx ends first, Realize returns ctx.Err(); kernel
// work already started runs to completion and may still fill the cache.
func (e *Evaluator) Realize(ctx context.Context, s Shape) (kernel.Handle, error) {
	return e.RealizeNode(ctx, s.Node())
}

// RealizeNode is Realize for a bare tree root.
func (e *Evaluator) RealizeNode(ctx context.Context, n *graph.Node) (kernel.Handle, error) {
	if n.IsEmpty() {
		var id graph.NodeID
		if n != nil {
			id = n.ID
		}
		return nil, &GeometryError{Kind: EmptyResult, Node: id, NodeKind: graph.NodeEmpty, Err: kernel.ErrEmptyResult}
	}
	if errs := graph.Blocking(graph.Validate(graph.Collect(n))); len(errs) > 0 {
		return nil, errs
	}
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type result struct {
		h   kernel.Handle
		err error
	}
	done := make(chan result, 1)
	go func() {
		h, err := e.realize(n)
		done <- result{h, err}
	}()

	select {
	case r := <-done:
		return r.h, r.err
	case <-ctx.Done():
		e.log.Debug("realize abandoned", "node", n.ID.Short(), "err", ctx.Err())
		return nil, ctx.Err()
	}
}

// lookup returns the cached handle for id.
func (e *Evaluator) lookup(id graph.NodeID) (kernel.Handle, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	h, ok := e.cache[id]
	return h, ok
}

// store records h for id unless a handle is already cached, and returns the
// cached handle.
func (e *Evaluator) store(id graph.NodeID, h kernel.Handle) kernel.Handle {
	e.mu.Lock()
	defer e.mu.Unlock()
	if prev, ok := e.cache[id]; ok {
		return prev
	}
	e.cache[id] = h
	return h
}

func (e *Evaluator) realize(n *graph.Node) (kernel.Handle, error) {
	if h, ok := e.lookup(n.ID); ok {
		e.hits.Add(1)
		e.log.Debug("cache hit", "node", n.ID.Short(), "kind", n.Kind)
		return h, nil
	}
	v, err, _ := e.group.Do(strconv.FormatUint(uint64(n.ID), 10), func() (any, error) {
		if h, ok := e.lookup(n.ID); ok {
			e.hits.Add(1)
			return h, nil
		}
		e.misses.Add(1)
		h, err := e.dispatch(n)
		if err != nil {
			return nil, err
		}
		return e.store(n.ID, h), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(kernel.Handle), nil
}

func (e *Evaluator) dispatch(n *graph.Node) (kernel.Handle, error) {
	switch n.Kind {
	case graph.NodeEmpty:
		return nil, &GeometryError{Kind: EmptyResult, Node: n.ID, NodeKind: n.Kind, Err: kernel.ErrEmptyResult}

	case graph.NodePrimitive:
		spec, err := primitiveSpec(n.Data)
		if err != nil {
			return nil, kernelError(n, err)
		}
		e.log.Debug("kernel primitive", "node", n.ID.Short(), "kind", spec.Kind)
		return e.call(n, func() (kernel.Handle, error) { return e.k.Primitive(spec) })

	case graph.NodeTransform:
		td := n.Data.(graph.TransformData)
		child, err := e.realize(n.Child(0))
		if err != nil {
			return nil, err
		}
		return e.call(n, func() (kernel.Handle, error) { return e.k.Transform(child, kernel.AffineOf(td.Transform)) })

	case graph.NodeBoolean:
		bd := n.Data.(graph.BooleanData)
		a, b, err := e.operands(n.Child(0), n.Child(1))
		if err != nil {
			return nil, err
		}
		return e.call(n, func() (kernel.Handle, error) { return e.k.Boolean(kernelOp(bd.Op), a, b) })

	case graph.NodePattern:
		return e.pattern(n)

	case graph.NodeExtrude:
		ed := n.Data.(graph.ExtrudeData)
		profile, err := e.realize(n.Child(0))
		if err != nil {
			return nil, err
		}
		depth := math.Abs(ed.Thickness.Mm())
		prism, err := e.call(n, func() (kernel.Handle, error) { return e.k.Extrude(profile, depth) })
		if err != nil {
			return nil, err
		}
		place := ed.Plane.Frame()
		if ed.Thickness.IsNegative() {
			place = geom.Translate(geom.P3Mm(0, 0, -depth)).Then(place)
		}
		if place.IsIdentity() {
			return prism, nil
		}
		return e.call(n, func() (kernel.Handle, error) { return e.k.Transform(prism, kernel.AffineOf(place)) })
	}
	return nil, fmt.Errorf("eval: node %s has unknown kind %s", n.ID.Short(), n.Kind)
}

// call runs one kernel operation on behalf of n.
func (e *Evaluator) call(n *graph.Node, op func() (kernel.Handle, error)) (kernel.Handle, error) {
	e.calls.Add(1)
	h, err := op()
	if err != nil {
		e.log.Debug("kernel failure", "node", n.ID.Short(), "kind", n.Kind, "err", err)
		return nil, kernelError(n, err)
	}
	return h, nil
}

// operands realizes both children of a boolean, concurrently when enabled.
func (e *Evaluator) operands(left, right *graph.Node) (a, b kernel.Handle, err error) {
	if !e.parallel {
		if a, err = e.realize(left); err != nil {
			return nil, nil, err
		}
		if b, err = e.realize(right); err != nil {
			return nil, nil, err
		}
		return a, b, nil
	}
	var g errgroup.Group
	g.Go(func() error {
		var err error
		a, err = e.realize(left)
		return err
	})
	g.Go(func() error {
		var err error
		b, err = e.realize(right)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

// pattern realizes a pattern through its expansion into transforms and
// unions. Failures of the expansion's own nodes are attributed to the
// pattern node.
func (e *Evaluator) pattern(n *graph.Node) (kernel.Handle, error) {
	expanded, err := graph.ExpandPattern(n)
	if err != nil {
		return nil, err
	}
	e.log.Debug("pattern expanded", "node", n.ID.Short(), "nodes", graph.Count(expanded))
	h, err := e.realize(expanded)
	if err == nil {
		return h, nil
	}
	var ge *GeometryError
	if errors.As(err, &ge) && synthetic(expanded, n.Child(0))[ge.Node] {
		return nil, &GeometryError{Kind: ge.Kind, Node: n.ID, NodeKind: n.Kind, Err: ge.Err}
	}
	return nil, err
}

// synthetic returns the IDs of the nodes in an expansion that are not part
// of the pattern's child subtree.
func synthetic(expanded, child *graph.Node) map[graph.NodeID]bool {
	ids := make(map[graph.NodeID]bool)
	_ = graph.PreOrder(expanded, func(m *graph.Node, _ int) error {
		if m == child {
			return graph.SkipChildren
		}
		ids[m.ID] = true
		return nil
	})
	return ids
}

func kernelOp(op graph.BoolOp) kernel.Op {
	switch op {
	case graph.Difference:
		return kernel.Difference
	case graph.Intersection:
		return kernel.Intersection
	default:
		return kernel.Union
	}
}

func primitiveSpec(data graph.NodeData) (kernel.PrimitiveSpec, error) {
	switch d := data.(type) {
	case graph.BoxData:
		return kernel.PrimitiveSpec{Kind: kernel.Box, X: d.X.Mm(), Y: d.Y.Mm(), Z: d.Z.Mm()}, nil
	case graph.CylinderData:
		return kernel.PrimitiveSpec{Kind: kernel.Cylinder, Radius: d.Radius.Mm(), Height: d.Height.Mm()}, nil
	case graph.SphereData:
		return kernel.PrimitiveSpec{Kind: kernel.Sphere, Radius: d.Radius.Mm()}, nil
	case graph.RectData:
		return kernel.PrimitiveSpec{Kind: kernel.Rect, X: d.X.Mm(), Y: d.Y.Mm()}, nil
	case graph.CircleData:
		return kernel.PrimitiveSpec{Kind: kernel.Circle, Radius: d.Radius.Mm()}, nil
	case graph.PolygonData:
		pts := make([][2]float64, len(d.Points))
		for i, p := range d.Points {
			pts[i] = p.Mm()
		}
		return kernel.PrimitiveSpec{Kind: kernel.Polygon, Points: pts}, nil
	}
	return kernel.PrimitiveSpec{}, fmt.Errorf("%w: primitive data %T", kernel.ErrUnsupported, data)
}

// Stats counts cache traffic and kernel calls since New or Forget.
type Stats struct {
	Hits        int64
	Misses      int64
	KernelCalls int64
	Cached      int
}

// Stats returns a snapshot of the cache counters.
func (e *Evaluator) Stats() Stats {
	e.mu.Lock()
	cached := len(e.cache)
	e.mu.Unlock()
	return Stats{
		Hits:        e.hits.Load(),
		Misses:      e.misses.Load(),
		KernelCalls: e.calls.Load(),
		Cached:      cached,
	}
}

// Forget drops every cached handle and resets the counters. Requests in
// flight may still store their results.
func (e *Evaluator) Forget() {
	e.mu.Lock()
	e.cache = make(map[graph.NodeID]kernel.Handle)
	e.mu.Unlock()
	e.hits.Store(0)
	e.misses.Store(0)
	e.calls.Store(0)
}
