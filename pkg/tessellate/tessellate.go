// Package tessellate produces triangle meshes for the solids of a design
// graph. One mesh is produced per 3D part; sketches have no mesh and are
// skipped.
package tessellate

import (
	"context"
	"fmt"
	"runtime"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/chazu/kerf/pkg/eval"
	"github.com/chazu/kerf/pkg/graph"
	"github.com/chazu/kerf/pkg/kernel"
)

// root adapts a graph node to eval.Shape.
type root struct{ n *graph.Node }

func (r root) Node() *graph.Node { return r.n }

// Tessellate meshes every non-empty 3D part of g through ev, in
// registration order. Each mesh is named after its part, or the root's short
// ID when unnamed. Parts are meshed concurrently; a root shared by several
// names yields one mesh per name but is realized once.
// The tessellator is read-only and never mutates the graph.
func Tessellate(ctx context.Context, g *graph.DesignGraph, ev *eval.Evaluator) ([]*kernel.Mesh, error) {
	if g == nil {
		return nil, nil
	}

	solids := lo.Filter(g.Parts(), func(p graph.Part, _ int) bool {
		n := g.Get(p.Root)
		return n != nil && !n.IsEmpty() && n.Dim == graph.Dim3
	})

	meshes := make([]*kernel.Mesh, len(solids))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range solids {
		eg.Go(func() error {
			name := partName(p)
			m, err := ev.Mesh(ctx, root{g.Get(p.Root)})
			if err != nil {
				return fmt.Errorf("tessellate: part %s: %w", name, err)
			}
			m.PartName = name
			meshes[i] = m
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return meshes, nil
}

// partName prefers the registered name and falls back to the root's ID.
func partName(p graph.Part) string {
	if p.Name != "" {
		return p.Name
	}
	return p.Root.Short()
}
