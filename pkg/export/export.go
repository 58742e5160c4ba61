// Package export hands realized shapes to the kernel for serialization.
// The file format follows the path extension: .stl and .3mf for parts,
// .dxf and .svg for sketches.
package export

import (
	"context"
	"errors"
	"fmt"

	"github.com/chazu/kerf/pkg/eval"
	"github.com/chazu/kerf/pkg/kernel"
)

// ErrFormat is returned when the format cannot hold the shape, or the
// kernel cannot write it.
var ErrFormat = errors.New("export: unsupported format")

// WriteFile realizes s and writes it to path. Kernels that implement
// kernel.FileWriter write every format they support; for other kernels
// parts can still be written as STL from their mesh.
func WriteFile(ctx context.Context, ev *eval.Evaluator, s eval.Shape, path string) error {
	f, err := kernel.FormatFromPath(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFormat, err)
	}
	n := s.Node()
	if kernel.Dim(n.Dim) != f.Dim() {
		return fmt.Errorf("%w: cannot write a %s shape as %s", ErrFormat, n.Dim, f)
	}

	if w, ok := ev.Kernel().(kernel.FileWriter); ok {
		h, err := ev.Realize(ctx, s)
		if err != nil {
			return err
		}
		if err := w.WriteFile(h, path, f); err != nil {
			return fmt.Errorf("export: %s: %w", path, err)
		}
		return nil
	}

	if f != kernel.FormatSTL {
		return fmt.Errorf("%w: kernel has no %s writer", ErrFormat, f)
	}
	m, err := ev.Mesh(ctx, s)
	if err != nil {
		return err
	}
	if err := m.WriteSTL(path); err != nil {
		return fmt.Errorf("export: %s: %w", path, err)
	}
	return nil
}
