package eval

import (
	"errors"
	"fmt"

	"github.com/chazu/kerf/pkg/graph"
	"github.com/chazu/kerf/pkg/kernel"
)

// ErrorKind classifies why the kernel could not realize a node.
type ErrorKind int

const (
	Degenerate       ErrorKind = iota // zero-size or collapsed geometry
	SelfIntersecting                  // an outline crosses itself
	EmptyResult                       // the operation produced nothing
)

func (k ErrorKind) String() string {
	switch k {
	case Degenerate:
		return "degenerate"
	case SelfIntersecting:
		return "self-intersecting"
	case EmptyResult:
		return "empty result"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// GeometryError reports a node the kernel could not realize. Err is the
// kernel's error and matches the kernel sentinels with errors.Is.
type GeometryError struct {
	Kind     ErrorKind
	Node     graph.NodeID
	NodeKind graph.NodeKind
	Err      error
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("eval: %s at %s node %s: %v", e.Kind, e.NodeKind, e.Node.Short(), e.Err)
}

func (e *GeometryError) Unwrap() error { return e.Err }

// kernelError attributes a kernel failure to n. Failures outside the
// geometry classes are wrapped without classification.
func kernelError(n *graph.Node, err error) error {
	var ge *GeometryError
	if errors.As(err, &ge) {
		return err
	}
	kind, ok := classify(err)
	if !ok {
		return fmt.Errorf("eval: %s node %s: %w", n.Kind, n.ID.Short(), err)
	}
	return &GeometryError{Kind: kind, Node: n.ID, NodeKind: n.Kind, Err: err}
}

func classify(err error) (ErrorKind, bool) {
	switch {
	case errors.Is(err, kernel.ErrDegenerate):
		return Degenerate, true
	case errors.Is(err, kernel.ErrSelfIntersecting):
		return SelfIntersecting, true
	case errors.Is(err, kernel.ErrEmptyResult):
		return EmptyResult, true
	}
	return 0, false
}
