package graph

import (
	"fmt"
	"sync/atomic"

	"github.com/chazu/kerf/pkg/geom"
)

// NodeID identifies a node for the lifetime of the process. IDs are assigned
// at construction and never reused, so two nodes with the same ID are the
// same node.
type NodeID uint64

// ZeroID is the ID of a node that was not built by a constructor.
const ZeroID NodeID = 0

// nodeCounter provides unique IDs for new nodes.
var nodeCounter uint64

// NextID returns a fresh NodeID.
func NextID() NodeID {
	return NodeID(atomic.AddUint64(&nodeCounter, 1))
}

// IsZero reports whether id is unassigned.
func (id NodeID) IsZero() bool { return id == ZeroID }

// Short returns a compact human-readable form of the ID.
func (id NodeID) Short() string { return fmt.Sprintf("#%d", uint64(id)) }

func (id NodeID) String() string { return id.Short() }

// NodeKind enumerates the types of nodes in the shape tree.
type NodeKind int

const (
	NodeEmpty     NodeKind = iota // the empty shape
	NodePrimitive                 // box, cylinder, sphere, rectangle, circle, polygon
	NodeTransform                 // rigid motion of one child
	NodeBoolean                   // union, difference or intersection of two children
	NodePattern                   // repeated copies of one child
	NodeExtrude                   // 2D child swept into a 3D prism
)

func (k NodeKind) String() string {
	switch k {
	case NodeEmpty:
		return "empty"
	case NodePrimitive:
		return "primitive"
	case NodeTransform:
		return "transform"
	case NodeBoolean:
		return "boolean"
	case NodePattern:
		return "pattern"
	case NodeExtrude:
		return "extrude"
	default:
		return "unknown"
	}
}

// Dim is the dimensionality of a node's result.
type Dim int

const (
	Dim2 Dim = 2
	Dim3 Dim = 3
)

func (d Dim) String() string {
	switch d {
	case Dim2:
		return "2d"
	case Dim3:
		return "3d"
	default:
		return fmt.Sprintf("Dim(%d)", int(d))
	}
}

// Node is the fundamental element of the shape tree. Nodes must not be
// modified after construction.
type Node struct {
	ID       NodeID
	Kind     NodeKind
	Dim      Dim
	Children []*Node
	Data     NodeData
}

// NodeData is the interface for kind-specific node payloads.
type NodeData interface {
	nodeData() // marker method restricting implementations to this package
}

// IsEmpty reports whether n is the empty shape. A nil node is empty.
func (n *Node) IsEmpty() bool { return n == nil || n.Kind == NodeEmpty }

// Child returns the i-th child, or nil.
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s %s %s", n.Kind, n.Dim, n.ID.Short())
}

var (
	empty2 = &Node{ID: NextID(), Kind: NodeEmpty, Dim: Dim2}
	empty3 = &Node{ID: NextID(), Kind: NodeEmpty, Dim: Dim3}
)

// Empty returns the empty node of the given dimensionality. There is one
// empty node per dimensionality.
func Empty(d Dim) *Node {
	if d == Dim2 {
		return empty2
	}
	return empty3
}

// NewPrimitive returns a primitive leaf. The dimensionality follows from the
// payload.
func NewPrimitive(data NodeData) *Node {
	return &Node{ID: NextID(), Kind: NodePrimitive, Dim: PrimitiveDim(data), Data: data}
}

// NewTransform returns child moved by t.
func NewTransform(child *Node, t geom.Transform) *Node {
	return &Node{
		ID:       NextID(),
		Kind:     NodeTransform,
		Dim:      child.Dim,
		Children: []*Node{child},
		Data:     TransformData{Transform: t},
	}
}

// NewBoolean returns the combination of left and right under op. Operands
// must share dimensionality; Validate reports violations in hand-built trees.
func NewBoolean(op BoolOp, left, right *Node) *Node {
	return &Node{
		ID:       NextID(),
		Kind:     NodeBoolean,
		Dim:      left.Dim,
		Children: []*Node{left, right},
		Data:     BooleanData{Op: op},
	}
}

// NewPattern returns a pattern of count copies of child.
func NewPattern(child *Node, p PatternData) *Node {
	return &Node{
		ID:       NextID(),
		Kind:     NodePattern,
		Dim:      child.Dim,
		Children: []*Node{child},
		Data:     p,
	}
}

// NewExtrude returns a prism swept from a 2D child.
func NewExtrude(child *Node, e ExtrudeData) *Node {
	return &Node{
		ID:       NextID(),
		Kind:     NodeExtrude,
		Dim:      Dim3,
		Children: []*Node{child},
		Data:     e,
	}
}
