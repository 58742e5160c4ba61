package graph

import "fmt"

// DesignGraph is a flattened, indexed view of one or more shape trees. It is
// built by Collect or Add and used for validation, description and
// per-part consumers. The trees it indexes are not copied.
type DesignGraph struct {
	Nodes     map[NodeID]*Node
	Roots     []NodeID
	NameIndex map[string]NodeID

	// parts lists the roots registered by Add, in registration order.
	parts []Part
	// conflicts records IDs shared by distinct nodes.
	conflicts []NodeID
}

// Part is one registered root. Name is empty for unnamed roots.
type Part struct {
	Name string
	Root NodeID
}

// New creates an empty DesignGraph.
func New() *DesignGraph {
	return &DesignGraph{
		Nodes:     make(map[NodeID]*Node),
		NameIndex: make(map[string]NodeID),
	}
}

// Collect indexes every node reachable from the given roots.
func Collect(roots ...*Node) *DesignGraph {
	g := New()
	for _, r := range roots {
		g.Add("", r)
	}
	return g
}

// Add indexes the tree under root and registers root as a root of the graph.
// A non-empty name is recorded in NameIndex; a later Add with the same name
// replaces the earlier entry.
func (g *DesignGraph) Add(name string, root *Node) {
	if root == nil {
		return
	}
	g.addTree(root)
	g.AddRoot(root.ID)
	if name == "" {
		for _, p := range g.parts {
			if p.Root == root.ID {
				return
			}
		}
		g.parts = append(g.parts, Part{Root: root.ID})
		return
	}
	g.NameIndex[name] = root.ID
	for i, p := range g.parts {
		if p.Name == name {
			g.parts[i].Root = root.ID
			return
		}
	}
	g.parts = append(g.parts, Part{Name: name, Root: root.ID})
}

// Parts returns the registered roots in registration order. Several names
// may share a root. Roots added only through AddRoot follow as unnamed
// entries, once each.
func (g *DesignGraph) Parts() []Part {
	out := make([]Part, len(g.parts), len(g.parts)+len(g.Roots))
	copy(out, g.parts)
	seen := make(map[NodeID]bool, len(out))
	for _, p := range out {
		seen[p.Root] = true
	}
	for _, id := range g.Roots {
		if !seen[id] {
			seen[id] = true
			out = append(out, Part{Root: id})
		}
	}
	return out
}

// addTree indexes root and its descendants. Nodes already indexed are not
// revisited, which also stops at cycles in hand-built trees.
func (g *DesignGraph) addTree(root *Node) {
	stack := []*Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == nil {
			continue
		}
		if existing, ok := g.Nodes[n.ID]; ok {
			if existing != n {
				g.conflicts = append(g.conflicts, n.ID)
			}
			continue
		}
		g.AddNode(n)
		stack = append(stack, n.Children...)
	}
}

// AddNode adds a node to the graph. It does not check for duplicates.
func (g *DesignGraph) AddNode(n *Node) {
	g.Nodes[n.ID] = n
}

// AddRoot registers a node ID as a root of the graph.
func (g *DesignGraph) AddRoot(id NodeID) {
	g.Roots = append(g.Roots, id)
}

// Lookup returns the root registered under name, or nil.
func (g *DesignGraph) Lookup(name string) *Node {
	id, ok := g.NameIndex[name]
	if !ok {
		return nil
	}
	return g.Nodes[id]
}

// MustLookup returns the root registered under name, or panics.
func (g *DesignGraph) MustLookup(name string) *Node {
	n := g.Lookup(name)
	if n == nil {
		panic(fmt.Sprintf("graph: no node named %q", name))
	}
	return n
}

// NameOf returns the first name id was registered under, or "".
func (g *DesignGraph) NameOf(id NodeID) string {
	for _, p := range g.parts {
		if p.Root == id && p.Name != "" {
			return p.Name
		}
	}
	return ""
}

// Get returns the node with the given ID, or nil.
func (g *DesignGraph) Get(id NodeID) *Node {
	return g.Nodes[id]
}

// Primitives returns all primitive nodes in the graph.
func (g *DesignGraph) Primitives() []*Node {
	var prims []*Node
	for _, n := range g.Nodes {
		if n.Kind == NodePrimitive {
			prims = append(prims, n)
		}
	}
	return prims
}

// Children returns the non-nil child nodes of the given node.
func (g *DesignGraph) Children(n *Node) []*Node {
	children := make([]*Node, 0, len(n.Children))
	for _, c := range n.Children {
		if c != nil {
			children = append(children, c)
		}
	}
	return children
}

// NodeCount returns the total number of nodes.
func (g *DesignGraph) NodeCount() int {
	return len(g.Nodes)
}
