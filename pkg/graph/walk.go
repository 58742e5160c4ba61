package graph

import "errors"

// SkipChildren may be returned by a PreOrder visitor to skip the node's
// children.
var SkipChildren = errors.New("skip children")

// PostOrder calls fn for every node reachable from root, children before
// parents. Each node is visited once even when it is shared. Returning an
// error from fn stops the walk.
func PostOrder(root *Node, fn func(*Node) error) error {
	visited := make(map[NodeID]bool)
	var visit func(n *Node) error
	visit = func(n *Node) error {
		if n == nil || visited[n.ID] {
			return nil
		}
		visited[n.ID] = true
		for _, c := range n.Children {
			if err := visit(c); err != nil {
				return err
			}
		}
		return fn(n)
	}
	return visit(root)
}

// PreOrder calls fn for every node reachable from root, parents before
// children, visiting shared nodes once. depth is 0 for root.
func PreOrder(root *Node, fn func(n *Node, depth int) error) error {
	visited := make(map[NodeID]bool)
	var visit func(n *Node, depth int) error
	visit = func(n *Node, depth int) error {
		if n == nil || visited[n.ID] {
			return nil
		}
		visited[n.ID] = true
		err := fn(n, depth)
		if errors.Is(err, SkipChildren) {
			return nil
		}
		if err != nil {
			return err
		}
		for _, c := range n.Children {
			if err := visit(c, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	return visit(root, 0)
}

// Count returns the number of distinct nodes reachable from root.
func Count(root *Node) int {
	n := 0
	_ = PostOrder(root, func(*Node) error {
		n++
		return nil
	})
	return n
}
