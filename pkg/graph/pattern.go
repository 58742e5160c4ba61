package graph

import (
	"fmt"

	"github.com/samber/lo"
)

// ExpandPattern rewrites a pattern node into the equivalent tree of
// transforms and unions. Copy 0 is the child itself; copy k is the child
// moved by the pattern step applied k times. The unions are balanced so
// independent halves can be realized concurrently.
func ExpandPattern(n *Node) (*Node, error) {
	if n == nil || n.Kind != NodePattern {
		return nil, fmt.Errorf("graph: expand pattern: %s is not a pattern node", n)
	}
	pd, ok := n.Data.(PatternData)
	if !ok {
		return nil, fmt.Errorf("graph: expand pattern: node %s has data %T", n.ID.Short(), n.Data)
	}
	if pd.Count < 1 {
		return nil, fmt.Errorf("graph: expand pattern: node %s has count %d", n.ID.Short(), pd.Count)
	}
	child := n.Child(0)
	if child == nil {
		return nil, fmt.Errorf("graph: expand pattern: node %s has no child", n.ID.Short())
	}
	if child.IsEmpty() {
		return Empty(n.Dim), nil
	}

	copies := lo.Times(pd.Count, func(k int) *Node {
		if k == 0 {
			return child
		}
		return NewTransform(child, pd.CopyTransform(k))
	})
	return unionAll(copies), nil
}

// unionAll joins nodes with a balanced tree of unions.
func unionAll(nodes []*Node) *Node {
	if len(nodes) == 1 {
		return nodes[0]
	}
	mid := len(nodes) / 2
	return NewBoolean(Union, unionAll(nodes[:mid]), unionAll(nodes[mid:]))
}
