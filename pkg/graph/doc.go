// Package graph defines the shape tree for kerf.
// The tree is an immutable DAG of primitive, transform, boolean, pattern and
// extrude nodes. Subtrees may be shared between roots; every node carries a
// process-unique NodeID that evaluation caches key on.
package graph
