package graph

import (
	"fmt"
	"strings"
)

// ValidationSeverity indicates whether a validation finding blocks evaluation
// or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks evaluation
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	NodeID   NodeID             // which node has the problem (zero if graph-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.NodeID.IsZero() {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] node %s: %s", e.Severity, e.NodeID.Short(), e.Message)
}

// ValidationErrors is a list of blocking findings returned as one error.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("graph: %d validation error(s): %s", len(errs), strings.Join(msgs, "; "))
}

// Blocking returns only the error-severity findings of errs.
func Blocking(errs []ValidationError) ValidationErrors {
	var out ValidationErrors
	for _, e := range errs {
		if e.Severity == SeverityError {
			out = append(out, e)
		}
	}
	return out
}

// ValidationWarning describes a non-blocking advisory finding.
type ValidationWarning struct {
	NodeID  NodeID
	Message string
}

// ValidationResult bundles errors (blocking) and warnings (advisory)
// from all validation tiers.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// OK reports whether there are no blocking errors.
func (r ValidationResult) OK() bool { return len(r.Errors) == 0 }

// Validate runs all Tier 1 structural validation checks on the design graph
// and returns a slice of validation errors. An empty slice means the graph is
// valid. This function is read-only and never mutates the graph.
//
// Trees built through the package constructors always pass Tier 1; the checks
// exist for hand-assembled Node values.
func Validate(g *DesignGraph) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateIdentity(g)...)
	errs = append(errs, validateDAG(g)...)
	errs = append(errs, validateReferences(g)...)
	errs = append(errs, validateNames(g)...)
	errs = append(errs, validateRoots(g)...)
	errs = append(errs, validateArity(g)...)
	errs = append(errs, validateDims(g)...)
	return errs
}

// ValidateAll runs all validation tiers (structural, geometric)
// and returns a ValidationResult with separated errors and warnings.
func ValidateAll(g *DesignGraph) ValidationResult {
	// Tier 1: structural validation.
	tier1 := Validate(g)

	// Tier 2: geometric validation.
	tier2Errs, tier2Warnings := validateGeometry(g)

	var result ValidationResult
	for _, e := range tier1 {
		if e.Severity == SeverityWarning {
			result.Warnings = append(result.Warnings, ValidationWarning{
				NodeID:  e.NodeID,
				Message: e.Message,
			})
		} else {
			result.Errors = append(result.Errors, e)
		}
	}

	result.Errors = append(result.Errors, tier2Errs...)
	result.Warnings = append(result.Warnings, tier2Warnings...)

	return result
}

// validateIdentity checks that every node was given an ID and that no two
// distinct nodes share one.
func validateIdentity(g *DesignGraph) []ValidationError {
	var errs []ValidationError

	if n, ok := g.Nodes[ZeroID]; ok {
		errs = append(errs, ValidationError{
			Message:  fmt.Sprintf("%s node has no ID; build nodes with the graph constructors", n.Kind),
			Severity: SeverityError,
		})
	}

	seen := make(map[NodeID]bool)
	for _, id := range g.conflicts {
		if seen[id] || id.IsZero() {
			continue
		}
		seen[id] = true
		errs = append(errs, ValidationError{
			NodeID:   id,
			Message:  "ID is shared by distinct nodes",
			Severity: SeverityError,
		})
	}

	return errs
}

// validateDAG checks for cycles using DFS with 3-color marking.
// White (0) = unvisited, gray (1) = in current DFS path, black (2) = fully explored.
// If we encounter a gray node during traversal, we have found a cycle.
func validateDAG(g *DesignGraph) []ValidationError {
	const (
		white = iota
		gray
		black
	)

	color := make(map[NodeID]int) // default zero = white
	var errs []ValidationError

	var visit func(n *Node) bool // returns true if cycle found
	visit = func(n *Node) bool {
		if n == nil {
			// Handled by validateReferences.
			return false
		}
		switch color[n.ID] {
		case black:
			return false
		case gray:
			errs = append(errs, ValidationError{
				NodeID:   n.ID,
				Message:  fmt.Sprintf("cycle detected: node %s is part of a cycle", n.ID.Short()),
				Severity: SeverityError,
			})
			return true
		}

		color[n.ID] = gray

		for _, child := range n.Children {
			if visit(child) {
				return true
			}
		}

		color[n.ID] = black
		return false
	}

	// Start DFS from every node to catch disconnected components.
	for id, n := range g.Nodes {
		if color[id] == white {
			if visit(n) {
				// One cycle error is sufficient; stop early.
				break
			}
		}
	}

	return errs
}

// validateReferences checks that no node has a nil child.
func validateReferences(g *DesignGraph) []ValidationError {
	var errs []ValidationError

	for _, node := range g.Nodes {
		for i, child := range node.Children {
			if child == nil {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("child %d is nil", i),
					Severity: SeverityError,
				})
			}
		}
	}

	return errs
}

// validateNames checks that every entry in NameIndex points to a root that
// exists in the graph.
func validateNames(g *DesignGraph) []ValidationError {
	var errs []ValidationError

	for name, id := range g.NameIndex {
		if _, ok := g.Nodes[id]; !ok {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("name index entry %q references non-existent node %s", name, id.Short()),
				Severity: SeverityError,
			})
		}
	}

	return errs
}

// validateRoots checks that every root ID references an existing node and
// warns about orphan nodes (nodes unreachable from any root).
func validateRoots(g *DesignGraph) []ValidationError {
	var errs []ValidationError

	for _, rid := range g.Roots {
		if _, ok := g.Nodes[rid]; !ok {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("root reference %s does not exist", rid.Short()),
				Severity: SeverityError,
			})
		}
	}

	if len(g.Nodes) == 0 {
		return errs
	}

	// Orphan detection: BFS from all roots through Children edges.
	reachable := make(map[NodeID]bool)
	queue := make([]*Node, 0, len(g.Roots))
	for _, rid := range g.Roots {
		if n, ok := g.Nodes[rid]; ok && !reachable[rid] {
			reachable[rid] = true
			queue = append(queue, n)
		}
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, child := range current.Children {
			if child != nil && !reachable[child.ID] {
				reachable[child.ID] = true
				queue = append(queue, child)
			}
		}
	}

	for id, node := range g.Nodes {
		if !reachable[id] {
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("%s node is not reachable from any root (orphan)", node.Kind),
				Severity: SeverityWarning,
			})
		}
	}

	return errs
}

// arity is the number of children each node kind takes.
var arity = map[NodeKind]int{
	NodeEmpty:     0,
	NodePrimitive: 0,
	NodeTransform: 1,
	NodeBoolean:   2,
	NodePattern:   1,
	NodeExtrude:   1,
}

// validateArity checks child counts and that each node's payload matches its
// kind.
func validateArity(g *DesignGraph) []ValidationError {
	var errs []ValidationError

	for _, node := range g.Nodes {
		want, ok := arity[node.Kind]
		if !ok {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("unknown node kind %d", int(node.Kind)),
				Severity: SeverityError,
			})
			continue
		}
		if len(node.Children) != want {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("%s node has %d children, want %d", node.Kind, len(node.Children), want),
				Severity: SeverityError,
			})
		}

		if msg := checkPayload(node); msg != "" {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  msg,
				Severity: SeverityError,
			})
		}
	}

	return errs
}

func checkPayload(n *Node) string {
	switch n.Kind {
	case NodeEmpty:
		if n.Data != nil {
			return fmt.Sprintf("empty node carries %T payload", n.Data)
		}
	case NodePrimitive:
		switch n.Data.(type) {
		case BoxData, CylinderData, SphereData, RectData, CircleData, PolygonData:
		default:
			return fmt.Sprintf("primitive node has unsupported data type %T", n.Data)
		}
	case NodeTransform:
		if _, ok := n.Data.(TransformData); !ok {
			return fmt.Sprintf("transform node has unexpected data type %T", n.Data)
		}
	case NodeBoolean:
		bd, ok := n.Data.(BooleanData)
		if !ok {
			return fmt.Sprintf("boolean node has unexpected data type %T", n.Data)
		}
		if bd.Op < Union || bd.Op > Intersection {
			return fmt.Sprintf("boolean node has unknown op %d", int(bd.Op))
		}
	case NodePattern:
		pd, ok := n.Data.(PatternData)
		if !ok {
			return fmt.Sprintf("pattern node has unexpected data type %T", n.Data)
		}
		if pd.Count < 1 {
			return fmt.Sprintf("pattern count is %d, must be at least 1", pd.Count)
		}
	case NodeExtrude:
		if _, ok := n.Data.(ExtrudeData); !ok {
			return fmt.Sprintf("extrude node has unexpected data type %T", n.Data)
		}
	}
	return ""
}

// validateDims checks that every node's dimensionality agrees with its
// payload and its children.
func validateDims(g *DesignGraph) []ValidationError {
	var errs []ValidationError
	report := func(n *Node, format string, args ...any) {
		errs = append(errs, ValidationError{
			NodeID:   n.ID,
			Message:  fmt.Sprintf(format, args...),
			Severity: SeverityError,
		})
	}

	for _, node := range g.Nodes {
		if node.Dim != Dim2 && node.Dim != Dim3 {
			report(node, "invalid dimensionality %s", node.Dim)
			continue
		}

		switch node.Kind {
		case NodePrimitive:
			if node.Data != nil && PrimitiveDim(node.Data) != node.Dim {
				report(node, "%T is %s but node is %s", node.Data, PrimitiveDim(node.Data), node.Dim)
			}
		case NodeExtrude:
			if node.Dim != Dim3 {
				report(node, "extrude node is %s, want 3d", node.Dim)
			}
			if c := node.Child(0); c != nil && c.Dim != Dim2 {
				report(node, "extrude profile is %s, want 2d", c.Dim)
			}
		case NodeTransform, NodeBoolean, NodePattern:
			for i, c := range node.Children {
				if c != nil && c.Dim != node.Dim {
					report(node, "child %d is %s but node is %s", i, c.Dim, node.Dim)
				}
			}
		}

		if node.Dim == Dim2 {
			switch d := node.Data.(type) {
			case TransformData:
				if !d.Transform.IsPlanar() {
					report(node, "sketch transform %s leaves the sketch plane", d.Transform)
				}
			case PatternData:
				if !d.Step.IsPlanar() {
					report(node, "sketch pattern step %s leaves the sketch plane", d.Step)
				}
			}
		}
	}

	return errs
}
