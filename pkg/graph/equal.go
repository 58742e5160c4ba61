package graph

// Equivalent reports whether two trees describe the same shape node for node:
// same kinds, same dimensionality, equal payloads within quantity tolerance
// and equivalent children in order. Identical nodes are trivially
// equivalent. Equivalent does not detect geometric equality of differently
// built trees.
func Equivalent(a, b *Node) bool {
	type pair struct{ a, b NodeID }
	seen := make(map[pair]bool)

	var eq func(a, b *Node) bool
	eq = func(a, b *Node) bool {
		if a == b {
			return true
		}
		if a == nil || b == nil {
			return false
		}
		if a.ID == b.ID {
			return true
		}
		key := pair{a.ID, b.ID}
		if seen[key] {
			return true
		}
		if a.Kind != b.Kind || a.Dim != b.Dim || len(a.Children) != len(b.Children) {
			return false
		}
		if !dataEqual(a.Data, b.Data) {
			return false
		}
		seen[key] = true
		for i := range a.Children {
			if !eq(a.Children[i], b.Children[i]) {
				return false
			}
		}
		return true
	}
	return eq(a, b)
}

func dataEqual(a, b NodeData) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case BoxData:
		y, ok := b.(BoxData)
		return ok && x.X.Equal(y.X) && x.Y.Equal(y.Y) && x.Z.Equal(y.Z)
	case CylinderData:
		y, ok := b.(CylinderData)
		return ok && x.Radius.Equal(y.Radius) && x.Height.Equal(y.Height)
	case SphereData:
		y, ok := b.(SphereData)
		return ok && x.Radius.Equal(y.Radius)
	case RectData:
		y, ok := b.(RectData)
		return ok && x.X.Equal(y.X) && x.Y.Equal(y.Y)
	case CircleData:
		y, ok := b.(CircleData)
		return ok && x.Radius.Equal(y.Radius)
	case PolygonData:
		y, ok := b.(PolygonData)
		if !ok || len(x.Points) != len(y.Points) {
			return false
		}
		for i := range x.Points {
			if !x.Points[i].Equal(y.Points[i]) {
				return false
			}
		}
		return true
	case TransformData:
		y, ok := b.(TransformData)
		return ok && x.Transform.Equal(y.Transform)
	case BooleanData:
		y, ok := b.(BooleanData)
		return ok && x.Op == y.Op
	case PatternData:
		y, ok := b.(PatternData)
		return ok && x.Kind == y.Kind && x.Count == y.Count && x.Step.Equal(y.Step)
	case ExtrudeData:
		y, ok := b.(ExtrudeData)
		return ok && x.Plane.Equal(y.Plane) && x.Thickness.Equal(y.Thickness)
	}
	return false
}
