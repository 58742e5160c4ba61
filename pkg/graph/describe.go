package graph

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Description is a serializable view of a shape tree. Shared subtrees are
// written in full the first time and as a Ref to their ID afterwards.
type Description struct {
	ID       string            `yaml:"id"`
	Kind     string            `yaml:"kind"`
	Dim      string            `yaml:"dim"`
	Params   map[string]string `yaml:"params,omitempty"`
	Ref      bool              `yaml:"ref,omitempty"`
	Children []*Description    `yaml:"children,omitempty"`
}

// RootDescription is one named root of a DesignGraph.
type RootDescription struct {
	Name  string       `yaml:"name,omitempty"`
	Nodes int          `yaml:"nodes"`
	Tree  *Description `yaml:"tree"`
}

// Describe builds the Description of the tree under root.
func Describe(root *Node) *Description {
	return describe(root, make(map[NodeID]bool))
}

func describe(n *Node, seen map[NodeID]bool) *Description {
	if n == nil {
		return &Description{Kind: "nil"}
	}
	d := &Description{
		ID:   n.ID.Short(),
		Kind: n.Kind.String(),
		Dim:  n.Dim.String(),
	}
	if seen[n.ID] {
		d.Ref = true
		return d
	}
	seen[n.ID] = true
	d.Params = Params(n.Data)
	for _, c := range n.Children {
		d.Children = append(d.Children, describe(c, seen))
	}
	return d
}

// Params renders a node payload as display strings.
func Params(data NodeData) map[string]string {
	switch d := data.(type) {
	case BoxData:
		return map[string]string{"shape": "box", "x": d.X.String(), "y": d.Y.String(), "z": d.Z.String()}
	case CylinderData:
		return map[string]string{"shape": "cylinder", "radius": d.Radius.String(), "height": d.Height.String()}
	case SphereData:
		return map[string]string{"shape": "sphere", "radius": d.Radius.String()}
	case RectData:
		return map[string]string{"shape": "rectangle", "x": d.X.String(), "y": d.Y.String()}
	case CircleData:
		return map[string]string{"shape": "circle", "radius": d.Radius.String()}
	case PolygonData:
		m := map[string]string{"shape": "polygon", "points": strconv.Itoa(len(d.Points))}
		for i, p := range d.Points {
			m[fmt.Sprintf("p%02d", i)] = p.String()
		}
		return m
	case TransformData:
		return map[string]string{"transform": d.Transform.String()}
	case BooleanData:
		return map[string]string{"op": d.Op.String()}
	case PatternData:
		return map[string]string{
			"pattern": d.Kind.String(),
			"count":   strconv.Itoa(d.Count),
			"step":    d.Step.String(),
		}
	case ExtrudeData:
		return map[string]string{"plane": d.Plane.String(), "thickness": d.Thickness.String()}
	}
	return nil
}

// Describe returns the description of every part in the graph, in
// registration order.
func (g *DesignGraph) Describe() []RootDescription {
	parts := g.Parts()
	out := make([]RootDescription, 0, len(parts))
	for _, p := range parts {
		n := g.Get(p.Root)
		out = append(out, RootDescription{
			Name:  p.Name,
			Nodes: Count(n),
			Tree:  Describe(n),
		})
	}
	return out
}

// MarshalYAML renders the graph's roots as a YAML document.
func MarshalYAML(g *DesignGraph) ([]byte, error) {
	data, err := yaml.Marshal(g.Describe())
	if err != nil {
		return nil, fmt.Errorf("yaml marshal: %w", err)
	}
	return data, nil
}

// WriteYAML writes the graph description to path.
func WriteYAML(path string, g *DesignGraph) error {
	data, err := MarshalYAML(g)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// SortedNames returns the names in the graph's NameIndex in lexical order.
func (g *DesignGraph) SortedNames() []string {
	names := make([]string, 0, len(g.NameIndex))
	for name := range g.NameIndex {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
