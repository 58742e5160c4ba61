package script

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/quantity"
	"github.com/chazu/kerf/pkg/shape"
)

// Script values that carry kerf types through the interpreter.

type sexpLength struct{ v quantity.Length }

func (l *sexpLength) SexpString(ps *zygo.PrintState) string { return fmt.Sprintf("(mm %g)", l.v.Mm()) }
func (l *sexpLength) Type() *zygo.RegisteredType { return nil }

type sexpAngle struct{ v quantity.Angle }

func (a *sexpAngle) SexpString(ps *zygo.PrintState) string { return fmt.Sprintf("(deg %g)", a.v.Deg()) }
func (a *sexpAngle) Type() *zygo.RegisteredType { return nil }

// sexpPoint holds a point in model space. planar is set when the point was
// written with two coordinates.
type sexpPoint struct {
	p      geom.Point3
	planar bool
}

func (p *sexpPoint) SexpString(ps *zygo.PrintState) string {
	mm := p.p.Mm()
	if p.planar {
		return fmt.Sprintf("(point %g %g)", mm[0], mm[1])
	}
	return fmt.Sprintf("(point %g %g %g)", mm[0], mm[1], mm[2])
}
func (p *sexpPoint) Type() *zygo.RegisteredType { return nil }

type sexpAxis struct{ a geom.Axis3 }

func (a *sexpAxis) SexpString(ps *zygo.PrintState) string { return a.a.String() }
func (a *sexpAxis) Type() *zygo.RegisteredType { return nil }

// sexpShape holds either a part or a sketch.
type sexpShape struct {
	part   shape.Part
	sketch shape.Sketch
	planar bool
}

func partValue(p shape.Part) *sexpShape { return &sexpShape{part: p} }
func sketchValue(s shape.Sketch) *sexpShape { return &sexpShape{sketch: s, planar: true} }

func (s *sexpShape) SexpString(ps *zygo.PrintState) string {
	if s.planar {
		return s.sketch.String()
	}
	return s.part.String()
}
func (s *sexpShape) Type() *zygo.RegisteredType { return nil }

func (s *sexpShape) kind() string {
	if s.planar {
		return "sketch"
	}
	return "part"
}

// keyword returns the name of a preprocessed keyword.
func keyword(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

// kwArgs is an argument list split into keyword and positional arguments.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

func parseArgs(args []zygo.Sexp) kwArgs {
	pa := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := keyword(args[i])
		if !ok {
			pa.positional = append(pa.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			if _, next := keyword(args[i+1]); !next {
				pa.kw[name] = args[i+1]
				i++
				continue
			}
		}
		pa.kw[name] = zygo.SexpNull
	}
	return pa
}

func describe(s zygo.Sexp) string {
	if s == nil {
		return "nil"
	}
	return s.SexpString(nil)
}

func toFloat(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %s", describe(s))
}

func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %s", describe(s))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %s", describe(s))
}

// toLength accepts only length values. Numbers carry no unit and are
// rejected.
func toLength(s zygo.Sexp) (quantity.Length, error) {
	if l, ok := s.(*sexpLength); ok {
		return l.v, nil
	}
	if _, err := toFloat(s); err == nil {
		return quantity.Length{}, fmt.Errorf("expected length, got %s (write (mm %s))", describe(s), describe(s))
	}
	return quantity.Length{}, fmt.Errorf("expected length, got %s", describe(s))
}

// toAngle accepts only angle values.
func toAngle(s zygo.Sexp) (quantity.Angle, error) {
	if a, ok := s.(*sexpAngle); ok {
		return a.v, nil
	}
	if _, err := toFloat(s); err == nil {
		return quantity.Angle{}, fmt.Errorf("expected angle, got %s (write (deg %s))", describe(s), describe(s))
	}
	return quantity.Angle{}, fmt.Errorf("expected angle, got %s", describe(s))
}

func toPoint(s zygo.Sexp) (*sexpPoint, error) {
	if p, ok := s.(*sexpPoint); ok {
		return p, nil
	}
	return nil, fmt.Errorf("expected point, got %s", describe(s))
}

// toPoint2 accepts a point with no z component.
func toPoint2(s zygo.Sexp) (geom.Point2, error) {
	p, err := toPoint(s)
	if err != nil {
		return geom.Point2{}, err
	}
	if !p.p.Z.IsZero() {
		return geom.Point2{}, fmt.Errorf("expected planar point, got %s", describe(s))
	}
	return p.p.Flatten(), nil
}

func toShape(s zygo.Sexp) (*sexpShape, error) {
	if v, ok := s.(*sexpShape); ok {
		return v, nil
	}
	return nil, fmt.Errorf("expected shape, got %s", describe(s))
}

// toAxis accepts an axis value or one of the keywords :x, :y and :z.
func toAxis(s zygo.Sexp) (geom.Axis3, error) {
	if a, ok := s.(*sexpAxis); ok {
		return a.a, nil
	}
	name, ok := keyword(s)
	if !ok {
		return geom.Axis3{}, fmt.Errorf("expected axis, got %s", describe(s))
	}
	switch name {
	case "x":
		return geom.AxisX, nil
	case "y":
		return geom.AxisY, nil
	case "z":
		return geom.AxisZ, nil
	}
	return geom.Axis3{}, fmt.Errorf("invalid axis :%s, expected :x, :y or :z", name)
}

func toPlane(s zygo.Sexp) (geom.Plane, error) {
	name, ok := keyword(s)
	if !ok {
		return geom.Plane{}, fmt.Errorf("expected plane keyword, got %s", describe(s))
	}
	switch name {
	case "xy":
		return geom.PlaneXY, nil
	case "xz":
		return geom.PlaneXZ, nil
	case "yz":
		return geom.PlaneYZ, nil
	}
	return geom.Plane{}, fmt.Errorf("invalid plane :%s, expected :xy, :xz or :yz", name)
}

// flatten expands list and array arguments in place.
func flatten(args []zygo.Sexp) ([]zygo.Sexp, error) {
	var out []zygo.Sexp
	for _, a := range args {
		switch v := a.(type) {
		case *zygo.SexpPair:
			items, err := zygo.ListToArray(v)
			if err != nil {
				return nil, err
			}
			out = append(out, items...)
		case *zygo.SexpArray:
			out = append(out, v.Val...)
		default:
			out = append(out, a)
		}
	}
	return out, nil
}
