package script

import (
	"fmt"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/quantity"
	"github.com/chazu/kerf/pkg/shape"
)

type builtin = func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error)

// registerBuiltins installs the kerf builtins into env. defpart records into
// defs. Names are registered in snake_case; preprocessSource rewrites the
// kebab-case spelling used in scripts.
func registerBuiltins(env *zygo.Zlisp, defs *definitions) {
	for name, fn := range map[string]builtin{
		"length":           lengthFn,
		"mm":               unitFn(quantity.Millimeters),
		"cm":               unitFn(quantity.Centimeters),
		"inch":             unitFn(quantity.Inches),
		"ft":               unitFn(quantity.Feet),
		"deg":              angleFn(quantity.Degrees),
		"rad":              angleFn(quantity.Radians),
		"len_add":          lenAdd,
		"len_sub":          lenSub,
		"len_scale":        lenScale,
		"point":            pointFn,
		"axis":             axisFn,
		"cuboid":           cuboidFn,
		"cylinder":         cylinderFn,
		"sphere":           sphereFn,
		"rectangle":        rectangleFn,
		"circle":           circleFn,
		"polygon":          polygonFn,
		"add":              booleanFn(shape.Part.Add, shape.Sketch.Add),
		"subtract":         booleanFn(shape.Part.Subtract, shape.Sketch.Subtract),
		"intersect":        booleanFn(shape.Part.Intersect, shape.Sketch.Intersect),
		"move_to":          moveFn(shape.Part.MoveTo, shape.Sketch.MoveTo),
		"translate":        moveFn(shape.Part.Translate, shape.Sketch.Translate),
		"rotate":           rotateFn,
		"linear_pattern":   linearPatternFn,
		"circular_pattern": circularPatternFn,
		"extrude":          extrudeFn,
	} {
		env.AddFunction(name, fn)
	}

	// (defpart "name" shape)
	env.AddFunction("defpart", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("defpart requires a name and a shape")
		}
		partName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defpart: name: %w", err)
		}
		if partName == "" {
			return zygo.SexpNull, fmt.Errorf("defpart: name must not be empty")
		}
		s, err := toShape(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defpart: %w", err)
		}
		defs.define(partName, s)
		return s, nil
	})
}

func arity(name string, args []zygo.Sexp, n int) error {
	if len(args) != n {
		return fmt.Errorf("%s requires %d arguments, got %d", name, n, len(args))
	}
	return nil
}

// (length 3 :inch)
func lengthFn(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if err := arity("length", args, 2); err != nil {
		return zygo.SexpNull, err
	}
	v, err := toFloat(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("length: %w", err)
	}
	unit, ok := keyword(args[1])
	if !ok {
		unit, err = toString(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("length: unit: %w", err)
		}
	}
	l, err := quantity.NewLength(v, unit)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("length: %w", err)
	}
	return &sexpLength{v: l}, nil
}

// (mm 4.8), (inch 1), ...
func unitFn(ctor func(float64) quantity.Length) builtin {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if err := arity(name, args, 1); err != nil {
			return zygo.SexpNull, err
		}
		v, err := toFloat(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
		}
		return &sexpLength{v: ctor(v)}, nil
	}
}

// (deg 90), (rad 3.14159)
func angleFn(ctor func(float64) quantity.Angle) builtin {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if err := arity(name, args, 1); err != nil {
			return zygo.SexpNull, err
		}
		v, err := toFloat(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
		}
		return &sexpAngle{v: ctor(v)}, nil
	}
}

func lengths(name string, args []zygo.Sexp) ([]quantity.Length, error) {
	out := make([]quantity.Length, len(args))
	for i, a := range args {
		l, err := toLength(a)
		if err != nil {
			return nil, fmt.Errorf("%s: argument %d: %w", name, i+1, err)
		}
		out[i] = l
	}
	return out, nil
}

// (len-add a b ...)
func lenAdd(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	ls, err := lengths("len-add", args)
	if err != nil {
		return zygo.SexpNull, err
	}
	return &sexpLength{v: quantity.Sum(ls...)}, nil
}

// (len-sub a b)
func lenSub(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if err := arity("len-sub", args, 2); err != nil {
		return zygo.SexpNull, err
	}
	ls, err := lengths("len-sub", args)
	if err != nil {
		return zygo.SexpNull, err
	}
	return &sexpLength{v: ls[0].Sub(ls[1])}, nil
}

// (len-scale a k)
func lenScale(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if err := arity("len-scale", args, 2); err != nil {
		return zygo.SexpNull, err
	}
	l, err := toLength(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("len-scale: %w", err)
	}
	k, err := toFloat(args[1])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("len-scale: factor: %w", err)
	}
	return &sexpLength{v: l.Scale(k)}, nil
}

// (point x y) or (point x y z)
func pointFn(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 2 && len(args) != 3 {
		return zygo.SexpNull, fmt.Errorf("point requires 2 or 3 coordinates, got %d", len(args))
	}
	ls, err := lengths("point", args)
	if err != nil {
		return zygo.SexpNull, err
	}
	if len(ls) == 2 {
		return &sexpPoint{p: geom.P3(ls[0], ls[1], quantity.Length{}), planar: true}, nil
	}
	return &sexpPoint{p: geom.P3(ls[0], ls[1], ls[2])}, nil
}

// (axis :z) or (axis p q)
func axisFn(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	switch len(args) {
	case 1:
		a, err := toAxis(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("axis: %w", err)
		}
		return &sexpAxis{a: a}, nil
	case 2:
		p, err := toPoint(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("axis: origin: %w", err)
		}
		q, err := toPoint(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("axis: through: %w", err)
		}
		a, err := geom.AxisBetween(p.p, q.p)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("axis: %w", err)
		}
		return &sexpAxis{a: a}, nil
	}
	return zygo.SexpNull, fmt.Errorf("axis requires a keyword or two points, got %d arguments", len(args))
}

// (cuboid x y z)
func cuboidFn(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if err := arity("cuboid", args, 3); err != nil {
		return zygo.SexpNull, err
	}
	ls, err := lengths("cuboid", args)
	if err != nil {
		return zygo.SexpNull, err
	}
	return partValue(shape.Cuboid(ls[0], ls[1], ls[2])), nil
}

// radius reads :radius or :diameter.
func radius(name string, pa kwArgs) (quantity.Length, error) {
	if v, ok := pa.kw["radius"]; ok {
		r, err := toLength(v)
		if err != nil {
			return r, fmt.Errorf("%s: radius: %w", name, err)
		}
		return r, nil
	}
	if v, ok := pa.kw["diameter"]; ok {
		d, err := toLength(v)
		if err != nil {
			return d, fmt.Errorf("%s: diameter: %w", name, err)
		}
		return d.Div(2), nil
	}
	return quantity.Length{}, fmt.Errorf("%s requires :radius or :diameter", name)
}

// (cylinder :radius r :height h)
func cylinderFn(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	r, err := radius("cylinder", pa)
	if err != nil {
		return zygo.SexpNull, err
	}
	v, ok := pa.kw["height"]
	if !ok {
		return zygo.SexpNull, fmt.Errorf("cylinder requires :height")
	}
	h, err := toLength(v)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("cylinder: height: %w", err)
	}
	return partValue(shape.Cylinder(r, h)), nil
}

// (sphere :radius r)
func sphereFn(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	r, err := radius("sphere", parseArgs(args))
	if err != nil {
		return zygo.SexpNull, err
	}
	return partValue(shape.Sphere(r)), nil
}

// (rectangle x y)
func rectangleFn(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if err := arity("rectangle", args, 2); err != nil {
		return zygo.SexpNull, err
	}
	ls, err := lengths("rectangle", args)
	if err != nil {
		return zygo.SexpNull, err
	}
	return sketchValue(shape.Rectangle(ls[0], ls[1])), nil
}

// (circle :diameter d)
func circleFn(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	r, err := radius("circle", parseArgs(args))
	if err != nil {
		return zygo.SexpNull, err
	}
	return sketchValue(shape.Circle(r)), nil
}

// (polygon p1 p2 p3 ...) or (polygon (list p1 p2 p3 ...))
func polygonFn(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	items, err := flatten(args)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("polygon: %w", err)
	}
	pts := make([]geom.Point2, len(items))
	for i, it := range items {
		if pts[i], err = toPoint2(it); err != nil {
			return zygo.SexpNull, fmt.Errorf("polygon: vertex %d: %w", i+1, err)
		}
	}
	return sketchValue(shape.Polygon(pts...)), nil
}

// booleanFn folds a boolean over its arguments from the left. All operands
// must be parts or all sketches.
func booleanFn(part func(shape.Part, shape.Part) shape.Part, sketch func(shape.Sketch, shape.Sketch) shape.Sketch) builtin {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("%s requires at least one shape", name)
		}
		acc, err := toShape(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
		}
		out := *acc
		for i, a := range args[1:] {
			s, err := toShape(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: operand %d: %w", name, i+2, err)
			}
			if s.planar != out.planar {
				return zygo.SexpNull, fmt.Errorf("%s: cannot combine a %s with a %s", name, out.kind(), s.kind())
			}
			if out.planar {
				out.sketch = sketch(out.sketch, s.sketch)
			} else {
				out.part = part(out.part, s.part)
			}
		}
		return &out, nil
	}
}

// moveFn applies a point-valued placement, (move-to s p) or (translate s p).
func moveFn(part func(shape.Part, geom.Point3) shape.Part, sketch func(shape.Sketch, geom.Point2) shape.Sketch) builtin {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if err := arity(name, args, 2); err != nil {
			return zygo.SexpNull, err
		}
		s, err := toShape(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
		}
		if s.planar {
			p, err := toPoint2(args[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
			}
			return sketchValue(sketch(s.sketch, p)), nil
		}
		p, err := toPoint(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
		}
		return partValue(part(s.part, p.p)), nil
	}
}

// (rotate s pivot angle). A part pivots about an axis; a sketch about a point.
func rotateFn(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if err := arity("rotate", args, 3); err != nil {
		return zygo.SexpNull, err
	}
	s, err := toShape(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("rotate: %w", err)
	}
	angle, err := toAngle(args[2])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("rotate: %w", err)
	}
	if s.planar {
		p, err := toPoint2(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: pivot: %w", err)
		}
		return sketchValue(s.sketch.Rotate(p, angle)), nil
	}
	a, err := toAxis(args[1])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("rotate: pivot: %w", err)
	}
	return partValue(s.part.Rotate(a, angle)), nil
}

// (linear-pattern s :x n spacing)
func linearPatternFn(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if err := arity("linear-pattern", args, 4); err != nil {
		return zygo.SexpNull, err
	}
	s, err := toShape(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("linear-pattern: %w", err)
	}
	axis, err := toAxis(args[1])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("linear-pattern: direction: %w", err)
	}
	n, err := toInt(args[2])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("linear-pattern: count: %w", err)
	}
	spacing, err := toLength(args[3])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("linear-pattern: spacing: %w", err)
	}
	d := axis.Direction
	if !s.planar {
		out, err := s.part.LinearPattern(d, n, spacing)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("linear-pattern: %w", err)
		}
		return partValue(out), nil
	}
	if d.Z() != 0 {
		return zygo.SexpNull, fmt.Errorf("linear-pattern: a sketch cannot be patterned along %s", d)
	}
	d2, err := geom.NewDir2(d.X(), d.Y())
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("linear-pattern: %w", err)
	}
	out, err := s.sketch.LinearPattern(d2, n, spacing)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("linear-pattern: %w", err)
	}
	return sketchValue(out), nil
}

// (circular-pattern s pivot n)
func circularPatternFn(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if err := arity("circular-pattern", args, 3); err != nil {
		return zygo.SexpNull, err
	}
	s, err := toShape(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("circular-pattern: %w", err)
	}
	n, err := toInt(args[2])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("circular-pattern: count: %w", err)
	}
	if s.planar {
		p, err := toPoint2(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("circular-pattern: pivot: %w", err)
		}
		out, err := s.sketch.CircularPattern(p, n)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("circular-pattern: %w", err)
		}
		return sketchValue(out), nil
	}
	a, err := toAxis(args[1])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("circular-pattern: pivot: %w", err)
	}
	out, err := s.part.CircularPattern(a, n)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("circular-pattern: %w", err)
	}
	return partValue(out), nil
}

// (extrude sketch :xy thickness)
func extrudeFn(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if err := arity("extrude", args, 3); err != nil {
		return zygo.SexpNull, err
	}
	s, err := toShape(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("extrude: %w", err)
	}
	if !s.planar {
		return zygo.SexpNull, fmt.Errorf("extrude: expected sketch, got part")
	}
	plane, err := toPlane(args[1])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("extrude: %w", err)
	}
	t, err := toLength(args[2])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("extrude: thickness: %w", err)
	}
	return partValue(shape.Extrude(s.sketch, plane, t)), nil
}
