package quantity

import (
	"fmt"
	"math"
	"strconv"
)

// Angle is a planar rotation amount. The zero value is zero rotation.
type Angle struct {
	rad float64
}

// Radians returns an Angle of v radians.
func Radians(v float64) Angle { return Angle{rad: v} }

// Degrees returns an Angle of v degrees.
func Degrees(v float64) Angle { return Angle{rad: v * Degree.rad} }

// Turns returns an Angle of v full turns.
func Turns(v float64) Angle { return Angle{rad: v * Turn.rad} }

// AngleIn returns an Angle of v in the given unit.
func AngleIn(v float64, u AngleUnit) Angle { return Angle{rad: v * u.rad} }

// FullTurn is one complete revolution.
var FullTurn = Turns(1)

// NewAngle builds an Angle from a value and a unit token such as "deg".
func NewAngle(v float64, token string) (Angle, error) {
	u, err := LookupAngleUnit(token)
	if err != nil {
		return Angle{}, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Angle{}, &UnitParseError{Input: fmt.Sprint(v), Token: token, Kind: "angle", Reason: "non-finite value"}
	}
	return AngleIn(v, u), nil
}

// ParseAngle parses a literal such as "90 deg", "1.5rad" or "45°".
func ParseAngle(s string) (Angle, error) {
	v, token, err := splitLiteral("angle", s)
	if err != nil {
		return Angle{}, err
	}
	u, err := LookupAngleUnit(token)
	if err != nil {
		return Angle{}, &UnitParseError{Input: s, Token: token, Kind: "angle", Reason: "unrecognized unit"}
	}
	return AngleIn(v, u), nil
}

// MustAngle is ParseAngle for static literals. It panics on error.
func MustAngle(s string) Angle {
	a, err := ParseAngle(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Angle) Rad() float64 { return a.rad }
func (a Angle) Deg() float64 { return a.rad / Degree.rad }
func (a Angle) Turns() float64 { return a.rad / Turn.rad }
func (a Angle) In(u AngleUnit) float64 { return a.rad / u.rad }

func (a Angle) Add(o Angle) Angle { return Angle{rad: a.rad + o.rad} }
func (a Angle) Sub(o Angle) Angle { return Angle{rad: a.rad - o.rad} }
func (a Angle) Neg() Angle { return Angle{rad: -a.rad} }
func (a Angle) Abs() Angle { return Angle{rad: math.Abs(a.rad)} }
func (a Angle) Scale(k float64) Angle { return Angle{rad: a.rad * k} }
func (a Angle) Div(k float64) Angle { return Angle{rad: a.rad / k} }
func (a Angle) IsZero() bool { return math.Abs(a.rad) <= AngleTolerance }
func (a Angle) Equal(o Angle) bool { return math.Abs(a.rad-o.rad) <= AngleTolerance }
func (a Angle) Less(o Angle) bool { return a.rad < o.rad-AngleTolerance }
func (a Angle) Sin() float64 { return math.Sin(a.rad) }
func (a Angle) Cos() float64 { return math.Cos(a.rad) }

// Normalize wraps the angle into [0, 2π).
func (a Angle) Normalize() Angle {
	r := math.Mod(a.rad, Turn.rad)
	if r < 0 {
		r += Turn.rad
	}
	if Turn.rad-r <= AngleTolerance {
		r = 0
	}
	return Angle{rad: r}
}

// EquivalentTo reports whether two angles describe the same orientation,
// i.e. they differ by a whole number of turns.
func (a Angle) EquivalentTo(o Angle) bool {
	return a.Sub(o).Normalize().IsZero()
}

func (a Angle) String() string {
	return strconv.FormatFloat(a.Deg(), 'g', -1, 64) + "deg"
}

// MarshalText implements encoding.TextMarshaler. Angles serialize in degrees
// since that is how humans write them.
func (a Angle) MarshalText() ([]byte, error) {
	return []byte(strconv.FormatFloat(a.Deg(), 'g', -1, 64) + " deg"), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Angle) UnmarshalText(b []byte) error {
	v, err := ParseAngle(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}
