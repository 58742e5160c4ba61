package quantity

import (
	"fmt"
	"math"
	"strconv"
)

// Length is a physical distance. The zero value is zero length.
// Lengths can be added, subtracted and scaled; the product of two lengths is
// deliberately not expressible.
type Length struct {
	mm float64
}

// Zero is the zero length.
var Zero = Length{}

// Micrometers returns a Length of v micrometers.
func Micrometers(v float64) Length { return Length{mm: v * Micrometer.mm} }

// Millimeters returns a Length of v millimeters.
func Millimeters(v float64) Length { return Length{mm: v} }

// Centimeters returns a Length of v centimeters.
func Centimeters(v float64) Length { return Length{mm: v * Centimeter.mm} }

// Meters returns a Length of v meters.
func Meters(v float64) Length { return Length{mm: v * Meter.mm} }

// Inches returns a Length of v inches.
func Inches(v float64) Length { return Length{mm: v * Inch.mm} }

// Feet returns a Length of v feet.
func Feet(v float64) Length { return Length{mm: v * Foot.mm} }

// LengthIn returns a Length of v in the given unit.
func LengthIn(v float64, u LengthUnit) Length { return Length{mm: v * u.mm} }

// NewLength builds a Length from a value and a unit token such as "mm".
// An unrecognized token fails with a *UnitParseError.
func NewLength(v float64, token string) (Length, error) {
	u, err := LookupLengthUnit(token)
	if err != nil {
		return Length{}, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Length{}, &UnitParseError{Input: fmt.Sprint(v), Token: token, Kind: "length", Reason: "non-finite value"}
	}
	return LengthIn(v, u), nil
}

// ParseLength parses a literal such as "4.8 mm", "2in" or "0.5 m".
func ParseLength(s string) (Length, error) {
	v, token, err := splitLiteral("length", s)
	if err != nil {
		return Length{}, err
	}
	u, err := LookupLengthUnit(token)
	if err != nil {
		return Length{}, &UnitParseError{Input: s, Token: token, Kind: "length", Reason: "unrecognized unit"}
	}
	return LengthIn(v, u), nil
}

// MustLength is ParseLength for static literals. It panics on error.
func MustLength(s string) Length {
	l, err := ParseLength(s)
	if err != nil {
		panic(err)
	}
	return l
}

// Mm returns the length in millimeters.
func (l Length) Mm() float64 { return l.mm }

// Cm returns the length in centimeters.
func (l Length) Cm() float64 { return l.mm / Centimeter.mm }

// M returns the length in meters.
func (l Length) M() float64 { return l.mm / Meter.mm }

// Inches returns the length in inches.
func (l Length) Inches() float64 { return l.mm / Inch.mm }

// Feet returns the length in feet.
func (l Length) Feet() float64 { return l.mm / Foot.mm }

// In returns the length expressed in unit u.
func (l Length) In(u LengthUnit) float64 { return l.mm / u.mm }

func (l Length) Add(o Length) Length { return Length{mm: l.mm + o.mm} }
func (l Length) Sub(o Length) Length { return Length{mm: l.mm - o.mm} }
func (l Length) Neg() Length { return Length{mm: -l.mm} }
func (l Length) Abs() Length { return Length{mm: math.Abs(l.mm)} }
func (l Length) Scale(k float64) Length { return Length{mm: l.mm * k} }
func (l Length) Div(k float64) Length { return Length{mm: l.mm / k} }
func (l Length) Min(o Length) Length { return Length{mm: math.Min(l.mm, o.mm)} }
func (l Length) Max(o Length) Length { return Length{mm: math.Max(l.mm, o.mm)} }
func (l Length) Less(o Length) bool { return l.mm < o.mm-LengthTolerance }
func (l Length) IsZero() bool { return math.Abs(l.mm) <= LengthTolerance }
func (l Length) IsNegative() bool { return l.mm < -LengthTolerance }
func (l Length) Equal(o Length) bool { return math.Abs(l.mm-o.mm) <= LengthTolerance }
func (l Length) Ratio(o Length) float64 { return l.mm / o.mm }
func (l Length) Sign() float64 { return sign(l.mm) }

// Compare returns -1, 0 or +1. Lengths within LengthTolerance compare equal.
func (l Length) Compare(o Length) int {
	switch {
	case l.Equal(o):
		return 0
	case l.mm < o.mm:
		return -1
	default:
		return 1
	}
}

// Sum adds any number of lengths.
func Sum(ls ...Length) Length {
	var total float64
	for _, l := range ls {
		total += l.mm
	}
	return Length{mm: total}
}

// Hypot returns sqrt(a² + b² + ...), the magnitude of a vector of lengths.
func Hypot(ls ...Length) Length {
	var sq float64
	for _, l := range ls {
		sq += l.mm * l.mm
	}
	return Length{mm: math.Sqrt(sq)}
}

// AnyZero reports whether any of the given lengths is zero. A shape whose
// defining dimensions include a zero length encloses no volume or area.
func AnyZero(ls ...Length) bool {
	for _, l := range ls {
		if l.IsZero() {
			return true
		}
	}
	return false
}

func (l Length) String() string {
	return strconv.FormatFloat(l.mm, 'g', -1, 64) + "mm"
}

// MarshalText implements encoding.TextMarshaler.
func (l Length) MarshalText() ([]byte, error) {
	return []byte(strconv.FormatFloat(l.mm, 'g', -1, 64) + " mm"), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Length) UnmarshalText(b []byte) error {
	v, err := ParseLength(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

func sign(v float64) float64 {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
