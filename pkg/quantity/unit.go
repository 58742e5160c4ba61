// Package quantity provides dimensioned physical quantities for kerf.
// Lengths are stored in millimeters and angles in radians; every public
// API that takes a dimension takes one of these types, never a bare number.
package quantity

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// LengthTolerance is the absolute tolerance used when comparing lengths.
const LengthTolerance = 1e-6 // mm

// AngleTolerance is the absolute tolerance used when comparing angles.
const AngleTolerance = 1e-9 // rad

// LengthUnit is a unit of length, defined by its size in millimeters.
type LengthUnit struct {
	Symbol string
	mm     float64
}

// AngleUnit is a unit of angle, defined by its size in radians.
type AngleUnit struct {
	Symbol string
	rad    float64
}

var (
	Micrometer = LengthUnit{Symbol: "um", mm: 0.001}
	Millimeter = LengthUnit{Symbol: "mm", mm: 1}
	Centimeter = LengthUnit{Symbol: "cm", mm: 10}
	Meter      = LengthUnit{Symbol: "m", mm: 1000}
	Inch       = LengthUnit{Symbol: "in", mm: 25.4}
	Foot       = LengthUnit{Symbol: "ft", mm: 304.8}
)

var (
	Radian = AngleUnit{Symbol: "rad", rad: 1}
	Degree = AngleUnit{Symbol: "deg", rad: math.Pi / 180}
	Turn   = AngleUnit{Symbol: "turn", rad: 2 * math.Pi}
)

// LengthUnits lists every supported length unit.
var LengthUnits = []LengthUnit{Micrometer, Millimeter, Centimeter, Meter, Inch, Foot}

// AngleUnits lists every supported angle unit.
var AngleUnits = []AngleUnit{Radian, Degree, Turn}

var lengthTokens = map[string]LengthUnit{
	"um":          Micrometer,
	"µm":          Micrometer,
	"micrometer":  Micrometer,
	"micrometers": Micrometer,
	"micrometre":  Micrometer,
	"micrometres": Micrometer,
	"mm":          Millimeter,
	"millimeter":  Millimeter,
	"millimeters": Millimeter,
	"millimetre":  Millimeter,
	"millimetres": Millimeter,
	"cm":          Centimeter,
	"centimeter":  Centimeter,
	"centimeters": Centimeter,
	"centimetre":  Centimeter,
	"centimetres": Centimeter,
	"m":           Meter,
	"meter":       Meter,
	"meters":      Meter,
	"metre":       Meter,
	"metres":      Meter,
	"in":          Inch,
	"inch":        Inch,
	"inches":      Inch,
	`"`:           Inch,
	"ft":          Foot,
	"foot":        Foot,
	"feet":        Foot,
	"'":           Foot,
}

var angleTokens = map[string]AngleUnit{
	"rad":     Radian,
	"radian":  Radian,
	"radians": Radian,
	"deg":     Degree,
	"degree":  Degree,
	"degrees": Degree,
	"°":       Degree,
	"turn":    Turn,
	"turns":   Turn,
}

// LookupLengthUnit resolves a unit token such as "mm" or "inches".
// Tokens are case-insensitive. Unknown tokens return a *UnitParseError.
func LookupLengthUnit(token string) (LengthUnit, error) {
	if u, ok := lengthTokens[strings.ToLower(strings.TrimSpace(token))]; ok {
		return u, nil
	}
	return LengthUnit{}, &UnitParseError{Input: token, Token: token, Kind: "length", Reason: "unrecognized unit"}
}

// LookupAngleUnit resolves a unit token such as "deg" or "radians".
func LookupAngleUnit(token string) (AngleUnit, error) {
	if u, ok := angleTokens[strings.ToLower(strings.TrimSpace(token))]; ok {
		return u, nil
	}
	return AngleUnit{}, &UnitParseError{Input: token, Token: token, Kind: "angle", Reason: "unrecognized unit"}
}

func (u LengthUnit) String() string { return u.Symbol }
func (u AngleUnit) String() string { return u.Symbol }

// UnitParseError reports a malformed quantity literal or an unrecognized
// unit token.
type UnitParseError struct {
	Input  string // the full text that failed
	Token  string // the unit token, if one was isolated
	Kind   string // "length" or "angle"
	Reason string
}

func (e *UnitParseError) Error() string {
	if e.Token != "" && e.Token != e.Input {
		return fmt.Sprintf("quantity: %s %q: %s %q", e.Kind, e.Input, e.Reason, e.Token)
	}
	return fmt.Sprintf("quantity: %s %q: %s", e.Kind, e.Input, e.Reason)
}

// splitLiteral separates "4.8 mm", "4.8mm" or "-3e2 deg" into its number and
// unit token.
func splitLiteral(kind, s string) (float64, string, error) {
	text := strings.TrimSpace(s)
	if text == "" {
		return 0, "", &UnitParseError{Input: s, Kind: kind, Reason: "empty literal"}
	}

	// The numeric part ends at the first rune that cannot belong to a float.
	end := 0
	for i, r := range text {
		if unicode.IsDigit(r) || r == '.' || r == '+' || r == '-' {
			end = i + 1
			continue
		}
		// Exponent marker only when followed by a digit or sign.
		if (r == 'e' || r == 'E') && i > 0 && i+1 < len(text) {
			next := text[i+1]
			if (next >= '0' && next <= '9') || next == '-' || next == '+' {
				end = i + 1
				continue
			}
		}
		break
	}

	num := text[:end]
	token := strings.TrimSpace(text[end:])
	if num == "" {
		return 0, token, &UnitParseError{Input: s, Token: token, Kind: kind, Reason: "missing numeric value"}
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, token, &UnitParseError{Input: s, Token: token, Kind: kind, Reason: "malformed number"}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, token, &UnitParseError{Input: s, Token: token, Kind: kind, Reason: "non-finite value"}
	}
	if token == "" {
		return 0, token, &UnitParseError{Input: s, Kind: kind, Reason: "missing unit"}
	}
	return v, token, nil
}
