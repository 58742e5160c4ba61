package quantity

import (
	"errors"
	"math"
	"testing"
)

func TestLengthUnitRoundTrip(t *testing.T) {
	values := []float64{0, 1, -3.25, 4.8, 1e-3, 12345.678}
	for _, u := range LengthUnits {
		for _, v := range values {
			l := LengthIn(v, u)
			back := LengthIn(l.In(u), u)
			if !back.Equal(l) {
				t.Errorf("%g %s: round trip = %s, want %s", v, u, back, l)
			}
			if math.Abs(l.In(u)-v) > 1e-9*math.Max(1, math.Abs(v)) {
				t.Errorf("%g %s: In() = %g", v, u, l.In(u))
			}
		}
	}
}

func TestAngleUnitRoundTrip(t *testing.T) {
	values := []float64{0, 1, -90, 45.5, 720}
	for _, u := range AngleUnits {
		for _, v := range values {
			a := AngleIn(v, u)
			back := AngleIn(a.In(u), u)
			if !back.Equal(a) {
				t.Errorf("%g %s: round trip = %s, want %s", v, u, back, a)
			}
		}
	}
}

func TestConversions(t *testing.T) {
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"inch in mm", Inches(1).Mm(), 25.4},
		{"foot in inches", Feet(1).Inches(), 12},
		{"meter in cm", Meters(1).Cm(), 100},
		{"um in mm", Micrometers(500).Mm(), 0.5},
		{"cm in m", Centimeters(250).M(), 2.5},
		{"mm in feet", Millimeters(304.8).Feet(), 1},
		{"180 deg in rad", Degrees(180).Rad(), math.Pi},
		{"turn in deg", Turns(1).Deg(), 360},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if math.Abs(tt.got-tt.want) > 1e-9 {
				t.Errorf("got %g, want %g", tt.got, tt.want)
			}
		})
	}
}

func TestParseLength(t *testing.T) {
	tests := []struct {
		input string
		want  Length
	}{
		{"4.8 mm", Millimeters(4.8)},
		{"4.8mm", Millimeters(4.8)},
		{"  2 in ", Inches(2)},
		{`3"`, Inches(3)},
		{"1 ft", Feet(1)},
		{"6'", Feet(6)},
		{"0.5 m", Millimeters(500)},
		{"-2.5 cm", Millimeters(-25)},
		{"1e3 um", Millimeters(1)},
		{"10 µm", Micrometers(10)},
		{"3 Millimeters", Millimeters(3)},
		{"2 metres", Meters(2)},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLength(tt.input)
			if err != nil {
				t.Fatalf("ParseLength(%q) error = %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseLength(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseLengthErrors(t *testing.T) {
	tests := []struct {
		input  string
		reason string
	}{
		{"", "empty literal"},
		{"mm", "missing numeric value"},
		{"12", "missing unit"},
		{"12 furlongs", "unrecognized unit"},
		{"12 deg", "unrecognized unit"},
		{"1.2.3 mm", "malformed number"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseLength(tt.input)
			var upe *UnitParseError
			if !errors.As(err, &upe) {
				t.Fatalf("ParseLength(%q) error = %v, want *UnitParseError", tt.input, err)
			}
			if upe.Reason != tt.reason {
				t.Errorf("reason = %q, want %q", upe.Reason, tt.reason)
			}
		})
	}
}

func TestNewLengthRejectsUnknownToken(t *testing.T) {
	if _, err := NewLength(5, "cubits"); err == nil {
		t.Fatal("NewLength(5, cubits) succeeded, want error")
	}
	l, err := NewLength(5, "mm")
	if err != nil {
		t.Fatal(err)
	}
	if !l.Equal(Millimeters(5)) {
		t.Errorf("NewLength(5, mm) = %s", l)
	}
	if _, err := NewLength(math.NaN(), "mm"); err == nil {
		t.Error("NewLength(NaN) succeeded, want error")
	}
}

func TestParseAngle(t *testing.T) {
	tests := []struct {
		input string
		want  Angle
	}{
		{"90 deg", Degrees(90)},
		{"90deg", Degrees(90)},
		{"45°", Degrees(45)},
		{"1.5 rad", Radians(1.5)},
		{"0.25 turn", Degrees(90)},
		{"-30 degrees", Degrees(-30)},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAngle(tt.input)
			if err != nil {
				t.Fatalf("ParseAngle(%q) error = %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseAngle(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}

	if _, err := ParseAngle("90 mm"); err == nil {
		t.Error("ParseAngle(90 mm) succeeded, want error")
	}
	if _, err := NewAngle(1, "grad"); err == nil {
		t.Error("NewAngle(1, grad) succeeded, want error")
	}
}

func TestMustLengthPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustLength(bogus) did not panic")
		}
	}()
	MustLength("5 bogus")
}

func TestLengthArithmetic(t *testing.T) {
	a := Millimeters(10)
	b := Centimeters(2)

	if got := a.Add(b); !got.Equal(Millimeters(30)) {
		t.Errorf("Add = %s", got)
	}
	if got := a.Sub(b); !got.Equal(Millimeters(-10)) {
		t.Errorf("Sub = %s", got)
	}
	if got := a.Scale(2.5); !got.Equal(Millimeters(25)) {
		t.Errorf("Scale = %s", got)
	}
	if got := b.Div(4); !got.Equal(Millimeters(5)) {
		t.Errorf("Div = %s", got)
	}
	if got := b.Ratio(a); got != 2 {
		t.Errorf("Ratio = %g", got)
	}
	if got := a.Neg().Abs(); !got.Equal(a) {
		t.Errorf("Neg().Abs() = %s", got)
	}
	if got := Hypot(Millimeters(3), Millimeters(4)); !got.Equal(Millimeters(5)) {
		t.Errorf("Hypot = %s", got)
	}
	if got := Sum(a, b, a); !got.Equal(Millimeters(40)) {
		t.Errorf("Sum = %s", got)
	}
}

func TestLengthComparisonTolerance(t *testing.T) {
	a := Millimeters(1)
	b := Millimeters(1 + LengthTolerance/2)
	c := Millimeters(1 + 10*LengthTolerance)

	if !a.Equal(b) {
		t.Error("lengths within tolerance are not equal")
	}
	if a.Equal(c) {
		t.Error("lengths outside tolerance are equal")
	}
	if a.Compare(b) != 0 || a.Compare(c) != -1 || c.Compare(a) != 1 {
		t.Errorf("Compare = %d %d %d", a.Compare(b), a.Compare(c), c.Compare(a))
	}
	if a.Less(b) {
		t.Error("Less within tolerance reported true")
	}
	if !Millimeters(LengthTolerance / 2).IsZero() {
		t.Error("sub-tolerance length is not zero")
	}

	// Accumulated error from chained operations stays equal.
	sum := Zero
	for i := 0; i < 10; i++ {
		sum = sum.Add(Millimeters(0.1))
	}
	if !sum.Equal(Millimeters(1)) {
		t.Errorf("ten 0.1mm steps = %s, want 1mm", sum)
	}
}

func TestAngleNormalize(t *testing.T) {
	tests := []struct {
		in   Angle
		want Angle
	}{
		{Degrees(0), Degrees(0)},
		{Degrees(370), Degrees(10)},
		{Degrees(-90), Degrees(270)},
		{Degrees(360), Degrees(0)},
		{Turns(3), Degrees(0)},
	}
	for _, tt := range tests {
		if got := tt.in.Normalize(); !got.Equal(tt.want) {
			t.Errorf("Normalize(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
	if !Degrees(-90).EquivalentTo(Degrees(270)) {
		t.Error("-90deg not equivalent to 270deg")
	}
}

func TestTextMarshaling(t *testing.T) {
	l := Inches(2)
	b, err := l.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	var back Length
	if err := back.UnmarshalText(b); err != nil {
		t.Fatalf("UnmarshalText(%q) error = %v", b, err)
	}
	if !back.Equal(l) {
		t.Errorf("text round trip = %s, want %s", back, l)
	}

	a := Degrees(33)
	b, err = a.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	var backA Angle
	if err := backA.UnmarshalText(b); err != nil {
		t.Fatalf("UnmarshalText(%q) error = %v", b, err)
	}
	if !backA.Equal(a) {
		t.Errorf("text round trip = %s, want %s", backA, a)
	}

	if err := back.UnmarshalText([]byte("3 parsecs")); err == nil {
		t.Error("UnmarshalText(3 parsecs) succeeded, want error")
	}
}
