package graph

import (
	"fmt"
	"math"

	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/quantity"
)

// ---------------------------------------------------------------------------
// Tier 2 Geometric validation (errors + warnings)
// ---------------------------------------------------------------------------

// minFeature is the smallest dimension that does not draw a warning.
var minFeature = quantity.Micrometers(10)

// MaxPatternCount is the largest pattern count that does not draw a warning.
const MaxPatternCount = 256

// validateGeometry runs all Tier 2 geometric checks.
// Returns errors (blocking) and warnings (advisory) separately.
func validateGeometry(g *DesignGraph) ([]ValidationError, []ValidationWarning) {
	var errs []ValidationError
	var warnings []ValidationWarning

	dimErrs, dimWarnings := validatePositiveDimensions(g)
	errs = append(errs, dimErrs...)
	warnings = append(warnings, dimWarnings...)

	errs = append(errs, validatePolygons(g)...)
	errs = append(errs, validateExtrusions(g)...)

	warnings = append(warnings, validatePatternSize(g)...)

	return errs, warnings
}

// namedLength pairs a defining dimension with its name for messages.
type namedLength struct {
	name string
	l    quantity.Length
}

func definingLengths(data NodeData) []namedLength {
	switch d := data.(type) {
	case BoxData:
		return []namedLength{{"x", d.X}, {"y", d.Y}, {"z", d.Z}}
	case CylinderData:
		return []namedLength{{"radius", d.Radius}, {"height", d.Height}}
	case SphereData:
		return []namedLength{{"radius", d.Radius}}
	case RectData:
		return []namedLength{{"x", d.X}, {"y", d.Y}}
	case CircleData:
		return []namedLength{{"radius", d.Radius}}
	}
	return nil
}

// validatePositiveDimensions checks that every primitive has finite, positive
// defining dimensions and warns about features below minFeature.
func validatePositiveDimensions(g *DesignGraph) ([]ValidationError, []ValidationWarning) {
	var errs []ValidationError
	var warnings []ValidationWarning

	for _, node := range g.Nodes {
		if node.Kind != NodePrimitive {
			continue
		}
		for _, nl := range definingLengths(node.Data) {
			mm := nl.l.Mm()
			switch {
			case math.IsNaN(mm) || math.IsInf(mm, 0):
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("%T %s is not finite", node.Data, nl.name),
					Severity: SeverityError,
				})
			case nl.l.IsZero():
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("%T %s is zero, must be positive", node.Data, nl.name),
					Severity: SeverityError,
				})
			case nl.l.IsNegative():
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("%T %s is %s, must be positive", node.Data, nl.name, nl.l),
					Severity: SeverityError,
				})
			case nl.l.Less(minFeature):
				warnings = append(warnings, ValidationWarning{
					NodeID:  node.ID,
					Message: fmt.Sprintf("%T %s is %s, below the %s minimum feature size", node.Data, nl.name, nl.l, minFeature),
				})
			}
		}
	}

	return errs, warnings
}

// validatePolygons checks vertex count, enclosed area and simplicity of every
// polygon primitive.
func validatePolygons(g *DesignGraph) []ValidationError {
	var errs []ValidationError

	for _, node := range g.Nodes {
		pd, ok := node.Data.(PolygonData)
		if !ok {
			continue
		}
		switch {
		case len(pd.Points) < 3:
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("polygon has %d points, needs at least 3", len(pd.Points)),
				Severity: SeverityError,
			})
		case math.Abs(geom.PolygonArea(pd.Points)) <= quantity.LengthTolerance:
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  "polygon encloses no area",
				Severity: SeverityError,
			})
		case geom.PolygonSelfIntersects(pd.Points):
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  "polygon edges cross",
				Severity: SeverityError,
			})
		}
	}

	return errs
}

// validateExtrusions checks that every extrusion has a thickness.
func validateExtrusions(g *DesignGraph) []ValidationError {
	var errs []ValidationError

	for _, node := range g.Nodes {
		ed, ok := node.Data.(ExtrudeData)
		if !ok {
			continue
		}
		if ed.Thickness.IsZero() {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  "extrusion thickness is zero",
				Severity: SeverityError,
			})
		}
	}

	return errs
}

// validatePatternSize warns about patterns large enough to slow realization.
func validatePatternSize(g *DesignGraph) []ValidationWarning {
	var warnings []ValidationWarning

	for _, node := range g.Nodes {
		pd, ok := node.Data.(PatternData)
		if !ok {
			continue
		}
		if pd.Count > MaxPatternCount {
			warnings = append(warnings, ValidationWarning{
				NodeID:  node.ID,
				Message: fmt.Sprintf("%s pattern has %d copies (more than %d)", pd.Kind, pd.Count, MaxPatternCount),
			})
		}
	}

	return warnings
}
