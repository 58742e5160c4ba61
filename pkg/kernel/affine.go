package kernel

import (
	"fmt"
	"math"

	"github.com/chazu/kerf/pkg/geom"
)

// Affine is a rigid motion: a rotation by Angle radians about Axis through
// the origin, followed by a translation. A zero Axis means no rotation.
type Affine struct {
	Axis        [3]float64
	Angle       float64
	Translation [3]float64
}

// AffineOf converts a geom.Transform.
func AffineOf(t geom.Transform) Affine {
	axis, angle := t.AxisAngle()
	return Affine{Axis: axis, Angle: angle, Translation: t.OffsetMm()}
}

// IsRotation reports whether a rotates at all.
func (a Affine) IsRotation() bool {
	return a.Angle != 0 && (a.Axis != [3]float64{})
}

// Planar returns the rotation about +Z in radians and the XY translation of
// a. It fails with ErrUnsupported when a leaves the XY plane.
func (a Affine) Planar() (angle float64, tx, ty float64, err error) {
	const eps = 1e-9
	if math.Abs(a.Translation[2]) > eps {
		return 0, 0, 0, fmt.Errorf("%w: 2d transform translates along z", ErrUnsupported)
	}
	if a.IsRotation() {
		ax := a.Axis
		n := math.Sqrt(ax[0]*ax[0] + ax[1]*ax[1] + ax[2]*ax[2])
		if math.Abs(ax[0])/n > eps || math.Abs(ax[1])/n > eps {
			return 0, 0, 0, fmt.Errorf("%w: 2d transform rotates out of plane", ErrUnsupported)
		}
		angle = a.Angle
		if ax[2] < 0 {
			angle = -angle
		}
	}
	return angle, a.Translation[0], a.Translation[1], nil
}

// Rows returns the 3×4 row-major matrix of a.
func (a Affine) Rows() [3][4]float64 {
	var m [3][4]float64
	m[0][0], m[1][1], m[2][2] = 1, 1, 1
	if a.IsRotation() {
		x, y, z := a.Axis[0], a.Axis[1], a.Axis[2]
		n := math.Sqrt(x*x + y*y + z*z)
		x, y, z = x/n, y/n, z/n
		s, c := math.Sincos(a.Angle)
		t := 1 - c
		m[0][0], m[0][1], m[0][2] = t*x*x+c, t*x*y-s*z, t*x*z+s*y
		m[1][0], m[1][1], m[1][2] = t*x*y+s*z, t*y*y+c, t*y*z-s*x
		m[2][0], m[2][1], m[2][2] = t*x*z-s*y, t*y*z+s*x, t*z*z+c
	}
	m[0][3], m[1][3], m[2][3] = a.Translation[0], a.Translation[1], a.Translation[2]
	return m
}

// Apply maps a point through a.
func (a Affine) Apply(p [3]float64) [3]float64 {
	m := a.Rows()
	var out [3]float64
	for i := range out {
		out[i] = m[i][0]*p[0] + m[i][1]*p[1] + m[i][2]*p[2] + m[i][3]
	}
	return out
}

// TransformBox returns the axis-aligned bounds of the box (min, max) moved
// by a.
func TransformBox(a Affine, min, max [3]float64) (outMin, outMax [3]float64) {
	first := true
	for i := 0; i < 8; i++ {
		c := [3]float64{min[0], min[1], min[2]}
		if i&1 != 0 {
			c[0] = max[0]
		}
		if i&2 != 0 {
			c[1] = max[1]
		}
		if i&4 != 0 {
			c[2] = max[2]
		}
		p := a.Apply(c)
		for j := 0; j < 3; j++ {
			if first || p[j] < outMin[j] {
				outMin[j] = p[j]
			}
			if first || p[j] > outMax[j] {
				outMax[j] = p[j]
			}
		}
		first = false
	}
	return outMin, outMax
}

// BoxesOverlap reports whether two axis-aligned boxes share interior
// volume in the first dim axes.
func BoxesOverlap(d Dim, aMin, aMax, bMin, bMax [3]float64) bool {
	for i := 0; i < int(d); i++ {
		if aMax[i] <= bMin[i] || bMax[i] <= aMin[i] {
			return false
		}
	}
	return true
}

// CheckPolygon reports ErrDegenerate for polygons with fewer than three
// points or no enclosed area and ErrSelfIntersecting for polygons whose
// edges cross.
func CheckPolygon(pts [][2]float64) error {
	if len(pts) < 3 {
		return fmt.Errorf("%w: polygon has %d points", ErrDegenerate, len(pts))
	}
	gp := make([]geom.Point2, len(pts))
	for i, p := range pts {
		if math.IsNaN(p[0]) || math.IsNaN(p[1]) || math.IsInf(p[0], 0) || math.IsInf(p[1], 0) {
			return fmt.Errorf("%w: polygon point %d is not finite", ErrDegenerate, i)
		}
		gp[i] = geom.P2Mm(p[0], p[1])
	}
	if math.Abs(geom.PolygonArea(gp)) <= 1e-9 {
		return fmt.Errorf("%w: polygon encloses no area", ErrDegenerate)
	}
	if geom.PolygonSelfIntersects(gp) {
		return fmt.Errorf("%w: polygon edges cross", ErrSelfIntersecting)
	}
	return nil
}

// CCW returns pts in counter-clockwise order.
func CCW(pts [][2]float64) [][2]float64 {
	var area float64
	for i := range pts {
		p, q := pts[i], pts[(i+1)%len(pts)]
		area += p[0]*q[1] - q[0]*p[1]
	}
	if area >= 0 {
		return pts
	}
	out := make([][2]float64, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}
