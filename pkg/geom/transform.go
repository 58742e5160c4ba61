package geom

import (
	"fmt"
	"math"

	"github.com/chazu/kerf/pkg/quantity"
)

// quat is a rotation quaternion w + xi + yj + zk.
type quat struct {
	w, x, y, z float64
}

var identityQuat = quat{w: 1}

// rotationTolerance bounds the angle between two rotations that compare
// equal. Quaternion round-off makes AngleTolerance too tight here.
const rotationTolerance = 1e-7

func (q quat) mul(o quat) quat {
	return quat{
		w: q.w*o.w - q.x*o.x - q.y*o.y - q.z*o.z,
		x: q.w*o.x + q.x*o.w + q.y*o.z - q.z*o.y,
		y: q.w*o.y - q.x*o.z + q.y*o.w + q.z*o.x,
		z: q.w*o.z + q.x*o.y - q.y*o.x + q.z*o.w,
	}
}

func (q quat) conj() quat { return quat{w: q.w, x: -q.x, y: -q.y, z: -q.z} }

func (q quat) normalize() quat {
	m := math.Sqrt(q.w*q.w + q.x*q.x + q.y*q.y + q.z*q.z)
	if m == 0 {
		return identityQuat
	}
	return quat{w: q.w / m, x: q.x / m, y: q.y / m, z: q.z / m}
}

func (q quat) rotate(v [3]float64) [3]float64 {
	p := q.mul(quat{x: v[0], y: v[1], z: v[2]}).mul(q.conj())
	return [3]float64{p.x, p.y, p.z}
}

func axisAngleQuat(axis [3]float64, rad float64) quat {
	s := math.Sin(rad / 2)
	return quat{w: math.Cos(rad / 2), x: axis[0] * s, y: axis[1] * s, z: axis[2] * s}.normalize()
}

// rotationFromBasis returns the rotation whose matrix has columns x, y, z.
func rotationFromBasis(x, y, z [3]float64) quat {
	m00, m01, m02 := x[0], y[0], z[0]
	m10, m11, m12 := x[1], y[1], z[1]
	m20, m21, m22 := x[2], y[2], z[2]

	tr := m00 + m11 + m22
	var q quat
	switch {
	case tr > 0:
		s := math.Sqrt(tr+1) * 2
		q = quat{w: s / 4, x: (m21 - m12) / s, y: (m02 - m20) / s, z: (m10 - m01) / s}
	case m00 > m11 && m00 > m22:
		s := math.Sqrt(1+m00-m11-m22) * 2
		q = quat{w: (m21 - m12) / s, x: s / 4, y: (m01 + m10) / s, z: (m02 + m20) / s}
	case m11 > m22:
		s := math.Sqrt(1+m11-m00-m22) * 2
		q = quat{w: (m02 - m20) / s, x: (m01 + m10) / s, y: s / 4, z: (m12 + m21) / s}
	default:
		s := math.Sqrt(1+m22-m00-m11) * 2
		q = quat{w: (m10 - m01) / s, x: (m02 + m20) / s, y: (m12 + m21) / s, z: s / 4}
	}
	return q.normalize()
}

// Transform is a rigid motion: a rotation about the origin followed by a
// translation. The zero value is the identity.
type Transform struct {
	rot quat
	t   [3]float64 // mm
}

// Identity returns the identity transform.
func Identity() Transform { return Transform{rot: identityQuat} }

// Translate returns a pure translation by offset.
func Translate(offset Point3) Transform {
	return Transform{rot: identityQuat, t: offset.Mm()}
}

// Rotate returns the rotation by a about the given axis line. Rotations
// follow the right-hand rule around the axis direction.
func Rotate(axis Axis3, a quantity.Angle) Transform {
	if axis.Direction.IsZero() {
		axis.Direction = DirZ
	}
	q := axisAngleQuat(axis.Direction.Vec(), a.Rad())
	o := axis.Origin.Mm()
	// p' = R(p - o) + o
	ro := q.rotate(o)
	return Transform{rot: q, t: [3]float64{o[0] - ro[0], o[1] - ro[1], o[2] - ro[2]}}
}

// Rotate2 returns the planar rotation by a about point p.
func Rotate2(p Point2, a quantity.Angle) Transform {
	return Rotate(Axis3{Origin: p.Lift(), Direction: DirZ}, a)
}

func (t Transform) q() quat {
	if t.rot == (quat{}) {
		return identityQuat
	}
	return t.rot
}

// Then returns the transform that applies t first and next second.
func (t Transform) Then(next Transform) Transform {
	nq := next.q()
	rt := nq.rotate(t.t)
	return Transform{
		rot: nq.mul(t.q()).normalize(),
		t:   [3]float64{rt[0] + next.t[0], rt[1] + next.t[1], rt[2] + next.t[2]},
	}
}

// Inverse returns the transform that undoes t.
func (t Transform) Inverse() Transform {
	ic := t.q().conj()
	it := ic.rotate(t.t)
	return Transform{rot: ic, t: [3]float64{-it[0], -it[1], -it[2]}}
}

// Pow returns t applied n times. Pow(0) is the identity.
func (t Transform) Pow(n int) Transform {
	out := Identity()
	for i := 0; i < n; i++ {
		out = out.Then(t)
	}
	return out
}

// Apply maps a point through t.
func (t Transform) Apply(p Point3) Point3 {
	return point3FromMm(t.ApplyMm(p.Mm()))
}

// Apply2 maps a sketch point through t, dropping any z component.
func (t Transform) Apply2(p Point2) Point2 {
	return t.Apply(p.Lift()).Flatten()
}

// ApplyMm maps a raw millimeter coordinate through t.
func (t Transform) ApplyMm(v [3]float64) [3]float64 {
	r := t.q().rotate(v)
	return [3]float64{r[0] + t.t[0], r[1] + t.t[1], r[2] + t.t[2]}
}

// ApplyDir rotates a direction; translation does not affect directions.
func (t Transform) ApplyDir(d Dir3) Dir3 {
	r := t.q().rotate(d.Vec())
	return Dir3{x: r[0], y: r[1], z: r[2]}
}

// Offset returns the translation part, which is where t places the origin.
func (t Transform) Offset() Point3 { return point3FromMm(t.t) }

// OffsetMm returns the translation part in millimeters.
func (t Transform) OffsetMm() [3]float64 { return t.t }

// WithOffset returns t with its translation replaced.
func (t Transform) WithOffset(p Point3) Transform {
	return Transform{rot: t.q(), t: p.Mm()}
}

// RotationOnly returns t without its translation.
func (t Transform) RotationOnly() Transform { return Transform{rot: t.q()} }

// AxisAngle returns the rotation part as a unit axis through the origin and an
// angle in radians. A rotation-free transform reports the Z axis and zero.
func (t Transform) AxisAngle() ([3]float64, float64) {
	q := t.q()
	if q.w < 0 {
		q = quat{w: -q.w, x: -q.x, y: -q.y, z: -q.z}
	}
	s := math.Sqrt(q.x*q.x + q.y*q.y + q.z*q.z)
	if s < 1e-12 {
		return [3]float64{0, 0, 1}, 0
	}
	angle := 2 * math.Atan2(s, q.w)
	return [3]float64{q.x / s, q.y / s, q.z / s}, angle
}

// Matrix returns the row-major 4x4 homogeneous matrix of t.
func (t Transform) Matrix() [4][4]float64 {
	q := t.q()
	xx, yy, zz := q.x*q.x, q.y*q.y, q.z*q.z
	xy, xz, yz := q.x*q.y, q.x*q.z, q.y*q.z
	wx, wy, wz := q.w*q.x, q.w*q.y, q.w*q.z
	return [4][4]float64{
		{1 - 2*(yy+zz), 2 * (xy - wz), 2 * (xz + wy), t.t[0]},
		{2 * (xy + wz), 1 - 2*(xx+zz), 2 * (yz - wx), t.t[1]},
		{2 * (xz - wy), 2 * (yz + wx), 1 - 2*(xx+yy), t.t[2]},
		{0, 0, 0, 1},
	}
}

// IsIdentity reports whether t moves nothing, within tolerance.
func (t Transform) IsIdentity() bool { return t.Equal(Identity()) }

// IsPlanar reports whether t maps the z=0 plane onto itself without
// flipping it, so it can be applied to a sketch.
func (t Transform) IsPlanar() bool {
	if math.Abs(t.t[2]) > quantity.LengthTolerance {
		return false
	}
	axis, angle := t.AxisAngle()
	if math.Abs(angle) <= quantity.AngleTolerance {
		return true
	}
	return math.Abs(axis[0]) <= 1e-9 && math.Abs(axis[1]) <= 1e-9
}

// Equal compares two transforms with length and angle tolerance.
func (t Transform) Equal(o Transform) bool {
	for i := range t.t {
		if math.Abs(t.t[i]-o.t[i]) > quantity.LengthTolerance {
			return false
		}
	}
	a, b := t.q(), o.q()
	dot := a.w*b.w + a.x*b.x + a.y*b.y + a.z*b.z
	// q and -q are the same rotation.
	return 2*math.Acos(math.Min(1, math.Abs(dot))) <= rotationTolerance
}

func (t Transform) String() string {
	axis, angle := t.AxisAngle()
	if math.Abs(angle) <= quantity.AngleTolerance {
		return fmt.Sprintf("translate%s", t.Offset())
	}
	return fmt.Sprintf("rotate(<%.4g, %.4g, %.4g>, %s) translate%s",
		axis[0], axis[1], axis[2], quantity.Radians(angle), t.Offset())
}
