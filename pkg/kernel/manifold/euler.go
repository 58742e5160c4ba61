package manifold

import (
	"math"

	"github.com/chazu/kerf/pkg/kernel"
)

// eulerXYZ decomposes the rotation of a into angles in degrees about X, Y
// and Z, applied in that order. This is the convention of manifold_rotate.
func eulerXYZ(a kernel.Affine) (x, y, z float64) {
	if !a.IsRotation() {
		return 0, 0, 0
	}
	m := a.Rows()
	// R = Rz(z) · Ry(y) · Rx(x), so m[2][0] = -sin(y).
	sy := -m[2][0]
	if sy > 1 {
		sy = 1
	} else if sy < -1 {
		sy = -1
	}
	y = math.Asin(sy)
	if math.Abs(sy) < 1-1e-9 {
		x = math.Atan2(m[2][1], m[2][2])
		z = math.Atan2(m[1][0], m[0][0])
	} else {
		// Gimbal lock: only x - z (or x + z) is determined; put it all in z.
		z = math.Atan2(-m[0][1], m[1][1])
	}
	const deg = 180 / math.Pi
	return x * deg, y * deg, z * deg
}
