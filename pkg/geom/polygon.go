package geom

import "math"

// PolygonArea returns the signed area of a closed polygon in mm².
// Counter-clockwise winding is positive.
func PolygonArea(pts []Point2) float64 {
	var a float64
	for i := range pts {
		p := pts[i].Mm()
		q := pts[(i+1)%len(pts)].Mm()
		a += p[0]*q[1] - q[0]*p[1]
	}
	return a / 2
}

// PolygonSelfIntersects reports whether any two non-adjacent edges of the
// closed polygon cross or touch.
func PolygonSelfIntersects(pts []Point2) bool {
	n := len(pts)
	if n < 4 {
		return false
	}
	for i := 0; i < n; i++ {
		a1, a2 := pts[i].Mm(), pts[(i+1)%n].Mm()
		for j := i + 1; j < n; j++ {
			// Skip edges that share a vertex.
			if j == i+1 || (i == 0 && j == n-1) {
				continue
			}
			b1, b2 := pts[j].Mm(), pts[(j+1)%n].Mm()
			if segmentsIntersect(a1, a2, b1, b2) {
				return true
			}
		}
	}
	return false
}

func orient(a, b, c [2]float64) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

func onSegment(a, b, p [2]float64) bool {
	return math.Min(a[0], b[0])-1e-12 <= p[0] && p[0] <= math.Max(a[0], b[0])+1e-12 &&
		math.Min(a[1], b[1])-1e-12 <= p[1] && p[1] <= math.Max(a[1], b[1])+1e-12
}

func segmentsIntersect(p1, p2, q1, q2 [2]float64) bool {
	const eps = 1e-12
	d1 := orient(q1, q2, p1)
	d2 := orient(q1, q2, p2)
	d3 := orient(p1, p2, q1)
	d4 := orient(p1, p2, q2)

	if ((d1 > eps && d2 < -eps) || (d1 < -eps && d2 > eps)) &&
		((d3 > eps && d4 < -eps) || (d3 < -eps && d4 > eps)) {
		return true
	}
	switch {
	case math.Abs(d1) <= eps && onSegment(q1, q2, p1):
		return true
	case math.Abs(d2) <= eps && onSegment(q1, q2, p2):
		return true
	case math.Abs(d3) <= eps && onSegment(p1, p2, q1):
		return true
	case math.Abs(d4) <= eps && onSegment(p1, p2, q2):
		return true
	}
	return false
}
