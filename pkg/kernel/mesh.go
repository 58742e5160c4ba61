package kernel

import "math"

// Mesh is a triangle mesh suitable for rendering or export.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	PartName string    `json:"partName"` // which named shape this came from
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

func (m *Mesh) vertex(i uint32) [3]float64 {
	return [3]float64{float64(m.Vertices[i*3]), float64(m.Vertices[i*3+1]), float64(m.Vertices[i*3+2])}
}

// Bounds returns the axis-aligned bounding box of the vertices.
func (m *Mesh) Bounds() (min, max [3]float64) {
	for i := 0; i < m.VertexCount(); i++ {
		v := m.vertex(uint32(i))
		for j := 0; j < 3; j++ {
			if i == 0 || v[j] < min[j] {
				min[j] = v[j]
			}
			if i == 0 || v[j] > max[j] {
				max[j] = v[j]
			}
		}
	}
	return min, max
}

// Properties computes the enclosed volume and its centroid, treating the
// mesh as a closed surface with consistently wound triangles. Each triangle
// contributes the signed tetrahedron it forms with the origin, so the
// result does not depend on which way the winding faces.
func (m *Mesh) Properties() Properties {
	var p Properties
	p.Min, p.Max = m.Bounds()

	var vol float64
	var c [3]float64
	for t := 0; t < m.TriangleCount(); t++ {
		a := m.vertex(m.Indices[t*3])
		b := m.vertex(m.Indices[t*3+1])
		d := m.vertex(m.Indices[t*3+2])
		v := (a[0]*(b[1]*d[2]-b[2]*d[1]) -
			a[1]*(b[0]*d[2]-b[2]*d[0]) +
			a[2]*(b[0]*d[1]-b[1]*d[0])) / 6
		vol += v
		for j := 0; j < 3; j++ {
			c[j] += v * (a[j] + b[j] + d[j]) / 4
		}
	}
	if vol != 0 {
		for j := range c {
			c[j] /= vol
		}
	}
	p.Measure = math.Abs(vol)
	p.Centroid = c
	return p
}
