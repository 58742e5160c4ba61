package kernel

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// ReplaceFile calls write with a temporary path next to path and renames the
// result over path once it is non-empty. On any failure path is untouched and
// the temporary file is removed. The temporary name keeps path's extension.
func ReplaceFile(path string, write func(tmp string) error) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	ext := filepath.Ext(base)
	f, err := os.CreateTemp(dir, "."+strings.TrimSuffix(base, ext)+"-*"+ext)
	if err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	tmp := f.Name()
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	defer os.Remove(tmp)

	if err := write(tmp); err != nil {
		return err
	}
	info, err := os.Stat(tmp)
	if err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("replace %s: %w", path, ErrEmptyResult)
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// stlTriangle is one binary STL facet record.
type stlTriangle struct {
	Normal   [3]float32
	Vertices [3][3]float32
	Attr     uint16
}

// WriteSTL writes m to path as binary STL. Facet normals are computed from
// the winding.
func (m *Mesh) WriteSTL(path string) error {
	if m == nil || m.IsEmpty() {
		return fmt.Errorf("write stl %s: %w", path, ErrEmptyResult)
	}
	return ReplaceFile(path, func(tmp string) error {
		f, err := os.Create(tmp)
		if err != nil {
			return fmt.Errorf("write stl %s: %w", path, err)
		}
		defer f.Close()

		w := bufio.NewWriter(f)
		var header [80]byte
		copy(header[:], "kerf "+m.PartName)
		if _, err := w.Write(header[:]); err != nil {
			return fmt.Errorf("write stl %s: %w", path, err)
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(m.TriangleCount())); err != nil {
			return fmt.Errorf("write stl %s: %w", path, err)
		}
		for t := 0; t < m.TriangleCount(); t++ {
			var rec stlTriangle
			var p [3][3]float64
			for j := 0; j < 3; j++ {
				p[j] = m.vertex(m.Indices[t*3+j])
				for k := 0; k < 3; k++ {
					rec.Vertices[j][k] = float32(p[j][k])
				}
			}
			rec.Normal = facetNormal(p[0], p[1], p[2])
			if err := binary.Write(w, binary.LittleEndian, &rec); err != nil {
				return fmt.Errorf("write stl %s: %w", path, err)
			}
		}
		if err := w.Flush(); err != nil {
			return fmt.Errorf("write stl %s: %w", path, err)
		}
		return f.Close()
	})
}

func facetNormal(a, b, c [3]float64) [3]float32 {
	u := [3]float64{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
	v := [3]float64{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
	n := [3]float64{u[1]*v[2] - u[2]*v[1], u[2]*v[0] - u[0]*v[2], u[0]*v[1] - u[1]*v[0]}
	l := math.Sqrt(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])
	if l == 0 {
		return [3]float32{}
	}
	return [3]float32{float32(n[0] / l), float32(n[1] / l), float32(n[2] / l)}
}
