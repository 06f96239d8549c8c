// Package mesh holds the triangle soup consumed by the slicing pipeline and
// its STL import path.
package mesh

import (
	"fmt"

	"github.com/fogleman/fauxgl"
	"github.com/fogleman/simplify"

	"github.com/layerworks/slicer/geom"
)

// Mesh is a triangle soup plus its accumulated bounding limits. Triangles
// need not be deduplicated; degenerate faces are tolerated and skipped by
// consumers.
type Mesh struct {
	Triangles []Triangle
	Limits    geom.Limits
}

// New returns an empty mesh.
func New() *Mesh {
	return &Mesh{Limits: geom.NewLimits()}
}

// Add appends a triangle and grows the limits.
func (m *Mesh) Add(t Triangle) {
	m.Triangles = append(m.Triangles, t)
	m.Limits.Grow(t.A)
	m.Limits.Grow(t.B)
	m.Limits.Grow(t.C)
}

// FromFauxgl converts a fauxgl mesh into a pipeline mesh.
func FromFauxgl(fm *fauxgl.Mesh) *Mesh {
	m := New()
	for _, t := range fm.Triangles {
		m.Add(Triangle{
			A: geom.Point3{t.V1.Position.X, t.V1.Position.Y, t.V1.Position.Z},
			B: geom.Point3{t.V2.Position.X, t.V2.Position.Y, t.V2.Position.Z},
			C: geom.Point3{t.V3.Position.X, t.V3.Position.Y, t.V3.Position.Z},
		})
	}
	return m
}

// LoadSTL reads a binary or ASCII STL file.
func LoadSTL(filename string) (*Mesh, error) {
	fm, err := fauxgl.LoadSTL(filename)
	if err != nil {
		return nil, fmt.Errorf("fauxgl.LoadSTL: %w", err)
	}
	return FromFauxgl(fm), nil
}

// PlaceOnPlatform translates the mesh so its lowest point rests on Z=0 and
// recomputes the limits.
func (m *Mesh) PlaceOnPlatform() {
	if m.Limits.Empty() {
		return
	}
	dz := -m.Limits.ZMin
	if dz == 0 {
		return
	}
	shift := geom.Point3{0, 0, dz}
	for i := range m.Triangles {
		m.Triangles[i].A = m.Triangles[i].A.Add(shift)
		m.Triangles[i].B = m.Triangles[i].B.Add(shift)
		m.Triangles[i].C = m.Triangles[i].C.Add(shift)
	}
	m.Limits.ZMin += dz
	m.Limits.ZMax += dz
}

// Decimate reduces the triangle count to roughly factor times the original
// (factor in (0,1]) using quadric edge collapse. Oversampled scan meshes
// slice dramatically faster after decimation.
func (m *Mesh) Decimate(factor geom.Scalar) *Mesh {
	if factor >= 1 || len(m.Triangles) == 0 {
		return m
	}
	tris := make([]*simplify.Triangle, 0, len(m.Triangles))
	for _, t := range m.Triangles {
		tris = append(tris, simplify.NewTriangle(
			simplify.Vector{X: t.A.X(), Y: t.A.Y(), Z: t.A.Z()},
			simplify.Vector{X: t.B.X(), Y: t.B.Y(), Z: t.B.Z()},
			simplify.Vector{X: t.C.X(), Y: t.C.Y(), Z: t.C.Z()},
		))
	}
	sm := simplify.NewMesh(tris).Simplify(factor)
	out := New()
	for _, t := range sm.Triangles {
		out.Add(Triangle{
			A: geom.Point3{t.V1.X, t.V1.Y, t.V1.Z},
			B: geom.Point3{t.V2.X, t.V2.Y, t.V2.Z},
			C: geom.Point3{t.V3.X, t.V3.Y, t.V3.Z},
		})
	}
	return out
}
