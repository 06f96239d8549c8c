package mesh

import (
	"github.com/layerworks/slicer/geom"
)

// Triangle is a face of the input surface.
type Triangle struct {
	A, B, C geom.Point3
}

// ZSort returns the triangle's vertices ordered by ascending Z.
func (t Triangle) ZSort() (a, b, c geom.Point3) {
	a, b, c = t.A, t.B, t.C
	if b.Z() < a.Z() {
		a, b = b, a
	}
	if c.Z() < b.Z() {
		b, c = c, b
	}
	if b.Z() < a.Z() {
		a, b = b, a
	}
	return a, b, c
}

// Normal returns the unnormalized face normal. Degenerate triangles return
// the zero vector.
func (t Triangle) Normal() geom.Point3 {
	return t.B.Sub(t.A).Cross(t.C.Sub(t.A))
}

// Degenerate reports whether the triangle's area is below tol.
func (t Triangle) Degenerate(tol geom.Scalar) bool {
	return t.Normal().Len()/2 < tol
}

// Vertices returns the three corners in declaration order.
func (t Triangle) Vertices() [3]geom.Point3 {
	return [3]geom.Point3{t.A, t.B, t.C}
}
