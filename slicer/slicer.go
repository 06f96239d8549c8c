// Package slicer intersects bucketed triangles with horizontal planes and
// stitches the resulting segments into closed outline loops.
package slicer

import (
	"github.com/sirupsen/logrus"

	"github.com/layerworks/slicer/geom"
	"github.com/layerworks/slicer/mesh"
)

// Slicer produces per-layer outline loops from a mesh and its slice table.
type Slicer struct {
	tol geom.Scalar
	log logrus.FieldLogger
}

// New returns a slicer with the given endpoint-matching tolerance. A zero
// tolerance selects geom.DefaultTolerance.
func New(tol geom.Scalar, log logrus.FieldLogger) *Slicer {
	if tol <= 0 {
		tol = geom.DefaultTolerance
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Slicer{tol: tol, log: log.WithField("stage", "slicer")}
}

// SliceLayer cuts the triangles listed for slice idx at height z and
// stitches the cuts into loops. Chains that cannot be closed are dropped
// and counted; the closed portion is still returned.
func (s *Slicer) SliceLayer(m *mesh.Mesh, table geom.SliceTable, idx int, z geom.Scalar) geom.LoopList {
	if idx >= len(table) {
		return nil
	}
	var segments []geom.Segment
	for _, ti := range table[idx] {
		if seg, ok := cutTriangle(m.Triangles[ti], z, s.tol); ok {
			segments = append(segments, seg)
		}
	}
	loops, orphans := stitch(segments, s.tol)
	if orphans > 0 {
		s.log.WithFields(logrus.Fields{
			"slice":    idx,
			"z":        z,
			"segments": orphans,
		}).Warn("unclosable loop, continuing with closed outlines")
	}
	normalizeWinding(loops)
	return loops
}

// cutTriangle intersects one triangle with the plane at height z. It
// returns false for triangles that do not straddle the plane, touch it at a
// single vertex, or lie entirely within it.
func cutTriangle(t mesh.Triangle, z, tol geom.Scalar) (geom.Segment, bool) {
	verts := t.Vertices()

	var pts []geom.Point2
	addPoint := func(p geom.Point2) {
		for _, q := range pts {
			if geom.Equalish(p, q, tol) {
				return
			}
		}
		pts = append(pts, p)
	}

	on := func(v geom.Point3) bool { return v.Z() >= z-tol && v.Z() <= z+tol }
	onCount := 0
	for _, v := range verts {
		if on(v) {
			onCount++
			addPoint(geom.Point2{v.X(), v.Y()})
		}
	}
	if onCount == 3 {
		// Triangle lies in the slice plane; its edges belong to the faces
		// above and below.
		return geom.Segment{}, false
	}

	for i := 0; i < 3; i++ {
		a := verts[i]
		b := verts[(i+1)%3]
		if on(a) || on(b) {
			continue
		}
		if (a.Z() < z) == (b.Z() < z) {
			continue
		}
		f := (z - a.Z()) / (b.Z() - a.Z())
		addPoint(geom.Point2{
			a.X() + (b.X()-a.X())*f,
			a.Y() + (b.Y()-a.Y())*f,
		})
	}

	if len(pts) < 2 {
		return geom.Segment{}, false
	}
	return geom.Segment{A: pts[0], B: pts[1]}, true
}

// normalizeWinding orients outer loops counter-clockwise and holes
// clockwise, using even-odd containment of a representative vertex.
func normalizeWinding(loops geom.LoopList) {
	for i := range loops {
		if len(loops[i].Points) == 0 {
			continue
		}
		depth := 0
		p := loops[i].Points[0]
		for j := range loops {
			if i == j {
				continue
			}
			if loops[j].Inside(p) {
				depth++
			}
		}
		hole := depth%2 == 1
		if hole == loops[i].CounterClockwise() {
			loops[i].Reverse()
		}
	}
}
