// Package segmenter assigns each triangle of a mesh to every horizontal
// slice it may intersect.
package segmenter

import (
	"github.com/sirupsen/logrus"

	"github.com/layerworks/slicer/geom"
	"github.com/layerworks/slicer/mesh"
)

// Segmenter buckets triangles by slice index.
type Segmenter struct {
	measure geom.LayerMeasure
	log     logrus.FieldLogger
}

// New returns a segmenter for the given layer measure.
func New(measure geom.LayerMeasure, log logrus.FieldLogger) *Segmenter {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Segmenter{measure: measure, log: log.WithField("stage", "segmenter")}
}

// Build returns the slice table for m. Entry i lists the indices of the
// triangles whose Z-range overlaps slice i.
func (s *Segmenter) Build(m *mesh.Mesh) geom.SliceTable {
	var table geom.SliceTable
	for i := range m.Triangles {
		s.bucketTriangle(&table, m, i)
	}
	s.log.WithFields(logrus.Fields{
		"triangles": len(m.Triangles),
		"slices":    len(table),
	}).Debug("slice table built")
	return table
}

func (s *Segmenter) bucketTriangle(table *geom.SliceTable, m *mesh.Mesh, id int) {
	a, _, c := m.Triangles[id].ZSort()

	// The index adjustments guard against misclassification when a vertex
	// sits exactly on a slice plane: the slice below the bottom vertex must
	// still consider this triangle, and the topmost slice is dropped when
	// the span covers more than one layer.
	minIdx := s.measure.ZToLayerAbove(a.Z())
	if minIdx > 0 {
		minIdx--
	}
	maxIdx := s.measure.ZToLayerAbove(c.Z())
	if maxIdx-minIdx > 1 {
		maxIdx--
	}

	table.EnsureSize(maxIdx + 1)
	for i := minIdx; i <= maxIdx; i++ {
		(*table)[i] = append((*table)[i], id)
	}
}
