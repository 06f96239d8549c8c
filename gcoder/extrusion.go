package gcoder

import "github.com/layerworks/slicer/geom"

// CrossSectionArea models an extruded bead as a rectangle of the given
// width capped by two semicircles of diameter height.
func CrossSectionArea(height, width geom.Scalar) geom.Scalar {
	radius := height / 2
	return (geom.Tau/2)*radius*radius + height*(width-height)
}

// FeedCrossSectionArea is the cross-section of the cylindrical feedstock.
func FeedCrossSectionArea(diameter geom.Scalar) geom.Scalar {
	radius := diameter / 2
	return (geom.Tau / 2) * radius * radius
}
