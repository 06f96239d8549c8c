package geom

import "math"

// LayerMeasure is the tape measure mapping slice indices to physical
// heights. Slice heights are uniform above the first layer.
type LayerMeasure struct {
	firstLayerZ Scalar
	layerH      Scalar
}

// NewLayerMeasure returns a measure with uniform layer height.
func NewLayerMeasure(firstLayerZ, layerH Scalar) LayerMeasure {
	return LayerMeasure{firstLayerZ: firstLayerZ, layerH: layerH}
}

// SliceIndexToHeight returns the nominal Z of slice i.
func (m LayerMeasure) SliceIndexToHeight(i int) Scalar {
	return m.firstLayerZ + Scalar(i)*m.layerH
}

// ZToLayerAbove returns the index of the first layer whose nominal Z is at
// or above z. Heights below the first layer map to index 0.
func (m LayerMeasure) ZToLayerAbove(z Scalar) int {
	if z <= m.firstLayerZ {
		return 0
	}
	return int(math.Ceil((z - m.firstLayerZ) / m.layerH))
}
