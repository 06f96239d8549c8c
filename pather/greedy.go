package pather

import "github.com/layerworks/slicer/geom"

// NearestOptimizer orders paths greedily by nearest endpoint. It is the
// fallback strategy and the baseline the graph optimizer must not lose to.
type NearestOptimizer struct {
	core optimizerCore
}

// NewNearestOptimizer returns an empty nearest-endpoint optimizer.
func NewNearestOptimizer() *NearestOptimizer {
	return &NearestOptimizer{}
}

func (n *NearestOptimizer) AddBoundaries(loops geom.LoopList) error {
	return n.core.addBoundaries(loops)
}

func (n *NearestOptimizer) AddPaths(paths []LabeledOpenPath) error {
	return n.core.addPaths(paths)
}

func (n *NearestOptimizer) ClearBoundaries() error {
	return n.core.clearBoundaries()
}

func (n *NearestOptimizer) ClearPaths() error {
	return n.core.clearPaths()
}

// Optimize emits the stored paths in nearest-endpoint order starting from
// start, and returns the position of the final path's tail.
func (n *NearestOptimizer) Optimize(start geom.Point2) ([]LabeledOpenPath, geom.Point2, error) {
	switch n.core.state {
	case stateOptimizing, stateOptimized:
		return nil, start, ErrInvalidState
	}
	if len(n.core.entries) == 0 {
		n.core.state = stateOptimized
		return nil, start, nil
	}
	n.core.state = stateOptimizing
	order, _ := n.core.greedyOrder(start, 0)
	out := n.core.materialize(order, start)
	n.core.state = stateOptimized
	end := start
	if len(out) > 0 {
		end = out[len(out)-1].Path.Tail()
	}
	return out, end, nil
}
