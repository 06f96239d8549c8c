package pather

import "github.com/layerworks/slicer/geom"

// twoOptMaxRounds bounds the improvement loop so pathological layers
// cannot stall the pipeline.
const twoOptMaxRounds = 8

// FastGraphOptimizer refines the greedy order with bounded 2-opt moves.
// The construction step is the nearest optimizer's greedy walk weighted by
// directionWeight. When the refined weighted order travels farther than
// the unweighted greedy walk, that walk is refined instead, so the total
// travel never exceeds the greedy baseline.
type FastGraphOptimizer struct {
	core            optimizerCore
	directionWeight geom.Scalar
}

// NewFastGraphOptimizer returns a graph optimizer with the given
// direction-change weight.
func NewFastGraphOptimizer(directionWeight geom.Scalar) *FastGraphOptimizer {
	return &FastGraphOptimizer{directionWeight: directionWeight}
}

func (g *FastGraphOptimizer) AddBoundaries(loops geom.LoopList) error {
	return g.core.addBoundaries(loops)
}

func (g *FastGraphOptimizer) AddPaths(paths []LabeledOpenPath) error {
	return g.core.addPaths(paths)
}

func (g *FastGraphOptimizer) ClearBoundaries() error {
	return g.core.clearBoundaries()
}

func (g *FastGraphOptimizer) ClearPaths() error {
	return g.core.clearPaths()
}

// Optimize builds a greedy order and then applies 2-opt block reversals
// while any reduces total travel cost.
func (g *FastGraphOptimizer) Optimize(start geom.Point2) ([]LabeledOpenPath, geom.Point2, error) {
	switch g.core.state {
	case stateOptimizing, stateOptimized:
		return nil, start, ErrInvalidState
	}
	if len(g.core.entries) == 0 {
		g.core.state = stateOptimized
		return nil, start, nil
	}
	g.core.state = stateOptimizing
	order, _ := g.core.greedyOrder(start, g.directionWeight)
	order = g.twoOpt(order, start)
	if g.directionWeight > 0 {
		base, _ := g.core.greedyOrder(start, 0)
		if g.totalTravel(base, start) < g.totalTravel(order, start) {
			order = g.twoOpt(base, start)
		}
	}
	out := g.core.materialize(order, start)
	g.core.state = stateOptimized
	end := start
	if len(out) > 0 {
		end = out[len(out)-1].Path.Tail()
	}
	return out, end, nil
}

// travelCost is the jump cost from a to b, with boundary crossings
// penalized the same way the greedy walk penalizes them.
func (g *FastGraphOptimizer) travelCost(a, b geom.Point2) geom.Scalar {
	return b.Sub(a).Len() + geom.Scalar(g.core.crossings(a, b))*boundaryCrossPenalty
}

// totalTravel sums the jump costs of an order starting at start. Path
// interiors contribute nothing; only the gaps between paths are scored.
func (g *FastGraphOptimizer) totalTravel(order []oriented, start geom.Point2) geom.Scalar {
	pos := start
	var total geom.Scalar
	for _, o := range order {
		total += g.travelCost(pos, g.core.startOf(o))
		pos = g.core.endOf(o)
	}
	return total
}

// twoOpt reverses blocks order[i..j], flipping each member's traversal
// direction, whenever that shortens total travel. Moves that change the
// cost by less than the tie tolerance are skipped so the result stays
// deterministic.
func (g *FastGraphOptimizer) twoOpt(order []oriented, start geom.Point2) []oriented {
	n := len(order)
	if n < 3 {
		return order
	}
	best := g.totalTravel(order, start)
	for round := 0; round < twoOptMaxRounds; round++ {
		improved := false
		for i := 0; i < n-1; i++ {
			for j := i + 1; j < n; j++ {
				cand := reverseBlock(order, i, j)
				cost := g.totalTravel(cand, start)
				if cost < best-scoreTieTolerance {
					order = cand
					best = cost
					improved = true
				}
			}
		}
		if !improved {
			break
		}
	}
	return order
}

// reverseBlock returns a copy of order with order[i..j] reversed and each
// reversed member's orientation flipped.
func reverseBlock(order []oriented, i, j int) []oriented {
	out := make([]oriented, len(order))
	copy(out, order)
	for k, l := i, j; k < l; k, l = k+1, l-1 {
		out[k], out[l] = out[l], out[k]
	}
	for k := i; k <= j; k++ {
		out[k].reversed = !out[k].reversed
	}
	return out
}
