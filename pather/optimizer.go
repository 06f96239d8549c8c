package pather

import (
	"errors"

	"github.com/layerworks/slicer/geom"
)

// ErrInvalidState reports optimizer misuse, such as adding paths after
// optimization. This is a programmer error, not a recoverable job error.
var ErrInvalidState = errors.New("pather: optimizer state machine misuse")

// Optimizer orders a set of labeled paths into an emission sequence that
// keeps travel short. Boundaries are loops a travel move should not cross.
//
// Call order is linear: AddBoundaries and AddPaths, then Optimize. Clearing
// paths rearms the optimizer for the next group.
type Optimizer interface {
	AddBoundaries(loops geom.LoopList) error
	AddPaths(paths []LabeledOpenPath) error
	ClearBoundaries() error
	ClearPaths() error
	// Optimize returns the ordered paths and the position the head ends at.
	Optimize(start geom.Point2) ([]LabeledOpenPath, geom.Point2, error)
}

type optimizerState int

const (
	stateEmpty optimizerState = iota
	stateBoundariesSet
	statePathsAdded
	stateOptimizing
	stateOptimized
)

// boundaryCrossPenalty is the score added per boundary edge a travel move
// would cross. Large enough to dominate any plausible travel length.
const boundaryCrossPenalty = 1e5

// scoreTieTolerance decides when two candidate scores count as equal and
// the deterministic tie-breaks apply.
const scoreTieTolerance = 1e-9

// optimizerCore carries the state shared by both strategies.
type optimizerCore struct {
	state      optimizerState
	boundaries []geom.Segment
	entries    []LabeledOpenPath
}

func (c *optimizerCore) addBoundaries(loops geom.LoopList) error {
	switch c.state {
	case stateEmpty, stateBoundariesSet:
	default:
		return ErrInvalidState
	}
	for _, l := range loops {
		n := len(l.Points)
		for i := 0; i < n; i++ {
			c.boundaries = append(c.boundaries, geom.Segment{
				A: l.Points[i],
				B: l.Points[(i+1)%n],
			})
		}
	}
	c.state = stateBoundariesSet
	return nil
}

func (c *optimizerCore) addPaths(paths []LabeledOpenPath) error {
	switch c.state {
	case stateOptimizing, stateOptimized:
		return ErrInvalidState
	default:
	}
	for _, p := range paths {
		if len(p.Path.Points) < 2 {
			continue
		}
		c.entries = append(c.entries, p)
	}
	c.state = statePathsAdded
	return nil
}

func (c *optimizerCore) clearBoundaries() error {
	c.boundaries = nil
	if c.state == stateBoundariesSet {
		c.state = stateEmpty
	}
	return nil
}

func (c *optimizerCore) clearPaths() error {
	c.entries = nil
	if len(c.boundaries) > 0 {
		c.state = stateBoundariesSet
	} else {
		c.state = stateEmpty
	}
	return nil
}

// crossings counts boundary edges the travel from a to b would cross.
func (c *optimizerCore) crossings(a, b geom.Point2) int {
	count := 0
	for _, s := range c.boundaries {
		if _, ok := geom.Intersect(a, b, s.A, s.B); ok {
			count++
		}
	}
	return count
}

// oriented is one path in an emission order with its traversal direction.
type oriented struct {
	idx      int
	reversed bool
}

func (c *optimizerCore) startOf(o oriented) geom.Point2 {
	p := c.entries[o.idx].Path
	if o.reversed {
		return p.Tail()
	}
	return p.Head()
}

func (c *optimizerCore) endOf(o oriented) geom.Point2 {
	p := c.entries[o.idx].Path
	if o.reversed {
		return p.Head()
	}
	return p.Tail()
}

// greedyOrder repeatedly emits the unvisited path whose nearest endpoint is
// cheapest to reach from the current position. Ties prefer the owner of the
// last emitted path, then the lower shell index, then source order.
func (c *optimizerCore) greedyOrder(start geom.Point2, directionWeight geom.Scalar) ([]oriented, geom.Point2) {
	visited := make([]bool, len(c.entries))
	order := make([]oriented, 0, len(c.entries))
	pos := start
	lastDir := geom.Point2{}
	lastOwner := OwnerModel

	for len(order) < len(c.entries) {
		best := oriented{idx: -1}
		var bestScore geom.Scalar
		for i := range c.entries {
			if visited[i] {
				continue
			}
			for _, cand := range []oriented{{idx: i}, {idx: i, reversed: true}} {
				sp := c.startOf(cand)
				score := travelScore(pos, sp, lastDir, directionWeight)
				score += geom.Scalar(c.crossings(pos, sp)) * boundaryCrossPenalty
				if best.idx < 0 || score < bestScore-scoreTieTolerance {
					best = cand
					bestScore = score
					continue
				}
				if score > bestScore+scoreTieTolerance {
					continue
				}
				if better(c.entries[cand.idx].Label, c.entries[best.idx].Label, lastOwner) ||
					(c.entries[cand.idx].Label == c.entries[best.idx].Label && cand.idx < best.idx) {
					best = cand
					bestScore = score
				}
			}
		}
		visited[best.idx] = true
		order = append(order, best)
		end := c.endOf(best)
		lastDir = end.Sub(c.startOf(best))
		lastOwner = c.entries[best.idx].Label.Owner
		pos = end
	}
	return order, pos
}

// better applies the deterministic tie-breaks between equally distant
// candidates.
func better(cand, best PathLabel, lastOwner PathOwner) bool {
	if (cand.Owner == lastOwner) != (best.Owner == lastOwner) {
		return cand.Owner == lastOwner
	}
	return cand.Shell < best.Shell
}

// travelScore is the cost of traveling pos->next: Euclidean length plus a
// direction-change penalty directionWeight*(1-cos theta) against the last
// move direction.
func travelScore(pos, next, lastDir geom.Point2, directionWeight geom.Scalar) geom.Scalar {
	d := next.Sub(pos)
	score := d.Len()
	if directionWeight > 0 && score > 0 && lastDir.Len() > 0 {
		cos := d.Dot(lastDir) / (score * lastDir.Len())
		score += directionWeight * (1 - cos)
	}
	return score
}

// materialize copies the ordered paths out of the optimizer, applying
// orientation and rotating closed polygons to start near pos.
func (c *optimizerCore) materialize(order []oriented, start geom.Point2) []LabeledOpenPath {
	out := make([]LabeledOpenPath, 0, len(order))
	pos := start
	for _, o := range order {
		src := c.entries[o.idx]
		pts := make([]geom.Point2, len(src.Path.Points))
		copy(pts, src.Path.Points)
		p := geom.OpenPath{Points: pts}
		if o.reversed {
			p.Reverse()
		}
		if p.Closed(geom.DefaultTolerance) {
			p = rotateClosed(p, pos)
		}
		out = append(out, LabeledOpenPath{Label: src.Label, Path: p})
		pos = p.Tail()
	}
	return out
}

// rotateClosed re-seams a closed polygon so it starts and ends at the
// vertex nearest pos.
func rotateClosed(p geom.OpenPath, pos geom.Point2) geom.OpenPath {
	ring := p.Points[:len(p.Points)-1]
	l := geom.Loop{Points: ring}
	k := l.NearestVertexIndex(pos)
	if k == 0 {
		return p
	}
	pts := make([]geom.Point2, 0, len(ring)+1)
	pts = append(pts, ring[k:]...)
	pts = append(pts, ring[:k]...)
	pts = append(pts, ring[k])
	return geom.OpenPath{Points: pts}
}
