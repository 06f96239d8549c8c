package slicer

import "github.com/layerworks/slicer/geom"

// stitch assembles unordered segments into closed loops. It repeatedly
// seeds a chain with the first unused segment, walks forward to the
// endpoint nearest the chain's last point within tolerance, and closes when the
// walk returns to the seed. Segments left in a chain that never closes are
// discarded and counted.
func stitch(segments []geom.Segment, tol geom.Scalar) (geom.LoopList, int) {
	used := make([]bool, len(segments))
	var loops geom.LoopList
	orphans := 0

	for seed := range segments {
		if used[seed] {
			continue
		}
		used[seed] = true
		chain := []geom.Point2{segments[seed].A, segments[seed].B}

		closed := false
		for {
			tail := chain[len(chain)-1]
			if len(chain) > 2 && geom.Equalish(tail, chain[0], tol) {
				closed = true
				break
			}
			next, far := findNext(segments, used, chain, tol)
			if next < 0 {
				break
			}
			used[next] = true
			chain = append(chain, far)
		}

		if closed {
			loops = append(loops, geom.Loop{Points: chain[:len(chain)-1]})
		} else {
			orphans += len(chain) - 1
		}
	}
	return loops, orphans
}

// findNext locates the unused segment with an endpoint nearest the chain
// tail. Ties within tolerance prefer the candidate with the smaller turning
// angle, which keeps loops simple where several segments meet. Returns the
// segment index and its far endpoint, or -1 when no segment is in reach.
func findNext(segments []geom.Segment, used []bool, chain []geom.Point2, tol geom.Scalar) (int, geom.Point2) {
	tail := chain[len(chain)-1]
	prev := chain[len(chain)-2]

	best := -1
	var bestFar geom.Point2
	var bestDist, bestTurn geom.Scalar

	consider := func(i int, near, far geom.Point2) {
		d := near.Sub(tail).Len()
		if d > tol {
			return
		}
		turn := geom.TurningAngle(prev, tail, far)
		if best < 0 || d < bestDist-tol ||
			(d <= bestDist+tol && turn < bestTurn) {
			best = i
			bestFar = far
			bestDist = d
			bestTurn = turn
		}
	}

	for i, seg := range segments {
		if used[i] {
			continue
		}
		consider(i, seg.A, seg.B)
		consider(i, seg.B, seg.A)
	}
	return best, bestFar
}
