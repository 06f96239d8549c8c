package regioner

import (
	"github.com/layerworks/slicer/geom"
)

// insetLoops offsets each loop inward by dist. Outer loops must wind
// counter-clockwise and holes clockwise, so the interior always lies to the
// left of travel and a single left-normal displacement serves both.
//
// Offset loops that self-intersect are split into simple pieces. Pieces
// whose winding flips are inverted artifacts and are discarded. Pieces
// whose area drops below minArea are dropped and their centerline returned
// as a spur.
func insetLoops(loops geom.LoopList, dist, minArea, tol geom.Scalar) (geom.LoopList, geom.OpenPathList) {
	var kept geom.LoopList
	var spurs geom.OpenPathList
	for _, l := range loops {
		offset, ok := offsetLoop(l, dist, tol)
		if !ok {
			continue
		}
		ccw := l.CounterClockwise()
		for _, piece := range splitLoop(offset) {
			area := piece.Area()
			mag := area
			if mag < 0 {
				mag = -mag
			}
			if mag < minArea {
				if len(piece.Points) >= 2 {
					a, b := piece.MaxChord()
					spurs = append(spurs, geom.OpenPath{Points: []geom.Point2{a, b}})
				}
				continue
			}
			if (area > 0) != ccw {
				continue
			}
			kept = append(kept, piece)
		}
	}
	return kept, spurs
}

// offsetLoop displaces every edge along its left normal by dist and
// reconstructs vertices at the intersections of consecutive offset edges.
func offsetLoop(l geom.Loop, dist, tol geom.Scalar) (geom.Loop, bool) {
	pts := dedupe(l.Points, tol)
	n := len(pts)
	if n < 3 {
		return geom.Loop{}, false
	}

	type offEdge struct {
		a, b geom.Point2
	}
	edges := make([]offEdge, 0, n)
	for i := 0; i < n; i++ {
		a := pts[i]
		b := pts[(i+1)%n]
		d := b.Sub(a)
		ln := d.Len()
		if ln == 0 {
			continue
		}
		normal := geom.Point2{-d.Y() / ln, d.X() / ln}
		shift := normal.Mul(dist)
		edges = append(edges, offEdge{a: a.Add(shift), b: b.Add(shift)})
	}
	n = len(edges)
	if n < 3 {
		return geom.Loop{}, false
	}

	var out geom.Loop
	for i := 0; i < n; i++ {
		prev := edges[(i+n-1)%n]
		cur := edges[i]
		v, ok := lineIntersect(prev.a, prev.b, cur.a, cur.b)
		if !ok {
			// Near-collinear corner: the two offsets nearly coincide.
			v = prev.b.Add(cur.a).Mul(0.5)
		}
		out.Append(v)
	}
	out.Points = dedupe(out.Points, tol)
	if len(out.Points) < 3 {
		return geom.Loop{}, false
	}
	return out, true
}

// lineIntersect intersects the infinite lines ab and cd.
func lineIntersect(a, b, c, d geom.Point2) (geom.Point2, bool) {
	r := b.Sub(a)
	s := d.Sub(c)
	denom := geom.Cross2(r, s)
	if denom > -1e-12 && denom < 1e-12 {
		return geom.Point2{}, false
	}
	t := geom.Cross2(c.Sub(a), s) / denom
	return a.Add(r.Mul(t)), true
}

// splitLoop reknits a self-intersecting loop into simple loops by cutting
// at the first crossing found and recursing on both halves.
func splitLoop(l geom.Loop) geom.LoopList {
	pts := l.Points
	n := len(pts)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if j == i+1 || (i == 0 && j == n-1) {
				continue
			}
			x, ok := geom.Intersect(pts[i], pts[(i+1)%n], pts[j], pts[(j+1)%n])
			if !ok {
				continue
			}
			first := geom.Loop{Points: append([]geom.Point2{x}, pts[i+1:j+1]...)}
			rest := append([]geom.Point2{x}, pts[j+1:]...)
			rest = append(rest, pts[:i+1]...)
			second := geom.Loop{Points: rest}
			return append(splitLoop(first), splitLoop(second)...)
		}
	}
	return geom.LoopList{l}
}

// dedupe removes consecutive vertices closer than tol, including the
// closing pair.
func dedupe(pts []geom.Point2, tol geom.Scalar) []geom.Point2 {
	if len(pts) == 0 {
		return nil
	}
	out := make([]geom.Point2, 0, len(pts))
	for _, p := range pts {
		if len(out) > 0 && geom.Equalish(out[len(out)-1], p, tol) {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && geom.Equalish(out[0], out[len(out)-1], tol) {
		out = out[:len(out)-1]
	}
	return out
}
