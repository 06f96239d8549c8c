package regioner

import (
	"sort"

	"github.com/layerworks/slicer/geom"
)

// Interval is a 1D inside-outline span along an infill ray.
type Interval struct {
	Min, Max geom.Scalar
}

// GridRanges holds, per ray, the inside-outline intervals of a layer.
// XRays[i] are spans along X at y = grid.yValues[i]; YRays[i] are spans
// along Y at x = grid.xValues[i].
type GridRanges struct {
	XRays [][]Interval
	YRays [][]Interval
}

// Empty reports whether no ray produced any interval.
func (r GridRanges) Empty() bool {
	for _, row := range r.XRays {
		if len(row) > 0 {
			return false
		}
	}
	for _, row := range r.YRays {
		if len(row) > 0 {
			return false
		}
	}
	return true
}

// Grid fixes the ray coordinates for a whole job so infill lines on
// successive layers stay vertically aligned.
type Grid struct {
	xValues []geom.Scalar
	yValues []geom.Scalar
}

// NewGrid lays evenly spaced rays across the tubularized limits.
func NewGrid(lim geom.Limits, spacing geom.Scalar) *Grid {
	g := &Grid{}
	if spacing <= 0 || lim.Empty() {
		return g
	}
	for x := lim.XMin + spacing/2; x < lim.XMax; x += spacing {
		g.xValues = append(g.xValues, x)
	}
	for y := lim.YMin + spacing/2; y < lim.YMax; y += spacing {
		g.yValues = append(g.yValues, y)
	}
	return g
}

// Ranges intersects every ray with the given boundary loops. Crossings are
// paired even-odd, so holes carve gaps out of the spans naturally.
func (g *Grid) Ranges(loops geom.LoopList) GridRanges {
	r := GridRanges{
		XRays: make([][]Interval, len(g.yValues)),
		YRays: make([][]Interval, len(g.xValues)),
	}
	for i, y := range g.yValues {
		r.XRays[i] = castRay(loops, y, false)
	}
	for i, x := range g.xValues {
		r.YRays[i] = castRay(loops, x, true)
	}
	return r
}

// castRay collects the crossings of all loop edges with one axis-parallel
// line and pairs them into intervals. vertical selects a Y-parallel ray at
// x = at; otherwise the ray is X-parallel at y = at.
func castRay(loops geom.LoopList, at geom.Scalar, vertical bool) []Interval {
	var crossings []geom.Scalar
	for _, l := range loops {
		n := len(l.Points)
		for i := 0; i < n; i++ {
			a := l.Points[i]
			b := l.Points[(i+1)%n]
			var a1, a2, b1, b2 geom.Scalar
			if vertical {
				a1, a2 = a.X(), b.X()
				b1, b2 = a.Y(), b.Y()
			} else {
				a1, a2 = a.Y(), b.Y()
				b1, b2 = a.X(), b.X()
			}
			if (a1 <= at) == (a2 <= at) {
				continue
			}
			crossings = append(crossings, b1+(at-a1)*(b2-b1)/(a2-a1))
		}
	}
	sort.Float64s(crossings)
	var spans []Interval
	for i := 0; i+1 < len(crossings); i += 2 {
		spans = append(spans, Interval{Min: crossings[i], Max: crossings[i+1]})
	}
	return spans
}

// PathsFromRanges converts ranges to raster paths. direction selects the
// X-parallel rays when true, Y-parallel otherwise. Rows snake: odd rows run
// backwards and their spans are visited in reverse, so consecutive paths
// start near where the previous one ended.
func (g *Grid) PathsFromRanges(r GridRanges, direction bool, out *geom.OpenPathList) {
	if direction {
		for row, spans := range r.XRays {
			y := g.yValues[row]
			appendRow(out, spans, row%2 == 1, func(v geom.Scalar) geom.Point2 {
				return geom.Point2{v, y}
			})
		}
		return
	}
	for row, spans := range r.YRays {
		x := g.xValues[row]
		appendRow(out, spans, row%2 == 1, func(v geom.Scalar) geom.Point2 {
			return geom.Point2{x, v}
		})
	}
}

func appendRow(out *geom.OpenPathList, spans []Interval, backwards bool, mk func(geom.Scalar) geom.Point2) {
	if backwards {
		for i := len(spans) - 1; i >= 0; i-- {
			*out = append(*out, geom.OpenPath{Points: []geom.Point2{mk(spans[i].Max), mk(spans[i].Min)}})
		}
		return
	}
	for _, s := range spans {
		*out = append(*out, geom.OpenPath{Points: []geom.Point2{mk(s.Min), mk(s.Max)}})
	}
}
