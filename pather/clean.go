package pather

import (
	"math"

	"github.com/layerworks/slicer/geom"
)

// CleanPaths joins consecutive paths whose gap is within joinDistance and
// whose labels are joinable, and optionally drops paths too short to
// extrude reliably. Closed polygons are never joined; re-seaming them
// already placed their endpoints, and merging would destroy the seam.
func CleanPaths(paths []LabeledOpenPath, joinDistance, minLength geom.Scalar, dropShort bool) []LabeledOpenPath {
	out := make([]LabeledOpenPath, 0, len(paths))
	for _, p := range paths {
		if p.Path.Empty() {
			continue
		}
		if dropShort && p.Label.Type != TypeOutline && p.Path.Length() < minLength && !p.Path.Closed(geom.DefaultTolerance) {
			continue
		}
		if len(out) > 0 && canJoin(out[len(out)-1], p, joinDistance) {
			out[len(out)-1] = join(out[len(out)-1], p)
			continue
		}
		out = append(out, p)
	}
	return out
}

func canJoin(prev, next LabeledOpenPath, joinDistance geom.Scalar) bool {
	if !prev.Label.JoinableWith(next.Label) {
		return false
	}
	if prev.Path.Closed(geom.DefaultTolerance) || next.Path.Closed(geom.DefaultTolerance) {
		return false
	}
	return next.Path.Head().Sub(prev.Path.Tail()).Len() <= joinDistance
}

// join concatenates next onto prev. The merged label keeps the inset type
// if either contributor was an inset, so connections absorbed into shells
// extrude at shell width.
func join(prev, next LabeledOpenPath) LabeledOpenPath {
	pts := make([]geom.Point2, 0, len(prev.Path.Points)+len(next.Path.Points))
	pts = append(pts, prev.Path.Points...)
	start := 0
	if geom.Equalish(prev.Path.Tail(), next.Path.Head(), geom.DefaultTolerance) {
		start = 1
	}
	pts = append(pts, next.Path.Points[start:]...)
	label := prev.Label
	if next.Label.Type == TypeInset {
		label.Type = TypeInset
	}
	label.Shell = mergedShell(prev.Label, next.Label)
	return LabeledOpenPath{Label: label, Path: geom.OpenPath{Points: pts}}
}

func mergedShell(a, b PathLabel) int {
	if a.Type == TypeInset {
		return a.Shell
	}
	if b.Type == TypeInset {
		return b.Shell
	}
	return NoShell
}

// SmoothCollection removes vertices that deviate from the surrounding
// chord by less than smoothness, as long as cutting the corner turns the
// path by less than the angle limit. A higher directionWeight tightens
// the angle limit, preserving corners the optimizer paid to align with.
func SmoothCollection(paths []LabeledOpenPath, smoothness, directionWeight geom.Scalar) []LabeledOpenPath {
	out := make([]LabeledOpenPath, 0, len(paths))
	for _, p := range paths {
		out = append(out, LabeledOpenPath{
			Label: p.Label,
			Path:  smoothPath(p.Path, smoothness, angleLimit(directionWeight)),
		})
	}
	return out
}

// angleLimit maps the direction weight to the largest corner angle (in
// radians, 0 is straight) smoothing may erase.
func angleLimit(directionWeight geom.Scalar) geom.Scalar {
	limit := math.Pi / 4
	if directionWeight > 1 {
		limit /= directionWeight
	}
	return limit
}

func smoothPath(p geom.OpenPath, smoothness, maxAngle geom.Scalar) geom.OpenPath {
	if len(p.Points) < 3 || smoothness <= 0 {
		return p
	}
	closed := p.Closed(geom.DefaultTolerance)
	pts := make([]geom.Point2, 0, len(p.Points))
	pts = append(pts, p.Points[0])
	for i := 1; i < len(p.Points)-1; i++ {
		a := pts[len(pts)-1]
		b := p.Points[i]
		c := p.Points[i+1]
		if perpDistance(a, b, c) < smoothness && geom.TurningAngle(a, b, c) < maxAngle {
			continue
		}
		pts = append(pts, b)
	}
	pts = append(pts, p.Points[len(p.Points)-1])
	if closed && len(pts) < 4 {
		return p
	}
	return geom.OpenPath{Points: pts}
}

// perpDistance is the distance from b to the line through a and c. A
// degenerate chord falls back to the direct distance from a to b.
func perpDistance(a, b, c geom.Point2) geom.Scalar {
	ac := c.Sub(a)
	l := ac.Len()
	if l == 0 {
		return b.Sub(a).Len()
	}
	return math.Abs(geom.Cross2(ac, b.Sub(a))) / l
}
