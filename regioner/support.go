package regioner

import (
	"math"

	clipper "github.com/ctessum/go.clipper"

	"github.com/layerworks/slicer/geom"
	"github.com/layerworks/slicer/mesh"
)

// clipperScale converts millimeters to the integer grid used for polygon
// booleans. One unit is a micron; a nanometer grid would be overkill.
const clipperScale = 1000.0

// buildSupport computes the support region for every layer. A triangle
// whose unit normal points down more steeply than the threshold angle casts
// its projection onto every layer below it; the model's own cross-section,
// inflated by margin, is carved back out.
func buildSupport(m *mesh.Mesh, table geom.SliceTable, outlines []geom.LoopList, angleDeg, margin geom.Scalar) []geom.LoopList {
	layerCount := len(outlines)
	support := make([]geom.LoopList, layerCount)
	if layerCount == 0 {
		return support
	}
	threshold := -math.Cos(angleDeg * math.Pi / 180)

	overhangs := make([]clipper.Paths, layerCount)
	for i := 0; i < layerCount && i < len(table); i++ {
		for _, ti := range table[i] {
			t := m.Triangles[ti]
			n := t.Normal()
			ln := n.Len()
			if ln == 0 || n.Z()/ln >= threshold {
				continue
			}
			overhangs[i] = append(overhangs[i], projectTriangle(t))
		}
	}

	// Accumulate overhang shadow from the top down; each layer supports
	// everything that overhangs at or above it.
	var shadow clipper.Paths
	for i := layerCount - 1; i >= 0; i-- {
		if len(overhangs[i]) > 0 {
			shadow = clipperUnion(shadow, overhangs[i])
		}
		if len(shadow) == 0 {
			continue
		}
		keepOut := clipperInflate(loopsToClipper(outlines[i]), margin)
		region := clipperDifference(shadow, keepOut)
		support[i] = clipperToLoops(region)
	}
	return support
}

func projectTriangle(t mesh.Triangle) clipper.Path {
	l := geom.Loop{Points: []geom.Point2{
		{t.A.X(), t.A.Y()},
		{t.B.X(), t.B.Y()},
		{t.C.X(), t.C.Y()},
	}}
	if l.Clockwise() {
		l.Reverse()
	}
	return loopToClipper(l)
}

func loopToClipper(l geom.Loop) clipper.Path {
	p := make(clipper.Path, 0, len(l.Points))
	for _, pt := range l.Points {
		p = append(p, clipper.NewIntPointFromFloat(pt.X()*clipperScale, pt.Y()*clipperScale))
	}
	return p
}

func loopsToClipper(loops geom.LoopList) clipper.Paths {
	out := make(clipper.Paths, 0, len(loops))
	for _, l := range loops {
		out = append(out, loopToClipper(l))
	}
	return out
}

func clipperToLoops(paths clipper.Paths) geom.LoopList {
	var out geom.LoopList
	for _, p := range paths {
		if len(p) < 3 {
			continue
		}
		var l geom.Loop
		for _, pt := range p {
			l.Append(geom.Point2{
				float64(pt.X) / clipperScale,
				float64(pt.Y) / clipperScale,
			})
		}
		out = append(out, l)
	}
	return out
}

func clipperUnion(a, b clipper.Paths) clipper.Paths {
	if len(a) == 0 {
		return b
	}
	c := clipper.NewClipper(clipper.IoNone)
	c.AddPaths(a, clipper.PtSubject, true)
	c.AddPaths(b, clipper.PtClip, true)
	solution, ok := c.Execute1(clipper.CtUnion, clipper.PftNonZero, clipper.PftNonZero)
	if !ok {
		return a
	}
	return solution
}

func clipperDifference(subject, clip clipper.Paths) clipper.Paths {
	if len(subject) == 0 || len(clip) == 0 {
		return subject
	}
	c := clipper.NewClipper(clipper.IoNone)
	c.AddPaths(subject, clipper.PtSubject, true)
	c.AddPaths(clip, clipper.PtClip, true)
	solution, ok := c.Execute1(clipper.CtDifference, clipper.PftNonZero, clipper.PftNonZero)
	if !ok {
		return nil
	}
	return solution
}

func clipperInflate(paths clipper.Paths, delta geom.Scalar) clipper.Paths {
	if len(paths) == 0 {
		return paths
	}
	co := clipper.NewClipperOffset()
	co.AddPaths(paths, clipper.JtMiter, clipper.EtClosedPolygon)
	return co.Execute(delta * clipperScale)
}
