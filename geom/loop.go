package geom

import "math"

// Loop is a closed cyclic sequence of points. The edge from the last point
// back to the first is implicit. Orientation is carried by the sign of the
// shoelace area: counter-clockwise loops have positive area.
type Loop struct {
	Points []Point2
}

// LoopList is an ordered collection of loops.
type LoopList []Loop

// Append adds a vertex to the loop.
func (l *Loop) Append(p Point2) {
	l.Points = append(l.Points, p)
}

// Area returns the signed shoelace area of the loop.
func (l Loop) Area() Scalar {
	var sum Scalar
	n := len(l.Points)
	for i := 0; i < n; i++ {
		a := l.Points[i]
		b := l.Points[(i+1)%n]
		sum += a.X()*b.Y() - b.X()*a.Y()
	}
	return sum / 2
}

// Clockwise reports whether the loop winds clockwise.
func (l Loop) Clockwise() bool { return l.Area() < 0 }

// CounterClockwise reports whether the loop winds counter-clockwise.
func (l Loop) CounterClockwise() bool { return l.Area() > 0 }

// Reverse flips the winding in place.
func (l *Loop) Reverse() {
	pts := l.Points
	for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
		pts[i], pts[j] = pts[j], pts[i]
	}
}

// Perimeter returns the total edge length including the closing edge.
func (l Loop) Perimeter() Scalar {
	var sum Scalar
	n := len(l.Points)
	for i := 0; i < n; i++ {
		sum += l.Points[(i+1)%n].Sub(l.Points[i]).Len()
	}
	return sum
}

// Inside reports whether p lies inside the loop (even-odd rule). Points on
// an edge are classified arbitrarily.
func (l Loop) Inside(p Point2) bool {
	inside := false
	n := len(l.Points)
	for i := 0; i < n; i++ {
		a := l.Points[i]
		b := l.Points[(i+1)%n]
		if (a.Y() <= p.Y()) != (b.Y() <= p.Y()) {
			x := a.X() + (p.Y()-a.Y())*(b.X()-a.X())/(b.Y()-a.Y())
			if x > p.X() {
				inside = !inside
			}
		}
	}
	return inside
}

// Bounds returns the loop's bounding box collapsed to the slice plane.
func (l Loop) Bounds() Limits {
	lim := NewLimits()
	for _, p := range l.Points {
		lim.Grow(Point3{p.X(), p.Y(), 0})
	}
	return lim
}

// ToOpenPath returns the loop as an open path that revisits its first
// vertex, suitable for emission as a closed polygon.
func (l Loop) ToOpenPath() OpenPath {
	pts := make([]Point2, 0, len(l.Points)+1)
	pts = append(pts, l.Points...)
	if len(l.Points) > 0 {
		pts = append(pts, l.Points[0])
	}
	return OpenPath{Points: pts}
}

// MaxChord returns the two vertices of the loop farthest apart. Used to
// extract a centerline from a collapsed loop.
func (l Loop) MaxChord() (Point2, Point2) {
	var best Scalar = -1
	var pa, pb Point2
	for i := 0; i < len(l.Points); i++ {
		for j := i + 1; j < len(l.Points); j++ {
			d := l.Points[j].Sub(l.Points[i]).Len()
			if d > best {
				best = d
				pa, pb = l.Points[i], l.Points[j]
			}
		}
	}
	return pa, pb
}

// NearestVertexIndex returns the index of the loop vertex nearest to p.
func (l Loop) NearestVertexIndex(p Point2) int {
	best := math.Inf(1)
	idx := 0
	for i, q := range l.Points {
		if d := q.Sub(p).Len(); d < best {
			best = d
			idx = i
		}
	}
	return idx
}
