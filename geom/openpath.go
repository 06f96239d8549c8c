package geom

// OpenPath is an ordered, unclosed sequence of points.
type OpenPath struct {
	Points []Point2
}

// OpenPathList is an ordered collection of open paths.
type OpenPathList []OpenPath

// Append adds a vertex to the path.
func (p *OpenPath) Append(pt Point2) {
	p.Points = append(p.Points, pt)
}

// Head returns the first point.
func (p OpenPath) Head() Point2 { return p.Points[0] }

// Tail returns the last point.
func (p OpenPath) Tail() Point2 { return p.Points[len(p.Points)-1] }

// Empty reports whether the path has no points.
func (p OpenPath) Empty() bool { return len(p.Points) == 0 }

// Length returns the total polyline length.
func (p OpenPath) Length() Scalar {
	var sum Scalar
	for i := 1; i < len(p.Points); i++ {
		sum += p.Points[i].Sub(p.Points[i-1]).Len()
	}
	return sum
}

// Reverse flips the traversal direction in place.
func (p *OpenPath) Reverse() {
	pts := p.Points
	for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
		pts[i], pts[j] = pts[j], pts[i]
	}
}

// Closed reports whether the path revisits its first vertex, making it a
// closed polygon rather than a genuinely open path.
func (p OpenPath) Closed(tol Scalar) bool {
	return len(p.Points) > 2 && Equalish(p.Head(), p.Tail(), tol)
}
