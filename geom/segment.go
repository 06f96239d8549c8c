package geom

// Segment is an unordered line segment in the slice plane.
type Segment struct {
	A, B Point2
}

// Length returns the segment's Euclidean length.
func (s Segment) Length() Scalar {
	return s.B.Sub(s.A).Len()
}

// Midpoint returns the point halfway between the endpoints.
func (s Segment) Midpoint() Point2 {
	return s.A.Add(s.B).Mul(0.5)
}

// Intersect returns the intersection point of the segments ab and cd, if
// they cross strictly within both segments.
func Intersect(a, b, c, d Point2) (Point2, bool) {
	r := b.Sub(a)
	s := d.Sub(c)
	denom := Cross2(r, s)
	if denom == 0 {
		return Point2{}, false
	}
	ca := c.Sub(a)
	t := Cross2(ca, s) / denom
	u := Cross2(ca, r) / denom
	if t <= 0 || t >= 1 || u <= 0 || u >= 1 {
		return Point2{}, false
	}
	return a.Add(r.Mul(t)), true
}
