package geom

import "math"

// Limits is an axis-aligned bounding box.
type Limits struct {
	XMin, XMax Scalar
	YMin, YMax Scalar
	ZMin, ZMax Scalar
}

// NewLimits returns an empty Limits ready to accumulate points.
func NewLimits() Limits {
	inf := math.Inf(1)
	return Limits{
		XMin: inf, XMax: -inf,
		YMin: inf, YMax: -inf,
		ZMin: inf, ZMax: -inf,
	}
}

// Grow widens the limits to include p.
func (l *Limits) Grow(p Point3) {
	l.XMin = math.Min(l.XMin, p.X())
	l.XMax = math.Max(l.XMax, p.X())
	l.YMin = math.Min(l.YMin, p.Y())
	l.YMax = math.Max(l.YMax, p.Y())
	l.ZMin = math.Min(l.ZMin, p.Z())
	l.ZMax = math.Max(l.ZMax, p.Z())
}

// Inflate widens each axis by the given amounts.
func (l *Limits) Inflate(dx, dy, dz Scalar) {
	l.XMin -= dx
	l.XMax += dx
	l.YMin -= dy
	l.YMax += dy
	l.ZMin -= dz
	l.ZMax += dz
}

// Tubularize collapses the Z extent to a zero-height strip. Rays clipped
// against the result see the box as a 2D region.
func (l *Limits) Tubularize() {
	l.ZMin = 0
	l.ZMax = 0
}

// Center returns the box center.
func (l Limits) Center() Point3 {
	return Point3{
		(l.XMin + l.XMax) / 2,
		(l.YMin + l.YMax) / 2,
		(l.ZMin + l.ZMax) / 2,
	}
}

// Empty reports whether no point was ever accumulated.
func (l Limits) Empty() bool {
	return l.XMin > l.XMax
}
