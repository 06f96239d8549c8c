// Package geom provides the planar and spatial primitives shared by every
// stage of the toolpath pipeline. All coordinates are in millimeters.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Scalar is the measurement type used throughout the pipeline.
type Scalar = float64

// Point2 is a point (or vector) in the slice plane.
type Point2 = mgl64.Vec2

// Point3 is a point (or vector) in model space.
type Point3 = mgl64.Vec3

// Tau is a full turn.
const Tau = 2 * math.Pi

// DefaultTolerance is the geometric tolerance, in mm, used for vertex
// classification and endpoint matching.
const DefaultTolerance = 1e-6

// Cross2 returns the Z component of the cross product of two plane vectors.
func Cross2(a, b Point2) Scalar {
	return a.X()*b.Y() - a.Y()*b.X()
}

// Equalish reports whether two points coincide within tol.
func Equalish(a, b Point2, tol Scalar) bool {
	return a.Sub(b).Len() <= tol
}

// TurningAngle returns the absolute angle, in radians, between the directions
// ab and bc. Collinear continuation yields zero.
func TurningAngle(a, b, c Point2) Scalar {
	ab := b.Sub(a)
	bc := c.Sub(b)
	lab := ab.Len()
	lbc := bc.Len()
	if lab == 0 || lbc == 0 {
		return 0
	}
	cos := ab.Dot(bc) / (lab * lbc)
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return math.Acos(cos)
}
