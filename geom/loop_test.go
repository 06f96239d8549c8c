package geom

import (
	"fmt"
	"math"
	"testing"
)

func square(side Scalar) Loop {
	return Loop{Points: []Point2{
		{0, 0}, {side, 0}, {side, side}, {0, side},
	}}
}

func TestLoopArea(t *testing.T) {
	tests := []struct {
		name string
		loop Loop
		want Scalar
	}{
		{name: "unit square ccw", loop: square(1), want: 1},
		{name: "2mm square ccw", loop: square(2), want: 4},
		{
			name: "triangle cw",
			loop: Loop{Points: []Point2{{0, 0}, {0, 1}, {1, 0}}},
			want: -0.5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.loop.Area(); !scalarEq(got, tt.want, 1e-12) {
				t.Errorf("Area() = %v, want %v", got, tt.want)
			}
			if cw, ccw := tt.loop.Clockwise(), tt.loop.CounterClockwise(); cw == ccw {
				t.Errorf("Clockwise() = %v and CounterClockwise() = %v, want exactly one", cw, ccw)
			}
		})
	}
}

func TestLoopReverseFlipsWinding(t *testing.T) {
	l := square(1)
	area := l.Area()
	l.Reverse()
	if got := l.Area(); !scalarEq(got, -area, 1e-12) {
		t.Errorf("reversed Area() = %v, want %v", got, -area)
	}
}

func TestLoopInside(t *testing.T) {
	withHoleOutline := square(4)
	tests := []struct {
		p    Point2
		want bool
	}{
		{p: Point2{2, 2}, want: true},
		{p: Point2{-1, 2}, want: false},
		{p: Point2{5, 2}, want: false},
		{p: Point2{2, 4.5}, want: false},
		{p: Point2{0.001, 0.001}, want: true},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("test #%v", i), func(t *testing.T) {
			if got := withHoleOutline.Inside(tt.p); got != tt.want {
				t.Errorf("Inside(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestTurningAngle(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c Point2
		want    Scalar
	}{
		{name: "straight", a: Point2{0, 0}, b: Point2{1, 0}, c: Point2{2, 0}, want: 0},
		{name: "right angle", a: Point2{0, 0}, b: Point2{1, 0}, c: Point2{1, 1}, want: math.Pi / 2},
		{name: "reversal", a: Point2{0, 0}, b: Point2{1, 0}, c: Point2{0, 0}, want: math.Pi},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TurningAngle(tt.a, tt.b, tt.c); !scalarEq(got, tt.want, 1e-9) {
				t.Errorf("TurningAngle = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMaxChord(t *testing.T) {
	l := Loop{Points: []Point2{{0, 0}, {3, 0}, {3, 0.1}, {0, 0.1}}}
	a, b := l.MaxChord()
	want := math.Sqrt(9 + 0.01)
	if got := b.Sub(a).Len(); !scalarEq(got, want, 1e-9) {
		t.Errorf("MaxChord length = %v, want %v", got, want)
	}
}
