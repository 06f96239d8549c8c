package regioner

import (
	"testing"

	"github.com/layerworks/slicer/geom"
)

func ccwSquare(min, side geom.Scalar) geom.Loop {
	return geom.Loop{Points: []geom.Point2{
		{min, min}, {min + side, min}, {min + side, min + side}, {min, min + side},
	}}
}

func TestInsetLoopsSquare(t *testing.T) {
	loops, spurs := insetLoops(geom.LoopList{ccwSquare(0, 4)}, 0.5, 0.01, geom.DefaultTolerance)
	if len(spurs) != 0 {
		t.Fatalf("got %v spurs, want 0", len(spurs))
	}
	if len(loops) != 1 {
		t.Fatalf("got %v loops, want 1", len(loops))
	}
	got := loops[0]
	if !approx(got.Area(), 9, 1e-9) {
		t.Errorf("inset area = %v, want 9", got.Area())
	}
	b := got.Bounds()
	for i, v := range []geom.Scalar{b.XMin, b.YMin, b.XMax, b.YMax} {
		want := []geom.Scalar{0.5, 0.5, 3.5, 3.5}[i]
		if !approx(v, want, 1e-9) {
			t.Errorf("bounds[%v] = %v, want %v", i, v, want)
		}
	}
}

// Insetting then outsetting by the same distance restores a convex loop.
func TestInsetRoundTrip(t *testing.T) {
	orig := ccwSquare(1, 3)
	in, ok := offsetLoop(orig, 0.4, geom.DefaultTolerance)
	if !ok {
		t.Fatal("inward offset failed")
	}
	back, ok := offsetLoop(in, -0.4, geom.DefaultTolerance)
	if !ok {
		t.Fatal("outward offset failed")
	}
	if len(back.Points) != len(orig.Points) {
		t.Fatalf("round trip has %v points, want %v", len(back.Points), len(orig.Points))
	}
	for i, p := range back.Points {
		if !geom.Equalish(p, orig.Points[i], 1e-9) {
			t.Errorf("point %v = %v, want %v", i, p, orig.Points[i])
		}
	}
}

// A region barely wider than twice the inset distance leaves an offset
// sliver below the area threshold, which becomes a spur.
func TestInsetCollapsesToSpur(t *testing.T) {
	thin := geom.Loop{Points: []geom.Point2{
		{0, 0}, {10, 0}, {10, 1.004}, {0, 1.004},
	}}
	loops, spurs := insetLoops(geom.LoopList{thin}, 0.5, 0.25*0.5*0.5, geom.DefaultTolerance)
	if len(loops) != 0 {
		t.Errorf("got %v loops, want 0 for a collapsed region", len(loops))
	}
	if len(spurs) != 1 {
		t.Fatalf("got %v spurs, want 1", len(spurs))
	}
	if got := spurs[0].Length(); got <= 0 {
		t.Errorf("spur length = %v, want > 0", got)
	}
}

// Holes wind clockwise, so the same left-normal displacement grows them.
func TestInsetGrowsHole(t *testing.T) {
	hole := ccwSquare(1, 2)
	hole.Reverse()
	loops, _ := insetLoops(geom.LoopList{hole}, 0.5, 0.01, geom.DefaultTolerance)
	if len(loops) != 1 {
		t.Fatalf("got %v loops, want 1", len(loops))
	}
	if !loops[0].Clockwise() {
		t.Errorf("hole lost its clockwise winding")
	}
	if got := -loops[0].Area(); !approx(got, 9, 1e-9) {
		t.Errorf("grown hole area = %v, want 9", got)
	}
}
