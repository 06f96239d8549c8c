package slicer

import (
	"fmt"
	"testing"

	"github.com/layerworks/slicer/geom"
	"github.com/layerworks/slicer/mesh"
)

// cube returns a closed axis-aligned box as 12 triangles.
func cube(side geom.Scalar) *mesh.Mesh {
	v := func(x, y, z geom.Scalar) geom.Point3 { return geom.Point3{x * side, y * side, z * side} }
	quads := [][4]geom.Point3{
		{v(0, 0, 0), v(0, 1, 0), v(1, 1, 0), v(1, 0, 0)}, // bottom
		{v(0, 0, 1), v(1, 0, 1), v(1, 1, 1), v(0, 1, 1)}, // top
		{v(0, 0, 0), v(1, 0, 0), v(1, 0, 1), v(0, 0, 1)}, // front
		{v(1, 0, 0), v(1, 1, 0), v(1, 1, 1), v(1, 0, 1)}, // right
		{v(1, 1, 0), v(0, 1, 0), v(0, 1, 1), v(1, 1, 1)}, // back
		{v(0, 1, 0), v(0, 0, 0), v(0, 0, 1), v(0, 1, 1)}, // left
	}
	m := mesh.New()
	for _, q := range quads {
		m.Add(mesh.Triangle{A: q[0], B: q[1], C: q[2]})
		m.Add(mesh.Triangle{A: q[0], B: q[2], C: q[3]})
	}
	return m
}

func fullTable(m *mesh.Mesh, slices int) geom.SliceTable {
	var table geom.SliceTable
	table.EnsureSize(slices)
	for i := range table {
		for ti := range m.Triangles {
			table[i] = append(table[i], ti)
		}
	}
	return table
}

func TestSliceLayerCube(t *testing.T) {
	m := cube(2)
	table := fullTable(m, 3)
	s := New(0, nil)

	tests := []struct {
		z             geom.Scalar
		wantLoops     int
		wantPerimeter geom.Scalar
	}{
		{z: 0.5, wantLoops: 1, wantPerimeter: 8},
		{z: 1.0, wantLoops: 1, wantPerimeter: 8},
		{z: 1.5, wantLoops: 1, wantPerimeter: 8},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("z=%v", tt.z), func(t *testing.T) {
			loops := s.SliceLayer(m, table, i, tt.z)
			if len(loops) != tt.wantLoops {
				t.Fatalf("got %v loops, want %v", len(loops), tt.wantLoops)
			}
			if got := loops[0].Perimeter(); !approx(got, tt.wantPerimeter, 1e-9) {
				t.Errorf("perimeter = %v, want %v", got, tt.wantPerimeter)
			}
			if !loops[0].CounterClockwise() {
				t.Errorf("outer loop not counter-clockwise, area %v", loops[0].Area())
			}
		})
	}
}

func TestSliceLayerLoopClosure(t *testing.T) {
	m := cube(1)
	table := fullTable(m, 1)
	loops := New(0, nil).SliceLayer(m, table, 0, 0.5)
	for _, l := range loops {
		var sum geom.Point2
		n := len(l.Points)
		for i := 0; i < n; i++ {
			sum = sum.Add(l.Points[(i+1)%n].Sub(l.Points[i]))
		}
		if sum.Len() > 1e-9 {
			t.Errorf("oriented edges sum to %v, want zero", sum)
		}
		if l.Clockwise() == l.CounterClockwise() {
			t.Errorf("winding is ambiguous")
		}
	}
}

func TestSliceLayerNonManifold(t *testing.T) {
	m := cube(2)
	// Drop one wall triangle; the cut at its height cannot close.
	m.Triangles = m.Triangles[:len(m.Triangles)-1]
	table := fullTable(m, 1)
	loops := New(0, nil).SliceLayer(m, table, 0, 1.0)
	for _, l := range loops {
		if len(l.Points) < 3 {
			t.Errorf("returned degenerate loop with %v points", len(l.Points))
		}
	}
}

func TestStitchSquare(t *testing.T) {
	segs := []geom.Segment{
		{A: geom.Point2{1, 0}, B: geom.Point2{1, 1}},
		{A: geom.Point2{0, 0}, B: geom.Point2{1, 0}},
		{A: geom.Point2{0, 1}, B: geom.Point2{0, 0}},
		{A: geom.Point2{1, 1}, B: geom.Point2{0, 1}},
	}
	loops, orphans := stitch(segs, geom.DefaultTolerance)
	if orphans != 0 {
		t.Fatalf("orphans = %v, want 0", orphans)
	}
	if len(loops) != 1 {
		t.Fatalf("got %v loops, want 1", len(loops))
	}
	if got := len(loops[0].Points); got != 4 {
		t.Errorf("loop has %v points, want 4", got)
	}
}

func TestStitchOrphanSegments(t *testing.T) {
	segs := []geom.Segment{
		{A: geom.Point2{0, 0}, B: geom.Point2{1, 0}},
		{A: geom.Point2{1, 0}, B: geom.Point2{1, 1}},
		// No segment returns to the start.
	}
	loops, orphans := stitch(segs, geom.DefaultTolerance)
	if len(loops) != 0 {
		t.Errorf("got %v loops, want 0", len(loops))
	}
	if orphans == 0 {
		t.Errorf("orphans = 0, want > 0")
	}
}

func approx(a, b, tol geom.Scalar) bool {
	d := a - b
	return d < tol && d > -tol
}
