package pather

import (
	"testing"

	"github.com/layerworks/slicer/geom"
)

// travelOf sums the jump distances a head would make between consecutive
// ordered paths, starting from start.
func travelOf(paths []LabeledOpenPath, start geom.Point2) geom.Scalar {
	pos := start
	var total geom.Scalar
	for _, p := range paths {
		total += p.Path.Head().Sub(pos).Len()
		pos = p.Path.Tail()
	}
	return total
}

func scatteredPaths() []LabeledOpenPath {
	coords := []geom.Point2{
		{0, 0}, {7, 3}, {2, 8}, {9, 9}, {4, 1}, {1, 5}, {8, 6}, {3, 3},
	}
	var paths []LabeledOpenPath
	for _, c := range coords {
		paths = append(paths, lp(infillLabel, c, c.Add(geom.Point2{1, 0})))
	}
	return paths
}

// The refined order never travels farther than the greedy one on the same
// input.
func TestGraphNeverWorseThanGreedy(t *testing.T) {
	start := geom.Point2{0, 0}

	greedy := NewNearestOptimizer()
	if err := greedy.AddPaths(scatteredPaths()); err != nil {
		t.Fatal(err)
	}
	greedyOut, _, err := greedy.Optimize(start)
	if err != nil {
		t.Fatal(err)
	}

	graph := NewFastGraphOptimizer(0)
	if err := graph.AddPaths(scatteredPaths()); err != nil {
		t.Fatal(err)
	}
	graphOut, _, err := graph.Optimize(start)
	if err != nil {
		t.Fatal(err)
	}

	if len(graphOut) != len(greedyOut) {
		t.Fatalf("graph emitted %v paths, greedy %v", len(graphOut), len(greedyOut))
	}
	g, n := travelOf(graphOut, start), travelOf(greedyOut, start)
	if g > n+1e-9 {
		t.Errorf("graph travel %v exceeds greedy travel %v", g, n)
	}
}

func TestGraphEmptyInput(t *testing.T) {
	graph := NewFastGraphOptimizer(1)
	out, end, err := graph.Optimize(geom.Point2{3, 4})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 0 {
		t.Errorf("got %v paths, want 0", len(out))
	}
	if !geom.Equalish(end, geom.Point2{3, 4}, 1e-12) {
		t.Errorf("end = %v, want unchanged start", end)
	}
}

func TestReverseBlock(t *testing.T) {
	order := []oriented{{idx: 0}, {idx: 1}, {idx: 2}, {idx: 3}}
	got := reverseBlock(order, 1, 2)
	want := []int{0, 2, 1, 3}
	for i, w := range want {
		if got[i].idx != w {
			t.Fatalf("got order %v, want indices %v", got, want)
		}
	}
	if !got[1].reversed || !got[2].reversed {
		t.Errorf("reversed block members keep forward orientation: %v", got)
	}
	if got[0].reversed || got[3].reversed {
		t.Errorf("members outside the block were flipped: %v", got)
	}
}
