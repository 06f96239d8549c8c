package geom

import (
	"fmt"
	"testing"
)

func TestSliceIndexToHeight(t *testing.T) {
	m := NewLayerMeasure(0.3, 0.27)
	tests := []struct {
		idx  int
		want Scalar
	}{
		{idx: 0, want: 0.3},
		{idx: 1, want: 0.57},
		{idx: 10, want: 3.0},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("test #%v", i), func(t *testing.T) {
			if got := m.SliceIndexToHeight(tt.idx); !scalarEq(got, tt.want, 1e-12) {
				t.Errorf("SliceIndexToHeight(%v) = %v, want %v", tt.idx, got, tt.want)
			}
		})
	}
}

func TestZToLayerAbove(t *testing.T) {
	m := NewLayerMeasure(0.5, 0.5)
	tests := []struct {
		z    Scalar
		want int
	}{
		{z: -1, want: 0},
		{z: 0, want: 0},
		{z: 0.5, want: 0},
		{z: 0.6, want: 1},
		{z: 1.0, want: 1},
		{z: 1.01, want: 2},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("test #%v", i), func(t *testing.T) {
			if got := m.ZToLayerAbove(tt.z); got != tt.want {
				t.Errorf("ZToLayerAbove(%v) = %v, want %v", tt.z, got, tt.want)
			}
		})
	}
}

func scalarEq(a, b, tol Scalar) bool {
	d := a - b
	return d < tol && d > -tol
}
