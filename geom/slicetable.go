package geom

// SliceTable maps a slice index to the indices of the triangles whose
// Z-range may intersect that slice. A triangle may appear in several
// entries.
type SliceTable [][]int

// EnsureSize grows the table so that index n-1 is addressable.
func (t *SliceTable) EnsureSize(n int) {
	for len(*t) < n {
		*t = append(*t, nil)
	}
}
