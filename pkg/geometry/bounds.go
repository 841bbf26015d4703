// Package geometry pads and crops density maps while keeping their header
// consistent with the sample array.
//
// Both operations need a defined pixel spacing. Maps located by start
// offsets are first rewritten to use a floating-point origin, which is the
// only origin the results carry.
package geometry

import (
	"mrcvol/pkg/volume"
)

// Margins holds, for each axis, the number of empty slices before the first
// and after the last slice containing a strictly positive sample.
type Margins [3][2]int

// Box is an inclusive voxel bounding box.
type Box struct {
	Min, Max [3]int
}

// Extent returns the number of voxels spanned along each axis.
func (b Box) Extent() [3]int {
	return [3]int{b.Max[0] - b.Min[0] + 1, b.Max[1] - b.Min[1] + 1, b.Max[2] - b.Min[2] + 1}
}

// Grow expands the box by n voxels on every face. The result may extend
// beyond the grid it was measured on.
func (b Box) Grow(n int) Box {
	for a := 0; a < 3; a++ {
		b.Min[a] -= n
		b.Max[a] += n
	}
	return b
}

// occupancy marks, per axis, which slices hold a sample accepted by keep.
func occupancy(g *volume.Grid, keep func(float32) bool) (occ [3][]bool, found bool) {
	occ = [3][]bool{make([]bool, g.NX), make([]bool, g.NY), make([]bool, g.NZ)}
	for i, v := range g.Data {
		if !keep(v) {
			continue
		}
		x, y, z := g.Coord(i)
		occ[0][x], occ[1][y], occ[2][z] = true, true, true
		found = true
	}
	return occ, found
}

// FaceMargins measures the empty margin on each of the six faces. A grid
// with no positive sample has zero margins everywhere.
func FaceMargins(g *volume.Grid) Margins {
	var m Margins
	occ, found := occupancy(g, func(v float32) bool { return v > 0 })
	if !found {
		return m
	}
	for a := 0; a < 3; a++ {
		n := len(occ[a])
		for i := 0; i < n; i++ {
			if occ[a][i] {
				m[a][0] = i
				break
			}
		}
		for i := n - 1; i >= 0; i-- {
			if occ[a][i] {
				m[a][1] = n - 1 - i
				break
			}
		}
	}
	return m
}

// BoundingBox returns the smallest box holding every sample >= lower. The
// second result is false when no sample qualifies.
func BoundingBox(g *volume.Grid, lower float64) (Box, bool) {
	occ, found := occupancy(g, func(v float32) bool { return float64(v) >= lower })
	if !found {
		return Box{}, false
	}
	var b Box
	for a := 0; a < 3; a++ {
		b.Min[a], b.Max[a] = -1, -1
		for i, set := range occ[a] {
			if !set {
				continue
			}
			if b.Min[a] < 0 {
				b.Min[a] = i
			}
			b.Max[a] = i
		}
	}
	return b, true
}
