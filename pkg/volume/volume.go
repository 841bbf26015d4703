// Package volume holds the dense sample arrays that density maps are made of.
//
// A Grid stores nx*ny*nz samples in column-major order: the first axis
// varies fastest, which is the order samples appear in a map file. A Stack
// is the same data seen as a sequence of 2-D planes along the third axis.
package volume

import (
	"fmt"
)

// Grid is a 3-D array of float32 samples.
type Grid struct {
	// NX, NY, NZ are the extents along the first, second and third axis
	NX, NY, NZ int

	// Data holds NX*NY*NZ samples, first axis fastest
	Data []float32
}

// NewGrid allocates a zero-filled grid.
func NewGrid(nx, ny, nz int) *Grid {
	if nx < 0 || ny < 0 || nz < 0 {
		panic(fmt.Sprintf("volume: negative grid extent %dx%dx%d", nx, ny, nz))
	}
	return &Grid{NX: nx, NY: ny, NZ: nz, Data: make([]float32, nx*ny*nz)}
}

// FromData wraps data as a grid. The slice is used directly, not copied.
func FromData(nx, ny, nz int, data []float32) (*Grid, error) {
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return nil, fmt.Errorf("grid extents must be positive, got %dx%dx%d", nx, ny, nz)
	}
	if len(data) != nx*ny*nz {
		return nil, fmt.Errorf("grid %dx%dx%d needs %d samples, got %d", nx, ny, nz, nx*ny*nz, len(data))
	}
	return &Grid{NX: nx, NY: ny, NZ: nz, Data: data}, nil
}

// Len returns the number of samples.
func (g *Grid) Len() int {
	return len(g.Data)
}

// Shape returns the three extents.
func (g *Grid) Shape() [3]int {
	return [3]int{g.NX, g.NY, g.NZ}
}

// Index converts a coordinate to its flat column-major offset.
func (g *Grid) Index(x, y, z int) int {
	return x + g.NX*(y+g.NY*z)
}

// Coord is the inverse of Index.
func (g *Grid) Coord(i int) (x, y, z int) {
	x = i % g.NX
	i /= g.NX
	y = i % g.NY
	z = i / g.NY
	return x, y, z
}

// InBounds reports whether the coordinate lies inside the grid.
func (g *Grid) InBounds(x, y, z int) bool {
	return x >= 0 && x < g.NX && y >= 0 && y < g.NY && z >= 0 && z < g.NZ
}

func (g *Grid) At(x, y, z int) float32 {
	return g.Data[g.Index(x, y, z)]
}

func (g *Grid) Set(x, y, z int, v float32) {
	g.Data[g.Index(x, y, z)] = v
}

// Clone returns a deep copy. Grids never share sample storage after Clone.
func (g *Grid) Clone() *Grid {
	data := make([]float32, len(g.Data))
	copy(data, g.Data)
	return &Grid{NX: g.NX, NY: g.NY, NZ: g.NZ, Data: data}
}

// SameShape reports whether both grids have identical extents.
func (g *Grid) SameShape(o *Grid) bool {
	return g.NX == o.NX && g.NY == o.NY && g.NZ == o.NZ
}

// Float64s returns the samples widened to float64, in storage order.
func (g *Grid) Float64s() []float64 {
	out := make([]float64, len(g.Data))
	for i, v := range g.Data {
		out[i] = float64(v)
	}
	return out
}

// Fill sets every sample to v.
func (g *Grid) Fill(v float32) {
	for i := range g.Data {
		g.Data[i] = v
	}
}

// CopyRegion copies the box of src starting at (sx, sy, sz) with extents
// (nx, ny, nz) into g at (dx, dy, dz). Source voxels that fall outside src
// are skipped, leaving the destination untouched there.
func (g *Grid) CopyRegion(src *Grid, sx, sy, sz, nx, ny, nz, dx, dy, dz int) {
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				if !src.InBounds(sx+i, sy+j, sz+k) || !g.InBounds(dx+i, dy+j, dz+k) {
					continue
				}
				g.Set(dx+i, dy+j, dz+k, src.At(sx+i, sy+j, sz+k))
			}
		}
	}
}
