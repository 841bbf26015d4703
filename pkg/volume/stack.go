package volume

import (
	"fmt"
)

// Plane is a single 2-D image of a stack.
type Plane struct {
	NX, NY int

	// Data holds NX*NY samples, first axis fastest
	Data []float32
}

func (p Plane) At(x, y int) float32 {
	return p.Data[x+p.NX*y]
}

// Stack is an ordered sequence of equally sized planes, stacked along the
// third axis of a Grid.
type Stack []Plane

// Join stacks the planes into one grid with NZ = len(s). The planes'
// samples are copied.
func Join(s Stack) (*Grid, error) {
	if len(s) == 0 {
		return nil, fmt.Errorf("cannot join an empty stack")
	}
	nx, ny := s[0].NX, s[0].NY
	g := NewGrid(nx, ny, len(s))
	plane := nx * ny
	for z, p := range s {
		if p.NX != nx || p.NY != ny {
			return nil, fmt.Errorf("plane %d is %dx%d, expected %dx%d", z, p.NX, p.NY, nx, ny)
		}
		if len(p.Data) != plane {
			return nil, fmt.Errorf("plane %d has %d samples, expected %d", z, len(p.Data), plane)
		}
		copy(g.Data[z*plane:(z+1)*plane], p.Data)
	}
	return g, nil
}

// Split decomposes the grid along its third axis. Each plane owns a copy of
// its samples.
func (g *Grid) Split() Stack {
	plane := g.NX * g.NY
	s := make(Stack, g.NZ)
	for z := range s {
		data := make([]float32, plane)
		copy(data, g.Data[z*plane:(z+1)*plane])
		s[z] = Plane{NX: g.NX, NY: g.NY, Data: data}
	}
	return s
}
