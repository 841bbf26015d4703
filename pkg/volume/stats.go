package volume

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats are the density statistics stored in a map header.
type Stats struct {
	Min  float64
	Max  float64
	Mean float64

	// RMS is the root-mean-square deviation from Mean over all samples
	RMS float64
}

// Stats computes the statistics from the samples. An empty grid yields the
// zero value.
func (g *Grid) Stats() Stats {
	if len(g.Data) == 0 {
		return Stats{}
	}
	values := g.Float64s()
	mean, std := stat.PopMeanStdDev(values, nil)
	return Stats{
		Min:  floats.Min(values),
		Max:  floats.Max(values),
		Mean: mean,
		RMS:  std,
	}
}
