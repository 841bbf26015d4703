// Package fusion combines density maps sampled on the same grid.
//
// Fusion brings every map onto a common intensity scale by rank-based
// histogram matching against the first map, then blends them voxel by voxel
// so that wherever the sources disagree the denser one dominates.
package fusion

import (
	"fmt"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/floats"

	"mrcvol/pkg/errors"
	"mrcvol/pkg/mrc"
	"mrcvol/pkg/volume"
)

// DefaultEpsilon stands in for exact zeros during fusion.
const DefaultEpsilon = 1e-7

// MatchHistogram returns a copy of target carrying the value distribution of
// reference. Positions keep their rank order in target: the k-th smallest
// target voxel receives the k-th smallest reference value. Ties keep their
// storage order. Both grids must hold the same number of samples.
func MatchHistogram(reference, target *volume.Grid) (*volume.Grid, error) {
	if reference.Len() != target.Len() {
		return nil, errors.New(errors.ErrCodeValidation, "histogram match needs equal sample counts, got %d and %d", reference.Len(), target.Len())
	}
	matched := matchValues(reference.Float64s(), target.Float64s())

	out := volume.NewGrid(target.NX, target.NY, target.NZ)
	for i, v := range matched {
		out.Data[i] = float32(v)
	}
	return out, nil
}

// matchValues transplants the sorted values of ref onto the rank order of
// tgt. Both rank tables are built over the same flat index, so no axis
// reordering can creep in. ref and tgt are reordered in place.
func matchValues(ref, tgt []float64) []float64 {
	refIdx := make([]int, len(ref))
	floats.ArgsortStable(ref, refIdx)

	tgtIdx := make([]int, len(tgt))
	floats.ArgsortStable(tgt, tgtIdx)

	out := make([]float64, len(tgt))
	for rank, pos := range tgtIdx {
		out[pos] = ref[rank]
	}
	return out
}

// checkShapes reports every model whose grid differs from the first.
func checkShapes(models []*mrc.Model) error {
	if len(models) == 0 {
		return errors.New(errors.ErrCodeValidation, "no volumes given")
	}
	var problems []string
	for i, m := range models {
		if m == nil || m.Data == nil {
			problems = append(problems, fmt.Sprintf("volume %d has no data", i))
		}
	}
	if len(problems) > 0 {
		return errors.Validation("volumes", problems)
	}
	ref := models[0].Data
	for i, m := range models[1:] {
		if !m.Data.SameShape(ref) {
			problems = append(problems, fmt.Sprintf("volume %d is %v, expected %v", i+1, m.Data.Shape(), ref.Shape()))
		}
	}
	return errors.Validation("volumes", problems)
}

// Fuse combines models with DefaultEpsilon.
func Fuse(models []*mrc.Model) (*mrc.Model, error) {
	return FuseEpsilon(models, DefaultEpsilon)
}

// FuseEpsilon normalises each model to a maximum of one (exact zeros become
// eps first), matches every histogram to the first model and returns the
// self-weighted average sum(w_i*m_i)/sum(w_i) with w_i = m_i/sum(m), less
// eps. The result gets a derived header with the first model's spacing and
// origin. The inputs are not modified.
func FuseEpsilon(models []*mrc.Model, eps float64) (*mrc.Model, error) {
	if err := checkShapes(models); err != nil {
		return nil, err
	}

	maps := make([][]float64, len(models))
	for i, m := range models {
		values := m.Data.Float64s()
		for j, v := range values {
			if v == 0 {
				values[j] = eps
			}
		}
		peak := floats.Max(values)
		if peak <= 0 {
			return nil, errors.New(errors.ErrCodePrecondition, "volume %d has no positive density", i)
		}
		floats.Scale(1/peak, values)
		maps[i] = values
	}

	for i := 1; i < len(maps); i++ {
		ref := append([]float64(nil), maps[0]...)
		maps[i] = matchValues(ref, maps[i])
	}

	ref := models[0]
	n := ref.Data.Len()
	sum := make([]float64, n)
	for _, values := range maps {
		floats.Add(sum, values)
	}

	out := volume.NewGrid(ref.Data.NX, ref.Data.NY, ref.Data.NZ)
	for j := 0; j < n; j++ {
		total := sum[j]
		if total == 0 {
			total = eps
		}
		var num, den float64
		for _, values := range maps {
			w := values[j] / total
			num += w * values[j]
			den += w
		}
		var avg float64
		if den != 0 {
			avg = num / den
		}
		out.Data[j] = float32(avg - eps)
	}

	fused := mrc.FromGrid(out, ref.Spacing)
	fused.SetOrigin(ref.Origin())

	log.Debug("fused volumes", "count", len(models), "nx", out.NX, "ny", out.NY, "nz", out.NZ)
	return fused, nil
}

// Sum adds the models voxel by voxel into a copy of the first, keeping its
// header apart from the refreshed statistics.
func Sum(models []*mrc.Model) (*mrc.Model, error) {
	if err := checkShapes(models); err != nil {
		return nil, err
	}
	out := models[0].Clone()
	for _, m := range models[1:] {
		for i, v := range m.Data.Data {
			out.Data.Data[i] += v
		}
	}
	out.RefreshStats()
	return out, nil
}
