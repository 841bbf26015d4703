// Package metrics scores how closely two density maps agree.
// The scores are voxel-wise and require both maps to share a grid.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"mrcvol/pkg/errors"
	"mrcvol/pkg/volume"
)

// Metrics holds the similarity scores between a reference and a candidate map.
type Metrics struct {
	// MI is the Gaussian estimate of mutual information, in nats.
	// Higher values indicate stronger statistical dependency.
	MI float64

	// EntropyDiff is the absolute difference of the Shannon entropies
	// of both value histograms, in bits.
	EntropyDiff float64

	// RMSE is the root mean square voxel difference.
	RMSE float64

	// SSIM is the global structural similarity index over the common
	// dynamic range. 1 means identical.
	SSIM float64

	// Correlation is the Pearson correlation of the voxel values.
	Correlation float64
}

// Compare scores candidate against reference.
func Compare(reference, candidate *volume.Grid) (Metrics, error) {
	if !reference.SameShape(candidate) {
		return Metrics{}, errors.New(errors.ErrCodeValidation, "cannot compare %v with %v", reference.Shape(), candidate.Shape())
	}
	if reference.Len() == 0 {
		return Metrics{}, errors.New(errors.ErrCodeValidation, "cannot compare empty volumes")
	}

	x := reference.Float64s()
	y := candidate.Float64s()

	return Metrics{
		MI:          calculateMutualInformation(x, y),
		EntropyDiff: math.Abs(calculateEntropy(x) - calculateEntropy(y)),
		RMSE:        calculateRMSE(x, y),
		SSIM:        calculateSSIM(x, y),
		Correlation: calculateCorrelation(x, y),
	}, nil
}

// calculateMutualInformation uses MI = -0.5*log(1-r^2), exact for jointly
// Gaussian data
func calculateMutualInformation(x, y []float64) float64 {
	r := calculateCorrelation(x, y)
	if r*r >= 1 {
		return math.Inf(1)
	}
	return -0.5 * math.Log(1-r*r)
}

// calculateCorrelation returns 0 when either input is constant
func calculateCorrelation(x, y []float64) float64 {
	if stat.Variance(x, nil) == 0 || stat.Variance(y, nil) == 0 {
		if floats.Equal(x, y) {
			return 1
		}
		return 0
	}
	return stat.Correlation(x, y, nil)
}

func calculateRMSE(x, y []float64) float64 {
	return floats.Distance(x, y, 2) / math.Sqrt(float64(len(x)))
}

// calculateSSIM computes the Structural Similarity Index
func calculateSSIM(x, y []float64) float64 {
	const k1 = 0.01
	const k2 = 0.03

	// Dynamic range shared by both maps
	L := math.Max(floats.Max(x), floats.Max(y)) - math.Min(floats.Min(x), floats.Min(y))
	if L == 0 {
		return 1
	}
	c1 := (k1 * L) * (k1 * L)
	c2 := (k2 * L) * (k2 * L)

	muX, sigmaX := stat.PopMeanVariance(x, nil)
	muY, sigmaY := stat.PopMeanVariance(y, nil)
	sigmaXY := popCovariance(x, y, muX, muY)

	num := (2*muX*muY + c1) * (2*sigmaXY + c2)
	den := (muX*muX + muY*muY + c1) * (sigmaX + sigmaY + c2)
	return num / den
}

func popCovariance(x, y []float64, muX, muY float64) float64 {
	var s float64
	for i := range x {
		s += (x[i] - muX) * (y[i] - muY)
	}
	return s / float64(len(x))
}

// calculateEntropy computes the Shannon entropy of a 256-bin histogram
func calculateEntropy(data []float64) float64 {
	lo, hi := floats.Min(data), floats.Max(data)
	if hi <= lo {
		return 0
	}

	const numBins = 256
	hist := make([]float64, numBins)
	binWidth := (hi - lo) / numBins
	for _, v := range data {
		binIdx := int((v - lo) / binWidth)
		if binIdx >= numBins {
			binIdx = numBins - 1
		}
		hist[binIdx]++
	}

	n := float64(len(data))
	entropy := 0.0
	for _, count := range hist {
		if count > 0 {
			p := count / n
			entropy -= p * math.Log2(p)
		}
	}
	return entropy
}
