package metrics

import (
	"math"
	"testing"

	"mrcvol/pkg/errors"
	"mrcvol/pkg/volume"
)

func createRamp(nx, ny, nz int) *volume.Grid {
	g := volume.NewGrid(nx, ny, nz)
	for i := range g.Data {
		g.Data[i] = float32(i)
	}
	return g
}

func TestCompareIdentical(t *testing.T) {
	g := createRamp(4, 3, 2)
	m, err := Compare(g, g.Clone())
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if m.RMSE != 0 {
		t.Errorf("expected RMSE 0, got %v", m.RMSE)
	}
	if math.Abs(m.SSIM-1) > 1e-12 {
		t.Errorf("expected SSIM 1, got %v", m.SSIM)
	}
	if math.Abs(m.Correlation-1) > 1e-12 {
		t.Errorf("expected correlation 1, got %v", m.Correlation)
	}
	if m.EntropyDiff != 0 {
		t.Errorf("expected no entropy difference, got %v", m.EntropyDiff)
	}
	if !math.IsInf(m.MI, 1) && m.MI < 10 {
		t.Errorf("expected a very large MI, got %v", m.MI)
	}
}

func TestCompareDiffering(t *testing.T) {
	ref := createRamp(4, 4, 4)
	cand := ref.Clone()
	for i := range cand.Data {
		cand.Data[i] += 2
	}

	m, err := Compare(ref, cand)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if math.Abs(m.RMSE-2) > 1e-9 {
		t.Errorf("expected RMSE 2, got %v", m.RMSE)
	}
	if m.SSIM >= 1 || m.SSIM <= 0 {
		t.Errorf("expected SSIM in (0,1), got %v", m.SSIM)
	}

	inverted := ref.Clone()
	for i := range inverted.Data {
		inverted.Data[i] = -inverted.Data[i]
	}
	m, _ = Compare(ref, inverted)
	if math.Abs(m.Correlation+1) > 1e-12 {
		t.Errorf("expected correlation -1, got %v", m.Correlation)
	}
}

func TestCompareConstant(t *testing.T) {
	a := volume.NewGrid(2, 2, 2)
	b := volume.NewGrid(2, 2, 2)
	b.Fill(1)
	m, err := Compare(a, b)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if m.Correlation != 0 || m.MI != 0 {
		t.Errorf("expected no dependency for constant maps, got %+v", m)
	}
	if math.Abs(m.RMSE-1) > 1e-12 {
		t.Errorf("expected RMSE 1, got %v", m.RMSE)
	}
}

func TestCompareShapeMismatch(t *testing.T) {
	_, err := Compare(volume.NewGrid(2, 2, 2), volume.NewGrid(2, 2, 3))
	if !errors.Is(err, errors.ErrCodeValidation) {
		t.Errorf("expected VALIDATION error, got %v", err)
	}
}

func TestCalculateEntropy(t *testing.T) {
	// Two equally populated extremes give exactly one bit
	data := []float64{0, 0, 1, 1}
	if e := calculateEntropy(data); math.Abs(e-1) > 1e-12 {
		t.Errorf("expected entropy 1, got %v", e)
	}
	if e := calculateEntropy([]float64{3, 3, 3}); e != 0 {
		t.Errorf("expected entropy 0 for constant data, got %v", e)
	}
}
