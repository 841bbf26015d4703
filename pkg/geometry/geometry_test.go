package geometry

import (
	"math"
	"testing"

	"mrcvol/pkg/errors"
	"mrcvol/pkg/mrc"
	"mrcvol/pkg/volume"
)

// createBlobModel returns an n^3 map with spacing 1 whose positive density
// is the inclusive box [lo, hi] on every axis
func createBlobModel(n, lo, hi int) *mrc.Model {
	g := volume.NewGrid(n, n, n)
	for z := lo; z <= hi; z++ {
		for y := lo; y <= hi; y++ {
			for x := lo; x <= hi; x++ {
				g.Set(x, y, z, float32(1+x+2*y+3*z))
			}
		}
	}
	return mrc.FromGrid(g, 1.0)
}

func nearly(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestFaceMargins(t *testing.T) {
	g := volume.NewGrid(6, 5, 4)
	g.Set(2, 1, 3, 1)
	g.Set(3, 3, 3, -5) // negative samples do not count

	m := FaceMargins(g)
	want := Margins{{2, 3}, {1, 3}, {3, 0}}
	if m != want {
		t.Errorf("expected %v, got %v", want, m)
	}

	if FaceMargins(volume.NewGrid(3, 3, 3)) != (Margins{}) {
		t.Error("expected zero margins for an empty grid")
	}
}

func TestBoundingBox(t *testing.T) {
	g := volume.NewGrid(5, 5, 5)
	g.Set(1, 2, 3, 0.5)
	g.Set(3, 2, 1, 0.7)
	g.Set(4, 4, 4, 0.1)

	b, ok := BoundingBox(g, 0.5)
	if !ok {
		t.Fatal("expected a bounding box")
	}
	if b.Min != [3]int{1, 2, 1} || b.Max != [3]int{3, 2, 3} {
		t.Errorf("unexpected box %+v", b)
	}
	if b.Extent() != [3]int{3, 1, 3} {
		t.Errorf("unexpected extent %v", b.Extent())
	}

	if _, ok := BoundingBox(g, 2); ok {
		t.Error("expected no box above the maximum")
	}
}

func TestPadSingleVoxel(t *testing.T) {
	g := volume.NewGrid(4, 4, 4)
	g.Set(1, 1, 1, 10)
	m := mrc.FromGrid(g, 1.0)

	out, err := Pad(m, 2.0)
	if err != nil {
		t.Fatalf("Pad failed: %v", err)
	}

	// Low faces have a margin of 1 and get 1 more; high faces already have 2
	if out.Data.Shape() != [3]int{5, 5, 5} {
		t.Fatalf("expected 5x5x5, got %v", out.Data.Shape())
	}
	if out.Data.At(2, 2, 2) != 10 {
		t.Errorf("expected the voxel at (2,2,2), got %v", out.Data.At(2, 2, 2))
	}
	for a, o := range out.Origin() {
		if !nearly(o, -0.5) {
			t.Errorf("axis %d: expected origin -0.5, got %v", a, o)
		}
	}
	if out.Header.Dims() != out.Data.Shape() {
		t.Error("header dimensions do not follow the array")
	}
	if out.Header.XLen != 5 || out.Spacing != 1 {
		t.Errorf("expected cell 5 at spacing 1, got %v at %v", out.Header.XLen, out.Spacing)
	}
	if out.Header.AMax != 10 {
		t.Errorf("expected recomputed max 10, got %v", out.Header.AMax)
	}

	// The input is left alone
	if m.Data.Shape() != [3]int{4, 4, 4} {
		t.Error("Pad modified its input")
	}
}

func TestPadKeepsOriginalSpacing(t *testing.T) {
	m := createBlobModel(4, 0, 3)
	m.Spacing = 2.5
	m.Header.XLen, m.Header.YLen, m.Header.ZLen = 10, 10, 10

	out, err := Pad(m, 5)
	if err != nil {
		t.Fatalf("Pad failed: %v", err)
	}
	if out.Data.Shape() != [3]int{8, 8, 8} {
		t.Fatalf("expected 8x8x8, got %v", out.Data.Shape())
	}
	if out.Header.XLen != 20 {
		t.Errorf("expected cell length 20, got %v", out.Header.XLen)
	}
	if !nearly(out.Origin()[0], -5) {
		t.Errorf("expected origin -5, got %v", out.Origin()[0])
	}
}

func TestPadRequiresSpacing(t *testing.T) {
	m := createBlobModel(3, 1, 1)
	m.Spacing = 0
	if _, err := Pad(m, 1); !errors.Is(err, errors.ErrCodePrecondition) {
		t.Errorf("expected PRECONDITION error, got %v", err)
	}
	if _, err := Trim(m, 0.5, 0, false); !errors.Is(err, errors.ErrCodePrecondition) {
		t.Errorf("expected PRECONDITION error, got %v", err)
	}
}

func TestPadRejectsInvalidDistance(t *testing.T) {
	m := createBlobModel(4, 1, 2)
	for _, d := range []float64{-1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := Pad(m, d); !errors.Is(err, errors.ErrCodeValidation) {
			t.Errorf("distance %v: expected VALIDATION error, got %v", d, err)
		}
	}
}

func TestPadUsesStartOffsets(t *testing.T) {
	m := createBlobModel(4, 1, 2)
	m.Header.NXStart = 3

	out, err := Pad(m, 1)
	if err != nil {
		t.Fatalf("Pad failed: %v", err)
	}
	// No padding is needed, so the origin is the converted start offset
	if out.Data.Shape() != [3]int{4, 4, 4} {
		t.Fatalf("expected no padding, got %v", out.Data.Shape())
	}
	if !nearly(out.Origin()[0], 3) || out.Header.NXStart != 0 {
		t.Errorf("expected origin 3 and no start offset, got %v and %d", out.Origin()[0], out.Header.NXStart)
	}
	if m.Header.NXStart != 3 {
		t.Error("Pad modified its input header")
	}
}

func TestTrimNonCube(t *testing.T) {
	m := createBlobModel(10, 3, 5)
	m.SetOrigin([3]float64{100, 200, 300})

	out, err := Trim(m, 0.5, 1, false)
	if err != nil {
		t.Fatalf("Trim failed: %v", err)
	}
	if out.Data.Shape() != [3]int{5, 5, 5} {
		t.Fatalf("expected 5x5x5, got %v", out.Data.Shape())
	}
	if out.Data.At(1, 1, 1) != m.Data.At(3, 3, 3) {
		t.Errorf("expected content shifted by the window, got %v", out.Data.At(1, 1, 1))
	}
	if out.Data.At(0, 0, 0) != 0 {
		t.Errorf("expected margin to be empty, got %v", out.Data.At(0, 0, 0))
	}
	want := [3]float64{102, 202, 302}
	for a := range want {
		if !nearly(out.Origin()[a], want[a]) {
			t.Errorf("axis %d: expected origin %v, got %v", a, want[a], out.Origin()[a])
		}
	}
}

func TestTrimMarginBeyondEdgeIsZeroFilled(t *testing.T) {
	m := createBlobModel(4, 0, 1)

	out, err := Trim(m, 0.5, 2, false)
	if err != nil {
		t.Fatalf("Trim failed: %v", err)
	}
	if out.Data.Shape() != [3]int{6, 6, 6} {
		t.Fatalf("expected 6x6x6, got %v", out.Data.Shape())
	}
	if out.Data.At(2, 2, 2) != m.Data.At(0, 0, 0) {
		t.Errorf("expected source origin voxel at (2,2,2)")
	}
	if !nearly(out.Origin()[0], -2) {
		t.Errorf("expected origin -2, got %v", out.Origin()[0])
	}
}

func TestTrimForceCube(t *testing.T) {
	g := volume.NewGrid(10, 10, 10)
	// Box spanning x 2..6, y 4..4, z 3..5
	for x := 2; x <= 6; x++ {
		g.Set(x, 4, 3, 1)
	}
	g.Set(4, 4, 5, 2)
	m := mrc.FromGrid(g, 2.0)

	out, err := Trim(m, 0.5, 0, true)
	if err != nil {
		t.Fatalf("Trim failed: %v", err)
	}
	if out.Data.Shape() != [3]int{5, 5, 5} {
		t.Fatalf("expected 5x5x5 cube, got %v", out.Data.Shape())
	}
	// Extents 5,1,3 are centred at offsets 0,2,1
	if out.Data.At(0, 2, 1) != 1 || out.Data.At(2, 2, 3) != 2 {
		t.Errorf("content not centred in the cube")
	}
	// origin = spacing * (window low - placement offset)
	want := [3]float64{2 * (2 - 0), 2 * (4 - 2), 2 * (3 - 1)}
	for a := range want {
		if !nearly(out.Origin()[a], want[a]) {
			t.Errorf("axis %d: expected origin %v, got %v", a, want[a], out.Origin()[a])
		}
	}
	if out.Header.XLen != 10 {
		t.Errorf("expected cell length 10, got %v", out.Header.XLen)
	}
}

func TestTrimNoVoxelsIsPrecondition(t *testing.T) {
	m := createBlobModel(4, 1, 2)
	_, err := Trim(m, 1e6, 0, false)
	if !errors.Is(err, errors.ErrCodePrecondition) {
		t.Fatalf("expected PRECONDITION error, got %v", err)
	}
	if _, err := Trim(m, 0.5, -1, false); !errors.Is(err, errors.ErrCodeValidation) {
		t.Errorf("expected VALIDATION error for negative margin, got %v", err)
	}
}

func TestPadThenTrimRecoversContent(t *testing.T) {
	m := createBlobModel(6, 2, 3)
	m.SetOrigin([3]float64{10, 20, 30})
	before, _ := Trim(m, math.SmallestNonzeroFloat32, 0, false)

	padded, err := Pad(m, 4)
	if err != nil {
		t.Fatalf("Pad failed: %v", err)
	}
	after, err := Trim(padded, math.SmallestNonzeroFloat32, 0, false)
	if err != nil {
		t.Fatalf("Trim failed: %v", err)
	}

	if after.Data.Shape() != before.Data.Shape() {
		t.Fatalf("expected %v, got %v", before.Data.Shape(), after.Data.Shape())
	}
	for i := range before.Data.Data {
		if after.Data.Data[i] != before.Data.Data[i] {
			t.Fatalf("sample %d differs: %v vs %v", i, after.Data.Data[i], before.Data.Data[i])
		}
	}
	for a := 0; a < 3; a++ {
		if d := math.Abs(after.Origin()[a] - before.Origin()[a]); d > after.Spacing {
			t.Errorf("axis %d: origin drifted by %v", a, d)
		}
	}
}

func TestPadThenTrimUnevenPaddingShiftsOrigin(t *testing.T) {
	// Blob against the low faces: each axis gains 4 voxels below and none above
	m := createBlobModel(8, 0, 1)
	before, err := Trim(m, math.SmallestNonzeroFloat32, 0, false)
	if err != nil {
		t.Fatalf("Trim failed: %v", err)
	}

	padded, err := Pad(m, 4)
	if err != nil {
		t.Fatalf("Pad failed: %v", err)
	}
	if padded.Data.Shape() != [3]int{12, 12, 12} {
		t.Fatalf("expected 12x12x12, got %v", padded.Data.Shape())
	}
	after, err := Trim(padded, math.SmallestNonzeroFloat32, 0, false)
	if err != nil {
		t.Fatalf("Trim failed: %v", err)
	}

	for i := range before.Data.Data {
		if after.Data.Data[i] != before.Data.Data[i] {
			t.Fatalf("sample %d differs: %v vs %v", i, after.Data.Data[i], before.Data.Data[i])
		}
	}
	// The origin moves by half the added voxels, so the content drifts by
	// (low - high) / 2 = 2 spacings
	for a := 0; a < 3; a++ {
		if !nearly(after.Origin()[a]-before.Origin()[a], 2) {
			t.Errorf("axis %d: expected drift 2, got %v", a, after.Origin()[a]-before.Origin()[a])
		}
	}
}
