package geometry

import (
	"math"

	"github.com/charmbracelet/log"

	"mrcvol/pkg/convert"
	"mrcvol/pkg/errors"
	"mrcvol/pkg/mrc"
	"mrcvol/pkg/volume"
)

// prepare checks the spacing and returns a private copy of m whose location
// is expressed as a floating-point origin.
func prepare(m *mrc.Model) (*mrc.Model, float64, error) {
	spacing, err := m.PixelSpacing()
	if err != nil {
		return nil, 0, err
	}
	if err := m.Validate(); err != nil {
		return nil, 0, err
	}
	src, err := convert.StartToOrigin(m.Clone())
	if err != nil {
		return nil, 0, err
	}
	return src, spacing, nil
}

// Pad surrounds the density with at least distance (in physical units) of
// zero-valued voxels on every face. Existing empty margin counts towards the
// requested padding, so a face is only extended by what is missing.
//
// The result has a freshly derived header whose cell lengths use the
// spacing of m, and its origin moves by half the voxels added per axis. The
// content stays in place physically only when both faces of an axis grow by
// the same amount; otherwise it shifts by half the difference. m is not
// modified.
func Pad(m *mrc.Model, distance float64) (*mrc.Model, error) {
	if distance < 0 || math.IsNaN(distance) || math.IsInf(distance, 0) {
		return nil, errors.New(errors.ErrCodeValidation, "padding distance %g must be finite and non-negative", distance)
	}
	src, spacing, err := prepare(m)
	if err != nil {
		return nil, err
	}

	want := int(math.RoundToEven(distance / spacing))
	margins := FaceMargins(src.Data)

	var add Margins
	var size [3]int
	shape := src.Data.Shape()
	for a := 0; a < 3; a++ {
		add[a][0] = max(0, want-margins[a][0])
		add[a][1] = max(0, want-margins[a][1])
		size[a] = shape[a] + add[a][0] + add[a][1]
	}

	g := volume.NewGrid(size[0], size[1], size[2])
	g.CopyRegion(src.Data, 0, 0, 0, shape[0], shape[1], shape[2], add[0][0], add[1][0], add[2][0])

	origin := src.Origin()
	for a := 0; a < 3; a++ {
		origin[a] -= float64(add[a][0]+add[a][1]) * spacing / 2
	}

	out := mrc.FromGrid(g, spacing)
	out.SetOrigin(origin)

	log.Debug("padded map", "voxels", want, "added", add, "nx", g.NX, "ny", g.NY, "nz", g.NZ)
	return out, nil
}

// Trim crops m to the samples >= lower, keeping margin voxels around them on
// every face. Window voxels outside the source array are zero-filled.
//
// With forceCube the cropped region is centred in a zero-filled cube whose
// side is the largest of the three window extents. The origin follows the
// first voxel of the result in both modes. m is not modified.
func Trim(m *mrc.Model, lower float64, margin int, forceCube bool) (*mrc.Model, error) {
	if margin < 0 {
		return nil, errors.New(errors.ErrCodeValidation, "trim margin %d must be non-negative", margin)
	}
	src, spacing, err := prepare(m)
	if err != nil {
		return nil, err
	}

	box, ok := BoundingBox(src.Data, lower)
	if !ok {
		return nil, errors.New(errors.ErrCodePrecondition, "no voxel reaches the threshold %g", lower)
	}
	window := box.Grow(margin)
	ext := window.Extent()

	var g *volume.Grid
	var offset [3]int
	if forceCube {
		side := max(ext[0], ext[1], ext[2])
		for a := 0; a < 3; a++ {
			offset[a] = (side - ext[a]) / 2
		}
		g = volume.NewGrid(side, side, side)
	} else {
		g = volume.NewGrid(ext[0], ext[1], ext[2])
	}
	g.CopyRegion(src.Data,
		window.Min[0], window.Min[1], window.Min[2],
		ext[0], ext[1], ext[2],
		offset[0], offset[1], offset[2])

	origin := src.Origin()
	for a := 0; a < 3; a++ {
		origin[a] += float64(window.Min[a]-offset[a]) * spacing
	}

	out := mrc.FromGrid(g, spacing)
	out.SetOrigin(origin)

	log.Debug("trimmed map", "box", box, "margin", margin, "cube", forceCube, "nx", g.NX, "ny", g.NY, "nz", g.NZ)
	return out, nil
}
