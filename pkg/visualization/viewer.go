// Package visualization renders orthogonal slices of a density map as images.
package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"mrcvol/pkg/errors"
	"mrcvol/pkg/volume"
)

// Format selects the encoding of saved slices.
type Format string

const (
	FormatJPEG Format = "jpg"
	FormatPNG  Format = "png"
)

// Viewer extracts slices from a density grid. Intensities are scaled
// linearly so that the grid minimum is black and its maximum is white.
type Viewer struct {
	grid *volume.Grid

	// intensity window taken from the grid statistics
	low  float64
	high float64

	// Format and Quality control SaveSlice; Quality applies to JPEG only
	Format  Format
	Quality int
}

// NewViewer creates a viewer over g with JPEG output at quality 90.
func NewViewer(g *volume.Grid) *Viewer {
	s := g.Stats()
	return &Viewer{
		grid:    g,
		low:     s.Min,
		high:    s.Max,
		Format:  FormatJPEG,
		Quality: 90,
	}
}

// gray maps a sample into the viewer's intensity window
func (v *Viewer) gray(x, y, z int) color.Gray16 {
	if v.high <= v.low {
		return color.Gray16{}
	}
	f := (float64(v.grid.At(x, y, z)) - v.low) / (v.high - v.low)
	f = min(1, max(0, f))
	return color.Gray16{Y: uint16(f*65535 + 0.5)}
}

// axisLength returns the number of slices along axis
func (v *Viewer) axisLength(axis string) (int, error) {
	switch strings.ToLower(axis) {
	case "x":
		return v.grid.NX, nil
	case "y":
		return v.grid.NY, nil
	case "z":
		return v.grid.NZ, nil
	}
	return 0, errors.New(errors.ErrCodeValidation, "invalid axis: %s (must be x, y, or z)", axis)
}

// ExtractSlice extracts a 2D slice perpendicular to axis. An x slice spans
// z horizontally and y vertically, a y slice spans x and z, a z slice x and y.
func (v *Viewer) ExtractSlice(axis string, position int) (*image.Gray16, error) {
	n, err := v.axisLength(axis)
	if err != nil {
		return nil, err
	}
	if position < 0 || position >= n {
		return nil, errors.New(errors.ErrCodeValidation, "position %d outside axis %s of length %d", position, axis, n)
	}

	g := v.grid
	var img *image.Gray16
	switch strings.ToLower(axis) {
	case "x":
		img = image.NewGray16(image.Rect(0, 0, g.NZ, g.NY))
		for y := 0; y < g.NY; y++ {
			for z := 0; z < g.NZ; z++ {
				img.SetGray16(z, y, v.gray(position, y, z))
			}
		}
	case "y":
		img = image.NewGray16(image.Rect(0, 0, g.NX, g.NZ))
		for z := 0; z < g.NZ; z++ {
			for x := 0; x < g.NX; x++ {
				img.SetGray16(x, z, v.gray(x, position, z))
			}
		}
	case "z":
		img = image.NewGray16(image.Rect(0, 0, g.NX, g.NY))
		for y := 0; y < g.NY; y++ {
			for x := 0; x < g.NX; x++ {
				img.SetGray16(x, y, v.gray(x, y, position))
			}
		}
	}
	return img, nil
}

// ExtractRegion copies a box of the grid that must lie fully inside it.
func (v *Viewer) ExtractRegion(startX, startY, startZ, sizeX, sizeY, sizeZ int) (*volume.Grid, error) {
	if startX < 0 || startY < 0 || startZ < 0 {
		return nil, errors.New(errors.ErrCodeValidation, "start coordinates must be non-negative")
	}
	if sizeX <= 0 || sizeY <= 0 || sizeZ <= 0 {
		return nil, errors.New(errors.ErrCodeValidation, "size dimensions must be positive")
	}
	g := v.grid
	if startX+sizeX > g.NX || startY+sizeY > g.NY || startZ+sizeZ > g.NZ {
		return nil, errors.New(errors.ErrCodeValidation, "region extends beyond volume boundaries")
	}

	region := volume.NewGrid(sizeX, sizeY, sizeZ)
	region.CopyRegion(g, startX, startY, startZ, sizeX, sizeY, sizeZ, 0, 0, 0)
	return region, nil
}

// EncodeSlice writes img in the viewer's format.
func (v *Viewer) EncodeSlice(w io.Writer, img image.Image) error {
	switch v.Format {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatJPEG, "":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: v.Quality})
	}
	return errors.New(errors.ErrCodeValidation, "unsupported image format %q", v.Format)
}

// SaveSlice saves an extracted slice to filename
func (v *Viewer) SaveSlice(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.File(filename, err)
	}
	if err := v.EncodeSlice(file, img); err != nil {
		file.Close()
		return errors.File(filename, err)
	}
	if err := file.Close(); err != nil {
		return errors.File(filename, err)
	}
	return nil
}

// SaveSliceSequence extracts and saves every slice along axis into outputDir
// and returns the number of images written.
func (v *Viewer) SaveSliceSequence(axis string, outputDir string) (int, error) {
	n, err := v.axisLength(axis)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return 0, errors.File(outputDir, err)
	}

	axis = strings.ToLower(axis)
	for pos := 0; pos < n; pos++ {
		img, err := v.ExtractSlice(axis, pos)
		if err != nil {
			return pos, err
		}
		filename := filepath.Join(outputDir, fmt.Sprintf("slice_%s_%03d.%s", axis, pos, v.Format))
		if err := v.SaveSlice(img, filename); err != nil {
			return pos, err
		}
	}
	log.Debug("saved slice sequence", "axis", axis, "count", n, "dir", outputDir)
	return n, nil
}
