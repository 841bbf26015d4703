// Package convert translates density maps between representations: the
// Situs plain-text format, and the two header conventions for locating a
// map in space (integer start offsets versus a floating-point origin).
package convert

import (
	"math"

	"mrcvol/pkg/errors"
	"mrcvol/pkg/mrc"
)

// StartToOrigin rewrites the start offsets of m as a floating-point origin
// and zeroes the offsets. m is modified in place and returned. Nothing
// changes when all offsets are zero.
func StartToOrigin(m *mrc.Model) (*mrc.Model, error) {
	h := &m.Header
	if h.NXStart == 0 && h.NYStart == 0 && h.NZStart == 0 {
		return m, nil
	}
	if h.MX == 0 || h.MY == 0 || h.MZ == 0 {
		return nil, errors.New(errors.ErrCodePrecondition, "sampling %d,%d,%d has a zero axis", h.MX, h.MY, h.MZ)
	}

	h.OriginX = float32(float64(h.XLen) / float64(h.MX) * float64(h.NXStart))
	h.OriginY = float32(float64(h.YLen) / float64(h.MY) * float64(h.NYStart))
	h.OriginZ = float32(float64(h.ZLen) / float64(h.MZ) * float64(h.NZStart))
	h.NXStart, h.NYStart, h.NZStart = 0, 0, 0
	return m, nil
}

// OriginToStart rewrites the floating-point origin of m as start offsets,
// rounding half to even, and zeroes the origin. m is modified in place and
// returned. Nothing changes when the origin is zero.
func OriginToStart(m *mrc.Model) (*mrc.Model, error) {
	h := &m.Header
	if h.OriginX == 0 && h.OriginY == 0 && h.OriginZ == 0 {
		return m, nil
	}
	if h.XLen == 0 || h.YLen == 0 || h.ZLen == 0 {
		return nil, errors.New(errors.ErrCodePrecondition, "cell %g,%g,%g has a zero length", h.XLen, h.YLen, h.ZLen)
	}

	h.NXStart = int32(math.RoundToEven(float64(h.OriginX) * float64(h.MX) / float64(h.XLen)))
	h.NYStart = int32(math.RoundToEven(float64(h.OriginY) * float64(h.MY) / float64(h.YLen)))
	h.NZStart = int32(math.RoundToEven(float64(h.OriginZ) * float64(h.MZ) / float64(h.ZLen)))
	h.OriginX, h.OriginY, h.OriginZ = 0, 0, 0
	return m, nil
}
