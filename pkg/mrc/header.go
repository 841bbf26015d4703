// Package mrc reads and writes MRC/CCP4 density maps.
//
// A map file is a fixed 1024-byte header, an optional extended header of
// NSymBT bytes, and the samples in column-major order. The header is decoded
// in whichever byte order makes the first dimension plausible and always
// written little-endian.
package mrc

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	// HeaderSize is the size of the fixed header in bytes.
	HeaderSize = 1024

	// NumLabels is the number of text label records in the header.
	NumLabels = 10

	// LabelSize is the width of one text label record.
	LabelSize = 80

	// MaxDimension bounds a plausible first extent, which is used to detect
	// byte order.
	MaxDimension = 65536
)

// Data modes. Only ModeFloat32 is held in memory; integer modes are widened
// when decoded.
const (
	ModeInt8           int32 = 0
	ModeInt16          int32 = 1
	ModeFloat32        int32 = 2
	ModeComplexInt16   int32 = 3
	ModeComplexFloat32 int32 = 4
	ModeUint16         int32 = 6
)

var (
	// MapTag identifies the file type in the header.
	MapTag = [4]byte{'M', 'A', 'P', ' '}

	// LittleEndianStamp is the machine stamp written for little-endian data.
	LittleEndianStamp = [4]byte{0x44, 0x41, 0x00, 0x00}
)

// Header is the fixed 1024-byte map header. Field order and sizes match the
// file layout exactly, so the struct can be read and written with
// encoding/binary directly.
type Header struct {
	// NX, NY, NZ are the number of columns, rows and sections
	NX, NY, NZ int32

	// Mode is the sample data type
	Mode int32

	// NXStart, NYStart, NZStart locate the first voxel in the unit cell
	NXStart, NYStart, NZStart int32

	// MX, MY, MZ are the sampling intervals along each unit cell axis
	MX, MY, MZ int32

	// XLen, YLen, ZLen are the cell dimensions in angstroms
	XLen, YLen, ZLen float32

	// Alpha, Beta, Gamma are the cell angles in degrees
	Alpha, Beta, Gamma float32

	// MapC, MapR, MapS map columns, rows and sections to axes (1,2,3 for X,Y,Z)
	MapC, MapR, MapS int32

	// AMin, AMax, AMean are the density statistics
	AMin, AMax, AMean float32

	// ISPG is the space group number
	ISPG int32

	// NSymBT is the size of the extended header in bytes
	NSymBT int32

	// Extra is reserved space, passed through untouched
	Extra [100]byte

	// OriginX, OriginY, OriginZ locate the first voxel in physical space
	OriginX, OriginY, OriginZ float32

	// Map is the file type tag, "MAP "
	Map [4]byte

	// MachineStamp encodes the byte order the file was written with
	MachineStamp [4]byte

	// RMS is the RMS deviation of the samples from AMean
	RMS float32

	// NLabels is the number of labels in use
	NLabels int32

	// Labels are ten fixed-width text records
	Labels [NumLabels][LabelSize]byte
}

// Dims returns the declared grid extents.
func (h *Header) Dims() [3]int {
	return [3]int{int(h.NX), int(h.NY), int(h.NZ)}
}

// Label returns label record i with trailing blanks and NULs removed.
func (h *Header) Label(i int) string {
	return strings.TrimRight(string(h.Labels[i][:]), " \x00")
}

// SetLabel stores s in label record i, truncated or blank-padded to LabelSize.
func (h *Header) SetLabel(i int, s string) {
	copy(h.Labels[i][:], bytes.Repeat([]byte{' '}, LabelSize))
	copy(h.Labels[i][:], s)
}

// PixelSpacing derives the length of one voxel from the cell dimensions.
// It returns 0 when the three axes disagree by more than 1% or the header
// carries no usable cell.
func (h *Header) PixelSpacing() float64 {
	if h.NX <= 0 || h.NY <= 0 || h.NZ <= 0 {
		return 0
	}
	x := float64(h.XLen) / float64(h.NX)
	y := float64(h.YLen) / float64(h.NY)
	z := float64(h.ZLen) / float64(h.NZ)
	if isClose(x, y) && isClose(y, z) {
		return x
	}
	return 0
}

// isClose compares with a relative tolerance of 1% and no absolute floor.
func isClose(a, b float64) bool {
	return math.Abs(a-b) <= 0.01*math.Max(math.Abs(a), math.Abs(b))
}

// defaultLabel is the text written into the first label by header derivation.
func defaultLabel() string {
	return fmt.Sprintf("MRC file written by mrcvol %s", time.Now().Format("15:04:05-02/01/2006"))
}

// String renders the header for inspection. The reserved block is omitted.
func (h *Header) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "nx, ny, nz: %d, %d, %d\n", h.NX, h.NY, h.NZ)
	fmt.Fprintf(&b, "mode: %d\n", h.Mode)
	fmt.Fprintf(&b, "nxstart, nystart, nzstart: %d, %d, %d\n", h.NXStart, h.NYStart, h.NZStart)
	fmt.Fprintf(&b, "mx, my, mz: %d, %d, %d\n", h.MX, h.MY, h.MZ)
	fmt.Fprintf(&b, "xlen, ylen, zlen: %g, %g, %g\n", h.XLen, h.YLen, h.ZLen)
	fmt.Fprintf(&b, "alpha, beta, gamma: %g, %g, %g\n", h.Alpha, h.Beta, h.Gamma)
	fmt.Fprintf(&b, "mapc, mapr, maps: %d, %d, %d\n", h.MapC, h.MapR, h.MapS)
	fmt.Fprintf(&b, "amin, amax, amean: %g, %g, %g\n", h.AMin, h.AMax, h.AMean)
	fmt.Fprintf(&b, "ispg: %d\n", h.ISPG)
	fmt.Fprintf(&b, "nsymbt: %d\n", h.NSymBT)
	fmt.Fprintf(&b, "originx, originy, originz: %g, %g, %g\n", h.OriginX, h.OriginY, h.OriginZ)
	fmt.Fprintf(&b, "map: %q\n", string(h.Map[:]))
	fmt.Fprintf(&b, "machine stamp: % x\n", h.MachineStamp[:])
	fmt.Fprintf(&b, "rms: %g\n", h.RMS)
	fmt.Fprintf(&b, "labels: %d\n", h.NLabels)
	for i := 0; i < NumLabels; i++ {
		if l := h.Label(i); l != "" {
			fmt.Fprintf(&b, "  %d: %s\n", i, l)
		}
	}
	return b.String()
}
