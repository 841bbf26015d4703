package mrc

import (
	"mrcvol/pkg/errors"
	"mrcvol/pkg/volume"
)

// Model is a density map held in memory: the header record, the opaque
// extended header and the decoded samples.
//
// A Model owns its Data exclusively. Operations that produce a new array
// return a new Model rather than sharing storage with their input.
type Model struct {
	// Header carries every fixed header field
	Header Header

	// Extended is the extended header, written back unchanged
	Extended []byte

	// Spacing is the physical length of one voxel, 0 when undefined
	Spacing float64

	// Data holds the samples with Data.Shape() == Header.Dims()
	Data *volume.Grid
}

// DeriveHeader builds a complete header for g. Every field is assigned:
// dimensions and sampling come from the grid shape, statistics from its
// samples, cell lengths from spacing, and everything else is defaulted.
func DeriveHeader(g *volume.Grid, spacing float64) Header {
	var h Header
	h.NX, h.NY, h.NZ = int32(g.NX), int32(g.NY), int32(g.NZ)
	h.Mode = ModeFloat32
	h.MX, h.MY, h.MZ = h.NX, h.NY, h.NZ
	h.XLen = float32(spacing * float64(g.NX))
	h.YLen = float32(spacing * float64(g.NY))
	h.ZLen = float32(spacing * float64(g.NZ))
	h.Alpha, h.Beta, h.Gamma = 90, 90, 90
	h.MapC, h.MapR, h.MapS = 1, 2, 3
	h.ISPG = 1
	h.NSymBT = 0
	h.Map = MapTag
	h.MachineStamp = LittleEndianStamp
	h.NLabels = 1
	h.SetLabel(0, defaultLabel())
	for i := 1; i < NumLabels; i++ {
		h.SetLabel(i, "")
	}
	h.setStats(g.Stats())
	return h
}

func (h *Header) setStats(s volume.Stats) {
	h.AMin = float32(s.Min)
	h.AMax = float32(s.Max)
	h.AMean = float32(s.Mean)
	h.RMS = float32(s.RMS)
}

// FromGrid wraps g in a model with a freshly derived header. The model takes
// ownership of g.
func FromGrid(g *volume.Grid, spacing float64) *Model {
	return &Model{
		Header:  DeriveHeader(g, spacing),
		Spacing: spacing,
		Data:    g,
	}
}

// FromStack joins an image stack along the third axis and wraps it.
func FromStack(s volume.Stack, spacing float64) (*Model, error) {
	g, err := volume.Join(s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeValidation, err, "image stack")
	}
	return FromGrid(g, spacing), nil
}

// Images splits the payload into its planes along the third axis.
func (m *Model) Images() volume.Stack {
	return m.Data.Split()
}

// Validate reports whether the model can be written.
func (m *Model) Validate() error {
	var problems []string
	if m.Data == nil {
		return errors.New(errors.ErrCodeValidation, "model has no sample data")
	}
	if m.Header.Dims() != m.Data.Shape() {
		problems = append(problems, "declared dimensions do not match sample array")
	}
	if len(m.Data.Data) != m.Data.NX*m.Data.NY*m.Data.NZ {
		problems = append(problems, "sample array length does not match its shape")
	}
	if m.Header.Mode != ModeFloat32 {
		problems = append(problems, "mode must be 2 (float32)")
	}
	return errors.Validation("invalid map", problems)
}

// PixelSpacing returns the voxel size, failing when it is undefined.
func (m *Model) PixelSpacing() (float64, error) {
	if m.Spacing <= 0 {
		return 0, errors.New(errors.ErrCodePrecondition, "pixel spacing is undefined")
	}
	return m.Spacing, nil
}

// Origin returns the floating-point origin.
func (m *Model) Origin() [3]float64 {
	return [3]float64{float64(m.Header.OriginX), float64(m.Header.OriginY), float64(m.Header.OriginZ)}
}

func (m *Model) SetOrigin(o [3]float64) {
	m.Header.OriginX = float32(o[0])
	m.Header.OriginY = float32(o[1])
	m.Header.OriginZ = float32(o[2])
}

// RefreshStats recomputes min, max, mean and RMS from the samples.
func (m *Model) RefreshStats() {
	m.Header.setStats(m.Data.Stats())
}

// ZeroData clears every sample, keeping the shape.
func (m *Model) ZeroData() {
	m.Data.Fill(0)
	m.RefreshStats()
}

// Clone returns a deep copy sharing no storage with m.
func (m *Model) Clone() *Model {
	c := *m
	if m.Extended != nil {
		c.Extended = append([]byte(nil), m.Extended...)
	}
	if m.Data != nil {
		c.Data = m.Data.Clone()
	}
	return &c
}
