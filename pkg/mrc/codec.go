package mrc

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"github.com/charmbracelet/log"

	"mrcvol/pkg/errors"
	"mrcvol/pkg/volume"
)

// detectByteOrder picks the byte order from the first dimension field. Little
// endian wins whenever it yields a plausible extent.
func detectByteOrder(first []byte) (binary.ByteOrder, error) {
	if nx := int32(binary.LittleEndian.Uint32(first)); nx > 0 && nx < MaxDimension {
		return binary.LittleEndian, nil
	}
	if nx := int32(binary.BigEndian.Uint32(first)); nx > 0 && nx < MaxDimension {
		return binary.BigEndian, nil
	}
	return nil, errors.New(errors.ErrCodeFormat, "first dimension % x is implausible in either byte order", first)
}

// sampleSize returns the bytes per sample for the modes that decode to reals.
func sampleSize(mode int32) (int, error) {
	switch mode {
	case ModeInt8:
		return 1, nil
	case ModeInt16, ModeUint16:
		return 2, nil
	case ModeFloat32:
		return 4, nil
	case ModeComplexInt16, ModeComplexFloat32:
		return 0, errors.New(errors.ErrCodeFormat, "complex mode %d is not supported", mode)
	default:
		return 0, errors.New(errors.ErrCodeFormat, "unknown mode %d", mode)
	}
}

// Decode reads one map from r. Statistics are taken from the header as
// stored; Encode recomputes them.
func Decode(r io.Reader) (*Model, error) {
	raw := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeFormat, err, "header shorter than %d bytes", HeaderSize)
	}

	order, err := detectByteOrder(raw[:4])
	if err != nil {
		return nil, err
	}

	var h Header
	if err := binary.Read(bytes.NewReader(raw), order, &h); err != nil {
		return nil, errors.Wrap(errors.ErrCodeFormat, err, "decoding header")
	}
	if h.NY <= 0 || h.NZ <= 0 {
		return nil, errors.New(errors.ErrCodeFormat, "implausible dimensions %dx%dx%d", h.NX, h.NY, h.NZ)
	}
	if h.NSymBT < 0 {
		return nil, errors.New(errors.ErrCodeFormat, "negative extended header size %d", h.NSymBT)
	}

	size, err := sampleSize(h.Mode)
	if err != nil {
		return nil, err
	}

	// Both variable-length sections are read through CopyN, which grows the
	// buffer as bytes arrive, so a bogus header cannot force a huge
	// allocation up front.
	var extended []byte
	if h.NSymBT > 0 {
		var ext bytes.Buffer
		if got, err := io.CopyN(&ext, r, int64(h.NSymBT)); err != nil {
			return nil, errors.Wrap(errors.ErrCodeFormat, err, "extended header declares %d bytes, stream has %d", h.NSymBT, got)
		}
		extended = ext.Bytes()
	}

	n := int64(h.NX) * int64(h.NY) * int64(h.NZ)
	want := n * int64(size)

	var payload bytes.Buffer
	if got, err := io.CopyN(&payload, r, want); err != nil {
		return nil, errors.Wrap(errors.ErrCodeFormat, err, "payload declares %d bytes, stream has %d", want, got)
	}

	g := volume.NewGrid(int(h.NX), int(h.NY), int(h.NZ))
	decodeSamples(g.Data, payload.Bytes(), h.Mode, order)
	h.Mode = ModeFloat32

	log.Debug("decoded map", "nx", h.NX, "ny", h.NY, "nz", h.NZ, "byte_order", order.String(), "extended", len(extended))

	return &Model{
		Header:   h,
		Extended: extended,
		Spacing:  h.PixelSpacing(),
		Data:     g,
	}, nil
}

func decodeSamples(dst []float32, src []byte, mode int32, order binary.ByteOrder) {
	switch mode {
	case ModeInt8:
		for i := range dst {
			dst[i] = float32(int8(src[i]))
		}
	case ModeInt16:
		for i := range dst {
			dst[i] = float32(int16(order.Uint16(src[2*i:])))
		}
	case ModeUint16:
		for i := range dst {
			dst[i] = float32(order.Uint16(src[2*i:]))
		}
	case ModeFloat32:
		for i := range dst {
			dst[i] = math.Float32frombits(order.Uint32(src[4*i:]))
		}
	}
}

// Unmarshal decodes a map held in memory.
func Unmarshal(data []byte) (*Model, error) {
	return Decode(bytes.NewReader(data))
}

// Encode writes m to w in little-endian order. The density statistics are
// recomputed from the samples; every other field is written as held.
func Encode(w io.Writer, m *Model) error {
	return encode(w, m, binary.LittleEndian)
}

// Marshal encodes m into a new byte slice.
func Marshal(m *Model) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encode(w io.Writer, m *Model, order binary.ByteOrder) error {
	if err := m.Validate(); err != nil {
		return err
	}

	h := m.Header
	h.setStats(m.Data.Stats())
	h.NSymBT = int32(len(m.Extended))

	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, order, &h); err != nil {
		return err
	}
	if _, err := bw.Write(m.Extended); err != nil {
		return err
	}

	buf := make([]byte, 4)
	for _, v := range m.Data.Data {
		order.PutUint32(buf, math.Float32bits(v))
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}
