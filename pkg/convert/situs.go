package convert

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"mrcvol/pkg/errors"
	"mrcvol/pkg/mrc"
	"mrcvol/pkg/volume"
)

// situsValuesPerLine is the number of samples written on each data line.
const situsValuesPerLine = 10

// situsFields names the seven header scalars in file order.
var situsFields = [7]string{"pixel spacing", "origin x", "origin y", "origin z", "nx", "ny", "nz"}

// WriteSitus writes m in Situs format: a header line holding the pixel
// spacing, origin and dimensions, a blank line, then the samples in
// column-major order, ten per line.
func WriteSitus(w io.Writer, m *mrc.Model) error {
	if err := m.Validate(); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	o := m.Origin()
	fmt.Fprintf(bw, "%.6f %.6f %.6f %.6f %d %d %d\n\n", m.Spacing, o[0], o[1], o[2], m.Data.NX, m.Data.NY, m.Data.NZ)

	count := 0
	for _, v := range m.Data.Data {
		fmt.Fprintf(bw, "%11.6f", v)
		count++
		if count == situsValuesPerLine {
			bw.WriteString(" \n")
			count = 0
		} else {
			bw.WriteByte(' ')
		}
	}
	return bw.Flush()
}

// ToSitus renders m as a Situs document.
func ToSitus(m *mrc.Model) (string, error) {
	var b strings.Builder
	if err := WriteSitus(&b, m); err != nil {
		return "", err
	}
	return b.String(), nil
}

// ReadSitus parses a Situs document. The first non-blank line must hold all
// seven header scalars; when any is missing or malformed the error names
// every one of them.
func ReadSitus(r io.Reader) (*mrc.Model, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(nil, 64<<20)

	var header []string
	var samples []float32
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if header == nil {
			header = fields
			continue
		}
		for _, tok := range fields {
			v, err := strconv.ParseFloat(tok, 32)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeValidation, err, "situs sample %d", len(samples))
			}
			samples = append(samples, float32(v))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	var values [7]float64
	var problems []string
	for i, name := range situsFields {
		if i >= len(header) {
			problems = append(problems, "missing "+name)
			continue
		}
		v, err := strconv.ParseFloat(header[i], 64)
		if err != nil {
			problems = append(problems, fmt.Sprintf("malformed %s %q", name, header[i]))
			continue
		}
		values[i] = v
	}
	for i := 4; i < 7; i++ {
		if i < len(header) && values[i] != float64(int(values[i])) {
			problems = append(problems, fmt.Sprintf("%s %q is not an integer", situsFields[i], header[i]))
		}
	}
	if err := errors.Validation("situs header", problems); err != nil {
		return nil, err
	}

	nx, ny, nz := int(values[4]), int(values[5]), int(values[6])
	g, err := volume.FromData(nx, ny, nz, samples)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeValidation, err, "situs data")
	}

	m := mrc.FromGrid(g, values[0])
	m.SetOrigin([3]float64{values[1], values[2], values[3]})
	return m, nil
}

// FromSitus parses a Situs document held in a string.
func FromSitus(text string) (*mrc.Model, error) {
	return ReadSitus(strings.NewReader(text))
}

// ReadSitusFile parses the Situs file at path.
func ReadSitusFile(path string) (*mrc.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.File(path, err)
	}
	defer f.Close()

	m, err := ReadSitus(f)
	if err != nil {
		return nil, errors.File(path, err)
	}
	return m, nil
}

// WriteSitusFile writes m to path in Situs format.
func WriteSitusFile(path string, m *mrc.Model) error {
	if err := m.Validate(); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.File(path, err)
	}
	if err := WriteSitus(f, m); err != nil {
		f.Close()
		return errors.File(path, err)
	}
	if err := f.Close(); err != nil {
		return errors.File(path, err)
	}
	return nil
}
