package mrc

import (
	"bufio"
	"os"

	"mrcvol/pkg/errors"
)

// ReadFile decodes the map stored at path. The file is closed before
// ReadFile returns.
func ReadFile(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.File(path, err)
	}
	defer f.Close()

	m, err := Decode(bufio.NewReader(f))
	if err != nil {
		return nil, errors.File(path, err)
	}
	return m, nil
}

// WriteFile encodes m to path, replacing any existing file. An invalid
// model is rejected before the file is touched.
func WriteFile(path string, m *Model) error {
	if err := m.Validate(); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.File(path, err)
	}

	if err := Encode(f, m); err != nil {
		f.Close()
		return errors.File(path, err)
	}
	if err := f.Close(); err != nil {
		return errors.File(path, err)
	}
	return nil
}
