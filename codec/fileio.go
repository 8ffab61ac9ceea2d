package codec

import (
	"os"
	"path/filepath"
)

// FileIO is the file collaborator used for import/export, kept narrow
// so tests can substitute an in-memory fake.
type FileIO interface {
	WriteBytes(path string, data []byte) error
	ReadBytes(path string) ([]byte, error)
}

// OSFileIO reads and writes real files. Writes go to a temp file first
// and are renamed into place, so a failed export never leaves a
// half-written document behind.
type OSFileIO struct{}

func (OSFileIO) WriteBytes(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (OSFileIO) ReadBytes(path string) ([]byte, error) {
	return os.ReadFile(path)
}
