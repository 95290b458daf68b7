package gpxfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var ErrBadName = errors.New("invalid file name")

// Uploads is the directory uploaded documents live in.
type Uploads struct {
	Dir string
}

func NewUploads(dir string) (*Uploads, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &Uploads{Dir: dir}, nil
}

// List returns the names of the regular files in the directory, in the order
// the directory is read.
func (u *Uploads) List() ([]string, error) {
	entries, err := os.ReadDir(u.Dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// SchemaName returns the first .xsd file of the directory, or "" if there is
// none.
func (u *Uploads) SchemaName() (string, error) {
	names, err := u.List()
	if err != nil {
		return "", err
	}
	for _, n := range names {
		if IsSchemaFile(n) {
			return n, nil
		}
	}
	return "", nil
}

// Path resolves a bare file name inside the directory.
func (u *Uploads) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrBadName, name)
	}
	return filepath.Join(u.Dir, name), nil
}

// Exists reports whether name is a file in the directory.
func (u *Uploads) Exists(name string) bool {
	p, err := u.Path(name)
	if err != nil {
		return false
	}
	st, err := os.Stat(p)
	return err == nil && st.Mode().IsRegular()
}

func IsSchemaFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".xsd")
}

func IsGPXFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".gpx")
}
