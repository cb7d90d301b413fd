// Package fsops provides the filesystem operations prod2lab needs.
//
// Documents are read whole and written with AtomicWrite, so a failed run
// never leaves a half-written YAML file behind. Everything goes through the
// FS interface so the engine can be exercised against failing or in-memory
// filesystems.
package fsops

import (
	"os"
	"path/filepath"

	"github.com/juju/errors"
)

// FS provides an abstraction for filesystem operations.
type FS interface {
	// ReadFile reads the entire contents of a file.
	ReadFile(path string) ([]byte, error)

	// AtomicWrite replaces path with data, creating parent directories.
	// Readers see either the old content or the new, never a mix.
	AtomicWrite(path string, data []byte, perm os.FileMode) error

	// Exists checks if a path exists.
	Exists(path string) (bool, error)

	// Lstat returns file info without following symlinks.
	Lstat(path string) (os.FileInfo, error)
}

// RealFS implements FS using actual OS operations.
type RealFS struct{}

// NewRealFS creates a new RealFS.
func NewRealFS() *RealFS {
	return &RealFS{}
}

// ReadFile reads the entire contents of a file.
func (fs *RealFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// AtomicWrite writes data to a temp file beside path and renames it over
// path.
func (fs *RealFS) AtomicWrite(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Annotatef(err, "failed to create %s", dir)
	}

	tmpPath, err := writeTemp(dir, data, perm)
	if err != nil {
		return errors.Trace(err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Annotatef(err, "failed to replace %s", path)
	}
	return nil
}

// writeTemp writes data to a new temp file in dir and returns its path. The
// file is removed again on any failure.
func writeTemp(dir string, data []byte, perm os.FileMode) (path string, err error) {
	f, err := os.CreateTemp(dir, ".prod2lab-tmp-*")
	if err != nil {
		return "", errors.Annotate(err, "failed to create temp file")
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if _, err = f.Write(data); err != nil {
		return "", errors.Annotate(err, "failed to write temp file")
	}
	if err = f.Sync(); err != nil {
		return "", errors.Annotate(err, "failed to sync temp file")
	}
	if err = f.Chmod(perm); err != nil {
		return "", errors.Annotate(err, "failed to set permissions")
	}
	if err = f.Close(); err != nil {
		return "", errors.Annotate(err, "failed to close temp file")
	}
	return f.Name(), nil
}

// Exists checks if a path exists.
func (fs *RealFS) Exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, err
	}
}

// Lstat returns file info without following symlinks.
func (fs *RealFS) Lstat(path string) (os.FileInfo, error) {
	return os.Lstat(path)
}
