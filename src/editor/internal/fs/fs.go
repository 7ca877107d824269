package fs

import (
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"

	"go.uber.org/fx"
)

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// EditorFS wraps the filesystem operations used by the editor service.
type EditorFS interface {
	MkdirAll(path string) error
	DirExists(path string) (bool, error)
	FileExists(path string) (bool, error)
	ReadFile(name string) ([]byte, error)
	// WriteFile replaces the file atomically, creating parent directories as needed.
	WriteFile(name string, data []byte) error
	Remove(name string) error
}

type fsImpl struct{}

// New creates a new EditorFS.
func New() EditorFS {
	return fsImpl{}
}

// MkdirAll creates a directory and all its parents.
func (fsImpl) MkdirAll(path string) error { return os.MkdirAll(path, os.ModePerm) }

func (fsImpl) DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}

func (fsImpl) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

func (fsImpl) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

func (f fsImpl) WriteFile(name string, data []byte) error {
	dir := filepath.Dir(name)
	if err := f.MkdirAll(dir); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(name)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), name)
}

func (fsImpl) Remove(name string) error {
	return os.Remove(name)
}
