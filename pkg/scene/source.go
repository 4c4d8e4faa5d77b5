package scene

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Source is the file collaborator used by the loader: it reads bytes,
// canonicalizes paths into cache keys, and resolves sub-document file names
// against their parent's directory.
type Source interface {
	ReadFile(name string) ([]byte, error)
	Abs(name string) (string, error)
	Dir(name string) string
	Join(dir, name string) string
}

// OSSource reads from the host file system.
type OSSource struct{}

func (OSSource) ReadFile(name string) ([]byte, error) { return os.ReadFile(name) }

func (OSSource) Abs(name string) (string, error) { return filepath.Abs(name) }

func (OSSource) Dir(name string) string { return filepath.Dir(name) }

func (OSSource) Join(dir, name string) string { return filepath.Join(dir, filepath.FromSlash(name)) }

// FSSource reads from an fs.FS, such as the embedded sample assets or a
// testing/fstest.MapFS. Paths are slash-separated and rooted at the FS root.
type FSSource struct {
	FS fs.FS
}

func (s FSSource) ReadFile(name string) ([]byte, error) {
	key, err := s.Abs(name)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(s.FS, key)
}

func (FSSource) Abs(name string) (string, error) {
	key := path.Clean(strings.TrimPrefix(filepath.ToSlash(name), "/"))
	if !fs.ValidPath(key) {
		return "", fmt.Errorf("invalid path '%s': %w", name, fs.ErrInvalid)
	}
	return key, nil
}

func (FSSource) Dir(name string) string { return path.Dir(name) }

func (FSSource) Join(dir, name string) string { return path.Join(dir, filepath.ToSlash(name)) }
