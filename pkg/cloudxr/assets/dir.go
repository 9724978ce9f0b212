// Package assets provides AssetStore implementations for hosts that keep
// engine assets on disk.
package assets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Dir serves assets from a directory tree. Names are slash separated and
// relative to the root; names that escape the root are rejected.
type Dir struct {
	root string
}

// NewDir returns a store rooted at root.
func NewDir(root string) (*Dir, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("asset root: %w", err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("asset root %q is not a directory", root)
	}
	return &Dir{root: abs}, nil
}

// Open opens the named asset for reading.
func (d *Dir) Open(name string) (io.ReadCloser, error) {
	path, err := d.resolve(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path) // #nosec G304 -- path validated by resolve
	if err != nil {
		return nil, fmt.Errorf("open asset: %w", err)
	}
	return f, nil
}

func (d *Dir) resolve(name string) (string, error) {
	if name == "" || filepath.IsAbs(name) {
		return "", fmt.Errorf("invalid asset name %q", name)
	}
	path := filepath.Join(d.root, filepath.FromSlash(name))
	rel, err := filepath.Rel(d.root, path)
	if err != nil {
		return "", fmt.Errorf("relative path: %w", err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("asset %q escapes the asset root", name)
	}
	return path, nil
}
