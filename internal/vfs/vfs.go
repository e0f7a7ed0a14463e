// Package vfs is the virtual filesystem abstraction of spec.md §4:
// a uniform cache over an in-memory or on-disk filesystem, backed by
// spf13/afero so the same code path serves real runs and tests.
package vfs

import (
	"os"
	"time"

	"github.com/spf13/afero"

	"github.com/v1kko/entangled/internal/hashutil"
)

// FS wraps an afero.Fs with the read/write/glob operations the core
// needs, plus an IsReal flag used to decide whether the file database
// should take its advisory lock (spec.md §5: "when the virtual filesystem
// is in-memory (tests), locking is bypassed").
type FS struct {
	afero.Fs
	real bool
}

// NewOS returns an FS backed by the real filesystem rooted at cwd.
func NewOS() *FS {
	return &FS{Fs: afero.NewOsFs(), real: true}
}

// NewMemory returns an FS backed by an in-memory filesystem, used by
// tests to exercise the whole pipeline without touching disk and without
// taking the database lock.
func NewMemory() *FS {
	return &FS{Fs: afero.NewMemMapFs(), real: false}
}

// IsReal reports whether this FS is backed by the real filesystem.
func (f *FS) IsReal() bool {
	return f.real
}

// Exists reports whether path exists.
func (f *FS) Exists(path string) bool {
	ok, err := afero.Exists(f.Fs, path)
	return err == nil && ok
}

// ReadString reads the full contents of path as a string.
func (f *FS) ReadString(path string) (string, error) {
	data, err := afero.ReadFile(f.Fs, path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteString writes content to path, creating parent directories as
// needed, preserving the file's existing mode if it already exists.
func (f *FS) WriteString(path, content string) error {
	mode := os.FileMode(0o644)
	if info, err := f.Fs.Stat(path); err == nil {
		mode = info.Mode()
	}
	if err := f.Fs.MkdirAll(dirOf(path), 0o755); err != nil {
		return err
	}
	return afero.WriteFile(f.Fs, path, []byte(content), mode)
}

// Remove deletes path if it exists; removing an absent path is not an
// error.
func (f *FS) Remove(path string) error {
	if !f.Exists(path) {
		return nil
	}
	return f.Fs.Remove(path)
}

// Glob expands a glob pattern against the filesystem, returning matching
// regular file paths.
func (f *FS) Glob(pattern string) ([]string, error) {
	return afero.Glob(f.Fs, pattern)
}

// Stat is the recorded state of a file: modification time, size, and
// content hex digest (spec.md §3). Two Stats are equal iff all three
// match.
type Stat struct {
	ModTime time.Time `json:"mtime"`
	Size    int64     `json:"size"`
	Hex     string    `json:"hex"`
}

// StatOf computes the current Stat of path, reading its content to
// compute the digest.
func (f *FS) StatOf(path string) (Stat, error) {
	info, err := f.Fs.Stat(path)
	if err != nil {
		return Stat{}, err
	}
	content, err := f.ReadString(path)
	if err != nil {
		return Stat{}, err
	}
	return Stat{ModTime: info.ModTime(), Size: info.Size(), Hex: hashutil.Digest(content)}, nil
}

func dirOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[:i]
		}
	}
	return "."
}
