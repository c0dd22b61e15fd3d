// Package fs is the filesystem seam used by settings loading and the outline
// reader.
//
// Production code uses [Real]. Tests can substitute any [FS] to observe or
// fail individual calls.
//
//	fsys := fs.NewReal()
//	data, err := fsys.ReadFile("work.actions")
package fs

import (
	"os"
)

// FS is the subset of filesystem operations the program performs.
type FS interface {
	// ReadFile reads a whole file. See [os.ReadFile].
	ReadFile(path string) ([]byte, error)

	// WriteFileAtomic replaces path with data through a temp file and
	// rename, creating missing parent directories first. A crash never
	// leaves a half-written file behind.
	WriteFileAtomic(path string, data []byte, perm os.FileMode) error

	// ReadDir lists a directory sorted by name. See [os.ReadDir].
	ReadDir(path string) ([]os.DirEntry, error)

	// MkdirAll creates path and any parents. See [os.MkdirAll].
	MkdirAll(path string, perm os.FileMode) error

	// Stat returns file info. See [os.Stat].
	Stat(path string) (os.FileInfo, error)

	// Exists reports whether path exists.
	// Returns (false, nil) if not found, (false, err) on other errors.
	Exists(path string) (bool, error)
}
