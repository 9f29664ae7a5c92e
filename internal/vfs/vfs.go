// Package vfs provides a virtual filesystem abstraction for testing and production use.
// It wraps afero to provide a consistent interface for filesystem operations.
package vfs

import (
	"os"

	"github.com/spf13/afero"
)

// FS is the filesystem interface used throughout the codebase.
// It provides an abstraction over real and in-memory filesystems.
type FS = afero.Fs

// File is an open file or directory of an FS.
type File = afero.File

// NewOSFS returns a filesystem backed by the real operating system filesystem.
func NewOSFS() FS {
	return afero.NewOsFs()
}

// NewMemMapFS returns an in-memory filesystem for testing purposes.
func NewMemMapFS() FS {
	return afero.NewMemMapFs()
}

// Lstat returns the FileInfo of the named file without following a final symbolic link.
// Filesystems that cannot represent links fall back to Stat, which is equivalent for them.
func Lstat(fs FS, path string) (os.FileInfo, error) {
	if lstater, ok := fs.(afero.Lstater); ok {
		info, _, err := lstater.LstatIfPossible(path)
		return info, err
	}

	return fs.Stat(path)
}

// ReadDirNames returns the names of all entries of the named directory, in directory order.
func ReadDirNames(fs FS, path string) ([]string, error) {
	dir, err := fs.Open(path)
	if err != nil {
		return nil, err
	}

	names, err := dir.Readdirnames(-1)
	if closeErr := dir.Close(); err == nil {
		err = closeErr
	}

	return names, err
}
