package types

import (
	"io/fs"
)

// FS is the filesystem interface required for link operations
type FS interface {
	// Stat follows symlinks: a dangling link reports fs.ErrNotExist.
	Stat(name string) (fs.FileInfo, error)
	// Lstat never follows the final path element.
	Lstat(name string) (fs.FileInfo, error)

	// Symlink operations
	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)

	// Other operations
	Rename(oldpath, newpath string) error
	Remove(name string) error
}

// Installer carries out a single link request.
type Installer interface {
	Install(req LinkRequest) (LinkOutcome, error)
}
