package types

import (
	"io/fs"
)

// FS defines the filesystem operations consumed by the link engine.
// Every method is fallible; callers map failures into per-entry outcomes.
type FS interface {
	// Metadata
	Stat(name string) (fs.FileInfo, error)
	Lstat(name string) (fs.FileInfo, error)
	EvalSymlinks(path string) (string, error)

	// Directory operations
	Mkdir(path string, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Link operations
	Link(oldname, newname string) error
	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)

	// Other operations
	Rename(oldpath, newpath string) error
	Remove(name string) error
}
