package filesystem

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/arthur-debert/flnk/pkg/types"
)

// VolumeFS wraps a types.FS and assigns every path to a simulated volume
// by its longest matching mount point. Hard links and renames between two
// volumes fail with EXDEV, exactly as they would across real filesystems.
// Paths outside every mount point belong to the unnamed root volume.
type VolumeFS struct {
	types.FS
	mounts []string
}

// NewVolumeFS creates a VolumeFS over base with the given mount points.
func NewVolumeFS(base types.FS, mounts ...string) *VolumeFS {
	cleaned := make([]string, 0, len(mounts))
	for _, m := range mounts {
		if abs, err := filepath.Abs(m); err == nil {
			cleaned = append(cleaned, abs)
		}
	}
	// Longest first so nested mounts win.
	sort.Slice(cleaned, func(i, j int) bool { return len(cleaned[i]) > len(cleaned[j]) })
	return &VolumeFS{FS: base, mounts: cleaned}
}

// VolumeOf returns the mount point that owns path, or "" for the root volume.
func (v *VolumeFS) VolumeOf(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return ""
	}
	for _, m := range v.mounts {
		if abs == m || strings.HasPrefix(abs, m+string(filepath.Separator)) {
			return m
		}
	}
	return ""
}

func (v *VolumeFS) Link(oldname, newname string) error {
	if v.VolumeOf(oldname) != v.VolumeOf(newname) {
		return &os.LinkError{Op: "link", Old: oldname, New: newname, Err: syscall.EXDEV}
	}
	return v.FS.Link(oldname, newname)
}

func (v *VolumeFS) Rename(oldpath, newpath string) error {
	if v.VolumeOf(oldpath) != v.VolumeOf(newpath) {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EXDEV}
	}
	return v.FS.Rename(oldpath, newpath)
}
