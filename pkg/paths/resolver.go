package paths

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/arthur-debert/flnk/pkg/errors"
	"github.com/arthur-debert/flnk/pkg/types"
)

// State is the classification of a path.
type State int

const (
	StateMissing State = iota
	StateFile
	StateDirectory
	StateSymlink
)

func (s State) String() string {
	switch s {
	case StateMissing:
		return "missing"
	case StateFile:
		return "file"
	case StateDirectory:
		return "directory"
	case StateSymlink:
		return "symlink"
	default:
		return "unknown"
	}
}

// Resolver classifies paths and computes relative link targets.
type Resolver struct {
	fs types.FS
}

// NewResolver creates a Resolver over the given filesystem.
func NewResolver(fsys types.FS) *Resolver {
	return &Resolver{fs: fsys}
}

// Classify reports what exists at path without following a final symlink.
func (r *Resolver) Classify(path string) (State, error) {
	info, err := r.fs.Lstat(path)
	if err != nil {
		if isMissing(err) {
			return StateMissing, nil
		}
		return StateMissing, unresolvable(err, path)
	}
	switch mode := info.Mode(); {
	case mode&os.ModeSymlink != 0:
		return StateSymlink, nil
	case mode.IsDir():
		return StateDirectory, nil
	default:
		return StateFile, nil
	}
}

// IsDirectory reports whether path resolves, following symlinks, to a
// directory. A missing path is not a directory.
func (r *Resolver) IsDirectory(path string) (bool, error) {
	info, err := r.fs.Stat(path)
	if err != nil {
		if isMissing(err) {
			return false, nil
		}
		return false, unresolvable(err, path)
	}
	return info.IsDir(), nil
}

// Canonicalize returns the absolute form of path with every symlink in its
// existing prefix resolved. Components that do not exist yet are appended
// unchanged.
func (r *Resolver) Canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", unresolvable(err, path)
	}
	return r.canonicalize(abs)
}

func (r *Resolver) canonicalize(abs string) (string, error) {
	resolved, err := r.fs.EvalSymlinks(abs)
	if err == nil {
		return resolved, nil
	}
	if !isMissing(err) {
		return "", unresolvable(err, abs)
	}
	parent := filepath.Dir(abs)
	if parent == abs {
		return abs, nil
	}
	canonParent, err := r.canonicalize(parent)
	if err != nil {
		return "", err
	}
	return filepath.Join(canonParent, filepath.Base(abs)), nil
}

// CanonicalizeEntry resolves the parent of path but keeps the final
// component, so a symlink target is linked as itself rather than through it.
func (r *Resolver) CanonicalizeEntry(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", unresolvable(err, path)
	}
	parent := filepath.Dir(abs)
	if parent == abs {
		return abs, nil
	}
	canonParent, err := r.canonicalize(parent)
	if err != nil {
		return "", err
	}
	return filepath.Join(canonParent, filepath.Base(abs)), nil
}

// RelPath is the result of RelativePath.
type RelPath struct {
	// Segments are the path components, ".." first. Empty means the
	// target is the directory itself.
	Segments []string
	// Absolute is set when no common prefix exists.
	Absolute bool
	// Target is the absolute canonical target.
	Target string
}

// String renders the path as link target text.
func (p RelPath) String() string {
	if p.Absolute {
		return p.Target
	}
	if len(p.Segments) == 0 {
		return "."
	}
	return strings.Join(p.Segments, string(filepath.Separator))
}

// ResolveFrom joins the path onto dir the way the kernel resolves a
// symlink stored in dir.
func (p RelPath) ResolveFrom(dir string) string {
	if p.Absolute {
		return p.Target
	}
	return filepath.Join(dir, p.String())
}

// RelativePath computes the path that reaches target when resolved from
// fromDir. Both locations are canonicalized first; target's final
// component is not followed.
func (r *Resolver) RelativePath(fromDir, target string) (RelPath, error) {
	from, err := r.Canonicalize(fromDir)
	if err != nil {
		return RelPath{}, err
	}
	to, err := r.CanonicalizeEntry(target)
	if err != nil {
		return RelPath{}, err
	}

	if filepath.VolumeName(from) != filepath.VolumeName(to) {
		return RelPath{Absolute: true, Target: to}, nil
	}

	fromParts := splitPath(from)
	toParts := splitPath(to)

	common := 0
	for common < len(fromParts) && common < len(toParts) && fromParts[common] == toParts[common] {
		common++
	}
	if common == 0 {
		return RelPath{Absolute: true, Target: to}, nil
	}

	segments := make([]string, 0, len(fromParts)-common+len(toParts)-common)
	for i := common; i < len(fromParts); i++ {
		segments = append(segments, "..")
	}
	segments = append(segments, toParts[common:]...)
	return RelPath{Segments: segments, Target: to}, nil
}

// splitPath returns the components of an absolute, clean path after its
// volume and root.
func splitPath(p string) []string {
	p = strings.TrimPrefix(p, filepath.VolumeName(p))
	p = strings.Trim(p, string(filepath.Separator))
	if p == "" {
		return nil
	}
	return strings.Split(p, string(filepath.Separator))
}

func isMissing(err error) bool {
	return stderrors.Is(err, fs.ErrNotExist) || stderrors.Is(err, syscall.ENOTDIR)
}

func unresolvable(err error, path string) error {
	return errors.Wrapf(err, errors.ErrUnresolvable, "cannot resolve %s", path).
		WithDetail("path", path)
}
