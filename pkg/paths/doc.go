// Package paths resolves and classifies the filesystem paths a link run
// touches.
//
// Classify inspects a path without following a final symlink, so a dangling
// symlink is reported as StateSymlink rather than StateMissing. Canonicalize
// resolves symlinks in the existing prefix of a path and keeps the missing
// remainder verbatim, which lets relative link targets be computed before
// the destination directories exist.
//
// RelativePath computes the ".."-prefixed path that reaches a target from a
// directory:
//
//	r := paths.NewResolver(filesystem.NewOS())
//	rel, err := r.RelativePath("/data/dst", "/data/src/dir")
//	// rel.String() == "../src/dir"
//
// When the two locations share nothing but the filesystem root (or live on
// different volumes) the result degrades to the absolute canonical target.
// That fallback is a valid result, never an error.
package paths
