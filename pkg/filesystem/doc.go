// Package filesystem provides filesystem implementations for flnk.
//
// This package contains implementations of the types.FS interface: the
// standard OS filesystem, and a volume-partitioning wrapper used to model
// trees that span several filesystems.
package filesystem
