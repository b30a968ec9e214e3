// Package conflicts decides what happens to an existing entry at a planned
// link destination. Resolve is a pure function of the destination state and
// the policy flags; it never touches the filesystem.
package conflicts

import (
	"github.com/arthur-debert/flnk/pkg/errors"
	"github.com/arthur-debert/flnk/pkg/paths"
	"github.com/arthur-debert/flnk/pkg/types"
)

// DestinationState is what currently occupies a destination path.
type DestinationState int

const (
	Absent DestinationState = iota
	ExistsFile
	ExistsDir
	ExistsSymlink
)

func (s DestinationState) String() string {
	switch s {
	case Absent:
		return "absent"
	case ExistsFile:
		return "file"
	case ExistsDir:
		return "directory"
	case ExistsSymlink:
		return "symlink"
	default:
		return "unknown"
	}
}

// StateFromPath maps a resolver classification to a destination state.
func StateFromPath(s paths.State) DestinationState {
	switch s {
	case paths.StateFile:
		return ExistsFile
	case paths.StateDirectory:
		return ExistsDir
	case paths.StateSymlink:
		return ExistsSymlink
	default:
		return Absent
	}
}

// ActionType is the decision taken for a destination.
type ActionType int

const (
	ProceedDirect ActionType = iota
	RemoveThenProceed
	BackupThenProceed
	Abort
)

func (a ActionType) String() string {
	switch a {
	case ProceedDirect:
		return "proceed"
	case RemoveThenProceed:
		return "replace"
	case BackupThenProceed:
		return "backup"
	case Abort:
		return "abort"
	default:
		return "unknown"
	}
}

// Action is the outcome of Resolve.
type Action struct {
	Type ActionType
	// BackupName is set for BackupThenProceed.
	BackupName string
	// Reason is set for Abort; its code is ErrIsADirectory or
	// ErrDestinationExists.
	Reason *errors.FlnkError
}

// Request describes one destination to resolve.
type Request struct {
	Destination string
	State       DestinationState
	Policy      types.Policy
	// DirectoryMerge marks a directory-merge step of a recursive tree; an
	// existing directory is then merged into rather than refused.
	DirectoryMerge bool
}

// Resolve applies the conflict rules in precedence order:
//
//  1. absent destinations proceed directly;
//  2. an existing directory is refused unless the step merges into it;
//  3. backup renames the destination aside (single generation);
//  4. force removes it;
//  5. otherwise the entry is refused.
func Resolve(req Request) Action {
	switch {
	case req.State == Absent:
		return Action{Type: ProceedDirect}
	case req.State == ExistsDir && req.DirectoryMerge:
		return Action{Type: ProceedDirect}
	case req.State == ExistsDir:
		return Action{
			Type: Abort,
			Reason: errors.Newf(errors.ErrIsADirectory,
				"cannot overwrite directory %s", req.Destination).
				WithDetail("destination", req.Destination),
		}
	case req.Policy.Backup:
		return Action{Type: BackupThenProceed, BackupName: BackupName(req.Destination, req.Policy.Suffix)}
	case req.Policy.Force:
		return Action{Type: RemoveThenProceed}
	default:
		return Action{
			Type: Abort,
			Reason: errors.Newf(errors.ErrDestinationExists,
				"%s exists", req.Destination).
				WithDetail("destination", req.Destination),
		}
	}
}

// BackupName returns the single-generation backup path for destination.
func BackupName(destination, suffix string) string {
	if suffix == "" {
		suffix = types.DefaultBackupSuffix
	}
	return destination + suffix
}
