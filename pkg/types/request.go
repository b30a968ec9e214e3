package types

import (
	"github.com/arthur-debert/flnk/pkg/errors"
)

// Mode selects the kind of link created for non-directory entries.
type Mode int

const (
	ModeHard Mode = iota
	ModeSymbolic
)

func (m Mode) String() string {
	if m == ModeSymbolic {
		return "symbolic"
	}
	return "hard"
}

// Form selects how the destination operand is interpreted.
type Form int

const (
	// FormAuto: a single source links to Destination verbatim unless
	// Destination is an existing directory; several sources require one.
	FormAuto Form = iota
	// FormTargetDirectory is the -t DIRECTORY form.
	FormTargetDirectory
	// FormLinkName is the -T form: Destination is always the link name.
	FormLinkName
)

// DefaultBackupSuffix is appended to a destination that is renamed aside.
const DefaultBackupSuffix = "~"

// LinkRequest is the immutable configuration of one invocation.
type LinkRequest struct {
	Sources     []string
	Destination string
	Form        Form
	Mode        Mode

	// Relative is only meaningful with ModeSymbolic.
	Relative bool
	Force    bool
	// Backup takes precedence over Force when both are set.
	Backup       bool
	BackupSuffix string
	// FilesOnly makes symbolic mode mirror source directories and link
	// only their non-directory entries.
	FilesOnly bool
	Verbose   bool
}

// Policy returns the conflict policy carried by the request.
func (r LinkRequest) Policy() Policy {
	return Policy{Force: r.Force, Backup: r.Backup, Suffix: r.Suffix()}
}

// Suffix returns the backup suffix, falling back to the default.
func (r LinkRequest) Suffix() string {
	if r.BackupSuffix == "" {
		return DefaultBackupSuffix
	}
	return r.BackupSuffix
}

// Validate checks the invariants that do not need the filesystem.
func (r LinkRequest) Validate() error {
	if len(r.Sources) == 0 {
		return errors.New(errors.ErrInvalidInput, "missing file operand")
	}
	for _, src := range r.Sources {
		if src == "" {
			return errors.New(errors.ErrInvalidInput, "empty source operand")
		}
	}
	if r.Destination == "" {
		return errors.New(errors.ErrInvalidInput, "missing destination operand")
	}
	if r.Relative && r.Mode != ModeSymbolic {
		return errors.New(errors.ErrInvalidInput, "cannot do --relative without --symbolic")
	}
	if r.FilesOnly && r.Mode != ModeSymbolic {
		return errors.New(errors.ErrInvalidInput, "cannot do --files-only without --symbolic")
	}
	if r.Form == FormLinkName && len(r.Sources) > 1 {
		return errors.Newf(errors.ErrAmbiguousArity,
			"-T takes a single target, got %d", len(r.Sources)).
			WithDetail("sources", r.Sources)
	}
	return nil
}
