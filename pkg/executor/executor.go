// Package executor carries out a single PlannedLink against the filesystem
// and reports its LinkOutcome. It never recurses and never looks at other
// entries, so independent entries can be executed concurrently.
//
// Replacing an existing destination is atomic: the new link is created
// under a temporary sibling name and then renamed over the destination.
// A link that cannot be created therefore leaves the destination as it was.
package executor

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"syscall"

	"github.com/arthur-debert/flnk/pkg/conflicts"
	"github.com/arthur-debert/flnk/pkg/errors"
	"github.com/arthur-debert/flnk/pkg/logging"
	"github.com/arthur-debert/flnk/pkg/paths"
	"github.com/arthur-debert/flnk/pkg/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const dirPerm = 0755

// Executor executes PlannedLinks.
type Executor struct {
	fs       types.FS
	resolver *paths.Resolver
	logger   zerolog.Logger
	tempName func(destination string) string
}

// New creates an Executor over fsys.
func New(fsys types.FS) *Executor {
	return &Executor{
		fs:       fsys,
		resolver: paths.NewResolver(fsys),
		logger:   logging.GetLogger("executor"),
		tempName: tempSibling,
	}
}

// tempSibling names a hidden entry next to destination, so the final
// rename never crosses a directory.
func tempSibling(destination string) string {
	dir, base := filepath.Split(destination)
	return filepath.Join(dir, "."+base+".flnk-"+uuid.NewString())
}

// Inspect classifies the destination of link and resolves the conflict
// action policy would lead to, without changing anything.
func (e *Executor) Inspect(link types.PlannedLink, policy types.Policy) (conflicts.DestinationState, conflicts.Action, error) {
	state, err := e.resolver.Classify(link.Destination)
	if err != nil {
		return conflicts.Absent, conflicts.Action{}, err
	}
	dest := conflicts.StateFromPath(state)
	action := conflicts.Resolve(conflicts.Request{
		Destination:    link.Destination,
		State:          dest,
		Policy:         policy,
		DirectoryMerge: link.IsDirectory(),
	})
	return dest, action, nil
}

// Execute carries out link under policy.
func (e *Executor) Execute(link types.PlannedLink, policy types.Policy) types.LinkOutcome {
	outcome := e.execute(link, policy)

	ev := e.logger.Debug()
	if outcome.Status == types.StatusFailed {
		ev = e.logger.Warn()
	}
	ev.Str("kind", link.Kind.String()).
		Str("source", link.Source).
		Str("destination", link.Destination).
		Str("status", outcome.Status.String()).
		Err(outcome.Err).
		Msg("Executed link")
	return outcome
}

func (e *Executor) execute(link types.PlannedLink, policy types.Policy) types.LinkOutcome {
	state, action, err := e.Inspect(link, policy)
	if err != nil {
		return types.Failed(err)
	}
	if action.Type == conflicts.Abort {
		return types.Skipped(action.Reason)
	}

	if link.IsDirectory() {
		return e.executeDirectory(link, state, action)
	}

	if state != conflicts.Absent {
		if err := e.checkSameFile(link, policy); err != nil {
			return types.Failed(err)
		}
	}

	if action.Type == conflicts.ProceedDirect {
		if err := e.create(link, link.Destination); err != nil {
			return types.Failed(err)
		}
		return types.Created()
	}

	temp := e.tempName(link.Destination)
	if err := e.create(link, temp); err != nil {
		return types.Failed(err)
	}

	if action.Type == conflicts.BackupThenProceed {
		if err := e.fs.Rename(link.Destination, action.BackupName); err != nil {
			e.discard(temp)
			return types.Failed(errors.Wrapf(err, errors.ErrBackupFailed,
				"cannot back up %s to %s", link.Destination, action.BackupName).
				WithDetail("destination", link.Destination).
				WithDetail("backup", action.BackupName))
		}
		if err := e.fs.Rename(temp, link.Destination); err != nil {
			e.discard(temp)
			// Put the original back so the destination is never left missing.
			if restoreErr := e.fs.Rename(action.BackupName, link.Destination); restoreErr != nil {
				e.logger.Error().Err(restoreErr).
					Str("backup", action.BackupName).
					Msg("Cannot restore backup")
			}
			return types.Failed(errors.Wrapf(err, errors.ErrLinkFailed,
				"cannot create link %s", link.Destination).
				WithDetail("destination", link.Destination))
		}
		return types.BackedUpAndCreated(action.BackupName)
	}

	if err := e.fs.Rename(temp, link.Destination); err != nil {
		e.discard(temp)
		return types.Failed(errors.Wrapf(err, errors.ErrRemoveFailed,
			"cannot replace %s", link.Destination).
			WithDetail("destination", link.Destination))
	}
	return types.Created()
}

// executeDirectory satisfies a directory-merge step. An existing directory
// is kept; anything else in the way is handled by the resolved action.
func (e *Executor) executeDirectory(link types.PlannedLink, state conflicts.DestinationState, action conflicts.Action) types.LinkOutcome {
	if state == conflicts.ExistsDir {
		return types.Created()
	}

	switch action.Type {
	case conflicts.BackupThenProceed:
		if err := e.fs.Rename(link.Destination, action.BackupName); err != nil {
			return types.Failed(errors.Wrapf(err, errors.ErrBackupFailed,
				"cannot back up %s to %s", link.Destination, action.BackupName).
				WithDetail("destination", link.Destination).
				WithDetail("backup", action.BackupName))
		}
	case conflicts.RemoveThenProceed:
		if err := e.fs.Remove(link.Destination); err != nil {
			return types.Failed(errors.Wrapf(err, errors.ErrRemoveFailed,
				"cannot remove %s", link.Destination).
				WithDetail("destination", link.Destination))
		}
	}

	if err := e.fs.Mkdir(link.Destination, dirPerm); err != nil {
		return types.Failed(errors.Wrapf(err, errors.ErrDirCreate,
			"cannot create directory %s", link.Destination).
			WithDetail("path", link.Destination))
	}
	if action.Type == conflicts.BackupThenProceed {
		return types.BackedUpAndCreated(action.BackupName)
	}
	return types.Created()
}

// checkSameFile refuses to replace a destination that already is the
// source. A hard link to the source is only refused without backup:
// with backup the existing link is moved aside and recreated.
func (e *Executor) checkSameFile(link types.PlannedLink, policy types.Policy) error {
	sameFile := func() error {
		return errors.Newf(errors.ErrSameFile,
			"%s and %s are the same file", link.Source, link.Destination).
			WithDetail("source", link.Source).
			WithDetail("destination", link.Destination)
	}

	src, err := e.resolver.CanonicalizeEntry(link.Source)
	if err != nil {
		return err
	}
	dst, err := e.resolver.CanonicalizeEntry(link.Destination)
	if err != nil {
		return err
	}
	if src == dst {
		return sameFile()
	}

	if link.Kind != types.KindHard || policy.Backup {
		return nil
	}
	srcInfo, err := e.fs.Lstat(link.Source)
	if err != nil {
		return nil
	}
	dstInfo, err := e.fs.Lstat(link.Destination)
	if err != nil {
		return nil
	}
	if os.SameFile(srcInfo, dstInfo) {
		return sameFile()
	}
	return nil
}

// create makes the link described by link at path.
func (e *Executor) create(link types.PlannedLink, path string) error {
	if link.Kind == types.KindSymbolic {
		target := link.Source
		if link.Relative {
			rel, err := e.resolver.RelativePath(filepath.Dir(link.Destination), link.Source)
			if err != nil {
				return err
			}
			target = rel.String()
		}
		if err := e.fs.Symlink(target, path); err != nil {
			return errors.Wrapf(err, errors.ErrLinkFailed,
				"cannot create symbolic link %s => %s", link.Destination, target).
				WithDetail("destination", link.Destination).
				WithDetail("target", target)
		}
		return nil
	}

	if err := e.fs.Link(link.Source, path); err != nil {
		if stderrors.Is(err, syscall.EXDEV) {
			return errors.Wrapf(err, errors.ErrCrossDevice,
				"cannot create hard link %s => %s", link.Destination, link.Source).
				WithDetail("source", link.Source).
				WithDetail("destination", link.Destination)
		}
		return errors.Wrapf(err, errors.ErrLinkFailed,
			"cannot create hard link %s => %s", link.Destination, link.Source).
			WithDetail("source", link.Source).
			WithDetail("destination", link.Destination)
	}
	return nil
}

func (e *Executor) discard(path string) {
	if err := e.fs.Remove(path); err != nil {
		e.logger.Debug().Err(err).Str("path", path).Msg("Cannot remove temporary link")
	}
}
