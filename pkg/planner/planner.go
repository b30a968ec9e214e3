// Package planner turns a LinkRequest into the ordered sequence of
// PlannedLinks the executor will carry out.
//
// Planning happens in two phases. The build phase only reads: it validates
// the request, interprets the operands (link name, directory target, -t and
// -T forms) and walks recursive sources depth-first. The materialize phase
// then creates the destination directories, so every PlannedLink has an
// existing parent by the time it is executed. A PlanError is always
// returned from the build phase, before anything is written.
package planner

import (
	stderrors "errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/flnk/pkg/errors"
	"github.com/arthur-debert/flnk/pkg/logging"
	"github.com/arthur-debert/flnk/pkg/paths"
	"github.com/arthur-debert/flnk/pkg/types"
	"github.com/rs/zerolog"
)

const dirPerm = 0755

// Planner builds link plans over a filesystem.
type Planner struct {
	fs       types.FS
	resolver *paths.Resolver
	logger   zerolog.Logger
}

// New creates a Planner.
func New(fsys types.FS) *Planner {
	return &Planner{
		fs:       fsys,
		resolver: paths.NewResolver(fsys),
		logger:   logging.GetLogger("planner"),
	}
}

// operand is one source paired with its top-level destination.
type operand struct {
	source      string
	destination string
	recursive   bool
}

// Draft is a built plan that has not touched the filesystem yet.
type Draft struct {
	// Links is the planned sequence.
	Links    []types.PlannedLink
	operands []operand
	planner  *Planner
}

// Draft builds the plan for req without touching the filesystem.
func (p *Planner) Draft(req types.LinkRequest) (*Draft, error) {
	operands, plan, err := p.build(req)
	if err != nil {
		return nil, err
	}
	return &Draft{Links: plan, operands: operands, planner: p}, nil
}

// Materialize creates the destination directories the draft needs.
func (d *Draft) Materialize() error {
	return d.planner.materialize(d.operands, d.Links)
}

// Plan builds the plan and creates the destination directories it needs.
func (p *Planner) Plan(req types.LinkRequest) ([]types.PlannedLink, error) {
	d, err := p.Draft(req)
	if err != nil {
		return nil, err
	}
	if err := d.Materialize(); err != nil {
		return nil, err
	}
	return d.Links, nil
}

// Preview builds the plan without touching the filesystem. Directory
// entries are then created by the executor when the plan runs.
func (p *Planner) Preview(req types.LinkRequest) ([]types.PlannedLink, error) {
	d, err := p.Draft(req)
	if err != nil {
		return nil, err
	}
	return d.Links, nil
}

func (p *Planner) build(req types.LinkRequest) ([]operand, []types.PlannedLink, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}

	operands, err := p.operands(req)
	if err != nil {
		return nil, nil, err
	}

	kind := types.KindFor(req.Mode)
	relative := req.Mode == types.ModeSymbolic && req.Relative

	var plan []types.PlannedLink
	for _, op := range operands {
		if !op.recursive {
			plan = append(plan, types.PlannedLink{
				Source:      op.source,
				Destination: op.destination,
				Kind:        kind,
				Relative:    relative,
			})
			continue
		}
		if err := p.walk(op.source, op.destination, kind, relative, &plan); err != nil {
			return nil, nil, err
		}
	}

	p.logger.Debug().
		Int("operands", len(operands)).
		Int("planned", len(plan)).
		Msg("Plan built")
	return operands, plan, nil
}

// operands interprets the destination operand and checks every source.
func (p *Planner) operands(req types.LinkRequest) ([]operand, error) {
	intoDirectory := false
	switch req.Form {
	case types.FormLinkName:
		// Validate has already rejected more than one source.
	case types.FormTargetDirectory:
		if err := p.requireDirectory(req.Destination); err != nil {
			return nil, err
		}
		intoDirectory = true
	default:
		if len(req.Sources) > 1 {
			if err := p.requireDirectory(req.Destination); err != nil {
				return nil, err
			}
			intoDirectory = true
		} else {
			isDir, err := p.resolver.IsDirectory(req.Destination)
			if err != nil {
				return nil, err
			}
			intoDirectory = isDir
		}
	}

	operands := make([]operand, 0, len(req.Sources))
	for _, src := range req.Sources {
		state, err := p.resolver.Classify(src)
		if err != nil {
			return nil, err
		}
		if state == paths.StateMissing {
			return nil, errors.Newf(errors.ErrSourceMissing,
				"failed to access %s: no such file or directory", src).
				WithDetail("source", src)
		}

		dst := req.Destination
		if intoDirectory {
			dst = filepath.Join(req.Destination, filepath.Base(filepath.Clean(src)))
		}

		recursive := state == paths.StateDirectory &&
			(req.Mode == types.ModeHard || req.FilesOnly)
		if recursive {
			if err := p.checkTreeRoot(src, dst); err != nil {
				return nil, err
			}
		}

		operands = append(operands, operand{source: src, destination: dst, recursive: recursive})
	}
	return operands, nil
}

func (p *Planner) requireDirectory(dir string) error {
	isDir, err := p.resolver.IsDirectory(dir)
	if err != nil {
		return err
	}
	if !isDir {
		return errors.Newf(errors.ErrDestinationNotDirectory,
			"target %s is not a directory", dir).
			WithDetail("destination", dir)
	}
	return nil
}

// checkTreeRoot rejects recursive roots that would overwrite a
// non-directory or nest the mirror inside its own source.
func (p *Planner) checkTreeRoot(src, dst string) error {
	state, err := p.resolver.Classify(dst)
	if err != nil {
		return err
	}
	if state != paths.StateMissing {
		isDir, err := p.resolver.IsDirectory(dst)
		if err != nil {
			return err
		}
		if !isDir {
			return errors.Newf(errors.ErrDestinationNotDirectory,
				"cannot mirror directory %s onto non-directory %s", src, dst).
				WithDetail("source", src).
				WithDetail("destination", dst)
		}
	}

	canonSrc, err := p.resolver.Canonicalize(src)
	if err != nil {
		return err
	}
	canonDst, err := p.resolver.Canonicalize(dst)
	if err != nil {
		return err
	}
	if canonDst == canonSrc || strings.HasPrefix(canonDst, canonSrc+string(filepath.Separator)) {
		return errors.Newf(errors.ErrInvalidInput,
			"cannot mirror directory %s into itself (%s)", src, dst).
			WithDetail("source", src).
			WithDetail("destination", dst)
	}
	return nil
}

// walk appends the subtree of src level by level: the child directories
// of a directory first, then its other entries, then the contents of each
// child directory. Symlinked directories are leaves.
func (p *Planner) walk(src, dst string, kind types.Kind, relative bool, plan *[]types.PlannedLink) error {
	entries, err := p.fs.ReadDir(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrUnresolvable, "cannot read directory %s", src).
			WithDetail("path", src)
	}

	var subdirs []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		subdirs = append(subdirs, entry.Name())
		*plan = append(*plan, types.PlannedLink{
			Source:      filepath.Join(src, entry.Name()),
			Destination: filepath.Join(dst, entry.Name()),
			Kind:        types.KindDirectory,
		})
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		*plan = append(*plan, types.PlannedLink{
			Source:      filepath.Join(src, entry.Name()),
			Destination: filepath.Join(dst, entry.Name()),
			Kind:        kind,
			Relative:    relative,
		})
	}

	for _, name := range subdirs {
		if err := p.walk(filepath.Join(src, name), filepath.Join(dst, name), kind, relative, plan); err != nil {
			return err
		}
	}
	return nil
}

// materialize creates the parents of top-level destinations, the roots of
// recursive trees, and every directory entry that does not exist yet.
// Directory entries blocked by an existing non-directory are left for the
// executor, which applies the conflict policy to them.
//
// Parents are created for every operand before anything else. If one of
// them cannot be created, the directories made for earlier operands are
// removed again, so a DIR_CREATE failure leaves the filesystem as it was.
func (p *Planner) materialize(operands []operand, plan []types.PlannedLink) error {
	var made []string
	for _, op := range operands {
		dir := filepath.Dir(op.destination)
		if op.recursive {
			dir = op.destination
		}
		if err := p.mkdirs(dir, &made); err != nil {
			p.rollback(made)
			return errors.Wrapf(err, errors.ErrDirCreate, "cannot create directory %s", dir).
				WithDetail("path", dir)
		}
	}

	created := 0
	for _, link := range plan {
		if !link.IsDirectory() {
			continue
		}
		state, err := p.resolver.Classify(link.Destination)
		if err != nil || state != paths.StateMissing {
			continue
		}
		if err := p.fs.Mkdir(link.Destination, dirPerm); err != nil {
			p.logger.Debug().Err(err).Str("path", link.Destination).Msg("Deferring directory creation to executor")
			continue
		}
		created++
	}

	p.logger.Debug().Int("directories", created).Msg("Destination directories created")
	return nil
}

// mkdirs creates dir and any missing ancestors, appending each directory it
// creates to made, outermost first.
func (p *Planner) mkdirs(dir string, made *[]string) error {
	var missing []string
	for cur := filepath.Clean(dir); ; cur = filepath.Dir(cur) {
		if _, err := p.fs.Lstat(cur); err == nil {
			break
		} else if !stderrors.Is(err, fs.ErrNotExist) {
			return err
		}
		missing = append(missing, cur)
		if parent := filepath.Dir(cur); parent == cur {
			break
		}
	}

	for i := len(missing) - 1; i >= 0; i-- {
		if err := p.fs.Mkdir(missing[i], dirPerm); err != nil {
			return err
		}
		*made = append(*made, missing[i])
	}
	return nil
}

// rollback removes the directories in made, innermost first.
func (p *Planner) rollback(made []string) {
	for i := len(made) - 1; i >= 0; i-- {
		if err := p.fs.Remove(made[i]); err != nil {
			p.logger.Warn().Err(err).Str("path", made[i]).Msg("Cannot remove created directory")
		}
	}
}
