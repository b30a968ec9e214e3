// Package text provides plain text output without any styling
package text

import (
	"fmt"
	"io"

	"github.com/arthur-debert/flnk/pkg/errors"
	"github.com/arthur-debert/flnk/pkg/types"
)

// Renderer provides plain text output without colors or styling
type Renderer struct {
	output io.Writer
}

// New creates a new text renderer
func New(output io.Writer) *Renderer {
	return &Renderer{output: output}
}

// RenderEntry writes one line for e.
func (r *Renderer) RenderEntry(e types.Entry) error {
	_, err := fmt.Fprintln(r.output, Line(e))
	return err
}

// RenderReport writes the summary line.
func (r *Renderer) RenderReport(report *types.RunReport) error {
	_, err := fmt.Fprintln(r.output, Summary(report))
	return err
}

// RenderError renders an error as plain text
func (r *Renderer) RenderError(err error) error {
	_, err2 := fmt.Fprintf(r.output, "Error: %s\n", errors.Message(err))
	return err2
}

// Link renders a planned link the way ln -v does: "=>" for hard links,
// "->" for symbolic ones.
func Link(l types.PlannedLink) string {
	switch l.Kind {
	case types.KindDirectory:
		return fmt.Sprintf("'%s'", l.Destination)
	case types.KindSymbolic:
		return fmt.Sprintf("'%s' -> '%s'", l.Destination, l.Source)
	default:
		return fmt.Sprintf("'%s' => '%s'", l.Destination, l.Source)
	}
}

// Line renders an entry with its outcome.
func Line(e types.Entry) string {
	link := Link(e.Link)
	switch e.Outcome.Status {
	case types.StatusCreated:
		if e.Link.IsDirectory() {
			return "directory " + link
		}
		return link
	case types.StatusBackedUpAndCreated:
		return fmt.Sprintf("%s (backup: '%s')", link, e.Outcome.BackupPath)
	case types.StatusSkipped:
		return fmt.Sprintf("skipped %s: %s", link, reason(e.Outcome.Err))
	case types.StatusFailed:
		return fmt.Sprintf("failed %s: %s", link, reason(e.Outcome.Err))
	default:
		return link
	}
}

// Summary renders the counts of a report.
func Summary(report *types.RunReport) string {
	c := report.Counts
	s := fmt.Sprintf("%d created, %d backed up, %d skipped, %d failed", c.Created, c.BackedUp, c.Skipped, c.Failed)
	if report.Interrupted {
		s += fmt.Sprintf(" (interrupted after %d of %d)", c.Total(), report.Planned)
	}
	return s
}

func reason(err error) string {
	if err == nil {
		return "no reason given"
	}
	return errors.Message(err)
}
