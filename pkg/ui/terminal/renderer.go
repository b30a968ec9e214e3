// Package terminal provides rich terminal output with colors and styling
package terminal

import (
	"fmt"
	"io"

	"github.com/arthur-debert/flnk/pkg/errors"
	"github.com/arthur-debert/flnk/pkg/style"
	"github.com/arthur-debert/flnk/pkg/types"
)

// labelWidth fits the longest status label.
const labelWidth = 9

// Renderer provides styled terminal output
type Renderer struct {
	output io.Writer
}

// New creates a new terminal renderer
func New(w io.Writer) *Renderer {
	return &Renderer{output: w}
}

// RenderEntry writes a status label followed by the styled link.
func (r *Renderer) RenderEntry(e types.Entry) error {
	label := style.ForStatus(e.Outcome.Status).Render(fmt.Sprintf("%-*s", labelWidth, Label(e)))
	path := style.Get("Path")

	line := label + " " + path.Render(e.Link.Destination)
	if !e.Link.IsDirectory() {
		arrow := "=>"
		if e.Link.Kind == types.KindSymbolic {
			arrow = "->"
		}
		line += " " + style.Get("Muted").Render(arrow) + " " + path.Render(e.Link.Source)
	}

	switch e.Outcome.Status {
	case types.StatusBackedUpAndCreated:
		line += " " + style.Get("Muted").Render("(backup: "+e.Outcome.BackupPath+")")
	case types.StatusSkipped, types.StatusFailed:
		if e.Outcome.Err != nil {
			line += "  " + style.Get("Reason").Render(errors.Message(e.Outcome.Err))
		}
	}

	_, err := fmt.Fprintln(r.output, line)
	return err
}

// RenderReport writes the styled summary.
func (r *Renderer) RenderReport(report *types.RunReport) error {
	c := report.Counts
	parts := []string{
		style.Get("Created").Render(fmt.Sprintf("%d created", c.Created)),
		style.Get("BackedUp").Render(fmt.Sprintf("%d backed up", c.BackedUp)),
		style.Get("Skipped").Render(fmt.Sprintf("%d skipped", c.Skipped)),
		style.Get("Failed").Render(fmt.Sprintf("%d failed", c.Failed)),
	}
	line := parts[0]
	for _, p := range parts[1:] {
		line += style.Get("Muted").Render(", ") + p
	}
	if report.Interrupted {
		line += " " + style.Get("Skipped").Render(
			fmt.Sprintf("(interrupted after %d of %d)", c.Total(), report.Planned))
	}
	_, err := fmt.Fprintln(r.output, line)
	return err
}

// RenderError renders an error with appropriate formatting
func (r *Renderer) RenderError(err error) error {
	_, err2 := fmt.Fprintln(r.output,
		style.Get("Failed").Render("Error:")+" "+errors.Message(err))
	return err2
}

// Label names the outcome of e.
func Label(e types.Entry) string {
	switch e.Outcome.Status {
	case types.StatusCreated:
		if e.Link.IsDirectory() {
			return "directory"
		}
		return "linked"
	case types.StatusBackedUpAndCreated:
		return "replaced"
	case types.StatusSkipped:
		return "skipped"
	case types.StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}
