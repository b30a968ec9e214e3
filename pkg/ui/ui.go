// Package ui renders run results in different formats: terminal (styled),
// text (plain) and JSON.
package ui

import (
	"io"
	"os"

	"github.com/arthur-debert/flnk/pkg/errors"
	"github.com/arthur-debert/flnk/pkg/types"
	"github.com/arthur-debert/flnk/pkg/ui/json"
	"github.com/arthur-debert/flnk/pkg/ui/terminal"
	"github.com/arthur-debert/flnk/pkg/ui/text"
)

// Renderer is the common interface for all output renderers.
type Renderer interface {
	// RenderEntry renders one executed entry as soon as it is available.
	RenderEntry(e types.Entry) error

	// RenderReport renders the end-of-run summary.
	RenderReport(report *types.RunReport) error

	// RenderError renders an error with appropriate formatting
	RenderError(err error) error
}

// NewRenderer creates a new renderer based on the specified format.
// Auto detects the capabilities of output when it is a file and falls
// back to plain text otherwise.
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	switch format {
	case FormatAuto:
		if file, ok := output.(*os.File); ok {
			return NewRenderer(DetectFormat(file), output)
		}
		return NewRenderer(FormatText, output)
	case FormatTerminal:
		return terminal.New(output), nil
	case FormatText:
		return text.New(output), nil
	case FormatJSON:
		return json.New(output), nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown format: %v", format)
	}
}

// Reporter feeds a run to a Renderer. In verbose mode every entry is
// rendered; otherwise only failures are, followed by the summary.
type Reporter struct {
	renderer Renderer
	errs     Renderer
	verbose  bool
}

// NewReporter creates a Reporter.
func NewReporter(r Renderer, verbose bool) *Reporter {
	return &Reporter{renderer: r, errs: r, verbose: verbose}
}

// WithErrorRenderer sends errors to r instead of the report renderer,
// typically one writing to stderr.
func (p *Reporter) WithErrorRenderer(r Renderer) *Reporter {
	p.errs = r
	return p
}

// Entry renders e if the verbosity calls for it.
func (p *Reporter) Entry(e types.Entry) error {
	if !p.verbose && e.Outcome.Status != types.StatusFailed {
		return nil
	}
	return p.renderer.RenderEntry(e)
}

// Finish renders the summary of report.
func (p *Reporter) Finish(report *types.RunReport) error {
	return p.renderer.RenderReport(report)
}

// Error renders err.
func (p *Reporter) Error(err error) error {
	return p.errs.RenderError(err)
}
