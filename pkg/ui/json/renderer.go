// Package json provides machine-readable JSON output
package json

import (
	"encoding/json"
	"io"

	"github.com/arthur-debert/flnk/pkg/errors"
	"github.com/arthur-debert/flnk/pkg/types"
)

// Renderer writes the whole run as a single JSON document once it ends.
type Renderer struct {
	encoder *json.Encoder
}

// New creates a new JSON renderer
func New(output io.Writer) *Renderer {
	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")
	return &Renderer{encoder: encoder}
}

// RenderEntry does nothing; every entry is part of the final report.
func (r *Renderer) RenderEntry(types.Entry) error { return nil }

// RenderReport renders the report as JSON
func (r *Renderer) RenderReport(report *types.RunReport) error {
	return r.encoder.Encode(report)
}

// RenderError renders an error as JSON
func (r *Renderer) RenderError(err error) error {
	return r.encoder.Encode(map[string]string{
		"error": errors.Message(err),
		"code":  string(errors.GetErrorCode(err)),
	})
}
