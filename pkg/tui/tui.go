// Package tui is the interactive reviewer. It shows the planned links,
// lets the user decide per conflicting destination whether to replace it,
// back it up or skip it, and then runs the plan through the same Executor
// the batch engine uses, one entry at a time in planned order.
package tui

import (
	"context"
	stderrors "errors"

	"github.com/arthur-debert/flnk/pkg/errors"
	"github.com/arthur-debert/flnk/pkg/executor"
	"github.com/arthur-debert/flnk/pkg/logging"
	"github.com/arthur-debert/flnk/pkg/planner"
	"github.com/arthur-debert/flnk/pkg/types"
	tea "github.com/charmbracelet/bubbletea"
)

// Run reviews and executes draft. Nothing is written before the user
// confirms; quitting during review returns an empty, interrupted report.
// opts are passed to the bubbletea program (input, output, alt screen).
func Run(ctx context.Context, exec *executor.Executor, draft *planner.Draft, policy types.Policy, opts ...tea.ProgramOption) (*types.RunReport, error) {
	logger := logging.GetLogger("tui")
	m := newModel(exec, draft, policy)

	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(m, opts...)

	logger.Info().Int("planned", len(draft.Links)).Int("conflicts", m.conflictCount()).Msg("Starting review")
	_, err := p.Run()
	switch {
	case stderrors.Is(err, tea.ErrProgramKilled):
		m.report.Interrupted = true
	case err != nil:
		return nil, errors.Wrap(err, errors.ErrInternal, "interactive review failed")
	}
	if m.err != nil {
		return nil, m.err
	}
	if m.aborted && len(m.report.Entries) < m.report.Planned {
		m.report.Interrupted = true
	}

	logger.Info().
		Int("executed", len(m.report.Entries)).
		Bool("interrupted", m.report.Interrupted).
		Msg("Review finished")
	return m.report, nil
}
