package tui

import (
	"github.com/arthur-debert/flnk/pkg/conflicts"
	"github.com/arthur-debert/flnk/pkg/errors"
	"github.com/arthur-debert/flnk/pkg/executor"
	"github.com/arthur-debert/flnk/pkg/planner"
	"github.com/arthur-debert/flnk/pkg/types"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

type phase int

const (
	phaseReview phase = iota
	phaseRunning
	phaseDone
)

// Choice is what the reviewer decided for one entry.
type Choice int

const (
	// ChoiceProceed links an entry that has nothing in its way.
	ChoiceProceed Choice = iota
	ChoiceReplace
	ChoiceBackup
	ChoiceSkip
)

func (c Choice) String() string {
	switch c {
	case ChoiceProceed:
		return "link"
	case ChoiceReplace:
		return "replace"
	case ChoiceBackup:
		return "backup"
	case ChoiceSkip:
		return "skip"
	default:
		return "unknown"
	}
}

// choices a conflicting entry cycles through.
var conflictChoices = []Choice{ChoiceReplace, ChoiceBackup, ChoiceSkip}

const defaultHeight = 15

type item struct {
	link   types.PlannedLink
	state  conflicts.DestinationState
	reason error
	choice Choice
	// locked entries keep their choice: directories that cannot be
	// replaced and destinations that could not be inspected.
	locked bool
}

func (it item) conflict() bool {
	if it.state == conflicts.Absent {
		return false
	}
	return !(it.link.IsDirectory() && it.state == conflicts.ExistsDir)
}

type model struct {
	phase    phase
	items    []item
	cursor   int
	offset   int
	height   int
	width    int
	exec     *executor.Executor
	draft    *planner.Draft
	suffix   string
	next     int
	report   *types.RunReport
	aborted  bool
	err      error
	keys     keyMap
	help     help.Model
	progress progress.Model
}

func newModel(exec *executor.Executor, draft *planner.Draft, policy types.Policy) *model {
	m := &model{
		phase:    phaseReview,
		height:   defaultHeight,
		exec:     exec,
		draft:    draft,
		suffix:   policy.Suffix,
		report:   &types.RunReport{Planned: len(draft.Links)},
		keys:     defaultKeys(),
		help:     help.New(),
		progress: progress.New(progress.WithDefaultGradient()),
	}

	m.items = make([]item, len(draft.Links))
	for i, link := range draft.Links {
		it := item{link: link, choice: ChoiceProceed}
		state, action, err := exec.Inspect(link, policy)
		switch {
		case err != nil:
			it.reason = err
			it.locked = true
		case action.Type == conflicts.Abort && errors.IsErrorCode(action.Reason, errors.ErrIsADirectory):
			it.state = state
			it.reason = action.Reason
			it.choice = ChoiceSkip
			it.locked = true
		default:
			it.state = state
			if it.conflict() {
				it.choice = initialChoice(action)
			}
		}
		m.items[i] = it
	}
	return m
}

// initialChoice carries the command-line policy into the review.
func initialChoice(a conflicts.Action) Choice {
	switch a.Type {
	case conflicts.RemoveThenProceed:
		return ChoiceReplace
	case conflicts.BackupThenProceed:
		return ChoiceBackup
	default:
		return ChoiceSkip
	}
}

func (m *model) Init() tea.Cmd {
	return nil
}

// conflictCount counts the entries that need a decision.
func (m *model) conflictCount() int {
	n := 0
	for _, it := range m.items {
		if it.conflict() {
			n++
		}
	}
	return n
}

func (m *model) setChoice(c Choice) {
	if len(m.items) == 0 {
		return
	}
	it := &m.items[m.cursor]
	if it.locked || !it.conflict() {
		return
	}
	it.choice = c
}

func (m *model) cycleChoice() {
	if len(m.items) == 0 {
		return
	}
	it := m.items[m.cursor]
	for i, c := range conflictChoices {
		if c == it.choice {
			m.setChoice(conflictChoices[(i+1)%len(conflictChoices)])
			return
		}
	}
	m.setChoice(conflictChoices[0])
}

func (m *model) policyFor(c Choice) types.Policy {
	switch c {
	case ChoiceReplace:
		return types.Policy{Force: true, Suffix: m.suffix}
	case ChoiceBackup:
		return types.Policy{Backup: true, Suffix: m.suffix}
	default:
		return types.Policy{Suffix: m.suffix}
	}
}

// run executes entry i with the reviewed choice.
func (m *model) run(i int) types.Entry {
	it := m.items[i]
	if it.choice == ChoiceSkip {
		reason := it.reason
		if reason == nil {
			reason = errors.Newf(errors.ErrDestinationExists,
				"%s exists, skipped in review", it.link.Destination).
				WithDetail("destination", it.link.Destination)
		}
		return types.Entry{Index: i, Link: it.link, Outcome: types.Skipped(reason)}
	}
	return types.Entry{Index: i, Link: it.link, Outcome: m.exec.Execute(it.link, m.policyFor(it.choice))}
}
