package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.phase {
		case phaseReview:
			return m.updateReview(msg)
		case phaseRunning:
			if msg.String() == "ctrl+c" {
				m.aborted = true
				m.report.Interrupted = true
				return m, tea.Quit
			}
		case phaseDone:
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.progress.Width = max(msg.Width-4, 10)
		m.height = max(msg.Height-8, 3)
		m.scroll()

	case materializedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.phase = phaseDone
			return m, nil
		}
		return m, m.executeNext()

	case entryMsg:
		m.report.Add(msg.entry)
		if m.aborted {
			return m, nil
		}
		return m, m.executeNext()
	}

	return m, nil
}

func (m *model) updateReview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.aborted = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		m.scroll()
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
		m.scroll()
	case key.Matches(msg, m.keys.Replace):
		m.setChoice(ChoiceReplace)
	case key.Matches(msg, m.keys.Backup):
		m.setChoice(ChoiceBackup)
	case key.Matches(msg, m.keys.Skip):
		m.setChoice(ChoiceSkip)
	case key.Matches(msg, m.keys.Cycle):
		m.cycleChoice()
	case key.Matches(msg, m.keys.Confirm):
		m.phase = phaseRunning
		return m, m.materialize()
	}
	return m, nil
}

// scroll keeps the cursor inside the visible window.
func (m *model) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

func (m *model) materialize() tea.Cmd {
	draft := m.draft
	return func() tea.Msg {
		return materializedMsg{err: draft.Materialize()}
	}
}

// executeNext runs the next entry in planned order, or finishes.
func (m *model) executeNext() tea.Cmd {
	if m.next >= len(m.items) {
		m.phase = phaseDone
		return nil
	}
	i := m.next
	m.next++
	return func() tea.Msg {
		return entryMsg{entry: m.run(i)}
	}
}
