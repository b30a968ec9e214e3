package tui

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/flnk/pkg/errors"
	"github.com/arthur-debert/flnk/pkg/style"
	"github.com/arthur-debert/flnk/pkg/types"
	"github.com/arthur-debert/flnk/pkg/ui/text"
	"github.com/charmbracelet/lipgloss"
)

func (m *model) View() string {
	switch m.phase {
	case phaseReview:
		return m.reviewView()
	case phaseRunning:
		return m.runningView()
	case phaseDone:
		return m.doneView()
	default:
		return ""
	}
}

func (m *model) reviewView() string {
	var b strings.Builder

	header := fmt.Sprintf("%d links planned, %d need a decision", len(m.items), m.conflictCount())
	b.WriteString(style.Get("Header").Render(header) + "\n\n")

	if len(m.items) == 0 {
		b.WriteString(style.Get("Muted").Render("Nothing to link.") + "\n")
	}

	end := min(m.offset+m.height, len(m.items))
	for i := m.offset; i < end; i++ {
		b.WriteString(m.itemLine(i) + "\n")
	}
	if end < len(m.items) {
		b.WriteString(style.Get("Muted").Render(fmt.Sprintf("  … %d more", len(m.items)-end)) + "\n")
	}

	b.WriteString(style.Get("Help").Render(m.help.View(m.keys)))
	return lipgloss.NewStyle().Padding(1).Render(b.String())
}

func (m *model) itemLine(i int) string {
	it := m.items[i]

	cursor := "  "
	if i == m.cursor {
		cursor = "> "
	}

	label := fmt.Sprintf("%-8s", it.choice)
	switch it.choice {
	case ChoiceSkip:
		label = style.Get("Skipped").Render(label)
	case ChoiceReplace:
		label = style.Get("Failed").Render(label)
	case ChoiceBackup:
		label = style.Get("BackedUp").Render(label)
	default:
		label = style.Get("Created").Render(label)
	}

	line := cursor + label + " " + text.Link(it.link)
	if it.link.IsDirectory() {
		line = cursor + label + " directory " + text.Link(it.link)
	}
	if it.conflict() || it.reason != nil {
		note := it.state.String() + " in the way"
		if it.reason != nil {
			note = errors.Message(it.reason)
		}
		line += "  " + style.Get("Reason").Render(note)
	}
	if i == m.cursor {
		return style.Get("Selected").Render(line)
	}
	return line
}

func (m *model) runningView() string {
	var b strings.Builder
	done := m.report.Counts.Total()
	b.WriteString(style.Get("Header").Render(fmt.Sprintf("Linking %d/%d", done, len(m.items))) + "\n\n")

	percent := 1.0
	if len(m.items) > 0 {
		percent = float64(done) / float64(len(m.items))
	}
	b.WriteString(m.progress.ViewAs(percent) + "\n")

	if n := len(m.report.Entries); n > 0 {
		b.WriteString("\n" + style.Get("Muted").Render(text.Line(m.report.Entries[n-1])) + "\n")
	}
	return lipgloss.NewStyle().Padding(1).Render(b.String())
}

func (m *model) doneView() string {
	var b strings.Builder
	if m.err != nil {
		b.WriteString(style.Get("Failed").Render("Error: "+errors.Message(m.err)) + "\n")
	} else {
		for _, e := range m.report.Failures() {
			b.WriteString(style.ForStatus(types.StatusFailed).Render(text.Line(e)) + "\n")
		}
		b.WriteString(style.Get("Header").Render(text.Summary(m.report)) + "\n")
	}
	b.WriteString(style.Get("Help").Render("press any key to exit"))
	return lipgloss.NewStyle().Padding(1).Render(b.String())
}
