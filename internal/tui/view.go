package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
)

// chromeHeight is the number of terminal rows consumed around the
// viewport: tab bar, view bar, and the status footer
const chromeHeight = 4

// View renders the whole UI frame
func (m Model) View() string {
	if m.status == StatusCritical {
		return m.renderCritical()
	}
	if !m.ready {
		return m.spinner.View() + " starting..."
	}

	var b strings.Builder
	b.WriteString(m.renderTabBar())
	b.WriteString("\n")
	b.WriteString(m.renderViewBar())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	if m.searchOpen {
		return m.overlaySearch(b.String())
	}
	return b.String()
}

// renderCritical draws the terminal error screen: nothing could run, so
// the only affordance is the message and a quit hint
func (m Model) renderCritical() string {
	msg := "unknown error"
	if m.criticalErr != nil {
		msg = m.criticalErr.Error()
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	body := m.styles.Error.Render("Cannot start") + "\n\n" +
		wordwrap.String(msg, width-8) + "\n\n" +
		m.styles.Subtle.Render("press q to exit")
	box := m.styles.ErrorBox.Render(body)
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}

// renderTabBar draws one cell per visible repository, colored by its
// job status, with the active tab highlighted
func (m Model) renderTabBar() string {
	var cells []string
	for _, idx := range m.registry.Visible() {
		t := m.registry.At(idx)
		label := m.statusGlyph(t.Status) + " " + t.Name
		if idx == m.activeTab {
			cells = append(cells, m.styles.TabActive.Render(label))
		} else {
			cells = append(cells, m.styles.TabInactive.Render(label))
		}
	}
	if len(cells) == 0 {
		return m.styles.Subtle.Render("no repositories to show")
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Top, cells...)
	return truncateLine(bar, m.width)
}

func (m Model) statusGlyph(s TabStatus) string {
	switch s {
	case TabRunning:
		return m.styles.TabRunning.Render(m.spinner.View())
	case TabDone:
		return m.styles.TabDone.Render("✓")
	case TabError:
		return m.styles.TabError.Render("✗")
	default:
		return m.styles.TabPending.Render("·")
	}
}

// renderViewBar draws the view selector for the active tab
func (m Model) renderViewBar() string {
	t := m.currentTab()
	var cells []string
	for _, id := range viewOrder {
		label := id.Title()
		if t != nil && t.ActiveView() == id {
			cells = append(cells, m.styles.ViewBarActive.Render(label))
		} else {
			cells = append(cells, m.styles.ViewBar.Render(label))
		}
	}
	return truncateLine(" "+strings.Join(cells, m.styles.Subtle.Render(" │ ")), m.width)
}

// renderFooter draws the done counter and either the short help or the
// expanded help block
func (m Model) renderFooter() string {
	counter := fmt.Sprintf(" %d/%d ", m.summary.Completed, m.summary.Total)
	switch m.status {
	case StatusAllDone:
		counter = m.styles.CounterDone.Render(counter)
	case StatusPartialFailure:
		counter = m.styles.Error.Render(counter)
	default:
		counter = m.styles.Counter.Render(counter)
	}

	var tail string
	if m.summary.Failed > 0 {
		tail = m.styles.Error.Render(fmt.Sprintf(" %d failed ", m.summary.Failed))
	}
	if m.summary.Cancelled > 0 {
		tail += m.styles.Subtle.Render(fmt.Sprintf(" %d cancelled ", m.summary.Cancelled))
	}

	if m.showHelp {
		m.help.ShowAll = true
	} else {
		m.help.ShowAll = false
	}
	return truncateLine(counter+tail+" "+m.help.View(Keys), max(m.width, 0))
}

// renderSections renders a view's sections into viewport content, with
// collapse markers and diff line coloring
func (m Model) renderSections(v *ViewState) string {
	var b strings.Builder
	for i, s := range v.Sections {
		marker := "▾ "
		if s.Collapsed {
			marker = "▸ "
		}
		title := marker + s.Title
		if i == v.Current && len(v.Sections) > 1 {
			b.WriteString(m.styles.SectionFocus.Render(title))
		} else {
			b.WriteString(m.styles.SectionTitle.Render(title))
		}
		b.WriteString("\n")
		if s.Collapsed {
			continue
		}
		for _, line := range s.Lines {
			b.WriteString(m.styleLine(line))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// styleLine colors diff content by its leading marker; anything else
// passes through unchanged
func (m Model) styleLine(line string) string {
	switch {
	case strings.HasPrefix(line, "@@"):
		return m.styles.DiffHunk.Render(line)
	case strings.HasPrefix(line, "+"):
		return m.styles.DiffAdd.Render(line)
	case strings.HasPrefix(line, "-"):
		return m.styles.DiffRemove.Render(line)
	default:
		return line
	}
}

// overlaySearch draws the search box and the current hit list centered
// over the frame
func (m Model) overlaySearch(base string) string {
	const maxHits = 10
	var b strings.Builder
	b.WriteString(m.searchInput.View())
	b.WriteString("\n")

	if len(m.searchHits) == 0 {
		if m.searchInput.Value() != "" {
			b.WriteString(m.styles.Subtle.Render("no matches"))
		}
	} else {
		start := 0
		if m.searchSel >= maxHits {
			start = m.searchSel - maxHits + 1
		}
		end := min(start+maxHits, len(m.searchHits))
		for i := start; i < end; i++ {
			hit := m.searchHits[i]
			t := m.registry.At(hit.TabIndex)
			label := fmt.Sprintf("%s · %s · %s", t.Name, hit.View.Title(), truncateLine(hit.Text, 48))
			if i == m.searchSel {
				b.WriteString(m.styles.SearchCursor.Render("> " + label))
			} else {
				b.WriteString(m.styles.SearchHit.Render("  " + label))
			}
			b.WriteString("\n")
		}
		b.WriteString(m.styles.Subtle.Render(fmt.Sprintf("%d match(es)", len(m.searchHits))))
	}

	box := m.styles.SearchBox.Render(b.String())
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box,
			lipgloss.WithWhitespaceChars(" "))
	}
	return box
}

// truncateLine hard-clips a rendered line to the terminal width without
// splitting escape sequences, so a clipped styled run cannot bleed color
// into the rows below
func truncateLine(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	return truncate.String(s, uint(width))
}
