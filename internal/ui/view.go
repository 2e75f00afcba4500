package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"canon-tui/internal/panes"
	"canon-tui/internal/provider"
	"canon-tui/internal/ref"
	"canon-tui/internal/search"
)

const (
	headerLines = 2
	footerLines = 3
)

func (m *Model) layoutViewports() {
	if m.width == 0 {
		return
	}
	body := m.height - headerLines - footerLines
	if body < 3 {
		body = 3
	}

	switch m.machine.Snapshot().Mode {
	case panes.Parallel:
		half := m.width / 2
		m.primaryVP = sized(m.primaryVP, half-1, body)
		m.secondaryVP = sized(m.secondaryVP, m.width-half-1, body)
	case panes.Study:
		left := m.width * 3 / 5
		m.primaryVP = sized(m.primaryVP, left-1, body)
		m.commentaryVP = sized(m.commentaryVP, m.width-left-1, body/2)
	default:
		m.primaryVP = sized(m.primaryVP, m.width, body)
	}
}

func sized(vp viewport.Model, w, h int) viewport.Model {
	if vp.Width == 0 && vp.Height == 0 {
		vp = viewport.New(w, h)
	} else {
		vp.Width = w
		vp.Height = h
	}
	return vp
}

func (m *Model) renderPanes() {
	if !m.ready {
		return
	}
	snap := m.machine.Snapshot()

	m.primaryVP.SetContent(m.formatVerses(m.primaryVerses, snap.Primary.Focused, m.primaryVP.Width))
	scrollToVerse(&m.primaryVP, m.primaryVerses, snap.Primary.Focused, m.primaryVP.Width)

	if snap.Mode == panes.Parallel {
		m.secondaryVP.SetContent(m.formatVerses(m.secondaryVerses, snap.Secondary.Focused, m.secondaryVP.Width))
		scrollToVerse(&m.secondaryVP, m.secondaryVerses, snap.Secondary.Focused, m.secondaryVP.Width)
	}
	if snap.Mode == panes.Study {
		wrapped := wordwrap.String(m.commentaryText, m.commentaryVP.Width-2)
		m.commentaryVP.SetContent(m.styles.VerseText.Render(wrapped))
	}
}

// formatVerses renders a chapter with the focused verse highlighted.
func (m *Model) formatVerses(verses []provider.Verse, focused ref.Address, width int) string {
	var sb strings.Builder
	for _, v := range verses {
		num := m.styles.VerseNum.Render(fmt.Sprintf("%d", v.Addr.Verse))
		text := wordwrap.String(v.Text, max(10, width-6))
		style := m.styles.VerseText
		if v.Addr == focused {
			style = m.styles.Focused
		}
		sb.WriteString(fmt.Sprintf("%s  %s\n\n", num, style.Render(text)))
	}
	return sb.String()
}

// scrollToVerse keeps the focused verse in view by lining the viewport up
// with the wrapped block the verse starts on.
func scrollToVerse(vp *viewport.Model, verses []provider.Verse, focused ref.Address, width int) {
	offset := 0
	for _, v := range verses {
		if v.Addr == focused {
			break
		}
		wrapped := wordwrap.String(v.Text, max(10, width-6))
		offset += strings.Count(wrapped, "\n") + 2
	}
	if offset < vp.YOffset || offset >= vp.YOffset+vp.Height {
		vp.SetYOffset(offset)
	}
}

func (m Model) View() string {
	if !m.ready {
		return "\n  Loading..."
	}

	header := m.viewHeader()
	var body string
	switch {
	case m.showPicker:
		body = m.viewPicker()
	case m.showResults:
		body = m.viewResults()
	default:
		body = m.viewPanes()
	}
	footer := m.viewFooter()

	return fmt.Sprintf("%s\n%s\n%s", header, body, footer)
}

func (m Model) viewHeader() string {
	snap := m.machine.Snapshot()
	title := m.styles.Title.Render(fmt.Sprintf("%s  %s", snap.Primary.Module, snap.Primary.Focused))

	var mode string
	switch snap.Mode {
	case panes.Parallel:
		link := "unlinked"
		if snap.Linked {
			link = "linked"
		}
		mode = fmt.Sprintf("parallel (%s, %s)", snap.Secondary.Module, link)
	case panes.Study:
		mode = "study (" + snap.Commentary.Module + ")"
	default:
		mode = "single"
	}
	if m.showResults {
		mode = fmt.Sprintf("search %q", m.searchQuery)
	}

	line := title + "  " + m.styles.Help.Render(mode)
	if m.inputMode != inputNone {
		line += "\n" + m.input.View()
	}
	return m.styles.Header.Render(line)
}

func (m Model) viewPanes() string {
	snap := m.machine.Snapshot()

	switch snap.Mode {
	case panes.Parallel:
		left := m.styles.PaneActive.Render(m.primaryVP.View())
		right := m.paneOrError(panes.Secondary, m.secondaryVP.View())
		return lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	case panes.Study:
		left := m.styles.PaneActive.Render(m.primaryVP.View())
		commentary := m.paneOrError(panes.Commentary, m.commentaryVP.View())
		refs := m.viewCrossRefs(m.width - m.primaryVP.Width - 3)
		right := lipgloss.JoinVertical(lipgloss.Left, commentary, refs)
		return lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	default:
		if msg, ok := m.paneErr[panes.Primary]; ok && len(m.primaryVerses) == 0 {
			return m.styles.Error.Render(msg)
		}
		return m.primaryVP.View()
	}
}

// paneOrError renders a dependent pane, overlaying its own failure state
// without touching the other panes.
func (m Model) paneOrError(pane panes.PaneID, content string) string {
	style := m.styles.PaneBorder
	if msg, ok := m.paneErr[pane]; ok {
		content = m.styles.Error.Render(msg) + "\n" + content
	}
	return style.Render(content)
}

func (m Model) viewCrossRefs(width int) string {
	var sb strings.Builder
	title := fmt.Sprintf("Cross-references (%d)", len(m.crossRefs))
	if m.xrefSkipped > 0 {
		title += fmt.Sprintf(", %d unparsed", m.xrefSkipped)
	}
	sb.WriteString(m.styles.Title.Render(title) + "\n")

	for i, r := range m.crossRefs {
		line := r.Target.String()
		if r.Preview != "" {
			line += "  " + r.Preview
		}
		line = truncate.StringWithTail(line, uint(max(10, width)), "...")
		style := m.styles.RefListItem
		if i == m.refSel && m.refPaneFocused {
			style = m.styles.Focused
		}
		sb.WriteString(style.Render(line) + "\n")
	}
	if len(m.crossRefs) == 0 {
		sb.WriteString(m.styles.Help.Render("none for this verse"))
	}
	return m.styles.PaneBorder.Render(sb.String())
}

func (m Model) viewPicker() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("Switch "+paneName(m.pickerTarget)+" module") + "\n\n")

	for i, item := range m.pickerItems {
		line := item.Name
		if item.Description != "" {
			line += "  " + item.Description
		}
		line = truncate.StringWithTail(line, uint(max(10, m.width-2)), "...")
		style := m.styles.RefListItem
		if i == m.pickerSel {
			style = m.styles.Focused
		}
		sb.WriteString(style.Render(line) + "\n")
	}
	return sb.String()
}

func (m Model) viewResults() string {
	var sb strings.Builder
	visible := m.height - headerLines - footerLines
	start := 0
	if m.searchSel >= visible {
		start = m.searchSel - visible + 1
	}

	for i := start; i < len(m.searchHits) && i-start < visible; i++ {
		hit := m.searchHits[i]
		refStyle := m.styles.VerseNum
		if i == m.searchSel {
			refStyle = m.styles.Focused
		}
		line := refStyle.Render(fmt.Sprintf("%-18s", hit.Addr.String())) + m.formatHit(hit)
		sb.WriteString(truncate.StringWithTail(line, uint(m.width), "...") + "\n")
	}
	if len(m.searchHits) == 0 && !m.searching {
		sb.WriteString(m.styles.Help.Render("no matches"))
	}
	return sb.String()
}

func (m Model) formatHit(hit search.Hit) string {
	switch m.hitView {
	case hitRefsOnly:
		return ""
	case hitFullVerse:
		return m.styles.VerseText.Render(hit.Before + hit.Match + hit.After)
	default:
		return m.styles.VerseText.Render(hit.Before) +
			m.styles.Match.Render(hit.Match) +
			m.styles.VerseText.Render(hit.After)
	}
}

func (m Model) viewFooter() string {
	var help string
	switch {
	case m.showPicker:
		help = "j/k: move | enter: select | esc: cancel"
	case m.showResults:
		state := fmt.Sprintf("%d hits", len(m.searchHits))
		if m.searching {
			state = "searching... " + state
		}
		if n := len(m.searchDiag.Skipped); n > 0 {
			state += fmt.Sprintf(", %d verses skipped", n)
		}
		help = state + "  |  j/k: move | v: view mode | enter: goto | esc: back"
	case m.inputMode != inputNone:
		help = "enter: confirm | esc: cancel"
	default:
		help = "j/k: verse | n/p: chapter | N/P: book | g: goto | o/i: back/fwd | /: search | s: study | 2: parallel | m/M: module | b: bookmark | q: quit"
	}

	out := m.styles.Help.Render(help)
	if m.status != "" {
		out += "\n" + m.styles.Error.Render(m.status)
	}
	for pane, msg := range m.paneErr {
		if pane != panes.Primary {
			out += "\n" + m.styles.Error.Render(paneName(pane)+": "+msg)
		}
	}
	return out
}

func paneName(p panes.PaneID) string {
	switch p {
	case panes.Secondary:
		return "secondary"
	case panes.Commentary:
		return "commentary"
	}
	return "primary"
}
