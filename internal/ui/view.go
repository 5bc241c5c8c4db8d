package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"airtune/internal/player"
)

func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	contentWidth := m.width - 4
	if contentWidth < 20 {
		contentWidth = m.width
	}

	snap := m.sup.Snapshot()

	header := m.renderHeader(contentWidth, snap)
	nowPanel := m.styles.Panel.Width(contentWidth).Render(m.renderNowPlaying(contentWidth, snap))
	hints := m.styles.KeyHint.Width(contentWidth).Render(m.renderKeyHints(contentWidth))

	var statusLine string
	if m.status != "" {
		statusLine = m.styles.Error.Width(contentWidth).Render(m.status)
	}

	var prompt string
	if m.mode == modeSearch {
		prompt = m.styles.Panel.Width(contentWidth).Render(m.search.View())
	}

	fixed := lipgloss.Height(header) + lipgloss.Height(nowPanel) + lipgloss.Height(hints)
	if statusLine != "" {
		fixed += lipgloss.Height(statusLine)
	}
	if prompt != "" {
		fixed += lipgloss.Height(prompt)
	}

	rows := m.height - fixed - 4
	if rows < 1 {
		rows = 1
	}

	list := m.renderList(contentWidth, rows, snap)

	sections := []string{header, nowPanel, list, hints}
	if statusLine != "" {
		sections = append(sections, statusLine)
	}
	if prompt != "" {
		sections = append(sections, prompt)
	}
	view := m.styles.App.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))

	if m.showHelp {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.renderHelp())
	}
	return view
}

func (m Model) renderHeader(width int, snap player.Snapshot) string {
	status := "STOPPED"
	statusStyle := m.styles.Muted
	switch snap.State {
	case player.Starting:
		status = "TUNING"
		statusStyle = m.styles.Accent
	case player.Playing:
		status = "ON AIR"
		statusStyle = m.styles.Accent
	case player.Stopping:
		status = "STOPPING"
	case player.Failed:
		status = "FAILED"
		statusStyle = m.styles.Error
	}

	left := "AIRTUNE"
	if width >= 34 {
		left = fmt.Sprintf("AIRTUNE · %d stations", m.catalog.Len())
	}
	right := statusStyle.Render(status)

	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	line := left + strings.Repeat(" ", gap) + right
	return m.styles.Header.Width(width).Render(line)
}

func (m Model) renderNowPlaying(width int, snap player.Snapshot) string {
	inner := width - 6
	if inner < 10 {
		inner = 10
	}

	var lines []string
	switch snap.State {
	case player.Idle:
		lines = append(lines, m.styles.Meta.Render("Nothing playing. Press enter on a station."))
	case player.Starting:
		lines = append(lines, m.styles.StationName.Render(truncate(snap.Station.Name, inner)))
		lines = append(lines, m.styles.Meta.Render("Connecting..."))
	case player.Stopping:
		lines = append(lines, m.styles.StationName.Render(truncate(snap.Station.Name, inner)))
		lines = append(lines, m.styles.Meta.Render("Stopping..."))
	case player.Failed:
		lines = append(lines, m.styles.Error.Render("Playback failed"))
	case player.Playing:
		lines = append(lines, m.styles.StationName.Render(truncate(snap.Station.Name, inner)))
		title := m.now.NowPlaying
		if title != "" && title != snap.Station.Name {
			lines = append(lines, m.styles.Accent.Render(truncate(title, inner)))
		}
		meta := "Live"
		if m.now.Elapsed > 0 {
			meta = formatElapsed(m.now.Elapsed)
		}
		if tags := snap.Station.Tags.String(); tags != "" {
			meta += "  " + truncate(tags, inner-len(meta)-2)
		}
		lines = append(lines, m.styles.Meta.Render(meta))
	}

	lines = append(lines, m.renderVolume(inner, snap.Volume))
	return strings.Join(lines, "\n")
}

func (m Model) renderVolume(width int, volume int) string {
	cells := 10
	filled := volume * cells / 100
	gauge := strings.Repeat("█", filled) + strings.Repeat("░", cells-filled)
	return m.styles.Meta.Render(fmt.Sprintf("Vol %s %3d%%", gauge, volume))
}

func (m Model) renderList(width, rows int, snap player.Snapshot) string {
	list := m.view()
	if len(list) == 0 {
		empty := "No stations match"
		if m.catalog.Filter() == "" {
			empty = "No stations loaded"
		}
		return m.styles.Muted.Width(width).Render(empty)
	}

	offset := 0
	if len(list) > rows {
		offset = m.selected - rows/2
		if offset < 0 {
			offset = 0
		}
		if offset > len(list)-rows {
			offset = len(list) - rows
		}
	}

	var b strings.Builder
	end := offset + rows
	if end > len(list) {
		end = len(list)
	}
	for i := offset; i < end; i++ {
		st := list[i]

		marker := "  "
		if snap.State == player.Playing && snap.Station.URL == st.URL {
			marker = "▶ "
		}
		star := "  "
		if st.Favorite {
			star = "★ "
		}
		name := truncate(st.Name, width-8)
		line := marker + star + name

		style := m.styles.ListItem
		if st.Favorite {
			style = m.styles.Accent
		}
		if i == m.selected {
			style = m.styles.ListActive
		}
		b.WriteString(style.Width(width).Render(line))
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderKeyHints(width int) string {
	hints := "↑/↓ navigate · enter play/stop · f favorite · / search · +/- volume · q quit"
	if width >= 90 {
		hints += " · t theme · ? help"
	}
	return truncate(hints, width)
}

func (m Model) renderHelp() string {
	rows := []string{
		m.styles.ListHeader.Render("AIRTUNE KEYS"),
		"",
		"↑/k  ↓/j    move selection",
		"enter       play selected station (again to stop)",
		"f           toggle favorite",
		"/           search by name or tag (enter keeps, esc clears)",
		"+/-         volume up / down",
		"t           cycle color theme",
		"?           toggle this help",
		"q           quit",
	}
	return m.styles.HelpBox.Render(strings.Join(rows, "\n"))
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}

func formatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
