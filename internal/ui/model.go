package ui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"airtune/internal/config"
	"airtune/internal/player"
	"airtune/internal/radio"
)

type mode int

const (
	modeBrowse mode = iota
	modeSearch
)

// Model is the terminal interaction state machine. Everything it shows is
// rebuilt each frame from the catalog, the supervisor snapshot and the last
// monitor status; the model itself is never the source of truth.
type Model struct {
	catalog   *radio.Catalog
	sup       *player.Supervisor
	monitor   *player.Monitor
	favorites *config.Favorites

	styles   Styles
	theme    Theme
	themeIdx int

	mode     mode
	search   textinput.Model
	selected int
	status   string
	now      player.Status

	showHelp bool

	width  int
	height int
}

type statusMsg player.Status

type playResultMsg struct {
	station radio.Station
	err     error
}

type volumeMsg int

type favSavedMsg struct {
	station  radio.Station
	favorite bool
	err      error
}

type themeSavedMsg struct{ err error }

// NewModel wires the controller to its collaborators.
func NewModel(catalog *radio.Catalog, sup *player.Supervisor, monitor *player.Monitor, favorites *config.Favorites, themeName string) Model {
	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "Search stations"
	search.Width = 26

	theme := ThemeBySlug(themeName)
	themeIdx := 0
	for i, t := range Themes {
		if t.Slug == theme.Slug {
			themeIdx = i
			break
		}
	}

	return Model{
		catalog:   catalog,
		sup:       sup,
		monitor:   monitor,
		favorites: favorites,
		styles:    BuildStyles(theme),
		theme:     theme,
		themeIdx:  themeIdx,
		search:    search,
	}
}

func (m Model) Init() tea.Cmd {
	return m.listenStatusCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateSearchWidth()
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)

	case statusMsg:
		m.now = player.Status(msg)
		if m.now.Snapshot.State == player.Failed && m.now.Snapshot.Err != nil {
			m.status = m.now.Snapshot.Err.Error()
			// A broken metadata poll is not a broken stream: the process is
			// still playing, it just has nothing to report. Only a real
			// session failure gets acknowledged with a reset to Idle.
			if !errors.Is(m.now.Snapshot.Err, player.ErrMonitorPoll) {
				m.sup.Stop()
			}
		}
		return m, m.listenStatusCmd()

	case playResultMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		m.status = "Playing " + msg.station.Name
		return m, nil

	case volumeMsg:
		m.status = fmt.Sprintf("Volume %d%%", int(msg))
		return m, nil

	case favSavedMsg:
		if msg.err != nil {
			m.status = "Saving favorites failed: " + msg.err.Error()
		} else if msg.favorite {
			m.status = "Added " + msg.station.Name + " to favorites"
		} else {
			m.status = "Removed " + msg.station.Name + " from favorites"
		}
		return m, nil

	case themeSavedMsg:
		if msg.err != nil {
			m.status = "Saving theme failed: " + msg.err.Error()
		}
		return m, nil
	}

	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return m.quit()
	}

	if m.showHelp {
		if key == "?" || key == "esc" || key == "enter" || key == "q" {
			m.showHelp = false
		}
		return m, nil
	}

	if m.mode == modeSearch {
		return m.updateSearchInput(msg)
	}

	switch key {
	case "q":
		return m.quit()
	case "?":
		m.showHelp = true
	case "up", "k":
		m.moveSelection(-1)
	case "down", "j":
		m.moveSelection(1)
	case "enter":
		station, ok := m.currentStation()
		if !ok {
			m.status = "No matching stations"
			return m, nil
		}
		snap := m.sup.Snapshot()
		if snap.State == player.Playing && snap.Station.URL == station.URL {
			m.sup.Stop()
			m.status = "Stopped " + station.Name
			return m, nil
		}
		m.status = "Tuning to " + station.Name + "..."
		return m, m.playCmd(station)
	case "f":
		station, ok := m.currentStation()
		if !ok {
			m.status = "No matching stations"
			return m, nil
		}
		updated, found := m.catalog.ToggleFavorite(station.URL)
		if !found {
			return m, nil
		}
		m.keepSelection(station.URL)
		return m, m.saveFavoriteCmd(updated)
	case "/":
		m.mode = modeSearch
		m.search.Focus()
		m.search.CursorEnd()
		return m, textinput.Blink
	case "t":
		m.themeIdx = (m.themeIdx + 1) % len(Themes)
		m.theme = Themes[m.themeIdx]
		m.styles = BuildStyles(m.theme)
		return m, m.saveThemeCmd()
	case "+", "=":
		return m, m.volumeCmd(5)
	case "-", "_":
		return m, m.volumeCmd(-5)
	}

	return m, nil
}

func (m Model) updateSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = modeBrowse
		m.search.Blur()
		return m, nil
	case "esc":
		m.mode = modeBrowse
		m.search.SetValue("")
		m.search.Blur()
		m.catalog.SetFilter("")
		m.clampSelection()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.catalog.SetFilter(m.search.Value())
	m.clampSelection()
	return m, cmd
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.sup.Stop()
	return m, tea.Quit
}

// listenStatusCmd re-arms after every delivered status, so exactly one
// reader drains the monitor handoff for the lifetime of the program.
func (m Model) listenStatusCmd() tea.Cmd {
	updates := m.monitor.Updates()
	return func() tea.Msg {
		return statusMsg(<-updates)
	}
}

func (m Model) playCmd(station radio.Station) tea.Cmd {
	sup := m.sup
	return func() tea.Msg {
		err := sup.Start(station)
		return playResultMsg{station: station, err: err}
	}
}

func (m Model) volumeCmd(delta int) tea.Cmd {
	sup := m.sup
	return func() tea.Msg {
		return volumeMsg(sup.AdjustVolume(delta))
	}
}

func (m Model) saveFavoriteCmd(station radio.Station) tea.Cmd {
	favorites := m.favorites
	return func() tea.Msg {
		if favorites == nil {
			return favSavedMsg{station: station, favorite: station.Favorite}
		}
		favorite, err := favorites.Toggle(station)
		return favSavedMsg{station: station, favorite: favorite, err: err}
	}
}

func (m Model) saveThemeCmd() tea.Cmd {
	slug := m.theme.Slug
	return func() tea.Msg {
		return themeSavedMsg{err: config.SaveTheme(slug)}
	}
}

func (m *Model) view() []radio.Station {
	return m.catalog.View()
}

func (m *Model) currentStation() (radio.Station, bool) {
	list := m.view()
	if len(list) == 0 || m.selected < 0 || m.selected >= len(list) {
		return radio.Station{}, false
	}
	return list[m.selected], true
}

func (m *Model) moveSelection(delta int) bool {
	list := m.view()
	if len(list) == 0 {
		return false
	}
	prev := m.selected
	m.selected += delta
	m.clampSelection()
	return prev != m.selected
}

func (m *Model) clampSelection() {
	list := m.view()
	if len(list) == 0 {
		m.selected = 0
		return
	}
	if m.selected < 0 {
		m.selected = 0
	}
	if m.selected >= len(list) {
		m.selected = len(list) - 1
	}
}

// keepSelection follows a station after the view reorders around it, for
// example when toggling a favorite moves it to the top.
func (m *Model) keepSelection(url string) {
	for i, st := range m.view() {
		if st.URL == url {
			m.selected = i
			return
		}
	}
	m.clampSelection()
}

func (m *Model) updateSearchWidth() {
	width := m.width - 20
	if width < 10 {
		width = 10
	}
	if width > 32 {
		width = 32
	}
	m.search.Width = width
}

// FatalStartupMessage formats catalog startup failures for stderr before the
// TUI has taken over the terminal.
func FatalStartupMessage(err error) string {
	if errors.Is(err, radio.ErrEmptyCatalog) {
		return "The station directory returned no usable stations. Try again later."
	}
	var fetchErr *radio.FetchError
	if errors.As(err, &fetchErr) {
		return "Could not load the station directory: " + fetchErr.Err.Error()
	}
	return err.Error()
}
