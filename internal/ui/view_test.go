package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"airtune/internal/player"
)

var errTest = errors.New("player exploded")

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"Radio", 10, "Radio"},
		{"Radio", 5, "Radio"},
		{"Radio Paradise", 8, "Radio P…"},
		{"Radio", 1, "R"},
		{"Radio", 0, ""},
		{"Señorita FM", 4, "Señ…"},
		{"", 5, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00"},
		{42 * time.Second, "00:42"},
		{3 * time.Minute, "03:00"},
		{61 * time.Minute, "1:01:00"},
		{2*time.Hour + 5*time.Second, "2:00:05"},
	}
	for _, tt := range tests {
		if got := formatElapsed(tt.d); got != tt.want {
			t.Errorf("formatElapsed(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestView_BeforeFirstResize(t *testing.T) {
	m := newTestModel(t, &stubSpawner{})

	if got := m.View(); got != "Loading..." {
		t.Errorf("View() = %q before the first window size", got)
	}
}

func sizedModel(t *testing.T, m Model) Model {
	t.Helper()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model)
}

func TestView_ShowsStations(t *testing.T) {
	m := sizedModel(t, newTestModel(t, &stubSpawner{}))

	out := m.View()
	for _, name := range []string{"Alpha FM", "Beta Radio", "Chill Lounge"} {
		if !strings.Contains(out, name) {
			t.Errorf("View() missing station %q", name)
		}
	}
	if !strings.Contains(out, "STOPPED") {
		t.Error("View() should show the stopped status while idle")
	}
	if !strings.Contains(out, "3 stations") {
		t.Error("View() should show the station count")
	}
}

func TestView_PlayingMarkers(t *testing.T) {
	m := sizedModel(t, newTestModel(t, &stubSpawner{}))
	m = pressAndRun(t, m, "enter")

	out := m.View()
	if !strings.Contains(out, "ON AIR") {
		t.Error("View() should show the on-air status")
	}
	if !strings.Contains(out, "▶") {
		t.Error("View() should mark the playing station in the list")
	}
}

func TestView_FavoriteStar(t *testing.T) {
	m := sizedModel(t, newTestModel(t, &stubSpawner{}))
	m = pressAndRun(t, m, "f")

	if !strings.Contains(m.View(), "★") {
		t.Error("View() should mark favorites with a star")
	}
}

func TestView_EmptyFilter(t *testing.T) {
	m := sizedModel(t, newTestModel(t, &stubSpawner{}))
	m.catalog.SetFilter("zzz")

	if !strings.Contains(m.View(), "No stations match") {
		t.Error("View() should explain an empty filtered list")
	}
}

func TestView_HelpOverlay(t *testing.T) {
	m := sizedModel(t, newTestModel(t, &stubSpawner{}))

	m, _ = press(t, m, "?")
	out := m.View()
	if !strings.Contains(out, "AIRTUNE KEYS") {
		t.Error("? should show the help overlay")
	}

	m, _ = press(t, m, "esc")
	if strings.Contains(m.View(), "AIRTUNE KEYS") {
		t.Error("esc should dismiss the help overlay")
	}
}

func TestRenderVolume(t *testing.T) {
	m := newTestModel(t, &stubSpawner{})

	out := m.renderVolume(40, 50)
	if !strings.Contains(out, "50%") {
		t.Errorf("renderVolume() = %q, want the percentage", out)
	}
	if strings.Count(out, "█") != 5 || strings.Count(out, "░") != 5 {
		t.Errorf("renderVolume() = %q, want a half-filled gauge", out)
	}

	full := m.renderVolume(40, 100)
	if strings.Count(full, "█") != 10 || strings.Contains(full, "░") {
		t.Errorf("renderVolume() = %q, want a full gauge", full)
	}
}

func TestView_FailedStatus(t *testing.T) {
	spawner := &stubSpawner{spawnErr: errTest}
	m := sizedModel(t, newTestModel(t, spawner))
	m = pressAndRun(t, m, "enter")

	if !strings.Contains(m.View(), "FAILED") {
		t.Error("View() should show the failed status after a launch error")
	}
}

func TestView_NowPlayingTitle(t *testing.T) {
	m := sizedModel(t, newTestModel(t, &stubSpawner{}))
	m = pressAndRun(t, m, "enter")

	snap := m.sup.Snapshot()
	next, _ := m.Update(statusMsg(player.Status{
		Snapshot:   snap,
		NowPlaying: "Artist - Song Title",
		Elapsed:    95 * time.Second,
	}))
	m = next.(Model)

	out := m.View()
	if !strings.Contains(out, "Artist - Song Title") {
		t.Error("View() should show the stream title")
	}
	if !strings.Contains(out, "01:35") {
		t.Error("View() should show the elapsed time")
	}
}
