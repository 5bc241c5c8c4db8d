package ui

import "testing"

func TestThemeBySlug(t *testing.T) {
	for _, theme := range Themes {
		if got := ThemeBySlug(theme.Slug); got.Name != theme.Name {
			t.Errorf("ThemeBySlug(%q) = %q, want %q", theme.Slug, got.Name, theme.Name)
		}
	}
}

func TestThemeBySlug_UnknownFallsBack(t *testing.T) {
	got := ThemeBySlug("solarized-light")
	if got.Slug != Themes[0].Slug {
		t.Errorf("ThemeBySlug(unknown) = %q, want the default %q", got.Slug, Themes[0].Slug)
	}
	if empty := ThemeBySlug(""); empty.Slug != Themes[0].Slug {
		t.Errorf("ThemeBySlug(\"\") = %q, want the default %q", empty.Slug, Themes[0].Slug)
	}
}

func TestThemes_UniqueSlugs(t *testing.T) {
	seen := map[string]bool{}
	for _, theme := range Themes {
		if theme.Slug == "" {
			t.Errorf("theme %q has no slug", theme.Name)
		}
		if seen[theme.Slug] {
			t.Errorf("duplicate theme slug %q", theme.Slug)
		}
		seen[theme.Slug] = true
	}
}
