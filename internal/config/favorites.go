package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"airtune/internal/radio"
)

// Favorite is one persisted favorite station, keyed by stream URL.
type Favorite struct {
	URL  string `json:"url"`
	Name string `json:"name"`
	Tags string `json:"tags,omitempty"`
}

// Favorites persists the user's favorite stations. Safe for concurrent use.
type Favorites struct {
	mu    sync.Mutex
	path  string
	items map[string]Favorite
}

type favoritesFile struct {
	Stations []Favorite `json:"stations"`
}

// LoadFavorites reads the favorites file from the user config dir. A missing
// file yields an empty, usable set.
func LoadFavorites() (*Favorites, error) {
	path, err := favoritesPath()
	if err != nil {
		return nil, err
	}

	favs := &Favorites{
		path:  path,
		items: map[string]Favorite{},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return favs, nil
		}
		return nil, err
	}

	var stored favoritesFile
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, err
	}
	for _, fav := range stored.Stations {
		if fav.URL != "" {
			favs.items[fav.URL] = fav
		}
	}

	return favs, nil
}

// Toggle flips the favorite state of station and writes the file. It
// reports whether the station is now a favorite.
func (f *Favorites) Toggle(station radio.Station) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if station.URL == "" {
		return false, errors.New("station url is required")
	}

	if _, ok := f.items[station.URL]; ok {
		delete(f.items, station.URL)
		return false, f.saveLocked()
	}

	f.items[station.URL] = Favorite{
		URL:  station.URL,
		Name: station.Name,
		Tags: station.Tags.String(),
	}
	return true, f.saveLocked()
}

// IsFavorite reports whether the stream URL is a favorite.
func (f *Favorites) IsFavorite(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.items[url]
	return ok
}

// Count returns the number of favorites.
func (f *Favorites) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

// URLs returns the favorite stream URLs for seeding a freshly loaded
// catalog.
func (f *Favorites) URLs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	urls := make([]string, 0, len(f.items))
	for url := range f.items {
		urls = append(urls, url)
	}
	sort.Strings(urls)
	return urls
}

func (f *Favorites) saveLocked() error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}

	list := make([]Favorite, 0, len(f.items))
	for _, fav := range f.items {
		list = append(list, fav)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].URL < list[j].URL })

	data, err := json.MarshalIndent(favoritesFile{Stations: list}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0o644)
}

func favoritesPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, appDirName, "favorites.json"), nil
}
