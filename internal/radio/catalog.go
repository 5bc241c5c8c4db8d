package radio

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"
)

// ErrEmptyCatalog is returned by Load when a payload yields zero usable
// stations. The caller treats it as fatal: there is nothing to browse.
var ErrEmptyCatalog = errors.New("catalog contains no valid stations")

// Catalog owns the fetched station list and a derived, memoized view for the
// current filter. The source order is never mutated; only the Favorite flag
// changes after load.
type Catalog struct {
	stations []Station
	skipped  int

	filter string
	view   []Station
	viewOK bool
}

// stationRecord is the tolerant wire shape of one catalog entry. Directories
// disagree on the URL key, so both are accepted.
type stationRecord struct {
	Name      string `json:"name"`
	URL       string `json:"url"`
	StreamURL string `json:"stream_url"`
	Tags      Tags   `json:"tags"`
}

// Load parses a catalog payload. Two shapes are understood: a flat JSON
// array of station records, and an object mapping genre name to an array of
// records (the genre becomes a tag on each station). Malformed entries are
// skipped and counted; duplicate stream URLs keep the first occurrence.
func Load(raw []byte) (*Catalog, error) {
	stations, skipped, err := parseStations(raw)
	if err != nil {
		return nil, err
	}
	if len(stations) == 0 {
		return nil, ErrEmptyCatalog
	}
	return &Catalog{stations: stations, skipped: skipped}, nil
}

func parseStations(raw []byte) ([]Station, int, error) {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		var entries []json.RawMessage
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, 0, &FetchError{Err: err}
		}
		return collectStations(entries, "")
	}

	var byGenre map[string]json.RawMessage
	if err := json.Unmarshal(raw, &byGenre); err != nil {
		return nil, 0, &FetchError{Err: err}
	}

	genres := make([]string, 0, len(byGenre))
	for genre := range byGenre {
		genres = append(genres, genre)
	}
	sort.Strings(genres)

	var stations []Station
	skipped := 0
	seen := map[string]struct{}{}
	for _, genre := range genres {
		var entries []json.RawMessage
		if err := json.Unmarshal(byGenre[genre], &entries); err != nil {
			// Genre value is not a station list.
			skipped++
			continue
		}
		got, bad, _ := collectStations(entries, genre)
		skipped += bad
		for _, st := range got {
			if _, dup := seen[st.URL]; dup {
				continue
			}
			seen[st.URL] = struct{}{}
			stations = append(stations, st)
		}
	}
	return stations, skipped, nil
}

func collectStations(entries []json.RawMessage, genre string) ([]Station, int, error) {
	stations := make([]Station, 0, len(entries))
	skipped := 0
	seen := map[string]struct{}{}
	for _, entry := range entries {
		var rec stationRecord
		if err := json.Unmarshal(entry, &rec); err != nil {
			skipped++
			continue
		}
		st, ok := rec.station(genre)
		if !ok {
			skipped++
			continue
		}
		if _, dup := seen[st.URL]; dup {
			continue
		}
		seen[st.URL] = struct{}{}
		stations = append(stations, st)
	}
	return stations, skipped, nil
}

func (r stationRecord) station(genre string) (Station, bool) {
	name := strings.TrimSpace(r.Name)
	url := strings.TrimSpace(r.URL)
	if url == "" {
		url = strings.TrimSpace(r.StreamURL)
	}
	if name == "" || url == "" {
		return Station{}, false
	}

	tags := r.Tags
	if genre != "" && !tags.Contains(strings.ToLower(genre)) {
		tags = append(append(Tags{}, tags...), genre)
	}
	return Station{Name: name, URL: url, Tags: tags}, true
}

// Skipped reports how many malformed entries the payload contained.
func (c *Catalog) Skipped() int { return c.skipped }

// Len reports the number of loaded stations regardless of filter.
func (c *Catalog) Len() int { return len(c.stations) }

// Stations returns the full catalog in fetch order.
func (c *Catalog) Stations() []Station { return c.stations }

// SetFilter updates the search predicate and invalidates the view. Matching
// is a case-insensitive substring test against name and tags; whitespace in
// the filter is significant.
func (c *Catalog) SetFilter(text string) {
	if text == c.filter {
		return
	}
	c.filter = text
	c.viewOK = false
}

// Filter returns the current filter text.
func (c *Catalog) Filter() string { return c.filter }

// ToggleFavorite flips the favorite flag of the station identified by its
// stream URL. Unknown URLs are a silent no-op. The updated station is
// returned so the caller can persist the change.
func (c *Catalog) ToggleFavorite(url string) (Station, bool) {
	for i := range c.stations {
		if c.stations[i].URL == url {
			c.stations[i].Favorite = !c.stations[i].Favorite
			c.viewOK = false
			return c.stations[i], true
		}
	}
	return Station{}, false
}

// SeedFavorites marks stations whose URL appears in urls as favorites.
// Unknown URLs are ignored; favorites stay a subset of the catalog.
func (c *Catalog) SeedFavorites(urls []string) {
	if len(urls) == 0 {
		return
	}
	want := make(map[string]struct{}, len(urls))
	for _, url := range urls {
		want[url] = struct{}{}
	}
	for i := range c.stations {
		if _, ok := want[c.stations[i].URL]; ok {
			c.stations[i].Favorite = true
			c.viewOK = false
		}
	}
}

// View returns the filtered list, favorites first, ties kept in fetch order.
// The result is memoized until the filter or a favorite flag changes.
func (c *Catalog) View() []Station {
	if c.viewOK {
		return c.view
	}

	needle := strings.ToLower(c.filter)
	favs := make([]Station, 0, len(c.stations))
	rest := make([]Station, 0, len(c.stations))
	for _, st := range c.stations {
		if needle != "" && !matchesFilter(st, needle) {
			continue
		}
		if st.Favorite {
			favs = append(favs, st)
		} else {
			rest = append(rest, st)
		}
	}

	c.view = append(favs, rest...)
	c.viewOK = true
	return c.view
}

func matchesFilter(st Station, needle string) bool {
	if strings.Contains(strings.ToLower(st.Name), needle) {
		return true
	}
	return st.Tags.Contains(needle)
}
