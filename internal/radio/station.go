package radio

import (
	"encoding/json"
	"strings"
)

// Station is a single catalog entry. Identity is the stream URL; duplicates
// in a payload are collapsed to the first occurrence.
type Station struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Tags     Tags   `json:"tags"`
	Favorite bool   `json:"-"`
}

// Tags accepts either a comma-separated string ("rock,pop") or a JSON array
// (["rock","pop"]); station directories disagree on the shape.
type Tags []string

func (t *Tags) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		*t = splitTags(asString)
		return nil
	}

	var asList []string
	if err := json.Unmarshal(data, &asList); err == nil {
		cleaned := make(Tags, 0, len(asList))
		for _, tag := range asList {
			if tag = strings.TrimSpace(tag); tag != "" {
				cleaned = append(cleaned, tag)
			}
		}
		*t = cleaned
		return nil
	}

	// Unknown shape (null, number, object): treat as no tags.
	*t = nil
	return nil
}

func (t Tags) String() string {
	return strings.Join(t, ",")
}

// Contains reports whether any tag case-insensitively contains needle.
// needle must already be lowercased.
func (t Tags) Contains(needle string) bool {
	for _, tag := range t {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

func splitTags(raw string) Tags {
	parts := strings.Split(raw, ",")
	tags := make(Tags, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			tags = append(tags, part)
		}
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}
