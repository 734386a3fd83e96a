// Package catalog holds the selectable document types admins can request.
// The set ships as YAML so operations can add a certificate type without a
// deploy; unknown custom types are still accepted at request time.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Track scopes an entry to a hiring track.
type Track string

const (
	TrackAny    Track = "any"
	TrackNew    Track = "new"
	TrackCareer Track = "career"
)

// Entry is one requestable document type.
type Entry struct {
	Name     string `yaml:"name" json:"name"`
	Category string `yaml:"category" json:"category"`
	Track    Track  `yaml:"track" json:"track"`
}

type catalogFile struct {
	Documents []Entry `yaml:"documents"`
}

// Catalog is the loaded document type set.
type Catalog struct {
	entries []Entry
	index   map[string]Entry
}

// Default returns the built-in catalog used when no file is configured.
func Default() *Catalog {
	return build([]Entry{
		{Name: "생명보험 합격증", Category: "exam", Track: TrackAny},
		{Name: "제3보험 합격증", Category: "exam", Track: TrackAny},
		{Name: "손해보험 합격증", Category: "exam", Track: TrackAny},
		{Name: "생명보험 수료증(신입)", Category: "training", Track: TrackNew},
		{Name: "제3보험 수료증(신입)", Category: "training", Track: TrackNew},
		{Name: "손해보험 수료증(신입)", Category: "training", Track: TrackNew},
		{Name: "생명보험 수료증(경력)", Category: "training", Track: TrackCareer},
		{Name: "제3보험 수료증(경력)", Category: "training", Track: TrackCareer},
		{Name: "손해보험 수료증(경력)", Category: "training", Track: TrackCareer},
		{Name: "이클린", Category: "screening", Track: TrackAny},
		{Name: "경력증명서", Category: "screening", Track: TrackCareer},
	})
}

// Load reads the catalog from a YAML file. An empty path returns the
// built-in default set.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document catalog: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse document catalog: %w", err)
	}
	if len(file.Documents) == 0 {
		return nil, fmt.Errorf("document catalog %s contains no entries", path)
	}

	for i, e := range file.Documents {
		if e.Name == "" {
			return nil, fmt.Errorf("document catalog entry %d has no name", i)
		}
		if e.Track == "" {
			file.Documents[i].Track = TrackAny
		}
	}

	return build(file.Documents), nil
}

func build(entries []Entry) *Catalog {
	index := make(map[string]Entry, len(entries))
	for _, e := range entries {
		index[e.Name] = e
	}
	return &Catalog{entries: entries, index: index}
}

// Entries returns all catalog entries in file order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Contains reports whether the name is a catalog entry. Custom types
// requested by admins are allowed to miss.
func (c *Catalog) Contains(name string) bool {
	_, ok := c.index[name]
	return ok
}

// ForTrack filters entries to those applicable to a hiring track.
func (c *Catalog) ForTrack(track Track) []Entry {
	out := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		if e.Track == TrackAny || e.Track == track {
			out = append(out, e)
		}
	}
	return out
}
