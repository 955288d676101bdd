// Package corpus holds the seed snippets the retriever indexes at startup.
package corpus

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Entry is one advice snippet. Immutable once loaded.
type Entry struct {
	ID    int    `yaml:"id"`
	Topic string `yaml:"topic"`
	Text  string `yaml:"text"`
}

// Default returns the built-in seed corpus.
func Default() []Entry {
	return []Entry{
		{ID: 0, Topic: "leadership", Text: "Advice on leading teams gracefully."},
		{ID: 1, Topic: "work", Text: "Handling unexpected work pressure."},
		{ID: 2, Topic: "relationships", Text: "Nurture close relationships today."},
		{ID: 3, Topic: "health", Text: "Small health checks make a big difference."},
		{ID: 4, Topic: "finance", Text: "Review spending before committing to new purchases."},
		{ID: 5, Topic: "creativity", Text: "Set aside quiet time for a creative project."},
		{ID: 6, Topic: "learning", Text: "Pick up one new skill in a short focused session."},
		{ID: 7, Topic: "rest", Text: "Protect your sleep and unplug early this evening."},
	}
}

// Normalize assigns sequential IDs to entries that share an ID or carry none,
// and drops entries with empty text.
func Normalize(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	seen := make(map[int]bool, len(entries))
	next := 0
	for _, e := range entries {
		if e.Text == "" {
			continue
		}
		for seen[next] {
			next++
		}
		if e.ID <= 0 || seen[e.ID] {
			e.ID = next
		}
		seen[e.ID] = true
		out = append(out, e)
	}
	return out
}

// LoadFile reads a YAML list of entries and normalizes it.
func LoadFile(path string) ([]Entry, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read corpus %s: %w", path, err)
	}
	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse corpus %s: %w", path, err)
	}
	entries = Normalize(entries)
	if len(entries) == 0 {
		return nil, fmt.Errorf("corpus %s has no entries", path)
	}
	return entries, nil
}
