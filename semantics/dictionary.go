// Package semantics maps recognized words to environmental effect deltas.
// Each dictionary entry carries per-axis weights and an optional special
// effect tag.
package semantics

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

//go:embed semantic_dict.json
var embeddedDict []byte

// Effect is the result of a successful lookup.
type Effect struct {
	Effects map[string]float64 `json:"effects"`
	Special string             `json:"special,omitempty"`
}

// Dictionary holds the loaded word→effect table.
type Dictionary struct {
	entries map[string]*Effect
}

// Load reads a dictionary from path, or the embedded curated dictionary when
// path is empty. Loading may fail once at init; lookups never do.
func Load(path string) (*Dictionary, error) {
	data := embeddedDict
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading dictionary: %w", err)
		}
		data = b
	}

	raw := map[string]*Effect{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing dictionary: %w", err)
	}

	d := &Dictionary{entries: make(map[string]*Effect, len(raw))}
	for word, eff := range raw {
		d.entries[Normalize(word)] = eff
	}
	return d, nil
}

// Len returns the number of entries.
func (d *Dictionary) Len() int {
	return len(d.entries)
}

// Lookup returns the effect for a word, or nil when the word carries none.
func (d *Dictionary) Lookup(word string) *Effect {
	if d == nil {
		return nil
	}
	return d.entries[Normalize(word)]
}

// Normalize lowercases a word and strips Spanish diacritics, so "Lluvia",
// "lluvia", and "árbol"/"arbol" resolve to the same entry.
func Normalize(word string) string {
	word = strings.ToLower(strings.TrimSpace(word))
	return strings.Map(func(r rune) rune {
		switch r {
		case 'á':
			return 'a'
		case 'é':
			return 'e'
		case 'í':
			return 'i'
		case 'ó':
			return 'o'
		case 'ú', 'ü':
			return 'u'
		case 'ñ':
			return 'n'
		}
		return r
	}, word)
}
