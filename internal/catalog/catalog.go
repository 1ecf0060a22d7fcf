// Package catalog resolves free-text product names against the read-only
// product catalog and filters it for autocomplete.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"iter"
	"os"
	"strings"

	"github.com/idilsaglam/shoplist/internal/quantity"
	"github.com/idilsaglam/shoplist/internal/textnorm"
)

// PlaceholderImage marks items that have no catalog picture.
const PlaceholderImage = "https://via.placeholder.com/40"

// MinQueryLen is the shortest normalized query that yields suggestions.
const MinQueryLen = 2

//go:embed default.json
var defaultJSON []byte

// Entry is one known product.
type Entry struct {
	Name     string        `json:"name"`
	ImageURL string        `json:"imageUrl"`
	Unit     quantity.Unit `json:"unit"`
}

// Catalog is an ordered, immutable set of entries.
type Catalog struct {
	entries []Entry
	keys    []string
}

// New builds a catalog keeping the given order. Entries without a name are
// dropped and a missing unit defaults to "un".
func New(entries []Entry) *Catalog {
	c := &Catalog{}
	for _, e := range entries {
		e.Name = strings.TrimSpace(e.Name)
		if e.Name == "" {
			continue
		}
		if e.Unit == "" {
			e.Unit = quantity.Each
		}
		c.entries = append(c.entries, e)
		c.keys = append(c.keys, textnorm.Key(e.Name))
	}
	return c
}

// Default returns the catalog compiled into the binary.
func Default() *Catalog {
	c, err := Parse(defaultJSON)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded default: %v", err))
	}
	return c
}

// Parse decodes a JSON array of entries.
func Parse(b []byte) (*Catalog, error) {
	var entries []Entry
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	return New(entries), nil
}

// Load reads a catalog file.
func Load(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return Parse(b)
}

// Entries returns a copy of the catalog in natural order.
func (c *Catalog) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

func (c *Catalog) Len() int { return len(c.entries) }

// Match returns the first entry whose name equals query, ignoring case and
// accents. Substrings never match.
func (c *Catalog) Match(query string) (Entry, bool) {
	k := textnorm.Key(query)
	if k == "" {
		return Entry{}, false
	}
	for i, key := range c.keys {
		if key == k {
			return c.entries[i], true
		}
	}
	return Entry{}, false
}

// Resolution is what an add request turns into: either the catalog entry or
// a placeholder built from the user's own text.
type Resolution struct {
	Name        string
	Unit        quantity.Unit
	ImageURL    string
	Placeholder bool
}

// Resolve matches query or falls back to a placeholder named after the
// trimmed query, measured in "un".
func (c *Catalog) Resolve(query string) Resolution {
	if e, ok := c.Match(query); ok {
		return Resolution{Name: e.Name, Unit: e.Unit, ImageURL: e.ImageURL}
	}
	return Resolution{
		Name:        strings.TrimSpace(query),
		Unit:        quantity.Each,
		ImageURL:    PlaceholderImage,
		Placeholder: true,
	}
}

// Suggestions lazily yields the entries whose normalized name contains the
// normalized query, in catalog order. Queries shorter than MinQueryLen
// yield nothing.
func (c *Catalog) Suggestions(query string) iter.Seq[Entry] {
	k := textnorm.Key(query)
	return func(yield func(Entry) bool) {
		if len([]rune(k)) < MinQueryLen {
			return
		}
		for i, key := range c.keys {
			if strings.Contains(key, k) && !yield(c.entries[i]) {
				return
			}
		}
	}
}

// Suggest collects at most limit suggestions; limit <= 0 means no cap.
func (c *Catalog) Suggest(query string, limit int) []Entry {
	var out []Entry
	for e := range c.Suggestions(query) {
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
