package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/idilsaglam/shoplist/internal/catalog"
	"github.com/idilsaglam/shoplist/internal/model"
	"github.com/idilsaglam/shoplist/internal/quantity"
	"github.com/idilsaglam/shoplist/internal/totals"
)

// Record is the persisted shape of one item. The format has no version
// field; every field is optional on read.
type Record struct {
	ID            string `json:"id,omitempty"`
	Name          string `json:"name"`
	Quantity      Label  `json:"quantity"`
	Unit          string `json:"unit,omitempty"`
	UnitPrice     Price  `json:"unitPrice"`
	Subtotal      string `json:"subtotal,omitempty"`
	ImageURL      string `json:"imageUrl,omitempty"`
	Image         string `json:"image,omitempty"`
	Completed     Flag   `json:"completed"`
	IsPlaceholder Flag   `json:"isPlaceholder"`
}

// Label is a quantity label such as "1,50 kg". A bare JSON number is read
// as its digits; any other non-string becomes empty.
type Label string

func (l *Label) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	var s string
	switch {
	case len(b) > 0 && b[0] == '"':
		if err := json.Unmarshal(b, &s); err != nil {
			s = ""
		}
	case json.Valid(b) && len(b) > 0 && (b[0] == '-' || (b[0] >= '0' && b[0] <= '9')):
		s = string(b)
	}
	*l = Label(s)
	return nil
}

// Flag is a boolean that also accepts "true"/"false" strings and numbers.
// Anything unrecognised reads as false.
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	var s string
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			s = ""
		}
	} else {
		s = string(b)
	}
	v, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		if n, nerr := strconv.ParseFloat(s, 64); nerr == nil {
			v = n != 0
		}
	}
	*f = Flag(v)
	return nil
}

// Price accepts a JSON number or string on read and falls back to zero for
// anything else, negative values included. It is written as a string.
type Price struct {
	decimal.Decimal
}

func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.StringFixed(2))
}

func (p *Price) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	var s string
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			s = ""
		}
	} else {
		s = string(b)
	}
	p.Decimal = totals.CoercePrice(s)
	return nil
}

// Encode serialises items as the snapshot array.
func Encode(items []model.Item) ([]byte, error) {
	recs := make([]Record, 0, len(items))
	for _, it := range items {
		recs = append(recs, Record{
			ID:            it.ID,
			Name:          it.Name,
			Quantity:      Label(it.QuantityLabel()),
			Unit:          string(it.Unit),
			UnitPrice:     Price{it.UnitPrice},
			Subtotal:      it.Subtotal().StringFixed(2),
			ImageURL:      it.ImageURL,
			Completed:     Flag(it.Completed),
			IsPlaceholder: Flag(it.Placeholder),
		})
	}
	b, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json marshal: %w", err)
	}
	return b, nil
}

// Decode reads a snapshot leniently. Records that cannot be read or have no
// name are skipped, repeated ids are replaced, a missing or invalid
// quantity becomes 1 and a missing price 0. The cached subtotal is ignored.
// Only a blob that is not a JSON array fails.
func Decode(b []byte) ([]model.Item, error) {
	if len(bytes.TrimSpace(b)) == 0 || bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return []model.Item{}, nil
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(b, &raws); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	items := make([]model.Item, 0, len(raws))
	seen := make(map[string]bool, len(raws))
	for i, raw := range raws {
		var r Record
		if err := json.Unmarshal(raw, &r); err != nil {
			slog.Warn("skipping unreadable snapshot record", "index", i, "error", err)
			continue
		}
		it, ok := fromRecord(r)
		if !ok {
			slog.Warn("skipping snapshot record without a name", "index", i)
			continue
		}
		if seen[it.ID] {
			it.ID = uuid.NewString()
		}
		seen[it.ID] = true
		items = append(items, it)
	}
	return items, nil
}

func fromRecord(r Record) (model.Item, bool) {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return model.Item{}, false
	}
	qty, labelUnit, err := quantity.ParseLabel(string(r.Quantity))
	if err != nil {
		qty = quantity.One()
	}
	unit := quantity.Unit(strings.TrimSpace(r.Unit))
	if unit == "" {
		unit = labelUnit
	}
	if unit == "" {
		unit = quantity.Each
	}
	img := r.ImageURL
	if img == "" {
		img = r.Image
	}
	placeholder := bool(r.IsPlaceholder) || img == catalog.PlaceholderImage
	if placeholder && img == "" {
		img = catalog.PlaceholderImage
	}
	id := r.ID
	if id == "" {
		id = uuid.NewString()
	}
	return model.Item{
		ID:          id,
		Name:        name,
		Quantity:    qty,
		Unit:        unit,
		UnitPrice:   r.UnitPrice.Decimal,
		ImageURL:    img,
		Completed:   bool(r.Completed),
		Placeholder: placeholder,
	}, true
}

// Snapshots adapts a Blobs store to whole-list load/save. Writes are
// serialised so concurrent savers cannot interleave partial state.
type Snapshots struct {
	blobs Blobs
	key   string
	mu    sync.Mutex
}

func NewSnapshots(blobs Blobs, key string) *Snapshots {
	if key == "" {
		key = DefaultKey
	}
	return &Snapshots{blobs: blobs, key: key}
}

func (s *Snapshots) Key() string { return s.key }

// Load returns an empty list when nothing was saved yet.
func (s *Snapshots) Load(ctx context.Context) ([]model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.blobs.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return []model.Item{}, nil
		}
		return nil, fmt.Errorf("load %s: %w", s.key, err)
	}
	items, err := Decode(b)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.key, err)
	}
	return items, nil
}

// Save overwrites the snapshot with items.
func (s *Snapshots) Save(ctx context.Context, items []model.Item) error {
	b, err := Encode(items)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.blobs.Put(ctx, s.key, b); err != nil {
		return fmt.Errorf("save %s: %w", s.key, err)
	}
	return nil
}

// Clear erases the snapshot.
func (s *Snapshots) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.blobs.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("clear %s: %w", s.key, err)
	}
	return nil
}

// Close closes the underlying blob store.
func (s *Snapshots) Close() error { return s.blobs.Close() }
