// Package shoplist owns the shopping list: the ordered items, every
// operation that changes them, and the derived totals and completion flag.
//
// Each change runs to completion on the caller's goroutine and is followed
// by a recomputation of the summary and a full snapshot write, in that
// order. There is no way to change the list without both.
package shoplist

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/idilsaglam/shoplist/internal/catalog"
	"github.com/idilsaglam/shoplist/internal/model"
	"github.com/idilsaglam/shoplist/internal/prompt"
	"github.com/idilsaglam/shoplist/internal/quantity"
	"github.com/idilsaglam/shoplist/internal/textnorm"
	"github.com/idilsaglam/shoplist/internal/totals"
)

// Persister loads and saves the whole list. store.Snapshots implements it.
type Persister interface {
	Load(ctx context.Context) ([]model.Item, error)
	Save(ctx context.Context, items []model.Item) error
	Clear(ctx context.Context) error
}

// Option configures a Store.
type Option func(*Store)

// WithLogger replaces slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithIDs replaces the uuid generator for new items.
func WithIDs(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithMoney sets the currency used in price prompts.
func WithMoney(m totals.Money) Option {
	return func(s *Store) { s.money = m }
}

// Store is the list plus its collaborators. It is not safe for concurrent
// use; callers drive it from one goroutine.
type Store struct {
	catalog *catalog.Catalog
	persist Persister
	prompt  prompt.Prompter
	log     *slog.Logger
	newID   func() string
	money   totals.Money

	items    []model.Item
	summary  Summary
	degraded bool
}

// Open hydrates a store from the persisted snapshot. When the snapshot
// cannot be read the store is still returned, empty and degraded, together
// with an error wrapping ErrPersistenceUnavailable; saving from that state
// would overwrite whatever is stored, so callers decide whether to go on.
// A nil prompter dismisses every question.
func Open(ctx context.Context, cat *catalog.Catalog, p Persister, pr prompt.Prompter, opts ...Option) (*Store, error) {
	if pr == nil {
		pr = &prompt.Queue{}
	}
	s := &Store{
		catalog: cat,
		persist: p,
		prompt:  pr,
		log:     slog.Default(),
		newID:   uuid.NewString,
		money:   totals.NewMoney(totals.DefaultCurrency),
	}
	for _, o := range opts {
		o(s)
	}
	items, err := p.Load(ctx)
	if err != nil {
		s.degraded = true
		s.recompute()
		s.log.Warn("could not load list; starting empty", "error", err)
		return s, fmt.Errorf("%w: %w", ErrPersistenceUnavailable, err)
	}
	s.items = items
	s.recompute()
	s.log.Debug("list loaded", "items", len(items))
	return s, nil
}

func (s *Store) recompute() {
	s.summary = Summarize(s.items)
}

// commit refreshes derived state and writes the snapshot.
func (s *Store) commit(ctx context.Context, op string) error {
	s.recompute()
	if err := s.persist.Save(ctx, s.items); err != nil {
		s.degraded = true
		s.log.Warn("could not save list; keeping it in memory", "op", op, "error", err)
		return fmt.Errorf("%w: %w", ErrPersistenceUnavailable, err)
	}
	s.degraded = false
	s.log.Debug("list saved", "op", op, "items", len(s.items), "total", s.summary.Total.StringFixed(2))
	return nil
}

// Items returns a copy of the list in display order.
func (s *Store) Items() []model.Item {
	return append([]model.Item(nil), s.items...)
}

func (s *Store) Len() int { return len(s.items) }

// Item looks an item up by id.
func (s *Store) Item(id string) (model.Item, bool) {
	if i := s.index(id); i >= 0 {
		return s.items[i], true
	}
	return model.Item{}, false
}

// IDAt returns the id of the item at a 0-based position.
func (s *Store) IDAt(i int) (string, bool) {
	if i < 0 || i >= len(s.items) {
		return "", false
	}
	return s.items[i].ID, true
}

// Summary is the derived state as of the last change.
func (s *Store) Summary() Summary { return s.summary }

// Degraded reports whether the last load or save failed.
func (s *Store) Degraded() bool { return s.degraded }

func (s *Store) Catalog() *catalog.Catalog { return s.catalog }

func (s *Store) Money() totals.Money { return s.money }

// UsePrompter swaps the prompter and returns the previous one. The TUI
// collects answers in its own inputs and hands them over this way.
func (s *Store) UsePrompter(p prompt.Prompter) prompt.Prompter {
	if p == nil {
		p = &prompt.Queue{}
	}
	prev := s.prompt
	s.prompt = p
	return prev
}

func (s *Store) index(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

// FindByName returns the first item whose name matches, ignoring case and
// accents. It is a linear scan; lists are short.
func (s *Store) FindByName(name string) (model.Item, bool) {
	k := textnorm.Key(name)
	for _, it := range s.items {
		if textnorm.Key(it.Name) == k {
			return it, true
		}
	}
	return model.Item{}, false
}

// Resolve previews what Add would create for rawName and whether it would
// be a duplicate.
func (s *Store) Resolve(rawName string) (res catalog.Resolution, duplicate bool, err error) {
	name := strings.TrimSpace(rawName)
	if name == "" {
		return catalog.Resolution{}, false, ErrEmptyName
	}
	res = s.catalog.Resolve(name)
	_, duplicate = s.FindByName(res.Name)
	return res, duplicate, nil
}

// Add resolves rawName against the catalog and appends a new item. A
// duplicate needs the user's confirmation first; then the quantity is asked
// for until it is valid (a blank answer means 1). Declining or dismissing
// leaves the list untouched. New items start unpriced.
func (s *Store) Add(ctx context.Context, rawName string) (model.Item, error) {
	res, dup, err := s.Resolve(rawName)
	if err != nil {
		return model.Item{}, err
	}
	if dup {
		msg := fmt.Sprintf("%q is already on the list. Add it again?", res.Name)
		if !s.prompt.Confirm(msg) {
			return model.Item{}, ErrDuplicateDeclined
		}
	}
	qty, err := s.askQuantity(res)
	if err != nil {
		return model.Item{}, err
	}
	it, err := model.NewItem(s.newID(), res.Name, qty, res.Unit, decimal.Zero)
	if err != nil {
		return model.Item{}, err
	}
	it.ImageURL = res.ImageURL
	it.Placeholder = res.Placeholder

	s.items = append(s.items, it)
	return it, s.commit(ctx, "add")
}

func (s *Store) askQuantity(res catalog.Resolution) (decimal.Decimal, error) {
	msg := fmt.Sprintf("How many %s of %s? (use . or , for decimals, e.g. 1.5)", res.Unit, res.Name)
	for {
		raw, ok := s.prompt.Ask(msg, "1")
		if !ok {
			return decimal.Zero, ErrCancelled
		}
		if strings.TrimSpace(raw) == "" {
			return quantity.One(), nil
		}
		v, err := quantity.Parse(raw)
		if err == nil {
			return v, nil
		}
		s.prompt.Alert("Please enter a valid, positive number.")
	}
}

// Remove deletes the item with id. Unknown ids are ignored.
func (s *Store) Remove(ctx context.Context, id string) error {
	i := s.index(id)
	if i < 0 {
		return nil
	}
	s.items = slices.Delete(s.items, i, i+1)
	return s.commit(ctx, "remove")
}

// Restore puts a previously removed item back at position i (clamped to
// the list bounds). It backs undo.
func (s *Store) Restore(ctx context.Context, i int, it model.Item) (model.Item, error) {
	if _, err := model.NewItem(it.ID, it.Name, it.Quantity, it.Unit, it.UnitPrice); err != nil {
		return model.Item{}, err
	}
	if it.ID == "" || s.index(it.ID) >= 0 {
		it.ID = s.newID()
	}
	i = max(0, min(i, len(s.items)))
	s.items = slices.Insert(s.items, i, it)
	return it, s.commit(ctx, "restore")
}

// Toggle flips the completed flag of the item with id.
func (s *Store) Toggle(ctx context.Context, id string) (model.Item, error) {
	i := s.index(id)
	if i < 0 {
		return model.Item{}, ErrItemNotFound
	}
	s.items[i].Completed = !s.items[i].Completed
	return s.items[i], s.commit(ctx, "toggle")
}

// Adjust steps the quantity of the item with id. A decrease at or below one
// step changes nothing and writes nothing.
func (s *Store) Adjust(ctx context.Context, id string, dir quantity.Direction) (model.Item, error) {
	i := s.index(id)
	if i < 0 {
		return model.Item{}, ErrItemNotFound
	}
	next, changed := quantity.Adjust(s.items[i].Quantity, s.items[i].Unit, dir)
	if !changed {
		return s.items[i], nil
	}
	s.items[i].Quantity = next
	return s.items[i], s.commit(ctx, "adjust")
}

// SetPrice sets the unit price; negative values are stored as zero.
func (s *Store) SetPrice(ctx context.Context, id string, price decimal.Decimal) (model.Item, error) {
	i := s.index(id)
	if i < 0 {
		return model.Item{}, ErrItemNotFound
	}
	if price.IsNegative() {
		price = decimal.Zero
	}
	s.items[i].UnitPrice = price.Round(2)
	return s.items[i], s.commit(ctx, "price")
}

// SetUnitPrice parses raw leniently: anything that is not a non-negative
// number is stored as zero rather than rejected.
func (s *Store) SetUnitPrice(ctx context.Context, id string, raw string) (model.Item, error) {
	price, err := s.money.ParsePrice(raw)
	if err != nil {
		s.log.Debug("price coerced to zero", "input", raw)
	}
	return s.SetPrice(ctx, id, price)
}

// EditPrice asks for a new unit price, offering the current one.
func (s *Store) EditPrice(ctx context.Context, id string) (model.Item, error) {
	it, ok := s.Item(id)
	if !ok {
		return model.Item{}, ErrItemNotFound
	}
	msg := fmt.Sprintf("Unit price of %s (%s per %s)", it.Name, s.money.Prefix, it.Unit)
	raw, ok := s.prompt.Ask(msg, totals.Amount(it.UnitPrice))
	if !ok {
		return model.Item{}, ErrCancelled
	}
	return s.SetUnitPrice(ctx, id, raw)
}

// Clear empties the list and erases the stored snapshot.
func (s *Store) Clear(ctx context.Context) error {
	s.items = nil
	s.recompute()
	if err := s.persist.Clear(ctx); err != nil {
		s.degraded = true
		s.log.Warn("could not erase stored list", "error", err)
		return fmt.Errorf("%w: %w", ErrPersistenceUnavailable, err)
	}
	s.degraded = false
	s.log.Debug("list cleared")
	return nil
}
