package model

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/idilsaglam/shoplist/internal/quantity"
)

// Item is one product line of the shopping list.
// Subtotal is always derived from Quantity and UnitPrice.
type Item struct {
	ID          string
	Name        string
	Quantity    decimal.Decimal
	Unit        quantity.Unit
	UnitPrice   decimal.Decimal
	ImageURL    string
	Completed   bool
	Placeholder bool
}

var (
	ErrNoName         = errors.New("item has no name")
	ErrQuantityNotPos = errors.New("item quantity must be positive")
	ErrNegativePrice  = errors.New("item unit price must not be negative")
)

// NewItem validates the invariants every stored item must hold.
func NewItem(id, name string, qty decimal.Decimal, unit quantity.Unit, price decimal.Decimal) (Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Item{}, ErrNoName
	}
	if !qty.IsPositive() {
		return Item{}, ErrQuantityNotPos
	}
	if price.IsNegative() {
		return Item{}, ErrNegativePrice
	}
	if unit == "" {
		unit = quantity.Each
	}
	return Item{ID: id, Name: name, Quantity: qty, Unit: unit, UnitPrice: price}, nil
}

// Subtotal is quantity x unit price.
func (it Item) Subtotal() decimal.Decimal {
	return it.Quantity.Mul(it.UnitPrice)
}

// QuantityLabel is the display form, e.g. "1,50 kg".
func (it Item) QuantityLabel() string {
	return quantity.Format(it.Quantity, it.Unit)
}
