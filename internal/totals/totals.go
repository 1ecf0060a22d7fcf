// Package totals derives subtotals and the grand total of a list and
// formats money values.
package totals

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/idilsaglam/shoplist/internal/model"
)

// DefaultCurrency is the prefix token used when none is configured.
const DefaultCurrency = "R$"

// ErrInvalidPrice is returned for non-numeric or negative prices.
var ErrInvalidPrice = errors.New("invalid price")

var priceRe = regexp.MustCompile(`^-?(\d+(?:[.,]\d*)?|[.,]\d+)$`)

// Subtotal is quantity x unit price of one item.
func Subtotal(it model.Item) decimal.Decimal { return it.Subtotal() }

// GrandTotal sums every item's subtotal. An empty list totals zero.
func GrandTotal(items []model.Item) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(Subtotal(it))
	}
	return sum
}

// Money formats amounts as "<prefix> 0,00".
type Money struct {
	Prefix string
}

// NewMoney falls back to DefaultCurrency for an empty prefix.
func NewMoney(prefix string) Money {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = DefaultCurrency
	}
	return Money{Prefix: prefix}
}

// Format rounds v to cents and uses a comma as decimal separator.
func (m Money) Format(v decimal.Decimal) string {
	num := strings.Replace(v.StringFixed(2), ".", ",", 1)
	if m.Prefix == "" {
		return num
	}
	return m.Prefix + " " + num
}

// Amount renders v without the currency prefix, e.g. "2,50".
func Amount(v decimal.Decimal) string {
	return strings.Replace(v.StringFixed(2), ".", ",", 1)
}

// ParsePrice reads a unit price typed by the user. Either separator is
// accepted and a leading currency token ("R$", "$") is ignored. The value
// is rounded to cents.
func ParsePrice(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, DefaultCurrency)
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimSpace(s)
	if !priceRe.MatchString(s) {
		return decimal.Zero, ErrInvalidPrice
	}
	s = strings.TrimSuffix(strings.Replace(s, ",", ".", 1), ".")
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	} else if strings.HasPrefix(s, "-.") {
		s = "-0" + s[1:]
	}
	v, err := decimal.NewFromString(s)
	if err != nil || v.IsNegative() {
		return decimal.Zero, ErrInvalidPrice
	}
	return v.Round(2), nil
}

// ParsePrice strips m's own prefix before parsing, so a configured
// currency such as "€" is accepted as typed.
func (m Money) ParsePrice(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if m.Prefix != "" {
		s = strings.TrimPrefix(s, m.Prefix)
	}
	return ParsePrice(s)
}

// CoercePrice is the lenient form of ParsePrice: anything unparsable or
// negative becomes zero.
func CoercePrice(raw string) decimal.Decimal {
	v, err := ParsePrice(raw)
	if err != nil {
		return decimal.Zero
	}
	return v
}
