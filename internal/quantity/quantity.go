// Package quantity parses, formats and steps item quantities.
//
// A quantity is always displayed as "<value> <unit>": whole values without
// decimals ("2 kg"), everything else with exactly two decimals and a comma
// separator ("1,50 kg"). The label round-trips through Parse.
package quantity

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalid is returned for absent, non-numeric or non-positive quantities.
var ErrInvalid = errors.New("invalid quantity")

// Unit is the measurement symbol of an item.
type Unit string

const (
	Each       Unit = "un"
	Kilogram   Unit = "kg"
	Gram       Unit = "g"
	Liter      Unit = "L"
	Milliliter Unit = "ml"
	Dozen      Unit = "dz"
	Pack       Unit = "pct"
)

// Continuous reports whether u is measured by weight or volume.
func (u Unit) Continuous() bool {
	switch u {
	case Kilogram, Gram, Liter, Milliliter:
		return true
	}
	return false
}

func (u Unit) String() string { return string(u) }

// Direction of a quantity adjustment.
type Direction int

const (
	Increase Direction = iota + 1
	Decrease
)

func (d Direction) String() string {
	switch d {
	case Increase:
		return "increase"
	case Decrease:
		return "decrease"
	}
	return "unknown"
}

var (
	half = decimal.RequireFromString("0.5")
	one  = decimal.NewFromInt(1)

	// numeric prefix, optional unit suffix: "1.5", "1,50 kg", "2un"
	labelRe = regexp.MustCompile(`^(\d+(?:[.,]\d*)?|[.,]\d+)\s*([A-Za-z]*)$`)
)

// One is the default quantity of a new item.
func One() decimal.Decimal { return one }

// Parse reads a user-entered or stored quantity. Either '.' or ',' may be
// used as the decimal separator; a trailing unit symbol is ignored. The
// value is rounded to two decimals and must stay positive.
func Parse(raw string) (decimal.Decimal, error) {
	v, _, err := ParseLabel(raw)
	return v, err
}

// ParseLabel is Parse that also returns the unit suffix, if any.
func ParseLabel(raw string) (decimal.Decimal, Unit, error) {
	m := labelRe.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return decimal.Zero, "", ErrInvalid
	}
	num := strings.Replace(m[1], ",", ".", 1)
	num = strings.TrimSuffix(num, ".")
	if strings.HasPrefix(num, ".") {
		num = "0" + num
	}
	v, err := decimal.NewFromString(num)
	if err != nil {
		return decimal.Zero, "", ErrInvalid
	}
	v = v.Round(2)
	if !v.IsPositive() {
		return decimal.Zero, "", ErrInvalid
	}
	return v, Unit(m[2]), nil
}

// Format renders v in its canonical display form for unit u.
func Format(v decimal.Decimal, u Unit) string {
	var num string
	if v.IsInteger() {
		num = v.StringFixed(0)
	} else {
		num = strings.Replace(v.StringFixed(2), ".", ",", 1)
	}
	if u == "" {
		return num
	}
	return num + " " + string(u)
}

// Step is the increment used by the +/- controls: half a unit for weight
// and volume, one otherwise (unknown units included).
func Step(u Unit) decimal.Decimal {
	if u.Continuous() {
		return half
	}
	return one
}

// Adjust moves current one step in dir. A decrease is only applied while
// current is strictly greater than one step; otherwise current is returned
// unchanged and changed is false.
func Adjust(current decimal.Decimal, u Unit, dir Direction) (next decimal.Decimal, changed bool) {
	step := Step(u)
	switch dir {
	case Increase:
		return current.Add(step), true
	case Decrease:
		if current.GreaterThan(step) {
			return current.Sub(step), true
		}
	}
	return current, false
}
