package totals

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/idilsaglam/shoplist/internal/model"
	"github.com/idilsaglam/shoplist/internal/quantity"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func item(qty, price string, u quantity.Unit) model.Item {
	return model.Item{Name: "x", Quantity: dec(qty), Unit: u, UnitPrice: dec(price)}
}

func TestGrandTotalMatchesSubtotals(t *testing.T) {
	lists := map[string][]model.Item{
		"empty":  nil,
		"single": {item("2", "2.50", quantity.Kilogram)},
		"many": {
			item("2", "2.50", quantity.Kilogram),
			item("1.5", "7.99", quantity.Liter),
			item("3", "0", quantity.Each),
			item("0.5", "12.40", quantity.Gram),
		},
	}
	for name, items := range lists {
		t.Run(name, func(t *testing.T) {
			want := decimal.Zero
			for _, it := range items {
				want = want.Add(it.Quantity.Mul(it.UnitPrice))
			}
			if got := GrandTotal(items); !got.Equal(want) {
				t.Errorf("GrandTotal = %s, want %s", got, want)
			}
		})
	}
}

func TestMoneyFormat(t *testing.T) {
	m := NewMoney("")
	tests := []struct {
		v    string
		want string
	}{
		{"5", "R$ 5,00"},
		{"0", "R$ 0,00"},
		{"11.985", "R$ 11,99"},
		{"1234.5", "R$ 1234,50"},
	}
	for _, tt := range tests {
		if got := m.Format(dec(tt.v)); got != tt.want {
			t.Errorf("Format(%s) = %q, want %q", tt.v, got, tt.want)
		}
	}
	if got := NewMoney("€").Format(dec("1")); got != "€ 1,00" {
		t.Errorf("custom prefix = %q", got)
	}
}

func TestSubtotalScenario(t *testing.T) {
	it := item("2", "0", quantity.Kilogram)
	it.UnitPrice = CoercePrice("2,50")
	if got := NewMoney(DefaultCurrency).Format(Subtotal(it)); got != "R$ 5,00" {
		t.Errorf("subtotal = %q, want R$ 5,00", got)
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "2,50", want: "2.5"},
		{raw: "2.50", want: "2.5"},
		{raw: "R$ 3,10", want: "3.1"},
		{raw: "$4", want: "4"},
		{raw: "0", want: "0"},
		{raw: ",99", want: "0.99"},
		{raw: "1.999", want: "2"},
		{raw: "-1", wantErr: true},
		{raw: "abc", wantErr: true},
		{raw: "", wantErr: true},
		{raw: "1,2,3", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParsePrice(tt.raw)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidPrice) {
				t.Errorf("ParsePrice(%q) err = %v, want ErrInvalidPrice", tt.raw, err)
			}
			continue
		}
		if err != nil || !got.Equal(dec(tt.want)) {
			t.Errorf("ParsePrice(%q) = %s, %v; want %s", tt.raw, got, err, tt.want)
		}
	}
}

func TestMoneyParsePrice(t *testing.T) {
	euro := NewMoney("€")
	for raw, want := range map[string]string{"€ 2,50": "2.5", "€3": "3", "1,25": "1.25", "R$ 4": "4"} {
		got, err := euro.ParsePrice(raw)
		if err != nil || !got.Equal(dec(want)) {
			t.Errorf("ParsePrice(%q) = %s, %v; want %s", raw, got, err, want)
		}
	}
	if _, err := euro.ParsePrice("€ -1"); !errors.Is(err, ErrInvalidPrice) {
		t.Errorf("negative euro price err = %v", err)
	}
}

func TestCoercePrice(t *testing.T) {
	for _, raw := range []string{"-5", "grátis", "", "1..2"} {
		if got := CoercePrice(raw); !got.IsZero() {
			t.Errorf("CoercePrice(%q) = %s, want 0", raw, got)
		}
	}
	if got := CoercePrice("7,25"); !got.Equal(dec("7.25")) {
		t.Errorf("CoercePrice(7,25) = %s", got)
	}
}
