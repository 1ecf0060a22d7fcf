package quantity

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "dot separator", raw: "1.5", want: "1.5"},
		{name: "comma separator", raw: "1,5", want: "1.5"},
		{name: "integer", raw: "3", want: "3"},
		{name: "surrounding spaces", raw: "  2,25 ", want: "2.25"},
		{name: "stored label", raw: "1,50 kg", want: "1.5"},
		{name: "label without space", raw: "2un", want: "2"},
		{name: "leading separator", raw: ",5", want: "0.5"},
		{name: "trailing separator", raw: "4.", want: "4"},
		{name: "rounds to cents", raw: "1.005", want: "1.01"},
		{name: "empty", raw: "", wantErr: true},
		{name: "letters", raw: "abc", wantErr: true},
		{name: "zero", raw: "0", wantErr: true},
		{name: "negative", raw: "-1", wantErr: true},
		{name: "rounds to zero", raw: "0.001", wantErr: true},
		{name: "two separators", raw: "1.2.3", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalid) {
					t.Fatalf("Parse(%q) err = %v, want ErrInvalid", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.raw, err)
			}
			if !got.Equal(dec(tt.want)) {
				t.Errorf("Parse(%q) = %s, want %s", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseSeparatorsAgree(t *testing.T) {
	for _, pair := range [][2]string{{"1.5", "1,5"}, {"0.25", "0,25"}, {"10.75", "10,75"}} {
		a, errA := Parse(pair[0])
		b, errB := Parse(pair[1])
		if errA != nil || errB != nil {
			t.Fatalf("parse %v: %v %v", pair, errA, errB)
		}
		if !a.Equal(b) {
			t.Errorf("Parse(%q) = %s but Parse(%q) = %s", pair[0], a, pair[1], b)
		}
	}
}

func TestParseLabelUnit(t *testing.T) {
	v, u, err := ParseLabel("1,50 kg")
	if err != nil {
		t.Fatal(err)
	}
	if !v.Equal(dec("1.5")) || u != Kilogram {
		t.Errorf("ParseLabel = %s %q", v, u)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		v    string
		u    Unit
		want string
	}{
		{"1", Each, "1 un"},
		{"2", Kilogram, "2 kg"},
		{"2.00", Kilogram, "2 kg"},
		{"1.5", Kilogram, "1,50 kg"},
		{"0.25", Liter, "0,25 L"},
		{"12.345", Gram, "12,35 g"},
		{"3", "", "3"},
	}
	for _, tt := range tests {
		if got := Format(dec(tt.v), tt.u); got != tt.want {
			t.Errorf("Format(%s, %q) = %q, want %q", tt.v, tt.u, got, tt.want)
		}
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	units := []Unit{Each, Kilogram, Gram, Liter, Milliliter, Dozen, "cx"}
	for cents := int64(1); cents <= 2000; cents += 7 {
		v := decimal.New(cents, -2)
		for _, u := range units {
			got, err := Parse(Format(v, u))
			if err != nil {
				t.Fatalf("Parse(Format(%s, %s)): %v", v, u, err)
			}
			if !got.Equal(v) {
				t.Fatalf("round trip %s %s = %s", v, u, got)
			}
		}
	}
}

func TestStep(t *testing.T) {
	tests := []struct {
		u    Unit
		want string
	}{
		{Kilogram, "0.5"},
		{Gram, "0.5"},
		{Liter, "0.5"},
		{Milliliter, "0.5"},
		{Each, "1"},
		{Dozen, "1"},
		{"whatever", "1"},
	}
	for _, tt := range tests {
		if got := Step(tt.u); !got.Equal(dec(tt.want)) {
			t.Errorf("Step(%q) = %s, want %s", tt.u, got, tt.want)
		}
	}
}

func TestAdjust(t *testing.T) {
	tests := []struct {
		name        string
		current     string
		u           Unit
		dir         Direction
		want        string
		wantChanged bool
	}{
		{"increase continuous", "1.5", Kilogram, Increase, "2", true},
		{"increase discrete", "1", Each, Increase, "2", true},
		{"decrease continuous", "2", Kilogram, Decrease, "1.5", true},
		{"decrease at one step is a no-op", "0.5", Kilogram, Decrease, "0.5", false},
		{"decrease below one step is a no-op", "0.25", Liter, Decrease, "0.25", false},
		{"decrease discrete floor", "1", Each, Decrease, "1", false},
		{"decrease fractional discrete", "1.5", Each, Decrease, "0.5", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := Adjust(dec(tt.current), tt.u, tt.dir)
			if !got.Equal(dec(tt.want)) || changed != tt.wantChanged {
				t.Errorf("Adjust = %s, %v; want %s, %v", got, changed, tt.want, tt.wantChanged)
			}
		})
	}
}

func TestDecreaseNeverReachesZero(t *testing.T) {
	for _, u := range []Unit{Each, Kilogram, Milliliter, "cx"} {
		for cents := int64(1); cents <= 500; cents++ {
			v := decimal.New(cents, -2)
			for i := 0; i < 20; i++ {
				v, _ = Adjust(v, u, Decrease)
				if !v.IsPositive() {
					t.Fatalf("decrease reached %s for unit %s", v, u)
				}
			}
		}
	}
}
