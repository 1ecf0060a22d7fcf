package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/idilsaglam/shoplist/internal/catalog"
	"github.com/idilsaglam/shoplist/internal/model"
	"github.com/idilsaglam/shoplist/internal/quantity"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleItems() []model.Item {
	return []model.Item{
		{
			ID: "a1", Name: "Arroz", Quantity: dec("1.5"), Unit: quantity.Kilogram,
			UnitPrice: dec("6.40"), ImageURL: "img/arroz.png",
		},
		{
			ID: "b2", Name: "Item Inexistente", Quantity: dec("1"), Unit: quantity.Each,
			UnitPrice: decimal.Zero, ImageURL: catalog.PlaceholderImage, Completed: true, Placeholder: true,
		},
	}
}

func TestEncodeRecordShape(t *testing.T) {
	b, err := Encode(sampleItems())
	if err != nil {
		t.Fatal(err)
	}
	var raw []map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatal(err)
	}
	if len(raw) != 2 {
		t.Fatalf("records = %d, want 2", len(raw))
	}
	first := raw[0]
	checks := map[string]any{
		"name":          "Arroz",
		"quantity":      "1,50 kg",
		"unit":          "kg",
		"unitPrice":     "6.40",
		"subtotal":      "9.60",
		"imageUrl":      "img/arroz.png",
		"completed":     false,
		"isPlaceholder": false,
	}
	for k, want := range checks {
		if first[k] != want {
			t.Errorf("record[%q] = %v, want %v", k, first[k], want)
		}
	}
}

func TestEncodeDecodeKeepsItems(t *testing.T) {
	in := sampleItems()
	b, err := Encode(in)
	if err != nil {
		t.Fatal(err)
	}
	out, err := Decode(b)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != len(in) {
		t.Fatalf("decoded %d items, want %d", len(out), len(in))
	}
	for i := range in {
		a, b := in[i], out[i]
		if a.ID != b.ID || a.Name != b.Name || !a.Quantity.Equal(b.Quantity) || a.Unit != b.Unit ||
			!a.UnitPrice.Equal(b.UnitPrice) || a.ImageURL != b.ImageURL || a.Completed != b.Completed ||
			a.Placeholder != b.Placeholder {
			t.Errorf("item %d: got %+v, want %+v", i, b, a)
		}
	}
}

func TestDecodeLenient(t *testing.T) {
	blob := `[
	  {"name": "Leite", "quantity": "2 L", "image": "img/leite.png", "completed": true},
	  {"name": "Pipoca", "quantity": "", "unitPrice": 3.5, "image": "https://via.placeholder.com/40"},
	  {"name": "Suco", "quantity": "abc", "unitPrice": "1,25", "unit": "L"},
	  {"name": "Sabão", "quantity": "1 un", "unitPrice": "grátis"},
	  {"name": "Água", "quantity": "1 L", "unitPrice": -4},
	  {"quantity": "1 un"},
	  {"name": "   "}
	]`
	items, err := Decode([]byte(blob))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(items) != 5 {
		t.Fatalf("decoded %d items, want 5", len(items))
	}

	leite := items[0]
	if leite.Unit != quantity.Liter || !leite.Quantity.Equal(dec("2")) || leite.ImageURL != "img/leite.png" ||
		!leite.Completed || !leite.UnitPrice.IsZero() || leite.ID == "" {
		t.Errorf("legacy record = %+v", leite)
	}

	pipoca := items[1]
	if !pipoca.Placeholder || pipoca.Unit != quantity.Each || !pipoca.Quantity.Equal(dec("1")) ||
		!pipoca.UnitPrice.Equal(dec("3.5")) {
		t.Errorf("placeholder record = %+v", pipoca)
	}

	suco := items[2]
	if !suco.Quantity.Equal(dec("1")) || suco.Unit != quantity.Liter || !suco.UnitPrice.Equal(dec("1.25")) {
		t.Errorf("bad quantity record = %+v", suco)
	}

	if !items[3].UnitPrice.IsZero() || !items[4].UnitPrice.IsZero() {
		t.Errorf("invalid prices should load as zero: %s %s", items[3].UnitPrice, items[4].UnitPrice)
	}
	if items[0].ID == items[1].ID {
		t.Error("generated ids should be unique")
	}
}

func TestDecodeMistypedFields(t *testing.T) {
	blob := `[
	  {"name": "Arroz", "quantity": 1.5, "unit": "kg"},
	  {"name": "Leite", "quantity": "1 L", "completed": "true"},
	  {"name": 42, "quantity": "1 un"},
	  "not a record",
	  null,
	  {"name": "Ovos", "quantity": true, "completed": 1, "isPlaceholder": "yes"}
	]`
	items, err := Decode([]byte(blob))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("decoded %d items, want 3: %+v", len(items), items)
	}
	if items[0].Name != "Arroz" || items[0].QuantityLabel() != "1,50 kg" {
		t.Errorf("numeric quantity = %+v", items[0])
	}
	if items[1].Name != "Leite" || !items[1].Completed {
		t.Errorf("string completed = %+v", items[1])
	}
	ovos := items[2]
	if ovos.Name != "Ovos" || !ovos.Quantity.Equal(dec("1")) || !ovos.Completed || ovos.Placeholder {
		t.Errorf("mistyped flags = %+v", ovos)
	}
}

func TestDecodeReplacesRepeatedIDs(t *testing.T) {
	blob := `[
	  {"id": "x", "name": "Arroz", "quantity": "1 kg"},
	  {"id": "x", "name": "Feijão", "quantity": "1 kg"},
	  {"id": "y", "name": "Sal", "quantity": "1 un"}
	]`
	items, err := Decode([]byte(blob))
	if err != nil {
		t.Fatal(err)
	}
	if items[0].ID != "x" || items[2].ID != "y" {
		t.Errorf("first ids should be kept: %q %q", items[0].ID, items[2].ID)
	}
	if items[1].ID == "" || items[1].ID == "x" || items[1].ID == "y" {
		t.Errorf("repeated id not replaced: %q", items[1].ID)
	}
}

func TestDecodeEmptyAndGarbage(t *testing.T) {
	for _, blob := range []string{"", "  ", "null", "[]"} {
		items, err := Decode([]byte(blob))
		if err != nil || len(items) != 0 {
			t.Errorf("Decode(%q) = %v, %v", blob, items, err)
		}
	}
	if _, err := Decode([]byte(`{"not": "a list"}`)); err == nil {
		t.Error("expected an error for a non-array blob")
	}
}

type failingBlobs struct {
	*Memory
	err error
}

func (f *failingBlobs) Get(context.Context, string) ([]byte, error) { return nil, f.err }
func (f *failingBlobs) Put(context.Context, string, []byte) error  { return f.err }

func TestSnapshots(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	s := NewSnapshots(mem, "")
	if s.Key() != DefaultKey {
		t.Fatalf("Key = %q", s.Key())
	}

	items, err := s.Load(ctx)
	if err != nil || len(items) != 0 {
		t.Fatalf("Load on empty store = %v, %v", items, err)
	}
	if err := s.Save(ctx, sampleItems()); err != nil {
		t.Fatal(err)
	}
	if _, err := mem.Get(ctx, DefaultKey); err != nil {
		t.Fatalf("blob not written: %v", err)
	}
	items, err = s.Load(ctx)
	if err != nil || len(items) != 2 {
		t.Fatalf("Load = %d items, %v", len(items), err)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := mem.Get(ctx, DefaultKey); !errors.Is(err, ErrNotFound) {
		t.Errorf("after Clear Get err = %v, want ErrNotFound", err)
	}
}

func TestSnapshotsPropagatesErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("quota exceeded")
	s := NewSnapshots(&failingBlobs{Memory: NewMemory(), err: boom}, "k")
	if _, err := s.Load(ctx); !errors.Is(err, boom) {
		t.Errorf("Load err = %v", err)
	}
	if err := s.Save(ctx, sampleItems()); !errors.Is(err, boom) {
		t.Errorf("Save err = %v", err)
	}

	mem := NewMemory()
	_ = mem.Put(ctx, "k", []byte("{broken"))
	if _, err := NewSnapshots(mem, "k").Load(ctx); err == nil {
		t.Error("expected decode error")
	}
}
