package domain

import (
	"encoding/json"
	"math"
	"testing"
)

func sampleDrug() Drug {
	return Drug{
		Name:      "Sour Glue",
		DrugType:  DrugTypeWeed,
		BasePrice: 60,
		Ingredients: []Ingredient{
			{Name: "Cuke", Quantity: 2, UnitPrice: 2},
			{Name: "Battery", Quantity: 1, UnitPrice: 8},
		},
		Effects: []Effect{NewEffect("Energizing", "More energy", "#00FF00")},
	}
}

func TestDrugEconomics(t *testing.T) {
	d := sampleDrug()
	if got := d.IngredientCost(); got != 12 {
		t.Fatalf("expected cost 12, got %v", got)
	}
	if got := d.Profit(); got != 48 {
		t.Fatalf("expected profit 48, got %v", got)
	}
	if got := d.ProfitMargin(); math.Abs(got-400) > 1e-9 {
		t.Fatalf("expected margin 400, got %v", got)
	}
}

func TestProfitMarginZeroCost(t *testing.T) {
	d := Drug{Name: "Free", BasePrice: 10}
	if d.ProfitMargin() != 0 {
		t.Fatalf("expected zero margin without cost")
	}
	if d.Profit() != 10 {
		t.Fatalf("expected profit equal to price")
	}
}

func TestCostIndependentOfIngredientOrder(t *testing.T) {
	d := sampleDrug()
	reversed := d.Clone()
	reversed.Ingredients[0], reversed.Ingredients[1] = reversed.Ingredients[1], reversed.Ingredients[0]
	if d.IngredientCost() != reversed.IngredientCost() {
		t.Fatalf("cost should not depend on order")
	}
}

func TestMatchesSearch(t *testing.T) {
	d := sampleDrug()
	cases := map[string]bool{
		"":       true,
		"sour":   true,
		"WEED":   true,
		"energ":  true,
		"meth":   false,
		"banana": false,
	}
	for text, want := range cases {
		if got := d.MatchesSearch(text); got != want {
			t.Errorf("MatchesSearch(%q) = %v, want %v", text, got, want)
		}
	}
}

func TestNewEffectDefaultsColor(t *testing.T) {
	if e := NewEffect("Calming", "", " "); e.Color != DefaultEffectColor {
		t.Fatalf("expected default color, got %q", e.Color)
	}
}

func TestDrugTypeNormalize(t *testing.T) {
	if DrugType("meth").Normalize() != DrugTypeMeth {
		t.Fatalf("expected case-insensitive match")
	}
	if DrugType("").Normalize() != DrugTypeWeed {
		t.Fatalf("expected weed default")
	}
}

func TestCloneIsolatesSlices(t *testing.T) {
	d := sampleDrug()
	cp := d.Clone()
	cp.Ingredients[0].Quantity = 99
	cp.Effects[0].Name = "changed"
	if d.Ingredients[0].Quantity == 99 || d.Effects[0].Name == "changed" {
		t.Fatalf("clone shares backing arrays")
	}
}

func TestDrugJSONShape(t *testing.T) {
	raw, err := json.Marshal(sampleDrug())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"name", "drug_type", "base_price", "ingredients", "effects", "notes", "favorite"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("missing json key %q", key)
		}
	}
}
