package importer

import (
	"slices"
	"strings"
	"testing"

	"recipebook/internal/catalog"
	"recipebook/internal/savefile"
	"recipebook/pkg/domain"
)

func fixture() savefile.Products {
	return savefile.Products{
		Discovered: []string{"ogkush", "meth", "sourglue", "bluesky"},
		Recipes: []savefile.MixRecipe{
			{Product: "ogkush", Mixer: "cuke", Output: "sourglue"},
			{Product: "sourglue", Mixer: "banana", Output: "sweetglue"},
			{Product: "meth", Mixer: "energydrink", Output: "bluesky"},
			{Product: "mystery", Mixer: "unobtainium", Output: "orphan"},
		},
		Prices:     map[string]float64{"ogkush": 38, "sweetglue": 70, "meth": 60},
		Favourites: map[string]struct{}{"sweetglue": {}},
	}
}

func TestConvertWithoutCreatedMetadata(t *testing.T) {
	im := New(catalog.DefaultIngredients(), catalog.DefaultEffects())
	recipes := im.Convert(fixture(), "SaveGame_1")
	if len(recipes) != 4 {
		t.Fatalf("expected one recipe per non-strain output, got %d", len(recipes))
	}

	sweet := recipes[1]
	if sweet.ProductID != "sweetglue" || sweet.Origin != "ogkush" || sweet.OriginDefaulted {
		t.Fatalf("unexpected recipe %+v", sweet)
	}
	var names []string
	for _, ing := range sweet.Drug.Ingredients {
		names = append(names, ing.Name)
		if ing.Quantity != 1 {
			t.Fatalf("expected quantity 1, got %+v", ing)
		}
	}
	if !slices.Equal(names, []string{"Cuke", "Banana"}) {
		t.Fatalf("unexpected ingredient order %v", names)
	}
	if sweet.Drug.IngredientCost() != 4 {
		t.Fatalf("unexpected cost %v", sweet.Drug.IngredientCost())
	}
	if sweet.Drug.BasePrice != 70 || !sweet.Drug.Favorite {
		t.Fatalf("unexpected price or favourite %+v", sweet.Drug)
	}
	if !strings.Contains(sweet.Drug.Notes, "SaveGame_1") {
		t.Fatalf("notes should name the save: %q", sweet.Drug.Notes)
	}

	blue := recipes[2]
	if blue.Drug.DrugType != domain.DrugTypeMeth || blue.Drug.BasePrice != 60 {
		t.Fatalf("expected meth priced from origin, got %+v", blue.Drug)
	}

	orphan := recipes[3]
	if !orphan.OriginDefaulted || orphan.Origin != "ogkush" || orphan.Drug.DrugType != domain.DrugTypeWeed {
		t.Fatalf("expected default strain, got %+v", orphan)
	}
	if len(orphan.Drug.Ingredients) != 2 {
		t.Fatalf("expected both inputs as leaves, got %+v", orphan.Drug.Ingredients)
	}
	for _, ing := range orphan.Drug.Ingredients {
		if ing.UnitPrice != catalog.DefaultIngredientPrice {
			t.Fatalf("expected default price for %s", ing.Name)
		}
	}
	if !strings.Contains(orphan.Drug.Notes, "assumed") {
		t.Fatalf("notes should flag the assumed strain: %q", orphan.Drug.Notes)
	}
}

func TestConvertUsesCreatedMetadata(t *testing.T) {
	p := fixture()
	p.Created = []savefile.CreatedProduct{
		{ID: "bluesky", Name: "Blue Sky", DrugType: savefile.CategoryCocaine, Properties: []string{"energizing", "glitter"}},
	}
	recipes := New(catalog.DefaultIngredients(), catalog.DefaultEffects()).Convert(p, "")
	if len(recipes) != 1 {
		t.Fatalf("expected created products only, got %d", len(recipes))
	}
	d := recipes[0].Drug
	if d.Name != "Blue Sky" || d.DrugType != domain.DrugTypeCocaine {
		t.Fatalf("unexpected drug %+v", d)
	}
	if len(d.Effects) != 2 || d.Effects[0].Name != "Energizing" || d.Effects[1].Name != "glitter" {
		t.Fatalf("unexpected effects %+v", d.Effects)
	}
	if d.Effects[1].Color != domain.DefaultEffectColor {
		t.Fatalf("placeholder effect should carry default color")
	}
}

func TestTypeMapping(t *testing.T) {
	if TypeForCategory(7, domain.DrugTypeMeth) != domain.DrugTypeMeth {
		t.Fatalf("unknown code should keep fallback")
	}
	if TypeForStrain("cocaine") != domain.DrugTypeCocaine || TypeForStrain("greencrack") != domain.DrugTypeWeed {
		t.Fatalf("unexpected strain mapping")
	}
}

func TestExplainFlattensToIngredients(t *testing.T) {
	p := fixture()
	tree := Explain(p, "sweetglue")
	if got := tree.Flatten(); !slices.Equal(got, []string{"cuke", "banana"}) {
		t.Fatalf("unexpected flatten %v", got)
	}
}

func TestSortByName(t *testing.T) {
	recipes := []Recipe{{Drug: domain.Drug{Name: "b"}}, {Drug: domain.Drug{Name: "a"}}}
	SortByName(recipes)
	if recipes[0].Drug.Name != "a" {
		t.Fatalf("expected sorted recipes")
	}
}
