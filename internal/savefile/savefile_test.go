package savefile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const productsJSON = `{
  "DataType": "ProductManagerData",
  "DiscoveredProducts": ["ogkush", "sourglue"],
  "MixRecipes": [
    {"Product": "ogkush", "Mixer": "cuke", "Output": "sourglue"},
    {"Product": "sourglue", "Mixer": "banana", "Output": "sweetglue"}
  ],
  "ProductPrices": [{"String": "ogkush", "Int": 38}, {"String": "sourglue", "Int": 55}],
  "FavouritedProducts": ["sourglue"],
  "CreatedMeth": [{"ID": "bluesky", "Name": "Blue Sky", "Properties": ["energizing"]}]
}`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func newSave(t *testing.T, dir, org string) string {
	t.Helper()
	writeFile(t, filepath.Join(dir, "Game.json"), `{"OrganisationName":"`+org+`","GameVersion":"0.3.3"}`)
	writeFile(t, filepath.Join(dir, "Products", "Products.json"), productsJSON)
	writeFile(t, filepath.Join(dir, "Products", "CreatedProducts", "sourglue.json"),
		`{"DataType":"WeedProductData","Name":"Sour Glue","ID":"sourglue","DrugType":0,"Properties":["calming","munchies"]}`)
	writeFile(t, filepath.Join(dir, "Products", "CreatedProducts", "bluesky.json"),
		`{"Name":"Duplicate","ID":"bluesky","DrugType":1}`)
	return dir
}

func TestLoadParsesProducts(t *testing.T) {
	save := newSave(t, t.TempDir(), "Cartel")
	p, err := Load(save)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(p.Discovered) != 2 || len(p.Recipes) != 2 {
		t.Fatalf("unexpected products %+v", p)
	}
	if p.Prices["sourglue"] != 55 {
		t.Fatalf("unexpected price map %v", p.Prices)
	}
	if !p.IsFavourite("sourglue") || p.IsFavourite("ogkush") {
		t.Fatalf("unexpected favourites %v", p.Favourites)
	}
	if len(p.Created) != 2 {
		t.Fatalf("expected inline and file products deduplicated, got %+v", p.Created)
	}
	meth, ok := p.CreatedByID("bluesky")
	if !ok || meth.DrugType != CategoryMeth || meth.Name != "Blue Sky" {
		t.Fatalf("inline product should win, got %+v", meth)
	}
	weed, ok := p.CreatedByID("sourglue")
	if !ok || len(weed.Properties) != 2 {
		t.Fatalf("unexpected created product %+v", weed)
	}
	edges := p.Edges()
	if edges[0].Output != "sourglue" || edges[0].Product != "ogkush" || edges[0].Mixer != "cuke" {
		t.Fatalf("unexpected edge %+v", edges[0])
	}
	if outs := p.Outputs(); len(outs) != 2 || outs[1] != "sweetglue" {
		t.Fatalf("unexpected outputs %v", outs)
	}
}

func TestLoadRootProductsFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Products.json"), productsJSON)
	p, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(p.Recipes) != 2 {
		t.Fatalf("expected recipes from root file")
	}
}

func TestLoadMissingProducts(t *testing.T) {
	_, err := Load(t.TempDir())
	if !errors.Is(err, ErrNoProducts) {
		t.Fatalf("expected ErrNoProducts, got %v", err)
	}
}

func TestLoadInvalidProducts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Products", "Products.json"), "{not json")
	if _, err := Load(dir); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestDiscoverLayouts(t *testing.T) {
	root := t.TempDir()
	newSave(t, filepath.Join(root, "7656119", "SaveGame_1"), "Alpha")
	newSave(t, filepath.Join(root, "7656119", "SaveGame_2"), "")
	writeFile(t, filepath.Join(root, "7656119", "SaveGame_3", "Game.json"), "{broken")

	saves, err := Discover(root, nil)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if len(saves) != 2 {
		t.Fatalf("expected two readable saves, got %+v", saves)
	}
	if saves[0].Organisation != "Alpha" || saves[0].SteamID != "7656119" || saves[0].Folder != "SaveGame_1" {
		t.Fatalf("unexpected info %+v", saves[0])
	}
	if saves[1].Organisation != "Unknown" || saves[1].GameVersion != "0.3.3" {
		t.Fatalf("unexpected info %+v", saves[1])
	}

	steam, err := Discover(filepath.Join(root, "7656119"), nil)
	if err != nil || len(steam) != 2 {
		t.Fatalf("steam folder discover = %+v, %v", steam, err)
	}

	single, err := Discover(filepath.Join(root, "7656119", "SaveGame_1"), nil)
	if err != nil || len(single) != 1 || single[0].SteamID != "7656119" {
		t.Fatalf("single save discover = %+v, %v", single, err)
	}
}

func TestDiscoverMissingRoot(t *testing.T) {
	if _, err := Discover(filepath.Join(t.TempDir(), "absent"), nil); err == nil {
		t.Fatalf("expected error for missing root")
	}
}

func TestDefaultRoot(t *testing.T) {
	profile := t.TempDir()
	t.Setenv("USERPROFILE", profile)
	if _, ok := DefaultRoot(); ok {
		t.Fatalf("expected no default root")
	}
	saves := filepath.Join(profile, "AppData", "LocalLow", "TVGS", "Schedule I", "Saves")
	if err := os.MkdirAll(saves, 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	got, ok := DefaultRoot()
	if !ok || got != saves {
		t.Fatalf("DefaultRoot() = %q, %v", got, ok)
	}
}
