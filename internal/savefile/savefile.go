// Package savefile reads Schedule I save folders: the Game.json header used to
// list saves and the product manager data holding the mix recipes.
package savefile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"recipebook/internal/recipechain"
)

const (
	gameFile         = "Game.json"
	productsDir      = "Products"
	productsFile     = "Products.json"
	createdDir       = "CreatedProducts"
	unknownAttribute = "Unknown"
)

// Category codes used by created products.
const (
	CategoryWeed    = 0
	CategoryMeth    = 1
	CategoryCocaine = 2
)

// MixRecipe is one mixing step recorded by the game.
type MixRecipe struct {
	Product string `json:"Product"`
	Mixer   string `json:"Mixer"`
	Output  string `json:"Output"`
}

// Edge converts the recipe into a resolver edge.
func (m MixRecipe) Edge() recipechain.Edge {
	return recipechain.Edge{Output: m.Output, Product: m.Product, Mixer: m.Mixer}
}

// CreatedProduct is the metadata the game keeps for a product the player named.
type CreatedProduct struct {
	ID         string   `json:"ID"`
	Name       string   `json:"Name"`
	DrugType   int      `json:"DrugType"`
	Properties []string `json:"Properties"`
}

// Products is the parsed product manager data of one save.
type Products struct {
	Discovered []string
	Recipes    []MixRecipe
	Prices     map[string]float64
	Favourites map[string]struct{}
	Created    []CreatedProduct
}

// Edges returns the recipes as resolver edges in file order.
func (p Products) Edges() []recipechain.Edge {
	edges := make([]recipechain.Edge, 0, len(p.Recipes))
	for _, r := range p.Recipes {
		edges = append(edges, r.Edge())
	}
	return edges
}

// Outputs returns every recipe output in file order.
func (p Products) Outputs() []string {
	out := make([]string, 0, len(p.Recipes))
	for _, r := range p.Recipes {
		out = append(out, r.Output)
	}
	return out
}

// IsFavourite reports whether the player favourited id.
func (p Products) IsFavourite(id string) bool {
	_, ok := p.Favourites[id]
	return ok
}

// CreatedByID returns the created product with the given id.
func (p Products) CreatedByID(id string) (CreatedProduct, bool) {
	for _, c := range p.Created {
		if c.ID == id {
			return c, true
		}
	}
	return CreatedProduct{}, false
}

type priceEntry struct {
	String string  `json:"String"`
	Int    float64 `json:"Int"`
}

type productsDoc struct {
	DiscoveredProducts []string         `json:"DiscoveredProducts"`
	MixRecipes         []MixRecipe      `json:"MixRecipes"`
	ProductPrices      []priceEntry     `json:"ProductPrices"`
	FavouritedProducts []string         `json:"FavouritedProducts"`
	CreatedWeed        []CreatedProduct `json:"CreatedWeed"`
	CreatedMeth        []CreatedProduct `json:"CreatedMeth"`
	CreatedCoke        []CreatedProduct `json:"CreatedCoke"`
}

// ErrNoProducts is returned when a save folder carries no products file.
var ErrNoProducts = errors.New("save has no products file")

// Load reads the products data of the save at savePath. It looks for
// Products/Products.json and falls back to Products.json at the save root.
func Load(savePath string) (Products, error) {
	path, err := productsPath(savePath)
	if err != nil {
		return Products{}, err
	}
	// #nosec G304 -- path is inside a save folder chosen by the operator
	raw, err := os.ReadFile(path)
	if err != nil {
		return Products{}, fmt.Errorf("read %s: %w", path, err)
	}
	var doc productsDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Products{}, fmt.Errorf("parse %s: %w", path, err)
	}
	p := Products{
		Discovered: doc.DiscoveredProducts,
		Recipes:    doc.MixRecipes,
		Prices:     make(map[string]float64, len(doc.ProductPrices)),
		Favourites: make(map[string]struct{}, len(doc.FavouritedProducts)),
	}
	for _, e := range doc.ProductPrices {
		p.Prices[e.String] = e.Int
	}
	for _, id := range doc.FavouritedProducts {
		p.Favourites[id] = struct{}{}
	}
	seen := make(map[string]struct{})
	add := func(c CreatedProduct, category int) {
		if c.ID == "" {
			return
		}
		if _, dup := seen[c.ID]; dup {
			return
		}
		if category >= 0 {
			c.DrugType = category
		}
		seen[c.ID] = struct{}{}
		p.Created = append(p.Created, c)
	}
	for _, c := range doc.CreatedWeed {
		add(c, CategoryWeed)
	}
	for _, c := range doc.CreatedMeth {
		add(c, CategoryMeth)
	}
	for _, c := range doc.CreatedCoke {
		add(c, CategoryCocaine)
	}
	files, err := loadCreatedDir(filepath.Join(filepath.Dir(path), createdDir))
	if err != nil {
		return Products{}, err
	}
	for _, c := range files {
		add(c, -1)
	}
	return p, nil
}

func productsPath(savePath string) (string, error) {
	candidates := []string{
		filepath.Join(savePath, productsDir, productsFile),
		filepath.Join(savePath, productsFile),
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, nil
		}
	}
	return "", fmt.Errorf("%s: %w", savePath, ErrNoProducts)
}

func loadCreatedDir(dir string) ([]CreatedProduct, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	out := make([]CreatedProduct, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		// #nosec G304 -- path is derived from directory entries of the save
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		var c CreatedProduct
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if c.ID == "" {
			c.ID = strings.TrimSuffix(name, filepath.Ext(name))
		}
		out = append(out, c)
	}
	return out, nil
}
