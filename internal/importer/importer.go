// Package importer turns the product data of a save into recipe records,
// using the recipe chain resolver and the ingredient and effect catalogs.
package importer

import (
	"fmt"
	"sort"

	"recipebook/internal/catalog"
	"recipebook/internal/recipechain"
	"recipebook/internal/savefile"
	"recipebook/pkg/domain"
)

// Recipe is one converted product along with how its origin was found.
type Recipe struct {
	ProductID       string
	Origin          string
	OriginDefaulted bool
	Drug            domain.Drug
}

// Importer converts save products using explicit catalogs.
type Importer struct {
	Ingredients *catalog.IngredientCatalog
	Effects     *catalog.EffectCatalog
}

// New returns an importer over the given catalogs.
func New(ingredients *catalog.IngredientCatalog, effects *catalog.EffectCatalog) Importer {
	return Importer{Ingredients: ingredients, Effects: effects}
}

// Known returns the ids treated as products during ingredient resolution:
// discovered products, recipe outputs and the base strains.
func Known(p savefile.Products) map[string]struct{} {
	return recipechain.KnownSet(p.Discovered, p.Outputs(), recipechain.BaseStrains())
}

// Targets lists the product ids to import. Created products come first in
// file order; without any created metadata every non-strain recipe output is
// used instead.
func Targets(p savefile.Products) []string {
	if len(p.Created) > 0 {
		ids := make([]string, 0, len(p.Created))
		for _, c := range p.Created {
			ids = append(ids, c.ID)
		}
		return ids
	}
	seen := make(map[string]struct{})
	var ids []string
	for _, out := range p.Outputs() {
		if recipechain.IsBaseStrain(out) {
			continue
		}
		if _, dup := seen[out]; dup {
			continue
		}
		seen[out] = struct{}{}
		ids = append(ids, out)
	}
	return ids
}

// Convert builds one recipe per target product. source names the save in the
// generated notes.
func (im Importer) Convert(p savefile.Products, source string) []Recipe {
	resolver := recipechain.NewResolver(p.Edges())
	known := Known(p)
	targets := Targets(p)
	out := make([]Recipe, 0, len(targets))
	for _, id := range targets {
		out = append(out, im.convertOne(resolver, known, p, id, source))
	}
	return out
}

func (im Importer) convertOne(r *recipechain.Resolver, known map[string]struct{}, p savefile.Products, id, source string) Recipe {
	origin, ok := r.ResolveOrigin(id)
	rec := Recipe{ProductID: id, Origin: origin}
	if !ok {
		rec.Origin = recipechain.DefaultStrain
		rec.OriginDefaulted = true
	}

	drug := domain.Drug{
		Name:     id,
		DrugType: TypeForStrain(rec.Origin),
		Favorite: p.IsFavourite(id),
	}
	if created, ok := p.CreatedByID(id); ok {
		if created.Name != "" {
			drug.Name = created.Name
		}
		drug.DrugType = TypeForCategory(created.DrugType, drug.DrugType)
		for _, prop := range created.Properties {
			drug.Effects = append(drug.Effects, im.Effects.Hydrate(prop))
		}
	}
	for _, ing := range r.ResolveIngredients(id, known) {
		drug.Ingredients = append(drug.Ingredients, im.Ingredients.Ingredient(ing, 1))
	}
	if price, ok := p.Prices[id]; ok {
		drug.BasePrice = price
	} else {
		drug.BasePrice = p.Prices[rec.Origin]
	}
	drug.Notes = notes(source, rec)
	rec.Drug = drug
	return rec
}

// Explain returns the display tree for one product of the save.
func Explain(p savefile.Products, id string) *recipechain.Node {
	return recipechain.NewResolver(p.Edges()).BuildTree(id, Known(p))
}

// TypeForStrain maps an origin strain to its product family.
func TypeForStrain(strain string) domain.DrugType {
	switch strain {
	case "meth":
		return domain.DrugTypeMeth
	case "cocaine":
		return domain.DrugTypeCocaine
	default:
		return domain.DrugTypeWeed
	}
}

// TypeForCategory maps a created product category code, keeping fallback for
// codes the game has not defined.
func TypeForCategory(code int, fallback domain.DrugType) domain.DrugType {
	switch code {
	case savefile.CategoryWeed:
		return domain.DrugTypeWeed
	case savefile.CategoryMeth:
		return domain.DrugTypeMeth
	case savefile.CategoryCocaine:
		return domain.DrugTypeCocaine
	default:
		return fallback
	}
}

func notes(source string, rec Recipe) string {
	origin := rec.Origin
	if rec.OriginDefaulted {
		origin += " (assumed)"
	}
	if source == "" {
		return fmt.Sprintf("Imported from save. Origin strain: %s. Product id: %s.", origin, rec.ProductID)
	}
	return fmt.Sprintf("Imported from save %s. Origin strain: %s. Product id: %s.", source, origin, rec.ProductID)
}

// SortByName orders recipes by drug name for stable listings.
func SortByName(recipes []Recipe) {
	sort.SliceStable(recipes, func(i, j int) bool { return recipes[i].Drug.Name < recipes[j].Drug.Name })
}
