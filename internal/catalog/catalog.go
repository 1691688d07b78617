// Package catalog holds the ingredient and effect repositories used to price
// and describe recipes.
package catalog

import (
	"strings"
	"sync"

	"recipebook/pkg/domain"
)

// DefaultIngredientPrice is charged for ingredients the catalog does not know.
const DefaultIngredientPrice = 5.0

// IngredientEntry is a catalog row for a purchasable ingredient.
type IngredientEntry struct {
	Name      string  `yaml:"name" json:"name"`
	UnitPrice float64 `yaml:"unit_price" json:"unit_price"`
}

// Key normalizes a name for lookups: lower case with spaces, hyphens and
// underscores removed, so save ids such as "energydrink" hit "Energy Drink".
func Key(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch r {
		case ' ', '-', '_':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ordered is an insertion-ordered, key-normalized collection.
type ordered[T any] struct {
	mu    sync.RWMutex
	name  func(T) string
	order []string
	items map[string]T
}

func newOrdered[T any](name func(T) string) *ordered[T] {
	return &ordered[T]{name: name, items: make(map[string]T)}
}

// put adds or replaces an item and reports whether it was new.
func (o *ordered[T]) put(item T) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	k := Key(o.name(item))
	_, exists := o.items[k]
	if !exists {
		o.order = append(o.order, k)
	}
	o.items[k] = item
	return !exists
}

func (o *ordered[T]) remove(name string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	k := Key(name)
	if _, ok := o.items[k]; !ok {
		return false
	}
	delete(o.items, k)
	for i, existing := range o.order {
		if existing == k {
			o.order = append(o.order[:i], o.order[i+1:]...)
			break
		}
	}
	return true
}

// replace swaps the item stored under old for item, keeping its position. It
// reports false when old is missing or item's name belongs to another entry.
func (o *ordered[T]) replace(old string, item T) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	oldKey := Key(old)
	if _, ok := o.items[oldKey]; !ok {
		return false
	}
	newKey := Key(o.name(item))
	if newKey != oldKey {
		if _, taken := o.items[newKey]; taken {
			return false
		}
		delete(o.items, oldKey)
		for i, existing := range o.order {
			if existing == oldKey {
				o.order[i] = newKey
				break
			}
		}
	}
	o.items[newKey] = item
	return true
}

func (o *ordered[T]) get(name string) (T, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	item, ok := o.items[Key(name)]
	return item, ok
}

func (o *ordered[T]) list() []T {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]T, 0, len(o.order))
	for _, k := range o.order {
		out = append(out, o.items[k])
	}
	return out
}

func (o *ordered[T]) reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.order = nil
	o.items = make(map[string]T)
}

// IngredientCatalog is the repository of priced ingredients.
type IngredientCatalog struct {
	entries *ordered[IngredientEntry]
}

// NewIngredientCatalog returns a catalog seeded with entries.
func NewIngredientCatalog(entries ...IngredientEntry) *IngredientCatalog {
	c := &IngredientCatalog{entries: newOrdered(func(e IngredientEntry) string { return e.Name })}
	for _, e := range entries {
		c.Add(e)
	}
	return c
}

// Add inserts or replaces an ingredient. It reports whether the name was new.
func (c *IngredientCatalog) Add(e IngredientEntry) bool { return c.entries.put(e) }

// Replace swaps the entry named old for e in place.
func (c *IngredientCatalog) Replace(old string, e IngredientEntry) bool {
	return c.entries.replace(old, e)
}

// Remove deletes an ingredient by name.
func (c *IngredientCatalog) Remove(name string) bool { return c.entries.remove(name) }

// Get looks an ingredient up by name or save id.
func (c *IngredientCatalog) Get(name string) (IngredientEntry, bool) { return c.entries.get(name) }

// List returns all ingredients in insertion order.
func (c *IngredientCatalog) List() []IngredientEntry { return c.entries.list() }

// Names returns the display names in insertion order.
func (c *IngredientCatalog) Names() []string {
	list := c.List()
	names := make([]string, 0, len(list))
	for _, e := range list {
		names = append(names, e.Name)
	}
	return names
}

// Price returns the catalog price for name, falling back to DefaultIngredientPrice.
func (c *IngredientCatalog) Price(name string) float64 {
	if e, ok := c.Get(name); ok {
		return e.UnitPrice
	}
	return DefaultIngredientPrice
}

// DisplayName returns the catalog spelling of name, or name itself on a miss.
func (c *IngredientCatalog) DisplayName(name string) string {
	if e, ok := c.Get(name); ok {
		return e.Name
	}
	return name
}

// Ingredient builds a recipe line of the given quantity priced from the catalog.
func (c *IngredientCatalog) Ingredient(name string, quantity float64) domain.Ingredient {
	return domain.Ingredient{Name: c.DisplayName(name), Quantity: quantity, UnitPrice: c.Price(name)}
}

// EffectCatalog is the repository of known effects.
type EffectCatalog struct {
	entries *ordered[domain.Effect]
}

// NewEffectCatalog returns a catalog seeded with effects.
func NewEffectCatalog(effects ...domain.Effect) *EffectCatalog {
	c := &EffectCatalog{entries: newOrdered(func(e domain.Effect) string { return e.Name })}
	for _, e := range effects {
		c.Add(e)
	}
	return c
}

// Add inserts or replaces an effect, applying the default color when unset.
func (c *EffectCatalog) Add(e domain.Effect) bool {
	return c.entries.put(domain.NewEffect(e.Name, e.Description, e.Color))
}

// Replace swaps the effect named old for e in place, applying the default
// color when unset.
func (c *EffectCatalog) Replace(old string, e domain.Effect) bool {
	return c.entries.replace(old, domain.NewEffect(e.Name, e.Description, e.Color))
}

// Remove deletes an effect by name.
func (c *EffectCatalog) Remove(name string) bool { return c.entries.remove(name) }

// Get looks an effect up by name or save id.
func (c *EffectCatalog) Get(name string) (domain.Effect, bool) { return c.entries.get(name) }

// List returns all effects in insertion order.
func (c *EffectCatalog) List() []domain.Effect { return c.entries.list() }

// Names returns the effect names in insertion order.
func (c *EffectCatalog) Names() []string {
	list := c.List()
	names := make([]string, 0, len(list))
	for _, e := range list {
		names = append(names, e.Name)
	}
	return names
}

// Hydrate returns the catalog effect for name, or a placeholder carrying only
// the name and the default color.
func (c *EffectCatalog) Hydrate(name string) domain.Effect {
	if e, ok := c.Get(name); ok {
		return e
	}
	return domain.NewEffect(name, "", "")
}
