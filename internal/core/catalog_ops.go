package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"recipebook/internal/catalog"
)

// ErrInvalidCatalogEntry marks catalog input with no name or a negative price.
var ErrInvalidCatalogEntry = errors.New("invalid catalog entry")

func validateIngredientEntry(e catalog.IngredientEntry) error {
	if e.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidCatalogEntry)
	}
	if e.UnitPrice < 0 {
		return fmt.Errorf("%w: unit price %g is negative", ErrInvalidCatalogEntry, e.UnitPrice)
	}
	return nil
}

// AddIngredient inserts a new catalog ingredient.
func (s *Service) AddIngredient(ctx context.Context, entry catalog.IngredientEntry) (catalog.IngredientEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := s.clock.Now()
	entry.Name = strings.TrimSpace(entry.Name)
	err := validateIngredientEntry(entry)
	if err == nil {
		if existing, ok := s.ingredients.Get(entry.Name); ok {
			err = ErrAlreadyExists{Entity: EntityIngredient, Name: existing.Name}
		}
	}
	if err == nil {
		s.ingredients.Add(entry)
		s.logger.Info("ingredient added", "ingredient", entry.Name, "unit_price", entry.UnitPrice)
	}
	s.recordAudit(ctx, "add_ingredient", entry.Name, s.clock.Now().Sub(start), err)
	if err != nil {
		return catalog.IngredientEntry{}, err
	}
	return entry, nil
}

// EditIngredient applies mutator to the named ingredient and stores the
// result in the same catalog position. Recipes keep the price they were
// saved with.
func (s *Service) EditIngredient(ctx context.Context, name string, mutator func(*catalog.IngredientEntry) error) (catalog.IngredientEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := s.clock.Now()
	updated, err := s.editIngredient(name, mutator)
	s.recordAudit(ctx, "edit_ingredient", name, s.clock.Now().Sub(start), err)
	if err != nil {
		return catalog.IngredientEntry{}, err
	}
	s.logger.Info("ingredient updated", "ingredient", name, "name", updated.Name, "unit_price", updated.UnitPrice)
	return updated, nil
}

func (s *Service) editIngredient(name string, mutator func(*catalog.IngredientEntry) error) (catalog.IngredientEntry, error) {
	current, ok := s.ingredients.Get(name)
	if !ok {
		return catalog.IngredientEntry{}, ErrNotFound{Entity: EntityIngredient, ID: name}
	}
	next := current
	if err := mutator(&next); err != nil {
		return catalog.IngredientEntry{}, err
	}
	next.Name = strings.TrimSpace(next.Name)
	if err := validateIngredientEntry(next); err != nil {
		return catalog.IngredientEntry{}, err
	}
	if other, taken := s.ingredients.Get(next.Name); taken && catalog.Key(other.Name) != catalog.Key(current.Name) {
		return catalog.IngredientEntry{}, ErrAlreadyExists{Entity: EntityIngredient, Name: other.Name}
	}
	s.ingredients.Replace(current.Name, next)
	return next, nil
}

// RemoveIngredient deletes an ingredient from the catalog. It refuses while
// any recipe still uses it.
func (s *Service) RemoveIngredient(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.ingredients.Get(name)
	if !ok {
		err := ErrNotFound{Entity: EntityIngredient, ID: name}
		s.recordAudit(ctx, "remove_ingredient", name, 0, err)
		return err
	}
	var users []string
	for _, d := range s.store.ListDrugs() {
		if usesIngredient(d, entry.Name) {
			users = append(users, d.Name)
		}
	}
	if len(users) > 0 {
		err := ErrIngredientInUse{Name: entry.Name, Drugs: users}
		s.logger.Warn("ingredient removal refused", "ingredient", entry.Name, "recipes", len(users))
		s.recordAudit(ctx, "remove_ingredient", entry.Name, 0, err)
		return err
	}
	s.ingredients.Remove(entry.Name)
	s.logger.Info("ingredient removed", "ingredient", entry.Name)
	s.recordAudit(ctx, "remove_ingredient", entry.Name, 0, nil)
	return nil
}

func usesIngredient(d Drug, name string) bool {
	if d.HasIngredient(name) {
		return true
	}
	key := catalog.Key(name)
	for _, ing := range d.Ingredients {
		if catalog.Key(ing.Name) == key {
			return true
		}
	}
	return false
}

// AddEffect inserts a new catalog effect. An empty color becomes the default.
func (s *Service) AddEffect(ctx context.Context, effect Effect) (Effect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := s.clock.Now()
	effect.Name = strings.TrimSpace(effect.Name)
	var err error
	switch existing, ok := s.effects.Get(effect.Name); {
	case effect.Name == "":
		err = fmt.Errorf("%w: name is required", ErrInvalidCatalogEntry)
	case ok:
		err = ErrAlreadyExists{Entity: EntityEffect, Name: existing.Name}
	default:
		s.effects.Add(effect)
		effect, _ = s.effects.Get(effect.Name)
		s.logger.Info("effect added", "effect", effect.Name)
	}
	s.recordAudit(ctx, "add_effect", effect.Name, s.clock.Now().Sub(start), err)
	if err != nil {
		return Effect{}, err
	}
	return effect, nil
}

// EditEffect applies mutator to the named effect and stores the result in the
// same catalog position. Recipes keep the effect text they were saved with.
func (s *Service) EditEffect(ctx context.Context, name string, mutator func(*Effect) error) (Effect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := s.clock.Now()
	updated, err := s.editEffect(name, mutator)
	s.recordAudit(ctx, "edit_effect", name, s.clock.Now().Sub(start), err)
	if err != nil {
		return Effect{}, err
	}
	s.logger.Info("effect updated", "effect", name, "name", updated.Name)
	return updated, nil
}

func (s *Service) editEffect(name string, mutator func(*Effect) error) (Effect, error) {
	current, ok := s.effects.Get(name)
	if !ok {
		return Effect{}, ErrNotFound{Entity: EntityEffect, ID: name}
	}
	next := current
	if err := mutator(&next); err != nil {
		return Effect{}, err
	}
	next.Name = strings.TrimSpace(next.Name)
	if next.Name == "" {
		return Effect{}, fmt.Errorf("%w: name is required", ErrInvalidCatalogEntry)
	}
	if other, taken := s.effects.Get(next.Name); taken && catalog.Key(other.Name) != catalog.Key(current.Name) {
		return Effect{}, ErrAlreadyExists{Entity: EntityEffect, Name: other.Name}
	}
	s.effects.Replace(current.Name, next)
	stored, _ := s.effects.Get(next.Name)
	return stored, nil
}

// RemoveEffect deletes an effect from the catalog. It refuses while any
// recipe still lists it.
func (s *Service) RemoveEffect(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	effect, ok := s.effects.Get(name)
	if !ok {
		err := ErrNotFound{Entity: EntityEffect, ID: name}
		s.recordAudit(ctx, "remove_effect", name, 0, err)
		return err
	}
	key := catalog.Key(effect.Name)
	var users []string
	for _, d := range s.store.ListDrugs() {
		for _, e := range d.Effects {
			if catalog.Key(e.Name) == key {
				users = append(users, d.Name)
				break
			}
		}
	}
	if len(users) > 0 {
		err := ErrEffectInUse{Name: effect.Name, Drugs: users}
		s.logger.Warn("effect removal refused", "effect", effect.Name, "recipes", len(users))
		s.recordAudit(ctx, "remove_effect", effect.Name, 0, err)
		return err
	}
	s.effects.Remove(effect.Name)
	s.logger.Info("effect removed", "effect", effect.Name)
	s.recordAudit(ctx, "remove_effect", effect.Name, 0, nil)
	return nil
}
