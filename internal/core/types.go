package core

import (
	"fmt"

	"recipebook/pkg/domain"
)

type (
	// Drug aliases the domain recipe record.
	Drug = domain.Drug
	// Ingredient aliases a recipe ingredient line.
	Ingredient = domain.Ingredient
	// Effect aliases a recipe effect.
	Effect = domain.Effect
	// Change aliases a recorded transactional change.
	Change = domain.Change
	// Result aliases a rules evaluation result.
	Result = domain.Result
	// Violation aliases a single rule violation.
	Violation = domain.Violation
	// RulesEngine aliases the rules engine.
	RulesEngine = domain.RulesEngine
	// Rule aliases a transactional rule.
	Rule = domain.Rule
	// Transaction aliases a mutable unit of work.
	Transaction = domain.Transaction
	// TransactionView aliases a read-only snapshot.
	TransactionView = domain.TransactionView
	// PersistentStore aliases the durable store contract.
	PersistentStore = domain.PersistentStore
)

// ErrNotFound is returned when an operation references a missing record.
type ErrNotFound struct {
	Entity domain.EntityType
	ID     string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// Catalog entity names used in errors and audit entries.
const (
	EntityIngredient domain.EntityType = "ingredient"
	EntityEffect     domain.EntityType = "effect"
)

// ErrAlreadyExists is returned when adding or renaming a catalog entry onto a
// name that is already taken.
type ErrAlreadyExists struct {
	Entity domain.EntityType
	Name   string
}

func (e ErrAlreadyExists) Error() string {
	return fmt.Sprintf("%s %s already exists", e.Entity, e.Name)
}

// ErrIngredientInUse is returned when removing an ingredient that recipes
// still reference.
type ErrIngredientInUse struct {
	Name  string
	Drugs []string
}

func (e ErrIngredientInUse) Error() string {
	return fmt.Sprintf("ingredient %s is used by %d recipe(s): %v", e.Name, len(e.Drugs), e.Drugs)
}

// ErrEffectInUse is returned when removing an effect that recipes still list.
type ErrEffectInUse struct {
	Name  string
	Drugs []string
}

func (e ErrEffectInUse) Error() string {
	return fmt.Sprintf("effect %s is used by %d recipe(s): %v", e.Name, len(e.Drugs), e.Drugs)
}
