// Package domain defines the recipe records, value types, and rule
// evaluation primitives used by recipebook.
package domain

import (
	"strings"
	"time"
)

// EntityType identifies the type of record stored in the core domain.
type EntityType string

// Supported entity type identifiers used in Change records and persistence buckets.
const (
	// EntityDrug identifies a drug recipe record.
	EntityDrug EntityType = "drug"
)

// DrugType is the product family a recipe belongs to.
type DrugType string

// Product families known to the catalog.
const (
	DrugTypeWeed    DrugType = "Weed"
	DrugTypeMeth    DrugType = "Meth"
	DrugTypeCocaine DrugType = "Cocaine"
)

// DrugTypes lists the product families in display order.
func DrugTypes() []DrugType {
	return []DrugType{DrugTypeWeed, DrugTypeMeth, DrugTypeCocaine}
}

// Normalize returns the canonical spelling of t, defaulting to Weed.
func (t DrugType) Normalize() DrugType {
	for _, known := range DrugTypes() {
		if strings.EqualFold(string(t), string(known)) {
			return known
		}
	}
	return DrugTypeWeed
}

// DefaultEffectColor is applied to effects created without a color.
const DefaultEffectColor = "#FFFFFF"

// Severity captures rule outcomes.
type Severity string

// Rule evaluation severities determine commit behavior and logging.
const (
	// SeverityBlock blocks transaction commit.
	SeverityBlock Severity = "block"
	// SeverityWarn logs a warning but allows commit.
	SeverityWarn Severity = "warn"
	SeverityLog  Severity = "log"
)

// Ingredient is one priced line of a recipe.
type Ingredient struct {
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// TotalCost returns quantity times unit price.
func (i Ingredient) TotalCost() float64 {
	return i.Quantity * i.UnitPrice
}

// Effect is a named property attached to a recipe.
type Effect struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// NewEffect constructs an effect, applying the default color when none is given.
func NewEffect(name, description, color string) Effect {
	if strings.TrimSpace(color) == "" {
		color = DefaultEffectColor
	}
	return Effect{Name: name, Description: description, Color: color}
}

// Base contains common fields for all domain records.
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Drug is a recipe: a sale price, the ingredients consumed and the effects produced.
type Drug struct {
	Base
	Name        string       `json:"name"`
	DrugType    DrugType     `json:"drug_type"`
	BasePrice   float64      `json:"base_price"`
	Ingredients []Ingredient `json:"ingredients"`
	Effects     []Effect     `json:"effects"`
	Notes       string       `json:"notes"`
	Favorite    bool         `json:"favorite"`
}

// IngredientCost sums the cost of every ingredient line.
func (d Drug) IngredientCost() float64 {
	var total float64
	for _, ing := range d.Ingredients {
		total += ing.TotalCost()
	}
	return total
}

// Profit is the base price minus the ingredient cost.
func (d Drug) Profit() float64 {
	return d.BasePrice - d.IngredientCost()
}

// ProfitMargin is the profit as a percentage of ingredient cost. A recipe with
// no cost has a margin of zero.
func (d Drug) ProfitMargin() float64 {
	cost := d.IngredientCost()
	if cost == 0 {
		return 0
	}
	return (d.BasePrice - cost) / cost * 100
}

// HasIngredient reports whether name appears among the ingredient lines.
func (d Drug) HasIngredient(name string) bool {
	for _, ing := range d.Ingredients {
		if ing.Name == name {
			return true
		}
	}
	return false
}

// MatchesSearch reports whether text occurs in the name, the type or any
// effect name, ignoring case. Empty text matches everything.
func (d Drug) MatchesSearch(text string) bool {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(d.Name), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(string(d.DrugType)), needle) {
		return true
	}
	for _, eff := range d.Effects {
		if strings.Contains(strings.ToLower(eff.Name), needle) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers cannot mutate shared slices.
func (d Drug) Clone() Drug {
	cp := d
	if d.Ingredients != nil {
		cp.Ingredients = append([]Ingredient(nil), d.Ingredients...)
	}
	if d.Effects != nil {
		cp.Effects = append([]Effect(nil), d.Effects...)
	}
	return cp
}

// Change describes a mutation applied to an entity during a transaction.
type Change struct {
	Entity EntityType
	Action Action
	Before any
	After  any
}

// Action indicates the type of modification performed.
type Action string

// Change actions enumerate supported CRUD operations.
const (
	// ActionCreate indicates an entity was created.
	ActionCreate Action = "create"
	// ActionUpdate indicates an entity was updated.
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Violation reports a failed rule evaluation.
type Violation struct {
	Rule     string
	Severity Severity
	Message  string
	Entity   EntityType
	EntityID string
}

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// RuleViolationError is returned when blocking violations are present.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	for _, v := range e.Result.Violations {
		if v.Severity == SeverityBlock && v.Message != "" {
			return "transaction blocked by rules: " + v.Message
		}
	}
	return "transaction blocked by rules"
}
