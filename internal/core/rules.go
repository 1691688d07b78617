package core

import (
	"fmt"

	"recipebook/pkg/domain"
)

// NewRulesEngine constructs an empty engine.
func NewRulesEngine() *RulesEngine {
	return domain.NewRulesEngine()
}

// NewDefaultRulesEngine builds a rules engine with the built-in recipe policy.
func NewDefaultRulesEngine() *RulesEngine {
	engine := domain.NewRulesEngine()
	engine.Register(NewDrugNameRequiredRule())
	engine.Register(NewDrugNameUniqueRule())
	engine.Register(NewBasePricePositiveRule())
	engine.Register(NewIngredientQuantityPositiveRule())
	return engine
}

// changedDrugs returns the post-change state of every created or updated drug.
func changedDrugs(changes []domain.Change) []domain.Drug {
	var out []domain.Drug
	for _, c := range changes {
		if c.Entity != domain.EntityDrug || c.Action == domain.ActionDelete {
			continue
		}
		if d, ok := c.After.(domain.Drug); ok {
			out = append(out, d)
		}
	}
	return out
}

func drugViolation(rule string, severity domain.Severity, d domain.Drug, format string, args ...any) domain.Violation {
	return domain.Violation{
		Rule:     rule,
		Severity: severity,
		Message:  fmt.Sprintf(format, args...),
		Entity:   domain.EntityDrug,
		EntityID: d.ID,
	}
}
