package core

import (
	"context"

	"recipebook/pkg/domain"
)

// NewBasePricePositiveRule warns about recipes without a selling price.
func NewBasePricePositiveRule() domain.Rule {
	return basePricePositiveRule{}
}

type basePricePositiveRule struct{}

func (basePricePositiveRule) Name() string { return "base_price_positive" }

func (r basePricePositiveRule) Evaluate(_ context.Context, _ domain.RuleView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, d := range changedDrugs(changes) {
		if d.BasePrice <= 0 {
			res.Violations = append(res.Violations, drugViolation(r.Name(), domain.SeverityWarn, d, "recipe %q has no positive base price", d.Name))
		}
	}
	return res, nil
}

// NewIngredientQuantityPositiveRule blocks ingredient lines with a quantity
// below one.
func NewIngredientQuantityPositiveRule() domain.Rule {
	return ingredientQuantityPositiveRule{}
}

type ingredientQuantityPositiveRule struct{}

func (ingredientQuantityPositiveRule) Name() string { return "ingredient_quantity_positive" }

func (r ingredientQuantityPositiveRule) Evaluate(_ context.Context, _ domain.RuleView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, d := range changedDrugs(changes) {
		for _, ing := range d.Ingredients {
			if ing.Quantity <= 0 {
				res.Violations = append(res.Violations, drugViolation(r.Name(), domain.SeverityBlock, d, "recipe %q uses %s with quantity %g", d.Name, ing.Name, ing.Quantity))
			}
		}
	}
	return res, nil
}
