package core

import (
	"context"
	"strings"

	"recipebook/pkg/domain"
)

// NewDrugNameRequiredRule blocks recipes saved without a name.
func NewDrugNameRequiredRule() domain.Rule {
	return drugNameRequiredRule{}
}

type drugNameRequiredRule struct{}

func (drugNameRequiredRule) Name() string { return "drug_name_required" }

func (r drugNameRequiredRule) Evaluate(_ context.Context, _ domain.RuleView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, d := range changedDrugs(changes) {
		if strings.TrimSpace(d.Name) == "" {
			res.Violations = append(res.Violations, drugViolation(r.Name(), domain.SeverityBlock, d, "recipe %s has no name", d.ID))
		}
	}
	return res, nil
}

// NewDrugNameUniqueRule blocks two recipes sharing a name, ignoring case.
func NewDrugNameUniqueRule() domain.Rule {
	return drugNameUniqueRule{}
}

type drugNameUniqueRule struct{}

func (drugNameUniqueRule) Name() string { return "drug_name_unique" }

func (r drugNameUniqueRule) Evaluate(_ context.Context, view domain.RuleView, changes []domain.Change) (domain.Result, error) {
	changed := renamedDrugs(changes)
	res := domain.Result{}
	if len(changed) == 0 {
		return res, nil
	}
	owners := make(map[string][]string)
	for _, d := range view.ListDrugs() {
		key := strings.ToLower(strings.TrimSpace(d.Name))
		if key == "" {
			continue
		}
		owners[key] = append(owners[key], d.ID)
	}
	reported := make(map[string]struct{})
	for _, d := range changed {
		key := strings.ToLower(strings.TrimSpace(d.Name))
		if key == "" || len(owners[key]) < 2 {
			continue
		}
		if _, done := reported[key]; done {
			continue
		}
		reported[key] = struct{}{}
		res.Violations = append(res.Violations, drugViolation(r.Name(), domain.SeverityBlock, d, "a recipe named %q already exists", strings.TrimSpace(d.Name)))
	}
	return res, nil
}

// renamedDrugs returns created drugs and updated drugs whose name changed.
func renamedDrugs(changes []domain.Change) []domain.Drug {
	var out []domain.Drug
	for _, c := range changes {
		after, ok := c.After.(domain.Drug)
		if c.Entity != domain.EntityDrug || !ok {
			continue
		}
		switch c.Action {
		case domain.ActionCreate:
			out = append(out, after)
		case domain.ActionUpdate:
			before, _ := c.Before.(domain.Drug)
			if !strings.EqualFold(strings.TrimSpace(before.Name), strings.TrimSpace(after.Name)) {
				out = append(out, after)
			}
		}
	}
	return out
}
