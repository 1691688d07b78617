// Package core hosts the recipe service: transactional CRUD over a
// PersistentStore, save import, the built-in rules and the observability hooks
// wrapped around every operation.
package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"recipebook/internal/catalog"
	memory "recipebook/internal/infra/persistence/memory"
	"recipebook/pkg/domain"
)

// Service exposes transactional recipe operations.
type Service struct {
	store       PersistentStore
	clock       Clock
	logger      Logger
	metrics     MetricsRecorder
	tracer      Tracer
	audit       AuditRecorder
	ingredients *catalog.IngredientCatalog
	effects     *catalog.EffectCatalog
	mu          sync.RWMutex
}

// NewService constructs a service backed by the supplied store.
func NewService(store PersistentStore, opts ...ServiceOption) *Service {
	o := defaultServiceOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.ingredients == nil {
		o.ingredients = catalog.DefaultIngredients()
	}
	if o.effects == nil {
		o.effects = catalog.DefaultEffects()
	}
	return &Service{
		store:       store,
		clock:       o.clock,
		logger:      o.logger,
		metrics:     o.metrics,
		tracer:      o.tracer,
		audit:       o.audit,
		ingredients: o.ingredients,
		effects:     o.effects,
	}
}

// NewInMemoryService creates a service over a fresh in-memory store. A nil
// engine selects the default rules.
func NewInMemoryService(engine *RulesEngine, opts ...ServiceOption) *Service {
	if engine == nil {
		engine = NewDefaultRulesEngine()
	}
	return NewService(memory.NewStore(engine), opts...)
}

// Store returns the underlying storage implementation.
func (s *Service) Store() PersistentStore { return s.store }

// Ingredients returns the ingredient catalog.
func (s *Service) Ingredients() *catalog.IngredientCatalog { return s.ingredients }

// Effects returns the effect catalog.
func (s *Service) Effects() *catalog.EffectCatalog { return s.effects }

type operationMeta struct {
	entity domain.EntityType
	action domain.Action
}

var auditedOperations = map[string]operationMeta{
	"create_drug":       {domain.EntityDrug, domain.ActionCreate},
	"update_drug":       {domain.EntityDrug, domain.ActionUpdate},
	"delete_drug":       {domain.EntityDrug, domain.ActionDelete},
	"toggle_favorite":   {domain.EntityDrug, domain.ActionUpdate},
	"import_save":       {domain.EntityDrug, domain.ActionCreate},
	"new_database":      {domain.EntityDrug, domain.ActionDelete},
	"add_ingredient":    {EntityIngredient, domain.ActionCreate},
	"edit_ingredient":   {EntityIngredient, domain.ActionUpdate},
	"remove_ingredient": {EntityIngredient, domain.ActionDelete},
	"add_effect":        {EntityEffect, domain.ActionCreate},
	"edit_effect":       {EntityEffect, domain.ActionUpdate},
	"remove_effect":     {EntityEffect, domain.ActionDelete},
}

// run executes fn inside a store transaction, wrapping it with tracing,
// metrics, logging and audit. entityID is read after fn returns.
func (s *Service) run(ctx context.Context, op string, entityID *string, fn func(tx Transaction) error) (Result, error) {
	ctx, span := s.tracer.Start(ctx, op)
	start := s.clock.Now()
	res, err := s.store.RunInTransaction(ctx, fn)
	duration := s.clock.Now().Sub(start)
	span.End(err)
	s.metrics.Observe(ctx, op, err == nil, duration)

	id := ""
	if entityID != nil {
		id = *entityID
	}
	for _, v := range res.Violations {
		if v.Severity == domain.SeverityWarn {
			s.logger.Warn("rule warning", "operation", op, "rule", v.Rule, "entity_id", v.EntityID, "message", v.Message)
		}
	}
	if err != nil {
		var rv domain.RuleViolationError
		if errors.As(err, &rv) {
			s.logger.Warn("operation blocked", "operation", op, "entity_id", id, "error", err)
		} else {
			s.logger.Error("operation failed", "operation", op, "entity_id", id, "error", err)
		}
		s.recordAudit(ctx, op, id, duration, err)
		return res, err
	}
	s.logger.Debug("operation committed", "operation", op, "entity_id", id, "duration", duration)
	s.recordAudit(ctx, op, id, duration, nil)
	return res, nil
}

func (s *Service) recordAudit(ctx context.Context, op, entityID string, duration time.Duration, err error) {
	meta, ok := auditedOperations[op]
	if !ok {
		return
	}
	entry := AuditEntry{
		Operation: op,
		Entity:    string(meta.entity),
		Action:    string(meta.action),
		EntityID:  entityID,
		Status:    AuditStatusSuccess,
		Duration:  duration,
		Timestamp: s.clock.Now(),
	}
	if err != nil {
		entry.Status = AuditStatusError
		entry.Error = err.Error()
	}
	s.audit.Record(ctx, entry)
}

// CreateDrug persists a new recipe.
func (s *Service) CreateDrug(ctx context.Context, drug Drug) (Drug, Result, error) {
	var created Drug
	res, err := s.run(ctx, "create_drug", &created.ID, func(tx Transaction) error {
		var err error
		created, err = tx.CreateDrug(drug)
		return err
	})
	return created, res, err
}

// UpdateDrug mutates a recipe using the provided mutator.
func (s *Service) UpdateDrug(ctx context.Context, id string, mutator func(*Drug) error) (Drug, Result, error) {
	var updated Drug
	res, err := s.run(ctx, "update_drug", &id, func(tx Transaction) error {
		if _, ok := tx.FindDrug(id); !ok {
			return ErrNotFound{Entity: domain.EntityDrug, ID: id}
		}
		var err error
		updated, err = tx.UpdateDrug(id, mutator)
		return err
	})
	return updated, res, err
}

// DeleteDrug removes a recipe.
func (s *Service) DeleteDrug(ctx context.Context, id string) (Result, error) {
	return s.run(ctx, "delete_drug", &id, func(tx Transaction) error {
		if _, ok := tx.FindDrug(id); !ok {
			return ErrNotFound{Entity: domain.EntityDrug, ID: id}
		}
		return tx.DeleteDrug(id)
	})
}

// ToggleFavorite flips the favorite flag of a recipe.
func (s *Service) ToggleFavorite(ctx context.Context, id string) (Drug, Result, error) {
	var updated Drug
	res, err := s.run(ctx, "toggle_favorite", &id, func(tx Transaction) error {
		if _, ok := tx.FindDrug(id); !ok {
			return ErrNotFound{Entity: domain.EntityDrug, ID: id}
		}
		var err error
		updated, err = tx.UpdateDrug(id, func(d *Drug) error {
			d.Favorite = !d.Favorite
			return nil
		})
		return err
	})
	return updated, res, err
}

// NewDatabase deletes every recipe in the store.
func (s *Service) NewDatabase(ctx context.Context) (Result, error) {
	return s.run(ctx, "new_database", nil, func(tx Transaction) error {
		for _, d := range tx.ListDrugs() {
			if err := tx.DeleteDrug(d.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetDrug returns the committed recipe with id.
func (s *Service) GetDrug(id string) (Drug, error) {
	d, ok := s.store.GetDrug(id)
	if !ok {
		return Drug{}, ErrNotFound{Entity: domain.EntityDrug, ID: id}
	}
	return d, nil
}

// FindDrugByName returns the first recipe whose name matches, ignoring case
// and surrounding space.
func (s *Service) FindDrugByName(name string) (Drug, bool) {
	return findByName(s.store.ListDrugs(), name)
}

func findByName(drugs []Drug, name string) (Drug, bool) {
	want := strings.TrimSpace(name)
	for _, d := range drugs {
		if strings.EqualFold(strings.TrimSpace(d.Name), want) {
			return d, true
		}
	}
	return Drug{}, false
}

// SortField selects the ordering of ListDrugs.
type SortField string

// Sort fields accepted by ListDrugs. The zero value keeps insertion order.
const (
	SortNone   SortField = ""
	SortName   SortField = "name"
	SortType   SortField = "type"
	SortPrice  SortField = "price"
	SortCost   SortField = "cost"
	SortProfit SortField = "profit"
	SortMargin SortField = "margin"
)

// SortFields lists the accepted non-empty sort fields.
func SortFields() []SortField {
	return []SortField{SortName, SortType, SortPrice, SortCost, SortProfit, SortMargin}
}

// ParseSortField validates a user-supplied sort field.
func ParseSortField(v string) (SortField, error) {
	f := SortField(strings.ToLower(strings.TrimSpace(v)))
	if f == SortNone {
		return f, nil
	}
	for _, known := range SortFields() {
		if f == known {
			return f, nil
		}
	}
	return SortNone, fmt.Errorf("unknown sort field %q", v)
}

// DrugFilter narrows and orders ListDrugs.
type DrugFilter struct {
	Search        string
	FavoritesOnly bool
	SortBy        SortField
	Desc          bool
}

// ListDrugs returns committed recipes matching filter. Ties keep insertion order.
func (s *Service) ListDrugs(filter DrugFilter) []Drug {
	all := s.store.ListDrugs()
	out := make([]Drug, 0, len(all))
	for _, d := range all {
		if filter.FavoritesOnly && !d.Favorite {
			continue
		}
		if !d.MatchesSearch(filter.Search) {
			continue
		}
		out = append(out, d)
	}
	less := sortLess(filter.SortBy)
	if less == nil {
		if filter.Desc {
			for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
				out[i], out[j] = out[j], out[i]
			}
		}
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		if filter.Desc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

func sortLess(f SortField) func(a, b Drug) bool {
	switch f {
	case SortName:
		return func(a, b Drug) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	case SortType:
		return func(a, b Drug) bool { return a.DrugType < b.DrugType }
	case SortPrice:
		return func(a, b Drug) bool { return a.BasePrice < b.BasePrice }
	case SortCost:
		return func(a, b Drug) bool { return a.IngredientCost() < b.IngredientCost() }
	case SortProfit:
		return func(a, b Drug) bool { return a.Profit() < b.Profit() }
	case SortMargin:
		return func(a, b Drug) bool { return a.ProfitMargin() < b.ProfitMargin() }
	default:
		return nil
	}
}
