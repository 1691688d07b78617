// Package memory provides an in-memory implementation of the recipe store
// used for tests, ephemeral sessions and as the working set of the durable
// backends.
package memory

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"recipebook/pkg/domain"
)

// Compile-time contract assertion ensuring memory.Store adheres to the domain persistence interface.
var _ domain.PersistentStore = (*Store)(nil)

type (
	// Drug aliases domain.Drug for in-memory persistence operations.
	Drug = domain.Drug
	// Change aliases domain.Change captured in transactions.
	Change = domain.Change
	// Result aliases domain.Result summarizing rule evaluation.
	Result = domain.Result
	// RulesEngine aliases domain.RulesEngine used to evaluate rules.
	RulesEngine = domain.RulesEngine
	// Transaction aliases domain.Transaction representing a mutable unit of work.
	Transaction = domain.Transaction
	// TransactionView aliases domain.TransactionView providing read-only state.
	TransactionView = domain.TransactionView
)

type memoryState struct {
	drugs map[string]Drug
	order []string
}

// Snapshot captures a point-in-time clone of the store state. Order lists
// drug ids in insertion order.
type Snapshot struct {
	Drugs map[string]Drug `json:"drugs"`
	Order []string        `json:"order"`
}

func newMemoryState() memoryState {
	return memoryState{drugs: make(map[string]Drug)}
}

func (s memoryState) clone() memoryState {
	out := memoryState{
		drugs: make(map[string]Drug, len(s.drugs)),
		order: append([]string(nil), s.order...),
	}
	for k, v := range s.drugs {
		out.drugs[k] = v.Clone()
	}
	return out
}

func (s memoryState) list() []Drug {
	out := make([]Drug, 0, len(s.order))
	for _, id := range s.order {
		if d, ok := s.drugs[id]; ok {
			out = append(out, d.Clone())
		}
	}
	return out
}

func snapshotFromMemoryState(state memoryState) Snapshot {
	c := state.clone()
	return Snapshot{Drugs: c.drugs, Order: c.order}
}

// memoryStateFromSnapshot rebuilds state, repairing an order list that is
// missing ids or names ids that no longer exist.
func memoryStateFromSnapshot(s Snapshot) memoryState {
	state := newMemoryState()
	seen := make(map[string]struct{}, len(s.Drugs))
	for _, id := range s.Order {
		d, ok := s.Drugs[id]
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		d.ID = id
		state.drugs[id] = d.Clone()
		state.order = append(state.order, id)
	}
	var missing []Drug
	for id, d := range s.Drugs {
		if _, ok := seen[id]; ok {
			continue
		}
		d.ID = id
		missing = append(missing, d)
	}
	sortByCreated(missing)
	for _, d := range missing {
		state.drugs[d.ID] = d.Clone()
		state.order = append(state.order, d.ID)
	}
	return state
}

// Store provides an in-memory transactional store for recipes.
type Store struct {
	mu     sync.RWMutex
	state  memoryState
	engine *RulesEngine
	nowFn  func() time.Time
}

// NewStore constructs an in-memory store backed by the provided rules engine.
func NewStore(engine *RulesEngine) *Store {
	if engine == nil {
		engine = domain.NewRulesEngine()
	}
	return &Store{
		state:  newMemoryState(),
		engine: engine,
		nowFn:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) newID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b[:])
}

// ExportState clones the current store state for external persistence.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshotFromMemoryState(s.state)
}

// ImportState replaces the store state with the provided snapshot.
func (s *Store) ImportState(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = memoryStateFromSnapshot(snapshot)
}

// RulesEngine exposes the currently configured engine.
func (s *Store) RulesEngine() *RulesEngine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

// NowFunc returns the time provider used by the in-memory store.
func (s *Store) NowFunc() func() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nowFn
}

// SetNowFunc overrides the clock, mainly for tests.
func (s *Store) SetNowFunc(fn func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fn != nil {
		s.nowFn = fn
	}
}

type transaction struct {
	store   *Store
	state   memoryState
	changes []Change
	now     time.Time
}

type transactionView struct {
	state *memoryState
}

func newTransactionView(state *memoryState) TransactionView {
	return transactionView{state: state}
}

// ListDrugs returns all drugs within the snapshot in insertion order.
func (v transactionView) ListDrugs() []Drug {
	return v.state.list()
}

// FindDrug retrieves a drug by id from the snapshot.
func (v transactionView) FindDrug(id string) (Drug, bool) {
	d, ok := v.state.drugs[id]
	if !ok {
		return Drug{}, false
	}
	return d.Clone(), true
}

// RunInTransaction executes fn within a transactional copy of the store state.
// The copy is committed only when fn succeeds and no blocking rule fires.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx Transaction) error) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &transaction{
		store: s,
		state: s.state.clone(),
		now:   s.nowFn(),
	}

	if err := fn(tx); err != nil {
		return Result{}, err
	}

	var result Result
	if s.engine != nil {
		view := newTransactionView(&tx.state)
		res, err := s.engine.Evaluate(ctx, view, tx.changes)
		if err != nil {
			return Result{}, err
		}
		result = res
		if res.HasBlocking() {
			return res, domain.RuleViolationError{Result: res}
		}
	}

	s.state = tx.state
	return result, nil
}

// View executes fn against a read-only snapshot of the store state.
func (s *Store) View(_ context.Context, fn func(TransactionView) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := s.state.clone()
	return fn(newTransactionView(&snapshot))
}

func (tx *transaction) recordChange(change Change) {
	tx.changes = append(tx.changes, change)
}

// Snapshot returns a read-only view over the transactional state.
func (tx *transaction) Snapshot() TransactionView {
	return newTransactionView(&tx.state)
}

// FindDrug exposes drug lookup within the transaction scope.
func (tx *transaction) FindDrug(id string) (Drug, bool) {
	d, ok := tx.state.drugs[id]
	if !ok {
		return Drug{}, false
	}
	return d.Clone(), true
}

// ListDrugs lists drugs within the transaction scope.
func (tx *transaction) ListDrugs() []Drug {
	return tx.state.list()
}

// CreateDrug stores a new drug within the transaction.
func (tx *transaction) CreateDrug(d Drug) (Drug, error) {
	if d.ID == "" {
		d.ID = tx.store.newID()
	}
	if _, exists := tx.state.drugs[d.ID]; exists {
		return Drug{}, fmt.Errorf("drug %q already exists", d.ID)
	}
	d.DrugType = d.DrugType.Normalize()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = tx.now
	}
	d.UpdatedAt = tx.now
	tx.state.drugs[d.ID] = d.Clone()
	tx.state.order = append(tx.state.order, d.ID)
	tx.recordChange(Change{Entity: domain.EntityDrug, Action: domain.ActionCreate, After: d.Clone()})
	return d.Clone(), nil
}

// UpdateDrug mutates a drug using the provided mutator function.
func (tx *transaction) UpdateDrug(id string, mutator func(*Drug) error) (Drug, error) {
	current, ok := tx.state.drugs[id]
	if !ok {
		return Drug{}, fmt.Errorf("drug %q not found", id)
	}
	before := current.Clone()
	current = current.Clone()
	if err := mutator(&current); err != nil {
		return Drug{}, err
	}
	current.ID = id
	current.CreatedAt = before.CreatedAt
	current.DrugType = current.DrugType.Normalize()
	current.UpdatedAt = tx.now
	tx.state.drugs[id] = current.Clone()
	tx.recordChange(Change{Entity: domain.EntityDrug, Action: domain.ActionUpdate, Before: before, After: current.Clone()})
	return current.Clone(), nil
}

// DeleteDrug removes a drug from the transaction state.
func (tx *transaction) DeleteDrug(id string) error {
	current, ok := tx.state.drugs[id]
	if !ok {
		return fmt.Errorf("drug %q not found", id)
	}
	delete(tx.state.drugs, id)
	for i, existing := range tx.state.order {
		if existing == id {
			tx.state.order = append(tx.state.order[:i], tx.state.order[i+1:]...)
			break
		}
	}
	tx.recordChange(Change{Entity: domain.EntityDrug, Action: domain.ActionDelete, Before: current.Clone()})
	return nil
}

// GetDrug retrieves a drug by id from committed state.
func (s *Store) GetDrug(id string) (Drug, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.state.drugs[id]
	if !ok {
		return Drug{}, false
	}
	return d.Clone(), true
}

// ListDrugs returns all drugs from committed state in insertion order.
func (s *Store) ListDrugs() []Drug {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.list()
}
