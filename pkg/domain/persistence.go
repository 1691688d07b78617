package domain

import "context"

// Transaction exposes the domain operations that a persistence implementation
// must support within an atomic scope.
type Transaction interface {
	Snapshot() TransactionView
	CreateDrug(Drug) (Drug, error)
	UpdateDrug(id string, mutator func(*Drug) error) (Drug, error)
	DeleteDrug(id string) error
	FindDrug(id string) (Drug, bool)
	ListDrugs() []Drug
}

// TransactionView provides read-only access to snapshot data for rules.
type TransactionView interface {
	ListDrugs() []Drug
	FindDrug(id string) (Drug, bool)
}

// PersistentStore is a minimal abstraction over durable backends. It mirrors
// the subset of store capabilities used directly by higher layers.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) (Result, error)
	View(ctx context.Context, fn func(TransactionView) error) error
	GetDrug(id string) (Drug, bool)
	ListDrugs() []Drug
}
