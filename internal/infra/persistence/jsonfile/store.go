// Package jsonfile keeps the recipe store in a <base>_drugs.json list file,
// the format shared with the desktop recipe calculator.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"recipebook/internal/infra/persistence/memory"
	"recipebook/pkg/domain"
)

var _ domain.PersistentStore = (*Store)(nil)

const fileSuffix = "_drugs"

// DefaultBase is used when no database name is configured.
const DefaultBase = "recipes"

// Store mirrors the in-memory store into a JSON list file after every
// committed transaction.
type Store struct {
	*memory.Store
	mu   sync.Mutex
	base string
}

type ingredientRecord struct {
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type effectRecord struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

type drugRecord struct {
	Name        string             `json:"name"`
	BasePrice   float64            `json:"base_price"`
	Ingredients []ingredientRecord `json:"ingredients"`
	Effects     []effectRecord     `json:"effects"`
	Notes       string             `json:"notes"`
	DrugType    string             `json:"drug_type,omitempty"`
	Favorite    bool               `json:"favorite,omitempty"`
}

// BaseName strips a .json extension and the _drugs suffix from name, keeping
// its directory.
func BaseName(name string) string {
	if name == "" {
		return DefaultBase
	}
	dir, file := filepath.Split(name)
	file = strings.TrimSuffix(file, filepath.Ext(file))
	file = strings.TrimSuffix(file, fileSuffix)
	if file == "" {
		file = DefaultBase
	}
	return filepath.Join(dir, file)
}

// FileName returns the list file path for a base name.
func FileName(base string) string {
	return BaseName(base) + fileSuffix + ".json"
}

// NewStore opens the list file derived from base. A missing or unreadable
// file yields an empty store rather than an error.
func NewStore(base string, engine *domain.RulesEngine) *Store {
	s := &Store{Store: memory.NewStore(engine), base: BaseName(base)}
	s.ImportState(load(s.Path()))
	return s
}

// Path returns the current list file path.
func (s *Store) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return FileName(s.base)
}

// Base returns the current base name.
func (s *Store) Base() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.base
}

// RunInTransaction applies fn and rewrites the list file on success.
func (s *Store) RunInTransaction(ctx context.Context, fn func(domain.Transaction) error) (domain.Result, error) {
	res, err := s.Store.RunInTransaction(ctx, fn)
	if err != nil {
		return res, err
	}
	if err := s.Save(); err != nil {
		return res, err
	}
	return res, nil
}

// Save writes the committed state to the current file.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return write(FileName(s.base), s.ListDrugs())
}

// SaveAs switches the store to a new base name and writes the file there.
func (s *Store) SaveAs(base string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := BaseName(base)
	if err := write(FileName(next), s.ListDrugs()); err != nil {
		return err
	}
	s.base = next
	return nil
}

func load(path string) memory.Snapshot {
	// #nosec G304 -- path is derived from the configured database name
	raw, err := os.ReadFile(path)
	if err != nil {
		return memory.Snapshot{}
	}
	var records []drugRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return memory.Snapshot{}
	}
	snapshot := memory.Snapshot{Drugs: make(map[string]domain.Drug, len(records))}
	for i, r := range records {
		id := fmt.Sprintf("local-%04d", i+1)
		snapshot.Drugs[id] = fromRecord(id, r)
		snapshot.Order = append(snapshot.Order, id)
	}
	return snapshot
}

func write(path string, drugs []domain.Drug) error {
	records := make([]drugRecord, 0, len(drugs))
	for _, d := range drugs {
		records = append(records, toRecord(d))
	}
	raw, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode drugs: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create dirs: %w", err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

func toRecord(d domain.Drug) drugRecord {
	r := drugRecord{
		Name:        d.Name,
		BasePrice:   d.BasePrice,
		Ingredients: make([]ingredientRecord, 0, len(d.Ingredients)),
		Effects:     make([]effectRecord, 0, len(d.Effects)),
		Notes:       d.Notes,
		DrugType:    string(d.DrugType),
		Favorite:    d.Favorite,
	}
	for _, ing := range d.Ingredients {
		r.Ingredients = append(r.Ingredients, ingredientRecord{Name: ing.Name, Quantity: ing.Quantity, UnitPrice: ing.UnitPrice})
	}
	for _, e := range d.Effects {
		r.Effects = append(r.Effects, effectRecord(e))
	}
	return r
}

func fromRecord(id string, r drugRecord) domain.Drug {
	d := domain.Drug{
		Base:      domain.Base{ID: id},
		Name:      r.Name,
		BasePrice: r.BasePrice,
		Notes:     r.Notes,
		DrugType:  domain.DrugType(r.DrugType).Normalize(),
		Favorite:  r.Favorite,
	}
	for _, ing := range r.Ingredients {
		d.Ingredients = append(d.Ingredients, domain.Ingredient{Name: ing.Name, Quantity: ing.Quantity, UnitPrice: ing.UnitPrice})
	}
	for _, e := range r.Effects {
		d.Effects = append(d.Effects, domain.NewEffect(e.Name, e.Description, e.Color))
	}
	return d
}
