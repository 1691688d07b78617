package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"recipebook/pkg/domain"
)

// File is the YAML shape of a catalog override file. When Replace is true the
// built-in defaults are dropped before the entries are applied.
type File struct {
	Replace     bool              `yaml:"replace,omitempty"`
	Ingredients []IngredientEntry `yaml:"ingredients,omitempty"`
	Effects     []effectEntry     `yaml:"effects,omitempty"`
}

type effectEntry struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Color       string `yaml:"color,omitempty"`
}

// LoadOverrides merges the YAML file at path into the catalogs. A missing file
// is not an error.
func LoadOverrides(path string, ingredients *IngredientCatalog, effects *EffectCatalog) error {
	// #nosec G304 -- path comes from operator configuration
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read catalog %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse catalog %s: %w", path, err)
	}
	if f.Replace {
		ingredients.entries.reset()
		effects.entries.reset()
	}
	for _, e := range f.Ingredients {
		if e.Name == "" {
			continue
		}
		ingredients.Add(e)
	}
	for _, e := range f.Effects {
		if e.Name == "" {
			continue
		}
		effects.Add(domain.Effect{Name: e.Name, Description: e.Description, Color: e.Color})
	}
	return nil
}

// Save writes the full contents of both catalogs to path as a replacing
// override file.
func Save(path string, ingredients *IngredientCatalog, effects *EffectCatalog) error {
	f := File{Replace: true, Ingredients: ingredients.List()}
	for _, e := range effects.List() {
		f.Effects = append(f.Effects, effectEntry(e))
	}
	raw, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create catalog dir: %w", err)
		}
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return fmt.Errorf("write catalog %s: %w", path, err)
	}
	return nil
}
