package core

import (
	"context"

	"recipebook/internal/importer"
	"recipebook/internal/recipechain"
	"recipebook/internal/savefile"
)

// ImportOptions controls ImportSave.
type ImportOptions struct {
	// Overwrite replaces recipes whose name already exists instead of
	// skipping them.
	Overwrite bool
	// Source names the save in the generated notes.
	Source string
}

// ImportReport lists what ImportSave did, by recipe name.
type ImportReport struct {
	Imported        []string
	Updated         []string
	Skipped         []string
	DefaultedOrigin []string
}

// Total returns the number of recipes written.
func (r ImportReport) Total() int { return len(r.Imported) + len(r.Updated) }

// ImportSave converts the products of a save and stores them in one
// transaction. Favorites already set locally survive an overwrite.
func (s *Service) ImportSave(ctx context.Context, products savefile.Products, opts ImportOptions) (ImportReport, Result, error) {
	recipes := importer.New(s.ingredients, s.effects).Convert(products, opts.Source)
	var report ImportReport
	res, err := s.run(ctx, "import_save", &opts.Source, func(tx Transaction) error {
		report = ImportReport{}
		for _, rec := range recipes {
			drug := rec.Drug
			if rec.OriginDefaulted {
				report.DefaultedOrigin = append(report.DefaultedOrigin, drug.Name)
			}
			existing, found := findByName(tx.ListDrugs(), drug.Name)
			switch {
			case found && !opts.Overwrite:
				report.Skipped = append(report.Skipped, drug.Name)
			case found:
				if _, err := tx.UpdateDrug(existing.ID, func(d *Drug) error {
					favorite := d.Favorite || drug.Favorite
					*d = drug
					d.Favorite = favorite
					return nil
				}); err != nil {
					return err
				}
				report.Updated = append(report.Updated, drug.Name)
			default:
				if _, err := tx.CreateDrug(drug); err != nil {
					return err
				}
				report.Imported = append(report.Imported, drug.Name)
			}
		}
		return nil
	})
	if err == nil {
		s.logger.Info("save imported", "source", opts.Source,
			"imported", len(report.Imported), "updated", len(report.Updated), "skipped", len(report.Skipped))
	}
	return report, res, err
}

// Explain returns the ingredient tree the importer would resolve for product
// id of the save.
func (s *Service) Explain(products savefile.Products, id string) *recipechain.Node {
	return importer.Explain(products, id)
}
