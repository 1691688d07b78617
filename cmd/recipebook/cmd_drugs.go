package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"recipebook/internal/core"
	"recipebook/pkg/domain"
)

func newDrugsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drugs",
		Short: "Manage local recipes",
	}
	cmd.AddCommand(
		newDrugsListCmd(a),
		newDrugsShowCmd(a),
		newDrugsAddCmd(a),
		newDrugsEditCmd(a),
		newDrugsDeleteCmd(a),
		newDrugsFavoriteCmd(a),
	)
	return cmd
}

func newDrugsListCmd(a *app) *cobra.Command {
	var (
		search    string
		favorites bool
		sortBy    string
		desc      bool
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recipes",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			field, err := core.ParseSortField(sortBy)
			if err != nil {
				return err
			}
			drugs := a.svc.ListDrugs(core.DrugFilter{
				Search:        search,
				FavoritesOnly: favorites,
				SortBy:        field,
				Desc:          desc,
			})
			if asJSON {
				return writeJSON(a.stdout, drugs)
			}
			return writeDrugTable(a.stdout, drugs)
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "match name, type or effect")
	cmd.Flags().BoolVar(&favorites, "favorites", false, "only favorites")
	cmd.Flags().StringVar(&sortBy, "sort", "", "sort by name, type, price, cost, profit or margin")
	cmd.Flags().BoolVar(&desc, "desc", false, "reverse the order")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newDrugsShowCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show <id|name>",
		Short: "Show one recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			d, err := a.resolveDrug(args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(a.stdout, d)
			}
			return writeDrugDetail(a.stdout, d)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newDrugsAddCmd(a *app) *cobra.Command {
	var (
		name        string
		drugType    string
		price       float64
		ingredients []string
		effects     []string
		notes       string
		favorite    bool
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a recipe",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			drug := domain.Drug{
				Name:      name,
				DrugType:  domain.DrugType(drugType).Normalize(),
				BasePrice: price,
				Notes:     notes,
				Favorite:  favorite,
			}
			for _, spec := range ingredients {
				ingName, qty, err := parseIngredientSpec(spec)
				if err != nil {
					return err
				}
				drug.Ingredients = append(drug.Ingredients, a.svc.Ingredients().Ingredient(ingName, qty))
			}
			for _, eff := range effects {
				drug.Effects = append(drug.Effects, a.svc.Effects().Hydrate(eff))
			}
			created, res, err := a.svc.CreateDrug(cmd.Context(), drug)
			if err != nil {
				return err
			}
			writeWarnings(a.stderr, res)
			_, err = fmt.Fprintf(a.stdout, "Created %s (%s)\n", created.Name, created.ID)
			return err
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "recipe name")
	cmd.Flags().StringVar(&drugType, "type", string(domain.DrugTypeWeed), "Weed, Meth or Cocaine")
	cmd.Flags().Float64Var(&price, "price", 0, "base sale price")
	cmd.Flags().StringArrayVar(&ingredients, "ingredient", nil, "ingredient as name or name:quantity (repeatable)")
	cmd.Flags().StringArrayVar(&effects, "effect", nil, "effect name (repeatable)")
	cmd.Flags().StringVar(&notes, "notes", "", "free text notes")
	cmd.Flags().BoolVar(&favorite, "favorite", false, "mark as favorite")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newDrugsEditCmd(a *app) *cobra.Command {
	var (
		name             string
		drugType         string
		price            float64
		ingredients      []string
		effects          []string
		notes            string
		clearIngredients bool
		clearEffects     bool
	)
	cmd := &cobra.Command{
		Use:   "edit <id|name>",
		Short: "Edit a recipe",
		Long: "Edit a recipe. Only the flags given are changed; --ingredient and --effect\n" +
			"replace the whole list.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.resolveDrug(args[0])
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			var lines []domain.Ingredient
			for _, spec := range ingredients {
				ingName, qty, err := parseIngredientSpec(spec)
				if err != nil {
					return err
				}
				lines = append(lines, a.svc.Ingredients().Ingredient(ingName, qty))
			}
			var hydrated []domain.Effect
			for _, eff := range effects {
				hydrated = append(hydrated, a.svc.Effects().Hydrate(eff))
			}
			updated, res, err := a.svc.UpdateDrug(cmd.Context(), d.ID, func(drug *domain.Drug) error {
				if flags.Changed("name") {
					drug.Name = name
				}
				if flags.Changed("type") {
					drug.DrugType = domain.DrugType(drugType).Normalize()
				}
				if flags.Changed("price") {
					drug.BasePrice = price
				}
				if flags.Changed("notes") {
					drug.Notes = notes
				}
				if clearIngredients || len(lines) > 0 {
					drug.Ingredients = lines
				}
				if clearEffects || len(hydrated) > 0 {
					drug.Effects = hydrated
				}
				return nil
			})
			if err != nil {
				return err
			}
			writeWarnings(a.stderr, res)
			_, err = fmt.Fprintf(a.stdout, "Updated %s\n", updated.Name)
			return err
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new recipe name")
	cmd.Flags().StringVar(&drugType, "type", "", "Weed, Meth or Cocaine")
	cmd.Flags().Float64Var(&price, "price", 0, "base sale price")
	cmd.Flags().StringArrayVar(&ingredients, "ingredient", nil, "ingredient as name or name:quantity (repeatable, replaces the list)")
	cmd.Flags().StringArrayVar(&effects, "effect", nil, "effect name (repeatable, replaces the list)")
	cmd.Flags().StringVar(&notes, "notes", "", "free text notes")
	cmd.Flags().BoolVar(&clearIngredients, "clear-ingredients", false, "remove every ingredient")
	cmd.Flags().BoolVar(&clearEffects, "clear-effects", false, "remove every effect")
	return cmd
}

func newDrugsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id|name>",
		Short: "Delete a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.resolveDrug(args[0])
			if err != nil {
				return err
			}
			if _, err := a.svc.DeleteDrug(cmd.Context(), d.ID); err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.stdout, "Deleted %s\n", d.Name)
			return err
		},
	}
}

func newDrugsFavoriteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "favorite <id|name>",
		Short: "Toggle the favorite flag of a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.resolveDrug(args[0])
			if err != nil {
				return err
			}
			updated, _, err := a.svc.ToggleFavorite(cmd.Context(), d.ID)
			if err != nil {
				return err
			}
			state := "no longer a favorite"
			if updated.Favorite {
				state = "a favorite"
			}
			_, err = fmt.Fprintf(a.stdout, "%s is now %s\n", updated.Name, state)
			return err
		},
	}
}

// parseIngredientSpec splits "name:quantity". The quantity defaults to 1 and
// may be fractional.
func parseIngredientSpec(spec string) (string, float64, error) {
	name, rawQty, hasQty := strings.Cut(spec, ":")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", 0, fmt.Errorf("ingredient %q: missing name", spec)
	}
	if !hasQty {
		return name, 1, nil
	}
	qty, err := strconv.ParseFloat(strings.TrimSpace(rawQty), 64)
	if err != nil {
		return "", 0, fmt.Errorf("ingredient %q: bad quantity: %w", spec, err)
	}
	return name, qty, nil
}

func writeDrugTable(w io.Writer, drugs []domain.Drug) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tPRICE\tCOST\tPROFIT\tMARGIN\tFAV")
	for _, d := range drugs {
		fav := ""
		if d.Favorite {
			fav = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t$%.2f\t$%.2f\t$%.2f\t%.1f%%\t%s\n",
			d.ID, d.Name, d.DrugType, d.BasePrice, d.IngredientCost(), d.Profit(), d.ProfitMargin(), fav)
	}
	return tw.Flush()
}

func writeDrugDetail(w io.Writer, d domain.Drug) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Name:\t%s\n", d.Name)
	fmt.Fprintf(tw, "ID:\t%s\n", d.ID)
	fmt.Fprintf(tw, "Type:\t%s\n", d.DrugType)
	fmt.Fprintf(tw, "Price:\t$%.2f\n", d.BasePrice)
	fmt.Fprintf(tw, "Cost:\t$%.2f\n", d.IngredientCost())
	fmt.Fprintf(tw, "Profit:\t$%.2f (%.1f%%)\n", d.Profit(), d.ProfitMargin())
	fmt.Fprintf(tw, "Favorite:\t%t\n", d.Favorite)
	fmt.Fprintln(tw, "Ingredients:")
	for _, ing := range d.Ingredients {
		fmt.Fprintf(tw, "  %s\tx%g\t$%.2f\n", ing.Name, ing.Quantity, ing.TotalCost())
	}
	fmt.Fprintln(tw, "Effects:")
	for _, eff := range d.Effects {
		fmt.Fprintf(tw, "  %s\t%s\n", eff.Name, eff.Description)
	}
	if d.Notes != "" {
		fmt.Fprintf(tw, "Notes:\t%s\n", d.Notes)
	}
	return tw.Flush()
}

func writeWarnings(w io.Writer, res core.Result) {
	for _, v := range res.Violations {
		if v.Severity == domain.SeverityWarn {
			fmt.Fprintf(w, "warning: %s\n", v.Message)
		}
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
