package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"recipebook/internal/catalog"
	"recipebook/internal/core"
)

func newIngredientsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingredients",
		Short: "Manage the ingredient catalog",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List ingredients with unit prices",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "NAME\tUNIT PRICE")
				for _, e := range a.svc.Ingredients().List() {
					fmt.Fprintf(tw, "%s\t$%.2f\n", e.Name, e.UnitPrice)
				}
				return tw.Flush()
			},
		},
		newIngredientsAddCmd(a),
		newIngredientsEditCmd(a),
		&cobra.Command{
			Use:   "remove <name>",
			Short: "Remove an ingredient no recipe uses",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				err := a.editCatalog(func() error {
					return a.svc.RemoveIngredient(cmd.Context(), args[0])
				})
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(a.stdout, "Removed ingredient %s\n", args[0])
				return err
			},
		},
	)
	return cmd
}

func newIngredientsAddCmd(a *app) *cobra.Command {
	var price float64
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an ingredient to the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var added catalog.IngredientEntry
			err := a.editCatalog(func() error {
				var err error
				added, err = a.svc.AddIngredient(cmd.Context(), catalog.IngredientEntry{Name: args[0], UnitPrice: price})
				return err
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.stdout, "Added ingredient %s ($%.2f)\n", added.Name, added.UnitPrice)
			return err
		},
	}
	cmd.Flags().Float64Var(&price, "price", catalog.DefaultIngredientPrice, "unit price")
	return cmd
}

func newIngredientsEditCmd(a *app) *cobra.Command {
	var (
		name  string
		price float64
	)
	cmd := &cobra.Command{
		Use:   "edit <name>",
		Short: "Rename or reprice an ingredient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("name") && !flags.Changed("price") {
				return fmt.Errorf("nothing to change: pass --name or --price")
			}
			var updated catalog.IngredientEntry
			err := a.editCatalog(func() error {
				var err error
				updated, err = a.svc.EditIngredient(cmd.Context(), args[0], func(e *catalog.IngredientEntry) error {
					if flags.Changed("name") {
						e.Name = name
					}
					if flags.Changed("price") {
						e.UnitPrice = price
					}
					return nil
				})
				return err
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.stdout, "Updated ingredient %s ($%.2f)\n", updated.Name, updated.UnitPrice)
			return err
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().Float64Var(&price, "price", 0, "new unit price")
	return cmd
}

func newEffectsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "effects",
		Short: "Manage the effect catalog",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List effects",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "NAME\tCOLOR\tDESCRIPTION")
				for _, e := range a.svc.Effects().List() {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Name, e.Color, e.Description)
				}
				return tw.Flush()
			},
		},
		newEffectsAddCmd(a),
		newEffectsEditCmd(a),
		&cobra.Command{
			Use:   "remove <name>",
			Short: "Remove an effect no recipe lists",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				err := a.editCatalog(func() error {
					return a.svc.RemoveEffect(cmd.Context(), args[0])
				})
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(a.stdout, "Removed effect %s\n", args[0])
				return err
			},
		},
	)
	return cmd
}

func newEffectsAddCmd(a *app) *cobra.Command {
	var description, color string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an effect to the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var added core.Effect
			err := a.editCatalog(func() error {
				var err error
				added, err = a.svc.AddEffect(cmd.Context(), core.Effect{Name: args[0], Description: description, Color: color})
				return err
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.stdout, "Added effect %s (%s)\n", added.Name, added.Color)
			return err
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "what the effect does")
	cmd.Flags().StringVar(&color, "color", "", "display color such as #FF8800")
	return cmd
}

func newEffectsEditCmd(a *app) *cobra.Command {
	var name, description, color string
	cmd := &cobra.Command{
		Use:   "edit <name>",
		Short: "Change the name, description or color of an effect",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("name") && !flags.Changed("description") && !flags.Changed("color") {
				return fmt.Errorf("nothing to change: pass --name, --description or --color")
			}
			var updated core.Effect
			err := a.editCatalog(func() error {
				var err error
				updated, err = a.svc.EditEffect(cmd.Context(), args[0], func(e *core.Effect) error {
					if flags.Changed("name") {
						e.Name = name
					}
					if flags.Changed("description") {
						e.Description = description
					}
					if flags.Changed("color") {
						e.Color = color
					}
					return nil
				})
				return err
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.stdout, "Updated effect %s (%s)\n", updated.Name, updated.Color)
			return err
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVar(&color, "color", "", "new display color")
	return cmd
}
