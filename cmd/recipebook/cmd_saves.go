package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"recipebook/internal/core"
	"recipebook/internal/savefile"
)

func newSavesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "saves",
		Short: "Read recipes from game saves",
	}
	cmd.AddCommand(newSavesListCmd(a), newSavesImportCmd(a), newSavesExplainCmd(a))
	return cmd
}

func newSavesListCmd(a *app) *cobra.Command {
	var root string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saves found on disk",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if root == "" {
				found, ok := savefile.DefaultRoot()
				if !ok {
					return errors.New("no Saves directory found; pass --root")
				}
				root = found
			}
			saves, err := savefile.Discover(root, a.logger)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ORGANISATION\tFOLDER\tVERSION\tSTEAM ID\tPATH")
			for _, s := range saves {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", s.Organisation, s.Folder, s.GameVersion, s.SteamID, s.Path)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&root, "root", "", "Saves directory, steam id folder or save folder")
	return cmd
}

func newSavesImportCmd(a *app) *cobra.Command {
	var overwrite bool
	cmd := &cobra.Command{
		Use:   "import <save-path>",
		Short: "Import the recipes of a save",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := savefile.Load(args[0])
			if err != nil {
				return err
			}
			report, res, err := a.svc.ImportSave(cmd.Context(), products, core.ImportOptions{
				Overwrite: overwrite,
				Source:    filepath.Base(filepath.Clean(args[0])),
			})
			if err != nil {
				return err
			}
			writeWarnings(a.stderr, res)
			fmt.Fprintf(a.stdout, "Imported %d, updated %d, skipped %d\n",
				len(report.Imported), len(report.Updated), len(report.Skipped))
			if len(report.Skipped) > 0 {
				fmt.Fprintf(a.stdout, "Skipped (already present): %s\n", strings.Join(report.Skipped, ", "))
			}
			if len(report.DefaultedOrigin) > 0 {
				fmt.Fprintf(a.stdout, "Origin assumed for: %s\n", strings.Join(report.DefaultedOrigin, ", "))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace recipes whose name already exists")
	return cmd
}

func newSavesExplainCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "explain <save-path> <product-id>",
		Short: "Show how a product is mixed",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			products, err := savefile.Load(args[0])
			if err != nil {
				return err
			}
			tree := a.svc.Explain(products, args[1])
			fmt.Fprint(a.stdout, tree.String())
			_, err = fmt.Fprintf(a.stdout, "Ingredients: %s\n", strings.Join(tree.Flatten(), ", "))
			return err
		},
	}
}
