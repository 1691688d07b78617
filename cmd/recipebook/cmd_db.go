package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// saveAser is implemented by stores that write to a named file.
type saveAser interface {
	SaveAs(base string) error
	Path() string
}

func newDBCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Manage the recipe database",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "new",
			Short: "Remove every recipe",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if _, err := a.svc.NewDatabase(cmd.Context()); err != nil {
					return err
				}
				_, err := fmt.Fprintln(a.stdout, "Database cleared")
				return err
			},
		},
		&cobra.Command{
			Use:   "save-as <base>",
			Short: "Write the database under a new base name",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				s, ok := a.store.(saveAser)
				if !ok {
					return fmt.Errorf("save-as needs the json storage driver, not %s", a.cfg.Storage.Driver)
				}
				if err := s.SaveAs(args[0]); err != nil {
					return err
				}
				_, err := fmt.Fprintf(a.stdout, "Saved to %s\n", s.Path())
				return err
			},
		},
	)
	return cmd
}
