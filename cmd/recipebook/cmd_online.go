package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"recipebook/internal/online"
)

func newOnlineCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "online",
		Short: "Share recipes through the online library",
	}
	cmd.AddCommand(
		newOnlineAuthCmd(a, "signup", "Create an account and sign in"),
		newOnlineAuthCmd(a, "signin", "Sign in"),
		&cobra.Command{
			Use:   "signout",
			Short: "Sign out",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				lib, err := a.onlineLibrary(cmd.Context())
				if err != nil {
					return err
				}
				if err := lib.SignOut(); err != nil {
					return err
				}
				_, err = fmt.Fprintln(a.stdout, "Signed out")
				return err
			},
		},
		&cobra.Command{
			Use:   "whoami",
			Short: "Show the signed-in account",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				lib, err := a.onlineLibrary(cmd.Context())
				if err != nil {
					return err
				}
				sess, ok := lib.Session()
				if !ok {
					_, err = fmt.Fprintln(a.stdout, "Not signed in")
					return err
				}
				line := "Signed in as: " + sess.Email
				if sess.Username != "" {
					line += " (Username: " + sess.Username + ")"
				}
				_, err = fmt.Fprintln(a.stdout, line)
				return err
			},
		},
		&cobra.Command{
			Use:   "username <name>",
			Short: "Set your display name",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				lib, err := a.onlineLibrary(cmd.Context())
				if err != nil {
					return err
				}
				if err := lib.SetUsername(cmd.Context(), args[0]); err != nil {
					return err
				}
				_, err = fmt.Fprintf(a.stdout, "Username set to %s\n", strings.TrimSpace(args[0]))
				return err
			},
		},
		newOnlineSubmitCmd(a),
		newOnlineBrowseCmd(a),
		&cobra.Command{
			Use:   "show <id>",
			Short: "Show a shared recipe",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				lib, err := a.onlineLibrary(cmd.Context())
				if err != nil {
					return err
				}
				doc, err := lib.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return writeSharedDetail(a.stdout, doc)
			},
		},
		&cobra.Command{
			Use:   "upvote <id>",
			Short: "Upvote a shared recipe",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				lib, err := a.onlineLibrary(cmd.Context())
				if err != nil {
					return err
				}
				n, err := lib.Upvote(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(a.stdout, "Upvoted, now at %d\n", n)
				return err
			},
		},
		&cobra.Command{
			Use:   "import <id>",
			Short: "Copy a shared recipe into the local database",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				lib, err := a.onlineLibrary(cmd.Context())
				if err != nil {
					return err
				}
				drug, err := lib.Import(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				created, res, err := a.svc.CreateDrug(cmd.Context(), drug)
				if err != nil {
					return err
				}
				writeWarnings(a.stderr, res)
				_, err = fmt.Fprintf(a.stdout, "Imported %s (%s)\n", created.Name, created.ID)
				return err
			},
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete one of your shared recipes",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				lib, err := a.onlineLibrary(cmd.Context())
				if err != nil {
					return err
				}
				if err := lib.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				_, err = fmt.Fprintf(a.stdout, "Deleted %s\n", args[0])
				return err
			},
		},
	)
	return cmd
}

func newOnlineAuthCmd(a *app, use, short string) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lib, err := a.onlineLibrary(cmd.Context())
			if err != nil {
				return err
			}
			var sess online.Session
			if use == "signup" {
				sess, err = lib.SignUp(cmd.Context(), email, password)
			} else {
				sess, err = lib.SignIn(cmd.Context(), email, password)
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.stdout, "Signed in as: %s\n", sess.DisplayName())
			return err
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newOnlineSubmitCmd(a *app) *cobra.Command {
	var comments string
	cmd := &cobra.Command{
		Use:   "submit <id|name>",
		Short: "Share a local recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := a.onlineLibrary(cmd.Context())
			if err != nil {
				return err
			}
			d, err := a.resolveDrug(args[0])
			if err != nil {
				return err
			}
			doc, err := lib.Submit(cmd.Context(), d, comments)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.stdout, "Shared %s as %s\n", doc.Name, doc.ID)
			return err
		},
	}
	cmd.Flags().StringVar(&comments, "comments", "", "comments shown with the recipe")
	return cmd
}

func newOnlineBrowseCmd(a *app) *cobra.Command {
	var (
		mine   bool
		search string
	)
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "List shared recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lib, err := a.onlineLibrary(cmd.Context())
			if err != nil {
				return err
			}
			var docs []online.SharedDrug
			if mine {
				docs, err = lib.ListMine(cmd.Context())
			} else {
				docs, err = lib.ListAll(cmd.Context())
			}
			if errors.Is(err, online.ErrNotAuthenticated) {
				return fmt.Errorf("--mine: %w", err)
			}
			if err != nil {
				return err
			}
			return writeSharedTable(a.stdout, online.FilterShared(docs, search))
		},
	}
	cmd.Flags().BoolVar(&mine, "mine", false, "only recipes you shared")
	cmd.Flags().StringVar(&search, "search", "", "match name, type, creator or effect")
	return cmd
}

func writeSharedTable(w io.Writer, docs []online.SharedDrug) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tPRICE\tCREATOR\tUPVOTES\tDATE")
	for _, d := range docs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t$%.2f\t%s\t%d\t%s\n",
			d.ID, d.Name, d.DrugType, d.BasePrice, d.Creator(), d.Upvotes, d.Timestamp.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func writeSharedDetail(w io.Writer, d online.SharedDrug) error {
	drug := d.Drug()
	drug.ID = d.ID
	if err := writeDrugDetail(w, drug); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Shared by %s on %s, %d upvote(s)\n",
		d.Creator(), d.Timestamp.Format("2006-01-02 15:04"), d.Upvotes)
	return err
}
