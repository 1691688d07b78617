// Command recipebook manages a local recipe catalog, imports recipes from
// Schedule I saves and talks to the shared online library.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var exitFunc = os.Exit

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cli(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	exitFunc(code)
}

func cli(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := newApp(stdout, stderr)
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.ExecuteContext(ctx)
	if closeErr := a.teardown(ctx); err == nil {
		err = closeErr
	}
	if err != nil {
		if _, writeErr := fmt.Fprintf(stderr, "Error: %v\n", err); writeErr != nil {
			return 1
		}
		return 1
	}
	return 0
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "recipebook",
		Short:         "Schedule I recipe catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context())
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&a.flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&a.flags.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	flags.StringVar(&a.flags.storage, "storage", "", "storage driver (json, memory, sqlite, postgres)")
	flags.StringVar(&a.flags.database, "database", "", "database base name for the json driver")
	flags.StringVar(&a.flags.envFile, "env-file", "", "read settings from this env file instead of ./.env")

	root.AddCommand(
		newDrugsCmd(a),
		newIngredientsCmd(a),
		newEffectsCmd(a),
		newSavesCmd(a),
		newDBCmd(a),
		newOnlineCmd(a),
	)
	return root
}
