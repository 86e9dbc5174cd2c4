package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/raphi011/csrsweep/internal/history"
	"github.com/raphi011/csrsweep/internal/output"
	"github.com/raphi011/csrsweep/internal/sweep"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report stale cache entries without changing anything",
		Long: `Read-only diagnosis of the provider root: flag state, orphaned profile
keys and per-server cached printer/port counts. Exits zero whether or not
anything is stale; an absent root is reported, not an error.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context())
		},
	}
}

func runCheck(ctx context.Context) error {
	out := output.FromContext(ctx)

	store, err := openStore()
	if err != nil {
		return err
	}

	root := providerRoot()
	if root == "" {
		root = sweep.DefaultProviderRoot
	}

	rep, err := sweep.Inspect(store, root)
	if err != nil {
		return err
	}

	out.Print(output.FormatReport(rep))

	if h, err := history.Load(historyPath); err == nil {
		if last := h.Last(); last != nil {
			out.Printf("Last run: %s (%d profiles, %d printers, %d ports removed, %d errors)\n",
				last.Time.Format(time.RFC3339), last.Profiles, last.Printers, last.Ports, last.Errors)
		}
	}
	return nil
}
