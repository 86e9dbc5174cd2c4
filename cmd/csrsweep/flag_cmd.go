package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/raphi011/csrsweep/internal/log"
	"github.com/raphi011/csrsweep/internal/output"
	"github.com/raphi011/csrsweep/internal/sweep"
)

func newFlagCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "flag",
		Short: "Ensure RemovePrintersAtLogoff is enabled, nothing else",
		Long: `Upsert the RemovePrintersAtLogoff value under the provider root to 1,
creating the root key if needed. No cache entries are touched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFlag(cmd.Context())
		},
	}
}

func runFlag(ctx context.Context) error {
	l := log.FromContext(ctx)
	out := output.FromContext(ctx)

	r, err := newRunner(ctx)
	if err != nil {
		return err
	}

	outcome, err := r.EnsureFlag()
	if err != nil {
		return err
	}

	l.Info().Str("flag", sweep.FlagName).Str("outcome", string(outcome)).Bool("dry_run", r.DryRun).Msg("logoff cleanup flag normalized")
	out.Printf("%s: %s\n", sweep.FlagName, outcome)
	return nil
}
