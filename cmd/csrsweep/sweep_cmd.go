package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/raphi011/csrsweep/internal/log"
)

func newSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Sweep orphaned cache entries without touching the flag",
		Long: `Delete orphaned per-user (SID) cache keys and clear each server's
Printers and Monitors\Client Side Port contents. The
RemovePrintersAtLogoff flag is left as it is; use the bare command or
'csrsweep flag' to normalize it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(cmd.Context())
		},
	}
}

func runSweep(ctx context.Context) error {
	l := log.FromContext(ctx)

	r, err := newRunner(ctx)
	if err != nil {
		return err
	}

	if !r.RootExists() {
		l.Info().Str("root", r.Root).Msg("provider root absent, nothing to sweep")
		return nil
	}

	profiles, failed := r.SweepProfiles()
	printers, ports, failedServers := r.SweepServers()

	l.Info().
		Bool("dry_run", r.DryRun).
		Int("profiles_removed", profiles).
		Int("printers_removed", printers).
		Int("ports_removed", ports).
		Int("errors", failed+failedServers).
		Msg("sweep complete")
	return nil
}
