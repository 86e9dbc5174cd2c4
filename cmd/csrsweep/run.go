package main

import (
	"context"
	"fmt"
	"time"

	"github.com/raphi011/csrsweep/internal/history"
	"github.com/raphi011/csrsweep/internal/log"
	"github.com/raphi011/csrsweep/internal/spooler"
	"github.com/raphi011/csrsweep/internal/sweep"
)

// historyPath is where run summaries are recorded; swapped out in tests.
var historyPath = history.Path()

// newRunner opens the hive and builds a Runner from config and flags.
// An error here is the only thing that makes the process exit non-zero:
// everything past this point recovers and logs.
func newRunner(ctx context.Context) (*sweep.Runner, error) {
	store, err := openStore()
	if err != nil {
		return nil, fmt.Errorf("open hive: %w", err)
	}

	r := sweep.New(store, log.FromContext(ctx))
	if root := providerRoot(); root != "" {
		r.Root = root
	}
	r.DryRun = dryRun
	return r, nil
}

func providerRoot() string {
	if rootOverride != "" {
		return rootOverride
	}
	return cfg.ProviderRoot
}

// runFull performs the whole remediation: flag normalization plus both
// sweeps, then the optional spooler restart.
func runFull(ctx context.Context) error {
	l := log.FromContext(ctx)

	r, err := newRunner(ctx)
	if err != nil {
		return err
	}

	sum, err := r.Run()
	if err != nil {
		return err
	}

	if err := history.Record(history.Entry{
		Time:     time.Now(),
		DryRun:   r.DryRun,
		Profiles: sum.Profiles,
		Printers: sum.Printers,
		Ports:    sum.Ports,
		Errors:   sum.Errors,
	}, historyPath); err != nil {
		l.Warn().Err(err).Msg("recording run history failed")
	}

	if restartSpooler {
		switch {
		case !cfg.RestartSpooler:
			l.Warn().Msg("--restart-spooler ignored: restart_spooler is disabled in config")
		case r.DryRun:
			l.Info().Msg("dry run, skipping spooler restart")
		case sum.Errors > 0:
			l.Warn().Int("errors", sum.Errors).Msg("skipping spooler restart after recovered errors")
		default:
			if err := spooler.Restart(ctx, l); err != nil {
				// The sweep itself succeeded; a restart failure is
				// logged, not fatal.
				l.Error().Err(err).Msg("spooler restart failed")
			}
		}
	}

	return nil
}
