package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/raphi011/csrsweep/internal/config"
	"github.com/raphi011/csrsweep/internal/hive"
	"github.com/raphi011/csrsweep/internal/log"
	"github.com/raphi011/csrsweep/internal/output"
)

var (
	// Global flags
	dryRun       bool
	quiet        bool
	logFile      string
	logLevel     string
	rootOverride string

	// Root-only flags
	restartSpooler bool

	// Shared state injected into commands
	cfg config.Config

	// closeTranscript flushes the file transcript after Execute.
	closeTranscript = func() {}
)

// openStore opens the system hive; swapped out in tests.
var openStore = hive.OpenSystem

// rootCmd is the base command. Invoked without a subcommand it performs
// the full remediation, which is how deployments (GPO startup script,
// scheduled task) call it.
var rootCmd = &cobra.Command{
	Use:   "csrsweep",
	Short: "Clean up orphaned Client Side Rendering print provider cache entries",
	Long: `csrsweep repairs the registry state that breaks shared printer connections
after domain profiles are deleted without a clean logoff.

It keeps RemovePrintersAtLogoff enabled, deletes orphaned per-user (SID)
cache keys under the Client Side Rendering Print Provider, and clears the
contents of each server's Printers and Monitors\Client Side Port branches.
Safe to run any number of times; intended for startup/shutdown scripts or
a scheduled task, with elevation, while no users are logged on.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "completion" || cmd.Name() == "__complete" || cmd.Name() == "help" {
			return nil
		}
		return setupRunContext(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFull(cmd.Context())
	},
}

// setupRunContext builds the transcript logger from config plus flags and
// attaches it, with a fresh run ID, to the command context.
func setupRunContext(cmd *cobra.Command) error {
	opts := log.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
		Quiet:      quiet,
	}
	if logFile != "" {
		opts.File = logFile
	}
	if logLevel != "" {
		opts.Level = logLevel
	}

	logger, closeLog, err := log.New(opts)
	if err != nil {
		return fmt.Errorf("open transcript: %w", err)
	}
	closeTranscript = closeLog

	logger = logger.With().Str("run_id", uuid.NewString()).Logger()

	ctx := log.WithLogger(cmd.Context(), logger)
	ctx = output.WithPrinter(ctx, os.Stdout)
	cmd.SetContext(ctx)
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	// Optional .env next to the binary or in the working directory;
	// deployment overrides like ProgramData relocation.
	_ = godotenv.Load()

	loadedCfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	cfg = loadedCfg

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rootCmd.SetContext(ctx)

	err = rootCmd.Execute()
	closeTranscript()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "d", false, "Preview without removing anything")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress console output (file transcript still written)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Transcript file (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Transcript level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&rootOverride, "root", "", "Provider root path override (lab use)")
	_ = rootCmd.PersistentFlags().MarkHidden("root")

	rootCmd.Flags().BoolVar(&restartSpooler, "restart-spooler", false, "Restart the Print Spooler after a clean run (requires restart_spooler in config)")

	// Version flag
	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.AddCommand(newSweepCmd())
	rootCmd.AddCommand(newFlagCmd())
	rootCmd.AddCommand(newCheckCmd())
}
