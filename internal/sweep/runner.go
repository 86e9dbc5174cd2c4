package sweep

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/raphi011/csrsweep/internal/hive"
)

// Well-known provider paths and names. These must match the print
// subsystem exactly.
const (
	// DefaultProviderRoot is the CSR print provider's cache area under
	// HKEY_LOCAL_MACHINE.
	DefaultProviderRoot = `SOFTWARE\Microsoft\Windows NT\CurrentVersion\Print\Providers\Client Side Rendering Print Provider`

	// FlagName enables the provider's own logoff-time cleanup.
	FlagName = "RemovePrintersAtLogoff"

	// FlagEnabled is the value FlagName must hold.
	FlagEnabled uint32 = 1

	serversKey      = "Servers"
	printersKey     = "Printers"
	monitorsPortKey = `Monitors\Client Side Port`
)

// Runner performs the cleanup against a single provider root.
type Runner struct {
	store hive.Store
	log   zerolog.Logger

	// Root is the provider root path. Defaults to DefaultProviderRoot;
	// overridable for lab setups only.
	Root string

	// DryRun logs what would be removed without touching the store.
	DryRun bool
}

// New returns a Runner over store, logging to log.
func New(store hive.Store, log zerolog.Logger) *Runner {
	return &Runner{
		store: store,
		log:   log,
		Root:  DefaultProviderRoot,
	}
}

// RootExists reports whether the provider root key is present.
func (r *Runner) RootExists() bool {
	return r.store.Exists(r.Root)
}

// Summary reports what a run did.
type Summary struct {
	BootstrappedRoot bool        // root was absent and got created
	Flag             FlagOutcome // empty when the flag step failed
	Profiles         int         // SID subtrees removed
	Printers         int         // cached printer connections removed
	Ports            int         // client side port entries removed
	Errors           int         // recovered per-entry failures
}

// Run executes the full remediation: flag normalization, then the
// profile sweep, then the servers sweep. A failure in any one step is
// logged and the remaining steps still run; the returned error is
// non-nil only when the run could not begin at all.
func (r *Runner) Run() (Summary, error) {
	var sum Summary

	if !r.store.Exists(r.Root) {
		// Fresh machine: nothing was ever cached, so there is nothing to
		// remediate. Create the root so the flag has a home next run.
		if err := r.store.CreateKey(r.Root); err != nil {
			return sum, fmt.Errorf("create provider root: %w", err)
		}
		sum.BootstrappedRoot = true
		r.log.Info().Str("root", r.Root).Msg("provider root was absent, created empty key")
		r.logComplete(sum)
		return sum, nil
	}

	outcome, err := r.EnsureFlag()
	if err != nil {
		sum.Errors++
		r.log.Error().Err(err).Str("flag", FlagName).Msg("flag normalization failed, continuing with sweep")
	} else {
		sum.Flag = outcome
		r.log.Info().Str("flag", FlagName).Str("outcome", string(outcome)).Msg("logoff cleanup flag normalized")
	}

	removed, failed := r.SweepProfiles()
	sum.Profiles = removed
	sum.Errors += failed

	printers, ports, failed := r.SweepServers()
	sum.Printers = printers
	sum.Ports = ports
	sum.Errors += failed

	r.logComplete(sum)
	return sum, nil
}

func (r *Runner) logComplete(sum Summary) {
	r.log.Info().
		Bool("dry_run", r.DryRun).
		Int("profiles_removed", sum.Profiles).
		Int("printers_removed", sum.Printers).
		Int("ports_removed", sum.Ports).
		Int("errors", sum.Errors).
		Msg("run complete")
}

// childPath joins name onto parent and applies the delete guard: the
// result must be a strict descendant of both parent and the provider
// root. A name coming out of a key listing should never contain a
// separator or be empty, but the listing is untrusted input here.
func (r *Runner) childPath(parent, name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `\/`) {
		return "", fmt.Errorf("unsafe key name %q", name)
	}
	path := hive.Join(parent, name)
	if strings.EqualFold(path, r.Root) || strings.EqualFold(path, parent) {
		return "", fmt.Errorf("key name %q resolves to the provider root", name)
	}
	return path, nil
}
