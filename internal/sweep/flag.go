package sweep

import "fmt"

// FlagOutcome describes what EnsureFlag had to do.
type FlagOutcome string

const (
	// FlagCreated means the value was absent and has been created.
	FlagCreated FlagOutcome = "created"
	// FlagCorrected means the value existed with the wrong setting.
	FlagCorrected FlagOutcome = "corrected"
	// FlagUnchanged means the value was already enabled.
	FlagUnchanged FlagOutcome = "already correct"
)

// EnsureFlag upserts the RemovePrintersAtLogoff value under the provider
// root to its enabled state. On success the value is guaranteed to be
// FlagEnabled regardless of the reported outcome. In dry-run mode the
// outcome is computed but nothing is written.
func (r *Runner) EnsureFlag() (FlagOutcome, error) {
	val, ok, err := r.store.DWord(r.Root, FlagName)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", FlagName, err)
	}

	switch {
	case !ok:
		if !r.DryRun {
			if err := r.store.SetDWord(r.Root, FlagName, FlagEnabled); err != nil {
				return "", fmt.Errorf("create %s: %w", FlagName, err)
			}
		}
		return FlagCreated, nil

	case val != FlagEnabled:
		if !r.DryRun {
			if err := r.store.SetDWord(r.Root, FlagName, FlagEnabled); err != nil {
				return "", fmt.Errorf("correct %s: %w", FlagName, err)
			}
		}
		return FlagCorrected, nil

	default:
		return FlagUnchanged, nil
	}
}
