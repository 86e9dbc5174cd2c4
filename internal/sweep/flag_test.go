package sweep

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/raphi011/csrsweep/internal/hive"
)

func TestEnsureFlag(t *testing.T) {
	tests := []struct {
		name    string
		seed    func(t *testing.T, m *hive.Mem, root string)
		outcome FlagOutcome
	}{
		{
			name:    "absent value is created",
			seed:    func(t *testing.T, m *hive.Mem, root string) {},
			outcome: FlagCreated,
		},
		{
			name: "disabled value is corrected",
			seed: func(t *testing.T, m *hive.Mem, root string) {
				if err := m.SetDWord(root, FlagName, 0); err != nil {
					t.Fatalf("seed: %v", err)
				}
			},
			outcome: FlagCorrected,
		},
		{
			name: "enabled value is left alone",
			seed: func(t *testing.T, m *hive.Mem, root string) {
				if err := m.SetDWord(root, FlagName, FlagEnabled); err != nil {
					t.Fatalf("seed: %v", err)
				}
			},
			outcome: FlagUnchanged,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := hive.NewMem()
			r := New(m, zerolog.Nop())
			r.Root = testRoot
			if err := m.CreateKey(testRoot); err != nil {
				t.Fatalf("seed root: %v", err)
			}
			tt.seed(t, m, testRoot)

			outcome, err := r.EnsureFlag()
			if err != nil {
				t.Fatalf("EnsureFlag: %v", err)
			}
			if outcome != tt.outcome {
				t.Errorf("outcome = %q, want %q", outcome, tt.outcome)
			}

			// Post-condition holds in every case.
			val, ok, err := m.DWord(testRoot, FlagName)
			if err != nil || !ok || val != FlagEnabled {
				t.Errorf("flag after EnsureFlag = (%d, %v, %v), want (%d, true, nil)", val, ok, err, FlagEnabled)
			}
		})
	}
}

func TestEnsureFlagDryRun(t *testing.T) {
	m := hive.NewMem()
	if err := m.CreateKey(testRoot); err != nil {
		t.Fatalf("seed root: %v", err)
	}
	r := New(m, zerolog.Nop())
	r.Root = testRoot
	r.DryRun = true

	outcome, err := r.EnsureFlag()
	if err != nil {
		t.Fatalf("EnsureFlag: %v", err)
	}
	if outcome != FlagCreated {
		t.Errorf("outcome = %q, want %q", outcome, FlagCreated)
	}
	if _, ok, _ := m.DWord(testRoot, FlagName); ok {
		t.Error("dry run must not write the flag")
	}
}
