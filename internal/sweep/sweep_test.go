package sweep

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/raphi011/csrsweep/internal/hive"
)

const testRoot = `SOFTWARE\Microsoft\Windows NT\CurrentVersion\Print\Providers\Client Side Rendering Print Provider`

// newTestRunner returns a runner over a fresh Mem hive with the provider
// root created, logging into the returned buffer.
func newTestRunner(t *testing.T) (*Runner, *hive.Mem, *bytes.Buffer) {
	t.Helper()
	m := hive.NewMem()
	if err := m.CreateKey(testRoot); err != nil {
		t.Fatalf("seed root: %v", err)
	}
	var buf bytes.Buffer
	r := New(m, zerolog.New(&buf))
	r.Root = testRoot
	return r, m, &buf
}

// seedServer creates a server with the given printer and port entries.
func seedServer(t *testing.T, m *hive.Mem, server string, printerEntries, portEntries []string) {
	t.Helper()
	base := hive.Join(testRoot, "Servers", server)
	if err := m.CreateKey(base); err != nil {
		t.Fatalf("seed server: %v", err)
	}
	for _, p := range printerEntries {
		if err := m.CreateKey(hive.Join(base, "Printers", p)); err != nil {
			t.Fatalf("seed printer: %v", err)
		}
	}
	for _, p := range portEntries {
		if err := m.CreateKey(hive.Join(base, `Monitors\Client Side Port`, p)); err != nil {
			t.Fatalf("seed port: %v", err)
		}
	}
}

func TestSweepProfilesRemovesExactMatchesOnly(t *testing.T) {
	r, m, _ := newTestRunner(t)

	match := "S-1-5-21-111-222-333-444"
	keep := []string{
		"S-1-5-21-111-222-333",           // missing segment
		"XS-1-5-21-111-222-333-444",      // prefixed
		"S-1-5-21-111-222-333-444-extra", // suffixed
		"Servers",
	}
	for _, name := range append(keep, match) {
		if err := m.CreateKey(hive.Join(testRoot, name)); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	removed, failed := r.SweepProfiles()
	if removed != 1 || failed != 0 {
		t.Fatalf("SweepProfiles = (%d, %d), want (1, 0)", removed, failed)
	}

	if m.Exists(hive.Join(testRoot, match)) {
		t.Errorf("%q should have been removed", match)
	}
	for _, name := range keep {
		if !m.Exists(hive.Join(testRoot, name)) {
			t.Errorf("%q should have been kept", name)
		}
	}
}

func TestSweepProfilesRemovesWholeSubtree(t *testing.T) {
	r, m, _ := newTestRunner(t)

	sid := "S-1-5-21-9-8-7-6"
	if err := m.CreateKey(hive.Join(testRoot, sid, "Printers", "deep", "entry")); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if removed, failed := r.SweepProfiles(); removed != 1 || failed != 0 {
		t.Fatalf("SweepProfiles = (%d, %d), want (1, 0)", removed, failed)
	}
	if m.Exists(hive.Join(testRoot, sid)) {
		t.Error("SID subtree should be gone")
	}
	if !m.Exists(testRoot) {
		t.Error("provider root must survive")
	}
}

func TestSweepProfilesNoOrphans(t *testing.T) {
	r, _, buf := newTestRunner(t)

	removed, failed := r.SweepProfiles()
	if removed != 0 || failed != 0 {
		t.Fatalf("SweepProfiles = (%d, %d), want (0, 0)", removed, failed)
	}
	if !strings.Contains(buf.String(), "no orphaned profile entries found") {
		t.Errorf("log should note the empty result, got %q", buf.String())
	}
}

func TestSweepProfilesPartialFailure(t *testing.T) {
	r, m, buf := newTestRunner(t)

	sids := []string{
		"S-1-5-21-1-1-1-1",
		"S-1-5-21-2-2-2-2",
		"S-1-5-21-3-3-3-3",
	}
	for _, sid := range sids {
		if err := m.CreateKey(hive.Join(testRoot, sid)); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	m.FailDeletes = map[string]error{
		hive.Join(testRoot, sids[1]): errors.New("access denied"),
	}

	removed, failed := r.SweepProfiles()
	if removed != 2 || failed != 1 {
		t.Fatalf("SweepProfiles = (%d, %d), want (2, 1)", removed, failed)
	}

	if m.Exists(hive.Join(testRoot, sids[0])) || m.Exists(hive.Join(testRoot, sids[2])) {
		t.Error("siblings of the failing entry should still be removed")
	}
	if !m.Exists(hive.Join(testRoot, sids[1])) {
		t.Error("failing entry should remain")
	}
	if !strings.Contains(buf.String(), sids[1]) || !strings.Contains(buf.String(), "access denied") {
		t.Errorf("failure should be logged with context, got %q", buf.String())
	}
}

func TestSweepProfilesStaleListing(t *testing.T) {
	r, m, _ := newTestRunner(t)

	// The listing names a SID that no longer exists.
	m.PhantomChildren = map[string][]string{
		testRoot: {"S-1-5-21-5-5-5-5"},
	}

	removed, failed := r.SweepProfiles()
	if removed != 0 || failed != 0 {
		t.Fatalf("SweepProfiles = (%d, %d), want (0, 0)", removed, failed)
	}
}

func TestSweepServersRootSafety(t *testing.T) {
	r, m, _ := newTestRunner(t)
	seedServer(t, m, "printsrv01", []string{"queueA"}, nil)

	// A faulty store hands back names that must never be acted on.
	serversPath := hive.Join(testRoot, "Servers")
	m.PhantomChildren = map[string][]string{
		serversPath: {"", "Servers", `..\..`},
	}

	printers, ports, failed := r.SweepServers()
	if printers != 1 || ports != 0 {
		t.Fatalf("SweepServers = (%d, %d, %d), want 1 printer cleared", printers, ports, failed)
	}
	if failed != 3 {
		t.Errorf("failed = %d, want 3 rejected phantom names", failed)
	}

	if !m.Exists(testRoot) {
		t.Error("provider root must survive")
	}
	if !m.Exists(serversPath) {
		t.Error("Servers branch must survive")
	}
}

func TestSweepServersContainerPreservation(t *testing.T) {
	r, m, _ := newTestRunner(t)
	seedServer(t, m, "printsrv01",
		[]string{"HP LaserJet,LocalsplOnly", "Canon iR"},
		[]string{"HP LaserJet"})

	printers, ports, failed := r.SweepServers()
	if printers != 2 || ports != 1 || failed != 0 {
		t.Fatalf("SweepServers = (%d, %d, %d), want (2, 1, 0)", printers, ports, failed)
	}

	base := hive.Join(testRoot, "Servers", "printsrv01")
	for _, container := range []string{
		hive.Join(base, "Printers"),
		hive.Join(base, `Monitors\Client Side Port`),
	} {
		if !m.Exists(container) {
			t.Errorf("container %q should be kept", container)
			continue
		}
		names, err := m.Children(container)
		if err != nil {
			t.Fatalf("Children: %v", err)
		}
		if len(names) != 0 {
			t.Errorf("container %q should be empty, has %v", container, names)
		}
	}
}

func TestSweepServersAbsentBranches(t *testing.T) {
	r, m, buf := newTestRunner(t)

	// No Servers branch at all.
	printers, ports, failed := r.SweepServers()
	if printers != 0 || ports != 0 || failed != 0 {
		t.Fatalf("SweepServers = (%d, %d, %d), want all zero", printers, ports, failed)
	}
	if !strings.Contains(buf.String(), "no Servers branch present") {
		t.Errorf("absence should be logged, got %q", buf.String())
	}

	// Server without Printers or Monitors: silently skipped.
	if err := m.CreateKey(hive.Join(testRoot, "Servers", "bare")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	printers, ports, failed = r.SweepServers()
	if printers != 0 || ports != 0 || failed != 0 {
		t.Fatalf("SweepServers with bare server = (%d, %d, %d), want all zero", printers, ports, failed)
	}
}

func TestRunMissingRootBootstrap(t *testing.T) {
	m := hive.NewMem()
	var buf bytes.Buffer
	r := New(m, zerolog.New(&buf))
	r.Root = testRoot

	sum, err := r.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !sum.BootstrappedRoot {
		t.Error("summary should report the bootstrap")
	}
	if !m.Exists(testRoot) {
		t.Error("provider root should have been created")
	}
	if _, ok, _ := m.DWord(testRoot, FlagName); ok {
		t.Error("bootstrap run must not set the flag")
	}
	if sum.Profiles != 0 || sum.Printers != 0 || sum.Ports != 0 {
		t.Errorf("bootstrap run must not delete anything, got %+v", sum)
	}
	if !strings.Contains(buf.String(), "run complete") {
		t.Errorf("completion should be logged, got %q", buf.String())
	}
}

func TestRunIdempotent(t *testing.T) {
	r, m, _ := newTestRunner(t)
	if err := m.CreateKey(hive.Join(testRoot, "S-1-5-21-1-2-3-4")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	seedServer(t, m, "printsrv01", []string{"queueA"}, []string{"portA"})

	first, err := r.Run()
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if first.Profiles != 1 || first.Printers != 1 || first.Ports != 1 || first.Errors != 0 {
		t.Fatalf("first run = %+v, want one of each removed", first)
	}
	if first.Flag != FlagCreated {
		t.Errorf("first run flag = %q, want %q", first.Flag, FlagCreated)
	}

	second, err := r.Run()
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if second.Profiles != 0 || second.Printers != 0 || second.Ports != 0 || second.Errors != 0 {
		t.Errorf("second run = %+v, want nothing removed", second)
	}
	if second.Flag != FlagUnchanged {
		t.Errorf("second run flag = %q, want %q", second.Flag, FlagUnchanged)
	}
}

// flagFailStore fails value reads to simulate a denied flag operation.
type flagFailStore struct {
	*hive.Mem
}

func (s *flagFailStore) DWord(path, name string) (uint32, bool, error) {
	return 0, false, &hive.StoreError{Op: "read", Path: path, Err: errors.New("access denied")}
}

func TestRunFlagFailureDoesNotStopSweep(t *testing.T) {
	m := hive.NewMem()
	if err := m.CreateKey(hive.Join(testRoot, "S-1-5-21-1-2-3-4")); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var buf bytes.Buffer
	r := New(&flagFailStore{m}, zerolog.New(&buf))
	r.Root = testRoot

	sum, err := r.Run()
	if err != nil {
		t.Fatalf("Run should recover from a flag failure, got %v", err)
	}
	if sum.Profiles != 1 {
		t.Errorf("profiles removed = %d, want 1 despite flag failure", sum.Profiles)
	}
	if sum.Errors != 1 {
		t.Errorf("errors = %d, want 1", sum.Errors)
	}
	if !strings.Contains(buf.String(), "flag normalization failed") {
		t.Errorf("flag failure should be logged, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "run complete") {
		t.Error("completion must still be logged")
	}
}

func TestRunDryRun(t *testing.T) {
	r, m, buf := newTestRunner(t)
	r.DryRun = true

	sid := "S-1-5-21-1-2-3-4"
	if err := m.CreateKey(hive.Join(testRoot, sid)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	seedServer(t, m, "printsrv01", []string{"queueA"}, []string{"portA"})

	sum, err := r.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Profiles != 1 || sum.Printers != 1 || sum.Ports != 1 {
		t.Errorf("dry run summary = %+v, want counts of would-be removals", sum)
	}

	if !m.Exists(hive.Join(testRoot, sid)) {
		t.Error("dry run must not delete profile entries")
	}
	if !m.Exists(hive.Join(testRoot, "Servers", "printsrv01", "Printers", "queueA")) {
		t.Error("dry run must not delete printer entries")
	}
	if _, ok, _ := m.DWord(testRoot, FlagName); ok {
		t.Error("dry run must not write the flag")
	}
	if !strings.Contains(buf.String(), "would remove orphaned profile entry") {
		t.Errorf("dry run should log intended removals, got %q", buf.String())
	}
}
