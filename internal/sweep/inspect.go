package sweep

import (
	"fmt"

	"github.com/raphi011/csrsweep/internal/hive"
)

// ServerReport counts the stale entries cached for one print server.
type ServerReport struct {
	Name     string
	Printers int // entries under Printers
	Ports    int // entries under Monitors\Client Side Port
}

// Report is a read-only snapshot of the provider root's health.
type Report struct {
	Root        string
	RootPresent bool
	FlagPresent bool
	FlagValue   uint32
	Profiles    []string // orphaned SID key names
	Servers     []ServerReport
}

// FlagEnabled reports whether the logoff cleanup flag is set correctly.
func (rep Report) FlagEnabled() bool {
	return rep.FlagPresent && rep.FlagValue == FlagEnabled
}

// Stale reports whether a sweep would change anything.
func (rep Report) Stale() bool {
	if !rep.RootPresent {
		return false
	}
	if !rep.FlagEnabled() {
		return true
	}
	if len(rep.Profiles) > 0 {
		return true
	}
	for _, s := range rep.Servers {
		if s.Printers > 0 || s.Ports > 0 {
			return true
		}
	}
	return false
}

// Inspect gathers a Report for the provider root without mutating the
// store. It backs the check command and uses the same predicates as the
// sweep itself.
func Inspect(store hive.Store, root string) (Report, error) {
	rep := Report{Root: root}

	if !store.Exists(root) {
		return rep, nil
	}
	rep.RootPresent = true

	val, ok, err := store.DWord(root, FlagName)
	if err != nil {
		return rep, fmt.Errorf("read %s: %w", FlagName, err)
	}
	rep.FlagPresent = ok
	rep.FlagValue = val

	names, err := store.Children(root)
	if err != nil {
		return rep, fmt.Errorf("list provider root: %w", err)
	}
	for _, name := range names {
		if IsProfileSID(name) {
			rep.Profiles = append(rep.Profiles, name)
		}
	}

	serversPath := hive.Join(root, serversKey)
	servers, err := store.Children(serversPath)
	if err != nil {
		return rep, fmt.Errorf("list Servers: %w", err)
	}
	for _, name := range servers {
		srv := ServerReport{Name: name}
		srv.Printers = countChildren(store, hive.Join(serversPath, name, printersKey))
		srv.Ports = countChildren(store, hive.Join(serversPath, name, monitorsPortKey))
		rep.Servers = append(rep.Servers, srv)
	}

	return rep, nil
}

func countChildren(store hive.Store, path string) int {
	names, err := store.Children(path)
	if err != nil {
		return 0
	}
	return len(names)
}
