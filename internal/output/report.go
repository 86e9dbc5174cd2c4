package output

import (
	"fmt"
	"strings"

	"github.com/raphi011/csrsweep/internal/sweep"
)

// FormatReport renders a check report for the terminal.
func FormatReport(rep sweep.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Provider root: HKLM\\%s\n", rep.Root)

	if !rep.RootPresent {
		b.WriteString("  root key absent (fresh machine, nothing cached yet)\n")
		return b.String()
	}

	switch {
	case rep.FlagEnabled():
		fmt.Fprintf(&b, "  ✓ %s = 1\n", sweep.FlagName)
	case rep.FlagPresent:
		fmt.Fprintf(&b, "  ✗ %s = %d (sweep would set it to 1)\n", sweep.FlagName, rep.FlagValue)
	default:
		fmt.Fprintf(&b, "  ✗ %s not set (sweep would create it)\n", sweep.FlagName)
	}

	if len(rep.Profiles) == 0 {
		b.WriteString("  ✓ no orphaned profile entries\n")
	} else {
		fmt.Fprintf(&b, "  ✗ %d orphaned profile %s:\n", len(rep.Profiles), plural(len(rep.Profiles), "entry", "entries"))
		for _, sid := range rep.Profiles {
			fmt.Fprintf(&b, "      %s\n", sid)
		}
	}

	if len(rep.Servers) == 0 {
		b.WriteString("  ✓ no cached server entries\n")
	} else {
		for _, srv := range rep.Servers {
			if srv.Printers == 0 && srv.Ports == 0 {
				fmt.Fprintf(&b, "  ✓ %s: clean\n", srv.Name)
				continue
			}
			fmt.Fprintf(&b, "  ✗ %s: %d cached printer %s, %d port %s\n",
				srv.Name,
				srv.Printers, plural(srv.Printers, "connection", "connections"),
				srv.Ports, plural(srv.Ports, "entry", "entries"))
		}
	}

	if rep.Stale() {
		b.WriteString("\nRun 'csrsweep' to clean up.\n")
	} else {
		b.WriteString("\nNothing to do.\n")
	}
	return b.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
