package sweep

import (
	"strings"

	"github.com/raphi011/csrsweep/internal/hive"
)

// SweepProfiles deletes every direct child of the provider root whose
// name is a domain user SID. Returns how many subtrees were removed and
// how many entries failed; a failure on one SID never stops the rest.
func (r *Runner) SweepProfiles() (removed, failed int) {
	names, err := r.store.Children(r.Root)
	if err != nil {
		r.log.Error().Err(err).Str("path", r.Root).Msg("listing provider root failed, skipping profile sweep")
		return 0, 1
	}

	var sids []string
	for _, name := range names {
		if IsProfileSID(name) {
			sids = append(sids, name)
		}
	}

	if len(sids) == 0 {
		r.log.Info().Msg("no orphaned profile entries found")
		return 0, 0
	}

	for _, name := range sids {
		// Recompute from root + name and re-check existence: the listing
		// may be stale, and a delete must never target the root itself.
		path, err := r.childPath(r.Root, name)
		if err != nil {
			failed++
			r.log.Warn().Err(err).Str("sid", name).Msg("skipping suspicious profile entry")
			continue
		}
		if !r.store.Exists(path) {
			continue
		}

		if r.DryRun {
			removed++
			r.log.Info().Str("sid", name).Msg("would remove orphaned profile entry")
			continue
		}

		r.log.Info().Str("sid", name).Msg("removing orphaned profile entry")
		if err := r.store.DeleteSubtree(path); err != nil {
			failed++
			r.log.Error().Err(err).Str("sid", name).Str("path", path).Msg("removing profile entry failed")
			continue
		}
		removed++
		r.log.Info().Str("sid", name).Msg("removed orphaned profile entry")
	}

	return removed, failed
}

// SweepServers clears the cached printer connections and client side
// port entries of every server under the Servers branch. The Printers
// and Monitors\Client Side Port keys themselves are kept: the provider
// expects the containers to exist.
func (r *Runner) SweepServers() (printers, ports, failed int) {
	serversPath := hive.Join(r.Root, serversKey)
	if !r.store.Exists(serversPath) {
		r.log.Info().Msg("no Servers branch present, nothing to clear")
		return 0, 0, 0
	}

	names, err := r.store.Children(serversPath)
	if err != nil {
		r.log.Error().Err(err).Str("path", serversPath).Msg("listing Servers failed, skipping server sweep")
		return 0, 0, 1
	}
	if len(names) == 0 {
		r.log.Info().Msg("no cached server entries found")
		return 0, 0, 0
	}

	for _, name := range names {
		if strings.EqualFold(name, serversKey) {
			failed++
			r.log.Warn().Str("server", name).Msg("skipping server entry named like the Servers branch itself")
			continue
		}
		serverPath, err := r.childPath(serversPath, name)
		if err != nil {
			failed++
			r.log.Warn().Err(err).Str("server", name).Msg("skipping suspicious server entry")
			continue
		}

		n, nfail := r.clearBranch(hive.Join(serverPath, printersKey))
		failed += nfail
		if n > 0 {
			printers += n
			r.log.Info().Str("server", name).Int("removed", n).Bool("dry_run", r.DryRun).Msg("cleared cached printer connections")
		}

		n, nfail = r.clearBranch(hive.Join(serverPath, monitorsPortKey))
		failed += nfail
		if n > 0 {
			ports += n
			r.log.Info().Str("server", name).Int("removed", n).Bool("dry_run", r.DryRun).Msg("cleared client side port entries")
		}
	}

	return printers, ports, failed
}

// clearBranch deletes the children of path but keeps path itself.
// Absence or emptiness of the branch is a normal state and counts as
// zero work done.
func (r *Runner) clearBranch(path string) (removed, failed int) {
	if !r.store.Exists(path) {
		return 0, 0
	}

	names, err := r.store.Children(path)
	if err != nil {
		r.log.Error().Err(err).Str("path", path).Msg("listing branch failed")
		return 0, 1
	}

	for _, name := range names {
		child, err := r.childPath(path, name)
		if err != nil {
			failed++
			r.log.Warn().Err(err).Str("path", path).Str("name", name).Msg("skipping suspicious entry")
			continue
		}
		if !r.store.Exists(child) {
			continue
		}

		if r.DryRun {
			removed++
			continue
		}
		if err := r.store.DeleteSubtree(child); err != nil {
			failed++
			r.log.Error().Err(err).Str("path", child).Msg("removing entry failed")
			continue
		}
		removed++
	}

	return removed, failed
}
