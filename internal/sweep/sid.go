package sweep

import "regexp"

// Domain account SIDs are S-1-5-21-<domain triplet>-<rid>. The provider
// names its per-user cache keys with exactly this shape; anything else
// under the root (the flag value's key, Servers, vendor keys) must be
// left alone, so the match is anchored and case-sensitive.
var profileSID = regexp.MustCompile(`^S-1-5-21-\d+-\d+-\d+-\d+$`)

// IsProfileSID reports whether name is a domain user SID string of the
// form the provider uses for per-user cache keys. Partial, prefixed or
// suffixed matches do not count.
func IsProfileSID(name string) bool {
	return profileSID.MatchString(name)
}
