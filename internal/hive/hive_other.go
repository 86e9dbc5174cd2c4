//go:build !windows

package hive

import "errors"

// OpenSystem is only available on Windows; other platforms get an error so
// the CLI fails fast instead of pretending to sweep a store that isn't there.
func OpenSystem() (Store, error) {
	return nil, errors.New("the system registry hive is only available on windows")
}
