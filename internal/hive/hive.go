package hive

import (
	"fmt"
	"strings"
)

// Separator joins key names into paths, registry style.
const Separator = `\`

// Store is the capability set the sweeper needs from the hive.
//
// Absence is never an error: a missing key reads as non-existent, childless
// and valueless. Implementations return a *StoreError only when the store
// itself refuses an operation (permissions, corruption, unreachable).
type Store interface {
	// Exists reports whether a key exists at path.
	Exists(path string) bool

	// Children returns the names of the immediate subkeys of path, in the
	// store's enumeration order. A missing or childless key yields an empty
	// slice and no error.
	Children(path string) ([]string, error)

	// DWord reads a 32-bit value. ok is false when the value (or the key)
	// is not set.
	DWord(path, name string) (val uint32, ok bool, err error)

	// SetDWord writes a 32-bit value, creating the key if needed.
	// Overwriting an existing value is allowed and idempotent.
	SetDWord(path, name string, val uint32) error

	// DeleteSubtree removes the key at path and everything beneath it.
	// Deleting a path that does not exist is a no-op.
	DeleteSubtree(path string) error

	// CreateKey creates an empty key at path if absent. Idempotent.
	CreateKey(path string) error
}

// StoreError describes a store operation the hive refused.
type StoreError struct {
	Op   string // "children", "read", "write", "delete", "create"
	Path string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("hive: %s %q: %v", e.Op, e.Path, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Join concatenates path elements with the registry separator,
// skipping empty elements.
func Join(elems ...string) string {
	parts := make([]string, 0, len(elems))
	for _, e := range elems {
		e = strings.Trim(e, Separator)
		if e != "" {
			parts = append(parts, e)
		}
	}
	return strings.Join(parts, Separator)
}

// SplitPath breaks a path into its key names, dropping empty segments.
func SplitPath(path string) []string {
	var names []string
	for _, s := range strings.Split(path, Separator) {
		if s != "" {
			names = append(names, s)
		}
	}
	return names
}
