package hive

import (
	"errors"
	"strings"
)

var errRootDelete = errors.New("refusing to delete the hive root")

// Mem is an in-memory Store used by tests and dry runs in development.
// It mirrors registry semantics: key and value names are matched
// case-insensitively but keep the casing they were created with, and
// children enumerate in insertion order.
//
// The zero value is not usable; call NewMem.
type Mem struct {
	root *memKey

	// FailDeletes forces DeleteSubtree to fail for the given paths
	// (exact string match). Used to test partial-failure isolation.
	FailDeletes map[string]error

	// PhantomChildren appends extra names to Children results for the
	// given paths without backing keys. Used to test that the sweeper
	// re-validates names instead of trusting the listing.
	PhantomChildren map[string][]string
}

type memKey struct {
	name     string
	order    []string           // child names in insertion order, original casing
	children map[string]*memKey // keyed by lowercased name
	values   map[string]uint32  // keyed by lowercased name
}

func newMemKey(name string) *memKey {
	return &memKey{
		name:     name,
		children: make(map[string]*memKey),
		values:   make(map[string]uint32),
	}
}

// NewMem returns an empty in-memory hive.
func NewMem() *Mem {
	return &Mem{root: newMemKey("")}
}

// lookup walks path from the root. Returns nil when any segment is missing.
func (m *Mem) lookup(path string) *memKey {
	k := m.root
	for _, name := range SplitPath(path) {
		next, ok := k.children[strings.ToLower(name)]
		if !ok {
			return nil
		}
		k = next
	}
	return k
}

// ensure walks path from the root, creating missing keys along the way.
func (m *Mem) ensure(path string) *memKey {
	k := m.root
	for _, name := range SplitPath(path) {
		lower := strings.ToLower(name)
		next, ok := k.children[lower]
		if !ok {
			next = newMemKey(name)
			k.children[lower] = next
			k.order = append(k.order, name)
		}
		k = next
	}
	return k
}

// Exists implements Store.
func (m *Mem) Exists(path string) bool {
	return m.lookup(path) != nil
}

// Children implements Store.
func (m *Mem) Children(path string) ([]string, error) {
	var names []string
	if k := m.lookup(path); k != nil {
		names = append(names, k.order...)
	}
	names = append(names, m.PhantomChildren[path]...)
	return names, nil
}

// DWord implements Store.
func (m *Mem) DWord(path, name string) (uint32, bool, error) {
	k := m.lookup(path)
	if k == nil {
		return 0, false, nil
	}
	val, ok := k.values[strings.ToLower(name)]
	return val, ok, nil
}

// SetDWord implements Store.
func (m *Mem) SetDWord(path, name string, val uint32) error {
	m.ensure(path).values[strings.ToLower(name)] = val
	return nil
}

// DeleteSubtree implements Store.
func (m *Mem) DeleteSubtree(path string) error {
	if err, ok := m.FailDeletes[path]; ok {
		return &StoreError{Op: "delete", Path: path, Err: err}
	}

	names := SplitPath(path)
	if len(names) == 0 {
		// The hive root itself is not deletable; treat as a store refusal
		// so a guard bug surfaces as an error instead of silent data loss.
		return &StoreError{Op: "delete", Path: path, Err: errRootDelete}
	}

	parent := m.lookup(Join(names[:len(names)-1]...))
	if parent == nil {
		return nil
	}
	lower := strings.ToLower(names[len(names)-1])
	if _, ok := parent.children[lower]; !ok {
		return nil
	}
	delete(parent.children, lower)
	for i, n := range parent.order {
		if strings.ToLower(n) == lower {
			parent.order = append(parent.order[:i], parent.order[i+1:]...)
			break
		}
	}
	return nil
}

// CreateKey implements Store.
func (m *Mem) CreateKey(path string) error {
	m.ensure(path)
	return nil
}
