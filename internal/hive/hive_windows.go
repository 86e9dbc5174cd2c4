//go:build windows

package hive

import (
	"errors"

	"golang.org/x/sys/windows/registry"
)

// system is the live HKEY_LOCAL_MACHINE hive.
type system struct {
	root registry.Key
}

// OpenSystem opens the local machine hive and verifies it is reachable.
// Requires elevation for the paths this tool writes to.
func OpenSystem() (Store, error) {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, `SOFTWARE`, registry.QUERY_VALUE)
	if err != nil {
		return nil, &StoreError{Op: "open", Path: `HKLM\SOFTWARE`, Err: err}
	}
	k.Close()
	return &system{root: registry.LOCAL_MACHINE}, nil
}

// Exists implements Store.
func (s *system) Exists(path string) bool {
	k, err := registry.OpenKey(s.root, path, registry.QUERY_VALUE)
	if err != nil {
		return false
	}
	k.Close()
	return true
}

// Children implements Store.
func (s *system) Children(path string) ([]string, error) {
	k, err := registry.OpenKey(s.root, path, registry.ENUMERATE_SUB_KEYS|registry.QUERY_VALUE)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return nil, nil
		}
		return nil, &StoreError{Op: "children", Path: path, Err: err}
	}
	defer k.Close()

	names, err := k.ReadSubKeyNames(-1)
	if err != nil {
		return nil, &StoreError{Op: "children", Path: path, Err: err}
	}
	return names, nil
}

// DWord implements Store.
func (s *system) DWord(path, name string) (uint32, bool, error) {
	k, err := registry.OpenKey(s.root, path, registry.QUERY_VALUE)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return 0, false, nil
		}
		return 0, false, &StoreError{Op: "read", Path: path, Err: err}
	}
	defer k.Close()

	val, _, err := k.GetIntegerValue(name)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return 0, false, nil
		}
		return 0, false, &StoreError{Op: "read", Path: path, Err: err}
	}
	return uint32(val), true, nil
}

// SetDWord implements Store.
func (s *system) SetDWord(path, name string, val uint32) error {
	k, _, err := registry.CreateKey(s.root, path, registry.SET_VALUE)
	if err != nil {
		return &StoreError{Op: "write", Path: path, Err: err}
	}
	defer k.Close()

	if err := k.SetDWordValue(name, val); err != nil {
		return &StoreError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// DeleteSubtree implements Store.
// registry.DeleteKey only removes empty keys, so descendants are removed
// depth-first before the key itself.
func (s *system) DeleteSubtree(path string) error {
	if len(SplitPath(path)) == 0 {
		return &StoreError{Op: "delete", Path: path, Err: errRootDelete}
	}

	names, err := s.Children(path)
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := s.DeleteSubtree(Join(path, name)); err != nil {
			return err
		}
	}

	if err := registry.DeleteKey(s.root, path); err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return nil
		}
		return &StoreError{Op: "delete", Path: path, Err: err}
	}
	return nil
}

// CreateKey implements Store.
func (s *system) CreateKey(path string) error {
	k, _, err := registry.CreateKey(s.root, path, registry.QUERY_VALUE)
	if err != nil {
		return &StoreError{Op: "create", Path: path, Err: err}
	}
	k.Close()
	return nil
}
