// Package hive abstracts the hierarchical key/value store the sweeper
// operates on. On Windows the store is the local machine registry hive
// (HKEY_LOCAL_MACHINE); everywhere else only the in-memory implementation
// is available, which is what the tests run against.
//
// Paths are backslash-separated strings relative to the hive root, e.g.
// `SOFTWARE\Microsoft\Windows NT\CurrentVersion\Print`. Key and value
// names are matched case-insensitively, mirroring registry semantics.
package hive
